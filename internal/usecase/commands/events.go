package commands

import (
	"context"
	"encoding/json"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"
)

func eventFromSession(s *booking.Session, now time.Time) notification.ReservationEvent {
	w := s.Window()
	return notification.ReservationEvent{
		ReservationID: s.ID(),
		MentorID:      s.MentorID(),
		MenteeID:      s.MenteeID(),
		Date:          w.DateString(),
		StartTime:     w.StartClock().String(),
		EndTime:       w.EndClock().String(),
		MeetingType:   s.MeetingType().String(),
		Status:        s.Status().String(),
		ExpiresAt:     s.ReservationExpires(),
		OccurredAt:    now,
	}
}

func eventFromSnapshot(snap shared.SessionSnapshot, status booking.ViewStatus, now time.Time) notification.ReservationEvent {
	return notification.ReservationEvent{
		ReservationID: snap.ID,
		MentorID:      snap.MentorID,
		MenteeID:      snap.MenteeID,
		Date:          snap.Date,
		StartTime:     snap.StartTime,
		EndTime:       snap.EndTime,
		MeetingType:   snap.MeetingType,
		Status:        status.String(),
		ExpiresAt:     snap.ReservationExpires,
		OccurredAt:    now,
	}
}

// enqueueEvent writes to the outbox in the caller's transaction; the job topic
// is the reservation id so a consumer sees one reservation's events in order.
func enqueueEvent(ctx context.Context, tx shared.Tx, kind notification.JobKind, ev notification.ReservationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errs.Wrap(err, "failed to encode notification payload")
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), string(kind), ev.ReservationID.String(), payload, ev.OccurredAt)
}

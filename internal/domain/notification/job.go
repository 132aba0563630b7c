package notification

import (
	"time"

	"github.com/google/uuid"
)

type JobKind string

const (
	JobReservationReserved  JobKind = "reservation_reserved"
	JobReservationConfirmed JobKind = "reservation_confirmed"
	JobReservationExpired   JobKind = "reservation_expired"
)

type JobStatus string

const (
	JobQueued JobStatus = "queued"
	JobSent   JobStatus = "sent"
	JobFailed JobStatus = "failed"
)

// ReservationEvent is the payload fanned out to the email and push transports.
type ReservationEvent struct {
	ReservationID uuid.UUID  `json:"reservationId"`
	MentorID      uuid.UUID  `json:"mentorId"`
	MenteeID      uuid.UUID  `json:"menteeId"`
	Date          string     `json:"date"`
	StartTime     string     `json:"startTime"`
	EndTime       string     `json:"endTime"`
	MeetingType   string     `json:"meetingType"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

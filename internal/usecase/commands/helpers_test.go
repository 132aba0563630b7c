//go:build unit

package commands_test

import (
	"log/slog"
	"time"

	"mentor-booking/tests/common/memstore"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// hold seeds a reserved row for the mentor whose expiry is expires.
// Each hold gets its own hour on 2024-01-11 so holds never overlap.
func hold(store *memstore.Store, mentorID uuid.UUID, hour int, expires time.Time) uuid.UUID {
	start := time.Date(2024, 1, 11, hour, 0, 0, 0, time.UTC)
	row := memstore.SessionRow{
		ID:                 uuid.New(),
		MentorID:           mentorID,
		MenteeID:           uuid.New(),
		Date:               "2024-01-11",
		StartTime:          start.Format("15:04"),
		EndTime:            start.Add(time.Hour).Format("15:04"),
		Start:              start,
		End:                start.Add(time.Hour),
		MeetingType:        "chat",
		Status:             "reserved",
		PriceCents:         50000,
		ReservationExpires: &expires,
		CreatedAt:          expires.Add(-15 * time.Minute),
		UpdatedAt:          expires.Add(-15 * time.Minute),
	}
	store.PutSession(row)
	return row.ID
}

func confirmed(store *memstore.Store, mentorID uuid.UUID, hour int) uuid.UUID {
	id := hold(store, mentorID, hour, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	row, _ := store.Session(id)
	paymentID := "pay_" + id.String()
	row.Status = "confirmed"
	row.ReservationExpires = nil
	row.PaymentID = &paymentID
	store.PutSession(row)
	return id
}

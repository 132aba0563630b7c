package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshot for command read operations
type SessionSnapshot struct {
	ID                 uuid.UUID
	MentorID           uuid.UUID
	MenteeID           uuid.UUID
	Date               string
	StartTime          string
	EndTime            string
	MeetingType        string
	Status             string
	ReservationExpires *time.Time
}

// ReclaimedHold is what survives of a lapsed hold once it has been deleted.
type ReclaimedHold struct {
	ID          uuid.UUID
	MentorID    uuid.UUID
	MenteeID    uuid.UUID
	ReclaimedAt time.Time
}

type UserSnapshot struct {
	ID       uuid.UUID
	Role     string
	IsActive bool
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
}

// SweepResult keeps extendedCount for callers that expect it; holds are only ever deleted.
type SweepResult struct {
	DeletedCount  int `json:"deletedCount"`
	ExtendedCount int `json:"extendedCount"`
}

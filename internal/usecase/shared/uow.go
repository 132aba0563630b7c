package shared

import (
	"context"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Sessions() SessionRepository
	Notifications() NotificationRepository
	Users() UserRepository
	PushSubscriptions() PushSubscriptionRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	SessionByID(ctx context.Context, id uuid.UUID) (*SessionSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	LapsedSessionIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error)
	// ReclaimedHold finds the expiry record of a hold that was deleted after
	// lapsing; nil when the id never belonged to a reclaimed hold.
	ReclaimedHold(ctx context.Context, id uuid.UUID) (*ReclaimedHold, error)
}

type SessionRepository interface {
	Create(ctx context.Context, tx db.DBTX, s *booking.Session) error
	// PurgeLapsedOverlapping deletes the mentor's expired holds that overlap [start, end).
	PurgeLapsedOverlapping(ctx context.Context, tx db.DBTX, mentorID uuid.UUID, start, end, now time.Time) ([]SessionSnapshot, error)
	// ConfirmReserved reports false when the row is not a live hold at now.
	ConfirmReserved(ctx context.Context, tx db.DBTX, id uuid.UUID, paymentID string, now time.Time) (bool, error)
	// DeleteLapsed returns nil when the row was already gone or no longer lapsed.
	DeleteLapsed(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (*SessionSnapshot, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]NotificationJob, error)
	MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, retryAt *time.Time, now time.Time) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error
}

type PushSubscriptionRepository interface {
	Upsert(ctx context.Context, tx db.DBTX, sub *notification.PushSubscription) error
	Delete(ctx context.Context, tx db.DBTX, userID uuid.UUID, endpoint string) (bool, error)
}

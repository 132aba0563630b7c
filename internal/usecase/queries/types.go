package queries

import (
	"time"

	"mentor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrReservationAccess   = errs.New("reservation access denied")
	ErrUserNotFound        = errs.New("account not found")
	ErrUserInactive        = errs.New("account inactive")
	ErrInvalidCursor       = errs.New("invalid cursor")
)

// ReservationView is the read model of a mentoring session. Status is the
// stored status until a query applies the lazy expiry view to it.
type ReservationView struct {
	ID                 uuid.UUID  `json:"id"`
	MentorID           uuid.UUID  `json:"mentor_id"`
	MentorEmail        string     `json:"mentor_email"`
	MenteeID           uuid.UUID  `json:"mentee_id"`
	MenteeEmail        string     `json:"mentee_email"`
	Date               string     `json:"date"`
	StartTime          string     `json:"start_time"`
	EndTime            string     `json:"end_time"`
	MeetingType        string     `json:"meeting_type"`
	Status             string     `json:"status"`
	PriceCents         int64      `json:"price_cents"`
	ReservationExpires *time.Time `json:"reservation_expires,omitempty"`
	PaymentID          *string    `json:"payment_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type ReservationStatusView struct {
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

package booking

import (
	"time"

	"mentor-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type Services struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

// Session is a mentoring session from hold to completion.
// reservationExpires is set only while the session is reserved.
type Session struct {
	id                 uuid.UUID
	mentorID           uuid.UUID
	menteeID           uuid.UUID
	window             TimeWindow
	meetingType        MeetingType
	status             Status
	price              Money
	reservationExpires *time.Time
	paymentID          *string
	createdAt          time.Time
	updatedAt          time.Time
}

// NewReservation places a hold on the window. A nil price is computed by the
// price calculator and fixed for the lifetime of the session.
func NewReservation(
	services *Services,
	mentorID, menteeID uuid.UUID,
	window TimeWindow,
	meetingType MeetingType,
	price *Money,
	ttl time.Duration,
) (*Session, error) {
	if mentorID == uuid.Nil || menteeID == uuid.Nil {
		return nil, ErrMissingParticipants
	}
	if mentorID == menteeID {
		return nil, ErrSelfBooking
	}
	if !meetingType.IsValid() {
		return nil, ErrInvalidMeetingType
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	now := services.Clock.Now()
	if err := window.ValidateBookableAt(now); err != nil {
		return nil, err
	}

	var agreed Money
	if price != nil {
		agreed = *price
	} else {
		m, err := NewMoney(services.PriceCalculator.CalculatePriceCents(meetingType, window))
		if err != nil {
			return nil, err
		}
		agreed = m
	}

	expires := now.Add(ttl)
	return &Session{
		id:                 uuid.New(),
		mentorID:           mentorID,
		menteeID:           menteeID,
		window:             window,
		meetingType:        meetingType,
		status:             StatusReserved,
		price:              agreed,
		reservationExpires: &expires,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

func ReconstructSession(
	id, mentorID, menteeID uuid.UUID,
	window TimeWindow,
	meetingType MeetingType,
	status Status,
	price Money,
	reservationExpires *time.Time,
	paymentID *string,
	createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:                 id,
		mentorID:           mentorID,
		menteeID:           menteeID,
		window:             window,
		meetingType:        meetingType,
		status:             status,
		price:              price,
		reservationExpires: reservationExpires,
		paymentID:          paymentID,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// IsExpiredAt reports whether an unconfirmed hold has lapsed.
func (s *Session) IsExpiredAt(now time.Time) bool {
	return holdLapsed(s.status, s.reservationExpires, now)
}

// ViewStatus is the lazy read view: it never mutates the session.
func (s *Session) ViewStatus(now time.Time) ViewStatus {
	return LazyStatus(s.status, s.reservationExpires, now)
}

// LazyStatus reports a reserved session whose expiry is at or before now as
// expired, whether or not the sweeper has removed it yet.
func LazyStatus(stored Status, reservationExpires *time.Time, now time.Time) ViewStatus {
	if holdLapsed(stored, reservationExpires, now) {
		return ViewExpired
	}
	return ViewStatus(stored)
}

func holdLapsed(status Status, expires *time.Time, now time.Time) bool {
	return status == StatusReserved && expires != nil && !expires.After(now)
}

func (s *Session) Confirm(paymentID string, now time.Time) error {
	if paymentID == "" {
		return ErrPaymentIDRequired
	}
	switch {
	case s.status == StatusConfirmed:
		return ErrAlreadyConfirmed
	case s.status != StatusReserved:
		return ErrInvalidTransition
	case s.IsExpiredAt(now):
		return ErrReservationExpired
	}
	s.status = StatusConfirmed
	s.reservationExpires = nil
	s.paymentID = &paymentID
	s.updatedAt = now
	return nil
}

func (s *Session) Cancel(now time.Time) error {
	if !CanTransition(s.status, StatusCancelled) || s.IsExpiredAt(now) {
		return ErrInvalidTransition
	}
	s.status = StatusCancelled
	s.reservationExpires = nil
	s.updatedAt = now
	return nil
}

func (s *Session) Complete(now time.Time) error {
	if !CanTransition(s.status, StatusCompleted) {
		return ErrInvalidTransition
	}
	s.status = StatusCompleted
	s.updatedAt = now
	return nil
}

// IsParticipant reports whether userID is the mentee or the mentor.
func (s *Session) IsParticipant(userID uuid.UUID) bool {
	return userID == s.menteeID || userID == s.mentorID
}

func (s *Session) ID() uuid.UUID                  { return s.id }
func (s *Session) MentorID() uuid.UUID            { return s.mentorID }
func (s *Session) MenteeID() uuid.UUID            { return s.menteeID }
func (s *Session) Window() TimeWindow             { return s.window }
func (s *Session) MeetingType() MeetingType       { return s.meetingType }
func (s *Session) Status() Status                 { return s.status }
func (s *Session) Price() Money                   { return s.price }
func (s *Session) ReservationExpires() *time.Time { return s.reservationExpires }
func (s *Session) PaymentID() *string             { return s.paymentID }
func (s *Session) CreatedAt() time.Time           { return s.createdAt }
func (s *Session) UpdatedAt() time.Time           { return s.updatedAt }

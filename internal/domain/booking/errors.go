package booking

import "errors"

var (
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidClockTime    = errors.New("invalid time, expected HH:MM")
	ErrInvalidTimeWindow   = errors.New("start time must be before end time")
	ErrDateInPast          = errors.New("date must not be in the past")
	ErrSlotStarted         = errors.New("slot has already started")
	ErrSelfBooking         = errors.New("mentee and mentor must be different users")
	ErrInvalidTTL          = errors.New("reservation ttl must be positive")
	ErrNegativePrice       = errors.New("price cannot be negative")
	ErrInvalidStatus       = errors.New("invalid session status")
	ErrInvalidMeetingType  = errors.New("meeting type must be one of chat, video, call")
	ErrPaymentIDRequired   = errors.New("payment id is required")
	ErrReservationExpired  = errors.New("reservation has expired")
	ErrAlreadyConfirmed    = errors.New("reservation is already confirmed")
	ErrInvalidTransition   = errors.New("invalid session status transition")
	ErrMissingParticipants = errors.New("mentor and mentee are required")
)

//go:build unit || e2e

package builder

import (
	"time"
	_ "time/tzdata"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

// BookingLocation is the wall-clock zone every fixture slot is written in.
var BookingLocation = mustLoadLocation("Asia/Kolkata")

// FixedNow is 2024-01-10 09:00 in BookingLocation, a few hours before the default slot.
var FixedNow = time.Date(2024, 1, 10, 9, 0, 0, 0, BookingLocation)

type SessionBuilder struct {
	MentorID    uuid.UUID
	MenteeID    uuid.UUID
	Date        string
	StartTime   string
	EndTime     string
	MeetingType string
	PriceCents  *int64
	TTL         time.Duration
	Now         time.Time
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		MentorID:    uuid.New(),
		MenteeID:    uuid.New(),
		Date:        "2024-01-10",
		StartTime:   "14:00",
		EndTime:     "15:00",
		MeetingType: "video",
		TTL:         15 * time.Minute,
		Now:         FixedNow,
	}
}

func (s *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	mutate(s)
	return s
}

// Build methods
func (s *SessionBuilder) BuildWindow() (booking.TimeWindow, error) {
	return booking.NewTimeWindow(s.Date, s.StartTime, s.EndTime, BookingLocation)
}

func (s *SessionBuilder) BuildDomain() (*booking.Session, error) {
	window, err := s.BuildWindow()
	if err != nil {
		return nil, err
	}
	meetingType, err := booking.NewMeetingType(s.MeetingType)
	if err != nil {
		return nil, err
	}
	var price *booking.Money
	if s.PriceCents != nil {
		m, err := booking.NewMoney(*s.PriceCents)
		if err != nil {
			return nil, err
		}
		price = &m
	}
	services := &booking.Services{
		Clock:           clock.NewMockClock(s.Now),
		PriceCalculator: booking.NewHourlyRateCalculator(50000, 100000, 80000),
	}
	return booking.NewReservation(services, s.MentorID, s.MenteeID, window, meetingType, price, s.TTL)
}

// Fluent builder methods
func (s *SessionBuilder) WithMentor(id uuid.UUID) *SessionBuilder {
	s.MentorID = id
	return s
}

func (s *SessionBuilder) WithMentee(id uuid.UUID) *SessionBuilder {
	s.MenteeID = id
	return s
}

func (s *SessionBuilder) WithSlot(date, start, end string) *SessionBuilder {
	s.Date = date
	s.StartTime = start
	s.EndTime = end
	return s
}

func (s *SessionBuilder) WithMeetingType(mt string) *SessionBuilder {
	s.MeetingType = mt
	return s
}

func (s *SessionBuilder) WithPriceCents(cents int64) *SessionBuilder {
	s.PriceCents = &cents
	return s
}

func (s *SessionBuilder) WithTTL(ttl time.Duration) *SessionBuilder {
	s.TTL = ttl
	return s
}

func (s *SessionBuilder) At(now time.Time) *SessionBuilder {
	s.Now = now
	return s
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

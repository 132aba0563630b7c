package booking

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	minutes int
}

func ParseClockTime(s string) (ClockTime, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return ClockTime{minutes: h*60 + mm}, nil
}

func (c ClockTime) Minutes() int { return c.minutes }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

// TimeWindow is a mentor slot: a calendar date plus a [start, end) wall-clock
// range interpreted in a fixed location.
type TimeWindow struct {
	date  time.Time
	start ClockTime
	end   ClockTime
	loc   *time.Location
}

func NewTimeWindow(date, start, end string, loc *time.Location) (TimeWindow, error) {
	if loc == nil {
		return TimeWindow{}, errors.New("time window requires a location")
	}
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	st, err := ParseClockTime(start)
	if err != nil {
		return TimeWindow{}, err
	}
	en, err := ParseClockTime(end)
	if err != nil {
		return TimeWindow{}, err
	}
	if st.minutes >= en.minutes {
		return TimeWindow{}, ErrInvalidTimeWindow
	}
	return TimeWindow{date: d, start: st, end: en, loc: loc}, nil
}

// ReconstructTimeWindow rebuilds a window from stored columns without re-validating.
func ReconstructTimeWindow(date time.Time, startMinutes, endMinutes int, loc *time.Location) TimeWindow {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return TimeWindow{
		date:  d,
		start: ClockTime{minutes: startMinutes},
		end:   ClockTime{minutes: endMinutes},
		loc:   loc,
	}
}

func (w TimeWindow) Date() time.Time          { return w.date }
func (w TimeWindow) DateString() string       { return w.date.Format(dateLayout) }
func (w TimeWindow) StartClock() ClockTime    { return w.start }
func (w TimeWindow) EndClock() ClockTime      { return w.end }
func (w TimeWindow) Location() *time.Location { return w.loc }

func (w TimeWindow) Start() time.Time { return w.at(w.start) }
func (w TimeWindow) End() time.Time   { return w.at(w.end) }

// at resolves a wall-clock time on the window's date. Adding minutes to
// midnight would drift by an hour on days the zone changes offset.
func (w TimeWindow) at(c ClockTime) time.Time {
	y, m, d := w.date.Date()
	return time.Date(y, m, d, c.minutes/60, c.minutes%60, 0, 0, w.loc)
}

func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w.end.minutes-w.start.minutes) * time.Minute
}

// Overlaps uses half-open semantics: back-to-back windows do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start().Before(other.End()) && other.Start().Before(w.End())
}

// ValidateDateNotPast rejects windows whose calendar date is before today in the window's location.
func (w TimeWindow) ValidateDateNotPast(now time.Time) error {
	local := now.In(w.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, w.loc)
	if w.date.Before(today) {
		return ErrDateInPast
	}
	return nil
}

// ValidateBookableAt additionally rejects a slot that has already started.
func (w TimeWindow) ValidateBookableAt(now time.Time) error {
	if err := w.ValidateDateNotPast(now); err != nil {
		return err
	}
	if !w.Start().After(now) {
		return ErrSlotStarted
	}
	return nil
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s %s-%s", w.DateString(), w.start, w.end)
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

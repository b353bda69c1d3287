package booking

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "11:00"

	millisPerDay = 24 * 60 * 60 * 1000
)

// Interval is a half-open stay [CheckIn, CheckOut)
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Validate returns ErrInvalidRange unless CheckIn is strictly before CheckOut
func (i Interval) Validate() error {
	if !i.CheckIn.Before(i.CheckOut) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints (one ends exactly when the other starts) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return o.CheckIn.Before(i.CheckOut) && o.CheckOut.After(i.CheckIn)
}

// Days is the fractional length in days, from whole milliseconds
func (i Interval) Days() float64 {
	return float64(i.CheckOut.Sub(i.CheckIn).Milliseconds()) / millisPerDay
}

// Cost prices the interval at pricePerDay, pro rata
func (i Interval) Cost(pricePerDay float64) float64 {
	return i.Days() * pricePerDay
}

// Combine builds the instant at the given wall clock on the given calendar
// date in loc. date is YYYY-MM-DD or an RFC3339 timestamp whose calendar
// date (seen from loc) is used; clock is H:MM or HH:MM in 24h.
func Combine(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	day, err := parseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

func parseDate(date string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	if t, err := time.ParseInLocation(time.DateOnly, date, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, ErrInvalidDateFormat
}

func parseClock(clock string) (int, int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, 0, ErrInvalidTimeFormat
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidTimeFormat
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidTimeFormat
	}
	return hour, minute, nil
}

// NewInterval combines dates and clocks into a validated Interval. Empty
// clocks fall back to defaultIn / defaultOut.
func NewInterval(checkInDate, checkInTime, checkOutDate, checkOutTime string, defaultIn, defaultOut string, loc *time.Location) (Interval, error) {
	if checkInTime == "" {
		checkInTime = defaultIn
	}
	if checkOutTime == "" {
		checkOutTime = defaultOut
	}

	in, err := Combine(checkInDate, checkInTime, loc)
	if err != nil {
		return Interval{}, err
	}
	out, err := Combine(checkOutDate, checkOutTime, loc)
	if err != nil {
		return Interval{}, err
	}

	iv := Interval{CheckIn: in, CheckOut: out}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

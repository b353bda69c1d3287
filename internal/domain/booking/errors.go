package booking

import "errors"

var (
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
	ErrInvalidRange      = errors.New("check-out date/time must be after check-in date/time")
	ErrPastBooking       = errors.New("cannot book in the past")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomUnavailable   = errors.New("room is not available for the selected dates/times")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNotPending        = errors.New("booking is not in a pending state")
	ErrForbidden         = errors.New("access denied")
	ErrActiveBooking     = errors.New("cannot delete an active or completed booking")
)

// ConflictError carries the confirmed bookings that overlap a requested interval
type ConflictError struct {
	Conflicts []*Booking
}

func (e *ConflictError) Error() string {
	return ErrRoomUnavailable.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrRoomUnavailable
}

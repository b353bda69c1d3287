package room

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomHasBookings = errors.New("room has bookings and cannot be deleted")
)

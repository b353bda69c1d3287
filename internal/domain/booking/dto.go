package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/domain/room"
)

// StayWindow is the requested stay as calendar dates plus optional wall clocks
type StayWindow struct {
	CheckInDate  string `json:"checkInDate" validate:"required,date"`
	CheckInTime  string `json:"checkInTime" validate:"omitempty,clock"`
	CheckOutDate string `json:"checkOutDate" validate:"required,date"`
	CheckOutTime string `json:"checkOutTime" validate:"omitempty,clock"`
}

// CreateBookingRequest is the body of POST /bookings and POST /bookings/calculate
type CreateBookingRequest struct {
	RoomID string `json:"roomId" validate:"required,uuid"`
	StayWindow
}

// Guest is the public view of the user who made a booking
type Guest struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// BookingDetails is a booking with its derived duration and related entities
type BookingDetails struct {
	Booking
	DurationInDays float64    `json:"durationInDays"`
	RoomPrice      *float64   `json:"roomPrice,omitempty"`
	Room           *room.Room `json:"room,omitempty"`
	Guest          *Guest     `json:"user,omitempty"`
}

// CostQuote is the price of a stay without reserving anything
type CostQuote struct {
	RoomID         uuid.UUID `json:"roomId"`
	RoomName       string    `json:"roomName"`
	RoomPrice      float64   `json:"roomPrice"`
	CheckInDate    time.Time `json:"checkInDate"`
	CheckOutDate   time.Time `json:"checkOutDate"`
	DurationInDays float64   `json:"durationInDays"`
	TotalCost      float64   `json:"totalCost"`
}

func newDetails(b *Booking) *BookingDetails {
	return &BookingDetails{Booking: *b, DurationInDays: b.Interval().Days()}
}

package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status is the booking lifecycle state (matches booking_status check constraint)
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Booking represents a room reservation (matches bookings table)
type Booking struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	RoomID    uuid.UUID `db:"room_id" json:"roomId"`
	CheckIn   time.Time `db:"check_in" json:"checkInDate"`
	CheckOut  time.Time `db:"check_out" json:"checkOutDate"`
	Status    Status    `db:"status" json:"status"`
	TotalCost float64   `db:"total_cost" json:"totalCost"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Interval returns the occupied half-open range [CheckIn, CheckOut)
func (b *Booking) Interval() Interval {
	return Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// IsPending returns true if an admin decision is still outstanding
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// CanManage reports whether the principal owns the booking or is an admin
func (b *Booking) CanManage(userID uuid.UUID, isAdmin bool) bool {
	return isAdmin || b.UserID == userID
}

// CheckDeletable enforces the hard-delete rules: owner or admin only, and
// confirmed stays that already started can no longer be removed.
func (b *Booking) CheckDeletable(userID uuid.UUID, isAdmin bool, now time.Time) error {
	if !b.CanManage(userID, isAdmin) {
		return ErrForbidden
	}
	if b.Status == StatusConfirmed && !b.CheckIn.After(now) {
		return ErrActiveBooking
	}
	return nil
}

// EventType names a lifecycle transition; it doubles as the AMQP routing key
type EventType string

const (
	EventCreated   EventType = "booking.created"
	EventApproved  EventType = "booking.approved"
	EventRejected  EventType = "booking.rejected"
	EventCancelled EventType = "booking.cancelled"
	EventDeleted   EventType = "booking.deleted"
)

// Event is emitted after every successful lifecycle transition
type Event struct {
	Type       EventType `json:"type"`
	BookingID  uuid.UUID `json:"bookingId"`
	UserID     uuid.UUID `json:"userId"`
	RoomID     uuid.UUID `json:"roomId"`
	Status     Status    `json:"status"`
	CheckIn    time.Time `json:"checkInDate"`
	CheckOut   time.Time `json:"checkOutDate"`
	TotalCost  float64   `json:"totalCost"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newEvent(t EventType, b *Booking, at time.Time) Event {
	return Event{
		Type:       t,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		Status:     b.Status,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		TotalCost:  b.TotalCost,
		OccurredAt: at,
	}
}

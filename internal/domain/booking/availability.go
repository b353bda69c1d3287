package booking

import (
	"context"

	"github.com/google/uuid"
)

// ConflictFinder returns the confirmed bookings of a room that overlap iv,
// leaving out excludeID when set
type ConflictFinder interface {
	FindConflicts(ctx context.Context, roomID uuid.UUID, iv Interval, excludeID *uuid.UUID) ([]*Booking, error)
}

// Availability answers whether a room is free over an interval. Only
// confirmed bookings block; pending, rejected and cancelled never do.
type Availability struct {
	finder ConflictFinder
}

// NewAvailability creates an availability checker over finder
func NewAvailability(finder ConflictFinder) *Availability {
	return &Availability{finder: finder}
}

// Conflicts lists the blocking bookings
func (a *Availability) Conflicts(ctx context.Context, roomID uuid.UUID, iv Interval, excludeID *uuid.UUID) ([]*Booking, error) {
	return a.finder.FindConflicts(ctx, roomID, iv, excludeID)
}

// IsAvailable reports whether no confirmed booking overlaps iv
func (a *Availability) IsAvailable(ctx context.Context, roomID uuid.UUID, iv Interval, excludeID *uuid.UUID) (bool, error) {
	conflicts, err := a.Conflicts(ctx, roomID, iv, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// Overlapping filters bookings with the same rule the repository applies in SQL
func Overlapping(bookings []*Booking, roomID uuid.UUID, iv Interval, excludeID *uuid.UUID) []*Booking {
	var out []*Booking
	for _, b := range bookings {
		if b.RoomID != roomID || b.Status != StatusConfirmed {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Interval().Overlaps(iv) {
			out = append(out, b)
		}
	}
	return out
}

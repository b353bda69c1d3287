package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/domain/room"
	"github.com/hotelbook/hotel-api/internal/pkg/logger"
)

// RoomCatalog looks up rooms; it returns room.ErrRoomNotFound for unknown ids
type RoomCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*room.Room, error)
}

// GuestDirectory resolves the user behind a booking; nil when the account is gone
type GuestDirectory interface {
	GetGuest(ctx context.Context, id uuid.UUID) (*Guest, error)
}

// EventPublisher receives lifecycle events after they are committed
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Config holds booking rules that vary per deployment
type Config struct {
	Location            *time.Location
	DefaultCheckInTime  string
	DefaultCheckOutTime string
}

// Service handles booking business logic
type Service struct {
	repo   Repository
	rooms  RoomCatalog
	guests GuestDirectory
	events EventPublisher
	config Config
	now    func() time.Time
}

// NewService creates booking service. guests and events may be nil.
func NewService(repo Repository, rooms RoomCatalog, guests GuestDirectory, events EventPublisher, config Config) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.DefaultCheckInTime == "" {
		config.DefaultCheckInTime = DefaultCheckInTime
	}
	if config.DefaultCheckOutTime == "" {
		config.DefaultCheckOutTime = DefaultCheckOutTime
	}

	return &Service{
		repo:   repo,
		rooms:  rooms,
		guests: guests,
		events: events,
		config: config,
		now:    time.Now,
	}
}

func (s *Service) interval(w StayWindow) (Interval, error) {
	return NewInterval(
		w.CheckInDate, w.CheckInTime,
		w.CheckOutDate, w.CheckOutTime,
		s.config.DefaultCheckInTime, s.config.DefaultCheckOutTime,
		s.config.Location,
	)
}

func (s *Service) room(ctx context.Context, rawID string) (*room.Room, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrRoomNotFound
	}

	rm, err := s.rooms.GetByID(ctx, id)
	if errors.Is(err, room.ErrRoomNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// Create requests a stay. The booking starts pending and only blocks the
// room once an admin approves it.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*BookingDetails, error) {
	iv, err := s.interval(req.StayWindow)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if iv.CheckIn.Before(now) {
		return nil, ErrPastBooking
	}

	rm, err := s.room(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:        uuid.New(),
		UserID:    userID,
		RoomID:    rm.ID,
		CheckIn:   iv.CheckIn,
		CheckOut:  iv.CheckOut,
		Status:    StatusPending,
		TotalCost: iv.Cost(rm.Price),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.WithRoomLock(ctx, rm.ID, func(repo Repository) error {
		conflicts, err := NewAvailability(repo).Conflicts(ctx, rm.ID, iv, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
		return repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "booking requested",
		"booking_id", b.ID.String(),
		"room_id", rm.ID.String(),
		"user_id", userID.String(),
	)
	s.publish(ctx, EventCreated, b)

	details := newDetails(b)
	price := rm.Price
	details.RoomPrice = &price
	details.Room = rm
	return details, nil
}

// Calculate quotes a stay without checking availability or persisting anything
func (s *Service) Calculate(ctx context.Context, req *CreateBookingRequest) (*CostQuote, error) {
	rm, err := s.room(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	iv, err := s.interval(req.StayWindow)
	if err != nil {
		return nil, err
	}

	return &CostQuote{
		RoomID:         rm.ID,
		RoomName:       rm.Name,
		RoomPrice:      rm.Price,
		CheckInDate:    iv.CheckIn,
		CheckOutDate:   iv.CheckOut,
		DurationInDays: iv.Days(),
		TotalCost:      iv.Cost(rm.Price),
	}, nil
}

// ListForUser returns the caller's bookings, newest first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*BookingDetails, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, bookings)
}

// ListAll returns every booking, newest first
func (s *Service) ListAll(ctx context.Context) ([]*BookingDetails, error) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, bookings)
}

// Approve confirms a pending booking after re-checking availability under
// the room lock; confirmed bookings added since creation may now collide.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*BookingDetails, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsPending() {
		return nil, ErrNotPending
	}

	err = s.repo.WithRoomLock(ctx, b.RoomID, func(repo Repository) error {
		conflicts, err := NewAvailability(repo).Conflicts(ctx, b.RoomID, b.Interval(), &b.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}

		changed, err := repo.UpdateStatus(ctx, b.ID, StatusConfirmed, StatusPending)
		if err != nil {
			return err
		}
		if !changed {
			return ErrNotPending
		}
		return nil
	})
	if err != nil {
		return nil, s.withConflicts(ctx, err, b, b.Interval())
	}

	b.Status = StatusConfirmed
	b.UpdatedAt = s.now()
	s.publish(ctx, EventApproved, b)
	return s.enrichOne(ctx, b), nil
}

// Reject declines a pending booking
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*BookingDetails, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsPending() {
		return nil, ErrNotPending
	}

	changed, err := s.repo.UpdateStatus(ctx, b.ID, StatusRejected, StatusPending)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrNotPending
	}

	b.Status = StatusRejected
	b.UpdatedAt = s.now()
	s.publish(ctx, EventRejected, b)
	return s.enrichOne(ctx, b), nil
}

// Cancel moves a booking to cancelled whatever its current status; pending,
// confirmed, rejected and already cancelled bookings are all accepted. The
// caller must own the booking or be an admin, otherwise ErrForbidden is
// returned and nothing changes.
func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*BookingDetails, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.CanManage(userID, isAdmin) {
		return nil, ErrForbidden
	}

	changed, err := s.repo.UpdateStatus(ctx, b.ID, StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrBookingNotFound
	}

	b.Status = StatusCancelled
	b.UpdatedAt = s.now()
	s.publish(ctx, EventCancelled, b)
	return newDetails(b), nil
}

// Delete hard-deletes a booking and returns what was removed
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*BookingDetails, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.CheckDeletable(userID, isAdmin, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, b.ID); err != nil {
		return nil, err
	}

	s.publish(ctx, EventDeleted, b)
	return newDetails(b), nil
}

// withConflicts turns an overlap rejected by the bookings_no_overlap
// constraint into a ConflictError listing the confirmed bookings that won
func (s *Service) withConflicts(ctx context.Context, err error, b *Booking, iv Interval) error {
	var conflict *ConflictError
	if !errors.Is(err, ErrRoomUnavailable) || errors.As(err, &conflict) {
		return err
	}
	conflicts, qerr := NewAvailability(s.repo).Conflicts(ctx, b.RoomID, iv, &b.ID)
	if qerr != nil || len(conflicts) == 0 {
		return err
	}
	return &ConflictError{Conflicts: conflicts}
}

func (s *Service) publish(ctx context.Context, t EventType, b *Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, newEvent(t, b, s.now())); err != nil {
		logger.LogWarn(ctx, "booking event publish failed",
			"event", string(t),
			"booking_id", b.ID.String(),
			"error", err.Error(),
		)
	}
}

func (s *Service) enrichOne(ctx context.Context, b *Booking) *BookingDetails {
	details, err := s.enrich(ctx, []*Booking{b})
	if err != nil || len(details) == 0 {
		return newDetails(b)
	}
	return details[0]
}

// enrich attaches room and guest to each booking, fetching each id once
func (s *Service) enrich(ctx context.Context, bookings []*Booking) ([]*BookingDetails, error) {
	rooms := make(map[uuid.UUID]*room.Room)
	guests := make(map[uuid.UUID]*Guest)

	out := make([]*BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		d := newDetails(b)

		rm, seen := rooms[b.RoomID]
		if !seen {
			var err error
			rm, err = s.rooms.GetByID(ctx, b.RoomID)
			if err != nil && !errors.Is(err, room.ErrRoomNotFound) {
				return nil, err
			}
			rooms[b.RoomID] = rm
		}
		d.Room = rm

		if s.guests != nil {
			g, seen := guests[b.UserID]
			if !seen {
				var err error
				g, err = s.guests.GetGuest(ctx, b.UserID)
				if err != nil {
					return nil, err
				}
				guests[b.UserID] = g
			}
			d.Guest = g
		}

		out = append(out, d)
	}
	return out, nil
}

package room

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service handles room catalog business logic
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates new room service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns every room, newest first
func (s *Service) List(ctx context.Context) ([]*Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []*Room{}
	}
	return rooms, nil
}

// GetByID returns a room or ErrRoomNotFound
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Create adds a room to the catalog
func (s *Service) Create(ctx context.Context, req *CreateRoomRequest) (*Room, error) {
	now := s.now()
	room := &Room{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   true,
		Images:      nonNil(req.Images),
		RoomType:    RoomType(req.RoomType),
		Capacity:    req.Capacity,
		Amenities:   nonNil(req.Amenities),
		FloorLevel:  req.FloorLevel,
		BedType:     BedType(req.BedType),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Available != nil {
		room.Available = *req.Available
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Update applies a partial update to an existing room
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRoomRequest) (*Room, error) {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(room)
	room.Images = nonNil(room.Images)
	room.Amenities = nonNil(room.Amenities)
	room.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a room. Rooms referenced by bookings return ErrRoomHasBookings.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

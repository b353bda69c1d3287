package room

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu        sync.Mutex
	rooms     map[uuid.UUID]*Room
	withBooks map[uuid.UUID]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rooms: map[uuid.UUID]*Room{}, withBooks: map[uuid.UUID]bool{}}
}

func (m *memoryRepo) Create(ctx context.Context, room *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *room
	m.rooms[room.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (m *memoryRepo) List(ctx context.Context) ([]*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Room
	for _, room := range m.rooms {
		cp := *room
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryRepo) Update(ctx context.Context, room *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.ID]; !ok {
		return ErrRoomNotFound
	}
	cp := *room
	m.rooms[room.ID] = &cp
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return ErrRoomNotFound
	}
	if m.withBooks[id] {
		return ErrRoomHasBookings
	}
	delete(m.rooms, id)
	return nil
}

func validCreateRequest() *CreateRoomRequest {
	return &CreateRoomRequest{
		Name:        "Sea View",
		Description: "Corner room",
		Price:       120,
		RoomType:    "Double",
		Capacity:    2,
		FloorLevel:  "3",
		BedType:     "Queen",
	}
}

func TestServiceCreateDefaults(t *testing.T) {
	svc := NewService(newMemoryRepo())

	room, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !room.Available {
		t.Fatal("expected new room to be available by default")
	}
	if room.Images == nil || room.Amenities == nil {
		t.Fatal("expected empty arrays instead of nil")
	}
	if room.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	room, err := svc.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	price := 150.0
	updated, err := svc.Update(ctx, room.ID, &UpdateRoomRequest{Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 150 {
		t.Fatalf("expected price 150, got %v", updated.Price)
	}
	if updated.Name != "Sea View" {
		t.Fatalf("expected untouched name, got %q", updated.Name)
	}
}

func TestServiceDeleteWithBookings(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	room, err := svc.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.withBooks[room.ID] = true

	if err := svc.Delete(ctx, room.ID); !errors.Is(err, ErrRoomHasBookings) {
		t.Fatalf("expected ErrRoomHasBookings, got %v", err)
	}
}

func TestServiceListNeverNil(t *testing.T) {
	svc := NewService(newMemoryRepo())

	rooms, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rooms == nil {
		t.Fatal("expected empty slice")
	}
}

func TestNewCachedRepositoryWithoutRedis(t *testing.T) {
	repo := newMemoryRepo()
	if got := NewCachedRepository(repo, nil, 0); got != Repository(repo) {
		t.Fatal("expected the plain repository when redis is disabled")
	}
}

func TestMapDeleteDBErrorPassesThroughOthers(t *testing.T) {
	err := mapDeleteDBError(errors.New("boom"))
	if errors.Is(err, ErrRoomHasBookings) {
		t.Fatal("unexpected ErrRoomHasBookings")
	}
}

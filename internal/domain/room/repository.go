package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines room data access interface
type Repository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	Update(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new room repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const roomColumns = `id, name, description, price, available, images, room_type, capacity,
	amenities, floor_level, bed_type, created_at, updated_at`

func (r *repository) Create(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (id, name, description, price, available, images, room_type, capacity,
			amenities, floor_level, bed_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		room.ID, room.Name, room.Description, room.Price, room.Available, room.Images,
		room.RoomType, room.Capacity, room.Amenities, room.FloorLevel, room.BedType,
		room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("room repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("room repository get: %w", err)
	}
	return &room, nil
}

func (r *repository) List(ctx context.Context) ([]*Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY created_at DESC`

	var rooms []*Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("room repository list: %w", err)
	}
	return rooms, nil
}

func (r *repository) Update(ctx context.Context, room *Room) error {
	query := `
		UPDATE rooms SET
			name = $2, description = $3, price = $4, available = $5, images = $6,
			room_type = $7, capacity = $8, amenities = $9, floor_level = $10, bed_type = $11,
			updated_at = $12
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		room.ID, room.Name, room.Description, room.Price, room.Available, room.Images,
		room.RoomType, room.Capacity, room.Amenities, room.FloorLevel, room.BedType,
		room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("room repository update: %w", err)
	}
	return requireRow(result)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return mapDeleteDBError(err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// bookings.room_id references rooms with ON DELETE RESTRICT
func mapDeleteDBError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("%w: %w", ErrRoomHasBookings, err)
	}
	return fmt.Errorf("room repository delete: %w", err)
}

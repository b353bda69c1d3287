package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hotelbook/hotel-api/internal/pkg/database"
)

// Repository defines booking data access interface
type Repository interface {
	ConflictFinder

	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error)
	ListAll(ctx context.Context) ([]*Booking, error)
	// UpdateStatus sets the status. When from is non-empty the row is only
	// touched if its current status is one of from; the bool reports whether
	// a row changed.
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status, from ...Status) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// WithRoomLock runs fn inside a transaction holding a row lock on the
	// room. The Repository handed to fn is bound to that transaction, so the
	// conflict check and the write it guards commit together.
	WithRoomLock(ctx context.Context, roomID uuid.UUID, fn func(repo Repository) error) error
}

type repository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
	tx bool
}

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, q: db}
}

const bookingColumns = `id, user_id, room_id, check_in, check_out, status, total_cost, created_at, updated_at`

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, query,
		b.ID, b.UserID, b.RoomID, b.CheckIn, b.CheckOut, b.Status, b.TotalCost, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mapWriteDBError("create", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := sqlx.GetContext(ctx, r.q, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("booking repository get: %w", err)
	}
	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	var bookings []*Booking
	if err := sqlx.SelectContext(ctx, r.q, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("booking repository list by user: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListAll(ctx context.Context) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	var bookings []*Booking
	if err := sqlx.SelectContext(ctx, r.q, &bookings, query); err != nil {
		return nil, fmt.Errorf("booking repository list: %w", err)
	}
	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, to Status, from ...Status) (bool, error) {
	query := `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`
	args := []interface{}{id, to}
	if len(from) > 0 {
		allowed := make([]string, len(from))
		for i, s := range from {
			allowed[i] = string(s)
		}
		query += ` AND status = ANY($3)`
		args = append(args, pq.Array(allowed))
	}

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, mapWriteDBError("update status", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("booking repository update status: %w", err)
	}
	return n > 0, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("booking repository delete: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("booking repository delete: %w", err)
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) FindConflicts(ctx context.Context, roomID uuid.UUID, iv Interval, excludeID *uuid.UUID) ([]*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = $1
			AND status = $2
			AND check_in < $4
			AND check_out > $3
	`
	args := []interface{}{roomID, StatusConfirmed, iv.CheckIn, iv.CheckOut}
	if excludeID != nil {
		query += ` AND id <> $5`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY check_in`

	var bookings []*Booking
	if err := sqlx.SelectContext(ctx, r.q, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("booking repository find conflicts: %w", err)
	}
	return bookings, nil
}

func (r *repository) WithRoomLock(ctx context.Context, roomID uuid.UUID, fn func(repo Repository) error) error {
	if r.tx {
		if err := r.lockRoom(ctx, roomID); err != nil {
			return err
		}
		return fn(r)
	}

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		txRepo := &repository{db: r.db, q: tx, tx: true}
		if err := txRepo.lockRoom(ctx, roomID); err != nil {
			return err
		}
		return fn(txRepo)
	})
}

func (r *repository) lockRoom(ctx context.Context, roomID uuid.UUID) error {
	var id uuid.UUID
	err := sqlx.GetContext(ctx, r.q, &id, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("booking repository lock room: %w", err)
	}
	return nil
}

// bookings_no_overlap rejects overlapping confirmed stays with 23P01
func mapWriteDBError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23P01":
			return fmt.Errorf("%w: %w", ErrRoomUnavailable, err)
		case "23503":
			return fmt.Errorf("%w: %w", ErrRoomNotFound, err)
		}
	}
	return fmt.Errorf("booking repository %s: %w", op, err)
}

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	AdminExists(ctx context.Context) (bool, error)
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, password_hash, is_admin, date_of_birth, profile_picture, created_at, updated_at`

// Create creates a new user
func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.IsAdmin, user.DateOfBirth, user.ProfilePicture, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapCreateDBError(err)
	}
	return nil
}

// GetByID returns nil, nil when no user matches
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user repository get: %w", err)
	}
	return &user, nil
}

// GetByEmail looks up a user by lowercased email
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user repository get by email: %w", err)
	}
	return &user, nil
}

func (r *repository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, strings.ToLower(email))
	if err != nil {
		return false, fmt.Errorf("user repository exists: %w", err)
	}
	return exists, nil
}

func (r *repository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE is_admin)`); err != nil {
		return false, fmt.Errorf("user repository admin exists: %w", err)
	}
	return exists, nil
}

func (r *repository) UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET profile_picture = $2, updated_at = $3 WHERE id = $1`,
		id, url, time.Now())
	if err != nil {
		return fmt.Errorf("user repository update picture: %w", err)
	}
	return requireRow(result)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user repository delete: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// users_single_admin is a partial unique index on is_admin WHERE is_admin
func mapCreateDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return fmt.Errorf("user repository create: %w", err)
	}
	if pqErr.Constraint == "users_single_admin" {
		return fmt.Errorf("%w: %w", ErrAdminAlreadyExists, err)
	}
	return fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
}

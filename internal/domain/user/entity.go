package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account (matches users table)
type User struct {
	ID             uuid.UUID  `db:"id"`
	Username       string     `db:"username"`
	Email          string     `db:"email"`
	PasswordHash   string     `db:"password_hash"`
	IsAdmin        bool       `db:"is_admin"`
	DateOfBirth    *time.Time `db:"date_of_birth"`
	ProfilePicture string     `db:"profile_picture"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Profile is the public view of the current user
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	DateOfBirth    string    `json:"dob,omitempty"`
	ProfilePicture string    `json:"profilePicture"`
}

// ToProfile strips credentials and flags
func (u *User) ToProfile() *Profile {
	p := &Profile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = u.DateOfBirth.Format(time.DateOnly)
	}
	return p
}

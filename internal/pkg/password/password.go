// Package password hashes and checks account passwords with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	cost = 10

	// MaxBytes is the longest password bcrypt accepts; registration allows
	// up to 128 characters, which multi-byte input can push past this
	MaxBytes = 72
)

var ErrTooLong = errors.New("password exceeds 72 bytes")

// Hash returns the bcrypt hash stored in users.password_hash
func Hash(password string) (string, error) {
	if len(password) > MaxBytes {
		return "", ErrTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Verify reports whether password matches a stored hash. A malformed hash
// never matches, so login answers INVALID_CREDENTIALS rather than failing.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidDateOfBirth = errors.New("date of birth must be YYYY-MM-DD")
)

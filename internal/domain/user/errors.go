package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrAdminAlreadyExists = errors.New("an admin already exists")
	ErrNoProfilePicture   = errors.New("no profile picture to remove")
	ErrInvalidImage       = errors.New("image could not be decoded")
)

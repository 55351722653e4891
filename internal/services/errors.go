package services

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	// ErrInvalidResetToken covers wrong, consumed and expired tokens alike.
	ErrInvalidResetToken = errors.New("invalid or expired token")
	ErrResetDelivery     = errors.New("failed to deliver password reset email")
	ErrNotFound          = errors.New("not found")
	ErrSlugTaken         = errors.New("slug is already in use")
	ErrBadReference      = errors.New("referenced author, category, place or tag does not exist")
	ErrFileTooLarge      = errors.New("file is too large")
	ErrUnsupportedFile   = errors.New("unsupported file type")
)

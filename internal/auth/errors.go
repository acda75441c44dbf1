package auth

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("resource conflict")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken = errors.New("invalid token")
)

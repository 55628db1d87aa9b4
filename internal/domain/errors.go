package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNotReady         = errors.New("scene not ready")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidCatalogue = errors.New("invalid catalogue")
)

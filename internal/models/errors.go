package models

import "errors"

// Common persistence errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidData   = errors.New("invalid data")
)

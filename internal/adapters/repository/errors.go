package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("user not found")
	ErrDuplicateName = errors.New("user name already exists")
	ErrInvalidSeed   = errors.New("invalid seed data")
)

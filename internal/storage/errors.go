package storage

import "errors"

// Storage errors for the schedule registry.
var (
	// ErrNotFound is returned when a requested schedule does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a schedule whose id already
	// exists. Ids are engine-generated, so a duplicate indicates a bug in id
	// generation, not a user error.
	ErrDuplicateKey = errors.New("duplicate key: registry is insert-only")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

package storage

import "errors"

// Storage errors shared by all dataset backends.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a dataset carries the same farm id twice.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource is returned for a dataset URI with an unknown scheme.
	ErrUnsupportedSource = errors.New("unsupported dataset source")
)

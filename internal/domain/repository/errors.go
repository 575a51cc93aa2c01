package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate")
	// ErrUnknownReference reports a foreign key pointing at a missing row.
	ErrUnknownReference = errors.New("unknown reference")
)

// Package apperr defines the sentinel error taxonomy shared by all layers.
package apperr

import "errors"

var (
	// ErrInvalidID marks identifiers that fail sanitization.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrNotFound marks a missing record or ancestor.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate create where uniqueness is required.
	ErrConflict = errors.New("conflict")
	// ErrCorrupt marks stored content that fails to parse.
	ErrCorrupt = errors.New("corrupt record")
	// ErrIO marks a read/write/rename failure at the storage layer.
	ErrIO = errors.New("storage failure")
)

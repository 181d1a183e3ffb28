package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when a key does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a key already exists.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when the backend denies access.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when writing to a closed or aborted Writer.
	ErrClosed = fs.ErrClosed

	// ErrUnsupported is returned when a backend lacks a capability.
	ErrUnsupported = errors.New("operation not supported")
)

// PathError wraps err in a *fs.PathError for op and key. Returns nil if err
// is nil.
func PathError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: key, Err: err}
}

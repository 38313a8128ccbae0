package service

import "errors"

var (
	// ErrValidation marks caller-fixable input problems; these never reach
	// the record store.
	ErrValidation = errors.New("validation")

	// ErrNotFound marks an unknown client or request id.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a concurrent-mutation collision that survived one
	// internal retry.
	ErrConflict = errors.New("conflict")
)

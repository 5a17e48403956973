// Package common defines shared sentinel errors used across the storage
// layers of filestore. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("file not found")

	// Validation / precondition errors. These are never retried.
	ErrValidation   = errors.New("validation error")
	ErrDataTooLarge = errors.New("data exceeds maximum file size")

	// State-machine errors.
	ErrCannotEditFrozenFile = errors.New("cannot edit frozen file")

	// Persistence-protocol errors surfaced after bounded retries.
	ErrInsertFailed       = errors.New("insert did not register")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

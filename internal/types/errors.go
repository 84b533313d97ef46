package types

import "errors"

// The sentinels below are the closed set of error kinds this module emits.
// Packages wrap one of these with fmt.Errorf("...: %w", ErrX) so callers can
// classify failures with errors.Is without depending on error message text.
var (
	// ErrNotFound: a referenced issue or file is absent.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: target id/file present when creation or rename requires absence.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidFormat: front-matter missing required keys, bad enum value, bad timestamp.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrCycleDetected: graph utilities report a cycle to the caller.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrLockTimeout: lock not acquired within the bound.
	ErrLockTimeout = errors.New("lock timeout")
	// ErrCollisionExhausted: ID engine ran out of length/nonce combinations.
	ErrCollisionExhausted = errors.New("id collision space exhausted")
	// ErrIO: underlying filesystem or decoding error.
	ErrIO = errors.New("io error")
	// ErrConflict: sync-detected ambiguity.
	ErrConflict = errors.New("conflict")
)

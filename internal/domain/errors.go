package domain

import (
	"errors"
)

// Sentinel errors for the ledger and workspace layers - use with errors.Is().
// Repositories and services wrap these with fmt.Errorf("...: %w", ...) so the
// excluded transport layer can map them to status codes without knowing the
// failure site.
var (
	// ErrNotFound indicates a workspace, item, or ledger entry is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate membership or name collision.
	ErrConflict = errors.New("already exists")

	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrRange indicates a position outside the valid bounds of a
	// workspace's ordering. The engine clamps move targets instead of
	// returning this, so it currently only surfaces for malformed input
	// such as negative depths.
	ErrRange = errors.New("position out of range")

	// ErrInternal indicates a lock or transaction failure.
	ErrInternal = errors.New("internal error")
)

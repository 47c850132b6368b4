package storage

import "errors"

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrInvalidCID  = errors.New("storage: invalid cid")
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	ErrImmutable   = errors.New("storage: immutable object mismatch")

	// ErrIDMismatch is returned when a backend hands back bytes whose interface
	// ID differs from the one requested.
	ErrIDMismatch = errors.New("storage: interface id mismatch")
	// ErrNotIface wraps decode failures of stored bytes.
	ErrNotIface = errors.New("storage: object is not an interface encoding")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

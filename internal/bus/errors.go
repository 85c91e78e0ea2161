package bus

import (
	"errors"
	"fmt"
)

// Domain errors for bus operations.
var (
	// ErrBus marks any failed register write. It is never retried.
	ErrBus = errors.New("bus: write failed")

	// ErrClosed indicates a write after Close.
	ErrClosed = errors.New("bus: closed")

	// ErrChunkTooLarge indicates a data payload above MaxChunk.
	ErrChunkTooLarge = errors.New("bus: data chunk exceeds transfer limit")
)

// Error wraps a transport failure with the register it targeted.
type Error struct {
	Op       string
	Register byte
	Wrapped  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bus: %s (control 0x%02X): %v", e.Op, e.Register, e.Wrapped)
}

// Unwrap exposes both the cause and ErrBus so callers can match either.
func (e *Error) Unwrap() []error {
	return []error{ErrBus, e.Wrapped}
}

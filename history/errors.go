package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// History errors.
var (
	// ErrRestore is matched by every *RestoreError.
	ErrRestore = errors.New("history: snapshot cannot be restored")

	// ErrCapture is returned when the canvas cannot be encoded into a snapshot.
	ErrCapture = errors.New("history: canvas cannot be captured")

	// ErrBusy is returned when a commit or restore is already in flight.
	ErrBusy = errors.New("history: operation already in flight")

	// ErrInvalidState is returned by Load for a sequence/cursor pair that
	// violates the cursor invariant.
	ErrInvalidState = errors.New("history: invalid state")

	// ErrEmptySnapshot is returned when restoring a zero-length payload.
	ErrEmptySnapshot = errors.New("history: empty snapshot payload")
)

// RestoreError reports a snapshot payload that could not be decoded.
type RestoreError struct {
	// Index is the position of the snapshot in the sequence.
	Index int
	// ID identifies the snapshot.
	ID uuid.UUID
	// Err is the decode failure.
	Err error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("history: restore snapshot %d (%s): %v", e.Index, e.ID, e.Err)
}

// Unwrap lets errors.Is match both ErrRestore and the decode cause.
func (e *RestoreError) Unwrap() []error {
	return []error{ErrRestore, e.Err}
}

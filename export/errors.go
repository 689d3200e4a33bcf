package export

import (
	"errors"
	"fmt"
)

// Export errors.
var (
	// ErrNotImplemented is matched by every *NotImplementedError.
	ErrNotImplemented = errors.New("export: format not implemented")

	// ErrEncode is matched by every *EncodeError.
	ErrEncode = errors.New("export: encode failed")

	// ErrBusy is returned when an export is already in flight.
	ErrBusy = errors.New("export: export already in flight")

	errEmptyOutput = errors.New("encoder produced no bytes")
)

// NotImplementedError reports a format with no registered encoder.
type NotImplementedError struct {
	Format Format
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("export: format %s not implemented", e.Format)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }

// EncodeError reports an encoder failure.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("export: encode %s: %v", e.Format, e.Err)
}

// Unwrap lets errors.Is match both ErrEncode and the encoder cause.
func (e *EncodeError) Unwrap() []error {
	return []error{ErrEncode, e.Err}
}

// Package romerr defines the errors returned when a ROM image does not match
// the expected format or fails an integrity check while decoding.
package romerr

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatMismatch is wrapped by FormatError.
	ErrFormatMismatch = errors.New("format mismatch")
	// ErrIntegrity is wrapped by IntegrityError.
	ErrIntegrity = errors.New("integrity check failed")
)

// FormatError reports that a buffer is not in the format a parser committed to.
type FormatError struct {
	Format string
	Reason string
}

// NewFormatError returns a format error for the named format.
func NewFormatError(format, reason string, args ...any) *FormatError {
	return &FormatError{
		Format: format,
		Reason: fmt.Sprintf(reason, args...),
	}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("not a %s image: %s", e.Format, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormatMismatch
}

// IntegrityError reports a value that failed validation at a buffer offset.
type IntegrityError struct {
	Offset   uint32
	What     string
	Expected uint64
	Found    uint64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("invalid %s at offset 0x%X: expected 0x%X, found 0x%X",
		e.What, e.Offset, e.Expected, e.Found)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}

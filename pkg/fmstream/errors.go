package fmstream

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedScheme is matched by errors for scheme tags whose low bits
	// select an index with no scheme (6 or 7).
	ErrUndefinedScheme = errors.New("undefined scheme index")

	// ErrMissingField is matched by errors for candidates lacking field 0 or 7,
	// or carrying a value of the wrong type there.
	ErrMissingField = errors.New("missing candidate field")

	// ErrLengthMismatch is matched by errors from strict extraction when the
	// name and record sequences differ in length.
	ErrLengthMismatch = errors.New("station names and records differ in length")

	// ErrNoData is returned when a page carries no data assignment.
	ErrNoData = errors.New("no station data found")
)

type SchemeError struct {
	Tag   int64
	Index int
}

func (e *SchemeError) Error() string {
	return fmt.Sprintf("scheme tag %d: index %d has no scheme", e.Tag, e.Index)
}

func (e *SchemeError) Is(target error) bool { return target == ErrUndefinedScheme }

type FieldError struct {
	Index  int
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("candidate field %d: %s", e.Index, e.Reason)
}

func (e *FieldError) Is(target error) bool { return target == ErrMissingField }

type LengthMismatchError struct {
	Names   int
	Records int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%d station names but %d records", e.Names, e.Records)
}

func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

// StationError locates a decoding failure. It unwraps to the underlying
// SchemeError or FieldError.
type StationError struct {
	Position int
	Name     string
	Err      error
}

func (e *StationError) Error() string {
	return fmt.Sprintf("station %d (%q): %v", e.Position, e.Name, e.Err)
}

func (e *StationError) Unwrap() error { return e.Err }

package stl

import (
	"errors"
	"fmt"
)

var (
	// ErrFileOpen is returned when an input file cannot be opened
	ErrFileOpen = errors.New("cannot open file")

	// ErrTruncated is returned when a binary stream ends inside the header,
	// the triangle count or a triangle record.
	ErrTruncated = errors.New("truncated binary stl")

	// ErrMalformedLine is returned when a line of a text file violates the
	// facet grammar.
	ErrMalformedLine = errors.New("malformed stl line")

	// ErrIndexOverflow is returned when a file holds more triangle corners
	// than the index type can address.
	ErrIndexOverflow = errors.New("too many corners for index type")
)

// LineError reports a grammar violation at a 1-based line of a text file
type LineError struct {
	File string
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("error while reading from %s: %s in line %d", e.File, e.Msg, e.Line)
}

// Unwrap makes errors.Is(err, ErrMalformedLine) hold for every LineError
func (e *LineError) Unwrap() error {
	return ErrMalformedLine
}

func openError(name string, err error) error {
	return fmt.Errorf("%w %s: %w", ErrFileOpen, name, err)
}

func truncatedError(name, what string, err error) error {
	return fmt.Errorf("%w: %s in file %s: %w", ErrTruncated, what, name, err)
}

func overflowError[I Index](name string) error {
	return fmt.Errorf("%w %T in file %s: more than %d corners", ErrIndexOverflow, I(0), name, maxIndex[I]())
}

package nx

import (
	"errors"
	"fmt"
)

// Load errors. Any of these aborts Open and no File is returned.
var (
	// ErrIO is returned when the stream cannot be read or ends early.
	ErrIO = errors.New("nx: i/o error")

	// ErrBadMagic is returned when the first four bytes are not "PKG4".
	ErrBadMagic = errors.New("nx: invalid magic")

	// ErrInvalidUTF8 is returned when a string table entry is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("nx: invalid utf-8 string")

	// ErrOutOfBounds is returned when a table, child span or index exceeds
	// the extent of the file or node array.
	ErrOutOfBounds = errors.New("nx: out of bounds")
)

// Accessor errors. These are local to a single call and leave the File usable.
var (
	// ErrTypeMismatch is returned when a value cannot be converted to the requested kind.
	ErrTypeMismatch = errors.New("nx: type mismatch")

	// ErrParse is returned when text cannot be parsed as the requested number.
	ErrParse = errors.New("nx: parse error")

	// ErrNotFound is returned when no child or path matches.
	ErrNotFound = errors.New("nx: node not found")
)

// TypeMismatchError names the requested kind and the stored type.
type TypeMismatchError struct {
	Want Kind
	Got  NodeType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("nx: cannot convert %s value to %s", e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// ParseError reports text that is not a valid number of the requested kind.
type ParseError struct {
	Text string
	Want Kind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("nx: cannot parse %q as %s", e.Text, e.Want)
	}
	return fmt.Sprintf("nx: cannot parse %q as %s: %v", e.Text, e.Want, e.Err)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

func ioErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, what, err)
}

package bvbs

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax: unknown shape prefix, missing header or geometry section,
	// or a header value that is not a number where one is required.
	ErrSyntax = errors.New("bvbs syntax error")
	// ErrGeometry: geometry tokens that cannot be reconstructed, such as an
	// arc radius without its angle.
	ErrGeometry = errors.New("bvbs geometry error")
)

// DecodeError ties a decode failure to its source line.
type DecodeError struct {
	Line int    // 1-based line number
	Text string // raw line
	Err  error  // wraps ErrSyntax or ErrGeometry
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Text)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func syntaxErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

func geometryErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrGeometry, fmt.Sprintf(format, args...))
}

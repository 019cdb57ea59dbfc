package sosi

import (
	"errors"
	"fmt"
)

// ErrMissingHeader indicates the input does not open with a .HODE block
var ErrMissingHeader = errors.New("SOSI file must start with .HODE")

// FormatError indicates input text that violates the SOSI line grammar.
// Line is 1-based; zero means the position is unknown (e.g. end of input).
type FormatError struct {
	Line   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// SourceError indicates the SOSI source itself could not be read
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read SOSI source: %v", e.Err)
	}
	return fmt.Sprintf("read SOSI source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func formatErrorf(line int, format string, args ...any) *FormatError {
	return &FormatError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

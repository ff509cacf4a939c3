package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSeparator = errors.New("missing '='")
	ErrEmptyKey         = errors.New("empty key")
	ErrLineTooLong      = fmt.Errorf("line longer than %d bytes", MaxLineSize)
)

// LineError reports a failure to parse or store a single line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// OpenError is returned when the configuration file can't be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed opening configuration file '%s': %s", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

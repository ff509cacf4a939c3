package config

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/confmap/store"
)

const (
	// Whitespace is the set of characters trimmed around keys and values.
	Whitespace = "\n\r \t"
	// Comments is the set of characters that end the meaningful part of a line.
	Comments = "#;\n"
	// MaxLineSize is the maximum length of a line, including the newline.
	MaxLineSize = 4096
)

// DuplicatePolicy determines what happens when a key appears more than once.
type DuplicatePolicy int

const (
	// DuplicateError aborts the load.
	DuplicateError DuplicatePolicy = iota
	// DuplicateReplace keeps the last value.
	DuplicateReplace
)

// Strip removes leading and trailing whitespace from s.
func Strip(s string) string {
	return strings.Trim(s, Whitespace)
}

// ParseLine parses a single `key = value` line. Anything after a comment
// marker is ignored, and the line is split at the first '='.
func ParseLine(line string) (store.Entry, error) {
	line = strings.TrimLeft(line, Whitespace)
	if i := strings.IndexAny(line, Comments); i >= 0 {
		line = line[:i]
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return store.Entry{}, ErrMissingSeparator
	}

	e := store.Entry{Key: Strip(key), Value: Strip(value)}
	if e.Key == "" {
		return store.Entry{}, ErrEmptyKey
	}

	return e, nil
}

// isBlank reports whether line has no content besides whitespace and
// comments.
func isBlank(line string) bool {
	line = strings.TrimLeft(line, Whitespace)
	if i := strings.IndexAny(line, Comments); i >= 0 {
		line = line[:i]
	}
	return Strip(line) == ""
}

// Loader reads configuration files into a store.
type Loader struct {
	duplicates DuplicatePolicy
	logger     *slog.Logger
}

// Option is a function that allows configuring the Loader.
type Option func(*Loader)

// WithDuplicatePolicy sets how repeated keys are handled.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(l *Loader) {
		l.duplicates = p
	}
}

// WithLogger sets the logger used by the Loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader returns a new Loader. By default duplicate keys are an error.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{duplicates: DuplicateError, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load parses r line by line and stores every entry in s. Blank and
// comment-only lines are skipped. Loading stops at the first line that fails,
// and the returned *LineError identifies it; entries from preceding lines
// remain in s.
func (l *Loader) Load(r io.Reader, s store.Store) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, MaxLineSize), MaxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if isBlank(text) {
			continue
		}

		entry, err := ParseLine(text)
		if err != nil {
			return &LineError{Line: lineNum, Text: text, Err: err}
		}

		if l.duplicates == DuplicateReplace {
			err = s.Replace(entry.Key, entry.Value)
		} else {
			err = s.Insert(entry.Key, entry.Value)
		}
		if err != nil {
			return &LineError{Line: lineNum, Text: text, Err: err}
		}

		l.logger.Debug("loaded entry", "line", lineNum, "key", entry.Key)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			err = ErrLineTooLong
		}
		return &LineError{Line: lineNum + 1, Err: err}
	}

	return nil
}

// LoadFile opens the file at path on fs and loads it into s.
func (l *Loader) LoadFile(fs vfs.FileSystem, path string, s store.Store) error {
	f, err := fs.Open(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	return l.Load(f, s)
}

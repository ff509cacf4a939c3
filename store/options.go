package store

import (
	"log/slog"
)

// Options holds the configuration shared by all Store implementations.
type Options struct {
	// OwnedStrings makes the store responsible for the keys and values it
	// holds. Every key and value dropped by the store (on remove, on replace,
	// and on Close) is released and reported.
	OwnedStrings bool
	Logger       *slog.Logger
}

// Option is a function that allows configuring a store.
type Option func(*Options)

// WithOwnedStrings enables ownership of keys and values by the store.
func WithOwnedStrings() Option {
	return func(o *Options) {
		o.OwnedStrings = true
	}
}

// WithLogger sets the logger used to report released entries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	o := &Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Releaser releases keys and values dropped by a store that owns them. The
// zero value is not usable; create one with NewReleaser.
type Releaser struct {
	owned  bool
	logger *slog.Logger
	count  int
}

// NewReleaser returns a Releaser configured from o.
func NewReleaser(o *Options) *Releaser {
	return &Releaser{owned: o.OwnedStrings, logger: o.Logger}
}

// Key releases a key. It's a no-op if the store doesn't own its strings.
func (r *Releaser) Key(key string) {
	if !r.owned {
		return
	}
	r.count++
	r.logger.Debug("released key", "key", key)
}

// Value releases a value. It's a no-op if the store doesn't own its strings.
func (r *Releaser) Value(value string) {
	if !r.owned {
		return
	}
	r.count++
	r.logger.Debug("released value", "value", value)
}

// Entry releases both the key and value of an entry.
func (r *Releaser) Entry(key, value string) {
	r.Key(key)
	r.Value(value)
}

// Released returns the number of keys and values released so far.
func (r *Releaser) Released() int {
	return r.count
}

package context

import (
	"context"
	"io"
	"log/slog"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/confmap/store"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx      context.Context
	Version  string
	FS       vfs.FileSystem
	Env      Environment
	Logger   *slog.Logger
	LogLevel *slog.LevelVar

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewStore creates an empty store using the backend selected on the
	// command line.
	NewStore func(opts ...store.Option) (store.Store, error)
}

// Environment is the interface to the process environment.
type Environment interface {
	Get(string) string
	Set(string, string) error
}

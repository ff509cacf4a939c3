package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.hackfix.me/confmap/app/cli"
	actx "go.hackfix.me/confmap/app/context"
	aerrors "go.hackfix.me/confmap/app/errors"
	"go.hackfix.me/confmap/store"
	"go.hackfix.me/confmap/store/badger"
	"go.hackfix.me/confmap/store/memory"
	"go.hackfix.me/confmap/store/sqlite"
)

// App is the application.
type App struct {
	ctx *actx.Context

	Exit func(int)
}

// New initializes a new application.
func New(opts ...Option) *App {
	defaultCtx := &actx.Context{
		Ctx:      context.Background(),
		Version:  actx.GetVersion(),
		Logger:   slog.Default(),
		LogLevel: &slog.LevelVar{},
	}
	app := &App{ctx: defaultCtx, Exit: func(int) {}}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Run parses args and executes the selected command.
func (app *App) Run(args []string) error {
	c := &cli.CLI{}
	kctx, err := c.Setup(app.ctx, args, app.Exit)
	if err != nil {
		return err
	}

	if err = app.ctx.LogLevel.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return aerrors.NewRuntimeError("invalid log level", err, "")
	}
	app.ctx.NewStore = storeFactory(app.ctx, c.Backend)

	return kctx.Run(app.ctx)
}

// FatalIfErrorf terminates the application with an error message if err != nil.
func (app *App) FatalIfErrorf(err error, args ...any) {
	if err == nil {
		return
	}

	var hintErr aerrors.WithHint
	if errors.As(err, &hintErr) && hintErr.Hint() != "" {
		args = append(args, "hint", hintErr.Hint())
	}
	app.ctx.Logger.Error(err.Error(), args...)
	app.Exit(1)
}

// storeFactory returns a function that creates transient stores of the given
// backend type.
func storeFactory(appCtx *actx.Context, backend string) func(...store.Option) (store.Store, error) {
	return func(opts ...store.Option) (store.Store, error) {
		switch backend {
		case "", "memory":
			return memory.New(opts...), nil
		case "badger":
			return badger.Open(":memory:", opts...)
		case "sqlite":
			return sqlite.Open(appCtx.Ctx, ":memory:", opts...)
		default:
			return nil, fmt.Errorf("unsupported store backend '%s'", backend)
		}
	}
}

package cli

import (
	"errors"
	"fmt"

	actx "go.hackfix.me/confmap/app/context"
	aerrors "go.hackfix.me/confmap/app/errors"
	"go.hackfix.me/confmap/config"
	"go.hackfix.me/confmap/store"
)

// Source holds the options shared by the commands that read the configuration
// file.
type Source struct {
	File        string `short:"f" default:"${config_file}" help:"The configuration file to read."`
	OnDuplicate string `enum:"error,replace" default:"error" help:"What to do when a key is repeated: ${enum}."`
}

// load reads the configuration file into a new store that owns its entries.
// The caller must close the returned store.
func (s *Source) load(appCtx *actx.Context) (store.Store, error) {
	st, err := appCtx.NewStore(store.WithOwnedStrings(), store.WithLogger(appCtx.Logger))
	if err != nil {
		return nil, aerrors.NewRuntimeError("failed creating store", err, "")
	}

	policy := config.DuplicateError
	if s.OnDuplicate == "replace" {
		policy = config.DuplicateReplace
	}
	loader := config.NewLoader(
		config.WithDuplicatePolicy(policy),
		config.WithLogger(appCtx.Logger),
	)

	if err = loader.LoadFile(appCtx.FS, s.File, st); err != nil {
		_ = st.Close()
		var (
			openErr *config.OpenError
			hint    string
		)
		switch {
		case errors.As(err, &openErr):
			hint = "Use --file to read a different configuration file."
		case errors.Is(err, store.ErrDuplicateKey):
			hint = "Use --on-duplicate=replace to keep the last value of repeated keys."
		}
		return nil, aerrors.NewRuntimeError(
			fmt.Sprintf("failed loading '%s'", s.File), err, hint)
	}

	return st, nil
}

// The Load command reads the configuration file and prints its entries and
// their count.
type Load struct {
	Source `embed:""`
}

// Run the load command.
func (c *Load) Run(appCtx *actx.Context) error {
	st, err := c.load(appCtx)
	if err != nil {
		return err
	}

	displayStore(appCtx.Stdout, st)
	fmt.Fprintf(appCtx.Stdout, "[Size of hash table:%d]\n", st.Len())

	return st.Close()
}

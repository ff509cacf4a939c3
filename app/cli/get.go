package cli

import (
	"errors"
	"fmt"

	actx "go.hackfix.me/confmap/app/context"
	"go.hackfix.me/confmap/store"
)

// The Get command retrieves and prints the value of a key.
type Get struct {
	Key string `arg:"" help:"The key associated with the value."`

	Source `embed:""`
}

// Run the get command.
func (c *Get) Run(appCtx *actx.Context) (err error) {
	st, err := c.load(appCtx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); err == nil {
			err = cerr
		}
	}()

	val, err := store.Get(st, c.Key)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("key '%s' doesn't exist in '%s'", c.Key, c.File)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(appCtx.Stdout, "%s\n", val)

	return nil
}

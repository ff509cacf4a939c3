package cli

import (
	"errors"
	"fmt"

	actx "go.hackfix.me/confmap/app/context"
	"go.hackfix.me/confmap/store"
)

// The Demo command exercises the store operations on literal entries.
type Demo struct{}

var demoEntries = []store.Entry{
	{Key: "1", Value: "one"},
	{Key: "2", Value: "two"},
	{Key: "3", Value: "three"},
	{Key: "4", Value: "four"},
	{Key: "5", Value: "five"},
	{Key: "6", Value: "six"},
}

// Run the demo command.
func (c *Demo) Run(appCtx *actx.Context) (err error) {
	st, err := appCtx.NewStore(store.WithLogger(appCtx.Logger))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); err == nil {
			err = cerr
		}
	}()

	for _, e := range demoEntries {
		if err = st.Insert(e.Key, e.Value); err != nil {
			return err
		}
	}
	displayStore(appCtx.Stdout, st)

	// Inserting an existing key is rejected, and the old value is kept.
	err = st.Insert("1", "eleven")
	var dupErr *store.DuplicateKeyError
	if !errors.As(err, &dupErr) {
		return fmt.Errorf("expected duplicate key error, got: %v", err)
	}
	appCtx.Logger.Info("insert rejected", "key", dupErr.Entry.Key, "value", dupErr.Entry.Value)

	if err = st.Replace("2", "twelve"); err != nil {
		return err
	}
	if _, err = st.Remove("3"); err != nil {
		return err
	}
	displayStore(appCtx.Stdout, st)

	displayList(appCtx.Stdout, "Key List", st.Keys())
	displayList(appCtx.Stdout, "Val List", st.Values())

	val, ok, err := st.Lookup("4")
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(appCtx.Stdout, "[lookup:4]:%s\n", val)
	}

	return nil
}

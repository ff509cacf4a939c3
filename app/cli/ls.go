package cli

import (
	"fmt"
	"strings"

	actx "go.hackfix.me/confmap/app/context"
)

// The Ls command prints configuration entries.
type Ls struct {
	KeyPrefix string `arg:"" optional:"" help:"An optional key prefix."`
	KeysOnly  bool   `help:"Only print keys, one per line."`

	Source `embed:""`
}

// Run the ls command.
func (c *Ls) Run(appCtx *actx.Context) error {
	st, err := c.load(appCtx)
	if err != nil {
		return err
	}

	data := make([][]string, 0)
	for k, v := range st.All() {
		if strings.HasPrefix(k, c.KeyPrefix) {
			data = append(data, []string{k, v})
		}
	}

	if err = st.Close(); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	if c.KeysOnly {
		for _, row := range data {
			fmt.Fprintf(appCtx.Stdout, "%s\n", row[0])
		}
		return nil
	}

	header := []string{"Key", "Value"}
	newTable(header, data, appCtx.Stdout).Render()

	return nil
}

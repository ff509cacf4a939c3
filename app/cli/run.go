package cli

import (
	actx "go.hackfix.me/confmap/app/context"
)

// The Run command runs the demo and then loads the configuration file.
type Run struct {
	Source `embed:""`
}

// Run the run command.
func (c *Run) Run(appCtx *actx.Context) error {
	if err := (&Demo{}).Run(appCtx); err != nil {
		return err
	}

	return (&Load{Source: c.Source}).Run(appCtx)
}

package cli

// This file contains the steps command for printing the effective catalog.

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pipecheck/pipecheck/config"
	"github.com/pipecheck/pipecheck/model"
)

func (a *App) steps(ctx *cli.Context) error {
	root, cfg, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	steps := config.Filter(cfg.ModelSteps(root), ctx.StringSlice("only"), ctx.StringSlice("skip"))
	if len(steps) == 0 {
		fmt.Fprintln(ctx.App.Writer, "No matching steps")
		return nil
	}

	for i, s := range steps {
		fmt.Fprintln(ctx.App.Writer, stepLabel(i, s))
		if s.Description != "" {
			fmt.Fprintf(ctx.App.Writer, "    %s\n", s.Description)
		}
		fmt.Fprintf(ctx.App.Writer, "    $ %s  (in %s)\n", s.Command, s.Dir)
	}

	return nil
}

func stepLabel(i int, s model.Step) string {
	return fmt.Sprintf("%2d. %s", i+1, s.Name)
}

package cli

// This file contains the list command for displaying previous pipeline runs.

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pipecheck/pipecheck/history"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")

	root, cfg, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	entries, err := history.Entries(a.logger, resolveLogRoot(root, cfg))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(ctx.App.Writer, "No runs found")
		return nil
	}

	displayRuns := entries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Fprintf(ctx.App.Writer, "\n=== Runs (%d total) ===\n\n", len(entries))

	for _, entry := range displayRuns {
		fmt.Fprintf(ctx.App.Writer, "%s  %d steps  id=%s\n",
			entry.Time.Format("2006-01-02 15:04:05"), len(entry.Steps), entry.ID)
		fmt.Fprintf(ctx.App.Writer, "   %s\n\n", entry.Path)
	}

	fmt.Fprintln(ctx.App.Writer, "View run logs: pipecheck view <ID>")

	return nil
}

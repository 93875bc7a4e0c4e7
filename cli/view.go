package cli

// This file contains the view command for printing the logs of a previous
// run.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/pipecheck/pipecheck/history"
)

func (a *App) view(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		arg = "0"
	}

	root, cfg, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	entries, err := history.Entries(a.logger, resolveLogRoot(root, cfg))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no runs found")
	}

	// Entries are newest first; 0 is the last run, -1 the one before it.
	var target *history.Entry
	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			return errors.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, -2 for third-to-last, etc.)", arg)
		}
		index := int(-parsed)
		if index >= len(entries) {
			return errors.Errorf("index %s out of range (only %d runs)", arg, len(entries))
		}
		target = &entries[index]
	} else {
		for i := range entries {
			if strings.HasPrefix(entries[i].ID, arg) {
				target = &entries[i]
				break
			}
		}
		if target == nil {
			return errors.Errorf("no run found matching id: %s", arg)
		}
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "=== Run %s ===\n", target.ID)
	fmt.Fprintf(w, "Time: %s\n", target.Time.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Logs: %s\n", target.Path)

	for _, name := range target.Steps {
		data, err := os.ReadFile(filepath.Join(target.Path, name))
		if err != nil {
			return errors.Wrapf(err, "read log %q", name)
		}
		fmt.Fprintf(w, "\n--- %s ---\n", name)
		fmt.Fprint(w, string(data))
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(w)
		}
	}

	return nil
}

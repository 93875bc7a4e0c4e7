package cli

// This file contains the run command: the sequential execution of the
// configured verification steps with live progress and a final summary.

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/pipecheck/pipecheck/config"
	"github.com/pipecheck/pipecheck/pipeline"
	"github.com/pipecheck/pipecheck/term"
)

// Exit code used when the run is interrupted before completion.
const exitInterrupted = 130

func (a *App) run(ctx *cli.Context) error {
	root, cfg, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	steps := config.Filter(cfg.ModelSteps(root), ctx.StringSlice("only"), ctx.StringSlice("skip"))
	if len(steps) == 0 {
		fmt.Fprintln(ctx.App.Writer, "No matching steps")
		return nil
	}

	pal := term.NewPalette(colorEnabled(ctx))
	out := ctx.App.Writer

	a.logger.Debug().
		Int("steps", len(steps)).
		Str("log_root", cfg.LogRoot).
		Msg("Starting pipeline run")

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe := pipeline.New(pipeline.Options{
		Stdout:  out,
		Palette: pal,
		Timeout: ctx.Duration("timeout"),
		Logger:  a.logger,
	})
	reporter := pipeline.NewReporter(out, pal)
	reporter.Header("Verification Pipeline", root)

	report, err := pipe.Execute(runCtx, resolveLogRoot(root, cfg), steps)
	if err != nil {
		if runCtx.Err() != nil {
			fmt.Fprintln(out, pal.Warn("interrupted"))
			return cli.Exit("", exitInterrupted)
		}
		return err
	}

	reporter.Summarize(report)

	if code := pipeline.ExitCode(report); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// loadCatalog resolves the working directory and loads the step catalog with
// flag overrides applied.
func loadCatalog(ctx *cli.Context) (string, config.Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", config.Config{}, errors.Wrap(err, "determine working directory")
	}

	cfg, err := config.Load(root, ctx.String("config"))
	if err != nil {
		return "", config.Config{}, err
	}
	if lr := ctx.String("log-root"); lr != "" {
		cfg.LogRoot = lr
	}
	return root, cfg, nil
}

func resolveLogRoot(root string, cfg config.Config) string {
	if filepath.IsAbs(cfg.LogRoot) {
		return cfg.LogRoot
	}
	return filepath.Join(root, cfg.LogRoot)
}

// colorEnabled resolves the palette flag once at startup: colors are on when
// writing to an interactive terminal and --no-color is not set.
func colorEnabled(ctx *cli.Context) bool {
	if ctx.Bool("no-color") {
		return false
	}
	f, ok := ctx.App.Writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

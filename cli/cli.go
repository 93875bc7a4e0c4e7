package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "pipecheck"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Run the project verification pipeline and gate on the results",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "config",
					Aliases: []string{"c"},
					Usage:   "Step catalog file (default: .pipecheck.yml in the working directory)",
				},
				&cli.StringFlag{
					Name:  "log-root",
					Usage: "Directory holding per-run log directories (overrides the catalog)",
				},
				&cli.StringSliceFlag{
					Name:  "only",
					Usage: "Run only steps whose name contains VALUE (repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "skip",
					Usage: "Skip steps whose name contains VALUE (repeatable)",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Usage: "Per-step timeout (0 disables it)",
				},
				&cli.BoolFlag{
					Name:  "no-color",
					Usage: "Disable colored output",
				},
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	// Default action when no command is specified
	app.cli.Action = app.run
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Execute every configured step in order",
		Action: app.run,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous pipeline runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Print the logs of a previous run",
		ArgsUsage: "[ID|INDEX]",
		Action:    app.view,
		Description: `Print the logs of a previous run.

Arguments:
  0             View last run (default)
  -1            View 2nd last run
  -2            View 3rd last run
  <run-id>      View the run matching the timestamp id prefix

Examples:
  pipecheck view              # View last run
  pipecheck view -1           # View 2nd last run
  pipecheck view 20260824     # View the first run matching the prefix`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "steps",
		Usage:  "Show the effective step catalog",
		Action: app.steps,
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

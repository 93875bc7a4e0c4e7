// Package pipeline executes an ordered list of verification steps, capturing
// each step's output, persisting per-step logs, and aggregating the outcomes
// into a run report.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	"github.com/pipecheck/pipecheck/model"
)

// RunIDFormat names run log directories by the start timestamp at second
// resolution.
const RunIDFormat = "20060102-150405"

// Pipeline drives the configured steps strictly in declaration order. It
// owns the step list and the growing outcome sequence for the duration of a
// run.
type Pipeline struct {
	runner *Runner
}

// New creates a pipeline using the supplied runner options.
func New(opts Options) *Pipeline {
	return &Pipeline{runner: NewRunner(opts)}
}

// Execute runs every step in order, one child process at a time. Step
// failures never stop the run: the goal is a complete picture of all checks.
// Only setup errors, launch failures, and cancellation abort it, in which
// case no report is produced.
func (p *Pipeline) Execute(ctx context.Context, logRoot string, steps []model.Step) (model.RunReport, error) {
	runID := p.runner.opts.Now().Format(RunIDFormat)
	logDir := filepath.Join(logRoot, runID)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return model.RunReport{}, pkgerrors.Wrapf(err, "create run log directory %q", logDir)
	}

	report := model.RunReport{
		LogDir:   logDir,
		Outcomes: make([]model.StepOutcome, 0, len(steps)),
	}

	started := p.runner.opts.Now()
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return model.RunReport{}, err
		}
		outcome, err := p.runner.Run(ctx, i+1, len(steps), step, logDir)
		if err != nil {
			return model.RunReport{}, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		hr(p.runner.opts.Stdout, p.runner.opts.Palette)
	}
	report.TotalDuration = p.runner.opts.Now().Sub(started)

	return report, nil
}

// ExitCode maps a report to the process exit status: 0 iff every step
// succeeded, 1 otherwise.
func ExitCode(report model.RunReport) int {
	if report.OK() {
		return 0
	}
	return 1
}

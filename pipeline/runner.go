package pipeline

// This file contains single-step execution: spawning the step command,
// capturing its combined output, persisting the raw log, and reporting the
// outcome on the console.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pipecheck/pipecheck/hint"
	"github.com/pipecheck/pipecheck/model"
	"github.com/pipecheck/pipecheck/term"
)

// Options configure how steps are executed and reported.
type Options struct {
	Stdout    io.Writer
	Palette   term.Palette
	Rules     []hint.Rule
	TailLines int
	// Per-step deadline; zero disables it
	Timeout time.Duration
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Runner executes one step at a time in its configured working directory.
type Runner struct {
	opts Options
}

// NewRunner creates a runner with the supplied options.
func NewRunner(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 12
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rules == nil {
		opts.Rules = hint.DefaultRules()
	}
	return &Runner{opts: opts}
}

var safeNamePattern = regexp.MustCompile(`[^a-z0-9]+`)

// safeName normalizes a step name for use in a log filename: lowercase,
// non-alphanumeric runs collapsed to a single dash, no edge dashes.
func safeName(name string) string {
	return strings.Trim(safeNamePattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Run executes one step and records its outcome. A non-zero exit code is a
// normal, fully reported outcome; the returned error is reserved for steps
// that could not be launched or logged at all, which aborts the run.
func (r *Runner) Run(ctx context.Context, index, total int, step model.Step, logDir string) (model.StepOutcome, error) {
	p := r.opts.Palette
	out := r.opts.Stdout

	fmt.Fprintln(out, p.Title(fmt.Sprintf("[%d/%d] %s", index, total, step.Name)))
	if step.Description != "" {
		fmt.Fprintln(out, p.Dim("    "+step.Description))
	}
	fmt.Fprintln(out, p.Dim("$ "+step.Command))

	if info, err := os.Stat(step.Dir); err != nil {
		if os.IsNotExist(err) {
			return model.StepOutcome{}, pkgerrors.Errorf("working directory %q not found", step.Dir)
		}
		return model.StepOutcome{}, pkgerrors.Wrapf(err, "stat working directory %q", step.Dir)
	} else if !info.IsDir() {
		return model.StepOutcome{}, pkgerrors.Errorf("working directory %q is not a directory", step.Dir)
	}

	runCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	argv := shellCommand(step.Command)
	r.opts.Logger.Debug().
		Str("argv", shellescape.QuoteCommand(argv)).
		Str("dir", step.Dir).
		Msg("Spawning step command")

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = step.Dir

	// Stdout and stderr interleave into one stream, as a terminal would see.
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	started := r.opts.Now()
	runErr := cmd.Run()
	duration := r.opts.Now().Sub(started)

	if ctx.Err() != nil {
		// Interrupted from outside: no outcome is recorded for this step.
		return model.StepOutcome{}, ctx.Err()
	}
	timedOut := runCtx.Err() == context.DeadlineExceeded

	if runErr != nil && !isExitError(runErr) && !timedOut {
		return model.StepOutcome{}, pkgerrors.Wrapf(runErr, "launch step %q", step.Name)
	}

	// Raw output goes to the log verbatim; only invalid byte sequences are
	// replaced so the write never fails on encoding.
	output := strings.ToValidUTF8(combined.String(), "�")
	logPath := filepath.Join(logDir, fmt.Sprintf("%02d-%s.log", index, safeName(step.Name)))
	if err := os.WriteFile(logPath, []byte(output), 0o644); err != nil {
		return model.StepOutcome{}, pkgerrors.Wrapf(err, "write step log %q", logPath)
	}

	plain := term.Strip(output)

	outcome := model.StepOutcome{
		Step:      step,
		Succeeded: runErr == nil,
		ExitCode:  exitCode(runErr),
		Duration:  duration,
		LogPath:   logPath,
		Hint:      hint.Extract(r.opts.Rules, step.Command, plain),
	}

	if outcome.Succeeded {
		line := fmt.Sprintf("%s %s %s", p.Pass("PASS"), step.Name, p.Dim("("+seconds(duration)+")"))
		if outcome.Hint != "" {
			line += " " + p.Dim("| "+outcome.Hint)
		}
		fmt.Fprintln(out, line)
		return outcome, nil
	}

	fmt.Fprintf(out, "%s %s %s\n",
		p.Fail("FAIL"), step.Name,
		p.Dim(fmt.Sprintf("(exit %d, %s)", outcome.ExitCode, seconds(duration))))
	if timedOut {
		fmt.Fprintln(out, p.Dim(fmt.Sprintf("timed out after %s", r.opts.Timeout)))
	}
	fmt.Fprintln(out, p.Dim("log: "+logPath))

	if tail := tailLines(plain, r.opts.TailLines); len(tail) > 0 {
		fmt.Fprintln(out, p.Dim("tail:"))
		for _, line := range tail {
			fmt.Fprintln(out, p.Dim("  "+line))
		}
	}
	return outcome, nil
}

// shellCommand wraps the literal command line in the platform shell. The
// command itself is opaque configuration.
func shellCommand(command string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", command}
	}
	return []string{"sh", "-c", command}
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// tailLines returns up to max trailing non-empty lines of s.
func tailLines(s string, max int) []string {
	lines := strings.Split(s, "\n")
	tail := make([]string, 0, max)
	for i := len(lines) - 1; i >= 0 && len(tail) < max; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		tail = append(tail, lines[i])
	}
	// collected back to front
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return tail
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

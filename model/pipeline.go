package model

import "time"

// Step is one external verification command in the pipeline.
// Steps are immutable once constructed; the step list is fixed at run start.
type Step struct {
	// Human-readable label, unique within a run (used for log file naming)
	Name string `json:"name"`
	// Literal shell command line to execute
	Command string `json:"command"`
	// Absolute path the command runs in
	Dir string `json:"dir"`
	// Optional one-line explanation shown before execution
	Description string `json:"description,omitempty"`
}

// StepOutcome records the result of executing a single step.
// It is created exactly once, right after the process terminates, and never
// mutated afterwards.
type StepOutcome struct {
	// The originating step
	Step Step `json:"step"`
	// True iff the process exit code was zero
	Succeeded bool `json:"succeeded"`
	// Process exit status (0 when succeeded)
	ExitCode int `json:"exit_code"`
	// Wall-clock time of the execution
	Duration time.Duration `json:"duration"`
	// Path of the persisted raw output log
	LogPath string `json:"log_path"`
	// Optional short digest of the output, empty when no rule matched
	Hint string `json:"hint,omitempty"`
}

// RunReport aggregates one full pipeline execution.
type RunReport struct {
	// One outcome per step, in execution order
	Outcomes []StepOutcome `json:"outcomes"`
	// Wall-clock time from first step start to last step completion
	TotalDuration time.Duration `json:"total_duration"`
	// Directory holding the per-step log files for this run
	LogDir string `json:"log_dir"`
}

// Passed returns the number of successful steps.
func (r RunReport) Passed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded {
			n++
		}
	}
	return n
}

// Failed returns the number of failed steps.
func (r RunReport) Failed() int {
	return len(r.Outcomes) - r.Passed()
}

// OK reports whether every step succeeded.
func (r RunReport) OK() bool {
	return r.Failed() == 0
}

package pipeline

// This file contains the console reporter for the final run summary. It is
// purely presentational and never alters the report.

import (
	"fmt"
	"io"
	"strings"

	"github.com/pipecheck/pipecheck/model"
	"github.com/pipecheck/pipecheck/term"
)

// Reporter renders the run header and the final summary block.
type Reporter struct {
	out io.Writer
	pal term.Palette
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, pal term.Palette) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{out: out, pal: pal}
}

// Header prints the run banner before the first step.
func (r *Reporter) Header(title, root string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.pal.Bold(title))
	fmt.Fprintln(r.out, r.pal.Dim(root))
	hr(r.out, r.pal)
}

// Summarize prints the aggregate result: counts, total time, the log
// directory, and detail for every failed step in execution order.
func (r *Reporter) Summarize(report model.RunReport) {
	fmt.Fprintln(r.out)
	hr(r.out, r.pal)
	fmt.Fprintln(r.out, r.pal.Bold("Summary"))
	fmt.Fprintf(r.out, "  %s %d  %s %d  %s\n",
		r.pal.Pass("Passed:"), report.Passed(),
		r.pal.Fail("Failed:"), report.Failed(),
		r.pal.Dim(fmt.Sprintf("Total: %d | Time: %s", len(report.Outcomes), seconds(report.TotalDuration))))
	fmt.Fprintln(r.out, "  "+r.pal.Dim("Logs: "+report.LogDir))

	if report.Failed() > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.pal.Warn("Failed Steps"))
		for _, o := range report.Outcomes {
			if o.Succeeded {
				continue
			}
			fmt.Fprintf(r.out, "  %s %s\n    %s\n",
				r.pal.Fail("- "+o.Step.Name),
				r.pal.Dim(fmt.Sprintf("(exit %d, %s)", o.ExitCode, seconds(o.Duration))),
				r.pal.Dim(o.LogPath))
		}
	}

	fmt.Fprintln(r.out)
	hr(r.out, r.pal)
}

func hr(out io.Writer, pal term.Palette) {
	fmt.Fprintln(out, pal.Dim(strings.Repeat("-", 64)))
}

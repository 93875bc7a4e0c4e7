// Package hint extracts short human-readable digests from the output of
// known external tools. Classification is driven by an ordered rule table so
// that supporting a new tool's output format means adding one rule, not
// changing runner control flow.
package hint

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule ties a command substring to an output pattern and a renderer for the
// captured groups.
type Rule struct {
	// Substring that must appear in the step command for the rule to apply
	Command string
	// Pattern searched in the sanitized output
	Pattern *regexp.Regexp
	// Optional veto: when it matches the output, the rule does not fire
	Reject *regexp.Regexp
	// Renders the hint from the pattern's submatches
	Render func(m []string) string
}

// Extract returns a short digest of the sanitized output, or "" when no rule
// matches. Rules are tried in declared order and at most one fires. Extract
// never fails, whatever the input contains.
func Extract(rules []Rule, command, output string) string {
	for _, r := range rules {
		if !strings.Contains(command, r.Command) {
			continue
		}
		m := r.Pattern.FindStringSubmatch(output)
		if m == nil {
			continue
		}
		if r.Reject != nil && r.Reject.MatchString(output) {
			continue
		}
		return r.Render(m)
	}
	return ""
}

// DefaultRules covers the output shapes of the reference toolchain. The
// phrasing is tied to the exact tool versions in use; treat this table as
// configuration, not contract.
func DefaultRules() []Rule {
	return []Rule{
		{
			Command: "vitest run",
			Pattern: regexp.MustCompile(`Tests\s+(\d+)\s+passed`),
			Render: func(m []string) string {
				return fmt.Sprintf("%s tests passed", m[1])
			},
		},
		{
			Command: "cargo test",
			Pattern: regexp.MustCompile(`test result: ok\.\s+(\d+)\s+passed;\s+(\d+)\s+failed;`),
			Render: func(m []string) string {
				return fmt.Sprintf("%s passed, %s failed", m[1], m[2])
			},
		},
		{
			Command: "cargo clippy",
			Pattern: regexp.MustCompile(`Finished`),
			Reject:  regexp.MustCompile(`(?i)error:`),
			Render: func([]string) string {
				return "no clippy errors"
			},
		},
		{
			Command: "npm run build",
			Pattern: regexp.MustCompile(`built in ([\d.]+s)`),
			Render: func(m []string) string {
				return fmt.Sprintf("vite built in %s", m[1])
			},
		},
		{
			Command: "vitest bench",
			Pattern: regexp.MustCompile(`(?s)output flush latency.*?mean\s+([\d.]+)`),
			Render: func(m []string) string {
				return fmt.Sprintf("flush mean %sms", m[1])
			},
		},
	}
}

package hint

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractDefaultRules(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name    string
		command string
		output  string
		want    string
	}{
		{
			name:    "vitest run",
			command: "npx vitest run --reporter=default",
			output:  " Test Files  4 passed (4)\n      Tests  128 passed (128)\n",
			want:    "128 tests passed",
		},
		{
			name:    "cargo test",
			command: "cargo test --lib",
			output:  "test result: ok. 42 passed; 0 failed; 1 ignored; 0 measured\n",
			want:    "42 passed, 0 failed",
		},
		{
			name:    "cargo clippy clean",
			command: "cargo clippy --all-targets --all-features",
			output:  "    Checking app v0.1.0\n    Finished dev [unoptimized] target(s) in 12.45s\n",
			want:    "no clippy errors",
		},
		{
			name:    "cargo clippy with errors",
			command: "cargo clippy --all-targets --all-features",
			output:  "error: this loop never actually loops\n    Finished dev target(s)\n",
			want:    "",
		},
		{
			name:    "npm run build",
			command: "npm run build",
			output:  "vite v5.0.0 building for production...\n✓ built in 3.21s\n",
			want:    "vite built in 3.21s",
		},
		{
			name:    "vitest bench multiline",
			command: "npx vitest bench",
			output:  "output flush latency\n  name        hz     min    max   mean  1.84  2.10\n",
			want:    "flush mean 1.84ms",
		},
		{
			name:    "unknown command",
			command: "make check",
			output:  "everything fine",
			want:    "",
		},
		{
			name:    "known command without recognized output",
			command: "cargo test --lib",
			output:  "error[E0425]: cannot find value `x`",
			want:    "",
		},
		{
			name:    "empty output",
			command: "npm run build",
			output:  "",
			want:    "",
		},
		{
			name:    "binary garbage never fails",
			command: "cargo test",
			output:  "\x00\xff\xfe((([[[",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(rules, tt.command, tt.output)
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{
			Command: "tool",
			Pattern: regexp.MustCompile(`ok`),
			Render:  func([]string) string { return "first" },
		},
		{
			Command: "tool",
			Pattern: regexp.MustCompile(`ok`),
			Render:  func([]string) string { return "second" },
		},
	}
	require.Equal(t, "first", Extract(rules, "run tool now", "all ok"))
}

func TestExtractSkipsNonMatchingRule(t *testing.T) {
	rules := []Rule{
		{
			Command: "tool",
			Pattern: regexp.MustCompile(`does-not-appear`),
			Render:  func([]string) string { return "first" },
		},
		{
			Command: "tool",
			Pattern: regexp.MustCompile(`ok`),
			Render:  func([]string) string { return "second" },
		},
	}
	require.Equal(t, "second", Extract(rules, "run tool now", "all ok"))
}

func TestExtractEmptyRuleTable(t *testing.T) {
	require.Equal(t, "", Extract(nil, "anything", strings.Repeat("x", 1024)))
}

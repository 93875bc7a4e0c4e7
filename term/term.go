// Package term provides terminal output helpers: stripping ANSI escape
// sequences from captured command output and a color palette for console
// rendering.
package term

import "regexp"

// CSI escape sequences: ESC '[' parameter bytes, intermediate bytes, one
// final byte in the printable range.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// Strip removes ANSI/VT100 escape sequences from s. It is pure and total:
// malformed sequences that do not match the pattern are left untouched, and
// stripping already-stripped text is a no-op.
func Strip(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

const (
	codeReset  = "\x1b[0m"
	codeBold   = "\x1b[1m"
	codeDim    = "\x1b[2m"
	codeRed    = "\x1b[31m"
	codeGreen  = "\x1b[32m"
	codeYellow = "\x1b[33m"
	codeCyan   = "\x1b[36m"
)

// Palette formats console text, emitting color codes only when enabled.
// Whether color is enabled is resolved once at startup from the output
// destination; the palette itself carries no mutable state.
type Palette struct {
	enabled bool
}

// NewPalette returns a palette that colors output iff enabled is true.
func NewPalette(enabled bool) Palette {
	return Palette{enabled: enabled}
}

// Enabled reports whether the palette emits color codes.
func (p Palette) Enabled() bool {
	return p.enabled
}

func (p Palette) wrap(code, s string) string {
	if !p.enabled {
		return s
	}
	return code + s + codeReset
}

// Bold renders s in bold.
func (p Palette) Bold(s string) string {
	return p.wrap(codeBold, s)
}

// Dim renders s dimmed, used for secondary detail lines.
func (p Palette) Dim(s string) string {
	return p.wrap(codeDim, s)
}

// Title renders a step heading (bold cyan).
func (p Palette) Title(s string) string {
	return p.wrap(codeBold+codeCyan, s)
}

// Pass renders a success marker (green).
func (p Palette) Pass(s string) string {
	return p.wrap(codeGreen, s)
}

// Fail renders a failure marker (red).
func (p Palette) Fail(s string) string {
	return p.wrap(codeRed, s)
}

// Warn renders a warning marker (bold yellow).
func (p Palette) Warn(s string) string {
	return p.wrap(codeBold+codeYellow, s)
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// newTestApp returns an app whose output is captured and whose exit-coder
// handling is disabled so tests see the returned error instead of os.Exit.
func newTestApp() (*App, *bytes.Buffer) {
	app := New()
	buf := &bytes.Buffer{}
	app.cli.Writer = buf
	app.cli.ErrWriter = buf
	app.cli.ExitErrHandler = func(*cli.Context, error) {}
	return app, buf
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for the local toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func writeCatalog(t *testing.T, dir, yaml string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pipecheck.yml"), []byte(yaml), 0o644))
}

func TestRunCommandMixedResults(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `steps:
  - name: Passing
    command: echo OK
  - name: Failing
    command: "echo 'ERROR: bad thing'; exit 1"
  - name: Recovering
    command: "true"
`)
	chdir(t, dir)

	app, buf := newTestApp()
	err := app.Run([]string{AppName, "run"})
	require.Error(t, err)

	coder, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	require.Equal(t, 1, coder.ExitCode())

	out := buf.String()
	require.Contains(t, out, "[1/3] Passing")
	require.Contains(t, out, "PASS Passing")
	require.Contains(t, out, "FAIL Failing")
	require.Contains(t, out, "PASS Recovering")
	require.Contains(t, out, "Passed: 2")
	require.Contains(t, out, "Failed: 1")
	require.Contains(t, out, "Failed Steps")

	// The run left one log per step behind.
	runs, err2 := os.ReadDir(filepath.Join(dir, "logs", "test"))
	require.NoError(t, err2)
	require.Len(t, runs, 1)
	logs, err2 := os.ReadDir(filepath.Join(dir, "logs", "test", runs[0].Name()))
	require.NoError(t, err2)
	require.Len(t, logs, 3)
}

func TestRunCommandAllPass(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `steps:
  - name: Only
    command: echo fine
`)
	chdir(t, dir)

	app, buf := newTestApp()
	require.NoError(t, app.Run([]string{AppName, "run"}))
	require.Contains(t, buf.String(), "Passed: 1")
}

func TestRunCommandOnlyFilter(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `steps:
  - name: Lint
    command: "true"
  - name: Build
    command: "false"
`)
	chdir(t, dir)

	app, buf := newTestApp()
	require.NoError(t, app.Run([]string{AppName, "--only", "lint", "run"}))
	require.Contains(t, buf.String(), "[1/1] Lint")
	require.NotContains(t, buf.String(), "Build")
}

func TestRunCommandNoMatchingSteps(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `steps:
  - name: Lint
    command: "true"
`)
	chdir(t, dir)

	app, buf := newTestApp()
	require.NoError(t, app.Run([]string{AppName, "--skip", "lint", "run"}))
	require.Contains(t, buf.String(), "No matching steps")
}

func TestStepsCommand(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `steps:
  - name: Lint
    command: make lint
    description: static checks
  - name: Build
    command: make build
    dir: sub
`)
	chdir(t, dir)

	app, buf := newTestApp()
	require.NoError(t, app.Run([]string{AppName, "steps"}))

	out := buf.String()
	require.Contains(t, out, " 1. Lint")
	require.Contains(t, out, "static checks")
	require.Contains(t, out, "$ make lint")
	require.Contains(t, out, " 2. Build")
	require.Contains(t, out, filepath.Join(dir, "sub"))
}

func TestListAndViewCommands(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `steps:
  - name: Echo
    command: echo run-output
`)
	chdir(t, dir)

	app, buf := newTestApp()
	require.NoError(t, app.Run([]string{AppName, "run"}))
	buf.Reset()

	require.NoError(t, app.Run([]string{AppName, "list"}))
	require.Contains(t, buf.String(), "1 steps")
	buf.Reset()

	require.NoError(t, app.Run([]string{AppName, "view"}))
	require.Contains(t, buf.String(), "01-echo.log")
	require.Contains(t, buf.String(), "run-output")
}

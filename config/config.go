// Package config loads the step catalog that drives a pipeline run.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pipecheck/pipecheck/model"
)

// DefaultFile is the catalog file looked up in the repository root when no
// explicit --config path is given.
const DefaultFile = ".pipecheck.yml"

// DefaultLogRoot is where per-run log directories are created, relative to
// the repository root.
const DefaultLogRoot = "logs/test"

// StepConfig is one catalog entry. Dir may be relative to the repository
// root; empty means the root itself.
type StepConfig struct {
	Name        string `yaml:"name"`
	Command     string `yaml:"command"`
	Dir         string `yaml:"dir"`
	Description string `yaml:"description"`
}

// Config is the step catalog plus run-level settings.
type Config struct {
	Steps   []StepConfig `yaml:"steps"`
	LogRoot string       `yaml:"log_root"`
}

// Default returns the built-in reference catalog: the fixed-order
// verification suite for the Cosmos Terminal workspace.
func Default() Config {
	return Config{
		LogRoot: DefaultLogRoot,
		Steps: []StepConfig{
			{
				Name:        "ESLint",
				Command:     "npm run lint",
				Description: "Catches unused vars, bad patterns, and style violations across all TS files",
			},
			{
				Name:    "Integration Tests",
				Command: "npm run test:integration",
				Description: "IPC contract sync, markdown XSS hardening, CSS layout invariants, " +
					"git sidebar rendering, file-tab lifecycle, and Tauri permission auditing",
			},
			{
				Name:    "Stress Tests",
				Command: "npm run test:stress",
				Description: "High-volume terminal output with scroll-pinning and position " +
					"preservation under randomised burst/scroll/hide sequences",
			},
			{
				Name:    "Frontend Benchmarks",
				Command: "npm run bench:frontend",
				Description: "Measures output flush latency, resize/fit latency, " +
					"and IPC dispatch counts to catch performance regressions",
			},
			{
				Name:    "TypeScript Typecheck",
				Command: "npx tsc --noEmit",
				Description: "Full strict-mode type check - catches type errors, " +
					"unused locals/params, and missing annotations",
			},
			{
				Name:    "Frontend Build",
				Command: "npm run build",
				Description: "Vite production bundle - verifies no import errors, " +
					"tree-shaking issues, or asset pipeline failures",
			},
			{
				Name:    "Rust Clippy",
				Command: "cargo clippy --all-targets --all-features",
				Dir:     "src-tauri",
				Description: "Rust linter catching correctness bugs, performance pitfalls, " +
					"and non-idiomatic patterns in the backend",
			},
			{
				Name:    "Rust Unit Tests",
				Command: "cargo test --lib",
				Dir:     "src-tauri",
				Description: "FS security (path traversal, system dir rejection), directory listing, " +
					"file search, binary detection, and shell path validation",
			},
		},
	}
}

// Load reads the catalog from path, or from .pipecheck.yml under root when
// path is empty. A missing default file falls back to the built-in catalog;
// a missing explicit path is an error.
func Load(root, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, DefaultFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "read config %q", path)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %q", path)
	}

	cfg := Default()
	if len(fileCfg.Steps) > 0 {
		cfg.Steps = fileCfg.Steps
	}
	if fileCfg.LogRoot != "" {
		cfg.LogRoot = fileCfg.LogRoot
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %q", path)
	}
	return cfg, nil
}

// Validate checks that every step has a name and a command and that names
// are unique (log file naming and reporting key off the name).
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Steps))
	for i, s := range c.Steps {
		if strings.TrimSpace(s.Name) == "" {
			return errors.Errorf("step %d: name is required", i+1)
		}
		if strings.TrimSpace(s.Command) == "" {
			return errors.Errorf("step %q: command is required", s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return errors.Errorf("duplicate step name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// ModelSteps converts the catalog into pipeline steps, resolving relative
// directories against root.
func (c Config) ModelSteps(root string) []model.Step {
	steps := make([]model.Step, 0, len(c.Steps))
	for _, s := range c.Steps {
		dir := s.Dir
		if dir == "" {
			dir = root
		} else if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		steps = append(steps, model.Step{
			Name:        s.Name,
			Command:     s.Command,
			Dir:         dir,
			Description: s.Description,
		})
	}
	return steps
}

// Filter keeps steps whose name contains one of the only patterns (all when
// empty) and drops steps matching a skip pattern. Matching is
// case-insensitive substring, preserving catalog order.
func Filter(steps []model.Step, only, skip []string) []model.Step {
	out := make([]model.Step, 0, len(steps))
	for _, s := range steps {
		name := strings.ToLower(s.Name)
		if len(only) > 0 && !containsAny(name, only) {
			continue
		}
		if containsAny(name, skip) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Package history enumerates past pipeline runs. Runs are discovered purely
// from the on-disk log layout: one directory per run named by its timestamp
// id, containing one index-prefixed log file per step. No separate index
// file is kept; the logs are the only persisted artifact.
package history

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pipecheck/pipecheck/pipeline"
)

// Entry describes one past run.
type Entry struct {
	// Run id, the directory name (timestamp at second resolution)
	ID string
	// Start time parsed from the id
	Time time.Time
	// Path of the run's log directory
	Path string
	// Step log file names, in execution order
	Steps []string
}

// Entries lists past runs under logRoot, newest first. Directories whose
// name does not parse as a run id are skipped.
func Entries(logger zerolog.Logger, logRoot string) ([]Entry, error) {
	dirs, err := os.ReadDir(logRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("no runs found in %s", logRoot)
		}
		return nil, errors.Wrapf(err, "read log root %q", logRoot)
	}

	var entries []Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		ts, err := time.ParseInLocation(pipeline.RunIDFormat, d.Name(), time.Local)
		if err != nil {
			logger.Debug().Str("dir", d.Name()).Msg("Skipping non-run directory")
			continue
		}

		runPath := filepath.Join(logRoot, d.Name())
		logs, err := filepath.Glob(filepath.Join(runPath, "*.log"))
		if err != nil {
			return nil, errors.Wrapf(err, "scan run directory %q", runPath)
		}
		sort.Strings(logs)

		steps := make([]string, 0, len(logs))
		for _, l := range logs {
			steps = append(steps, filepath.Base(l))
		}
		entries = append(entries, Entry{
			ID:    d.Name(),
			Time:  ts,
			Path:  runPath,
			Steps: steps,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Time.After(entries[j].Time)
	})
	return entries, nil
}

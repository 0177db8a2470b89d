package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kvrepo/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter    string
	Trace     bool
	GoldenDir string
	Update    bool
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name    string               `json:"name"`
	File    string               `json:"file"`
	Pass    bool                 `json:"pass"`
	Errors  []string             `json:"errors,omitempty"`
	Golden  string               `json:"golden,omitempty"` // "match", "mismatch", "updated", "missing"
	Trace   []harness.TraceEvent `json:"trace,omitempty"`
	Entries []string             `json:"entries"`
	Keys    map[string][]string  `json:"keys,omitempty"`
}

// RunResult summarizes a run command.
type RunResult struct {
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// Golden comparison states.
const (
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
	GoldenMissing  = "missing"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run repository scenarios",
		Long: `Run scenario files against a fresh in-memory store.

Each path may be a scenario file or a directory, which is searched
recursively for .yaml and .yml files. With --golden, each scenario's trace
is compared against <dir>/<name>.golden; --update rewrites those files.`,
		Example: `  kvrepo run testdata/scenarios
  kvrepo run --trace account_lifecycle.yaml
  kvrepo run --golden testdata/golden --update testdata/scenarios`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose file name contains this string")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the operation trace of each scenario")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden trace snapshots to compare against")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "write golden files instead of comparing (requires --golden)")

	return cmd
}

func runScenarios(cmd *cobra.Command, opts *RunOptions, paths []string) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Update && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update requires --golden")
	}

	files, err := findScenarioFiles(paths, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	if len(files) == 0 {
		formatter.Error(ErrCodeNoScenarios, "no scenario files found", paths)
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	result := RunResult{Scenarios: make([]ScenarioResult, 0, len(files))}
	for _, file := range files {
		formatter.VerboseLog("running %s", file)
		sr, err := runScenario(file, opts, logger)
		if err != nil {
			return err
		}

		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !opts.Trace {
			sr.Trace = nil
		}
		result.Scenarios = append(result.Scenarios, sr)

		printScenarioResult(formatter, sr)
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		formatter.Printf("\n%d scenarios, %d passed, %d failed\n", result.Total, result.Passed, result.Failed)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
	}
	return nil
}

// runScenario loads and runs one file. A scenario that fails to load counts
// as a failed scenario; only golden file I/O errors abort the command.
func runScenario(file string, opts *RunOptions, logger *slog.Logger) (ScenarioResult, error) {
	sr := ScenarioResult{File: file, Entries: []string{}}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		sr.Errors = []string{err.Error()}
		return sr, nil
	}
	sr.Name = scenario.Name

	result, err := harness.RunWithLogger(scenario, logger.With("scenario", scenario.Name))
	if err != nil {
		sr.Errors = []string{err.Error()}
		return sr, nil
	}
	sr.Pass = result.Pass
	sr.Errors = result.Errors
	sr.Trace = result.Trace
	sr.Entries = result.Entries
	sr.Keys = result.Keys

	if opts.GoldenDir == "" {
		return sr, nil
	}

	snapshot, err := harness.MarshalSnapshot(harness.TraceSnapshot{
		ScenarioName: scenario.Name,
		Trace:        result.Trace,
		Entries:      result.Entries,
	})
	if err != nil {
		return sr, WrapExitError(ExitCommandError, "failed to render snapshot", err)
	}

	sr.Golden, err = checkGolden(goldenPath(opts.GoldenDir, scenario.Name), snapshot, opts.Update)
	if err != nil {
		return sr, WrapExitError(ExitCommandError, "golden file", err)
	}
	switch sr.Golden {
	case GoldenMismatch:
		sr.Pass = false
		sr.Errors = append(sr.Errors, "trace does not match golden file (rerun with --update to accept)")
	case GoldenMissing:
		sr.Pass = false
		sr.Errors = append(sr.Errors, "golden file missing (rerun with --update to create)")
	}
	return sr, nil
}

func goldenPath(dir, name string) string {
	return filepath.Join(dir, name+".golden")
}

// checkGolden compares snapshot against the file at path, or writes it when
// update is set.
func checkGolden(path string, snapshot []byte, update bool) (string, error) {
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("create golden dir: %w", err)
		}
		if err := os.WriteFile(path, snapshot, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return GoldenUpdated, nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return GoldenMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !bytes.Equal(want, snapshot) {
		return GoldenMismatch, nil
	}
	return GoldenMatch, nil
}

// findScenarioFiles expands paths into a sorted list of scenario files.
// Directories are walked recursively for .yaml and .yml files; explicitly
// named files are taken whatever their extension. The filter applies to the
// base name of every file, named or found.
func findScenarioFiles(paths []string, filter string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if matchesFilter(p, filter) {
				files = append(files, p)
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isScenarioFile(path) || !matchesFilter(path, filter) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func isScenarioFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

func matchesFilter(path, filter string) bool {
	return filter == "" || strings.Contains(filepath.Base(path), filter)
}

func printScenarioResult(f *OutputFormatter, sr ScenarioResult) {
	if sr.Pass {
		f.Printf("✓ %s\n", sr.Name)
	} else {
		f.Printf("✗ %s (%s)\n", sr.Name, sr.File)
		for _, e := range sr.Errors {
			f.Printf("    %s\n", e)
		}
	}
	if sr.Golden != "" {
		f.VerboseLog("  golden: %s", sr.Golden)
	}
	for _, ev := range sr.Trace {
		f.Printf("    %3d %-7s %-7s %-24s %s\n", ev.Seq, ev.Op, ev.Type, ev.StoreKey, ev.Outcome)
	}
}

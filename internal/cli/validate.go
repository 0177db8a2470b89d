package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kvrepo/internal/harness"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	File  string `json:"file"`
	Name  string `json:"name,omitempty"`
	Steps int    `json:"steps"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateResult summarizes a validate command.
type ValidateResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate scenario files without running them",
		Long: `Parse and validate scenario files.

Unknown fields, unknown ops or record types, missing keys and malformed
corrupt bytes are all reported. Directories are searched recursively.`,
		Example: `  kvrepo validate testdata/scenarios
  kvrepo validate --format json todo_overwrite.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions, paths []string) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	files, err := findScenarioFiles(paths, "")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	if len(files) == 0 {
		formatter.Error(ErrCodeNoScenarios, "no scenario files found", paths)
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	result := ValidateResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		fv := FileValidation{File: file}
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			fv.Error = err.Error()
			result.Valid = false
			formatter.Printf("✗ %s\n    %s\n", file, err)
		} else {
			fv.Valid = true
			fv.Name = scenario.Name
			fv.Steps = len(scenario.Steps)
			formatter.Printf("✓ %s (%s, %d steps)\n", file, scenario.Name, fv.Steps)
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.JSON() {
		if result.Valid {
			if err := formatter.Success(result); err != nil {
				return WrapExitError(ExitCommandError, "failed to write output", err)
			}
		} else {
			formatter.Error(ErrCodeInvalidScenario, "invalid scenario files", result)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d files", countInvalid(result.Files)))
	}
	return nil
}

func countInvalid(files []FileValidation) int {
	n := 0
	for _, f := range files {
		if !f.Valid {
			n++
		}
	}
	return n
}

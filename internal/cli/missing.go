package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shexcheck/internal/manifest"
)

// MissingOptions holds flags for the missing command.
type MissingOptions struct {
	*RootOptions
	Validation string
}

// MissingResult is the JSON payload of the missing command.
type MissingResult struct {
	Manifest string                    `json:"manifest"`
	Missing  []manifest.MissingFile    `json:"missing"`
	Unlisted []manifest.UnlistedSchema `json:"unlisted,omitempty"`
}

// NewMissingCommand creates the missing command.
func NewMissingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MissingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "missing [manifest]",
		Short: "List manifest references with no file behind them",
		Long: `List every shex, json and ttl file named by a manifest entry that does
not exist in the schema directory. Each file is listed once.

With --validation, also list the schemas that the validation manifest's
tests use from the schema directory but that no manifest entry lists as
shex.

Exit codes:
  0 - Every referenced file exists (and every used schema is listed)
  1 - One or more files are missing or unlisted
  2 - Command error`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMissing(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Validation, "validation", "", "validation manifest whose schemas must be listed")

	return cmd
}

func runMissing(opts *MissingOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := loadManifest(opts.RootOptions, args, formatter)
	if err != nil {
		return err
	}

	missing, err := m.Missing()
	if err != nil {
		_ = formatter.Error(manifest.ErrCodeReadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to check files", err)
	}
	if missing == nil {
		missing = []manifest.MissingFile{}
	}
	result := MissingResult{Manifest: m.Path, Missing: missing}

	if opts.Validation != "" {
		v, err := loadValidationManifest(opts.Validation, formatter)
		if err != nil {
			return err
		}
		if result.Unlisted, err = m.Unlisted(v); err != nil {
			_ = formatter.Error(manifest.ErrCodeReadFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to compare manifests", err)
		}
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("%d referenced file(s) missing", len(missing)))
	}
	if len(result.Unlisted) > 0 {
		problems = append(problems, fmt.Sprintf("%d schema(s) unlisted", len(result.Unlisted)))
	}
	msg := strings.Join(problems, ", ")

	if formatter.JSON() {
		if msg != "" {
			_ = formatter.Failure(ErrCodeMissingFiles, msg, result)
			return NewExitError(ExitFailure, msg)
		}
		return formatter.Success(result)
	}

	for _, mf := range missing {
		fmt.Fprintf(formatter.Writer, "%s (%s of %s)\n", mf.Ref, mf.Field, mf.Entry)
	}
	for _, u := range result.Unlisted {
		fmt.Fprintf(formatter.Writer, "%s (unlisted, used by %s)\n", u.Ref, u.Entry)
	}
	if msg != "" {
		return NewExitError(ExitFailure, msg)
	}
	formatter.VerboseLog("all referenced files present")
	return nil
}

// loadValidationManifest loads a validation manifest, resolving its
// references against its own directory.
func loadValidationManifest(path string, f *OutputFormatter) (*manifest.Manifest, error) {
	v, err := manifest.Load(path, "")
	if err != nil {
		var loadErr *manifest.LoadError
		if errors.As(err, &loadErr) {
			_ = f.Error(loadErr.Code, loadErr.Path+": "+loadErr.Message, nil)
		} else {
			_ = f.Error(manifest.ErrCodeGeneric, err.Error(), nil)
		}
		return nil, WrapExitError(ExitCommandError, "failed to load validation manifest", err)
	}
	return v, nil
}

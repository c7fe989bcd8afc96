package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/shexcheck/internal/manifest"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Output          string                    `json:"output,omitempty"`
	Count           int                       `json:"count"`
	Representations []manifest.Representation `json:"representations,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export [manifest]",
		Short: "Write the representation-test list",
		Long: `Write the representation-test list derived from the first manifest group:

  [{"schemaLabel": ..., "shexURL": ..., "jsonURL": ..., "rdfURL": ...}, ...]

The list is written as indented JSON to standard output or to the file
given by --output.

Examples:
  shexcheck export > representationTests.json
  shexcheck export -o representationTests.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runExport(opts *ExportOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := loadManifest(opts.RootOptions, args, formatter)
	if err != nil {
		return err
	}

	reps := m.Representations()
	var buf bytes.Buffer
	if err := manifest.WriteRepresentations(&buf, reps); err != nil {
		_ = formatter.Error(ErrCodeWrite, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to encode representations", err)
	}

	if opts.Output == "" {
		if formatter.JSON() {
			return formatter.Success(ExportResult{Count: len(reps), Representations: reps})
		}
		_, err := formatter.Writer.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(opts.Output, buf.Bytes(), 0644); err != nil {
		_ = formatter.Error(ErrCodeWrite, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	slog.Debug("wrote representations", "path", opts.Output, "count", len(reps))

	if formatter.JSON() {
		return formatter.Success(ExportResult{Output: opts.Output, Count: len(reps)})
	}
	fmt.Fprintf(formatter.Writer, "wrote %d representation(s) to %s\n", len(reps), opts.Output)
	return nil
}

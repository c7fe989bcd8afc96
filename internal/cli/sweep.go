package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/shexcheck/internal/manifest"
	"github.com/roach88/shexcheck/internal/store"
	"github.com/roach88/shexcheck/internal/sweep"
)

// SweepOptions holds flags for the sweep commands.
type SweepOptions struct {
	*RootOptions
	KeepGoing bool
	Only      []string
	Database  string
}

// SweepResult is the JSON payload of a sweep.
type SweepResult struct {
	Manifest string         `json:"manifest"`
	RunID    string         `json:"run_id,omitempty"`
	Digest   string         `json:"digest"`
	Summary  *sweep.Summary `json:"summary"`
}

// NewValidateCommand creates the full sweep command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return newSweepCommand(rootOpts, sweep.ModeFull, &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Check every entry's Turtle and ShExJ files",
		Long: `Check every manifest entry's Turtle and ShExJ renderings.

For each entry the Turtle file is parsed as RDF and the ShExJ file is loaded
and checked for validity. One line is printed per check, and a separator
line ends each entry. A Turtle failure is followed by its error and the
sweep continues. A ShExJ file that cannot be loaded stops the sweep unless
--keep-going is set.

The manifest defaults to <schemas-dir>/manifest.jsonld.

Exit codes:
  0 - All checks passed
  1 - One or more checks were false
  2 - Command error (unusable manifest, ShExJ load failure, etc.)

Examples:
  shexcheck validate
  shexcheck validate ../shexTest/schemas/manifest.jsonld
  shexcheck validate --only '1dot*' --keep-going
  shexcheck validate --db runs.db --format json`,
	})
}

// NewShExJCommand creates the ShExJ-only sweep command.
func NewShExJCommand(rootOpts *RootOptions) *cobra.Command {
	return newSweepCommand(rootOpts, sweep.ModeShExJ, &cobra.Command{
		Use:   "shexj [manifest]",
		Short: "Check every entry's ShExJ file",
		Long: `Load every manifest entry's ShExJ rendering and check its validity.

Prints one "<file> is valid ShExJ: True|False" line per entry. A file that
cannot be loaded stops the sweep unless --keep-going is set.`,
	})
}

// NewTurtleCommand creates the Turtle-only sweep command.
func NewTurtleCommand(rootOpts *RootOptions) *cobra.Command {
	return newSweepCommand(rootOpts, sweep.ModeTurtle, &cobra.Command{
		Use:   "turtle [manifest]",
		Short: "Check every entry's Turtle file",
		Long: `Parse every manifest entry's Turtle rendering as RDF.

Prints one "<file> is valid turtle: True|False" line per entry, followed by
the parse error when the file does not parse.`,
	})
}

func newSweepCommand(rootOpts *RootOptions, mode sweep.Mode, cmd *cobra.Command) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runSweep(opts, mode, args, cmd)
	}

	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "report ShExJ load failures as invalid and continue")
	cmd.Flags().StringArrayVar(&opts.Only, "only", nil, "only check entries whose name matches this glob (repeatable)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

// applyConfig fills flags the user did not set from the config file.
func (o *SweepOptions) applyConfig(cmd *cobra.Command) {
	cfg := o.cfg()
	if !cmd.Flags().Changed("keep-going") && cfg.KeepGoing {
		o.KeepGoing = true
	}
	if !cmd.Flags().Changed("only") && len(cfg.Only) > 0 {
		o.Only = cfg.Only
	}
	if !cmd.Flags().Changed("db") && cfg.DB != "" {
		o.Database = cfg.DB
	}
}

func runSweep(opts *SweepOptions, mode sweep.Mode, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	opts.applyConfig(cmd)

	filter, err := sweep.NewFilter(opts.Only)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --only pattern", err)
	}

	m, err := loadManifest(opts.RootOptions, args, formatter)
	if err != nil {
		return err
	}

	runner := &sweep.Runner{
		Mode:      mode,
		KeepGoing: opts.KeepGoing,
		Filter:    filter,
	}
	// JSON output carries the summary instead of report lines.
	if !formatter.JSON() {
		runner.Out = formatter.Writer
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Debug("starting sweep", "mode", mode, "manifest", m.Path, "keep_going", opts.KeepGoing)
	sum, runErr := runner.Run(ctx, m)

	digest, err := sum.Digest()
	if err != nil {
		_ = formatter.Error(manifest.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to compute run digest", err)
	}
	result := SweepResult{
		Manifest: m.Path,
		Digest:   digest,
		Summary:  sum,
	}

	if opts.Database != "" {
		// An interrupted sweep is still recorded.
		run, err := recordRun(context.WithoutCancel(ctx), opts.Database, m.Path, sum, runErr)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
	}

	slog.Debug("sweep finished",
		"entries", sum.Entries,
		"skipped", sum.Skipped,
		"turtle_failed", sum.TurtleFailed,
		"shexj_failed", sum.ShExJFailed,
		"digest", digest,
	)

	var loadErr *sweep.SchemaLoadError
	switch {
	case errors.As(runErr, &loadErr):
		_ = formatter.Failure(ErrCodeSchemaLoad, loadErr.Error(), result)
		return WrapExitError(ExitCommandError, "sweep stopped", runErr)

	case runErr != nil:
		_ = formatter.Failure(manifest.ErrCodeGeneric, runErr.Error(), result)
		return WrapExitError(ExitCommandError, "sweep interrupted", runErr)

	case sum.Failed():
		msg := fmt.Sprintf("%d check(s) failed", sum.TurtleFailed+sum.ShExJFailed)
		_ = formatter.Failure(ErrCodeChecksFailed, msg, result)
		return NewExitError(ExitFailure, msg)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return nil
}

func recordRun(ctx context.Context, dbPath, manifestPath string, sum *sweep.Summary, runErr error) (store.Run, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return store.Run{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run, err := st.RecordRun(ctx, manifestPath, sum, runErr)
	if err != nil {
		return store.Run{}, err
	}
	slog.Info("run recorded", "id", run.ID, "seq", run.Seq, "db", dbPath)
	return run, nil
}

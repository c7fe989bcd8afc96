package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/shexcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Run      string
	Failing  bool
}

// RunDetail is the JSON payload of history --run.
type RunDetail struct {
	Run     store.Run         `json:"run"`
	Results []store.ResultRow `json:"results"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sweep runs",
		Long: `Show sweep runs recorded with --db, newest first.

Runs over the same files with the same outcomes share a digest, so a changed
digest marks a changed result.

Examples:
  shexcheck history --db runs.db
  shexcheck history --db runs.db --limit 5
  shexcheck history --db runs.db --run <id>
  shexcheck history --db runs.db --failing`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the checks of one run")
	cmd.Flags().BoolVar(&opts.Failing, "failing", false, "show the failing checks of the latest run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.cfg().DB
	}
	if dbPath == "" {
		_ = formatter.Error(ErrCodeInvalidInput, "--db is required", nil)
		return NewExitError(ExitCommandError, "--db is required")
	}
	// Opening would create an empty database; history only reads.
	if _, err := os.Stat(dbPath); err != nil {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("database not found: %s", dbPath), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.Run != "":
		return showRun(ctx, st, opts.Run, formatter)
	case opts.Failing:
		return showFailing(ctx, st, formatter)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.JSON() {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		writeRun(formatter.Writer, r)
	}
	return nil
}

func showRun(ctx context.Context, st *store.Store, id string, formatter *OutputFormatter) error {
	run, err := st.GetRun(ctx, id)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "unknown run", err)
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	results, err := st.ReadResults(ctx, id)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read results", err)
	}

	if formatter.JSON() {
		return formatter.Success(RunDetail{Run: run, Results: results})
	}
	writeRun(formatter.Writer, run)
	for _, r := range results {
		writeResult(formatter.Writer, r)
	}
	return nil
}

func showFailing(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	failing, err := st.FailingFiles(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read results", err)
	}

	if formatter.JSON() {
		return formatter.Success(failing)
	}
	if len(failing) == 0 {
		fmt.Fprintln(formatter.Writer, "no failing checks")
		return nil
	}
	for _, r := range failing {
		writeResult(formatter.Writer, r)
	}
	return nil
}

func writeRun(w io.Writer, r store.Run) {
	digest := r.Digest
	if len(digest) > 12 {
		digest = digest[:12]
	}
	fmt.Fprintf(w, "#%d %s %s entries=%d skipped=%d turtle=%d/%d shexj=%d/%d digest=%s %s\n",
		r.Seq, r.ID, r.Mode, r.Entries, r.Skipped,
		r.TurtlePassed, r.TurtlePassed+r.TurtleFailed,
		r.ShExJPassed, r.ShExJPassed+r.ShExJFailed,
		digest, r.Manifest)
	if r.Error != "" {
		fmt.Fprintf(w, "  stopped: %s\n", r.Error)
	}
}

func writeResult(w io.Writer, r store.ResultRow) {
	status := "ok"
	if !r.Valid {
		status = "FAIL"
	}
	fmt.Fprintf(w, "  %-4s %-6s %s (%s)\n", status, r.Kind, r.File, r.Entry)
	if r.Error != "" {
		fmt.Fprintf(w, "       %s\n", r.Error)
	}
	for _, v := range r.Violations {
		fmt.Fprintf(w, "       %s\n", v)
	}
}

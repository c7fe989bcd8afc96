package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/shexcheck/internal/config"
)

// DefaultSchemasDir holds the suite manifest when no path is given.
const DefaultSchemasDir = "schemas"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	SchemasDir string

	// Config is loaded before any subcommand runs. Subcommands built
	// without a root see nil and treat it as empty.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shexcheck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shexcheck",
		Short: "shexcheck - sweep a ShEx test suite",
		Long: `Sweep a shexTest-style schema suite.

Reads the suite's JSON-LD manifest and checks that every entry's Turtle
rendering parses as RDF and that every entry's ShExJ rendering loads and
passes its own validity check.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %v\n", ErrCodeInvalidInput, err)
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg

			if !cmd.Flags().Changed("format") && cfg.Format != "" {
				opts.Format = cfg.Format
			}
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeInvalidInput, msg)
				return NewExitError(ExitCommandError, msg)
			}

			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			if cfg.Path != "" {
				slog.Debug("loaded config", "path", cfg.Path)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	cmd.PersistentFlags().StringVar(&opts.SchemasDir, "schemas-dir", "", "directory entry references resolve against (default: the manifest's directory)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewShExJCommand(opts))
	cmd.AddCommand(NewTurtleCommand(opts))
	cmd.AddCommand(NewMissingCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// setupLogging installs a text slog handler on w, at Debug when verbose.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// cfg returns the loaded config, or an empty one.
func (o *RootOptions) cfg() *config.Config {
	if o.Config == nil {
		return &config.Config{}
	}
	return o.Config
}

// schemasDir returns the --schemas-dir flag, falling back to the config.
func (o *RootOptions) schemasDir() string {
	if o.SchemasDir != "" {
		return o.SchemasDir
	}
	return o.cfg().SchemasDir
}

// manifestPath picks the manifest from the command argument, the config, or
// the schemas directory, in that order.
func (o *RootOptions) manifestPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if m := o.cfg().Manifest; m != "" {
		return m
	}
	if dir := o.schemasDir(); dir != "" {
		return dir
	}
	return DefaultSchemasDir
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

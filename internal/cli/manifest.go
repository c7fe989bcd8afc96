package cli

import (
	"errors"
	"log/slog"

	"github.com/roach88/shexcheck/internal/manifest"
)

// loadManifest loads the manifest named by args (or the configured default)
// and reports load failures through the formatter as command errors.
func loadManifest(opts *RootOptions, args []string, f *OutputFormatter) (*manifest.Manifest, error) {
	path := opts.manifestPath(args)
	slog.Debug("loading manifest", "path", path, "schemas_dir", opts.schemasDir())

	m, err := manifest.Load(path, opts.schemasDir())
	if err != nil {
		var loadErr *manifest.LoadError
		if errors.As(err, &loadErr) {
			var details any
			if len(loadErr.Details) > 0 {
				details = loadErr.Details
			}
			msg := loadErr.Message
			if loadErr.Path != "" {
				msg = loadErr.Path + ": " + msg
			}
			_ = f.Error(loadErr.Code, msg, details)
			return nil, WrapExitError(ExitCommandError, "failed to load manifest", err)
		}
		_ = f.Error(manifest.ErrCodeGeneric, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	slog.Debug("manifest loaded", "path", m.Path, "entries", len(m.Entries()))
	return m, nil
}

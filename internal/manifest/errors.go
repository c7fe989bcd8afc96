package manifest

import "fmt"

// Error codes reported for manifest problems.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeNotFound   = "E002" // Manifest path not found
	ErrCodeReadFailed = "E003" // Manifest could not be read
	ErrCodeSyntax     = "E004" // Manifest is not well-formed JSON
	ErrCodeShape      = "E005" // Manifest does not match the expected shape
	ErrCodeDecode     = "E006" // Manifest could not be decoded into entries
)

// LoadError represents an error that occurred while loading a manifest.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Details []string // one line per shape violation, if any
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

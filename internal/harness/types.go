package harness

import (
	"strings"

	"github.com/roach88/shexcheck/internal/store"
	"github.com/roach88/shexcheck/internal/sweep"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion holds.
	Pass bool `json:"pass"`

	// Output is the line report the sweep wrote.
	Output string `json:"output"`

	// Summary is the sweep summary, partial when the sweep stopped.
	Summary *sweep.Summary `json:"summary"`

	// Stopped is set when a ShExJ load failure ended the sweep.
	Stopped *sweep.SchemaLoadError `json:"-"`

	// Recorded holds the result rows read back from the run store.
	Recorded []store.ResultRow `json:"recorded"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Lines splits the report into lines without the trailing newline.
func (r *Result) Lines() []string {
	out := strings.TrimSuffix(r.Output, "\n")
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}

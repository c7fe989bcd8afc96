package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/roach88/shexcheck/internal/canonical"
	"github.com/roach88/shexcheck/internal/manifest"
	"github.com/roach88/shexcheck/internal/shexj"
	"github.com/roach88/shexcheck/internal/turtle"
)

// Mode selects which checks a sweep performs.
type Mode int

const (
	// ModeFull checks Turtle and ShExJ and separates entries.
	ModeFull Mode = iota
	// ModeShExJ checks ShExJ only.
	ModeShExJ
	// ModeTurtle checks Turtle only.
	ModeTurtle
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeShExJ:
		return "shexj"
	case ModeTurtle:
		return "turtle"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) turtle() bool { return m == ModeFull || m == ModeTurtle }
func (m Mode) shexj() bool  { return m == ModeFull || m == ModeShExJ }

// DomainRun separates run digests from other content hashes.
const DomainRun = "shexcheck/run/v1"

// SchemaLoadError stops a sweep when a ShExJ file cannot be loaded.
type SchemaLoadError struct {
	Entry string
	File  string
	Err   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("loading ShExJ %s (entry %s): %v", e.File, e.Entry, e.Err)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Err
}

// Check is the outcome of one file check.
type Check struct {
	File       string   `json:"file"`
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	Triples    int      `json:"triples,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// Result holds the checks performed for one entry.
type Result struct {
	Entry  string `json:"entry"`
	Turtle *Check `json:"turtle,omitempty"`
	ShExJ  *Check `json:"shexj,omitempty"`
}

// Summary aggregates a sweep. Text output never waits on it.
type Summary struct {
	Mode         string   `json:"mode"`
	Entries      int      `json:"entries"`
	Skipped      int      `json:"skipped"`
	TurtlePassed int      `json:"turtle_passed"`
	TurtleFailed int      `json:"turtle_failed"`
	ShExJPassed  int      `json:"shexj_passed"`
	ShExJFailed  int      `json:"shexj_failed"`
	Results      []Result `json:"results"`
}

// Failed reports whether any check came out false.
func (s *Summary) Failed() bool {
	return s.TurtleFailed > 0 || s.ShExJFailed > 0
}

// Digest identifies the ordered results of the sweep. Sweeps over the same
// files with the same outcomes share a digest.
func (s *Summary) Digest() (string, error) {
	results := make([]any, 0, len(s.Results))
	for _, r := range s.Results {
		obj := map[string]any{"entry": r.Entry}
		if r.Turtle != nil {
			obj["turtle"] = checkMap(r.Turtle)
		}
		if r.ShExJ != nil {
			obj["shexj"] = checkMap(r.ShExJ)
		}
		results = append(results, obj)
	}
	return canonical.Digest(DomainRun, map[string]any{
		"mode":    s.Mode,
		"results": results,
	})
}

func checkMap(c *Check) map[string]any {
	m := map[string]any{
		"file":  c.File,
		"valid": c.Valid,
	}
	if c.Error != "" {
		m["error"] = c.Error
	}
	if len(c.Violations) > 0 {
		m["violations"] = c.Violations
	}
	return m
}

// Runner performs sweeps.
type Runner struct {
	Mode Mode
	// KeepGoing reports ShExJ load failures as invalid instead of stopping.
	KeepGoing bool
	// Filter restricts the sweep to matching entry names; nil selects all.
	Filter *Filter
	// Out receives report lines; nil discards them.
	Out io.Writer
}

// Run sweeps every qualifying entry of m. On a ShExJ load failure (without
// KeepGoing) or context cancellation it returns the summary so far together
// with the error.
func (r *Runner) Run(ctx context.Context, m *manifest.Manifest) (*Summary, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	rep := reporter{w: out}
	sum := &Summary{Mode: r.Mode.String(), Results: []Result{}}

	for _, e := range m.Entries() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if !r.Filter.Match(e.Name) {
			continue
		}
		if !r.qualifies(e) {
			r.logSkip(e)
			sum.Skipped++
			continue
		}

		slog.Debug("checking entry", "entry", e.Label())
		sum.Entries++
		res := Result{Entry: e.Label()}

		if r.Mode.turtle() {
			res.Turtle = r.checkTurtle(m, e, rep)
			if res.Turtle.Valid {
				sum.TurtlePassed++
			} else {
				sum.TurtleFailed++
			}
		}

		if r.Mode.shexj() {
			check, err := r.checkShExJ(m, e, rep)
			if err != nil {
				sum.Results = append(sum.Results, res)
				return sum, err
			}
			res.ShExJ = check
			if check.Valid {
				sum.ShExJPassed++
			} else {
				sum.ShExJFailed++
			}
		}

		sum.Results = append(sum.Results, res)
		if r.Mode == ModeFull {
			rep.separator()
		}
	}
	return sum, nil
}

func (r *Runner) qualifies(e manifest.Entry) bool {
	switch r.Mode {
	case ModeShExJ:
		return e.JSON != ""
	case ModeTurtle:
		return e.TTL != ""
	}
	return e.JSON != "" && e.TTL != ""
}

// logSkip warns when a full sweep drops an entry: its other file then goes
// unchecked without affecting the exit status. Single-kind sweeps skip
// entries lacking their kind as a matter of course.
func (r *Runner) logSkip(e manifest.Entry) {
	if r.Mode != ModeFull {
		slog.Debug("skipping entry without required references", "entry", e.Label(), "mode", r.Mode)
		return
	}
	var missing []string
	if e.TTL == "" {
		missing = append(missing, "ttl")
	}
	if e.JSON == "" {
		missing = append(missing, "json")
	}
	slog.Warn("skipping entry without required references",
		"entry", e.Label(), "mode", r.Mode, "missing", strings.Join(missing, ","))
}

func (r *Runner) checkTurtle(m *manifest.Manifest, e manifest.Entry, rep reporter) *Check {
	check := &Check{File: e.TTL}
	g, err := turtle.ParseFile(m.Resolve(e.TTL))
	if err != nil {
		check.Error = describe(err)
		rep.turtle(e.TTL, false, err)
		return check
	}
	check.Valid = true
	check.Triples = g.Len()
	rep.turtle(e.TTL, true, nil)
	return check
}

// checkShExJ returns an error only when the sweep must stop.
func (r *Runner) checkShExJ(m *manifest.Manifest, e manifest.Entry, rep reporter) (*Check, error) {
	check := &Check{File: e.JSON}

	data, err := os.ReadFile(m.Resolve(e.JSON))
	if err == nil {
		var s *shexj.Schema
		s, err = shexj.Load(data)
		if err == nil {
			verr := s.Validate()
			for _, v := range shexj.Violations(verr) {
				check.Violations = append(check.Violations, v.Error())
			}
			check.Valid = verr == nil
			if !check.Valid {
				slog.Debug("ShExJ violations", "file", e.JSON, "count", len(check.Violations))
			}
			rep.shexj(e.JSON, check.Valid, nil)
			return check, nil
		}
	}

	loadErr := &SchemaLoadError{Entry: e.Label(), File: e.JSON, Err: err}
	if !r.KeepGoing {
		return nil, loadErr
	}
	check.Error = err.Error()
	rep.shexj(e.JSON, false, err)
	return check, nil
}

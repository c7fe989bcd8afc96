package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shexcheck/internal/sweep"
	"github.com/roach88/shexcheck/internal/testutil"
)

// Scenario describes a suite on disk, a sweep over it and what the sweep
// must report.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mode is full, shexj or turtle. Empty means full.
	Mode string `yaml:"mode,omitempty"`

	// KeepGoing reports ShExJ load failures instead of stopping.
	KeepGoing bool `yaml:"keep_going,omitempty"`

	// Only restricts the sweep to entry names matching these globs.
	Only []string `yaml:"only,omitempty"`

	// Entries become the manifest's entries, in order.
	Entries []EntrySpec `yaml:"entries"`

	// Files holds inline file bodies keyed by reference.
	Files map[string]string `yaml:"files,omitempty"`

	// Fixtures maps references to named fixture bodies
	// (valid_turtle, invalid_shexj, ...).
	Fixtures map[string]string `yaml:"fixtures,omitempty"`

	// Assertions validate the report and summary.
	Assertions []Assertion `yaml:"assertions"`
}

// EntrySpec is one manifest entry. A reference with no body in Files or
// Fixtures is listed but never written.
type EntrySpec struct {
	Name string `yaml:"name"`
	TTL  string `yaml:"ttl,omitempty"`
	JSON string `yaml:"json,omitempty"`
	ShEx string `yaml:"shex,omitempty"`
}

// Assertion validates the report or summary of a sweep.
type Assertion struct {
	// Type specifies the assertion type:
	// - "output_contains": a report line equals Line
	// - "output_order": Lines appear in order, other lines may intervene
	// - "line_count": exactly Count report lines contain Contains
	// - "check": the Kind check of Entry came out Valid
	// - "summary": the summary counters named in Counts match
	// - "stopped": the sweep stopped on a load failure in Entry
	// - "completed": the sweep ran to the end
	Type string `yaml:"type"`

	Line     string   `yaml:"line,omitempty"`
	Lines    []string `yaml:"lines,omitempty"`
	Contains string   `yaml:"contains,omitempty"`
	Count    int      `yaml:"count,omitempty"`

	Entry string `yaml:"entry,omitempty"`
	Kind  string `yaml:"kind,omitempty"`
	Valid *bool  `yaml:"valid,omitempty"`

	Counts map[string]int `yaml:"counts,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertOutputOrder    = "output_order"
	AssertLineCount      = "line_count"
	AssertCheck          = "check"
	AssertSummary        = "summary"
	AssertStopped        = "stopped"
	AssertCompleted      = "completed"
)

// summaryCounters lists the counters a summary assertion may name.
var summaryCounters = map[string]func(*sweep.Summary) int{
	"entries":       func(s *sweep.Summary) int { return s.Entries },
	"skipped":       func(s *sweep.Summary) int { return s.Skipped },
	"turtle_passed": func(s *sweep.Summary) int { return s.TurtlePassed },
	"turtle_failed": func(s *sweep.Summary) int { return s.TurtleFailed },
	"shexj_passed":  func(s *sweep.Summary) int { return s.ShExJPassed },
	"shexj_failed":  func(s *sweep.Summary) int { return s.ShExJFailed },
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML. Unknown fields are
// rejected so that a typo like "assertion:" fails loudly.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ParseMode maps a mode name to a sweep mode. Empty means full.
func ParseMode(name string) (sweep.Mode, error) {
	switch name {
	case "", "full":
		return sweep.ModeFull, nil
	case "shexj":
		return sweep.ModeShExJ, nil
	case "turtle":
		return sweep.ModeTurtle, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want full, shexj or turtle)", name)
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := ParseMode(s.Mode); err != nil {
		return err
	}
	if _, err := sweep.NewFilter(s.Only); err != nil {
		return err
	}
	if len(s.Entries) == 0 {
		return fmt.Errorf("entries list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, e := range s.Entries {
		if e.Name == "" {
			return fmt.Errorf("entries[%d]: name is required", i)
		}
	}
	for ref, name := range s.Fixtures {
		if _, ok := testutil.Fixtures[name]; !ok {
			return fmt.Errorf("fixtures[%s]: unknown fixture %q", ref, name)
		}
		if _, dup := s.Files[ref]; dup {
			return fmt.Errorf("fixtures[%s]: also given in files", ref)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertOutputContains:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for output_contains", index)
		}
	case AssertOutputOrder:
		if len(a.Lines) < 2 {
			return fmt.Errorf("assertions[%d]: output_order needs at least 2 lines", index)
		}
	case AssertLineCount:
		if a.Contains == "" {
			return fmt.Errorf("assertions[%d]: contains is required for line_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for line_count", index)
		}
	case AssertCheck:
		if a.Entry == "" {
			return fmt.Errorf("assertions[%d]: entry is required for check", index)
		}
		if a.Kind != "turtle" && a.Kind != "shexj" {
			return fmt.Errorf("assertions[%d]: kind must be turtle or shexj", index)
		}
		if a.Valid == nil {
			return fmt.Errorf("assertions[%d]: valid is required for check", index)
		}
	case AssertSummary:
		if len(a.Counts) == 0 {
			return fmt.Errorf("assertions[%d]: counts is required for summary", index)
		}
		for name := range a.Counts {
			if _, ok := summaryCounters[name]; !ok {
				return fmt.Errorf("assertions[%d]: unknown summary counter %q", index, name)
			}
		}
	case AssertStopped:
		if a.Entry == "" {
			return fmt.Errorf("assertions[%d]: entry is required for stopped", index)
		}
	case AssertCompleted:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

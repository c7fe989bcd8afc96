package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/shexcheck/internal/sweep"
)

// AssertionError is returned when an assertion fails. It carries the report
// for context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Output   []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nReport:\n")
	for i, line := range e.Output {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, line)
	}
	return buf.String()
}

func assertOutputContains(lines []string, a Assertion) error {
	if slices.Contains(lines, a.Line) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("line %q", a.Line),
		Actual:   "not found",
		Output:   lines,
	}
}

// assertOutputOrder checks that the lines appear in order. Other lines may
// appear between them.
func assertOutputOrder(lines []string, a Assertion) error {
	next := 0
	for _, line := range lines {
		if next < len(a.Lines) && line == a.Lines[next] {
			next++
		}
	}
	if next == len(a.Lines) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputOrder,
		Expected: fmt.Sprintf("lines in order: %q", a.Lines),
		Actual:   fmt.Sprintf("matched %d of %d, stuck at %q", next, len(a.Lines), a.Lines[next]),
		Output:   lines,
	}
}

func assertLineCount(lines []string, a Assertion) error {
	count := 0
	for _, line := range lines {
		if strings.Contains(line, a.Contains) {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertLineCount,
		Expected: fmt.Sprintf("%d line(s) containing %q", a.Count, a.Contains),
		Actual:   fmt.Sprintf("%d line(s)", count),
		Output:   lines,
	}
}

func assertCheck(result *Result, a Assertion) error {
	var check *sweep.Check
	for _, r := range result.Summary.Results {
		if r.Entry != a.Entry {
			continue
		}
		if a.Kind == "turtle" {
			check = r.Turtle
		} else {
			check = r.ShExJ
		}
		break
	}

	expected := fmt.Sprintf("%s check of %s valid=%t", a.Kind, a.Entry, *a.Valid)
	if check == nil {
		return &AssertionError{Type: AssertCheck, Expected: expected, Actual: "check not performed", Output: result.Lines()}
	}
	if check.Valid != *a.Valid {
		actual := fmt.Sprintf("valid=%t", check.Valid)
		if check.Error != "" {
			actual += " (" + check.Error + ")"
		}
		return &AssertionError{Type: AssertCheck, Expected: expected, Actual: actual, Output: result.Lines()}
	}
	return nil
}

func assertSummary(result *Result, a Assertion) error {
	names := make([]string, 0, len(a.Counts))
	for name := range a.Counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var mismatches []string
	for _, name := range names {
		if got := summaryCounters[name](result.Summary); got != a.Counts[name] {
			mismatches = append(mismatches, fmt.Sprintf("%s=%d (want %d)", name, got, a.Counts[name]))
		}
	}
	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertSummary,
		Expected: fmt.Sprintf("counters %v", a.Counts),
		Actual:   strings.Join(mismatches, ", "),
		Output:   result.Lines(),
	}
}

func assertStopped(result *Result, a Assertion) error {
	switch {
	case result.Stopped == nil:
		return &AssertionError{
			Type:     AssertStopped,
			Expected: fmt.Sprintf("sweep stopped at %s", a.Entry),
			Actual:   "sweep completed",
			Output:   result.Lines(),
		}
	case result.Stopped.Entry != a.Entry:
		return &AssertionError{
			Type:     AssertStopped,
			Expected: fmt.Sprintf("sweep stopped at %s", a.Entry),
			Actual:   fmt.Sprintf("stopped at %s: %v", result.Stopped.Entry, result.Stopped.Err),
			Output:   result.Lines(),
		}
	}
	return nil
}

func assertCompleted(result *Result) error {
	if result.Stopped == nil {
		return nil
	}
	return &AssertionError{
		Type:     AssertCompleted,
		Expected: "sweep completed",
		Actual:   result.Stopped.Error(),
		Output:   result.Lines(),
	}
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	lines := result.Lines()
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertOutputContains:
			err = assertOutputContains(lines, a)
		case AssertOutputOrder:
			err = assertOutputOrder(lines, a)
		case AssertLineCount:
			err = assertLineCount(lines, a)
		case AssertCheck:
			err = assertCheck(result, a)
		case AssertSummary:
			err = assertSummary(result, a)
		case AssertStopped:
			err = assertStopped(result, a)
		case AssertCompleted:
			err = assertCompleted(result)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

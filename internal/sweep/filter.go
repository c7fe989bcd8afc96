package sweep

import (
	"fmt"
	"path"

	"golang.org/x/text/unicode/norm"
)

// Filter selects entries by name using path.Match glob patterns. Names and
// patterns are compared in Unicode NFC so that composed and decomposed
// spellings match each other.
type Filter struct {
	patterns []string
}

// NewFilter compiles patterns. No patterns selects every entry.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		p = norm.NFC.String(p)
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid entry pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

// Match reports whether the entry name is selected.
func (f *Filter) Match(name string) bool {
	if f == nil || len(f.patterns) == 0 {
		return true
	}
	name = norm.NFC.String(name)
	for _, p := range f.patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

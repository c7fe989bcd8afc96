package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MissingFile is a manifest reference with no file behind it.
type MissingFile struct {
	Entry string `json:"entry"`
	Field string `json:"field"` // "shex", "json" or "ttl"
	Ref   string `json:"ref"`
	Path  string `json:"path"`
}

// Missing reports every referenced file that does not exist. Each reference
// is reported once, attributed to the first entry naming it.
func (m *Manifest) Missing() ([]MissingFile, error) {
	seen := make(map[string]bool)
	var missing []MissingFile

	for _, e := range m.Entries() {
		refs := []struct{ field, ref string }{
			{"shex", e.ShEx},
			{"json", e.JSON},
			{"ttl", e.TTL},
		}
		for _, r := range refs {
			if r.ref == "" || seen[r.ref] {
				continue
			}
			seen[r.ref] = true

			path := m.Resolve(r.ref)
			_, err := os.Stat(path)
			if err == nil {
				continue
			}
			if !os.IsNotExist(err) {
				return missing, fmt.Errorf("checking %s: %w", path, err)
			}
			missing = append(missing, MissingFile{
				Entry: e.Label(),
				Field: r.field,
				Ref:   r.ref,
				Path:  path,
			})
		}
	}
	return missing, nil
}

// UnlistedSchema is a schema used by a validation test but absent from the
// schemas manifest's shex references.
type UnlistedSchema struct {
	Entry string `json:"entry"`
	Ref   string `json:"ref"`
}

// Unlisted reports the schemas that validation entries use from m's schema
// directory but that no entry of m lists as shex. References outside the
// schema directory are ignored. Each schema is reported once, attributed to
// the first validation entry naming it.
func (m *Manifest) Unlisted(validation *Manifest) ([]UnlistedSchema, error) {
	listed := make(map[string]bool)
	for _, e := range m.Entries() {
		if e.ShEx != "" {
			listed[filepath.ToSlash(filepath.Clean(filepath.FromSlash(e.ShEx)))] = true
		}
	}

	root, err := filepath.Abs(m.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", m.Dir, err)
	}

	seen := make(map[string]bool)
	var unlisted []UnlistedSchema
	for _, e := range validation.Entries() {
		if e.Action == nil || e.Action.Schema == "" {
			continue
		}
		path, err := filepath.Abs(validation.Resolve(e.Action.Schema))
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", e.Action.Schema, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		ref := filepath.ToSlash(rel)
		if listed[ref] || seen[ref] {
			continue
		}
		seen[ref] = true
		unlisted = append(unlisted, UnlistedSchema{Entry: e.Label(), Ref: ref})
	}
	return unlisted, nil
}

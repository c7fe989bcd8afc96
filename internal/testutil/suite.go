// Package testutil builds schema suites on disk for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/shexcheck/internal/manifest"
)

// Fixture bodies shared by the sweep, CLI and harness tests.
const (
	ValidTurtle = `@prefix ex: <http://a.example/> .
@prefix sx: <http://www.w3.org/ns/shex#> .

ex:S1 a sx:Shape .
`
	InvalidTurtle = `<http://a.example/s> <http://a.example/p> .`

	ValidShExJ = `{
  "@context": "http://www.w3.org/ns/shex.jsonld",
  "type": "Schema",
  "shapes": [
    {
      "id": "http://a.example/S1",
      "type": "Shape",
      "expression": {"type": "TripleConstraint", "predicate": "http://a.example/p1"}
    }
  ]
}`

	// InvalidShExJ loads but references undeclared shapes.
	InvalidShExJ = `{
  "type": "Schema",
  "shapes": [
    {
      "id": "http://a.example/S1",
      "type": "ShapeAnd",
      "shapeExprs": ["http://a.example/S2", "http://a.example/S3"]
    }
  ]
}`

	// UnloadableShExJ carries an unknown type discriminator.
	UnloadableShExJ = `{"type": "Schema", "shapes": [{"id": "http://a.example/S1", "type": "Bogus"}]}`
)

// Fixtures names the fixture bodies for scenario files.
var Fixtures = map[string]string{
	"valid_turtle":     ValidTurtle,
	"invalid_turtle":   InvalidTurtle,
	"valid_shexj":      ValidShExJ,
	"invalid_shexj":    InvalidShExJ,
	"unloadable_shexj": UnloadableShExJ,
}

// Entry describes one manifest entry and the files behind it. A reference
// with an empty body is listed in the manifest but not written.
type Entry struct {
	Name string

	TTL, JSON, ShEx             string
	TTLBody, JSONBody, ShExBody string
}

// Valid returns an entry whose Turtle and ShExJ files both pass.
func Valid(name string) Entry {
	return Entry{
		Name:     name,
		TTL:      name + ".ttl",
		JSON:     name + ".json",
		TTLBody:  ValidTurtle,
		JSONBody: ValidShExJ,
	}
}

// WriteSuite writes manifest.jsonld and the entries' files into a new temp
// dir and returns the dir.
func WriteSuite(t testing.TB, entries ...Entry) string {
	t.Helper()
	dir := t.TempDir()
	if err := Build(dir, entries...); err != nil {
		t.Fatalf("build suite: %v", err)
	}
	return dir
}

// Build writes manifest.jsonld and the entries' files into dir.
func Build(dir string, entries ...Entry) error {
	group := manifest.Group{
		ID:      "",
		Type:    "mf:Manifest",
		Comment: "test suite",
		Entries: []manifest.Entry{},
	}
	for _, e := range entries {
		group.Entries = append(group.Entries, manifest.Entry{
			ID:   "#" + e.Name,
			Type: "sht:RepresentationTest",
			Name: e.Name,
			ShEx: e.ShEx,
			JSON: e.JSON,
			TTL:  e.TTL,
		})
		for _, f := range []struct{ ref, body string }{
			{e.TTL, e.TTLBody},
			{e.JSON, e.JSONBody},
			{e.ShEx, e.ShExBody},
		} {
			if f.ref != "" && f.body != "" {
				if err := writeFile(filepath.Join(dir, f.ref), f.body); err != nil {
					return err
				}
			}
		}
	}

	doc := manifest.Manifest{
		Context: []any{map[string]any{"@base": "https://example.org/schemas/manifest"}},
		Graph:   []manifest.Group{group},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return writeFile(filepath.Join(dir, manifest.DefaultName), string(data))
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := writeFile(path, content); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadSuite writes a suite and loads its manifest.
func LoadSuite(t testing.TB, entries ...Entry) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Load(WriteSuite(t, entries...), "")
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	return m
}

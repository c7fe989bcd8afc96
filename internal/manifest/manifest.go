package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultName is the manifest file name looked up inside a schema directory.
const DefaultName = "manifest.jsonld"

// Manifest is a decoded suite manifest.
type Manifest struct {
	Context any     `json:"@context,omitempty"`
	Graph   []Group `json:"@graph"`

	// Path is the file the manifest was loaded from.
	Path string `json:"-"`
	// Dir is the schema directory entry references are resolved against.
	Dir string `json:"-"`
}

// Group is one element of the manifest's @graph.
type Group struct {
	ID      string  `json:"@id,omitempty"`
	Type    string  `json:"@type,omitempty"`
	Comment string  `json:"rdfs:comment,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
}

// Entry names one schema and its sibling representations.
type Entry struct {
	ID     string   `json:"@id,omitempty"`
	Type   string   `json:"@type,omitempty"`
	Name   string   `json:"name,omitempty"`
	Status string   `json:"status,omitempty"`
	Trait  []string `json:"trait,omitempty"`
	ShEx   string   `json:"shex,omitempty"`
	JSON   string   `json:"json,omitempty"`
	TTL    string   `json:"ttl,omitempty"`

	// Action is set on validation manifest entries.
	Action *Action `json:"action,omitempty"`
}

// Action is the input of a validation test. Only the schema reference is
// decoded.
type Action struct {
	Schema string `json:"schema,omitempty"`
}

// Label returns the entry name, falling back to its @id.
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Load reads the manifest at path. References are resolved against
// schemasDir, or against the manifest's directory when schemasDir is empty.
// A directory path is treated as a schema directory holding DefaultName.
func Load(path, schemasDir string) (*Manifest, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "manifest not found", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: fmt.Sprintf("error accessing manifest: %v", err), Err: err}
	}
	if info.IsDir() {
		return Load(filepath.Join(path, DefaultName), schemasDirOr(schemasDir, path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: fmt.Sprintf("reading manifest: %v", err), Err: err}
	}

	m, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	m.Dir = schemasDirOr(schemasDir, filepath.Dir(path))
	return m, nil
}

// Parse checks the shape of data and decodes it. The returned manifest
// resolves references against the directory of filename.
func Parse(filename string, data []byte) (*Manifest, error) {
	if err := CheckShape(filename, data); err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Path: filename, Message: fmt.Sprintf("decoding manifest: %v", err), Err: err}
	}
	m.Path = filename
	m.Dir = filepath.Dir(filename)
	return &m, nil
}

func schemasDirOr(schemasDir, fallback string) string {
	if schemasDir != "" {
		return schemasDir
	}
	return fallback
}

// Entries returns the entries of every group, in document order.
// Groups without an entries list contribute nothing.
func (m *Manifest) Entries() []Entry {
	var entries []Entry
	for _, g := range m.Graph {
		entries = append(entries, g.Entries...)
	}
	return entries
}

// Resolve maps a manifest reference to a path on disk.
func (m *Manifest) Resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(m.Dir, filepath.FromSlash(ref))
}

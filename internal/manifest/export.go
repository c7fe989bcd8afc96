package manifest

import (
	"encoding/json"
	"io"
)

// Representation is one row of the representation-test list consumed by
// ShEx implementations that only need the file triple for a schema.
type Representation struct {
	SchemaLabel string `json:"schemaLabel,omitempty"`
	ShExURL     string `json:"shexURL,omitempty"`
	JSONURL     string `json:"jsonURL,omitempty"`
	RDFURL      string `json:"rdfURL,omitempty"`
}

// Representations derives the representation-test list from the entries of
// the first group in @graph.
func (m *Manifest) Representations() []Representation {
	if len(m.Graph) == 0 {
		return []Representation{}
	}
	reps := make([]Representation, 0, len(m.Graph[0].Entries))
	for _, e := range m.Graph[0].Entries {
		reps = append(reps, Representation{
			SchemaLabel: e.Name,
			ShExURL:     e.ShEx,
			JSONURL:     e.JSON,
			RDFURL:      e.TTL,
		})
	}
	return reps
}

// WriteRepresentations writes reps as two-space indented JSON.
func WriteRepresentations(w io.Writer, reps []Representation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reps)
}

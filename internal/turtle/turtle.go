// Package turtle parses Turtle documents into in-memory triple graphs.
package turtle

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/knakk/rdf"
)

// Graph holds the triples decoded from one document.
type Graph struct {
	triples []rdf.Triple
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the decoded triples in document order.
func (g *Graph) Triples() []rdf.Triple {
	return g.triples
}

// ParseError reports a document that is not valid Turtle.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes all triples from r. The whole document must be valid;
// a syntax error anywhere fails the parse.
func Parse(r io.Reader) (*Graph, error) {
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)
	g := &Graph{}
	for {
		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return g, nil
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		g.triples = append(g.triples, tr)
	}
}

// ParseFile opens, parses and closes the Turtle file at path.
func ParseFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, err
	}
	return g, nil
}

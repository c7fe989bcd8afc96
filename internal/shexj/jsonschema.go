package shexj

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed shexj.schema.json
var shexjSchemaJSON string

const shexjSchemaURL = "https://schemas.shexcheck.dev/shexj.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func shexjSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(shexjSchemaURL, strings.NewReader(shexjSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("adding ShExJ JSON schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(shexjSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling ShExJ JSON schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// conformance checks doc against the ShExJ JSON Schema and returns one
// violation per failing leaf keyword.
func conformance(doc any) []error {
	sch, err := shexjSchema()
	if err != nil {
		return []error{err}
	}
	err = sch.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var out []error
	collectLeaves(ve, &out)
	return out
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]error) {
	if len(ve.Causes) == 0 {
		*out = append(*out, &Violation{Path: ve.InstanceLocation, Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}

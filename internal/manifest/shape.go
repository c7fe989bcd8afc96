package manifest

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed manifest.cue
var manifestSchema string

// CheckShape verifies that data is well-formed JSON matching the manifest
// shape. filename is only used to position error messages.
func CheckShape(filename string, data []byte) error {
	// cue.Context is not safe for concurrent use; one per check.
	ctx := cuecontext.New()
	schema := ctx.CompileString(manifestSchema, cue.Filename("manifest.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeGeneric, Path: filename, Message: fmt.Sprintf("compiling manifest schema: %v", err), Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Manifest"))

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return &LoadError{
			Code:    ErrCodeSyntax,
			Path:    filename,
			Message: fmt.Sprintf("malformed JSON: %v", err),
			Err:     err,
		}
	}

	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return &LoadError{Code: ErrCodeSyntax, Path: filename, Message: err.Error(), Err: err}
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		details := shapeDetails(err)
		return &LoadError{
			Code:    ErrCodeShape,
			Path:    filename,
			Message: fmt.Sprintf("manifest shape check failed with %d problem(s)", len(details)),
			Details: details,
			Err:     err,
		}
	}
	return nil
}

func shapeDetails(err error) []string {
	var details []string
	for _, e := range cueerrors.Errors(err) {
		details = append(details, e.Error())
	}
	if len(details) == 0 {
		details = append(details, err.Error())
	}
	return details
}

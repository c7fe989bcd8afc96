package shexj

import (
	"fmt"

	"go.uber.org/multierr"
)

// Violation is a single reason a schema is not valid ShExJ.
type Violation struct {
	Path    string // JSON pointer into the document
	Message string
}

func (v *Violation) Error() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// IsValid reports whether the schema passes Validate.
func (s *Schema) IsValid() bool {
	return s.Validate() == nil
}

// Validate checks the schema against the ShExJ grammar and the structural
// rules the grammar cannot express: operand counts, cardinality bounds,
// unique labels and resolvable references. All violations are returned,
// combined; use Violations to split them.
func (s *Schema) Validate() error {
	var err error
	if s.doc != nil {
		for _, v := range conformance(s.doc) {
			err = multierr.Append(err, v)
		}
	}

	w := &walker{
		shapeLabels:  make(map[string]bool),
		tripleLabels: make(map[string]bool),
	}
	w.schema(s)
	return multierr.Append(err, w.err)
}

// Violations splits an error returned by Validate into its violations.
func Violations(err error) []error {
	return multierr.Errors(err)
}

var nodeKinds = map[string]bool{
	"iri":        true,
	"bnode":      true,
	"nonliteral": true,
	"literal":    true,
}

type labelRef struct {
	path  string
	label string
}

type walker struct {
	err          error
	shapeLabels  map[string]bool
	tripleLabels map[string]bool
	shapeRefs    []labelRef
	tripleRefs   []labelRef
}

func (w *walker) violate(path, format string, args ...any) {
	w.err = multierr.Append(w.err, &Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (w *walker) schema(s *Schema) {
	for i, iri := range s.Imports {
		if iri == "" {
			w.violate(fmt.Sprintf("/imports/%d", i), "import IRI is empty")
		}
	}
	w.semActs("/startActs", s.StartActs)

	for i, se := range s.Shapes {
		path := fmt.Sprintf("/shapes/%d", i)
		if se == nil {
			w.violate(path, "shape declaration is empty")
			continue
		}
		label := shapeLabel(se)
		switch {
		case label == "":
			w.violate(path, "shape declaration has no id")
		case w.shapeLabels[label]:
			w.violate(path+"/id", "duplicate shape label %q", label)
		default:
			w.shapeLabels[label] = true
		}
		w.shapeExpr(path, se, true)
	}

	if s.Start != nil {
		if _, ok := s.Start.(*ShapeDecl); ok {
			w.violate("/start", "start cannot be a ShapeDecl")
		}
		w.shapeExpr("/start", s.Start, false)
	}

	// Labels may come from imported schemas we cannot see.
	if len(s.Imports) > 0 {
		return
	}
	for _, r := range w.shapeRefs {
		if !w.shapeLabels[r.label] {
			w.violate(r.path, "reference to undefined shape %q", r.label)
		}
	}
	for _, r := range w.tripleRefs {
		if !w.tripleLabels[r.label] {
			w.violate(r.path, "reference to undefined triple expression %q", r.label)
		}
	}
}

func shapeLabel(se ShapeExpr) string {
	switch t := se.(type) {
	case *ShapeDecl:
		return t.ID
	case *ShapeOr:
		return t.ID
	case *ShapeAnd:
		return t.ID
	case *ShapeNot:
		return t.ID
	case *ShapeExternal:
		return t.ID
	case *NodeConstraint:
		return t.ID
	case *Shape:
		return t.ID
	}
	return ""
}

func (w *walker) shapeExpr(path string, se ShapeExpr, topLevel bool) {
	switch t := se.(type) {
	case ShapeExprRef:
		if t == "" {
			w.violate(path, "shape reference is empty")
			return
		}
		w.shapeRefs = append(w.shapeRefs, labelRef{path: path, label: string(t)})

	case *ShapeDecl:
		if !topLevel {
			w.violate(path, "ShapeDecl is only allowed in shapes")
		}
		if t.ShapeExpr == nil {
			w.violate(path, "ShapeDecl requires shapeExpr")
			return
		}
		if _, nested := t.ShapeExpr.(*ShapeDecl); nested {
			w.violate(path+"/shapeExpr", "ShapeDecl cannot wrap another ShapeDecl")
			return
		}
		w.shapeExpr(path+"/shapeExpr", t.ShapeExpr, false)

	case *ShapeOr:
		w.junction(path, "ShapeOr", t.ShapeExprs)

	case *ShapeAnd:
		w.junction(path, "ShapeAnd", t.ShapeExprs)

	case *ShapeNot:
		if t.ShapeExpr == nil {
			w.violate(path, "ShapeNot requires shapeExpr")
			return
		}
		w.shapeExpr(path+"/shapeExpr", t.ShapeExpr, false)

	case *ShapeExternal:
		if !topLevel {
			w.violate(path, "ShapeExternal is only allowed in shapes")
		}

	case *NodeConstraint:
		w.nodeConstraint(path, t)

	case *Shape:
		w.shape(path, t)
	}
}

func (w *walker) junction(path, kind string, exprs []ShapeExpr) {
	if len(exprs) < 2 {
		w.violate(path+"/shapeExprs", "%s requires at least 2 shape expressions, got %d", kind, len(exprs))
	}
	for i, sub := range exprs {
		p := fmt.Sprintf("%s/shapeExprs/%d", path, i)
		if sub == nil {
			w.violate(p, "shape expression is empty")
			continue
		}
		w.shapeExpr(p, sub, false)
	}
}

func (w *walker) nodeConstraint(path string, nc *NodeConstraint) {
	if nc.NodeKind != "" && !nodeKinds[nc.NodeKind] {
		w.violate(path+"/nodeKind", "unknown node kind %q", nc.NodeKind)
	}
	lengths := []struct {
		name string
		v    *int
	}{
		{"length", nc.Length},
		{"minlength", nc.MinLength},
		{"maxlength", nc.MaxLength},
		{"totaldigits", nc.TotalDigits},
		{"fractiondigits", nc.FractionDigits},
	}
	for _, l := range lengths {
		if l.v != nil && *l.v < 0 {
			w.violate(path+"/"+l.name, "%s must be non-negative, got %d", l.name, *l.v)
		}
	}
	if nc.MinLength != nil && nc.MaxLength != nil && *nc.MinLength > *nc.MaxLength {
		w.violate(path, "minlength %d exceeds maxlength %d", *nc.MinLength, *nc.MaxLength)
	}
	if nc.Flags != "" && nc.Pattern == "" {
		w.violate(path+"/flags", "flags require a pattern")
	}

	for i, v := range nc.Values {
		w.valueSetValue(fmt.Sprintf("%s/values/%d", path, i), v)
	}
}

func (w *walker) valueSetValue(path string, v ValueSetValue) {
	switch t := v.(type) {
	case IRI:
		if t == "" {
			w.violate(path, "IRI is empty")
		}
	case *ObjectLiteral:
		if t.Language != "" && t.Type != "" {
			w.violate(path, "literal cannot carry both language and datatype")
		}
	case *IriStemRange:
		w.exclusions(path, t.Exclusions, func(e ValueSetValue) bool {
			_, ok := e.(*IriStem)
			return ok
		})
	case *LiteralStemRange:
		w.exclusions(path, t.Exclusions, func(e ValueSetValue) bool {
			_, ok := e.(*LiteralStem)
			return ok
		})
	case *LanguageStemRange:
		w.exclusions(path, t.Exclusions, func(e ValueSetValue) bool {
			_, ok := e.(*LanguageStem)
			return ok
		})
	}
}

func (w *walker) exclusions(path string, excl []ValueSetValue, stemOK func(ValueSetValue) bool) {
	for i, e := range excl {
		if _, plain := e.(Exclusion); plain {
			continue
		}
		if !stemOK(e) {
			w.violate(fmt.Sprintf("%s/exclusions/%d", path, i), "exclusion stem does not match the range kind")
		}
	}
}

func (w *walker) shape(path string, sh *Shape) {
	for i, iri := range sh.Extra {
		if iri == "" {
			w.violate(fmt.Sprintf("%s/extra/%d", path, i), "extra predicate is empty")
		}
	}
	for i, se := range sh.Extends {
		w.shapeExpr(fmt.Sprintf("%s/extends/%d", path, i), se, false)
	}
	if sh.Expression != nil {
		w.tripleExpr(path+"/expression", sh.Expression)
	}
	w.semActs(path+"/semActs", sh.SemActs)
	w.annotations(path+"/annotations", sh.Annotations)
}

func (w *walker) tripleLabel(path, id string) {
	if id == "" {
		return
	}
	if w.tripleLabels[id] {
		w.violate(path+"/id", "duplicate triple expression label %q", id)
		return
	}
	w.tripleLabels[id] = true
}

func (w *walker) tripleExpr(path string, te TripleExpr) {
	switch t := te.(type) {
	case TripleExprRef:
		if t == "" {
			w.violate(path, "triple expression reference is empty")
			return
		}
		w.tripleRefs = append(w.tripleRefs, labelRef{path: path, label: string(t)})

	case *EachOf:
		w.tripleLabel(path, t.ID)
		w.group(path, "EachOf", t.Expressions)
		w.cardinality(path, t.Cardinality)
		w.semActs(path+"/semActs", t.SemActs)
		w.annotations(path+"/annotations", t.Annotations)

	case *OneOf:
		w.tripleLabel(path, t.ID)
		w.group(path, "OneOf", t.Expressions)
		w.cardinality(path, t.Cardinality)
		w.semActs(path+"/semActs", t.SemActs)
		w.annotations(path+"/annotations", t.Annotations)

	case *TripleConstraint:
		w.tripleLabel(path, t.ID)
		if t.Predicate == "" {
			w.violate(path+"/predicate", "TripleConstraint requires predicate")
		}
		if t.ValueExpr != nil {
			w.shapeExpr(path+"/valueExpr", t.ValueExpr, false)
		}
		w.cardinality(path, t.Cardinality)
		w.semActs(path+"/semActs", t.SemActs)
		w.annotations(path+"/annotations", t.Annotations)
	}
}

func (w *walker) group(path, kind string, exprs []TripleExpr) {
	if len(exprs) < 2 {
		w.violate(path+"/expressions", "%s requires at least 2 expressions, got %d", kind, len(exprs))
	}
	for i, sub := range exprs {
		p := fmt.Sprintf("%s/expressions/%d", path, i)
		if sub == nil {
			w.violate(p, "triple expression is empty")
			continue
		}
		w.tripleExpr(p, sub)
	}
}

func (w *walker) cardinality(path string, c Cardinality) {
	if c.Min != nil && *c.Min < 0 {
		w.violate(path+"/min", "min must be non-negative, got %d", *c.Min)
	}
	if c.Max != nil && *c.Max < Unbounded {
		w.violate(path+"/max", "max must be -1 or non-negative, got %d", *c.Max)
	}
	if c.Min != nil && c.Max != nil && *c.Max != Unbounded && *c.Min > *c.Max {
		w.violate(path, "min %d exceeds max %d", *c.Min, *c.Max)
	}
}

func (w *walker) semActs(path string, acts []*SemAct) {
	for i, a := range acts {
		if a.Name == "" {
			w.violate(fmt.Sprintf("%s/%d/name", path, i), "semantic action requires name")
		}
	}
}

func (w *walker) annotations(path string, anns []*Annotation) {
	for i, a := range anns {
		p := fmt.Sprintf("%s/%d", path, i)
		if a.Predicate == "" {
			w.violate(p+"/predicate", "annotation requires predicate")
		}
		if a.Object == nil {
			w.violate(p+"/object", "annotation requires object")
			continue
		}
		w.valueSetValue(p+"/object", a.Object)
	}
}

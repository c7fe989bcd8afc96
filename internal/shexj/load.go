package shexj

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// LoadError reports a document that cannot be turned into a Schema.
// Path is a JSON pointer to the offending value.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Path == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Path, msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErrorf(path, format string, args ...any) *LoadError {
	return &LoadError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Load deserializes ShExJ text into a Schema.
//
// Load fails when the text is not JSON, when the top-level object is not of
// type Schema, or when a polymorphic position carries a missing or unknown
// type discriminator. Every other problem is left for Validate.
func Load(data []byte) (*Schema, error) {
	if !gjson.ValidBytes(data) {
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, &LoadError{Message: "malformed JSON", Err: err}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, loadErrorf("", "schema must be a JSON object")
	}
	if typ := root.Get("type"); typ.String() != "Schema" {
		return nil, loadErrorf("/type", "expected type %q, got %q", "Schema", typ.String())
	}

	var aux struct {
		Context   any               `json:"@context"`
		Imports   []string          `json:"imports"`
		StartActs []json.RawMessage `json:"startActs"`
		Start     json.RawMessage   `json:"start"`
		Shapes    []json.RawMessage `json:"shapes"`
	}
	if err := unmarshalLenient(data, &aux); err != nil {
		return nil, &LoadError{Message: "decoding schema", Err: err}
	}

	s := &Schema{
		Context: aux.Context,
		Imports: aux.Imports,
	}

	var err error
	if s.StartActs, err = semActs("/startActs", aux.StartActs); err != nil {
		return nil, err
	}
	if s.Start, err = shapeExpr("/start", aux.Start); err != nil {
		return nil, err
	}
	for i, raw := range aux.Shapes {
		se, err := shapeExpr(fmt.Sprintf("/shapes/%d", i), raw)
		if err != nil {
			return nil, err
		}
		s.Shapes = append(s.Shapes, se)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&s.doc); err != nil {
		return nil, &LoadError{Message: "decoding schema", Err: err}
	}
	return s, nil
}

// unmarshalLenient decodes like json.Unmarshal but tolerates values of the
// wrong JSON type; those fields stay zero and are reported by Validate.
func unmarshalLenient(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}

func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || gjson.ParseBytes(raw).Type == gjson.Null
}

func discriminator(path string, r gjson.Result) (string, error) {
	t := r.Get("type")
	if !t.Exists() {
		return "", loadErrorf(path, "missing type")
	}
	if t.Type != gjson.String {
		return "", loadErrorf(path+"/type", "type must be a string")
	}
	return t.String(), nil
}

func shapeExpr(path string, raw json.RawMessage) (ShapeExpr, error) {
	if absent(raw) {
		return nil, nil
	}
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		return ShapeExprRef(r.String()), nil
	}
	if !r.IsObject() {
		return nil, loadErrorf(path, "shape expression must be a label or an object")
	}
	typ, err := discriminator(path, r)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "ShapeDecl":
		var aux struct {
			ID        string          `json:"id"`
			Abstract  bool            `json:"abstract"`
			ShapeExpr json.RawMessage `json:"shapeExpr"`
		}
		if err := unmarshalLenient(raw, &aux); err != nil {
			return nil, &LoadError{Path: path, Message: "decoding ShapeDecl", Err: err}
		}
		inner, err := shapeExpr(path+"/shapeExpr", aux.ShapeExpr)
		if err != nil {
			return nil, err
		}
		return &ShapeDecl{ID: aux.ID, Abstract: aux.Abstract, ShapeExpr: inner}, nil

	case "ShapeOr", "ShapeAnd":
		var aux struct {
			ID         string            `json:"id"`
			ShapeExprs []json.RawMessage `json:"shapeExprs"`
		}
		if err := unmarshalLenient(raw, &aux); err != nil {
			return nil, &LoadError{Path: path, Message: "decoding " + typ, Err: err}
		}
		exprs := make([]ShapeExpr, 0, len(aux.ShapeExprs))
		for i, sub := range aux.ShapeExprs {
			se, err := shapeExpr(fmt.Sprintf("%s/shapeExprs/%d", path, i), sub)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, se)
		}
		if typ == "ShapeOr" {
			return &ShapeOr{ID: aux.ID, ShapeExprs: exprs}, nil
		}
		return &ShapeAnd{ID: aux.ID, ShapeExprs: exprs}, nil

	case "ShapeNot":
		var aux struct {
			ID        string          `json:"id"`
			ShapeExpr json.RawMessage `json:"shapeExpr"`
		}
		if err := unmarshalLenient(raw, &aux); err != nil {
			return nil, &LoadError{Path: path, Message: "decoding ShapeNot", Err: err}
		}
		inner, err := shapeExpr(path+"/shapeExpr", aux.ShapeExpr)
		if err != nil {
			return nil, err
		}
		return &ShapeNot{ID: aux.ID, ShapeExpr: inner}, nil

	case "ShapeExternal":
		var aux struct {
			ID string `json:"id"`
		}
		if err := unmarshalLenient(raw, &aux); err != nil {
			return nil, &LoadError{Path: path, Message: "decoding ShapeExternal", Err: err}
		}
		return &ShapeExternal{ID: aux.ID}, nil

	case "NodeConstraint":
		return nodeConstraint(path, raw)

	case "Shape":
		return shape(path, raw)
	}
	return nil, loadErrorf(path+"/type", "unknown shape expression type %q", typ)
}

func nodeConstraint(path string, raw json.RawMessage) (*NodeConstraint, error) {
	var aux struct {
		ID             string            `json:"id"`
		NodeKind       string            `json:"nodeKind"`
		Datatype       string            `json:"datatype"`
		Values         []json.RawMessage `json:"values"`
		Length         *int              `json:"length"`
		MinLength      *int              `json:"minlength"`
		MaxLength      *int              `json:"maxlength"`
		Pattern        string            `json:"pattern"`
		Flags          string            `json:"flags"`
		MinInclusive   *json.Number      `json:"mininclusive"`
		MinExclusive   *json.Number      `json:"minexclusive"`
		MaxInclusive   *json.Number      `json:"maxinclusive"`
		MaxExclusive   *json.Number      `json:"maxexclusive"`
		TotalDigits    *int              `json:"totaldigits"`
		FractionDigits *int              `json:"fractiondigits"`
	}
	if err := unmarshalLenient(raw, &aux); err != nil {
		return nil, &LoadError{Path: path, Message: "decoding NodeConstraint", Err: err}
	}

	nc := &NodeConstraint{
		ID:       aux.ID,
		NodeKind: aux.NodeKind,
		Datatype: aux.Datatype,
		Facets: Facets{
			Length:         aux.Length,
			MinLength:      aux.MinLength,
			MaxLength:      aux.MaxLength,
			Pattern:        aux.Pattern,
			Flags:          aux.Flags,
			MinInclusive:   aux.MinInclusive,
			MinExclusive:   aux.MinExclusive,
			MaxInclusive:   aux.MaxInclusive,
			MaxExclusive:   aux.MaxExclusive,
			TotalDigits:    aux.TotalDigits,
			FractionDigits: aux.FractionDigits,
		},
	}
	for i, v := range aux.Values {
		vsv, err := valueSetValue(fmt.Sprintf("%s/values/%d", path, i), v)
		if err != nil {
			return nil, err
		}
		nc.Values = append(nc.Values, vsv)
	}
	return nc, nil
}

func shape(path string, raw json.RawMessage) (*Shape, error) {
	var aux struct {
		ID          string            `json:"id"`
		Closed      bool              `json:"closed"`
		Extra       []string          `json:"extra"`
		Extends     []json.RawMessage `json:"extends"`
		Expression  json.RawMessage   `json:"expression"`
		SemActs     []json.RawMessage `json:"semActs"`
		Annotations []json.RawMessage `json:"annotations"`
	}
	if err := unmarshalLenient(raw, &aux); err != nil {
		return nil, &LoadError{Path: path, Message: "decoding Shape", Err: err}
	}

	sh := &Shape{ID: aux.ID, Closed: aux.Closed, Extra: aux.Extra}
	for i, e := range aux.Extends {
		se, err := shapeExpr(fmt.Sprintf("%s/extends/%d", path, i), e)
		if err != nil {
			return nil, err
		}
		sh.Extends = append(sh.Extends, se)
	}

	var err error
	if sh.Expression, err = tripleExpr(path+"/expression", aux.Expression); err != nil {
		return nil, err
	}
	if sh.SemActs, err = semActs(path+"/semActs", aux.SemActs); err != nil {
		return nil, err
	}
	if sh.Annotations, err = annotations(path+"/annotations", aux.Annotations); err != nil {
		return nil, err
	}
	return sh, nil
}

func tripleExpr(path string, raw json.RawMessage) (TripleExpr, error) {
	if absent(raw) {
		return nil, nil
	}
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		return TripleExprRef(r.String()), nil
	}
	if !r.IsObject() {
		return nil, loadErrorf(path, "triple expression must be a label or an object")
	}
	typ, err := discriminator(path, r)
	if err != nil {
		return nil, err
	}

	var aux struct {
		ID          string            `json:"id"`
		Min         *int              `json:"min"`
		Max         *int              `json:"max"`
		SemActs     []json.RawMessage `json:"semActs"`
		Annotations []json.RawMessage `json:"annotations"`

		// EachOf, OneOf
		Expressions []json.RawMessage `json:"expressions"`

		// TripleConstraint
		Inverse   bool            `json:"inverse"`
		Predicate string          `json:"predicate"`
		ValueExpr json.RawMessage `json:"valueExpr"`
	}

	switch typ {
	case "EachOf", "OneOf", "TripleConstraint":
	default:
		return nil, loadErrorf(path+"/type", "unknown triple expression type %q", typ)
	}
	if err := unmarshalLenient(raw, &aux); err != nil {
		return nil, &LoadError{Path: path, Message: "decoding " + typ, Err: err}
	}

	acts, err := semActs(path+"/semActs", aux.SemActs)
	if err != nil {
		return nil, err
	}
	anns, err := annotations(path+"/annotations", aux.Annotations)
	if err != nil {
		return nil, err
	}
	card := Cardinality{Min: aux.Min, Max: aux.Max}

	if typ == "TripleConstraint" {
		valueExpr, err := shapeExpr(path+"/valueExpr", aux.ValueExpr)
		if err != nil {
			return nil, err
		}
		return &TripleConstraint{
			ID:          aux.ID,
			Inverse:     aux.Inverse,
			Predicate:   aux.Predicate,
			ValueExpr:   valueExpr,
			Cardinality: card,
			SemActs:     acts,
			Annotations: anns,
		}, nil
	}

	exprs := make([]TripleExpr, 0, len(aux.Expressions))
	for i, sub := range aux.Expressions {
		te, err := tripleExpr(fmt.Sprintf("%s/expressions/%d", path, i), sub)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, te)
	}
	if typ == "EachOf" {
		return &EachOf{ID: aux.ID, Expressions: exprs, Cardinality: card, SemActs: acts, Annotations: anns}, nil
	}
	return &OneOf{ID: aux.ID, Expressions: exprs, Cardinality: card, SemActs: acts, Annotations: anns}, nil
}

func semActs(path string, raws []json.RawMessage) ([]*SemAct, error) {
	var acts []*SemAct
	for i, raw := range raws {
		p := fmt.Sprintf("%s/%d", path, i)
		if !gjson.ParseBytes(raw).IsObject() {
			return nil, loadErrorf(p, "semantic action must be an object")
		}
		var aux struct {
			Name string  `json:"name"`
			Code *string `json:"code"`
		}
		if err := unmarshalLenient(raw, &aux); err != nil {
			return nil, &LoadError{Path: p, Message: "decoding SemAct", Err: err}
		}
		acts = append(acts, &SemAct{Name: aux.Name, Code: aux.Code})
	}
	return acts, nil
}

func annotations(path string, raws []json.RawMessage) ([]*Annotation, error) {
	var anns []*Annotation
	for i, raw := range raws {
		p := fmt.Sprintf("%s/%d", path, i)
		if !gjson.ParseBytes(raw).IsObject() {
			return nil, loadErrorf(p, "annotation must be an object")
		}
		var aux struct {
			Predicate string          `json:"predicate"`
			Object    json.RawMessage `json:"object"`
		}
		if err := unmarshalLenient(raw, &aux); err != nil {
			return nil, &LoadError{Path: p, Message: "decoding Annotation", Err: err}
		}
		obj, err := objectValue(p+"/object", aux.Object)
		if err != nil {
			return nil, err
		}
		anns = append(anns, &Annotation{Predicate: aux.Predicate, Object: obj})
	}
	return anns, nil
}

func objectValue(path string, raw json.RawMessage) (ObjectValue, error) {
	if absent(raw) {
		return nil, nil
	}
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		return IRI(r.String()), nil
	}
	if !r.IsObject() {
		return nil, loadErrorf(path, "object value must be an IRI or a literal")
	}
	return objectLiteral(path, raw)
}

func objectLiteral(path string, raw json.RawMessage) (*ObjectLiteral, error) {
	var aux struct {
		Value    string `json:"value"`
		Language string `json:"language"`
		Type     string `json:"type"`
	}
	if err := unmarshalLenient(raw, &aux); err != nil {
		return nil, &LoadError{Path: path, Message: "decoding ObjectLiteral", Err: err}
	}
	return &ObjectLiteral{Value: aux.Value, Language: aux.Language, Type: aux.Type}, nil
}

func valueSetValue(path string, raw json.RawMessage) (ValueSetValue, error) {
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		return IRI(r.String()), nil
	}
	if !r.IsObject() {
		return nil, loadErrorf(path, "value set value must be an IRI or an object")
	}
	if r.Get("value").Exists() {
		return objectLiteral(path, raw)
	}
	typ, err := discriminator(path, r)
	if err != nil {
		return nil, err
	}

	var aux struct {
		Stem        json.RawMessage   `json:"stem"`
		Exclusions  []json.RawMessage `json:"exclusions"`
		LanguageTag string            `json:"languageTag"`
	}
	if err := unmarshalLenient(raw, &aux); err != nil {
		return nil, &LoadError{Path: path, Message: "decoding " + typ, Err: err}
	}

	switch typ {
	case "IriStem":
		return &IriStem{Stem: gjson.ParseBytes(aux.Stem).String()}, nil
	case "LiteralStem":
		return &LiteralStem{Stem: gjson.ParseBytes(aux.Stem).String()}, nil
	case "LanguageStem":
		return &LanguageStem{Stem: gjson.ParseBytes(aux.Stem).String()}, nil
	case "Language":
		return &Language{LanguageTag: aux.LanguageTag}, nil
	case "IriStemRange", "LiteralStemRange", "LanguageStemRange":
		stem, err := rangeStem(path+"/stem", aux.Stem)
		if err != nil {
			return nil, err
		}
		excl, err := exclusions(path+"/exclusions", aux.Exclusions)
		if err != nil {
			return nil, err
		}
		switch typ {
		case "IriStemRange":
			return &IriStemRange{Stem: stem, Exclusions: excl}, nil
		case "LiteralStemRange":
			return &LiteralStemRange{Stem: stem, Exclusions: excl}, nil
		default:
			return &LanguageStemRange{Stem: stem, Exclusions: excl}, nil
		}
	}
	return nil, loadErrorf(path+"/type", "unknown value set value type %q", typ)
}

// rangeStem returns nil for the wildcard stem.
func rangeStem(path string, raw json.RawMessage) (*string, error) {
	if absent(raw) {
		return nil, nil
	}
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		stem := r.String()
		return &stem, nil
	}
	if !r.IsObject() {
		return nil, loadErrorf(path, "stem must be a string or a Wildcard")
	}
	typ, err := discriminator(path, r)
	if err != nil {
		return nil, err
	}
	if typ != "Wildcard" {
		return nil, loadErrorf(path+"/type", "expected Wildcard, got %q", typ)
	}
	return nil, nil
}

func exclusions(path string, raws []json.RawMessage) ([]ValueSetValue, error) {
	var out []ValueSetValue
	for i, raw := range raws {
		p := fmt.Sprintf("%s/%d", path, i)
		r := gjson.ParseBytes(raw)
		if r.Type == gjson.String {
			out = append(out, Exclusion(r.String()))
			continue
		}
		if !r.IsObject() {
			return nil, loadErrorf(p, "exclusion must be a string or a stem")
		}
		typ, err := discriminator(p, r)
		if err != nil {
			return nil, err
		}
		stem := r.Get("stem").String()
		switch typ {
		case "IriStem":
			out = append(out, &IriStem{Stem: stem})
		case "LiteralStem":
			out = append(out, &LiteralStem{Stem: stem})
		case "LanguageStem":
			out = append(out, &LanguageStem{Stem: stem})
		default:
			return nil, loadErrorf(p+"/type", "unknown exclusion type %q", typ)
		}
	}
	return out, nil
}

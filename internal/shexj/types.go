package shexj

import "encoding/json"

// Unbounded is the max cardinality meaning "no upper limit".
const Unbounded = -1

// Schema is a loaded ShExJ document.
type Schema struct {
	Context   any
	Imports   []string
	StartActs []*SemAct
	Start     ShapeExpr
	Shapes    []ShapeExpr

	// doc is the document as generic JSON, kept for JSON Schema checks.
	doc any
}

// ShapeExpr is one of ShapeExprRef, *ShapeDecl, *ShapeOr, *ShapeAnd,
// *ShapeNot, *ShapeExternal, *NodeConstraint or *Shape.
type ShapeExpr interface {
	shapeExpr()
}

// ShapeExprRef references a shape declaration by label.
type ShapeExprRef string

// ShapeDecl labels a shape expression.
type ShapeDecl struct {
	ID        string
	Abstract  bool
	ShapeExpr ShapeExpr
}

// ShapeOr matches when any of its operands matches.
type ShapeOr struct {
	ID         string
	ShapeExprs []ShapeExpr
}

// ShapeAnd matches when every operand matches.
type ShapeAnd struct {
	ID         string
	ShapeExprs []ShapeExpr
}

// ShapeNot matches when its operand does not.
type ShapeNot struct {
	ID        string
	ShapeExpr ShapeExpr
}

// ShapeExternal is a shape whose definition lives outside the schema.
type ShapeExternal struct {
	ID string
}

// NodeConstraint constrains a node by kind, datatype, facets or value set.
type NodeConstraint struct {
	ID       string
	NodeKind string
	Datatype string
	Values   []ValueSetValue
	Facets
}

// Facets are the XML Schema facets a NodeConstraint may carry.
type Facets struct {
	Length         *int
	MinLength      *int
	MaxLength      *int
	Pattern        string
	Flags          string
	MinInclusive   *json.Number
	MinExclusive   *json.Number
	MaxInclusive   *json.Number
	MaxExclusive   *json.Number
	TotalDigits    *int
	FractionDigits *int
}

// Shape constrains the triples around a node.
type Shape struct {
	ID          string
	Closed      bool
	Extra       []string
	Extends     []ShapeExpr
	Expression  TripleExpr
	SemActs     []*SemAct
	Annotations []*Annotation
}

func (ShapeExprRef) shapeExpr()    {}
func (*ShapeDecl) shapeExpr()      {}
func (*ShapeOr) shapeExpr()        {}
func (*ShapeAnd) shapeExpr()       {}
func (*ShapeNot) shapeExpr()       {}
func (*ShapeExternal) shapeExpr()  {}
func (*NodeConstraint) shapeExpr() {}
func (*Shape) shapeExpr()          {}

// TripleExpr is one of TripleExprRef, *EachOf, *OneOf or *TripleConstraint.
type TripleExpr interface {
	tripleExpr()
}

// TripleExprRef references a labelled triple expression.
type TripleExprRef string

// Cardinality bounds how often a triple expression must match.
// Nil bounds default to exactly once.
type Cardinality struct {
	Min *int
	Max *int
}

// EachOf matches when every sub-expression matches.
type EachOf struct {
	ID          string
	Expressions []TripleExpr
	Cardinality
	SemActs     []*SemAct
	Annotations []*Annotation
}

// OneOf matches when exactly one sub-expression matches.
type OneOf struct {
	ID          string
	Expressions []TripleExpr
	Cardinality
	SemActs     []*SemAct
	Annotations []*Annotation
}

// TripleConstraint matches triples with Predicate whose object satisfies
// ValueExpr. Inverse matches the subject instead.
type TripleConstraint struct {
	ID        string
	Inverse   bool
	Predicate string
	ValueExpr ShapeExpr
	Cardinality
	SemActs     []*SemAct
	Annotations []*Annotation
}

func (TripleExprRef) tripleExpr()     {}
func (*EachOf) tripleExpr()           {}
func (*OneOf) tripleExpr()            {}
func (*TripleConstraint) tripleExpr() {}

// SemAct is a semantic action attached to a schema element.
type SemAct struct {
	Name string
	Code *string
}

// Annotation is a predicate-object pair attached to a schema element.
type Annotation struct {
	Predicate string
	Object    ObjectValue
}

// ObjectValue is IRI or *ObjectLiteral.
type ObjectValue interface {
	ValueSetValue
	objectValue()
}

// ValueSetValue is an ObjectValue or one of the stem and language types.
type ValueSetValue interface {
	valueSetValue()
}

// IRI is an IRI value in a value set or annotation.
type IRI string

// ObjectLiteral is an RDF literal. Type is its datatype IRI.
type ObjectLiteral struct {
	Value    string
	Language string
	Type     string
}

// IriStem matches IRIs starting with Stem.
type IriStem struct {
	Stem string
}

// IriStemRange matches IRIs under Stem minus Exclusions. A nil Stem is the
// wildcard.
type IriStemRange struct {
	Stem       *string
	Exclusions []ValueSetValue
}

// LiteralStem matches literals whose lexical form starts with Stem.
type LiteralStem struct {
	Stem string
}

// LiteralStemRange is the literal counterpart of IriStemRange.
type LiteralStemRange struct {
	Stem       *string
	Exclusions []ValueSetValue
}

// Language matches literals tagged exactly LanguageTag.
type Language struct {
	LanguageTag string
}

// LanguageStem matches literals whose language tag starts with Stem.
type LanguageStem struct {
	Stem string
}

// LanguageStemRange is the language tag counterpart of IriStemRange.
type LanguageStemRange struct {
	Stem       *string
	Exclusions []ValueSetValue
}

// Exclusion is a plain string excluded from a stem range: an IRI, a
// literal lexical form or a language tag depending on the range kind.
type Exclusion string

func (IRI) objectValue()            {}
func (*ObjectLiteral) objectValue() {}

func (IRI) valueSetValue()                {}
func (*ObjectLiteral) valueSetValue()     {}
func (*IriStem) valueSetValue()           {}
func (*IriStemRange) valueSetValue()      {}
func (*LiteralStem) valueSetValue()       {}
func (*LiteralStemRange) valueSetValue()  {}
func (*Language) valueSetValue()          {}
func (*LanguageStem) valueSetValue()      {}
func (*LanguageStemRange) valueSetValue() {}
func (Exclusion) valueSetValue()          {}

// Package shexj loads and validates ShExJ, the JSON serialization of
// Shape Expressions schemas.
//
// Loading and validating are separate steps. Load builds a Schema from text
// and only fails when the text cannot be turned into one: malformed JSON, a
// top-level type other than Schema, or a polymorphic value whose type
// discriminator is missing or unknown. The schema then checks itself:
//
//	s, err := shexj.Load(data)
//	if err != nil {
//		return err
//	}
//	fmt.Println(s.IsValid())
//
// Validate returns every violation found, combined into one error. The
// checks are a JSON Schema for the ShExJ grammar (shexj.schema.json) plus
// structural rules over the typed tree: operand counts, cardinalities,
// label uniqueness and reference resolution.
package shexj

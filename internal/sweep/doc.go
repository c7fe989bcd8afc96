// Package sweep runs manifest-driven validation sweeps.
//
// A sweep walks the entries of a manifest in document order. Depending on
// the mode it parses each entry's Turtle file, loads and self-validates
// each entry's ShExJ file, or both. Every outcome is written to the report
// writer as soon as it is known:
//
//	1dot.ttl is valid turtle: True
//	1dot.json is valid ShExJ: True
//	===================================
//
// A Turtle failure is reported with its error on the following line and the
// sweep moves on. A ShExJ file that cannot be loaded at all stops the sweep
// with a *SchemaLoadError unless the runner is configured to keep going.
package sweep

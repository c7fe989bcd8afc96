// Package harness runs sweep scenarios described in YAML.
//
// A scenario lays out a schema suite, sweeps it, records the run and
// checks the report:
//
//	name: turtle_failure_continues
//	description: "An unparsable Turtle file is reported and the sweep goes on"
//	mode: full
//	entries:
//	  - name: bad
//	    ttl: bad.ttl
//	    json: bad.json
//	fixtures:
//	  bad.ttl: invalid_turtle
//	  bad.json: valid_shexj
//	assertions:
//	  - type: check
//	    entry: bad
//	    kind: turtle
//	    valid: false
//	  - type: output_contains
//	    line: "bad.json is valid ShExJ: True"
//
// File bodies come from fixtures (named bodies such as valid_turtle or
// unloadable_shexj) or inline from files. A reference with neither is
// listed in the manifest but never written.
//
// # Assertion Types
//
//   - output_contains: a report line equals line
//   - output_order: lines appear in order
//   - line_count: exactly count report lines contain contains
//   - check: the turtle or shexj check of an entry came out valid
//   - summary: named summary counters match
//   - stopped: a ShExJ load failure stopped the sweep at entry
//   - completed: the sweep ran to the end
//
// # Determinism
//
// Every scenario runs in a fresh temp directory with its own run store.
// Golden snapshots hold the report lines and counters in canonical JSON
// and leave out digests and run IDs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/keep_going.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness

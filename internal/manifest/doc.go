// Package manifest loads shexTest-style JSON-LD manifests.
//
// A manifest is a JSON-LD document whose @graph holds one or more groups.
// Groups with an entries list describe schema representation tests; every
// entry names sibling files relative to the schema directory:
//
//	{
//	  "@context": "../context.jsonld",
//	  "@graph": [{
//	    "@id": "", "@type": "mf:Manifest",
//	    "entries": [{
//	      "@id": "#1dot", "@type": "sht:RepresentationTest",
//	      "name": "1dot",
//	      "shex": "1dot.shex", "json": "1dot.json", "ttl": "1dot.ttl"
//	    }]
//	  }]
//	}
//
// Before decoding, the raw document is unified with an embedded CUE
// definition (manifest.cue) so that shape problems are reported with the
// offending path instead of surfacing as decode errors.
package manifest

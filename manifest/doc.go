// Package manifest provides the variants manifest: the resolved variant
// combinations of every entry point, written by a discovery pass and read by
// a later build pass.
//
// # Manifest Structure
//
// A manifest maps entry names to ordered lists of combinations. Each
// combination is an ordered list of "axis=value" parts, or bare "axis" for
// presence-only axes:
//
//	{
//	    "main": [
//	        [
//	            "device_type=mobile",
//	            "locale=fr"
//	        ],
//	        [
//	            "locale=fr"
//	        ]
//	    ]
//	}
//
// Output is deterministic: entries are sorted by name while combinations and
// the parts inside them keep their resolved order.
//
// # Usage
//
// Write a manifest:
//
//	m := manifest.New()
//	m.Set("main", tree.Combinations())
//	if err := m.WriteFile("dist/variants.json"); err != nil {
//	    log.Fatal(err)
//	}
//
// Expand entry points for a build:
//
//	m, _ := manifest.ReadFile("dist/variants.json")
//	entries := manifest.ExpandEntries(map[string][]string{"main": {"./src/index.js"}}, m)
//	// entries["main.locale=fr"] == []string{"./src/index.js?variant:locale=fr"}
//
// # Requests
//
// Expanded entries carry their target variant set in the request query, each
// part prefixed with "variant:". QueryOf, VariantsFromQuery, SplitRequest and
// WithQuery encode and decode those requests.
package manifest

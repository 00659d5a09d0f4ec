// Package graph provides the module dependency graph consumed by the variant
// resolver.
//
// A graph names one or more entry points and holds every module reachable
// from them. Modules link to their dependencies (children) and to the variant
// files that exist for them on disk (variants). Variant files carry their own
// variant set, parsed from the file name.
//
// # Building a Graph
//
// Graphs are built in code:
//
//	g := graph.New()
//	g.Add("src/index.js", nil)
//	g.Add("src/button.js", nil)
//	g.Add("src/button.locale=fr.js", variantset.Of("locale=fr"))
//	_ = g.Link("src/index.js", "src/button.js")
//	_ = g.AttachVariant("src/button.js", "src/button.locale=fr.js")
//	_ = g.SetEntry("main", "src/index.js")
//
// or loaded from a JSON or YAML file:
//
//	entries:
//	  main: src/index.js
//	modules:
//	  - path: src/index.js
//	    deps: [src/button.js]
//	  - path: src/button.js
//	    variants: [src/button.locale=fr.js]
//	  - path: src/button.locale=fr.js
//	    variant: locale=fr
//
// with
//
//	g, err := graph.Load("graph.yaml")
//
// Loaded graphs are normalized: each module's variants are ordered by variant
// set size, largest first, which the resolver relies on.
//
// # Validation
//
// Validate reports entries without a module, references to modules that are
// not part of the graph, and dependency cycles. The resolver itself fails on
// a cycle reachable from an entry, so validating first gives better errors.
//
// # Output Formats
//
// The graph can be rendered for inspection:
//
//	dotString := g.ToDOT()  // Graphviz
//	textString := g.ToText() // tree view
//	data, _ := g.Marshal(graph.FormatYAML)
package graph

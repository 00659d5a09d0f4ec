package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-variants/variantset"
)

const testGraphYAML = `
entries:
  main: src/index.js
modules:
  - path: src/index.js
    deps: [src/button.js, src/icon.js]
  - path: src/button.js
    deps: [src/icon.js]
    variants: [src/button.locale=fr.js, src/button.locale=fr.device_type=mobile.js]
  - path: src/button.locale=fr.js
    variant: locale=fr
  - path: src/button.locale=fr.device_type=mobile.js
    variant: locale=fr.device_type=mobile
  - path: src/icon.js
`

// Helper to create a test graph:
//
//	src/index.js
//	├── src/button.js
//	│   ├── ~ src/button.locale=fr.device_type=mobile.js
//	│   ├── ~ src/button.locale=fr.js
//	│   └── src/icon.js
//	└── src/icon.js (shared)
func createTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Parse([]byte(testGraphYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return g
}

func TestParseYAML(t *testing.T) {
	g := createTestGraph(t)

	if len(g.Modules) != 5 {
		t.Errorf("expected 5 modules, got %d", len(g.Modules))
	}

	root, ok := g.Entry("main")
	if !ok || root.Path != "src/index.js" {
		t.Fatalf("unexpected entry root: %v", root)
	}
	if len(root.Children) != 2 {
		t.Errorf("root should have 2 dependencies, got %d", len(root.Children))
	}

	button := g.Get("src/button.js")
	if button == nil {
		t.Fatal("button not found")
	}
	if !button.HasVariants() || button.IsVariant() {
		t.Error("button should have variants and not be a variant itself")
	}

	// Variants are normalized largest first.
	got := []string{button.Variants[0].Path, button.Variants[1].Path}
	want := []string{"src/button.locale=fr.device_type=mobile.js", "src/button.locale=fr.js"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("variant order mismatch (-want +got):\n%s", diff)
	}

	if v := button.Variants[0].VariantSet; !v.Equal(variantset.Of("locale=fr", "device_type=mobile")) {
		t.Errorf("unexpected variant set: %v", v)
	}

	// Shared dependency is one module.
	if root.Children[1] != button.Children[0] {
		t.Error("icon should be shared between index and button")
	}
}

func TestParseJSON(t *testing.T) {
	data := `{
		"entries": {"main": "a.js"},
		"modules": [
			{"path": "a.js", "deps": ["b.js"]},
			{"path": "b.js", "variants": ["b.beta.js"]},
			{"path": "b.beta.js", "variant": "beta"}
		]
	}`

	g, err := Parse([]byte(data), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	v := g.Get("b.beta.js")
	if v == nil {
		t.Fatal("variant module missing")
	}
	if val, ok := v.VariantSet.Get("beta"); !ok || !val.IsPresent() {
		t.Errorf("expected presence axis beta, got %v", v.VariantSet)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "missing dependency",
			data:    "modules:\n  - path: a.js\n    deps: [b.js]\n",
			wantErr: `module "a.js": dependency "b.js" not in graph`,
		},
		{
			name:    "missing variant",
			data:    "modules:\n  - path: a.js\n    variants: [a.x.js]\n",
			wantErr: `module "a.js": variant "a.x.js" not in graph`,
		},
		{
			name:    "missing entry module",
			data:    "entries: {main: a.js}\nmodules: []\n",
			wantErr: `entry "main": module "a.js" not in graph`,
		},
		{
			name:    "duplicate module",
			data:    "modules:\n  - path: a.js\n  - path: a.js\n",
			wantErr: `duplicate module "a.js"`,
		},
		{
			name:    "empty path",
			data:    "modules:\n  - deps: []\n",
			wantErr: "path is required",
		},
		{
			name:    "malformed",
			data:    "modules: [",
			wantErr: "failed to parse graph YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseCollectsAllReferenceErrors(t *testing.T) {
	data := "modules:\n  - path: a.js\n    deps: [b.js, c.js]\n"
	_, err := Parse([]byte(data), FormatYAML)

	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected *ReferenceError, got %v", err)
	}
	if strings.Count(err.Error(), "not in graph") != 2 {
		t.Errorf("expected both missing references reported: %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"graph.yaml": FormatYAML,
		"graph.YML":  FormatYAML,
		"graph.json": FormatJSON,
		"graph":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	g := createTestGraph(t)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := g.Marshal(format)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			again, err := Parse(data, format)
			if err != nil {
				t.Fatalf("Parse() of marshaled graph error = %v\n%s", err, data)
			}
			if diff := cmp.Diff(g.File(), again.File()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildInCode(t *testing.T) {
	g := New()
	g.Add("a.js", nil)
	g.Add("a.locale=fr.js", variantset.Of("locale=fr"))
	g.Add("b.js", nil)

	if err := g.Link("a.js", "b.js"); err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if err := g.Link("a.js", "b.js"); err != nil {
		t.Fatalf("second Link() error = %v", err)
	}
	if err := g.AttachVariant("a.js", "a.locale=fr.js"); err != nil {
		t.Fatalf("AttachVariant() error = %v", err)
	}
	if err := g.SetEntry("main", "a.js"); err != nil {
		t.Fatalf("SetEntry() error = %v", err)
	}

	a := g.Get("a.js")
	if len(a.Children) != 1 {
		t.Errorf("duplicate link should be ignored, got %d children", len(a.Children))
	}

	var refErr *ReferenceError
	if err := g.Link("a.js", "missing.js"); !errors.As(err, &refErr) || refErr.To != "missing.js" {
		t.Errorf("Link() to missing module: got %v", err)
	}
	if err := g.SetEntry("other", "missing.js"); !errors.As(err, &refErr) || refErr.Kind != RefEntry {
		t.Errorf("SetEntry() with missing module: got %v", err)
	}

	// Add on an existing module fills an empty variant set only.
	if m := g.Add("b.js", variantset.Of("beta")); !m.VariantSet.Equal(variantset.Of("beta")) {
		t.Errorf("Add() did not set variant set: %v", m.VariantSet)
	}
	if m := g.Add("a.locale=fr.js", variantset.Of("locale=en")); !m.VariantSet.Equal(variantset.Of("locale=fr")) {
		t.Errorf("Add() overwrote existing variant set: %v", m.VariantSet)
	}
}

func TestValidate(t *testing.T) {
	g := createTestGraph(t)
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() on valid graph: %v", err)
	}

	// Unsorted variants and a variant without a variant set.
	button := g.Get("src/button.js")
	button.Variants[0], button.Variants[1] = button.Variants[1], button.Variants[0]
	icon := g.Get("src/icon.js")
	button.Variants = append(button.Variants, icon)

	// A module that is not registered.
	button.Children = append(button.Children, &Module{Path: "ghost.js"})

	err := g.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"variants are not ordered by size",
		`variant "src/icon.js" has no variant set`,
		`dependency "ghost.js" not in graph`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %q", err, want)
		}
	}
}

func TestFindCycles(t *testing.T) {
	g := New()
	g.Add("a.js", nil)
	g.Add("b.js", nil)
	g.Add("c.js", nil)
	_ = g.Link("a.js", "b.js")
	_ = g.Link("b.js", "c.js")

	if g.HasCycles() {
		t.Fatal("acyclic graph reported cycles")
	}

	_ = g.Link("c.js", "a.js")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %v", cycles)
	}
	if diff := cmp.Diff([]string{"a.js", "b.js", "c.js", "a.js"}, cycles[0]); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}

	var cycleErr *CycleError
	if err := g.Validate(); !errors.As(err, &cycleErr) {
		t.Errorf("Validate() should report the cycle, got %v", err)
	}
	if got := cycleErr.Error(); got != "dependency cycle detected: a.js -> b.js -> c.js -> a.js" {
		t.Errorf("CycleError.Error() = %q", got)
	}
}

func TestQueries(t *testing.T) {
	g := createTestGraph(t)

	reachable := g.Reachable("main")
	if len(reachable) != 5 {
		t.Errorf("Reachable() returned %d modules, want 5", len(reachable))
	}
	if reachable[0].Path != "src/index.js" {
		t.Errorf("Reachable() should start at the root, got %s", reachable[0].Path)
	}
	if g.Reachable("missing") != nil {
		t.Error("Reachable() of unknown entry should be nil")
	}

	if diff := cmp.Diff([]string{"src/button.js", "src/index.js"}, g.Dependents("src/icon.js")); diff != "" {
		t.Errorf("Dependents() mismatch (-want +got):\n%s", diff)
	}

	path := g.Path("src/index.js", "src/button.locale=fr.js")
	if diff := cmp.Diff([]string{"src/index.js", "src/button.js", "src/button.locale=fr.js"}, path); diff != "" {
		t.Errorf("Path() mismatch (-want +got):\n%s", diff)
	}
	if g.Path("src/icon.js", "src/index.js") != nil {
		t.Error("Path() against edge direction should be nil")
	}
}

func TestStats(t *testing.T) {
	stats := createTestGraph(t).Stats()

	want := Stats{
		Entries:        1,
		Modules:        5,
		VariantFiles:   2,
		VariantModules: 1,
		Dependencies:   3,
		Axes:           []string{"device_type", "locale"},
		MaxDepth:       2,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestToDOT(t *testing.T) {
	dot := createTestGraph(t).ToDOT()

	for _, want := range []string{
		"digraph variants {",
		`"src/index.js" [label="src/index.js", style=bold];`,
		`"src/button.js" -> "src/button.locale=fr.js" [style=dashed];`,
		`"src/index.js" -> "src/icon.js";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToText(t *testing.T) {
	text := createTestGraph(t).ToText()

	for _, want := range []string{
		"Total modules: 5",
		"Axes: device_type, locale",
		"Entry main:\nsrc/index.js\n",
		"├── src/button.js\n",
		"│   ├── ~ src/button.locale=fr.device_type=mobile.js [locale=fr.device_type=mobile]\n",
		"└── src/icon.js\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("ToText() missing %q\n%s", want, text)
		}
	}
}

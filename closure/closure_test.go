package closure

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/priority"
	"github.com/albertocavalcante/go-variants/variantset"
)

func module(path, variant string) *graph.Module {
	return &graph.Module{Path: path, VariantSet: variantset.Parse(variant)}
}

func resolve(t *testing.T, root *graph.Module, table *priority.Table) *Tree {
	t.Helper()
	tree, err := Resolve(root, table, Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return tree
}

func findClosures(tree *Tree, path string) []*Closure {
	var out []*Closure
	for id := range tree.Len() {
		if c := tree.Closure(ID(id)); c.Path() == path {
			out = append(out, c)
		}
	}
	return out
}

func assertNoDuplicates(t *testing.T, c *Closure) {
	t.Helper()
	seen := make(map[string]bool)
	for _, e := range c.Resolved {
		key := e.Set.Key()
		if seen[key] {
			t.Errorf("%s: duplicate combination %q", c.Path(), key)
		}
		seen[key] = true
	}
}

// scenarioGraph builds:
//
//	button.js
//	├── ~ button.locale=fr.js
//	│   └── icon.js
//	│       └── ~ icon.device=mobile.js
//	└── ~ button.locale=en.js
//	    └── icon.js (shared)
func scenarioGraph() *graph.Module {
	mobile := module("icon.device=mobile.js", "device=mobile")
	icon := module("icon.js", "")
	icon.Variants = []*graph.Module{mobile}

	fr := module("button.locale=fr.js", "locale=fr")
	fr.Children = []*graph.Module{icon}
	en := module("button.locale=en.js", "locale=en")
	en.Children = []*graph.Module{icon}

	button := module("button.js", "")
	button.Variants = []*graph.Module{fr, en}
	return button
}

func TestEndToEndScenario(t *testing.T) {
	tree := resolve(t, scenarioGraph(), priority.MustBuild("locale", "device"))

	want := [][]string{
		{"device=mobile", "locale=fr"},
		{"device=mobile", "locale=en"},
		{"locale=fr"},
		{"locale=en"},
	}
	if diff := cmp.Diff(want, tree.Combinations()); diff != "" {
		t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
	}
	assertNoDuplicates(t, tree.Root())

	// The shared icon module gets one closure per appearance.
	if n := len(findClosures(tree, "icon.js")); n != 2 {
		t.Errorf("expected 2 closures for icon.js, got %d", n)
	}

	stats := tree.Stats()
	if stats.Closures != 7 || stats.Resolved != 4 || stats.Pruned != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1 (locale=fr against locale=en)", stats.Conflicts)
	}

	diags := tree.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != KindConflict || diags[0].Axis != "locale" || diags[0].Path != "button.js" {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

// Two variant files with the same variant set share one combination; the
// later file owns it, so only its dependencies are inherited.
func TestSameVariantSetKeepsLaterSource(t *testing.T) {
	mobile := module("a.device=mobile.js", "device=mobile")
	a := module("a.js", "")
	a.Variants = []*graph.Module{mobile}

	dark := module("b.theme=dark.js", "theme=dark")
	b := module("b.js", "")
	b.Variants = []*graph.Module{dark}

	first := module("button.locale=fr.js", "locale=fr")
	first.Children = []*graph.Module{a}
	second := module("button.locale=fr.min.js", "locale=fr")
	second.Children = []*graph.Module{b}

	button := module("button.js", "")
	button.Variants = []*graph.Module{first, second}

	tree := resolve(t, button, priority.MustBuild("locale", "device", "theme"))

	want := [][]string{
		{"locale=fr", "theme=dark"},
		{"locale=fr"},
	}
	if diff := cmp.Diff(want, tree.Combinations()); diff != "" {
		t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
	}
	assertNoDuplicates(t, tree.Root())

	entry, ok := tree.Root().Index.Lookup(variantset.Of("locale=fr"))
	if !ok {
		t.Fatal("missing locale=fr entry")
	}
	if src := tree.Closure(ID(entry.Source)); src == nil || src.Path() != "button.locale=fr.min.js" {
		t.Errorf("locale=fr source = %v, want button.locale=fr.min.js", src)
	}
}

func TestMergeVariantsCoverage(t *testing.T) {
	root := module("button.js", "")
	root.Variants = []*graph.Module{
		module("button.locale=fr.js", "locale=fr"),
		module("button.device=mobile.js", "device=mobile"),
	}

	tree := resolve(t, root, priority.MustBuild("locale", "device"))

	want := [][]string{
		{"device=mobile", "locale=fr"},
		{"locale=fr"},
		{"device=mobile"},
	}
	if diff := cmp.Diff(want, tree.Combinations()); diff != "" {
		t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
	}
	assertNoDuplicates(t, tree.Root())

	if tree.Root().Strategy != MergeVariants {
		t.Errorf("Strategy = %v, want %v", tree.Root().Strategy, MergeVariants)
	}
}

// attributionGraph builds a module with two variant files where only the
// locale variant has variants beneath it.
func attributionGraph() *graph.Module {
	exp := module("flag.experiment_a=on.js", "experiment_a=on")
	flag := module("flag.js", "")
	flag.Variants = []*graph.Module{exp}

	fr := module("button.locale=fr.js", "locale=fr")
	fr.Children = []*graph.Module{flag}

	root := module("button.js", "")
	root.Variants = []*graph.Module{fr, module("button.device=mobile.js", "device=mobile")}
	return root
}

func TestPriorityDecidesInheritance(t *testing.T) {
	tests := []struct {
		name  string
		table *priority.Table
		want  [][]string
	}{
		{
			// Both axes ranked: the chosen axes are ordered by name, so the
			// device variant wins the combined entry and nothing is inherited
			// for it.
			name:  "both ranked",
			table: priority.MustBuild("locale", "device"),
			want: [][]string{
				{"device=mobile", "locale=fr"},
				{"experiment_a=on", "locale=fr"},
				{"locale=fr"},
				{"device=mobile"},
			},
		},
		{
			// Only locale ranked: the locale variant wins the combined entry
			// and its experiment closure is inherited.
			name:  "locale only",
			table: priority.MustBuild("locale"),
			want: [][]string{
				{"device=mobile", "experiment_a=on", "locale=fr"},
				{"device=mobile", "locale=fr"},
				{"experiment_a=on", "locale=fr"},
				{"locale=fr"},
				{"device=mobile"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := resolve(t, attributionGraph(), tt.table)
			if diff := cmp.Diff(tt.want, tree.Combinations()); diff != "" {
				t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
			}
			assertNoDuplicates(t, tree.Root())
		})
	}
}

func TestPruning(t *testing.T) {
	build := func(variant string) *graph.Module {
		mobile := module("icon.device=mobile.js", "device=mobile")
		icon := module("icon.js", "")
		icon.Variants = []*graph.Module{mobile}

		x := module("x.js", variant)
		x.Children = []*graph.Module{icon}

		fr := module("button.locale=fr.js", "locale=fr")
		fr.Children = []*graph.Module{x}

		root := module("button.js", "")
		root.Variants = []*graph.Module{fr}
		return root
	}

	t.Run("conflicting child contributes nothing", func(t *testing.T) {
		tree := resolve(t, build("locale=en"), priority.Default())

		if diff := cmp.Diff([][]string{{"locale=fr"}}, tree.Combinations()); diff != "" {
			t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
		}
		if len(findClosures(tree, "x.js")) != 0 || len(findClosures(tree, "icon.js")) != 0 {
			t.Error("pruned subtree should not be attached")
		}

		diags := tree.Diagnostics()
		if len(diags) != 1 {
			t.Fatalf("expected 1 diagnostic, got %v", diags)
		}
		d := diags[0]
		if d.Kind != KindPruned || d.Path != "x.js" || d.Parent != "button.locale=fr.js" || d.Axis != "locale" {
			t.Errorf("unexpected diagnostic: %+v", d)
		}
		if got := d.Other.String(); got != "locale=fr" {
			t.Errorf("diagnostic should carry the ancestor assignment, got %q", got)
		}
		if tree.Stats().Pruned != 1 {
			t.Errorf("Pruned = %d, want 1", tree.Stats().Pruned)
		}
	})

	t.Run("compatible child contributes its grandchildren", func(t *testing.T) {
		tree := resolve(t, build(""), priority.Default())

		want := [][]string{{"device=mobile", "locale=fr"}, {"locale=fr"}}
		if diff := cmp.Diff(want, tree.Combinations()); diff != "" {
			t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestReducedAndTransitive(t *testing.T) {
	x := module("x.beta.locale=fr.js", "locale=fr.beta")
	fr := module("button.locale=fr.js", "locale=fr")
	fr.Children = []*graph.Module{x}
	root := module("button.js", "")
	root.Variants = []*graph.Module{fr}

	tree, err := Build(root, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	closures := findClosures(tree, "x.beta.locale=fr.js")
	if len(closures) != 1 {
		t.Fatalf("expected one closure, got %d", len(closures))
	}
	c := closures[0]

	if got := c.Reduced.Strings(); !cmp.Equal(got, []string{"beta"}) {
		t.Errorf("Reduced = %v, want [beta]", got)
	}
	if !c.Transitive.Equal(variantset.Of("locale=fr", "beta")) {
		t.Errorf("Transitive = %v", c.Transitive)
	}
	if !c.MatchSet.Contains(c.Reduced) {
		t.Error("MatchSet should hold the reduced set")
	}
	if parent := tree.Closure(c.Parent); parent == nil || parent.Path() != "button.locale=fr.js" {
		t.Errorf("unexpected parent: %v", parent)
	}
	if c.Merged() {
		t.Error("Build() must not merge")
	}
}

func TestDependencyOfVariantModule(t *testing.T) {
	dep := module("theme.js", "")
	dep.Variants = []*graph.Module{module("theme.device=mobile.js", "device=mobile")}

	root := module("button.js", "")
	root.Variants = []*graph.Module{module("button.locale=fr.js", "locale=fr")}
	root.Children = []*graph.Module{dep}

	tree := resolve(t, root, priority.Default())

	// The dependency enters as an empty combination and its own
	// combinations are inherited through it.
	want := [][]string{{"locale=fr"}, {"device=mobile"}, {}}
	if diff := cmp.Diff(want, tree.Combinations()); diff != "" {
		t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeChildrenOrdering(t *testing.T) {
	// a.js resolves one-axis combinations, b.js two-axis ones; b.js must seed
	// the result regardless of dependency order.
	a := module("a.js", "")
	a.Variants = []*graph.Module{module("a.locale=fr.js", "locale=fr")}

	b := module("b.js", "")
	b.Variants = []*graph.Module{module("b.device=mobile.beta.js", "device=mobile.beta")}

	empty := module("c.js", "")

	root := module("index.js", "")
	root.Children = []*graph.Module{empty, a, b}

	tree := resolve(t, root, priority.Default())

	want := [][]string{
		{"beta", "device=mobile", "locale=fr"},
		{"beta", "device=mobile"},
		{"locale=fr"},
	}
	if diff := cmp.Diff(want, tree.Combinations()); diff != "" {
		t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
	}
	if tree.Root().Strategy != MergeChildren {
		t.Errorf("Strategy = %v, want %v", tree.Root().Strategy, MergeChildren)
	}
}

func TestLeafHasNoCombinations(t *testing.T) {
	tree := resolve(t, module("index.js", ""), priority.Default())
	if got := tree.Combinations(); len(got) != 0 {
		t.Errorf("Combinations() = %v, want none", got)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	tree := resolve(t, scenarioGraph(), priority.Default())
	before := tree.Combinations()
	stats := tree.Stats()

	tree.Merge(priority.Default())

	if diff := cmp.Diff(before, tree.Combinations()); diff != "" {
		t.Errorf("second Merge() changed the result (-want +got):\n%s", diff)
	}
	if tree.Stats() != stats {
		t.Error("second Merge() changed the stats")
	}
}

func TestCycle(t *testing.T) {
	a := module("a.js", "")
	b := module("b.js", "")
	a.Children = []*graph.Module{b}
	b.Children = []*graph.Module{a}

	_, err := Build(a, Options{})

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if diff := cmp.Diff([]string{"a.js", "b.js", "a.js"}, cycleErr.Cycle); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestSharedModuleIsNotACycle(t *testing.T) {
	shared := module("shared.js", "")
	a := module("a.js", "")
	a.Children = []*graph.Module{shared}
	root := module("index.js", "")
	root.Children = []*graph.Module{a, shared}

	tree, err := Build(root, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if tree.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tree.Len())
	}
}

func TestMaxDepth(t *testing.T) {
	c := module("c.js", "")
	b := module("b.js", "")
	b.Children = []*graph.Module{c}
	a := module("a.js", "")
	a.Children = []*graph.Module{b}

	if _, err := Build(a, Options{MaxDepth: 2}); !errors.Is(err, ErrMaxDepth) {
		t.Errorf("expected ErrMaxDepth, got %v", err)
	}
	if _, err := Build(a, Options{MaxDepth: 3}); err != nil {
		t.Errorf("Build() within depth error = %v", err)
	}
	if _, err := Build(a, Options{MaxDepth: -1}); err != nil {
		t.Errorf("Build() with depth check disabled error = %v", err)
	}
}

func TestMaxDiagnostics(t *testing.T) {
	tree, err := Resolve(scenarioGraph(), priority.Default(), Options{MaxDiagnostics: -1})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(tree.Diagnostics()) != 0 {
		t.Errorf("expected no diagnostics kept, got %v", tree.Diagnostics())
	}
	if s := tree.Stats(); s.Conflicts != 1 || s.DroppedDiagnostics != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestBuildNilRoot(t *testing.T) {
	if _, err := Build(nil, Options{}); err == nil {
		t.Error("expected error for nil root")
	}
}

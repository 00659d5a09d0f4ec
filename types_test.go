package govariants

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-variants/closure"
)

func TestResultEntry(t *testing.T) {
	r := &Result{Entries: []*EntryResult{{Name: "admin"}, {Name: "main"}, {Name: "worker"}}}

	for _, name := range []string{"admin", "main", "worker"} {
		e, ok := r.Entry(name)
		if !ok || e.Name != name {
			t.Errorf("Entry(%q) = %v, %v", name, e, ok)
		}
	}
	for _, name := range []string{"", "a", "mainx", "zzz"} {
		if e, ok := r.Entry(name); ok {
			t.Errorf("Entry(%q) = %v, want none", name, e)
		}
	}
}

func TestResultDiagnostics(t *testing.T) {
	pruned := closure.Diagnostic{Kind: closure.KindPruned, Path: "b.js", Axis: "locale"}
	conflict := closure.Diagnostic{Kind: closure.KindConflict, Path: "c.js", Axis: "device_type"}

	r := &Result{Entries: []*EntryResult{
		{Name: "admin", Diagnostics: []closure.Diagnostic{pruned}},
		{Name: "main"},
		{Name: "worker", Diagnostics: []closure.Diagnostic{conflict}},
	}}

	want := []closure.Diagnostic{pruned, conflict}
	if diff := cmp.Diff(want, r.Diagnostics()); diff != "" {
		t.Errorf("Diagnostics() mismatch (-want +got):\n%s", diff)
	}

	if got := (&Result{}).Diagnostics(); got != nil {
		t.Errorf("Diagnostics() of empty result = %v, want nil", got)
	}
}

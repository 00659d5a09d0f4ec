package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-variants/variantset"
)

func testManifest() *Manifest {
	m := New()
	m.Set("main", [][]string{
		{"device_type=mobile", "locale=fr"},
		{"locale=fr"},
		{},
	})
	m.Set("admin", [][]string{{"beta"}})
	return m
}

func TestMarshalDeterministic(t *testing.T) {
	m := testManifest()

	first, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := m.Marshal()
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal() output is not deterministic")
		}
	}

	want := `{
    "admin": [
        [
            "beta"
        ]
    ],
    "main": [
        [
            "device_type=mobile",
            "locale=fr"
        ],
        [
            "locale=fr"
        ],
        []
    ]
}
`
	if diff := cmp.Diff(want, string(first)); diff != "" {
		t.Errorf("Marshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalEmpty(t *testing.T) {
	data, err := New().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "{}\n" {
		t.Errorf("Marshal() = %q, want {}", data)
	}
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	m := New()
	m.Set("a&b", [][]string{{"experiment=<x>"}})

	data, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"a&b"`, `"experiment=<x>"`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("Marshal() = %s, want it to contain %s", data, want)
		}
	}
	if bytes.Contains(data, []byte(`\u00`)) {
		t.Errorf("Marshal() escaped HTML characters: %s", data)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := parsed.Get("a&b"); !ok {
		t.Error("entry a&b lost in round trip")
	}
}

func TestRoundTripKeepsOrder(t *testing.T) {
	m := New()
	// Parts are deliberately not sorted: the manifest must keep them as is.
	m.Set("main", [][]string{{"locale=fr", "device_type=mobile", "beta"}})

	data, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(m.Entries, parsed.Entries); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNullCombination(t *testing.T) {
	m, err := Parse([]byte(`{"main": [null, ["locale=fr"]]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	combos, _ := m.Get("main")
	if combos[0] == nil || !combos[0].IsEmpty() {
		t.Errorf("null combination should parse as empty, got %#v", combos[0])
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse([]byte(`{"main": "nope"}`)); err == nil {
		t.Error("expected error for malformed manifest")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dist", DefaultFileName)

	m := testManifest()
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !Exists(path) {
		t.Fatal("manifest not written")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != manifestPermissions {
		t.Errorf("permissions = %o, want %o", perm, manifestPermissions)
	}

	read, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if diff := cmp.Diff(m.Entries, read.Entries); diff != "" {
		t.Errorf("ReadFile() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ReadFile() of missing file should fail")
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := testManifest().WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) || n == 0 {
		t.Errorf("WriteTo() = %d bytes, buffer has %d", n, buf.Len())
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath(""); got != "variants.json" {
		t.Errorf("DefaultPath(\"\") = %q", got)
	}
	if got := DefaultPath("dist"); got != filepath.Join("dist", "variants.json") {
		t.Errorf("DefaultPath(dist) = %q", got)
	}
}

func TestManifestAccessors(t *testing.T) {
	m := testManifest()
	if diff := cmp.Diff([]string{"admin", "main"}, m.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if m.Len() != 2 || m.Combinations() != 4 {
		t.Errorf("Len() = %d, Combinations() = %d", m.Len(), m.Combinations())
	}

	combos, ok := m.Get("main")
	if !ok {
		t.Fatal("main not found")
	}
	if got := combos[0].Key(); got != "device_type=mobile.locale=fr" {
		t.Errorf("Key() = %q", got)
	}
	if !combos[0].VariantSet().Equal(variantset.Of("locale=fr", "device_type=mobile")) {
		t.Errorf("VariantSet() = %v", combos[0].VariantSet())
	}

	// Set copies its input.
	input := [][]string{{"locale=fr"}}
	m.Set("copy", input)
	input[0][0] = "locale=en"
	if got, _ := m.Get("copy"); got[0][0] != "locale=fr" {
		t.Error("Set() should not alias its input")
	}
}

func TestQueryHelpers(t *testing.T) {
	tests := []struct {
		request   string
		wantQuery string
		wantStrip string
	}{
		{"./button.js", "", "./button.js"},
		{"./button.js?variant:locale=fr", "?variant:locale=fr", "./button.js"},
		{"./button.js?raw&variant:beta#top", "?raw&variant:beta", "./button.js"},
	}
	for _, tt := range tests {
		t.Run(tt.request, func(t *testing.T) {
			if got := QueryOf(tt.request); got != tt.wantQuery {
				t.Errorf("QueryOf() = %q, want %q", got, tt.wantQuery)
			}
			if got := StripQuery(tt.request); got != tt.wantStrip {
				t.Errorf("StripQuery() = %q, want %q", got, tt.wantStrip)
			}
		})
	}
}

func TestVariantsFromQuery(t *testing.T) {
	got := VariantsFromQuery("?raw&variant:locale=fr&variant:beta&other=1")
	if diff := cmp.Diff([]string{"locale=fr", "beta"}, got.Strings()); diff != "" {
		t.Errorf("VariantsFromQuery() mismatch (-want +got):\n%s", diff)
	}
	if VariantsFromQuery("?") != nil || VariantsFromQuery("") != nil {
		t.Error("empty query should carry no variants")
	}
}

func TestSplitRequest(t *testing.T) {
	clean, set := SplitRequest("./button.js?raw&variant:locale=fr")
	if clean != "./button.js?raw" {
		t.Errorf("clean = %q", clean)
	}
	if !set.Equal(variantset.Of("locale=fr")) {
		t.Errorf("variants = %v", set)
	}

	clean, set = SplitRequest("./button.js?variant:locale=fr")
	if clean != "./button.js" || set.Len() != 1 {
		t.Errorf("SplitRequest() = %q, %v", clean, set)
	}

	clean, set = SplitRequest("./button.js?raw")
	if clean != "./button.js?raw" || set != nil {
		t.Errorf("request without variants changed: %q, %v", clean, set)
	}
}

func TestWithQuery(t *testing.T) {
	set := variantset.Of("locale=fr", "beta")

	if got := WithQuery("./index.js", set); got != "./index.js?variant:locale=fr&variant:beta" {
		t.Errorf("WithQuery() = %q", got)
	}
	if got := WithQuery("./index.js?raw", set); got != "./index.js?raw&variant:locale=fr&variant:beta" {
		t.Errorf("WithQuery() with query = %q", got)
	}
	if got := WithQuery("./index.js", nil); got != "./index.js" {
		t.Errorf("WithQuery() with empty set = %q", got)
	}

	// A request built by WithQuery decodes back to the same set.
	if got := VariantsFromQuery(QueryOf(WithQuery("./index.js", set))); !got.Equal(set) {
		t.Errorf("decoded %v, want %v", got, set)
	}
}

func TestExpandEntries(t *testing.T) {
	entries := map[string][]string{
		"main":   {"./src/polyfills.js", "./src/index.js"},
		"worker": {"./src/worker.js"},
	}

	got := ExpandEntries(entries, testManifest())

	want := map[string][]string{
		"main":   {"./src/polyfills.js", "./src/index.js"},
		"worker": {"./src/worker.js"},
		"main.device_type=mobile.locale=fr": {
			"./src/polyfills.js?variant:device_type=mobile&variant:locale=fr",
			"./src/index.js?variant:device_type=mobile&variant:locale=fr",
		},
		"main.locale=fr": {
			"./src/polyfills.js?variant:locale=fr",
			"./src/index.js?variant:locale=fr",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExpandEntries() mismatch (-want +got):\n%s", diff)
	}
	if len(entries) != 2 {
		t.Error("ExpandEntries() modified its input")
	}

	if got := ExpandEntries(entries, nil); len(got) != 2 {
		t.Errorf("ExpandEntries() with nil manifest = %v", got)
	}
}

package manifest

import (
	"maps"
	"slices"
	"strings"

	"github.com/albertocavalcante/go-variants/variantset"
)

const (
	// QueryDelimiter starts the query of a request.
	QueryDelimiter = "?"

	// PartPrefix marks the query parts that carry a variant assignment.
	PartPrefix = "variant:"
)

// Delimiter returns the separator to append a query part to request: '&'
// when the request already has a query, '?' otherwise.
func Delimiter(request string) string {
	if strings.Contains(request, QueryDelimiter) {
		return "&"
	}
	return QueryDelimiter
}

// QueryOf returns the query of request, starting with '?' and without any
// fragment, or "" when the request has no query.
func QueryOf(request string) string {
	i := strings.LastIndex(request, QueryDelimiter)
	if i < 0 {
		return ""
	}
	query := request[i:]
	if j := strings.IndexByte(query, '#'); j >= 0 {
		query = query[:j]
	}
	return query
}

// StripQuery returns request without its query.
func StripQuery(request string) string {
	if i := strings.LastIndex(request, QueryDelimiter); i >= 0 {
		return request[:i]
	}
	return request
}

// VariantsFromQuery returns the variant assignments carried by query, with
// the part prefix removed. Parts without the prefix are ignored.
func VariantsFromQuery(query string) variantset.Set {
	if len(query) <= 1 {
		return nil
	}

	var out variantset.Set
	for _, a := range variantset.Parse(query[1:]) {
		if axis, ok := strings.CutPrefix(a.Axis, PartPrefix); ok {
			out = out.With(variantset.Assignment{Axis: axis, Value: a.Value})
		}
	}
	return out
}

// SplitRequest separates the variant assignments from request. The returned
// request keeps its other query parts.
func SplitRequest(request string) (string, variantset.Set) {
	query := QueryOf(request)
	variants := VariantsFromQuery(query)
	if len(variants) == 0 {
		return request, nil
	}

	var rest []string
	for _, a := range variantset.Parse(query[1:]) {
		if !strings.HasPrefix(a.Axis, PartPrefix) {
			rest = append(rest, a.String())
		}
	}

	clean := StripQuery(request)
	if len(rest) > 0 {
		clean += QueryDelimiter + strings.Join(rest, "&")
	}
	return clean, variants
}

// WithQuery appends set to request as prefixed query parts. An empty set
// leaves the request unchanged.
func WithQuery(request string, set variantset.Set) string {
	if len(set) == 0 {
		return request
	}
	parts := make([]string, len(set))
	for i, a := range set {
		parts[i] = PartPrefix + a.String()
	}
	return request + Delimiter(request) + strings.Join(parts, "&")
}

// EntryName returns the name of the expanded entry for a combination.
func EntryName(entry string, c Combination) string {
	return entry + "." + c.Key()
}

// ExpandEntries adds one entry per non-empty combination of the manifest to
// entries. An expanded entry is named "<entry>.<combination>" and imports the
// original entry's imports with the combination appended as request query.
// Entries without combinations in the manifest are copied unchanged. The
// input map is not modified.
func ExpandEntries(entries map[string][]string, m *Manifest) map[string][]string {
	out := maps.Clone(entries)
	if out == nil {
		out = make(map[string][]string)
	}
	if m == nil {
		return out
	}

	for _, name := range slices.Sorted(maps.Keys(entries)) {
		combos, ok := m.Get(name)
		if !ok {
			continue
		}
		imports := entries[name]
		for _, c := range combos {
			if c.IsEmpty() {
				continue
			}
			set := c.VariantSet()
			expanded := make([]string, len(imports))
			for i, imp := range imports {
				expanded[i] = WithQuery(imp, set)
			}
			out[EntryName(name, c)] = expanded
		}
	}
	return out
}

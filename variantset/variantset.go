package variantset

import (
	"slices"
	"strings"
)

// Value is the value assigned to an axis: either an exact string or the
// presence marker for axes that carry no value.
//
// The zero Value is the presence marker.
type Value struct {
	text  string
	exact bool
}

// Present returns the marker for an axis that exists without a value.
func Present() Value {
	return Value{}
}

// Exact returns a value carrying the given string.
func Exact(text string) Value {
	return Value{text: text, exact: true}
}

// IsPresent reports whether v is the presence marker.
func (v Value) IsPresent() bool {
	return !v.exact
}

// Text returns the exact value and true, or "" and false for the presence marker.
func (v Value) Text() (string, bool) {
	return v.text, v.exact
}

// String returns the exact value, or "" for the presence marker.
func (v Value) String() string {
	return v.text
}

// Assignment binds a value to one axis.
type Assignment struct {
	Axis  string
	Value Value
}

// String returns "axis=value", or the bare axis name for the presence marker.
func (a Assignment) String() string {
	if a.Value.IsPresent() {
		return a.Axis
	}
	return a.Axis + "=" + a.Value.text
}

// Set is an ordered list of assignments in which every axis appears at most
// once. Use [Parse], [Of] or [Set.With] to build sets that keep the invariant.
type Set []Assignment

// Parse decodes a variant URI such as "locale=fr.device_type=mobile" or
// "locale=fr&beta". Segments are separated by '.' or '&'; a segment without
// '=' assigns the presence marker. Empty segments are ignored and a repeated
// axis keeps its first position but takes the last value.
func Parse(uri string) Set {
	if uri == "" {
		return nil
	}

	segments := strings.FieldsFunc(uri, func(r rune) bool {
		return r == '.' || r == '&'
	})

	var set Set
	for _, segment := range segments {
		set = set.With(parseSegment(segment))
	}
	return set
}

// Of builds a set from "axis=value" or "axis" parts. It is mostly useful in
// tests and examples.
func Of(parts ...string) Set {
	var set Set
	for _, part := range parts {
		set = set.With(parseSegment(part))
	}
	return set
}

func parseSegment(segment string) Assignment {
	axis, value, ok := strings.Cut(segment, "=")
	if !ok {
		return Assignment{Axis: axis, Value: Present()}
	}
	return Assignment{Axis: axis, Value: Exact(value)}
}

// Len returns the number of axes in the set.
func (s Set) Len() int {
	return len(s)
}

// IsEmpty reports whether the set assigns no axis.
func (s Set) IsEmpty() bool {
	return len(s) == 0
}

// Get returns the value assigned to axis.
func (s Set) Get(axis string) (Value, bool) {
	for _, a := range s {
		if a.Axis == axis {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the set assigns axis.
func (s Set) Has(axis string) bool {
	_, ok := s.Get(axis)
	return ok
}

// Clone returns a copy of the set that shares no storage with s.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// With returns a copy of s with a assigned. An existing assignment for the
// same axis is replaced in place; otherwise a is appended.
func (s Set) With(a Assignment) Set {
	out := s.Clone()
	for i := range out {
		if out[i].Axis == a.Axis {
			out[i].Value = a.Value
			return out
		}
	}
	return append(out, a)
}

// Without returns a copy of s with axis removed.
func (s Set) Without(axis string) Set {
	out := make(Set, 0, len(s))
	for _, a := range s {
		if a.Axis != axis {
			out = append(out, a)
		}
	}
	return out
}

// Sorted returns a copy of s ordered by axis name.
func (s Set) Sorted() Set {
	out := s.Clone()
	slices.SortFunc(out, func(a, b Assignment) int {
		return strings.Compare(a.Axis, b.Axis)
	})
	return out
}

// Equal reports whether s and other assign the same values to the same axes,
// regardless of order.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for _, a := range s {
		v, ok := other.Get(a.Axis)
		if !ok || v != a.Value {
			return false
		}
	}
	return true
}

// Strings returns the assignments as "axis=value" (or bare "axis") parts in
// set order.
func (s Set) Strings() []string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = a.String()
	}
	return parts
}

// String serializes the set with '.' as delimiter.
func (s Set) String() string {
	return Serialize(s, ".")
}

// Key returns a canonical string for the set, independent of order.
func (s Set) Key() string {
	return Serialize(s.Sorted(), "&")
}

// Serialize joins the assignments of set with delim, in set order.
func Serialize(set Set, delim string) string {
	return strings.Join(set.Strings(), delim)
}

// Merge returns dest combined with every assignment of src that dest does not
// already carry. It returns false when both sets assign the same axis to
// different values. Neither argument is modified.
func Merge(dest, src Set) (Set, bool) {
	out := make(Set, len(dest), len(dest)+len(src))
	copy(out, dest)

	for _, a := range src {
		v, ok := dest.Get(a.Axis)
		if !ok {
			out = append(out, a)
			continue
		}
		if v != a.Value {
			return nil, false
		}
	}
	return out, true
}

// Reduce removes from set every axis that fixed also assigns. It returns
// false when a shared axis has a different value in the two sets.
func Reduce(set, fixed Set) (Set, bool) {
	out := make(Set, 0, len(set))
	for _, a := range set {
		v, ok := fixed.Get(a.Axis)
		if !ok {
			out = append(out, a)
			continue
		}
		if v != a.Value {
			return nil, false
		}
	}
	return out, true
}

// ConflictingAxis returns the first axis of a that b assigns to a different
// value.
func ConflictingAxis(a, b Set) (string, bool) {
	for _, x := range a {
		if v, ok := b.Get(x.Axis); ok && v != x.Value {
			return x.Axis, true
		}
	}
	return "", false
}

// Package priority ranks variant axes so that ties between otherwise equal
// variant combinations are broken deterministically.
//
// A [Table] is compiled from an ordered list of axis-name patterns. Each
// pattern is a regular expression matched against the whole axis name, and
// its rank is its position among the accepted patterns: lower ranks are
// consumed first.
//
//	table := priority.MustBuild("locale", "device_type", "experiment.*")
//	table.Compare(variantset.Of("locale=fr"), variantset.Of("device_type=mobile")) // false: axes are ordered by name
package priority

import (
	"fmt"
	"regexp"

	"github.com/albertocavalcante/go-variants/variantset"
)

// DefaultPatterns is the priority used when none is configured.
var DefaultPatterns = []string{"locale", "device_type", "experiment.*"}

// Rule is one compiled priority pattern.
type Rule struct {
	Pattern string
	Rank    int
	re      *regexp.Regexp
}

// Matches reports whether axis matches the rule's pattern in full.
func (r Rule) Matches(axis string) bool {
	return r.re.MatchString(axis)
}

// Table is an ordered set of rules. A nil *Table behaves as an empty table.
// Tables are immutable and safe for concurrent use.
type Table struct {
	rules []Rule
}

// PatternError reports a priority entry that was dropped from the table.
type PatternError struct {
	// Index is the position of the entry in the configured list.
	Index int
	// Value is the offending entry.
	Value any
	// Err is the compile error for string entries that are not valid patterns.
	Err error
}

func (e *PatternError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("priority[%d]: invalid pattern %q: %v - ignoring", e.Index, e.Value, e.Err)
	}
	return fmt.Sprintf("priority[%d]: invalid type %T (%v), expected string - ignoring", e.Index, e.Value, e.Value)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Build compiles patterns into a table. Entries that are not strings or that
// do not compile are reported and skipped; the remaining entries keep their
// relative order and are ranked by their position among accepted entries.
func Build(patterns []any) (*Table, []*PatternError) {
	t := &Table{rules: make([]Rule, 0, len(patterns))}
	var problems []*PatternError

	for i, p := range patterns {
		pattern, ok := p.(string)
		if !ok {
			problems = append(problems, &PatternError{Index: i, Value: p})
			continue
		}
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			problems = append(problems, &PatternError{Index: i, Value: pattern, Err: err})
			continue
		}
		t.rules = append(t.rules, Rule{Pattern: pattern, Rank: len(t.rules), re: re})
	}

	return t, problems
}

// FromStrings is Build for a list that is already known to hold strings.
func FromStrings(patterns []string) (*Table, []*PatternError) {
	values := make([]any, len(patterns))
	for i, p := range patterns {
		values[i] = p
	}
	return Build(values)
}

// MustBuild compiles patterns or panics. Use only for constants/tests.
func MustBuild(patterns ...string) *Table {
	t, problems := FromStrings(patterns)
	if len(problems) > 0 {
		panic(problems[0])
	}
	return t
}

// Default returns the table built from DefaultPatterns.
func Default() *Table {
	return MustBuild(DefaultPatterns...)
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns a copy of the compiled rules in rank order.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	return append([]Rule(nil), t.rules...)
}

// Patterns returns the accepted patterns in rank order.
func (t *Table) Patterns() []string {
	if t == nil {
		return nil
	}
	patterns := make([]string, len(t.rules))
	for i, r := range t.rules {
		patterns[i] = r.Pattern
	}
	return patterns
}

// Rank returns the rank of the first rule that matches axis.
func (t *Table) Rank(axis string) (int, bool) {
	if t == nil {
		return 0, false
	}
	for _, r := range t.rules {
		if r.Matches(axis) {
			return r.Rank, true
		}
	}
	return 0, false
}

// MinimumRank returns the axis of set whose matching rule has the lowest
// rank. Axes are scanned in set order, so among axes sharing the lowest rank
// the first one wins. ok is false when no axis matches any rule.
func (t *Table) MinimumRank(set variantset.Set) (axis string, ok bool) {
	best := -1
	for _, a := range set {
		rank, matched := t.Rank(a.Axis)
		if !matched {
			continue
		}
		if best < 0 || rank < best {
			best = rank
			axis = a.Axis
		}
	}
	return axis, best >= 0
}

// Compare reports whether a should be preferred over b.
//
// The highest priority axis of each set is found with MinimumRank. When the
// two axes differ they are ordered by name, and a set without any ranked axis
// sorts after every set that has one. When they are the same axis it is
// removed from both sets and the comparison continues with what remains.
//
// Two sets without ranked axes compare as "a before b". The relation is
// therefore not antisymmetric and must only be used for pairwise decisions,
// never as a sort comparator.
func (t *Table) Compare(a, b variantset.Set) bool {
	for {
		axisA, okA := t.MinimumRank(a)
		axisB, okB := t.MinimumRank(b)

		switch {
		case !okA && !okB:
			return true
		case !okA:
			return false
		case !okB:
			return true
		case axisA != axisB:
			return axisA < axisB
		}

		a = a.Without(axisA)
		b = b.Without(axisB)
	}
}

// Unranked returns the axes of set that no rule matches.
func (t *Table) Unranked(set variantset.Set) variantset.Set {
	out := make(variantset.Set, 0, len(set))
	for _, a := range set {
		if _, ok := t.Rank(a.Axis); !ok {
			out = append(out, a)
		}
	}
	return out
}

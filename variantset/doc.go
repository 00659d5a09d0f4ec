// Package variantset implements the algebra over variant sets.
//
// A variant set maps axis names (such as "locale" or "device_type") to values
// and identifies one concrete variant of a source file. The file
// button.locale=fr.device_type=mobile.js carries the set
//
//	{locale: fr, device_type: mobile}
//
// An axis may also be present without a value (a boolean flag variant such as
// button.beta.js), which is modelled by [Present].
//
// # Operations
//
//   - [Parse] decodes the textual form used in file names and request queries.
//   - [Merge] combines two sets, failing when they assign one axis twice.
//   - [Reduce] strips axes already fixed by another set, failing on conflict.
//   - [Serialize] and [Set.Strings] encode a set back into axis=value parts.
//
// Conflicts are reported through a boolean result rather than an error: two
// incompatible sets are an expected outcome of combining variants, not a
// failure of the caller.
//
// # Ordering
//
// A [Set] is an ordered slice. Equality, merging and reduction ignore order,
// while serialization follows it. Callers that need a canonical form use
// [Set.Sorted].
package variantset

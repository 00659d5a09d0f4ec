// Package closure computes variant closures: for every module of a dependency
// tree, the smallest set of variant combinations that covers the module and
// everything beneath it.
//
// # Construction
//
// A closure tree is built top-down from an entry module. Each closure records
// its module's own variant set reduced by the assignments already fixed by its
// ancestors, and the transitive set active from the root down to it. A module
// whose variant set conflicts with an ancestor (same axis, different value) is
// pruned together with everything beneath it. Builders descend into a
// module's variant files first, then into its dependencies. A module that
// appears under several parents gets one closure per appearance.
//
// # Merging
//
// Closures are resolved bottom-up. A module with variant files combines them
// pairwise, attributing each new combination to the side the priority table
// prefers, then inherits the resolved combinations of each attributed
// closure. A module without variant files folds the resolved combinations of
// its dependencies together. Either way the result is ordered by size,
// largest first, and holds no duplicate combination.
//
// # Usage
//
//	tree, err := closure.Build(root, closure.Options{})
//	if err != nil {
//		return err
//	}
//	tree.Merge(priority.Default())
//	for _, combination := range tree.Combinations() {
//		fmt.Println(combination)
//	}
//
// Conflicts are never errors. Pruned closures and skipped combinations are
// reported through Tree.Diagnostics and Tree.Stats.
package closure

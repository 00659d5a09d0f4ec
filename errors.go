package govariants

import "errors"

// Sentinel errors for common resolution failures.
var (
	// ErrEntryNotFound indicates a requested entry is not declared by the graph.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrNoEntries indicates the graph declares no entry point to resolve.
	ErrNoEntries = errors.New("graph has no entries")

	// ErrInvalidGraph indicates the graph failed structural validation.
	ErrInvalidGraph = errors.New("invalid graph")
)

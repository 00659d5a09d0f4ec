package govariants

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/albertocavalcante/go-variants/closure"
	"github.com/albertocavalcante/go-variants/priority"
)

// Option configures resolution behavior.
type Option func(*resolverConfig) error

// resolverConfig holds all resolution configuration.
type resolverConfig struct {
	table          *priority.Table
	patterns       []any
	hasPatterns    bool
	entries        []string
	concurrency    int
	maxDepth       int
	maxDiagnostics int
	validate       bool
	discoveryFS    fs.FS
	cacheSize      int
	onProgress     func(ProgressEvent)

	// logger is the structured logger for debug/info output.
	// If nil, logging is disabled.
	logger *slog.Logger
}

// WithPriority sets the axis priority from a list of patterns. The first
// pattern has the highest priority. Entries that are not strings or not valid
// regular expressions are dropped and reported in Result.PriorityErrors.
func WithPriority(patterns ...any) Option {
	return func(c *resolverConfig) error {
		c.patterns = append([]any(nil), patterns...)
		c.hasPatterns = true
		c.table = nil
		return nil
	}
}

// WithPriorityTable sets an already compiled priority table.
func WithPriorityTable(t *priority.Table) Option {
	return func(c *resolverConfig) error {
		if t == nil {
			return errors.New("priority table must not be nil")
		}
		c.table = t
		c.patterns = nil
		c.hasPatterns = false
		return nil
	}
}

// WithEntries restricts resolution to the named entries. Naming an entry the
// graph does not declare fails with ErrEntryNotFound.
func WithEntries(names ...string) Option {
	return func(c *resolverConfig) error {
		c.entries = append(c.entries, names...)
		return nil
	}
}

// WithConcurrency sets how many entries are resolved in parallel.
// The default of 1 resolves entries sequentially.
func WithConcurrency(n int) Option {
	return func(c *resolverConfig) error {
		c.concurrency = n
		return nil
	}
}

// WithMaxDepth bounds the depth of closure trees. Zero selects
// closure.DefaultMaxDepth and a negative value disables the limit.
func WithMaxDepth(depth int) Option {
	return func(c *resolverConfig) error {
		c.maxDepth = depth
		return nil
	}
}

// WithMaxDiagnostics bounds the diagnostics kept per entry. Zero selects
// closure.DefaultMaxDiagnostics and a negative value keeps none.
func WithMaxDiagnostics(n int) Option {
	return func(c *resolverConfig) error {
		c.maxDiagnostics = n
		return nil
	}
}

// WithValidation runs graph.Validate before resolving, so dangling
// references and cycles anywhere in the graph fail the whole resolution.
func WithValidation(validate bool) Option {
	return func(c *resolverConfig) error {
		c.validate = validate
		return nil
	}
}

// WithDiscovery scans fsys for variant files and attaches them to the graph
// before resolving. Module paths are interpreted relative to fsys.
// cacheSize bounds the directory listings kept in memory; zero selects
// discovery.DefaultCacheSize.
func WithDiscovery(fsys fs.FS, cacheSize int) Option {
	return func(c *resolverConfig) error {
		if fsys == nil {
			return errors.New("discovery file system must not be nil")
		}
		c.discoveryFS = fsys
		c.cacheSize = cacheSize
		return nil
	}
}

// WithProgress sets a callback for resolution progress events. With a
// concurrency above 1 the callback may be invoked from several goroutines.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(c *resolverConfig) error {
		c.onProgress = fn
		return nil
	}
}

// WithLogger sets a structured logger for resolution diagnostics.
// If not set, logging is disabled.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "variants")
//	Resolve(ctx, g, WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *resolverConfig) error {
		c.logger = l
		return nil
	}
}

// check verifies the configuration for logical consistency.
func (c *resolverConfig) check() error {
	if c.concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	if c.cacheSize < 0 {
		return errors.New("discovery cache size must not be negative")
	}
	return nil
}

// priorityTable returns the table to resolve with and the entries dropped
// while compiling configured patterns.
func (c *resolverConfig) priorityTable() (*priority.Table, []*priority.PatternError) {
	switch {
	case c.table != nil:
		return c.table, nil
	case c.hasPatterns:
		return priority.Build(c.patterns)
	default:
		return priority.Default(), nil
	}
}

func (c *resolverConfig) closureOptions() closure.Options {
	return closure.Options{MaxDepth: c.maxDepth, MaxDiagnostics: c.maxDiagnostics}
}

func (c *resolverConfig) workers() int {
	if c.concurrency == 0 {
		return 1
	}
	return c.concurrency
}

func (c *resolverConfig) progress(e ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(e)
	}
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *resolverConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newResolverConfig applies opts and validates the result.
func newResolverConfig(opts ...Option) (*resolverConfig, error) {
	c := &resolverConfig{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

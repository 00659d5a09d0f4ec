// Package watch re-runs a callback when files under a directory change.
//
// Events are debounced: a burst of changes (an editor writing a temp file and
// renaming it, a build tool regenerating a graph) results in one callback
// carrying every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not set.
const DefaultDebounce = 300 * time.Millisecond

var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Root is the directory to watch recursively. Empty means the working
	// directory.
	Root string

	// Patterns are doublestar globs, relative to Root, selecting the files
	// that trigger the callback. Empty matches every file.
	Patterns []string

	// Ignore are doublestar globs that never trigger the callback, in
	// addition to DefaultIgnores.
	Ignore []string

	// Debounce is the quiet period after the last event before the callback
	// runs. Zero or negative selects DefaultDebounce.
	Debounce time.Duration

	// OnChange receives the sorted, de-duplicated changed paths relative to
	// Root. Callbacks never overlap.
	OnChange func(ctx context.Context, changed []string) error

	// Logger receives watcher warnings. Nil discards them.
	Logger *slog.Logger
}

// Watcher monitors a directory tree. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	root     string
	ignores  []string
	debounce time.Duration
	log      *slog.Logger
	started  atomic.Bool
}

// New validates cfg and registers every non-ignored directory under Root.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		root:     abs,
		ignores:  append(DefaultIgnores(), cfg.Ignore...),
		debounce: debounce,
		log:      log,
	}
	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			// Retry later so pending events are not lost.
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.log.Warn("watch callback failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("close fsnotify watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, err := filepath.Rel(w.root, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name, rel)
			}
			if !w.Matches(rel) {
				continue
			}

			mu.Lock()
			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.log.Warn("fsnotify error", "error", err)
		}
	}
}

// Matches reports whether a path relative to Root triggers the callback.
func (w *Watcher) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	if matchAny(w.ignores, rel) {
		return false
	}
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skipping inaccessible path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		if w.ignoredDir(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", w.root, err)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.ignoredDir(rel) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.log.Warn("add new directory", "path", path, "error", err)
	}
}

func (w *Watcher) ignoredDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}
	return matchAny(w.ignores, rel) || matchAny(w.ignores, rel+"/")
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}

// isFatal reports resource exhaustion errors after which the watcher cannot
// recover.
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}

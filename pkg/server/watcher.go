package server

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Change is a detected file change.
type Change struct {
	Path string
	CSS  bool
}

// DefaultIgnore contains name patterns the watcher skips.
var DefaultIgnore = []string{".git", "node_modules", "*.tmp", "*.swp", "*~"}

// Watcher polls directories for modified, added and removed files.
type Watcher struct {
	paths    []string
	ignore   []string
	interval time.Duration

	mu         sync.Mutex
	scanned    bool
	timestamps map[string]time.Time
}

// NewWatcher creates a watcher over paths polling every interval.
func NewWatcher(paths []string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Watcher{
		paths:      paths,
		ignore:     DefaultIgnore,
		interval:   interval,
		timestamps: make(map[string]time.Time),
	}
}

// Run scans until ctx is done, calling onChange for the first change of
// each kind (CSS or other) per poll.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	w.Scan()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reported := make(map[bool]bool)
			for _, c := range w.Scan() {
				if !reported[c.CSS] {
					reported[c.CSS] = true
					onChange(c)
				}
			}
		}
	}
}

// Scan walks the watched paths and returns what changed since the last
// scan. The first scan only records the current state.
func (w *Watcher) Scan() []Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	first := !w.scanned
	w.scanned = true
	seen := make(map[string]bool, len(w.timestamps))
	var changes []Change

	for _, root := range w.paths {
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if w.shouldIgnore(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}

			seen[p] = true
			last, ok := w.timestamps[p]
			if !ok || info.ModTime().After(last) {
				w.timestamps[p] = info.ModTime()
				if !first {
					changes = append(changes, newChange(p))
				}
			}
			return nil
		})
	}

	for p := range w.timestamps {
		if !seen[p] {
			delete(w.timestamps, p)
			changes = append(changes, newChange(p))
		}
	}
	return changes
}

func (w *Watcher) shouldIgnore(p string) bool {
	name := filepath.Base(p)
	for _, pattern := range w.ignore {
		if name == pattern {
			return true
		}
		if strings.ContainsAny(pattern, "*?[") {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		}
	}
	return false
}

func newChange(p string) Change {
	ext := strings.ToLower(filepath.Ext(p))
	return Change{Path: p, CSS: ext == ".css"}
}

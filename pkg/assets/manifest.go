// Package assets maps the client's file names to their fingerprinted
// versions.
//
// A build may ship a manifest.json next to the assets:
//
//	{
//	  "app.wasm": "app.3f9a1c2d.wasm",
//	  "styles.css": "styles.e5f6a7b8.css"
//	}
//
// The server loads it and writes the fingerprinted names into the shell,
// which lets those files be cached forever.
package assets

import (
	"encoding/json"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/vango-dev/vpbrowse/internal/errors"
)

// ManifestFile is the manifest's name in the asset source.
const ManifestFile = "manifest.json"

// Manifest maps source names to fingerprinted names. It is safe for
// concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest, which resolves every name to
// itself.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Parse reads a JSON manifest.
func Parse(r io.Reader) (*Manifest, error) {
	var entries map[string]string
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.New("E303").WithDetail(ManifestFile).Wrap(err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted name for source, or source itself.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Set adds or replaces an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// IsFingerprinted reports whether name carries a content hash of at
// least eight hex digits before its extension, e.g. "app.a1b2c3d4.wasm".
func IsFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

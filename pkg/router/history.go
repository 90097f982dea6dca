package router

import "sync"

// History is the browser session history as seen by the router.
// The browser implementation lives in package dom.
type History interface {
	// Location returns the current full path including any query string,
	// e.g. "/app/tag/kittens?page=2".
	Location() string

	// PushState adds a new entry for url and makes it current.
	PushState(title, url string) error

	// OnPopState registers fn to run whenever the current entry changes
	// through back or forward navigation. The returned func unregisters it.
	OnPopState(fn func()) (stop func())
}

// HistoryEntry is one entry of a MemoryHistory.
type HistoryEntry struct {
	Title string
	URL   string
}

// MemoryHistory is an in-memory History for tests and non-browser hosts.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []HistoryEntry
	index     int
	listeners map[int]func()
	nextID    int
}

// NewMemoryHistory creates a history whose only entry is url.
func NewMemoryHistory(url string) *MemoryHistory {
	if url == "" {
		url = "/"
	}
	return &MemoryHistory{
		entries:   []HistoryEntry{{URL: url}},
		listeners: make(map[int]func()),
	}
}

// Location implements History.
func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].URL
}

// PushState implements History. Entries after the current one are dropped.
func (h *MemoryHistory) PushState(title, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], HistoryEntry{Title: title, URL: url})
	h.index++
	return nil
}

// OnPopState implements History.
func (h *MemoryHistory) OnPopState(fn func()) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Back moves one entry back and notifies listeners. It reports whether
// there was an entry to move to.
func (h *MemoryHistory) Back() bool { return h.Go(-1) }

// Forward moves one entry forward and notifies listeners.
func (h *MemoryHistory) Forward() bool { return h.Go(1) }

// Go moves delta entries and notifies listeners. Moves outside the
// history are ignored.
func (h *MemoryHistory) Go(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = target
	listeners := make([]func(), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *MemoryHistory) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

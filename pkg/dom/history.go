//go:build js && wasm

package dom

import (
	"sync"
	"syscall/js"
)

// Window returns the global window object.
func Window() js.Value { return js.Global().Get("window") }

// Document returns the global document object.
func Document() js.Value { return js.Global().Get("document") }

// Origin returns location.origin, e.g. "https://example.com".
func Origin() string {
	return Window().Get("location").Get("origin").String()
}

// BaseHref returns the href of the document's <base> element as written,
// or "/" when there is none.
func BaseHref() string {
	base := Document().Call("querySelector", "base[href]")
	if base.IsNull() || base.IsUndefined() {
		return "/"
	}
	href := base.Call("getAttribute", "href")
	if href.IsNull() || href.String() == "" {
		return "/"
	}
	return href.String()
}

// BrowserHistory is a router.History backed by window.history.
type BrowserHistory struct {
	window js.Value

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
	onPop     js.Func
	attached  bool
}

// NewBrowserHistory creates a history for the current window.
func NewBrowserHistory() *BrowserHistory {
	return &BrowserHistory{
		window:    Window(),
		listeners: make(map[int]func()),
	}
}

// Location returns pathname, search and hash of the current entry.
func (h *BrowserHistory) Location() string {
	loc := h.window.Get("location")
	return loc.Get("pathname").String() + loc.Get("search").String() + loc.Get("hash").String()
}

// PushState adds an entry for url.
func (h *BrowserHistory) PushState(title, url string) (err error) {
	defer func() {
		// pushState throws for cross-origin URLs.
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			panic(r)
		}
	}()
	h.window.Get("history").Call("pushState", js.Null(), title, url)
	return nil
}

// OnPopState registers fn for popstate events.
func (h *BrowserHistory) OnPopState(fn func()) (stop func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.attached {
		h.onPop = js.FuncOf(func(js.Value, []js.Value) any {
			h.popped()
			return nil
		})
		h.window.Call("addEventListener", "popstate", h.onPop)
		h.attached = true
	}

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
		if len(h.listeners) == 0 && h.attached {
			h.window.Call("removeEventListener", "popstate", h.onPop)
			h.onPop.Release()
			h.attached = false
		}
	}
}

func (h *BrowserHistory) popped() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

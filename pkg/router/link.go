package router

import (
	"weak"

	"github.com/vango-dev/vpbrowse/pkg/vdom"
)

// LinkAttr marks an element as an in-app link. Its value is the target
// path, used when the element has no href.
const LinkAttr = "data-router-link"

// Link creates an anchor that navigates through the router once bound.
func Link(href string, children ...any) *vdom.VNode {
	return vdom.A(
		vdom.Href(href),
		vdom.Attr{Key: LinkAttr, Value: href},
		children,
	)
}

// RouterLink returns the attribute declaring an element an in-app link to
// path. Use it for non-anchor elements such as list items.
func RouterLink(path string) vdom.Attr {
	return vdom.Attr{Key: LinkAttr, Value: path}
}

// LinkTarget returns the navigation target of a link element: its href
// when present and non-empty, otherwise its data-router-link value.
func LinkTarget(el *vdom.VNode) string {
	if href, ok := el.Attr("href"); ok && href != "" {
		return href
	}
	target, _ := el.Attr(LinkAttr)
	return target
}

// BindLinks attaches a click handler to every in-app link in container
// that was not bound before, and returns how many were bound. A nil
// container means the document set with WithDocument.
//
// Call it after rendering markup that contains links, passing the
// container that was filled.
func (r *Router) BindLinks(container *vdom.VNode) int {
	r.mu.Lock()
	if container == nil {
		container = r.document
	}
	r.mu.Unlock()
	if container == nil {
		return 0
	}

	links := vdom.FindByAttr(container, LinkAttr)

	r.mu.Lock()
	r.pruneBoundLocked()
	fresh := links[:0:0]
	for _, el := range links {
		key := weak.Make(el)
		if _, ok := r.bound[key]; ok {
			continue
		}
		r.bound[key] = struct{}{}
		fresh = append(fresh, el)
	}
	r.mu.Unlock()

	for _, el := range fresh {
		vdom.AddEventListener(el, "click", r.followLink)
	}
	if len(fresh) > 0 {
		r.logger.Debug("router links bound", "count", len(fresh))
	}
	return len(fresh)
}

// IsBound reports whether el already has the router's click handler.
func (r *Router) IsBound(el *vdom.VNode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bound[weak.Make(el)]
	return ok
}

// pruneBoundLocked forgets elements that have been garbage collected.
func (r *Router) pruneBoundLocked() {
	for key := range r.bound {
		if key.Value() == nil {
			delete(r.bound, key)
		}
	}
}

// followLink is the click handler of bound links.
func (r *Router) followLink(e *vdom.Event) {
	e.StopPropagation()
	e.PreventDefault()

	target := LinkTarget(e.CurrentTarget)
	if target == "" {
		return
	}
	if base := r.BasePath(); !base.Has(target) {
		target = base.FullPath(target)
	}
	// NavigateTo logs and reports its own failures.
	_ = r.NavigateTo(target, "")
}

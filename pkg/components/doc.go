// Package components contains the views of the video browser: video
// thumbnails and lists, pagination and the tag search box.
//
// Components build vdom trees. Anything interactive reaches the page
// through a Host, which binds router links in freshly rendered markup and
// pushes changed subtrees to the screen.
package components

import "github.com/vango-dev/vpbrowse/pkg/vdom"

// Host is the page a component is mounted in.
type Host interface {
	// BindLinks wires router links inside container.
	BindLinks(container *vdom.VNode) int

	// Update redraws node after it changed.
	Update(node *vdom.VNode)
}

// NopHost ignores every call. Useful for static rendering.
type NopHost struct{}

func (NopHost) BindLinks(*vdom.VNode) int { return 0 }
func (NopHost) Update(*vdom.VNode)        {}

// Package render turns VNode trees into HTML.
//
// It is used on the server to emit the application shell and in tests to
// assert on the markup produced by components:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(node)
//
// Attributes are written in sorted order so output is deterministic.
// Event handlers are never rendered; they only exist in the browser.
// Text and attribute values are escaped. KindRaw nodes are written as is
// and must only carry trusted markup.
package render

package render

import (
	"io"

	"github.com/vango-dev/vpbrowse/pkg/vdom"
)

// PageData contains everything needed to render a complete HTML document.
type PageData struct {
	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Title is the document title.
	Title string

	// BaseHref is emitted as <base href>. The browser router reads it back
	// to learn the path prefix the application is served under.
	BaseHref string

	// Meta contains meta tags for the head.
	Meta []MetaTag

	// StyleSheets are stylesheet URLs.
	StyleSheets []string

	// Scripts are external script URLs, loaded with defer.
	Scripts []string

	// InlineScripts are trusted script bodies appended after Body.
	InlineScripts []string

	// Body is the root node placed inside <body>.
	Body *vdom.VNode
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name    string
	Content string
	Charset string
}

// RenderPage writes a full HTML5 document for page to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, Document(page))
}

// Document builds the <html> tree for page without rendering it.
func Document(page PageData) *vdom.VNode {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := vdom.Head(vdom.Meta(vdom.Charset("utf-8")))
	for _, m := range page.Meta {
		if m.Charset != "" {
			continue
		}
		head.AppendChild(vdom.Meta(vdom.Name(m.Name), vdom.Content(m.Content)))
	}
	if page.BaseHref != "" {
		head.AppendChild(vdom.Base(vdom.Href(page.BaseHref)))
	}
	if page.Title != "" {
		head.AppendChild(vdom.Title(page.Title))
	}
	for _, href := range page.StyleSheets {
		head.AppendChild(vdom.Link(vdom.Rel("stylesheet"), vdom.Href(href)))
	}
	for _, src := range page.Scripts {
		head.AppendChild(vdom.Script(vdom.Src(src), vdom.Attribute("defer", true)))
	}

	body := vdom.Body(page.Body)
	for _, script := range page.InlineScripts {
		body.AppendChild(vdom.Script(vdom.Raw(script)))
	}

	return vdom.Html(vdom.Lang(lang), head, body)
}

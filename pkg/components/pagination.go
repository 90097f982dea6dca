package components

import (
	"strconv"

	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// Pagination window sizing.
const (
	PaginationMaxLinks = 6
	LowestPage         = 1
)

// PageWindow returns the first and last page number to link, inclusive.
// The window starts half of PaginationMaxLinks before current and is
// shifted left when it would run past totalPages, never below LowestPage.
func PageWindow(current, totalPages int) (start, end int) {
	start = max(current-PaginationMaxLinks/2, LowestPage)
	end = min(start+PaginationMaxLinks, totalPages)

	if length := end - start; length < PaginationMaxLinks {
		start = max(start-(PaginationMaxLinks-length), LowestPage)
	}
	return start, end
}

// Pagination renders page links for a list response.
type Pagination struct {
	// Info is the list response's pagination block.
	Info vpapi.Pagination

	// Path is the full path page links point at, with ?page=N appended.
	Path string

	// OnPage, when set, is called with the page number on click instead
	// of navigating. Use it for lists that re-render in place.
	OnPage func(page int)

	// Assets is the URL prefix of the arrow icons.
	Assets string
}

// Render builds the <nav> element.
func (p *Pagination) Render() *vdom.VNode {
	current, total := p.Info.CurrentPage, p.Info.TotalPages
	start, end := PageWindow(current, total)

	items := make([]*vdom.VNode, 0, end-start+3)
	if current > 1 {
		items = append(items, p.link(current-1, false,
			vdom.Img(vdom.Src(p.Assets+"arrow-left.svg"), vdom.Class("pagination-left-arrow")),
			" Previous",
		))
	}
	for page := start; page <= end; page++ {
		items = append(items, p.link(page, page == current, strconv.Itoa(page)))
	}
	if current < total {
		items = append(items, p.link(current+1, false,
			"Next ",
			vdom.Img(vdom.Src(p.Assets+"arrow-right.svg"), vdom.Class("pagination-right-arrow")),
		))
	}

	return vdom.Nav(vdom.Class("pagination-container"), vdom.Ul(items))
}

func (p *Pagination) link(page int, current bool, content ...any) *vdom.VNode {
	li := vdom.Li(content)
	if current {
		li.AddClass("current-page")
	}

	if p.OnPage != nil {
		li.AppendChild(vdom.OnClick(func() { p.OnPage(page) }))
		return li
	}
	li.SetAttr(router.LinkAttr, p.Path+"?page="+strconv.Itoa(page))
	return li
}

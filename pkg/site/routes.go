package site

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/vango-dev/vpbrowse/pkg/components"
	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// Route names, as reported to router observers.
const (
	RouteIndex    = "index"
	RouteTag      = "tag"
	RouteDetails  = "details"
	RouteNotFound = "not-found"
)

// Register adds the site's pages to the router. The not-found page is
// registered last and matches every path.
func (s *Site) Register() {
	s.Layout()
	r := s.router
	r.Register(router.MustPattern(`^/?$`), s.index, router.Named(RouteIndex))
	r.Register(router.MustPattern(`^/tag/(.*)$`), s.tag, router.Named(RouteTag))
	r.Register(router.MustPattern(`^/details/(.*)$`), s.details, router.Named(RouteDetails))
	r.Register(router.NamedPredicate(RouteNotFound, func(string) bool { return true }), s.notFound, router.Named(RouteNotFound))
}

func (s *Site) index(m router.Match) {
	heading := vdom.H2(vdom.Class("featured-videos-heading"), "Featured Videos")
	featuredContainer := vdom.Div(vdom.Class("featured-videos-container"))
	featured := vdom.Div(vdom.Class("video-list-wrapper", "featured-videos"), heading, featuredContainer)

	featuredList := &components.VideoList{
		Container: featuredContainer,
		Fetch:     components.FromList(s.api, vpapi.ListParams{Limit: s.cfg.FeaturedCount}),
		Logger:    s.logger,
		OnEmpty: func() {
			featured.RemoveChild(heading)
			featured.RemoveChild(featuredContainer)
			s.Update(featured)
		},
	}
	relevant, relevantList := s.relevantList(vpapi.ListParams{Page: s.page()}, "", nil)

	s.show(featured, relevant)
	s.scrollToTop()
	s.load(m.Context(), featuredList, relevantList)
}

func (s *Site) tag(m router.Match) {
	tag := decodeTag(m.Capture(1))
	relevant, list := s.relevantList(vpapi.ListParams{Page: s.page(), Tags: []string{tag}}, tag, nil)

	s.show(relevant)
	s.scrollToTop()
	s.load(m.Context(), list)
}

func (s *Site) notFound(m router.Match) {
	s.show(vdom.Div(
		vdom.Class("page-not-found"),
		vdom.H2("Page not found"),
		vdom.P(
			router.RouterLink("/"),
			"There is nothing at ", vdom.Em(m.Path), ".",
			vdom.Br(),
			"Click ", vdom.U("here"), " to go to the start page.",
		),
	))
	s.scrollToTop()
}

// relevantList builds the wrapper of a paginated video list. A non-empty
// tag changes the heading. With onPage nil, page links navigate to the
// current path with ?page=N.
func (s *Site) relevantList(p vpapi.ListParams, tag string, onPage func(int)) (*vdom.VNode, *components.VideoList) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = s.cfg.PageSize
	}

	heading := vdom.H2("Popular videos")
	if tag != "" {
		heading = vdom.H2("Latest videos for ", vdom.Em("#"+tag))
	}
	container := vdom.Div(vdom.Class("relevant-videos-container"))
	wrapper := vdom.Div(vdom.Class("video-list-wrapper", "relevant-videos"), heading, container)

	list := &components.VideoList{
		Container: container,
		Fetch:     components.FromList(s.api, p),
		Logger:    s.logger,
		Pagination: &components.Pagination{
			Path:   s.currentPath(),
			OnPage: onPage,
			Assets: s.cfg.Assets,
		},
	}
	return wrapper, list
}

// load runs the lists' loads in the background, one after another.
// Loads stop as soon as ctx is cancelled by a newer dispatch.
func (s *Site) load(ctx context.Context, lists ...*components.VideoList) {
	s.Spawn(func() {
		for _, list := range lists {
			if err := list.Load(ctx, s); err != nil && ctx.Err() != nil {
				return
			}
		}
	})
}

// page is the ?page= query parameter of the current location, or 1.
func (s *Site) page() int {
	page, err := strconv.Atoi(s.router.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// currentPath is the current location's full path without query.
func (s *Site) currentPath() string {
	loc := s.router.History().Location()
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	return loc
}

func decodeTag(raw string) string {
	tag, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return tag
}

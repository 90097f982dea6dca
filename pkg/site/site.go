package site

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/vpbrowse/pkg/components"
	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// Defaults for Config.
const (
	DefaultPageSize      = 20
	DefaultFeaturedCount = 10
	DefaultSidebarCount  = 6
	DefaultAssets        = "assets/"

	DetailsPrimaryColor = "7dba27"
	DetailsLabelColor   = "fff"
)

// Display puts the layout on screen.
type Display interface {
	// Update redraws node after it changed.
	Update(node *vdom.VNode)

	// ScrollToTop scrolls the content region back to the top.
	ScrollToTop()
}

// API is the part of the Video Promotion API the pages use.
type API interface {
	components.ListSource
	components.TagSource
	Details(ctx context.Context, p vpapi.DetailsParams) (*vpapi.Details, error)
}

// Config tunes the pages.
type Config struct {
	// PageSize is the number of videos on paginated lists.
	PageSize int

	// FeaturedCount is the number of featured videos on the start page.
	FeaturedCount int

	// SidebarCount is the number of recommended videos next to the player.
	SidebarCount int

	// Assets is the URL prefix of images shipped with the app.
	Assets string

	// PrimaryColor and LabelColor style the embedded player.
	PrimaryColor string
	LabelColor   string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.FeaturedCount <= 0 {
		c.FeaturedCount = DefaultFeaturedCount
	}
	if c.SidebarCount <= 0 {
		c.SidebarCount = DefaultSidebarCount
	}
	if c.Assets == "" {
		c.Assets = DefaultAssets
	}
	if c.PrimaryColor == "" {
		c.PrimaryColor = DetailsPrimaryColor
	}
	if c.LabelColor == "" {
		c.LabelColor = DetailsLabelColor
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Site is the video browser application.
type Site struct {
	// Spawn runs page loads off the router's handler.
	// Defaults to starting a goroutine.
	Spawn func(func())

	router  *router.Router
	api     API
	display Display
	cfg     Config
	logger  *slog.Logger

	once    sync.Once
	layout  *vdom.VNode
	content *vdom.VNode
	search  *components.SearchBox

	mu      sync.Mutex
	related *vdom.VNode
}

// New creates a site rendering through display. Call Register before
// starting r.
func New(r *router.Router, api API, display Display, cfg Config) *Site {
	cfg.applyDefaults()
	s := &Site{
		Spawn:   func(fn func()) { go fn() },
		router:  r,
		api:     api,
		display: display,
		cfg:     cfg,
		logger:  cfg.Logger,
	}
	s.search = components.NewSearchBox(api, s, cfg.Logger)
	return s
}

// Router returns the router the site is registered with.
func (s *Site) Router() *router.Router { return s.router }

// Search returns the menu bar's search box.
func (s *Site) Search() *components.SearchBox { return s.search }

// Layout builds the page frame once and makes it the router's document.
func (s *Site) Layout() *vdom.VNode {
	s.once.Do(func() {
		s.content = vdom.Main(vdom.Class("site-content"))
		s.layout = Frame(s.cfg.Assets, s.search.Render(), s.content)
		s.router.SetDocument(s.layout)
		s.router.BindLinks(s.layout)
	})
	return s.layout
}

// Content returns the region pages render into.
func (s *Site) Content() *vdom.VNode {
	s.Layout()
	return s.content
}

// Frame is the static page frame: the menu bar holding search and the
// content wrapper holding content. The server renders it with empty
// regions as the application shell.
func Frame(assets string, search, content *vdom.VNode) *vdom.VNode {
	if search == nil {
		search = vdom.Div(vdom.Class("search-field"))
	}
	if content == nil {
		content = vdom.Main(vdom.Class("site-content"))
	}
	return vdom.Div(
		vdom.ID("app"),
		vdom.Class("site"),
		vdom.Header(
			vdom.Class("main-menu-bar"),
			vdom.A(
				vdom.Class("main-menu-logo"),
				router.RouterLink("/"),
				vdom.Img(vdom.Src(assets+"logo.svg"), vdom.Alt("Home")),
			),
			search,
		),
		vdom.Div(vdom.Class("site-content-wrapper"), content),
	)
}

// BindLinks implements components.Host.
func (s *Site) BindLinks(container *vdom.VNode) int {
	return s.router.BindLinks(container)
}

// Update implements components.Host.
func (s *Site) Update(node *vdom.VNode) {
	if s.display != nil {
		s.display.Update(node)
	}
}

func (s *Site) scrollToTop() {
	if s.display != nil {
		s.display.ScrollToTop()
	}
}

// show replaces the content region and commits it.
func (s *Site) show(children ...any) {
	content := s.Content()
	content.SetChildren(children...)
	s.BindLinks(content)
	s.Update(content)
}

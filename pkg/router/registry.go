package router

import "sync"

// Handler renders the page for a matched route.
type Handler func(m Match)

// Route is one registration: a matcher and its handler.
type Route struct {
	Matcher Matcher
	Handler Handler
	Name    string
}

// Label names the route for logs and metrics.
func (r Route) Label() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Matcher == nil {
		return ""
	}
	return r.Matcher.String()
}

// RouteOption configures a registration.
type RouteOption func(*Route)

// Named sets the route's label.
func Named(name string) RouteOption {
	return func(r *Route) {
		r.Name = name
	}
}

// Registry is an ordered list of routes. The first route whose matcher
// accepts a path wins. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	routes []Route
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a route.
func (reg *Registry) Register(m Matcher, h Handler, opts ...RouteOption) {
	route := Route{Matcher: m, Handler: h}
	for _, opt := range opts {
		opt(&route)
	}
	reg.mu.Lock()
	reg.routes = append(reg.routes, route)
	reg.mu.Unlock()
}

// Routes returns the routes in registration order.
func (reg *Registry) Routes() []Route {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]Route, len(reg.routes))
	copy(out, reg.routes)
	return out
}

// Len returns the number of registered routes.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.routes)
}

// Resolve returns the first route accepting path. The boolean is false
// when nothing matches. Matchers run without the registry lock held.
func (reg *Registry) Resolve(path string) (Route, Match, bool) {
	for _, route := range reg.Routes() {
		if route.Matcher == nil {
			continue
		}
		if m, ok := route.Matcher.Test(path); ok {
			return route, m, true
		}
	}
	return Route{}, Match{}, false
}

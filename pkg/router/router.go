package router

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"weak"

	"github.com/vango-dev/vpbrowse/pkg/vdom"
)

// Trigger says what caused a dispatch.
type Trigger string

const (
	TriggerStart    Trigger = "start"    // initial render from Start
	TriggerNavigate Trigger = "navigate" // NavigateTo
	TriggerPopState Trigger = "popstate" // back or forward
	TriggerRender   Trigger = "render"   // explicit RenderCurrentLocation
)

// Dispatch describes one attempt to render the current location.
type Dispatch struct {
	Seq      uint64 // zero when the path was unroutable
	Trigger  Trigger
	FullPath string
	Path     string // logical path
	Route    string // label of the matched route, "" when unroutable
	Err      error
	Duration time.Duration // time spent in the handler call
}

// Observer is notified around every dispatch.
type Observer interface {
	// DispatchStarted runs before the handler. The returned context is
	// the one the handler receives.
	DispatchStarted(ctx context.Context, d *Dispatch) context.Context

	// DispatchFinished runs after the handler returned, or right after
	// DispatchStarted for an unroutable path.
	DispatchFinished(ctx context.Context, d *Dispatch)
}

// Router is a client-side router. Create one with New.
type Router struct {
	registry *Registry
	history  History
	logger   *slog.Logger
	reporter func(error)
	parent   context.Context

	mu        sync.Mutex
	base      BasePath
	document  *vdom.VNode
	observers []Observer
	bound     map[weak.Pointer[vdom.VNode]]struct{}
	seq       uint64
	cancel    context.CancelFunc
	started   bool
	stopPop   func()
}

// Option configures a Router.
type Option func(*Router)

// WithHistory sets the session history. Defaults to a MemoryHistory at "/".
func WithHistory(h History) Option {
	return func(r *Router) {
		r.history = h
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithDocument sets the tree BindLinks scans when given no container.
func WithDocument(doc *vdom.VNode) Option {
	return func(r *Router) {
		r.document = doc
	}
}

// WithObserver adds a dispatch observer.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		r.observers = append(r.observers, o)
	}
}

// WithErrorReporter sets a callback receiving reported errors such as
// unroutable paths.
func WithErrorReporter(fn func(error)) Option {
	return func(r *Router) {
		r.reporter = fn
	}
}

// WithBasePath sets the initial base path.
func WithBasePath(path string) Option {
	return func(r *Router) {
		r.base = NormalizeBasePath(path)
	}
}

// WithContext sets the parent of every dispatch context.
func WithContext(ctx context.Context) Option {
	return func(r *Router) {
		r.parent = ctx
	}
}

// New creates a Router.
func New(opts ...Option) *Router {
	r := &Router{
		registry: NewRegistry(),
		base:     RootBasePath,
		parent:   context.Background(),
		bound:    make(map[weak.Pointer[vdom.VNode]]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewMemoryHistory("/")
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// History returns the router's session history.
func (r *Router) History() History {
	return r.history
}

// SetDocument replaces the tree BindLinks scans when given no container.
func (r *Router) SetDocument(doc *vdom.VNode) {
	r.mu.Lock()
	r.document = doc
	r.mu.Unlock()
}

// Register appends a route. Routes are tried in registration order.
func (r *Router) Register(m Matcher, h Handler, opts ...RouteOption) {
	r.registry.Register(m, h, opts...)
}

// Routes returns the routes in registration order.
func (r *Router) Routes() []Route {
	return r.registry.Routes()
}

// Resolve returns the first route accepting the logical path.
func (r *Router) Resolve(path string) (Route, Match, bool) {
	return r.registry.Resolve(path)
}

// Start subscribes to back and forward notifications and renders the
// current location once.
func (r *Router) Start() error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.mu.Unlock()

	stop := r.history.OnPopState(func() {
		r.render(TriggerPopState)
	})

	r.mu.Lock()
	r.stopPop = stop
	r.mu.Unlock()

	r.logger.Info("router started", "routes", r.registry.Len(), "base", r.BasePath().String())
	r.render(TriggerStart)
	return nil
}

// Stop unsubscribes from history notifications and cancels the context
// of the running dispatch. A stopped router may be started again.
func (r *Router) Stop() {
	r.mu.Lock()
	stop := r.stopPop
	cancel := r.cancel
	r.stopPop = nil
	r.cancel = nil
	r.started = false
	r.mu.Unlock()

	if stop != nil {
		stop()
	}
	if cancel != nil {
		cancel()
	}
}

// Running reports whether Start has been called without a matching Stop.
func (r *Router) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// observersSnapshot returns the observers without holding the lock
// while they run.
func (r *Router) observersSnapshot() []Observer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Observer, len(r.observers))
	copy(out, r.observers)
	return out
}

// AddObserver registers an observer after construction.
func (r *Router) AddObserver(o Observer) {
	r.mu.Lock()
	r.observers = append(r.observers, o)
	r.mu.Unlock()
}

// report sends err to the configured error reporter.
func (r *Router) report(err error) {
	if r.reporter != nil {
		r.reporter(err)
	}
}

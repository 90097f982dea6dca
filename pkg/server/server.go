package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/assets"
	"github.com/vango-dev/vpbrowse/pkg/middleware"
	"github.com/vango-dev/vpbrowse/pkg/router"
)

// Config configures a Server.
type Config struct {
	// BasePath is the path prefix the app is served under (default "/").
	BasePath string

	// Title is the shell's document title.
	Title string

	// Assets is where static files come from. Required.
	Assets AssetSource

	// CacheControl is the asset caching policy.
	CacheControl CacheControl

	// API configures the /api proxy. An empty BaseURL disables it.
	API ProxyConfig

	// Metrics, when set, receives HTTP metrics and is exposed at /metrics.
	Metrics *prometheus.Registry

	// TracerProvider, when set, enables a span per request.
	TracerProvider trace.TracerProvider

	// Reload enables live reload, watching ReloadPaths.
	Reload         bool
	ReloadPaths    []string
	ReloadInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server serves the application shell, assets and the API proxy.
type Server struct {
	cfg      Config
	base     string
	logger   *slog.Logger
	shell    []byte
	manifest *assets.Manifest
	proxy    *httputil.ReverseProxy
	reload   *ReloadServer
	watcher  *Watcher
	handler  http.Handler
}

// New creates a server.
func New(cfg Config) (*Server, error) {
	if cfg.Assets == nil {
		return nil, errors.New("E302").WithDetail("no asset source configured")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:    cfg,
		base:   router.NormalizeBasePath(cfg.BasePath).String(),
		logger: cfg.Logger,
	}

	if cfg.API.BaseURL != "" {
		proxy, err := newAPIProxy(cfg.API, s.base+"api/", cfg.Logger)
		if err != nil {
			return nil, err
		}
		s.proxy = proxy
	}
	if cfg.Reload {
		s.reload = NewReloadServer()
		s.watcher = NewWatcher(cfg.ReloadPaths, cfg.ReloadInterval)
	}

	manifest, err := s.loadManifest(context.Background())
	if err != nil {
		return nil, err
	}
	s.manifest = manifest

	shell, err := s.renderShell()
	if err != nil {
		return nil, err
	}
	s.shell = shell
	s.handler = s.routes()
	return s, nil
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// BasePath returns the normalized base path.
func (s *Server) BasePath() string {
	return s.base
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	if s.cfg.TracerProvider != nil {
		r.Use(middleware.HTTPTracing(middleware.WithTracerProvider(s.cfg.TracerProvider)))
	}
	if s.cfg.Metrics != nil {
		r.Use(middleware.HTTPMetrics(middleware.WithRegistry(s.cfg.Metrics)))
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Metrics, promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	if s.reload != nil {
		r.Get(ReloadPath, s.reload.HandleWebSocket)
	}
	if s.proxy != nil {
		r.Handle(s.base+"api/*", s.proxy)
	}

	r.Get(s.base+"*", s.serveApp)
	r.Head(s.base+"*", s.serveApp)
	if s.base != "/" {
		r.Get(strings.TrimSuffix(s.base, "/"), func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, s.base, http.StatusMovedPermanently)
		})
	}
	return r
}

// serveApp serves the asset at the request path, or the shell for paths
// the client routes.
func (s *Server) serveApp(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, s.base)
	if rel == "" || rel == "index.html" {
		s.serveShell(w, r)
		return
	}

	name, ok := cleanAssetPath(rel)
	if !ok {
		http.NotFound(w, r)
		return
	}

	asset, err := s.cfg.Assets.Open(r.Context(), name)
	switch {
	case err == nil:
		defer asset.Body.Close()
		applyCacheHeaders(w, s.cfg.CacheControl, name)
		writeAsset(w, r, asset)
	case !stderrors.Is(err, errors.New("E301")):
		s.logger.Error("asset source failed", "asset", name, "error", err)
		http.Error(w, "asset source unavailable", http.StatusBadGateway)
	case path.Ext(name) != "":
		// A missing file, not a client route.
		http.NotFound(w, r)
	default:
		s.serveShell(w, r)
	}
}

func (s *Server) serveShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(s.shell)
	}
}

// logRequests logs each request once it finished.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.New("E300").WithDetailf("listen on %s", addr).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if s.watcher != nil {
		go s.watcher.Run(ctx, func(c Change) {
			s.logger.Info("file changed, reloading clients", "path", c.Path, "css", c.CSS)
			s.reload.Notify(c)
		})
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "addr", ln.Addr().String(), "base_path", s.base)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("E300").Wrap(err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if s.reload != nil {
		s.reload.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("E300").WithDetail("graceful shutdown").Wrap(err)
	}
	return nil
}

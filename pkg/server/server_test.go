package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T, cfg Config) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "styles.css", "body{}")
	writeFile(t, dir, "app.wasm", "\x00asm")
	writeFile(t, dir, "assets/logo.svg", "<svg/>")
	if cfg.Assets == nil {
		cfg.Assets = NewDirSource(dir)
	}
	cfg.Logger = quietLogger()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s, dir
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewRequiresAssets(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without asset source")
	}
}

func TestShell(t *testing.T) {
	s, _ := newTestServer(t, Config{BasePath: "/app", Title: "Video Browser"})
	if got := s.BasePath(); got != "/app/" {
		t.Fatalf("BasePath() = %q, want /app/", got)
	}

	for _, target := range []string{"/app/", "/app/tag/cats", "/app/details/abc?page=2", "/app/index.html"} {
		rec := get(t, s.Handler(), target)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status %d", target, rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{
			"<!DOCTYPE html>",
			`href="/app/"`,
			"<title>Video Browser</title>",
			"wasm_exec.js",
			"app.wasm",
			"main-menu-bar",
			"site-content-wrapper",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("GET %s: body missing %q", target, want)
			}
		}
		if strings.Contains(body, ReloadPath) {
			t.Errorf("GET %s: reload script present without reload enabled", target)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s: Content-Type = %q", target, ct)
		}
	}
}

func TestShellUsesManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manifest.json", `{"app.wasm":"app.3f9a1c2d.wasm","styles.css":"styles.e5f6a7b8.css"}`)
	writeFile(t, dir, "styles.e5f6a7b8.css", "body{}")
	s, _ := newTestServer(t, Config{Assets: NewDirSource(dir), CacheControl: CacheControlProduction})

	body := get(t, s.Handler(), "/").Body.String()
	for _, want := range []string{`"app.3f9a1c2d.wasm"`, `href="styles.e5f6a7b8.css"`, `src="wasm_exec.js"`} {
		if !strings.Contains(body, want) {
			t.Errorf("shell missing %s", want)
		}
	}

	rec := get(t, s.Handler(), "/styles.e5f6a7b8.css")
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=31536000, immutable" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestBadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manifest.json", "{")
	if _, err := New(Config{Assets: NewDirSource(dir), Logger: quietLogger()}); err == nil {
		t.Fatal("expected error for a broken manifest")
	}
}

func TestShellHead(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/details/x", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("HEAD wrote a body of %d bytes", rec.Body.Len())
	}
}

func TestBaseRedirect(t *testing.T) {
	s, _ := newTestServer(t, Config{BasePath: "/app/"})
	rec := get(t, s.Handler(), "/app")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/app/" {
		t.Fatalf("Location = %q", loc)
	}

	if rec := get(t, s.Handler(), "/other"); rec.Code != http.StatusNotFound {
		t.Fatalf("outside base: status = %d, want 404", rec.Code)
	}
}

func TestAssets(t *testing.T) {
	s, _ := newTestServer(t, Config{BasePath: "/app", CacheControl: CacheControlProduction})

	rec := get(t, s.Handler(), "/app/styles.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=3600, must-revalidate" {
		t.Errorf("Cache-Control = %q", cc)
	}

	if rec := get(t, s.Handler(), "/app/assets/logo.svg"); rec.Code != http.StatusOK {
		t.Errorf("nested asset: status = %d", rec.Code)
	}
	if rec := get(t, s.Handler(), "/app/missing.js"); rec.Code != http.StatusNotFound {
		t.Errorf("missing asset: status = %d, want 404", rec.Code)
	}
	// A directory is not an asset; extensionless paths belong to the client.
	if rec := get(t, s.Handler(), "/app/assets"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Errorf("directory: status = %d, want shell", rec.Code)
	}
}

func TestCleanAssetPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"styles.css", "styles.css", true},
		{"assets/logo.svg", "assets/logo.svg", true},
		{"a//b.js", "a/b.js", true},
		{"", "", false},
		{"../secret", "", false},
		{"assets/../../secret", "", false},
		{"./styles.css", "", false},
		{"/etc/passwd", "", false},
		{"a\\b", "", false},
		{"a\x00b", "", false},
	}
	for _, tt := range tests {
		got, ok := cleanAssetPath(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("cleanAssetPath(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAPIProxy(t *testing.T) {
	var (
		mu  sync.Mutex
		got *http.Request
	)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = r.Clone(context.Background())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"OK"}`)
	}))
	defer upstream.Close()

	s, _ := newTestServer(t, Config{
		BasePath: "/app/",
		API: ProxyConfig{
			BaseURL:   upstream.URL + "/api/video-promotion/v1",
			PSID:      "ps1",
			AccessKey: "secret",
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/app/api/list?limit=20&psid=forged&tags%5B%5D=cats", nil)
	req.Header.Set("Cookie", "session=1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"status":"OK"}` {
		t.Fatalf("body = %q", rec.Body.String())
	}

	mu.Lock()
	defer mu.Unlock()
	if got == nil {
		t.Fatal("upstream not called")
	}
	if got.URL.Path != "/api/video-promotion/v1/list" {
		t.Errorf("upstream path = %q", got.URL.Path)
	}
	q := got.URL.Query()
	want := url.Values{
		"limit":     {"20"},
		"psid":      {"ps1"},
		"accessKey": {"secret"},
		"tags[]":    {"cats"},
	}
	for k, v := range want {
		if q.Get(k) != v[0] || len(q[k]) != 1 {
			t.Errorf("upstream query %s = %v, want %v", k, q[k], v)
		}
	}
	if got.Header.Get("Cookie") != "" {
		t.Errorf("cookie forwarded: %q", got.Header.Get("Cookie"))
	}
	if got.Header.Get("X-Requested-With") != "XMLHttpRequest" {
		t.Errorf("X-Requested-With = %q", got.Header.Get("X-Requested-With"))
	}
}

func TestAPIProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	base := upstream.URL
	upstream.Close()

	s, _ := newTestServer(t, Config{API: ProxyConfig{BaseURL: base}})
	rec := get(t, s.Handler(), "/api/list")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestAPIProxyBadURL(t *testing.T) {
	_, err := New(Config{Assets: NewDirSource(t.TempDir()), API: ProxyConfig{BaseURL: "not a url"}, Logger: quietLogger()})
	if err == nil {
		t.Fatal("expected error for bad api base URL")
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, _ := newTestServer(t, Config{Metrics: reg})

	if rec := get(t, s.Handler(), "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
	get(t, s.Handler(), "/styles.css")

	rec := get(t, s.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vpbrowse_http_requests_total") {
		t.Fatalf("metrics output lacks request counter:\n%s", rec.Body.String())
	}
}

func TestReloadWebSocket(t *testing.T) {
	s, _ := newTestServer(t, Config{Reload: true, ReloadPaths: []string{t.TempDir()}})
	if rec := get(t, s.Handler(), "/"); !strings.Contains(rec.Body.String(), ReloadPath) {
		t.Fatal("shell lacks reload client")
	}

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + ReloadPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.reload.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.reload.Notify(Change{Path: "public/styles.css", CSS: true})

	var msg ReloadMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != ReloadTypeCSS || msg.File != "public/styles.css" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestServeShutdown(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("ListenAndServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package server

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/vango-dev/vpbrowse/internal/errors"
)

// ProxyConfig configures the API proxy.
type ProxyConfig struct {
	// BaseURL is the Video Promotion API endpoint.
	BaseURL string

	// PSID and AccessKey are added to every proxied request. Values sent
	// by the browser are replaced.
	PSID      string
	AccessKey string
}

// newAPIProxy returns a reverse proxy forwarding {prefix}x to {BaseURL}/x.
func newAPIProxy(cfg ProxyConfig, prefix string, logger *slog.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(cfg.BaseURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, errors.New("E122").WithDetailf("api base URL %q", cfg.BaseURL)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			rel := strings.TrimPrefix(pr.In.URL.Path, prefix)
			pr.SetURL(target)
			pr.Out.URL.Path = strings.TrimSuffix(target.Path, "/") + "/" + strings.TrimLeft(rel, "/")
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host

			q := pr.Out.URL.Query()
			q.Del("psid")
			q.Del("accessKey")
			if cfg.PSID != "" {
				q.Set("psid", cfg.PSID)
			}
			if cfg.AccessKey != "" {
				q.Set("accessKey", cfg.AccessKey)
			}
			pr.Out.URL.RawQuery = q.Encode()

			pr.Out.Header.Set("X-Requested-With", "XMLHttpRequest")
			pr.Out.Header.Del("Cookie")
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("api proxy failed", "path", r.URL.Path, "error", err)
			http.Error(w, errors.New("E200").Error(), http.StatusBadGateway)
		},
	}, nil
}

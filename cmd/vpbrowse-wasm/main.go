//go:build js && wasm

// Command vpbrowse-wasm is the browser client. The server's shell loads it
// and it takes over the page, routing every in-app link without reloads.
package main

import (
	"log/slog"
	"os"

	"github.com/vango-dev/vpbrowse/pkg/dom"
	"github.com/vango-dev/vpbrowse/pkg/middleware"
	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/site"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	base := router.NormalizeBasePath(dom.BaseHref())
	r := router.New(
		router.WithHistory(dom.NewBrowserHistory()),
		router.WithBasePath(base.String()),
		router.WithLogger(logger),
		router.WithObserver(middleware.NavigationTracing()),
		router.WithErrorReporter(func(err error) {
			logger.Error("navigation failed", "error", err)
		}),
	)

	// Credentials are added by the server's proxy.
	api := vpapi.New(vpapi.Config{
		BaseURL: dom.Origin() + base.String() + "api",
		Logger:  logger,
	})

	display := dom.NewDisplay(dom.Document().Get("body"))
	s := site.New(r, api, display, site.Config{Logger: logger})
	s.Register()
	display.Mount(s.Layout())

	if err := r.Start(); err != nil {
		logger.Error("starting router failed", "error", err)
		return
	}
	select {}
}

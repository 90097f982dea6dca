// Package middleware provides observability for the video browser.
//
// Navigation is observed through router.Observer hooks rather than
// handler chains:
//
//	r := router.New(
//	    router.WithObserver(middleware.NavigationMetrics(
//	        middleware.WithRegistry(reg),
//	    )),
//	    router.WithObserver(middleware.NavigationTracing()),
//	)
//
// NavigationMetrics counts dispatches by route, trigger and outcome and
// times handlers. Unroutable paths are counted separately by trigger so
// that arbitrary paths never become label values. NavigationTracing opens
// a span per dispatch; handlers receive the span's context through
// Match.Context, so API calls made while rendering nest under it.
//
// The same metrics and tracing are available for HTTP servers as
// net/http middleware (HTTPMetrics, HTTPTracing). Route labels come from
// chi's matched route pattern when the request was routed by chi.
package middleware

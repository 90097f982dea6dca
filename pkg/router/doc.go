// Package router is the client-side router of the video browser.
//
// A Router maps logical URL paths to handlers, keeps the browser history in
// sync with navigation and intercepts clicks on in-app links.
//
// # Paths
//
// The application may be served under a prefix, the base path. Paths as
// they appear in the address bar are full paths; the same paths with the
// base removed are logical paths. Handlers and matchers only ever see
// logical paths:
//
//	r := router.New(router.WithHistory(h))
//	r.SetBasePath("/app")
//	r.FullPath("/tag/kittens")       // "/app/tag/kittens"
//	r.LogicalPath("/app/tag/kittens") // "/tag/kittens"
//
// # Routes
//
// Routes are tried in registration order and the first accepting matcher
// wins:
//
//	r.Register(router.Exact("/"), index)
//	r.Register(router.MustPattern(`^/tag/(.*)$`), tag)
//	r.Register(router.Predicate(func(string) bool { return true }), notFound)
//
// A path no route accepts is reported through the logger, the error
// reporter and observers. It never panics and never reaches the caller.
//
// # Links
//
// Elements carrying the data-router-link attribute are in-app links. After
// rendering new markup, call BindLinks with the container that was filled.
// The href attribute wins over the data-router-link value as the target.
//
// # Concurrency
//
// Router state is guarded by a mutex and handlers run without it held, so
// a handler may call NavigateTo or BindLinks. Every dispatch gets its own
// context; starting a newer dispatch cancels the previous one so handlers
// doing network work can drop stale results.
package router

// Package errors provides coded, actionable errors for vpbrowse.
//
// Every error carries a code (e.g. "E101") that maps to a registered
// template with a category, a short message and a longer explanation.
// Errors created from the same code compare equal under errors.Is, so
// packages can export sentinels built with New and still attach details
// to the instances they return.
//
// # Categories
//
//   - router: route registration and navigation
//   - config: vpbrowse.json loading and validation
//   - api: Video Promotion API requests
//   - server: HTTP serving and asset sources
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`no route handler for path "/nope"`).
//	    WithSuggestion("Register a catch-all predicate as the last route")
//
//	errors.PrintError(err)
package errors

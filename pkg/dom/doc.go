//go:build js && wasm

// Package dom connects the router and the page tree to a browser.
//
// BrowserHistory implements router.History on top of window.history.
// Display mounts a vdom tree into the document and redraws subtrees when
// the pages report a change:
//
//	display := dom.NewDisplay(dom.Document().Call("getElementById", "app"))
//	display.Mount(layout)
//	...
//	display.Update(list) // after list changed
//
// Native events are forwarded to the handlers of the node they were
// registered on; the browser does the bubbling.
package dom

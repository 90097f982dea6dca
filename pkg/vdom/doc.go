// Package vdom is the virtual DOM used by vpbrowse views.
//
// Views build VNode trees with element constructors:
//
//	node := vdom.Li(
//	    vdom.Class("video-list-item"),
//	    vdom.Data("router-link", "/details/"+video.ID),
//	    vdom.P(vdom.Class("title"), video.Title),
//	)
//
// Element constructors accept attributes (Attr), event handlers
// (EventHandler), child nodes, strings (text nodes) and nil (ignored, which
// makes conditional attributes easy).
//
// Trees are walked with Walk and the Find helpers, and synthetic events are
// delivered with Dispatch, which bubbles from the target to the root the
// way a browser does. In the browser build, package dom mounts trees into
// the real document and forwards native events to the same handlers.
package vdom

// Package site wires the video browser's pages to the router.
//
// A Site owns the page layout (menu bar with the tag search and the
// content region) and registers one handler per page:
//
//	/               featured and popular videos
//	/tag/{tag}      latest videos for a tag
//	/details/{id}   player, metadata, related and recommended videos
//
// Anything else renders the not-found page. Handlers replace the content
// region synchronously and load videos in the background; a load that
// finishes after the user moved on is discarded.
package site

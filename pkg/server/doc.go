// Package server serves the video browser.
//
// A Server answers every GET under the configured base path: files that
// exist in the asset source are served as they are, anything else gets the
// application shell, an HTML page whose <base href> is the base path and
// which boots the WebAssembly client. The client then routes the path
// itself.
//
// Requests to {base}api/ are proxied to the Video Promotion API with the
// credentials added, so they never reach the browser.
//
// Optional parts:
//   - Prometheus metrics at /metrics
//   - OpenTelemetry spans per request
//   - live reload over a websocket, driven by a polling file watcher
//
// Assets come from a directory (DirSource) or an S3 bucket (S3Source).
package server

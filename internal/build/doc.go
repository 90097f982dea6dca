// Package build produces the files the server hands to browsers.
//
// A build compiles the WebAssembly client, copies the Go runtime's
// wasm_exec.js and the static assets next to it, and optionally renames
// files to carry a content hash:
//
//	dist/
//	  app.3f9a1c2d.wasm
//	  wasm_exec.js
//	  styles.e5f6a7b8.css
//	  assets/logo.svg
//	  manifest.json
//
// The manifest maps the plain names to the hashed ones. The server reads
// it when it renders the application shell.
package build

package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "styles.css", "a{}")
	writeFile(t, dir, "app.wasm", "x")
	writeFile(t, dir, "node_modules/pkg/index.js", "x")

	w := NewWatcher([]string{dir}, time.Second)
	if changes := w.Scan(); len(changes) != 0 {
		t.Fatalf("first scan reported %v", changes)
	}
	if changes := w.Scan(); len(changes) != 0 {
		t.Fatalf("idle scan reported %v", changes)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "styles.css"), later, later); err != nil {
		t.Fatal(err)
	}
	changes := w.Scan()
	if len(changes) != 1 || !changes[0].CSS || filepath.Base(changes[0].Path) != "styles.css" {
		t.Fatalf("changes = %v", changes)
	}

	ignored := filepath.Join(dir, "node_modules", "pkg", "index.js")
	if err := os.Chtimes(ignored, later, later); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "edit.swp", "x")
	if changes := w.Scan(); len(changes) != 0 {
		t.Fatalf("ignored files reported %v", changes)
	}

	if err := os.Remove(filepath.Join(dir, "app.wasm")); err != nil {
		t.Fatal(err)
	}
	changes = w.Scan()
	if len(changes) != 1 || changes[0].CSS || filepath.Base(changes[0].Path) != "app.wasm" {
		t.Fatalf("removal changes = %v", changes)
	}
}

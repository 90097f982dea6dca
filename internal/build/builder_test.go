package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vpbrowse/pkg/assets"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCopyDir(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	write(t, src, "styles.css", "body{}")
	write(t, src, "assets/logo.svg", "<svg/>")

	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir() error: %v", err)
	}
	for _, name := range []string{"styles.css", "assets/logo.svg"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s not copied: %v", name, err)
		}
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "app.wasm", "wasm")
	write(t, dir, "styles.css", "body{}")
	write(t, dir, "wasm_exec.js", "glue")
	write(t, dir, "vendor.0123abcd.js", "already")
	write(t, dir, "assets/logo.svg", "<svg/>")

	manifest, err := Fingerprint(dir)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}

	if len(manifest) != 2 {
		t.Fatalf("manifest = %v, want entries for app.wasm and styles.css", manifest)
	}
	for source, hashed := range manifest {
		if !assets.IsFingerprinted(hashed) {
			t.Errorf("%s -> %s is not fingerprinted", source, hashed)
		}
		if _, err := os.Stat(filepath.Join(dir, hashed)); err != nil {
			t.Errorf("%s missing: %v", hashed, err)
		}
		if _, err := os.Stat(filepath.Join(dir, source)); !os.IsNotExist(err) {
			t.Errorf("%s still present", source)
		}
	}
	if !strings.HasPrefix(manifest["styles.css"], "styles.") {
		t.Errorf("styles.css -> %q", manifest["styles.css"])
	}
	for _, kept := range []string{"wasm_exec.js", "vendor.0123abcd.js", "assets/logo.svg"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(kept))); err != nil {
			t.Errorf("%s renamed or removed: %v", kept, err)
		}
	}
}

func TestFingerprintIsContentHash(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	write(t, a, "app.wasm", "same")
	write(t, b, "app.wasm", "same")

	ma, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	mb, err := Fingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ma, mb); diff != "" {
		t.Fatalf("same content, different names (-a +b):\n%s", diff)
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	want := map[string]string{"app.wasm": "app.3f9a1c2d.wasm"}
	if err := WriteManifest(dir, want); err != nil {
		t.Fatalf("WriteManifest() error: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, assets.ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := assets.Parse(f)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := m.Resolve("app.wasm"); got != want["app.wasm"] {
		t.Fatalf("Resolve() = %q", got)
	}
}

func TestBuildRequiresOutput(t *testing.T) {
	if _, err := New(Options{}).Build(context.Background()); err == nil {
		t.Fatal("expected error without output directory")
	}
}

func TestBuildRefusesToCleanStatic(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "styles.css", "body{}")

	if _, err := New(Options{Output: dir, Static: dir}).Build(context.Background()); err == nil {
		t.Fatal("expected error when output is the static directory")
	}
	if _, err := os.Stat(filepath.Join(dir, "styles.css")); err != nil {
		t.Fatalf("static file removed: %v", err)
	}
}

func TestBuildReportsCompilerFailure(t *testing.T) {
	b := New(Options{Output: filepath.Join(t.TempDir(), "dist")})
	b.goTool = filepath.Join(t.TempDir(), "no-such-go")
	_, err := b.Build(context.Background())
	if err == nil {
		t.Fatal("expected error from a missing go tool")
	}
	if !strings.Contains(err.Error(), "E401") {
		t.Fatalf("error = %v, want E401", err)
	}
}

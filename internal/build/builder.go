package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/assets"
)

// DefaultPackage is the client's main package.
const DefaultPackage = "./cmd/vpbrowse-wasm"

// Result describes a finished build.
type Result struct {
	Duration time.Duration
	Output   string
	Manifest map[string]string
	WasmSize int64
}

// Options configures a Builder.
type Options struct {
	// Dir is the module root the client is compiled in.
	Dir string

	// Output is the directory that receives the files. It is emptied
	// first.
	Output string

	// Package is the client's main package (default DefaultPackage).
	Package string

	// Static is a directory whose files are copied into Output.
	Static string

	// Fingerprint renames the wasm binary, stylesheets and scripts to
	// carry a content hash.
	Fingerprint bool

	// LDFlags are extra linker flags. Tags are build tags.
	LDFlags string
	Tags    []string

	// OnProgress is called before each step.
	OnProgress func(step string)
}

// Builder builds the client.
type Builder struct {
	options Options
	goTool  string
}

// New creates a builder.
func New(options Options) *Builder {
	if options.Package == "" {
		options.Package = DefaultPackage
	}
	if options.Dir == "" {
		options.Dir = "."
	}
	return &Builder{options: options, goTool: "go"}
}

// Build runs every step.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	out := b.options.Output
	if out == "" {
		return nil, errors.New("E401").WithDetail("no output directory")
	}

	if b.options.Static != "" && samePath(b.options.Static, out) {
		return nil, errors.New("E401").WithDetailf("output %s is the static directory", out)
	}

	b.progress("Cleaning " + out)
	if err := os.RemoveAll(out); err != nil {
		return nil, errors.New("E401").Wrap(err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, errors.New("E401").Wrap(err)
	}

	b.progress("Compiling client")
	wasmPath := filepath.Join(out, "app.wasm")
	if err := b.compile(ctx, wasmPath); err != nil {
		return nil, err
	}

	b.progress("Copying wasm_exec.js")
	if err := b.copyWasmExec(ctx, filepath.Join(out, "wasm_exec.js")); err != nil {
		return nil, err
	}

	if b.options.Static != "" {
		b.progress("Copying static files")
		if err := CopyDir(b.options.Static, out); err != nil {
			return nil, err
		}
	}

	manifest := make(map[string]string)
	if b.options.Fingerprint {
		b.progress("Fingerprinting")
		var err error
		if manifest, err = Fingerprint(out); err != nil {
			return nil, err
		}
	}

	b.progress("Writing manifest")
	if err := WriteManifest(out, manifest); err != nil {
		return nil, err
	}

	result := &Result{
		Duration: time.Since(start),
		Output:   out,
		Manifest: manifest,
	}
	if info, err := os.Stat(filepath.Join(out, resolve(manifest, "app.wasm"))); err == nil {
		result.WasmSize = info.Size()
	}
	return result, nil
}

// compile builds the client for js/wasm.
func (b *Builder) compile(ctx context.Context, output string) error {
	abs, err := filepath.Abs(output)
	if err != nil {
		return errors.New("E401").Wrap(err)
	}

	ldflags := "-s -w"
	if b.options.LDFlags != "" {
		ldflags = b.options.LDFlags + " " + ldflags
	}
	args := []string{"build", "-trimpath", "-ldflags", ldflags, "-o", abs}
	if len(b.options.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.options.Tags, ","))
	}
	args = append(args, b.options.Package)

	cmd := exec.CommandContext(ctx, b.goTool, args...)
	cmd.Dir = b.options.Dir
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm", "CGO_ENABLED=0")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.New("E401").
			WithDetailf("%s %s\n%s", b.goTool, strings.Join(args, " "), stderr.String()).
			Wrap(err)
	}
	return nil
}

// copyWasmExec copies the JS glue matching the Go toolchain in use.
func (b *Builder) copyWasmExec(ctx context.Context, dst string) error {
	out, err := exec.CommandContext(ctx, b.goTool, "env", "GOROOT").Output()
	if err != nil {
		return errors.New("E401").WithDetail("go env GOROOT").Wrap(err)
	}
	goroot := strings.TrimSpace(string(out))

	// Go 1.24 moved the file from misc/wasm to lib/wasm.
	for _, dir := range []string{"lib/wasm", "misc/wasm"} {
		src := filepath.Join(goroot, filepath.FromSlash(dir), "wasm_exec.js")
		if _, err := os.Stat(src); err == nil {
			return copyFile(src, dst)
		}
	}
	return errors.New("E401").WithDetailf("wasm_exec.js not found under %s", goroot)
}

func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// CopyDir copies the files below src into dst.
func CopyDir(src, dst string) error {
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return copyFile(p, target)
	})
	if err != nil {
		return errors.New("E401").WithDetailf("copy %s", src).Wrap(err)
	}
	return nil
}

// fingerprinted lists the extensions Fingerprint renames. Images keep
// their names since the pages refer to them directly.
var fingerprinted = map[string]bool{".wasm": true, ".css": true, ".js": true}

// Fingerprint renames the top-level files of dir with a fingerprinted
// extension to name.<hash>.ext and returns the mapping. wasm_exec.js is
// left alone.
func Fingerprint(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New("E401").Wrap(err)
	}

	manifest := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		ext := path.Ext(name)
		if e.IsDir() || !fingerprinted[ext] || name == "wasm_exec.js" || assets.IsFingerprinted(name) {
			continue
		}

		hash, err := hashFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.New("E401").Wrap(err)
		}
		hashed := fmt.Sprintf("%s.%s%s", strings.TrimSuffix(name, ext), hash[:8], ext)
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, hashed)); err != nil {
			return nil, errors.New("E401").Wrap(err)
		}
		manifest[name] = hashed
	}
	return manifest, nil
}

// WriteManifest writes manifest as dir/manifest.json.
func WriteManifest(dir string, manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.New("E401").Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, assets.ManifestFile), data, 0o644); err != nil {
		return errors.New("E401").Wrap(err)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func resolve(manifest map[string]string, name string) string {
	if hashed, ok := manifest[name]; ok {
		return hashed
	}
	return name
}

// hashFile returns the hex SHA-256 of a file.
func hashFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package server

import (
	"context"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/assets"
)

// Asset is an opened asset. The caller closes Body.
type Asset struct {
	Name        string
	Body        io.ReadCloser
	Size        int64 // -1 when unknown
	ModTime     time.Time
	ContentType string
	ETag        string
}

// AssetSource opens assets by cleaned, slash-separated relative name.
// Missing assets yield an E301 error, an unreadable source E302.
type AssetSource interface {
	Open(ctx context.Context, name string) (*Asset, error)
}

// DirSource serves assets from a local directory.
type DirSource struct {
	fsys fs.FS
	dir  string
}

// NewDirSource creates a source reading from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir), dir: dir}
}

// Open implements AssetSource.
func (d *DirSource) Open(_ context.Context, name string) (*Asset, error) {
	f, err := d.fsys.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E301").WithDetailf("%s in %s", name, d.dir)
		}
		return nil, errors.New("E302").WithDetail(d.dir).Wrap(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.New("E302").WithDetail(d.dir).Wrap(err)
	}
	if info.IsDir() {
		f.Close()
		return nil, errors.New("E301").WithDetailf("%s is a directory", name)
	}

	return &Asset{
		Name:    name,
		Body:    f,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// cleanAssetPath returns a sanitized relative path for an asset request.
// It rejects traversal and absolute-path tricks so that serving cannot
// escape the asset source.
func cleanAssetPath(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}

	// NUL can appear via %00.
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// After prefix stripping, a leading "/" is an absolute-path attempt
	// (e.g. "/app//etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Dot-segments are rejected before cleaning, which would otherwise
	// change the meaning of the request path.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// CacheControl selects the Cache-Control policy for assets.
type CacheControl string

const (
	CacheControlNone       CacheControl = "none"
	CacheControlProduction CacheControl = "production"
)

// applyCacheHeaders applies cache control headers based on the policy.
func applyCacheHeaders(w http.ResponseWriter, policy CacheControl, name string) {
	switch policy {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	case CacheControlProduction:
		if assets.IsFingerprinted(name) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// writeAsset streams a to w. Seekable bodies go through http.ServeContent
// for range and conditional request support.
func writeAsset(w http.ResponseWriter, r *http.Request, a *Asset) {
	contentType := a.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(a.Name))
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if a.ETag != "" {
		w.Header().Set("ETag", a.ETag)
	}

	if rs, ok := a.Body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, a.Name, a.ModTime, rs)
		return
	}

	if !a.ModTime.IsZero() {
		w.Header().Set("Last-Modified", a.ModTime.UTC().Format(http.TimeFormat))
	}
	if a.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		io.Copy(w, a.Body)
	}
}

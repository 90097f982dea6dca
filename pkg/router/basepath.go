package router

import "strings"

// BasePath is a normalized routing prefix. It always ends in exactly one
// slash; "/" means no prefix.
type BasePath string

// RootBasePath is the base path of an application served at the site root.
const RootBasePath BasePath = "/"

// NormalizeBasePath coerces any string into a BasePath. Surrounding
// whitespace is trimmed, blank input yields RootBasePath and trailing
// slashes collapse to one.
func NormalizeBasePath(path string) BasePath {
	path = strings.TrimSpace(path)
	path = strings.TrimRight(path, "/")
	return BasePath(path + "/")
}

// String returns the base path as a string.
func (b BasePath) String() string {
	if b == "" {
		return string(RootBasePath)
	}
	return string(b)
}

// FullPath prefixes logical with the base path. Leading slashes of logical
// are dropped so the joint never has a doubled slash. Query strings are
// carried through unchanged.
func (b BasePath) FullPath(logical string) string {
	return b.String() + strings.TrimLeft(logical, "/")
}

// LogicalPath strips the base path from full and returns a path with
// exactly one leading slash. The base also matches without its trailing
// slash, so "/app" is the root of base "/app/". Query and fragment are
// dropped.
func (b BasePath) LogicalPath(full string) string {
	path := pathOnly(full)
	base := b.String()
	switch {
	case strings.HasPrefix(path, base):
		path = path[len(base):]
	case path == strings.TrimSuffix(base, "/"):
		path = ""
	}
	return "/" + strings.TrimLeft(path, "/")
}

// Has reports whether path already carries the base prefix.
func (b BasePath) Has(path string) bool {
	path = pathOnly(path)
	if path == "" {
		return false
	}
	base := b.String()
	return strings.HasPrefix(path, base) || path == strings.TrimSuffix(base, "/")
}

// pathOnly cuts the query string and fragment off a URL path.
func pathOnly(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

// SetBasePath sets the prefix the application is served under.
// Any string is accepted; see NormalizeBasePath.
func (r *Router) SetBasePath(path string) {
	base := NormalizeBasePath(path)
	r.mu.Lock()
	r.base = base
	r.mu.Unlock()
	r.logger.Debug("router base path set", "base", base.String())
}

// BasePath returns the current base path.
func (r *Router) BasePath() BasePath {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base
}

// FullPath converts a logical path into a full path under the base.
func (r *Router) FullPath(logical string) string {
	return r.BasePath().FullPath(logical)
}

// LogicalPath converts a full path into a logical path.
func (r *Router) LogicalPath(full string) string {
	return r.BasePath().LogicalPath(full)
}

// HasBasePath reports whether path already carries the base prefix.
func (r *Router) HasBasePath(path string) bool {
	return r.BasePath().Has(path)
}

package router

import (
	"net/url"
	"strings"
)

// QueryParam returns the value of the first name=value pair in the current
// location's query string. The name match is case-sensitive, "+" decodes
// to a space and percent escapes are decoded. A missing parameter yields "".
func (r *Router) QueryParam(name string) string {
	return LookupQueryParam(r.history.Location(), name)
}

// LookupQueryParam is QueryParam for an explicit URL or raw query string.
// A value with a malformed escape is returned with only "+" decoded.
func LookupQueryParam(rawURL, name string) string {
	query := rawURL
	if i := strings.IndexByte(query, '?'); i >= 0 {
		query = query[i+1:]
	} else if strings.HasPrefix(query, "/") {
		return ""
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	prefix := name + "="
	for query != "" {
		var pair string
		pair, query, _ = strings.Cut(query, "&")
		if !strings.HasPrefix(pair, prefix) {
			continue
		}
		value := strings.ReplaceAll(pair[len(prefix):], "+", " ")
		if decoded, err := url.PathUnescape(value); err == nil {
			return decoded
		}
		return value
	}
	return ""
}

package router

import "testing"

func TestLookupQueryParam(t *testing.T) {
	tests := []struct {
		url, name, want string
	}{
		{"/?page=2", "page", "2"},
		{"/tag/x?sort=new&page=3", "page", "3"},
		{"/?page=1&page=2", "page", "1"},
		{"/?Page=5", "page", ""},
		{"/?q=funny+cats", "q", "funny cats"},
		{"/?q=caf%C3%A9", "q", "café"},
		{"/?q=a%2Bb", "q", "a+b"},
		{"/?q=100%+off", "q", "100% off"},
		{"/?q=", "q", ""},
		{"/?xpage=9&page=4", "page", "4"},
		{"/?page=7#frag", "page", "7"},
		{"/no-query", "page", ""},
		{"page=8", "page", "8"},
	}
	for _, tt := range tests {
		if got := LookupQueryParam(tt.url, tt.name); got != tt.want {
			t.Errorf("LookupQueryParam(%q, %q) = %q, want %q", tt.url, tt.name, got, tt.want)
		}
	}
}

func TestRouterQueryParam(t *testing.T) {
	r := New(WithHistory(NewMemoryHistory("/app/?page=6")), WithLogger(quietLogger()))
	if got := r.QueryParam("page"); got != "6" {
		t.Errorf("QueryParam(page) = %q, want 6", got)
	}
	if got := r.QueryParam("missing"); got != "" {
		t.Errorf("QueryParam(missing) = %q", got)
	}
}

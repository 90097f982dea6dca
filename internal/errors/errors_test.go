package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "router error",
			code:    "E101",
			wantMsg: "Unroutable path",
			wantCat: CategoryRouter,
		},
		{
			name:    "config error",
			code:    "E122",
			wantMsg: "Invalid configuration value",
			wantCat: CategoryConfig,
		},
		{
			name:    "api error",
			code:    "E201",
			wantMsg: "API returned an error status",
			wantCat: CategoryAPI,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("E101")
	occurrence := New("E101").WithDetail(`no route for "/nope"`)

	if !stderrors.Is(occurrence, sentinel) {
		t.Error("errors with the same code should match")
	}
	if stderrors.Is(occurrence, New("E102")) {
		t.Error("errors with different codes should not match")
	}

	wrapped := fmt.Errorf("render: %w", occurrence)
	if !stderrors.Is(wrapped, sentinel) {
		t.Error("match should survive fmt.Errorf wrapping")
	}
}

func TestIsUncoded(t *testing.T) {
	a := Newf(CategoryCLI, "bad flag")
	b := Newf(CategoryCLI, "bad flag")
	if stderrors.Is(a, b) {
		t.Error("distinct uncoded errors should not match")
	}
	if !stderrors.Is(a, a) {
		t.Error("uncoded error should match itself")
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := New("E200").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause text", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "E200: ") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E200") != nil {
		t.Error("FromError(nil) should be nil")
	}

	coded := New("E202")
	if FromError(coded, "E200") != coded {
		t.Error("FromError should return existing *Error unchanged")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E200")
	if got.Code != "E200" || got.Wrapped != plain {
		t.Errorf("FromError = %+v, want E200 wrapping plain error", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101").
		WithDetail(`no route handler for "/nope"`).
		WithSuggestion("Register a catch-all route")

	out := err.Format()
	for _, want := range []string{
		"ERROR E101: Unroutable path",
		`no route handler for "/nope"`,
		"Hint: Register a catch-all route",
		"Learn more: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatFallsBackToRegisteredDetail(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E103").Format()
	if !strings.Contains(out, "only be called once") {
		t.Errorf("Format() should include registered detail, got:\n%s", out)
	}
}

func TestFormatCompact(t *testing.T) {
	got := New("E102").WithDetail("missing )").FormatCompact()
	want := "E102: Invalid route pattern (missing ))"
	if got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFprintPlainError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

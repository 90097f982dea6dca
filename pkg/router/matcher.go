package router

import (
	"context"
	"regexp"

	vperrors "github.com/vango-dev/vpbrowse/internal/errors"
)

// Matcher decides whether a route applies to a logical path.
type Matcher interface {
	// Test reports whether path is accepted and, if so, how it decomposes.
	Test(path string) (Match, bool)

	// String describes the matcher for logs and metrics.
	String() string
}

// Capture is one capturing group of a pattern match.
type Capture struct {
	Value   string
	Matched bool // false for optional groups that did not participate
}

// Match is the result of a matcher accepting a path. Handlers receive it.
type Match struct {
	// Path is the logical path that was tested.
	Path string

	// Whole is the matched text. For exact and predicate matchers it is
	// the path itself.
	Whole string

	// Captures are the pattern's capturing groups in order.
	Captures []Capture

	// Seq is the navigation sequence number of the dispatch, starting at 1.
	// It is zero for matches produced outside a dispatch.
	Seq uint64

	names []string
	ctx   context.Context
}

// Context returns the dispatch context. It is cancelled when a newer
// dispatch starts or the router stops.
func (m Match) Context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

// WithContext returns a copy of m carrying ctx.
func (m Match) WithContext(ctx context.Context) Match {
	m.ctx = ctx
	return m
}

// Stale reports whether a newer dispatch has superseded this one.
func (m Match) Stale() bool {
	return m.Context().Err() != nil
}

// Capture returns the value of capturing group i, counting from 1.
// Out of range or unmatched groups yield "".
func (m Match) Capture(i int) string {
	if i < 1 || i > len(m.Captures) {
		return ""
	}
	return m.Captures[i-1].Value
}

// Param returns the value of a named group, e.g. (?P<tag>...).
func (m Match) Param(name string) (string, bool) {
	for i, n := range m.names {
		if n == name && n != "" && i < len(m.Captures) {
			c := m.Captures[i]
			return c.Value, c.Matched
		}
	}
	return "", false
}

// Args returns the whole match followed by every capture value, the
// positional form of a pattern match.
func (m Match) Args() []string {
	args := make([]string, 0, len(m.Captures)+1)
	args = append(args, m.Whole)
	for _, c := range m.Captures {
		args = append(args, c.Value)
	}
	return args
}

// exactMatcher accepts a single literal path.
type exactMatcher string

// Exact returns a matcher accepting only path itself.
func Exact(path string) Matcher {
	return exactMatcher(path)
}

func (e exactMatcher) Test(path string) (Match, bool) {
	if path != string(e) {
		return Match{}, false
	}
	return Match{Path: path, Whole: path}, true
}

func (e exactMatcher) String() string { return string(e) }

// patternMatcher accepts paths matching a regular expression.
type patternMatcher struct {
	re *regexp.Regexp
}

// Pattern compiles expr into a matcher. Patterns are not anchored
// implicitly; write ^ and $ where needed.
func Pattern(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, vperrors.New("E102").WithDetailf("pattern %q", expr).Wrap(err)
	}
	return patternMatcher{re: re}, nil
}

// MustPattern is like Pattern but panics if expr does not compile.
func MustPattern(expr string) Matcher {
	m, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// PatternOf wraps an already compiled regexp.
func PatternOf(re *regexp.Regexp) Matcher {
	return patternMatcher{re: re}
}

func (p patternMatcher) Test(path string) (Match, bool) {
	idx := p.re.FindStringSubmatchIndex(path)
	if idx == nil {
		return Match{}, false
	}
	m := Match{
		Path:     path,
		Whole:    path[idx[0]:idx[1]],
		Captures: make([]Capture, 0, len(idx)/2-1),
		names:    p.re.SubexpNames()[1:],
	}
	for i := 2; i < len(idx); i += 2 {
		if idx[i] < 0 {
			m.Captures = append(m.Captures, Capture{})
			continue
		}
		m.Captures = append(m.Captures, Capture{Value: path[idx[i]:idx[i+1]], Matched: true})
	}
	return m, true
}

func (p patternMatcher) String() string { return p.re.String() }

// predicateMatcher accepts paths for which fn returns true.
type predicateMatcher struct {
	fn   func(path string) bool
	name string
}

// Predicate returns a matcher that calls fn. A panic in fn propagates to
// the caller of Resolve.
func Predicate(fn func(path string) bool) Matcher {
	return predicateMatcher{fn: fn, name: "predicate"}
}

// NamedPredicate is like Predicate with a description used in logs and
// metrics.
func NamedPredicate(name string, fn func(path string) bool) Matcher {
	return predicateMatcher{fn: fn, name: name}
}

func (p predicateMatcher) Test(path string) (Match, bool) {
	if !p.fn(path) {
		return Match{}, false
	}
	return Match{Path: path, Whole: path}, true
}

func (p predicateMatcher) String() string { return p.name }

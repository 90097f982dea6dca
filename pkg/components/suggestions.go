package components

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/agext/levenshtein"

	vperrors "github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
)

// MaxSuggestions is how many tags the search box offers.
const MaxSuggestions = 5

// RankTags orders tags as suggestions for value: tags containing value
// first, earliest match first, then all tags by edit distance to value.
// Duplicates are dropped and at most limit tags are returned.
func RankTags(tags []string, value string, limit int) []string {
	if value == "" || limit <= 0 {
		return nil
	}

	partial := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.Contains(tag, value) {
			partial = append(partial, tag)
		}
	}
	sort.SliceStable(partial, func(i, j int) bool {
		return strings.Index(partial[i], value) < strings.Index(partial[j], value)
	})

	distance := make(map[string]int, len(tags))
	for _, tag := range tags {
		distance[tag] = levenshtein.Distance(value, tag, nil)
	}
	similar := slices.Clone(tags)
	sort.SliceStable(similar, func(i, j int) bool {
		return distance[similar[i]] < distance[similar[j]]
	})

	out := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	for _, tag := range slices.Concat(partial, similar) {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Direction selects the neighbouring suggestion.
type Direction string

const (
	Next     Direction = "next"
	Previous Direction = "previous"
)

// TagSource provides the tag list, cached if allowCache is set.
type TagSource interface {
	Tags(ctx context.Context, allowCache bool) ([]string, error)
}

// SearchBox is the menu bar's tag search field with its suggestion list.
type SearchBox struct {
	// Spawn runs suggestion lookups off the event handler.
	// Defaults to starting a goroutine.
	Spawn func(func())

	tags   TagSource
	host   Host
	logger *slog.Logger

	mu          sync.Mutex
	el          *vdom.VNode
	input       *vdom.VNode
	list        *vdom.VNode
	value       string
	suggestions []string
	listFocused bool
	inputFocus  bool
}

// NewSearchBox creates a search box drawing suggestions from tags.
func NewSearchBox(tags TagSource, host Host, logger *slog.Logger) *SearchBox {
	if host == nil {
		host = NopHost{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchBox{
		Spawn:  func(fn func()) { go fn() },
		tags:   tags,
		host:   host,
		logger: logger,
	}
}

// Render builds the search field once and returns the same node afterwards.
func (s *SearchBox) Render() *vdom.VNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.el != nil {
		return s.el
	}

	s.input = vdom.Input(
		vdom.Class("search-field-input"),
		vdom.Type("text"),
		vdom.Placeholder("Search tags"),
		vdom.Autocomplete("off"),
		vdom.OnKeyUp(s.onKeyUp),
		vdom.OnKeyDown(s.onKeyDown),
		vdom.OnChange(s.onChange),
		vdom.OnFocus(s.onFocus),
		vdom.OnBlur(s.onBlur),
	)
	s.list = vdom.Ul(
		vdom.Class("suggestions"),
		vdom.Role("listbox"),
		vdom.OnMouseOver(s.onListOver),
		vdom.OnMouseLeave(s.onListLeave),
	)
	s.el = vdom.Div(vdom.Class("search-field"), s.input, s.list)
	return s.el
}

// Suggestions returns the suggestions currently shown.
func (s *SearchBox) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.suggestions)
}

// Value returns the search field's value.
func (s *SearchBox) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// SetValue replaces the search field's value.
func (s *SearchBox) SetValue(value string) {
	s.mu.Lock()
	s.value = value
	input := s.input
	if input != nil {
		input.SetAttr("value", value)
	}
	s.mu.Unlock()
	if input != nil {
		s.host.Update(input)
	}
}

// Update recomputes the suggestions for value. An empty value clears them.
func (s *SearchBox) Update(ctx context.Context, value string) error {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	if value == "" {
		s.Clear()
		return nil
	}

	tags, err := s.tags.Tags(ctx, true)
	if err != nil {
		s.logger.Warn("loading tags failed", "error", err)
		return err
	}
	results := RankTags(tags, value, MaxSuggestions)

	s.mu.Lock()
	// A newer keystroke already produced suggestions for another value.
	if s.value != value || slices.Equal(results, s.suggestions) {
		s.mu.Unlock()
		return nil
	}
	s.suggestions = results
	s.mu.Unlock()

	s.renderList(results)
	return nil
}

// Clear removes every suggestion.
func (s *SearchBox) Clear() {
	s.mu.Lock()
	s.suggestions = nil
	s.mu.Unlock()
	s.renderList(nil)
}

func (s *SearchBox) renderList(suggestions []string) {
	s.mu.Lock()
	list := s.list
	s.mu.Unlock()
	if list == nil {
		return
	}

	items := make([]*vdom.VNode, len(suggestions))
	for i, tag := range suggestions {
		items[i] = vdom.Li(
			router.RouterLink("/tag/"+tag),
			vdom.Role("option"),
			tag,
		)
	}
	list.SetChildren(items)

	// Router links first so a click navigates, then fill in the field.
	s.host.BindLinks(list)
	for _, li := range items {
		vdom.AddEventListener(li, "click", s.pick)
		vdom.AddEventListener(li, "keyup", s.pickOnEnter)
	}
	s.host.Update(list)
}

func (s *SearchBox) pick(e *vdom.Event) {
	text := e.CurrentTarget.TextContent()
	s.Clear()
	s.SetValue(text)
}

func (s *SearchBox) pickOnEnter(e *vdom.Event) {
	if e.Key == "Enter" {
		s.pick(e)
	}
}

// Select moves the selection to the next or previous suggestion,
// wrapping around. Any other direction is an error.
func (s *SearchBox) Select(d Direction) error {
	if d != Next && d != Previous {
		return vperrors.New("E105").WithDetailf("direction %q", string(d))
	}

	s.mu.Lock()
	list := s.list
	s.mu.Unlock()
	if list == nil || len(list.Children) == 0 {
		return nil
	}

	items := list.Children
	current := -1
	for i, li := range items {
		if li.HasClass("selected") {
			current = i
			break
		}
	}

	var target int
	switch {
	case d == Next && current+1 < len(items):
		target = current + 1
	case d == Next:
		target = 0
	case current > 0:
		target = current - 1
	default:
		target = len(items) - 1
	}

	if current >= 0 {
		items[current].RemoveClass("selected")
	}
	items[target].AddClass("selected")
	s.host.Update(list)
	return nil
}

// Selected returns the selected suggestion and whether there is one.
func (s *SearchBox) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.list == nil {
		return "", false
	}
	for _, li := range s.list.Children {
		if li.HasClass("selected") {
			return li.TextContent(), true
		}
	}
	return "", false
}

// Confirm activates the selected suggestion as if it was clicked.
func (s *SearchBox) Confirm() {
	s.mu.Lock()
	list := s.list
	s.mu.Unlock()
	if list == nil {
		return
	}
	for _, li := range list.Children {
		if li.HasClass("selected") {
			text := li.TextContent()
			vdom.Click(list, li)
			s.SetValue(text)
			return
		}
	}
}

func (s *SearchBox) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputFocus || s.listFocused
}

// lookup recomputes suggestions for value without blocking the caller.
func (s *SearchBox) lookup(value string) {
	s.Spawn(func() {
		_ = s.Update(context.Background(), value)
	})
}

func (s *SearchBox) onChange(e *vdom.Event) {
	s.lookup(e.Value)
}

func (s *SearchBox) onKeyUp(e *vdom.Event) {
	switch e.Key {
	case "ArrowUp", "ArrowDown", "Enter", "Escape":
		return
	}
	s.lookup(e.Value)
}

func (s *SearchBox) onKeyDown(e *vdom.Event) {
	if !s.active() {
		return
	}
	switch e.Key {
	case "ArrowUp":
		_ = s.Select(Previous)
	case "ArrowDown":
		_ = s.Select(Next)
	case "Enter":
		// No line breaks in the field.
		e.PreventDefault()
		s.Confirm()
	case "Escape":
		s.Clear()
	}
}

func (s *SearchBox) onFocus(e *vdom.Event) {
	s.mu.Lock()
	s.inputFocus = true
	s.mu.Unlock()
	s.lookup(e.Value)
}

func (s *SearchBox) onBlur() {
	s.mu.Lock()
	s.inputFocus = false
	keep := s.listFocused
	s.mu.Unlock()
	if !keep {
		s.Clear()
	}
}

func (s *SearchBox) onListOver() {
	s.mu.Lock()
	s.listFocused = true
	s.mu.Unlock()
}

func (s *SearchBox) onListLeave() {
	s.mu.Lock()
	s.listFocused = false
	s.mu.Unlock()
}

package components

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	vperrors "github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/render"
	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// recordingHost counts BindLinks and Update calls.
type recordingHost struct {
	mu      sync.Mutex
	binds   int
	updates []*vdom.VNode
	router  *router.Router
}

func (h *recordingHost) BindLinks(c *vdom.VNode) int {
	h.mu.Lock()
	h.binds++
	r := h.router
	h.mu.Unlock()
	if r != nil {
		return r.BindLinks(c)
	}
	return 0
}

func (h *recordingHost) Update(n *vdom.VNode) {
	h.mu.Lock()
	h.updates = append(h.updates, n)
	h.mu.Unlock()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func html(t *testing.T, node *vdom.VNode) string {
	t.Helper()
	out, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		start, end     int
	}{
		{1, 0, 1, 0},
		{1, 20, 1, 7},
		{5, 20, 2, 8},
		{10, 10, 4, 10},
		{2, 3, 1, 3},
		{20, 20, 14, 20},
	}
	for _, tt := range tests {
		start, end := PageWindow(tt.current, tt.total)
		if start != tt.start || end != tt.end {
			t.Errorf("PageWindow(%d, %d) = %d, %d; want %d, %d",
				tt.current, tt.total, start, end, tt.start, tt.end)
		}
	}
}

func TestPaginationLinks(t *testing.T) {
	p := &Pagination{
		Info:   vpapi.Pagination{CurrentPage: 2, TotalPages: 3},
		Path:   "/app/tag/cats",
		Assets: "assets/",
	}
	nav := p.Render()

	var targets, classes []string
	for _, li := range vdom.FindByTag(nav, "li") {
		target, _ := li.Attr(router.LinkAttr)
		class, _ := li.Attr("class")
		targets = append(targets, target)
		classes = append(classes, class)
	}
	wantTargets := []string{
		"/app/tag/cats?page=1", // previous
		"/app/tag/cats?page=1",
		"/app/tag/cats?page=2",
		"/app/tag/cats?page=3",
		"/app/tag/cats?page=3", // next
	}
	if diff := cmp.Diff(wantTargets, targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "", "current-page", "", ""}, classes); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}

	out := html(t, nav)
	if !strings.Contains(out, "Previous") || !strings.Contains(out, "Next") {
		t.Errorf("missing previous/next: %s", out)
	}
}

func TestPaginationFirstAndLastPage(t *testing.T) {
	first := (&Pagination{Info: vpapi.Pagination{CurrentPage: 1, TotalPages: 1}}).Render()
	if out := first.TextContent(); strings.Contains(out, "Previous") || strings.Contains(out, "Next") {
		t.Errorf("single page shows arrows: %q", out)
	}
}

func TestPaginationCallback(t *testing.T) {
	var pages []int
	p := &Pagination{
		Info:   vpapi.Pagination{CurrentPage: 1, TotalPages: 4},
		OnPage: func(page int) { pages = append(pages, page) },
	}
	nav := p.Render()

	items := vdom.FindByTag(nav, "li")
	if len(vdom.FindByAttr(nav, router.LinkAttr)) != 0 {
		t.Error("callback pagination rendered router links")
	}
	vdom.Click(nav, items[2])
	vdom.Click(nav, items[len(items)-1])
	if diff := cmp.Diff([]int{3, 2}, pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestVideoThumbRender(t *testing.T) {
	thumb := NewVideoThumb(vpapi.Video{
		ID:            "abc",
		Title:         "Sunset",
		PreviewImages: []string{"1.jpg", "2.jpg", "3.jpg"},
	}, nil)

	out := html(t, thumb.Render())
	want := `<li class="video-list-item" data-router-link="/details/abc">` +
		`<ul class="video-preview" data-images="2.jpg,3.jpg">` +
		`<li class="video-preview-item visible" style="background-image: url(&#39;1.jpg&#39;);"></li>` +
		`</ul><p class="title">Sunset</p></li>`
	if out != want {
		t.Errorf("got\n%s\nwant\n%s", out, want)
	}
	if thumb.Render() != thumb.Render() {
		t.Error("Render is not cached")
	}
}

func TestVideoThumbGallery(t *testing.T) {
	host := &recordingHost{}
	thumb := NewVideoThumb(vpapi.Video{ID: "x", PreviewImages: []string{"1.jpg", "2.jpg", "3.jpg"}}, host)
	thumb.Interval = 0
	el := thumb.Render()
	preview := vdom.FindFirstByClass(el, "video-preview")

	ev := vdom.NewEvent("mouseenter")
	vdom.Fire(preview, ev)

	if !thumb.Hovered() {
		t.Error("not hovered after mouseenter")
	}
	if got := len(preview.Children); got != 3 {
		t.Fatalf("preview items = %d, want 3", got)
	}
	if images, _ := preview.Attr("data-images"); images != "" {
		t.Errorf("data-images = %q after loading", images)
	}
	if got := thumb.VisibleImage(); got != 1 {
		t.Errorf("visible = %d after enter, want 1", got)
	}

	thumb.Advance()
	if thumb.Advance() {
		t.Error("Advance moved past the last image")
	}
	if got := thumb.VisibleImage(); got != 2 {
		t.Errorf("visible = %d, want 2", got)
	}

	vdom.Fire(preview, vdom.NewEvent("mouseleave"))
	if thumb.Hovered() {
		t.Error("hovered after mouseleave")
	}

	// Entering again does not duplicate the gallery.
	vdom.Fire(preview, vdom.NewEvent("mouseenter"))
	if got := len(preview.Children); got != 3 {
		t.Errorf("preview items = %d after second enter", got)
	}
	vdom.Fire(preview, vdom.NewEvent("mouseleave"))

	if len(host.updates) == 0 {
		t.Error("gallery changes were not pushed to the host")
	}
}

type fakeLists struct {
	resp *vpapi.ListResponse
	err  error
	list []vpapi.ListParams
	rel  []vpapi.RelatedParams
}

func (f *fakeLists) List(_ context.Context, p vpapi.ListParams) (*vpapi.ListResponse, error) {
	f.list = append(f.list, p)
	return f.resp, f.err
}

func (f *fakeLists) Related(_ context.Context, p vpapi.RelatedParams) (*vpapi.ListResponse, error) {
	f.rel = append(f.rel, p)
	return f.resp, f.err
}

func TestVideoListLoad(t *testing.T) {
	src := &fakeLists{resp: &vpapi.ListResponse{
		Videos:     []vpapi.Video{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
		Pagination: vpapi.Pagination{CurrentPage: 1, TotalPages: 5},
	}}
	host := &recordingHost{}
	container := vdom.Div(vdom.Class("relevant-videos-container"))
	list := &VideoList{
		Container:  container,
		Fetch:      FromList(src, vpapi.ListParams{Limit: 20}),
		Pagination: &Pagination{Path: "/"},
		Logger:     quietLogger(),
	}

	if err := list.Load(context.Background(), host); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if vdom.FindFirstByClass(container, "loader") != nil {
		t.Error("loader left in container")
	}
	if got := len(vdom.FindByClass(container, "video-list-item")); got != 2 {
		t.Errorf("thumbs = %d, want 2", got)
	}
	if vdom.FindFirstByClass(container, "pagination-container") == nil {
		t.Error("pagination not rendered")
	}
	if list.Pagination.Info.TotalPages != 5 {
		t.Errorf("pagination info = %+v", list.Pagination.Info)
	}
	if host.binds != 1 {
		t.Errorf("BindLinks calls = %d, want 1", host.binds)
	}
	if len(list.Thumbs()) != 2 || src.list[0].Limit != 20 {
		t.Errorf("thumbs %d, params %+v", len(list.Thumbs()), src.list)
	}
}

func TestVideoListEmpty(t *testing.T) {
	src := &fakeLists{resp: &vpapi.ListResponse{}}
	container := vdom.Div()
	emptied := false
	list := &VideoList{
		Container: container,
		Fetch:     FromRelated(src, vpapi.RelatedParams{ID: "v", Page: 2}),
		OnEmpty:   func() { emptied = true },
		Logger:    quietLogger(),
	}

	if err := list.Load(context.Background(), &recordingHost{}); err != nil {
		t.Fatal(err)
	}
	if !emptied {
		t.Error("OnEmpty not called")
	}
	p := vdom.FindFirstByClass(container, "no-videos-found")
	if p == nil {
		t.Fatal("empty view not rendered")
	}
	if target := router.LinkTarget(p); target != "/" {
		t.Errorf("empty view links to %q, want /", target)
	}
	if src.rel[0].ID != "v" || src.rel[0].Page != 2 {
		t.Errorf("related params = %+v", src.rel[0])
	}
}

func TestVideoListError(t *testing.T) {
	boom := errors.New("boom")
	container := vdom.Div()
	list := &VideoList{
		Container: container,
		Fetch:     FromList(&fakeLists{err: boom}, vpapi.ListParams{}),
		Logger:    quietLogger(),
	}
	if err := list.Load(context.Background(), &recordingHost{}); !errors.Is(err, boom) {
		t.Errorf("Load = %v, want boom", err)
	}
	if vdom.FindFirstByClass(container, "load-error") == nil {
		t.Error("error message not rendered")
	}
}

func TestVideoListStale(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	container := vdom.Div(vdom.Text("newer page"))
	list := &VideoList{
		Container: container,
		Fetch: func(context.Context) (*vpapi.ListResponse, error) {
			cancel()
			return &vpapi.ListResponse{Videos: []vpapi.Video{{ID: "old"}}}, nil
		},
	}

	if err := list.Load(ctx, &recordingHost{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load = %v, want context.Canceled", err)
	}
	if vdom.FindFirstByClass(container, "video-list") != nil {
		t.Error("stale response was rendered")
	}
}

func TestRankTags(t *testing.T) {
	tags := []string{"amateur", "cat", "catwalk", "bobcat", "cart", "dog", "hat", "scatter"}

	got := RankTags(tags, "cat", MaxSuggestions)
	want := []string{"cat", "catwalk", "scatter", "bobcat", "cart"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RankTags mismatch (-want +got):\n%s", diff)
	}

	got = RankTags(tags, "dgo", 2)
	if diff := cmp.Diff([]string{"dog", "cat"}, got); diff != "" {
		t.Errorf("RankTags by distance mismatch (-want +got):\n%s", diff)
	}

	if RankTags(tags, "", 5) != nil {
		t.Error("empty value produced suggestions")
	}
	if got := RankTags([]string{"a", "a", "b"}, "a", 5); len(got) != 2 {
		t.Errorf("duplicates kept: %v", got)
	}
}

type staticTags struct {
	tags  []string
	calls int
}

func (s *staticTags) Tags(context.Context, bool) ([]string, error) {
	s.calls++
	return s.tags, nil
}

func newSearchBox(host Host) (*SearchBox, *staticTags) {
	src := &staticTags{tags: []string{"cat", "catwalk", "dog"}}
	box := NewSearchBox(src, host, quietLogger())
	box.Spawn = func(fn func()) { fn() }
	box.Render()
	return box, src
}

func TestSearchBoxSuggestions(t *testing.T) {
	host := &recordingHost{}
	box, src := newSearchBox(host)

	if err := box.Update(context.Background(), "cat"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"cat", "catwalk", "dog"}, box.Suggestions()); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	links := vdom.FindByAttr(box.list, router.LinkAttr)
	if len(links) != 3 || router.LinkTarget(links[1]) != "/tag/catwalk" {
		t.Errorf("suggestion links = %d", len(links))
	}

	updates := len(host.updates)
	box.Update(context.Background(), "cat")
	if len(host.updates) != updates {
		t.Error("unchanged suggestions were re-rendered")
	}

	box.Update(context.Background(), "")
	if len(box.Suggestions()) != 0 || len(box.list.Children) != 0 {
		t.Error("empty value did not clear suggestions")
	}
	if src.calls != 2 {
		t.Errorf("tag lookups = %d, want 2", src.calls)
	}
}

func TestSearchBoxSelect(t *testing.T) {
	box, _ := newSearchBox(&recordingHost{})
	box.Update(context.Background(), "cat")

	steps := []struct {
		dir  Direction
		want string
	}{
		{Next, "cat"},
		{Next, "catwalk"},
		{Previous, "cat"},
		{Previous, "dog"},
		{Next, "cat"},
	}
	for i, step := range steps {
		if err := box.Select(step.dir); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got, _ := box.Selected(); got != step.want {
			t.Errorf("step %d: selected %q, want %q", i, got, step.want)
		}
	}

	err := box.Select("sideways")
	if !errors.Is(err, vperrors.New("E105")) {
		t.Errorf("Select(sideways) = %v, want E105", err)
	}
}

func TestSearchBoxPickNavigates(t *testing.T) {
	h := router.NewMemoryHistory("/")
	r := router.New(router.WithHistory(h), router.WithLogger(quietLogger()))
	var tags []string
	r.Register(router.MustPattern(`^/tag/(.*)$`), func(m router.Match) {
		tags = append(tags, m.Capture(1))
	})

	box, _ := newSearchBox(&recordingHost{router: r})
	box.Update(context.Background(), "dog")

	if err := box.Select(Next); err != nil {
		t.Fatal(err)
	}
	box.Confirm()

	if diff := cmp.Diff([]string{"dog"}, tags); diff != "" {
		t.Errorf("navigations mismatch (-want +got):\n%s", diff)
	}
	if box.Value() != "dog" {
		t.Errorf("Value() = %q, want dog", box.Value())
	}
	if len(box.Suggestions()) != 0 {
		t.Error("suggestions not cleared after pick")
	}
}

func TestSearchBoxKeyboard(t *testing.T) {
	box, _ := newSearchBox(&recordingHost{})
	input := box.input

	vdom.Fire(input, &vdom.Event{Type: "focus", Value: "cat"})
	if len(box.Suggestions()) == 0 {
		t.Fatal("focus did not load suggestions")
	}
	vdom.Fire(input, &vdom.Event{Type: "keydown", Key: "ArrowDown"})
	if got, _ := box.Selected(); got != "cat" {
		t.Errorf("selected %q after ArrowDown", got)
	}
	enter := &vdom.Event{Type: "keydown", Key: "Enter"}
	vdom.Fire(input, enter)
	if !enter.DefaultPrevented() {
		t.Error("Enter was not prevented")
	}
	if box.Value() != "cat" {
		t.Errorf("Value() = %q after Enter", box.Value())
	}

	vdom.Fire(input, &vdom.Event{Type: "keyup", Key: "c", Value: "do"})
	vdom.Fire(input, &vdom.Event{Type: "keydown", Key: "Escape"})
	if len(box.Suggestions()) != 0 {
		t.Error("Escape did not clear suggestions")
	}

	vdom.Fire(input, &vdom.Event{Type: "keyup", Key: "o", Value: "dog"})
	vdom.Fire(box.list, &vdom.Event{Type: "mouseover"})
	vdom.Fire(input, &vdom.Event{Type: "blur"})
	if len(box.Suggestions()) == 0 {
		t.Error("blur towards the list cleared suggestions")
	}
	vdom.Fire(box.list, &vdom.Event{Type: "mouseleave"})
	vdom.Fire(input, &vdom.Event{Type: "blur"})
	if len(box.Suggestions()) != 0 {
		t.Error("blur did not clear suggestions")
	}
}

package components

import (
	"strings"
	"sync"
	"time"

	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// DefaultPreviewInterval is how often a hovered thumbnail advances to the
// next preview image.
const DefaultPreviewInterval = 700 * time.Millisecond

// VideoThumb is a list item linking to a video's details page. While
// hovered it cycles through the video's preview images.
type VideoThumb struct {
	Video    vpapi.Video
	Interval time.Duration

	host Host

	mu      sync.Mutex
	el      *vdom.VNode
	preview *vdom.VNode
	hovered bool
	stop    chan struct{}
}

// NewVideoThumb creates a thumbnail for v. host may be nil.
func NewVideoThumb(v vpapi.Video, host Host) *VideoThumb {
	if host == nil {
		host = NopHost{}
	}
	return &VideoThumb{Video: v, Interval: DefaultPreviewInterval, host: host}
}

// Render builds the thumbnail once and returns the same node afterwards.
func (t *VideoThumb) Render() *vdom.VNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.el != nil {
		return t.el
	}

	var first string
	var rest []string
	if len(t.Video.PreviewImages) > 0 {
		first = t.Video.PreviewImages[0]
		rest = t.Video.PreviewImages[1:]
	}

	t.preview = vdom.Ul(
		vdom.Class("video-preview"),
		vdom.Data("images", strings.Join(rest, ",")),
		vdom.OnMouseEnter(t.onMouseEnter),
		vdom.OnMouseLeave(t.onMouseLeave),
		previewImage(first, true),
	)
	t.el = vdom.Li(
		vdom.Class("video-list-item"),
		router.RouterLink("/details/"+t.Video.ID),
		t.preview,
		vdom.P(vdom.Class("title"), t.Video.Title),
	)
	return t.el
}

func previewImage(url string, visible bool) *vdom.VNode {
	return vdom.Li(
		vdom.Class("video-preview-item", visibleClass(visible)),
		vdom.StyleAttr("background-image: url('"+url+"');"),
	)
}

func visibleClass(visible bool) string {
	if visible {
		return "visible"
	}
	return ""
}

// Hovered reports whether the pointer is over the preview.
func (t *VideoThumb) Hovered() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hovered
}

func (t *VideoThumb) onMouseEnter() {
	t.mu.Lock()
	t.hovered = true
	t.loadGalleryLocked()
	t.stopLocked()
	stop := make(chan struct{})
	t.stop = stop
	interval := t.Interval
	t.mu.Unlock()

	t.Advance()
	if interval > 0 {
		go t.cycle(interval, stop)
	}
}

func (t *VideoThumb) onMouseLeave() {
	t.mu.Lock()
	t.hovered = false
	t.stopLocked()
	t.mu.Unlock()
}

func (t *VideoThumb) cycle(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.Advance()
		}
	}
}

func (t *VideoThumb) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// loadGalleryLocked moves the URLs from data-images into hidden items.
func (t *VideoThumb) loadGalleryLocked() {
	if t.preview == nil {
		return
	}
	images, _ := t.preview.Attr("data-images")
	images = strings.TrimSpace(images)
	if images == "" {
		return
	}
	for _, url := range strings.Split(images, ",") {
		t.preview.AppendChild(previewImage(url, false))
	}
	t.preview.SetAttr("data-images", "")
}

// Advance shows the preview image after the visible one. It stays on the
// last image and reports whether anything changed.
func (t *VideoThumb) Advance() bool {
	t.mu.Lock()
	preview := t.preview
	if preview == nil {
		t.mu.Unlock()
		return false
	}
	items := preview.Children
	moved := false
	for i, item := range items {
		if item.HasClass("visible") {
			if i+1 < len(items) {
				item.RemoveClass("visible")
				items[i+1].AddClass("visible")
				moved = true
			}
			break
		}
	}
	t.mu.Unlock()

	if moved {
		t.host.Update(preview)
	}
	return moved
}

// VisibleImage returns the index of the visible preview image, or -1.
func (t *VideoThumb) VisibleImage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.preview == nil {
		return -1
	}
	for i, item := range t.preview.Children {
		if item.HasClass("visible") {
			return i
		}
	}
	return -1
}

package components

import (
	"context"
	"log/slog"

	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// Fetcher loads one page of videos.
type Fetcher func(ctx context.Context) (*vpapi.ListResponse, error)

// ListSource is the part of the API client video lists need.
type ListSource interface {
	List(ctx context.Context, p vpapi.ListParams) (*vpapi.ListResponse, error)
	Related(ctx context.Context, p vpapi.RelatedParams) (*vpapi.ListResponse, error)
}

// FromList returns a Fetcher calling the list endpoint.
func FromList(src ListSource, p vpapi.ListParams) Fetcher {
	return func(ctx context.Context) (*vpapi.ListResponse, error) {
		return src.List(ctx, p)
	}
}

// FromRelated returns a Fetcher calling the related endpoint.
func FromRelated(src ListSource, p vpapi.RelatedParams) Fetcher {
	return func(ctx context.Context) (*vpapi.ListResponse, error) {
		return src.Related(ctx, p)
	}
}

// VideoList loads videos into a container it owns.
type VideoList struct {
	// Container receives the list. It should hold nothing else.
	Container *vdom.VNode

	// Fetch loads the videos.
	Fetch Fetcher

	// Pagination is rendered below the videos when set. Its Info is
	// filled from the response.
	Pagination *Pagination

	// OnEmpty is called after the empty view was rendered.
	OnEmpty func()

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	thumbs []*VideoThumb
}

// Thumbs returns the thumbnails of the last successful load.
func (l *VideoList) Thumbs() []*VideoThumb {
	return l.thumbs
}

// Load shows a loader, fetches the videos and renders them. If ctx is
// cancelled before the response arrives nothing is rendered and ctx's
// error is returned, so a superseded page never overwrites a newer one.
func (l *VideoList) Load(ctx context.Context, host Host) error {
	if l.Container == nil {
		panic("components: VideoList has no Container")
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loader := Loader()
	l.Container.AppendChild(loader)
	host.Update(l.Container)

	resp, err := l.Fetch(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	l.Container.RemoveChild(loader)

	if err != nil {
		logger.Error("loading videos failed", "error", err)
		l.Container.SetChildren(ErrorMessage("Videos could not be loaded."))
		host.Update(l.Container)
		return err
	}

	if resp == nil || len(resp.Videos) == 0 {
		l.Container.SetChildren(NoVideosFound())
		host.BindLinks(l.Container)
		host.Update(l.Container)
		if l.OnEmpty != nil {
			l.OnEmpty()
		}
		return nil
	}

	l.thumbs = make([]*VideoThumb, len(resp.Videos))
	for i, v := range resp.Videos {
		l.thumbs[i] = NewVideoThumb(v, host)
	}

	list := vdom.Ul(vdom.Class("video-list"))
	for _, thumb := range l.thumbs {
		list.AppendChild(thumb)
	}
	l.Container.SetChildren(list)

	if l.Pagination != nil {
		l.Pagination.Info = resp.Pagination
		l.Container.AppendChild(l.Pagination.Render())
	}

	host.BindLinks(l.Container)
	host.Update(l.Container)
	return nil
}

// Loader is the loading animation shown while a list loads.
func Loader() *vdom.VNode {
	return vdom.Div(vdom.Class("loader"), vdom.Div(vdom.Class("loader-animation")))
}

// NoVideosFound is the view of an empty list. Clicking it goes home.
func NoVideosFound() *vdom.VNode {
	return vdom.P(
		vdom.Class("no-videos-found"),
		router.RouterLink("/"),
		"No videos found.",
		vdom.Br(),
		"Click ", vdom.U("here"), " to go back.",
	)
}

// ErrorMessage is shown in place of content that failed to load.
func ErrorMessage(text string) *vdom.VNode {
	return vdom.P(vdom.Class("load-error"), vdom.Role("alert"), text)
}

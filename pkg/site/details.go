package site

import (
	"context"
	"strings"

	"github.com/vango-dev/vpbrowse/pkg/components"
	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/vdom"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// PlayerContainerID is the element id the player embed script renders into.
const PlayerContainerID = "video-player"

func (s *Site) details(m router.Match) {
	id := m.Capture(1)
	ctx := m.Context()

	s.Spawn(func() {
		d, err := s.api.Details(ctx, vpapi.DetailsParams{
			VideoID:      id,
			PrimaryColor: s.cfg.PrimaryColor,
			LabelColor:   s.cfg.LabelColor,
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.logger.Error("loading video details failed", "video_id", id, "error", err)
			s.show(components.ErrorMessage("The video could not be loaded."))
			return
		}

		recommended := vdom.Div(vdom.Class("recommended-videos-container"))
		s.show(vdom.Div(
			vdom.Class("video-content-wrapper"),
			vdom.Div(
				vdom.Class("video-content"),
				Player(d),
				Metadata(d, s.cfg.Assets),
			),
			vdom.Div(
				vdom.Class("video-sidebar"),
				vdom.Img(vdom.Src(s.cfg.Assets+"banner.png")),
				vdom.Button(
					vdom.Class("video-sidebar-more-button"),
					router.RouterLink("/"),
					"More from this uploader",
				),
				vdom.Div(vdom.Class("video-list-wrapper"), recommended),
			),
		))
		s.scrollToTop()

		sidebar := &components.VideoList{
			Container: recommended,
			Fetch:     components.FromList(s.api, vpapi.ListParams{Limit: s.cfg.SidebarCount}),
			Logger:    s.logger,
		}
		s.showRelated(ctx, id, 1, sidebar)
	})
}

// showRelated replaces the related list under the player with page of
// the videos related to id, then loads it followed by extra.
// Its pagination re-renders the list in place.
func (s *Site) showRelated(ctx context.Context, id string, page int, extra ...*components.VideoList) {
	if ctx.Err() != nil {
		return
	}
	onPage := func(page int) {
		s.Spawn(func() { s.showRelated(ctx, id, page) })
	}
	wrapper, list := s.relevantList(vpapi.ListParams{Page: page}, "", onPage)
	list.Fetch = components.FromRelated(s.api, vpapi.RelatedParams{
		ID:    id,
		Page:  page,
		Limit: s.cfg.PageSize,
	})

	content := s.Content()
	s.mu.Lock()
	if s.related != nil {
		content.RemoveChild(s.related)
	}
	s.related = wrapper
	s.mu.Unlock()

	content.AppendChild(wrapper)
	s.Update(content)

	for _, l := range append([]*components.VideoList{list}, extra...) {
		if err := l.Load(ctx, s); err != nil && ctx.Err() != nil {
			return
		}
	}
}

// Player is the player frame followed by the embed script, which targets
// the frame by its container id.
func Player(d *vpapi.Details) *vdom.VNode {
	script := strings.Replace(d.PlayerEmbedScript, "{CONTAINER}", PlayerContainerID, 1)
	return vdom.Fragment(
		vdom.Div(
			vdom.Class("video-player-frame-aspect-ratio-wrapper"),
			vdom.Data("awe-container-id", PlayerContainerID),
		),
		vdom.Raw(script),
	)
}

// Metadata is the title, uploader, star and tag links of a video.
func Metadata(d *vpapi.Details, assets string) *vdom.VNode {
	meta := vdom.Div(
		vdom.Class("video-details"),
		vdom.H1(vdom.Class("video-details-heading"), d.Title),
		metaLine(assets+"uploader.svg", "Uploader: ", "LiveJasmin"),
		metaLine(assets+"star.svg", "Star: ", d.PerformerID),
	)
	if len(d.Tags) == 0 {
		return meta
	}

	tags := vdom.P(vdom.Class("video-details-tags"), "Tags: ")
	for i, tag := range d.Tags {
		if i > 0 {
			tags.AppendChild(" ")
		}
		tags.AppendChild(vdom.Span(
			router.RouterLink("/tag/"+tag),
			vdom.Em("#"),
			tag,
		))
	}
	meta.AppendChild(tags)
	return meta
}

func metaLine(icon, label, value string) *vdom.VNode {
	return vdom.P(
		vdom.Img(vdom.Src(icon), vdom.Class("video-details-icon")),
		vdom.Span(vdom.Class("video-details-meta-category"), label, vdom.Em(value)),
	)
}

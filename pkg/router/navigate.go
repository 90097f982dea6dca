package router

import (
	"context"
	"time"

	vperrors "github.com/vango-dev/vpbrowse/internal/errors"
)

// RenderCurrentLocation resolves the history's current location and runs
// the matching handler. An unroutable path is reported and otherwise
// ignored; the page is left as it is.
func (r *Router) RenderCurrentLocation() {
	r.render(TriggerRender)
}

// NavigateTo pushes one history entry for path and renders it.
//
// path may be logical ("/tag/kittens") or already carry the base path
// ("/app/tag/kittens"). A query string is kept in the pushed URL. If the
// history refuses the entry, nothing is rendered and an ErrHistory error
// is returned.
func (r *Router) NavigateTo(path, title string) error {
	target := path
	if base := r.BasePath(); !base.Has(path) {
		target = base.FullPath(path)
	}

	if err := r.history.PushState(title, target); err != nil {
		herr := vperrors.New("E104").WithDetailf("push %q", target).Wrap(err)
		r.logger.Error("history update failed", "url", target, "error", err)
		r.report(herr)
		return herr
	}

	r.logger.Debug("navigate", "url", target, "title", title)
	r.render(TriggerNavigate)
	return nil
}

// render performs one dispatch of the current location.
func (r *Router) render(trigger Trigger) {
	full := r.history.Location()
	path := r.LogicalPath(full)
	observers := r.observersSnapshot()

	d := &Dispatch{Trigger: trigger, FullPath: full, Path: path}

	route, match, ok := r.registry.Resolve(path)
	if !ok {
		d.Err = vperrors.New("E101").WithDetailf("no route handler for path %q", path)
		r.logger.Error("routing failed", "path", path, "url", full, "trigger", string(trigger))
		ctx := r.parent
		for _, o := range observers {
			ctx = o.DispatchStarted(ctx, d)
		}
		for _, o := range observers {
			o.DispatchFinished(ctx, d)
		}
		r.report(d.Err)
		return
	}
	d.Route = route.Label()

	ctx, seq := r.beginDispatch()
	d.Seq = seq
	for _, o := range observers {
		ctx = o.DispatchStarted(ctx, d)
	}

	match.Seq = seq
	match.ctx = ctx

	r.logger.Debug("dispatch", "seq", seq, "path", path, "route", d.Route, "trigger", string(trigger))

	start := time.Now()
	defer func() {
		d.Duration = time.Since(start)
		for _, o := range observers {
			o.DispatchFinished(ctx, d)
		}
	}()
	if route.Handler != nil {
		route.Handler(match)
	}
}

// beginDispatch cancels the previous dispatch context and returns a fresh
// one together with the new sequence number.
func (r *Router) beginDispatch() (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(r.parent)
	r.cancel = cancel
	r.seq++
	return ctx, r.seq
}

// Seq returns the sequence number of the latest dispatch.
func (r *Router) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Current reports whether m belongs to the latest dispatch.
func (r *Router) Current(m Match) bool {
	return m.Seq != 0 && m.Seq == r.Seq() && !m.Stale()
}

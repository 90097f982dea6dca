package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"strconv"

	"github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/assets"
	"github.com/vango-dev/vpbrowse/pkg/render"
	"github.com/vango-dev/vpbrowse/pkg/site"
)

// Client files expected in the asset source.
const (
	WasmFile     = "app.wasm"
	WasmExecFile = "wasm_exec.js"
	StyleFile    = "styles.css"
)

// bootScript starts the WebAssembly client at wasm once wasm_exec.js has
// run. URLs are relative to <base href>.
func bootScript(wasm string) string {
	return `window.addEventListener('DOMContentLoaded', function() {
    var go = new Go();
    WebAssembly.instantiateStreaming(fetch(` + strconv.Quote(wasm) + `), go.importObject)
        .then(function(result) { go.run(result.instance); })
        .catch(function(err) { console.error('vpbrowse: starting the client failed', err); });
});`
}

// loadManifest reads the asset manifest. Without one, names are used as
// they are.
func (s *Server) loadManifest(ctx context.Context) (*assets.Manifest, error) {
	a, err := s.cfg.Assets.Open(ctx, assets.ManifestFile)
	if stderrors.Is(err, errors.New("E301")) {
		return assets.NewManifest(), nil
	}
	if err != nil {
		return nil, err
	}
	defer a.Body.Close()
	return assets.Parse(a.Body)
}

// renderShell renders the application shell. The body holds the static
// page frame, which the client replaces when it mounts.
func (s *Server) renderShell() ([]byte, error) {
	page := render.PageData{
		Title:    s.cfg.Title,
		BaseHref: s.base,
		Meta: []render.MetaTag{
			{Name: "viewport", Content: "width=device-width, initial-scale=1"},
		},
		StyleSheets:   []string{s.manifest.Resolve(StyleFile)},
		Scripts:       []string{s.manifest.Resolve(WasmExecFile)},
		InlineScripts: []string{bootScript(s.manifest.Resolve(WasmFile))},
		Body:          site.Frame(site.DefaultAssets, nil, nil),
	}
	if s.reload != nil {
		page.InlineScripts = append(page.InlineScripts, reloadClientScript)
	}

	var buf bytes.Buffer
	if err := render.NewRenderer(render.RendererConfig{}).RenderPage(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

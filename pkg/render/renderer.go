package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/vpbrowse/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Development only.
	Pretty bool

	// Indent is the string used per level in pretty mode.
	// Defaults to two spaces.
	Indent string
}

// Renderer writes VNode trees as HTML.
// A Renderer holds no per-render state and is safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	bw := bufio.NewWriter(w)
	if err := r.renderNode(bw, node, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func (r *Renderer) renderNode(w *bufio.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		_, err := w.WriteString(escapeHTML(node.Text))
		return err
	case vdom.KindRaw:
		_, err := w.WriteString(node.Text)
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w *bufio.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag
	if tag == "" {
		return fmt.Errorf("element without tag")
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.WriteByte('<')
	w.WriteString(tag)
	r.renderAttributes(w, node)
	w.WriteByte('>')

	if vdom.IsVoidElement(tag) {
		if r.config.Pretty {
			w.WriteByte('\n')
		}
		return nil
	}

	block := r.config.Pretty && len(node.Children) > 0 && !isInlineElement(tag)
	if block {
		w.WriteByte('\n')
	}
	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth+1); err != nil {
			return err
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	w.WriteString("</")
	w.WriteString(tag)
	_, err := w.WriteString(">")
	if r.config.Pretty {
		w.WriteByte('\n')
	}
	return err
}

func (r *Renderer) renderAttributes(w *bufio.Writer, node *vdom.VNode) {
	if len(node.Props) == 0 {
		return
	}

	keys := make([]string, 0, len(node.Props))
	for key, value := range node.Props {
		if strings.HasPrefix(key, "_") || vdom.IsHandler(value) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		if b, ok := value.(bool); ok && isBooleanAttr(key) {
			if b {
				w.WriteByte(' ')
				w.WriteString(key)
			}
			continue
		}
		if value == nil {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(key)
		w.WriteString(`="`)
		w.WriteString(escapeAttr(attrToString(value)))
		w.WriteByte('"')
	}
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (r *Renderer) writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}

var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"checked":         true,
	"defer":           true,
	"disabled":        true,
	"hidden":          true,
	"multiple":        true,
	"readonly":        true,
	"required":        true,
	"selected":        true,
}

func isBooleanAttr(name string) bool { return booleanAttrs[name] }

var inlineElements = map[string]bool{
	"a": true, "b": true, "button": true, "em": true, "i": true,
	"label": true, "span": true, "strong": true, "title": true, "u": true,
}

func isInlineElement(tag string) bool { return inlineElements[tag] }

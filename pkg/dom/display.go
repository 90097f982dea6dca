//go:build js && wasm

package dom

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/vango-dev/vpbrowse/pkg/vdom"
)

// ScrollRegion is the selector of the element ScrollToTop resets.
const ScrollRegion = ".site-content-wrapper"

// mounted records what was created for one element node.
type mounted struct {
	el       js.Value
	funcs    []js.Func
	children []*vdom.VNode
}

// Display renders a vdom tree into a host element. It belongs to the
// browser's event loop; handlers it runs may call Update again.
type Display struct {
	host  js.Value
	doc   js.Value
	root  *vdom.VNode
	nodes map[*vdom.VNode]*mounted
}

// NewDisplay creates a display rendering into host.
func NewDisplay(host js.Value) *Display {
	return &Display{
		host:  host,
		doc:   Document(),
		nodes: make(map[*vdom.VNode]*mounted),
	}
}

// Mount replaces the host's content with tree.
func (d *Display) Mount(tree *vdom.VNode) {
	if d.root != nil {
		d.release(d.root)
	}
	d.root = tree
	d.host.Set("innerHTML", "")
	d.append(d.host, tree)
}

// Update redraws node. Nodes that are not on screen cause a redraw of the
// whole tree, since they may have just been attached to it.
func (d *Display) Update(node *vdom.VNode) {
	m, ok := d.nodes[node]
	if !ok {
		if d.root != nil {
			d.Mount(d.root)
		}
		return
	}

	old := m.el
	d.release(node)
	frag := d.doc.Call("createDocumentFragment")
	d.append(frag, node)
	old.Call("replaceWith", frag)
}

// ScrollToTop scrolls the content region and the window to the top.
func (d *Display) ScrollToTop() {
	if region := d.doc.Call("querySelector", ScrollRegion); !region.IsNull() {
		region.Set("scrollTop", 0)
	}
	Window().Call("scrollTo", 0, 0)
}

// append renders node and appends it to parent.
func (d *Display) append(parent js.Value, node *vdom.VNode) {
	if node == nil {
		return
	}
	switch node.Kind {
	case vdom.KindText:
		parent.Call("appendChild", d.doc.Call("createTextNode", node.Text))
	case vdom.KindRaw:
		d.appendRaw(parent, node.Text)
	case vdom.KindFragment:
		for _, child := range node.Children {
			d.append(parent, child)
		}
	default:
		parent.Call("appendChild", d.element(node))
	}
}

func (d *Display) element(node *vdom.VNode) js.Value {
	el := d.doc.Call("createElement", node.Tag)
	m := &mounted{el: el, children: append([]*vdom.VNode(nil), node.Children...)}

	for name, value := range node.Props {
		if strings.HasPrefix(name, "_") || vdom.IsHandler(value) {
			continue
		}
		switch v := value.(type) {
		case nil:
		case bool:
			if v {
				el.Call("setAttribute", name, "")
			}
		default:
			el.Call("setAttribute", name, fmt.Sprint(v))
		}
	}
	if value, ok := node.Attr("value"); ok {
		el.Set("value", value)
	}

	for _, name := range vdom.EventNames(node) {
		fn := d.listener(node, name)
		el.Call("addEventListener", name, fn)
		m.funcs = append(m.funcs, fn)
	}

	for _, child := range node.Children {
		d.append(el, child)
	}
	d.nodes[node] = m
	return el
}

// listener forwards native events of type name to node's handlers.
func (d *Display) listener(node *vdom.VNode, name string) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		native := args[0]
		e := vdom.NewEvent(name)
		e.Target = node
		if key := native.Get("key"); key.Type() == js.TypeString {
			e.Key = key.String()
		}
		if value := native.Get("target").Get("value"); value.Type() == js.TypeString {
			e.Value = value.String()
		}
		e.NativePreventDefault = func() { native.Call("preventDefault") }
		e.NativeStopPropagation = func() { native.Call("stopPropagation") }
		vdom.Fire(node, e)
		return nil
	})
}

// appendRaw parses html and appends the result. Scripts are recreated so
// the browser runs them.
func (d *Display) appendRaw(parent js.Value, html string) {
	tmpl := d.doc.Call("createElement", "template")
	tmpl.Set("innerHTML", html)
	content := tmpl.Get("content")

	scripts := content.Call("querySelectorAll", "script")
	for i := 0; i < scripts.Length(); i++ {
		old := scripts.Index(i)
		script := d.doc.Call("createElement", "script")
		attrs := old.Get("attributes")
		for j := 0; j < attrs.Length(); j++ {
			attr := attrs.Index(j)
			script.Call("setAttribute", attr.Get("name"), attr.Get("value"))
		}
		script.Set("textContent", old.Get("textContent"))
		old.Call("replaceWith", script)
	}
	parent.Call("appendChild", content)
}

// release frees the callbacks of node's rendered subtree.
func (d *Display) release(node *vdom.VNode) {
	m, ok := d.nodes[node]
	if !ok {
		// Fragments have no element of their own.
		for _, child := range node.Children {
			d.release(child)
		}
		return
	}
	delete(d.nodes, node)
	for _, fn := range m.funcs {
		fn.Release()
	}
	for _, child := range m.children {
		d.release(child)
	}
}

package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <li>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key
	Text     string   // For KindText and KindRaw
}

// Props holds attributes and event handlers.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Attr returns the string value of an attribute and whether it is set.
// Event handlers are not attributes and are never returned.
func (v *VNode) Attr(name string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	value, ok := v.Props[name]
	if !ok || value == nil || isHandlerValue(value) {
		return "", false
	}
	switch val := value.(type) {
	case string:
		return val, true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

// SetAttr sets an attribute value, creating the props map if needed.
func (v *VNode) SetAttr(name string, value any) {
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[name] = value
}

// RemoveAttr deletes an attribute.
func (v *VNode) RemoveAttr(name string) {
	delete(v.Props, name)
}

// HasClass reports whether the class attribute contains class.
func (v *VNode) HasClass(class string) bool {
	classes, _ := v.Attr("class")
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to the class attribute if it is not present yet.
func (v *VNode) AddClass(class string) {
	if v.HasClass(class) {
		return
	}
	classes, _ := v.Attr("class")
	v.SetAttr("class", strings.TrimSpace(classes+" "+class))
}

// RemoveClass removes class from the class attribute.
func (v *VNode) RemoveClass(class string) {
	classes, ok := v.Attr("class")
	if !ok {
		return
	}
	kept := make([]string, 0, 4)
	for _, c := range strings.Fields(classes) {
		if c != class {
			kept = append(kept, c)
		}
	}
	v.SetAttr("class", strings.Join(kept, " "))
}

// SetChildren replaces all children of v.
// Arguments follow the same rules as element constructors.
func (v *VNode) SetChildren(children ...any) {
	v.Children = make([]*VNode, 0, len(children))
	v.AppendChild(children...)
}

// AppendChild appends children to v.
func (v *VNode) AppendChild(children ...any) {
	for _, child := range children {
		appendChild(v, child)
	}
}

// RemoveChild removes child from v's direct children.
// It reports whether the child was found.
func (v *VNode) RemoveChild(child *VNode) bool {
	for i, c := range v.Children {
		if c == child {
			v.Children = append(v.Children[:i], v.Children[i+1:]...)
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of v and all its descendants.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var b strings.Builder
	for _, child := range v.Children {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}

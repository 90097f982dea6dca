package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return &VNode{Kind: KindText, Text: fmt.Sprintf(format, args...)}
}

// Raw creates a node whose content is emitted without escaping.
// Only use with trusted content such as player embed markup.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment, Children: make([]*VNode, 0, len(children))}
	for _, child := range children {
		appendChild(node, child)
	}
	return node
}

// If returns node when cond is true, nil otherwise.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}

// IfElse returns then when cond is true, otherwise els.
func IfElse(cond bool, then, els *VNode) *VNode {
	if cond {
		return then
	}
	return els
}

// When evaluates fn only when cond is true.
func When(cond bool, fn func() *VNode) *VNode {
	if cond {
		return fn()
	}
	return nil
}

// Range maps items to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			out = append(out, node)
		}
	}
	return out
}

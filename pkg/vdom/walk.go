package vdom

// Walk visits root and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func Walk(root *VNode, fn func(*VNode) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, child := range root.Children {
		Walk(child, fn)
	}
}

// FindAll returns every element under root (root included) matching pred.
func FindAll(root *VNode, pred func(*VNode) bool) []*VNode {
	var out []*VNode
	Walk(root, func(n *VNode) bool {
		if n.Kind == KindElement && pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindFirst returns the first element matching pred, or nil.
func FindFirst(root *VNode, pred func(*VNode) bool) *VNode {
	var found *VNode
	Walk(root, func(n *VNode) bool {
		if found != nil {
			return false
		}
		if n.Kind == KindElement && pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindByAttr returns every element carrying the attribute name.
func FindByAttr(root *VNode, name string) []*VNode {
	return FindAll(root, func(n *VNode) bool {
		_, ok := n.Attr(name)
		return ok
	})
}

// FindByClass returns every element with the given class.
func FindByClass(root *VNode, class string) []*VNode {
	return FindAll(root, func(n *VNode) bool { return n.HasClass(class) })
}

// FindFirstByClass returns the first element with the given class, or nil.
func FindFirstByClass(root *VNode, class string) *VNode {
	return FindFirst(root, func(n *VNode) bool { return n.HasClass(class) })
}

// FindByID returns the element with the given id, or nil.
func FindByID(root *VNode, id string) *VNode {
	return FindFirst(root, func(n *VNode) bool {
		v, ok := n.Attr("id")
		return ok && v == id
	})
}

// FindByTag returns every element with the given tag.
func FindByTag(root *VNode, tag string) []*VNode {
	return FindAll(root, func(n *VNode) bool { return n.Tag == tag })
}

// PathTo returns the chain of nodes from root down to target, both
// included, or nil if target is not in root's subtree.
func PathTo(root, target *VNode) []*VNode {
	if root == nil || target == nil {
		return nil
	}
	if root == target {
		return []*VNode{root}
	}
	for _, child := range root.Children {
		if sub := PathTo(child, target); sub != nil {
			return append([]*VNode{root}, sub...)
		}
	}
	return nil
}

// Contains reports whether target is root or one of its descendants.
func Contains(root, target *VNode) bool {
	return PathTo(root, target) != nil
}

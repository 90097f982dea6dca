package vdom

import "strings"

// EventHandler represents an event handler attached at construction time.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // func(), func(*Event)
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events.
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler any) EventHandler { return event("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler any) EventHandler { return event("mouseleave", handler) }

// OnMouseOver handles mouseover events.
func OnMouseOver(handler any) EventHandler { return event("mouseover", handler) }

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) EventHandler { return event("keyup", handler) }

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return event("change", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return event("blur", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return event("submit", handler) }

// Event is a DOM event delivered to VNode handlers.
//
// In tests events are synthesized and delivered with Dispatch. In the
// browser, package dom wraps the native event and sets the Native* hooks so
// PreventDefault and StopPropagation reach the real event too.
type Event struct {
	// Type is the event name without the "on" prefix (e.g., "click").
	Type string

	// Target is the node the event was dispatched on.
	Target *VNode

	// CurrentTarget is the node whose handler is running.
	CurrentTarget *VNode

	// Key is the key name for keyboard events (e.g., "Enter", "ArrowDown").
	Key string

	// Value is the current value of the target for input events.
	Value string

	// NativePreventDefault is called by PreventDefault when set.
	NativePreventDefault func()

	// NativeStopPropagation is called by StopPropagation when set.
	NativeStopPropagation func()

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// PreventDefault cancels the default browser action for the event.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
	if e.NativePreventDefault != nil {
		e.NativePreventDefault()
	}
}

// StopPropagation stops the event from bubbling to ancestors.
// Remaining handlers on the current node still run.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
	if e.NativeStopPropagation != nil {
		e.NativeStopPropagation()
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// AddEventListener attaches handler to node for the event name.
// The name may be given with or without the "on" prefix. Several handlers
// may be attached for the same event; they run in attachment order.
func AddEventListener(node *VNode, name string, handler any) {
	if handler == nil {
		return
	}
	key := propKey(name)
	if node.Props == nil {
		node.Props = make(Props)
	}
	switch existing := node.Props[key].(type) {
	case nil:
		node.Props[key] = handler
	case []any:
		node.Props[key] = append(existing, handler)
	default:
		node.Props[key] = []any{existing, handler}
	}
}

// Handlers returns the handlers attached to node for the event name.
func Handlers(node *VNode, name string) []any {
	if node == nil || node.Props == nil {
		return nil
	}
	switch v := node.Props[propKey(name)].(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		if isHandlerValue(v) {
			return []any{v}
		}
		return nil
	}
}

// EventNames returns the event names (without "on") node has handlers for.
func EventNames(node *VNode) []string {
	var names []string
	for key, value := range node.Props {
		if strings.HasPrefix(key, "on") && isHandlerValue(value) {
			names = append(names, key[2:])
		}
	}
	return names
}

// IsHandler reports whether a prop value is an event handler
// (a supported func or a list of them).
func IsHandler(value any) bool {
	return isHandlerValue(value)
}

func isHandlerValue(value any) bool {
	switch v := value.(type) {
	case func(), func(*Event):
		return true
	case []any:
		for _, h := range v {
			if !isHandlerValue(h) {
				return false
			}
		}
		return len(v) > 0
	default:
		return false
	}
}

func propKey(name string) string {
	if strings.HasPrefix(name, "on") {
		return name
	}
	return "on" + name
}

// invoke calls one handler with the event.
func invoke(handler any, e *Event) {
	switch h := handler.(type) {
	case func(*Event):
		h(e)
	case func():
		h()
	}
}

// Fire runs node's own handlers for e without bubbling.
func Fire(node *VNode, e *Event) {
	e.CurrentTarget = node
	for _, h := range Handlers(node, e.Type) {
		invoke(h, e)
	}
}

// Dispatch delivers e to target and then bubbles it through target's
// ancestors within root, stopping after the node on which
// StopPropagation was called. If target is not inside root only target
// receives the event. It returns false if PreventDefault was called.
func Dispatch(root, target *VNode, e *Event) bool {
	if target == nil {
		return true
	}
	e.Target = target

	path := PathTo(root, target)
	if path == nil {
		path = []*VNode{target}
	}

	for i := len(path) - 1; i >= 0; i-- {
		Fire(path[i], e)
		if e.propagationStopped {
			break
		}
	}
	return !e.defaultPrevented
}

// Click dispatches a synthetic click on target inside root.
func Click(root, target *VNode) *Event {
	e := NewEvent("click")
	Dispatch(root, target, e)
	return e
}

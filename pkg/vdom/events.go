package vdom

// On creates a handler for any event type. The property name is "on"
// followed by the type. Types containing a dash use the "on-" form.
func On(eventType string, handler any) EventHandler {
	for i := 0; i < len(eventType); i++ {
		if eventType[i] == '-' {
			return EventHandler{Event: "on-" + eventType, Handler: handler}
		}
	}
	return EventHandler{Event: "on" + eventType, Handler: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler any) EventHandler { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) EventHandler { return On("dblclick", handler) }

// OnMouseDown handles mousedown events.
func OnMouseDown(handler any) EventHandler { return On("mousedown", handler) }

// OnMouseUp handles mouseup events.
func OnMouseUp(handler any) EventHandler { return On("mouseup", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler any) EventHandler { return On("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler any) EventHandler { return On("mouseleave", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) EventHandler { return On("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return On("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return On("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return On("blur", handler) }

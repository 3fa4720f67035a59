package vdom

import "strings"

// RefTarget receives the live node a VNode was reconciled to.
type RefTarget interface {
	SetCurrent(node any)
}

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity

// ID sets the id property.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Key sets the child identity used for keyed matching.
func Key(key any) Attr { return attr("key", key) }

// Ref receives the live node after reconciliation.
func Ref(target RefTarget) Attr { return attr("ref", target) }

// Is requests a customized built-in element.
func Is(name string) Attr { return attr("is", name) }

// ShadowDOM renders children into an open shadow root.
func ShadowDOM() Attr { return attr("shadowDom", true) }

// Style

// StyleMap sets inline style declarations one by one. Names are script
// names ("backgroundColor") or CSS names containing a dash ("--gap").
func StyleMap(decls map[string]any) Attr { return attr("style", decls) }

// StyleText replaces the whole inline style.
func StyleText(css string) Attr { return attr("style", css) }

// Generic

// Prop sets an arbitrary property or attribute.
func Prop(key string, value any) Attr { return attr(key, value) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// TitleAttr sets the title property.
func TitleAttr(title string) Attr { return attr("title", title) }

// Hidden hides the element.
func Hidden(hidden bool) Attr { return attr("hidden", hidden) }

// Links and media

// Href sets the href property.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt property.
func Alt(text string) Attr { return attr("alt", text) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Forms

// Name sets the name property.
func Name(name string) Attr { return attr("name", name) }

// Value sets the controlled value of a form control.
func Value(value any) Attr { return attr("value", value) }

// InputType sets the type attribute.
func InputType(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder property.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Checked sets the controlled checked state.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Selected sets the controlled selected state of an option.
func Selected(selected bool) Attr { return attr("selected", selected) }

// Disabled disables the control.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// For sets the label target.
func For(id string) Attr { return attr("htmlFor", id) }

// SVG

// ViewBox sets the viewBox attribute.
func ViewBox(box string) Attr { return attr("viewBox", box) }

// D sets the path data attribute.
func D(path string) Attr { return attr("d", path) }

// Fill sets the fill attribute.
func Fill(color string) Attr { return attr("fill", color) }

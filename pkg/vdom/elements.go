package vdom

// Attr is a single property.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler is an event property.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // func(*host.Event) or func()
}

// El creates an element VNode from variadic arguments.
// Arguments can be: nil, Attr, []Attr, EventHandler, Props, or anything H
// accepts as a child.
func El(tag string, args ...any) *VNode {
	var props Props
	set := func(k string, v any) {
		if props == nil {
			props = make(Props)
		}
		props[k] = v
	}

	children := make([]any, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if !v.IsEmpty() {
				set(v.Key, v.Value)
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					set(a.Key, a.Value)
				}
			}
		case EventHandler:
			set(v.Event, v.Handler)
		case Props:
			for k, val := range v {
				set(k, val)
			}
		default:
			children = append(children, v)
		}
	}
	return H(tag, props, children...)
}

// Host creates the passthrough VNode for the node being rendered into.
// Its properties and children apply to the render target itself.
func Host(args ...any) *VNode { return El(HostTagName, args...) }

// Document structure and sectioning

func Header(args ...any) *VNode  { return El("header", args...) }
func Footer(args ...any) *VNode  { return El("footer", args...) }
func Main(args ...any) *VNode    { return El("main", args...) }
func Nav(args ...any) *VNode     { return El("nav", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
func Article(args ...any) *VNode { return El("article", args...) }
func Aside(args ...any) *VNode   { return El("aside", args...) }
func H1(args ...any) *VNode      { return El("h1", args...) }
func H2(args ...any) *VNode      { return El("h2", args...) }
func H3(args ...any) *VNode      { return El("h3", args...) }

// Text content

func Div(args ...any) *VNode  { return El("div", args...) }
func P(args ...any) *VNode    { return El("p", args...) }
func Span(args ...any) *VNode { return El("span", args...) }
func Pre(args ...any) *VNode  { return El("pre", args...) }
func Ul(args ...any) *VNode   { return El("ul", args...) }
func Ol(args ...any) *VNode   { return El("ol", args...) }
func Li(args ...any) *VNode   { return El("li", args...) }
func Hr(args ...any) *VNode   { return El("hr", args...) }
func Br(args ...any) *VNode   { return El("br", args...) }

// Inline text

func A(args ...any) *VNode      { return El("a", args...) }
func Strong(args ...any) *VNode { return El("strong", args...) }
func Em(args ...any) *VNode     { return El("em", args...) }
func Code(args ...any) *VNode   { return El("code", args...) }
func Slot(args ...any) *VNode   { return El("slot", args...) }

// Forms

func Form(args ...any) *VNode     { return El("form", args...) }
func Label(args ...any) *VNode    { return El("label", args...) }
func Input(args ...any) *VNode    { return El("input", args...) }
func Button(args ...any) *VNode   { return El("button", args...) }
func Select(args ...any) *VNode   { return El("select", args...) }
func Option(args ...any) *VNode   { return El("option", args...) }
func Textarea(args ...any) *VNode { return El("textarea", args...) }

// Embedded content

func Img(args ...any) *VNode      { return El("img", args...) }
func Template(args ...any) *VNode { return El("template", args...) }

// Style creates a style element. Only text children are kept.
func Style(args ...any) *VNode { return El("style", args...) }

// SVG

func Svg(args ...any) *VNode      { return El("svg", args...) }
func G(args ...any) *VNode        { return El("g", args...) }
func Path(args ...any) *VNode     { return El("path", args...) }
func Circle(args ...any) *VNode   { return El("circle", args...) }
func Rect(args ...any) *VNode     { return El("rect", args...) }
func Line(args ...any) *VNode     { return El("line", args...) }
func SvgText(args ...any) *VNode  { return El("text", args...) }
func Polyline(args ...any) *VNode { return El("polyline", args...) }

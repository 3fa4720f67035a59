// Package vdom builds description trees for the reconciler.
//
// A VNode describes one host node: an element by tag name, a live host
// node passed through as a raw handle, or a text value. VNodes are built
// fresh on every render pass and are never mutated after construction.
//
// # Building trees
//
// H is the primitive factory. It takes a type, a property map and any
// number of children, which are flattened:
//
//	H("ul", Props{"class": "list"},
//	    H("li", Props{"key": 1}, "one"),
//	    H("li", Props{"key": 2}, "two"),
//	)
//
// El and the generated element helpers accept the same arguments in the
// variadic style, where Attr and EventHandler values become properties:
//
//	Div(Class("card"), OnClick(func() { ... }),
//	    Span(Text("Title")),
//	)
//
// # Identity
//
// A child with a non-nil key gives its parent a KeyIndex and switches the
// parent's children to keyed matching. Only VNodes built by this package
// are accepted by the reconciler; values built by other means are ignored.
package vdom

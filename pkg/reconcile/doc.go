// Package reconcile applies VNode trees to a live host tree.
//
// The Engine diffs each new VNode against the render record it stored for
// the same host node under the same pass ID and issues the minimum host
// operations: node creation or reuse, property/attribute/event/style
// patching, and keyed or positional child matching.
//
// Pass IDs isolate independent render roots that share host nodes. Each
// root renders under its own ID (see NewPassID); the package-level Render
// uses DefaultPass and a shared default engine.
//
//	root := doc.CreateElement("div", "")
//	reconcile.Render(vdom.Host(vdom.Ul(items...)), root)
//
// Render records are kept in an engine-owned side table. Records of nodes
// the engine removes or replaces are dropped with them.
package reconcile

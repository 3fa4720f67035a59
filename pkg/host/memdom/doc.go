// Package memdom is an in-memory implementation of the host tree.
//
// It follows document-object-model semantics closely enough for the
// reconciler to be exercised without a browser: inserting an attached node
// moves it, elements expose native properties per tag (input value and
// checked, option selected, reflected id/className/title, ...), unknown
// property assignments become expando properties, inline style keeps an
// ordered declaration list, and events bubble through parents.
//
// Every mutation is appended to an ordered log and pushed to observers, so
// tests can assert exactly which host operations a pass performed:
//
//	doc := memdom.New()
//	root := doc.CreateElement("div", "")
//	doc.ResetMutations()
//
//	reconcile.Render(vdom.H("host", nil, "hello"), root)
//
//	doc.Count(memdom.MutCreateText) // 1
//	memdom.OuterHTML(root)          // <div>hello</div>
//
// All methods are safe for concurrent use; observers are invoked while the
// document lock is held and must not call back into the document.
package memdom

// Package errors provides structured, coded errors for livetree.
//
// Every error carries a short code (e.g. "E002") that maps to a registered
// template with a category, a one-line message and a longer explanation.
// Errors compare equal under errors.Is when their codes match, so callers
// can test for a class of failure without string matching:
//
//	if errors.Is(err, hooks.ErrHookOrder) {
//	    ...
//	}
//
// # Error Categories
//
//   - runtime: render-time failures (hook order, hooks outside render)
//   - document: tree document parsing and building
//   - config: livetree.json loading and validation
//   - sink: snapshot storage
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E002").
//	    WithDetail("expected 3 hooks, got 2").
//	    WithSuggestion("Call hooks unconditionally at the top of the render function")
//
//	fmt.Println(err.Format())
package errors

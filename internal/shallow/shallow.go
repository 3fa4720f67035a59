// Package shallow compares dependency lists the way hooks expect:
// element by element, with reference identity for maps, slices, functions
// and channels and == for everything else.
package shallow

import "reflect"

// Equal reports whether a and b hold pairwise identical elements.
// A nil list is never equal to anything, including another nil list.
func Equal(a, b []any) bool {
	if a == nil || b == nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Same compares two values by identity for reference kinds and by == for
// comparable values. Uncomparable values that are not references are
// never the same.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		if ta.Kind() == reflect.Slice && va.Len() != vb.Len() {
			return false
		}
		return va.UnsafePointer() == vb.UnsafePointer()
	}
	if !ta.Comparable() {
		return false
	}
	return equal(a, b)
}

// equal is a == b, false when a comparable type holds an uncomparable
// interface value.
func equal(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// Copy returns a snapshot of deps, preserving nil.
func Copy(deps []any) []any {
	if deps == nil {
		return nil
	}
	out := make([]any, len(deps))
	copy(out, deps)
	return out
}

// Package hooks runs render bodies with per-instance, order-stable state.
//
// A Controller owns an ordered list of slots. Each hook call inside a
// render body claims the next slot, so hooks must be called in the same
// order on every render. Slots receive lifecycle phases:
//
//	Load (first)   Mount      for each slot as it is accessed
//	Load (later)   Update     for each slot as it is accessed
//	Updated        Mounted on the first call, then Updated, to every slot
//	Unmount        Unmount to every slot
//
// UseHook is the generic slot accessor; the built-ins UseState, UseEffect,
// UseRef, UseMemo, UseReducer and UseCallback are written on top of it.
//
// Calling a hook outside a render body panics with E001. Calling hooks in
// a different order after the first load is an error: Load returns
// ErrHookOrder.
package hooks

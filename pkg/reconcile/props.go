package reconcile

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/vdom"
)

// controlledProps are read back from the live node before comparing, so
// user edits are detected.
var controlledProps = map[string]bool{
	"id":        true,
	"className": true,
	"checked":   true,
	"value":     true,
	"selected":  true,
}

// attrProps are always written as attributes even when the element has a
// property of the same name.
var attrProps = map[string]bool{
	"list":   true,
	"type":   true,
	"size":   true,
	"form":   true,
	"width":  true,
	"height": true,
	"src":    true,
}

// reservedProps are consumed by the factory and never applied.
var reservedProps = map[string]bool{
	"shadowDom": true,
	"is":        true,
	"children":  true,
}

// patchProperties applies the difference between prev and next to el.
// Keys only in prev are processed first with a nil value.
func (e *Engine) patchProperties(el host.Element, prev, next vdom.Props, handlers *Handlers, svg bool) {
	for _, key := range sortedKeys(prev) {
		if _, ok := next[key]; !ok {
			e.setProperty(el, key, prev[key], nil, handlers, svg)
		}
	}
	for _, key := range sortedKeys(next) {
		e.setProperty(el, key, prev[key], next[key], handlers, svg)
	}
}

func (e *Engine) setProperty(el host.Element, key string, prev, next any, handlers *Handlers, svg bool) {
	if key == "class" && !svg {
		key = "className"
	}
	if reservedProps[key] {
		return
	}
	if controlledProps[key] && el.HasProperty(key) {
		prev = el.Property(key)
	}
	if valuesEqual(prev, next) {
		return
	}

	switch {
	case isEventKey(key) && (isFunc(next) || isFunc(prev)):
		added, removed := handlers.set(eventType(key), next)
		if added {
			e.observer.ObserveMutation(OpAddListener)
		}
		if removed {
			e.observer.ObserveMutation(OpRemoveListener)
		}

	case key == "key":
		e.setKey(el, vdom.NormalizeKey(next))

	case key == "ref":
		if t, ok := next.(vdom.RefTarget); ok && t != nil {
			t.SetCurrent(el)
			e.observer.ObserveMutation(OpSetRef)
		}

	case key == "style":
		e.patchStyle(el.Style(), prev, next)

	case (!svg && !attrProps[key] && el.HasProperty(key)) || isFunc(next) || isFunc(prev):
		if next == nil {
			next = ""
		}
		el.SetProperty(key, next)
		e.observer.ObserveMutation(OpSetProp)

	case next == nil:
		el.RemoveAttribute(key)
		e.observer.ObserveMutation(OpRemoveAttr)

	default:
		el.SetAttribute(key, attrString(next))
		e.observer.ObserveMutation(OpSetAttr)
	}
}

// patchStyle diffs style maps key by key. A string value replaces the
// whole declaration text.
func (e *Engine) patchStyle(st host.Style, prev, next any) {
	prevMap, prevIsMap := styleMap(prev)
	nextMap, nextIsMap := styleMap(next)

	if prevIsMap && nextIsMap {
		for _, k := range sortedKeys(prevMap) {
			if _, ok := nextMap[k]; !ok {
				setStyleProperty(st, k, nil)
				e.observer.ObserveMutation(OpStyle)
			}
		}
	}

	if !nextIsMap {
		text := ""
		if next != nil {
			text = scalarString(next)
		}
		st.SetCSSText(text)
		e.observer.ObserveMutation(OpStyle)
		return
	}
	for _, k := range sortedKeys(nextMap) {
		v := nextMap[k]
		if prevIsMap && valuesEqual(prevMap[k], v) {
			continue
		}
		setStyleProperty(st, k, v)
		e.observer.ObserveMutation(OpStyle)
	}
}

// setStyleProperty sets one declaration. Names containing a dash are CSS
// names, others are script names.
func setStyleProperty(st host.Style, name string, value any) {
	text := ""
	if value != nil {
		text = scalarString(value)
	}
	if strings.Contains(name, "-") {
		if text == "" {
			st.RemoveProperty(name)
		} else {
			st.SetProperty(name, text, "")
		}
		return
	}
	st.Set(name, text)
}

func styleMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case vdom.Props:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// valuesEqual compares property values by value. Functions are never
// equal so handlers are always refreshed.
func valuesEqual(a, b any) bool {
	if isFunc(a) || isFunc(b) {
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// attrString formats an attribute value. Maps, slices and structs are
// written as JSON.
func attrString(v any) string {
	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

func isNilFunc(v any) bool {
	return reflect.ValueOf(v).IsNil()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

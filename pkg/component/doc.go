// Package component binds a render function to a host element.
//
// An Instance owns a hooks controller, a render pass ID and a scheduler.
// Every pass loads the controller around the render function, reconciles
// the resulting tree onto the host element and then dispatches the
// controller's Mounted or Updated phase:
//
//	def := component.Definition{
//	    Name:  "counter",
//	    Props: []string{"label"},
//	    Render: func(v component.View) *vdom.VNode {
//	        count := hooks.UseState(0)
//	        return vdom.Host(
//	            vdom.OnClick(func() { count.Update(func(n int) int { return n + 1 }) }),
//	            vdom.Textf("%v: %d", v.Props["label"], count.Get()),
//	        )
//	    },
//	}
//	inst := component.New(def, el, queue)
//	inst.Mount()
//
// State changes made through SetState, SetProps or hook setters during one
// turn of the queue collapse into a single pass.
package component

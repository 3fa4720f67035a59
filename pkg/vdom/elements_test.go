package vdom

import "testing"

func TestEl(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Tag() != "div" {
			t.Errorf("Tag = %v, want div", node.Tag())
		}
		if node.Props != nil {
			t.Errorf("Props = %v, want nil", node.Props)
		}
	})

	t.Run("attributes and children", func(t *testing.T) {
		node := Div(Class("card", "big"), ID("main"), P(Text("Hello")), "tail")
		if node.Props["class"] != "card big" {
			t.Errorf("class = %v, want card big", node.Props["class"])
		}
		if node.Props["id"] != "main" {
			t.Errorf("id = %v, want main", node.Props["id"])
		}
		if len(node.Children) != 2 {
			t.Fatalf("Children len = %v, want 2", len(node.Children))
		}
		if node.Children[0].Tag() != "p" {
			t.Errorf("Child tag = %v, want p", node.Children[0].Tag())
		}
	})

	t.Run("attr slice and props", func(t *testing.T) {
		node := Span([]Attr{Prop("title", "t"), {}}, Props{"data-x": 1}, nil)
		if node.Props["title"] != "t" || node.Props["data-x"] != 1 {
			t.Errorf("Props = %v", node.Props)
		}
		if _, ok := node.Props[""]; ok {
			t.Error("empty attr should be ignored")
		}
	})

	t.Run("key from attr", func(t *testing.T) {
		node := Ul(Li(Key("a")), Li(Key("b")))
		if !node.Keys.Has("a") || !node.Keys.Has("b") {
			t.Errorf("Keys = %v", node.Keys)
		}
	})

	t.Run("host passthrough", func(t *testing.T) {
		node := Host(ShadowDOM(), Slot())
		if !node.IsHost() {
			t.Error("IsHost() = false, want true")
		}
		if !node.Shadow {
			t.Error("Shadow = false, want true")
		}
	})
}

func TestEventHandlers(t *testing.T) {
	called := false
	h := OnClick(func() { called = true })
	if h.Event != "onclick" {
		t.Errorf("Event = %v, want onclick", h.Event)
	}
	h.Handler.(func())()
	if !called {
		t.Error("handler not stored")
	}

	if got := On("my-event", nil).Event; got != "on-my-event" {
		t.Errorf("On(my-event).Event = %v, want on-my-event", got)
	}

	node := Button(OnInput(func() {}))
	if _, ok := node.Props["oninput"]; !ok {
		t.Error("oninput prop missing")
	}
}

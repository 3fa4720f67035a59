package vdom

import (
	"strconv"
	"testing"

	"github.com/vango-dev/livetree/pkg/host/memdom"
)

type label string

func (l label) String() string { return "label:" + string(l) }

type counter struct{ n int }

func (c *counter) String() string { return "count:" + strconv.Itoa(c.n) }

func TestH(t *testing.T) {
	t.Run("tag element", func(t *testing.T) {
		node := H("div", Props{"id": "a"})
		if node.Type.Kind() != KindTag {
			t.Errorf("Kind = %v, want Tag", node.Type.Kind())
		}
		if node.Tag() != "div" {
			t.Errorf("Tag = %v, want div", node.Tag())
		}
		if !node.Stamped() {
			t.Error("factory node should be stamped")
		}
		if node.Keys != nil {
			t.Errorf("Keys = %v, want nil", node.Keys)
		}
	})

	t.Run("flattens and drops", func(t *testing.T) {
		fn := func() {}
		node := H("div", nil,
			"a",
			[]any{nil, true, false, fn, []string{"b", "c"}},
			[]*VNode{H("span", nil), nil},
			7,
			label("x"),
			struct{}{},
		)
		want := []string{`"a"`, `"b"`, `"c"`, "<span>", `"7"`, `"label:x"`}
		if len(node.Children) != len(want) {
			t.Fatalf("Children len = %v, want %v (%v)", len(node.Children), len(want), node.Children)
		}
		for i, w := range want {
			if got := node.Children[i].Type.String(); got != w {
				t.Errorf("Children[%d] = %v, want %v", i, got, w)
			}
		}
	})

	t.Run("nil stringer pointer", func(t *testing.T) {
		var missing *counter
		node := H("div", nil, missing, &counter{n: 2})
		if len(node.Children) != 1 || node.Children[0].Text() != "count:2" {
			t.Errorf("Children = %v, want [count:2]", node.Children)
		}
	})

	t.Run("children prop", func(t *testing.T) {
		node := H("p", Props{"children": []any{"x", "y"}})
		if len(node.Children) != 2 {
			t.Errorf("Children len = %v, want 2", len(node.Children))
		}
		node = H("p", Props{"children": "ignored"}, "z")
		if len(node.Children) != 1 || node.Children[0].Text() != "z" {
			t.Errorf("Children = %v, want [z]", node.Children)
		}
	})

	t.Run("reserved props", func(t *testing.T) {
		node := H("button", Props{"key": 3, "shadowDom": true, "is": "fancy-button"})
		if node.Key != 3 {
			t.Errorf("Key = %v, want 3", node.Key)
		}
		if !node.Shadow {
			t.Error("Shadow = false, want true")
		}
		if node.Is != "fancy-button" {
			t.Errorf("Is = %q, want fancy-button", node.Is)
		}
	})

	t.Run("uncomparable key", func(t *testing.T) {
		node := H("li", Props{"key": []int{1}})
		if node.Key != "[1]" {
			t.Errorf("Key = %v, want [1]", node.Key)
		}
	})

	t.Run("raw handle", func(t *testing.T) {
		el := memdom.New().CreateElement("section", "")
		node := H(el, nil)
		if !node.IsRawHandle() {
			t.Fatal("IsRawHandle() = false, want true")
		}
		if node.Type.Handle() != el {
			t.Error("Handle() should be the live node")
		}
	})

	t.Run("nil type is text", func(t *testing.T) {
		node := H(nil, nil, "a", 1)
		if !node.IsText() || node.Text() != "a1" {
			t.Errorf("node = %v, want text a1", node)
		}
	})
}

func TestKeyIndex(t *testing.T) {
	node := H("ul", nil,
		H("li", Props{"key": "a"}),
		H("li", nil),
		H("li", Props{"key": "b"}),
	)
	if node.Keys == nil {
		t.Fatal("Keys = nil, want index")
	}
	if len(node.Keys) != 2 || !node.Keys.Has("a") || !node.Keys.Has("b") {
		t.Errorf("Keys = %v, want {a b}", node.Keys)
	}
	if len(node.Children) != 3 {
		t.Errorf("Children len = %v, want 3", len(node.Children))
	}
}

func TestStyleSanitize(t *testing.T) {
	node := H("style", nil, "a {", H("b", nil, "x"), Text(" color: red"), " }")
	if len(node.Children) != 1 {
		t.Fatalf("Children len = %v, want 1", len(node.Children))
	}
	if got := node.Children[0].Text(); got != "a { color: red }" {
		t.Errorf("text = %q", got)
	}

	empty := H("style", nil, H("b", nil))
	if len(empty.Children) != 0 {
		t.Errorf("Children len = %v, want 0", len(empty.Children))
	}
}

func TestForeignNode(t *testing.T) {
	v := &VNode{Type: HostTag("div")}
	if v.Stamped() {
		t.Error("literal VNode should not be stamped")
	}
	var nilNode *VNode
	if nilNode.Stamped() || nilNode.IsText() || nilNode.Tag() != "" {
		t.Error("nil VNode accessors should be zero")
	}
}

func TestTypeKindString(t *testing.T) {
	tests := []struct {
		kind TypeKind
		want string
	}{
		{KindTag, "Tag"},
		{KindRawHandle, "RawHandle"},
		{KindText, "Text"},
		{TypeKind(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

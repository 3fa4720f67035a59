// Package treedoc reads tree documents written in YAML or JSON.
//
// A document is either a single node or a mapping with a list of steps,
// each a root node rendered in turn onto the same target:
//
//	name: todo
//	steps:
//	  - type: host
//	    children:
//	      - type: ul
//	        children:
//	          - {type: li, key: a, children: [Alpha]}
//	          - {type: li, key: b, children: [Beta]}
//
// A node is a scalar, which becomes a text node, or a mapping with the
// fields type, key, is, shadow, props and children.
package treedoc

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	errs "github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/vdom"
)

// Document is a decoded tree document.
type Document struct {
	Name  string
	Steps []*Node
}

// Node is one node of a tree document.
type Node struct {
	// Text holds the value of a text node.
	Text   string
	IsText bool

	Type     string
	Key      any
	Is       string
	Shadow   bool
	Props    map[string]any
	Children []*Node

	// Line is the source line of the node.
	Line int
}

type rawNode struct {
	Type     string         `yaml:"type"`
	Key      any            `yaml:"key"`
	Is       string         `yaml:"is"`
	Shadow   bool           `yaml:"shadow"`
	Props    map[string]any `yaml:"props"`
	Children []*Node        `yaml:"children"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	n.Line = value.Line
	switch value.Kind {
	case yaml.ScalarNode:
		n.IsText = true
		n.Text = value.Value
		return nil
	case yaml.MappingNode:
		var raw rawNode
		if err := value.Decode(&raw); err != nil {
			return errs.New("E031").WithDetailf("line %d", value.Line).Wrap(err)
		}
		if raw.Type == "" {
			return errs.New("E031").WithDetailf("line %d: missing type", value.Line)
		}
		n.Type = raw.Type
		n.Key = raw.Key
		n.Is = raw.Is
		n.Shadow = raw.Shadow
		n.Props = raw.Props
		n.Children = raw.Children
		return nil
	default:
		return errs.New("E031").WithDetailf("line %d: unexpected %s", value.Line, kindName(value.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return fmt.Sprintf("node kind %d", k)
	}
}

// Parse decodes a document. Invalid YAML yields E030, invalid nodes E031.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errs.New("E030").Wrap(err)
	}
	if len(root.Content) == 0 {
		return nil, errs.New("E030").WithDetail("empty document")
	}
	body := root.Content[0]

	doc := &Document{}
	if body.Kind == yaml.MappingNode && hasKey(body, "steps") {
		var raw struct {
			Name  string  `yaml:"name"`
			Steps []*Node `yaml:"steps"`
		}
		if err := body.Decode(&raw); err != nil {
			return nil, classify(err)
		}
		doc.Name = raw.Name
		doc.Steps = raw.Steps
	} else {
		var n Node
		if err := body.Decode(&n); err != nil {
			return nil, classify(err)
		}
		doc.Steps = []*Node{&n}
	}

	for i, s := range doc.Steps {
		if s == nil {
			return nil, errs.New("E031").WithDetailf("step %d is empty", i)
		}
	}
	return doc, nil
}

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New("E030").WithDetail(path).Wrap(err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func classify(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}
	return errs.New("E030").Wrap(err)
}

// Build converts n into a VNode.
func (n *Node) Build() *vdom.VNode {
	if n.IsText {
		return vdom.Text(n.Text)
	}

	props := make(vdom.Props, len(n.Props)+3)
	for k, v := range n.Props {
		props[k] = v
	}
	if n.Key != nil {
		props["key"] = n.Key
	}
	if n.Shadow {
		props["shadowDom"] = true
	}
	if n.Is != "" {
		props["is"] = n.Is
	}

	children := make([]any, 0, len(n.Children))
	for _, c := range n.Children {
		if c != nil {
			children = append(children, c.Build())
		}
	}
	return vdom.H(n.Type, props, children...)
}

// Build converts every step into a VNode.
func (d *Document) Build() []*vdom.VNode {
	out := make([]*vdom.VNode, len(d.Steps))
	for i, s := range d.Steps {
		out[i] = s.Build()
	}
	return out
}

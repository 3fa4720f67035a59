package memdom

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/livetree/pkg/host"
)

// memNode is implemented by every node type of this package.
type memNode interface {
	host.Node
	base() *nodeBase
}

// container is a node holding children: *Element or *ShadowRoot.
type container interface {
	memNode
	host.Parent
	kids() *[]host.Node
}

type nodeBase struct {
	id     uint64
	doc    *Document
	parent container
}

func (b *nodeBase) init(d *Document) {
	b.doc = d
	b.id = d.allocID()
}

func (b *nodeBase) base() *nodeBase { return b }

// ID returns the document-unique node identifier used in mutation records.
func (b *nodeBase) ID() uint64 { return b.id }

// OwnerDocument implements host.Node.
func (b *nodeBase) OwnerDocument() host.Document { return b.doc }

func (b *nodeBase) parentNode() host.Parent {
	b.doc.mu.Lock()
	defer b.doc.mu.Unlock()
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func asMem(n host.Node) memNode {
	m, ok := n.(memNode)
	if !ok {
		panic(fmt.Sprintf("memdom: foreign node %T", n))
	}
	return m
}

func indexOf(list []host.Node, n host.Node) int {
	for i, c := range list {
		if c == n {
			return i
		}
	}
	return -1
}

// detach unlinks n from its parent without recording. Caller holds the lock.
func detach(n memNode) {
	b := n.base()
	if b.parent == nil {
		return
	}
	list := b.parent.kids()
	if i := indexOf(*list, n); i >= 0 {
		copy((*list)[i:], (*list)[i+1:])
		(*list)[len(*list)-1] = nil
		*list = (*list)[:len(*list)-1]
	}
	b.parent = nil
}

func childCount(p container) int {
	d := p.base().doc
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(*p.kids())
}

func childAt(p container, i int) host.Node {
	d := p.base().doc
	d.mu.Lock()
	defer d.mu.Unlock()
	list := *p.kids()
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

func insertBefore(p container, child, ref host.Node) {
	d := p.base().doc
	d.mu.Lock()
	defer d.mu.Unlock()

	c := asMem(child)
	if ref == child {
		return
	}
	moved := c.base().parent != nil
	detach(c)

	list := p.kids()
	idx := len(*list)
	if ref != nil {
		if i := indexOf(*list, ref); i >= 0 {
			idx = i
		}
	}
	*list = append(*list, nil)
	copy((*list)[idx+1:], (*list)[idx:])
	(*list)[idx] = child
	c.base().parent = p

	kind := MutInsert
	if moved {
		kind = MutMove
	}
	d.record(Mutation{
		Kind:    kind,
		Target:  c.base().id,
		Node:    describe(c),
		Related: p.base().id,
		Value:   strconv.Itoa(idx),
	})
}

func replaceChild(p container, newChild, oldChild host.Node) {
	d := p.base().doc
	d.mu.Lock()
	defer d.mu.Unlock()

	if newChild == oldChild {
		return
	}
	nc := asMem(newChild)
	oc := asMem(oldChild)
	if oc.base().parent != p {
		panic("memdom: ReplaceChild: old child is not a child of this node")
	}
	detach(nc)

	list := p.kids()
	idx := indexOf(*list, oldChild)
	(*list)[idx] = newChild
	nc.base().parent = p
	oc.base().parent = nil

	d.record(Mutation{
		Kind:    MutReplace,
		Target:  nc.base().id,
		Node:    describe(nc),
		Related: oc.base().id,
		Value:   strconv.Itoa(idx),
	})
}

func remove(n memNode) {
	d := n.base().doc
	d.mu.Lock()
	defer d.mu.Unlock()

	parent := n.base().parent
	if parent == nil {
		return
	}
	detach(n)
	d.record(Mutation{
		Kind:    MutRemove,
		Target:  n.base().id,
		Node:    describe(n),
		Related: parent.base().id,
	})
}

// Text is a text node.
type Text struct {
	nodeBase
	data string
}

var _ host.Text = (*Text)(nil)

// NodeType implements host.Node.
func (t *Text) NodeType() host.NodeType { return host.TextNode }

// ParentNode implements host.Node.
func (t *Text) ParentNode() host.Parent { return t.parentNode() }

// Remove implements host.Node.
func (t *Text) Remove() { remove(t) }

// Data implements host.Text.
func (t *Text) Data() string {
	t.doc.mu.Lock()
	defer t.doc.mu.Unlock()
	return t.data
}

// SetData implements host.Text.
func (t *Text) SetData(data string) {
	t.doc.mu.Lock()
	defer t.doc.mu.Unlock()
	t.data = data
	t.doc.record(Mutation{Kind: MutSetText, Target: t.id, Node: describe(t), Value: data})
}

// ShadowRoot is the root of an element's shadow tree.
type ShadowRoot struct {
	nodeBase
	host     *Element
	mode     host.ShadowMode
	children []host.Node
}

var _ host.Parent = (*ShadowRoot)(nil)

func (s *ShadowRoot) kids() *[]host.Node { return &s.children }

// NodeType implements host.Node.
func (s *ShadowRoot) NodeType() host.NodeType { return host.FragmentNode }

// ParentNode implements host.Node. Shadow roots have no parent.
func (s *ShadowRoot) ParentNode() host.Parent { return nil }

// Remove implements host.Node. Shadow roots cannot be detached.
func (s *ShadowRoot) Remove() {}

// Host returns the element the shadow root is attached to.
func (s *ShadowRoot) Host() *Element { return s.host }

// Mode returns the encapsulation mode.
func (s *ShadowRoot) Mode() host.ShadowMode { return s.mode }

// ChildCount implements host.Parent.
func (s *ShadowRoot) ChildCount() int { return childCount(s) }

// ChildAt implements host.Parent.
func (s *ShadowRoot) ChildAt(i int) host.Node { return childAt(s, i) }

// InsertBefore implements host.Parent.
func (s *ShadowRoot) InsertBefore(child, ref host.Node) { insertBefore(s, child, ref) }

// ReplaceChild implements host.Parent.
func (s *ShadowRoot) ReplaceChild(newChild, oldChild host.Node) {
	replaceChild(s, newChild, oldChild)
}

// AppendChild implements host.Parent.
func (s *ShadowRoot) AppendChild(child host.Node) { insertBefore(s, child, nil) }

// Package scene is a small retained SVG scene graph. Charts create and
// update elements through it, reconcile keyed data against existing
// elements, and register pointer handlers that hosts dispatch into.
package scene

import (
	"slices"
	"strconv"
	"strings"
)

// Attrs is a set of attribute assignments. An empty value removes the
// attribute.
type Attrs map[string]string

type attr struct {
	name  string
	value string
}

// Node is one element in the scene.
type Node struct {
	tag      string
	attrs    []attr
	text     string
	parent   *Node
	children []*Node

	key   string
	bound bool

	tx, ty   float64
	handlers map[EventType]Handler
}

// Tag returns the element name.
func (n *Node) Tag() string { return n.tag }

// Parent returns the parent element, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the element's children in document order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Text returns the element's text content.
func (n *Node) Text() string { return n.text }

// Key returns the data key the element is bound to.
func (n *Node) Key() string { return n.key }

// Attr returns an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// HasClass reports whether class is one of the element's classes.
func (n *Node) HasClass(class string) bool {
	v, ok := n.Attr("class")
	if !ok {
		return false
	}
	return slices.Contains(strings.Fields(v), class)
}

func (n *Node) setAttr(name, value string) {
	for i, a := range n.attrs {
		if a.name != name {
			continue
		}
		if value == "" {
			n.attrs = slices.Delete(n.attrs, i, i+1)
		} else {
			n.attrs[i].value = value
		}
		return
	}
	if value != "" {
		n.attrs = append(n.attrs, attr{name: name, value: value})
	}
}

// Graph owns a tree of elements rooted at an <svg> element.
type Graph struct {
	root *Node
}

// New creates a graph with an empty root <svg> element.
func New() *Graph {
	root := &Node{tag: "svg"}
	root.setAttr("xmlns", "http://www.w3.org/2000/svg")
	return &Graph{root: root}
}

// Root returns the root <svg> element.
func (g *Graph) Root() *Node { return g.root }

// CreateElement appends a new element to parent.
func (g *Graph) CreateElement(tag string, parent *Node) *Node {
	if parent == nil {
		parent = g.root
	}
	n := &Node{tag: tag, parent: parent}
	parent.children = append(parent.children, n)
	return n
}

// SetAttributes applies attrs to el. New attributes are added in name order
// so output does not depend on map iteration.
func (g *Graph) SetAttributes(el *Node, attrs Attrs) {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		el.setAttr(name, attrs[name])
	}
}

// SetText replaces the element's text content.
func (g *Graph) SetText(el *Node, text string) {
	el.text = text
}

// Translate positions el at (x, y) in its parent's coordinate system and
// records the offset for ToLocal.
func (g *Graph) Translate(el *Node, x, y float64) {
	el.tx, el.ty = x, y
	if x == 0 && y == 0 {
		el.setAttr("transform", "")
		return
	}
	el.setAttr("transform", "translate("+formatFloat(x)+","+formatFloat(y)+")")
}

// ToLocal converts document coordinates into el's coordinate system by
// undoing the translations of el's ancestors.
func (g *Graph) ToLocal(el *Node, x, y float64) (float64, float64) {
	for p := el.parent; p != nil; p = p.parent {
		x -= p.tx
		y -= p.ty
	}
	return x, y
}

// Remove detaches el from its parent.
func (g *Graph) Remove(el *Node) {
	p := el.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, el); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	el.parent = nil
}

// Select returns the first descendant of parent carrying class, in document
// order, or nil.
func (g *Graph) Select(parent *Node, class string) *Node {
	for _, c := range parent.children {
		if c.HasClass(class) {
			return c
		}
		if found := g.Select(c, class); found != nil {
			return found
		}
	}
	return nil
}

// SelectAll returns every descendant of parent carrying class, in document
// order.
func (g *Graph) SelectAll(parent *Node, class string) []*Node {
	var out []*Node
	for _, c := range parent.children {
		if c.HasClass(class) {
			out = append(out, c)
		}
		out = append(out, g.SelectAll(c, class)...)
	}
	return out
}

// Join is the result of reconciling a list of data keys against the
// children of a parent element.
type Join struct {
	parent *Node
	class  string

	// Enter lists keys that have no element yet, in data order.
	Enter []string
	// Update lists existing elements whose key is still present, in data
	// order.
	Update []*Node
	// Exit lists existing elements whose key disappeared.
	Exit []*Node
}

// BindData reconciles keys against the direct children of parent carrying
// class. Duplicate keys bind once.
func (g *Graph) BindData(parent *Node, class string, keys []string) Join {
	j := Join{parent: parent, class: class}

	existing := make(map[string]*Node)
	for _, c := range parent.children {
		if c.bound && c.HasClass(class) {
			existing[c.key] = c
		}
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		if n, ok := existing[k]; ok {
			j.Update = append(j.Update, n)
		} else {
			j.Enter = append(j.Enter, k)
		}
	}
	for _, c := range parent.children {
		if c.bound && c.HasClass(class) && !seen[c.key] {
			j.Exit = append(j.Exit, c)
		}
	}
	return j
}

// Append creates one element per entering key under the join's parent,
// classed and bound so later joins find it. The created elements are
// returned in Enter order.
func (g *Graph) Append(j Join, tag string) []*Node {
	out := make([]*Node, 0, len(j.Enter))
	for _, k := range j.Enter {
		n := g.CreateElement(tag, j.parent)
		n.setAttr("class", j.class)
		n.key = k
		n.bound = true
		out = append(out, n)
	}
	return out
}

// RemoveUnbound removes the join's exiting elements.
func (g *Graph) RemoveUnbound(j Join) {
	for _, n := range j.Exit {
		g.Remove(n)
	}
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

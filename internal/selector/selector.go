// Package selector describes which parts of a JSON document a reader should
// materialize.
//
// A selection is an immutable tree of Nodes. Object nodes route property
// names to Prop children, Array nodes apply one item node to every element,
// Any keeps a whole value and None drops it. Trees are assembled with a
// Builder, from a YAML document or from a subset of JSONPath, and may be
// shared by any number of concurrent readers.
package selector

import (
	"strconv"
	"strings"
)

// Strategy is what a node does with the value it is applied to.
type Strategy uint8

const (
	// None discards the value.
	None Strategy = iota
	// Any keeps the value and everything under it.
	Any
	// Object matches an object and routes its properties to Prop children.
	Object
	// Prop is a named property of an Object node.
	Prop
	// Array matches an array and applies the item node to each element.
	Array
)

var strategyNames = [...]string{
	None:   "none",
	Any:    "any",
	Object: "object",
	Prop:   "prop",
	Array:  "array",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "strategy(" + strconv.Itoa(int(s)) + ")"
}

// Node is one vertex of a selection tree.
type Node struct {
	strategy Strategy
	name     string
	props    map[string]*Node
	order    []*Node
	value    *Node
	item     *Node
	parent   *Node
}

func (n *Node) Strategy() Strategy {
	return n.strategy
}

// Name is the property name of a Prop node.
func (n *Node) Name() string {
	return n.name
}

// Lookup returns the Prop child of an Object node matching name exactly, or
// nil when the property is not selected.
func (n *Node) Lookup(name []byte) *Node {
	return n.props[string(name)]
}

// Props lists the Prop children of an Object node in the order they were added.
func (n *Node) Props() []*Node {
	return n.order
}

// Value is the node governing the value of a Prop node.
func (n *Node) Value() *Node {
	return n.value
}

// Item is the node applied to every element of an Array node.
func (n *Node) Item() *Node {
	return n.item
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Root walks up to the node the tree was built from.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// String renders the tree in a compact form, e.g. {"a":any,"b":[none]}.
func (n *Node) String() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	switch n.strategy {
	case Object:
		sb.WriteByte('{')
		for i, p := range n.order {
			if i > 0 {
				sb.WriteByte(',')
			}
			p.render(sb)
		}
		sb.WriteByte('}')
	case Prop:
		sb.WriteString(strconv.Quote(n.name))
		sb.WriteByte(':')
		n.value.render(sb)
	case Array:
		sb.WriteByte('[')
		n.item.render(sb)
		sb.WriteByte(']')
	default:
		sb.WriteString(n.strategy.String())
	}
}

package selector

import (
	"fmt"
)

// Builder assembles the selection for one value position: the document root,
// a property value or the items of an array. Calls on the same position
// merge: Any wins over Object and Array, which win over None. Selecting one
// position both as an object and as an array is an error reported by Build.
type Builder struct {
	root     *Builder
	path     string
	strategy Strategy
	object   *ObjectBuilder
	item     *Builder
	err      error
}

// ObjectBuilder adds properties to an Object position.
type ObjectBuilder struct {
	owner *Builder
	names []string
	props map[string]*Builder
}

// New returns a builder for the document root. An untouched position
// selects nothing.
func New() *Builder {
	b := &Builder{path: "$"}
	b.root = b
	return b
}

func (b *Builder) child(path string) *Builder {
	return &Builder{root: b.root, path: path}
}

// Any keeps the whole value at this position. It returns the root builder.
func (b *Builder) Any() *Builder {
	b.strategy = Any
	return b.root
}

// None drops the value at this position unless another selection asks for
// more of it. It returns the root builder.
func (b *Builder) None() *Builder {
	return b.root
}

// Object selects the position as an object. Properties added under a
// position that already selects Any are accepted and ignored.
func (b *Builder) Object() *ObjectBuilder {
	switch b.strategy {
	case Any:
		return newObjectBuilder(b.child(b.path))
	case Array:
		b.root.fail(fmt.Errorf("%w: %s selected as both array and object", ErrMalformed, b.path))
		return newObjectBuilder(b.child(b.path))
	}

	if b.object == nil {
		b.strategy = Object
		b.object = newObjectBuilder(b)
	}
	return b.object
}

// Array selects the position as an array and returns the builder for its items.
func (b *Builder) Array() *Builder {
	switch b.strategy {
	case Any:
		return b.child(b.path + "[*]")
	case Object:
		b.root.fail(fmt.Errorf("%w: %s selected as both object and array", ErrMalformed, b.path))
		return b.child(b.path + "[*]")
	}

	if b.item == nil {
		b.strategy = Array
		b.item = b.child(b.path + "[*]")
	}
	return b.item
}

// Build freezes the whole tree, whichever position it is called on.
func (b *Builder) Build() (*Node, error) {
	root := b.root
	if root.err != nil {
		return nil, root.err
	}
	return root.build(nil), nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) build(parent *Node) *Node {
	n := &Node{strategy: b.strategy, parent: parent}

	switch b.strategy {
	case Object:
		n.props = make(map[string]*Node, len(b.object.names))
		n.order = make([]*Node, 0, len(b.object.names))
		for _, name := range b.object.names {
			prop := &Node{strategy: Prop, name: name, parent: n}
			prop.value = b.object.props[name].build(prop)
			n.props[name] = prop
			n.order = append(n.order, prop)
		}
	case Array:
		n.item = b.item.build(n)
	}

	return n
}

func newObjectBuilder(owner *Builder) *ObjectBuilder {
	return &ObjectBuilder{
		owner: owner,
		props: make(map[string]*Builder),
	}
}

// Prop returns the builder for the value of the named property. Asking for
// the same name again returns the same builder.
func (o *ObjectBuilder) Prop(name string) *Builder {
	if p, ok := o.props[name]; ok {
		return p
	}

	p := o.owner.child(propPath(o.owner.path, name))
	o.props[name] = p
	o.names = append(o.names, name)
	return p
}

// Build freezes the whole tree.
func (o *ObjectBuilder) Build() (*Node, error) {
	return o.owner.Build()
}

func propPath(parent, name string) string {
	if name == "" {
		return parent + "['']"
	}
	for i := range len(name) {
		if !idRune(name[i]) {
			return fmt.Sprintf("%s[%q]", parent, name)
		}
	}
	return parent + "." + name
}

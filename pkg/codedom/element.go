// Package codedom is the language-agnostic intermediate representation of a
// generated client: a single rooted tree of namespaces, classes, enums,
// properties, methods, parameters and using declarations.
//
// # Ownership
//
// Every element is owned by exactly one parent and attached through one of
// the Add* construction operations, which set the upward parent reference.
// The parent reference is non-owning and never followed by Walk.
//
// Cross references (Class.Inherits, Class.Implements, Type.Definition,
// discriminator targets, using declarations) are weak: they point at another
// element or at an external name and are never part of the ownership graph.
package codedom

// Element is a node of the tree. The set of implementations is closed:
// *Namespace, *Class, *Enum, *EnumOption, *Property, *Method, *Parameter and
// *Using.
type Element interface {
	// Parent returns the owning element, nil for the root namespace and for
	// detached elements.
	Parent() Element
	// Children returns owned children in category order.
	Children() []Element

	elementName() string
	setElementName(name string)
	setParent(parent Element)
}

// node carries the upward reference shared by every element.
type node struct {
	parent Element
}

func (n *node) Parent() Element { return n.parent }

func (n *node) setParent(parent Element) { n.parent = parent }

// AccessModifier is the visibility of a member.
type AccessModifier int

const (
	Public AccessModifier = iota
	Protected
	Private
)

func (a AccessModifier) String() string {
	switch a {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// NameOf returns the identifier of an element, "" for nil.
func NameOf(e Element) string {
	if e == nil {
		return ""
	}
	return e.elementName()
}

// Rename changes the identifier of an element in place.
func Rename(e Element, name string) {
	if e != nil {
		e.setElementName(name)
	}
}

// ParentClass returns the closest enclosing class of e, or nil.
func ParentClass(e Element) *Class {
	for p := parentOf(e); p != nil; p = p.Parent() {
		if c, ok := p.(*Class); ok {
			return c
		}
	}
	return nil
}

// ParentNamespace returns the closest enclosing namespace of e, or nil.
func ParentNamespace(e Element) *Namespace {
	for p := parentOf(e); p != nil; p = p.Parent() {
		if ns, ok := p.(*Namespace); ok {
			return ns
		}
	}
	return nil
}

// Root walks the parent chain up to the outermost element.
func Root(e Element) Element {
	if e == nil {
		return nil
	}
	for e.Parent() != nil {
		e = e.Parent()
	}
	return e
}

// Depth is the number of ancestors of e; the root namespace has depth 0.
func Depth(e Element) int {
	d := 0
	for p := parentOf(e); p != nil; p = p.Parent() {
		d++
	}
	return d
}

func parentOf(e Element) Element {
	if e == nil {
		return nil
	}
	return e.Parent()
}

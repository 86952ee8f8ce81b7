package codedom

import (
	"slices"
	"strings"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// NamespaceSeparator joins namespace segments in a full namespace name.
const NamespaceSeparator = "."

// Namespace is a named scope. Name is the full dotted name; the root has an
// empty name.
type Namespace struct {
	node
	Name        string
	Description string

	namespaces []*Namespace
	classes    []*Class
	enums      []*Enum
}

func (n *Namespace) elementName() string         { return n.Name }
func (n *Namespace) setElementName(name string)  { n.Name = name }
func (n *Namespace) Namespaces() []*Namespace    { return n.namespaces }
func (n *Namespace) Classes() []*Class           { return n.classes }
func (n *Namespace) Enums() []*Enum              { return n.enums }
func (n *Namespace) IsRoot() bool                { return n.Parent() == nil && n.Name == "" }

func (n *Namespace) Children() []Element {
	out := make([]Element, 0, len(n.namespaces)+len(n.classes)+len(n.enums))
	for _, c := range n.namespaces {
		out = append(out, c)
	}
	for _, c := range n.classes {
		out = append(out, c)
	}
	for _, e := range n.enums {
		out = append(out, e)
	}
	return out
}

// InitRootNamespace creates the root of a new tree.
func InitRootNamespace() *Namespace {
	return &Namespace{}
}

// Segments splits the full name into its segments.
func (n *Namespace) Segments() []string {
	if n.Name == "" {
		return nil
	}
	return strings.Split(n.Name, NamespaceSeparator)
}

// LastSegment returns the last segment of the full name.
func (n *Namespace) LastSegment() string {
	segs := n.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// AddNamespace returns the namespace with the given full name, creating it and
// any missing intermediate namespaces below n. The name may be given relative
// to n or fully qualified.
func (n *Namespace) AddNamespace(fullName string) (*Namespace, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, errors.InvalidInputf("namespace name cannot be empty")
	}
	if n.Name != "" && !strings.HasPrefix(fullName, n.Name+NamespaceSeparator) && fullName != n.Name {
		fullName = n.Name + NamespaceSeparator + fullName
	}
	if fullName == n.Name {
		return n, nil
	}
	rest := strings.TrimPrefix(fullName, n.Name)
	rest = strings.TrimPrefix(rest, NamespaceSeparator)
	current := n
	for _, seg := range strings.Split(rest, NamespaceSeparator) {
		if seg == "" {
			return nil, errors.InvalidInputf("namespace %q has an empty segment", fullName)
		}
		name := seg
		if current.Name != "" {
			name = current.Name + NamespaceSeparator + seg
		}
		next := current.childNamespace(name)
		if next == nil {
			next = &Namespace{Name: name}
			next.setParent(current)
			current.namespaces = append(current.namespaces, next)
		}
		current = next
	}
	return current, nil
}

func (n *Namespace) childNamespace(fullName string) *Namespace {
	for _, c := range n.namespaces {
		if c.Name == fullName {
			return c
		}
	}
	return nil
}

// AddClass attaches classes to the namespace and returns them. A rejected
// class leaves the namespace unchanged.
func (n *Namespace) AddClass(classes ...*Class) ([]*Class, error) {
	for i, c := range classes {
		if c == nil {
			return nil, errors.InvalidInputf("cannot add a nil class to namespace %q", n.Name)
		}
		if strings.TrimSpace(c.Name) == "" {
			return nil, errors.InvalidInputf("cannot add a class without a name to namespace %q", n.Name)
		}
		if n.FindClass(c.Name) != nil || slices.ContainsFunc(classes[:i], func(o *Class) bool { return o.Name == c.Name }) {
			return nil, errors.Structuref("namespace %q already contains class %q", n.Name, c.Name)
		}
	}
	for _, c := range classes {
		c.setParent(n)
		n.classes = append(n.classes, c)
	}
	return classes, nil
}

// AddEnum attaches enums to the namespace and returns them. A rejected enum
// leaves the namespace unchanged.
func (n *Namespace) AddEnum(enums ...*Enum) ([]*Enum, error) {
	for i, e := range enums {
		if e == nil {
			return nil, errors.InvalidInputf("cannot add a nil enum to namespace %q", n.Name)
		}
		if strings.TrimSpace(e.Name) == "" {
			return nil, errors.InvalidInputf("cannot add an enum without a name to namespace %q", n.Name)
		}
		if n.FindEnum(e.Name) != nil || slices.ContainsFunc(enums[:i], func(o *Enum) bool { return o.Name == e.Name }) {
			return nil, errors.Structuref("namespace %q already contains enum %q", n.Name, e.Name)
		}
	}
	for _, e := range enums {
		e.setParent(n)
		n.enums = append(n.enums, e)
	}
	return enums, nil
}

// FindClass returns the direct child class with the given name.
func (n *Namespace) FindClass(name string) *Class {
	for _, c := range n.classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindEnum returns the direct child enum with the given name.
func (n *Namespace) FindEnum(name string) *Enum {
	for _, e := range n.enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindNamespaceByName searches n and its descendants for the namespace with
// the given full name.
func (n *Namespace) FindNamespaceByName(fullName string) *Namespace {
	if n.Name == fullName {
		return n
	}
	for _, c := range n.namespaces {
		if found := c.FindNamespaceByName(fullName); found != nil {
			return found
		}
	}
	return nil
}

// ResolveType looks a class or enum up by name. A qualified name
// ("ns.sub.Name") is resolved against its namespace; a bare name is searched
// breadth-first from n. Returns nil when nothing matches.
func (n *Namespace) ResolveType(name string) Element {
	if i := strings.LastIndex(name, NamespaceSeparator); i > 0 {
		if ns := n.FindNamespaceByName(name[:i]); ns != nil {
			if c := ns.FindClass(name[i+1:]); c != nil {
				return c
			}
			if e := ns.FindEnum(name[i+1:]); e != nil {
				return e
			}
		}
		return nil
	}
	queue := []*Namespace{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if c := cur.FindClass(name); c != nil {
			return c
		}
		if e := cur.FindEnum(name); e != nil {
			return e
		}
		queue = append(queue, cur.namespaces...)
	}
	return nil
}

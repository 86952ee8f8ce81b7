package codedom

import (
	"slices"
	"strings"
	"sync"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// ClassKind tags what a class represents.
type ClassKind int

const (
	ClassOther ClassKind = iota
	ClassModel
	ClassRequestBuilder
	ClassQueryParameters
)

func (k ClassKind) String() string {
	switch k {
	case ClassModel:
		return "model"
	case ClassRequestBuilder:
		return "requestbuilder"
	case ClassQueryParameters:
		return "queryparameters"
	default:
		return "other"
	}
}

// Indexer is the bracket-indexer of a request builder before it is lowered to
// a method for languages without indexer syntax.
type Indexer struct {
	Name string
	// SerializationName is the url template segment the index value fills.
	SerializationName string
	IndexType         TypeExpr
	ReturnType        TypeExpr
	Description       string
}

// Class is a model, request builder, query parameters holder or other class.
type Class struct {
	node
	Name        string
	Kind        ClassKind
	Description string
	// Inherits is a weak reference to the base type.
	Inherits *Type
	// Implements are weak references to implemented interfaces.
	Implements []*Type
	// IsErrorDefinition marks models used as error payloads.
	IsErrorDefinition bool
	// Indexer is lowered to a method by refiners of languages without
	// indexer syntax.
	Indexer *Indexer

	usings     []*Using
	inner      []*Class
	properties []*Property
	methods    []*Method

	discOnce      sync.Once
	discriminator *DiscriminatorInformation
}

func (c *Class) elementName() string        { return c.Name }
func (c *Class) setElementName(name string) { c.Name = name }
func (c *Class) Usings() []*Using           { return c.usings }
func (c *Class) InnerClasses() []*Class     { return c.inner }
func (c *Class) Properties() []*Property    { return c.properties }
func (c *Class) Methods() []*Method         { return c.methods }

func (c *Class) Children() []Element {
	out := make([]Element, 0, len(c.usings)+len(c.inner)+len(c.properties)+len(c.methods))
	for _, u := range c.usings {
		out = append(out, u)
	}
	for _, i := range c.inner {
		out = append(out, i)
	}
	for _, p := range c.properties {
		out = append(out, p)
	}
	for _, m := range c.methods {
		out = append(out, m)
	}
	return out
}

// IsOfKind reports whether the class kind is one of kinds.
func (c *Class) IsOfKind(kinds ...ClassKind) bool {
	for _, k := range kinds {
		if c.Kind == k {
			return true
		}
	}
	return false
}

// DiscriminatorInformation returns the class discriminator registry, creating
// it on first use. Safe for concurrent callers.
func (c *Class) DiscriminatorInformation() *DiscriminatorInformation {
	c.discOnce.Do(func() {
		if c.discriminator == nil {
			c.discriminator = NewDiscriminatorInformation()
		}
	})
	return c.discriminator
}

// SetDiscriminatorInformation replaces the registry, used when a class takes
// over another class's discriminator through Clone.
func (c *Class) SetDiscriminatorInformation(info *DiscriminatorInformation) {
	c.discOnce.Do(func() {})
	c.discriminator = info
}

// HasDiscriminator reports whether any mapping has been registered.
func (c *Class) HasDiscriminator() bool {
	return c.discriminator != nil && c.discriminator.Len() > 0
}

// AddProperty attaches properties and returns them. Two properties may only
// share a name if their kinds differ. Nothing is attached when any property
// of the batch is rejected.
func (c *Class) AddProperty(props ...*Property) ([]*Property, error) {
	for i, p := range props {
		if p == nil {
			return nil, errors.InvalidInputf("cannot add a nil property to class %q", c.Name)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.InvalidInputf("cannot add a property without a name to class %q", c.Name)
		}
		dup := func(o *Property) bool { return o.Name == p.Name && o.Kind == p.Kind }
		if slices.ContainsFunc(c.properties, dup) || slices.ContainsFunc(props[:i], dup) {
			return nil, errors.Structuref("class %q already contains %s property %q", c.Name, p.Kind, p.Name)
		}
	}
	for _, p := range props {
		p.setParent(c)
		c.properties = append(c.properties, p)
	}
	return props, nil
}

// AddMethod attaches methods and returns them. Two methods may only share a
// name if their kinds differ. Nothing is attached when any method of the
// batch is rejected.
func (c *Class) AddMethod(methods ...*Method) ([]*Method, error) {
	for i, m := range methods {
		if m == nil {
			return nil, errors.InvalidInputf("cannot add a nil method to class %q", c.Name)
		}
		if strings.TrimSpace(m.Name) == "" {
			return nil, errors.InvalidInputf("cannot add a method without a name to class %q", c.Name)
		}
		dup := func(o *Method) bool { return o.Name == m.Name && o.Kind == m.Kind }
		if slices.ContainsFunc(c.methods, dup) || slices.ContainsFunc(methods[:i], dup) {
			return nil, errors.Structuref("class %q already contains %s method %q", c.Name, m.Kind, m.Name)
		}
	}
	for _, m := range methods {
		m.setParent(c)
		c.methods = append(c.methods, m)
	}
	return methods, nil
}

// AddInnerClass nests classes inside c, all of them or none.
func (c *Class) AddInnerClass(classes ...*Class) ([]*Class, error) {
	for i, inner := range classes {
		if inner == nil {
			return nil, errors.InvalidInputf("cannot add a nil inner class to class %q", c.Name)
		}
		dup := func(o *Class) bool { return o.Name == inner.Name }
		if slices.ContainsFunc(c.inner, dup) || slices.ContainsFunc(classes[:i], dup) {
			return nil, errors.Structuref("class %q already contains inner class %q", c.Name, inner.Name)
		}
	}
	for _, inner := range classes {
		inner.setParent(c)
		c.inner = append(c.inner, inner)
	}
	return classes, nil
}

// AddUsing attaches using declarations. Exact (name, module) duplicates are
// dropped; nothing else is de-duplicated.
func (c *Class) AddUsing(usings ...*Using) {
	for _, u := range usings {
		if u == nil {
			continue
		}
		if c.hasUsing(u) {
			continue
		}
		u.setParent(c)
		c.usings = append(c.usings, u)
	}
}

func (c *Class) hasUsing(u *Using) bool {
	for _, existing := range c.usings {
		if existing.Name == u.Name && existing.Module() == u.Module() {
			return true
		}
	}
	return false
}

// RemoveMethods detaches every method matching pred.
func (c *Class) RemoveMethods(pred func(*Method) bool) []*Method {
	var kept, removed []*Method
	for _, m := range c.methods {
		if pred(m) {
			m.setParent(nil)
			removed = append(removed, m)
			continue
		}
		kept = append(kept, m)
	}
	c.methods = kept
	return removed
}

// GetPropertyOfKind returns the first property of one of kinds, or nil.
func (c *Class) GetPropertyOfKind(kinds ...PropertyKind) *Property {
	for _, p := range c.properties {
		if p.IsOfKind(kinds...) {
			return p
		}
	}
	return nil
}

// GetPropertiesOfKind returns every property of one of kinds in declaration
// order.
func (c *Class) GetPropertiesOfKind(kinds ...PropertyKind) []*Property {
	var out []*Property
	for _, p := range c.properties {
		if p.IsOfKind(kinds...) {
			out = append(out, p)
		}
	}
	return out
}

// GetMethodsOfKind returns every method of one of kinds in declaration order.
func (c *Class) GetMethodsOfKind(kinds ...MethodKind) []*Method {
	var out []*Method
	for _, m := range c.methods {
		if m.IsOfKind(kinds...) {
			out = append(out, m)
		}
	}
	return out
}

// FindProperty returns the property with the given identifier, or nil.
func (c *Class) FindProperty(name string) *Property {
	for _, p := range c.properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindMethod returns the first method with the given identifier, or nil.
func (c *Class) FindMethod(name string) *Method {
	for _, m := range c.methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

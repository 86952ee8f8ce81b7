package codedom

import (
	"slices"
	"strings"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// Enum is an ordered set of options. Flags enums carry bit-field semantics.
type Enum struct {
	node
	Name        string
	Description string
	Flags       bool

	options []*EnumOption
}

func (e *Enum) elementName() string        { return e.Name }
func (e *Enum) setElementName(name string) { e.Name = name }
func (e *Enum) Options() []*EnumOption     { return e.options }

func (e *Enum) Children() []Element {
	out := make([]Element, 0, len(e.options))
	for _, o := range e.options {
		out = append(out, o)
	}
	return out
}

// AddOption appends options in order; a repeated name is a defect and
// leaves the enum unchanged.
func (e *Enum) AddOption(options ...*EnumOption) ([]*EnumOption, error) {
	for i, o := range options {
		if o == nil {
			return nil, errors.InvalidInputf("cannot add a nil option to enum %q", e.Name)
		}
		if strings.TrimSpace(o.Name) == "" {
			return nil, errors.InvalidInputf("cannot add an option without a name to enum %q", e.Name)
		}
		dup := func(x *EnumOption) bool { return x.Name == o.Name }
		if slices.ContainsFunc(e.options, dup) || slices.ContainsFunc(options[:i], dup) {
			return nil, errors.Structuref("enum %q already contains option %q", e.Name, o.Name)
		}
	}
	for _, o := range options {
		o.setParent(e)
		e.options = append(e.options, o)
	}
	return options, nil
}

// EnumOption is one named value of an enum.
type EnumOption struct {
	node
	Name              string
	SerializationName string
	Description       string
}

func (o *EnumOption) elementName() string        { return o.Name }
func (o *EnumOption) setElementName(name string) { o.Name = name }
func (o *EnumOption) Children() []Element        { return nil }

// WireName returns the serialized value, the identifier when none was set.
func (o *EnumOption) WireName() string {
	if o.SerializationName != "" {
		return o.SerializationName
	}
	return o.Name
}

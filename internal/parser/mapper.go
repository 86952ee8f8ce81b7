package parser

import (
	"strings"

	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
)

// primitives are the scalar names the targets translate. Aliases collapse to
// the canonical spelling.
var primitives = map[string]string{
	"string":         "string",
	"boolean":        "boolean",
	"bool":           "boolean",
	"integer":        "integer",
	"int":            "integer",
	"int32":          "integer",
	"int64":          "int64",
	"long":           "int64",
	"float":          "float",
	"double":         "double",
	"number":         "double",
	"decimal":        "decimal",
	"byte":           "byte",
	"guid":           "Guid",
	"uuid":           "Guid",
	"binary":         "binary",
	"object":         "object",
	"datetimeoffset": "DateTimeOffset",
	"datetime":       "DateTimeOffset",
	"dateonly":       "DateOnly",
	"date":           "DateOnly",
	"timeonly":       "TimeOnly",
	"time":           "TimeOnly",
	"timespan":       "TimeSpan",
	"duration":       "TimeSpan",
}

// typeMapper resolves type references of a description against the tree
// built in the first phase.
type typeMapper struct {
	root     *codedom.Namespace
	clientNs *codedom.Namespace
}

// scalar resolves ref. A reference containing a dot is qualified relative to
// the client namespace; a bare one is a primitive or searched breadth-first.
func (m *typeMapper) scalar(ref string) (*codedom.Type, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.InvalidInputf("type reference cannot be empty")
	}
	if strings.Contains(ref, codedom.NamespaceSeparator) {
		full := ref
		if !strings.HasPrefix(ref, m.clientNs.Name+codedom.NamespaceSeparator) {
			full = m.clientNs.Name + codedom.NamespaceSeparator + ref
		}
		if def := m.root.ResolveType(full); def != nil {
			return &codedom.Type{Name: codedom.NameOf(def), Definition: def}, nil
		}
		return nil, errors.InvalidInputf("unknown type %q", ref)
	}
	if name, ok := primitives[strings.ToLower(ref)]; ok {
		return &codedom.Type{Name: name}, nil
	}
	if def := m.clientNs.ResolveType(ref); def != nil {
		return &codedom.Type{Name: codedom.NameOf(def), Definition: def}, nil
	}
	return nil, errors.InvalidInputf("unknown type %q", ref)
}

// class resolves ref and requires it to designate a class.
func (m *typeMapper) class(ref string) (*codedom.Class, *codedom.Type, error) {
	t, err := m.scalar(ref)
	if err != nil {
		return nil, nil, err
	}
	c, ok := t.Class()
	if !ok {
		return nil, nil, errors.InvalidInputf("type %q is not a class", ref)
	}
	return c, t, nil
}

// expr resolves ref to a nullable scalar, or a collection of it.
func (m *typeMapper) expr(ref string, collection, nullable bool) (codedom.TypeExpr, error) {
	t, err := m.scalar(ref)
	if err != nil {
		return nil, err
	}
	if collection {
		c := codedom.ArrayOf(t)
		c.Nullable = nullable
		return c, nil
	}
	t.Nullable = nullable
	return t, nil
}

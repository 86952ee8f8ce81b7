// Package python writes refined trees as Python client modules.
package python

import (
	"strings"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/writer"
)

// Conventions is the Python syntax table.
type Conventions struct{}

var _ writer.Conventions = Conventions{}

func (Conventions) StreamTypeName() string   { return "bytes" }
func (Conventions) VoidTypeName() string     { return "None" }
func (Conventions) DocCommentStart() string  { return `"""` }
func (Conventions) DocCommentPrefix() string { return "" }
func (Conventions) DocCommentEnd() string    { return `"""` }
func (Conventions) TempVarName() string      { return "request_info" }

// AccessModifier is the identifier prefix Python uses for non-public members.
func (Conventions) AccessModifier(a codedom.AccessModifier) string {
	if a == codedom.Public {
		return ""
	}
	return "_"
}

func (Conventions) IdentifierName(name string) string {
	return naming.Snake(name)
}

func (c Conventions) MethodName(m *codedom.Method) string {
	if m.IsOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor) {
		return "__init__"
	}
	return c.AccessModifier(m.Access) + naming.Snake(m.Name)
}

// FieldName is the attribute a property is stored in.
func (c Conventions) FieldName(p *codedom.Property) string {
	return c.AccessModifier(p.Access) + naming.Snake(p.Name)
}

var primitives = map[string]string{
	"string":  "str",
	"integer": "int",
	"int32":   "int",
	"int64":   "int",
	"long":    "int",
	"int":     "int",
	"boolean": "bool",
	"bool":    "bool",
	"number":  "float",
	"double":  "float",
	"float":   "float",
	"decimal": "float",
	"guid":    "UUID",
	"uuid":    "UUID",
	"binary":  "bytes",
	"object":  "Any",
	"void":    "None",
}

func (Conventions) TranslateType(t *codedom.Type) string {
	if t == nil {
		return "Any"
	}
	if t.Definition != nil {
		return naming.UpperFirst(t.Name)
	}
	if p, ok := primitives[strings.ToLower(t.Name)]; ok {
		return p
	}
	return t.Name
}

func (c Conventions) TypeString(t codedom.TypeExpr, target codedom.Element) (string, error) {
	var (
		s   string
		err error
	)
	switch v := t.(type) {
	case nil:
		return "", errors.UnsupportedTypef("type of %q is missing", codedom.NameOf(target))
	case *codedom.Type:
		s = c.TranslateType(v)
	case *codedom.CollectionType:
		var elem string
		if elem, err = c.TypeString(nonNullable(v.Elem), target); err != nil {
			return "", err
		}
		s = "List[" + elem + "]"
	case *codedom.ComposedType:
		if v.Name != "" {
			s = v.Name
			break
		}
		first, err := writer.Collapse(v)
		if err != nil {
			return "", err
		}
		return c.TypeString(first, target)
	default:
		return "", errors.UnsupportedTypef("unknown type expression %T", t)
	}
	if t.IsNullable() && s != "None" && s != "Any" && !strings.HasPrefix(s, "Optional[") {
		s = "Optional[" + s + "]"
	}
	return s, nil
}

func nonNullable(t codedom.TypeExpr) codedom.TypeExpr {
	if t == nil || !t.IsNullable() {
		return t
	}
	c := t.CloneType()
	c.SetNullable(false)
	return c
}

func (c Conventions) ParameterSignature(p *codedom.Parameter, target codedom.Element) (string, error) {
	t := p.Type
	if p.Optional && t != nil && !t.IsNullable() {
		t = t.CloneType()
		t.SetNullable(true)
	}
	ts, err := c.TypeString(t, target)
	if err != nil {
		return "", errors.Wrapf(err, "parameter %q", p.Name)
	}
	sig := c.IdentifierName(p.Name) + ": " + ts
	switch {
	case p.DefaultValue != "":
		sig += " = " + p.DefaultValue
	case p.Optional:
		sig += " = None"
	}
	return sig, nil
}

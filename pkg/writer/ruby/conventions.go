// Package ruby writes refined trees as Ruby client files nested in modules.
package ruby

import (
	"regexp"
	"strings"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/writer"
)

// abstractionsModule qualifies runtime types the tree names bare.
const abstractionsModule = "MicrosoftKiotaAbstractions"

// Conventions is the Ruby syntax table.
type Conventions struct{}

var _ writer.Conventions = Conventions{}

func (Conventions) StreamTypeName() string   { return "String" }
func (Conventions) VoidTypeName() string     { return "nil" }
func (Conventions) DocCommentStart() string  { return "##" }
func (Conventions) DocCommentPrefix() string { return "# " }
func (Conventions) DocCommentEnd() string    { return "##" }
func (Conventions) TempVarName() string      { return "request_info" }

// AccessModifier is the visibility keyword applied after a definition.
func (Conventions) AccessModifier(a codedom.AccessModifier) string {
	switch a {
	case codedom.Private:
		return "private"
	case codedom.Protected:
		return "protected"
	default:
		return "public"
	}
}

func (Conventions) IdentifierName(name string) string {
	return naming.Snake(name)
}

func (Conventions) MethodName(m *codedom.Method) string {
	switch {
	case m.IsOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor):
		return "initialize"
	case m.IsOfKind(codedom.MethodSetter):
		return naming.Snake(m.Name) + "="
	default:
		return naming.Snake(m.Name)
	}
}

// FieldName is the instance variable a property is stored in.
func (Conventions) FieldName(p *codedom.Property) string {
	return "@" + naming.Snake(p.Name)
}

var primitives = map[string]string{
	"string":  "String",
	"integer": "Integer",
	"int32":   "Integer",
	"int64":   "Integer",
	"long":    "Integer",
	"int":     "Integer",
	"boolean": "Boolean",
	"bool":    "Boolean",
	"number":  "Float",
	"double":  "Float",
	"float":   "Float",
	"decimal": "Float",
	"guid":    "UUIDTools::UUID",
	"uuid":    "UUIDTools::UUID",
	"binary":  "String",
	"object":  "Object",
	"void":    "nil",
}

func (Conventions) TranslateType(t *codedom.Type) string {
	if t == nil {
		return "Object"
	}
	if t.Definition != nil {
		return Qualified(t.Definition)
	}
	if p, ok := primitives[strings.ToLower(t.Name)]; ok {
		return p
	}
	return t.Name
}

// Qualified is the constant path of a generated class or enum:
// "ApiSdk::Models::User". Inner classes are nested in their outer class.
func Qualified(def codedom.Element) string {
	name := naming.UpperFirst(codedom.NameOf(def))
	if outer, ok := def.Parent().(*codedom.Class); ok {
		return Qualified(outer) + "::" + name
	}
	ns := codedom.ParentNamespace(def)
	if ns == nil || ns.IsRoot() {
		return name
	}
	return naming.ModuleName(ns.Name, "::") + "::" + name
}

func (c Conventions) TypeString(t codedom.TypeExpr, target codedom.Element) (string, error) {
	switch v := t.(type) {
	case nil:
		return "", errors.UnsupportedTypef("type of %q is missing", codedom.NameOf(target))
	case *codedom.Type:
		return c.TranslateType(v), nil
	case *codedom.CollectionType:
		elem, err := c.TypeString(v.Elem, target)
		if err != nil {
			return "", err
		}
		return "Array[" + elem + "]", nil
	case *codedom.ComposedType:
		if v.Name != "" {
			return v.Name, nil
		}
		first, err := writer.Collapse(v)
		if err != nil {
			return "", err
		}
		return c.TypeString(first, target)
	default:
		return "", errors.UnsupportedTypef("unknown type expression %T", t)
	}
}

func (c Conventions) ParameterSignature(p *codedom.Parameter, target codedom.Element) (string, error) {
	if p.Type == nil {
		return "", errors.UnsupportedTypef("parameter %q of %q has no type", p.Name, codedom.NameOf(target))
	}
	sig := c.IdentifierName(p.Name)
	switch {
	case p.DefaultValue != "":
		sig += "=" + p.DefaultValue
	case p.Optional:
		sig += "=nil"
	}
	return sig, nil
}

var bareSymbol = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*[=?!]?$`)

// Symbol spells s as a symbol literal, quoted when it is not an identifier.
func Symbol(s string) string {
	if bareSymbol.MatchString(s) {
		return ":" + s
	}
	return `:"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// constantOf turns a "module.Symbol" entry into the constant it names:
// "microsoft_kiota_serialization_json.JsonParseNodeFactory" is
// "MicrosoftKiotaSerializationJson::JsonParseNodeFactory".
func constantOf(entry string) string {
	i := strings.LastIndex(entry, ".")
	if i < 0 {
		return entry
	}
	return naming.Pascal(entry[:i]) + "::" + entry[i+1:]
}

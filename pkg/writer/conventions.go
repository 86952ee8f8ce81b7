// Package writer turns a refined tree into source text.
//
// The package is split in three layers. Conventions carry every piece of
// syntax a target language leaks into otherwise shared code. PlanMethod
// validates a method and reduces it to a language-neutral plan for its kind.
// A per-language renderer then prints the plan, either through the text
// LanguageWriter or through its own code model.
package writer

import (
	"strings"

	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
)

// Conventions is the syntax table of one target language.
type Conventions interface {
	StreamTypeName() string
	VoidTypeName() string
	DocCommentStart() string
	DocCommentPrefix() string
	DocCommentEnd() string
	// TempVarName is the local holding the request descriptor or the
	// deserializer map while a body is being built.
	TempVarName() string
	AccessModifier(a codedom.AccessModifier) string
	// ParameterSignature renders one parameter of a method declared on
	// target.
	ParameterSignature(p *codedom.Parameter, target codedom.Element) (string, error)
	// TypeString renders a full type expression as seen from target,
	// collections and nullability included.
	TypeString(t codedom.TypeExpr, target codedom.Element) (string, error)
	// TranslateType maps one scalar to its language spelling.
	TranslateType(t *codedom.Type) string
	// IdentifierName is the spelling of a property, parameter or local.
	IdentifierName(name string) string
	MethodName(m *codedom.Method) string
}

// Scalar resolves the scalar a type expression is translated through:
// composed types collapse to their first member and collections to their
// element type.
func Scalar(t codedom.TypeExpr) (*codedom.Type, error) {
	for {
		switch v := t.(type) {
		case nil:
			return nil, errors.UnsupportedTypef("cannot translate a missing type")
		case *codedom.Type:
			if v == nil {
				return nil, errors.UnsupportedTypef("cannot translate a missing type")
			}
			return v, nil
		case *codedom.CollectionType:
			if v.Elem == nil {
				return nil, errors.UnsupportedTypef("collection has no element type")
			}
			t = v.Elem
		case *codedom.ComposedType:
			if len(v.Members) == 0 {
				return nil, errors.UnsupportedTypef("composed type %q has no members", v.Name)
			}
			t = v.FirstMember()
		default:
			return nil, errors.UnsupportedTypef("unknown type expression %T", t)
		}
	}
}

// Collapse resolves composed types to their first member while keeping
// collections, so the result is a *codedom.Type or a *codedom.CollectionType.
func Collapse(t codedom.TypeExpr) (codedom.TypeExpr, error) {
	for {
		switch v := t.(type) {
		case nil:
			return nil, errors.UnsupportedTypef("cannot translate a missing type")
		case *codedom.ComposedType:
			if len(v.Members) == 0 {
				return nil, errors.UnsupportedTypef("composed type %q has no members", v.Name)
			}
			t = v.FirstMember()
		case *codedom.Type:
			if v == nil {
				return nil, errors.UnsupportedTypef("cannot translate a missing type")
			}
			return v, nil
		case *codedom.CollectionType:
			if v.Elem == nil {
				return nil, errors.UnsupportedTypef("collection has no element type")
			}
			return v, nil
		default:
			return nil, errors.UnsupportedTypef("unknown type expression %T", t)
		}
	}
}

// IsVoid reports whether t designates no value in conv's language.
func IsVoid(conv Conventions, t codedom.TypeExpr) bool {
	s, ok := t.(*codedom.Type)
	if !ok || s == nil {
		return false
	}
	return strings.EqualFold(s.Name, "void") || s.Name == conv.VoidTypeName()
}

// IsStream reports whether t is the binary stream type in conv's language.
func IsStream(conv Conventions, t codedom.TypeExpr) bool {
	s, ok := t.(*codedom.Type)
	if !ok || s == nil || s.Definition != nil {
		return false
	}
	return strings.EqualFold(s.Name, "binary") || s.Name == conv.StreamTypeName()
}

// Documentation collects the doc comment lines of a method: the description,
// one line per described parameter in ascending name order and the return
// description.
func Documentation(conv Conventions, m *codedom.Method) []string {
	var lines []string
	if d := strings.TrimSpace(m.Description); d != "" {
		lines = append(lines, d)
	}
	for _, p := range DocumentedParameters(m) {
		lines = append(lines, "param "+conv.IdentifierName(p.Name)+": "+strings.TrimSpace(p.Description))
	}
	if d := strings.TrimSpace(m.ReturnDescription); d != "" && !IsVoid(conv, m.ReturnType) {
		lines = append(lines, "Returns: "+d)
	}
	return lines
}

// DocumentedParameters lists the parameters of m carrying a description, in
// ascending name order.
func DocumentedParameters(m *codedom.Method) []*codedom.Parameter {
	var out []*codedom.Parameter
	for _, p := range m.Parameters() {
		if strings.TrimSpace(p.Description) != "" {
			out = append(out, p)
		}
	}
	sortParameters(out)
	return out
}

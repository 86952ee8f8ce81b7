package codedom

import (
	"fmt"
	"strings"
)

// Dump renders the subtree rooted at e as deterministic indented text. It is
// meant for differential comparison of trees before and after refinement.
func Dump(e Element) string {
	var sb strings.Builder
	dump(&sb, e, 0)
	return sb.String()
}

func dump(sb *strings.Builder, e Element, depth int) {
	if e == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(describe(e))
	sb.WriteByte('\n')
	if c, ok := e.(*Class); ok && c.HasDiscriminator() {
		info := c.DiscriminatorInformation()
		pad := strings.Repeat("  ", depth+1)
		fmt.Fprintf(sb, "%sdiscriminator %q\n", pad, info.PropertyName)
		for _, m := range info.Enumerate() {
			fmt.Fprintf(sb, "%s  %q -> %s\n", pad, m.Key, TypeString(m.Type))
		}
	}
	for _, c := range e.Children() {
		dump(sb, c, depth+1)
	}
}

func describe(e Element) string {
	switch v := e.(type) {
	case *Namespace:
		return fmt.Sprintf("namespace %q", v.Name)
	case *Class:
		s := fmt.Sprintf("class %s kind=%s", v.Name, v.Kind)
		if v.Inherits != nil {
			s += " inherits=" + TypeString(v.Inherits)
		}
		if len(v.Implements) > 0 {
			names := make([]string, 0, len(v.Implements))
			for _, i := range v.Implements {
				names = append(names, TypeString(i))
			}
			s += " implements=[" + strings.Join(names, ",") + "]"
		}
		if v.IsErrorDefinition {
			s += " error"
		}
		if v.Indexer != nil {
			s += " indexer=" + v.Indexer.Name
		}
		return s
	case *Enum:
		s := "enum " + v.Name
		if v.Flags {
			s += " flags"
		}
		return s
	case *EnumOption:
		return "option " + v.Name + wire(v.Name, v.SerializationName)
	case *Property:
		s := fmt.Sprintf("property %s kind=%s type=%s", v.Name, v.Kind, TypeString(v.Type))
		s += wire(v.Name, v.SerializationName)
		if v.DefaultValue != "" {
			s += " default=" + v.DefaultValue
		}
		if v.ReadOnly {
			s += " readonly"
		}
		if v.Access != Public {
			s += " " + v.Access.String()
		}
		return s
	case *Method:
		s := fmt.Sprintf("method %s kind=%s returns=%s", v.Name, v.Kind, TypeString(v.ReturnType))
		if v.HttpMethod.IsSet() {
			s += " http=" + v.HttpMethod.String()
		}
		if v.IsAsync {
			s += " async"
		}
		if v.Access != Public {
			s += " " + v.Access.String()
		}
		if v.AccessedProperty != nil {
			s += " accesses=" + v.AccessedProperty.Name
		}
		for _, em := range v.ErrorMappings() {
			s += fmt.Sprintf(" error[%s]=%s", em.Code, TypeString(em.Type))
		}
		return s
	case *Parameter:
		s := fmt.Sprintf("param %s kind=%s type=%s", v.Name, v.Kind, TypeString(v.Type))
		if v.Optional {
			s += " optional"
		}
		return s
	case *Using:
		if v.Module() == "" {
			return "using " + v.Name
		}
		return "using " + v.Module() + ":" + v.Name
	default:
		return fmt.Sprintf("%T", e)
	}
}

func wire(name, serializationName string) string {
	if serializationName == "" || serializationName == name {
		return ""
	}
	return " wire=" + serializationName
}

// TypeString renders a type expression compactly: "?" marks nullability,
// "[]" a collection and "|" separates composed members.
func TypeString(t TypeExpr) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case *Type:
		if v == nil {
			return "<nil>"
		}
		s := v.Name
		if v.External {
			s = "ext:" + s
		}
		if v.Nullable {
			s += "?"
		}
		return s
	case *CollectionType:
		s := "[]" + TypeString(v.Elem)
		if v.Nullable {
			s += "?"
		}
		return s
	case *ComposedType:
		members := make([]string, 0, len(v.Members))
		for _, m := range v.Members {
			members = append(members, TypeString(m))
		}
		s := v.Name + "(" + strings.Join(members, "|") + ")"
		if v.Nullable {
			s += "?"
		}
		return s
	default:
		return fmt.Sprintf("%T", t)
	}
}

package codedom

// TypeRefFunc receives every scalar type reference found under an element,
// together with the element that states it.
type TypeRefFunc func(owner Element, t *Type)

// ForEachTypeRef visits the scalar types referenced by e and its descendants:
// property types, method return types, parameter types, error mappings,
// inheritance and implements clauses, discriminator targets and using
// declarations. Collections and every composed member are unwrapped. The
// referenced definitions themselves are not visited.
func ForEachTypeRef(e Element, fn TypeRefFunc) {
	_ = Walk(e, func(el Element) error {
		switch v := el.(type) {
		case *Class:
			if v.Inherits != nil {
				fn(v, v.Inherits)
			}
			for _, i := range v.Implements {
				fn(v, i)
			}
			if v.Indexer != nil {
				eachScalar(v.Indexer.IndexType, func(t *Type) { fn(v, t) })
				eachScalar(v.Indexer.ReturnType, func(t *Type) { fn(v, t) })
			}
			if v.HasDiscriminator() {
				for _, m := range v.DiscriminatorInformation().Enumerate() {
					eachScalar(m.Type, func(t *Type) { fn(v, t) })
				}
			}
		case *Property:
			eachScalar(v.Type, func(t *Type) { fn(v, t) })
		case *Method:
			eachScalar(v.ReturnType, func(t *Type) { fn(v, t) })
			for _, em := range v.ErrorMappings() {
				eachScalar(em.Type, func(t *Type) { fn(v, t) })
			}
		case *Parameter:
			eachScalar(v.Type, func(t *Type) { fn(v, t) })
		case *Using:
			if v.Declaration != nil {
				fn(v, v.Declaration)
			}
		}
		return nil
	})
}

func eachScalar(t TypeExpr, fn func(*Type)) {
	switch v := t.(type) {
	case *Type:
		if v != nil {
			fn(v)
		}
	case *CollectionType:
		eachScalar(v.Elem, fn)
	case *ComposedType:
		for _, m := range v.Members {
			eachScalar(m, fn)
		}
	}
}

// TypeExprsOf returns the type expressions an element states directly:
// the property type, the method return type followed by its parameter types,
// or the parameter type.
func TypeExprsOf(e Element) []TypeExpr {
	switch v := e.(type) {
	case *Property:
		return nonNil(v.Type)
	case *Method:
		out := nonNil(v.ReturnType)
		for _, p := range v.parameters {
			out = append(out, nonNil(p.Type)...)
		}
		return out
	case *Parameter:
		return nonNil(v.Type)
	}
	return nil
}

func nonNil(t TypeExpr) []TypeExpr {
	if t == nil {
		return nil
	}
	return []TypeExpr{t}
}

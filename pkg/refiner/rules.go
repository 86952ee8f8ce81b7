package refiner

import (
	"github.com/cmmoran/clientgen/pkg/codedom"
)

// UsingRule imports Symbols from Module into the class enclosing every
// element the predicate matches. Predicates must not mutate the tree.
type UsingRule struct {
	Predicate func(e codedom.Element) bool
	Module    string
	Symbols   []string
}

// EvaluateRules returns the using declarations the rules yield for e, in rule
// order and then symbol order. It does not touch the tree.
func EvaluateRules(e codedom.Element, rules []UsingRule) []*codedom.Using {
	var out []*codedom.Using
	for _, r := range rules {
		if r.Predicate == nil || !r.Predicate(e) {
			continue
		}
		for _, s := range r.Symbols {
			out = append(out, codedom.NewExternalUsing(r.Module, s))
		}
	}
	return out
}

// AddDefaultImports tests every element against every rule once and attaches
// the resulting usings to the enclosing class. Exact (module, symbol)
// duplicates collapse; insertion order is kept.
func AddDefaultImports(rules []UsingRule) Pass {
	return Pass{
		Name: "add-default-imports",
		Apply: func(root *codedom.Namespace) error {
			return codedom.Walk(root, func(e codedom.Element) error {
				usings := EvaluateRules(e, rules)
				if len(usings) == 0 {
					return nil
				}
				target := enclosingClass(e)
				if target == nil {
					return nil
				}
				target.AddUsing(usings...)
				return nil
			})
		},
	}
}

func enclosingClass(e codedom.Element) *codedom.Class {
	if c, ok := e.(*codedom.Class); ok {
		return c
	}
	return codedom.ParentClass(e)
}

// predicate helpers used by the language rule tables

func isPropertyOfKind(kinds ...codedom.PropertyKind) func(codedom.Element) bool {
	return func(e codedom.Element) bool {
		p, ok := e.(*codedom.Property)
		return ok && p.IsOfKind(kinds...)
	}
}

func isMethodOfKind(kinds ...codedom.MethodKind) func(codedom.Element) bool {
	return func(e codedom.Element) bool {
		m, ok := e.(*codedom.Method)
		return ok && m.IsOfKind(kinds...)
	}
}

func isClassOfKind(kinds ...codedom.ClassKind) func(codedom.Element) bool {
	return func(e codedom.Element) bool {
		c, ok := e.(*codedom.Class)
		return ok && c.IsOfKind(kinds...)
	}
}

func isModelWithAdditionalData(e codedom.Element) bool {
	c, ok := e.(*codedom.Class)
	return ok && c.IsOfKind(codedom.ClassModel) && c.GetPropertyOfKind(codedom.PropertyAdditionalData) != nil
}

func isClientConstructorWithBackingStore(e codedom.Element) bool {
	m, ok := e.(*codedom.Method)
	return ok && m.IsOfKind(codedom.MethodClientConstructor) && m.ParameterOfKind(codedom.ParameterBackingStore) != nil
}

func isMethodWithErrorMappings(e codedom.Element) bool {
	m, ok := e.(*codedom.Method)
	return ok && m.IsOfKind(codedom.MethodRequestExecutor) && m.HasErrorMappings()
}

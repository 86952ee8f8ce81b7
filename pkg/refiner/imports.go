package refiner

import (
	"strings"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
)

// AddSerializationModulesImport imports every module listed on client
// constructors along with the registration symbols. Module entries are
// "module.Symbol"; the module part ends at the last dot.
func AddSerializationModulesImport(serializerSymbols, deserializerSymbols []string) Pass {
	return Pass{
		Name: "add-serialization-modules-import",
		Apply: func(root *codedom.Namespace) error {
			return walkMethods(root, func(m *codedom.Method) error {
				if !m.IsOfKind(codedom.MethodClientConstructor) {
					return nil
				}
				c := codedom.ParentClass(m)
				if c == nil {
					return nil
				}
				var entries []string
				entries = append(entries, m.SerializerModules...)
				entries = append(entries, m.DeserializerModules...)
				if len(m.SerializerModules) > 0 {
					entries = append(entries, serializerSymbols...)
				}
				if len(m.DeserializerModules) > 0 {
					entries = append(entries, deserializerSymbols...)
				}
				for _, entry := range entries {
					if u := splitModule(entry); u != nil {
						c.AddUsing(u)
					}
				}
				return nil
			})
		},
	}
}

func splitModule(entry string) *codedom.Using {
	i := strings.LastIndex(entry, ".")
	if i <= 0 || i == len(entry)-1 {
		return nil
	}
	return codedom.NewExternalUsing(entry[:i], entry[i+1:])
}

// AddPropertiesAndMethodTypesImports imports the tree definitions a class
// refers to through its base type, properties, methods, parameters, error
// mappings and discriminator mappings. References to the class itself and to
// its own inner classes need no import. Definitions in the class's own
// namespace are imported only when includeCurrentNamespace is set.
func AddPropertiesAndMethodTypesImports(includeCurrentNamespace bool) Pass {
	return Pass{
		Name: "add-types-imports",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				ns := codedom.ParentNamespace(c)
				for _, def := range referencedDefinitions(c) {
					if def == codedom.Element(c) || codedom.ParentClass(def) == c {
						continue
					}
					defNs := codedom.ParentNamespace(def)
					if defNs == nil {
						continue
					}
					if defNs == ns && !includeCurrentNamespace {
						continue
					}
					c.AddUsing(internalUsing(def, defNs))
				}
				return nil
			})
		},
	}
}

func internalUsing(def codedom.Element, defNs *codedom.Namespace) *codedom.Using {
	return &codedom.Using{
		Name:        codedom.NameOf(def),
		Declaration: &codedom.Type{Name: defNs.Name, Definition: def},
	}
}

// referencedDefinitions lists the distinct definitions c refers to, in first
// reference order. Inner classes are not descended into; they are visited as
// classes of their own.
func referencedDefinitions(c *codedom.Class) []codedom.Element {
	var out []codedom.Element
	seen := make(map[codedom.Element]struct{})
	add := func(t *codedom.Type) {
		if t == nil || t.Definition == nil {
			return
		}
		if _, ok := seen[t.Definition]; ok {
			return
		}
		seen[t.Definition] = struct{}{}
		out = append(out, t.Definition)
	}
	addExpr := func(t codedom.TypeExpr) {
		if ct, ok := t.(*codedom.ComposedType); ok {
			for _, m := range ct.Members {
				add(codedom.Innermost(m))
			}
			return
		}
		add(codedom.Innermost(t))
	}
	add(c.Inherits)
	for _, p := range c.Properties() {
		addExpr(p.Type)
	}
	for _, m := range c.Methods() {
		for _, t := range codedom.TypeExprsOf(m) {
			addExpr(t)
		}
		for _, em := range m.ErrorMappings() {
			addExpr(em.Type)
		}
	}
	if c.HasDiscriminator() {
		for _, m := range c.DiscriminatorInformation().Enumerate() {
			addExpr(m.Type)
		}
	}
	return out
}

// AddInheritedAndMethodTypesImports imports the base class and the types
// returned by request executors, even from the class's own namespace, for
// languages that load every file explicitly.
func AddInheritedAndMethodTypesImports() Pass {
	return Pass{
		Name: "add-inherited-and-method-types-imports",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				var defs []codedom.Element
				if c.Inherits != nil && c.Inherits.Definition != nil {
					defs = append(defs, c.Inherits.Definition)
				}
				for _, m := range c.GetMethodsOfKind(codedom.MethodRequestExecutor) {
					if t := codedom.Innermost(m.ReturnType); t != nil && t.Definition != nil {
						defs = append(defs, t.Definition)
					}
				}
				for _, def := range defs {
					if def == codedom.Element(c) {
						continue
					}
					if defNs := codedom.ParentNamespace(def); defNs != nil {
						c.AddUsing(internalUsing(def, defNs))
					}
				}
				return nil
			})
		},
	}
}

// AddNamespaceModuleImports makes every class load the module files of its
// enclosing namespaces, innermost first and ending with the client module.
// Paths are relative to the class file; namespace segments below the client
// namespace map to directories.
func AddNamespaceModuleImports(clientNamespace string) Pass {
	return Pass{
		Name: "add-namespace-module-imports",
		Apply: func(root *codedom.Namespace) error {
			clientLast := clientNamespace
			if i := strings.LastIndex(clientNamespace, "."); i >= 0 {
				clientLast = clientNamespace[i+1:]
			}
			return walkClasses(root, func(c *codedom.Class) error {
				if codedom.ParentClass(c) != nil {
					return nil
				}
				ns := codedom.ParentNamespace(c)
				if ns == nil || ns.Name == "" {
					return nil
				}
				if ns.Name != clientNamespace && !strings.HasPrefix(ns.Name, clientNamespace+".") {
					return nil
				}
				rel := strings.TrimPrefix(strings.TrimPrefix(ns.Name, clientNamespace), ".")
				var segs []string
				if rel != "" {
					segs = strings.Split(rel, ".")
				}
				n := len(segs)
				for j := n - 1; j >= 0; j-- {
					c.AddUsing(moduleFileUsing(n-j, segs[j]))
				}
				c.AddUsing(moduleFileUsing(n, clientLast))
				return nil
			})
		},
	}
}

func moduleFileUsing(up int, segment string) *codedom.Using {
	prefix := "./"
	if up > 0 {
		prefix = strings.Repeat("../", up)
	}
	file := naming.Snake(segment)
	return &codedom.Using{Name: file, Declaration: &codedom.Type{Name: prefix + file, External: true}}
}

// FixInheritedEntityType qualifies references to the well-known root model
// with the module path of the namespace that declares it, so that
// "entity" becomes "Graph::Models::Entity". The declaring namespace is found
// by searching the tree; nothing changes when no model of that name exists.
func FixInheritedEntityType(entityName string) Pass {
	return Pass{
		Name: "fix-inherited-entity-type",
		Apply: func(root *codedom.Namespace) error {
			var entity *codedom.Class
			_ = walkClasses(root, func(c *codedom.Class) error {
				if entity == nil && c.IsOfKind(codedom.ClassModel) && strings.EqualFold(c.Name, entityName) {
					entity = c
					return codedom.SkipChildren
				}
				return nil
			})
			if entity == nil {
				return nil
			}
			entityNs := codedom.ParentNamespace(entity)
			if entityNs == nil || entityNs.Name == "" {
				return nil
			}
			qualified := naming.ModuleName(entityNs.Name, "::") + "::" + naming.UpperFirst(entity.Name)
			return walkClasses(root, func(c *codedom.Class) error {
				if c == entity || c.Inherits == nil || !strings.EqualFold(c.Inherits.Name, entityName) {
					return nil
				}
				if c.Inherits.Definition != nil && c.Inherits.Definition != codedom.Element(entity) {
					return nil
				}
				c.Inherits.Name = qualified
				c.Inherits.Definition = entity
				return nil
			})
		},
	}
}

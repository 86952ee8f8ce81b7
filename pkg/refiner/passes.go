package refiner

import (
	"strings"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
)

// ReplaceIndexersByMethodsWithParameter lowers bracket indexers for languages
// without indexer syntax. Each class that holds a request builder property
// pointing at the indexed class gains a method named after that property plus
// suffix, taking the index value as an explicit "id" path parameter. An
// indexer nothing points at becomes a method of its own class named after the
// singular of the class name.
func ReplaceIndexersByMethodsWithParameter(suffix string) Pass {
	return Pass{
		Name: "replace-indexers-by-methods",
		Apply: func(root *codedom.Namespace) error {
			var indexed []*codedom.Class
			_ = walkClasses(root, func(c *codedom.Class) error {
				if c.Indexer != nil {
					indexed = append(indexed, c)
				}
				return nil
			})
			for _, target := range indexed {
				indexer := target.Indexer
				if indexer.ReturnType == nil || indexer.IndexType == nil {
					return errors.Structuref("indexer %q of class %q has no return or index type", indexer.Name, target.Name)
				}
				added := 0
				err := walkClasses(root, func(owner *codedom.Class) error {
					for _, p := range owner.GetPropertiesOfKind(codedom.PropertyRequestBuilder) {
						t := codedom.Innermost(p.Type)
						if t == nil || t.Definition != codedom.Element(target) {
							continue
						}
						if _, err := owner.AddMethod(indexerMethod(p.Name+suffix, indexer)); err != nil {
							return err
						}
						added++
					}
					return nil
				})
				if err != nil {
					return err
				}
				if added == 0 {
					base := strings.TrimSuffix(target.Name, "RequestBuilder")
					if _, err := target.AddMethod(indexerMethod(naming.Singular(base)+suffix, indexer)); err != nil {
						return err
					}
				}
				target.Indexer = nil
			}
			return nil
		},
	}
}

func indexerMethod(name string, indexer *codedom.Indexer) *codedom.Method {
	m := &codedom.Method{
		Name:            name,
		Kind:            codedom.MethodIndexerBackwardCompatibility,
		ReturnType:      indexer.ReturnType.CloneType(),
		OriginalIndexer: indexer,
		Description:     indexer.Description,
		PathSegment:     indexer.SerializationName,
	}
	_, _ = m.AddParameter(&codedom.Parameter{
		Name:              "id",
		Kind:              codedom.ParameterPath,
		Type:              indexer.IndexType.CloneType(),
		SerializationName: indexer.SerializationName,
		Description:       "Unique identifier of the item",
	})
	return m
}

// CoreTypeCorrections are per-language fixes applied to every matching
// element. Nil functions are skipped.
type CoreTypeCorrections struct {
	Class    func(c *codedom.Class)
	Property func(p *codedom.Property)
	Method   func(m *codedom.Method)
}

// CorrectCoreType applies language-specific type corrections.
func CorrectCoreType(fix CoreTypeCorrections) Pass {
	return Pass{
		Name: "correct-core-types",
		Apply: func(root *codedom.Namespace) error {
			return codedom.Walk(root, func(e codedom.Element) error {
				switch v := e.(type) {
				case *codedom.Class:
					if fix.Class != nil {
						fix.Class(v)
					}
				case *codedom.Property:
					if fix.Property != nil && v.Type != nil {
						fix.Property(v)
					}
				case *codedom.Method:
					if fix.Method != nil {
						fix.Method(v)
					}
				}
				return nil
			})
		},
	}
}

// TypeReplacement is a native type substitution. When Module is set, the
// enclosing class imports Symbol from it.
type TypeReplacement struct {
	Name   string
	Module string
	Symbol string
}

// ReplaceTypes substitutes scalar types named in table (case-insensitive)
// wherever a property, method or parameter states them. Unmapped types are
// left alone.
func ReplaceTypes(name string, table map[string]TypeReplacement) Pass {
	folded := make(map[string]TypeReplacement, len(table))
	for k, v := range table {
		folded[strings.ToLower(k)] = v
	}
	return Pass{
		Name: name,
		Apply: func(root *codedom.Namespace) error {
			codedom.ForEachTypeRef(root, func(owner codedom.Element, t *codedom.Type) {
				switch owner.(type) {
				case *codedom.Property, *codedom.Method, *codedom.Parameter:
				default:
					return
				}
				r, ok := folded[strings.ToLower(t.Name)]
				if !ok || t.Definition != nil {
					return
				}
				t.Name = r.Name
				t.External = true
				if r.Module == "" {
					return
				}
				if c := enclosingClass(owner); c != nil {
					c.AddUsing(codedom.NewExternalUsing(r.Module, r.Symbol))
				}
			})
			return nil
		},
	}
}

// ReplaceBinaryByNativeType maps the abstract "binary" type to symbol.
func ReplaceBinaryByNativeType(symbol, module string) Pass {
	p := ReplaceTypes("replace-binary-type", map[string]TypeReplacement{
		"binary": {Name: symbol, Module: module, Symbol: symbol},
	})
	return p
}

// StripInterfacePrefix removes the leading "I" marker from implemented
// interfaces whose names match one of markers case-insensitively.
func StripInterfacePrefix(markers ...string) Pass {
	return Pass{
		Name: "strip-interface-prefix",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				for _, t := range c.Implements {
					for _, m := range markers {
						if strings.EqualFold(t.Name, m) {
							t.Name = naming.TrimInterfacePrefix(t.Name)
							break
						}
					}
				}
				return nil
			})
		},
	}
}

// BackingStoreSettings parameterise AddBackingStore.
type BackingStoreSettings struct {
	Enabled       bool
	PropertyName  string
	TypeName      string
	DefaultValue  string
	Implements    string
	ParameterName string
	ParameterType string
}

// AddBackingStore gives every root model class a backing store property and
// the client constructor a backing store factory parameter. Derived models
// reach the store through their base. Existing backing store properties get
// the default value when they have none.
func AddBackingStore(s BackingStoreSettings) Pass {
	return Pass{
		Name: "add-backing-store",
		Apply: func(root *codedom.Namespace) error {
			if !s.Enabled {
				return nil
			}
			err := walkClasses(root, func(c *codedom.Class) error {
				if existing := c.GetPropertyOfKind(codedom.PropertyBackingStore); existing != nil {
					if existing.DefaultValue == "" {
						existing.DefaultValue = s.DefaultValue
					}
					return nil
				}
				if !c.IsOfKind(codedom.ClassModel) || inheritsModel(c) {
					return nil
				}
				if _, err := c.AddProperty(&codedom.Property{
					Name:         s.PropertyName,
					Kind:         codedom.PropertyBackingStore,
					Type:         &codedom.Type{Name: s.TypeName, External: true},
					DefaultValue: s.DefaultValue,
					ReadOnly:     true,
					Description:  "Stores model information.",
				}); err != nil {
					return err
				}
				if s.Implements != "" && !implements(c, s.Implements) {
					c.Implements = append(c.Implements, &codedom.Type{Name: s.Implements, External: true})
				}
				return nil
			})
			if err != nil {
				return err
			}
			return walkMethods(root, func(m *codedom.Method) error {
				if !m.IsOfKind(codedom.MethodClientConstructor) || m.ParameterOfKind(codedom.ParameterBackingStore) != nil {
					return nil
				}
				_, err := m.AddParameter(&codedom.Parameter{
					Name:        s.ParameterName,
					Kind:        codedom.ParameterBackingStore,
					Type:        &codedom.Type{Name: s.ParameterType, External: true, Nullable: true},
					Optional:    true,
					Description: "The backing store to use for the models.",
				})
				return err
			})
		},
	}
}

func inheritsModel(c *codedom.Class) bool {
	if c.Inherits == nil {
		return false
	}
	base, ok := c.Inherits.Class()
	return ok && base.IsOfKind(codedom.ClassModel)
}

func implements(c *codedom.Class, name string) bool {
	for _, t := range c.Implements {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// AddGetterAndSetterMethods adds an accessor pair for every property of the
// given kinds and makes the property itself private. Accessor names are the
// prefix followed by the property name with its first letter upper-cased, or
// the bare property name when the prefix is empty. Read-only properties get a
// private setter.
func AddGetterAndSetterMethods(kinds []codedom.PropertyKind, getterPrefix, setterPrefix, voidType string) Pass {
	return Pass{
		Name: "add-getters-and-setters",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				if c.IsOfKind(codedom.ClassQueryParameters) {
					return nil
				}
				for _, p := range c.GetPropertiesOfKind(kinds...) {
					if hasAccessor(c, p) {
						continue
					}
					p.Access = codedom.Private
					getter := &codedom.Method{
						Name:              accessorName(getterPrefix, p.Name),
						Kind:              codedom.MethodGetter,
						ReturnType:        p.Type.CloneType(),
						AccessedProperty:  p,
						Description:       strings.TrimSpace("Gets the " + p.Name + " property value. " + p.Description),
						ReturnDescription: "the value of " + p.Name,
					}
					setter := &codedom.Method{
						Name:             accessorName(setterPrefix, p.Name),
						Kind:             codedom.MethodSetter,
						ReturnType:       &codedom.Type{Name: voidType},
						AccessedProperty: p,
						Description:      strings.TrimSpace("Sets the " + p.Name + " property value. " + p.Description),
					}
					if p.ReadOnly {
						setter.Access = codedom.Private
					}
					if _, err := setter.AddParameter(&codedom.Parameter{
						Name:        "value",
						Kind:        codedom.ParameterSetterValue,
						Type:        p.Type.CloneType(),
						Description: "Value to set for the " + p.Name + " property.",
					}); err != nil {
						return err
					}
					if _, err := c.AddMethod(getter, setter); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func accessorName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + naming.UpperFirst(name)
}

func hasAccessor(c *codedom.Class, p *codedom.Property) bool {
	for _, m := range c.GetMethodsOfKind(codedom.MethodGetter, codedom.MethodSetter) {
		if m.AccessedProperty == p {
			return true
		}
	}
	return false
}

// ReplaceReservedNames appends escape to every identifier matching a reserved
// word case-insensitively. Wire names are preserved: a renamed property,
// parameter or enum option keeps its former identifier as serialization name
// when it had none. Types designating a renamed class or enum follow the new
// name.
func ReplaceReservedNames(reserved []string, escape func(string) string) Pass {
	set := make(map[string]struct{}, len(reserved))
	for _, r := range reserved {
		set[strings.ToLower(r)] = struct{}{}
	}
	isReserved := func(name string) bool {
		_, ok := set[strings.ToLower(name)]
		return ok
	}
	return Pass{
		Name: "replace-reserved-names",
		Apply: func(root *codedom.Namespace) error {
			renamed := make(map[codedom.Element]string)
			_ = codedom.Walk(root, func(e codedom.Element) error {
				name := codedom.NameOf(e)
				if !isReserved(name) {
					return nil
				}
				switch v := e.(type) {
				case *codedom.Namespace, *codedom.Using:
					return nil
				case *codedom.Property:
					if v.SerializationName == "" {
						v.SerializationName = name
					}
				case *codedom.Parameter:
					if v.SerializationName == "" {
						v.SerializationName = name
					}
				case *codedom.EnumOption:
					if v.SerializationName == "" {
						v.SerializationName = name
					}
				case *codedom.Class, *codedom.Enum:
					renamed[e] = escape(name)
				}
				codedom.Rename(e, escape(name))
				return nil
			})
			if len(renamed) == 0 {
				return nil
			}
			codedom.ForEachTypeRef(root, func(owner codedom.Element, t *codedom.Type) {
				if t.Definition == nil {
					return
				}
				n, ok := renamed[t.Definition]
				if !ok {
					return
				}
				if u, isUsing := owner.(*codedom.Using); isUsing {
					u.Name = n
					return
				}
				t.Name = n
			})
			return nil
		},
	}
}

// AddConstructorsForDefaultValues adds a default constructor to classes with
// properties carrying default values, and with addIfInherited also to every
// derived class so it can call its base constructor. Query parameter classes
// are skipped.
func AddConstructorsForDefaultValues(addIfInherited bool, voidType string) Pass {
	return Pass{
		Name: "add-constructors-for-default-values",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				if c.IsOfKind(codedom.ClassQueryParameters) || len(c.GetMethodsOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor)) > 0 {
					return nil
				}
				needed := addIfInherited && c.Inherits != nil
				for _, p := range c.Properties() {
					if p.DefaultValue != "" {
						needed = true
						break
					}
				}
				if !needed {
					return nil
				}
				_, err := c.AddMethod(&codedom.Method{
					Name:        "constructor",
					Kind:        codedom.MethodConstructor,
					ReturnType:  &codedom.Type{Name: voidType},
					Description: "Instantiates a new " + c.Name + " and sets the default values.",
				})
				return err
			})
		},
	}
}

// ReplaceDefaultSerializationModules swaps the client constructor serializer
// list for replacements when it still holds exactly the defaults.
func ReplaceDefaultSerializationModules(defaults, replacements []string) Pass {
	return Pass{
		Name: "replace-default-serialization-modules",
		Apply: func(root *codedom.Namespace) error {
			return walkMethods(root, func(m *codedom.Method) error {
				if m.IsOfKind(codedom.MethodClientConstructor) && sameModules(m.SerializerModules, defaults) {
					m.SerializerModules = append([]string(nil), replacements...)
				}
				return nil
			})
		},
	}
}

// ReplaceDefaultDeserializationModules is the deserializer counterpart of
// ReplaceDefaultSerializationModules.
func ReplaceDefaultDeserializationModules(defaults, replacements []string) Pass {
	return Pass{
		Name: "replace-default-deserialization-modules",
		Apply: func(root *codedom.Namespace) error {
			return walkMethods(root, func(m *codedom.Method) error {
				if m.IsOfKind(codedom.MethodClientConstructor) && sameModules(m.DeserializerModules, defaults) {
					m.DeserializerModules = append([]string(nil), replacements...)
				}
				return nil
			})
		},
	}
}

func sameModules(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[strings.ToLower(s)]++
	}
	for _, s := range b {
		k := strings.ToLower(s)
		if seen[k] == 0 {
			return false
		}
		seen[k]--
	}
	return true
}

// AddParsableImplementsForModelClasses marks every model class as
// implementing the parsable interface.
func AddParsableImplementsForModelClasses(name string) Pass {
	return Pass{
		Name: "add-parsable-implements",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				if c.IsOfKind(codedom.ClassModel) && !implements(c, name) {
					c.Implements = append(c.Implements, &codedom.Type{Name: name, External: true})
				}
				return nil
			})
		},
	}
}

// AddParentClassToErrorClasses makes error models without a base class derive
// from the runtime error type.
func AddParentClassToErrorClasses(parentName, module string) Pass {
	return Pass{
		Name: "add-parent-class-to-error-classes",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				if !c.IsErrorDefinition || c.Inherits != nil {
					return nil
				}
				c.Inherits = &codedom.Type{Name: parentName, External: true}
				if module != "" {
					c.AddUsing(codedom.NewExternalUsing(module, parentName))
				}
				return nil
			})
		},
	}
}

// AddDiscriminatorFactoryMethods gives every model class a static factory
// that picks the concrete type from the discriminator value.
func AddDiscriminatorFactoryMethods(name, parseNodeType string) Pass {
	return Pass{
		Name: "add-discriminator-factories",
		Apply: func(root *codedom.Namespace) error {
			return walkClasses(root, func(c *codedom.Class) error {
				if !c.IsOfKind(codedom.ClassModel) || len(c.GetMethodsOfKind(codedom.MethodFactory)) > 0 {
					return nil
				}
				m := &codedom.Method{
					Name:              name,
					Kind:              codedom.MethodFactory,
					IsStatic:          true,
					ReturnType:        &codedom.Type{Name: c.Name, Definition: c},
					Description:       "Creates a new instance of the appropriate class based on discriminator value",
					ReturnDescription: "a " + c.Name,
				}
				if _, err := m.AddParameter(&codedom.Parameter{
					Name:        "parseNode",
					Kind:        codedom.ParameterParseNode,
					Type:        &codedom.Type{Name: parseNodeType, External: true, Nullable: true},
					Description: "The parse node to use to read the discriminator value and create the object",
				}); err != nil {
					return err
				}
				_, err := c.AddMethod(m)
				return err
			})
		},
	}
}

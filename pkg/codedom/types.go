package codedom

// TypeExpr is a type expression. The family is closed: *Type (scalar or named
// reference), *CollectionType and *ComposedType.
type TypeExpr interface {
	// TypeName is the name used for translation: the scalar name, the element
	// type name of a collection, or the composed type's own name.
	TypeName() string
	IsNullable() bool
	SetNullable(nullable bool)
	// CloneType deep-copies the expression; weak definitions are shared.
	CloneType() TypeExpr

	typeExpr()
}

// Type is a scalar or a named reference. Definition, when set, is a weak
// reference to the *Class or *Enum the name designates inside the tree.
type Type struct {
	Name       string
	External   bool
	Nullable   bool
	Definition Element
}

func (t *Type) TypeName() string          { return t.Name }
func (t *Type) IsNullable() bool          { return t.Nullable }
func (t *Type) SetNullable(nullable bool) { t.Nullable = nullable }
func (*Type) typeExpr()                   {}

func (t *Type) CloneType() TypeExpr {
	c := *t
	return &c
}

// Class returns the class definition, if any.
func (t *Type) Class() (*Class, bool) {
	c, ok := t.Definition.(*Class)
	return c, ok && c != nil
}

// Enum returns the enum definition, if any.
func (t *Type) Enum() (*Enum, bool) {
	e, ok := t.Definition.(*Enum)
	return e, ok && e != nil
}

// CollectionKind distinguishes collection shapes.
type CollectionKind int

const (
	CollectionNone CollectionKind = iota
	CollectionArray
)

// CollectionType wraps an element type.
type CollectionType struct {
	Elem     TypeExpr
	Kind     CollectionKind
	Nullable bool
}

func (c *CollectionType) TypeName() string {
	if c.Elem == nil {
		return ""
	}
	return c.Elem.TypeName()
}

func (c *CollectionType) IsNullable() bool          { return c.Nullable }
func (c *CollectionType) SetNullable(nullable bool) { c.Nullable = nullable }
func (*CollectionType) typeExpr()                   {}

func (c *CollectionType) CloneType() TypeExpr {
	out := &CollectionType{Kind: c.Kind, Nullable: c.Nullable}
	if c.Elem != nil {
		out.Elem = c.Elem.CloneType()
	}
	return out
}

// ComposedType is a union of member types. Code generation uses the first
// member; see FirstMember.
type ComposedType struct {
	Name     string
	Members  []TypeExpr
	Nullable bool
}

func (c *ComposedType) TypeName() string          { return c.Name }
func (c *ComposedType) IsNullable() bool          { return c.Nullable }
func (c *ComposedType) SetNullable(nullable bool) { c.Nullable = nullable }
func (*ComposedType) typeExpr()                   {}

func (c *ComposedType) CloneType() TypeExpr {
	out := &ComposedType{Name: c.Name, Nullable: c.Nullable, Members: make([]TypeExpr, 0, len(c.Members))}
	for _, m := range c.Members {
		out.Members = append(out.Members, m.CloneType())
	}
	return out
}

// AddMember appends member types in order.
func (c *ComposedType) AddMember(members ...TypeExpr) {
	for _, m := range members {
		if m != nil {
			c.Members = append(c.Members, m)
		}
	}
}

// FirstMember returns the first listed member, nil when empty.
func (c *ComposedType) FirstMember() TypeExpr {
	if len(c.Members) == 0 {
		return nil
	}
	return c.Members[0]
}

// IsCollection reports whether t is a collection of any non-none kind.
func IsCollection(t TypeExpr) bool {
	c, ok := t.(*CollectionType)
	return ok && c.Kind != CollectionNone
}

// Innermost unwraps collections and composed types down to a scalar *Type.
// Composed types collapse to their first member. Returns nil when no scalar
// is reachable.
func Innermost(t TypeExpr) *Type {
	for t != nil {
		switch v := t.(type) {
		case *Type:
			return v
		case *CollectionType:
			t = v.Elem
		case *ComposedType:
			t = v.FirstMember()
		default:
			return nil
		}
	}
	return nil
}

// NewType is shorthand for a nullable named type.
func NewType(name string) *Type {
	return &Type{Name: name, Nullable: true}
}

// ArrayOf wraps elem in a nullable array collection.
func ArrayOf(elem TypeExpr) *CollectionType {
	return &CollectionType{Elem: elem, Kind: CollectionArray, Nullable: true}
}

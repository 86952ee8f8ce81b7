package codedom

// Using is an import declaration owned by a class. Name is the imported
// symbol; Declaration is a weak reference to where it comes from: an external
// module name, or an element of the tree.
type Using struct {
	node
	Name        string
	Alias       string
	Declaration *Type
}

func (u *Using) elementName() string        { return u.Name }
func (u *Using) setElementName(name string) { u.Name = name }
func (u *Using) Children() []Element        { return nil }

// Module returns the module the symbol is imported from.
func (u *Using) Module() string {
	if u.Declaration == nil {
		return ""
	}
	return u.Declaration.Name
}

// IsExternal reports whether the symbol lives outside the generated tree.
func (u *Using) IsExternal() bool {
	return u.Declaration != nil && u.Declaration.External
}

// NewExternalUsing imports symbol from an external module.
func NewExternalUsing(module, symbol string) *Using {
	return &Using{Name: symbol, Declaration: &Type{Name: module, External: true}}
}

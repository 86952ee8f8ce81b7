package codedom

// PropertyKind tags what a property represents.
type PropertyKind int

const (
	PropertyCustom PropertyKind = iota
	PropertyAdditionalData
	PropertyBackingStore
	PropertyRequestAdapter
	PropertyPathParameters
	PropertyUrlTemplate
	PropertyRequestBuilder
	PropertyQueryParameter
	PropertyUrlTemplateParameters
)

var propertyKindNames = [...]string{
	PropertyCustom:                "custom",
	PropertyAdditionalData:        "additionaldata",
	PropertyBackingStore:          "backingstore",
	PropertyRequestAdapter:        "requestadapter",
	PropertyPathParameters:        "pathparameters",
	PropertyUrlTemplate:           "urltemplate",
	PropertyRequestBuilder:        "requestbuilder",
	PropertyQueryParameter:        "queryparameter",
	PropertyUrlTemplateParameters: "urltemplateparameters",
}

func (k PropertyKind) String() string {
	if int(k) < len(propertyKindNames) {
		return propertyKindNames[k]
	}
	return "unknown"
}

// Property is a member of a class.
type Property struct {
	node
	Name string
	Kind PropertyKind
	Type TypeExpr
	// SerializationName is the wire name; empty means the identifier is used.
	SerializationName string
	DefaultValue      string
	ReadOnly          bool
	Access            AccessModifier
	Description       string
	// NamePrefix is prepended to the accessor names generated for the
	// property. Set by refiners for languages with accessor methods.
	NamePrefix string
}

func (p *Property) elementName() string        { return p.Name }
func (p *Property) setElementName(name string) { p.Name = name }
func (p *Property) Children() []Element        { return nil }

// IsOfKind reports whether the property kind is one of kinds.
func (p *Property) IsOfKind(kinds ...PropertyKind) bool {
	for _, k := range kinds {
		if p.Kind == k {
			return true
		}
	}
	return false
}

// WireName returns the serialization name, falling back to the identifier.
func (p *Property) WireName() string {
	if p.SerializationName != "" {
		return p.SerializationName
	}
	return p.Name
}

// IsNameEscaped reports whether the identifier no longer matches the wire name.
func (p *Property) IsNameEscaped() bool {
	return p.SerializationName != "" && p.SerializationName != p.Name
}

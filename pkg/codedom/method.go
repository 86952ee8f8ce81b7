package codedom

import (
	"slices"
	"sort"
	"strings"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// MethodKind tags what a method does; the writer dispatches on it.
type MethodKind int

const (
	MethodOther MethodKind = iota
	MethodConstructor
	MethodClientConstructor
	MethodGetter
	MethodSetter
	MethodSerializer
	MethodDeserializer
	MethodRequestGenerator
	MethodRequestExecutor
	MethodIndexerBackwardCompatibility
	MethodRequestBuilderWithParameters
	MethodRequestBuilderBackwardCompatibility
	MethodQueryParametersMapper
	MethodFactory
)

var methodKindNames = [...]string{
	MethodOther:                               "other",
	MethodConstructor:                         "constructor",
	MethodClientConstructor:                   "clientconstructor",
	MethodGetter:                              "getter",
	MethodSetter:                              "setter",
	MethodSerializer:                          "serializer",
	MethodDeserializer:                        "deserializer",
	MethodRequestGenerator:                    "requestgenerator",
	MethodRequestExecutor:                     "requestexecutor",
	MethodIndexerBackwardCompatibility:        "indexerbackwardcompatibility",
	MethodRequestBuilderWithParameters:        "requestbuilderwithparameters",
	MethodRequestBuilderBackwardCompatibility: "requestbuilderbackwardcompatibility",
	MethodQueryParametersMapper:               "queryparametersmapper",
	MethodFactory:                             "factory",
}

func (k MethodKind) String() string {
	if int(k) < len(methodKindNames) {
		return methodKindNames[k]
	}
	return "unknown"
}

// HTTPMethod is the verb of a request method. The zero value means unset.
type HTTPMethod int

const (
	HTTPUnset HTTPMethod = iota
	HTTPGet
	HTTPPost
	HTTPPatch
	HTTPPut
	HTTPDelete
	HTTPHead
	HTTPOptions
	HTTPTrace
	HTTPConnect
)

var httpMethodNames = [...]string{
	HTTPUnset:   "",
	HTTPGet:     "GET",
	HTTPPost:    "POST",
	HTTPPatch:   "PATCH",
	HTTPPut:     "PUT",
	HTTPDelete:  "DELETE",
	HTTPHead:    "HEAD",
	HTTPOptions: "OPTIONS",
	HTTPTrace:   "TRACE",
	HTTPConnect: "CONNECT",
}

func (h HTTPMethod) String() string {
	if int(h) < len(httpMethodNames) {
		return httpMethodNames[h]
	}
	return ""
}

// IsSet reports whether a verb was assigned.
func (h HTTPMethod) IsSet() bool { return h != HTTPUnset && int(h) < len(httpMethodNames) }

// ParseHTTPMethod maps a verb name, case-insensitively, to an HTTPMethod.
func ParseHTTPMethod(s string) (HTTPMethod, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range httpMethodNames {
		if i != int(HTTPUnset) && n == up {
			return HTTPMethod(i), nil
		}
	}
	return HTTPUnset, errors.InvalidInputf("unknown http method %q", s)
}

// ErrorMapping associates a status-code pattern ("4XX", "404") with an error
// type.
type ErrorMapping struct {
	Code string
	Type TypeExpr
}

// Method is a member function of a class.
type Method struct {
	node
	Name        string
	Kind        MethodKind
	Access      AccessModifier
	ReturnType  TypeExpr
	HttpMethod  HTTPMethod
	IsAsync     bool
	IsStatic    bool
	Description string
	// ReturnDescription documents the return value.
	ReturnDescription string
	// ContentType is the media type of the structured request body.
	ContentType string
	// AccessedProperty is the property a getter or setter reads or writes.
	AccessedProperty *Property
	// SerializerModules and DeserializerModules are the modules a client
	// constructor registers.
	SerializerModules   []string
	DeserializerModules []string
	// OriginalIndexer is set when the method was lowered from an indexer.
	OriginalIndexer *Indexer
	// PathSegment is the url template segment a child builder appends.
	PathSegment string

	parameters    []*Parameter
	errorMappings map[string]TypeExpr
}

func (m *Method) elementName() string        { return m.Name }
func (m *Method) setElementName(name string) { m.Name = name }
func (m *Method) Parameters() []*Parameter   { return m.parameters }

func (m *Method) Children() []Element {
	out := make([]Element, 0, len(m.parameters))
	for _, p := range m.parameters {
		out = append(out, p)
	}
	return out
}

// IsOfKind reports whether the method kind is one of kinds.
func (m *Method) IsOfKind(kinds ...MethodKind) bool {
	for _, k := range kinds {
		if m.Kind == k {
			return true
		}
	}
	return false
}

// AddParameter appends parameters in order. Two parameters may only share a
// name if their kinds differ. Nothing is appended when any parameter is
// rejected.
func (m *Method) AddParameter(params ...*Parameter) ([]*Parameter, error) {
	for i, p := range params {
		if p == nil {
			return nil, errors.InvalidInputf("cannot add a nil parameter to method %q", m.Name)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.InvalidInputf("cannot add a parameter without a name to method %q", m.Name)
		}
		if p.Type == nil {
			return nil, errors.InvalidInputf("parameter %q of method %q has no type", p.Name, m.Name)
		}
		dup := func(o *Parameter) bool { return o.Name == p.Name && o.Kind == p.Kind }
		if slices.ContainsFunc(m.parameters, dup) || slices.ContainsFunc(params[:i], dup) {
			return nil, errors.Structuref("method %q already contains %s parameter %q", m.Name, p.Kind, p.Name)
		}
	}
	for _, p := range params {
		p.setParent(m)
		m.parameters = append(m.parameters, p)
	}
	return params, nil
}

// ParameterOfKind returns the first parameter of one of kinds, or nil.
func (m *Method) ParameterOfKind(kinds ...ParameterKind) *Parameter {
	for _, p := range m.parameters {
		if p.IsOfKind(kinds...) {
			return p
		}
	}
	return nil
}

// ParametersOfKind returns every parameter of one of kinds in order.
func (m *Method) ParametersOfKind(kinds ...ParameterKind) []*Parameter {
	var out []*Parameter
	for _, p := range m.parameters {
		if p.IsOfKind(kinds...) {
			out = append(out, p)
		}
	}
	return out
}

// AddErrorMapping registers the error type for a status-code pattern. Codes
// are case-sensitive; a repeated code replaces the previous type.
func (m *Method) AddErrorMapping(code string, t TypeExpr) error {
	if strings.TrimSpace(code) == "" {
		return errors.InvalidInputf("error mapping code of method %q cannot be empty", m.Name)
	}
	if t == nil {
		return errors.InvalidInputf("error mapping %q of method %q has no type", code, m.Name)
	}
	if m.errorMappings == nil {
		m.errorMappings = make(map[string]TypeExpr)
	}
	m.errorMappings[code] = t
	return nil
}

// HasErrorMappings reports whether any error mapping was registered.
func (m *Method) HasErrorMappings() bool { return len(m.errorMappings) > 0 }

// ErrorMappings returns the mappings ordered ascending by code,
// case-insensitively, ties broken ordinally.
func (m *Method) ErrorMappings() []ErrorMapping {
	out := make([]ErrorMapping, 0, len(m.errorMappings))
	for code, t := range m.errorMappings {
		out = append(out, ErrorMapping{Code: code, Type: t})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToUpper(out[i].Code), strings.ToUpper(out[j].Code)
		if a != b {
			return a < b
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// ParameterKind tags what a parameter carries.
type ParameterKind int

const (
	ParameterOther ParameterKind = iota
	ParameterRequestBody
	ParameterQueryParameter
	ParameterHeaders
	ParameterOptions
	ParameterResponseHandler
	ParameterPath
	ParameterRequestAdapter
	ParameterPathParameters
	ParameterBackingStore
	ParameterQueryParametersMapper
	ParameterRawUrl
	ParameterSerializer
	ParameterParseNode
	ParameterSetterValue
)

var parameterKindNames = [...]string{
	ParameterOther:                 "other",
	ParameterRequestBody:           "requestbody",
	ParameterQueryParameter:        "queryparameter",
	ParameterHeaders:               "headers",
	ParameterOptions:               "options",
	ParameterResponseHandler:       "responsehandler",
	ParameterPath:                  "path",
	ParameterRequestAdapter:        "requestadapter",
	ParameterPathParameters:        "pathparameters",
	ParameterBackingStore:          "backingstore",
	ParameterQueryParametersMapper: "queryparametersmapper",
	ParameterRawUrl:                "rawurl",
	ParameterSerializer:            "serializer",
	ParameterParseNode:             "parsenode",
	ParameterSetterValue:           "settervalue",
}

func (k ParameterKind) String() string {
	if int(k) < len(parameterKindNames) {
		return parameterKindNames[k]
	}
	return "unknown"
}

// Parameter is one argument of a method.
type Parameter struct {
	node
	Name         string
	Kind         ParameterKind
	Type         TypeExpr
	Description  string
	Optional     bool
	DefaultValue string
	// SerializationName is the url template name of a path parameter.
	SerializationName string
}

func (p *Parameter) elementName() string        { return p.Name }
func (p *Parameter) setElementName(name string) { p.Name = name }
func (p *Parameter) Children() []Element        { return nil }

// IsOfKind reports whether the parameter kind is one of kinds.
func (p *Parameter) IsOfKind(kinds ...ParameterKind) bool {
	for _, k := range kinds {
		if p.Kind == k {
			return true
		}
	}
	return false
}

// WireName returns the serialization name, falling back to the identifier.
func (p *Parameter) WireName() string {
	if p.SerializationName != "" {
		return p.SerializationName
	}
	return p.Name
}

package parser

import (
	"github.com/cmmoran/clientgen/pkg/codedom"
)

// Names of the abstraction types every generated client talks to. Refiners
// translate them to the runtime library of each language.
const (
	pathParametersType   = "IDictionary<string, object>"
	requestAdapterType   = "IRequestAdapter"
	additionalDataType   = "IDictionary<string, object>"
	additionalHolderType = "IAdditionalDataHolder"
	headersType          = "IDictionary<string, string>"
	requestOptionType    = "IRequestOption"
	responseHandlerType  = "IResponseHandler"
	serializationWriter  = "ISerializationWriter"
	fieldDeserializers   = "IDictionary<string, Action<IParseNode>>"
	requestInformation   = "RequestInformation"
)

func external(name string) *codedom.Type {
	return &codedom.Type{Name: name, External: true}
}

func builderProperties(urlTemplate string) []*codedom.Property {
	return []*codedom.Property{
		{Name: "pathParameters", Kind: codedom.PropertyPathParameters, Type: external(pathParametersType), Description: "Path parameters for the request"},
		{Name: "requestAdapter", Kind: codedom.PropertyRequestAdapter, Type: external(requestAdapterType), Description: "The request adapter to use to execute the requests."},
		{Name: "urlTemplate", Kind: codedom.PropertyUrlTemplate, Type: &codedom.Type{Name: "string"}, DefaultValue: `"` + urlTemplate + `"`, Description: "Url template to use to build the URL for the current request builder"},
	}
}

func builderConstructor() (*codedom.Method, error) {
	m := &codedom.Method{
		Name:        "constructor",
		Kind:        codedom.MethodConstructor,
		ReturnType:  codedom.NewType("void"),
		Description: "Instantiates a new request builder and sets the default values.",
	}
	_, err := m.AddParameter(
		&codedom.Parameter{Name: "pathParameters", Kind: codedom.ParameterPathParameters, Type: external(pathParametersType), Description: "Path parameters for the request"},
		&codedom.Parameter{Name: "requestAdapter", Kind: codedom.ParameterRequestAdapter, Type: external(requestAdapterType), Description: "The request adapter to use to execute the requests."},
	)
	return m, err
}

func clientConstructor(className string, serializers, deserializers []string) (*codedom.Method, error) {
	m := &codedom.Method{
		Name:                "constructor",
		Kind:                codedom.MethodClientConstructor,
		ReturnType:          codedom.NewType("void"),
		Description:         "Instantiates a new " + className + " and sets the default values.",
		SerializerModules:   append([]string(nil), serializers...),
		DeserializerModules: append([]string(nil), deserializers...),
	}
	_, err := m.AddParameter(&codedom.Parameter{
		Name:        "requestAdapter",
		Kind:        codedom.ParameterRequestAdapter,
		Type:        external(requestAdapterType),
		Description: "The request adapter to use to execute the requests.",
	})
	return m, err
}

func serializer() (*codedom.Method, error) {
	m := &codedom.Method{
		Name:        "serialize",
		Kind:        codedom.MethodSerializer,
		ReturnType:  codedom.NewType("void"),
		Description: "Serializes information the current object",
	}
	_, err := m.AddParameter(&codedom.Parameter{Name: "writer", Kind: codedom.ParameterSerializer, Type: external(serializationWriter), Description: "Serialization writer to use to serialize this model"})
	return m, err
}

func deserializer() *codedom.Method {
	return &codedom.Method{
		Name:              "getFieldDeserializers",
		Kind:              codedom.MethodDeserializer,
		ReturnType:        external(fieldDeserializers),
		Description:       "The deserialization information for the current model",
		ReturnDescription: "the field deserializers",
	}
}

func headersParam() *codedom.Parameter {
	t := external(headersType)
	t.Nullable = true
	return &codedom.Parameter{Name: "h", Kind: codedom.ParameterHeaders, Type: t, Optional: true, Description: "Request headers"}
}

func optionsParam() *codedom.Parameter {
	return &codedom.Parameter{Name: "o", Kind: codedom.ParameterOptions, Type: codedom.ArrayOf(external(requestOptionType)), Optional: true, Description: "Request options"}
}

func responseHandlerParam() *codedom.Parameter {
	t := external(responseHandlerType)
	t.Nullable = true
	return &codedom.Parameter{Name: "responseHandler", Kind: codedom.ParameterResponseHandler, Type: t, Optional: true, Description: "Response handler to use in place of the default response handling provided by the core service"}
}

func queryMapper() (*codedom.Method, error) {
	m := &codedom.Method{
		Name:        "getQueryParameter",
		Kind:        codedom.MethodQueryParametersMapper,
		Access:      codedom.Protected,
		ReturnType:  &codedom.Type{Name: "string"},
		Description: "Maps the query parameters names to their encoded names for the URI template parsing.",
	}
	_, err := m.AddParameter(&codedom.Parameter{Name: "originalName", Kind: codedom.ParameterQueryParametersMapper, Type: &codedom.Type{Name: "string"}, Description: "The original query parameter name in the class."})
	return m, err
}

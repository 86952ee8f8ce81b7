package refiner

import (
	"strings"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
)

// PythonSettings are the tables and literals the Python refiner runs with.
type PythonSettings struct {
	ReservedNames        []string
	EscapeSuffix         string
	IndexerSuffix        string
	GetterPrefix         string
	SetterPrefix         string
	FactoryMethodName    string
	Serializers          []string
	Deserializers        []string
	SerializerSymbols    []string
	DeserializerSymbols  []string
	DateTypes            map[string]TypeReplacement
	BinaryType           string
	BackingStoreDefault  string
	ParsableName         string
	ErrorParentClass     string
	ErrorParentModule    string
	AdditionalDataMarker string
	Rules                []UsingRule
}

// DefaultPythonSettings returns a fresh copy of the Python tables.
func DefaultPythonSettings() PythonSettings {
	return PythonSettings{
		ReservedNames: []string{
			"and", "as", "assert", "async", "await", "break", "class", "continue", "def", "del",
			"elif", "else", "except", "false", "finally", "for", "from", "global", "if", "import",
			"in", "is", "lambda", "none", "nonlocal", "not", "or", "pass", "raise", "return",
			"self", "true", "try", "while", "with", "yield",
		},
		EscapeSuffix:      "_escaped",
		IndexerSuffix:     "_by_id",
		GetterPrefix:      "get_",
		SetterPrefix:      "set_",
		FactoryMethodName: "create_from_discriminator_value",
		Serializers:       []string{"kiota_serialization_json.json_serialization_writer_factory.JsonSerializationWriterFactory"},
		Deserializers:     []string{"kiota_serialization_json.json_parse_node_factory.JsonParseNodeFactory"},
		SerializerSymbols: []string{"kiota_abstractions.api_client_builder.register_default_serializer"},
		DeserializerSymbols: []string{
			"kiota_abstractions.api_client_builder.register_default_deserializer",
		},
		DateTypes: map[string]TypeReplacement{
			"DateTimeOffset": {Name: "datetime", Module: "datetime", Symbol: "datetime"},
			"TimeSpan":       {Name: "timedelta", Module: "datetime", Symbol: "timedelta"},
			"DateOnly":       {Name: "date", Module: "datetime", Symbol: "date"},
			"TimeOnly":       {Name: "time", Module: "datetime", Symbol: "time"},
		},
		BinaryType:           "bytes",
		BackingStoreDefault:  "BackingStoreFactorySingleton.__instance.create_backing_store()",
		ParsableName:         "Parsable",
		ErrorParentClass:     "APIError",
		ErrorParentModule:    "kiota_abstractions.api_error",
		AdditionalDataMarker: "IAdditionalDataHolder",
		Rules:                pythonRules(),
	}
}

func pythonRules() []UsingRule {
	return []UsingRule{
		{Predicate: isClassOfKind(codedom.ClassModel, codedom.ClassRequestBuilder), Module: "__future__", Symbols: []string{"annotations"}},
		{Predicate: isClassOfKind(codedom.ClassModel, codedom.ClassRequestBuilder, codedom.ClassQueryParameters), Module: "typing", Symbols: []string{"Any", "Callable", "Dict", "List", "Optional", "Union"}},
		{Predicate: isPropertyOfKind(codedom.PropertyRequestAdapter), Module: "kiota_abstractions.request_adapter", Symbols: []string{"RequestAdapter"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestGenerator), Module: "kiota_abstractions.method", Symbols: []string{"Method"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestGenerator), Module: "kiota_abstractions.request_information", Symbols: []string{"RequestInformation"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestGenerator), Module: "kiota_abstractions.request_option", Symbols: []string{"RequestOption"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestExecutor), Module: "kiota_abstractions.response_handler", Symbols: []string{"ResponseHandler"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestExecutor), Module: "kiota_abstractions.serialization", Symbols: []string{"Parsable", "ParsableFactory"}},
		{Predicate: isMethodOfKind(codedom.MethodSerializer), Module: "kiota_abstractions.serialization", Symbols: []string{"SerializationWriter"}},
		{Predicate: isMethodOfKind(codedom.MethodDeserializer, codedom.MethodFactory), Module: "kiota_abstractions.serialization", Symbols: []string{"ParseNode"}},
		{Predicate: isMethodOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor, codedom.MethodIndexerBackwardCompatibility, codedom.MethodRequestBuilderWithParameters), Module: "kiota_abstractions.get_path_parameters", Symbols: []string{"get_path_parameters"}},
		{Predicate: isClassOfKind(codedom.ClassModel), Module: "kiota_abstractions.serialization", Symbols: []string{"Parsable"}},
		{Predicate: isModelWithAdditionalData, Module: "kiota_abstractions.serialization", Symbols: []string{"AdditionalDataHolder"}},
		{Predicate: isClientConstructorWithBackingStore, Module: "kiota_abstractions.store", Symbols: []string{"BackingStoreFactory", "BackingStoreFactorySingleton"}},
		{Predicate: isClientConstructorWithBackingStore, Module: "kiota_abstractions.api_client_builder", Symbols: []string{"enable_backing_store_for_serialization_writer_factory", "enable_backing_store_for_parse_node_factory"}},
		{Predicate: isPropertyOfKind(codedom.PropertyBackingStore), Module: "kiota_abstractions.store", Symbols: []string{"BackedModel", "BackingStore", "BackingStoreFactorySingleton"}},
	}
}

// NewPython builds the Python refiner for cfg.
func NewPython(cfg *config.GenerationConfiguration, s PythonSettings, opts ...PipelineOption) *Pipeline {
	escape := func(name string) string { return name + s.EscapeSuffix }
	passes := []Pass{
		ReplaceIndexersByMethodsWithParameter(s.IndexerSuffix),
		CorrectCoreType(pythonCoreTypes()),
		StripInterfacePrefix(s.AdditionalDataMarker),
		AddBackingStore(BackingStoreSettings{
			Enabled:       cfg.UsesBackingStore,
			PropertyName:  "backingStore",
			TypeName:      "BackingStore",
			DefaultValue:  s.BackingStoreDefault,
			Implements:    "BackedModel",
			ParameterName: "backingStore",
			ParameterType: "BackingStoreFactory",
		}),
		ReplaceTypes("replace-date-types", s.DateTypes),
		ReplaceBinaryByNativeType(s.BinaryType, ""),
		AddDiscriminatorFactoryMethods(s.FactoryMethodName, "ParseNode"),
		AddParsableImplementsForModelClasses(s.ParsableName),
		AddParentClassToErrorClasses(s.ErrorParentClass, s.ErrorParentModule),
		ReplaceReservedNames(s.ReservedNames, escape),
		AddPropertiesAndMethodTypesImports(true),
		AddGetterAndSetterMethods([]codedom.PropertyKind{codedom.PropertyCustom, codedom.PropertyAdditionalData}, s.GetterPrefix, s.SetterPrefix, "None"),
		AddConstructorsForDefaultValues(true, "None"),
		AddDefaultImports(s.Rules),
		ReplaceDefaultSerializationModules(cfg.Serializers, s.Serializers),
		ReplaceDefaultDeserializationModules(cfg.Deserializers, s.Deserializers),
		AddSerializationModulesImport(s.SerializerSymbols, s.DeserializerSymbols),
	}
	return NewPipeline("python", passes, opts...)
}

func pythonCoreTypes() CoreTypeCorrections {
	return CoreTypeCorrections{
		Property: func(p *codedom.Property) {
			t := codedom.Innermost(p.Type)
			if t == nil {
				return
			}
			switch p.Kind {
			case codedom.PropertyRequestAdapter, codedom.PropertyBackingStore:
				t.Name = naming.TrimInterfacePrefix(t.Name)
			case codedom.PropertyAdditionalData:
				p.Type = &codedom.Type{Name: "Dict[str, Any]", External: true}
				if p.DefaultValue == "" {
					p.DefaultValue = "{}"
				}
			case codedom.PropertyPathParameters:
				p.Type = &codedom.Type{Name: "Dict[str, Any]", External: true}
				if p.DefaultValue == "" {
					p.DefaultValue = "{}"
				}
			case codedom.PropertyCustom:
				if strings.EqualFold(t.Name, "object") && t.Definition == nil {
					t.Name = "Any"
				}
			}
		},
		Method: func(m *codedom.Method) {
			switch m.Kind {
			case codedom.MethodRequestExecutor, codedom.MethodRequestGenerator:
				for _, p := range m.Parameters() {
					t := codedom.Innermost(p.Type)
					if t == nil {
						continue
					}
					switch p.Kind {
					case codedom.ParameterResponseHandler:
						t.Name = naming.TrimInterfacePrefix(t.Name)
					case codedom.ParameterOptions:
						p.Type = &codedom.Type{Name: "List[RequestOption]", External: true, Nullable: true}
					case codedom.ParameterHeaders:
						p.Type = &codedom.Type{Name: "Dict[str, str]", External: true, Nullable: true}
					}
				}
			case codedom.MethodSerializer:
				for _, p := range m.Parameters() {
					if t := codedom.Innermost(p.Type); t != nil {
						t.Name = naming.TrimInterfacePrefix(t.Name)
					}
				}
			case codedom.MethodDeserializer:
				m.ReturnType = &codedom.Type{Name: "Dict[str, Callable[[ParseNode], None]]", External: true}
			case codedom.MethodConstructor, codedom.MethodClientConstructor:
				for _, p := range m.Parameters() {
					t := codedom.Innermost(p.Type)
					if t == nil {
						continue
					}
					switch p.Kind {
					case codedom.ParameterRequestAdapter, codedom.ParameterBackingStore:
						t.Name = naming.TrimInterfacePrefix(t.Name)
					case codedom.ParameterPathParameters:
						union := &codedom.ComposedType{Name: "Union[str, Dict[str, Any]]", Nullable: true}
						union.AddMember(&codedom.Type{Name: "Dict[str, Any]", External: true}, &codedom.Type{Name: "str", External: true})
						p.Type = union
					}
				}
			}
		},
	}
}

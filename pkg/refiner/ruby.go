package refiner

import (
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
)

// RubySettings are the tables and literals the Ruby refiner runs with.
type RubySettings struct {
	ReservedNames       []string
	EscapeSuffix        string
	IndexerSuffix       string
	FactoryMethodName   string
	Serializers         []string
	Deserializers       []string
	SerializerSymbols   []string
	DeserializerSymbols []string
	DateTypes           map[string]TypeReplacement
	BinaryType          string
	BackingStoreDefault string
	ParsableName        string
	ErrorParentClass    string
	ErrorParentModule   string
	EntityName          string
	Rules               []UsingRule
}

// DefaultRubySettings returns a fresh copy of the Ruby tables.
func DefaultRubySettings() RubySettings {
	return RubySettings{
		ReservedNames: []string{
			"__encoding__", "__file__", "__line__", "alias", "and", "begin", "break", "case", "class",
			"def", "defined?", "do", "else", "elsif", "end", "ensure", "false", "for", "if", "in",
			"module", "next", "nil", "not", "or", "redo", "rescue", "retry", "return", "self",
			"super", "then", "true", "undef", "unless", "until", "when", "while", "yield",
		},
		EscapeSuffix:        "_escaped",
		IndexerSuffix:       "_by_id",
		FactoryMethodName:   "create_from_discriminator_value",
		Serializers:         []string{"microsoft_kiota_serialization_json.JsonSerializationWriterFactory"},
		Deserializers:       []string{"microsoft_kiota_serialization_json.JsonParseNodeFactory"},
		SerializerSymbols:   []string{"microsoft_kiota_abstractions.ApiClientBuilder", "microsoft_kiota_abstractions.SerializationWriterFactoryRegistry"},
		DeserializerSymbols: []string{"microsoft_kiota_abstractions.ParseNodeFactoryRegistry"},
		DateTypes: map[string]TypeReplacement{
			"DateTimeOffset": {Name: "DateTime", Module: "date", Symbol: "DateTime"},
			"DateOnly":       {Name: "Date", Module: "date", Symbol: "Date"},
			"TimeOnly":       {Name: "Time", Module: "time", Symbol: "Time"},
			"TimeSpan":       {Name: "Duration", Module: "microsoft_kiota_abstractions", Symbol: "Duration"},
		},
		BinaryType:          "String",
		BackingStoreDefault: "MicrosoftKiotaAbstractions::BackingStoreFactorySingleton.instance.create_backing_store",
		ParsableName:        "MicrosoftKiotaAbstractions::Parsable",
		ErrorParentClass:    "MicrosoftKiotaAbstractions::ApiError",
		ErrorParentModule:   "microsoft_kiota_abstractions",
		EntityName:          "entity",
		Rules:               rubyRules(),
	}
}

func rubyRules() []UsingRule {
	const abstractions = "microsoft_kiota_abstractions"
	return []UsingRule{
		{Predicate: isPropertyOfKind(codedom.PropertyRequestAdapter), Module: abstractions, Symbols: []string{"RequestAdapter"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestGenerator), Module: abstractions, Symbols: []string{"HttpMethod", "RequestInformation", "RequestOption"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestExecutor), Module: abstractions, Symbols: []string{"ResponseHandler"}},
		{Predicate: isMethodOfKind(codedom.MethodSerializer), Module: abstractions, Symbols: []string{"SerializationWriter"}},
		{Predicate: isMethodOfKind(codedom.MethodDeserializer, codedom.MethodFactory), Module: abstractions, Symbols: []string{"ParseNode"}},
		{Predicate: isClassOfKind(codedom.ClassModel), Module: abstractions, Symbols: []string{"Parsable"}},
		{Predicate: isModelWithAdditionalData, Module: abstractions, Symbols: []string{"AdditionalDataHolder"}},
		{Predicate: isPropertyOfKind(codedom.PropertyBackingStore), Module: abstractions, Symbols: []string{"BackingStore", "BackedModel", "BackingStoreFactorySingleton"}},
		{Predicate: isClientConstructorWithBackingStore, Module: abstractions, Symbols: []string{"BackingStoreFactory", "BackingStoreFactorySingleton"}},
	}
}

// NewRuby builds the Ruby refiner for cfg.
func NewRuby(cfg *config.GenerationConfiguration, s RubySettings, opts ...PipelineOption) *Pipeline {
	escape := func(name string) string { return name + s.EscapeSuffix }
	passes := []Pass{
		ReplaceIndexersByMethodsWithParameter(s.IndexerSuffix),
		CorrectCoreType(rubyCoreTypes()),
		StripInterfacePrefix("IAdditionalDataHolder"),
		AddBackingStore(BackingStoreSettings{
			Enabled:       cfg.UsesBackingStore,
			PropertyName:  "backingStore",
			TypeName:      "MicrosoftKiotaAbstractions::BackingStore",
			DefaultValue:  s.BackingStoreDefault,
			Implements:    "MicrosoftKiotaAbstractions::BackedModel",
			ParameterName: "backingStore",
			ParameterType: "MicrosoftKiotaAbstractions::BackingStoreFactory",
		}),
		ReplaceTypes("replace-date-types", s.DateTypes),
		ReplaceBinaryByNativeType(s.BinaryType, ""),
		AddDiscriminatorFactoryMethods(s.FactoryMethodName, "ParseNode"),
		AddParsableImplementsForModelClasses(s.ParsableName),
		AddParentClassToErrorClasses(s.ErrorParentClass, s.ErrorParentModule),
		ReplaceReservedNames(s.ReservedNames, escape),
		AddPropertiesAndMethodTypesImports(false),
		AddInheritedAndMethodTypesImports(),
		AddGetterAndSetterMethods([]codedom.PropertyKind{codedom.PropertyCustom, codedom.PropertyAdditionalData, codedom.PropertyBackingStore}, "", "", "nil"),
		AddConstructorsForDefaultValues(false, "nil"),
		AddDefaultImports(s.Rules),
		AddNamespaceModuleImports(cfg.ClientNamespaceName),
		FixInheritedEntityType(s.EntityName),
		ReplaceDefaultSerializationModules(cfg.Serializers, s.Serializers),
		ReplaceDefaultDeserializationModules(cfg.Deserializers, s.Deserializers),
		AddSerializationModulesImport(s.SerializerSymbols, s.DeserializerSymbols),
	}
	return NewPipeline("ruby", passes, opts...)
}

func rubyCoreTypes() CoreTypeCorrections {
	return CoreTypeCorrections{
		Property: func(p *codedom.Property) {
			switch p.Kind {
			case codedom.PropertyPathParameters:
				p.Type = &codedom.Type{Name: "Hash", External: true, Nullable: true}
				p.DefaultValue = "Hash.new"
			case codedom.PropertyAdditionalData:
				p.Type = &codedom.Type{Name: "Hash", External: true, Nullable: true}
				if p.DefaultValue == "" {
					p.DefaultValue = "Hash.new"
				}
			}
		},
		Method: func(m *codedom.Method) {
			if !m.IsOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor, codedom.MethodRequestBuilderWithParameters) {
				return
			}
			for _, p := range m.ParametersOfKind(codedom.ParameterPathParameters) {
				p.Type = &codedom.Type{Name: "Hash", External: true, Nullable: true}
			}
		},
	}
}

package refiner

import (
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
)

const (
	GoAbstractionsModule  = "github.com/microsoft/kiota-abstractions-go"
	GoSerializationModule = GoAbstractionsModule + "/serialization"
	GoStoreModule         = GoAbstractionsModule + "/store"
)

// GoSettings are the tables and literals the Go refiner runs with.
type GoSettings struct {
	ReservedNames       []string
	EscapeSuffix        string
	IndexerSuffix       string
	GetterPrefix        string
	SetterPrefix        string
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
	Rules               []UsingRule
}

// DefaultGoSettings returns a fresh copy of the Go tables.
func DefaultGoSettings() GoSettings {
	return GoSettings{
		ReservedNames: []string{
			"break", "case", "chan", "const", "continue", "default", "defer", "else", "fallthrough",
			"for", "func", "go", "goto", "if", "import", "interface", "map", "package", "range",
			"return", "select", "struct", "switch", "type", "var",
		},
		EscapeSuffix:        "Escaped",
		IndexerSuffix:       "ById",
		GetterPrefix:        "Get",
		SetterPrefix:        "Set",
		FactoryMethodName:   "CreateFromDiscriminatorValue",
		Serializers:         []string{"github.com/microsoft/kiota-serialization-json-go.NewJsonSerializationWriterFactory"},
		Deserializers:       []string{"github.com/microsoft/kiota-serialization-json-go.NewJsonParseNodeFactory"},
		SerializerSymbols:   []string{GoAbstractionsModule + ".RegisterDefaultSerializer"},
		DeserializerSymbols: []string{GoAbstractionsModule + ".RegisterDefaultDeserializer"},
		DateTypes: map[string]TypeReplacement{
			"DateTimeOffset": {Name: "Time", Module: "time", Symbol: "Time"},
			"TimeSpan":       {Name: "ISODuration", Module: GoSerializationModule, Symbol: "ISODuration"},
			"DateOnly":       {Name: "DateOnly", Module: GoSerializationModule, Symbol: "DateOnly"},
			"TimeOnly":       {Name: "TimeOnly", Module: GoSerializationModule, Symbol: "TimeOnly"},
			"Guid":           {Name: "UUID", Module: "github.com/google/uuid", Symbol: "UUID"},
		},
		BinaryType:          "[]byte",
		BackingStoreDefault: "BackingStoreFactoryInstance()",
		ParsableName:        "Parsable",
		ErrorParentClass:    "ApiError",
		ErrorParentModule:   GoAbstractionsModule,
		Rules:               goRules(),
	}
}

func goRules() []UsingRule {
	return []UsingRule{
		{Predicate: isPropertyOfKind(codedom.PropertyRequestAdapter), Module: GoAbstractionsModule, Symbols: []string{"RequestAdapter"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestGenerator), Module: GoAbstractionsModule, Symbols: []string{"RequestInformation", "RequestOption", "RequestHeaders", "NewRequestInformation"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestExecutor), Module: GoAbstractionsModule, Symbols: []string{"ResponseHandler", "ErrorMappings"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestExecutor), Module: GoSerializationModule, Symbols: []string{"Parsable", "ParsableFactory"}},
		{Predicate: isMethodOfKind(codedom.MethodSerializer), Module: GoSerializationModule, Symbols: []string{"SerializationWriter"}},
		{Predicate: isMethodOfKind(codedom.MethodDeserializer, codedom.MethodFactory), Module: GoSerializationModule, Symbols: []string{"ParseNode"}},
		{Predicate: isClassOfKind(codedom.ClassModel), Module: GoSerializationModule, Symbols: []string{"Parsable"}},
		{Predicate: isModelWithAdditionalData, Module: GoSerializationModule, Symbols: []string{"AdditionalDataHolder"}},
		{Predicate: isPropertyOfKind(codedom.PropertyBackingStore), Module: GoStoreModule, Symbols: []string{"BackingStore", "BackedModel", "BackingStoreFactoryInstance"}},
		{Predicate: isClientConstructorWithBackingStore, Module: GoStoreModule, Symbols: []string{"BackingStoreFactory"}},
	}
}

// NewGo builds the Go refiner for cfg.
func NewGo(cfg *config.GenerationConfiguration, s GoSettings, opts ...PipelineOption) *Pipeline {
	escape := func(name string) string { return name + s.EscapeSuffix }
	passes := []Pass{
		ReplaceIndexersByMethodsWithParameter(s.IndexerSuffix),
		CorrectCoreType(goCoreTypes()),
		StripInterfacePrefix("IAdditionalDataHolder", "IBackedModel", "IParsable"),
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
		AddPropertiesAndMethodTypesImports(false),
		AddGetterAndSetterMethods([]codedom.PropertyKind{codedom.PropertyCustom, codedom.PropertyAdditionalData, codedom.PropertyBackingStore}, s.GetterPrefix, s.SetterPrefix, "void"),
		AddConstructorsForDefaultValues(true, "void"),
		AddDefaultImports(s.Rules),
		ReplaceDefaultSerializationModules(cfg.Serializers, s.Serializers),
		ReplaceDefaultDeserializationModules(cfg.Deserializers, s.Deserializers),
		AddSerializationModulesImport(s.SerializerSymbols, s.DeserializerSymbols),
	}
	return NewPipeline("go", passes, opts...)
}

func goCoreTypes() CoreTypeCorrections {
	return CoreTypeCorrections{
		Property: func(p *codedom.Property) {
			switch p.Kind {
			case codedom.PropertyAdditionalData:
				p.Type = &codedom.Type{Name: "map[string]any", External: true}
				if p.DefaultValue == "" {
					p.DefaultValue = "make(map[string]any)"
				}
			case codedom.PropertyPathParameters:
				p.Type = &codedom.Type{Name: "map[string]string", External: true}
			case codedom.PropertyRequestAdapter:
				p.Type = &codedom.Type{Name: "RequestAdapter", External: true}
			}
		},
		Method: func(m *codedom.Method) {
			for _, p := range m.Parameters() {
				switch p.Kind {
				case codedom.ParameterHeaders:
					p.Type = &codedom.Type{Name: "*RequestHeaders", External: true, Nullable: true}
				case codedom.ParameterResponseHandler:
					p.Type = &codedom.Type{Name: "ResponseHandler", External: true, Nullable: true}
				case codedom.ParameterSerializer:
					p.Type = &codedom.Type{Name: "SerializationWriter", External: true}
				case codedom.ParameterOptions:
					p.Type = codedom.ArrayOf(&codedom.Type{Name: "RequestOption", External: true})
				case codedom.ParameterPathParameters:
					p.Type = &codedom.Type{Name: "map[string]string", External: true}
				case codedom.ParameterRequestAdapter:
					p.Type = &codedom.Type{Name: "RequestAdapter", External: true}
				}
			}
			if m.IsOfKind(codedom.MethodDeserializer) {
				m.ReturnType = &codedom.Type{Name: "map[string]func(ParseNode) error", External: true}
			}
		},
	}
}

package refiner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cmmoran/clientgen/internal/sample"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
)

func TestPipelineRunsPassesInOrder(t *testing.T) {
	var ran []string
	record := func(name string) Pass {
		return Pass{Name: name, Apply: func(*codedom.Namespace) error {
			ran = append(ran, name)
			return nil
		}}
	}
	core, logs := observer.New(zap.DebugLevel)
	p := NewPipeline("python", []Pass{record("first"), record("second"), record("third")}, WithLogger(zap.New(core)))

	require.NoError(t, p.Refine(codedom.InitRootNamespace()))
	assert.Equal(t, []string{"first", "second", "third"}, ran)
	assert.Equal(t, ran, p.Passes())
	assert.Equal(t, 3, logs.FilterMessage("refiner pass").Len())
	assert.Equal(t, "python", logs.All()[0].ContextMap()["language"])
}

func TestPipelineStopsAtFirstFailure(t *testing.T) {
	var ran []string
	p := NewPipeline("ruby", []Pass{
		{Name: "ok", Apply: func(*codedom.Namespace) error { ran = append(ran, "ok"); return nil }},
		{Name: "boom", Apply: func(*codedom.Namespace) error { return errors.Structuref("method has no parent class") }},
		{Name: "never", Apply: func(*codedom.Namespace) error { ran = append(ran, "never"); return nil }},
	})

	err := p.Refine(codedom.InitRootNamespace())
	require.Error(t, err)
	assert.True(t, errors.IsStructure(err))
	assert.Contains(t, err.Error(), "ruby refiner: pass boom")
	assert.Equal(t, []string{"ok"}, ran)
}

func TestPipelineRejectsNilTree(t *testing.T) {
	err := NewPipeline("go", nil).Refine(nil)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestEvaluateRulesIsPure(t *testing.T) {
	tree := sample.New(config.New())
	before := codedom.Dump(tree.Root)

	usings := EvaluateRules(tree.GetExecutor, pythonRules())
	assert.Equal(t, before, codedom.Dump(tree.Root))

	var got []string
	for _, u := range usings {
		got = append(got, u.Module()+":"+u.Name)
	}
	assert.Equal(t, []string{
		"kiota_abstractions.response_handler:ResponseHandler",
		"kiota_abstractions.serialization:Parsable",
		"kiota_abstractions.serialization:ParsableFactory",
	}, got)
}

func TestAddDefaultImportsDeduplicatesExactly(t *testing.T) {
	tree := sample.New(config.New())
	rules := []UsingRule{
		{Predicate: isMethodOfKind(codedom.MethodRequestExecutor), Module: "mod", Symbols: []string{"Send"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestGenerator), Module: "mod", Symbols: []string{"Send", "Build"}},
		{Predicate: isMethodOfKind(codedom.MethodRequestGenerator), Module: "other", Symbols: []string{"Send"}},
	}
	require.NoError(t, AddDefaultImports(rules).Apply(tree.Root))

	var got []string
	for _, u := range tree.UserItem.Usings() {
		got = append(got, u.Module()+":"+u.Name)
	}
	assert.Equal(t, []string{"mod:Send", "mod:Build", "other:Send"}, got)
}

func TestReplaceReservedNames(ttt *testing.T) {
	tests := []struct {
		name   string
		check  func(t *testing.T, tree *sample.Tree)
		rename func(tree *sample.Tree)
	}{
		{
			name: "property keeps its wire name",
			check: func(t *testing.T, tree *sample.Tree) {
				p := tree.User.FindProperty("class_escaped")
				require.NotNil(t, p)
				assert.Equal(t, "class", p.WireName())
				assert.Nil(t, tree.User.FindProperty("class"))
			},
		},
		{
			name:   "renamed class is followed by typed references",
			rename: func(tree *sample.Tree) { tree.Entity.Name = "import" },
			check: func(t *testing.T, tree *sample.Tree) {
				assert.Equal(t, "import_escaped", tree.Entity.Name)
				assert.Equal(t, "import_escaped", tree.User.Inherits.Name)
				member := codedom.Innermost(tree.User.FindProperty("memberOf").Type)
				assert.Equal(t, "import_escaped", member.Name)
				mapping, ok := tree.Entity.DiscriminatorInformation().GetMapping("#microsoft.graph.entity")
				require.True(t, ok)
				assert.Equal(t, "import_escaped", mapping.TypeName())
			},
		},
		{
			name:   "namespaces are left alone",
			rename: func(tree *sample.Tree) { tree.Root.FindNamespaceByName("ApiSdk.models").Name = "class" },
			check: func(t *testing.T, tree *sample.Tree) {
				assert.Equal(t, "class", codedom.ParentNamespace(tree.User).Name)
			},
		},
		{
			name: "matching is case-insensitive",
			rename: func(tree *sample.Tree) {
				codedom.Rename(tree.User.FindProperty("displayName"), "Lambda")
			},
			check: func(t *testing.T, tree *sample.Tree) {
				p := tree.User.FindProperty("Lambda_escaped")
				require.NotNil(t, p)
				assert.Equal(t, "Lambda", p.WireName())
			},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := sample.New(config.New())
			if tt.rename != nil {
				tt.rename(tree)
			}
			pass := ReplaceReservedNames(DefaultPythonSettings().ReservedNames, func(s string) string { return s + "_escaped" })
			require.NoError(t, pass.Apply(tree.Root))
			tt.check(t, tree)
		})
	}
}

func TestReplaceIndexersByMethodsWithParameter(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, ReplaceIndexersByMethodsWithParameter("_by_id").Apply(tree.Root))

	assert.Nil(t, tree.Users.Indexer)
	methods := tree.Client.GetMethodsOfKind(codedom.MethodIndexerBackwardCompatibility)
	require.Len(t, methods, 1)
	m := methods[0]
	assert.Equal(t, "users_by_id", m.Name)
	assert.Equal(t, "user%2Did", m.PathSegment)
	assert.Equal(t, "userItemRequestBuilder", m.ReturnType.TypeName())
	require.NotNil(t, m.OriginalIndexer)

	id := m.ParameterOfKind(codedom.ParameterPath)
	require.NotNil(t, id)
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, "user%2Did", id.WireName())
}

func TestReplaceIndexerWithoutReferrer(t *testing.T) {
	tree := sample.New(config.New())
	p := tree.Client.FindProperty("users")
	p.Type = codedom.NewType("somethingElse")

	require.NoError(t, ReplaceIndexersByMethodsWithParameter("ById").Apply(tree.Root))
	require.NotNil(t, tree.Users.FindMethod("userById"))
	assert.Empty(t, tree.Client.GetMethodsOfKind(codedom.MethodIndexerBackwardCompatibility))
}

func TestReplaceIndexerRequiresTypes(t *testing.T) {
	tree := sample.New(config.New())
	tree.Users.Indexer.ReturnType = nil
	err := ReplaceIndexersByMethodsWithParameter("_by_id").Apply(tree.Root)
	assert.True(t, errors.IsStructure(err))
}

func TestAddBackingStore(ttt *testing.T) {
	settings := BackingStoreSettings{
		PropertyName:  "backingStore",
		TypeName:      "BackingStore",
		DefaultValue:  "factory()",
		Implements:    "BackedModel",
		ParameterName: "backingStore",
		ParameterType: "BackingStoreFactory",
	}
	ttt.Run("disabled", func(t *testing.T) {
		t.Parallel()
		tree := sample.New(config.New())
		before := codedom.Dump(tree.Root)
		require.NoError(t, AddBackingStore(settings).Apply(tree.Root))
		assert.Empty(t, cmp.Diff(before, codedom.Dump(tree.Root)))
	})
	ttt.Run("enabled", func(t *testing.T) {
		t.Parallel()
		tree := sample.New(config.New())
		s := settings
		s.Enabled = true
		require.NoError(t, AddBackingStore(s).Apply(tree.Root))

		store := tree.Entity.GetPropertyOfKind(codedom.PropertyBackingStore)
		require.NotNil(t, store)
		assert.Equal(t, "factory()", store.DefaultValue)
		assert.True(t, implements(tree.Entity, "BackedModel"))
		assert.Nil(t, tree.User.GetPropertyOfKind(codedom.PropertyBackingStore), "derived models use the base store")
		assert.NotNil(t, tree.ODataError.GetPropertyOfKind(codedom.PropertyBackingStore))
		assert.NotNil(t, tree.ClientCtor.ParameterOfKind(codedom.ParameterBackingStore))
	})
}

func TestAddGetterAndSetterMethods(t *testing.T) {
	tree := sample.New(config.New())
	tree.User.FindProperty("class").ReadOnly = true
	pass := AddGetterAndSetterMethods([]codedom.PropertyKind{codedom.PropertyCustom}, "get_", "set_", "None")
	require.NoError(t, pass.Apply(tree.Root))
	require.NoError(t, pass.Apply(tree.Root))

	getters := tree.User.GetMethodsOfKind(codedom.MethodGetter)
	setters := tree.User.GetMethodsOfKind(codedom.MethodSetter)
	require.Len(t, getters, 7)
	require.Len(t, setters, 7)
	assert.Equal(t, "get_DisplayName", getters[0].Name)
	assert.Equal(t, "set_DisplayName", setters[0].Name)
	assert.Same(t, tree.User.FindProperty("displayName"), getters[0].AccessedProperty)
	assert.Equal(t, codedom.Private, tree.User.FindProperty("displayName").Access)

	value := setters[0].ParameterOfKind(codedom.ParameterSetterValue)
	require.NotNil(t, value)
	assert.Equal(t, "value", value.Name)
	assert.Equal(t, codedom.Private, tree.User.FindMethod("set_Class").Access)
	assert.Empty(t, tree.QueryParams.GetMethodsOfKind(codedom.MethodGetter))
}

func TestReplaceTypes(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, ReplaceTypes("replace-date-types", DefaultPythonSettings().DateTypes).Apply(tree.Root))
	require.NoError(t, ReplaceBinaryByNativeType("bytes", "").Apply(tree.Root))

	assert.Equal(t, "date", tree.User.FindProperty("birthday").Type.TypeName())
	assert.Equal(t, "bytes", tree.User.FindProperty("photo").Type.TypeName())
	assert.Equal(t, "string", tree.User.FindProperty("displayName").Type.TypeName())

	var modules []string
	for _, u := range tree.User.Usings() {
		modules = append(modules, u.Module()+":"+u.Name)
	}
	assert.Equal(t, []string{"datetime:date"}, modules)
}

func TestSerializationModules(t *testing.T) {
	cfg := config.New()
	tree := sample.New(cfg)
	s := DefaultPythonSettings()
	for _, pass := range []Pass{
		ReplaceDefaultSerializationModules(cfg.Serializers, s.Serializers),
		ReplaceDefaultDeserializationModules(cfg.Deserializers, s.Deserializers),
		AddSerializationModulesImport(s.SerializerSymbols, s.DeserializerSymbols),
	} {
		require.NoError(t, pass.Apply(tree.Root))
	}
	assert.Equal(t, s.Serializers, tree.ClientCtor.SerializerModules)
	assert.Equal(t, s.Deserializers, tree.ClientCtor.DeserializerModules)

	var got []string
	for _, u := range tree.Client.Usings() {
		got = append(got, u.Module()+":"+u.Name)
	}
	assert.Equal(t, []string{
		"kiota_serialization_json.json_serialization_writer_factory:JsonSerializationWriterFactory",
		"kiota_serialization_json.json_parse_node_factory:JsonParseNodeFactory",
		"kiota_abstractions.api_client_builder:register_default_serializer",
		"kiota_abstractions.api_client_builder:register_default_deserializer",
	}, got)
}

func TestSerializationModulesKeepCustomLists(t *testing.T) {
	tree := sample.New(config.New())
	tree.ClientCtor.SerializerModules = []string{"custom.Writer"}
	require.NoError(t, ReplaceDefaultSerializationModules([]string{config.DefaultSerializer}, []string{"json.Writer"}).Apply(tree.Root))
	assert.Equal(t, []string{"custom.Writer"}, tree.ClientCtor.SerializerModules)
}

func TestAddPropertiesAndMethodTypesImports(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, AddPropertiesAndMethodTypesImports(false).Apply(tree.Root))

	var userItem []string
	for _, u := range tree.UserItem.Usings() {
		userItem = append(userItem, u.Module()+":"+u.Name)
	}
	assert.Equal(t, []string{"ApiSdk.models:user", "ApiSdk.models:oDataError"}, userItem)
	assert.Empty(t, tree.User.Usings(), "same namespace references need no import")

	require.NoError(t, AddPropertiesAndMethodTypesImports(true).Apply(tree.Root))
	var user []string
	for _, u := range tree.User.Usings() {
		user = append(user, u.Name)
	}
	assert.Equal(t, []string{"entity", "accountType"}, user)
}

func TestAddNamespaceModuleImports(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, AddNamespaceModuleImports("ApiSdk").Apply(tree.Root))

	paths := func(c *codedom.Class) []string {
		var out []string
		for _, u := range c.Usings() {
			out = append(out, u.Module())
		}
		return out
	}
	assert.Equal(t, []string{"./api_sdk"}, paths(tree.Client))
	assert.Equal(t, []string{"../users", "../api_sdk"}, paths(tree.Users))
	assert.Equal(t, []string{"../item", "../../users", "../../api_sdk"}, paths(tree.UserItem))
	assert.Empty(t, tree.QueryParams.Usings())
}

func TestFixInheritedEntityType(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, FixInheritedEntityType("entity").Apply(tree.Root))
	assert.Equal(t, "ApiSdk::Models::Entity", tree.User.Inherits.Name)
	assert.Nil(t, tree.Entity.Inherits)
}

func TestAddDiscriminatorFactoryMethods(t *testing.T) {
	tree := sample.New(config.New())
	pass := AddDiscriminatorFactoryMethods("create_from_discriminator_value", "ParseNode")
	require.NoError(t, pass.Apply(tree.Root))
	require.NoError(t, pass.Apply(tree.Root))

	factories := tree.Entity.GetMethodsOfKind(codedom.MethodFactory)
	require.Len(t, factories, 1)
	assert.True(t, factories[0].IsStatic)
	assert.Same(t, tree.Entity, factories[0].ReturnType.(*codedom.Type).Definition)
	assert.NotNil(t, factories[0].ParameterOfKind(codedom.ParameterParseNode))
	assert.Empty(t, tree.UserItem.GetMethodsOfKind(codedom.MethodFactory))
}

func TestAddParentClassToErrorClasses(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, AddParentClassToErrorClasses("APIError", "kiota_abstractions.api_error").Apply(tree.Root))
	require.NotNil(t, tree.ODataError.Inherits)
	assert.Equal(t, "APIError", tree.ODataError.Inherits.Name)
	assert.True(t, tree.ODataError.Inherits.External)
	assert.Equal(t, "entity", tree.User.Inherits.Name)
}

func TestAddConstructorsForDefaultValues(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, AddConstructorsForDefaultValues(true, "None").Apply(tree.Root))
	assert.Len(t, tree.User.GetMethodsOfKind(codedom.MethodConstructor), 1, "inherited")
	assert.Empty(t, tree.Entity.GetMethodsOfKind(codedom.MethodConstructor), "no defaults and no base")
	assert.Len(t, tree.Users.GetMethodsOfKind(codedom.MethodConstructor), 1, "existing constructor kept")
	assert.Empty(t, tree.QueryParams.GetMethodsOfKind(codedom.MethodConstructor))
}

package refiner

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/internal/sample"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
)

func languagePipelines(cfg *config.GenerationConfiguration) map[string]*Pipeline {
	return map[string]*Pipeline{
		"python": NewPython(cfg, DefaultPythonSettings()),
		"ruby":   NewRuby(cfg, DefaultRubySettings()),
		"go":     NewGo(cfg, DefaultGoSettings()),
	}
}

func TestLanguageRefinersLeaveALegalTree(ttt *testing.T) {
	for _, backingStore := range []bool{false, true} {
		cfg := config.New()
		cfg.UsesBackingStore = backingStore
		for lang, p := range languagePipelines(cfg) {
			ttt.Run(fmt.Sprintf("%s/backingstore=%t", lang, backingStore), func(t *testing.T) {
				t.Parallel()
				tree := sample.New(cfg)
				before := codedom.Dump(tree.Root)
				require.NoError(t, p.Refine(tree.Root))
				assert.NotEmpty(t, cmp.Diff(before, codedom.Dump(tree.Root)))

				for _, c := range codedom.Collect[*codedom.Class](tree.Root) {
					assert.Nil(t, c.Indexer, "indexer left on %s", c.Name)
				}
				codedom.ForEachTypeRef(tree.Root, func(owner codedom.Element, ty *codedom.Type) {
					if ty.Definition == nil {
						return
					}
					assert.Same(t, tree.Root, codedom.Root(ty.Definition), "dangling reference from %s", codedom.NameOf(owner))
				})
				assert.NotEmpty(t, tree.Client.GetMethodsOfKind(codedom.MethodIndexerBackwardCompatibility))
				assert.NotEmpty(t, tree.Entity.GetMethodsOfKind(codedom.MethodFactory))
				assert.NotEmpty(t, tree.User.GetMethodsOfKind(codedom.MethodGetter))
				assert.NotNil(t, tree.ODataError.Inherits)
				assert.Equal(t, backingStore, tree.Entity.GetPropertyOfKind(codedom.PropertyBackingStore) != nil)
				assert.NotEqual(t, []string{config.DefaultSerializer}, tree.ClientCtor.SerializerModules)
			})
		}
	}
}

func TestLanguageRefinersAreDeterministic(ttt *testing.T) {
	cfg := config.New()
	for lang, p := range languagePipelines(cfg) {
		ttt.Run(lang, func(t *testing.T) {
			t.Parallel()
			a, b := sample.New(cfg), sample.New(cfg)
			require.NoError(t, p.Refine(a.Root))
			require.NoError(t, p.Refine(b.Root))
			if diff := cmp.Diff(codedom.Dump(a.Root), codedom.Dump(b.Root)); diff != "" {
				t.Errorf("refined trees differ (-a +b):\n%s", diff)
			}
		})
	}
}

func TestPythonRefinerSpecifics(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, NewPython(config.New(), DefaultPythonSettings()).Refine(tree.Root))

	escaped := tree.User.FindProperty("class_escaped")
	require.NotNil(t, escaped)
	assert.Equal(t, "class", escaped.WireName())
	assert.NotNil(t, tree.User.FindMethod("get_Class_escaped"))
	assert.Equal(t, "date", tree.User.FindProperty("birthday").Type.TypeName())
	assert.Equal(t, "bytes", tree.User.FindProperty("photo").Type.TypeName())
	assert.Equal(t, "Dict[str, Any]", tree.Entity.GetPropertyOfKind(codedom.PropertyAdditionalData).Type.TypeName())
	assert.True(t, implements(tree.Entity, "AdditionalDataHolder"))
	assert.True(t, implements(tree.Entity, "Parsable"))
	assert.Equal(t, "APIError", tree.ODataError.Inherits.Name)
	assert.NotNil(t, tree.Client.FindMethod("users_by_id"))
}

func TestRubyRefinerSpecifics(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, NewRuby(config.New(), DefaultRubySettings()).Refine(tree.Root))

	assert.Equal(t, "ApiSdk::Models::Entity", tree.User.Inherits.Name)
	pathParams := tree.Users.GetPropertyOfKind(codedom.PropertyPathParameters)
	require.NotNil(t, pathParams)
	assert.Equal(t, "Hash.new", pathParams.DefaultValue)
	assert.True(t, pathParams.Type.IsNullable())

	var requires []string
	for _, u := range tree.UserItem.Usings() {
		if u.IsExternal() && len(u.Module()) > 0 && u.Module()[0] == '.' {
			requires = append(requires, u.Module())
		}
	}
	assert.Equal(t, []string{"../item", "../../users", "../../api_sdk"}, requires)
}

func TestGoRefinerSpecifics(t *testing.T) {
	tree := sample.New(config.New())
	require.NoError(t, NewGo(config.New(), DefaultGoSettings()).Refine(tree.Root))

	assert.NotNil(t, tree.User.FindMethod("GetDisplayName"))
	assert.NotNil(t, tree.User.FindMethod("SetDisplayName"))
	assert.NotNil(t, tree.Client.FindMethod("usersById"))
	assert.Equal(t, "[]byte", tree.User.FindProperty("photo").Type.TypeName())
	assert.Equal(t, "DateOnly", tree.User.FindProperty("birthday").Type.TypeName())
	assert.Equal(t, "map[string]any", tree.Entity.GetPropertyOfKind(codedom.PropertyAdditionalData).Type.TypeName())
	assert.Equal(t, []string{"github.com/microsoft/kiota-serialization-json-go.NewJsonSerializationWriterFactory"}, tree.ClientCtor.SerializerModules)
}

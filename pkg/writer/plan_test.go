package writer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/internal/sample"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/writer"
	"github.com/cmmoran/clientgen/pkg/writer/python"
)

var conv = python.Conventions{}

type widgetTree struct {
	widget *codedom.Class
	part   *codedom.Class
	kind   *codedom.Enum
}

// newWidgetTree builds a model with one property per serialization shape.
func newWidgetTree(t *testing.T) widgetTree {
	t.Helper()
	root := codedom.InitRootNamespace()
	ns, err := root.AddNamespace("Sdk.models")
	require.NoError(t, err)
	classes, err := ns.AddClass(
		&codedom.Class{Name: "widget", Kind: codedom.ClassModel},
		&codedom.Class{Name: "part", Kind: codedom.ClassModel},
	)
	require.NoError(t, err)
	enums, err := ns.AddEnum(&codedom.Enum{Name: "kind"})
	require.NoError(t, err)
	w := widgetTree{widget: classes[0], part: classes[1], kind: enums[0]}
	_, err = w.widget.AddProperty(
		&codedom.Property{Name: "label", Kind: codedom.PropertyCustom, Type: codedom.NewType("string")},
		&codedom.Property{Name: "tags", Kind: codedom.PropertyCustom, Type: codedom.ArrayOf(codedom.NewType("string")), SerializationName: "tag_list"},
		&codedom.Property{Name: "parts", Kind: codedom.PropertyCustom, Type: codedom.ArrayOf(&codedom.Type{Name: "part", Definition: w.part})},
		&codedom.Property{Name: "kind", Kind: codedom.PropertyCustom, Type: &codedom.Type{Name: "kind", Definition: w.kind}},
		&codedom.Property{Name: "additionalData", Kind: codedom.PropertyAdditionalData, Type: &codedom.Type{Name: "Dict[str, Any]", External: true}},
	)
	require.NoError(t, err)
	serialize := &codedom.Method{Name: "serialize", Kind: codedom.MethodSerializer, ReturnType: codedom.NewType("void")}
	_, err = serialize.AddParameter(&codedom.Parameter{Name: "writer", Kind: codedom.ParameterSerializer, Type: codedom.NewType("SerializationWriter")})
	require.NoError(t, err)
	_, err = w.widget.AddMethod(serialize, &codedom.Method{Name: "getFieldDeserializers", Kind: codedom.MethodDeserializer, ReturnType: codedom.NewType("Dict")})
	require.NoError(t, err)
	return w
}

func TestPlanMethodRejectsMalformedMethods(ttt *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, tree *sample.Tree) *codedom.Method
	}{
		{"detached", func(*testing.T, *sample.Tree) *codedom.Method {
			return &codedom.Method{Name: "orphan", ReturnType: codedom.NewType("void")}
		}},
		{"missing return type", func(_ *testing.T, tree *sample.Tree) *codedom.Method {
			tree.GetExecutor.ReturnType = nil
			return tree.GetExecutor
		}},
		{"executor without http method", func(_ *testing.T, tree *sample.Tree) *codedom.Method {
			tree.GetExecutor.HttpMethod = codedom.HTTPUnset
			return tree.GetExecutor
		}},
		{"generator without http method", func(_ *testing.T, tree *sample.Tree) *codedom.Method {
			tree.GetGenerator.HttpMethod = codedom.HTTPUnset
			return tree.GetGenerator
		}},
		{"executor without matching generator", func(_ *testing.T, tree *sample.Tree) *codedom.Method {
			tree.GetGenerator.HttpMethod = codedom.HTTPPost
			return tree.GetExecutor
		}},
		{"getter without property", func(t *testing.T, tree *sample.Tree) *codedom.Method {
			m := &codedom.Method{Name: "getX", Kind: codedom.MethodGetter, ReturnType: codedom.NewType("string")}
			_, err := tree.User.AddMethod(m)
			require.NoError(t, err)
			return m
		}},
		{"mapper without parameter", func(t *testing.T, tree *sample.Tree) *codedom.Method {
			m := &codedom.Method{Name: "map", Kind: codedom.MethodQueryParametersMapper, ReturnType: codedom.NewType("string")}
			_, err := tree.QueryParams.AddMethod(m)
			require.NoError(t, err)
			return m
		}},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tree := sample.New(config.New())
			_, err := writer.PlanMethod(conv, tc.setup(t, tree))
			require.Error(t, err)
			assert.True(t, errors.IsStructure(err), "%v", err)
		})
	}
}

func TestPlanMethodRejectsNil(t *testing.T) {
	_, err := writer.PlanMethod(conv, nil)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestRenderFailsBeforeAnyText(t *testing.T) {
	tree := sample.New(config.New())
	tree.GetExecutor.HttpMethod = codedom.HTTPUnset
	out, err := python.NewWriter().Render(tree.UserItem)
	require.Error(t, err)
	assert.True(t, errors.IsStructure(err))
	assert.Empty(t, out)
}

func TestGeneratorStepOrder(ttt *testing.T) {
	tree := sample.New(config.New())
	both := &codedom.Method{Name: "toPostRequestInformation", Kind: codedom.MethodRequestGenerator, HttpMethod: codedom.HTTPPost, ReturnType: codedom.NewType("RequestInformation")}
	_, err := both.AddParameter(
		&codedom.Parameter{Name: "body", Kind: codedom.ParameterRequestBody, Type: &codedom.Type{Name: "user", Definition: tree.User}},
		&codedom.Parameter{Name: "q", Kind: codedom.ParameterQueryParameter, Type: &codedom.Type{Name: tree.QueryParams.Name, Definition: tree.QueryParams}},
		&codedom.Parameter{Name: "h", Kind: codedom.ParameterHeaders, Type: codedom.NewType("Dict[str, str]")},
	)
	require.NoError(ttt, err)
	_, err = tree.UserItem.AddMethod(both)
	require.NoError(ttt, err)

	cases := []struct {
		name string
		m    *codedom.Method
		want []writer.RequestStep
	}{
		{"headers query options", tree.GetGenerator, []writer.RequestStep{writer.StepUrlTemplate, writer.StepHttpMethod, writer.StepHeaders, writer.StepQuery, writer.StepOptions}},
		{"declaration order ignored", both, []writer.RequestStep{writer.StepUrlTemplate, writer.StepHttpMethod, writer.StepHeaders, writer.StepQuery, writer.StepBody}},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			plan, err := writer.PlanMethod(conv, tc.m)
			require.NoError(t, err)
			require.NotNil(t, plan.Generator)
			assert.Equal(t, tc.want, plan.Generator.Steps)
		})
	}
}

func TestGeneratorDefaultsContentType(t *testing.T) {
	tree := sample.New(config.New())
	patch := tree.UserItem.FindMethod("toPatchRequestInformation")
	patch.ContentType = ""
	plan, err := writer.PlanMethod(conv, patch)
	require.NoError(t, err)
	assert.Equal(t, "application/json", plan.Generator.ContentType)
	assert.False(t, plan.Generator.BodyIsStream)
}

func TestSerializerPlan(t *testing.T) {
	w := newWidgetTree(t)
	plan, err := writer.PlanMethod(conv, w.widget.FindMethod("serialize"))
	require.NoError(t, err)
	require.NotNil(t, plan.Serializer)
	assert.False(t, plan.Serializer.CallSuper)
	require.NotNil(t, plan.Serializer.AdditionalData)

	var kinds []writer.IOKind
	var wires []string
	for _, io := range plan.Serializer.Writes {
		kinds = append(kinds, io.Kind)
		wires = append(wires, io.WireName)
	}
	assert.Equal(t, []writer.IOKind{writer.IOPrimitive, writer.IOCollectionOfPrimitives, writer.IOCollectionOfObjects, writer.IOEnum}, kinds)
	assert.Equal(t, []string{"label", "tag_list", "parts", "kind"}, wires)
}

func TestSerializerWritesReadOnly(t *testing.T) {
	w := newWidgetTree(t)
	w.widget.FindProperty("label").ReadOnly = true
	plan, err := writer.PlanMethod(conv, w.widget.FindMethod("serialize"))
	require.NoError(t, err)
	require.Len(t, plan.Serializer.Writes, 4)
	assert.Equal(t, "label", plan.Serializer.Writes[0].WireName)

	plan, err = writer.PlanMethod(conv, w.widget.FindMethod("getFieldDeserializers"))
	require.NoError(t, err)
	assert.Len(t, plan.Deserializer.Reads, 4)
}

func TestParentOutsideTreeDelegates(ttt *testing.T) {
	cases := []struct {
		name    string
		inherit *codedom.Type
	}{
		{"external", &codedom.Type{Name: "BaseModel", External: true}},
		{"unresolved", &codedom.Type{Name: "someParent"}},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := newWidgetTree(t)
			w.widget.Inherits = tc.inherit

			ser, err := writer.PlanMethod(conv, w.widget.FindMethod("serialize"))
			require.NoError(t, err)
			assert.True(t, ser.Serializer.CallSuper)

			de, err := writer.PlanMethod(conv, w.widget.FindMethod("getFieldDeserializers"))
			require.NoError(t, err)
			assert.True(t, de.Deserializer.MergeSuper)
		})
	}
}

func TestInheritingModelDelegatesToBase(t *testing.T) {
	tree := sample.New(config.New())
	ser, err := writer.PlanMethod(conv, tree.User.FindMethod("serialize"))
	require.NoError(t, err)
	assert.True(t, ser.Serializer.CallSuper)

	de, err := writer.PlanMethod(conv, tree.User.FindMethod("getFieldDeserializers"))
	require.NoError(t, err)
	assert.True(t, de.Deserializer.MergeSuper)

	base, err := writer.PlanMethod(conv, tree.Entity.FindMethod("serialize"))
	require.NoError(t, err)
	assert.False(t, base.Serializer.CallSuper)
}

func TestExecutorPlan(t *testing.T) {
	tree := sample.New(config.New())
	plan, err := writer.PlanMethod(conv, tree.GetExecutor)
	require.NoError(t, err)
	require.NotNil(t, plan.Executor)
	assert.Same(t, tree.GetGenerator, plan.Executor.Generator)
	assert.Equal(t, writer.SendObject, plan.Executor.Send)

	var codes []string
	for _, em := range plan.Executor.ErrorMappings {
		codes = append(codes, em.Code)
	}
	assert.Equal(t, []string{"4XX", "5XX"}, codes)

	var args []string
	for _, a := range plan.Executor.GeneratorArgs {
		args = append(args, a.Name)
	}
	assert.Equal(t, []string{"h", "q", "o"}, args)
}

func TestExecutorSendKinds(ttt *testing.T) {
	cases := []struct {
		name string
		ret  func(tree *sample.Tree) codedom.TypeExpr
		want writer.SendKind
	}{
		{"void", func(*sample.Tree) codedom.TypeExpr { return codedom.NewType("void") }, writer.SendVoid},
		{"stream", func(*sample.Tree) codedom.TypeExpr { return codedom.NewType("binary") }, writer.SendStream},
		{"primitive", func(*sample.Tree) codedom.TypeExpr { return codedom.NewType("string") }, writer.SendPrimitive},
		{"primitive collection", func(*sample.Tree) codedom.TypeExpr { return codedom.ArrayOf(codedom.NewType("string")) }, writer.SendPrimitiveCollection},
		{"collection", func(tree *sample.Tree) codedom.TypeExpr {
			return codedom.ArrayOf(&codedom.Type{Name: "user", Definition: tree.User})
		}, writer.SendCollection},
		{"composed collapses to first member", func(tree *sample.Tree) codedom.TypeExpr {
			c := &codedom.ComposedType{Name: "userOrString"}
			c.AddMember(&codedom.Type{Name: "user", Definition: tree.User}, codedom.NewType("string"))
			return c
		}, writer.SendObject},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tree := sample.New(config.New())
			tree.GetExecutor.ReturnType = tc.ret(tree)
			plan, err := writer.PlanMethod(conv, tree.GetExecutor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, plan.Executor.Send)
		})
	}
}

func TestAccessorPlanDefaultOnMissing(ttt *testing.T) {
	cases := []struct {
		name     string
		store    bool
		nullable bool
		def      string
		want     bool
	}{
		{"store non-nullable default", true, false, `"X"`, true},
		{"store nullable default", true, true, `"X"`, false},
		{"store no default", true, false, "", false},
		{"field", false, false, `"X"`, false},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := newWidgetTree(t)
			label := w.widget.FindProperty("label")
			label.DefaultValue = tc.def
			label.Type.SetNullable(tc.nullable)
			if tc.store {
				_, err := w.widget.AddProperty(&codedom.Property{Name: "backingStore", Kind: codedom.PropertyBackingStore, Type: codedom.NewType("BackingStore")})
				require.NoError(t, err)
			}
			getter := &codedom.Method{Name: "getLabel", Kind: codedom.MethodGetter, ReturnType: label.Type.CloneType(), AccessedProperty: label}
			_, err := w.widget.AddMethod(getter)
			require.NoError(t, err)

			plan, err := writer.PlanMethod(conv, getter)
			require.NoError(t, err)
			require.NotNil(t, plan.Accessor)
			assert.True(t, plan.Accessor.Getter)
			assert.Equal(t, tc.store, plan.Accessor.BackingStore != nil)
			assert.Equal(t, tc.want, plan.Accessor.DefaultOnMissing)
		})
	}
}

func TestBackingStoreIsInherited(t *testing.T) {
	tree := sample.New(config.New())
	_, err := tree.Entity.AddProperty(&codedom.Property{Name: "backingStore", Kind: codedom.PropertyBackingStore, Type: codedom.NewType("BackingStore")})
	require.NoError(t, err)
	setter := &codedom.Method{Name: "setDisplayName", Kind: codedom.MethodSetter, ReturnType: codedom.NewType("void"), AccessedProperty: tree.User.FindProperty("displayName")}
	_, err = setter.AddParameter(&codedom.Parameter{Name: "value", Kind: codedom.ParameterSetterValue, Type: codedom.NewType("string")})
	require.NoError(t, err)
	_, err = tree.User.AddMethod(setter)
	require.NoError(t, err)

	plan, err := writer.PlanMethod(conv, setter)
	require.NoError(t, err)
	assert.Same(t, tree.Entity.FindProperty("backingStore"), plan.Accessor.BackingStore)
	assert.Equal(t, "value", plan.Accessor.Value.Name)
}

func TestConstructorPlan(t *testing.T) {
	tree := sample.New(config.New())
	plan, err := writer.PlanMethod(conv, tree.Users.GetMethodsOfKind(codedom.MethodConstructor)[0])
	require.NoError(t, err)
	require.NotNil(t, plan.Constructor)
	assert.False(t, plan.Constructor.Client)
	require.Len(t, plan.Constructor.Defaults, 1)
	assert.Equal(t, "urlTemplate", plan.Constructor.Defaults[0].Name)
	assert.NotNil(t, plan.Constructor.PathParameters)
	require.Len(t, plan.Constructor.Assignments, 1)
	assert.Equal(t, codedom.PropertyRequestAdapter, plan.Constructor.Assignments[0].Property.Kind)

	client, err := writer.PlanMethod(conv, tree.ClientCtor)
	require.NoError(t, err)
	assert.True(t, client.Constructor.Client)
	assert.Equal(t, []string{config.DefaultSerializer}, client.Constructor.SerializerModules)
	assert.Nil(t, client.Constructor.PathParameters)
}

func TestQueryMapperPlan(t *testing.T) {
	tree := sample.New(config.New())
	plan, err := writer.PlanMethod(conv, tree.QueryParams.FindMethod("getQueryParameter"))
	require.NoError(t, err)
	assert.Equal(t, []writer.QueryMapping{{Identifier: "select", WireName: "%24select"}}, plan.QueryMapper.Mappings)
}

func TestFactoryPlanOrdersMappings(t *testing.T) {
	tree := sample.New(config.New())
	factory := &codedom.Method{Name: "createFromDiscriminatorValue", Kind: codedom.MethodFactory, IsStatic: true, ReturnType: &codedom.Type{Name: "entity", Definition: tree.Entity}}
	_, err := factory.AddParameter(&codedom.Parameter{Name: "parseNode", Kind: codedom.ParameterParseNode, Type: codedom.NewType("ParseNode")})
	require.NoError(t, err)
	_, err = tree.Entity.AddMethod(factory)
	require.NoError(t, err)

	plan, err := writer.PlanMethod(conv, factory)
	require.NoError(t, err)
	assert.Equal(t, "@odata.type", plan.Factory.PropertyName)
	var keys []string
	for _, m := range plan.Factory.Mappings {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"#microsoft.graph.entity", "#microsoft.graph.user"}, keys)
}

func TestOtherKindsAreTrivial(t *testing.T) {
	tree := sample.New(config.New())
	m := &codedom.Method{Name: "describe", ReturnType: codedom.NewType("string")}
	_, err := tree.User.AddMethod(m)
	require.NoError(t, err)
	plan, err := writer.PlanMethod(conv, m)
	require.NoError(t, err)
	assert.True(t, plan.Trivial())
}

func TestWriteRejectsOwnedElements(ttt *testing.T) {
	tree := sample.New(config.New())
	cases := []struct {
		name string
		e    codedom.Element
	}{
		{"parameter", tree.GetGenerator.Parameters()[0]},
		{"enum option", tree.AccountType.Options()[0]},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			_, err := python.NewWriter().Render(tc.e)
			assert.True(t, errors.IsStructure(err), "%v", err)
		})
	}
	_, err := python.NewWriter().Render(nil)
	assert.True(ttt, errors.IsInvalidInput(err))
}

func TestUnits(t *testing.T) {
	tree := sample.New(config.New())
	var names []string
	for _, e := range writer.Units(tree.Root, false) {
		names = append(names, codedom.NameOf(e))
	}
	assert.ElementsMatch(t, []string{"ApiClient", "usersRequestBuilder", "userItemRequestBuilder", "entity", "user", "oDataError", "accountType"}, names)
	assert.NotContains(t, names, tree.QueryParams.Name)

	withNs := writer.Units(tree.Root, true)
	assert.Len(t, withNs, len(names)+4)
}

func TestRelativeImport(ttt *testing.T) {
	tree := sample.New(config.New())
	item := codedom.ParentNamespace(tree.UserItem)
	models := codedom.ParentNamespace(tree.User)
	cases := []struct {
		name     string
		from, to *codedom.Namespace
		ups      int
		downs    []string
	}{
		{"same", models, models, 0, nil},
		{"sibling branch", item, models, 2, []string{"models"}},
		{"descend", codedom.ParentNamespace(tree.Client), item, 0, []string{"users", "item"}},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			ups, downs := writer.RelativeImport(tc.from, tc.to)
			assert.Equal(t, tc.ups, ups)
			assert.Equal(t, tc.downs, downs)
		})
	}
}

func TestDocumentationOrdersParameters(t *testing.T) {
	tree := sample.New(config.New())
	lines := writer.Documentation(conv, tree.GetExecutor)
	require.NotEmpty(t, lines)
	assert.Equal(t, "Retrieve the properties of a user.", lines[0])
	assert.Equal(t, []string{
		"param h: Request headers",
		"param o: Request options",
		"param q: Request query parameters",
		"param response_handler: Response handler to use in place of the default response handling provided by the core service",
	}, lines[1:])
}

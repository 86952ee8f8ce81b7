package python

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/internal/sample"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/refiner"
)

func refined(t *testing.T, opts ...config.Option) *sample.Tree {
	t.Helper()
	cfg := config.New(opts...)
	tree := sample.New(cfg)
	require.NoError(t, refiner.NewPython(cfg, refiner.DefaultPythonSettings()).Refine(tree.Root))
	return tree
}

func render(t *testing.T, e codedom.Element) string {
	t.Helper()
	out, err := NewWriter().Render(e)
	require.NoError(t, err)
	return out
}

// containsInOrder reports whether every fragment occurs in s after the
// previous one.
func containsInOrder(s string, fragments ...string) bool {
	for _, f := range fragments {
		i := strings.Index(s, f)
		if i < 0 {
			return false
		}
		s = s[i+len(f):]
	}
	return true
}

func TestTypeString(ttt *testing.T) {
	user := &codedom.Class{Name: "user"}
	union := &codedom.ComposedType{}
	union.AddMember(&codedom.Type{Name: "integer"}, &codedom.Type{Name: "string"})
	users := codedom.ArrayOf(&codedom.Type{Name: "user", Definition: user})
	users.SetNullable(false)
	cases := []struct {
		name string
		t    codedom.TypeExpr
		want string
	}{
		{"primitive", &codedom.Type{Name: "string"}, "str"},
		{"nullable by default", codedom.NewType("string"), "Optional[str]"},
		{"nullable", &codedom.Type{Name: "boolean", Nullable: true}, "Optional[bool]"},
		{"model", &codedom.Type{Name: "user", Definition: user}, "User"},
		{"collection", users, "List[User]"},
		{"nullable collection", codedom.ArrayOf(&codedom.Type{Name: "user", Definition: user}), "Optional[List[User]]"},
		{"unnamed composed collapses", union, "int"},
		{"external passes through", &codedom.Type{Name: "Dict[str, Any]", External: true}, "Dict[str, Any]"},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			got, err := Conventions{}.TypeString(tc.t, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
	_, err := Conventions{}.TypeString(nil, nil)
	assert.Error(ttt, err)
}

func TestPaths(t *testing.T) {
	tree := refined(t)
	assert.Equal(t, "api_sdk/api_client.py", Path(tree.Client))
	assert.Equal(t, "api_sdk/users/item/user_item_request_builder.py", Path(tree.UserItem))
	assert.Equal(t, "api_sdk/models/__init__.py", Path(codedom.ParentNamespace(tree.User)))
}

func TestWritesModel(t *testing.T) {
	tree := refined(t)
	out := render(t, tree.User)

	assert.True(t, strings.HasPrefix(out, "from __future__ import annotations\n"))
	assert.Contains(t, out, "from .entity import Entity\n")
	assert.Contains(t, out, "if TYPE_CHECKING:\n    from .account_type import AccountType\n")
	assert.Contains(t, out, "class User(Entity, Parsable):")
	assert.Contains(t, out, "_display_name: Optional[str] = None")

	assert.True(t, containsInOrder(out,
		"def serialize(self, writer: SerializationWriter) -> None:",
		"super().serialize(writer)",
		`writer.write_str_value("displayName", self.get_display_name())`,
		`writer.write_collection_of_primitive_values("businessPhones", self.get_business_phones())`,
		`writer.write_collection_of_object_values("memberOf", self.get_member_of())`,
		`writer.write_enum_value("accountType", self.get_account_type())`,
		`writer.write_str_value("class", self.get_class_escaped())`,
		`writer.write_date_value("birthday", self.get_birthday())`,
		`writer.write_bytes_value("photo", self.get_photo())`,
	), out)
	assert.True(t, containsInOrder(out,
		"def get_field_deserializers(self) -> Dict[str, Callable[[ParseNode], None]]:",
		"from .entity import Entity",
		"fields: Dict[str, Callable[[Any], None]] = {",
		`"displayName": lambda n : self.set_display_name(n.get_str_value()),`,
		`"memberOf": lambda n : self.set_member_of(n.get_collection_of_object_values(Entity)),`,
		`"accountType": lambda n : self.set_account_type(n.get_enum_value(AccountType)),`,
		"fields.update(super().get_field_deserializers())",
		"return fields",
	), out)
	assert.Contains(t, out, "def get_display_name(self) -> Optional[str]:\n")
	assert.Contains(t, out, "return self._display_name")
	assert.Contains(t, out, "self._display_name = value")
}

func TestWritesExternalBaseDelegation(t *testing.T) {
	tree := refined(t)
	tree.ODataError.Inherits = &codedom.Type{Name: "BaseModel", External: true}
	out := render(t, tree.ODataError)
	assert.True(t, containsInOrder(out,
		"super().serialize(writer)",
		`writer.write_str_value("message", self.get_message())`,
	), out)
	assert.Contains(t, out, "fields.update(super().get_field_deserializers())")
}

func TestWritesAdditionalDataFlush(t *testing.T) {
	tree := refined(t)
	out := render(t, tree.Entity)
	assert.True(t, containsInOrder(out,
		`writer.write_str_value("id", self.get_id())`,
		"writer.write_additional_data_value(self.get_additional_data())",
	), out)
	assert.NotContains(t, out, "super().serialize")
	assert.Contains(t, out, "self.set_additional_data({})")
}

func TestWritesDiscriminatorFactory(t *testing.T) {
	tree := refined(t)
	out := render(t, tree.Entity)
	assert.True(t, containsInOrder(out,
		"@staticmethod",
		"def create_from_discriminator_value(parse_node: Optional[ParseNode]) -> Entity:",
		"if not parse_node:",
		`mapping_value_node = parse_node.get_child_node("@odata.type")`,
		`if mapping_value and mapping_value.casefold() == "#microsoft.graph.user".casefold():`,
		"from .user import User",
		"return User()",
		"return Entity()",
	), out)
}

func TestWritesRequestBuilder(t *testing.T) {
	tree := refined(t)
	out := render(t, tree.UserItem)

	assert.Contains(t, out, "from ...models.o_data_error import ODataError")
	assert.True(t, containsInOrder(out,
		"def to_get_request_information(self, h: Optional[Dict[str, str]] = None",
		"request_info = RequestInformation()",
		"request_info.url_template = self.url_template",
		"request_info.path_parameters = self.path_parameters",
		"request_info.http_method = Method.GET",
		"request_info.headers.add_all(h)",
		"request_info.set_query_string_parameters_from_raw_object(q)",
		"request_info.add_request_options(o)",
		"return request_info",
	), out)
	assert.True(t, containsInOrder(out,
		"request_info.http_method = Method.PATCH",
		`request_info.set_content_from_parsable(self.request_adapter, "application/json", body)`,
	), out)
	assert.True(t, containsInOrder(out,
		"async def get(self",
		"request_info = self.to_get_request_information(",
		"h, q, o",
		"error_mapping: Dict[str, ParsableFactory] = {",
		`"4XX": ODataError,`,
		`"5XX": ODataError,`,
		"raise Exception(",
		"return await self.request_adapter.send_async(request_info, User, response_handler, error_mapping)",
	), out)
	assert.True(t, containsInOrder(out,
		"@dataclass",
		"class UserItemRequestBuilderGetQueryParameters():",
		"select: Optional[List[str]] = None",
		"def _get_query_parameter(self, original_name: str) -> str:",
		`if original_name == "select":`,
		`return "%24select"`,
		"return original_name",
	), out)
	assert.True(t, containsInOrder(out,
		"def __init__(self, path_parameters: Optional[Union[str, Dict[str, Any]]], request_adapter: RequestAdapter) -> None:",
		`self.url_template = "{+baseurl}/users/{user%2Did}{?%24select}"`,
		"self.path_parameters = get_path_parameters(path_parameters)",
		"self.request_adapter = request_adapter",
	), out)
}

func TestWritesClient(t *testing.T) {
	tree := refined(t, config.WithBackingStore())
	out := render(t, tree.Client)

	assert.True(t, containsInOrder(out,
		"@property",
		"def users(self) -> UsersRequestBuilder:",
		"from .users.users_request_builder import UsersRequestBuilder",
		"return UsersRequestBuilder(self.path_parameters, self.request_adapter)",
	), out)
	assert.True(t, containsInOrder(out,
		"def users_by_id(self, id: str) -> UserItemRequestBuilder:",
		"if not id:",
		"url_tpl_params = get_path_parameters(self.path_parameters)",
		`url_tpl_params["user%2Did"] = id`,
		"return UserItemRequestBuilder(url_tpl_params, self.request_adapter)",
	), out)
	assert.True(t, containsInOrder(out,
		"def __init__(self, request_adapter: RequestAdapter, backing_store: Optional[BackingStoreFactory] = None) -> None:",
		"self.path_parameters = {}",
		"self.request_adapter = request_adapter",
		"register_default_serializer(JsonSerializationWriterFactory)",
		"register_default_deserializer(JsonParseNodeFactory)",
		`self.path_parameters["baseurl"] = request_adapter.base_url`,
		"request_adapter.enable_backing_store(backing_store)",
	), out)
}

func TestBackingStoreAccessors(t *testing.T) {
	tree := refined(t, config.WithBackingStore())
	name := tree.User.FindProperty("displayName")
	name.DefaultValue = `"unknown"`
	name.Type.SetNullable(false)
	for _, g := range tree.User.GetMethodsOfKind(codedom.MethodGetter) {
		if g.AccessedProperty == name {
			g.ReturnType.SetNullable(false)
		}
	}
	out := render(t, tree.User)
	assert.True(t, containsInOrder(out,
		"def get_display_name(self) -> str:",
		`value: str = self.backing_store.get("display_name")`,
		"if value is None:",
		`value = "unknown"`,
		"return value",
	), out)
	assert.Contains(t, out, `self.backing_store["display_name"] = value`)
	assert.Contains(t, out, `return self.backing_store.get("business_phones")`)
}

func TestWritesEnum(t *testing.T) {
	tree := refined(t)
	out := render(t, tree.AccountType)
	assert.Equal(t, `from enum import Enum

class AccountType(str, Enum):
    """
    The kind of account.
    """
    Personal = "personal"
    Work = "work_account"
`, out)
}

func TestNamespaceArtifactIsEmpty(t *testing.T) {
	tree := refined(t)
	assert.Empty(t, render(t, codedom.ParentNamespace(tree.User)))
}

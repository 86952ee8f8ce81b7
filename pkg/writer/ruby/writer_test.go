package ruby

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

func refined(t *testing.T, opts ...config.Option) (*config.GenerationConfiguration, *sample.Tree) {
	t.Helper()
	cfg := config.New(opts...)
	tree := sample.New(cfg)
	require.NoError(t, refiner.NewRuby(cfg, refiner.DefaultRubySettings()).Refine(tree.Root))
	return cfg, tree
}

func render(t *testing.T, cfg *config.GenerationConfiguration, e codedom.Element) string {
	t.Helper()
	out, err := NewWriter(cfg.ClientNamespaceName).Render(e)
	require.NoError(t, err)
	return out
}

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

func TestPaths(ttt *testing.T) {
	cfg, tree := refined(ttt)
	w := NewWriter(cfg.ClientNamespaceName)
	cases := []struct {
		name string
		e    codedom.Element
		want string
	}{
		{"client", tree.Client, "api_client.rb"},
		{"nested class", tree.UserItem, "users/item/user_item_request_builder.rb"},
		{"model", tree.User, "models/user.rb"},
		{"client module", codedom.ParentNamespace(tree.Client), "api_sdk.rb"},
		{"namespace module", codedom.ParentNamespace(tree.UserItem), "users/item.rb"},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.Path(tc.e))
		})
	}
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, ":personal", Symbol("personal"))
	assert.Equal(t, ":backing_store=", Symbol("backing_store="))
	assert.Equal(t, `:"odata-type"`, Symbol("odata-type"))
}

func TestWritesModel(t *testing.T) {
	cfg, tree := refined(t)
	out := render(t, cfg, tree.User)

	assert.True(t, containsInOrder(out,
		"require 'date'\n",
		"require 'microsoft_kiota_abstractions'\n",
		"require_relative '../api_sdk'\n",
		"require_relative '../models'\n",
		"require_relative './entity'\n",
		"module ApiSdk\n  module Models\n",
		"    class User < ApiSdk::Models::Entity\n",
		"      include MicrosoftKiotaAbstractions::Parsable\n",
	), out)
	assert.True(t, containsInOrder(out,
		"def serialize(writer)",
		"raise StandardError, 'writer cannot be null' if writer.nil?",
		"super(writer)",
		`writer.write_string_value("displayName", self.display_name)`,
		`writer.write_collection_of_primitive_values("businessPhones", self.business_phones)`,
		`writer.write_collection_of_object_values("memberOf", self.member_of)`,
		`writer.write_enum_value("accountType", self.account_type)`,
		`writer.write_string_value("class", self.class_escaped)`,
		`writer.write_date_value("birthday", self.birthday)`,
	), out)
	assert.True(t, containsInOrder(out,
		"def get_field_deserializers",
		"return super.merge({",
		`"displayName" => lambda {|n| self.display_name = n.get_string_value() },`,
		`"businessPhones" => lambda {|n| self.business_phones = n.get_collection_of_primitive_values(String) },`,
		`"memberOf" => lambda {|n| self.member_of = n.get_collection_of_object_values(lambda {|pn| ApiSdk::Models::Entity.create_from_discriminator_value(pn) }) },`,
		`"accountType" => lambda {|n| self.account_type = n.get_enum_value(ApiSdk::Models::AccountType) },`,
		"})",
	), out)
	assert.True(t, containsInOrder(out,
		"# @return the value of displayName\n",
		"def display_name\n",
		"return @display_name\n",
		"end\n",
		"def display_name=(value)\n",
		"@display_name = value\n",
	), out)
	assert.True(t, strings.HasSuffix(out, "    end\n  end\nend\n"), out)
}

func TestWritesEntity(t *testing.T) {
	cfg, tree := refined(t)
	out := render(t, cfg, tree.Entity)

	assert.Contains(t, out, "include MicrosoftKiotaAbstractions::AdditionalDataHolder\n")
	assert.Contains(t, out, "writer.write_additional_data(self.additional_data)")
	assert.NotContains(t, out, "super(writer)")
	assert.Contains(t, out, "return {\n")
	assert.Contains(t, out, "self.additional_data = Hash.new")
	assert.True(t, containsInOrder(out,
		"def self.create_from_discriminator_value(parse_node)",
		"raise StandardError, 'parse_node cannot be null' if parse_node.nil?",
		`mapping_value_node = parse_node.get_child_node("@odata.type")`,
		"unless mapping_value_node.nil?",
		"mapping_value = mapping_value_node.get_string_value",
		"case mapping_value",
		`when "#microsoft.graph.user"`,
		"return ApiSdk::Models::User.new",
		"return ApiSdk::Models::Entity.new",
	), out)
	assert.NotContains(t, out, `when "#microsoft.graph.entity"`)
}

func TestWritesRequestBuilder(t *testing.T) {
	cfg, tree := refined(t)
	out := render(t, cfg, tree.UserItem)

	assert.True(t, containsInOrder(out,
		"require_relative '../../api_sdk'\n",
		"require_relative '../../users'\n",
		"require_relative '../item'\n",
	), out)
	assert.Contains(t, out, "require_relative '../../models/o_data_error'\n")
	assert.Contains(t, out, "require_relative '../../models/user'\n")
	assert.True(t, containsInOrder(out,
		"module ApiSdk\n  module Users\n    module Item\n",
		"class UserItemRequestBuilder\n",
	), out)
	assert.True(t, containsInOrder(out,
		"def initialize(path_parameters, request_adapter)",
		`@url_template = "{+baseurl}/users/{user%2Did}{?%24select}"`,
		`@path_parameters = path_parameters.is_a?(Hash) ? path_parameters.clone : { "request-raw-url" => path_parameters }`,
		"@request_adapter = request_adapter",
	), out)
	assert.True(t, containsInOrder(out,
		"def to_get_request_information(h=nil, q=nil, o=nil)",
		"request_info = MicrosoftKiotaAbstractions::RequestInformation.new()",
		"request_info.url_template = @url_template",
		"request_info.path_parameters = @path_parameters",
		"request_info.http_method = :GET",
		"request_info.set_headers_from_raw_object(h) unless h.nil?",
		"request_info.set_query_string_parameters_from_raw_object(q) unless q.nil?",
		"request_info.add_request_options(o) unless o.nil?",
		"return request_info",
	), out)
	assert.True(t, containsInOrder(out,
		"request_info.http_method = :PATCH",
		`request_info.set_content_from_parsable(@request_adapter, "application/json", body)`,
	), out)
	assert.True(t, containsInOrder(out,
		"def get(h=nil, q=nil, o=nil, response_handler=nil)",
		"request_info = self.to_get_request_information(\n",
		"h, q, o\n",
		")\n",
		"raise StandardError, 'request adapter is null' if @request_adapter.nil?",
		"error_mapping = Hash.new",
		`error_mapping["4XX"] = lambda {|pn| ApiSdk::Models::ODataError.create_from_discriminator_value(pn) }`,
		`error_mapping["5XX"] = lambda {|pn| ApiSdk::Models::ODataError.create_from_discriminator_value(pn) }`,
		"return @request_adapter.send_async(request_info, ApiSdk::Models::User, response_handler, error_mapping)",
	), out)
	assert.True(t, containsInOrder(out,
		"class UserItemRequestBuilderGetQueryParameters\n",
		"attr_accessor :select\n",
		"def get_query_parameter(original_name)\n",
		"case original_name\n",
		"when \"select\"\n",
		"return \"%24select\"\n",
		"else\n",
		"return original_name\n",
		"protected :get_query_parameter\n",
	), out)
}

func TestWritesClient(t *testing.T) {
	cfg, tree := refined(t, config.WithBackingStore())
	out := render(t, cfg, tree.Client)

	assert.True(t, containsInOrder(out,
		"require 'microsoft_kiota_serialization_json'\n",
		"require_relative './api_sdk'\n",
		"module ApiSdk\n",
		"  class ApiClient\n",
	), out)
	assert.True(t, containsInOrder(out,
		"def users\n",
		"return ApiSdk::Users::UsersRequestBuilder.new(@path_parameters, @request_adapter)\n",
	), out)
	assert.True(t, containsInOrder(out,
		"def users_by_id(id)",
		"raise StandardError, 'id cannot be null' if id.nil?",
		"url_tpl_params = @path_parameters.clone",
		`url_tpl_params["user%2Did"] = id`,
		"return ApiSdk::Users::Item::UserItemRequestBuilder.new(url_tpl_params, @request_adapter)",
	), out)
	assert.True(t, containsInOrder(out,
		"def initialize(request_adapter, backing_store=nil)",
		"@path_parameters = Hash.new",
		"@request_adapter = request_adapter",
		"MicrosoftKiotaAbstractions::ApiClientBuilder.register_default_serializer(MicrosoftKiotaSerializationJson::JsonSerializationWriterFactory)",
		"MicrosoftKiotaAbstractions::ApiClientBuilder.register_default_deserializer(MicrosoftKiotaSerializationJson::JsonParseNodeFactory)",
		`@path_parameters["baseurl"] = request_adapter.get_base_url`,
		"request_adapter.enable_backing_store(backing_store)",
	), out)
}

func TestBackingStoreAccessors(t *testing.T) {
	cfg, tree := refined(t, config.WithBackingStore())
	name := tree.User.FindProperty("displayName")
	name.DefaultValue = `"unknown"`
	name.Type.SetNullable(false)

	user := render(t, cfg, tree.User)
	assert.True(t, containsInOrder(user,
		"def display_name\n",
		`value = @backing_store.get("display_name")`,
		"if value.nil?",
		`value = "unknown"`,
		`@backing_store.set("display_name", value)`,
		"end",
		"return value",
	), user)
	assert.Contains(t, user, `@backing_store.set("business_phones", value)`)
	assert.Contains(t, user, `return @backing_store.get("business_phones")`)

	entity := render(t, cfg, tree.Entity)
	assert.Contains(t, entity, "include MicrosoftKiotaAbstractions::BackedModel\n")
	assert.True(t, containsInOrder(entity, "def backing_store\n", "return @backing_store\n"), entity)
	assert.Contains(t, entity, "private :backing_store=\n")
	assert.Contains(t, entity, "@backing_store = MicrosoftKiotaAbstractions::BackingStoreFactorySingleton.instance.create_backing_store")
}

func TestWritesEnum(t *testing.T) {
	cfg, tree := refined(t)
	assert.Equal(t, `module ApiSdk
  module Models
    ##
    # The kind of account.
    ##
    AccountType = {
      Personal: :personal,
      Work: :work_account,
    }
  end
end
`, render(t, cfg, tree.AccountType))
}

func TestWritesNamespaceModule(t *testing.T) {
	cfg, tree := refined(t)
	assert.Equal(t, "module ApiSdk\n  module Users\n    module Item\n    end\n  end\nend\n",
		render(t, cfg, codedom.ParentNamespace(tree.UserItem)))
}

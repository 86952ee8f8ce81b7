// Package sample builds a small, language-neutral client tree shaped like the
// output of the model builder. It is shared by the refiner, writer and
// generator tests.
package sample

import (
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
)

// Tree holds the root of a sample tree and direct handles to its classes.
type Tree struct {
	Root          *codedom.Namespace
	Client        *codedom.Class
	Users         *codedom.Class
	UserItem      *codedom.Class
	QueryParams   *codedom.Class
	Entity        *codedom.Class
	User          *codedom.Class
	ODataError    *codedom.Class
	AccountType   *codedom.Enum
	ClientCtor    *codedom.Method
	GetGenerator  *codedom.Method
	GetExecutor   *codedom.Method
	PatchExecutor *codedom.Method
}

// New builds the sample tree for cfg. It panics on construction errors, which
// can only come from a broken sample.
func New(cfg *config.GenerationConfiguration) *Tree {
	t := &Tree{Root: codedom.InitRootNamespace()}
	clientNs := must(t.Root.AddNamespace(cfg.ClientNamespaceName))
	usersNs := must(clientNs.AddNamespace("users"))
	itemNs := must(usersNs.AddNamespace("item"))
	modelsNs := must(clientNs.AddNamespace("models"))

	t.Entity = first(modelsNs.AddClass(&codedom.Class{
		Name:        "entity",
		Kind:        codedom.ClassModel,
		Description: "The base type of every directory object.",
		Implements:  []*codedom.Type{{Name: "IAdditionalDataHolder", External: true}},
	}))
	t.User = first(modelsNs.AddClass(&codedom.Class{
		Name:        "user",
		Kind:        codedom.ClassModel,
		Description: "Represents an account.",
		Inherits:    &codedom.Type{Name: "entity"},
	}))
	t.User.Inherits.Definition = t.Entity
	t.ODataError = first(modelsNs.AddClass(&codedom.Class{
		Name:              "oDataError",
		Kind:              codedom.ClassModel,
		IsErrorDefinition: true,
	}))
	t.AccountType = first(modelsNs.AddEnum(&codedom.Enum{Name: "accountType", Description: "The kind of account."}))
	must(t.AccountType.AddOption(
		&codedom.EnumOption{Name: "personal"},
		&codedom.EnumOption{Name: "work", SerializationName: "work_account"},
	))

	t.Client = first(clientNs.AddClass(&codedom.Class{
		Name:        cfg.ClientClassName,
		Kind:        codedom.ClassRequestBuilder,
		Description: "The main entry point of the SDK.",
	}))
	t.Users = first(usersNs.AddClass(&codedom.Class{
		Name:        "usersRequestBuilder",
		Kind:        codedom.ClassRequestBuilder,
		Description: "Builds and executes requests for operations under /users",
	}))
	t.UserItem = first(itemNs.AddClass(&codedom.Class{
		Name:        "userItemRequestBuilder",
		Kind:        codedom.ClassRequestBuilder,
		Description: "Builds and executes requests for operations under /users/{user-id}",
	}))

	t.populateModels()
	t.populateClient(cfg)
	t.populateUsers()
	t.populateUserItem()
	return t
}

func (t *Tree) populateModels() {
	must(t.Entity.AddProperty(
		&codedom.Property{Name: "id", Kind: codedom.PropertyCustom, Type: codedom.NewType("string"), Description: "The unique identifier."},
		&codedom.Property{Name: "additionalData", Kind: codedom.PropertyAdditionalData, Type: &codedom.Type{Name: "IDictionary<string, object>", External: true}},
	))
	must(t.Entity.AddMethod(serializer(), deserializer()))
	info := t.Entity.DiscriminatorInformation()
	info.PropertyName = "@odata.type"
	mustOK(info.AddMapping("#microsoft.graph.user", &codedom.Type{Name: "user", Definition: t.User}))
	mustOK(info.AddMapping("#microsoft.graph.entity", &codedom.Type{Name: "entity", Definition: t.Entity}))

	must(t.User.AddProperty(
		&codedom.Property{Name: "displayName", Kind: codedom.PropertyCustom, Type: codedom.NewType("string")},
		&codedom.Property{Name: "businessPhones", Kind: codedom.PropertyCustom, Type: codedom.ArrayOf(&codedom.Type{Name: "string"})},
		&codedom.Property{Name: "memberOf", Kind: codedom.PropertyCustom, Type: codedom.ArrayOf(&codedom.Type{Name: "entity", Definition: t.Entity})},
		&codedom.Property{Name: "accountType", Kind: codedom.PropertyCustom, Type: &codedom.Type{Name: "accountType", Definition: t.AccountType, Nullable: true}},
		&codedom.Property{Name: "class", Kind: codedom.PropertyCustom, Type: codedom.NewType("string")},
		&codedom.Property{Name: "birthday", Kind: codedom.PropertyCustom, Type: codedom.NewType("DateOnly")},
		&codedom.Property{Name: "photo", Kind: codedom.PropertyCustom, Type: codedom.NewType("binary")},
	))
	must(t.User.AddMethod(serializer(), deserializer()))

	must(t.ODataError.AddProperty(
		&codedom.Property{Name: "message", Kind: codedom.PropertyCustom, Type: codedom.NewType("string")},
		&codedom.Property{Name: "additionalData", Kind: codedom.PropertyAdditionalData, Type: &codedom.Type{Name: "IDictionary<string, object>", External: true}},
	))
	must(t.ODataError.AddMethod(serializer(), deserializer()))
}

func (t *Tree) populateClient(cfg *config.GenerationConfiguration) {
	must(t.Client.AddProperty(append(builderProperties(`"{+baseurl}"`),
		&codedom.Property{Name: "users", Kind: codedom.PropertyRequestBuilder, Type: &codedom.Type{Name: "usersRequestBuilder", Definition: t.Users}, ReadOnly: true, Description: "The users property"},
	)...))
	t.ClientCtor = &codedom.Method{
		Name:                "constructor",
		Kind:                codedom.MethodClientConstructor,
		ReturnType:          codedom.NewType("void"),
		Description:         "Instantiates a new " + cfg.ClientClassName + " and sets the default values.",
		SerializerModules:   append([]string(nil), cfg.Serializers...),
		DeserializerModules: append([]string(nil), cfg.Deserializers...),
	}
	must(t.ClientCtor.AddParameter(&codedom.Parameter{
		Name:        "requestAdapter",
		Kind:        codedom.ParameterRequestAdapter,
		Type:        &codedom.Type{Name: "IRequestAdapter", External: true},
		Description: "The request adapter to use to execute the requests.",
	}))
	must(t.Client.AddMethod(t.ClientCtor))
}

func (t *Tree) populateUsers() {
	must(t.Users.AddProperty(builderProperties(`"{+baseurl}/users"`)...))
	t.Users.Indexer = &codedom.Indexer{
		Name:              "item",
		SerializationName: "user%2Did",
		IndexType:         &codedom.Type{Name: "string"},
		ReturnType:        &codedom.Type{Name: "userItemRequestBuilder", Definition: t.UserItem},
		Description:       "Gets an item from the ApiSdk.users.item collection",
	}
	must(t.Users.AddMethod(builderConstructor()))
}

func (t *Tree) populateUserItem() {
	must(t.UserItem.AddProperty(builderProperties(`"{+baseurl}/users/{user%2Did}{?%24select}"`)...))
	must(t.UserItem.AddMethod(builderConstructor()))

	t.QueryParams = first(t.UserItem.AddInnerClass(&codedom.Class{
		Name:        "userItemRequestBuilderGetQueryParameters",
		Kind:        codedom.ClassQueryParameters,
		Description: "Retrieve the properties of a user.",
	}))
	must(t.QueryParams.AddProperty(&codedom.Property{
		Name:              "select",
		Kind:              codedom.PropertyQueryParameter,
		Type:              codedom.ArrayOf(&codedom.Type{Name: "string"}),
		SerializationName: "%24select",
		Description:       "Select properties to be returned",
	}))
	mapper := &codedom.Method{
		Name:        "getQueryParameter",
		Kind:        codedom.MethodQueryParametersMapper,
		Access:      codedom.Protected,
		ReturnType:  &codedom.Type{Name: "string"},
		Description: "Maps the query parameters names to their encoded names for the URI template parsing.",
	}
	must(mapper.AddParameter(&codedom.Parameter{Name: "originalName", Kind: codedom.ParameterQueryParametersMapper, Type: &codedom.Type{Name: "string"}, Description: "The original query parameter name in the class."}))
	must(t.QueryParams.AddMethod(mapper))

	userType := func() *codedom.Type { return &codedom.Type{Name: "user", Definition: t.User, Nullable: true} }
	t.GetGenerator = &codedom.Method{
		Name:        "toGetRequestInformation",
		Kind:        codedom.MethodRequestGenerator,
		HttpMethod:  codedom.HTTPGet,
		ReturnType:  &codedom.Type{Name: "RequestInformation", External: true},
		Description: "Retrieve the properties of a user.",
	}
	must(t.GetGenerator.AddParameter(
		headersParam(),
		&codedom.Parameter{Name: "q", Kind: codedom.ParameterQueryParameter, Type: &codedom.Type{Name: t.QueryParams.Name, Definition: t.QueryParams, Nullable: true}, Optional: true, Description: "Request query parameters"},
		optionsParam(),
	))
	t.GetExecutor = &codedom.Method{
		Name:        "get",
		Kind:        codedom.MethodRequestExecutor,
		HttpMethod:  codedom.HTTPGet,
		IsAsync:     true,
		ReturnType:  userType(),
		Description: "Retrieve the properties of a user.",
	}
	must(t.GetExecutor.AddParameter(
		headersParam(),
		&codedom.Parameter{Name: "q", Kind: codedom.ParameterQueryParameter, Type: &codedom.Type{Name: t.QueryParams.Name, Definition: t.QueryParams, Nullable: true}, Optional: true, Description: "Request query parameters"},
		optionsParam(),
		responseHandlerParam(),
	))
	mustErr(t.GetExecutor.AddErrorMapping("5XX", &codedom.Type{Name: "oDataError", Definition: t.ODataError}))
	mustErr(t.GetExecutor.AddErrorMapping("4XX", &codedom.Type{Name: "oDataError", Definition: t.ODataError}))

	patchGenerator := &codedom.Method{
		Name:        "toPatchRequestInformation",
		Kind:        codedom.MethodRequestGenerator,
		HttpMethod:  codedom.HTTPPatch,
		ReturnType:  &codedom.Type{Name: "RequestInformation", External: true},
		ContentType: "application/json",
		Description: "Update the properties of a user.",
	}
	must(patchGenerator.AddParameter(
		&codedom.Parameter{Name: "body", Kind: codedom.ParameterRequestBody, Type: userType(), Description: "The request body"},
		headersParam(),
		optionsParam(),
	))
	t.PatchExecutor = &codedom.Method{
		Name:        "patch",
		Kind:        codedom.MethodRequestExecutor,
		HttpMethod:  codedom.HTTPPatch,
		IsAsync:     true,
		ReturnType:  userType(),
		ContentType: "application/json",
		Description: "Update the properties of a user.",
	}
	must(t.PatchExecutor.AddParameter(
		&codedom.Parameter{Name: "body", Kind: codedom.ParameterRequestBody, Type: userType(), Description: "The request body"},
		headersParam(),
		optionsParam(),
		responseHandlerParam(),
	))
	mustErr(t.PatchExecutor.AddErrorMapping("4XX", &codedom.Type{Name: "oDataError", Definition: t.ODataError}))
	must(t.UserItem.AddMethod(t.GetGenerator, t.GetExecutor, patchGenerator, t.PatchExecutor))
}

func builderProperties(urlTemplate string) []*codedom.Property {
	return []*codedom.Property{
		{Name: "pathParameters", Kind: codedom.PropertyPathParameters, Type: &codedom.Type{Name: "IDictionary<string, object>", External: true}, Description: "Path parameters for the request"},
		{Name: "requestAdapter", Kind: codedom.PropertyRequestAdapter, Type: &codedom.Type{Name: "IRequestAdapter", External: true}, Description: "The request adapter to use to execute the requests."},
		{Name: "urlTemplate", Kind: codedom.PropertyUrlTemplate, Type: &codedom.Type{Name: "string"}, DefaultValue: urlTemplate, Description: "Url template to use to build the URL for the current request builder"},
	}
}

func builderConstructor() *codedom.Method {
	m := &codedom.Method{
		Name:        "constructor",
		Kind:        codedom.MethodConstructor,
		ReturnType:  codedom.NewType("void"),
		Description: "Instantiates a new request builder and sets the default values.",
	}
	must(m.AddParameter(
		&codedom.Parameter{Name: "pathParameters", Kind: codedom.ParameterPathParameters, Type: &codedom.Type{Name: "IDictionary<string, object>", External: true}, Description: "Path parameters for the request"},
		&codedom.Parameter{Name: "requestAdapter", Kind: codedom.ParameterRequestAdapter, Type: &codedom.Type{Name: "IRequestAdapter", External: true}, Description: "The request adapter to use to execute the requests."},
	))
	return m
}

func serializer() *codedom.Method {
	m := &codedom.Method{
		Name:        "serialize",
		Kind:        codedom.MethodSerializer,
		ReturnType:  codedom.NewType("void"),
		Description: "Serializes information the current object",
	}
	must(m.AddParameter(&codedom.Parameter{Name: "writer", Kind: codedom.ParameterSerializer, Type: &codedom.Type{Name: "ISerializationWriter", External: true}, Description: "Serialization writer to use to serialize this model"}))
	return m
}

func deserializer() *codedom.Method {
	return &codedom.Method{
		Name:              "getFieldDeserializers",
		Kind:              codedom.MethodDeserializer,
		ReturnType:        &codedom.Type{Name: "IDictionary<string, Action<IParseNode>>", External: true},
		Description:       "The deserialization information for the current model",
		ReturnDescription: "the field deserializers",
	}
}

func headersParam() *codedom.Parameter {
	return &codedom.Parameter{Name: "h", Kind: codedom.ParameterHeaders, Type: &codedom.Type{Name: "IDictionary<string, string>", External: true, Nullable: true}, Optional: true, Description: "Request headers"}
}

func optionsParam() *codedom.Parameter {
	return &codedom.Parameter{Name: "o", Kind: codedom.ParameterOptions, Type: codedom.ArrayOf(&codedom.Type{Name: "IRequestOption", External: true}), Optional: true, Description: "Request options"}
}

func responseHandlerParam() *codedom.Parameter {
	return &codedom.Parameter{Name: "responseHandler", Kind: codedom.ParameterResponseHandler, Type: &codedom.Type{Name: "IResponseHandler", External: true, Nullable: true}, Optional: true, Description: "Response handler to use in place of the default response handling provided by the core service"}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func first[T any](v []T, err error) T {
	return must(v, err)[0]
}

func mustOK(_ bool, err error) {
	if err != nil {
		panic(err)
	}
}

func mustErr(err error) {
	if err != nil {
		panic(err)
	}
}

package writer

import (
	"sort"
	"strings"

	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
)

// IOKind selects the read or write call used for one property. It is decided
// by whether the type is a collection and by what its scalar designates.
type IOKind int

const (
	IOPrimitive IOKind = iota
	IOCollectionOfPrimitives
	IOCollectionOfObjects
	IOCollectionOfEnums
	IOEnum
	IOObject
)

func (k IOKind) String() string {
	switch k {
	case IOCollectionOfPrimitives:
		return "collection-of-primitives"
	case IOCollectionOfObjects:
		return "collection-of-objects"
	case IOCollectionOfEnums:
		return "collection-of-enums"
	case IOEnum:
		return "enum"
	case IOObject:
		return "object"
	default:
		return "primitive"
	}
}

// PropertyIO is one entry of a serializer or deserializer.
type PropertyIO struct {
	Property *codedom.Property
	WireName string
	Kind     IOKind
	// Scalar is the translated scalar type name: "str", "int", "User".
	Scalar     string
	Definition codedom.Element
}

// ClassifyIO applies the serialization decision table to p.
func ClassifyIO(conv Conventions, p *codedom.Property) (PropertyIO, error) {
	t, err := Collapse(p.Type)
	if err != nil {
		return PropertyIO{}, errors.Wrapf(err, "property %q", p.Name)
	}
	scalar, err := Scalar(t)
	if err != nil {
		return PropertyIO{}, errors.Wrapf(err, "property %q", p.Name)
	}
	io := PropertyIO{
		Property:   p,
		WireName:   p.WireName(),
		Scalar:     conv.TranslateType(scalar),
		Definition: scalar.Definition,
	}
	_, isEnum := scalar.Enum()
	_, isClass := scalar.Class()
	switch {
	case codedom.IsCollection(t) && isEnum:
		io.Kind = IOCollectionOfEnums
	case codedom.IsCollection(t) && isClass:
		io.Kind = IOCollectionOfObjects
	case codedom.IsCollection(t):
		io.Kind = IOCollectionOfPrimitives
	case isEnum:
		io.Kind = IOEnum
	case isClass:
		io.Kind = IOObject
	default:
		io.Kind = IOPrimitive
	}
	return io, nil
}

// SerializerPlan writes the base class first, then every custom property in
// declaration order, then flushes additional data.
type SerializerPlan struct {
	Writer         *codedom.Parameter
	CallSuper      bool
	Writes         []PropertyIO
	AdditionalData *codedom.Property
}

// DeserializerPlan maps wire names to readers, merged into the base class map
// when the class has a parent, in-tree or external.
type DeserializerPlan struct {
	MergeSuper bool
	Reads      []PropertyIO
}

// RequestStep is one statement of a request generator body.
type RequestStep int

const (
	StepUrlTemplate RequestStep = iota
	StepHttpMethod
	StepHeaders
	StepQuery
	StepBody
	StepOptions
)

func (s RequestStep) String() string {
	return [...]string{"url-template", "http-method", "headers", "query", "body", "options"}[s]
}

// RequestGeneratorPlan builds a request descriptor.
type RequestGeneratorPlan struct {
	HttpMethod     codedom.HTTPMethod
	UrlTemplate    *codedom.Property
	PathParameters *codedom.Property
	RequestAdapter *codedom.Property
	Headers        *codedom.Parameter
	Query          *codedom.Parameter
	Body           *codedom.Parameter
	Options        *codedom.Parameter
	BodyIsStream   bool
	ContentType    string
	Steps          []RequestStep
}

// SendKind chooses the adapter call of a request executor.
type SendKind int

const (
	SendObject SendKind = iota
	SendCollection
	SendPrimitive
	SendPrimitiveCollection
	SendStream
	SendVoid
)

func (k SendKind) String() string {
	return [...]string{"object", "collection", "primitive", "primitive-collection", "stream", "void"}[k]
}

// RequestExecutorPlan forwards the matching generator into a send call.
type RequestExecutorPlan struct {
	Generator       *codedom.Method
	Body            *codedom.Parameter
	Query           *codedom.Parameter
	Headers         *codedom.Parameter
	Options         *codedom.Parameter
	ResponseHandler *codedom.Parameter
	// GeneratorArgs are the executor parameters passed on to the generator,
	// in the generator's parameter order.
	GeneratorArgs  []*codedom.Parameter
	ErrorMappings  []codedom.ErrorMapping
	RequestAdapter *codedom.Property
	Send           SendKind
	// ReturnScalar is the translated scalar of the response type.
	ReturnScalar     string
	ReturnDefinition codedom.Element
}

// AccessorPlan reads or writes one property.
type AccessorPlan struct {
	Getter       bool
	Property     *codedom.Property
	BackingStore *codedom.Property
	// DefaultOnMissing substitutes the property default when the store holds
	// no entry.
	DefaultOnMissing bool
	Value            *codedom.Parameter
}

// Assignment copies a constructor parameter into a property.
type Assignment struct {
	Property  *codedom.Property
	Parameter *codedom.Parameter
}

// ConstructorPlan initialises a class.
type ConstructorPlan struct {
	Client    bool
	CallSuper bool
	// Defaults are backing store, request builder and url template
	// properties with a default value, by name.
	Defaults []*codedom.Property
	// ModelDefaults are custom and additional data properties with a default
	// value, by name, assigned through their setters when present.
	ModelDefaults          []*codedom.Property
	Assignments            []Assignment
	PathParametersProperty *codedom.Property
	PathParameters         *codedom.Parameter
	RequestAdapter         *codedom.Parameter
	BackingStore           *codedom.Parameter
	SerializerModules      []string
	DeserializerModules    []string
}

// ChildBuilderPlan constructs a child request builder from the current path
// parameters.
type ChildBuilderPlan struct {
	Indexer bool
	// PathSegment and ID are set for the indexer form: ID is stored under
	// PathSegment in the copied map.
	PathSegment    string
	ID             *codedom.Parameter
	PathArgs       []*codedom.Parameter
	ReturnScalar   string
	ReturnClass    *codedom.Class
	PathParameters *codedom.Property
	RequestAdapter *codedom.Property
}

// QueryMapping pairs a query parameter identifier with its wire name.
type QueryMapping struct {
	Identifier string
	WireName   string
}

// QueryMapperPlan maps query parameter identifiers to wire names.
type QueryMapperPlan struct {
	Param    *codedom.Parameter
	Mappings []QueryMapping
}

// FactoryPlan creates the concrete type named by the discriminator value.
type FactoryPlan struct {
	ParseNode     *codedom.Parameter
	Class         *codedom.Class
	PropertyName  string
	Mappings      []codedom.DiscriminatorMapping
	ReturnScalar  string
	ReturnElement codedom.Element
}

// MethodPlan is the validated, language-neutral body of one method. Exactly
// one of the kind plans is set, or none for trivial bodies.
type MethodPlan struct {
	Method *codedom.Method
	Class  *codedom.Class

	Serializer   *SerializerPlan
	Deserializer *DeserializerPlan
	Generator    *RequestGeneratorPlan
	Executor     *RequestExecutorPlan
	Accessor     *AccessorPlan
	Constructor  *ConstructorPlan
	ChildBuilder *ChildBuilderPlan
	QueryMapper  *QueryMapperPlan
	Factory      *FactoryPlan
}

// Trivial reports whether the body is a single empty return.
func (p *MethodPlan) Trivial() bool {
	return p.Serializer == nil && p.Deserializer == nil && p.Generator == nil && p.Executor == nil &&
		p.Accessor == nil && p.Constructor == nil && p.ChildBuilder == nil && p.QueryMapper == nil && p.Factory == nil
}

// PlanMethod validates m against the shape its kind requires and builds its
// plan. Structural violations are reported before anything is emitted.
func PlanMethod(conv Conventions, m *codedom.Method) (*MethodPlan, error) {
	if m == nil {
		return nil, errors.InvalidInputf("cannot write a nil method")
	}
	c, ok := m.Parent().(*codedom.Class)
	if !ok || c == nil {
		return nil, errors.Structuref("method %q is not declared on a class", m.Name)
	}
	if m.ReturnType == nil {
		return nil, errors.Structuref("method %q of class %q has no return type", m.Name, c.Name)
	}
	plan := &MethodPlan{Method: m, Class: c}
	var err error
	switch m.Kind {
	case codedom.MethodSerializer:
		plan.Serializer, err = planSerializer(conv, c, m)
	case codedom.MethodDeserializer:
		plan.Deserializer, err = planDeserializer(conv, c)
	case codedom.MethodRequestGenerator:
		plan.Generator, err = planGenerator(conv, c, m)
	case codedom.MethodRequestExecutor:
		plan.Executor, err = planExecutor(conv, c, m)
	case codedom.MethodGetter, codedom.MethodSetter:
		plan.Accessor, err = planAccessor(c, m)
	case codedom.MethodConstructor, codedom.MethodClientConstructor:
		plan.Constructor = planConstructor(c, m)
	case codedom.MethodIndexerBackwardCompatibility, codedom.MethodRequestBuilderWithParameters:
		plan.ChildBuilder, err = planChildBuilder(conv, c, m)
	case codedom.MethodQueryParametersMapper:
		plan.QueryMapper, err = planQueryMapper(conv, c, m)
	case codedom.MethodFactory:
		plan.Factory, err = planFactory(conv, c, m)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s method %q of class %q", m.Kind, m.Name, c.Name)
	}
	return plan, nil
}

func planSerializer(conv Conventions, c *codedom.Class, m *codedom.Method) (*SerializerPlan, error) {
	plan := &SerializerPlan{
		Writer:         m.ParameterOfKind(codedom.ParameterSerializer),
		CallSuper:      c.Inherits != nil,
		AdditionalData: c.GetPropertyOfKind(codedom.PropertyAdditionalData),
	}
	for _, p := range c.GetPropertiesOfKind(codedom.PropertyCustom) {
		io, err := ClassifyIO(conv, p)
		if err != nil {
			return nil, err
		}
		plan.Writes = append(plan.Writes, io)
	}
	return plan, nil
}

func planDeserializer(conv Conventions, c *codedom.Class) (*DeserializerPlan, error) {
	plan := &DeserializerPlan{MergeSuper: c.Inherits != nil}
	for _, p := range c.GetPropertiesOfKind(codedom.PropertyCustom) {
		io, err := ClassifyIO(conv, p)
		if err != nil {
			return nil, err
		}
		plan.Reads = append(plan.Reads, io)
	}
	return plan, nil
}

func planGenerator(conv Conventions, c *codedom.Class, m *codedom.Method) (*RequestGeneratorPlan, error) {
	if !m.HttpMethod.IsSet() {
		return nil, errors.Structuref("request generator has no http method")
	}
	plan := &RequestGeneratorPlan{
		HttpMethod:     m.HttpMethod,
		UrlTemplate:    c.GetPropertyOfKind(codedom.PropertyUrlTemplate),
		PathParameters: c.GetPropertyOfKind(codedom.PropertyPathParameters),
		RequestAdapter: c.GetPropertyOfKind(codedom.PropertyRequestAdapter),
		Headers:        m.ParameterOfKind(codedom.ParameterHeaders),
		Query:          m.ParameterOfKind(codedom.ParameterQueryParameter),
		Body:           m.ParameterOfKind(codedom.ParameterRequestBody),
		Options:        m.ParameterOfKind(codedom.ParameterOptions),
		ContentType:    m.ContentType,
		Steps:          []RequestStep{StepUrlTemplate, StepHttpMethod},
	}
	if plan.UrlTemplate == nil || plan.PathParameters == nil {
		return nil, errors.Structuref("class %q has no url template or path parameters property", c.Name)
	}
	if plan.Headers != nil {
		plan.Steps = append(plan.Steps, StepHeaders)
	}
	if plan.Query != nil {
		plan.Steps = append(plan.Steps, StepQuery)
	}
	if plan.Body != nil {
		plan.Steps = append(plan.Steps, StepBody)
		plan.BodyIsStream = IsStream(conv, plan.Body.Type)
		if !plan.BodyIsStream {
			if plan.RequestAdapter == nil {
				return nil, errors.Structuref("class %q has no request adapter property to serialize the body with", c.Name)
			}
			if plan.ContentType == "" {
				plan.ContentType = "application/json"
			}
		}
	}
	if plan.Options != nil {
		plan.Steps = append(plan.Steps, StepOptions)
	}
	return plan, nil
}

func planExecutor(conv Conventions, c *codedom.Class, m *codedom.Method) (*RequestExecutorPlan, error) {
	if !m.HttpMethod.IsSet() {
		return nil, errors.Structuref("request executor has no http method")
	}
	var generator *codedom.Method
	for _, sibling := range c.GetMethodsOfKind(codedom.MethodRequestGenerator) {
		if sibling.HttpMethod == m.HttpMethod {
			generator = sibling
			break
		}
	}
	if generator == nil {
		return nil, errors.Structuref("no %s request generator found next to the executor", m.HttpMethod)
	}
	plan := &RequestExecutorPlan{
		Generator:       generator,
		Body:            m.ParameterOfKind(codedom.ParameterRequestBody),
		Query:           m.ParameterOfKind(codedom.ParameterQueryParameter),
		Headers:         m.ParameterOfKind(codedom.ParameterHeaders),
		Options:         m.ParameterOfKind(codedom.ParameterOptions),
		ResponseHandler: m.ParameterOfKind(codedom.ParameterResponseHandler),
		ErrorMappings:   m.ErrorMappings(),
		RequestAdapter:  c.GetPropertyOfKind(codedom.PropertyRequestAdapter),
	}
	if plan.RequestAdapter == nil {
		return nil, errors.Structuref("class %q has no request adapter property", c.Name)
	}
	for _, gp := range generator.Parameters() {
		if p := m.ParameterOfKind(gp.Kind); p != nil {
			plan.GeneratorArgs = append(plan.GeneratorArgs, p)
		}
	}
	if IsVoid(conv, m.ReturnType) {
		plan.Send = SendVoid
		return plan, nil
	}
	t, err := Collapse(m.ReturnType)
	if err != nil {
		return nil, err
	}
	scalar, err := Scalar(t)
	if err != nil {
		return nil, err
	}
	plan.ReturnScalar = conv.TranslateType(scalar)
	plan.ReturnDefinition = scalar.Definition
	_, isClass := scalar.Class()
	switch {
	case IsStream(conv, scalar) && !codedom.IsCollection(t):
		plan.Send = SendStream
	case codedom.IsCollection(t) && isClass:
		plan.Send = SendCollection
	case codedom.IsCollection(t):
		plan.Send = SendPrimitiveCollection
	case isClass:
		plan.Send = SendObject
	default:
		plan.Send = SendPrimitive
	}
	return plan, nil
}

func planAccessor(c *codedom.Class, m *codedom.Method) (*AccessorPlan, error) {
	p := m.AccessedProperty
	if p == nil {
		return nil, errors.Structuref("accessor does not name the property it accesses")
	}
	plan := &AccessorPlan{
		Getter:       m.IsOfKind(codedom.MethodGetter),
		Property:     p,
		BackingStore: backingStoreOf(c),
	}
	if plan.BackingStore == p {
		// the store itself lives in its field
		plan.BackingStore = nil
	}
	if plan.Getter {
		plan.DefaultOnMissing = plan.BackingStore != nil && p.DefaultValue != "" && p.Type != nil && !p.Type.IsNullable()
		return plan, nil
	}
	plan.Value = m.ParameterOfKind(codedom.ParameterSetterValue)
	if plan.Value == nil {
		return nil, errors.Structuref("setter has no value parameter")
	}
	return plan, nil
}

// backingStoreOf finds the backing store of c or of the closest base class
// declaring one.
func backingStoreOf(c *codedom.Class) *codedom.Property {
	seen := make(map[*codedom.Class]struct{})
	for c != nil {
		if _, loop := seen[c]; loop {
			return nil
		}
		seen[c] = struct{}{}
		if p := c.GetPropertyOfKind(codedom.PropertyBackingStore); p != nil {
			return p
		}
		if c.Inherits == nil {
			return nil
		}
		base, ok := c.Inherits.Class()
		if !ok {
			return nil
		}
		c = base
	}
	return nil
}

func planConstructor(c *codedom.Class, m *codedom.Method) *ConstructorPlan {
	plan := &ConstructorPlan{
		Client:                 m.IsOfKind(codedom.MethodClientConstructor),
		CallSuper:              c.Inherits != nil,
		PathParametersProperty: c.GetPropertyOfKind(codedom.PropertyPathParameters),
		PathParameters:         m.ParameterOfKind(codedom.ParameterPathParameters),
		RequestAdapter:         m.ParameterOfKind(codedom.ParameterRequestAdapter),
		BackingStore:           m.ParameterOfKind(codedom.ParameterBackingStore),
	}
	for _, p := range c.GetPropertiesOfKind(codedom.PropertyBackingStore, codedom.PropertyRequestBuilder, codedom.PropertyUrlTemplate) {
		if p.DefaultValue != "" {
			plan.Defaults = append(plan.Defaults, p)
		}
	}
	for _, p := range c.GetPropertiesOfKind(codedom.PropertyCustom, codedom.PropertyAdditionalData) {
		if p.DefaultValue != "" {
			plan.ModelDefaults = append(plan.ModelDefaults, p)
		}
	}
	sortProperties(plan.Defaults)
	sortProperties(plan.ModelDefaults)
	if plan.RequestAdapter != nil {
		if p := c.GetPropertyOfKind(codedom.PropertyRequestAdapter); p != nil {
			plan.Assignments = append(plan.Assignments, Assignment{Property: p, Parameter: plan.RequestAdapter})
		}
	}
	for _, param := range m.ParametersOfKind(codedom.ParameterPath) {
		plan.Assignments = append(plan.Assignments, Assignment{Parameter: param})
	}
	if plan.Client {
		plan.SerializerModules = m.SerializerModules
		plan.DeserializerModules = m.DeserializerModules
	}
	return plan
}

func planChildBuilder(conv Conventions, c *codedom.Class, m *codedom.Method) (*ChildBuilderPlan, error) {
	plan := &ChildBuilderPlan{
		Indexer:        m.IsOfKind(codedom.MethodIndexerBackwardCompatibility),
		PathParameters: c.GetPropertyOfKind(codedom.PropertyPathParameters),
		RequestAdapter: c.GetPropertyOfKind(codedom.PropertyRequestAdapter),
		PathArgs:       m.ParametersOfKind(codedom.ParameterPath),
	}
	if plan.PathParameters == nil || plan.RequestAdapter == nil {
		return nil, errors.Structuref("class %q has no path parameters or request adapter property", c.Name)
	}
	if plan.Indexer {
		if m.OriginalIndexer == nil {
			return nil, errors.Structuref("indexer method has no original indexer")
		}
		if len(plan.PathArgs) == 0 {
			return nil, errors.Structuref("indexer method has no id parameter")
		}
		plan.ID = plan.PathArgs[0]
		plan.PathSegment = m.PathSegment
		if plan.PathSegment == "" {
			plan.PathSegment = m.OriginalIndexer.SerializationName
		}
		plan.PathArgs = nil
	}
	scalar, err := Scalar(m.ReturnType)
	if err != nil {
		return nil, err
	}
	plan.ReturnScalar = conv.TranslateType(scalar)
	plan.ReturnClass, _ = scalar.Class()
	return plan, nil
}

func planQueryMapper(conv Conventions, c *codedom.Class, m *codedom.Method) (*QueryMapperPlan, error) {
	param := m.ParameterOfKind(codedom.ParameterQueryParametersMapper)
	if param == nil {
		return nil, errors.Structuref("query parameters mapper has no original name parameter")
	}
	plan := &QueryMapperPlan{Param: param}
	for _, p := range c.GetPropertiesOfKind(codedom.PropertyQueryParameter) {
		if p.IsNameEscaped() {
			plan.Mappings = append(plan.Mappings, QueryMapping{Identifier: conv.IdentifierName(p.Name), WireName: p.SerializationName})
		}
	}
	return plan, nil
}

func planFactory(conv Conventions, c *codedom.Class, m *codedom.Method) (*FactoryPlan, error) {
	parseNode := m.ParameterOfKind(codedom.ParameterParseNode)
	if parseNode == nil {
		return nil, errors.Structuref("factory has no parse node parameter")
	}
	scalar, err := Scalar(m.ReturnType)
	if err != nil {
		return nil, err
	}
	plan := &FactoryPlan{
		ParseNode:     parseNode,
		Class:         c,
		ReturnScalar:  conv.TranslateType(scalar),
		ReturnElement: scalar.Definition,
	}
	if c.HasDiscriminator() {
		info := c.DiscriminatorInformation()
		plan.PropertyName = info.PropertyName
		plan.Mappings = info.Enumerate()
	}
	return plan, nil
}

// ChildConstructorKinds lists the parameter kinds the constructor of a child
// request builder takes, in order. Classes without a constructor take the
// path parameters and the request adapter.
func ChildConstructorKinds(c *codedom.Class) []codedom.ParameterKind {
	if c != nil {
		for _, m := range c.GetMethodsOfKind(codedom.MethodConstructor) {
			var kinds []codedom.ParameterKind
			for _, p := range m.Parameters() {
				if p.IsOfKind(codedom.ParameterPathParameters, codedom.ParameterRequestAdapter) {
					kinds = append(kinds, p.Kind)
				}
			}
			return kinds
		}
	}
	return []codedom.ParameterKind{codedom.ParameterPathParameters, codedom.ParameterRequestAdapter}
}

func sortProperties(props []*codedom.Property) {
	sort.SliceStable(props, func(i, j int) bool { return lessFold(props[i].Name, props[j].Name) })
}

func sortParameters(params []*codedom.Parameter) {
	sort.SliceStable(params, func(i, j int) bool { return lessFold(params[i].Name, params[j].Name) })
}

// lessFold orders by upper-cased ordinal, ties broken by the raw spelling.
func lessFold(a, b string) bool {
	ua, ub := strings.ToUpper(a), strings.ToUpper(b)
	if ua != ub {
		return ua < ub
	}
	return a < b
}

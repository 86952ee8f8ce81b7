package parser

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/clientgen/internal/model"
	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
)

// builder carries the state of one Build call.
type builder struct {
	p      *Parser
	cfg    *config.GenerationConfiguration
	doc    *model.Document
	types  *typeMapper
	client *codedom.Class

	models   []modelShell
	enums    []*codedom.Enum
	builders []builderShell
}

type modelShell struct {
	desc  *model.Model
	class *codedom.Class
}

type builderShell struct {
	desc  *model.Builder
	class *codedom.Class
}

// Build turns doc into a code tree rooted at an unnamed namespace:
//  1. Create namespace, class and enum shells so every name resolves.
//  2. Populate members and weak references.
//  3. Register discriminator mappings concurrently.
func (p *Parser) Build(ctx context.Context, doc *model.Document, cfg *config.GenerationConfiguration) (*codedom.Namespace, error) {
	if doc == nil {
		return nil, errors.InvalidInputf("no description to build")
	}
	if cfg == nil {
		return nil, errors.InvalidInputf("no generation configuration")
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	b := &builder{p: p, cfg: cfg, doc: doc}
	root, err := b.shells()
	if err != nil {
		return nil, err
	}
	if err := b.members(); err != nil {
		return nil, err
	}
	if err := b.discriminators(ctx); err != nil {
		return nil, err
	}
	p.log.Debug("built tree",
		zap.Int("models", len(b.models)),
		zap.Int("enums", len(b.enums)),
		zap.Int("builders", len(b.builders)),
	)
	return root, nil
}

func (b *builder) shells() (*codedom.Namespace, error) {
	root := codedom.InitRootNamespace()
	clientNs, err := root.AddNamespace(b.cfg.ClientNamespaceName)
	if err != nil {
		return nil, errors.Wrap(err, "client namespace")
	}
	b.types = &typeMapper{root: root, clientNs: clientNs}

	description := b.doc.Client.Description
	if description == "" {
		description = "The main entry point of the SDK, exposes the configuration and the fluent API."
	}
	clients, err := clientNs.AddClass(&codedom.Class{Name: b.cfg.ClientClassName, Kind: codedom.ClassRequestBuilder, Description: description})
	if err != nil {
		return nil, err
	}
	b.client = clients[0]

	for i := range b.doc.Namespaces {
		desc := &b.doc.Namespaces[i]
		ns := clientNs
		if desc.Name != "" {
			if ns, err = clientNs.AddNamespace(desc.Name); err != nil {
				return nil, err
			}
		}
		for j := range desc.Models {
			m := &desc.Models[j]
			if _, err := ns.AddClass(&codedom.Class{
				Name:              m.Name,
				Kind:              codedom.ClassModel,
				Description:       m.Description,
				IsErrorDefinition: m.Error,
			}); err != nil {
				return nil, err
			}
			b.models = append(b.models, modelShell{desc: m, class: ns.FindClass(m.Name)})
		}
		for j := range desc.Enums {
			e, err := enumShell(&desc.Enums[j])
			if err != nil {
				return nil, err
			}
			if _, err := ns.AddEnum(e); err != nil {
				return nil, err
			}
			b.enums = append(b.enums, e)
		}
		for j := range desc.Builders {
			rb := &desc.Builders[j]
			if _, err := ns.AddClass(&codedom.Class{Name: rb.Name, Kind: codedom.ClassRequestBuilder, Description: rb.Description}); err != nil {
				return nil, err
			}
			b.builders = append(b.builders, builderShell{desc: rb, class: ns.FindClass(rb.Name)})
		}
	}
	return root, nil
}

func enumShell(desc *model.Enum) (*codedom.Enum, error) {
	e := &codedom.Enum{Name: desc.Name, Description: desc.Description, Flags: desc.Flags}
	for _, o := range desc.Options {
		if _, err := e.AddOption(&codedom.EnumOption{Name: o.Name, SerializationName: o.SerializationName, Description: o.Description}); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (b *builder) members() error {
	for _, m := range b.models {
		if err := b.populateModel(m.class, m.desc); err != nil {
			return errors.Wrapf(err, "model %s", m.desc.Name)
		}
	}
	for _, rb := range b.builders {
		if err := b.populateBuilder(rb.class, rb.desc); err != nil {
			return errors.Wrapf(err, "builder %s", rb.desc.Name)
		}
	}
	if err := b.populateClient(); err != nil {
		return errors.Wrap(err, "client")
	}
	return nil
}

func (b *builder) populateModel(c *codedom.Class, desc *model.Model) error {
	if desc.Inherits != "" {
		base, t, err := b.types.class(desc.Inherits)
		if err != nil {
			return err
		}
		if base.Kind != codedom.ClassModel {
			return errors.InvalidInputf("%q can only inherit from a model", desc.Name)
		}
		c.Inherits = t
	}
	for _, prop := range desc.Properties {
		p, err := b.property(prop, codedom.PropertyCustom)
		if err != nil {
			return err
		}
		if _, err := c.AddProperty(p); err != nil {
			return err
		}
	}
	if desc.AdditionalData {
		c.Implements = append(c.Implements, external(additionalHolderType))
		if _, err := c.AddProperty(&codedom.Property{
			Name:        "additionalData",
			Kind:        codedom.PropertyAdditionalData,
			Type:        external(additionalDataType),
			Description: "Stores additional data not described in the OpenAPI description found when deserializing. Can be used for serialization as well.",
		}); err != nil {
			return err
		}
	}
	ser, err := serializer()
	if err != nil {
		return err
	}
	_, err = c.AddMethod(ser, deserializer())
	return err
}

func (b *builder) property(desc model.Property, kind codedom.PropertyKind) (*codedom.Property, error) {
	t, err := b.types.expr(desc.Type, desc.Collection, !desc.Required)
	if err != nil {
		return nil, errors.Wrapf(err, "property %s", desc.Name)
	}
	return &codedom.Property{
		Name:              desc.Name,
		Kind:              kind,
		Type:              t,
		SerializationName: desc.SerializationName,
		DefaultValue:      defaultLiteral(t, desc.Default),
		ReadOnly:          desc.ReadOnly,
		Description:       desc.Description,
	}, nil
}

// defaultLiteral quotes string defaults written bare in the description.
func defaultLiteral(t codedom.TypeExpr, v string) string {
	if v == "" || codedom.IsCollection(t) {
		return v
	}
	if s := codedom.Innermost(t); s != nil && s.Name == "string" && !strings.HasPrefix(v, `"`) {
		return `"` + v + `"`
	}
	return v
}

func (b *builder) populateBuilder(c *codedom.Class, desc *model.Builder) error {
	if _, err := c.AddProperty(builderProperties(desc.URLTemplate)...); err != nil {
		return err
	}
	if err := b.children(c, desc.Children); err != nil {
		return err
	}
	if ix := desc.Indexer; ix != nil {
		_, ret, err := b.types.class(ix.Builder)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		indexType := ix.Type
		if indexType == "" {
			indexType = "string"
		}
		it, err := b.types.scalar(indexType)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		name := ix.Name
		if name == "" {
			name = "item"
		}
		description := ix.Description
		if description == "" {
			description = "Gets an item from the " + codedom.ParentNamespace(ret.Definition).Name + " collection"
		}
		c.Indexer = &codedom.Indexer{Name: name, SerializationName: ix.Segment, IndexType: it, ReturnType: ret, Description: description}
	}
	ctor, err := builderConstructor()
	if err != nil {
		return err
	}
	if _, err := c.AddMethod(ctor); err != nil {
		return err
	}
	for i := range desc.Operations {
		if err := b.operation(c, &desc.Operations[i]); err != nil {
			return errors.Wrapf(err, "operation %s", desc.Operations[i].Method)
		}
	}
	return nil
}

func (b *builder) populateClient() error {
	base := b.doc.Client.BaseURL
	if base == "" {
		base = "{+baseurl}"
	}
	if _, err := b.client.AddProperty(builderProperties(base)...); err != nil {
		return err
	}
	if err := b.children(b.client, b.doc.Client.Children); err != nil {
		return err
	}
	ctor, err := clientConstructor(b.cfg.ClientClassName, b.cfg.Serializers, b.cfg.Deserializers)
	if err != nil {
		return err
	}
	_, err = b.client.AddMethod(ctor)
	return err
}

func (b *builder) children(c *codedom.Class, children []model.Child) error {
	for _, child := range children {
		target, t, err := b.types.class(child.Builder)
		if err != nil {
			return errors.Wrapf(err, "child %s", child.Name)
		}
		if target.Kind != codedom.ClassRequestBuilder {
			return errors.InvalidInputf("child %q must lead to a request builder", child.Name)
		}
		description := child.Description
		if description == "" {
			description = "The " + child.Name + " property"
		}
		if _, err := c.AddProperty(&codedom.Property{
			Name:        child.Name,
			Kind:        codedom.PropertyRequestBuilder,
			Type:        t,
			ReadOnly:    true,
			Description: description,
		}); err != nil {
			return err
		}
	}
	return nil
}

// operation adds the request generator and executor of one verb, plus the
// query parameters class when the verb takes any.
func (b *builder) operation(c *codedom.Class, op *model.Operation) error {
	verb, err := codedom.ParseHTTPMethod(op.Method)
	if err != nil {
		return err
	}
	title := naming.Title(strings.ToLower(verb.String()))

	ret, err := b.returnType(op)
	if err != nil {
		return err
	}

	var body *codedom.Parameter
	contentType := op.ContentType
	if op.Body != "" {
		bt, err := b.types.expr(op.Body, false, true)
		if err != nil {
			return errors.Wrap(err, "body")
		}
		body = &codedom.Parameter{Name: "body", Kind: codedom.ParameterRequestBody, Type: bt, Description: "The request body"}
		if contentType == "" {
			contentType = "application/json"
			if bt.TypeName() == "binary" {
				contentType = "application/octet-stream"
			}
		}
	}

	var query *codedom.Class
	if len(op.Query) > 0 {
		if query, err = b.queryParameters(c, c.Name+title+"QueryParameters", op); err != nil {
			return err
		}
	}

	params := func(executor bool) []*codedom.Parameter {
		var out []*codedom.Parameter
		if body != nil {
			out = append(out, &codedom.Parameter{Name: body.Name, Kind: body.Kind, Type: body.Type.CloneType(), Description: body.Description})
		}
		out = append(out, headersParam())
		if query != nil {
			out = append(out, &codedom.Parameter{
				Name:        "q",
				Kind:        codedom.ParameterQueryParameter,
				Type:        &codedom.Type{Name: query.Name, Definition: query, Nullable: true},
				Optional:    true,
				Description: "Request query parameters",
			})
		}
		out = append(out, optionsParam())
		if executor {
			out = append(out, responseHandlerParam())
		}
		return out
	}

	description := op.Description
	generator := &codedom.Method{
		Name:        "to" + title + "RequestInformation",
		Kind:        codedom.MethodRequestGenerator,
		HttpMethod:  verb,
		ReturnType:  external(requestInformation),
		ContentType: contentType,
		Description: description,
	}
	if _, err := generator.AddParameter(params(false)...); err != nil {
		return err
	}
	executor := &codedom.Method{
		Name:              strings.ToLower(verb.String()),
		Kind:              codedom.MethodRequestExecutor,
		HttpMethod:        verb,
		IsAsync:           true,
		ReturnType:        ret,
		ContentType:       contentType,
		Description:       description,
		ReturnDescription: op.ReturnDescription,
	}
	if _, err := executor.AddParameter(params(true)...); err != nil {
		return err
	}
	codes := make([]string, 0, len(op.Errors))
	for code := range op.Errors {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		t, err := b.types.scalar(op.Errors[code])
		if err != nil {
			return errors.Wrapf(err, "error mapping %s", code)
		}
		if cls, ok := t.Class(); !ok || !cls.IsErrorDefinition {
			return errors.InvalidInputf("error mapping %s must name an error model", code)
		}
		if err := executor.AddErrorMapping(code, t); err != nil {
			return err
		}
	}
	_, err = c.AddMethod(generator, executor)
	return err
}

func (b *builder) returnType(op *model.Operation) (codedom.TypeExpr, error) {
	if op.Returns == "" {
		return codedom.NewType("void"), nil
	}
	t, err := b.types.expr(op.Returns, op.ReturnsCollection, true)
	if err != nil {
		return nil, errors.Wrap(err, "returns")
	}
	return t, nil
}

func (b *builder) queryParameters(c *codedom.Class, name string, op *model.Operation) (*codedom.Class, error) {
	description := op.Description
	if description == "" {
		description = "Query parameters of the " + strings.ToUpper(op.Method) + " request"
	}
	classes, err := c.AddInnerClass(&codedom.Class{Name: name, Kind: codedom.ClassQueryParameters, Description: description})
	if err != nil {
		return nil, err
	}
	q := classes[0]
	escaped := false
	for _, desc := range op.Query {
		p, err := b.property(desc, codedom.PropertyQueryParameter)
		if err != nil {
			return nil, err
		}
		if _, err := q.AddProperty(p); err != nil {
			return nil, err
		}
		escaped = escaped || p.IsNameEscaped()
	}
	if escaped {
		mapper, err := queryMapper()
		if err != nil {
			return nil, err
		}
		if _, err := q.AddMethod(mapper); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// discriminators fills the discriminator registries. Mapping targets are
// resolved concurrently while the tree is only read; the registries are then
// filled in document order so the first spelling of a value always wins.
func (b *builder) discriminators(ctx context.Context) error {
	type entry struct {
		info  *codedom.DiscriminatorInformation
		owner string
		model.Mapping
		target *codedom.Type
	}
	var entries []*entry
	for _, m := range b.models {
		d := m.desc.Discriminator
		if d == nil {
			continue
		}
		info := m.class.DiscriminatorInformation()
		info.PropertyName = d.Property
		for _, mp := range d.Mappings {
			entries = append(entries, &entry{info: info, owner: m.desc.Name, Mapping: mp})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.p.concurrency)
	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target, t, err := b.types.class(e.Model)
			if err != nil {
				return errors.Wrapf(err, "discriminator %q of %s", e.Value, e.owner)
			}
			if target.Kind != codedom.ClassModel {
				return errors.InvalidInputf("discriminator %q of %s must name a model", e.Value, e.owner)
			}
			e.target = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, e := range entries {
		added, err := e.info.AddMapping(e.Value, e.target)
		if err != nil {
			return err
		}
		if !added {
			b.p.log.Debug("discriminator value shadowed", zap.String("model", e.owner), zap.String("value", e.Value))
		}
	}
	return nil
}

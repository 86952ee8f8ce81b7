package golang

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/writer"
)

var _ writer.BodyRenderer = (*renderer)(nil)

// ioSuffixes name the typed read and write calls of a scalar.
var ioSuffixes = map[string]string{
	"string":      "String",
	"bool":        "Bool",
	"byte":        "Byte",
	"int32":       "Int32",
	"int64":       "Int64",
	"float32":     "Float32",
	"float64":     "Float64",
	"Time":        "Time",
	"ISODuration": "ISODuration",
	"DateOnly":    "DateOnly",
	"TimeOnly":    "TimeOnly",
	"UUID":        "UUID",
	"[]byte":      "ByteArray",
}

func ioSuffix(scalar string) (string, error) {
	if s, ok := ioSuffixes[scalar]; ok {
		return s, nil
	}
	return "", errors.UnsupportedTypef("no serialization call for %q", scalar)
}

// primitiveName is the type name the request adapter decodes a primitive
// response by.
func primitiveName(scalar string) string {
	return strings.ToLower(scalar)
}

// accessor finds the method of kind reading or writing p on c or the closest
// base class declaring one.
func accessor(c *codedom.Class, p *codedom.Property, kind codedom.MethodKind) *codedom.Method {
	seen := map[*codedom.Class]struct{}{}
	for c != nil {
		if _, loop := seen[c]; loop {
			return nil
		}
		seen[c] = struct{}{}
		for _, m := range c.GetMethodsOfKind(kind) {
			if m.AccessedProperty == p {
				return m
			}
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

func (r *renderer) valueOf(c *codedom.Class, p *codedom.Property) *jen.Statement {
	if g := accessor(c, p, codedom.MethodGetter); g != nil {
		return jen.Id("m").Dot(r.conv.MethodName(g)).Call()
	}
	return field(p)
}

func (r *renderer) assign(c *codedom.Class, p *codedom.Property, v jen.Code) *jen.Statement {
	if s := accessor(c, p, codedom.MethodSetter); s != nil {
		return jen.Id("m").Dot(r.conv.MethodName(s)).Call(v)
	}
	return field(p).Op("=").Add(v)
}

// factory is the discriminator factory of a generated model.
func (r *renderer) factory(def codedom.Element) *jen.Statement {
	if c, ok := def.(*codedom.Class); ok {
		for _, m := range c.GetMethodsOfKind(codedom.MethodFactory) {
			return r.qual(c, r.conv.MethodName(m))
		}
	}
	return r.qual(def, "Create"+TypeName(def)+"FromDiscriminatorValue")
}

// newValue constructs c through its constructor when it has one.
func (r *renderer) newValue(c *codedom.Class) *jen.Statement {
	if len(c.GetMethodsOfKind(codedom.MethodConstructor)) > 0 {
		return r.qual(c, "New"+TypeName(c)).Call()
	}
	return jen.Op("&").Add(r.qual(c, TypeName(c))).Values()
}

func (r *renderer) scalarOf(p *codedom.Property) (*jen.Statement, error) {
	s, err := writer.Scalar(p.Type)
	if err != nil {
		return nil, err
	}
	return r.conv.scalarCode(s, r.resolve), nil
}

func (r *renderer) Serializer(m *writer.MethodPlan, p *writer.SerializerPlan) error {
	name := "writer"
	if p.Writer != nil {
		name = r.conv.IdentifierName(p.Writer.Name)
	}
	w := func() *jen.Statement { return jen.Id(name) }
	r.add(jen.If(w().Op("==").Nil()).Block(jen.Return(newError(name + " cannot be nil"))))
	if p.CallSuper && serializableBase(m.Class) {
		r.add(check(jen.Id("m").Dot(baseField(m.Class)).Dot(r.conv.MethodName(m.Method)).Call(w())))
	}
	for _, io := range p.Writes {
		stmt, err := r.write(m.Class, w, io)
		if err != nil {
			return err
		}
		r.add(stmt)
	}
	if p.AdditionalData != nil {
		r.add(check(w().Dot("WriteAdditionalData").Call(r.valueOf(m.Class, p.AdditionalData))))
	}
	r.add(jen.Return(jen.Nil()))
	return nil
}

// serializableBase reports whether the embedded base of c takes part in
// serialization. Runtime structs such as ApiError carry no model data.
func serializableBase(c *codedom.Class) bool {
	if c.Inherits == nil {
		return false
	}
	if !c.Inherits.External {
		return true
	}
	_, runtime := runtimeSymbols[baseField(c)]
	return !runtime
}

func (r *renderer) write(c *codedom.Class, w func() *jen.Statement, io writer.PropertyIO) (*jen.Statement, error) {
	wire := jen.Lit(io.WireName)
	value := r.valueOf(c, io.Property)
	switch io.Kind {
	case writer.IOCollectionOfPrimitives:
		suffix, err := ioSuffix(io.Scalar)
		if err != nil {
			return nil, err
		}
		return check(w().Dot("WriteCollectionOf"+suffix+"Values").Call(wire, value)), nil
	case writer.IOCollectionOfObjects:
		return jen.If(jen.Id("v").Op(":=").Add(value), jen.Id("v").Op("!=").Nil()).Block(
			jen.Id("cast").Op(":=").Make(jen.Index().Add(r.resolve("Parsable")), jen.Len(jen.Id("v"))),
			jen.For(jen.List(jen.Id("i"), jen.Id("item")).Op(":=").Range().Id("v")).Block(
				jen.Id("cast").Index(jen.Id("i")).Op("=").Id("item"),
			),
			check(w().Dot("WriteCollectionOfObjectValues").Call(wire, jen.Id("cast"))),
		), nil
	case writer.IOCollectionOfEnums:
		return check(w().Dot("WriteCollectionOfStringValues").Call(wire, r.qual(io.Definition, "Serialize"+TypeName(io.Definition)).Call(value))), nil
	case writer.IOEnum:
		return jen.If(jen.Id("v").Op(":=").Add(value), jen.Id("v").Op("!=").Nil()).Block(
			jen.Id("cast").Op(":=").Id("v").Dot("String").Call(),
			check(w().Dot("WriteStringValue").Call(wire, jen.Op("&").Id("cast"))),
		), nil
	case writer.IOObject:
		return check(w().Dot("WriteObjectValue").Call(wire, value)), nil
	default:
		suffix, err := ioSuffix(io.Scalar)
		if err != nil {
			return nil, err
		}
		return check(w().Dot("Write"+suffix+"Value").Call(wire, value)), nil
	}
}

func (r *renderer) Deserializer(m *writer.MethodPlan, p *writer.DeserializerPlan) error {
	res := func() *jen.Statement { return jen.Id("res") }
	if p.MergeSuper && serializableBase(m.Class) {
		r.add(res().Op(":=").Id("m").Dot(baseField(m.Class)).Dot(r.conv.MethodName(m.Method)).Call())
	} else {
		r.add(res().Op(":=").Make(r.deserializerMap()))
	}
	for _, io := range p.Reads {
		body, err := r.read(m.Class, io)
		if err != nil {
			return err
		}
		r.add(res().Index(jen.Lit(io.WireName)).Op("=").Func().Params(jen.Id("n").Add(r.resolve("ParseNode"))).Error().Block(body...))
	}
	r.add(jen.Return(res()))
	return nil
}

func (r *renderer) read(c *codedom.Class, io writer.PropertyIO) ([]jen.Code, error) {
	n := jen.Id("n")
	val := func() *jen.Statement { return jen.Id("val") }
	var get, value *jen.Statement
	switch io.Kind {
	case writer.IOCollectionOfPrimitives:
		scalar, err := r.scalarOf(io.Property)
		if err != nil {
			return nil, err
		}
		get = n.Dot("GetCollectionOfPrimitiveValues").Call(jen.Lit(primitiveName(io.Scalar)))
		value = r.resolve("CollectionValueCast").Types(scalar).Call(val())
	case writer.IOCollectionOfObjects:
		get = n.Dot("GetCollectionOfObjectValues").Call(r.factory(io.Definition))
		value = r.resolve("CollectionCast").Types(jen.Op("*").Add(r.qual(io.Definition, TypeName(io.Definition)))).Call(val())
	case writer.IOCollectionOfEnums:
		get = n.Dot("GetCollectionOfEnumValues").Call(r.qual(io.Definition, "Parse"+TypeName(io.Definition)))
		value = r.resolve("CollectionValueCast").Types(r.qual(io.Definition, TypeName(io.Definition))).Call(val())
	case writer.IOEnum:
		get = n.Dot("GetEnumValue").Call(r.qual(io.Definition, "Parse"+TypeName(io.Definition)))
		value = val().Assert(jen.Op("*").Add(r.qual(io.Definition, TypeName(io.Definition))))
	case writer.IOObject:
		get = n.Dot("GetObjectValue").Call(r.factory(io.Definition))
		value = val().Assert(jen.Op("*").Add(r.qual(io.Definition, TypeName(io.Definition))))
	default:
		suffix, err := ioSuffix(io.Scalar)
		if err != nil {
			return nil, err
		}
		get = n.Dot("Get" + suffix + "Value").Call()
		value = val()
	}
	return []jen.Code{
		jen.List(val(), jen.Err()).Op(":=").Add(get),
		failed(),
		jen.If(val().Op("!=").Nil()).Block(r.assign(c, io.Property, value)),
		jen.Return(jen.Nil()),
	}, nil
}

func (r *renderer) RequestGenerator(m *writer.MethodPlan, p *writer.RequestGeneratorPlan) error {
	info := func() *jen.Statement { return jen.Id(r.conv.TempVarName()) }
	r.add(info().Op(":=").Add(r.resolve("NewRequestInformation")).Call())
	for _, step := range p.Steps {
		switch step {
		case writer.StepUrlTemplate:
			r.add(
				info().Dot("UrlTemplate").Op("=").Add(field(p.UrlTemplate)),
				info().Dot("PathParameters").Op("=").Add(field(p.PathParameters)),
			)
		case writer.StepHttpMethod:
			r.add(info().Dot("Method").Op("=").Qual(abstractionsPath, p.HttpMethod.String()))
		case writer.StepHeaders:
			h := r.ident(p.Headers)
			r.add(jen.If(h.Clone().Op("!=").Nil()).Block(info().Dot("Headers").Dot("AddAll").Call(h)))
		case writer.StepQuery:
			q := r.ident(p.Query)
			r.add(jen.If(q.Clone().Op("!=").Nil()).Block(info().Dot("AddQueryParameters").Call(jen.Op("*").Add(q))))
		case writer.StepBody:
			body := r.ident(p.Body)
			if p.BodyIsStream {
				r.add(info().Dot("SetStreamContent").Call(body))
				continue
			}
			r.add(check(info().Dot("SetContentFromParsable").Call(jen.Id("ctx"), field(p.RequestAdapter), jen.Lit(p.ContentType), body), jen.Nil()))
		case writer.StepOptions:
			o := r.ident(p.Options)
			r.add(jen.If(o.Clone().Op("!=").Nil()).Block(info().Dot("AddRequestOptions").Call(o)))
		}
	}
	r.add(jen.Return(info(), jen.Nil()))
	return nil
}

func (r *renderer) RequestExecutor(m *writer.MethodPlan, p *writer.RequestExecutorPlan) error {
	info := func() *jen.Statement { return jen.Id(r.conv.TempVarName()) }
	adapter := func() *jen.Statement { return field(p.RequestAdapter) }
	var zero []jen.Code
	if p.Send != writer.SendVoid {
		zero = []jen.Code{jen.Nil()}
	}
	args := []jen.Code{jen.Id("ctx")}
	for _, a := range p.GeneratorArgs {
		args = append(args, r.ident(a))
	}
	r.add(
		jen.List(info(), jen.Err()).Op(":=").Id("m").Dot(r.conv.MethodName(p.Generator)).Call(args...),
		failed(zero...),
		jen.If(adapter().Op("==").Nil()).Block(jen.Return(append(append([]jen.Code(nil), zero...), newError("request adapter is nil"))...)),
	)
	if p.ResponseHandler != nil {
		rh := r.ident(p.ResponseHandler)
		r.add(jen.If(rh.Clone().Op("!=").Nil()).Block(
			jen.Id("option").Op(":=").Add(r.resolve("NewRequestHandlerOption")).Call(),
			jen.Id("option").Dot("SetResponseHandler").Call(rh),
			info().Dot("AddRequestOptions").Call(jen.Index().Add(r.resolve("RequestOption")).Values(jen.Id("option"))),
		))
	}
	mapping := jen.Nil()
	if len(p.ErrorMappings) > 0 {
		entries := jen.Dict{}
		for _, em := range p.ErrorMappings {
			s, err := writer.Scalar(em.Type)
			if err != nil {
				return errors.Wrapf(err, "error mapping %q", em.Code)
			}
			if s.Definition == nil {
				return errors.Structuref("error mapping %q does not designate a model", em.Code)
			}
			entries[jen.Lit(em.Code)] = r.factory(s.Definition)
		}
		r.add(jen.Id("errorMapping").Op(":=").Add(r.resolve("ErrorMappings")).Values(entries))
		mapping = jen.Id("errorMapping")
	}
	res := func() *jen.Statement { return jen.Id("res") }
	send := func(method string, decode jen.Code) {
		r.add(
			jen.List(res(), jen.Err()).Op(":=").Add(adapter()).Dot(method).Call(jen.Id("ctx"), info(), decode, mapping),
			failed(jen.Nil()),
			jen.If(res().Op("==").Nil()).Block(jen.Return(jen.Nil(), jen.Nil())),
		)
	}
	switch p.Send {
	case writer.SendVoid:
		r.add(jen.Return(adapter().Dot("SendNoContent").Call(jen.Id("ctx"), info(), mapping)))
		return nil
	case writer.SendObject:
		class, err := r.returnDefinition(p)
		if err != nil {
			return err
		}
		send("Send", r.factory(class))
		r.add(jen.Return(res().Assert(jen.Op("*").Add(r.qual(class, TypeName(class)))), jen.Nil()))
	case writer.SendCollection:
		class, err := r.returnDefinition(p)
		if err != nil {
			return err
		}
		send("SendCollection", r.factory(class))
		r.add(jen.Return(r.resolve("CollectionCast").Types(jen.Op("*").Add(r.qual(class, TypeName(class)))).Call(res()), jen.Nil()))
	case writer.SendPrimitiveCollection:
		s, err := writer.Scalar(m.Method.ReturnType)
		if err != nil {
			return err
		}
		send("SendPrimitiveCollection", jen.Lit(primitiveName(p.ReturnScalar)))
		r.add(jen.Return(r.resolve("CollectionValueCast").Types(r.conv.scalarCode(s, r.resolve)).Call(res()), jen.Nil()))
	default:
		t, err := r.typeCode(m.Method.ReturnType, m.Method)
		if err != nil {
			return err
		}
		send("SendPrimitive", jen.Lit(primitiveName(p.ReturnScalar)))
		r.add(jen.Return(res().Assert(t), jen.Nil()))
	}
	return nil
}

func (r *renderer) returnDefinition(p *writer.RequestExecutorPlan) (codedom.Element, error) {
	if p.ReturnDefinition == nil {
		return nil, errors.Structuref("response of %s executor does not designate a model", p.Generator.HttpMethod)
	}
	return p.ReturnDefinition, nil
}

// storeOf reaches the backing store through its getter when it has one.
func (r *renderer) storeOf(c *codedom.Class, store *codedom.Property) *jen.Statement {
	return r.valueOf(c, store)
}

func (r *renderer) Accessor(m *writer.MethodPlan, p *writer.AccessorPlan) error {
	if p.BackingStore == nil {
		if p.Getter {
			r.add(jen.Return(field(p.Property)))
		} else {
			r.add(field(p.Property).Op("=").Add(r.ident(p.Value)))
		}
		return nil
	}
	key := jen.Lit(r.conv.IdentifierName(p.Property.Name))
	store := func() *jen.Statement { return r.storeOf(m.Class, p.BackingStore) }
	mustSet := func(v jen.Code) *jen.Statement {
		return jen.If(jen.Err().Op(":=").Add(store()).Dot("Set").Call(key.Clone(), v), jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err()))
	}
	if !p.Getter {
		r.add(mustSet(r.ident(p.Value)))
		return nil
	}
	t, err := r.typeCode(p.Property.Type, p.Property)
	if err != nil {
		return err
	}
	r.add(
		jen.List(jen.Id("val"), jen.Err()).Op(":=").Add(store()).Dot("Get").Call(key.Clone()),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err())),
	)
	if p.DefaultOnMissing {
		var fill []jen.Code
		if s, ok := p.Property.Type.(*codedom.Type); ok && !isClass(s) && byReference(s, p.Property) {
			fill = []jen.Code{
				jen.Id("value").Op(":=").Add(r.expr(p.Property.DefaultValue)),
				jen.Id("val").Op("=").Op("&").Id("value"),
			}
		} else {
			fill = []jen.Code{jen.Id("val").Op("=").Add(r.expr(p.Property.DefaultValue))}
		}
		fill = append(fill, mustSet(jen.Id("val")))
		r.add(jen.If(jen.Id("val").Op("==").Nil()).Block(fill...))
	}
	r.add(
		jen.List(jen.Id("value"), jen.Id("_")).Op(":=").Id("val").Assert(t),
		jen.Return(jen.Id("value")),
	)
	return nil
}

func isClass(t *codedom.Type) bool {
	_, ok := t.Class()
	return ok
}

func (r *renderer) Constructor(m *writer.MethodPlan, p *writer.ConstructorPlan) error {
	c := m.Class
	var init []jen.Code
	if p.CallSuper && c.Inherits != nil {
		if base, ok := c.Inherits.Class(); ok && hasDefaultConstructor(base) {
			init = append(init, jen.Id(baseField(c)).Op(":").Op("*").Add(r.qual(base, "New"+TypeName(base))).Call())
		}
	}
	r.add(jen.Id("m").Op(":=").Op("&").Id(TypeName(c)).Values(init...))
	for _, d := range p.Defaults {
		r.add(field(d).Op("=").Add(r.expr(d.DefaultValue)))
	}
	for _, d := range p.ModelDefaults {
		r.add(r.assign(c, d, r.expr(d.DefaultValue)))
	}
	if pp := p.PathParametersProperty; pp != nil {
		switch {
		case p.PathParameters != nil:
			r.add(field(pp).Op("=").Qual("maps", "Clone").Call(r.ident(p.PathParameters)))
		case pp.DefaultValue != "":
			r.add(field(pp).Op("=").Add(r.expr(pp.DefaultValue)))
		default:
			r.add(field(pp).Op("=").Make(jen.Map(jen.String()).String()))
		}
	}
	for _, a := range p.Assignments {
		if a.Property != nil {
			r.add(field(a.Property).Op("=").Add(r.ident(a.Parameter)))
			continue
		}
		if pp := p.PathParametersProperty; pp != nil {
			r.add(field(pp).Index(jen.Lit(a.Parameter.WireName())).Op("=").Add(r.ident(a.Parameter)))
		}
	}
	if p.Client {
		for _, s := range p.SerializerModules {
			r.add(r.resolve("RegisterDefaultSerializer").Call(
				jen.Func().Params().Add(r.resolve("SerializationWriterFactory")).Block(jen.Return(entry(s).Call())),
			))
		}
		for _, s := range p.DeserializerModules {
			r.add(r.resolve("RegisterDefaultDeserializer").Call(
				jen.Func().Params().Add(r.resolve("ParseNodeFactory")).Block(jen.Return(entry(s).Call())),
			))
		}
		if pp := p.PathParametersProperty; pp != nil && p.RequestAdapter != nil {
			r.add(field(pp).Index(jen.Lit("baseurl")).Op("=").Add(r.ident(p.RequestAdapter)).Dot("GetBaseUrl").Call())
		}
		if p.BackingStore != nil && p.RequestAdapter != nil {
			r.add(r.ident(p.RequestAdapter).Dot("EnableBackingStore").Call(r.ident(p.BackingStore)))
		}
	}
	r.add(jen.Return(jen.Id("m")))
	return nil
}

func hasDefaultConstructor(c *codedom.Class) bool {
	for _, m := range c.GetMethodsOfKind(codedom.MethodConstructor) {
		if len(m.Parameters()) == 0 {
			return true
		}
	}
	return false
}

// entry references a "import/path.Symbol" serialization module entry.
func entry(s string) *jen.Statement {
	i := strings.LastIndex(s, ".")
	if i < 0 || !strings.Contains(s[:i], "/") {
		return jen.Id(s)
	}
	return jen.Qual(s[:i], s[i+1:])
}

func (r *renderer) ChildBuilder(m *writer.MethodPlan, p *writer.ChildBuilderPlan) error {
	if p.ReturnClass == nil {
		return errors.Structuref("method %q does not return a request builder", m.Method.Name)
	}
	params := field(p.PathParameters)
	if p.Indexer || len(p.PathArgs) > 0 {
		params = jen.Id("urlTplParams")
		r.add(jen.Id("urlTplParams").Op(":=").Qual("maps", "Clone").Call(field(p.PathParameters)))
		store := func(wire string, param *codedom.Parameter) {
			r.add(jen.Id("urlTplParams").Index(jen.Lit(wire)).Op("=").Add(r.pathValue(param)))
		}
		if p.Indexer {
			store(p.PathSegment, p.ID)
		}
		for _, a := range p.PathArgs {
			store(a.WireName(), a)
		}
	}
	args := childArgs(p.ReturnClass, params, field(p.RequestAdapter))
	r.add(jen.Return(r.qual(p.ReturnClass, "New"+TypeName(p.ReturnClass)).Call(args...)))
	return nil
}

// pathValue spells a path parameter as the string stored in the path
// parameters map.
func (r *renderer) pathValue(param *codedom.Parameter) *jen.Statement {
	if s, err := writer.Scalar(param.Type); err == nil && r.conv.TranslateType(s) == "string" {
		return r.ident(param)
	}
	return jen.Qual("fmt", "Sprint").Call(r.ident(param))
}

func (r *renderer) QueryMapper(m *writer.MethodPlan, p *writer.QueryMapperPlan) error {
	name := func() *jen.Statement { return r.ident(p.Param) }
	if len(p.Mappings) > 0 {
		cases := make([]jen.Code, 0, len(p.Mappings))
		for _, mp := range p.Mappings {
			cases = append(cases, jen.Case(jen.Lit(mp.Identifier)).Block(jen.Return(jen.Lit(mp.WireName))))
		}
		r.add(jen.Switch(name()).Block(cases...))
	}
	r.add(jen.Return(name()))
	return nil
}

func (r *renderer) Factory(m *writer.MethodPlan, p *writer.FactoryPlan) error {
	node := func() *jen.Statement { return r.ident(p.ParseNode) }
	class := p.Class
	if c, ok := p.ReturnElement.(*codedom.Class); ok {
		class = c
	}
	r.add(jen.If(node().Op("==").Nil()).Block(jen.Return(jen.Nil(), newError(r.conv.IdentifierName(p.ParseNode.Name)+" cannot be nil"))))
	var cases []jen.Code
	for _, mp := range p.Mappings {
		s, err := writer.Scalar(mp.Type)
		if err != nil {
			return errors.Wrapf(err, "discriminator mapping %q", mp.Key)
		}
		target, ok := s.Class()
		if !ok || target == class {
			continue
		}
		cases = append(cases, jen.Case(jen.Lit(mp.Key)).Block(jen.Return(r.newValue(target), jen.Nil())))
	}
	if len(cases) > 0 && p.PropertyName != "" {
		r.add(
			jen.List(jen.Id("mappingValueNode"), jen.Err()).Op(":=").Add(node()).Dot("GetChildNode").Call(jen.Lit(p.PropertyName)),
			failed(jen.Nil()),
			jen.If(jen.Id("mappingValueNode").Op("!=").Nil()).Block(
				jen.List(jen.Id("mappingValue"), jen.Err()).Op(":=").Id("mappingValueNode").Dot("GetStringValue").Call(),
				failed(jen.Nil()),
				jen.If(jen.Id("mappingValue").Op("!=").Nil()).Block(
					jen.Switch(jen.Op("*").Id("mappingValue")).Block(cases...),
				),
			),
		)
	}
	r.add(jen.Return(r.newValue(class), jen.Nil()))
	return nil
}

func (r *renderer) Trivial(m *writer.MethodPlan) error {
	if writer.IsVoid(r.conv, m.Method.ReturnType) || m.Method.IsOfKind(codedom.MethodSetter) {
		return nil
	}
	t, err := r.typeCode(m.Method.ReturnType, m.Method)
	if err != nil {
		return err
	}
	r.add(jen.Var().Id("zero").Add(t), jen.Return(jen.Id("zero")))
	return nil
}

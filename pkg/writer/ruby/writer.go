package ruby

import (
	"sort"
	"strings"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/writer"
)

// NewWriter returns the Ruby artifact writer for a client rooted at
// clientNamespace. The client namespace maps to the output directory itself;
// every namespace below it gets a module file next to its directory.
func NewWriter(clientNamespace string) *writer.TextWriter {
	l := layout{client: clientNamespace}
	return &writer.TextWriter{
		Indent: "  ",
		NewRenderer: func(w *writer.LanguageWriter) writer.ElementRenderer {
			return &renderer{w: w, layout: l}
		},
		PathFunc:   l.Path,
		Namespaces: true,
	}
}

type layout struct {
	client string
}

// dirs lists the directories of ns below the output directory.
func (l layout) dirs(ns *codedom.Namespace) []string {
	if ns == nil || ns.IsRoot() {
		return nil
	}
	name := ns.Name
	switch {
	case name == l.client:
		return nil
	case strings.HasPrefix(name, l.client+"."):
		name = strings.TrimPrefix(name, l.client+".")
	}
	segs := strings.Split(name, ".")
	for i, s := range segs {
		segs[i] = naming.Snake(s)
	}
	return segs
}

// Path is the file of e below the output directory.
func (l layout) Path(e codedom.Element) string {
	if ns, ok := e.(*codedom.Namespace); ok {
		if ns.Name == l.client {
			return naming.Snake(ns.LastSegment()) + ".rb"
		}
		d := l.dirs(ns)
		if len(d) == 0 {
			return naming.Snake(ns.LastSegment()) + ".rb"
		}
		return strings.Join(d, "/") + ".rb"
	}
	return strings.Join(append(l.dirs(codedom.ParentNamespace(e)), naming.Snake(codedom.NameOf(e))+".rb"), "/")
}

// relative is the require_relative path of def's file from the directory of
// the file declaring from.
func (l layout) relative(from, def codedom.Element) string {
	a, b := l.dirs(codedom.ParentNamespace(from)), l.dirs(codedom.ParentNamespace(def))
	common := 0
	for common < len(a) && common < len(b) && a[common] == b[common] {
		common++
	}
	prefix := "./"
	if ups := len(a) - common; ups > 0 {
		prefix = strings.Repeat("../", ups)
	}
	return prefix + strings.Join(append(append([]string(nil), b[common:]...), naming.Snake(codedom.NameOf(def))), "/")
}

type renderer struct {
	conv   Conventions
	w      *writer.LanguageWriter
	layout layout
	// modules counts the module blocks opened for the current artifact.
	modules int
}

func (r *renderer) Conventions() writer.Conventions { return r.conv }

func (r *renderer) openModules(ns *codedom.Namespace) {
	if ns == nil {
		return
	}
	for _, s := range ns.Segments() {
		r.w.WriteLine("module " + naming.Title(s))
		r.w.IncreaseIndent()
		r.modules++
	}
}

func (r *renderer) closeModules() {
	for ; r.modules > 0; r.modules-- {
		r.w.DecreaseIndent()
		r.w.WriteLine("end")
	}
}

func (r *renderer) Namespace(ns *codedom.Namespace) error {
	r.openModules(ns)
	r.closeModules()
	return nil
}

func (r *renderer) StartClass(c *codedom.Class) error {
	if _, top := c.Parent().(*codedom.Namespace); top {
		r.writeRequires(c)
		r.openModules(codedom.ParentNamespace(c))
	}
	r.writeDoc(c.Description)
	decl := "class " + naming.UpperFirst(c.Name)
	if c.Inherits != nil {
		decl += " < " + r.conv.TranslateType(c.Inherits)
	}
	r.w.WriteLine(decl)
	r.w.IncreaseIndent()
	for _, i := range c.Implements {
		r.w.WriteLine("include " + includeName(r.conv, i))
	}
	return nil
}

// includeName qualifies runtime mixins the tree names bare.
func includeName(conv Conventions, t *codedom.Type) string {
	name := conv.TranslateType(t)
	if t.Definition == nil && !strings.Contains(name, "::") {
		return abstractionsModule + "::" + name
	}
	return name
}

func (r *renderer) EndClass(c *codedom.Class) error {
	r.w.DecreaseIndent()
	r.w.WriteLine("end")
	if _, top := c.Parent().(*codedom.Namespace); top {
		r.closeModules()
	}
	return nil
}

// writeRequires loads the gems first, then the relative files: namespace
// modules as the tree lists them, then the generated classes referenced.
func (r *renderer) writeRequires(c *codedom.Class) {
	external, internal := writer.ArtifactUsings(c)
	var gems, relatives []string
	seen := map[string]struct{}{}
	add := func(list *[]string, s string) {
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		*list = append(*list, s)
	}
	for _, u := range external {
		if strings.HasPrefix(u.Module(), ".") {
			add(&relatives, u.Module())
		} else if u.Module() != "" {
			add(&gems, u.Module())
		}
	}
	for _, u := range internal {
		add(&relatives, r.layout.relative(c, u.Declaration.Definition))
	}
	sort.Strings(gems)
	for _, g := range gems {
		r.w.WriteLinef("require '%s'", g)
	}
	for _, p := range relatives {
		r.w.WriteLinef("require_relative '%s'", p)
	}
	if len(gems)+len(relatives) > 0 {
		r.w.WriteBlankLine()
	}
}

func (r *renderer) writeDoc(lines ...string) {
	var text []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			text = append(text, r.conv.DocCommentPrefix()+l)
		}
	}
	if len(text) == 0 {
		return
	}
	r.w.WriteLine(r.conv.DocCommentStart())
	r.w.WriteLines(text...)
	r.w.WriteLine(r.conv.DocCommentEnd())
}

func (r *renderer) methodDoc(m *codedom.Method) {
	lines := []string{m.Description}
	for _, p := range writer.DocumentedParameters(m) {
		lines = append(lines, "@param "+r.conv.IdentifierName(p.Name)+" "+strings.TrimSpace(p.Description))
	}
	if d := strings.TrimSpace(m.ReturnDescription); d != "" && !writer.IsVoid(r.conv, m.ReturnType) {
		lines = append(lines, "@return "+d)
	}
	r.writeDoc(lines...)
}

func (r *renderer) Property(p *codedom.Property) error {
	switch {
	case p.IsOfKind(codedom.PropertyRequestBuilder):
		return r.requestBuilderProperty(p)
	case p.IsOfKind(codedom.PropertyQueryParameter):
		r.writeDoc(p.Description)
		r.w.WriteLine("attr_accessor " + Symbol(naming.Snake(p.Name)))
	default:
		r.writeDoc(p.Description)
		r.w.WriteLine(r.conv.FieldName(p))
	}
	return nil
}

func (r *renderer) requestBuilderProperty(p *codedom.Property) error {
	scalar, err := writer.Scalar(p.Type)
	if err != nil {
		return err
	}
	child, ok := scalar.Class()
	if !ok {
		return errors.Structuref("request builder property %q does not reference a class", p.Name)
	}
	c := codedom.ParentClass(p)
	r.writeDoc(p.Description)
	r.w.WriteBlock("def "+naming.Snake(p.Name), "end", func() {
		r.w.WriteLinef("return %s.new(%s)", r.conv.TranslateType(scalar), strings.Join(r.childArgs(c, child, r.field(c, codedom.PropertyPathParameters)), ", "))
	})
	return nil
}

func (r *renderer) field(c *codedom.Class, kind codedom.PropertyKind) string {
	if p := c.GetPropertyOfKind(kind); p != nil {
		return r.conv.FieldName(p)
	}
	return "@" + naming.Snake(kind.String())
}

func (r *renderer) childArgs(c, child *codedom.Class, pathParams string) []string {
	var args []string
	for _, k := range writer.ChildConstructorKinds(child) {
		switch k {
		case codedom.ParameterPathParameters:
			args = append(args, pathParams)
		case codedom.ParameterRequestAdapter:
			args = append(args, r.field(c, codedom.PropertyRequestAdapter))
		}
	}
	return args
}

func (r *renderer) Method(plan *writer.MethodPlan) error {
	m := plan.Method
	params := append([]*codedom.Parameter(nil), m.Parameters()...)
	sort.SliceStable(params, func(i, j int) bool { return !isOptional(params[i]) && isOptional(params[j]) })
	sigs := make([]string, 0, len(params))
	for _, p := range params {
		s, err := r.conv.ParameterSignature(p, m)
		if err != nil {
			return err
		}
		sigs = append(sigs, s)
	}
	name := r.conv.MethodName(m)
	def := "def "
	if m.IsStatic {
		def += "self."
	}
	def += name
	if len(sigs) > 0 {
		def += "(" + strings.Join(sigs, ", ") + ")"
	}
	r.methodDoc(m)
	r.w.WriteLine(def)
	r.w.IncreaseIndent()
	if err := writer.WriteBody(r, plan); err != nil {
		return err
	}
	r.w.DecreaseIndent()
	r.w.WriteLine("end")
	if m.Access != codedom.Public && !m.IsStatic {
		r.w.WriteLinef("%s %s", r.conv.AccessModifier(m.Access), Symbol(name))
	}
	return nil
}

func isOptional(p *codedom.Parameter) bool { return p.Optional || p.DefaultValue != "" }

func (r *renderer) ident(p *codedom.Parameter) string { return r.conv.IdentifierName(p.Name) }

func (r *renderer) guard(p *codedom.Parameter) {
	if p == nil {
		return
	}
	r.w.WriteLinef("raise StandardError, '%s cannot be null' if %s.nil?", r.ident(p), r.ident(p))
}

// accessor returns the accessor of kind declared for p on c or a base class.
func accessor(c *codedom.Class, p *codedom.Property, kind codedom.MethodKind) *codedom.Method {
	for ; c != nil; c = baseClass(c) {
		for _, m := range c.GetMethodsOfKind(kind) {
			if m.AccessedProperty == p {
				return m
			}
		}
	}
	return nil
}

func baseClass(c *codedom.Class) *codedom.Class {
	if c.Inherits == nil {
		return nil
	}
	base, _ := c.Inherits.Class()
	return base
}

func (r *renderer) valueOf(c *codedom.Class, p *codedom.Property) string {
	if g := accessor(c, p, codedom.MethodGetter); g != nil {
		return "self." + r.conv.MethodName(g)
	}
	return r.conv.FieldName(p)
}

var ioSuffixes = map[string]string{
	"String":          "string",
	"Integer":         "number",
	"Float":           "float",
	"Boolean":         "boolean",
	"UUIDTools::UUID": "guid",
	"DateTime":        "date_time",
	"Date":            "date",
	"Time":            "time",
	"Duration":        "duration",
}

// factory is the expression creating def from a parse node named pn.
func (r *renderer) factory(def codedom.Element) string {
	name := Qualified(def)
	if c, ok := def.(*codedom.Class); ok {
		if fs := c.GetMethodsOfKind(codedom.MethodFactory); len(fs) > 0 {
			return "lambda {|pn| " + name + "." + r.conv.MethodName(fs[0]) + "(pn) }"
		}
	}
	return name
}

func (r *renderer) Serializer(m *writer.MethodPlan, p *writer.SerializerPlan) error {
	w := "writer"
	if p.Writer != nil {
		w = r.ident(p.Writer)
	}
	r.guard(p.Writer)
	if p.CallSuper {
		r.w.WriteLinef("super(%s)", w)
	}
	for _, io := range p.Writes {
		value := r.valueOf(m.Class, io.Property)
		var call string
		switch io.Kind {
		case writer.IOCollectionOfPrimitives, writer.IOCollectionOfEnums:
			call = "write_collection_of_primitive_values"
		case writer.IOCollectionOfObjects:
			call = "write_collection_of_object_values"
		case writer.IOEnum:
			call = "write_enum_value"
		case writer.IOObject:
			call = "write_object_value"
		default:
			call = "write_object_value"
			if s, ok := ioSuffixes[io.Scalar]; ok {
				call = "write_" + s + "_value"
			}
		}
		r.w.WriteLinef("%s.%s(%q, %s)", w, call, io.WireName, value)
	}
	if p.AdditionalData != nil {
		r.w.WriteLinef("%s.write_additional_data(%s)", w, r.valueOf(m.Class, p.AdditionalData))
	}
	return nil
}

func (r *renderer) Deserializer(m *writer.MethodPlan, p *writer.DeserializerPlan) error {
	open, close := "return {", "}"
	if p.MergeSuper {
		open, close = "return super.merge({", "})"
	}
	r.w.WriteBlock(open, close, func() {
		for _, io := range p.Reads {
			var read string
			switch io.Kind {
			case writer.IOCollectionOfPrimitives, writer.IOCollectionOfEnums:
				read = "n.get_collection_of_primitive_values(" + io.Scalar + ")"
			case writer.IOCollectionOfObjects:
				read = "n.get_collection_of_object_values(" + r.factory(io.Definition) + ")"
			case writer.IOEnum:
				read = "n.get_enum_value(" + io.Scalar + ")"
			case writer.IOObject:
				read = "n.get_object_value(" + r.factory(io.Definition) + ")"
			default:
				read = "n.get_object_value(" + io.Scalar + ")"
				if s, ok := ioSuffixes[io.Scalar]; ok {
					read = "n.get_" + s + "_value()"
				}
			}
			target := r.conv.FieldName(io.Property)
			if set := accessor(m.Class, io.Property, codedom.MethodSetter); set != nil {
				target = "self." + naming.Snake(set.Name)
			}
			r.w.WriteLinef("%q => lambda {|n| %s = %s },", io.WireName, target, read)
		}
	})
	return nil
}

func (r *renderer) RequestGenerator(m *writer.MethodPlan, p *writer.RequestGeneratorPlan) error {
	v := r.conv.TempVarName()
	r.w.WriteLinef("%s = %s::RequestInformation.new()", v, abstractionsModule)
	for _, step := range p.Steps {
		switch step {
		case writer.StepUrlTemplate:
			r.w.WriteLinef("%s.url_template = %s", v, r.conv.FieldName(p.UrlTemplate))
			r.w.WriteLinef("%s.path_parameters = %s", v, r.conv.FieldName(p.PathParameters))
		case writer.StepHttpMethod:
			r.w.WriteLinef("%s.http_method = %s", v, Symbol(p.HttpMethod.String()))
		case writer.StepHeaders:
			r.w.WriteLinef("%s.set_headers_from_raw_object(%s) unless %s.nil?", v, r.ident(p.Headers), r.ident(p.Headers))
		case writer.StepQuery:
			r.w.WriteLinef("%s.set_query_string_parameters_from_raw_object(%s) unless %s.nil?", v, r.ident(p.Query), r.ident(p.Query))
		case writer.StepBody:
			if p.BodyIsStream {
				r.w.WriteLinef("%s.set_stream_content(%s)", v, r.ident(p.Body))
			} else {
				r.w.WriteLinef("%s.set_content_from_parsable(%s, %q, %s)", v, r.conv.FieldName(p.RequestAdapter), p.ContentType, r.ident(p.Body))
			}
		case writer.StepOptions:
			r.w.WriteLinef("%s.add_request_options(%s) unless %s.nil?", v, r.ident(p.Options), r.ident(p.Options))
		}
	}
	r.w.WriteLine("return " + v)
	return nil
}

func (r *renderer) RequestExecutor(m *writer.MethodPlan, p *writer.RequestExecutorPlan) error {
	v := r.conv.TempVarName()
	args := make([]string, 0, len(p.GeneratorArgs))
	for _, a := range p.GeneratorArgs {
		args = append(args, r.ident(a))
	}
	r.w.WriteBlock(v+" = self."+r.conv.MethodName(p.Generator)+"(", ")", func() {
		if len(args) > 0 {
			r.w.WriteLine(strings.Join(args, ", "))
		}
	})
	adapter := r.conv.FieldName(p.RequestAdapter)
	r.w.WriteLinef("raise StandardError, 'request adapter is null' if %s.nil?", adapter)
	mapping := "nil"
	if len(p.ErrorMappings) > 0 {
		mapping = "error_mapping"
		r.w.WriteLine("error_mapping = Hash.new")
		for _, em := range p.ErrorMappings {
			scalar, err := writer.Scalar(em.Type)
			if err != nil {
				return errors.Wrapf(err, "error mapping %q", em.Code)
			}
			factory := r.conv.TranslateType(scalar)
			if scalar.Definition != nil {
				factory = r.factory(scalar.Definition)
			}
			r.w.WriteLinef("error_mapping[%q] = %s", em.Code, factory)
		}
	}
	handler := "nil"
	if p.ResponseHandler != nil {
		handler = r.ident(p.ResponseHandler)
	}
	switch p.Send {
	case writer.SendVoid:
		r.w.WriteLinef("return %s.send_async(%s, nil, %s, %s)", adapter, v, handler, mapping)
	case writer.SendStream, writer.SendPrimitive:
		r.w.WriteLinef("return %s.send_primitive_async(%s, %s, %s, %s)", adapter, v, p.ReturnScalar, handler, mapping)
	case writer.SendPrimitiveCollection:
		r.w.WriteLinef("return %s.send_collection_of_primitive_async(%s, %s, %s, %s)", adapter, v, p.ReturnScalar, handler, mapping)
	case writer.SendCollection:
		r.w.WriteLinef("return %s.send_collection_async(%s, %s, %s, %s)", adapter, v, p.ReturnScalar, handler, mapping)
	default:
		r.w.WriteLinef("return %s.send_async(%s, %s, %s, %s)", adapter, v, p.ReturnScalar, handler, mapping)
	}
	return nil
}

func (r *renderer) Accessor(m *writer.MethodPlan, p *writer.AccessorPlan) error {
	key := naming.Snake(p.Property.Name)
	if p.BackingStore == nil {
		if p.Getter {
			r.w.WriteLine("return " + r.conv.FieldName(p.Property))
		} else {
			r.w.WriteLinef("%s = %s", r.conv.FieldName(p.Property), r.ident(p.Value))
		}
		return nil
	}
	store := r.conv.FieldName(p.BackingStore)
	switch {
	case !p.Getter:
		r.w.WriteLinef("%s.set(%q, %s)", store, key, r.ident(p.Value))
	case !p.DefaultOnMissing:
		r.w.WriteLinef("return %s.get(%q)", store, key)
	default:
		r.w.WriteLinef("value = %s.get(%q)", store, key)
		r.w.WriteBlock("if value.nil?", "end", func() {
			r.w.WriteLine("value = " + p.Property.DefaultValue)
			r.w.WriteLinef("%s.set(%q, value)", store, key)
		})
		r.w.WriteLine("return value")
	}
	return nil
}

func (r *renderer) Constructor(m *writer.MethodPlan, p *writer.ConstructorPlan) error {
	c := m.Class
	if p.CallSuper {
		r.w.WriteLine("super()")
	}
	for _, d := range p.Defaults {
		r.w.WriteLinef("%s = %s", r.conv.FieldName(d), d.DefaultValue)
	}
	for _, d := range p.ModelDefaults {
		if set := accessor(c, d, codedom.MethodSetter); set != nil {
			r.w.WriteLinef("self.%s = %s", naming.Snake(set.Name), d.DefaultValue)
		} else {
			r.w.WriteLinef("%s = %s", r.conv.FieldName(d), d.DefaultValue)
		}
	}
	pathParams := ""
	if p.PathParametersProperty != nil {
		pathParams = r.conv.FieldName(p.PathParametersProperty)
		switch {
		case p.PathParameters != nil:
			name := r.ident(p.PathParameters)
			r.w.WriteLinef("%s = %s.is_a?(Hash) ? %s.clone : { \"request-raw-url\" => %s }", pathParams, name, name, name)
		case p.PathParametersProperty.DefaultValue != "":
			r.w.WriteLinef("%s = %s", pathParams, p.PathParametersProperty.DefaultValue)
		default:
			r.w.WriteLinef("%s = Hash.new", pathParams)
		}
	}
	for _, a := range p.Assignments {
		if a.Property != nil {
			r.w.WriteLinef("%s = %s", r.conv.FieldName(a.Property), r.ident(a.Parameter))
		} else if pathParams != "" {
			r.w.WriteLinef("%s[%q] = %s", pathParams, a.Parameter.WireName(), r.ident(a.Parameter))
		}
	}
	if !p.Client {
		return nil
	}
	for _, s := range p.SerializerModules {
		r.w.WriteLinef("%s::ApiClientBuilder.register_default_serializer(%s)", abstractionsModule, constantOf(s))
	}
	for _, s := range p.DeserializerModules {
		r.w.WriteLinef("%s::ApiClientBuilder.register_default_deserializer(%s)", abstractionsModule, constantOf(s))
	}
	if p.RequestAdapter != nil && pathParams != "" {
		r.w.WriteLinef("%s[\"baseurl\"] = %s.get_base_url", pathParams, r.ident(p.RequestAdapter))
	}
	if p.BackingStore != nil && p.RequestAdapter != nil {
		r.w.WriteLinef("%s.enable_backing_store(%s)", r.ident(p.RequestAdapter), r.ident(p.BackingStore))
	}
	return nil
}

func (r *renderer) ChildBuilder(m *writer.MethodPlan, p *writer.ChildBuilderPlan) error {
	const params = "url_tpl_params"
	r.guard(p.ID)
	r.w.WriteLinef("%s = %s.clone", params, r.conv.FieldName(p.PathParameters))
	if p.ID != nil {
		r.w.WriteLinef("%s[%q] = %s", params, p.PathSegment, r.ident(p.ID))
	}
	for _, a := range p.PathArgs {
		r.w.WriteLinef("%s[%q] = %s", params, a.WireName(), r.ident(a))
	}
	r.w.WriteLinef("return %s.new(%s)", p.ReturnScalar, strings.Join(r.childArgs(m.Class, p.ReturnClass, params), ", "))
	return nil
}

func (r *renderer) QueryMapper(_ *writer.MethodPlan, p *writer.QueryMapperPlan) error {
	name := r.ident(p.Param)
	r.guard(p.Param)
	if len(p.Mappings) == 0 {
		r.w.WriteLine("return " + name)
		return nil
	}
	r.w.WriteBlock("case "+name, "end", func() {
		for _, qm := range p.Mappings {
			r.w.WriteBlock("when \""+qm.Identifier+"\"", "", func() {
				r.w.WriteLinef("return %q", qm.WireName)
			})
		}
		r.w.WriteBlock("else", "", func() {
			r.w.WriteLine("return " + name)
		})
	})
	return nil
}

func (r *renderer) Factory(_ *writer.MethodPlan, p *writer.FactoryPlan) error {
	node := r.ident(p.ParseNode)
	r.guard(p.ParseNode)
	if p.PropertyName != "" && len(p.Mappings) > 0 {
		r.w.WriteLinef("mapping_value_node = %s.get_child_node(%q)", node, p.PropertyName)
		r.w.WriteBlock("unless mapping_value_node.nil?", "end", func() {
			r.w.WriteLine("mapping_value = mapping_value_node.get_string_value")
			r.w.WriteBlock("case mapping_value", "end", func() {
				for _, dm := range p.Mappings {
					scalar, err := writer.Scalar(dm.Type)
					if err != nil || scalar.Definition == p.ReturnElement {
						continue
					}
					r.w.WriteBlock("when "+quote(dm.Key), "", func() {
						r.w.WriteLinef("return %s.new", r.conv.TranslateType(scalar))
					})
				}
			})
		})
	}
	r.w.WriteLinef("return %s.new", p.ReturnScalar)
	return nil
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "#{", `\#{`).Replace(s) + `"`
}

func (r *renderer) Trivial(*writer.MethodPlan) error {
	r.w.WriteLine("return nil")
	return nil
}

func (r *renderer) Enum(e *codedom.Enum) error {
	r.openModules(codedom.ParentNamespace(e))
	r.writeDoc(e.Description)
	r.w.WriteBlock(naming.UpperFirst(e.Name)+" = {", "}", func() {
		for _, o := range e.Options() {
			r.w.WriteLinef("%s: %s,", naming.UpperFirst(o.Name), Symbol(o.WireName()))
		}
	})
	r.closeModules()
	return nil
}

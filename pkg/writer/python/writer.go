package python

import (
	"sort"
	"strings"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/writer"
)

// NewWriter returns the Python artifact writer. Every class and enum gets a
// module; every namespace gets a package __init__.py.
func NewWriter() *writer.TextWriter {
	return &writer.TextWriter{
		Indent:      "    ",
		NewRenderer: func(w *writer.LanguageWriter) writer.ElementRenderer { return &renderer{w: w} },
		PathFunc:    Path,
		Namespaces:  true,
	}
}

// Path is the module path of e below the output directory.
func Path(e codedom.Element) string {
	switch v := e.(type) {
	case *codedom.Namespace:
		return strings.Join(append(packageSegments(v), "__init__.py"), "/")
	default:
		return strings.Join(append(packageSegments(codedom.ParentNamespace(e)), naming.Snake(codedom.NameOf(e))+".py"), "/")
	}
}

func packageSegments(ns *codedom.Namespace) []string {
	if ns == nil {
		return nil
	}
	segs := ns.Segments()
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = naming.Snake(s)
	}
	return out
}

type renderer struct {
	conv Conventions
	w    *writer.LanguageWriter
	// unit is the top-level class being written.
	unit *codedom.Class
}

func (r *renderer) Conventions() writer.Conventions { return r.conv }

// Namespace packages carry no code; the file only marks the directory.
func (r *renderer) Namespace(*codedom.Namespace) error { return nil }

func (r *renderer) StartClass(c *codedom.Class) error {
	if _, top := c.Parent().(*codedom.Namespace); top {
		r.unit = c
		r.writeImports(c)
	}
	bases := make([]string, 0, 1+len(c.Implements))
	if c.Inherits != nil {
		bases = append(bases, r.conv.TranslateType(c.Inherits))
	}
	for _, i := range c.Implements {
		bases = append(bases, r.conv.TranslateType(i))
	}
	if c.Kind == codedom.ClassQueryParameters {
		r.w.WriteLine("@dataclass")
	}
	r.w.WriteLinef("class %s(%s):", naming.UpperFirst(c.Name), strings.Join(bases, ", "))
	r.w.IncreaseIndent()
	r.writeDocString(c.Description)
	return nil
}

func (r *renderer) EndClass(c *codedom.Class) error {
	if len(c.Properties()) == 0 && len(c.Methods()) == 0 && len(c.InnerClasses()) == 0 {
		r.w.WriteLine("pass")
	}
	r.w.DecreaseIndent()
	r.w.WriteBlankLine()
	return nil
}

func (r *renderer) writeDocString(lines ...string) {
	var text []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			text = append(text, l)
		}
	}
	if len(text) == 0 {
		return
	}
	r.w.WriteLine(r.conv.DocCommentStart())
	r.w.WriteLines(text...)
	r.w.WriteLine(r.conv.DocCommentEnd())
}

// writeImports writes the external imports grouped by module, the base class
// imports and the remaining tree imports behind TYPE_CHECKING. Runtime uses
// of other generated classes import locally inside the method using them.
func (r *renderer) writeImports(c *codedom.Class) {
	external, internal := writer.ArtifactUsings(c)
	var runtime, checking []*codedom.Using
	for _, u := range internal {
		if isBaseOf(c, u.Declaration.Definition) {
			runtime = append(runtime, u)
		} else {
			checking = append(checking, u)
		}
	}

	modules := map[string][]string{}
	var order []string
	add := func(module, symbol string) {
		if _, ok := modules[module]; !ok {
			order = append(order, module)
		}
		for _, s := range modules[module] {
			if s == symbol {
				return
			}
		}
		modules[module] = append(modules[module], symbol)
	}
	for _, u := range external {
		add(u.Module(), u.Name)
	}
	if c.Kind == codedom.ClassQueryParameters || hasInnerOfKind(c, codedom.ClassQueryParameters) {
		add("dataclasses", "dataclass")
	}
	if len(checking) > 0 {
		add("typing", "TYPE_CHECKING")
	}
	sort.SliceStable(order, func(i, j int) bool {
		if (order[i] == "__future__") != (order[j] == "__future__") {
			return order[i] == "__future__"
		}
		return order[i] < order[j]
	})
	for _, m := range order {
		syms := modules[m]
		sort.Strings(syms)
		r.w.WriteLinef("from %s import %s", m, strings.Join(syms, ", "))
	}
	for _, u := range runtime {
		r.w.WriteLine(r.importLine(u.Declaration.Definition))
	}
	if len(checking) > 0 {
		r.w.WriteBlankLine()
		r.w.WriteBlock("if TYPE_CHECKING:", "", func() {
			for _, u := range checking {
				r.w.WriteLine(r.importLine(u.Declaration.Definition))
			}
		})
	}
	r.w.WriteBlankLine()
}

func hasInnerOfKind(c *codedom.Class, kind codedom.ClassKind) bool {
	for _, inner := range c.InnerClasses() {
		if inner.IsOfKind(kind) || hasInnerOfKind(inner, kind) {
			return true
		}
	}
	return false
}

func isBaseOf(c *codedom.Class, def codedom.Element) bool {
	if c.Inherits != nil && c.Inherits.Definition == def {
		return true
	}
	for _, inner := range c.InnerClasses() {
		if isBaseOf(inner, def) {
			return true
		}
	}
	return false
}

// importLine imports def relative to the package of the class being written.
func (r *renderer) importLine(def codedom.Element) string {
	from := codedom.ParentNamespace(r.unit)
	to := codedom.ParentNamespace(def)
	ups, downs := writer.RelativeImport(from, to)
	parts := make([]string, 0, len(downs)+1)
	for _, d := range downs {
		parts = append(parts, naming.Snake(d))
	}
	parts = append(parts, naming.Snake(codedom.NameOf(def)))
	return "from " + strings.Repeat(".", ups+1) + strings.Join(parts, ".") + " import " + naming.UpperFirst(codedom.NameOf(def))
}

// localImports writes function scoped imports of the generated types a body
// uses at runtime.
func (r *renderer) localImports(defs ...codedom.Element) {
	seen := map[codedom.Element]struct{}{}
	var lines []string
	for _, d := range defs {
		if d == nil || r.inUnit(d) {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		lines = append(lines, r.importLine(d))
	}
	sort.Strings(lines)
	r.w.WriteLines(lines...)
	if len(lines) > 0 {
		r.w.WriteBlankLine()
	}
}

func (r *renderer) inUnit(e codedom.Element) bool {
	for ; e != nil; e = e.Parent() {
		if e == r.unit {
			return true
		}
	}
	return false
}

func (r *renderer) Property(p *codedom.Property) error {
	if p.IsOfKind(codedom.PropertyRequestBuilder) {
		return r.requestBuilderProperty(p)
	}
	t := p.Type
	if t != nil && !t.IsNullable() {
		t = t.CloneType()
		t.SetNullable(true)
	}
	ts, err := r.conv.TypeString(t, p)
	if err != nil {
		return err
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		r.w.WriteLine("# " + d)
	}
	r.w.WriteLinef("%s: %s = None", r.conv.FieldName(p), ts)
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
	name := r.conv.TranslateType(scalar)
	c := codedom.ParentClass(p)
	r.w.WriteBlankLine()
	r.w.WriteLine("@property")
	r.w.WriteLinef("def %s(self) -> %s:", r.conv.FieldName(p), name)
	r.w.IncreaseIndent()
	r.writeDocString(p.Description)
	r.localImports(child)
	r.w.WriteLinef("return %s(%s)", name, strings.Join(r.childArgs(c, child, "self."+r.field(c, codedom.PropertyPathParameters)), ", "))
	r.w.DecreaseIndent()
	r.w.WriteBlankLine()
	return nil
}

func (r *renderer) field(c *codedom.Class, kind codedom.PropertyKind) string {
	if p := c.GetPropertyOfKind(kind); p != nil {
		return r.conv.FieldName(p)
	}
	return naming.Snake(kind.String())
}

func (r *renderer) childArgs(c, child *codedom.Class, pathParams string) []string {
	var args []string
	for _, k := range writer.ChildConstructorKinds(child) {
		switch k {
		case codedom.ParameterPathParameters:
			args = append(args, pathParams)
		case codedom.ParameterRequestAdapter:
			args = append(args, "self."+r.field(c, codedom.PropertyRequestAdapter))
		}
	}
	return args
}

func (r *renderer) Method(plan *writer.MethodPlan) error {
	m := plan.Method
	params := append([]*codedom.Parameter(nil), m.Parameters()...)
	sort.SliceStable(params, func(i, j int) bool { return !isOptional(params[i]) && isOptional(params[j]) })
	sigs := make([]string, 0, len(params)+1)
	if !m.IsStatic {
		sigs = append(sigs, "self")
	}
	for _, p := range params {
		s, err := r.conv.ParameterSignature(p, m)
		if err != nil {
			return err
		}
		sigs = append(sigs, s)
	}
	ret := "None"
	if !m.IsOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor) {
		var err error
		if ret, err = r.conv.TypeString(m.ReturnType, m); err != nil {
			return err
		}
	}
	r.w.WriteBlankLine()
	if m.IsStatic {
		r.w.WriteLine("@staticmethod")
	}
	async := ""
	if m.IsAsync {
		async = "async "
	}
	r.w.WriteLinef("%sdef %s(%s) -> %s:", async, r.conv.MethodName(m), strings.Join(sigs, ", "), ret)
	r.w.IncreaseIndent()
	r.writeDocString(writer.Documentation(r.conv, m)...)
	if err := writer.WriteBody(r, plan); err != nil {
		return err
	}
	r.w.DecreaseIndent()
	r.w.WriteBlankLine()
	return nil
}

func isOptional(p *codedom.Parameter) bool { return p.Optional || p.DefaultValue != "" }

func (r *renderer) ident(p *codedom.Parameter) string { return r.conv.IdentifierName(p.Name) }

func (r *renderer) guard(p *codedom.Parameter) {
	if p == nil {
		return
	}
	r.w.WriteBlock("if not "+r.ident(p)+":", "", func() {
		r.w.WriteLinef("raise TypeError(\"%s cannot be null.\")", r.ident(p))
	})
}

// getter and setter return the accessor methods declared for p, if any.
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
		return "self." + r.conv.MethodName(g) + "()"
	}
	return "self." + r.conv.FieldName(p)
}

var ioSuffixes = map[string]string{
	"str":       "str",
	"int":       "int",
	"float":     "float",
	"bool":      "bool",
	"UUID":      "uuid",
	"datetime":  "datetime",
	"date":      "date",
	"time":      "time",
	"timedelta": "timedelta",
	"bytes":     "bytes",
}

func (r *renderer) Serializer(m *writer.MethodPlan, p *writer.SerializerPlan) error {
	w := "writer"
	if p.Writer != nil {
		w = r.ident(p.Writer)
	}
	r.guard(p.Writer)
	if p.CallSuper {
		r.w.WriteLinef("super().%s(%s)", r.conv.MethodName(m.Method), w)
	}
	for _, io := range p.Writes {
		value := r.valueOf(m.Class, io.Property)
		var call string
		switch io.Kind {
		case writer.IOCollectionOfPrimitives:
			call = "write_collection_of_primitive_values"
		case writer.IOCollectionOfObjects:
			call = "write_collection_of_object_values"
		case writer.IOCollectionOfEnums:
			call = "write_collection_of_enum_values"
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
		r.w.WriteLinef("%s.write_additional_data_value(%s)", w, r.valueOf(m.Class, p.AdditionalData))
	}
	return nil
}

func (r *renderer) Deserializer(m *writer.MethodPlan, p *writer.DeserializerPlan) error {
	var defs []codedom.Element
	for _, io := range p.Reads {
		if io.Kind != writer.IOPrimitive && io.Kind != writer.IOCollectionOfPrimitives {
			defs = append(defs, io.Definition)
		}
	}
	r.localImports(defs...)
	r.w.WriteBlock("fields: Dict[str, Callable[[Any], None]] = {", "}", func() {
		for _, io := range p.Reads {
			var read string
			switch io.Kind {
			case writer.IOCollectionOfPrimitives:
				read = "n.get_collection_of_primitive_values(" + io.Scalar + ")"
			case writer.IOCollectionOfObjects:
				read = "n.get_collection_of_object_values(" + io.Scalar + ")"
			case writer.IOCollectionOfEnums:
				read = "n.get_collection_of_enum_values(" + io.Scalar + ")"
			case writer.IOEnum:
				read = "n.get_enum_value(" + io.Scalar + ")"
			case writer.IOObject:
				read = "n.get_object_value(" + io.Scalar + ")"
			default:
				read = "n.get_object_value(" + io.Scalar + ")"
				if s, ok := ioSuffixes[io.Scalar]; ok {
					read = "n.get_" + s + "_value()"
				}
			}
			if set := accessor(m.Class, io.Property, codedom.MethodSetter); set != nil {
				r.w.WriteLinef("%q: lambda n : self.%s(%s),", io.WireName, r.conv.MethodName(set), read)
			} else {
				r.w.WriteLinef("%q: lambda n : setattr(self, '%s', %s),", io.WireName, r.conv.FieldName(io.Property), read)
			}
		}
	})
	if p.MergeSuper {
		r.w.WriteLinef("fields.update(super().%s())", r.conv.MethodName(m.Method))
	}
	r.w.WriteLine("return fields")
	return nil
}

func (r *renderer) RequestGenerator(m *writer.MethodPlan, p *writer.RequestGeneratorPlan) error {
	v := r.conv.TempVarName()
	r.w.WriteLinef("%s = RequestInformation()", v)
	for _, step := range p.Steps {
		switch step {
		case writer.StepUrlTemplate:
			r.w.WriteLinef("%s.url_template = self.%s", v, r.conv.FieldName(p.UrlTemplate))
			r.w.WriteLinef("%s.path_parameters = self.%s", v, r.conv.FieldName(p.PathParameters))
		case writer.StepHttpMethod:
			r.w.WriteLinef("%s.http_method = Method.%s", v, p.HttpMethod)
		case writer.StepHeaders:
			r.w.WriteBlock("if "+r.ident(p.Headers)+":", "", func() {
				r.w.WriteLinef("%s.headers.add_all(%s)", v, r.ident(p.Headers))
			})
		case writer.StepQuery:
			r.w.WriteBlock("if "+r.ident(p.Query)+":", "", func() {
				r.w.WriteLinef("%s.set_query_string_parameters_from_raw_object(%s)", v, r.ident(p.Query))
			})
		case writer.StepBody:
			if p.BodyIsStream {
				r.w.WriteLinef("%s.set_stream_content(%s)", v, r.ident(p.Body))
			} else {
				r.w.WriteLinef("%s.set_content_from_parsable(self.%s, %q, %s)", v, r.conv.FieldName(p.RequestAdapter), p.ContentType, r.ident(p.Body))
			}
		case writer.StepOptions:
			r.w.WriteBlock("if "+r.ident(p.Options)+":", "", func() {
				r.w.WriteLinef("%s.add_request_options(%s)", v, r.ident(p.Options))
			})
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
	if len(args) == 0 {
		r.w.WriteLinef("%s = self.%s()", v, r.conv.MethodName(p.Generator))
	} else {
		r.w.WriteBlock(v+" = self."+r.conv.MethodName(p.Generator)+"(", ")", func() {
			r.w.WriteLine(strings.Join(args, ", "))
		})
	}

	var defs []codedom.Element
	if p.Send == writer.SendObject || p.Send == writer.SendCollection {
		defs = append(defs, p.ReturnDefinition)
	}
	names := make([]string, len(p.ErrorMappings))
	for i, em := range p.ErrorMappings {
		scalar, err := writer.Scalar(em.Type)
		if err != nil {
			return errors.Wrapf(err, "error mapping %q", em.Code)
		}
		names[i] = r.conv.TranslateType(scalar)
		defs = append(defs, scalar.Definition)
	}
	r.localImports(defs...)
	mapping := "None"
	if len(p.ErrorMappings) > 0 {
		mapping = "error_mapping"
		r.w.WriteBlock("error_mapping: Dict[str, ParsableFactory] = {", "}", func() {
			for i, em := range p.ErrorMappings {
				r.w.WriteLinef("%q: %s,", em.Code, names[i])
			}
		})
	}
	adapter := "self." + r.conv.FieldName(p.RequestAdapter)
	r.w.WriteBlock("if not "+adapter+":", "", func() {
		r.w.WriteLine(`raise Exception("Http core is null")`)
	})
	handler := "None"
	if p.ResponseHandler != nil {
		handler = r.ident(p.ResponseHandler)
	}
	await := ""
	if m.Method.IsAsync {
		await = "await "
	}
	switch p.Send {
	case writer.SendVoid:
		r.w.WriteLinef("return %s%s.send_no_response_content_async(%s, %s, %s)", await, adapter, v, handler, mapping)
	case writer.SendStream:
		r.w.WriteLinef("return %s%s.send_primitive_async(%s, \"bytes\", %s, %s)", await, adapter, v, handler, mapping)
	case writer.SendPrimitive:
		r.w.WriteLinef("return %s%s.send_primitive_async(%s, %q, %s, %s)", await, adapter, v, p.ReturnScalar, handler, mapping)
	case writer.SendPrimitiveCollection:
		r.w.WriteLinef("return %s%s.send_collection_of_primitive_async(%s, %s, %s, %s)", await, adapter, v, p.ReturnScalar, handler, mapping)
	case writer.SendCollection:
		r.w.WriteLinef("return %s%s.send_collection_async(%s, %s, %s, %s)", await, adapter, v, p.ReturnScalar, handler, mapping)
	default:
		r.w.WriteLinef("return %s%s.send_async(%s, %s, %s, %s)", await, adapter, v, p.ReturnScalar, handler, mapping)
	}
	return nil
}

func (r *renderer) Accessor(m *writer.MethodPlan, p *writer.AccessorPlan) error {
	key := naming.Snake(p.Property.Name)
	if p.BackingStore == nil {
		if p.Getter {
			r.w.WriteLine("return self." + r.conv.FieldName(p.Property))
		} else {
			r.w.WriteLinef("self.%s = %s", r.conv.FieldName(p.Property), r.ident(p.Value))
		}
		return nil
	}
	store := "self." + r.conv.FieldName(p.BackingStore)
	if !p.Getter {
		r.w.WriteLinef("%s[%q] = %s", store, key, r.ident(p.Value))
		return nil
	}
	if !p.DefaultOnMissing {
		r.w.WriteLinef("return %s.get(%q)", store, key)
		return nil
	}
	ts, err := r.conv.TypeString(m.Method.ReturnType, m.Method)
	if err != nil {
		return err
	}
	r.w.WriteLinef("value: %s = %s.get(%q)", ts, store, key)
	r.w.WriteBlock("if value is None:", "", func() {
		r.w.WriteLine("value = " + p.Property.DefaultValue)
		r.w.WriteLinef("%s[%q] = value", store, key)
	})
	r.w.WriteLine("return value")
	return nil
}

func (r *renderer) Constructor(m *writer.MethodPlan, p *writer.ConstructorPlan) error {
	c := m.Class
	if p.CallSuper {
		r.w.WriteLine("super().__init__()")
	}
	for _, d := range p.Defaults {
		r.w.WriteLinef("self.%s = %s", r.conv.FieldName(d), d.DefaultValue)
	}
	for _, d := range p.ModelDefaults {
		if set := accessor(c, d, codedom.MethodSetter); set != nil {
			r.w.WriteLinef("self.%s(%s)", r.conv.MethodName(set), d.DefaultValue)
		} else {
			r.w.WriteLinef("self.%s = %s", r.conv.FieldName(d), d.DefaultValue)
		}
	}
	pathParams := ""
	if p.PathParametersProperty != nil {
		pathParams = "self." + r.conv.FieldName(p.PathParametersProperty)
		switch {
		case p.PathParameters != nil:
			r.w.WriteLinef("%s = get_path_parameters(%s)", pathParams, r.ident(p.PathParameters))
		case p.PathParametersProperty.DefaultValue != "":
			r.w.WriteLinef("%s = %s", pathParams, p.PathParametersProperty.DefaultValue)
		default:
			r.w.WriteLinef("%s = {}", pathParams)
		}
	}
	for _, a := range p.Assignments {
		if a.Property != nil {
			r.w.WriteLinef("self.%s = %s", r.conv.FieldName(a.Property), r.ident(a.Parameter))
		} else if pathParams != "" {
			r.w.WriteLinef("%s[%q] = %s", pathParams, a.Parameter.WireName(), r.ident(a.Parameter))
		}
	}
	if !p.Client {
		return nil
	}
	for _, s := range p.SerializerModules {
		r.w.WriteLinef("register_default_serializer(%s)", symbolOf(s))
	}
	for _, s := range p.DeserializerModules {
		r.w.WriteLinef("register_default_deserializer(%s)", symbolOf(s))
	}
	if p.RequestAdapter != nil && pathParams != "" {
		r.w.WriteLinef("%s[\"baseurl\"] = %s.base_url", pathParams, r.ident(p.RequestAdapter))
	}
	if p.BackingStore != nil && p.RequestAdapter != nil {
		r.w.WriteLinef("%s.enable_backing_store(%s)", r.ident(p.RequestAdapter), r.ident(p.BackingStore))
	}
	return nil
}

// symbolOf is the last dotted segment of a module qualified symbol.
func symbolOf(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (r *renderer) ChildBuilder(m *writer.MethodPlan, p *writer.ChildBuilderPlan) error {
	const params = "url_tpl_params"
	r.guard(p.ID)
	r.localImports(p.ReturnClass)
	r.w.WriteLinef("%s = get_path_parameters(self.%s)", params, r.conv.FieldName(p.PathParameters))
	if p.ID != nil {
		r.w.WriteLinef("%s[%q] = %s", params, p.PathSegment, r.ident(p.ID))
	}
	for _, a := range p.PathArgs {
		r.w.WriteLinef("%s[%q] = %s", params, a.WireName(), r.ident(a))
	}
	r.w.WriteLinef("return %s(%s)", p.ReturnScalar, strings.Join(r.childArgs(m.Class, p.ReturnClass, params), ", "))
	return nil
}

func (r *renderer) QueryMapper(_ *writer.MethodPlan, p *writer.QueryMapperPlan) error {
	name := r.ident(p.Param)
	r.guard(p.Param)
	for _, qm := range p.Mappings {
		r.w.WriteBlock("if "+name+" == \""+qm.Identifier+"\":", "", func() {
			r.w.WriteLinef("return %q", qm.WireName)
		})
	}
	r.w.WriteLine("return " + name)
	return nil
}

func (r *renderer) Factory(_ *writer.MethodPlan, p *writer.FactoryPlan) error {
	node := r.ident(p.ParseNode)
	r.guard(p.ParseNode)
	if p.PropertyName != "" && len(p.Mappings) > 0 {
		r.w.WriteLinef("mapping_value_node = %s.get_child_node(%q)", node, p.PropertyName)
		r.w.WriteBlock("if mapping_value_node:", "", func() {
			r.w.WriteLine("mapping_value = mapping_value_node.get_str_value()")
			for _, dm := range p.Mappings {
				scalar, err := writer.Scalar(dm.Type)
				if err != nil || scalar.Definition == p.ReturnElement {
					continue
				}
				r.w.WriteBlock("if mapping_value and mapping_value.casefold() == \""+dm.Key+"\".casefold():", "", func() {
					r.localImports(scalar.Definition)
					r.w.WriteLinef("return %s()", r.conv.TranslateType(scalar))
				})
			}
		})
	}
	r.w.WriteLinef("return %s()", p.ReturnScalar)
	return nil
}

func (r *renderer) Trivial(*writer.MethodPlan) error {
	r.w.WriteLine("return None")
	return nil
}

func (r *renderer) Enum(e *codedom.Enum) error {
	r.w.WriteLine("from enum import Enum")
	r.w.WriteBlankLine()
	r.w.WriteLinef("class %s(str, Enum):", naming.UpperFirst(e.Name))
	r.w.IncreaseIndent()
	r.writeDocString(e.Description)
	for _, o := range e.Options() {
		if d := strings.TrimSpace(o.Description); d != "" {
			r.w.WriteLine("# " + d)
		}
		r.w.WriteLinef("%s = %q", naming.UpperFirst(o.Name), o.WireName())
	}
	if len(e.Options()) == 0 {
		r.w.WriteLine("pass")
	}
	r.w.DecreaseIndent()
	return nil
}

package golang

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/writer"
)

// Writer renders one Go file per class, enum and namespace.
type Writer struct {
	conv Conventions
}

var _ writer.Writer = (*Writer)(nil)

// NewWriter returns the Go artifact writer for cfg. The client namespace is
// the package at cfg.ImportPath; nested namespaces are sub-packages.
func NewWriter(cfg *config.GenerationConfiguration) *Writer {
	importPath := cfg.ImportPath
	if importPath == "" {
		importPath = "example.com/" + strings.ToLower(cfg.ClientNamespaceName)
	}
	return &Writer{conv: Conventions{layout: layout{client: cfg.ClientNamespaceName, importPath: importPath}}}
}

// Conventions returns the syntax table the writer renders with.
func (w *Writer) Conventions() Conventions { return w.conv }

func (w *Writer) Units(root *codedom.Namespace) []codedom.Element {
	return writer.Units(root, true)
}

func (w *Writer) Path(e codedom.Element) string { return w.conv.layout.Path(e) }

func (w *Writer) Render(e codedom.Element) (string, error) {
	if e == nil {
		return "", errors.InvalidInputf("cannot write a nil element")
	}
	ns, ok := e.(*codedom.Namespace)
	if !ok {
		ns = codedom.ParentNamespace(e)
	}
	l := w.conv.layout
	f := jen.NewFilePathName(l.pathOf(ns), l.packageOf(ns))
	for p, name := range packageNames {
		f.ImportName(p, name)
	}
	r := &renderer{conv: w.conv, file: f, usings: map[string]string{}, pending: map[*codedom.Class]*classDecl{}}
	if err := writer.Write(r, e); err != nil {
		return "", err
	}
	r.flush()
	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return "", errors.Wrapf(err, "format %s", w.Path(e))
	}
	return buf.String(), nil
}

// classDecl collects the struct fields and the functions of one class until
// the class is complete.
type classDecl struct {
	class *codedom.Class
	// declared is set when the struct itself is written.
	declared bool
	fields   []jen.Code
	funcs    []jen.Code
}

type renderer struct {
	conv Conventions
	file *jen.File
	// usings maps the symbols the artifact imports to their module.
	usings  map[string]string
	decls   []*classDecl
	open    []*classDecl
	pending map[*codedom.Class]*classDecl
	body    []jen.Code
}

func (r *renderer) Conventions() writer.Conventions { return r.conv }

func (r *renderer) resolve(symbol string) *jen.Statement {
	if module, ok := r.usings[symbol]; ok {
		return jen.Qual(module, symbol)
	}
	return runtimeSymbol(symbol)
}

func (r *renderer) typeCode(t codedom.TypeExpr, target codedom.Element) (*jen.Statement, error) {
	return r.conv.typeCode(t, target, r.resolve)
}

func (r *renderer) qual(def codedom.Element, symbol string) *jen.Statement {
	return r.conv.layout.qual(def, symbol)
}

var call = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\(\)$`)

// expr renders a default value. A call of a known runtime function is
// qualified with its package; anything else is emitted as written.
func (r *renderer) expr(raw string) *jen.Statement {
	if m := call.FindStringSubmatch(raw); m != nil {
		if _, imported := r.usings[m[1]]; imported {
			return r.resolve(m[1]).Call()
		}
		if _, known := runtimeSymbols[m[1]]; known {
			return runtimeSymbol(m[1]).Call()
		}
	}
	return jen.Id(raw)
}

// current returns the declaration of c being built, or a detached one when
// a member is written without its class.
func (r *renderer) current(c *codedom.Class) *classDecl {
	if n := len(r.open); n > 0 && r.open[n-1].class == c {
		return r.open[n-1]
	}
	if d, ok := r.pending[c]; ok {
		return d
	}
	d := &classDecl{class: c}
	r.pending[c] = d
	r.decls = append(r.decls, d)
	return d
}

func (r *renderer) Namespace(ns *codedom.Namespace) error {
	name := r.conv.layout.packageOf(ns)
	r.file.PackageComment("Package " + name + " holds the types generated for the " + naming.ModuleName(ns.Name, ".") + " namespace.")
	return nil
}

func (r *renderer) StartClass(c *codedom.Class) error {
	if _, top := c.Parent().(*codedom.Namespace); top {
		external, _ := writer.ArtifactUsings(c)
		for _, u := range external {
			if m := u.Module(); m != "" && !strings.HasPrefix(m, ".") {
				r.usings[u.Name] = m
			}
		}
	}
	d := &classDecl{class: c, declared: true}
	if c.Inherits != nil {
		base, err := r.baseCode(c.Inherits)
		if err != nil {
			return err
		}
		d.fields = append(d.fields, base)
	}
	r.decls = append(r.decls, d)
	r.open = append(r.open, d)
	return nil
}

func (r *renderer) baseCode(t *codedom.Type) (*jen.Statement, error) {
	if t.Definition != nil {
		return r.qual(t.Definition, TypeName(t.Definition)), nil
	}
	if t.Name == "" {
		return nil, errors.Structuref("base type has no name")
	}
	return spell(t.Name, r.resolve), nil
}

// baseField is the name of the embedded base struct of c.
func baseField(c *codedom.Class) string {
	if c.Inherits == nil {
		return ""
	}
	if c.Inherits.Definition != nil {
		return TypeName(c.Inherits.Definition)
	}
	name := c.Inherits.Name
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

func (r *renderer) EndClass(c *codedom.Class) error {
	if n := len(r.open); n > 0 {
		r.open = r.open[:n-1]
	}
	if len(r.open) == 0 {
		r.flush()
	}
	return nil
}

// flush writes the collected declarations in the order their classes were
// started.
func (r *renderer) flush() {
	for _, d := range r.decls {
		name := TypeName(d.class)
		if d.declared {
			if doc := docLine(name, d.class.Description); doc != "" {
				r.file.Comment(doc)
			}
			r.file.Type().Id(name).Struct(d.fields...)
			r.file.Line()
			for _, i := range d.class.Implements {
				r.file.Var().Id("_").Add(r.interfaceCode(i)).Op("=").Parens(jen.Op("*").Id(name)).Call(jen.Nil())
			}
			if len(d.class.Implements) > 0 {
				r.file.Line()
			}
		}
		for _, fn := range d.funcs {
			r.file.Add(fn)
			r.file.Line()
		}
	}
	r.decls = nil
	r.pending = map[*codedom.Class]*classDecl{}
}

func (r *renderer) interfaceCode(t *codedom.Type) *jen.Statement {
	if t.Definition != nil {
		return r.qual(t.Definition, TypeName(t.Definition))
	}
	return spell(naming.TrimInterfacePrefix(t.Name), r.resolve)
}

// docLine starts a doc comment with the documented name.
func docLine(name, description string) string {
	d := strings.TrimSpace(description)
	if d == "" {
		return ""
	}
	return name + " " + naming.LowerFirst(d)
}

func (r *renderer) Property(p *codedom.Property) error {
	c, ok := p.Parent().(*codedom.Class)
	if !ok {
		return errors.Structuref("property %q is not declared on a class", p.Name)
	}
	d := r.current(c)
	if p.IsOfKind(codedom.PropertyRequestBuilder) {
		fn, err := r.builderProperty(c, p)
		if err != nil {
			return err
		}
		d.funcs = append(d.funcs, fn)
		return nil
	}
	if p.Type == nil {
		return errors.UnsupportedTypef("property %q of %q has no type", p.Name, c.Name)
	}
	t, err := r.typeCode(p.Type, p)
	if err != nil {
		return err
	}
	if desc := strings.TrimSpace(p.Description); desc != "" {
		d.fields = append(d.fields, jen.Comment(docLine(FieldName(p), desc)))
	}
	field := jen.Id(FieldName(p)).Add(t)
	if p.IsOfKind(codedom.PropertyQueryParameter) {
		field.Tag(map[string]string{"uriparametername": p.WireName()})
	}
	d.fields = append(d.fields, field)
	return nil
}

// builderProperty turns a request builder property into a method returning
// a new child request builder.
func (r *renderer) builderProperty(c *codedom.Class, p *codedom.Property) (jen.Code, error) {
	child := codedom.Innermost(p.Type)
	if child == nil {
		return nil, errors.UnsupportedTypef("request builder property %q has no type", p.Name)
	}
	target, ok := child.Class()
	if !ok {
		return nil, errors.Structuref("request builder property %q does not designate a class", p.Name)
	}
	pathParams := c.GetPropertyOfKind(codedom.PropertyPathParameters)
	adapter := c.GetPropertyOfKind(codedom.PropertyRequestAdapter)
	if pathParams == nil || adapter == nil {
		return nil, errors.Structuref("class %q has no path parameters or request adapter property", c.Name)
	}
	args := childArgs(target, field(pathParams), field(adapter))
	name := naming.Pascal(p.Name)
	fn := jen.Func().Params(receiver(c)).Id(name).Params().Op("*").Add(r.qual(target, TypeName(target))).Block(
		jen.Return(r.qual(target, "New"+TypeName(target)).Call(args...)),
	)
	if doc := docLine(name, p.Description); doc != "" {
		return jen.Comment(doc).Line().Add(fn), nil
	}
	return fn, nil
}

func childArgs(target *codedom.Class, pathParams, adapter jen.Code) []jen.Code {
	var args []jen.Code
	for _, k := range writer.ChildConstructorKinds(target) {
		switch k {
		case codedom.ParameterPathParameters:
			args = append(args, pathParams)
		case codedom.ParameterRequestAdapter:
			args = append(args, adapter)
		}
	}
	return args
}

func receiver(c *codedom.Class) *jen.Statement {
	return jen.Id("m").Op("*").Id(TypeName(c))
}

func field(p *codedom.Property) *jen.Statement {
	return jen.Id("m").Dot(FieldName(p))
}

func (r *renderer) Method(plan *writer.MethodPlan) error {
	m := plan.Method
	params, err := r.params(plan)
	if err != nil {
		return err
	}
	results, err := r.results(plan)
	if err != nil {
		return err
	}
	r.body = nil
	if err := writer.WriteBody(r, plan); err != nil {
		return err
	}
	name := r.conv.MethodName(m)
	fn := jen.Func()
	if !m.IsStatic && !m.IsOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor) {
		fn.Params(receiver(plan.Class))
	}
	fn.Id(name).Params(params...)
	if results != nil {
		fn.Add(results)
	}
	fn.Block(r.body...)
	r.body = nil

	var decl *jen.Statement
	for i, line := range writer.Documentation(r.conv, m) {
		if i == 0 {
			line = docLine(name, line)
		}
		if decl == nil {
			decl = jen.Comment(line)
		} else {
			decl.Line().Comment(line)
		}
	}
	if decl == nil {
		decl = fn
	} else {
		decl.Line().Add(fn)
	}
	d := r.current(plan.Class)
	d.funcs = append(d.funcs, decl)
	return nil
}

// params renders the parameter list. Request generators and executors take
// a context first.
func (r *renderer) params(plan *writer.MethodPlan) ([]jen.Code, error) {
	m := plan.Method
	var out []jen.Code
	if m.IsOfKind(codedom.MethodRequestGenerator, codedom.MethodRequestExecutor) {
		out = append(out, jen.Id("ctx").Qual("context", "Context"))
	}
	for _, p := range m.Parameters() {
		if p.Type == nil {
			return nil, errors.UnsupportedTypef("parameter %q of %q has no type", p.Name, m.Name)
		}
		t, err := r.typeCode(p.Type, p)
		if err != nil {
			return nil, err
		}
		out = append(out, jen.Id(r.conv.IdentifierName(p.Name)).Add(t))
	}
	return out, nil
}

func (r *renderer) results(plan *writer.MethodPlan) (*jen.Statement, error) {
	m := plan.Method
	switch {
	case plan.Serializer != nil:
		return jen.Error(), nil
	case plan.Deserializer != nil:
		return r.deserializerMap(), nil
	case plan.Generator != nil:
		return jen.Parens(jen.List(jen.Op("*").Add(r.resolve("RequestInformation")), jen.Error())), nil
	case plan.Factory != nil:
		return jen.Parens(jen.List(r.resolve("Parsable"), jen.Error())), nil
	case plan.Constructor != nil:
		return jen.Op("*").Id(TypeName(plan.Class)), nil
	case plan.Executor != nil:
		if plan.Executor.Send == writer.SendVoid {
			return jen.Error(), nil
		}
		t, err := r.typeCode(m.ReturnType, m)
		if err != nil {
			return nil, err
		}
		return jen.Parens(jen.List(t, jen.Error())), nil
	case m.IsOfKind(codedom.MethodSetter), writer.IsVoid(r.conv, m.ReturnType):
		return nil, nil
	default:
		return r.typeCode(m.ReturnType, m)
	}
}

func (r *renderer) deserializerMap() *jen.Statement {
	return jen.Map(jen.String()).Func().Params(r.resolve("ParseNode")).Error()
}

func (r *renderer) add(code ...jen.Code) {
	r.body = append(r.body, code...)
}

func (r *renderer) ident(p *codedom.Parameter) *jen.Statement {
	return jen.Id(r.conv.IdentifierName(p.Name))
}

func newError(msg string) *jen.Statement {
	return jen.Qual("errors", "New").Call(jen.Lit(msg))
}

// check calls fn and returns its error, preceded by results, when it fails.
func check(fn *jen.Statement, results ...jen.Code) *jen.Statement {
	return jen.If(jen.Err().Op(":=").Add(fn), jen.Err().Op("!=").Nil()).Block(
		jen.Return(append(results, jen.Err())...),
	)
}

// failed returns err, preceded by results, when the last call set it.
func failed(results ...jen.Code) *jen.Statement {
	return jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(append(results, jen.Err())...))
}

// Enum is written as a named integer with its wire names.
func (r *renderer) Enum(e *codedom.Enum) error {
	name := TypeName(e)
	f := r.file
	if doc := docLine(name, e.Description); doc != "" {
		f.Comment(doc)
	}
	f.Type().Id(name).Int()
	f.Line()

	options := e.Options()
	consts := make([]jen.Code, 0, len(options))
	wires := make([]jen.Code, 0, len(options))
	cases := make([]jen.Code, 0, len(options)+1)
	for i, o := range options {
		c := name + naming.Pascal(o.Name)
		def := jen.Id(c)
		if i == 0 {
			def.Id(name).Op("=").Iota()
		}
		if d := strings.TrimSpace(o.Description); d != "" {
			consts = append(consts, jen.Comment(docLine(c, d)))
		}
		consts = append(consts, def)
		wires = append(wires, jen.Lit(o.WireName()))
		cases = append(cases, jen.Case(jen.Lit(o.WireName())).Block(jen.Id("result").Op("=").Id(c)))
	}
	cases = append(cases, jen.Default().Block(
		jen.Return(jen.Nil(), jen.Qual("errors", "New").Call(jen.Lit("unknown "+name+" value: ").Op("+").Id("v"))),
	))
	f.Const().Defs(consts...)
	f.Line()

	f.Func().Params(jen.Id("i").Id(name)).Id("String").Params().String().Block(
		jen.Return(jen.Index().String().Values(wires...).Index(jen.Id("i"))),
	)
	f.Line()

	f.Comment("Parse" + name + " reads a " + name + " from its wire name.")
	f.Func().Id("Parse"+name).Params(jen.Id("v").String()).Parens(jen.List(jen.Id("any"), jen.Error())).Block(
		jen.Var().Id("result").Id(name),
		jen.Switch(jen.Id("v")).Block(cases...),
		jen.Return(jen.Op("&").Id("result"), jen.Nil()),
	)
	f.Line()

	f.Comment("Serialize" + name + " spells values by their wire names.")
	f.Func().Id("Serialize"+name).Params(jen.Id("values").Index().Id(name)).Index().String().Block(
		jen.Id("result").Op(":=").Make(jen.Index().String(), jen.Len(jen.Id("values"))),
		jen.For(jen.List(jen.Id("i"), jen.Id("v")).Op(":=").Range().Id("values")).Block(
			jen.Id("result").Index(jen.Id("i")).Op("=").Id("v").Dot("String").Call(),
		),
		jen.Return(jen.Id("result")),
	)
	return nil
}

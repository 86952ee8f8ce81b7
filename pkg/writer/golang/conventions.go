// Package golang writes refined trees as Go packages. Files are assembled
// with jennifer, which also owns imports and formatting.
package golang

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/clientgen/internal/naming"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/refiner"
	"github.com/cmmoran/clientgen/pkg/writer"
)

const (
	abstractionsPath  = refiner.GoAbstractionsModule
	serializationPath = refiner.GoSerializationModule
	storePath         = refiner.GoStoreModule
	jsonPath          = "github.com/microsoft/kiota-serialization-json-go"
	uuidPath          = "github.com/google/uuid"
)

// packageNames are the declared names of the runtime packages whose import
// path does not end in their name.
var packageNames = map[string]string{
	abstractionsPath:  "abstractions",
	serializationPath: "serialization",
	storePath:         "store",
	jsonPath:          "jsonserialization",
	uuidPath:          "uuid",
}

// runtimeSymbols locates the runtime symbols a body refers to by name when
// the class imports none.
var runtimeSymbols = map[string]string{
	"RequestAdapter":              abstractionsPath,
	"RequestInformation":          abstractionsPath,
	"NewRequestInformation":       abstractionsPath,
	"RequestOption":               abstractionsPath,
	"RequestHeaders":              abstractionsPath,
	"ResponseHandler":             abstractionsPath,
	"NewRequestHandlerOption":     abstractionsPath,
	"ErrorMappings":               abstractionsPath,
	"ApiError":                    abstractionsPath,
	"RegisterDefaultSerializer":   abstractionsPath,
	"RegisterDefaultDeserializer": abstractionsPath,
	"Parsable":                    serializationPath,
	"ParsableFactory":             serializationPath,
	"ParseNode":                   serializationPath,
	"ParseNodeFactory":            serializationPath,
	"SerializationWriter":         serializationPath,
	"SerializationWriterFactory":  serializationPath,
	"AdditionalDataHolder":        serializationPath,
	"CollectionCast":              serializationPath,
	"CollectionValueCast":         serializationPath,
	"ISODuration":                 serializationPath,
	"DateOnly":                    serializationPath,
	"TimeOnly":                    serializationPath,
	"BackingStore":                storePath,
	"BackedModel":                 storePath,
	"BackingStoreFactory":         storePath,
	"BackingStoreFactoryInstance": storePath,
	"Time":                        "time",
	"UUID":                        uuidPath,
}

// valueTypes are runtime structs carried by pointer like primitives.
var valueTypes = map[string]struct{}{
	"Time":        {},
	"ISODuration": {},
	"DateOnly":    {},
	"TimeOnly":    {},
	"UUID":        {},
}

var primitives = map[string]string{
	"string":  "string",
	"integer": "int32",
	"int32":   "int32",
	"int":     "int32",
	"int64":   "int64",
	"long":    "int64",
	"boolean": "bool",
	"bool":    "bool",
	"number":  "float64",
	"double":  "float64",
	"decimal": "float64",
	"float":   "float32",
	"float32": "float32",
	"float64": "float64",
	"byte":    "byte",
	"object":  "any",
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Conventions is the Go syntax table. It knows where every namespace of the
// tree lives so generated types can be qualified with their import path.
type Conventions struct {
	layout layout
}

var _ writer.Conventions = Conventions{}

func (Conventions) StreamTypeName() string   { return "[]byte" }
func (Conventions) VoidTypeName() string     { return "" }
func (Conventions) DocCommentStart() string  { return "" }
func (Conventions) DocCommentPrefix() string { return "// " }
func (Conventions) DocCommentEnd() string    { return "" }
func (Conventions) TempVarName() string      { return "requestInfo" }

// AccessModifier names the visibility an identifier spelling encodes.
func (Conventions) AccessModifier(a codedom.AccessModifier) string {
	if a == codedom.Public {
		return "exported"
	}
	return "unexported"
}

func (Conventions) IdentifierName(name string) string {
	return naming.Camel(name)
}

// MethodName is the Go spelling of m. Constructors become New functions and
// static methods package functions carrying the class name.
func (Conventions) MethodName(m *codedom.Method) string {
	class := ""
	if c, ok := m.Parent().(*codedom.Class); ok {
		class = TypeName(c)
	}
	name := naming.Pascal(m.Name)
	switch {
	case m.IsOfKind(codedom.MethodConstructor, codedom.MethodClientConstructor):
		return "New" + class
	case m.IsStatic && strings.HasPrefix(name, "Create"):
		return "Create" + class + strings.TrimPrefix(name, "Create")
	case m.IsStatic:
		return class + name
	case m.Access == codedom.Public:
		return name
	default:
		return naming.LowerFirst(name)
	}
}

// FieldName is the struct field p is stored in. Model data without accessors
// and query parameters are exported; everything else stays in the package.
func FieldName(p *codedom.Property) string {
	if p.Access == codedom.Public && p.IsOfKind(codedom.PropertyCustom, codedom.PropertyAdditionalData, codedom.PropertyQueryParameter) {
		return naming.Pascal(p.Name)
	}
	return naming.Camel(p.Name)
}

// TypeName is the exported name of a generated class or enum.
func TypeName(def codedom.Element) string {
	return naming.UpperFirst(codedom.NameOf(def))
}

func (Conventions) TranslateType(t *codedom.Type) string {
	if t == nil {
		return "any"
	}
	if t.Definition != nil {
		return TypeName(t.Definition)
	}
	if p, ok := primitives[strings.ToLower(t.Name)]; ok {
		return p
	}
	return t.Name
}

func (c Conventions) TypeString(t codedom.TypeExpr, target codedom.Element) (string, error) {
	code, err := c.typeCode(t, target, runtimeSymbol)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%#v", code), nil
}

func (c Conventions) ParameterSignature(p *codedom.Parameter, target codedom.Element) (string, error) {
	if p.Type == nil {
		return "", errors.UnsupportedTypef("parameter %q of %q has no type", p.Name, codedom.NameOf(target))
	}
	t, err := c.TypeString(p.Type, p)
	if err != nil {
		return "", err
	}
	return c.IdentifierName(p.Name) + " " + t, nil
}

// resolver turns a bare runtime symbol into code.
type resolver func(symbol string) *jen.Statement

func runtimeSymbol(symbol string) *jen.Statement {
	if module, ok := runtimeSymbols[symbol]; ok {
		return jen.Qual(module, symbol)
	}
	return jen.Id(symbol)
}

// typeCode renders t as seen from target. Generated classes are always
// referenced by pointer; primitives, enums and runtime value types only where
// the value is optional model data.
func (c Conventions) typeCode(t codedom.TypeExpr, target codedom.Element, resolve resolver) (*jen.Statement, error) {
	collapsed, err := writer.Collapse(t)
	if err != nil {
		return nil, errors.Wrapf(err, "type of %q", codedom.NameOf(target))
	}
	switch v := collapsed.(type) {
	case *codedom.CollectionType:
		elem, err := c.elemCode(v.Elem, resolve)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	case *codedom.Type:
		code := c.scalarCode(v, resolve)
		if byReference(v, target) {
			return jen.Op("*").Add(code), nil
		}
		return code, nil
	default:
		return nil, errors.UnsupportedTypef("unknown type expression %T", t)
	}
}

// elemCode renders a collection element: classes by pointer, everything
// else by value.
func (c Conventions) elemCode(t codedom.TypeExpr, resolve resolver) (*jen.Statement, error) {
	collapsed, err := writer.Collapse(t)
	if err != nil {
		return nil, err
	}
	if inner, ok := collapsed.(*codedom.CollectionType); ok {
		elem, err := c.elemCode(inner.Elem, resolve)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	}
	s := collapsed.(*codedom.Type)
	code := c.scalarCode(s, resolve)
	if _, isClass := s.Class(); isClass {
		return jen.Op("*").Add(code), nil
	}
	return code, nil
}

func (c Conventions) scalarCode(t *codedom.Type, resolve resolver) *jen.Statement {
	if t.Definition != nil {
		return c.layout.qual(t.Definition, TypeName(t.Definition))
	}
	if p, ok := primitives[strings.ToLower(t.Name)]; ok {
		return jen.Id(p)
	}
	return spell(t.Name, resolve)
}

// spell renders a Go type written as text, such as "map[string]any" or
// "*RequestHeaders", resolving the named symbols it ends in.
func spell(name string, resolve resolver) *jen.Statement {
	switch {
	case strings.HasPrefix(name, "*"):
		return jen.Op("*").Add(spell(name[1:], resolve))
	case strings.HasPrefix(name, "[]"):
		return jen.Index().Add(spell(name[2:], resolve))
	case strings.HasPrefix(name, "map["):
		if end := strings.Index(name, "]"); end > 0 {
			return jen.Map(spell(name[4:end], resolve)).Add(spell(name[end+1:], resolve))
		}
	}
	if identifier.MatchString(name) {
		if isBuiltin(name) {
			return jen.Id(name)
		}
		return resolve(name)
	}
	return jen.Id(name)
}

func isBuiltin(name string) bool {
	switch name {
	case "any", "bool", "byte", "error", "rune", "string",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64":
		return true
	}
	return false
}

func byReference(t *codedom.Type, target codedom.Element) bool {
	if _, isClass := t.Class(); isClass {
		return true
	}
	if !optionalData(target) {
		return false
	}
	if _, isEnum := t.Enum(); isEnum {
		return true
	}
	if t.External {
		_, ok := valueTypes[t.Name]
		return ok
	}
	p, ok := primitives[strings.ToLower(t.Name)]
	return ok && p != "any"
}

// optionalData reports whether target holds model data that may be absent:
// properties, their accessors and the responses of request executors.
func optionalData(target codedom.Element) bool {
	switch v := target.(type) {
	case *codedom.Property:
		return !v.IsOfKind(codedom.PropertyUrlTemplate, codedom.PropertyPathParameters, codedom.PropertyRequestAdapter)
	case *codedom.Method:
		return v.IsOfKind(codedom.MethodGetter, codedom.MethodRequestExecutor)
	case *codedom.Parameter:
		return v.IsOfKind(codedom.ParameterSetterValue)
	}
	return false
}

// layout maps namespaces to directories and import paths below the module
// the client namespace is generated into.
type layout struct {
	client     string
	importPath string
}

// PackageName is the package clause of a namespace segment: "ApiSdk" is
// "apisdk".
func PackageName(segment string) string {
	var sb strings.Builder
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	if sb.Len() == 0 {
		return "client"
	}
	return sb.String()
}

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
		segs[i] = PackageName(s)
	}
	return segs
}

func (l layout) pathOf(ns *codedom.Namespace) string {
	return path.Join(append([]string{l.importPath}, l.dirs(ns)...)...)
}

func (l layout) packageOf(ns *codedom.Namespace) string {
	if d := l.dirs(ns); len(d) > 0 {
		return d[len(d)-1]
	}
	segs := strings.Split(l.client, ".")
	return PackageName(segs[len(segs)-1])
}

// qual references symbol in the package declaring def.
func (l layout) qual(def codedom.Element, symbol string) *jen.Statement {
	return jen.Qual(l.pathOf(codedom.ParentNamespace(def)), symbol)
}

// Path is the file of e below the output directory. Namespaces get a doc.go
// holding their package comment.
func (l layout) Path(e codedom.Element) string {
	if ns, ok := e.(*codedom.Namespace); ok {
		return path.Join(append(l.dirs(ns), "doc.go")...)
	}
	return path.Join(append(l.dirs(codedom.ParentNamespace(e)), naming.Snake(codedom.NameOf(e))+".go")...)
}

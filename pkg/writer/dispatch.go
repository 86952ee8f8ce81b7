package writer

import (
	"sort"
	"strings"

	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
)

// ElementRenderer prints the elements of one artifact. It owns its output:
// a LanguageWriter for text targets, a code model for others.
type ElementRenderer interface {
	Conventions() Conventions
	Namespace(ns *codedom.Namespace) error
	StartClass(c *codedom.Class) error
	EndClass(c *codedom.Class) error
	Property(p *codedom.Property) error
	// Method prints the prototype and calls WriteBody for the body.
	Method(plan *MethodPlan) error
	Enum(e *codedom.Enum) error
}

// BodyRenderer prints one method body per plan kind.
type BodyRenderer interface {
	Serializer(m *MethodPlan, p *SerializerPlan) error
	Deserializer(m *MethodPlan, p *DeserializerPlan) error
	RequestGenerator(m *MethodPlan, p *RequestGeneratorPlan) error
	RequestExecutor(m *MethodPlan, p *RequestExecutorPlan) error
	Accessor(m *MethodPlan, p *AccessorPlan) error
	Constructor(m *MethodPlan, p *ConstructorPlan) error
	ChildBuilder(m *MethodPlan, p *ChildBuilderPlan) error
	QueryMapper(m *MethodPlan, p *QueryMapperPlan) error
	Factory(m *MethodPlan, p *FactoryPlan) error
	Trivial(m *MethodPlan) error
}

// Write dispatches e to r. Classes are printed with their properties, their
// methods and then their inner classes. Usings, parameters and enum options
// are printed by their owners and cannot be written alone.
func Write(r ElementRenderer, e codedom.Element) error {
	switch v := e.(type) {
	case nil:
		return errors.InvalidInputf("cannot write a nil element")
	case *codedom.Namespace:
		return r.Namespace(v)
	case *codedom.Class:
		return writeClass(r, v)
	case *codedom.Enum:
		return r.Enum(v)
	case *codedom.Property:
		if _, ok := v.Parent().(*codedom.Class); !ok {
			return errors.Structuref("property %q is not declared on a class", v.Name)
		}
		return r.Property(v)
	case *codedom.Method:
		plan, err := PlanMethod(r.Conventions(), v)
		if err != nil {
			return err
		}
		return r.Method(plan)
	default:
		return errors.Structuref("%T %q is written by its owner", e, codedom.NameOf(e))
	}
}

func writeClass(r ElementRenderer, c *codedom.Class) error {
	// plan every method first so a malformed class fails before any output
	plans := make([]*MethodPlan, 0, len(c.Methods()))
	for _, m := range c.Methods() {
		plan, err := PlanMethod(r.Conventions(), m)
		if err != nil {
			return err
		}
		plans = append(plans, plan)
	}
	if err := r.StartClass(c); err != nil {
		return errors.Wrapf(err, "class %q", c.Name)
	}
	for _, p := range c.Properties() {
		if err := r.Property(p); err != nil {
			return errors.Wrapf(err, "property %q of class %q", p.Name, c.Name)
		}
	}
	for _, plan := range plans {
		if err := r.Method(plan); err != nil {
			return errors.Wrapf(err, "method %q of class %q", plan.Method.Name, c.Name)
		}
	}
	for _, inner := range c.InnerClasses() {
		if err := writeClass(r, inner); err != nil {
			return err
		}
	}
	return r.EndClass(c)
}

// WriteBody dispatches a validated plan to the body renderer of its kind.
func WriteBody(r BodyRenderer, m *MethodPlan) error {
	switch {
	case m.Serializer != nil:
		return r.Serializer(m, m.Serializer)
	case m.Deserializer != nil:
		return r.Deserializer(m, m.Deserializer)
	case m.Generator != nil:
		return r.RequestGenerator(m, m.Generator)
	case m.Executor != nil:
		return r.RequestExecutor(m, m.Executor)
	case m.Accessor != nil:
		return r.Accessor(m, m.Accessor)
	case m.Constructor != nil:
		return r.Constructor(m, m.Constructor)
	case m.ChildBuilder != nil:
		return r.ChildBuilder(m, m.ChildBuilder)
	case m.QueryMapper != nil:
		return r.QueryMapper(m, m.QueryMapper)
	case m.Factory != nil:
		return r.Factory(m, m.Factory)
	default:
		return r.Trivial(m)
	}
}

// Writer turns elements of a refined tree into artifacts.
type Writer interface {
	// Units lists the elements that each get an artifact.
	Units(root *codedom.Namespace) []codedom.Element
	Render(e codedom.Element) (string, error)
	// Path is the slash separated, output relative path of e's artifact.
	Path(e codedom.Element) string
}

// TextWriter renders through a LanguageWriter.
type TextWriter struct {
	Indent      string
	NewRenderer func(w *LanguageWriter) ElementRenderer
	PathFunc    func(e codedom.Element) string
	// Namespaces selects whether namespaces get an artifact of their own.
	Namespaces bool
}

var _ Writer = (*TextWriter)(nil)

func (t *TextWriter) Units(root *codedom.Namespace) []codedom.Element {
	return Units(root, t.Namespaces)
}

func (t *TextWriter) Render(e codedom.Element) (string, error) {
	w := NewLanguageWriter(t.Indent)
	if err := Write(t.NewRenderer(w), e); err != nil {
		return "", err
	}
	return w.String(), nil
}

func (t *TextWriter) Path(e codedom.Element) string { return t.PathFunc(e) }

// Units collects the top-level classes and enums under root, and the
// non-root namespaces when withNamespaces is set. Inner classes are printed
// by their outer class.
func Units(root *codedom.Namespace, withNamespaces bool) []codedom.Element {
	var out []codedom.Element
	_ = codedom.Walk(root, func(e codedom.Element) error {
		switch v := e.(type) {
		case *codedom.Namespace:
			if withNamespaces && !v.IsRoot() {
				out = append(out, v)
			}
		case *codedom.Class:
			if _, inner := v.Parent().(*codedom.Class); !inner {
				out = append(out, v)
			}
			return codedom.SkipChildren
		case *codedom.Enum:
			out = append(out, v)
			return codedom.SkipChildren
		}
		return nil
	})
	return out
}

// RelativeImport locates to from from: how many namespace levels to climb
// and which segments to descend through afterwards.
func RelativeImport(from, to *codedom.Namespace) (ups int, downs []string) {
	a, b := from.Segments(), to.Segments()
	common := 0
	for common < len(a) && common < len(b) && a[common] == b[common] {
		common++
	}
	return len(a) - common, append([]string(nil), b[common:]...)
}

// ArtifactUsings collects the usings of c and of its inner classes,
// de-duplicated. External usings come first, sorted by module then symbol;
// usings of elements printed in the same artifact are dropped.
func ArtifactUsings(c *codedom.Class) (external, internal []*codedom.Using) {
	seen := map[string]struct{}{}
	var collect func(k *codedom.Class)
	collect = func(k *codedom.Class) {
		for _, u := range k.Usings() {
			key := u.Module() + "\x00" + u.Name + "\x00" + u.Alias
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			switch {
			case u.IsExternal():
				external = append(external, u)
			case u.Declaration != nil && u.Declaration.Definition != nil && !within(u.Declaration.Definition, c):
				internal = append(internal, u)
			}
		}
		for _, inner := range k.InnerClasses() {
			collect(inner)
		}
	}
	collect(c)
	byModule := func(us []*codedom.Using) {
		sort.SliceStable(us, func(i, j int) bool {
			if us[i].Module() != us[j].Module() {
				return us[i].Module() < us[j].Module()
			}
			return strings.Compare(us[i].Name, us[j].Name) < 0
		})
	}
	byModule(external)
	byModule(internal)
	return external, internal
}

func within(e, ancestor codedom.Element) bool {
	for ; e != nil; e = e.Parent() {
		if e == ancestor {
			return true
		}
	}
	return false
}

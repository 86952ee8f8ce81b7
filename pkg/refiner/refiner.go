// Package refiner rewrites a code tree in place until it is legal and
// idiomatic for one target language.
//
// A refiner is an ordered list of passes. Passes run sequentially over the
// whole tree and later passes rely on what earlier ones established, so a
// pass is never run on its own outside of tests.
package refiner

import (
	"go.uber.org/zap"

	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/logging"
)

// Refiner prepares a tree for one target language.
type Refiner interface {
	Refine(root *codedom.Namespace) error
}

// Pass is one named full-tree rewrite.
type Pass struct {
	Name  string
	Apply func(root *codedom.Namespace) error
}

// Pipeline runs its passes in order. It holds no state between calls, so a
// pipeline may refine several distinct trees concurrently.
type Pipeline struct {
	language string
	passes   []Pass
	logger   *zap.Logger
}

type PipelineOption func(*Pipeline)

// WithLogger overrides the global logger.
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

func NewPipeline(language string, passes []Pass, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{language: language, passes: passes}
	for _, fn := range opts {
		fn(p)
	}
	return p
}

func (p *Pipeline) Language() string { return p.language }

// Passes returns the pass names in execution order.
func (p *Pipeline) Passes() []string {
	out := make([]string, 0, len(p.passes))
	for _, pass := range p.passes {
		out = append(out, pass.Name)
	}
	return out
}

// Refine runs every pass over root. The first failing pass aborts the run.
func (p *Pipeline) Refine(root *codedom.Namespace) error {
	if root == nil {
		return errors.InvalidInputf("cannot refine a nil tree")
	}
	l := p.logger
	if l == nil {
		l = logging.Logger
	}
	l = l.With(zap.String("language", p.language))
	for i, pass := range p.passes {
		l.Debug("refiner pass", zap.Int("step", i+1), zap.String("pass", pass.Name))
		if err := pass.Apply(root); err != nil {
			return errors.Wrapf(err, "%s refiner: pass %s", p.language, pass.Name)
		}
		if ce := l.Check(logging.TraceLevel, "tree after pass"); ce != nil {
			ce.Write(zap.String("pass", pass.Name), zap.String("tree", codedom.Dump(root)))
		}
	}
	return nil
}

// walkClasses calls fn for every class, inner classes included.
func walkClasses(root codedom.Element, fn func(c *codedom.Class) error) error {
	return codedom.Walk(root, func(e codedom.Element) error {
		if c, ok := e.(*codedom.Class); ok {
			return fn(c)
		}
		return nil
	})
}

// walkMethods calls fn for every method.
func walkMethods(root codedom.Element, fn func(m *codedom.Method) error) error {
	return codedom.Walk(root, func(e codedom.Element) error {
		if m, ok := e.(*codedom.Method); ok {
			return fn(m)
		}
		return nil
	})
}

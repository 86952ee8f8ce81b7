// Package parser reads YAML API descriptions and builds the language-neutral
// code tree from them.
package parser

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/clientgen/internal/model"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/logging"
)

// Parser holds the settings of a parse and build run.
type Parser struct {
	log         *zap.Logger
	concurrency int
}

type Option func(*Parser)

func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithConcurrency bounds the workers registering discriminator mappings.
func WithConcurrency(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{log: logging.Named("parser"), concurrency: 4}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ParseFile reads the description at path.
func (p *Parser) ParseFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read description %s", path)
	}
	doc, err := p.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse description %s", path)
	}
	return doc, nil
}

// Parse decodes a description. Unknown keys are rejected.
func (p *Parser) Parse(data []byte) (*model.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc model.Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.InvalidInputf("description is empty")
		}
		return nil, errors.Mark(errors.Wrap(err, "decode description"), errors.ErrInvalidInput)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	p.log.Debug("parsed description", zap.String("title", doc.Title), zap.Int("namespaces", len(doc.Namespaces)))
	return &doc, nil
}

// Load returns a build function reading the description at path on every
// call. It fits generate.BuildFunc.
func Load(path string, opts ...Option) func(context.Context, *config.GenerationConfiguration) (*codedom.Namespace, error) {
	return func(ctx context.Context, cfg *config.GenerationConfiguration) (*codedom.Namespace, error) {
		p := New(opts...)
		doc, err := p.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return p.Build(ctx, doc, cfg)
	}
}

func validate(doc *model.Document) error {
	seen := map[string]struct{}{}
	for _, ns := range doc.Namespaces {
		if _, ok := seen[ns.Name]; ok {
			return errors.InvalidInputf("namespace %q is described twice", ns.Name)
		}
		seen[ns.Name] = struct{}{}
		for _, m := range ns.Models {
			if strings.TrimSpace(m.Name) == "" {
				return errors.InvalidInputf("namespace %q has a model without a name", ns.Name)
			}
			for _, prop := range m.Properties {
				if prop.Name == "" || prop.Type == "" {
					return errors.InvalidInputf("model %q has a property without a name or type", m.Name)
				}
			}
			if m.Discriminator != nil && m.Discriminator.Property == "" {
				return errors.InvalidInputf("discriminator of model %q names no property", m.Name)
			}
		}
		for _, e := range ns.Enums {
			if strings.TrimSpace(e.Name) == "" {
				return errors.InvalidInputf("namespace %q has an enum without a name", ns.Name)
			}
		}
		for _, b := range ns.Builders {
			if strings.TrimSpace(b.Name) == "" {
				return errors.InvalidInputf("namespace %q has a builder without a name", ns.Name)
			}
			if b.URLTemplate == "" {
				return errors.InvalidInputf("builder %q has no url template", b.Name)
			}
			if b.Indexer != nil && (b.Indexer.Builder == "" || b.Indexer.Segment == "") {
				return errors.InvalidInputf("indexer of builder %q needs a builder and a segment", b.Name)
			}
			verbs := map[string]struct{}{}
			for _, op := range b.Operations {
				verb := strings.ToUpper(op.Method)
				if _, ok := verbs[verb]; ok {
					return errors.InvalidInputf("builder %q describes %s twice", b.Name, verb)
				}
				verbs[verb] = struct{}{}
			}
		}
	}
	return nil
}

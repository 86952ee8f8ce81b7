// Package generate runs a whole generation: it builds a tree for every
// target, refines it and renders each unit into an artifact.
package generate

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/language"
	"github.com/cmmoran/clientgen/pkg/logging"
	"github.com/cmmoran/clientgen/pkg/refiner"
)

// BuildFunc produces a fresh tree for cfg. It is called once per target so
// that no two languages ever refine the same tree.
type BuildFunc func(ctx context.Context, cfg *config.GenerationConfiguration) (*codedom.Namespace, error)

// Kind tells what an artifact was rendered from.
type Kind string

const (
	KindClass     Kind = "class"
	KindEnum      Kind = "enum"
	KindNamespace Kind = "namespace"
)

// Artifact is the rendered output of one unit of the tree.
type Artifact struct {
	Language  string
	Namespace string
	Name      string
	Kind      Kind
	// Path is relative to the output directory, slash separated.
	Path    string
	Content string
}

type options struct {
	logger      *zap.Logger
	concurrency int
}

type Option func(*options)

// WithLogger overrides the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConcurrency bounds how many artifacts render at once. Values below one
// select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

func newOptions(opts []Option) options {
	o := options{logger: logging.Named("generate"), concurrency: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		fn(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	return o
}

// Run generates the artifacts of cfg.Language. The configuration is
// normalized on a copy. Any failure aborts the run and no artifact is
// returned.
func Run(ctx context.Context, cfg *config.GenerationConfiguration, build BuildFunc, opts ...Option) ([]Artifact, error) {
	if cfg == nil {
		return nil, errors.InvalidInputf("a generation configuration is required")
	}
	if build == nil {
		return nil, errors.InvalidInputf("a tree builder is required")
	}
	o := newOptions(opts)
	cfg = cfg.Clone()
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	lang, err := language.Parse(cfg.Language)
	if err != nil {
		return nil, err
	}
	target, err := language.Lookup(lang)
	if err != nil {
		return nil, err
	}
	log := o.logger.With(zap.Stringer("language", lang))

	root, err := build(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "build tree")
	}
	if root == nil {
		return nil, errors.InvalidInputf("tree builder returned no tree")
	}
	if err := target.NewRefiner(cfg, refiner.WithLogger(o.logger)).Refine(root); err != nil {
		return nil, errors.Wrapf(err, "refine %s", lang)
	}

	w := target.NewWriter(cfg)
	units := w.Units(root)
	out := make([]Artifact, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := w.Render(u)
			if err != nil {
				return errors.Wrapf(err, "render %s", w.Path(u))
			}
			out[i] = newArtifact(lang, u, w.Path(u), content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	Sort(out)
	log.Info("generated", zap.Int("artifacts", len(out)))
	return out, nil
}

// RunAll generates every language concurrently, each from its own tree.
func RunAll(ctx context.Context, cfg *config.GenerationConfiguration, build BuildFunc, langs []language.Language, opts ...Option) ([]Artifact, error) {
	if cfg == nil {
		return nil, errors.InvalidInputf("a generation configuration is required")
	}
	results := make([][]Artifact, len(langs))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range langs {
		c := cfg.Clone()
		c.Language = l.String()
		g.Go(func() error {
			a, err := Run(gctx, c, build, opts...)
			results[i] = a
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []Artifact
	for _, r := range results {
		out = append(out, r...)
	}
	Sort(out)
	return out, nil
}

func newArtifact(lang language.Language, e codedom.Element, path, content string) Artifact {
	a := Artifact{Language: lang.String(), Name: codedom.NameOf(e), Path: path, Content: content}
	switch v := e.(type) {
	case *codedom.Namespace:
		a.Kind = KindNamespace
		a.Namespace = v.Name
	case *codedom.Enum:
		a.Kind = KindEnum
	default:
		a.Kind = KindClass
	}
	if a.Namespace == "" {
		if ns := codedom.ParentNamespace(e); ns != nil {
			a.Namespace = ns.Name
		}
	}
	return a
}

// Sort orders artifacts by language, then path.
func Sort(artifacts []Artifact) {
	sort.SliceStable(artifacts, func(i, j int) bool {
		if artifacts[i].Language != artifacts[j].Language {
			return artifacts[i].Language < artifacts[j].Language
		}
		return artifacts[i].Path < artifacts[j].Path
	})
}

// WriteFiles writes each artifact below dir. Artifacts of several languages
// are separated by a directory per language.
func WriteFiles(dir string, artifacts []Artifact) error {
	multi := len(languages(artifacts)) > 1
	for _, a := range artifacts {
		p := filepath.Join(dir, filepath.FromSlash(a.Path))
		if multi {
			p = filepath.Join(dir, a.Language, filepath.FromSlash(a.Path))
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return errors.Wrapf(err, "create directory for %s", a.Path)
		}
		if err := os.WriteFile(p, []byte(a.Content), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", a.Path)
		}
	}
	return nil
}

func languages(artifacts []Artifact) map[string]struct{} {
	out := map[string]struct{}{}
	for _, a := range artifacts {
		out[a.Language] = struct{}{}
	}
	return out
}

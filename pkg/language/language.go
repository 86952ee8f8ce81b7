// Package language enumerates the target languages and wires each one to
// its refiner and writer.
package language

import (
	"strings"

	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/refiner"
	"github.com/cmmoran/clientgen/pkg/writer"
	"github.com/cmmoran/clientgen/pkg/writer/golang"
	"github.com/cmmoran/clientgen/pkg/writer/python"
	"github.com/cmmoran/clientgen/pkg/writer/ruby"
)

// Language is a supported generation target.
type Language int

const (
	Python Language = iota
	Ruby
	Go
)

var names = [...]string{
	Python: "python",
	Ruby:   "ruby",
	Go:     "go",
}

func (l Language) String() string {
	if l < 0 || int(l) >= len(names) {
		return "unknown"
	}
	return names[l]
}

// All returns every language in declaration order.
func All() []Language {
	return []Language{Python, Ruby, Go}
}

// Parse reads a language name case-insensitively. "golang" is accepted for Go.
func Parse(s string) (Language, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "golang" {
		n = "go"
	}
	for i, name := range names {
		if n == name {
			return Language(i), nil
		}
	}
	return 0, errors.InvalidInputf("unsupported language %q, expected one of %s", s, strings.Join(names[:], ", "))
}

// Target bundles what is needed to turn a built tree into artifacts for one
// language. Refiners and writers are built per configuration.
type Target struct {
	Language    Language
	Conventions writer.Conventions
	NewRefiner  func(cfg *config.GenerationConfiguration, opts ...refiner.PipelineOption) refiner.Refiner
	NewWriter   func(cfg *config.GenerationConfiguration) writer.Writer
}

var targets = map[Language]Target{
	Python: {
		Language:    Python,
		Conventions: python.Conventions{},
		NewRefiner: func(cfg *config.GenerationConfiguration, opts ...refiner.PipelineOption) refiner.Refiner {
			return refiner.NewPython(cfg, refiner.DefaultPythonSettings(), opts...)
		},
		NewWriter: func(*config.GenerationConfiguration) writer.Writer { return python.NewWriter() },
	},
	Ruby: {
		Language:    Ruby,
		Conventions: ruby.Conventions{},
		NewRefiner: func(cfg *config.GenerationConfiguration, opts ...refiner.PipelineOption) refiner.Refiner {
			return refiner.NewRuby(cfg, refiner.DefaultRubySettings(), opts...)
		},
		NewWriter: func(cfg *config.GenerationConfiguration) writer.Writer { return ruby.NewWriter(cfg.ClientNamespaceName) },
	},
	Go: {
		Language:    Go,
		Conventions: golang.Conventions{},
		NewRefiner: func(cfg *config.GenerationConfiguration, opts ...refiner.PipelineOption) refiner.Refiner {
			return refiner.NewGo(cfg, refiner.DefaultGoSettings(), opts...)
		},
		NewWriter: func(cfg *config.GenerationConfiguration) writer.Writer { return golang.NewWriter(cfg) },
	},
}

// Lookup returns the target of l.
func Lookup(l Language) (Target, error) {
	t, ok := targets[l]
	if !ok {
		return Target{}, errors.InvalidInputf("unsupported language %d", int(l))
	}
	return t, nil
}

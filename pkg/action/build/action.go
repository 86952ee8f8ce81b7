// Package build generates clients from an API description and writes them out.
package build

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cmmoran/clientgen/internal/parser"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/generate"
	"github.com/cmmoran/clientgen/pkg/language"
	"github.com/cmmoran/clientgen/pkg/logging"
)

// BundleFile is the name of the bundle written when cfg.Bundle is set.
const BundleFile = "clients.txtar"

// Result describes what Generate wrote.
type Result struct {
	Artifacts []generate.Artifact
	// Bundle is the path of the bundle, empty when files were written.
	Bundle string
}

// Artifacts generates every artifact of cfg.DescriptionPath. Without langs
// the configured language is generated.
func Artifacts(ctx context.Context, cfg *config.GenerationConfiguration, langs []language.Language, l *zap.Logger) ([]generate.Artifact, error) {
	if cfg == nil {
		return nil, errors.InvalidInputf("no generation configuration")
	}
	if cfg.DescriptionPath == "" {
		return nil, errors.WithHint(errors.InvalidInputf("no API description given"), "set description_path or pass --description")
	}
	if l == nil {
		l = logging.Named("build")
	}
	load := parser.Load(cfg.DescriptionPath, parser.WithLogger(l.Named("parser")))
	if len(langs) == 0 {
		return generate.Run(ctx, cfg, load, generate.WithLogger(l))
	}
	return generate.RunAll(ctx, cfg, load, langs, generate.WithLogger(l))
}

// Generate runs Artifacts and writes the result below cfg.OutputPath, either
// as files or as one txtar bundle.
func Generate(ctx context.Context, cfg *config.GenerationConfiguration, langs []language.Language, l *zap.Logger) (*Result, error) {
	if l == nil {
		l = logging.Named("build")
	}
	artifacts, err := Artifacts(ctx, cfg, langs, l)
	if err != nil {
		return nil, err
	}
	out := cfg.OutputPath
	if out == "" {
		out = config.DefaultOutputPath
	}
	res := &Result{Artifacts: artifacts}
	if cfg.Bundle {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return nil, errors.Wrap(err, "create output directory")
		}
		res.Bundle = filepath.Join(out, BundleFile)
		if err := os.WriteFile(res.Bundle, generate.Bundle(artifacts), 0o644); err != nil {
			return nil, errors.Wrap(err, "write bundle")
		}
		l.Info("wrote bundle", zap.String("path", res.Bundle), zap.Int("artifacts", len(artifacts)))
		return res, nil
	}
	if err := generate.WriteFiles(out, artifacts); err != nil {
		return nil, err
	}
	l.Info("wrote artifacts", zap.String("dir", out), zap.Int("artifacts", len(artifacts)))
	return res, nil
}

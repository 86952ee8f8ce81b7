package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/pkg/action/initialize"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/generate"
	"github.com/cmmoran/clientgen/pkg/language"
)

func starter(t *testing.T, opts ...config.Option) *config.GenerationConfiguration {
	t.Helper()
	dir := t.TempDir()
	_, err := initialize.Scaffold(dir, false)
	require.NoError(t, err)
	base := []config.Option{
		config.WithClientNamespace("PetStore"),
		config.WithClientClassName("PetStoreClient"),
		config.WithDescriptionPath(filepath.Join(dir, "api.yaml")),
		config.WithOutputPath(filepath.Join(dir, "out")),
	}
	return config.New(append(base, opts...)...)
}

func TestGenerateWritesFiles(t *testing.T) {
	cfg := starter(t, config.WithLanguage("ruby"))
	res, err := Generate(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Bundle)
	require.NotEmpty(t, res.Artifacts)
	for _, a := range res.Artifacts {
		assert.FileExists(t, filepath.Join(cfg.OutputPath, filepath.FromSlash(a.Path)))
	}
	assert.FileExists(t, filepath.Join(cfg.OutputPath, "pet_store_client.rb"))
}

func TestGenerateEveryLanguage(t *testing.T) {
	cfg := starter(t)
	res, err := Generate(context.Background(), cfg, language.All(), nil)
	require.NoError(t, err)
	for _, l := range language.All() {
		assert.DirExists(t, filepath.Join(cfg.OutputPath, l.String()))
	}
	assert.FileExists(t, filepath.Join(cfg.OutputPath, "go", "pet_store_client.go"))
	assert.NotEmpty(t, res.Artifacts)
}

func TestGenerateBundle(t *testing.T) {
	cfg := starter(t, config.WithLanguage("python"), config.WithBundle())
	res, err := Generate(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.OutputPath, BundleFile), res.Bundle)

	data, err := os.ReadFile(res.Bundle)
	require.NoError(t, err)
	back, err := generate.Unbundle(data)
	require.NoError(t, err)
	assert.Len(t, back, len(res.Artifacts))
}

func TestArtifactsNeedsDescription(t *testing.T) {
	_, err := Artifacts(context.Background(), config.New(config.WithLanguage("go")), nil, nil)
	assert.True(t, errors.IsInvalidInput(err))

	_, err = Artifacts(context.Background(), nil, nil, nil)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestArtifactsReportsMissingFile(t *testing.T) {
	cfg := config.New(config.WithLanguage("go"), config.WithDescriptionPath(filepath.Join(t.TempDir(), "missing.yaml")))
	_, err := Artifacts(context.Background(), cfg, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

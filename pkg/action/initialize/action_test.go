package initialize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/internal/parser"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
)

func TestScaffold(t *testing.T) {
	dir := t.TempDir()
	paths, err := Scaffold(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "clientgen.yaml"), filepath.Join(dir, "api.yaml")}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestScaffoldKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "clientgen.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("language: ruby\n"), 0o644))

	_, err := Scaffold(dir, false)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "language: ruby\n", string(data))

	_, err = Scaffold(dir, true)
	require.NoError(t, err)
	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "client_class_name: PetStoreClient")
}

func TestStarterDescriptionBuilds(t *testing.T) {
	dir := t.TempDir()
	_, err := Scaffold(dir, false)
	require.NoError(t, err)
	root, err := parser.Load(filepath.Join(dir, "api.yaml"))(context.Background(), config.New(config.WithClientNamespace("PetStore")))
	require.NoError(t, err)
	assert.NotNil(t, root.ResolveType("PetStore.pets.item.petItemRequestBuilder"))
}

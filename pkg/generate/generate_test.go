package generate

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/internal/sample"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/language"
)

func buildSample(_ context.Context, cfg *config.GenerationConfiguration) (*codedom.Namespace, error) {
	return sample.New(cfg).Root, nil
}

func TestRun(ttt *testing.T) {
	cases := []struct {
		language string
		want     []string
	}{
		{"python", []string{"api_sdk/api_client.py", "api_sdk/models/user.py", "api_sdk/users/item/user_item_request_builder.py"}},
		{"ruby", []string{"api_client.rb", "models/user.rb", "users/item/user_item_request_builder.rb"}},
		{"go", []string{"api_client.go", "models/user.go", "users/item/user_item_request_builder.go"}},
	}
	for _, tc := range cases {
		ttt.Run(tc.language, func(t *testing.T) {
			t.Parallel()
			artifacts, err := Run(context.Background(), config.New(config.WithLanguage(tc.language)), buildSample, WithConcurrency(2))
			require.NoError(t, err)

			paths := make([]string, 0, len(artifacts))
			for _, a := range artifacts {
				assert.Equal(t, tc.language, a.Language)
				paths = append(paths, a.Path)
			}
			assert.True(t, sort.StringsAreSorted(paths), paths)
			for _, p := range tc.want {
				assert.Contains(t, paths, p)
			}
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := config.New(config.WithLanguage("go"))
	first, err := Run(context.Background(), cfg, buildSample)
	require.NoError(t, err)
	second, err := Run(context.Background(), cfg, buildSample, WithConcurrency(1))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestRunDescribesArtifacts(t *testing.T) {
	artifacts, err := Run(context.Background(), config.New(config.WithLanguage("ruby")), buildSample)
	require.NoError(t, err)

	byPath := map[string]Artifact{}
	for _, a := range artifacts {
		byPath[a.Path] = a
	}
	user := byPath["models/user.rb"]
	assert.Equal(t, KindClass, user.Kind)
	assert.Equal(t, "user", user.Name)
	assert.Equal(t, "ApiSdk.models", user.Namespace)
	assert.Equal(t, KindEnum, byPath["models/account_type.rb"].Kind)
	assert.Equal(t, KindNamespace, byPath["models.rb"].Kind)
}

func TestRunFailsWithoutArtifacts(ttt *testing.T) {
	broken := func(_ context.Context, cfg *config.GenerationConfiguration) (*codedom.Namespace, error) {
		tree := sample.New(cfg)
		tree.GetGenerator.HttpMethod = codedom.HTTPUnset
		return tree.Root, nil
	}
	cases := []struct {
		name  string
		cfg   *config.GenerationConfiguration
		build BuildFunc
		kind  error
	}{
		{"no configuration", nil, buildSample, errors.ErrInvalidInput},
		{"no builder", config.New(config.WithLanguage("go")), nil, errors.ErrInvalidInput},
		{"no language", config.New(), buildSample, errors.ErrInvalidInput},
		{"unknown language", config.New(config.WithLanguage("cobol")), buildSample, errors.ErrInvalidInput},
		{"generator without verb", config.New(config.WithLanguage("python")), broken, errors.ErrStructure},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			artifacts, err := Run(context.Background(), tc.cfg, tc.build)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), err.Error())
			assert.Nil(t, artifacts)
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, config.New(config.WithLanguage("python")), buildSample)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	artifacts, err := RunAll(context.Background(), config.New(), buildSample, language.All())
	require.NoError(t, err)
	seen := languages(artifacts)
	assert.Len(t, seen, 3)
	assert.Equal(t, "go", artifacts[0].Language)
}

func TestBundleRoundTrip(t *testing.T) {
	artifacts := []Artifact{
		{Language: "ruby", Path: "models/user.rb", Content: "class User\nend\n"},
		{Language: "python", Path: "api_sdk/__init__.py", Content: ""},
		{Language: "python", Path: "api_sdk/api_client.py", Content: "class ApiClient:\n    pass"},
	}
	data := Bundle(artifacts)
	assert.True(t, strings.HasPrefix(string(data), "clientgen bundle: 3 artifacts\n"), string(data))
	assert.Contains(t, string(data), "-- python/api_sdk/api_client.py --\nclass ApiClient:\n    pass\n")

	back, err := Unbundle(data)
	require.NoError(t, err)
	want := []Artifact{
		{Language: "python", Path: "api_sdk/__init__.py", Content: ""},
		{Language: "python", Path: "api_sdk/api_client.py", Content: "class ApiClient:\n    pass\n"},
		{Language: "ruby", Path: "models/user.rb", Content: "class User\nend\n"},
	}
	if diff := cmp.Diff(want, back); diff != "" {
		t.Errorf("unbundle mismatch (-want +got):\n%s", diff)
	}
}

func TestUnbundleRejectsBareNames(t *testing.T) {
	_, err := Unbundle([]byte("-- user.rb --\nclass User\n"))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFiles(dir, []Artifact{
		{Language: "go", Path: "models/user.go", Content: "package models\n"},
	}))
	data, err := os.ReadFile(filepath.Join(dir, "models", "user.go"))
	require.NoError(t, err)
	assert.Equal(t, "package models\n", string(data))

	multi := t.TempDir()
	require.NoError(t, WriteFiles(multi, []Artifact{
		{Language: "go", Path: "doc.go", Content: "package apisdk\n"},
		{Language: "ruby", Path: "api_sdk.rb", Content: "module ApiSdk\nend\n"},
	}))
	assert.FileExists(t, filepath.Join(multi, "go", "doc.go"))
	assert.FileExists(t, filepath.Join(multi, "ruby", "api_sdk.rb"))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/pkg/errors"
)

func TestNormalize(ttt *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		check   func(t *testing.T, c *GenerationConfiguration)
		wantErr bool
	}{
		{
			name: "defaults",
			opts: []Option{WithLanguage("Python")},
			check: func(t *testing.T, c *GenerationConfiguration) {
				assert.Equal(t, "python", c.Language)
				assert.Equal(t, DefaultClientClass, c.ClientClassName)
				assert.Equal(t, DefaultNamespace, c.ClientNamespaceName)
				assert.Equal(t, []string{DefaultSerializer}, c.Serializers)
				assert.Equal(t, []string{DefaultDeserializer}, c.Deserializers)
				assert.False(t, c.UsesBackingStore)
			},
		},
		{
			name: "backing store and custom namespace",
			opts: []Option{WithLanguage("ruby"), WithBackingStore(), WithClientNamespace("Graph")},
			check: func(t *testing.T, c *GenerationConfiguration) {
				assert.True(t, c.UsesBackingStore)
				assert.Equal(t, "Graph", c.ClientNamespaceName)
			},
		},
		{
			name: "empty serializer list gets defaults",
			opts: []Option{WithLanguage("ruby"), WithSerializers()},
			check: func(t *testing.T, c *GenerationConfiguration) {
				assert.Equal(t, []string{DefaultSerializer}, c.Serializers)
			},
		},
		{
			name: "go import path",
			opts: []Option{WithLanguage("golang"), WithImportPath("github.com/acme/sdk")},
			check: func(t *testing.T, c *GenerationConfiguration) {
				assert.Equal(t, "go", c.Language)
				assert.Equal(t, "github.com/acme/sdk", c.ImportPath)
			},
		},
		{
			name: "go import path defaults from namespace",
			opts: []Option{WithLanguage("go")},
			check: func(t *testing.T, c *GenerationConfiguration) {
				assert.Equal(t, "example.com/apisdk", c.ImportPath)
			},
		},
		{
			name:    "go rejects invalid import path",
			opts:    []Option{WithLanguage("go"), WithImportPath("not a path")},
			wantErr: true,
		},
		{
			name:    "missing language",
			opts:    nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(tt.opts...)
			err := c.Normalize()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestClone(t *testing.T) {
	c := New(WithLanguage("python"))
	cp := c.Clone()
	cp.Serializers[0] = "other"
	assert.Equal(t, DefaultSerializer, c.Serializers[0])
}

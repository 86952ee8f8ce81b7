package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/internal/sample"
	"github.com/cmmoran/clientgen/pkg/codedom"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
)

func TestParse(ttt *testing.T) {
	cases := []struct {
		in   string
		want Language
	}{
		{"python", Python},
		{"Ruby", Ruby},
		{" go ", Go},
		{"golang", Go},
	}
	for _, tc := range cases {
		ttt.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	_, err := Parse("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "python, ruby, go")
}

func TestString(t *testing.T) {
	assert.Equal(t, []string{"python", "ruby", "go"}, []string{Python.String(), Ruby.String(), Go.String()})
	assert.Equal(t, "unknown", Language(42).String())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup(Language(42))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestEveryTargetRendersTheSample(ttt *testing.T) {
	for _, l := range All() {
		ttt.Run(l.String(), func(t *testing.T) {
			t.Parallel()
			target, err := Lookup(l)
			require.NoError(t, err)
			assert.Equal(t, l, target.Language)

			cfg := config.New(config.WithLanguage(l.String()))
			require.NoError(t, cfg.Normalize())
			tree := sample.New(cfg)
			require.NoError(t, target.NewRefiner(cfg).Refine(tree.Root))

			w := target.NewWriter(cfg)
			units := w.Units(tree.Root)
			require.NotEmpty(t, units)
			paths := map[string]struct{}{}
			for _, u := range units {
				out, err := w.Render(u)
				require.NoError(t, err, w.Path(u))
				if _, isNamespace := u.(*codedom.Namespace); !isNamespace {
					assert.NotEmpty(t, out, w.Path(u))
				}
				_, dup := paths[w.Path(u)]
				assert.False(t, dup, "duplicate artifact path %s", w.Path(u))
				paths[w.Path(u)] = struct{}{}
			}
		})
	}
}

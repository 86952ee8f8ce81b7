package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/pkg/errors"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Manifest{}, m)
}

func TestLoadRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(p, []byte("snapshots: [\n"), 0o644))
	_, err := Load(p)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestSaveLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "manifest.yaml")
	m := &Manifest{}
	m.AddSnapshot(Snapshot{Name: "first", Version: "v1", Languages: []string{"ruby", "go"}, File: "v1.txtar", Artifacts: 4})
	require.NoError(t, m.Save(p))

	back, err := Load(p)
	require.NoError(t, err)
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("manifest mismatch (-saved +loaded):\n%s", diff)
	}
	assert.Equal(t, []string{"go", "ruby"}, back.Snapshots[0].Languages)
}

func TestAddSnapshot(ttt *testing.T) {
	cases := []struct {
		name     string
		versions []string
		current  string
		previous string
		count    int
	}{
		{"first", []string{"v1"}, "v1", "", 1},
		{"second", []string{"v1", "v2"}, "v2", "v1", 2},
		{"third", []string{"v1", "v2", "v3"}, "v3", "v2", 3},
		{"retake current", []string{"v1", "v2", "v2"}, "v2", "v1", 2},
	}
	for _, tc := range cases {
		ttt.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := &Manifest{}
			for _, v := range tc.versions {
				m.AddSnapshot(Snapshot{Name: "api", Version: v, File: v + ".txtar"})
			}
			assert.Equal(t, tc.current, m.CurrentVersion)
			assert.Equal(t, tc.previous, m.PreviousVersion)
			assert.Len(t, m.Snapshots, tc.count)
			assert.Equal(t, tc.current+".txtar", m.SnapshotFile(tc.current))
		})
	}
}

func TestSnapshotFileUnknown(t *testing.T) {
	assert.Empty(t, (&Manifest{}).SnapshotFile("v9"))
}

package codedom

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/clientgen/pkg/errors"
)

func mappingKeys(d *DiscriminatorInformation) []string {
	var keys []string
	for _, m := range d.Enumerate() {
		keys = append(keys, m.Key)
	}
	return keys
}

func TestDiscriminatorFirstInsertWins(t *testing.T) {
	d := NewDiscriminatorInformation()
	t1, t2 := NewType("T1"), NewType("T2")

	added, err := d.AddMapping("foo", t1)
	require.NoError(t, err)
	require.True(t, added)
	added, err = d.AddMapping("FOO", t2)
	require.NoError(t, err)
	require.False(t, added)

	got, ok := d.GetMapping("Foo")
	require.True(t, ok)
	assert.Same(t, t1, got)
	assert.Equal(t, []string{"foo"}, mappingKeys(d))
}

func TestDiscriminatorEnumerateOrder(ttt *testing.T) {
	tests := []struct {
		name   string
		insert []string
		want   []string
	}{
		{name: "reverse insertion", insert: []string{"b", "a", "c"}, want: []string{"a", "b", "c"}},
		{name: "mixed case", insert: []string{"b", "A", "c"}, want: []string{"A", "b", "c"}},
		{name: "microsoft graph style", insert: []string{"#microsoft.graph.user", "#microsoft.graph.group"}, want: []string{"#microsoft.graph.group", "#microsoft.graph.user"}},
		{name: "empty", insert: nil, want: nil},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := NewDiscriminatorInformation()
			for _, k := range tt.insert {
				_, err := d.AddMapping(k, NewType(k))
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, mappingKeys(d))
		})
	}
}

func TestDiscriminatorRejectsInvalidInput(t *testing.T) {
	d := NewDiscriminatorInformation()

	_, err := d.AddMapping("", NewType("T"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	_, err = d.AddMapping("key", nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	assert.Equal(t, 0, d.Len())
}

func TestDiscriminatorGetMissing(t *testing.T) {
	d := NewDiscriminatorInformation()
	got, ok := d.GetMapping("missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestDiscriminatorCloneIndependence(t *testing.T) {
	src := NewDiscriminatorInformation()
	src.PropertyName = "@odata.type"
	_, err := src.AddMapping("a", NewType("A"))
	require.NoError(t, err)

	clone := src.Clone()
	_, err = clone.AddMapping("b", NewType("B"))
	require.NoError(t, err)
	_, err = src.AddMapping("c", NewType("C"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, mappingKeys(src))
	assert.Equal(t, []string{"a", "b"}, mappingKeys(clone))
	assert.Equal(t, "@odata.type", clone.PropertyName)

	got, ok := clone.GetMapping("a")
	require.True(t, ok)
	got.SetNullable(false)
	orig, _ := src.GetMapping("a")
	assert.True(t, orig.IsNullable())
}

func TestDiscriminatorConcurrentInsert(t *testing.T) {
	d := NewDiscriminatorInformation()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = d.AddMapping(fmt.Sprintf("key%03d", i), NewType("T"))
				_, _ = d.GetMapping(fmt.Sprintf("KEY%03d", i))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 100, d.Len())
	keys := mappingKeys(d)
	assert.Equal(t, "key000", keys[0])
	assert.Equal(t, "key099", keys[99])
}

func TestClassDiscriminatorLazy(t *testing.T) {
	c := &Class{Name: "entity", Kind: ClassModel}
	assert.False(t, c.HasDiscriminator())

	var wg sync.WaitGroup
	infos := make([]*DiscriminatorInformation, 4)
	for i := range infos {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			infos[i] = c.DiscriminatorInformation()
		}(i)
	}
	wg.Wait()
	for _, info := range infos {
		assert.Same(t, infos[0], info)
	}

	_, err := c.DiscriminatorInformation().AddMapping("#user", NewType("user"))
	require.NoError(t, err)
	assert.True(t, c.HasDiscriminator())
}

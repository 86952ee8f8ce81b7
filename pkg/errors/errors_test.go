package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsAreDistinct(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		invalid     bool
		structure   bool
		unsupported bool
	}{
		{name: "invalid input", err: InvalidInputf("key %q is empty", ""), invalid: true},
		{name: "structure", err: Structuref("parent of %s is not a class", "m"), structure: true},
		{name: "unsupported", err: UnsupportedTypef("cannot translate %T", 1), unsupported: true},
		{name: "plain", err: New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invalid, IsInvalidInput(tt.err))
			assert.Equal(t, tt.structure, IsStructure(tt.err))
			assert.Equal(t, tt.unsupported, IsUnsupportedType(tt.err))
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := Wrap(Wrapf(Structuref("http method is unset"), "method %s", "get"), "pass writer")
	require.Error(t, err)
	assert.True(t, IsStructure(err))
	assert.Contains(t, err.Error(), "http method is unset")
	assert.Contains(t, err.Error(), "pass writer")
}

func TestNilIsNoKind(t *testing.T) {
	assert.False(t, IsInvalidInput(nil))
	assert.False(t, IsStructure(nil))
	assert.False(t, IsUnsupportedType(nil))
}

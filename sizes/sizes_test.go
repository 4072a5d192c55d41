package sizes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarSizes(t *testing.T) {
	assert.Equal(t, 1, Int8)
	assert.Equal(t, 2, Int16)
	assert.Equal(t, 4, Int32)
	assert.Equal(t, 8, Int64)
	assert.Equal(t, 4, Float32)
	assert.Equal(t, 8, Float64)
	assert.Equal(t, 2*Float32, Complex64)
	assert.Equal(t, 2*Float64, Complex128)
	assert.Equal(t, Uintptr, Pointer)
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		n, ok := Of(name)
		require.True(t, ok, name)
		assert.Positive(t, n, name)
	}

	_, ok := Of("quaternion")
	assert.False(t, ok)
}

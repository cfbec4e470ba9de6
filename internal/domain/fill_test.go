package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(FillValue))
	assert.True(t, IsMissing(math.NaN()))
	assert.True(t, IsMissing(math.Inf(1)))
	assert.True(t, IsMissing(math.Inf(-1)))

	// Sentinel after a float32 round-trip is no longer bit-exact but must
	// still be detected.
	assert.True(t, IsMissing(float64(float32(FillValue))))

	assert.False(t, IsMissing(0))
	assert.False(t, IsMissing(27.3))
	assert.False(t, IsMissing(-1))
	assert.False(t, IsMissing(-1e33))
}

func TestDecodeValues(t *testing.T) {
	vs := []float64{27.3, FillValue, math.Inf(1), 26.9}
	got := DecodeValues(vs)

	require.Len(t, got, 4)
	assert.Equal(t, 27.3, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, math.IsNaN(got[2]))
	assert.Equal(t, 26.9, got[3])
}

func TestDecodeValue(t *testing.T) {
	assert.True(t, math.IsNaN(DecodeValue(FillValue)))
	assert.Equal(t, 1.5e9, DecodeValue(1.5e9))
}

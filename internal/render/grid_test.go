package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridGeometryResolution10(t *testing.T) {
	g, err := NewGrid(10, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, g.Len())
	assert.InDelta(t, 0.2, g.Step, 1e-7)
	assert.Equal(t, g.Step, g.Scale())

	u, v := g.Cell(0, 0)
	assert.InDelta(t, -0.9, u, 1e-6)
	assert.InDelta(t, -0.9, v, 1e-6)

	u, v = g.Cell(9, 9)
	assert.InDelta(t, 0.9, u, 1e-6)
	assert.InDelta(t, 0.9, v, 1e-6)

	// row-major, x fastest
	u, v = g.UV(1)
	assert.InDelta(t, -0.7, u, 1e-6)
	assert.InDelta(t, -0.9, v, 1e-6)
	u, v = g.UV(10)
	assert.InDelta(t, -0.9, u, 1e-6)
	assert.InDelta(t, -0.7, v, 1e-6)
}

func TestGridCentersAreSymmetric(t *testing.T) {
	g, err := NewGrid(37, 0)
	require.NoError(t, err)
	for x := 0; x < g.Resolution; x++ {
		a, _ := g.Cell(x, 0)
		b, _ := g.Cell(g.Resolution-1-x, 0)
		assert.InDelta(t, 0, a+b, 1e-6)
		assert.Greater(t, a, float32(-1))
		assert.Less(t, a, float32(1))
	}
}

func TestNewGridBounds(t *testing.T) {
	for _, r := range []int{-1, 0, 9, 1001} {
		_, err := NewGrid(r, 0)
		assert.ErrorIs(t, err, ErrInvalidResolution, "r=%d", r)
	}
	_, err := NewGrid(101, 100)
	assert.ErrorIs(t, err, ErrInvalidResolution)

	for _, r := range []int{10, 100, 1000} {
		_, err := NewGrid(r, 0)
		assert.NoError(t, err, "r=%d", r)
	}
}

func TestGridBoundsBox(t *testing.T) {
	g, err := NewGrid(10, 0)
	require.NoError(t, err)
	b := g.Bounds()
	assert.InDelta(t, -1.1, b.Min.X, 1e-6)
	assert.InDelta(t, 1.1, b.Max.Y, 1e-6)
	assert.InDelta(t, 2.2, b.Max.Z-b.Min.Z, 1e-6)
}

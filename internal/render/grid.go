package render

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
)

const (
	MinResolution        = 10
	DefaultMaxResolution = 1000
)

var ErrInvalidResolution = errors.New("resolution out of range")

// Grid subdivides the parametric square [-1,1]x[-1,1] into Resolution^2
// cells. Cells are addressed row-major with x fastest; each cell is sampled
// at its center.
type Grid struct {
	Resolution int
	Step       float32
}

// NewGrid validates resolution against [MinResolution, maxResolution].
// A maxResolution <= 0 means DefaultMaxResolution.
func NewGrid(resolution, maxResolution int) (Grid, error) {
	if maxResolution <= 0 {
		maxResolution = DefaultMaxResolution
	}
	if resolution < MinResolution || resolution > maxResolution {
		return Grid{}, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidResolution, resolution, MinResolution, maxResolution)
	}
	return Grid{Resolution: resolution, Step: 2 / float32(resolution)}, nil
}

// Len is the number of cells, and the number of points a frame holds.
func (g Grid) Len() int { return g.Resolution * g.Resolution }

// Cell returns the parametric center of cell (x, z).
func (g Grid) Cell(x, z int) (u, v float32) {
	u = (float32(x)+0.5)*g.Step - 1
	v = (float32(z)+0.5)*g.Step - 1
	return u, v
}

// UV returns the parametric center of the i-th cell in buffer order.
func (g Grid) UV(i int) (u, v float32) {
	return g.Cell(i%g.Resolution, i/g.Resolution)
}

// Scale is the uniform size of one point instance.
func (g Grid) Scale() float32 { return g.Step }

// Bounds is an axis-aligned box that contains every instance of every
// surface: side 2 + 2/Resolution, centered on the origin.
func (g Grid) Bounds() math32.Box3 {
	h := 1 + g.Step/2
	return math32.Box3{
		Min: math32.Vector3{X: -h, Y: -h, Z: -h},
		Max: math32.Vector3{X: h, Y: h, Z: h},
	}
}

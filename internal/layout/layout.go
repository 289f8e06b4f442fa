package layout

import "github.com/coreman2200/arcaluminis-surfaces/internal/surface"

type Dim struct{ X, Y, Z int }

// Serpentine describes how the LED chain snakes through the cube.
type Serpentine struct {
	XFlipEveryRow   bool
	YFlipEveryPanel bool
}

// Layout maps the cube volume, which stands in for the [-1,1]^3 box the
// surfaces live in, onto a linear LED chain. Y is up.
type Layout struct {
	Dim   Dim
	Order Serpentine
}

// Index maps x,y,z -> linear LED index (0..N-1)
func (l Layout) Index(x, y, z int) int {
	xx, yy := x, y
	if l.Order.XFlipEveryRow && y%2 == 1 {
		xx = l.Dim.X - 1 - x
	}
	if l.Order.YFlipEveryPanel && z%2 == 1 {
		yy = l.Dim.Y - 1 - y
	}
	return z*l.Dim.X*l.Dim.Y + yy*l.Dim.X + xx
}

func (l Layout) Count() int {
	return l.Dim.X * l.Dim.Y * l.Dim.Z
}

// Locate returns the voxel containing p. Points outside [-1,1] on any axis
// report ok == false.
func (l Layout) Locate(p surface.Point) (x, y, z int, ok bool) {
	x, okx := cell(p.X, l.Dim.X)
	y, oky := cell(p.Y, l.Dim.Y)
	z, okz := cell(p.Z, l.Dim.Z)
	return x, y, z, okx && oky && okz
}

func cell(c float32, n int) (int, bool) {
	if n <= 0 || c < -1 || c > 1 {
		return 0, false
	}
	i := int((c + 1) / 2 * float32(n))
	if i == n {
		i = n - 1
	}
	return i, true
}

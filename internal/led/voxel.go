package led

import (
	"math"

	"github.com/coreman2200/arcaluminis-surfaces/internal/layout"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// Voxelize lights every voxel that contains at least one point and clears
// the rest. occupied is scratch space of l.Count() entries; rgb must hold
// 3*l.Count() bytes in chain order. It returns the number of lit voxels.
func Voxelize(pts []surface.Point, l layout.Layout, occupied []bool, rgb []byte, brightness float64) int {
	for i := range occupied {
		occupied[i] = false
	}
	for i := range rgb {
		rgb[i] = 0
	}

	lit := 0
	for _, p := range pts {
		x, y, z, ok := l.Locate(p)
		if !ok {
			continue
		}
		idx := l.Index(x, y, z)
		if occupied[idx] {
			continue
		}
		occupied[idx] = true
		lit++

		r, g, b := heightColor(float64(y)/float64(max(1, l.Dim.Y-1)), brightness)
		rgb[idx*3+0] = r
		rgb[idx*3+1] = g
		rgb[idx*3+2] = b
	}
	return lit
}

// heightColor rotates hue with height h in [0,1].
func heightColor(h, brightness float64) (byte, byte, byte) {
	phase := h * 2 * math.Pi * 0.8
	r := 0.5 + 0.5*math.Sin(phase)
	g := 0.5 + 0.5*math.Sin(phase+2*math.Pi/3)
	b := 0.5 + 0.5*math.Sin(phase+4*math.Pi/3)
	return to8(r * brightness), to8(g * brightness), to8(b * brightness)
}

func to8(x float64) byte {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return byte(math.Round(x * 255))
}

package led

import (
	"github.com/coreman2200/arcaluminis-surfaces/internal/layout"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// Cube shows each frame of surface points on an LED volume: points are
// binned into voxels, limited, and written to the driver.
type Cube struct {
	Layout     layout.Layout
	Power      Power
	Brightness float64
	Drv        Driver

	// Lit and CurrentMA describe the last frame.
	Lit       int
	CurrentMA float64

	occupied []bool
	rgb      []byte
}

func NewCube(l layout.Layout, drv Driver, p Power, brightness float64) *Cube {
	return &Cube{
		Layout:     l,
		Power:      p,
		Brightness: brightness,
		Drv:        drv,
		occupied:   make([]bool, l.Count()),
		rgb:        make([]byte, l.Count()*3),
	}
}

func (c *Cube) Write(pts []surface.Point) error {
	c.Lit = Voxelize(pts, c.Layout, c.occupied, c.rgb, c.Brightness)
	c.CurrentMA = Limit(c.rgb, c.Power)
	if c.Drv == nil {
		return nil
	}
	return c.Drv.Write(c.rgb)
}

func (c *Cube) Close() error {
	if c.Drv == nil {
		return nil
	}
	return c.Drv.Close()
}

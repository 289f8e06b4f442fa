package render

import (
	"cogentcore.org/core/math32"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// Sampler evaluates the scheduled function, or the blend of two, at every
// grid cell. Cells share no state, so rows are split across Workers
// goroutines when Workers > 1; the output does not depend on Workers.
type Sampler struct {
	Workers int
}

type cellWriter func(i int, p surface.Point)

// Sample writes g.Len() points into dst. It panics if dst is shorter; the
// slice is not retained.
func (s Sampler) Sample(dst []surface.Point, g Grid, st sequence.State, reg *surface.Registry, t float32) {
	if len(dst) < g.Len() {
		panic("render: output buffer shorter than grid")
	}
	s.run(g, st, reg, t, func(i int, p surface.Point) { dst[i] = p })
}

// SampleArray writes 3*g.Len() floats into dst, the layout expected by an
// instanced-draw position buffer.
func (s Sampler) SampleArray(dst math32.ArrayF32, g Grid, st sequence.State, reg *surface.Registry, t float32) {
	if len(dst) < 3*g.Len() {
		panic("render: output array shorter than grid")
	}
	s.run(g, st, reg, t, func(i int, p surface.Point) { dst.SetVector3(3*i, p) })
}

func (s Sampler) run(g Grid, st sequence.State, reg *surface.Registry, t float32, put cellWriter) {
	if reg == nil {
		reg = surface.Default
	}
	from := reg.Get(st.Current)
	var to surface.Func
	if st.Transitioning {
		to = reg.Get(st.Pending)
	}

	rows := func(z0, z1 int) {
		for z := z0; z < z1; z++ {
			i := z * g.Resolution
			for x := 0; x < g.Resolution; x, i = x+1, i+1 {
				u, v := g.Cell(x, z)
				if to == nil {
					put(i, from(u, v, t))
				} else {
					put(i, surface.Morph(u, v, t, from, to, st.Progress))
				}
			}
		}
	}

	workers := s.Workers
	if workers > g.Resolution {
		workers = g.Resolution
	}
	if workers <= 1 {
		rows(0, g.Resolution)
		return
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	chunk := (g.Resolution + workers - 1) / workers
	for z0 := 0; z0 < g.Resolution; z0 += chunk {
		z1 := min(z0+chunk, g.Resolution)
		eg.Go(func() error {
			rows(z0, z1)
			return nil
		})
	}
	_ = eg.Wait()
}

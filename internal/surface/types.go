package surface

import "cogentcore.org/core/math32"

// Point is a position produced by a surface function.
type Point = math32.Vector3

// Func maps parametric coordinates (u, v), roughly in [-1,1], and time t in
// seconds to a point in 3D space. Implementations are pure.
type Func func(u, v, t float32) Point

// Name identifies a registered surface function by its stable index.
type Name int

const (
	Wave Name = iota
	MultiWave
	Ripple
	Sphere
	Torus
)

var names = [...]string{"wave", "multiwave", "ripple", "sphere", "torus"}

func (n Name) String() string {
	if n < 0 || int(n) >= len(names) {
		return "unknown"
	}
	return names[n]
}

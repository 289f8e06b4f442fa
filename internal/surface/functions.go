package surface

import "cogentcore.org/core/math32"

const pi = math32.Pi

func Wave(u, v, t float32) Point {
	return Point{
		X: u,
		Y: math32.Sin(pi * (u + v + t)),
		Z: v,
	}
}

// MultiWave sums three waves and divides by 2.5 so that y stays in [-1,1].
func MultiWave(u, v, t float32) Point {
	y := math32.Sin(pi * (u + 0.5*t))
	y += 0.5 * math32.Sin(2*pi*(v+t))
	y += math32.Sin(pi * (u + v + 0.25*t))
	y *= 1 / 2.5
	return Point{X: u, Y: y, Z: v}
}

func Ripple(u, v, t float32) Point {
	d := math32.Sqrt(u*u + v*v)
	y := math32.Sin(pi * (4*d - t))
	y /= 1 + 10*d
	return Point{X: u, Y: y, Z: v}
}

// Sphere wraps the (u,v) square onto a sphere whose radius wobbles
// between 0.8 and 1.0.
func Sphere(u, v, t float32) Point {
	r := 0.9 + 0.1*math32.Sin(pi*(6*u+4*v+t))
	s := r * math32.Cos(0.5*pi*v)
	return Point{
		X: s * math32.Sin(pi*u),
		Y: r * math32.Sin(0.5*pi*v),
		Z: s * math32.Cos(pi*u),
	}
}

// Torus: r1 is the major radius, r2 the tube radius; both twist over time.
func Torus(u, v, t float32) Point {
	r1 := 0.7 + 0.1*math32.Sin(pi*(6*u+0.5*t))
	r2 := 0.15 + 0.05*math32.Sin(pi*(8*u+4*v+2*t))
	s := r1 + r2*math32.Cos(pi*v)
	return Point{
		X: s * math32.Sin(pi*u),
		Y: r2 * math32.Sin(pi*v),
		Z: s * math32.Cos(pi*u),
	}
}

package surface

// SmoothStep clamps x into [0,1], applies the Hermite curve 3x^2 - 2x^3
// and maps the result onto [from, to].
func SmoothStep(from, to, x float32) float32 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	x = x * x * (3 - 2*x)
	return from + (to-from)*x
}

// LerpUnclamped returns a + (b-a)*k without limiting k to [0,1].
func LerpUnclamped(a, b Point, k float32) Point {
	return Point{
		X: a.X + (b.X-a.X)*k,
		Y: a.Y + (b.Y-a.Y)*k,
		Z: a.Z + (b.Z-a.Z)*k,
	}
}

// Morph evaluates both functions at (u, v, t) and blends them with the
// eased progress.
func Morph(u, v, t float32, from, to Func, progress float32) Point {
	return LerpUnclamped(from(u, v, t), to(u, v, t), SmoothStep(0, 1, progress))
}

package noise

import "math"

// gradients are the 12 cube-edge directions of improved Perlin noise.
var gradients = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// gradientScale maps the theoretical peak of the corner sum onto ~1.
const gradientScale = 0.964921414852142

// fade is the quintic 6t^5 - 15t^4 + 10t^3 curve.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func gradDot(seed, xp, yp, zp int32, dx, dy, dz float64) float64 {
	h := uint32(hash(seed, xp, yp, zp))
	g := gradients[h%12]
	return g[0]*dx + g[1]*dy + g[2]*dz
}

// gradient evaluates Perlin noise at an already frequency-scaled position.
// It is zero on every integer lattice point.
func gradient(seed int32, x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)

	dx0, dy0, dz0 := x-fx, y-fy, z-fz
	dx1, dy1, dz1 := dx0-1, dy0-1, dz0-1

	u, v, w := fade(dx0), fade(dy0), fade(dz0)

	x0 := int32(fx) * primeX
	y0 := int32(fy) * primeY
	z0 := int32(fz) * primeZ
	x1, y1, z1 := x0+primeX, y0+primeY, z0+primeZ

	return gradientScale * lerp(w,
		lerp(v,
			lerp(u, gradDot(seed, x0, y0, z0, dx0, dy0, dz0), gradDot(seed, x1, y0, z0, dx1, dy0, dz0)),
			lerp(u, gradDot(seed, x0, y1, z0, dx0, dy1, dz0), gradDot(seed, x1, y1, z0, dx1, dy1, dz0))),
		lerp(v,
			lerp(u, gradDot(seed, x0, y0, z1, dx0, dy0, dz1), gradDot(seed, x1, y0, z1, dx1, dy0, dz1)),
			lerp(u, gradDot(seed, x0, y1, z1, dx0, dy1, dz1), gradDot(seed, x1, y1, z1, dx1, dy1, dz1))))
}

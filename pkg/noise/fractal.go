package noise

import "github.com/taigrr/corona/pkg/math3d"

// MaxOctaves caps the octave count of Turbulence. Extra octaves are dropped to
// keep per-pixel cost bounded at real-time rates.
const MaxOctaves = 2

// driftRate is the per-octave phase drift of Turbulence, in lattice units per
// unit of time.
const driftRate = 0.1

// Turbulence sums octaves of the gradient field at doubling frequency and
// halving amplitude, each octave drifting slowly with time. octaves is clamped
// to [1, MaxOctaves]. The sum is divided by the total amplitude so the result
// stays within the range of a single sample.
//
// The Type of c is ignored; turbulence is always built from gradient noise.
func Turbulence(c Config, p math3d.Vec3, time float64, octaves int) float64 {
	octaves = min(max(octaves, 1), MaxOctaves)
	c.Type = Gradient

	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := range octaves {
		drift := time * driftRate * float64(i+1)
		sum += amp * c.Eval(p.X*freq+drift, p.Y*freq, p.Z*freq-drift)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

// FBM is a fixed two-octave fractal sum of the gradient field. Time scrolls
// the field along z, the detail octave twice as fast as the base one.
func FBM(c Config, p math3d.Vec3, time float64) float64 {
	c.Type = Gradient

	base := c.Eval(p.X, p.Y, p.Z+time*0.3)
	detail := c.Eval(p.X*2, p.Y*2, p.Z*2+time*0.6)
	return (base + 0.5*detail) / 1.5
}

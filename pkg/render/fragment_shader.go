package render

import (
	"math"

	"github.com/taigrr/corona/pkg/math3d"
	"github.com/taigrr/corona/pkg/noise"
)

// Composition selects how the sun shader builds its base noise sample.
type Composition int

const (
	ComposeSingle     Composition = iota // One gradient sample
	ComposeTurbulence                    // Octave-summed turbulence
	ComposeFBM                           // Fixed two-octave fractal sum
)

// String returns the name used by configuration files and flags.
func (c Composition) String() string {
	switch c {
	case ComposeTurbulence:
		return "turbulence"
	case ComposeFBM:
		return "fbm"
	default:
		return "single"
	}
}

// ParseComposition maps a name to a Composition. Unknown names report false.
func ParseComposition(s string) (Composition, bool) {
	switch s {
	case "single", "":
		return ComposeSingle, true
	case "turbulence":
		return ComposeTurbulence, true
	case "fbm":
		return ComposeFBM, true
	}
	return ComposeSingle, false
}

// DefaultCeiling is the upper intensity clamp. It sits above 1 so peaks can
// run into the over-bright white band.
const DefaultCeiling = 1.25

// glowThreshold is the intensity above which the glow pass brightens colors.
const glowThreshold = 0.75

// SunShader holds the tunable constants of the procedural sun surface.
// It is an immutable value; shading is a pure function of the shader, the
// fragment and the uniforms.
type SunShader struct {
	NoiseScale  float64     // World position scale before sampling noise
	TimeScroll  float64     // Noise z offset per unit time
	Ceiling     float64     // Intensity clamp; values <= 1 use DefaultCeiling
	Noise       noise.Type  // Field character for ComposeSingle
	Composition Composition // How the base sample is built
	Octaves     int         // Octaves for ComposeTurbulence
}

// DefaultSunShader returns the standard sun look.
func DefaultSunShader() SunShader {
	return SunShader{
		NoiseScale:  1.2,
		TimeScroll:  0.3,
		Ceiling:     DefaultCeiling,
		Noise:       noise.Gradient,
		Composition: ComposeSingle,
		Octaves:     noise.MaxOctaves,
	}
}

// FragmentShader shades f with DefaultSunShader.
func FragmentShader(f TransformedVertex, u *Uniforms) Color {
	return DefaultSunShader().Shade(f, u)
}

// Shade maps the fragment's world position and the frame time to a color.
func (s SunShader) Shade(f TransformedVertex, u *Uniforms) Color {
	return s.colorFor(s.Intensity(f.World, u.Time, u.Seed))
}

// Intensity is the clamped pseudo-temperature of the surface at pos.
// It lies in [0, ceiling]; NaN inputs yield 0.
func (s SunShader) Intensity(pos math3d.Vec3, t float64, seed int32) float64 {
	n := s.sample(pos, t, seed)

	pulse := math.Sin(t*1.2)*0.25 + 0.75
	flare := (math.Sin((pos.X+pos.Y)*2+t*2)*0.5 + 0.5) * 0.3

	// The spot angle is itself an oscillation, so the pattern sways back and
	// forth instead of spinning.
	spin := math.Cos(t * 0.8)
	spots := math.Sin((pos.X*spin-pos.Z*math.Sin(spin))*2) * 0.25

	spike := math.Abs(math.Sin(t*1.8)*math.Cos(t*1.3)) * 0.2

	i := (n*0.5+0.5)*pulse + flare + spike + spots
	switch {
	case !(i > 0):
		return 0
	case i > s.ceiling():
		return s.ceiling()
	}
	return i
}

func (s SunShader) sample(pos math3d.Vec3, t float64, seed int32) float64 {
	cfg := noise.Config{Seed: seed, Frequency: noise.DefaultFrequency, Type: s.Noise}
	p := pos.Scale(s.NoiseScale)

	switch s.Composition {
	case ComposeTurbulence:
		p.Z += t * s.TimeScroll
		return noise.Turbulence(cfg, p, t, s.Octaves)
	case ComposeFBM:
		return noise.FBM(cfg, p, t)
	default:
		return cfg.Eval(p.X, p.Y, p.Z+t*s.TimeScroll)
	}
}

func (s SunShader) ceiling() float64 {
	if s.Ceiling <= 1 {
		return DefaultCeiling
	}
	return s.Ceiling
}

// band is one anchor of the temperature ramp.
type band struct {
	at    float64
	color Color
}

// colorFor maps an intensity to the ember, orange, yellow, pale yellow, white
// ramp and applies the glow pass. Adjacent bands share their anchor color, so
// the ramp is continuous.
func (s SunShader) colorFor(i float64) Color {
	ramp := [...]band{
		{0, 0x662200},
		{0.3, 0xFF4400},
		{0.7, 0xFFCC00},
		{1.0, 0xFFFF66},
		{s.ceiling(), 0xFFFFFF},
	}

	c := ramp[len(ramp)-1].color
	for k := 1; k < len(ramp); k++ {
		if i < ramp[k].at {
			lo, hi := ramp[k-1], ramp[k]
			c = lo.color.Lerp(hi.color, (i-lo.at)/(hi.at-lo.at))
			break
		}
	}

	if i > glowThreshold {
		glow := math.Pow((i-glowThreshold)/(1-glowThreshold), 1.5)
		c = c.Brighten(glow * 0.4)
	}
	return c
}

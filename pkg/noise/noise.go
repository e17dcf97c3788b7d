// Package noise evaluates deterministic procedural noise fields.
//
// A field is described by an immutable Config value. Evaluation is a pure
// function of the config and the sample position: there is no generator
// object and no permutation table, so a Config can be shared freely between
// goroutines and copied per call at no cost.
package noise

// Type selects the underlying character of a noise field.
type Type int

const (
	Gradient Type = iota // Smooth Perlin-style gradient noise
	Cellular             // Voronoi-like F1 distance pattern
)

// String returns the name used by configuration files and flags.
func (t Type) String() string {
	switch t {
	case Cellular:
		return "cellular"
	default:
		return "gradient"
	}
}

// ParseType maps a name to a Type. Unknown names report false.
func ParseType(s string) (Type, bool) {
	switch s {
	case "gradient", "perlin", "":
		return Gradient, true
	case "cellular", "voronoi":
		return Cellular, true
	}
	return Gradient, false
}

// DefaultFrequency is the sampling frequency used by Noise3 and by a Config
// whose Frequency is left at zero.
const DefaultFrequency = 2.0

// Config describes a noise field.
type Config struct {
	Seed      int32
	Frequency float64 // Zero means DefaultFrequency
	Type      Type
}

// Default returns the gradient field at DefaultFrequency for seed.
func Default(seed int32) Config {
	return Config{Seed: seed, Frequency: DefaultFrequency, Type: Gradient}
}

// Eval samples the field at (x, y, z). The result lies approximately in
// [-1, 1] and is continuous in the position.
func (c Config) Eval(x, y, z float64) float64 {
	f := c.Frequency
	if f == 0 {
		f = DefaultFrequency
	}
	x, y, z = x*f, y*f, z*f

	if c.Type == Cellular {
		return cellular(c.Seed, x, y, z)
	}
	return gradient(c.Seed, x, y, z)
}

// Noise3 samples the default gradient field for seed.
func Noise3(x, y, z float64, seed int32) float64 {
	return Default(seed).Eval(x, y, z)
}

// Lattice hashing primes. Coordinates are pre-multiplied by these so a
// neighboring cell is one addition away.
const (
	primeX int32 = 501125321
	primeY int32 = 1136930381
	primeZ int32 = 1720413743
)

// hash mixes a seed with three primed lattice coordinates. int32 overflow
// wraps, which is the intended mixing behavior.
func hash(seed, xp, yp, zp int32) int32 {
	h := seed ^ xp ^ yp ^ zp
	h *= 0x27d4eb2d
	return h ^ (h >> 15)
}

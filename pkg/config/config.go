// Package config loads Corona's render settings from a JSON file and merges
// them with command-line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/taigrr/corona/pkg/noise"
	"github.com/taigrr/corona/pkg/render"
)

// Config holds all configurable render and scene settings.
type Config struct {
	// Output
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FPS         int     `json:"fps"`
	Supersample int     `json:"supersample"`
	Background  string  `json:"background"` // "R,G,B" or "#RRGGBB"
	TimeStep    float64 `json:"time_step"`  // Animation seconds per frame

	// Scene
	Model         string  `json:"model"` // Empty renders a generated sphere
	Rings         int     `json:"rings"`
	Sectors       int     `json:"sectors"`
	SmoothNormals bool    `json:"smooth_normals"`
	Distance      float64 `json:"distance"`
	FOV           float64 `json:"fov"` // Degrees

	// Shading
	Seed        int32   `json:"seed"`
	Noise       string  `json:"noise"`       // gradient or cellular
	Composition string  `json:"composition"` // single, turbulence or fbm
	Octaves     int     `json:"octaves"`
	NoiseScale  float64 `json:"noise_scale"`
	TimeScroll  float64 `json:"time_scroll"`
	Ceiling     float64 `json:"ceiling"` // Intensity clamp, above 1; 0 keeps the default

	// Pipeline
	Workers int  `json:"workers"`
	Cull    bool `json:"cull"`
}

// Defaults used by Resolve for unset fields.
const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultFPS      = 60
	DefaultTimeStep = 0.025
	DefaultSeed     = 42
	DefaultRings    = 32
	DefaultSectors  = 64
)

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file setting alone.
type Flags struct {
	Model       string
	Width       int
	Height      int
	FPS         int
	Supersample int
	Background  string
	Seed        int
	Noise       string
	Composition string
	Workers     int
	Cull        bool
}

// Resolve applies CLI overrides and then fills in defaults for anything
// still unset.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Seed != 0 {
		c.Seed = int32(flags.Seed)
	}
	if flags.Noise != "" {
		c.Noise = flags.Noise
	}
	if flags.Composition != "" {
		c.Composition = flags.Composition
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Cull {
		c.Cull = true
	}

	// Defaults
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Background == "" {
		c.Background = "0,0,0"
	}
	if c.TimeStep <= 0 {
		c.TimeStep = DefaultTimeStep
	}
	if c.Rings <= 0 {
		c.Rings = DefaultRings
	}
	if c.Sectors <= 0 {
		c.Sectors = DefaultSectors
	}
	if c.Distance <= 0 {
		c.Distance = render.DefaultDistance
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = 45
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Shader builds the sun shader described by the shading settings.
func (c *Config) Shader() (render.SunShader, error) {
	s := render.DefaultSunShader()

	t, ok := noise.ParseType(strings.ToLower(c.Noise))
	if !ok {
		return s, fmt.Errorf("config: unknown noise type %q", c.Noise)
	}
	s.Noise = t

	comp, ok := render.ParseComposition(strings.ToLower(c.Composition))
	if !ok {
		return s, fmt.Errorf("config: unknown composition %q", c.Composition)
	}
	s.Composition = comp

	if c.Octaves > 0 {
		s.Octaves = c.Octaves
	}
	if c.NoiseScale > 0 {
		s.NoiseScale = c.NoiseScale
	}
	if c.TimeScroll != 0 {
		s.TimeScroll = c.TimeScroll
	}
	if c.Ceiling != 0 {
		if !(c.Ceiling > 1) || math.IsInf(c.Ceiling, 1) {
			return s, fmt.Errorf("config: ceiling must be a finite value above 1, got %v", c.Ceiling)
		}
		s.Ceiling = c.Ceiling
	}
	return s, nil
}

// BackgroundColor parses the Background setting.
func (c *Config) BackgroundColor() (render.Color, error) {
	return ParseColor(c.Background)
}

// ParseColor parses "R,G,B" with decimal channels or "#RRGGBB".
func ParseColor(s string) (render.Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return 0, fmt.Errorf("invalid color %q: want #RRGGBB", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return render.Color(v), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid color %q: want R,G,B", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return render.RGB(ch[0], ch[1], ch[2]), nil
}

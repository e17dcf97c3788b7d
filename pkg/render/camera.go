package render

import (
	"math"

	"github.com/taigrr/corona/pkg/math3d"
)

// Orbit limits.
const (
	MinPitch    = -1.5
	MaxPitch    = 1.5
	MinDistance = 1.5
	MaxDistance = 10.0

	DefaultDistance = 3.5
	DefaultFOV      = 45 * math.Pi / 180
)

// OrbitCamera looks at the origin from a point on a sphere around it.
type OrbitCamera struct {
	// Orbit position (radians and world units)
	Yaw      float64 // Rotation around the Y axis
	Pitch    float64 // Elevation above the XZ plane
	Distance float64 // Distance from the origin

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane
}

// NewOrbitCamera creates a camera at the default distance looking down -Z.
func NewOrbitCamera(aspect float64) *OrbitCamera {
	return &OrbitCamera{
		Distance:    DefaultDistance,
		FOV:         DefaultFOV,
		AspectRatio: aspect,
		Near:        0.1,
		Far:         100,
	}
}

// Orbit rotates the camera by the given yaw and pitch deltas, keeping the
// pitch away from the poles.
func (c *OrbitCamera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = ClampPitch(c.Pitch + dPitch)
}

// Zoom moves the camera towards (negative delta) or away from the origin.
func (c *OrbitCamera) Zoom(delta float64) {
	c.Distance = ClampDistance(c.Distance + delta)
}

// SetAspectRatio sets the aspect ratio.
func (c *OrbitCamera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
}

// ClampPitch limits a pitch angle to [MinPitch, MaxPitch].
func ClampPitch(p float64) float64 {
	return math.Max(MinPitch, math.Min(MaxPitch, p))
}

// ClampDistance limits an orbit distance to [MinDistance, MaxDistance].
func ClampDistance(d float64) float64 {
	return math.Max(MinDistance, math.Min(MaxDistance, d))
}

// Eye returns the camera position in world space.
func (c *OrbitCamera) Eye() math3d.Vec3 {
	cp := math.Cos(c.Pitch)
	return math3d.V3(
		c.Distance*cp*math.Sin(c.Yaw),
		c.Distance*math.Sin(c.Pitch),
		c.Distance*cp*math.Cos(c.Yaw),
	)
}

// ViewMatrix returns the view matrix looking at the origin with +Y up.
func (c *OrbitCamera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Eye(), math3d.Zero3(), math3d.Up())
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *OrbitCamera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// Uniforms builds the per-frame snapshot for the given model transform.
func (c *OrbitCamera) Uniforms(model math3d.Mat4, time float64, seed int32) *Uniforms {
	return &Uniforms{
		Model:      model,
		View:       c.ViewMatrix(),
		Projection: c.ProjectionMatrix(),
		Time:       time,
		Seed:       seed,
	}
}

// SunSpin is the model rotation around Y at the given animation time.
func SunSpin(time float64) math3d.Mat4 {
	return math3d.RotateY(time * 0.2)
}

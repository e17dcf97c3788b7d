package render

import (
	"math"

	"github.com/taigrr/corona/pkg/math3d"
)

// displacementScale is how far the surface boils along its normal at the crest
// of the wave.
const displacementScale = 0.04

// VertexShader displaces v along its normal by a cheap two-sinusoid wave and
// transforms it to clip space. The normal is rotated by the upper 3x3 of the
// model matrix, which is only correct without non-uniform scale.
//
// Degenerate matrices are not detected; NaN and Inf propagate to the
// rasterizer, which rejects what it can.
func VertexShader(v Vertex, u *Uniforms) TransformedVertex {
	wave := math.Sin(v.Position.X*2+u.Time) * math.Cos(v.Position.Y*2+u.Time*0.8)
	displaced := v.Position.Add(v.Normal.Scale(wave * displacementScale))

	world := u.Model.MulVec4(math3d.V4FromV3(displaced, 1))
	clip := u.Projection.MulVec4(u.View.MulVec4(world))

	return TransformedVertex{
		Clip:   clip,
		World:  world.Vec3(),
		Normal: u.Model.MulVec3Dir(v.Normal).Normalize(),
		Depth:  clip.Z / clip.W,
	}
}

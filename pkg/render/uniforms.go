package render

import "github.com/taigrr/corona/pkg/math3d"

// Vertex is one mesh vertex as supplied by a mesh provider.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Uniforms is the per-frame snapshot shared by every vertex and fragment of a
// frame. Build one per frame and do not modify it while the frame is drawn.
type Uniforms struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	Time       float64 // Seconds of animation time
	Seed       int32   // Noise seed
}

// TransformedVertex is the output of the vertex stage and, after
// interpolation, the input of the fragment stage.
type TransformedVertex struct {
	Clip   math3d.Vec4 // Clip-space position, before the perspective divide
	World  math3d.Vec3 // Model-transformed position
	Normal math3d.Vec3 // Unit world-space normal
	Depth  float64     // NDC depth
}

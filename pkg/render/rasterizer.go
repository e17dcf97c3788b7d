package render

import (
	"math"

	"github.com/taigrr/corona/pkg/math3d"
)

// degenerateArea is the smallest doubled screen-space area a triangle may
// have before it is treated as covering nothing.
const degenerateArea = 1e-4

// Rasterizer scan-converts transformed triangles into a framebuffer, shading
// every covered pixel. A Rasterizer may be limited to a band of rows so that
// several of them can share one framebuffer without overlapping writes.
type Rasterizer struct {
	fb     *Framebuffer
	shader SunShader
	rowMin int // First row this rasterizer may write
	rowMax int // One past the last row
}

// NewRasterizer creates a rasterizer covering the whole framebuffer.
func NewRasterizer(fb *Framebuffer, shader SunShader) *Rasterizer {
	return &Rasterizer{fb: fb, shader: shader, rowMin: 0, rowMax: fb.height}
}

// newBandRasterizer creates a rasterizer restricted to rows [rowMin, rowMax).
func newBandRasterizer(fb *Framebuffer, shader SunShader, rowMin, rowMax int) *Rasterizer {
	return &Rasterizer{fb: fb, shader: shader, rowMin: rowMin, rowMax: rowMax}
}

// RasterizeTriangle draws one triangle into fb with the default sun shader.
func RasterizeTriangle(fb *Framebuffer, v0, v1, v2 TransformedVertex, u *Uniforms) {
	NewRasterizer(fb, DefaultSunShader()).DrawTriangle(v0, v1, v2, u)
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // NDC depth
}

// DrawTriangle rasterizes one triangle. It reports how many fragments were
// written and whether the triangle was dropped by clip rejection.
//
// Triangles with any vertex at w <= 0 are dropped whole, as are triangles
// whose three NDC depths all fall outside [-1, 1]. Attributes are
// interpolated linearly in screen space.
func (r *Rasterizer) DrawTriangle(v0, v1, v2 TransformedVertex, u *Uniforms) (fragments int, rejected bool) {
	if clipReject(v0.Clip, v1.Clip, v2.Clip) {
		return 0, true
	}

	width, height := float64(r.fb.width), float64(r.fb.height)
	var sv [3]screenVertex
	for i, v := range [3]TransformedVertex{v0, v1, v2} {
		ndc := v.Clip.PerspectiveDivide()
		sv[i] = screenVertex{
			X: (ndc.X + 1) * 0.5 * width,
			Y: (1 - ndc.Y) * 0.5 * height, // Y flipped
			Z: ndc.Z,
		}
	}

	minXf := math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))
	maxXf := math.Floor(max3(sv[0].X, sv[1].X, sv[2].X))
	minYf := math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))
	maxYf := math.Floor(max3(sv[0].Y, sv[1].Y, sv[2].Y))
	if !finite(minXf, maxXf, minYf, maxYf) {
		return 0, false
	}

	// Reject and clamp in float space; huge coordinates do not convert to int.
	rowMin, rowMax := float64(r.rowMin), float64(r.rowMax-1)
	if minXf > width-1 || maxXf < 0 || minYf > rowMax || maxYf < rowMin {
		return 0, false
	}
	minX := int(math.Max(0, minXf))
	maxX := int(math.Min(width-1, maxXf))
	minY := int(math.Max(rowMin, minYf))
	maxY := int(math.Min(rowMax, maxYf))

	e, ok := newEdges(sv[0], sv[1], sv[2])
	if !ok {
		return 0, false
	}

	fb := r.fb
	for y := minY; y <= maxY; y++ {
		rowOffset := y * fb.width
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			bc := e.weights(px, py)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z

			// Shading is pure, so skipping it for fragments that would lose
			// the depth test does not change the result.
			idx := rowOffset + x
			if !(z < fb.depth[idx]) {
				continue
			}

			frag := TransformedVertex{
				Clip:   math3d.V4(px, py, z, 1),
				World:  math3d.Barycentric(v0.World, v1.World, v2.World, bc.X, bc.Y, bc.Z),
				Normal: math3d.Barycentric(v0.Normal, v1.Normal, v2.Normal, bc.X, bc.Y, bc.Z).Normalize(),
				Depth:  z,
			}
			if fb.setIndex(idx, r.shader.Shade(frag, u), z) {
				fragments++
			}
		}
	}
	return fragments, false
}

// clipReject reports whether a triangle must be dropped before the
// perspective divide.
func clipReject(c0, c1, c2 math3d.Vec4) bool {
	if c0.W <= 0 || c1.W <= 0 || c2.W <= 0 {
		return true
	}
	return outsideDepth(c0.Z/c0.W) && outsideDepth(c1.Z/c1.W) && outsideDepth(c2.Z/c2.W)
}

func outsideDepth(z float64) bool {
	return z < -1 || z > 1
}

// edges holds the three edge functions of a screen triangle, scaled so that
// evaluating them yields barycentric weights directly.
type edges struct {
	a0, b0, c0 float64 // Edge v1 -> v2, weight of v0
	a1, b1, c1 float64 // Edge v2 -> v0, weight of v1
}

// newEdges sets up the edge functions. It reports false for triangles whose
// doubled area is below degenerateArea.
func newEdges(s0, s1, s2 screenVertex) (edges, bool) {
	a0, b0, c0 := edgeCoeffs(s1.X, s1.Y, s2.X, s2.Y)
	a1, b1, c1 := edgeCoeffs(s2.X, s2.Y, s0.X, s0.Y)

	denom := edgeFunc(a0, b0, c0, s0.X, s0.Y)
	if !(math.Abs(denom) >= degenerateArea) {
		return edges{}, false
	}
	inv := 1 / denom
	return edges{
		a0 * inv, b0 * inv, c0 * inv,
		a1 * inv, b1 * inv, c1 * inv,
	}, true
}

// weights returns the barycentric weights of (x, y). The third weight is
// derived so the three always sum to 1.
func (e edges) weights(x, y float64) math3d.Vec3 {
	w0 := edgeFunc(e.a0, e.b0, e.c0, x, y)
	w1 := edgeFunc(e.a1, e.b1, e.c1, x, y)
	return math3d.V3(w0, w1, 1-w0-w1)
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C of the
// directed edge (x0, y0) -> (x1, y1). It is zero on the edge and changes sign
// across it.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates an edge function at (x, y).
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// barycentric computes the barycentric weights of (px, py) with respect to
// the screen triangle. Degenerate triangles yield (-1, -1, -1), which no
// coverage test accepts.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	e, ok := newEdges(
		screenVertex{X: x0, Y: y0},
		screenVertex{X: x1, Y: y1},
		screenVertex{X: x2, Y: y2},
	)
	if !ok {
		return math3d.V3(-1, -1, -1)
	}
	return e.weights(px, py)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

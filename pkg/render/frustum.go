package render

import (
	"github.com/taigrr/corona/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a view-projection matrix
// with the Gribb/Hartmann method. Normals point inward.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// For column-major m, row i element j is m[i+j*4].
	row := func(i int) (x, y, z, w float64) {
		return m[i], m[i+4], m[i+8], m[i+12]
	}
	x3, y3, z3, w3 := row(3)

	var f Frustum
	for i := range 3 {
		x, y, z, w := row(i)
		f.Planes[2*i] = Plane{Normal: math3d.V3(x3+x, y3+y, z3+z), D: w3 + w}
		f.Planes[2*i+1] = Plane{Normal: math3d.V3(x3-x, y3-y, z3-z), D: w3 - w}
	}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float64) AABB {
	pad := math3d.V3(d, d, d)
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// Transform returns an AABB that bounds the box after transformation.
func (b AABB) Transform(m math3d.Mat4) AABB {
	first := true
	var out AABB
	for i := range 8 {
		corner := math3d.V3(
			selectComponent(i&1 != 0, b.Max.X, b.Min.X),
			selectComponent(i&2 != 0, b.Max.Y, b.Min.Y),
			selectComponent(i&4 != 0, b.Max.Z, b.Min.Z),
		)
		p := m.MulVec3(corner)
		if first {
			out = AABB{Min: p, Max: p}
			first = false
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Uses the "positive vertex" test: if the corner furthest along a plane's
// normal is behind it, the whole box is.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// BoundedMesh is a Mesh that knows its object-space bounding box.
type BoundedMesh interface {
	Mesh
	Bounds() (lo, hi math3d.Vec3)
}

// meshVisible reports whether any part of mesh can reach the screen under u.
// The box is padded by the vertex displacement so culling never removes a
// triangle the rasterizer would have drawn. Meshes without bounds are always
// visible.
func meshVisible(mesh Mesh, u *Uniforms) bool {
	bm, ok := mesh.(BoundedMesh)
	if !ok {
		return true
	}
	lo, hi := bm.Bounds()
	world := AABB{Min: lo, Max: hi}.Expand(displacementScale).Transform(u.Model)
	return NewFrustumFromMatrix(u.Projection.Mul(u.View)).IntersectAABB(world)
}

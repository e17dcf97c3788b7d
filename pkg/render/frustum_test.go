package render

import (
	"math"
	"testing"

	"github.com/taigrr/corona/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1.0) > 1e-9 {
		t.Errorf("normal length = %v, want 1.0", plane.Normal.Len())
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Error("zero normal should be left alone")
	}
}

func TestAABBExpand(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, 0, 2), Max: math3d.V3(1, 1, 3)}.Expand(0.5)
	if box.Min != math3d.V3(-1.5, -0.5, 1.5) || box.Max != math3d.V3(1.5, 1.5, 3.5) {
		t.Errorf("Expand = %+v", box)
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	moved := box.Transform(math3d.Translate(math3d.V3(5, 0, 0)))
	if !vecNear(moved.Min, math3d.V3(4, -1, -1), 1e-12) || !vecNear(moved.Max, math3d.V3(6, 1, 1), 1e-12) {
		t.Errorf("translated box = %+v", moved)
	}

	// A 45 degree turn widens the box in X and Z.
	turned := box.Transform(math3d.RotateY(math.Pi / 4))
	if want := math.Sqrt2; math.Abs(turned.Max.X-want) > 1e-9 || math.Abs(turned.Min.Z+want) > 1e-9 {
		t.Errorf("rotated box = %+v, want half-width %v", turned, want)
	}
}

func testFrustum() Frustum {
	cam := NewOrbitCamera(1)
	return NewFrustumFromMatrix(cam.ProjectionMatrix().Mul(cam.ViewMatrix()))
}

func TestFrustumPlanesPointInward(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		if math.Abs(p.Normal.Len()-1) > 1e-9 {
			t.Errorf("plane %d not normalized", i)
		}
		// The origin is in front of the camera and inside every plane.
		if d := p.DistanceToPoint(math3d.Zero3()); d <= 0 {
			t.Errorf("plane %d: origin at distance %v, want positive", i, d)
		}
	}
	// The near plane sits 0.1 in front of the eye at z=3.5.
	if d := f.Planes[FrustumNear].DistanceToPoint(math3d.V3(0, 0, 3.4)); math.Abs(d) > 1e-6 {
		t.Errorf("near plane distance at z=3.4 = %v, want 0", d)
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := testFrustum()
	unit := func(c math3d.Vec3) AABB {
		return AABB{Min: c.Sub(math3d.V3(0.5, 0.5, 0.5)), Max: c.Add(math3d.V3(0.5, 0.5, 0.5))}
	}

	tests := []struct {
		name   string
		box    AABB
		inside bool
	}{
		{"at origin", unit(math3d.Zero3()), true},
		{"behind camera", unit(math3d.V3(0, 0, 8)), false},
		{"far left", unit(math3d.V3(-50, 0, 0)), false},
		{"far above", unit(math3d.V3(0, 50, 0)), false},
		{"beyond far plane", unit(math3d.V3(0, 0, -200)), false},
		{"straddles near plane", unit(math3d.V3(0, 0, 3.5)), true},
		{"contains frustum", AABB{Min: math3d.V3(-500, -500, -500), Max: math3d.V3(500, 500, 500)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.inside {
				t.Errorf("IntersectAABB = %v, want %v", got, tc.inside)
			}
		})
	}
}

func TestMeshVisible(t *testing.T) {
	u := testUniforms(32, 32, 0)
	sphere := testSphere(2, 3, math3d.Zero3())

	if !meshVisible(sphere, u) {
		t.Error("mesh without bounds must always be visible")
	}

	inView := boundedMesh{mockMesh: sphere, lo: math3d.V3(-1, -1, -1), hi: math3d.V3(1, 1, 1)}
	if !meshVisible(inView, u) {
		t.Error("sphere at origin reported invisible")
	}

	behind := boundedMesh{mockMesh: sphere, lo: math3d.V3(-1, -1, 9), hi: math3d.V3(1, 1, 11)}
	if meshVisible(behind, u) {
		t.Error("box behind the camera reported visible")
	}

	// The model transform moves the box into view.
	u.Model = math3d.Translate(math3d.V3(0, 0, -10))
	if !meshVisible(behind, u) {
		t.Error("translated box reported invisible")
	}
}

func BenchmarkIntersectAABB(b *testing.B) {
	f := testFrustum()
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}

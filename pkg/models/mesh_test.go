package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/corona/pkg/math3d"
	"github.com/taigrr/corona/pkg/render"
)

// Mesh must satisfy the interfaces the render pipeline draws and culls.
var _ render.BoundedMesh = (*Mesh)(nil)

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestValidate(t *testing.T) {
	mesh := NewMesh("tri")
	mesh.Vertices = make([]MeshVertex, 3)

	tests := []struct {
		name    string
		face    [3]int
		wantErr bool
	}{
		{"valid", [3]int{0, 1, 2}, false},
		{"past end", [3]int{0, 1, 3}, true},
		{"negative", [3]int{0, -1, 2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh.Faces = []Face{{V: tc.face}}
			err := mesh.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFaceIndex) {
				t.Errorf("err = %v, want ErrFaceIndex", err)
			}
		})
	}
}

func TestCalculateBounds(t *testing.T) {
	mesh := NewMesh("box")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(1, -2, 3)},
		{Position: math3d.V3(-4, 5, 0)},
		{Position: math3d.V3(2, 0, -6)},
	}
	mesh.CalculateBounds()

	lo, hi := mesh.Bounds()
	if lo != math3d.V3(-4, -2, -6) || hi != math3d.V3(2, 5, 3) {
		t.Errorf("bounds = %v, %v", lo, hi)
	}
	if c := mesh.Center(); c != math3d.V3(-1, 1.5, -1.5) {
		t.Errorf("Center = %v", c)
	}
	if s := mesh.Size(); s != math3d.V3(6, 7, 9) {
		t.Errorf("Size = %v", s)
	}
}

func TestNormalize(t *testing.T) {
	mesh := NewMesh("offset")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(10, 10, 10), Normal: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(14, 11, 10), Normal: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(10, 12, 11), Normal: math3d.V3(0, 0, 1)},
	}
	mesh.CalculateBounds()
	mesh.Normalize()

	if !vecNear(mesh.Center(), math3d.Zero3(), 1e-12) {
		t.Errorf("Center = %v, want origin", mesh.Center())
	}
	size := mesh.Size()
	if math.Abs(max(size.X, size.Y, size.Z)-2) > 1e-12 {
		t.Errorf("Size = %v, want largest dimension 2", size)
	}
	if !vecNear(mesh.Vertices[0].Normal, math3d.V3(0, 1, 0), 1e-12) {
		t.Errorf("normal changed under uniform scale: %v", mesh.Vertices[0].Normal)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	mesh := NewMesh("empty")
	mesh.Normalize()
	if mesh.VertexCount() != 0 || mesh.Size() != math3d.Zero3() {
		t.Error("empty mesh changed")
	}
}

func TestTransform(t *testing.T) {
	mesh := NewMesh("tri")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(1, 0, 0), Normal: math3d.V3(1, 0, 0)},
	}
	mesh.Transform(math3d.Translate(math3d.V3(0, 2, 0)).Mul(math3d.RotateY(math.Pi / 2)))

	pos, normal := mesh.GetVertex(0)
	if !vecNear(pos, math3d.V3(0, 2, -1), 1e-9) {
		t.Errorf("position = %v, want (0, 2, -1)", pos)
	}
	if !vecNear(normal, math3d.V3(0, 0, -1), 1e-9) {
		t.Errorf("normal = %v, want (0, 0, -1)", normal)
	}
	if mesh.BoundsMin != pos || mesh.BoundsMax != pos {
		t.Error("bounds not recalculated")
	}
}

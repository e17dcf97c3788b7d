package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/corona/pkg/math3d"
)

// ErrTessellation is returned for sphere subdivisions too coarse to form a
// closed surface.
var ErrTessellation = errors.New("sphere needs at least 2 rings and 3 sectors")

// GenerateSphere builds a UV sphere of the given radius centered at the
// origin. rings is the number of latitude bands and sectors the number of
// longitude slices. Each vertex normal is its normalized position.
//
// The seam column is duplicated so every ring has sectors+1 vertices; the
// poles are single vertices.
func GenerateSphere(rings, sectors int, radius float64) (*Mesh, error) {
	if rings < 2 || sectors < 3 {
		return nil, fmt.Errorf("%w: got %d rings, %d sectors", ErrTessellation, rings, sectors)
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("sphere radius must be positive, got %v", radius)
	}

	mesh := NewMesh(fmt.Sprintf("sphere-%dx%d", rings, sectors))
	mesh.Vertices = make([]MeshVertex, 0, 2+(rings-1)*(sectors+1))

	// Vertex layout: north pole, then rings-1 latitude rows, then south pole.
	mesh.Vertices = append(mesh.Vertices, MeshVertex{
		Position: math3d.V3(0, radius, 0),
		Normal:   math3d.Up(),
	})
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y, ringRadius := math.Cos(phi), math.Sin(phi)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			n := math3d.V3(ringRadius*math.Cos(theta), y, ringRadius*math.Sin(theta))
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: n.Scale(radius),
				Normal:   n,
			})
		}
	}
	south := len(mesh.Vertices)
	mesh.Vertices = append(mesh.Vertices, MeshVertex{
		Position: math3d.V3(0, -radius, 0),
		Normal:   math3d.V3(0, -1, 0),
	})

	row := func(r, s int) int { return 1 + (r-1)*(sectors+1) + s }

	mesh.Faces = make([]Face, 0, 2*sectors*(rings-1))
	for s := range sectors {
		mesh.Faces = append(mesh.Faces, Face{V: [3]int{0, row(1, s+1), row(1, s)}})
	}
	for r := 1; r < rings-1; r++ {
		for s := range sectors {
			a, b := row(r, s), row(r+1, s)
			mesh.Faces = append(mesh.Faces,
				Face{V: [3]int{a, a + 1, b}},
				Face{V: [3]int{a + 1, b + 1, b}},
			)
		}
	}
	for s := range sectors {
		mesh.Faces = append(mesh.Faces, Face{V: [3]int{south, row(rings-1, s), row(rings-1, s+1)}})
	}

	mesh.CalculateBounds()
	return mesh, nil
}

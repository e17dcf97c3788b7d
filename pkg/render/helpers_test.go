package render

import (
	"math"
	"slices"
	"testing"

	"github.com/taigrr/corona/pkg/math3d"
)

// mockMesh implements Mesh for testing.
type mockMesh struct {
	vertices []Vertex
	faces    [][3]int
}

func (m *mockMesh) VertexCount() int     { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	return m.vertices[i].Position, m.vertices[i].Normal
}

// boundedMesh adds object-space bounds to mockMesh.
type boundedMesh struct {
	*mockMesh
	lo, hi math3d.Vec3
}

func (m boundedMesh) Bounds() (lo, hi math3d.Vec3) { return m.lo, m.hi }

// testSphere builds a unit UV sphere centered at c.
func testSphere(rings, sectors int, c math3d.Vec3) *mockMesh {
	m := &mockMesh{}
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			n := math3d.V3(math.Sin(phi)*math.Cos(theta), math.Cos(phi), math.Sin(phi)*math.Sin(theta))
			m.vertices = append(m.vertices, Vertex{Position: c.Add(n), Normal: n})
		}
	}
	for r := range rings {
		for s := range sectors {
			a := r*(sectors+1) + s
			b := a + sectors + 1
			m.faces = append(m.faces, [3]int{a, b, a + 1}, [3]int{a + 1, b, b + 1})
		}
	}
	return m
}

// testUniforms views the origin from the default orbit camera.
func testUniforms(width, height int, time float64) *Uniforms {
	cam := NewOrbitCamera(float64(width) / float64(height))
	return cam.Uniforms(SunSpin(time), time, 42)
}

// identityUniforms leaves positions untouched, so Clip can be given directly
// in NDC.
func identityUniforms() *Uniforms {
	return &Uniforms{
		Model:      math3d.Identity(),
		View:       math3d.Identity(),
		Projection: math3d.Identity(),
		Time:       0.5,
		Seed:       42,
	}
}

// ndcVertex builds a transformed vertex directly from NDC coordinates.
func ndcVertex(x, y, z float64) TransformedVertex {
	return TransformedVertex{
		Clip:   math3d.V4(x, y, z, 1),
		World:  math3d.V3(x, y, z),
		Normal: math3d.V3(0, 0, 1),
		Depth:  z,
	}
}

func newTestFramebuffer(t testing.TB, width, height int) *Framebuffer {
	t.Helper()
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		t.Fatalf("NewFramebuffer(%d, %d): %v", width, height, err)
	}
	return fb
}

// snapshot copies the color and depth buffers for later comparison.
func snapshot(fb *Framebuffer) ([]Color, []float64) {
	return slices.Clone(fb.pixels), slices.Clone(fb.depth)
}

func countNonBlack(fb *Framebuffer) int {
	n := 0
	for _, c := range fb.Buffer() {
		if c != ColorBlack {
			n++
		}
	}
	return n
}

package render

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taigrr/corona/pkg/math3d"
)

// ErrFaceIndex is returned when a mesh face refers to a vertex that does not
// exist.
var ErrFaceIndex = errors.New("render: face index out of range")

// Mesh is the interface for meshes the pipeline can draw.
type Mesh interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// FrameStats summarizes one DrawMesh call.
type FrameStats struct {
	Triangles int  // Triangles submitted
	Rejected  int  // Triangles dropped by clip rejection
	Fragments int  // Fragments written to the framebuffer
	Culled    bool // Whole mesh skipped by the frustum test
}

// Pipeline runs the vertex and raster stages over a mesh.
type Pipeline struct {
	Shader  SunShader
	Workers int  // Row bands drawn in parallel; <= 1 draws sequentially
	Cull    bool // Skip meshes whose bounds lie outside the view frustum

	transformed []TransformedVertex // Reused between frames
}

// NewPipeline creates a pipeline with the default sun shader.
func NewPipeline(workers int) *Pipeline {
	return &Pipeline{Shader: DefaultSunShader(), Workers: workers}
}

// ValidateMesh checks every face index against the vertex count.
func ValidateMesh(mesh Mesh) error {
	n := mesh.VertexCount()
	for i := range mesh.TriangleCount() {
		for _, idx := range mesh.GetFace(i) {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d refers to vertex %d of %d", ErrFaceIndex, i, idx, n)
			}
		}
	}
	return nil
}

// DrawMesh draws every triangle of mesh into fb using the snapshot u. The
// framebuffer is not cleared. u must not change until DrawMesh returns.
//
// With more than one worker the framebuffer is split into horizontal bands
// and each worker draws every triangle clipped to its own band, so each
// pixel has exactly one writer. The result is identical to the sequential
// path.
func (p *Pipeline) DrawMesh(fb *Framebuffer, mesh Mesh, u *Uniforms) (FrameStats, error) {
	if err := ValidateMesh(mesh); err != nil {
		Logger().Warn("mesh rejected", slog.String("err", err.Error()))
		return FrameStats{}, err
	}

	stats := FrameStats{Triangles: mesh.TriangleCount()}
	if p.Cull && !meshVisible(mesh, u) {
		stats.Culled = true
		Logger().Debug("mesh culled", slog.Int("triangles", stats.Triangles))
		return stats, nil
	}

	p.transformVertices(mesh, u)

	workers := min(max(p.Workers, 1), fb.height)

	if workers == 1 {
		stats.Fragments, stats.Rejected = p.drawBand(newBandRasterizer(fb, p.Shader, 0, fb.height), mesh, u)
	} else {
		stats.Fragments, stats.Rejected = p.drawBands(fb, mesh, u, workers)
	}

	Logger().Debug("frame drawn",
		slog.Int("triangles", stats.Triangles),
		slog.Int("rejected", stats.Rejected),
		slog.Int("fragments", stats.Fragments),
		slog.Int("workers", workers),
	)
	return stats, nil
}

// transformVertices runs the vertex stage once per mesh vertex. The stage is
// pure, so sharing results between faces matches shading every corner.
func (p *Pipeline) transformVertices(mesh Mesh, u *Uniforms) {
	n := mesh.VertexCount()
	if cap(p.transformed) < n {
		p.transformed = make([]TransformedVertex, n)
	}
	p.transformed = p.transformed[:n]

	for i := range n {
		pos, normal := mesh.GetVertex(i)
		p.transformed[i] = VertexShader(Vertex{Position: pos, Normal: normal}, u)
	}
}

func (p *Pipeline) drawBand(r *Rasterizer, mesh Mesh, u *Uniforms) (fragments, rejected int) {
	tv := p.transformed
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		n, rej := r.DrawTriangle(tv[f[0]], tv[f[1]], tv[f[2]], u)
		fragments += n
		if rej {
			rejected++
		}
	}
	return fragments, rejected
}

func (p *Pipeline) drawBands(fb *Framebuffer, mesh Mesh, u *Uniforms, workers int) (fragments, rejected int) {
	rows := (fb.height + workers - 1) / workers
	frags := make([]int, workers)
	rejects := make([]int, workers)

	var wg sync.WaitGroup
	for w := range workers {
		rowMin := w * rows
		rowMax := min(rowMin+rows, fb.height)
		if rowMin >= rowMax {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := newBandRasterizer(fb, p.Shader, rowMin, rowMax)
			frags[w], rejects[w] = p.drawBand(r, mesh, u)
		}()
	}
	wg.Wait()

	for _, n := range frags {
		fragments += n
	}
	// Clip rejection does not depend on the band, so every band agrees.
	return fragments, rejects[0]
}

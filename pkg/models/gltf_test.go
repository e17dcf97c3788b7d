package models

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/corona/pkg/math3d"
)

// writeTriangleGLB saves a single-triangle GLB with uint16 indices and,
// optionally, a normal attribute.
func writeTriangleGLB(t *testing.T, withNormals bool) string {
	t.Helper()

	positions := [][3]float32{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}
	normals := [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}

	var data []byte
	putVecs := func(vs [][3]float32) {
		for _, v := range vs {
			for _, c := range v {
				data = binary.LittleEndian.AppendUint32(data, math.Float32bits(c))
			}
		}
	}
	putVecs(positions)
	normalOffset := len(data)
	putVecs(normals)
	indexOffset := len(data)
	for _, i := range []uint16{0, 1, 2} {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	doc := &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0"},
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: normalOffset},
			{Buffer: 0, ByteOffset: normalOffset, ByteLength: indexOffset - normalOffset},
			{Buffer: 0, ByteOffset: indexOffset, ByteLength: len(data) - indexOffset},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(2), ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
		},
	}

	attrs := map[string]int{gltf.POSITION: 0}
	if withNormals {
		attrs[gltf.NORMAL] = 1
	}
	doc.Meshes = []*gltf.Mesh{{
		Name:       "tri",
		Primitives: []*gltf.Primitive{{Attributes: attrs, Indices: gltf.Index(2)}},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}
	return path
}

func TestLoadGLB(t *testing.T) {
	mesh, err := LoadGLB(writeTriangleGLB(t, true))
	if err != nil {
		t.Fatal(err)
	}
	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d faces", mesh.VertexCount(), mesh.TriangleCount())
	}
	if mesh.GetFace(0) != [3]int{0, 1, 2} {
		t.Errorf("face = %v", mesh.GetFace(0))
	}
	if p, n := mesh.GetVertex(1); p != math3d.V3(0, 2, 0) || n != math3d.V3(0, 0, 1) {
		t.Errorf("vertex 1 = %v, %v", p, n)
	}
	if lo, hi := mesh.Bounds(); lo != math3d.Zero3() || hi != math3d.V3(1, 2, 3) {
		t.Errorf("bounds = %v, %v", lo, hi)
	}
}

func TestLoadGLBSynthesizesNormals(t *testing.T) {
	path := writeTriangleGLB(t, false)

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range mesh.Vertices {
		if !vecNear(v.Normal, v.Position.Normalize(), 1e-12) {
			t.Errorf("vertex %d normal = %v, want normalized position", i, v.Normal)
		}
	}

	smooth, err := Load(path, LoadOptions{SmoothNormals: true})
	if err != nil {
		t.Fatal(err)
	}
	// All three corners share the one face normal.
	want := smooth.Vertices[0].Normal
	if math.Abs(want.Len()-1) > 1e-9 {
		t.Fatalf("smooth normal not unit length: %v", want)
	}
	for i, v := range smooth.Vertices {
		if !vecNear(v.Normal, want, 1e-12) {
			t.Errorf("vertex %d normal = %v, want %v", i, v.Normal, want)
		}
	}
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

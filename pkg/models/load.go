package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LoadOptions controls how a model file is turned into a Mesh.
type LoadOptions struct {
	// SmoothNormals fills missing normals from adjacent faces instead of the
	// normalized position.
	SmoothNormals bool
	// Normalize centers the mesh and scales its largest dimension to 2.
	Normalize bool
}

// Load reads a model file, picking the loader by extension: .obj, .glb or
// .gltf.
func Load(path string, opts LoadOptions) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = loadOBJ(path, opts.SmoothNormals)
	case ".glb", ".gltf":
		mesh, err = (&GLTFLoader{SmoothNormals: opts.SmoothNormals}).Load(path)
	default:
		return nil, fmt.Errorf("unsupported model format: %q (use .obj, .glb or .gltf)", ext)
	}
	if err != nil {
		return nil, err
	}

	if opts.Normalize {
		mesh.Normalize()
	}
	return mesh, nil
}

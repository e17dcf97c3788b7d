package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/corona/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Polygons are fan-triangulated and
// vertices without a normal get their normalized position.
func LoadOBJ(path string) (*Mesh, error) {
	return loadOBJ(path, false)
}

func loadOBJ(path string, smooth bool) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, hasNormal, err := parseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	if smooth {
		mesh.smoothNormals(hasNormal)
	} else {
		mesh.synthesizeNormals(hasNormal)
	}
	return mesh, nil
}

// objCorner is one face corner: 0-based position index and normal index,
// with -1 for a missing normal.
type objCorner struct {
	pos, norm int
}

// ParseOBJ reads OBJ geometry from r. Only v, vn and f records are used;
// texture coordinates, groups and materials are skipped. Each unique
// (position, normal) pair becomes one mesh vertex.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh, hasNormal, err := parseOBJ(r)
	if err != nil {
		return nil, err
	}
	mesh.synthesizeNormals(hasNormal)
	return mesh, nil
}

// parseOBJ builds the mesh and reports which vertices carried a normal.
func parseOBJ(r io.Reader) (*Mesh, []bool, error) {
	var (
		positions []math3d.Vec3
		normals   []math3d.Vec3
		hasNormal []bool
		corners   []objCorner
	)
	mesh := NewMesh("obj")
	index := make(map[objCorner]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, n)

		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners = corners[:0]
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(normals))
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, c)
			}

			ids := make([]int, len(corners))
			for i, c := range corners {
				id, ok := index[c]
				if !ok {
					id = len(mesh.Vertices)
					index[c] = id
					v := MeshVertex{Position: positions[c.pos]}
					if c.norm >= 0 {
						v.Normal = normals[c.norm].Normalize()
					}
					mesh.Vertices = append(mesh.Vertices, v)
					hasNormal = append(hasNormal, c.norm >= 0)
				}
				ids[i] = id
			}
			for i := 1; i+1 < len(ids); i++ {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{ids[0], ids[i], ids[i+1]}})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(mesh.Faces) == 0 {
		return nil, nil, fmt.Errorf("no faces")
	}

	mesh.CalculateBounds()
	return mesh, hasNormal, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, err
		}
		c[i] = v
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn. Indices are 1-based;
// negative indices count back from the latest record.
func parseCorner(tok string, npos, nnorm int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("bad face vertex %q", tok)
	}

	pos, err := resolveIndex(parts[0], npos)
	if err != nil {
		return objCorner{}, fmt.Errorf("face vertex %q: %w", tok, err)
	}
	c := objCorner{pos: pos, norm: -1}
	if len(parts) == 3 && parts[2] != "" {
		if c.norm, err = resolveIndex(parts[2], nnorm); err != nil {
			return objCorner{}, fmt.Errorf("face normal %q: %w", tok, err)
		}
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("%w: %d of %d", ErrFaceIndex, i, n)
}

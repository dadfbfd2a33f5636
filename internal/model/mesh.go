// Package model loads mesh assets for a sketch.
package model

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/scene"
)

// LoadMesh reads a mesh file (OBJ, STL, PLY or 3DS, chosen by extension)
// into indexed geometry named after the file.
func LoadMesh(path string) (g *scene.Geometry, err error) {
	// fauxgl indexes face records without bounds checks
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("model: %s: malformed: %v", path, r)
		}
	}()

	m, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("model: load %s: %w", path, err)
	}
	g = FromMesh(m)
	if len(g.Tris) == 0 {
		return nil, fmt.Errorf("model: %s: no faces", path)
	}
	g.Name = filepath.Base(path)
	return g, nil
}

// FromMesh converts fauxgl triangles into shared vertex and texcoord arrays.
// Identical positions and texcoords are merged. A triangle whose three
// texcoords are all zero has none.
func FromMesh(m *fauxgl.Mesh) *scene.Geometry {
	g := &scene.Geometry{}
	verts := make(map[mgl64.Vec3]int32)
	uvs := make(map[mgl64.Vec2]int32)

	vertex := func(v fauxgl.Vector) int32 {
		p := mgl64.Vec3{v.X, v.Y, v.Z}
		i, ok := verts[p]
		if !ok {
			i = int32(len(g.Verts))
			verts[p] = i
			g.Verts = append(g.Verts, p)
		}
		return i
	}
	texcoord := func(v fauxgl.Vector) int32 {
		uv := mgl64.Vec2{v.X, v.Y}
		i, ok := uvs[uv]
		if !ok {
			i = int32(len(g.UVs))
			uvs[uv] = i
			g.UVs = append(g.UVs, uv)
		}
		return i
	}

	for _, t := range m.Triangles {
		if t == nil {
			continue
		}
		corners := [3]fauxgl.Vertex{t.V1, t.V2, t.V3}
		var tri scene.Triangle
		textured := false
		for k, c := range corners {
			tri.VI[k] = vertex(c.Position)
			textured = textured || c.Texture.X != 0 || c.Texture.Y != 0
		}
		for k, c := range corners {
			tri.TI[k] = -1
			if textured {
				tri.TI[k] = texcoord(c.Texture)
			}
		}
		g.Tris = append(g.Tris, tri)
	}
	return g
}

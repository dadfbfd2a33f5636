package model

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"
)

const quadOBJ = `# a unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMeshOBJQuad(t *testing.T) {
	g, err := LoadMesh(writeFile(t, "quad.obj", []byte(quadOBJ)))
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if g.Name != "quad.obj" {
		t.Errorf("Name = %q, want quad.obj", g.Name)
	}
	if len(g.Tris) != 2 {
		t.Fatalf("got %d triangles, want 2 (fan of a quad)", len(g.Tris))
	}
	if len(g.Verts) != 4 || len(g.UVs) != 4 {
		t.Errorf("got %d verts %d uvs, want shared corners: 4 and 4", len(g.Verts), len(g.UVs))
	}
	for i, tri := range g.Tris {
		for k := 0; k < 3; k++ {
			if tri.TI[k] < 0 || int(tri.TI[k]) >= len(g.UVs) {
				t.Errorf("triangle %d corner %d: TI = %d", i, k, tri.TI[k])
			}
		}
	}
	lo, hi := g.Bounds()
	if lo != (mgl64.Vec3{0, 0, 0}) || hi != (mgl64.Vec3{1, 1, 0}) {
		t.Errorf("bounds = %v..%v, want unit square", lo, hi)
	}
}

func TestLoadMeshOBJWithoutTexcoords(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f -3//1 -2//1 -1//1
`
	g, err := LoadMesh(writeFile(t, "tri.obj", []byte(src)))
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	tri := g.Tris[0]
	if tri.VI != [3]int32{0, 1, 2} {
		t.Errorf("VI = %v, want [0 1 2]", tri.VI)
	}
	if tri.TI != [3]int32{-1, -1, -1} {
		t.Errorf("TI = %v, want no texcoords", tri.TI)
	}
	if len(g.UVs) != 0 {
		t.Errorf("UVs = %v, want none", g.UVs)
	}
}

func TestLoadMeshBinarySTL(t *testing.T) {
	type facet struct {
		N, V1, V2, V3 [3]float32
		Attr          uint16
	}
	facets := []facet{
		{V1: [3]float32{0, 0, 0}, V2: [3]float32{1, 0, 0}, V3: [3]float32{1, 1, 0}},
		{V1: [3]float32{0, 0, 0}, V2: [3]float32{1, 1, 0}, V3: [3]float32{0, 1, 0}},
	}
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(len(facets)))
	binary.Write(&buf, binary.LittleEndian, facets)

	g, err := LoadMesh(writeFile(t, "quad.stl", buf.Bytes()))
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if len(g.Tris) != 2 || len(g.Verts) != 4 {
		t.Errorf("got %d triangles %d verts, want 2 and 4", len(g.Tris), len(g.Verts))
	}
	for _, tri := range g.Tris {
		if tri.TI != [3]int32{-1, -1, -1} {
			t.Errorf("TI = %v, want no texcoords", tri.TI)
		}
	}
}

func TestLoadMeshErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
	}{
		{"no_faces", "a.obj", "v 0 0 0\n"},
		{"index_out_of_range", "a.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{"two_corners", "a.obj", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"unknown_extension", "a.xyz", quadOBJ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMesh(writeFile(t, tt.file, []byte(tt.src))); err == nil {
				t.Errorf("LoadMesh succeeded, want error")
			}
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		if _, err := LoadMesh(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
			t.Errorf("LoadMesh succeeded, want error")
		}
	})
}

func TestFromMeshMergesCorners(t *testing.T) {
	textured := &fauxgl.Triangle{}
	textured.V1.Position, textured.V1.Texture = fauxgl.V(0, 0, 0), fauxgl.V(0, 0, 0)
	textured.V2.Position, textured.V2.Texture = fauxgl.V(1, 0, 0), fauxgl.V(1, 0, 0)
	textured.V3.Position, textured.V3.Texture = fauxgl.V(0, 1, 0), fauxgl.V(0, 1, 0)

	plain := &fauxgl.Triangle{}
	plain.V1.Position = fauxgl.V(1, 0, 0)
	plain.V2.Position = fauxgl.V(1, 1, 0)
	plain.V3.Position = fauxgl.V(0, 1, 0)

	g := FromMesh(fauxgl.NewTriangleMesh([]*fauxgl.Triangle{textured, plain}))

	if len(g.Verts) != 4 {
		t.Errorf("verts = %d, want 4 (two shared)", len(g.Verts))
	}
	if g.Tris[1].VI != [3]int32{1, 3, 2} {
		t.Errorf("second VI = %v, want [1 3 2]", g.Tris[1].VI)
	}
	// a corner at UV (0, 0) still counts when the others are set
	if g.Tris[0].TI != [3]int32{0, 1, 2} {
		t.Errorf("first TI = %v, want [0 1 2]", g.Tris[0].TI)
	}
	if g.Tris[1].TI != [3]int32{-1, -1, -1} {
		t.Errorf("second TI = %v, want none", g.Tris[1].TI)
	}
}

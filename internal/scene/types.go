package scene

import "github.com/go-gl/mathgl/mgl64"

// Triangle holds index triples into a geometry's vertex and texcoord arrays.
// A negative TI entry means the corner has no texture coordinate.
type Triangle struct {
	VI [3]int32
	TI [3]int32
}

// Geometry is immutable mesh data shared between a mesh and its snapshots.
type Geometry struct {
	Name  string
	Verts []mgl64.Vec3
	UVs   []mgl64.Vec2
	Tris  []Triangle
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (g *Geometry) Bounds() (lo, hi mgl64.Vec3) {
	if len(g.Verts) == 0 {
		return lo, hi
	}
	lo, hi = g.Verts[0], g.Verts[0]
	for _, v := range g.Verts[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	return lo, hi
}

// Box returns an axis-aligned cube of edge length size centred on the origin,
// with one full UV square per face.
func Box(size float64) *Geometry {
	h := size / 2
	g := &Geometry{Name: "box"}

	// each face: normal axis, corners in counter-clockwise order seen from outside
	faces := [6][4]mgl64.Vec3{
		{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}},     // +X
		{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}, // -X
		{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}},     // +Y
		{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}, // -Y
		{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}},     // +Z
		{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}, // -Z
	}
	g.UVs = []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	for _, f := range faces {
		base := int32(len(g.Verts))
		g.Verts = append(g.Verts, f[:]...)
		g.Tris = append(g.Tris,
			Triangle{VI: [3]int32{base, base + 1, base + 2}, TI: [3]int32{0, 1, 2}},
			Triangle{VI: [3]int32{base, base + 2, base + 3}, TI: [3]int32{0, 2, 3}},
		)
	}
	return g
}

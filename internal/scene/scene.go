// Package scene holds the camera, lights and meshes a sketch mutates each
// tick, and the immutable snapshots the rasterizer draws.
package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera. Orientation maps the local -Z axis to the
// viewing direction.
type Camera struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	FOV         float64 // vertical, degrees
	Aspect      float64
	Near, Far   float64
}

// NewCamera returns a camera at the origin looking down -Z.
func NewCamera(fov, aspect, near, far float64) *Camera {
	return &Camera{
		Orientation: mgl64.QuatIdent(),
		FOV:         fov,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
	}
}

func (c *Camera) SetPosition(p mgl64.Vec3)    { c.Position = p }
func (c *Camera) SetOrientation(q mgl64.Quat) { c.Orientation = q }

// Resize updates the aspect ratio for a new viewport. Zero-sized viewports
// are ignored.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// PointLight is an omnidirectional light. Color is linear RGB in [0, 1].
type PointLight struct {
	Position  mgl64.Vec3
	Color     [3]float64
	Intensity float64
	Decay     float64 // quadratic falloff coefficient; 0 disables falloff
}

func (l *PointLight) SetPosition(p mgl64.Vec3) { l.Position = p }

// SetOrientation is a no-op: point lights have no direction.
func (l *PointLight) SetOrientation(mgl64.Quat) {}

// Mesh places shared geometry in the scene.
type Mesh struct {
	Name        string
	Geometry    *Geometry
	Texture     string
	Tint        color.NRGBA
	Additive    bool
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       mgl64.Vec3
}

// NewMesh returns a mesh at the origin with unit scale and a white tint.
func NewMesh(name string, g *Geometry) *Mesh {
	return &Mesh{
		Name:        name,
		Geometry:    g,
		Tint:        color.NRGBA{255, 255, 255, 255},
		Orientation: mgl64.QuatIdent(),
		Scale:       mgl64.Vec3{1, 1, 1},
	}
}

func (m *Mesh) SetPosition(p mgl64.Vec3)    { m.Position = p }
func (m *Mesh) SetOrientation(q mgl64.Quat) { m.Orientation = q }

// Model returns the mesh's model matrix T·R·S.
func (m *Mesh) Model() mgl64.Mat4 {
	t := mgl64.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	s := mgl64.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	return t.Mul4(m.Orientation.Mat4()).Mul4(s)
}

// Scene is the mutable state of a sketch. It is owned by the tick goroutine.
type Scene struct {
	Background color.NRGBA
	Ambient    float64
	Camera     *Camera
	Lights     []*PointLight
	Meshes     []*Mesh
}

// AddLight appends a light and returns it.
func (s *Scene) AddLight(l *PointLight) *PointLight {
	s.Lights = append(s.Lights, l)
	return l
}

// AddMesh appends a mesh and returns it.
func (s *Scene) AddMesh(m *Mesh) *Mesh {
	s.Meshes = append(s.Meshes, m)
	return m
}

// Snapshot is a frozen copy of a scene. Geometry is shared, everything else
// is copied, so a snapshot can be rendered while the scene keeps ticking.
type Snapshot struct {
	Background color.NRGBA
	Ambient    float64
	Camera     Camera
	Lights     []PointLight
	Meshes     []Mesh
}

// Snapshot copies the current state.
func (s *Scene) Snapshot() *Snapshot {
	snap := &Snapshot{
		Background: s.Background,
		Ambient:    s.Ambient,
		Lights:     make([]PointLight, len(s.Lights)),
		Meshes:     make([]Mesh, len(s.Meshes)),
	}
	if s.Camera != nil {
		snap.Camera = *s.Camera
	}
	for i, l := range s.Lights {
		snap.Lights[i] = *l
	}
	for i, m := range s.Meshes {
		snap.Meshes[i] = *m
	}
	return snap
}

// Package viewmatrix builds camera matrices and projects vertices to screen
// space for the rasterizer.
package viewmatrix

import (
	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/scene"
)

// View returns the world-to-camera matrix: inverse(T·R) = Rᵀ·T(-p).
func View(cam *scene.Camera) mgl64.Mat4 {
	p := cam.Position
	return cam.Orientation.Conjugate().Mat4().Mul4(mgl64.Translate3D(-p[0], -p[1], -p[2]))
}

// Projection returns the perspective matrix for cam with the given aspect
// ratio. A non-positive aspect falls back to cam.Aspect, then 1.
func Projection(cam *scene.Camera, aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = cam.Aspect
	}
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(cam.FOV), aspect, cam.Near, cam.Far)
}

// Projected holds screen-space vertices for one mesh. Depth is view-space z:
// negative in front of the camera, larger is closer.
type Projected struct {
	X, Y, Z []float64
	World   []mgl64.Vec3
	Visible []bool // between the near and far planes
}

// ProjectVertices transforms mesh vertices by model, then to a width×height
// screen. Vertices behind the near plane are flagged invisible; their screen
// coordinates are left at zero.
func ProjectVertices(verts []mgl64.Vec3, model, view, proj mgl64.Mat4, near, far float64, width, height int) Projected {
	n := len(verts)
	out := Projected{
		X:       make([]float64, n),
		Y:       make([]float64, n),
		Z:       make([]float64, n),
		World:   make([]mgl64.Vec3, n),
		Visible: make([]bool, n),
	}

	halfW := float64(width) / 2
	halfH := float64(height) / 2

	for i, v := range verts {
		w := model.Mul4x1(v.Vec4(1)).Vec3()
		out.World[i] = w

		e := view.Mul4x1(w.Vec4(1))
		out.Z[i] = e[2]
		if e[2] > -near || e[2] < -far {
			continue
		}

		c := proj.Mul4x1(e)
		if c[3] <= 0 {
			continue
		}
		out.X[i] = (c[0]/c[3] + 1) * halfW
		out.Y[i] = (1 - c[1]/c[3]) * halfH
		out.Visible[i] = true
	}
	return out
}

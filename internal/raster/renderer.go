package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/scene"
	"sketch-renderer/internal/texture"
	"sketch-renderer/internal/viewmatrix"
)

// Render rasterizes a scene snapshot to a (width·supersample)×(height·supersample)
// NRGBA image. The camera's aspect ratio is used when set, else the frame's.
// texResolver may be nil.
func Render(snap *scene.Snapshot, texResolver texture.Resolver, width, height, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	rw, rh := width*supersample, height*supersample
	if rw <= 0 || rh <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	cam := snap.Camera
	view := viewmatrix.View(&cam)
	aspect := cam.Aspect
	if aspect <= 0 {
		aspect = float64(rw) / float64(rh)
	}
	proj := viewmatrix.Projection(&cam, aspect)

	// Allocate framebuffer
	fb := NewFrameBuffer(rw, rh, snap.Background)
	lc := NewLightConfig(snap)

	// Opaque meshes first so additive ones blend over the final depth.
	for pass := 0; pass < 2; pass++ {
		for i := range snap.Meshes {
			mesh := &snap.Meshes[i]
			if mesh.Additive != (pass == 1) {
				continue
			}
			renderMesh(fb, mesh, texResolver, &lc, view, proj, cam.Near, cam.Far)
		}
	}

	// Convert framebuffer to image
	img := image.NewNRGBA(image.Rect(0, 0, rw, rh))
	copy(img.Pix, fb.Color)

	return img
}

func renderMesh(fb *FrameBuffer, mesh *scene.Mesh, texResolver texture.Resolver, lc *LightConfig, view, proj mgl64.Mat4, near, far float64) {
	g := mesh.Geometry
	if g == nil || len(g.Verts) == 0 {
		return
	}

	p := viewmatrix.ProjectVertices(g.Verts, mesh.Model(), view, proj, near, far, fb.Width, fb.Height)

	// Load texture
	var tex *image.NRGBA
	if texResolver != nil {
		tex = texResolver.Resolve(mesh.Texture)
	}

	// Default color: tinted texture average, or the tint alone
	base := mesh.Tint
	if tex != nil {
		r, gg, b, a := averageColor(tex)
		base = color.NRGBA{modulate(r, base.R), modulate(gg, base.G), modulate(b, base.B), modulate(a, base.A)}
	}

	nv, nuv := len(g.Verts), len(g.UVs)
	var f Face
	for _, tri := range g.Tris {
		ok := true
		for k := 0; k < 3; k++ {
			vi := int(tri.VI[k])
			if vi < 0 || vi >= nv || !p.Visible[vi] {
				ok = false
				break
			}
			f.X[k], f.Y[k], f.Z[k] = p.X[vi], p.Y[vi], p.Z[vi]
		}
		if !ok {
			continue
		}

		// Face normal for flat shading, in world space
		a, b, c := p.World[tri.VI[0]], p.World[tri.VI[1]], p.World[tri.VI[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() < 1e-12 {
			continue
		}
		n = n.Normalize()
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		f.Shade = lc.Shade(centroid, n)

		f.HasUV = true
		for k := 0; k < 3; k++ {
			ti := int(tri.TI[k])
			if ti < 0 || ti >= nuv {
				f.HasUV = false
				break
			}
			f.UV[k] = g.UVs[ti]
		}

		if mesh.Additive {
			RasterizeTriangleAdditive(fb, &f, tex, base, mesh.Tint, lc)
		} else {
			RasterizeTriangle(fb, &f, tex, base, mesh.Tint, lc)
		}
	}
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 160, 160, 170, 255
	}

	var sumR, sumG, sumB float64
	total := w * h
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(total)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}

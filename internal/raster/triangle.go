package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is one screen-space triangle ready for rasterization.
type Face struct {
	X, Y, Z [3]float64    // screen position and view depth per corner
	UV      [3]mgl64.Vec2 // ignored when HasUV is false
	HasUV   bool
	Shade   [3]float64 // per-channel lighting factor
}

// RasterizeTriangle rasterizes a single triangle with texture mapping, z-buffer,
// sRGB color space, lighting, and ACES tone mapping.
//
// This is the HOT PATH — designed for zero allocation in the inner loop.
// All lighting is flat-shaded (per-face, not per-pixel). Texels are
// modulated by tint; without a texture the base color is used as is.
func RasterizeTriangle(fb *FrameBuffer, f *Face, tex *image.NRGBA, base, tint color.NRGBA, lc *LightConfig) {
	rasterize(fb, f, tex, base, tint, lc, false)
}

// RasterizeTriangleAdditive renders a triangle with additive blending.
// The z-buffer is tested but not written, and colors are ADDED to the
// existing framebuffer values. Used for glow meshes.
func RasterizeTriangleAdditive(fb *FrameBuffer, f *Face, tex *image.NRGBA, base, tint color.NRGBA, lc *LightConfig) {
	rasterize(fb, f, tex, base, tint, lc, true)
}

func rasterize(fb *FrameBuffer, f *Face, tex *image.NRGBA, base, tint color.NRGBA, lc *LightConfig, additive bool) {
	x0, y0, z0 := f.X[0], f.Y[0], f.Z[0]
	x1, y1, z1 := f.X[1], f.Y[1], f.Z[1]
	x2, y2, z2 := f.X[2], f.Y[2], f.Z[2]

	hasUV := tex != nil && f.HasUV
	u0, v0uv := f.UV[0][0], f.UV[0][1]
	u1, v1uv := f.UV[1][0], f.UV[1][1]
	u2, v2uv := f.UV[2][0], f.UV[2][1]

	// Bounding box
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	sr := f.Shade[0] * lc.Exposure
	sg := f.Shade[1] * lc.Exposure
	sb := f.Shade[2] * lc.Exposure
	invGamma := lc.InvGamma

	// Pixel loop — zero allocations
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0uv + w1*v1uv + w2*v2uv
				cr, cg, cb, ca = SampleTexture(tex, u, v)
				cr, cg, cb, ca = modulate(cr, tint.R), modulate(cg, tint.G), modulate(cb, tint.B), modulate(ca, tint.A)
			} else {
				cr, cg, cb, ca = base.R, base.G, base.B, base.A
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}

			// sRGB decode → linear (LUT), shading, ACES, linear → sRGB
			fr := math.Pow(ACESTonemap(srgbToLinear[cr]*sr), invGamma) * 255
			fg := math.Pow(ACESTonemap(srgbToLinear[cg]*sg), invGamma) * 255
			ffb := math.Pow(ACESTonemap(srgbToLinear[cb]*sb), invGamma) * 255

			pxIdx := zIdx * 4
			if additive {
				fb.Color[pxIdx] = clamp255(float64(fb.Color[pxIdx]) + fr)
				fb.Color[pxIdx+1] = clamp255(float64(fb.Color[pxIdx+1]) + fg)
				fb.Color[pxIdx+2] = clamp255(float64(fb.Color[pxIdx+2]) + ffb)
				// Alpha: use brightness of added color (dark pixels stay transparent)
				lum := clamp255(fr*0.299 + fg*0.587 + ffb*0.114)
				if lum > fb.Color[pxIdx+3] {
					fb.Color[pxIdx+3] = lum
				}
				continue
			}

			fb.ZBuf[zIdx] = z
			fb.Color[pxIdx] = clamp255(fr)
			fb.Color[pxIdx+1] = clamp255(fg)
			fb.Color[pxIdx+2] = clamp255(ffb)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func modulate(c, t uint8) uint8 {
	return uint8((uint16(c)*uint16(t) + 127) / 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

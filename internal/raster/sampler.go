package raster

import (
	"image"
	"math"
)

// SampleTexture filters tex bilinearly at (u, v) with repeat wrapping.
// Texel centres sit at (i+0.5)/size and v = 0 is the bottom row of the image,
// as in OpenGL. Colour is weighted by alpha so transparent texels do not
// bleed into opaque neighbours.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	fx := fract(u)*float64(w) - 0.5
	fy := (1-fract(v))*float64(h) - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-x0f, fy-y0f
	x0, y0 := wrapIndex(int(x0f), w), wrapIndex(int(y0f), h)
	x1, y1 := (x0+1)%w, (y0+1)%h

	var sr, sg, sb, sa float64
	add := func(x, y int, weight float64) {
		i := tex.PixOffset(tex.Rect.Min.X+x, tex.Rect.Min.Y+y)
		wa := weight * float64(tex.Pix[i+3])
		sr += float64(tex.Pix[i]) * wa
		sg += float64(tex.Pix[i+1]) * wa
		sb += float64(tex.Pix[i+2]) * wa
		sa += wa
	}
	add(x0, y0, (1-dx)*(1-dy))
	add(x1, y0, dx*(1-dy))
	add(x0, y1, (1-dx)*dy)
	add(x1, y1, dx*dy)

	if sa <= 0 {
		return 0, 0, 0, 0
	}
	return uint8(sr/sa + 0.5), uint8(sg/sa + 0.5), uint8(sb/sa + 0.5), uint8(sa + 0.5)
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func wrapIndex(i, n int) int {
	return (i%n + n) % n
}

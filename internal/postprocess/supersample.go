package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled frame to width×height. The CatmullRom
// kernel filters in premultiplied alpha, so transparent edges keep their
// colour instead of darkening. Frames already within size are returned as is.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
	return unpremultiply(scaled)
}

func unpremultiply(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	for i := 0; i < len(src.Pix); i += 4 {
		a := src.Pix[i+3]
		dst.Pix[i+3] = a
		if a == 0 {
			continue
		}
		inv := 255 / float64(a)
		dst.Pix[i] = clamp8(float64(src.Pix[i]) * inv)
		dst.Pix[i+1] = clamp8(float64(src.Pix[i+1]) * inv)
		dst.Pix[i+2] = clamp8(float64(src.Pix[i+2]) * inv)
	}
	return dst
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

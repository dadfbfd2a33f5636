package postprocess

import (
	"image"
	"math"
)

// Vignette darkens the frame towards its corners. Strength 0 leaves the image
// untouched, 1 takes the corners to black. The image is modified in place and
// returned. Alpha is preserved.
func Vignette(img *image.NRGBA, strength float64) *image.NRGBA {
	if strength <= 0 {
		return img
	}
	strength = math.Min(strength, 1)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}
	cx, cy := float64(w)/2, float64(h)/2
	maxR2 := cx*cx + cy*cy

	for y := 0; y < h; y++ {
		dy := float64(y) + 0.5 - cy
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - cx
			// smooth falloff: 1 at the centre, 1-strength at the corners
			r2 := (dx*dx + dy*dy) / maxR2
			f := 1 - strength*r2*r2

			i := off + x*4
			img.Pix[i] = clamp8(float64(img.Pix[i]) * f)
			img.Pix[i+1] = clamp8(float64(img.Pix[i+1]) * f)
			img.Pix[i+2] = clamp8(float64(img.Pix[i+2]) * f)
		}
	}
	return img
}

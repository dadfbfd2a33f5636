package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/scene"
)

// LightConfig holds the per-frame lighting parameters.
type LightConfig struct {
	Ambient   float64
	Hemi      float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
	Lights    []scene.PointLight
}

// NewLightConfig returns the standard exposure and hemisphere fill with the
// snapshot's ambient term and point lights.
func NewLightConfig(snap *scene.Snapshot) LightConfig {
	return LightConfig{
		Ambient:   snap.Ambient,
		Hemi:      0.35,
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
		Lights:    snap.Lights,
	}
}

// Shade returns the per-channel lighting factor for a face with world-space
// centroid p and unit normal n. Faces are lit from both sides.
func (lc *LightConfig) Shade(p, n mgl64.Vec3) [3]float64 {
	// Hemisphere fill
	hemi := ((1.0-math.Abs(n[1]))*0.5 + 0.5) * lc.Hemi
	base := lc.Ambient + hemi
	shade := [3]float64{base, base, base}

	for i := range lc.Lights {
		l := &lc.Lights[i]
		d := l.Position.Sub(p)
		dist := d.Len()
		if dist < 1e-8 {
			continue
		}
		ndl := math.Abs(n.Dot(d) / dist)
		atten := l.Intensity / (1 + l.Decay*dist*dist)
		for k := 0; k < 3; k++ {
			shade[k] += l.Color[k] * ndl * atten
		}
	}
	return shade
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

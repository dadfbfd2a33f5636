package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/scene"
)

var bg = color.NRGBA{10, 20, 30, 255}

func boxSnapshot(orientation mgl64.Quat) *scene.Snapshot {
	s := &scene.Scene{Background: bg, Ambient: 0.5}
	s.Camera = scene.NewCamera(60, 4.0/3.0, 0.1, 100)
	s.Camera.SetPosition(mgl64.Vec3{0, 0, 5})
	s.Camera.SetOrientation(orientation)
	s.AddMesh(scene.NewMesh("box", scene.Box(2)))
	return s.Snapshot()
}

func pixel(img *image.NRGBA, x, y int) color.NRGBA {
	return img.NRGBAAt(x, y)
}

func TestRenderBoxInFront(t *testing.T) {
	img := Render(boxSnapshot(mgl64.QuatIdent()), nil, 32, 24, 1)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Fatalf("bounds = %v, want 32x24", b)
	}
	if c := pixel(img, 16, 12); c == bg {
		t.Errorf("centre pixel is background, want box")
	}
	if c := pixel(img, 0, 0); c != bg {
		t.Errorf("corner pixel = %v, want background %v", c, bg)
	}
}

func TestRenderFacingAwayDrawsBackground(t *testing.T) {
	away := mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})
	img := Render(boxSnapshot(away), nil, 32, 24, 1)
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			if c := pixel(img, x, y); c != bg {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, c)
			}
		}
	}
}

func TestRenderUsesCameraAspect(t *testing.T) {
	// a box right of the view: outside a square frustum, inside a 3:1 one
	snapshot := func(aspect float64) *scene.Snapshot {
		s := &scene.Scene{Background: bg, Ambient: 0.5}
		s.Camera = scene.NewCamera(60, aspect, 0.1, 100)
		box := s.AddMesh(scene.NewMesh("box", scene.Box(1)))
		box.SetPosition(mgl64.Vec3{8, 0, -10})
		return s.Snapshot()
	}

	if c := pixel(Render(snapshot(1), nil, 32, 32, 1), 23, 16); c != bg {
		t.Errorf("aspect 1: pixel = %v, want background", c)
	}
	if c := pixel(Render(snapshot(3), nil, 32, 32, 1), 23, 16); c == bg {
		t.Errorf("aspect 3: pixel is background, want box")
	}
	if c := pixel(Render(snapshot(0), nil, 32, 32, 1), 23, 16); c != bg {
		t.Errorf("unset aspect: pixel = %v, want background (frame is square)", c)
	}
}

func TestRenderSupersampleSize(t *testing.T) {
	img := Render(boxSnapshot(mgl64.QuatIdent()), nil, 20, 10, 3)
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 30 {
		t.Errorf("bounds = %v, want 60x30", b)
	}
}

func TestPointLightBrightens(t *testing.T) {
	dark := boxSnapshot(mgl64.QuatIdent())
	lit := boxSnapshot(mgl64.QuatIdent())
	lit.Lights = []scene.PointLight{{
		Position:  mgl64.Vec3{0, 0, 4},
		Color:     [3]float64{1, 1, 1},
		Intensity: 1,
	}}

	d := pixel(Render(dark, nil, 32, 24, 1), 16, 12)
	l := pixel(Render(lit, nil, 32, 24, 1), 16, 12)
	if l.R <= d.R {
		t.Errorf("lit R = %d, unlit R = %d; want brighter", l.R, d.R)
	}
}

type solidResolver struct{ img *image.NRGBA }

func (r solidResolver) Resolve(string) *image.NRGBA { return r.img }

func TestRenderSamplesTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(tex.Pix); i += 4 {
		tex.Pix[i], tex.Pix[i+3] = 255, 255
	}

	img := Render(boxSnapshot(mgl64.QuatIdent()), solidResolver{tex}, 32, 24, 1)
	c := pixel(img, 16, 12)
	if c.R < 200 || c.G != 0 || c.B != 0 {
		t.Errorf("centre = %v, want shaded red", c)
	}
}

func TestTintModulatesUntexturedMesh(t *testing.T) {
	snap := boxSnapshot(mgl64.QuatIdent())
	snap.Meshes[0].Tint = color.NRGBA{0, 255, 0, 255}

	c := pixel(Render(snap, nil, 32, 24, 1), 16, 12)
	if c.G == 0 || c.R != 0 || c.B != 0 {
		t.Errorf("centre = %v, want green", c)
	}
}

func TestShadeFalloff(t *testing.T) {
	lc := LightConfig{Lights: []scene.PointLight{{
		Position:  mgl64.Vec3{0, 0, 2},
		Color:     [3]float64{1, 0.5, 0},
		Intensity: 2,
		Decay:     1,
	}}}
	s := lc.Shade(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1})
	// 2 / (1 + 1·2²) = 0.4
	want := [3]float64{0.4, 0.2, 0}
	for k := range s {
		if math.Abs(s[k]-want[k]) > 1e-12 {
			t.Errorf("shade[%d] = %v, want %v", k, s[k], want[k])
		}
	}
}

func TestSampleTexture(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	white := color.NRGBA{255, 255, 255, 255}
	green := color.NRGBA{0, 255, 0, 255}

	column := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	column.SetNRGBA(0, 0, red)
	column.SetNRGBA(0, 1, blue)

	edge := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	edge.SetNRGBA(0, 0, white) // right texel stays transparent black

	atlas := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	atlas.SetNRGBA(2, 2, green)
	cell := atlas.SubImage(image.Rect(2, 2, 3, 3)).(*image.NRGBA)

	tests := []struct {
		name string
		tex  *image.NRGBA
		u, v float64
		want color.NRGBA
	}{
		{"v_zero_is_bottom_row", column, 0.5, 0.25, blue},
		{"v_one_is_top_row", column, 0.5, 0.75, red},
		{"wraps_outside_unit_range", column, 3.5, -0.25, red},
		{"transparent_neighbour_keeps_colour", edge, 0.5, 0.5, color.NRGBA{255, 255, 255, 128}},
		{"sub_image_origin", cell, 0.3, 0.7, green},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := SampleTexture(tt.tex, tt.u, tt.v)
			if got := (color.NRGBA{r, g, b, a}); got != tt.want {
				t.Errorf("SampleTexture(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

package camerapath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/curve"
)

func lightCurve(t *testing.T) *curve.CatmullRom {
	t.Helper()
	c, err := curve.New([]mgl64.Vec3{
		{5, 0, 0},
		{0, 0, 5},
		{-5, 0, 0},
		{0, 0, -5},
	}, curve.Closed(true))
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	return c
}

func TestOrbitPositionAt(t *testing.T) {
	c := lightCurve(t)
	base := mgl64.Vec3{0, 2, 0}
	o := Orbit{Base: base, Curve: c, Period: 8}

	tests := []struct {
		elapsed float64
		want    mgl64.Vec3
	}{
		{0, mgl64.Vec3{5, 2, 0}},
		{2, mgl64.Vec3{0, 2, 5}},
		{8, mgl64.Vec3{5, 2, 0}},
		{14, mgl64.Vec3{0, 2, -5}},
	}
	for _, tt := range tests {
		if got := o.PositionAt(tt.elapsed); !got.ApproxEqualThreshold(tt.want, 1e-9) {
			t.Errorf("PositionAt(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestOrbitsSharingCurveDrift(t *testing.T) {
	c := lightCurve(t)
	fast := Orbit{Curve: c, Period: 4}
	slow := Orbit{Curve: c, Period: 6}

	if !fast.PositionAt(0).ApproxEqual(slow.PositionAt(0)) {
		t.Fatalf("orbits should start together")
	}
	if fast.PositionAt(1).ApproxEqualThreshold(slow.PositionAt(1), 1e-6) {
		t.Errorf("orbits with different periods coincide at t=1")
	}
	if !fast.PositionAt(12).ApproxEqualThreshold(slow.PositionAt(12), 1e-9) {
		t.Errorf("orbits should meet again at the common period")
	}
}

func TestOrbitZeroPeriod(t *testing.T) {
	o := Orbit{Curve: lightCurve(t)}
	if got := o.PositionAt(123); !got.ApproxEqualThreshold(mgl64.Vec3{5, 0, 0}, 1e-9) {
		t.Errorf("zero period PositionAt = %v, want curve start", got)
	}
}

package camerapath

import (
	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/mathutil"
)

// Orbit moves a point around a looping curve over time, independent of
// scroll. Several orbits may share one curve with different periods.
type Orbit struct {
	Base   mgl64.Vec3
	Curve  Path
	Period float64 // seconds per loop
}

// PositionAt returns Base + Curve.PointAt((elapsed / Period) mod 1).
// A non-positive period pins the orbit to the curve start.
func (o Orbit) PositionAt(elapsed float64) mgl64.Vec3 {
	phase := 0.0
	if o.Period > 0 {
		phase = mathutil.Wrap01(elapsed / o.Period)
	}
	return o.Base.Add(o.Curve.PointAt(phase))
}

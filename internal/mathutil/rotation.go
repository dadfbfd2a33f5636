package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Forward is the direction a camera looks along in its local frame.
var Forward = mgl64.Vec3{0, 0, -1}

// EulerToQuat converts Euler XYZ angles (radians) to a unit quaternion.
func EulerToQuat(rx, ry, rz float64) mgl64.Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return mgl64.Quat{
		W: cx*cy*cz - sx*sy*sz,
		V: mgl64.Vec3{
			sx*cy*cz + cx*sy*sz,
			cx*sy*cz - sx*cy*sz,
			cx*cy*sz + sx*sy*cz,
		},
	}
}

// LookRotation returns the orientation of an object placed at eye whose
// local -Z axis points at target, with local +Y as close to up as possible.
// Degenerate input (eye == target, or up parallel to the view direction)
// falls back to an alternative up axis, then to identity.
func LookRotation(eye, target, up mgl64.Vec3) mgl64.Quat {
	back := eye.Sub(target)
	if back.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	back = back.Normalize()

	right := up.Cross(back)
	if right.Len() < 1e-12 {
		// up is parallel to the view direction; nudge it.
		alt := mgl64.Vec3{0, 0, 1}
		if math.Abs(back[2]) > 0.9 {
			alt = mgl64.Vec3{1, 0, 0}
		}
		right = alt.Cross(back)
	}
	right = right.Normalize()
	trueUp := back.Cross(right)

	// Column-major rotation with basis columns right, up, back.
	m := mgl64.Mat4{
		right[0], right[1], right[2], 0,
		trueUp[0], trueUp[1], trueUp[2], 0,
		back[0], back[1], back[2], 0,
		0, 0, 0, 1,
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}

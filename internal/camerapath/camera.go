// Package camerapath drives a camera along a curve from a scroll ratio and
// moves decorative lights around looping curves over time.
package camerapath

import (
	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/mathutil"
)

// Path is the curve-evaluation primitive the camera follows. Implementations
// clamp or wrap t themselves.
type Path interface {
	PointAt(t float64) mgl64.Vec3
}

// SlerpFunc spherically interpolates between two orientations.
type SlerpFunc func(q0, q1 mgl64.Quat, t float64) mgl64.Quat

// Placeable is a scene handle whose transform the camera writes each tick.
type Placeable interface {
	SetPosition(p mgl64.Vec3)
	SetOrientation(q mgl64.Quat)
}

// Pose is a camera position and orientation.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// CurveCamera maps a scroll ratio to a pose. The start and end orientations
// are fixed at construction.
type CurveCamera struct {
	path  Path
	start mgl64.Quat
	end   mgl64.Quat
	slerp SlerpFunc
}

// Option configures a CurveCamera.
type Option func(*CurveCamera)

// WithSlerp replaces the quaternion interpolation primitive.
func WithSlerp(fn SlerpFunc) Option {
	return func(c *CurveCamera) { c.slerp = fn }
}

// New returns a camera following path whose orientation blends from start to
// end. Both orientations are normalized.
func New(path Path, start, end mgl64.Quat, opts ...Option) *CurveCamera {
	c := &CurveCamera{
		path:  path,
		start: start.Normalize(),
		end:   end.Normalize(),
		slerp: mgl64.QuatSlerp,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Targets are the fixed points the camera faces at either end of its path.
type Targets struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
	Up    mgl64.Vec3 // zero means +Y
}

// LookAt captures the orientation facing Start from path.PointAt(0) and the
// one facing End from path.PointAt(1).
func LookAt(path Path, targets Targets, opts ...Option) *CurveCamera {
	up := targets.Up
	if up == (mgl64.Vec3{}) {
		up = mgl64.Vec3{0, 1, 0}
	}
	start := mathutil.LookRotation(path.PointAt(0), targets.Start, up)
	end := mathutil.LookRotation(path.PointAt(1), targets.End, up)
	return New(path, start, end, opts...)
}

// Start returns the orientation at ratio 0.
func (c *CurveCamera) Start() mgl64.Quat { return c.start }

// End returns the orientation at ratio 1.
func (c *CurveCamera) End() mgl64.Quat { return c.end }

// Ease maps the scroll ratio to the orientation blend parameter. The square
// gives an ease-in: the camera keeps its start heading for most of the early
// scroll and turns late.
func Ease(ratio float64) float64 {
	return ratio * ratio
}

// Update returns the pose for ratio. Ratios at or beyond the ends return the
// captured orientations exactly. A NaN ratio yields a NaN orientation;
// callers are expected to skip non-finite ratios.
func (c *CurveCamera) Update(ratio float64) Pose {
	pose := Pose{Position: c.path.PointAt(ratio)}
	switch {
	case ratio <= 0:
		pose.Orientation = c.start
	case ratio >= 1:
		pose.Orientation = c.end
	default:
		pose.Orientation = c.slerp(c.start, c.shortestEnd(), Ease(ratio))
	}
	return pose
}

// shortestEnd flips the end quaternion into the start's hemisphere so the
// blend takes the short way round. q and -q are the same rotation.
func (c *CurveCamera) shortestEnd() mgl64.Quat {
	if c.start.Dot(c.end) < 0 {
		return c.end.Scale(-1)
	}
	return c.end
}

// Apply writes the pose for ratio into h and returns it.
func (c *CurveCamera) Apply(h Placeable, ratio float64) Pose {
	pose := c.Update(ratio)
	h.SetPosition(pose.Position)
	h.SetOrientation(pose.Orientation)
	return pose
}

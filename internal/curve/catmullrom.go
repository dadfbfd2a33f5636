// Package curve evaluates interpolating Catmull-Rom splines through 3D
// control points.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"sketch-renderer/internal/mathutil"
)

// ErrTooFewPoints is returned when a curve is built from fewer than two points.
var ErrTooFewPoints = errors.New("curve: at least 2 control points required")

// Type selects the knot parameterization between control points.
type Type int

const (
	Centripetal Type = iota // alpha 0.5, no cusps or self-intersections within a segment
	Chordal                 // alpha 1
	Uniform                 // classic Catmull-Rom with a tension factor
)

// ParseType maps "centripetal", "chordal", "catmullrom"/"uniform" to a Type.
// The empty string selects Centripetal.
func ParseType(s string) (Type, error) {
	switch s {
	case "", "centripetal":
		return Centripetal, nil
	case "chordal":
		return Chordal, nil
	case "uniform", "catmullrom":
		return Uniform, nil
	}
	return 0, fmt.Errorf("curve: unknown type %q", s)
}

func (t Type) String() string {
	switch t {
	case Centripetal:
		return "centripetal"
	case Chordal:
		return "chordal"
	case Uniform:
		return "uniform"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// DefaultDivisions is the number of samples used for the arc-length table.
const DefaultDivisions = 200

// CatmullRom is an immutable spline through its control points. It is safe
// for concurrent use after construction.
type CatmullRom struct {
	points  []mgl64.Vec3
	closed  bool
	typ     Type
	tension float64

	// cumulative chord lengths at DefaultDivisions+1 uniform samples
	arc []float64
}

// Option configures a curve at construction.
type Option func(*CatmullRom)

// Closed makes the curve loop from the last control point back to the first.
func Closed(closed bool) Option {
	return func(c *CatmullRom) { c.closed = closed }
}

// WithType selects the knot parameterization.
func WithType(t Type) Option {
	return func(c *CatmullRom) { c.typ = t }
}

// WithTension sets the tangent scale used by Uniform curves.
func WithTension(tension float64) Option {
	return func(c *CatmullRom) { c.tension = tension }
}

// New builds a curve through points. The slice is copied.
func New(points []mgl64.Vec3, opts ...Option) (*CatmullRom, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewPoints, len(points))
	}

	c := &CatmullRom{
		points:  append([]mgl64.Vec3(nil), points...),
		typ:     Centripetal,
		tension: 0.5,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.arc = c.buildArcTable(DefaultDivisions)
	return c, nil
}

// Points returns a copy of the control points.
func (c *CatmullRom) Points() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), c.points...)
}

// IsClosed reports whether the curve loops.
func (c *CatmullRom) IsClosed() bool {
	return c.closed
}

// Type returns the knot parameterization.
func (c *CatmullRom) Type() Type {
	return c.typ
}

// normalize maps any t onto the curve's domain: clamped for open curves,
// wrapped for closed ones. The spline is never evaluated outside [0, 1].
func (c *CatmullRom) normalize(t float64) float64 {
	if c.closed {
		return mathutil.Wrap01(t)
	}
	return mathutil.Clamp01(t)
}

// PointAt evaluates the curve at t with uniform spacing per segment: an open
// curve of n points reaches control point i at t = i/(n-1), a closed curve
// at t = i/n.
func (c *CatmullRom) PointAt(t float64) mgl64.Vec3 {
	return c.eval(c.normalize(t))
}

// PointAtArc evaluates the curve at fraction u of its arc length.
func (c *CatmullRom) PointAtArc(u float64) mgl64.Vec3 {
	return c.eval(c.arcToT(c.normalize(u)))
}

// Length returns the approximate arc length.
func (c *CatmullRom) Length() float64 {
	return c.arc[len(c.arc)-1]
}

func (c *CatmullRom) eval(t float64) mgl64.Vec3 {
	pts := c.points
	l := len(pts)

	segments := l - 1
	if c.closed {
		segments = l
	}
	p := float64(segments) * t
	seg := int(math.Floor(p))
	w := p - float64(seg)

	if c.closed {
		seg %= l
	} else if seg >= l-1 {
		seg, w = l-2, 1
	}

	var p0, p3 mgl64.Vec3
	p1 := pts[seg%l]
	p2 := pts[(seg+1)%l]

	if c.closed || seg > 0 {
		p0 = pts[(seg-1+l)%l]
	} else {
		// reflect the second point through the first
		p0 = pts[0].Mul(2).Sub(pts[1])
	}
	if c.closed || seg+2 < l {
		p3 = pts[(seg+2)%l]
	} else {
		p3 = pts[l-1].Mul(2).Sub(pts[l-2])
	}

	var out mgl64.Vec3
	switch c.typ {
	case Centripetal, Chordal:
		pow := 0.25
		if c.typ == Chordal {
			pow = 0.5
		}
		dt0 := math.Pow(distSq(p0, p1), pow)
		dt1 := math.Pow(distSq(p1, p2), pow)
		dt2 := math.Pow(distSq(p2, p3), pow)

		// coincident points
		if dt1 < 1e-4 {
			dt1 = 1
		}
		if dt0 < 1e-4 {
			dt0 = dt1
		}
		if dt2 < 1e-4 {
			dt2 = dt1
		}
		for k := 0; k < 3; k++ {
			out[k] = nonUniform(p0[k], p1[k], p2[k], p3[k], dt0, dt1, dt2).at(w)
		}
	default:
		for k := 0; k < 3; k++ {
			out[k] = uniform(p0[k], p1[k], p2[k], p3[k], c.tension).at(w)
		}
	}
	return out
}

func distSq(a, b mgl64.Vec3) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// cubic holds c0 + c1 w + c2 w² + c3 w³ for one axis of one segment.
type cubic struct {
	c0, c1, c2, c3 float64
}

func (p cubic) at(w float64) float64 {
	w2 := w * w
	return p.c0 + p.c1*w + p.c2*w2 + p.c3*w2*w
}

// hermite builds the cubic from endpoint values x0, x1 and tangents t0, t1.
func hermite(x0, x1, t0, t1 float64) cubic {
	return cubic{
		c0: x0,
		c1: t0,
		c2: -3*x0 + 3*x1 - 2*t0 - t1,
		c3: 2*x0 - 2*x1 + t0 + t1,
	}
}

func uniform(x0, x1, x2, x3, tension float64) cubic {
	return hermite(x1, x2, tension*(x2-x0), tension*(x3-x1))
}

func nonUniform(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubic {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2

	// rescale tangents for parameter in [0, 1]
	return hermite(x1, x2, t1*dt1, t2*dt1)
}

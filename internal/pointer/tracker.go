// Package pointer smooths raw pointer motion into a damped position and lag
// signal for per-frame effects.
package pointer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultDamping is the per-tick convergence rate used by the sketches.
const DefaultDamping = 0.1

// speedScale amplifies the per-event delta before clamping.
const speedScale = 10

// ErrDamping is returned for a damping factor outside (0, 1].
var ErrDamping = errors.New("pointer: damping must be in (0, 1]")

// Sample is a copy of the tracker state.
type Sample struct {
	Pos    mgl64.Vec2 // latest normalized position, y = 0 at the bottom
	OldPos mgl64.Vec2 // position before the latest move
	Speed  mgl64.Vec2 // |Pos-OldPos|*10, each axis clamped to [0, 1]
	DPos   mgl64.Vec2 // damped position
	DSpeed mgl64.Vec2 // DPos - Pos: lag of the damped position, not a derivative
}

// Tracker converts pointer-move events into a damped signal. OnPointerMove
// and Update may run on different goroutines.
type Tracker struct {
	damping float64

	mu sync.Mutex
	s  Sample
}

// NewTracker returns a tracker with the given damping factor.
func NewTracker(damping float64) (*Tracker, error) {
	if !(damping > 0 && damping <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrDamping, damping)
	}
	return &Tracker{damping: damping}, nil
}

// Damping returns the factor fixed at construction.
func (t *Tracker) Damping() float64 {
	return t.damping
}

// OnPointerMove records a raw pointer sample in client pixels. A zero-sized
// viewport produces NaN components.
func (t *Tracker) OnPointerMove(rawX, rawY, viewportWidth, viewportHeight float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.OldPos = t.s.Pos
	t.s.Pos = mgl64.Vec2{
		rawX / viewportWidth,
		(viewportHeight - rawY) / viewportHeight,
	}

	d := t.s.Pos.Sub(t.s.OldPos).Mul(speedScale)
	t.s.Speed = mgl64.Vec2{
		math.Min(math.Abs(d[0]), 1),
		math.Min(math.Abs(d[1]), 1),
	}
}

// Update advances the low-pass filter by one frame:
//
//	DPos   -= (DPos - Pos) * damping
//	DSpeed  = DPos - Pos
func (t *Tracker) Update() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.DPos[0] -= (t.s.DPos[0] - t.s.Pos[0]) * t.damping
	t.s.DPos[1] -= (t.s.DPos[1] - t.s.Pos[1]) * t.damping
	t.s.DSpeed = t.s.DPos.Sub(t.s.Pos)
}

// Sample returns a copy of the current state.
func (t *Tracker) Sample() Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s
}

// Reset places both the raw and damped positions at p, e.g. after a host
// window regains the pointer.
func (t *Tracker) Reset(p mgl64.Vec2) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s = Sample{Pos: p, OldPos: p, DPos: p}
}

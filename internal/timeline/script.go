// Package timeline turns a scripted input track into per-frame scroll and
// pointer events for offline rendering.
package timeline

import (
	"fmt"
)

// Script is the `input:` section of a sketch file.
type Script struct {
	FPS      float64      `yaml:"fps"`
	Duration float64      `yaml:"duration"` // Total duration in seconds
	Scroll   []ScrollKey  `yaml:"scroll"`
	Pointer  []PointerKey `yaml:"pointer"`
}

// ScrollKey sets the document's scroll offset at a moment.
type ScrollKey struct {
	Time float64 `yaml:"time"` // Time offset in seconds
	Top  float64 `yaml:"top"`  // scrollTop in pixels
	Ease Ease    `yaml:"ease"` // easing of the segment leaving this key
}

// PointerKey places the pointer in viewport pixels at a moment.
type PointerKey struct {
	Time float64 `yaml:"time"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Ease Ease    `yaml:"ease"`
}

// Ease names a segment easing curve.
type Ease string

const (
	Linear         Ease = ""
	EaseInOutCubic Ease = "in_out_cubic"
	Hold           Ease = "hold"
)

// Apply maps a segment fraction t in [0,1] through the easing curve.
func (e Ease) Apply(t float64) float64 {
	switch e {
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	case Hold:
		return 0
	default:
		return t
	}
}

func (e Ease) valid() bool {
	switch e {
	case Linear, "linear", EaseInOutCubic, Hold:
		return true
	}
	return false
}

// Validate checks the frame rate, duration and that keyframes are in time
// order with known easings.
func (s *Script) Validate() error {
	if s.FPS <= 0 {
		return fmt.Errorf("timeline: fps must be positive, got %v", s.FPS)
	}
	if s.Duration < 0 {
		return fmt.Errorf("timeline: duration must not be negative, got %v", s.Duration)
	}
	for i, k := range s.Scroll {
		if i > 0 && k.Time < s.Scroll[i-1].Time {
			return fmt.Errorf("timeline: scroll key %d at %vs is before key %d", i, k.Time, i-1)
		}
		if !k.Ease.valid() {
			return fmt.Errorf("timeline: scroll key %d: unknown ease %q", i, k.Ease)
		}
	}
	for i, k := range s.Pointer {
		if i > 0 && k.Time < s.Pointer[i-1].Time {
			return fmt.Errorf("timeline: pointer key %d at %vs is before key %d", i, k.Time, i-1)
		}
		if !k.Ease.valid() {
			return fmt.Errorf("timeline: pointer key %d: unknown ease %q", i, k.Ease)
		}
	}
	return nil
}

// ScrollAt returns the interpolated scroll offset at time sec. Before the
// first key ok is false.
func (s *Script) ScrollAt(sec float64) (top float64, ok bool) {
	n := len(s.Scroll)
	if n == 0 || sec < s.Scroll[0].Time {
		return 0, false
	}
	if sec >= s.Scroll[n-1].Time {
		return s.Scroll[n-1].Top, true
	}
	i := segment(n, func(i int) float64 { return s.Scroll[i].Time }, sec)
	prev, next := s.Scroll[i], s.Scroll[i+1]
	t := prev.Ease.Apply(fraction(prev.Time, next.Time, sec))
	return lerp(prev.Top, next.Top, t), true
}

// PointerAt returns the interpolated pointer position at time sec. Before
// the first key ok is false.
func (s *Script) PointerAt(sec float64) (x, y float64, ok bool) {
	n := len(s.Pointer)
	if n == 0 || sec < s.Pointer[0].Time {
		return 0, 0, false
	}
	if sec >= s.Pointer[n-1].Time {
		k := s.Pointer[n-1]
		return k.X, k.Y, true
	}
	i := segment(n, func(i int) float64 { return s.Pointer[i].Time }, sec)
	prev, next := s.Pointer[i], s.Pointer[i+1]
	t := prev.Ease.Apply(fraction(prev.Time, next.Time, sec))
	return lerp(prev.X, next.X, t), lerp(prev.Y, next.Y, t), true
}

// segment finds i with time(i) <= sec < time(i+1). The caller guarantees
// time(0) <= sec < time(n-1).
func segment(n int, time func(int) float64, sec float64) int {
	for i := 0; i < n-1; i++ {
		if sec >= time(i) && sec < time(i+1) {
			return i
		}
	}
	return n - 2
}

func fraction(t0, t1, sec float64) float64 {
	d := t1 - t0
	if d <= 0 {
		return 1
	}
	return (sec - t0) / d
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

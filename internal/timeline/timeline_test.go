package timeline

import (
	"math"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

const scriptYAML = `
fps: 10
duration: 2
scroll:
  - time: 0
    top: 0
  - time: 1
    top: 500
  - time: 2
    top: 1000
    ease: hold
pointer:
  - time: 0.5
    x: 100
    y: 100
  - time: 1.5
    x: 300
    y: 50
    ease: in_out_cubic
`

func parse(t *testing.T, src string) Script {
	t.Helper()
	var s Script
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return s
}

func TestPlayerFrames(t *testing.T) {
	p, err := NewPlayer(parse(t, scriptYAML))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	if p.Len() != 21 {
		t.Fatalf("Len = %d, want 21", p.Len())
	}

	var got []Frame
	for f := range p.Frames() {
		got = append(got, f)
	}
	if len(got) != 21 {
		t.Fatalf("yielded %d frames, want 21", len(got))
	}

	last := got[20]
	if last.Elapsed != 2*time.Second {
		t.Errorf("last elapsed = %v, want 2s", last.Elapsed)
	}
	if last.ScrollTop != 1000 {
		t.Errorf("last scroll = %v, want 1000", last.ScrollTop)
	}
}

func TestScrollInterpolation(t *testing.T) {
	s := parse(t, scriptYAML)
	tests := []struct {
		sec  float64
		want float64
	}{
		{0, 0},
		{0.5, 250},
		{1, 500},
		{1.25, 625},
		{2, 1000},
		{9, 1000},
	}
	for _, tt := range tests {
		got, ok := s.ScrollAt(tt.sec)
		if !ok || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ScrollAt(%v) = %v, %v; want %v", tt.sec, got, ok, tt.want)
		}
	}
}

func TestPointerBeforeFirstKey(t *testing.T) {
	s := parse(t, scriptYAML)
	if _, _, ok := s.PointerAt(0.2); ok {
		t.Errorf("pointer reported before its first key")
	}
	x, y, ok := s.PointerAt(1)
	if !ok || math.Abs(x-200) > 1e-9 || math.Abs(y-75) > 1e-9 {
		t.Errorf("PointerAt(1) = (%v, %v, %v), want (200, 75, true)", x, y, ok)
	}
	x, y, _ = s.PointerAt(3)
	if x != 300 || y != 50 {
		t.Errorf("PointerAt(3) = (%v, %v), want last key", x, y)
	}
}

func TestEase(t *testing.T) {
	tests := []struct {
		ease Ease
		in   float64
		want float64
	}{
		{Linear, 0.3, 0.3},
		{EaseInOutCubic, 0, 0},
		{EaseInOutCubic, 0.5, 0.5},
		{EaseInOutCubic, 1, 1},
		{EaseInOutCubic, 0.25, 0.0625},
		{Hold, 0.9, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.ease), func(t *testing.T) {
			if got := tt.ease.Apply(tt.in); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHoldSegment(t *testing.T) {
	s := Script{FPS: 1, Duration: 2, Scroll: []ScrollKey{
		{Time: 0, Top: 10, Ease: Hold},
		{Time: 2, Top: 90},
	}}
	if got, _ := s.ScrollAt(1.9); got != 10 {
		t.Errorf("held value = %v, want 10", got)
	}
	if got, _ := s.ScrollAt(2); got != 90 {
		t.Errorf("value at key = %v, want 90", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Script
	}{
		{"zero fps", Script{FPS: 0, Duration: 1}},
		{"negative duration", Script{FPS: 30, Duration: -1}},
		{"unsorted scroll", Script{FPS: 30, Scroll: []ScrollKey{{Time: 1}, {Time: 0}}}},
		{"unsorted pointer", Script{FPS: 30, Pointer: []PointerKey{{Time: 1}, {Time: 0.5}}}},
		{"unknown ease", Script{FPS: 30, Scroll: []ScrollKey{{Time: 0, Ease: "bounce"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPlayer(tt.s); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestFramesStopEarly(t *testing.T) {
	p, err := NewPlayer(Script{FPS: 30, Duration: 10})
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for f := range p.Frames() {
		if f.Index == 4 {
			break
		}
		n++
	}
	if n != 4 {
		t.Errorf("iterated %d frames before break, want 4", n)
	}
}

package timeline

import (
	"iter"
	"math"
	"time"
)

// Frame is the input state for one rendered frame.
type Frame struct {
	Index      int
	Elapsed    time.Duration
	ScrollTop  float64
	HasScroll  bool
	PointerX   float64
	PointerY   float64
	HasPointer bool
}

// Player steps through a validated script at its frame rate.
type Player struct {
	script Script
	frames int
}

// NewPlayer validates s and returns a player over it.
func NewPlayer(s Script) (*Player, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Player{
		script: s,
		frames: int(math.Floor(s.Duration*s.FPS+1e-9)) + 1,
	}, nil
}

// Len returns the number of frames, including both the first (t = 0) and
// the last (t = duration) frame.
func (p *Player) Len() int { return p.frames }

// Frame returns frame i.
func (p *Player) Frame(i int) Frame {
	sec := float64(i) / p.script.FPS
	f := Frame{
		Index:   i,
		Elapsed: time.Duration(sec * float64(time.Second)),
	}
	f.ScrollTop, f.HasScroll = p.script.ScrollAt(sec)
	f.PointerX, f.PointerY, f.HasPointer = p.script.PointerAt(sec)
	return f
}

// Frames yields every frame in order.
func (p *Player) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for i := 0; i < p.frames; i++ {
			if !yield(p.Frame(i)) {
				return
			}
		}
	}
}

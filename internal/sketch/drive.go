package sketch

import (
	"context"
	"iter"

	"sketch-renderer/internal/scene"
	"sketch-renderer/internal/timeline"
)

// Step is the state after one scripted frame.
type Step struct {
	Frame    timeline.Frame
	Ratio    float64
	Snapshot *scene.Snapshot
}

// Drive feeds each frame's scripted events into s, ticks it and hands the
// resulting snapshot to fn. A pointer move is sent only when the scripted
// position changes. Drive stops at the first error from fn or when ctx is
// cancelled.
func Drive(ctx context.Context, s *Sketch, frames iter.Seq[timeline.Frame], fn func(Step) error) error {
	vp := s.def.Viewport
	var (
		moved  bool
		lastPt [2]float64
	)
	for f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.HasScroll {
			s.OnScroll(s.Document(f.ScrollTop))
		}
		if pt := [2]float64{f.PointerX, f.PointerY}; f.HasPointer && (!moved || pt != lastPt) {
			moved, lastPt = true, pt
			s.OnPointerMove(f.PointerX, f.PointerY, float64(vp.Width), float64(vp.Height))
		}
		s.Tick(f.Elapsed)
		if err := fn(Step{Frame: f, Ratio: s.Ratio(), Snapshot: s.Snapshot()}); err != nil {
			return err
		}
	}
	return nil
}

package loop

import (
	"sync/atomic"

	"github.com/labyrinth-go/labyrinth/sim"
)

// Frame is one tick's render target.
type Frame interface {
	// Present publishes the tick's draw data.
	Present(snap sim.Snapshot)
}

// Surface owns the render target. The runner acquires a frame for
// exactly one tick and releases it even when the tick fails. Acquire
// returning false skips the tick; the loop keeps running.
type Surface interface {
	Acquire() (Frame, bool)
	Release(Frame)
}

// SnapshotSurface is a Surface that publishes each tick's snapshot into
// an atomic slot for a renderer on another goroutine. This is how the
// ebiten front-end consumes the simulation: Draw reads Latest.
type SnapshotSurface struct {
	latest atomic.Pointer[sim.Snapshot]
}

type snapshotFrame struct {
	surface *SnapshotSurface
}

func (f snapshotFrame) Present(snap sim.Snapshot) {
	f.surface.latest.Store(&snap)
}

func (s *SnapshotSurface) Acquire() (Frame, bool) {
	return snapshotFrame{surface: s}, true
}

func (s *SnapshotSurface) Release(Frame) {}

// Latest returns the most recently published snapshot, if any.
func (s *SnapshotSurface) Latest() (sim.Snapshot, bool) {
	p := s.latest.Load()
	if p == nil {
		return sim.Snapshot{}, false
	}
	return *p, true
}

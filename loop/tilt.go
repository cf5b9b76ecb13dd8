package loop

import (
	"math"
	"sync/atomic"

	"github.com/labyrinth-go/labyrinth/common"
)

// TiltSlot hands the latest tilt sample from the input goroutine to the
// loop goroutine. Single writer, single reader; each axis is atomic and
// staleness by one sample is acceptable, so no lock is involved.
type TiltSlot struct {
	x atomic.Uint64
	y atomic.Uint64
}

// Store publishes a new sample.
func (s *TiltSlot) Store(v common.Vec2) {
	s.x.Store(math.Float64bits(v.X))
	s.y.Store(math.Float64bits(v.Y))
}

// Load returns the most recent sample.
func (s *TiltSlot) Load() common.Vec2 {
	return common.Vec2{
		X: math.Float64frombits(s.x.Load()),
		Y: math.Float64frombits(s.y.Load()),
	}
}

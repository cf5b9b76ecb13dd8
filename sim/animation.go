package sim

import (
	"time"

	"github.com/labyrinth-go/labyrinth/common"
)

// AnimationKind tags the transition the ball is locked into. While the
// kind is not AnimIdle, physics integration and new collision detection
// are suspended.
type AnimationKind int

const (
	AnimIdle AnimationKind = iota
	AnimFallingIntoHole
	AnimReachingGoal
)

func (k AnimationKind) String() string {
	switch k {
	case AnimIdle:
		return "idle"
	case AnimFallingIntoHole:
		return "falling_into_hole"
	case AnimReachingGoal:
		return "reaching_goal"
	}
	return "unknown"
}

// animation is the engine's transition state. Entering a non-idle kind
// requires idle as the prior state; the terminal event fires exactly once
// per instance even if the finished check runs on several ticks.
type animation struct {
	kind    AnimationKind
	target  common.Vec2
	from    common.Vec2
	started time.Time
	fired   bool
}

// begin arms a transition. Returns false if one is already running.
func (a *animation) begin(kind AnimationKind, from, target common.Vec2, now time.Time) bool {
	if a.kind != AnimIdle {
		return false
	}
	a.kind = kind
	a.from = from
	a.target = target
	a.started = now
	a.fired = false
	return true
}

// progress reports how far the transition has run, in [0,1].
func (a *animation) progress(now time.Time, duration time.Duration) float64 {
	if a.kind == AnimIdle || duration <= 0 {
		return 0
	}
	return common.Clamp(float64(now.Sub(a.started))/float64(duration), 0, 1)
}

func (a *animation) reset() {
	a.kind = AnimIdle
	a.fired = false
}

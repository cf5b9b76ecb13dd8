package sim

// Events receives discrete simulation events. At most one subscriber is
// registered per engine; all methods are invoked from the loop goroutine.
//
// WallImpact, HoleFall and GoalReached fire when the collision happens and
// feed audio/haptics. FallInHole and LevelComplete fire once per animation
// when the transition finishes and drive progression.
type Events interface {
	WallImpact(strength float64)
	HoleFall()
	GoalReached()
	FallInHole()
	LevelComplete()
}

// NopEvents discards all events.
type NopEvents struct{}

func (NopEvents) WallImpact(float64) {}
func (NopEvents) HoleFall()          {}
func (NopEvents) GoalReached()       {}
func (NopEvents) FallInHole()        {}
func (NopEvents) LevelComplete()     {}

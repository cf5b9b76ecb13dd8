package sim

import "time"

// Tuning holds every feel constant of the simulation. The values are
// empirically tuned; treat them as configuration, not physics.
type Tuning struct {
	// BallRadius is the ball's collision radius in design units.
	BallRadius float64
	// TiltGain converts one tilt unit into velocity per tick.
	TiltGain float64
	// Friction is the isotropic per-tick velocity damping factor.
	Friction float64
	// MaxVelocity clamps each velocity axis, in design units per tick.
	MaxVelocity float64
	// Restitution is the velocity fraction kept after a wall bounce.
	Restitution float64
	// WallMargin inflates every wall rect before collision, in design units.
	WallMargin float64

	// HoleRadius is the hole's visual radius in design units.
	HoleRadius float64
	// HoleDetectRatio scales HoleRadius down to the catch radius.
	HoleDetectRatio float64
	// GoalRadius is the goal's visual radius in design units.
	GoalRadius float64
	// GoalDetectRatio scales GoalRadius to the goal catch radius. The goal
	// is deliberately easier to trigger than a hole.
	GoalDetectRatio float64
	// GoalBallRatio scales the ball radius for the goal capture test only.
	GoalBallRatio float64

	// GravityRadiusMult is the gravity-well radius as a multiple of the
	// ball radius.
	GravityRadiusMult float64
	// GravityStrength is the peak well acceleration in design units per tick.
	GravityStrength float64
	// GravityTiltDamp divides the pull down as tilt magnitude grows: a ball
	// held still is drawn in faster than one being steered away.
	GravityTiltDamp float64

	// AnimDuration is the fall/goal transition length, frame-rate independent.
	AnimDuration time.Duration
	// ImpactCooldown rate-limits wall impact events.
	ImpactCooldown time.Duration
	// ImpactMinSpeed is the slowest bounce that still reports an impact,
	// in design units per tick.
	ImpactMinSpeed float64
}

// DefaultTuning returns the shipped feel.
func DefaultTuning() Tuning {
	return Tuning{
		BallRadius:  16,
		TiltGain:    0.35,
		Friction:    0.98,
		MaxVelocity: 20,
		Restitution: 0.5,
		WallMargin:  2,

		HoleRadius:      24,
		HoleDetectRatio: 0.75,
		GoalRadius:      24,
		GoalDetectRatio: 1.0,
		GoalBallRatio:   1.5,

		GravityRadiusMult: 3,
		GravityStrength:   0.9,
		GravityTiltDamp:   2.5,

		AnimDuration:   500 * time.Millisecond,
		ImpactCooldown: 120 * time.Millisecond,
		ImpactMinSpeed: 1.5,
	}
}

// Package tuning loads sim feel constants from a YAML file and watches
// it for changes, so feel can be adjusted while the game runs.
package tuning

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/labyrinth-go/labyrinth/sim"
)

// overrides mirrors sim.Tuning with optional fields; only keys present
// in the file replace the defaults. Durations are in milliseconds.
type overrides struct {
	BallRadius  *float64 `yaml:"ball_radius"`
	TiltGain    *float64 `yaml:"tilt_gain"`
	Friction    *float64 `yaml:"friction"`
	MaxVelocity *float64 `yaml:"max_velocity"`
	Restitution *float64 `yaml:"restitution"`
	WallMargin  *float64 `yaml:"wall_margin"`

	HoleRadius      *float64 `yaml:"hole_radius"`
	HoleDetectRatio *float64 `yaml:"hole_detect_ratio"`
	GoalRadius      *float64 `yaml:"goal_radius"`
	GoalDetectRatio *float64 `yaml:"goal_detect_ratio"`
	GoalBallRatio   *float64 `yaml:"goal_ball_ratio"`

	GravityRadiusMult *float64 `yaml:"gravity_radius_mult"`
	GravityStrength   *float64 `yaml:"gravity_strength"`
	GravityTiltDamp   *float64 `yaml:"gravity_tilt_damp"`

	AnimDurationMs   *int     `yaml:"anim_duration_ms"`
	ImpactCooldownMs *int     `yaml:"impact_cooldown_ms"`
	ImpactMinSpeed   *float64 `yaml:"impact_min_speed"`
}

// Load reads path and applies it over sim.DefaultTuning.
func Load(path string) (sim.Tuning, error) {
	t := sim.DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("tuning: read %q: %w", path, err)
	}
	var ov overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return t, fmt.Errorf("tuning: unmarshal %q: %w", path, err)
	}
	apply(&t, ov)
	return t, nil
}

func apply(t *sim.Tuning, ov overrides) {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&t.BallRadius, ov.BallRadius)
	setF(&t.TiltGain, ov.TiltGain)
	setF(&t.Friction, ov.Friction)
	setF(&t.MaxVelocity, ov.MaxVelocity)
	setF(&t.Restitution, ov.Restitution)
	setF(&t.WallMargin, ov.WallMargin)
	setF(&t.HoleRadius, ov.HoleRadius)
	setF(&t.HoleDetectRatio, ov.HoleDetectRatio)
	setF(&t.GoalRadius, ov.GoalRadius)
	setF(&t.GoalDetectRatio, ov.GoalDetectRatio)
	setF(&t.GoalBallRatio, ov.GoalBallRatio)
	setF(&t.GravityRadiusMult, ov.GravityRadiusMult)
	setF(&t.GravityStrength, ov.GravityStrength)
	setF(&t.GravityTiltDamp, ov.GravityTiltDamp)
	setF(&t.ImpactMinSpeed, ov.ImpactMinSpeed)
	if ov.AnimDurationMs != nil {
		t.AnimDuration = time.Duration(*ov.AnimDurationMs) * time.Millisecond
	}
	if ov.ImpactCooldownMs != nil {
		t.ImpactCooldown = time.Duration(*ov.ImpactCooldownMs) * time.Millisecond
	}
}

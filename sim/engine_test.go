package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/labyrinth-go/labyrinth/common"
	"github.com/labyrinth-go/labyrinth/levels"
)

type recorder struct {
	impacts   []float64
	holeFalls int
	goals     int
	falls     int
	completes int
}

func (r *recorder) WallImpact(s float64) { r.impacts = append(r.impacts, s) }
func (r *recorder) HoleFall()            { r.holeFalls++ }
func (r *recorder) GoalReached()         { r.goals++ }
func (r *recorder) FallInHole()          { r.falls++ }
func (r *recorder) LevelComplete()       { r.completes++ }

func testLevel() *levels.Level {
	return &levels.Level{
		Index: 1,
		Begin: common.Vec2{X: 100, Y: 100},
		End:   common.Vec2{X: 700, Y: 400},
		Walls: []common.Rect{
			{Left: 300, Top: 0, Right: 320, Bottom: 300},
			{Left: 100, Top: 380, Right: 500, Bottom: 400},
		},
		Holes: []common.Vec2{{X: 200, Y: 300}},
	}
}

func overlap(ballPos common.Vec2, r float64, w common.Rect) float64 {
	return r - math.Sqrt(w.ClosestPoint(ballPos).DistSq(ballPos))
}

func TestBoundedMotion(t *testing.T) {
	lvl := testLevel()
	lvl.Holes = nil
	tun := DefaultTuning()
	// Disable goal capture so the walk never locks into an animation.
	tun.GoalDetectRatio = 0
	tun.GoalBallRatio = 0

	e := NewEngine(lvl, tun)
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	const eps = 1e-9
	bounds := common.Rect{Right: levels.DesignWidth, Bottom: levels.DesignHeight}

	for tick := 0; tick < 5000; tick++ {
		tilt := common.Vec2{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
		now = now.Add(DefaultTuning().AnimDuration / 30)
		e.Step(tilt, now)

		b := e.BallState()
		for wi, w := range lvl.Walls {
			if ov := overlap(b.Pos, b.Radius, w); ov > eps {
				t.Fatalf("tick %d: ball overlaps wall %d by %g", tick, wi, ov)
			}
		}
		if b.Pos.X < bounds.Left+b.Radius-eps || b.Pos.X > bounds.Right-b.Radius+eps ||
			b.Pos.Y < bounds.Top+b.Radius-eps || b.Pos.Y > bounds.Bottom-b.Radius+eps {
			t.Fatalf("tick %d: ball outside playfield at %+v", tick, b.Pos)
		}
	}
}

func TestNoTunnelingThroughHole(t *testing.T) {
	lvl := &levels.Level{
		Index: 1,
		Begin: common.Vec2{X: 100, Y: 100},
		End:   common.Vec2{X: 700, Y: 400},
		Holes: []common.Vec2{{X: 108, Y: 100}},
	}
	tun := DefaultTuning()
	tun.HoleRadius = 10
	tun.HoleDetectRatio = 0.5 // catch radius 5, far below a max-speed tick

	rec := &recorder{}
	e := NewEngine(lvl, tun)
	e.SetEvents(rec)

	// One tick at near max speed crosses the hole center; the endpoint
	// lands well past the catch radius.
	e.ball.Vel = common.Vec2{X: 19, Y: 0}
	e.Step(common.Vec2{}, time.Now())

	if e.Animation() != AnimFallingIntoHole {
		t.Fatalf("expected hole capture on swept path, got %v", e.Animation())
	}
	if rec.holeFalls != 1 {
		t.Fatalf("expected 1 hole fall event, got %d", rec.holeFalls)
	}
	if e.BallState().Vel != (common.Vec2{}) {
		t.Fatalf("expected velocity zeroed on capture, got %+v", e.BallState().Vel)
	}
}

func TestAnimationExclusivity(t *testing.T) {
	lvl := testLevel()
	rec := &recorder{}
	e := NewEngine(lvl, DefaultTuning())
	e.SetEvents(rec)

	now := time.Now()
	e.ball.Pos = lvl.Holes[0]
	e.Step(common.Vec2{}, now)
	if e.Animation() != AnimFallingIntoHole {
		t.Fatalf("expected falling animation, got %v", e.Animation())
	}

	// Hard tilt during the animation must not integrate physics or start
	// a second animation.
	for i := 1; i <= 10; i++ {
		e.Step(common.Vec2{X: 1, Y: 1}, now.Add(time.Duration(i)*20*time.Millisecond))
		if e.Animation() != AnimFallingIntoHole {
			t.Fatalf("animation interrupted at step %d: %v", i, e.Animation())
		}
		if e.BallState().Vel != (common.Vec2{}) {
			t.Fatalf("velocity integrated during animation: %+v", e.BallState().Vel)
		}
	}
	if rec.holeFalls != 1 {
		t.Fatalf("second capture started while animating: %d", rec.holeFalls)
	}

	// After the duration elapses the state machine returns to idle and
	// resets the ball to the begin point.
	e.Step(common.Vec2{}, now.Add(600*time.Millisecond))
	if e.Animation() != AnimIdle {
		t.Fatalf("expected idle after animation, got %v", e.Animation())
	}
	if rec.falls != 1 {
		t.Fatalf("expected 1 fall-in-hole terminal event, got %d", rec.falls)
	}
	if got := e.BallState().Pos; got != lvl.Begin {
		t.Fatalf("ball not reset to begin: %+v", got)
	}
}

func TestLevelCompleteFiresExactlyOnce(t *testing.T) {
	lvl := testLevel()
	rec := &recorder{}
	e := NewEngine(lvl, DefaultTuning())
	e.SetEvents(rec)

	now := time.Now()
	e.ball.Pos = lvl.End
	e.Step(common.Vec2{}, now)
	if e.Animation() != AnimReachingGoal {
		t.Fatalf("expected goal animation, got %v", e.Animation())
	}
	if rec.goals != 1 {
		t.Fatalf("expected 1 goal-reached event, got %d", rec.goals)
	}

	// Ball holds on the goal while the animation gates timing.
	e.Step(common.Vec2{X: 1}, now.Add(250*time.Millisecond))
	if got := e.BallState().Pos; got != lvl.End {
		t.Fatalf("ball moved during goal hold: %+v", got)
	}

	// Completion may be evaluated an extra time at held progress=1; the
	// terminal event still fires once.
	e.Step(common.Vec2{}, now.Add(600*time.Millisecond))
	e.stepAnimation(now.Add(700 * time.Millisecond))
	e.stepAnimation(now.Add(800 * time.Millisecond))
	if rec.completes != 1 {
		t.Fatalf("expected exactly one level-complete event, got %d", rec.completes)
	}
}

func TestShiftAnimationDelaysCompletion(t *testing.T) {
	lvl := testLevel()
	rec := &recorder{}
	e := NewEngine(lvl, DefaultTuning())
	e.SetEvents(rec)

	now := time.Now()
	e.ball.Pos = lvl.Holes[0]
	e.Step(common.Vec2{}, now)
	if e.Animation() != AnimFallingIntoHole {
		t.Fatalf("expected falling animation, got %v", e.Animation())
	}
	e.Step(common.Vec2{}, now.Add(200*time.Millisecond))

	// A long gap shifted out of the animation clock must not complete
	// the transition on the next tick.
	e.ShiftAnimation(10 * time.Second)
	e.Step(common.Vec2{}, now.Add(10*time.Second+300*time.Millisecond))
	if e.Animation() != AnimFallingIntoHole {
		t.Fatalf("animation finished across the shifted span: %v", e.Animation())
	}
	if rec.falls != 0 {
		t.Fatalf("terminal event fired early: %d", rec.falls)
	}

	// The remaining duration still elapses on the shifted clock.
	e.Step(common.Vec2{}, now.Add(10*time.Second+600*time.Millisecond))
	if e.Animation() != AnimIdle || rec.falls != 1 {
		t.Fatalf("animation did not finish after shift: %v falls=%d", e.Animation(), rec.falls)
	}

	// Shifting while idle changes nothing.
	e.ShiftAnimation(time.Hour)
	if e.Animation() != AnimIdle {
		t.Fatalf("idle shift changed state: %v", e.Animation())
	}
}

func TestHoleBeatsGoalSameTick(t *testing.T) {
	lvl := &levels.Level{
		Index: 1,
		Begin: common.Vec2{X: 100, Y: 100},
		End:   common.Vec2{X: 400, Y: 240},
		Holes: []common.Vec2{{X: 400, Y: 240}},
	}
	rec := &recorder{}
	e := NewEngine(lvl, DefaultTuning())
	e.SetEvents(rec)

	e.ball.Pos = common.Vec2{X: 400, Y: 240}
	e.Step(common.Vec2{}, time.Now())

	if e.Animation() != AnimFallingIntoHole {
		t.Fatalf("hole must win the tie, got %v", e.Animation())
	}
	if rec.goals != 0 || rec.holeFalls != 1 {
		t.Fatalf("expected hole capture only, got holes=%d goals=%d", rec.holeFalls, rec.goals)
	}
}

func TestGravityWellPullsHarderWhenStill(t *testing.T) {
	lvl := testLevel()
	tun := DefaultTuning()
	e := NewEngine(lvl, tun)

	hole := lvl.Holes[0]
	near := hole.Add(common.Vec2{X: tun.BallRadius * 2})

	e.ball.Pos = near
	e.ball.Vel = common.Vec2{}
	e.applyGravityWells(common.Vec2{})
	still := e.ball.Vel.Len()

	e.ball.Pos = near
	e.ball.Vel = common.Vec2{}
	e.applyGravityWells(common.Vec2{X: 1, Y: 1})
	steering := e.ball.Vel.Len()

	if still <= 0 {
		t.Fatalf("expected a pull near the hole, got %g", still)
	}
	if steering >= still {
		t.Fatalf("steering should weaken the pull: still=%g steering=%g", still, steering)
	}
	// Pull is directed at the hole center.
	if e.ball.Vel.X >= 0 {
		t.Fatalf("pull points away from hole: %+v", e.ball.Vel)
	}

	// Out of range there is no pull at all.
	e.ball.Pos = hole.Add(common.Vec2{X: tun.GravityRadiusMult*tun.BallRadius + 1})
	e.ball.Vel = common.Vec2{}
	e.applyGravityWells(common.Vec2{})
	if e.ball.Vel != (common.Vec2{}) {
		t.Fatalf("pull beyond gravity radius: %+v", e.ball.Vel)
	}
}

func TestWallBounceDampsAndPushesOut(t *testing.T) {
	lvl := testLevel()
	tun := DefaultTuning()
	rec := &recorder{}
	e := NewEngine(lvl, tun)
	e.SetEvents(rec)

	wall := lvl.Walls[0] // vertical slab at x=300..320
	e.ball.Pos = common.Vec2{X: wall.Left - tun.BallRadius - 1, Y: 200}
	e.ball.Vel = common.Vec2{X: 10}
	e.Step(common.Vec2{}, time.Now())

	b := e.BallState()
	if b.Vel.X >= 0 {
		t.Fatalf("expected reflected x velocity, got %+v", b.Vel)
	}
	if math.Abs(b.Vel.X) > 10*tun.Restitution+1e-9 {
		t.Fatalf("reflection not damped: %+v", b.Vel)
	}
	if ov := overlap(b.Pos, b.Radius, wall); ov > 1e-9 {
		t.Fatalf("ball left inside wall by %g", ov)
	}
	if len(rec.impacts) != 1 {
		t.Fatalf("expected one impact event, got %d", len(rec.impacts))
	}
	if s := rec.impacts[0]; s <= 0 || s > 1 {
		t.Fatalf("impact strength out of range: %g", s)
	}
}

func TestImpactRateLimit(t *testing.T) {
	lvl := testLevel()
	rec := &recorder{}
	e := NewEngine(lvl, DefaultTuning())
	e.SetEvents(rec)

	now := time.Now()
	e.reportImpact(10, now)
	e.reportImpact(10, now.Add(10*time.Millisecond))
	e.reportImpact(10, now.Add(60*time.Millisecond))
	if len(rec.impacts) != 1 {
		t.Fatalf("impacts inside cooldown must be dropped, got %d", len(rec.impacts))
	}

	e.reportImpact(10, now.Add(200*time.Millisecond))
	if len(rec.impacts) != 2 {
		t.Fatalf("impact after cooldown must fire, got %d", len(rec.impacts))
	}

	// Sub-threshold scrapes stay silent regardless of the window.
	e.reportImpact(0.1, now.Add(time.Second))
	if len(rec.impacts) != 2 {
		t.Fatalf("sub-threshold impact reported")
	}
}

func TestResizeScalesOnce(t *testing.T) {
	lvl := testLevel()
	tun := DefaultTuning()
	e := NewEngine(lvl, tun)

	e.Resize(levels.DesignWidth*2, levels.DesignHeight*2)
	if e.Scale() != 2 {
		t.Fatalf("expected scale 2, got %g", e.Scale())
	}
	b := e.BallState()
	if b.Radius != tun.BallRadius*2 {
		t.Fatalf("ball radius not rescaled: %g", b.Radius)
	}
	if want := lvl.Begin.Scale(2); b.Pos != want {
		t.Fatalf("ball position not rescaled: got %+v want %+v", b.Pos, want)
	}

	// A mismatched aspect uses the smaller factor so the whole design
	// space stays visible.
	e.Resize(levels.DesignWidth*4, levels.DesignHeight*2)
	if e.Scale() != 2 {
		t.Fatalf("expected min-axis scale 2, got %g", e.Scale())
	}
}

func TestRestartAndLoadLevel(t *testing.T) {
	lvl := testLevel()
	e := NewEngine(lvl, DefaultTuning())

	e.ball.Pos = common.Vec2{X: 500, Y: 200}
	e.ball.Vel = common.Vec2{X: 3, Y: 4}
	e.Restart()
	if e.BallState().Pos != lvl.Begin || e.BallState().Vel != (common.Vec2{}) {
		t.Fatalf("restart did not reset ball: %+v", e.BallState())
	}

	next := &levels.Level{
		Index: 2,
		Begin: common.Vec2{X: 50, Y: 50},
		End:   common.Vec2{X: 750, Y: 50},
	}
	e.LoadLevel(next)
	if e.Level().Index != 2 {
		t.Fatalf("level not replaced: %d", e.Level().Index)
	}
	if e.BallState().Pos != next.Begin {
		t.Fatalf("ball not moved to new begin: %+v", e.BallState().Pos)
	}
	if e.Animation() != AnimIdle {
		t.Fatalf("animation not cleared on level load")
	}
}

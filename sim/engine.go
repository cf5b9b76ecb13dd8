package sim

import (
	"math"
	"time"

	"github.com/labyrinth-go/labyrinth/common"
	"github.com/labyrinth-go/labyrinth/levels"
)

// Ball is the mutable ball state in presentation coordinates.
type Ball struct {
	Pos    common.Vec2
	Vel    common.Vec2
	Radius float64
}

// Engine steps one ball through one level. It is not safe for concurrent
// use; the loop goroutine owns it and hands read-only snapshots out.
type Engine struct {
	tuning Tuning
	events Events

	level  *levels.Level
	scale  float64
	bounds common.Rect

	// level geometry scaled into presentation space. Rebuilt on resize
	// and on level load, never per frame.
	walls []common.Rect
	holes []common.Vec2
	begin common.Vec2
	goal  common.Vec2

	ball Ball
	anim animation

	lastImpact time.Time
	hasImpact  bool
}

// NewEngine creates an engine for the given level at a 1:1 design scale.
func NewEngine(lvl *levels.Level, tuning Tuning) *Engine {
	e := &Engine{
		tuning: tuning,
		events: NopEvents{},
		scale:  1,
		bounds: common.Rect{Right: levels.DesignWidth, Bottom: levels.DesignHeight},
	}
	e.LoadLevel(lvl)
	return e
}

// SetEvents registers the single event subscriber. A nil subscriber
// restores the no-op sink.
func (e *Engine) SetEvents(ev Events) {
	if ev == nil {
		e.events = NopEvents{}
		return
	}
	e.events = ev
}

// SetTuning replaces the feel constants. Scaled geometry is unaffected;
// radii derived from tuning are recomputed on the next use.
func (e *Engine) SetTuning(t Tuning) {
	e.tuning = t
	e.ball.Radius = t.BallRadius * e.scale
}

func (e *Engine) Tuning() Tuning {
	return e.tuning
}

// Level returns the active level geometry in design space.
func (e *Engine) Level() *levels.Level {
	return e.level
}

// LoadLevel replaces the active level wholesale and resets the ball to
// the new begin point.
func (e *Engine) LoadLevel(lvl *levels.Level) {
	e.level = lvl
	e.rescale()
	e.Restart()
}

// Restart puts the ball back on the begin point with zero velocity and
// clears any running transition.
func (e *Engine) Restart() {
	e.ball.Pos = e.begin
	e.ball.Vel = common.Vec2{}
	e.anim.reset()
}

// Resize recomputes the design-to-presentation scale for a new playfield
// size. Geometry is rescaled exactly once; the ball keeps its relative
// position.
func (e *Engine) Resize(width, height float64) {
	scale := math.Min(width/levels.DesignWidth, height/levels.DesignHeight)
	if scale <= 0 || scale == e.scale {
		return
	}
	ratio := scale / e.scale
	e.scale = scale
	e.ball.Pos = e.ball.Pos.Scale(ratio)
	e.ball.Vel = e.ball.Vel.Scale(ratio)
	e.anim.target = e.anim.target.Scale(ratio)
	e.anim.from = e.anim.from.Scale(ratio)
	e.rescale()
}

// Scale returns the current design-to-presentation factor.
func (e *Engine) Scale() float64 {
	return e.scale
}

func (e *Engine) rescale() {
	e.bounds = common.Rect{
		Right:  levels.DesignWidth * e.scale,
		Bottom: levels.DesignHeight * e.scale,
	}
	e.ball.Radius = e.tuning.BallRadius * e.scale
	if e.level == nil {
		return
	}
	e.walls = e.walls[:0]
	for _, w := range e.level.Walls {
		e.walls = append(e.walls, w.Scale(e.scale))
	}
	e.holes = e.holes[:0]
	for _, h := range e.level.Holes {
		e.holes = append(e.holes, h.Scale(e.scale))
	}
	e.begin = e.level.Begin.Scale(e.scale)
	e.goal = e.level.End.Scale(e.scale)
}

// Step advances the simulation by one tick. tilt is the smoothed 2D
// acceleration sample for this tick; now is the tick timestamp.
func (e *Engine) Step(tilt common.Vec2, now time.Time) {
	if e.anim.kind != AnimIdle {
		e.stepAnimation(now)
		return
	}

	e.applyGravityWells(tilt)

	v := e.ball.Vel.Add(tilt.Scale(e.tuning.TiltGain * e.scale))
	v = v.Scale(e.tuning.Friction)
	maxV := e.tuning.MaxVelocity * e.scale
	v.X = common.Clamp(v.X, -maxV, maxV)
	v.Y = common.Clamp(v.Y, -maxV, maxV)
	e.ball.Vel = v

	prev := e.ball.Pos
	e.ball.Pos = e.ball.Pos.Add(v)

	e.resolveWalls(now)

	if e.checkHoles(prev, now) {
		// A hole capture blanks the rest of the tick: the goal is never
		// evaluated in the same tick as a fall.
		return
	}
	e.checkGoal(now)
}

// applyGravityWells pulls the ball toward nearby holes. The pull falls
// off quadratically with distance and is divided down by tilt magnitude,
// so active steering weakens it.
func (e *Engine) applyGravityWells(tilt common.Vec2) {
	radius := e.tuning.GravityRadiusMult * e.ball.Radius
	if radius <= 0 {
		return
	}
	damp := 1 + e.tuning.GravityTiltDamp*tilt.Len()
	for _, h := range e.holes {
		d := h.Sub(e.ball.Pos)
		distSq := d.LenSq()
		if distSq == 0 || distSq >= radius*radius {
			continue
		}
		falloff := 1 - distSq/(radius*radius)
		pull := e.tuning.GravityStrength * e.scale * falloff * falloff / damp
		e.ball.Vel = e.ball.Vel.Add(d.Normalize().Scale(pull))
	}
}

func (e *Engine) resolveWalls(now time.Time) {
	margin := e.tuning.WallMargin * e.scale
	for _, w := range e.walls {
		e.resolveRect(w.Inflate(margin), now)
	}

	// Playfield boundary, as four rects outside the screen. Same
	// resolution and restitution as interior walls.
	const t = 1000.0
	edges := [4]common.Rect{
		{Left: e.bounds.Left - t, Top: e.bounds.Top - t, Right: e.bounds.Left, Bottom: e.bounds.Bottom + t},
		{Left: e.bounds.Right, Top: e.bounds.Top - t, Right: e.bounds.Right + t, Bottom: e.bounds.Bottom + t},
		{Left: e.bounds.Left - t, Top: e.bounds.Top - t, Right: e.bounds.Right + t, Bottom: e.bounds.Top},
		{Left: e.bounds.Left - t, Top: e.bounds.Bottom, Right: e.bounds.Right + t, Bottom: e.bounds.Bottom + t},
	}
	for _, edge := range edges {
		e.resolveRect(edge, now)
	}
}

// resolveRect resolves a circle-vs-rect interpenetration: push the ball
// out along the closest-point normal and reflect the dominant axis of the
// velocity, damped by restitution.
func (e *Engine) resolveRect(rect common.Rect, now time.Time) {
	pos := e.ball.Pos
	r := e.ball.Radius
	closest := rect.ClosestPoint(pos)
	d := pos.Sub(closest)
	distSq := d.LenSq()
	if distSq >= r*r {
		return
	}

	var impact float64
	if distSq > 0 {
		dist := math.Sqrt(distSq)
		n := d.Scale(1 / dist)
		e.ball.Pos = pos.Add(n.Scale(r - dist))
		if math.Abs(n.X) >= math.Abs(n.Y) {
			impact = math.Abs(e.ball.Vel.X)
			e.ball.Vel.X = -e.ball.Vel.X * e.tuning.Restitution
		} else {
			impact = math.Abs(e.ball.Vel.Y)
			e.ball.Vel.Y = -e.ball.Vel.Y * e.tuning.Restitution
		}
	} else {
		// Ball center on (or inside) the rect: push out along the
		// nearest of the four edges.
		left := pos.X - rect.Left
		right := rect.Right - pos.X
		top := pos.Y - rect.Top
		bottom := rect.Bottom - pos.Y
		min := math.Min(math.Min(left, right), math.Min(top, bottom))
		switch min {
		case left:
			e.ball.Pos.X = rect.Left - r
		case right:
			e.ball.Pos.X = rect.Right + r
		case top:
			e.ball.Pos.Y = rect.Top - r
		default:
			e.ball.Pos.Y = rect.Bottom + r
		}
		if min == left || min == right {
			impact = math.Abs(e.ball.Vel.X)
			e.ball.Vel.X = -e.ball.Vel.X * e.tuning.Restitution
		} else {
			impact = math.Abs(e.ball.Vel.Y)
			e.ball.Vel.Y = -e.ball.Vel.Y * e.tuning.Restitution
		}
	}

	e.reportImpact(impact, now)
}

// reportImpact emits a wall impact event, rate-limited by a cooldown
// window so a ball resting against a wall does not flood the subscriber.
func (e *Engine) reportImpact(speed float64, now time.Time) {
	minSpeed := e.tuning.ImpactMinSpeed * e.scale
	if speed < minSpeed {
		return
	}
	if e.hasImpact && now.Sub(e.lastImpact) < e.tuning.ImpactCooldown {
		return
	}
	e.hasImpact = true
	e.lastImpact = now
	maxV := e.tuning.MaxVelocity * e.scale
	e.events.WallImpact(common.Clamp(speed/maxV, 0, 1))
}

// checkHoles tests hole capture with a swept segment so a fast ball
// cannot tunnel across a hole in one tick.
func (e *Engine) checkHoles(prev common.Vec2, now time.Time) bool {
	catch := e.tuning.HoleRadius * e.tuning.HoleDetectRatio * e.scale
	for _, h := range e.holes {
		captured := e.ball.Pos.DistSq(h) < catch*catch
		if !captured {
			onPath := common.ClosestPointOnSegment(h, prev, e.ball.Pos)
			captured = onPath.DistSq(h) < catch*catch
		}
		if !captured {
			continue
		}
		if e.anim.begin(AnimFallingIntoHole, e.ball.Pos, h, now) {
			e.ball.Vel = common.Vec2{}
			e.events.HoleFall()
		}
		return true
	}
	return false
}

func (e *Engine) checkGoal(now time.Time) {
	catch := e.tuning.GoalRadius * e.tuning.GoalDetectRatio * e.scale
	ballR := e.ball.Radius * e.tuning.GoalBallRatio
	reach := catch + ballR
	if e.ball.Pos.DistSq(e.goal) >= reach*reach {
		return
	}
	if e.anim.begin(AnimReachingGoal, e.ball.Pos, e.goal, now) {
		e.ball.Vel = common.Vec2{}
		e.events.GoalReached()
	}
}

// stepAnimation drives the ball while a transition owns it. The fall
// animation eases the ball into the hole on an accelerating curve; the
// goal animation holds the ball on the goal and only gates timing.
func (e *Engine) stepAnimation(now time.Time) {
	p := e.anim.progress(now, e.tuning.AnimDuration)
	switch e.anim.kind {
	case AnimFallingIntoHole:
		t := p * p
		e.ball.Pos = common.Vec2{
			X: common.Lerp(e.anim.from.X, e.anim.target.X, t),
			Y: common.Lerp(e.anim.from.Y, e.anim.target.Y, t),
		}
	case AnimReachingGoal:
		e.ball.Pos = e.anim.target
	}

	if p < 1 {
		return
	}
	kind := e.anim.kind
	fired := e.anim.fired
	e.anim.fired = true
	e.anim.kind = AnimIdle
	if fired {
		return
	}
	switch kind {
	case AnimFallingIntoHole:
		e.ball.Pos = e.begin
		e.ball.Vel = common.Vec2{}
		e.events.FallInHole()
	case AnimReachingGoal:
		e.events.LevelComplete()
	}
}

// Snapshot is an immutable view of the engine for the renderer.
type Snapshot struct {
	Ball         Ball
	Anim         AnimationKind
	AnimProgress float64
	LevelIndex   int
	Scale        float64
}

// Snapshot copies the render-relevant state. Safe to hand across
// goroutines by value.
func (e *Engine) Snapshot(now time.Time) Snapshot {
	idx := 0
	if e.level != nil {
		idx = e.level.Index
	}
	return Snapshot{
		Ball:         e.ball,
		Anim:         e.anim.kind,
		AnimProgress: e.anim.progress(now, e.tuning.AnimDuration),
		LevelIndex:   idx,
		Scale:        e.scale,
	}
}

// Animation reports the current transition kind.
func (e *Engine) Animation() AnimationKind {
	return e.anim.kind
}

// ShiftAnimation moves a running transition's start forward by d, so time
// spent paused does not count against the animation clock. No-op while
// idle.
func (e *Engine) ShiftAnimation(d time.Duration) {
	if e.anim.kind != AnimIdle {
		e.anim.started = e.anim.started.Add(d)
	}
}

// BallState returns a copy of the ball.
func (e *Engine) BallState() Ball {
	return e.ball
}

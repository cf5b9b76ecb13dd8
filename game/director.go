package game

import (
	"log"
	"sync"
	"time"

	"github.com/labyrinth-go/labyrinth/common"
	"github.com/labyrinth-go/labyrinth/levels"
	"github.com/labyrinth-go/labyrinth/session"
	"github.com/labyrinth-go/labyrinth/sim"
)

// NoteKind tags a message from the simulation to the UI goroutine.
type NoteKind int

const (
	NoteImpact NoteKind = iota
	NoteFall
	NoteGoal
	NoteAttempt
	NoteLevelComplete
	NoteGameOver
)

// Note is a discrete observation drained by the UI each frame.
type Note struct {
	Kind          NoteKind
	Strength      float64       // NoteImpact
	Attempts      int           // NoteAttempt: falls in the current run
	Level         int           // NoteLevelComplete: the finished level
	LevelTime     time.Duration // NoteLevelComplete
	NextLevel     int           // NoteLevelComplete
	Rank          session.Rank  // NoteGameOver
	TotalTime     time.Duration // NoteGameOver
	TotalAttempts int           // NoteGameOver
}

type command func(d *Director, now time.Time)

// Director owns the engine and tracker on the loop goroutine. UI-side
// calls enqueue commands; the queue is drained at the start of each tick,
// so engine and tracker have exactly one writer. Simulation events flow
// back to the UI through a buffered note channel.
type Director struct {
	engine  *sim.Engine
	tracker *session.Tracker

	mu   sync.Mutex
	cmds []command

	notes chan Note

	// now is the current tick's timestamp; session bookkeeping runs on
	// this clock, never on the wall clock.
	now      time.Time
	pausedAt time.Time

	paused  bool
	over    bool
	started bool
}

// NewDirector wires the engine's event subscriber and prepares the note
// channel. The tracker decides the starting level; the caller must load
// it into the engine before the first tick.
func NewDirector(engine *sim.Engine, tracker *session.Tracker) *Director {
	d := &Director{
		engine:  engine,
		tracker: tracker,
		notes:   make(chan Note, 64),
	}
	engine.SetEvents(d)
	return d
}

// Notes is the channel the UI drains every frame.
func (d *Director) Notes() <-chan Note {
	return d.notes
}

func (d *Director) enqueue(cmd command) {
	d.mu.Lock()
	d.cmds = append(d.cmds, cmd)
	d.mu.Unlock()
}

// Pause freezes the simulation and flushes progress.
func (d *Director) Pause() {
	d.enqueue(func(d *Director, now time.Time) {
		if d.paused {
			return
		}
		d.paused = true
		d.pausedAt = now
		d.tracker.Pause(now)
	})
}

// Resume unfreezes the simulation.
func (d *Director) Resume() {
	d.enqueue(func(d *Director, now time.Time) {
		if !d.paused || d.over {
			return
		}
		d.paused = false
		if !d.pausedAt.IsZero() {
			// A running fall/goal transition must not age while paused.
			d.engine.ShiftAnimation(now.Sub(d.pausedAt))
			d.pausedAt = time.Time{}
		}
		d.tracker.Resume(now)
	})
}

// RestartLevel puts the ball back on the start point. The run clock and
// attempt count keep going; restarting is not a free retry.
func (d *Director) RestartLevel() {
	d.enqueue(func(d *Director, now time.Time) {
		if d.over {
			return
		}
		d.engine.Restart()
	})
}

// ResetProgress wipes the session and starts over from the first level.
func (d *Director) ResetProgress() {
	d.enqueue(func(d *Director, now time.Time) {
		if err := d.tracker.Reset(); err != nil {
			log.Printf("director: reset progress: %v", err)
		}
		d.over = false
		d.paused = false
		d.loadLevel(d.tracker.CurrentLevel(), now)
	})
}

// Resize forwards a playfield size change to the engine.
func (d *Director) Resize(width, height float64) {
	d.enqueue(func(d *Director, _ time.Time) {
		d.engine.Resize(width, height)
	})
}

// SetTuning swaps feel constants, for live tuning reload.
func (d *Director) SetTuning(t sim.Tuning) {
	d.enqueue(func(d *Director, _ time.Time) {
		d.engine.SetTuning(t)
	})
}

func (d *Director) loadLevel(index int, now time.Time) {
	lvl, err := levels.Load(index)
	if err != nil {
		// A bad level must not kill the loop; stay on the current one.
		log.Printf("director: load level %d: %v", index, err)
		d.engine.Restart()
		return
	}
	d.engine.LoadLevel(lvl)
	d.tracker.BeginRun(now)
}

// Step implements loop.Stepper. It drains queued commands, then advances
// the simulation unless paused or finished.
func (d *Director) Step(tilt common.Vec2, now time.Time) {
	d.now = now
	d.mu.Lock()
	cmds := d.cmds
	d.cmds = nil
	d.mu.Unlock()
	for _, cmd := range cmds {
		cmd(d, now)
	}

	if !d.started {
		d.started = true
		d.tracker.BeginRun(now)
	}

	if d.paused || d.over {
		return
	}
	d.engine.Step(tilt, now)
}

// Snapshot implements loop.Stepper.
func (d *Director) Snapshot(now time.Time) sim.Snapshot {
	return d.engine.Snapshot(now)
}

func (d *Director) post(n Note) {
	select {
	case d.notes <- n:
	default:
		log.Printf("director: note channel full, dropping %d", n.Kind)
	}
}

// WallImpact implements sim.Events.
func (d *Director) WallImpact(strength float64) {
	d.post(Note{Kind: NoteImpact, Strength: strength})
}

// HoleFall implements sim.Events.
func (d *Director) HoleFall() {
	d.post(Note{Kind: NoteFall})
}

// GoalReached implements sim.Events.
func (d *Director) GoalReached() {
	d.post(Note{Kind: NoteGoal})
}

// FallInHole implements sim.Events; one failed attempt.
func (d *Director) FallInHole() {
	d.tracker.FallInHole()
	d.post(Note{Kind: NoteAttempt, Attempts: d.tracker.RunAttempts()})
}

// LevelComplete implements sim.Events. Fired from the loop goroutine at
// the end of the goal animation; finalizes the run on the tick clock and
// advances.
func (d *Director) LevelComplete() {
	now := d.now
	finished := d.tracker.CurrentLevel()
	levelTime := d.tracker.CompleteLevel(now)

	if rank, ok := d.tracker.Rank(); ok && finished == levels.Count() {
		d.over = true
		d.post(Note{
			Kind:          NoteGameOver,
			Rank:          rank,
			TotalTime:     d.tracker.TotalTime(),
			TotalAttempts: d.tracker.TotalAttempts(),
		})
		return
	}

	next := d.tracker.CurrentLevel()
	d.loadLevel(next, now)
	d.post(Note{
		Kind:      NoteLevelComplete,
		Level:     finished,
		LevelTime: levelTime,
		NextLevel: next,
	})
}

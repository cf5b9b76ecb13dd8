package loop

import (
	"log"
	"sync"
	"time"

	"github.com/labyrinth-go/labyrinth/common"
	"github.com/labyrinth-go/labyrinth/sim"
)

// TickRate is the nominal simulation frequency.
const TickRate = 60

// DefaultInterval is the per-tick time budget at TickRate.
const DefaultInterval = time.Second / TickRate

// Stepper advances the simulation one tick and exposes render snapshots.
// *sim.Engine satisfies it.
type Stepper interface {
	Step(tilt common.Vec2, now time.Time)
	Snapshot(now time.Time) sim.Snapshot
}

// Runner drives a Stepper at a fixed rate on its own goroutine. Each
// iteration acquires a frame from the surface, steps the simulation with
// the latest tilt sample, presents the snapshot, then sleeps whatever is
// left of the tick budget. Overrunning ticks skip the sleep and catch up.
type Runner struct {
	stepper  Stepper
	surface  Surface
	tilt     *TiltSlot
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewRunner creates a stopped runner. interval <= 0 selects DefaultInterval.
func NewRunner(stepper Stepper, surface Surface, tilt *TiltSlot, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		stepper:  stepper,
		surface:  surface,
		tilt:     tilt,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop goroutine. Subsequent calls are no-ops.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		go r.run()
	})
}

// Stop signals the loop and waits for the goroutine to exit. Idempotent.
// After Stop returns, no further tick touches the surface.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	r.startOnce.Do(func() {
		// Never started; nothing to join.
		close(r.done)
	})
	<-r.done
}

func (r *Runner) run() {
	defer close(r.done)
	for {
		select {
		case <-r.stop:
			return
		default:
		}

		start := time.Now()
		r.tick(start)

		if remaining := r.interval - time.Since(start); remaining > 0 {
			timer := time.NewTimer(remaining)
			select {
			case <-r.stop:
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}
}

// tick runs one simulation step against an acquired frame. The frame is
// released even if the step fails, and a step fault ends the tick, not
// the loop.
func (r *Runner) tick(now time.Time) {
	frame, ok := r.surface.Acquire()
	if !ok {
		return
	}
	defer r.surface.Release(frame)
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("loop: tick fault recovered: %v", rec)
		}
	}()

	var tilt common.Vec2
	if r.tilt != nil {
		tilt = r.tilt.Load()
	}
	r.stepper.Step(tilt, now)
	frame.Present(r.stepper.Snapshot(now))
}

// Command replay runs a recorded tilt script through the full
// simulation stack without a window and reports what happened. Useful
// for regression-checking level feel after tuning changes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/labyrinth-go/labyrinth/common"
	"github.com/labyrinth-go/labyrinth/game"
	"github.com/labyrinth-go/labyrinth/levels"
	"github.com/labyrinth-go/labyrinth/loop"
	"github.com/labyrinth-go/labyrinth/session"
	"github.com/labyrinth-go/labyrinth/sim"
	"github.com/labyrinth-go/labyrinth/tuning"
)

// script is the recorded input: one tilt sample per tick.
type script struct {
	Level   int           `yaml:"level"`
	Ticks   int           `yaml:"ticks"`
	Hold    bool          `yaml:"hold"` // keep applying the last sample
	Samples []common.Vec2 `yaml:"samples"`
}

func main() {
	scriptFlag := flag.String("script", "", "tilt script YAML (required)")
	tuneFlag := flag.String("tune", "", "tuning YAML override")
	paceFlag := flag.Bool("pace", false, "run in real time through the loop runner")
	flag.Parse()

	if *scriptFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	sc, err := loadScript(*scriptFlag)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}

	tun := sim.DefaultTuning()
	if *tuneFlag != "" {
		if tun, err = tuning.Load(*tuneFlag); err != nil {
			log.Fatalf("replay: %v", err)
		}
	}

	lvl, err := levels.Load(sc.Level)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}

	tracker := session.NewTracker(session.NewMemStore(), levels.Count())
	tracker.SetCurrentLevel(sc.Level)
	engine := sim.NewEngine(lvl, tun)
	director := game.NewDirector(engine, tracker)

	if *paceFlag {
		runPaced(director, sc)
	} else {
		runFast(director, sc)
	}
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %q: %w", path, err)
	}
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("unmarshal script %q: %w", path, err)
	}
	if sc.Level < 1 {
		sc.Level = 1
	}
	if sc.Ticks <= 0 {
		sc.Ticks = len(sc.Samples)
		if sc.Hold {
			sc.Ticks = 60 * loop.TickRate // one minute
		}
	}
	return &sc, nil
}

// sample returns the tick's tilt, holding the final sample if asked.
func (s *script) sample(tick int) common.Vec2 {
	if tick < len(s.Samples) {
		return s.Samples[tick]
	}
	if s.Hold && len(s.Samples) > 0 {
		return s.Samples[len(s.Samples)-1]
	}
	return common.Vec2{}
}

// runFast drives the director directly on a synthetic clock, as fast as
// the machine allows.
func runFast(director *game.Director, sc *script) {
	now := time.Now()
	for tick := 0; tick < sc.Ticks; tick++ {
		director.Step(sc.sample(tick), now)
		now = now.Add(loop.DefaultInterval)
		if report(director, tick) {
			return
		}
	}
	fmt.Printf("script exhausted after %d ticks\n", sc.Ticks)
}

// runPaced pushes samples through the tilt slot and lets the loop runner
// pace the simulation in real time, the way the game runs it.
func runPaced(director *game.Director, sc *script) {
	tilt := &loop.TiltSlot{}
	surface := &loop.SnapshotSurface{}
	runner := loop.NewRunner(director, surface, tilt, 0)
	runner.Start()
	defer runner.Stop()

	for tick := 0; tick < sc.Ticks; tick++ {
		tilt.Store(sc.sample(tick))
		time.Sleep(loop.DefaultInterval)
		if report(director, tick) {
			return
		}
	}
	fmt.Printf("script exhausted after %d ticks\n", sc.Ticks)
}

// report drains pending notes; true means the session ended.
func report(director *game.Director, tick int) bool {
	for {
		select {
		case n := <-director.Notes():
			switch n.Kind {
			case game.NoteImpact:
				fmt.Printf("tick %6d  wall impact %.2f\n", tick, n.Strength)
			case game.NoteFall:
				fmt.Printf("tick %6d  fell into hole\n", tick)
			case game.NoteLevelComplete:
				fmt.Printf("tick %6d  level %d complete in %s (next: %d)\n",
					tick, n.Level, n.LevelTime.Round(time.Millisecond), n.NextLevel)
			case game.NoteGameOver:
				fmt.Printf("tick %6d  all levels complete, rank %s, %s, %d falls\n",
					tick, n.Rank, n.TotalTime.Round(time.Millisecond), n.TotalAttempts)
				return true
			}
		default:
			return false
		}
	}
}

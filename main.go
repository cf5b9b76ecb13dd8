package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/labyrinth-go/labyrinth/game"
	"github.com/labyrinth-go/labyrinth/levels"
	"github.com/labyrinth-go/labyrinth/loop"
	"github.com/labyrinth-go/labyrinth/session"
	"github.com/labyrinth-go/labyrinth/sim"
	"github.com/labyrinth-go/labyrinth/tuning"
)

func main() {
	levelFlag := flag.Int("level", 0, "start at level n, overriding saved progress")
	tuneFlag := flag.String("tune", "", "tuning YAML file, watched for live reload")
	muteFlag := flag.Bool("mute", false, "disable sound")
	saveFlag := flag.String("save", "", "save file path (default: user config dir)")
	flag.Parse()

	tun := sim.DefaultTuning()
	if *tuneFlag != "" {
		t, err := tuning.Load(*tuneFlag)
		if err != nil {
			log.Printf("tuning file ignored: %v", err)
		} else {
			tun = t
		}
	}

	store := openStore(*saveFlag)
	tracker := session.NewTracker(store, levels.Count())
	if *levelFlag != 0 {
		tracker.SetCurrentLevel(*levelFlag)
	}

	lvl, err := levels.Load(tracker.CurrentLevel())
	if err != nil {
		log.Fatalf("load level %d: %v", tracker.CurrentLevel(), err)
	}

	engine := sim.NewEngine(lvl, tun)
	director := game.NewDirector(engine, tracker)
	tiltSlot := &loop.TiltSlot{}
	surface := &loop.SnapshotSurface{}
	runner := loop.NewRunner(director, surface, tiltSlot, 0)

	g := NewGame(director, runner, surface, tiltSlot, NewSounds(*muteFlag), tun)

	if *tuneFlag != "" {
		watchTuning(*tuneFlag, director)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1200, 720)
	ebiten.SetWindowTitle("labyrinth")

	runner.Start()
	defer runner.Stop()

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}

	// The loop is joined before the final flush, so the tracker has no
	// other writer left.
	runner.Stop()
	tracker.Pause(time.Now())
}

func openStore(path string) session.Store {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			log.Printf("no config dir, progress will not persist: %v", err)
			return session.NewMemStore()
		}
		path = filepath.Join(dir, "labyrinth", "save.yaml")
	}
	store, err := session.OpenFileStore(path)
	if err != nil {
		log.Printf("save file unusable, progress will not persist: %v", err)
		return session.NewMemStore()
	}
	return store
}

func watchTuning(path string, director *game.Director) {
	watcher, err := tuning.NewWatcher(path)
	if err != nil {
		log.Printf("tuning watch disabled: %v", err)
		return
	}
	go func() {
		for {
			select {
			case name, ok := <-watcher.Events:
				if !ok {
					return
				}
				t, err := tuning.Load(name)
				if err != nil {
					log.Printf("tuning reload: %v", err)
					continue
				}
				director.SetTuning(t)
				log.Printf("tuning reloaded from %s", name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("tuning watch: %v", err)
			}
		}
	}()
}

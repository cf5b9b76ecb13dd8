package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/labyrinth-go/labyrinth/game"
	"github.com/labyrinth-go/labyrinth/levels"
	"github.com/labyrinth-go/labyrinth/loop"
	"github.com/labyrinth-go/labyrinth/sim"
)

type screen int

const (
	screenPlaying screen = iota
	screenPaused
	screenGameOver
)

// Game is the ebiten front-end. The simulation runs on the loop
// goroutine; Update feeds tilt samples in through the tilt slot and
// drains notes out, Draw renders the latest published snapshot.
type Game struct {
	director *game.Director
	runner   *loop.Runner
	surface  *loop.SnapshotSurface
	tiltSlot *loop.TiltSlot
	input    *Input
	sounds   *Sounds
	tuning   sim.Tuning

	screen     screen
	pauseUI    *ebitenui.UI
	gameOverUI *ebitenui.UI

	// display-only counters; the tracker on the loop side is authoritative
	runStart    time.Time
	pausedAt    time.Time
	runAttempts int

	banner      string
	bannerTicks int

	levelCache map[int]*levels.Level

	width, height int
	quit          bool
}

func NewGame(director *game.Director, runner *loop.Runner, surface *loop.SnapshotSurface, tiltSlot *loop.TiltSlot, sounds *Sounds, tuning sim.Tuning) *Game {
	g := &Game{
		director:   director,
		runner:     runner,
		surface:    surface,
		tiltSlot:   tiltSlot,
		input:      NewInput(),
		sounds:     sounds,
		tuning:     tuning,
		runStart:   time.Now(),
		levelCache: map[int]*levels.Level{},
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	if g.quit {
		g.runner.Stop()
		return ebiten.Termination
	}

	g.drainNotes()

	switch g.screen {
	case screenPlaying:
		g.input.Update()
		g.tiltSlot.Store(g.input.Tilt())

		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
			g.pause()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.director.RestartLevel()
		}
	case screenPaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
			g.resume()
		}
		g.pauseUI.Update()
	case screenGameOver:
		if g.gameOverUI != nil {
			g.gameOverUI.Update()
		}
	}

	if g.bannerTicks > 0 {
		g.bannerTicks--
	}
	return nil
}

func (g *Game) drainNotes() {
	for {
		select {
		case n := <-g.director.Notes():
			g.handleNote(n)
		default:
			return
		}
	}
}

func (g *Game) handleNote(n game.Note) {
	switch n.Kind {
	case game.NoteImpact:
		g.sounds.Impact(n.Strength)
	case game.NoteFall:
		g.sounds.Fall()
	case game.NoteGoal:
		g.sounds.Goal()
	case game.NoteAttempt:
		g.runAttempts = n.Attempts
	case game.NoteLevelComplete:
		g.banner = fmt.Sprintf("Level %d complete in %s", n.Level, n.LevelTime.Round(time.Millisecond*100))
		g.bannerTicks = 180
		g.runStart = time.Now()
		g.runAttempts = 0
	case game.NoteGameOver:
		g.screen = screenGameOver
		g.gameOverUI = NewGameOverUI(g, n.Rank, n.TotalTime, n.TotalAttempts)
	}
}

func (g *Game) pause() {
	g.screen = screenPaused
	g.pausedAt = time.Now()
	g.director.Pause()
}

func (g *Game) resume() {
	g.screen = screenPlaying
	if !g.pausedAt.IsZero() {
		// Keep the HUD clock from counting the paused span.
		g.runStart = g.runStart.Add(time.Since(g.pausedAt))
		g.pausedAt = time.Time{}
	}
	g.director.Resume()
}

func (g *Game) restartFromPause() {
	g.director.RestartLevel()
	g.resume()
}

func (g *Game) resetProgress() {
	g.director.ResetProgress()
	g.runStart = time.Now()
	g.runAttempts = 0
	g.screen = screenPlaying
	g.gameOverUI = nil
}

func (g *Game) level(index int) *levels.Level {
	if lvl, ok := g.levelCache[index]; ok {
		return lvl
	}
	lvl, err := levels.Load(index)
	if err != nil {
		return nil
	}
	g.levelCache[index] = lvl
	return lvl
}

func (g *Game) Draw(target *ebiten.Image) {
	target.Fill(color.RGBA{R: 0x20, G: 0x24, B: 0x2c, A: 0xff})

	snap, ok := g.surface.Latest()
	if !ok {
		return
	}
	g.drawLevel(target, snap)
	g.drawBall(target, snap)
	g.drawHUD(target, snap)

	switch g.screen {
	case screenPaused:
		g.pauseUI.Draw(target)
	case screenGameOver:
		if g.gameOverUI != nil {
			g.gameOverUI.Draw(target)
		}
	}
}

func (g *Game) drawLevel(target *ebiten.Image, snap sim.Snapshot) {
	lvl := g.level(snap.LevelIndex)
	if lvl == nil {
		return
	}
	s := float32(snap.Scale)

	wallColor := color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	for _, w := range lvl.Walls {
		vector.DrawFilledRect(target,
			float32(w.Left)*s, float32(w.Top)*s,
			float32(w.Width())*s, float32(w.Height())*s,
			wallColor, true)
	}

	holeR := float32(g.tuning.HoleRadius) * s
	for _, h := range lvl.Holes {
		vector.DrawFilledCircle(target, float32(h.X)*s, float32(h.Y)*s, holeR, color.RGBA{A: 0xff}, true)
	}

	goalR := float32(g.tuning.GoalRadius) * s
	vector.DrawFilledCircle(target, float32(lvl.End.X)*s, float32(lvl.End.Y)*s, goalR, color.RGBA{G: 0x9a, B: 0x3c, A: 0xff}, true)
	vector.DrawFilledCircle(target, float32(lvl.Begin.X)*s, float32(lvl.Begin.Y)*s, 4*s, color.RGBA{R: 0x50, G: 0x50, B: 0x58, A: 0xff}, true)
}

func (g *Game) drawBall(target *ebiten.Image, snap sim.Snapshot) {
	r := snap.Ball.Radius
	if snap.Anim == sim.AnimFallingIntoHole {
		r *= 1 - 0.8*snap.AnimProgress
	}
	vector.DrawFilledCircle(target,
		float32(snap.Ball.Pos.X), float32(snap.Ball.Pos.Y), float32(r),
		color.RGBA{R: 0xd6, G: 0x3a, B: 0x3a, A: 0xff}, true)
}

func (g *Game) drawHUD(target *ebiten.Image, snap sim.Snapshot) {
	elapsed := time.Since(g.runStart).Round(time.Second)
	ebitenutil.DebugPrintAt(target,
		fmt.Sprintf("Level %d/%d   Time %s   Falls %d   FPS %.0f",
			snap.LevelIndex, levels.Count(), elapsed, g.runAttempts, ebiten.ActualFPS()),
		8, 8)
	if g.bannerTicks > 0 {
		ebitenutil.DebugPrintAt(target, g.banner, g.width/2-80, 40)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width = outsideWidth
		g.height = outsideHeight
		g.director.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

package main

import (
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/labyrinth-go/labyrinth/assets"
)

// Sounds maps simulation notes to audio playback. The core never sees
// players or volume; it only emits events.
type Sounds struct {
	impact *audio.Player
	fall   *audio.Player
	goal   *audio.Player
	muted  bool
}

func NewSounds(muted bool) *Sounds {
	return &Sounds{
		impact: assets.NewImpactPlayer(),
		fall:   assets.NewFallPlayer(),
		goal:   assets.NewGoalPlayer(),
		muted:  muted,
	}
}

// Impact plays the wall hit click, volume scaled by impact strength.
func (s *Sounds) Impact(strength float64) {
	if s.muted || s.impact == nil {
		return
	}
	s.impact.SetVolume(0.3 + 0.7*strength)
	s.replay(s.impact)
}

// Fall plays the hole capture sweep.
func (s *Sounds) Fall() {
	if s.muted || s.fall == nil {
		return
	}
	s.fall.SetVolume(1)
	s.replay(s.fall)
}

// Goal plays the completion chime.
func (s *Sounds) Goal() {
	if s.muted || s.goal == nil {
		return
	}
	s.goal.SetVolume(1)
	s.replay(s.goal)
}

func (s *Sounds) replay(p *audio.Player) {
	if err := p.Rewind(); err != nil {
		return
	}
	p.Play()
}

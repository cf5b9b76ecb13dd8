// Package assets owns the shared audio context and the game's sound
// effects. The effects are short synthesized tones, generated once at
// startup, so no binary assets ship with the game.
package assets

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

// Context is the process-wide audio context.
var Context = audio.NewContext(sampleRate)

var (
	impactPCM []byte
	fallPCM   []byte
	goalPCM   []byte
)

func init() {
	impactPCM = sweep(220, 160, 70*time.Millisecond, 18)
	fallPCM = sweep(420, 110, 450*time.Millisecond, 5)
	goalPCM = chord([]float64{523.25, 659.25, 783.99}, 400*time.Millisecond, 4)
}

// NewImpactPlayer returns a fresh player for the wall impact click.
func NewImpactPlayer() *audio.Player {
	return audio.NewPlayerFromBytes(Context, impactPCM)
}

// NewFallPlayer returns a fresh player for the falling-into-hole sweep.
func NewFallPlayer() *audio.Player {
	return audio.NewPlayerFromBytes(Context, fallPCM)
}

// NewGoalPlayer returns a fresh player for the goal chime.
func NewGoalPlayer() *audio.Player {
	return audio.NewPlayerFromBytes(Context, goalPCM)
}

// sweep renders a sine gliding from f0 to f1 with exponential decay,
// as 16-bit little-endian stereo PCM.
func sweep(f0, f1 float64, dur time.Duration, decay float64) []byte {
	n := int(float64(sampleRate) * dur.Seconds())
	out := make([]byte, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := f0 + (f1-f0)*t
		phase += 2 * math.Pi * freq / sampleRate
		env := math.Exp(-decay * t)
		writeSample(out[i*4:], math.Sin(phase)*env)
	}
	return out
}

// chord renders simultaneous sines with exponential decay.
func chord(freqs []float64, dur time.Duration, decay float64) []byte {
	n := int(float64(sampleRate) * dur.Seconds())
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		var v float64
		for _, f := range freqs {
			v += math.Sin(2 * math.Pi * f * float64(i) / sampleRate)
		}
		v /= float64(len(freqs))
		writeSample(out[i*4:], v*math.Exp(-decay*t))
	}
	return out
}

func writeSample(dst []byte, v float64) {
	s := int16(v * 0.6 * math.MaxInt16)
	dst[0] = byte(s)
	dst[1] = byte(s >> 8)
	dst[2] = byte(s)
	dst[3] = byte(s >> 8)
}

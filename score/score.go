// Package score describes voices of a static tone sequence and builds
// the signal graph for them.
package score

import (
	"time"

	"pipelined.dev/tone"
)

// Duration is how long the chord is played. It covers the release of
// the last voice.
const Duration = 5 * time.Second

// Voice is a single note with vibrato, gated by an envelope.
type Voice struct {
	Key    tone.Key
	Octave int
	// VibratoHz is the frequency of vibrato, Cents is its depth. Zero
	// cents disable vibrato.
	VibratoHz float64
	Cents     float64
	// Window is when the note is held.
	Window tone.Window
	// Envelope rates are level change per second.
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Node returns graph of the voice: sine of the note, multiplied by the
// envelope.
func (v Voice) Node() tone.Node {
	sine := v.Key.Note(v.Octave).Sine()
	if v.Cents != 0 {
		sine = sine.Vibrato(tone.Const(v.VibratoHz), v.Cents)
	}
	return tone.Wrap(sine).
		Mul(tone.NewADSR(v.Window, v.Attack, v.Decay, v.Sustain, v.Release))
}

// Build returns the mix of all voices.
func Build(voices []Voice) tone.Node {
	nodes := make([]tone.Node, 0, len(voices))
	for _, v := range voices {
		nodes = append(nodes, v.Node())
	}
	return tone.Mix(nodes...)
}

// Chord returns A4, C4 and F4 entering one second apart and released
// together.
func Chord() []Voice {
	voice := func(k tone.Key, vibratoHz, cents, start, end float64) Voice {
		return Voice{
			Key:       k,
			Octave:    4,
			VibratoHz: vibratoHz,
			Cents:     cents,
			Window:    tone.Window{Start: start, End: end},
			Attack:    8,
			Decay:     15,
			Sustain:   0.6,
			Release:   1,
		}
	}
	return []Voice{
		voice(tone.A, 2, 6, 0, 3.1),
		voice(tone.C, 50, 8, 1, 3.2),
		voice(tone.F, 50, 14, 2, 3.4),
	}
}

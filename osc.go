package tone

import (
	"math"

	"pipelined.dev/tone/signal"
)

// centsPerHz is a linear approximation used by vibrato depth: 14 cents
// swing the frequency by one hertz, regardless of the base pitch.
const centsPerHz = 14.0

// Sine is a sine oscillator. Its frequency is a node, so it can be
// modulated by other nodes.
type Sine struct {
	freq  Node
	phase float64
}

// NewSine returns an oscillator with frequency provided by freq node.
func NewSine(freq Node) *Sine {
	return &Sine{freq: freq}
}

// SineHz returns an oscillator with fixed frequency.
func SineHz(hz float64) *Sine {
	return NewSine(Const(hz))
}

// Advance advances frequency node first and then moves the phase using
// the new frequency.
func (s *Sine) Advance(elapsed signal.Time) {
	s.freq.Advance(elapsed)
	_, s.phase = math.Modf(s.phase + elapsed.Seconds()*s.freq.Value())
	// negative frequencies move phase backwards.
	if s.phase < 0 {
		s.phase++
		if s.phase >= 1 {
			s.phase = 0
		}
	}
}

// Value returns sin(2π·phase).
func (s *Sine) Value() float64 {
	return math.Sin(2 * math.Pi * s.phase)
}

// Phase returns position within the current cycle in [0, 1).
func (s *Sine) Phase() float64 {
	return s.phase
}

// Frequency returns current instantaneous frequency in Hz.
func (s *Sine) Frequency() float64 {
	return s.freq.Value()
}

// Vibrato returns an oscillator which frequency is modulated by another
// sine of hz frequency. Depth is cents/14 Hz, see centsPerHz. Phase of
// the source oscillator is preserved.
func (s *Sine) Vibrato(hz Node, cents float64) *Sine {
	depth := NewProduct(NewSine(hz), Const(cents/centsPerHz))
	return &Sine{
		freq:  NewSum(s.freq, depth),
		phase: s.phase,
	}
}

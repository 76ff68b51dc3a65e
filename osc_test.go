package tone_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/tone"
	"pipelined.dev/tone/signal"
)

func TestSinePeriod(t *testing.T) {
	s := tone.SineHz(440)
	assert.Equal(t, 0.0, s.Phase())
	assert.Equal(t, 0.0, s.Value())

	s.Advance(signal.Samples(1, 440))
	// one full period returns phase to zero.
	assert.InDelta(t, 0, math.Min(s.Phase(), 1-s.Phase()), 1e-9)
	assert.InDelta(t, 0, s.Value(), 1e-9)
}

func TestSineValue(t *testing.T) {
	tests := []struct {
		hz       float64
		elapsed  signal.Time
		phase    float64
		expected float64
	}{
		{hz: 1, elapsed: signal.Samples(1, 4), phase: 0.25, expected: 1},
		{hz: 1, elapsed: signal.Samples(2, 4), phase: 0.5, expected: 0},
		{hz: 1, elapsed: signal.Samples(3, 4), phase: 0.75, expected: -1},
		{hz: 2, elapsed: signal.Samples(5, 8), phase: 0.25, expected: 1},
		{hz: -1, elapsed: signal.Samples(1, 4), phase: 0.75, expected: -1},
		{hz: 0, elapsed: signal.Samples(1, 4), phase: 0, expected: 0},
	}
	for _, c := range tests {
		s := tone.SineHz(c.hz)
		s.Advance(c.elapsed)
		assert.InDelta(t, c.phase, s.Phase(), 1e-12, "%v Hz after %v", c.hz, c.elapsed)
		assert.InDelta(t, c.expected, s.Value(), 1e-12, "%v Hz after %v", c.hz, c.elapsed)
	}
}

func TestSinePhaseRange(t *testing.T) {
	for _, hz := range []float64{-523.25, -1, 0.5, 261.63, 20000} {
		s := tone.SineHz(hz)
		for i := 0; i < 48000; i++ {
			s.Advance(tick)
			assert.True(t, s.Phase() >= 0 && s.Phase() < 1, "phase %v at %v Hz", s.Phase(), hz)
		}
	}
}

func TestSineModulatedFrequencyAdvancesFirst(t *testing.T) {
	freq := &counter{}
	s := tone.NewSine(freq)
	// the frequency source is advanced before the phase uses it.
	s.Advance(signal.Samples(1, 8))
	assert.Equal(t, 1, freq.advances)
	assert.InDelta(t, 0.125, s.Phase(), 1e-12)
	s.Advance(signal.Samples(1, 8))
	assert.InDelta(t, 0.375, s.Phase(), 1e-12)
}

func TestVibrato(t *testing.T) {
	const base = 440.0
	tests := []struct {
		hz    float64
		cents float64
		depth float64
	}{
		{hz: 6, cents: 14, depth: 1},
		{hz: 2, cents: 6, depth: 6.0 / 14},
		{hz: 50, cents: 8, depth: 8.0 / 14},
	}
	for _, c := range tests {
		s := tone.SineHz(base).Vibrato(tone.Const(c.hz), c.cents)
		low, high := base, base
		for i := 0; i < 48000; i++ {
			s.Advance(tick)
			f := s.Frequency()
			low, high = math.Min(low, f), math.Max(high, f)
		}
		assert.True(t, low >= base-c.depth-1e-9, "low %v", low)
		assert.True(t, high <= base+c.depth+1e-9, "high %v", high)
		assert.InDelta(t, base-c.depth, low, 1e-3)
		assert.InDelta(t, base+c.depth, high, 1e-3)
	}
}

func TestVibratoKeepsPhase(t *testing.T) {
	s := tone.SineHz(1)
	s.Advance(signal.Samples(1, 4))
	v := s.Vibrato(tone.Const(5), 14)
	assert.Equal(t, s.Phase(), v.Phase())
	assert.Equal(t, s.Value(), v.Value())
}

func BenchmarkVibratoVoice(b *testing.B) {
	voice := tone.Wrap(tone.A.Note(4).Sine().Vibrato(tone.Const(2), 6)).
		Mul(tone.NewADSR(tone.Window{Start: 0, End: 3.1}, 8, 15, 0.6, 1))
	for i := 0; i < b.N; i++ {
		voice.Advance(tick)
		_ = voice.Value()
	}
}

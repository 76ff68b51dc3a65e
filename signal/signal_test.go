package signal_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/tone/signal"
)

func TestDeinterleave(t *testing.T) {
	tests := []struct {
		data        []float32
		numChannels int
		expected    [][]float32
	}{
		{
			data:        []float32{1, 2, 1, 2, 1, 2, 1, 2},
			numChannels: 2,
			expected: [][]float32{
				{1, 1, 1, 1},
				{2, 2, 2, 2},
			},
		},
		{
			data:        []float32{1, 2, 1, 2, 1},
			numChannels: 2,
			expected: [][]float32{
				{1, 1, 1},
				{2, 2, 0},
			},
		},
		{
			data:     nil,
			expected: nil,
		},
		{
			data:     []float32{1, 2, 3},
			expected: nil,
		},
	}

	for _, test := range tests {
		result := signal.Deinterleave(test.data, test.numChannels)
		assert.Equal(t, len(test.expected), result.NumChannels())
		for i := range test.expected {
			assert.Equal(t, test.expected[i], result[i])
		}
	}
}

func TestDuration(t *testing.T) {
	var tests = []struct {
		sampleRate int
		samples    int64
		expected   time.Duration
	}{
		{
			sampleRate: 44100,
			samples:    44100,
			expected:   1 * time.Second,
		},
		{
			sampleRate: 44100,
			samples:    22050,
			expected:   500 * time.Millisecond,
		},
		{
			sampleRate: 44100,
			samples:    50,
			expected:   1133786 * time.Nanosecond,
		},
	}
	for _, c := range tests {
		assert.Equal(t, c.expected, signal.DurationOf(c.sampleRate, c.samples))
	}
}

func TestSamplesOf(t *testing.T) {
	assert.Equal(t, int64(48000), signal.SamplesOf(48000, time.Second))
	assert.Equal(t, int64(240000), signal.SamplesOf(48000, 5*time.Second))
	assert.Equal(t, int64(0), signal.SamplesOf(48000, time.Microsecond))
}

func TestTimeCompare(t *testing.T) {
	tests := []struct {
		a, b     signal.Time
		expected int
	}{
		{signal.Samples(1, 48000), signal.Samples(1, 48000), 0},
		{signal.Samples(1, 44100), signal.Samples(2, 88200), 0},
		{signal.Samples(1, 48000), signal.Samples(1, 44100), -1},
		{signal.Samples(48000, 48000), signal.Samples(44099, 44100), 1},
		{signal.Samples(0, 48000), signal.Samples(0, 1), 0},
		{signal.Time{}, signal.Samples(0, 96000), 0},
		{signal.Time{}, signal.Samples(1, 96000), -1},
		// products overflow 64 bits.
		{signal.Samples(math.MaxUint64, math.MaxUint64-1), signal.Samples(math.MaxUint64-1, math.MaxUint64-2), -1},
		{signal.Samples(math.MaxUint64, math.MaxUint64), signal.Samples(1, 1), 0},
		{signal.Samples(math.MaxUint64, 3), signal.Samples(math.MaxUint64-1, 3), 1},
	}
	for _, c := range tests {
		assert.Equal(t, c.expected, c.a.Compare(c.b), "%v vs %v", c.a, c.b)
		assert.Equal(t, -c.expected, c.b.Compare(c.a), "%v vs %v", c.b, c.a)
		assert.Equal(t, c.expected == 0, c.a.Equal(c.b))
		assert.Equal(t, c.expected < 0, c.a.Less(c.b))
	}
}

// Within 32-bit operands the exact comparison agrees with the plain
// 64-bit cross-multiplication rule.
func TestTimeCrossMultiplication(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 440, 22050, 44100, 48000, 96000, 192000, math.MaxUint32}
	rates := []uint64{1, 3, 440, 44100, 48000, 96000, math.MaxUint32}
	for _, ac := range values {
		for _, ar := range rates {
			for _, bc := range values {
				for _, br := range rates {
					a, b := signal.Samples(ac, ar), signal.Samples(bc, br)
					assert.Equal(t, ac*br == bc*ar, a.Equal(b))
					assert.Equal(t, ac*br < bc*ar, a.Less(b))
				}
			}
		}
	}
}

func TestTimeAdd(t *testing.T) {
	tests := []struct {
		a, b     signal.Time
		expected signal.Time
	}{
		{signal.Samples(1, 48000), signal.Samples(2, 48000), signal.Samples(3, 48000)},
		{signal.Time{}, signal.Samples(2, 48000), signal.Samples(2, 48000)},
		{signal.Samples(2, 48000), signal.Time{}, signal.Samples(2, 48000)},
		{signal.Samples(1, 2), signal.Samples(1, 3), signal.Samples(5, 6)},
		{signal.Samples(1, 44100), signal.Samples(1, 48000), signal.Samples(307, 7056000)},
	}
	for _, c := range tests {
		result := c.a.Add(c.b)
		assert.True(t, c.expected.Equal(result), "%v + %v = %v", c.a, c.b, result)
	}

	// accumulating single ticks stays exact.
	var elapsed signal.Time
	tick := signal.Samples(1, 48000)
	for i := 0; i < 48000; i++ {
		elapsed = elapsed.Add(tick)
	}
	assert.True(t, elapsed.Equal(signal.Samples(1, 1)))
	assert.Equal(t, 1.0, elapsed.Seconds())
}

func TestTimeConversion(t *testing.T) {
	assert.Equal(t, 0.5, signal.Samples(24000, 48000).Seconds())
	assert.Equal(t, 0.0, signal.Time{}.Seconds())
	assert.Equal(t, 500*time.Millisecond, signal.Samples(24000, 48000).Duration())
	assert.Equal(t, 20833*time.Nanosecond, signal.Samples(1, 48000).Duration())
	assert.Equal(t, 90*time.Minute, signal.Samples(90*60*192000, 192000).Duration())
	assert.True(t, signal.Time{}.IsZero())
	assert.Panics(t, func() { signal.Samples(1, 0) })
}

func TestEncodeFloat32LE(t *testing.T) {
	tests := []struct {
		dst      int
		samples  []float32
		expected []byte
	}{
		{
			dst:      8,
			samples:  []float32{1, -2},
			expected: []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0},
		},
		{
			// dst is too short for the second sample.
			dst:      7,
			samples:  []float32{0.5, 1},
			expected: []byte{0x00, 0x00, 0x00, 0x3f},
		},
		{
			dst:      8,
			samples:  []float32{0},
			expected: []byte{0x00, 0x00, 0x00, 0x00},
		},
	}
	for _, c := range tests {
		dst := make([]byte, c.dst)
		n := signal.EncodeFloat32LE(dst, c.samples)
		assert.Equal(t, len(c.expected), n)
		assert.Equal(t, c.expected, dst[:n])
	}
}

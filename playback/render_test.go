package playback_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/tone/metric"
	"pipelined.dev/tone/playback"
	"pipelined.dev/tone/signal"
)

// counter is a node which value is the number of advances.
type counter struct {
	advances int
	elapsed  signal.Time
}

func (c *counter) Advance(elapsed signal.Time) {
	c.advances++
	c.elapsed = c.elapsed.Add(elapsed)
}

func (c *counter) Value() float64 {
	return float64(c.advances)
}

func TestRender(t *testing.T) {
	tests := []struct {
		channels   int
		bufferSize int
		calls      int
	}{
		{channels: 1, bufferSize: 4, calls: 3},
		{channels: 2, bufferSize: 512, calls: 2},
		{channels: 6, bufferSize: 7, calls: 5},
	}
	for _, c := range tests {
		node := &counter{}
		r := playback.NewRenderer(node, c.channels, 48000, c.calls)
		out := make([]float32, c.bufferSize*c.channels)
		for call := 0; call < c.calls; call++ {
			ts := playback.Timestamp{Callback: 1, Playback: 2}
			r.Render(out, ts, 0)
			assert.Equal(t, ts, <-r.Timestamps())
			for i := 0; i < c.bufferSize; i++ {
				expected := float32(call*c.bufferSize + i + 1)
				for j := 0; j < c.channels; j++ {
					assert.Equal(t, expected, out[i*c.channels+j])
				}
			}
		}
		// one advance of one sample per frame.
		frames := c.calls * c.bufferSize
		assert.Equal(t, frames, node.advances)
		assert.True(t, signal.Samples(uint64(frames), 48000).Equal(node.elapsed))
	}
}

func TestRenderIncompleteFrame(t *testing.T) {
	node := &counter{}
	r := playback.NewRenderer(node, 2, 48000, 1)
	out := []float32{-1, -1, -1, -1, -1}
	r.Render(out, playback.Timestamp{}, 0)
	assert.Equal(t, []float32{1, 1, 2, 2, 0}, out)
	assert.Equal(t, 2, node.advances)
}

func TestRenderDropsTimestamps(t *testing.T) {
	before := counterValue(t, playback.Renderer{}, metric.DroppedCounter)
	r := playback.NewRenderer(&counter{}, 1, 48000, 2)
	out := make([]float32, 16)
	for i := 0; i < 5; i++ {
		r.Render(out, playback.Timestamp{Playback: time.Duration(i)}, 0)
	}
	// the oldest timestamps are kept in order.
	assert.Equal(t, 0, int((<-r.Timestamps()).Playback))
	assert.Equal(t, 1, int((<-r.Timestamps()).Playback))
	assert.Equal(t, before+3, counterValue(t, playback.Renderer{}, metric.DroppedCounter))
}

func TestRenderUnderrun(t *testing.T) {
	before := counterValue(t, &playback.Renderer{}, metric.UnderrunCounter)
	r := playback.NewRenderer(&counter{}, 1, 48000, 4)
	out := make([]float32, 16)
	r.Render(out, playback.Timestamp{}, 0)
	r.Render(out, playback.Timestamp{}, playback.OutputUnderflow|playback.PrimingOutput)
	r.Render(out, playback.Timestamp{}, playback.OutputUnderflow)
	// errors are not queued, one is enough to abort.
	assert.Equal(t, playback.ErrUnderrun, <-r.Errors())
	select {
	case err := <-r.Errors():
		t.Fatalf("unexpected error: %v", err)
	default:
	}
	assert.Equal(t, before+2, counterValue(t, &playback.Renderer{}, metric.UnderrunCounter))
}

func counterValue(t *testing.T, component interface{}, counter string) int {
	s, ok := metric.Get(component)[counter]
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(s)
	assert.Nil(t, err)
	return v
}

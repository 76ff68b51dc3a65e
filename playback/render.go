package playback

import (
	"pipelined.dev/tone"
	"pipelined.dev/tone/metric"
	"pipelined.dev/tone/signal"
)

// DefaultBacklog is the default number of timestamps buffered between
// render callback and controller.
const DefaultBacklog = 256

// Renderer owns the signal graph and fills device buffers with it. Its
// Render method is the only place where the graph is touched once
// playback has started.
type Renderer struct {
	root       tone.Node
	channels   int
	tick       signal.Time
	timestamps chan Timestamp
	errors     chan error
	measure    *metric.Measure
}

// NewRenderer returns renderer which takes ownership of root node.
// Backlog is the number of timestamps which can be queued before they
// are dropped.
func NewRenderer(root tone.Node, channels, sampleRate, backlog int) *Renderer {
	if backlog < 1 {
		backlog = 1
	}
	r := &Renderer{
		root:       root,
		channels:   channels,
		tick:       signal.Samples(1, uint64(sampleRate)),
		timestamps: make(chan Timestamp, backlog),
		errors:     make(chan error, 1),
	}
	r.measure = metric.Meter(r, sampleRate)()
	return r
}

// Render is a RenderFunc. It reports underflow and forwards the timestamp
// to the controller, then advances the graph by one sample per frame, writing the same value
// to every channel of the frame. It never blocks: if the controller is
// behind, the timestamp is dropped.
func (r *Renderer) Render(out []float32, ts Timestamp, status Status) {
	if status.Has(OutputUnderflow) {
		r.measure.Underrun()
		select {
		case r.errors <- ErrUnderrun:
		default:
		}
	}
	select {
	case r.timestamps <- ts:
	default:
		r.measure.Drop()
	}

	frames := len(out) / r.channels
	n := frames * r.channels
	for i := 0; i < n; i += r.channels {
		r.root.Advance(r.tick)
		v := float32(r.root.Value())
		frame := out[i : i+r.channels]
		for j := range frame {
			frame[j] = v
		}
	}
	// incomplete trailing frame is silenced.
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	r.measure.Buffer(int64(frames))
}

// Timestamps returns channel of timestamps in the order of render calls.
func (r *Renderer) Timestamps() <-chan Timestamp {
	return r.timestamps
}

// Errors returns channel of runtime errors reported by render calls.
func (r *Renderer) Errors() <-chan error {
	return r.errors
}

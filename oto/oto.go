// Package oto provides playback device backed by oto. Oto pulls samples
// through io.Reader and doesn't report timing, so timestamps are
// estimated with playback.FrameClock.
package oto

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"pipelined.dev/tone/playback"
	"pipelined.dev/tone/signal"
)

const bytesPerSample = 4

// DefaultLatency is the buffer duration used when latency isn't set.
const DefaultLatency = 50 * time.Millisecond

type (
	// Device is an oto output context. Oto allows only one context per
	// process, so only one device can be opened.
	Device struct {
		ctx        *oto.Context
		channels   int
		sampleRate int
		latency    time.Duration
	}

	// Stream is an oto player which pulls samples from render function.
	Stream struct {
		player *oto.Player
		once   sync.Once
	}

	reader struct {
		render   playback.RenderFunc
		channels int
		clock    *playback.FrameClock
		buf      []float32
	}
)

// Open creates oto context and waits until it's ready. Zero latency
// means DefaultLatency.
func Open(sampleRate, channels int, latency time.Duration) (*Device, error) {
	if sampleRate < 1 || channels < 1 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", playback.ErrInvalidFormat, channels, sampleRate)
	}
	if latency <= 0 {
		latency = DefaultLatency
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", playback.ErrNoDevice, err)
	}
	<-ready
	return &Device{
		ctx:        ctx,
		channels:   channels,
		sampleRate: sampleRate,
		latency:    latency,
	}, nil
}

// Channels returns number of output channels.
func (d *Device) Channels() int {
	return d.channels
}

// SampleRate returns output sample rate.
func (d *Device) SampleRate() int {
	return d.sampleRate
}

// CreateStream creates a paused player for render function.
func (d *Device) CreateStream(render playback.RenderFunc) (playback.Stream, error) {
	r := &reader{
		render:   render,
		channels: d.channels,
		clock:    playback.NewFrameClock(d.sampleRate, d.latency),
	}
	p := d.ctx.NewPlayer(r)
	p.SetBufferSize(int(signal.SamplesOf(d.sampleRate, d.latency)) * d.channels * bytesPerSample)
	return &Stream{player: p}, nil
}

// Play starts pulling samples.
func (s *Stream) Play() error {
	s.player.Play()
	return s.player.Err()
}

// Close pauses the player and releases it.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		s.player.Pause()
		err = s.player.Close()
	})
	return err
}

// Read renders whole frames which fit into p.
func (r *reader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerSample / r.channels
	if frames == 0 {
		return 0, nil
	}
	n := frames * r.channels
	if cap(r.buf) < n {
		r.buf = make([]float32, n)
	}
	buf := r.buf[:n]
	r.render(buf, r.clock.Stamp(frames), 0)
	return signal.EncodeFloat32LE(p, buf), nil
}

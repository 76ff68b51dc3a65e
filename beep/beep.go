// Package beep provides stereo playback device backed by beep speaker.
// Speaker pulls samples through beep.Streamer, timestamps are estimated
// with playback.FrameClock.
package beep

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"pipelined.dev/tone/playback"
)

// beep streams stereo frames only.
const channels = 2

// DefaultLatency is the speaker buffer duration used when latency isn't
// set.
const DefaultLatency = 100 * time.Millisecond

type (
	// Device is an initialized beep speaker. Speaker is a process-wide
	// singleton, so only one device should be opened.
	Device struct {
		sampleRate beep.SampleRate
		latency    time.Duration
	}

	// Stream plays a single streamer on the speaker.
	Stream struct {
		streamer *Streamer
		once     sync.Once
	}

	// Streamer is a beep.Streamer which pulls samples from render
	// function.
	Streamer struct {
		render playback.RenderFunc
		clock  *playback.FrameClock
		buf    []float32
	}
)

// Open initializes speaker with buffer of latency duration. Zero latency
// means DefaultLatency.
func Open(sampleRate int, latency time.Duration) (*Device, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("%w: %d Hz", playback.ErrInvalidFormat, sampleRate)
	}
	if latency <= 0 {
		latency = DefaultLatency
	}
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(latency)); err != nil {
		return nil, fmt.Errorf("%w: %v", playback.ErrNoDevice, err)
	}
	return &Device{
		sampleRate: sr,
		latency:    latency,
	}, nil
}

// Channels returns 2.
func (d *Device) Channels() int {
	return channels
}

// SampleRate returns speaker sample rate.
func (d *Device) SampleRate() int {
	return int(d.sampleRate)
}

// CreateStream returns stream for render function. Nothing is played
// until Play is called.
func (d *Device) CreateStream(render playback.RenderFunc) (playback.Stream, error) {
	return &Stream{
		streamer: NewStreamer(render, d.SampleRate(), d.latency),
	}, nil
}

// Close closes the speaker.
func (d *Device) Close() error {
	speaker.Close()
	return nil
}

// Play adds streamer to the speaker.
func (s *Stream) Play() error {
	speaker.Play(s.streamer)
	return nil
}

// Close removes all streamers from the speaker. When it returns, render
// function won't be called anymore.
func (s *Stream) Close() error {
	s.once.Do(speaker.Clear)
	return nil
}

// NewStreamer returns streamer for render function.
func NewStreamer(render playback.RenderFunc, sampleRate int, latency time.Duration) *Streamer {
	return &Streamer{
		render: render,
		clock:  playback.NewFrameClock(sampleRate, latency),
	}
}

// Stream renders len(samples) stereo frames. It never drains.
func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	n := len(samples) * channels
	if cap(s.buf) < n {
		s.buf = make([]float32, n)
	}
	buf := s.buf[:n]
	s.render(buf, s.clock.Stamp(len(samples)), 0)
	for i := range samples {
		samples[i][0] = float64(buf[i*channels])
		samples[i][1] = float64(buf[i*channels+1])
	}
	return len(samples), true
}

// Err always returns nil.
func (s *Streamer) Err() error {
	return nil
}

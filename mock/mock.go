// Package mock provides a simulated audio device and allows to execute
// integration tests without audio hardware.
package mock

import (
	"sync"
	"time"

	"github.com/go-audio/audio"

	"pipelined.dev/tone/playback"
	"pipelined.dev/tone/signal"
)

const (
	defaultBufferSize = 512
	defaultSampleRate = 48000
	defaultChannels   = 2
)

// Device mocks a playback.Device. Render calls are issued from a separate
// goroutine, timestamps are simulated: callback time is the duration of
// frames rendered so far and playback time is callback time plus Latency.
type Device struct {
	NumChannels int
	Rate        int
	BufferSize  int
	// Latency is the simulated delay between render call and playback.
	Latency time.Duration
	// Interval is the pause between render calls.
	Interval time.Duration
	// Limit is a number of frames after which device stops calling
	// render. Zero means no limit.
	Limit int
	// Discard disables recording of rendered samples.
	Discard bool
	// Status returns status flags for n-th render call.
	Status func(call int) playback.Status

	ErrorOnCreate error
	ErrorOnPlay   error
	ErrorOnClose  error

	mu       sync.Mutex
	calls    int
	frames   int
	played   bool
	closed   bool
	recorded *audio.Float32Buffer
}

// Stream is a mocked playback.Stream.
type Stream struct {
	device *Device
	render playback.RenderFunc
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Channels returns number of channels, 2 by default.
func (d *Device) Channels() int {
	if d.NumChannels == 0 {
		return defaultChannels
	}
	return d.NumChannels
}

// SampleRate returns sample rate, 48000 by default.
func (d *Device) SampleRate() int {
	if d.Rate == 0 {
		return defaultSampleRate
	}
	return d.Rate
}

func (d *Device) bufferSize() int {
	if d.BufferSize == 0 {
		return defaultBufferSize
	}
	return d.BufferSize
}

// CreateStream returns new stream for render function.
func (d *Device) CreateStream(render playback.RenderFunc) (playback.Stream, error) {
	if d.ErrorOnCreate != nil {
		return nil, d.ErrorOnCreate
	}
	d.mu.Lock()
	d.recorded = &audio.Float32Buffer{
		Format: &audio.Format{
			NumChannels: d.Channels(),
			SampleRate:  d.SampleRate(),
		},
	}
	d.mu.Unlock()
	return &Stream{
		device: d,
		render: render,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Play starts render calls.
func (s *Stream) Play() error {
	if s.device.ErrorOnPlay != nil {
		return s.device.ErrorOnPlay
	}
	s.device.mu.Lock()
	s.device.played = true
	s.device.mu.Unlock()
	go s.run()
	return nil
}

// Close stops render calls and waits until the last one is finished.
func (s *Stream) Close() error {
	s.once.Do(func() {
		close(s.stop)
		s.device.mu.Lock()
		played := s.device.played
		s.device.closed = true
		s.device.mu.Unlock()
		if played {
			<-s.done
		}
	})
	return s.device.ErrorOnClose
}

func (s *Stream) run() {
	defer close(s.done)
	d := s.device
	channels, sampleRate := d.Channels(), d.SampleRate()
	buf := make([]float32, d.bufferSize()*channels)
	for call := 0; ; call++ {
		select {
		case <-s.stop:
			return
		default:
		}
		frames := d.bufferSize()
		if d.Limit > 0 {
			if left := d.Limit - d.Frames(); left < frames {
				frames = left
			}
		}
		if frames <= 0 {
			// device stalls until closed.
			<-s.stop
			return
		}
		callback := signal.DurationOf(sampleRate, int64(d.Frames()))
		ts := playback.Timestamp{
			Callback: callback,
			Playback: callback + d.Latency,
		}
		var status playback.Status
		if d.Status != nil {
			status = d.Status(call)
		}
		out := buf[:frames*channels]
		s.render(out, ts, status)
		d.record(out, frames)
		if d.Interval > 0 {
			select {
			case <-time.After(d.Interval):
			case <-s.stop:
				return
			}
		}
	}
}

func (d *Device) record(out []float32, frames int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.frames += frames
	if !d.Discard {
		d.recorded.Data = append(d.recorded.Data, out...)
	}
}

// Calls returns number of render calls.
func (d *Device) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Frames returns number of rendered frames.
func (d *Device) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Closed returns true if stream was closed.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Recorded returns a copy of rendered interleaved samples.
func (d *Device) Recorded() *audio.Float32Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.recorded == nil {
		return nil
	}
	data := make([]float32, len(d.recorded.Data))
	copy(data, d.recorded.Data)
	return &audio.Float32Buffer{
		Format: d.recorded.Format,
		Data:   data,
	}
}

// Channel returns recorded samples of a single channel.
func (d *Device) Channel(i int) []float32 {
	b := d.Recorded()
	if b == nil || len(b.Data) == 0 {
		return nil
	}
	return signal.Deinterleave(b.Data, b.Format.NumChannels)[i]
}

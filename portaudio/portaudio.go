// Package portaudio provides playback device backed by PortAudio. Render
// calls are made from PortAudio callback thread and carry the stream
// clock of the host API.
package portaudio

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"pipelined.dev/tone/playback"
)

type (
	// Device is a PortAudio output device. It must be closed after use.
	Device struct {
		params portaudio.StreamParameters
	}

	// Option configures the device.
	Option func(*options)

	options struct {
		channels   int
		sampleRate int
		lowLatency bool
	}

	// Stream is a PortAudio output stream.
	Stream struct {
		stream *portaudio.Stream
	}

	// Info describes an output device.
	Info struct {
		Name       string
		Channels   int
		SampleRate float64
		Latency    time.Duration
		Default    bool
	}
)

// WithChannels sets number of output channels. By default device uses
// stereo, or mono if that's all it has.
func WithChannels(n int) Option {
	return func(o *options) {
		o.channels = n
	}
}

// WithSampleRate sets sample rate. Device default sample rate is used
// otherwise.
func WithSampleRate(sampleRate int) Option {
	return func(o *options) {
		o.sampleRate = sampleRate
	}
}

// LowLatency requests low output latency. High latency parameters are
// used by default, they're more robust against underruns.
func LowLatency() Option {
	return func(o *options) {
		o.lowLatency = true
	}
}

// Open initializes PortAudio and returns default output device.
func Open(opts ...Option) (*Device, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	out, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", playback.ErrNoDevice, err)
	}
	if out == nil || out.MaxOutputChannels < 1 {
		portaudio.Terminate()
		return nil, playback.ErrNoDevice
	}

	var params portaudio.StreamParameters
	if o.lowLatency {
		params = portaudio.LowLatencyParameters(nil, out)
	} else {
		params = portaudio.HighLatencyParameters(nil, out)
	}
	params.Output.Channels = outputChannels(o.channels, out.MaxOutputChannels)
	if o.sampleRate > 0 {
		params.SampleRate = float64(o.sampleRate)
	}
	return &Device{params: params}, nil
}

func outputChannels(requested, max int) int {
	if requested > 0 {
		return requested
	}
	if max < 2 {
		return max
	}
	return 2
}

// Channels returns number of output channels.
func (d *Device) Channels() int {
	return d.params.Output.Channels
}

// SampleRate returns stream sample rate.
func (d *Device) SampleRate() int {
	return int(d.params.SampleRate)
}

// Latency returns suggested output latency.
func (d *Device) Latency() time.Duration {
	return d.params.Output.Latency
}

// Name returns device name.
func (d *Device) Name() string {
	return d.params.Output.Device.Name
}

// CreateStream opens float32 output stream. PortAudio converts samples
// if the host API doesn't support float32 natively, ErrNoFloatFormat is
// returned if conversion isn't possible either.
func (d *Device) CreateStream(render playback.RenderFunc) (playback.Stream, error) {
	callback := func(out []float32, info portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		render(out, timestamp(info), status(flags))
	}
	if err := portaudio.IsFormatSupported(d.params, callback); err != nil {
		return nil, fmt.Errorf("%w: %v", playback.ErrNoFloatFormat, err)
	}
	s, err := portaudio.OpenStream(d.params, callback)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	return &Stream{stream: s}, nil
}

// Close terminates PortAudio.
func (d *Device) Close() error {
	return portaudio.Terminate()
}

// Play starts the stream.
func (s *Stream) Play() error {
	return s.stream.Start()
}

// Close stops the stream and releases it. Stop waits until all buffered
// samples are played.
func (s *Stream) Close() error {
	errStop := s.stream.Stop()
	errClose := s.stream.Close()
	if errStop != nil {
		return errStop
	}
	return errClose
}

func timestamp(info portaudio.StreamCallbackTimeInfo) playback.Timestamp {
	return playback.Timestamp{
		Callback: info.CurrentTime,
		Playback: info.OutputBufferDacTime,
	}
}

func status(flags portaudio.StreamCallbackFlags) playback.Status {
	var s playback.Status
	if flags&portaudio.OutputUnderflow != 0 {
		s |= playback.OutputUnderflow
	}
	if flags&portaudio.OutputOverflow != 0 {
		s |= playback.OutputOverflow
	}
	if flags&portaudio.PrimingOutput != 0 {
		s |= playback.PrimingOutput
	}
	return s
}

// Devices returns all devices which have output channels.
func Devices() ([]Info, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var def *portaudio.DeviceInfo
	if out, err := portaudio.DefaultOutputDevice(); err == nil {
		def = out
	}
	var infos []Info
	for _, d := range devices {
		if d.MaxOutputChannels < 1 {
			continue
		}
		infos = append(infos, Info{
			Name:       d.Name,
			Channels:   d.MaxOutputChannels,
			SampleRate: d.DefaultSampleRate,
			Latency:    d.DefaultHighOutputLatency,
			Default:    def != nil && d.Index == def.Index,
		})
	}
	return infos, nil
}

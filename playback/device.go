package playback

import (
	"errors"
	"time"
)

type (
	// Device is an audio output which can render float32 samples.
	Device interface {
		// Channels returns number of samples in a frame.
		Channels() int
		// SampleRate returns number of frames per second.
		SampleRate() int
		// CreateStream binds render function to a new stream. The stream
		// doesn't call render until Play is called.
		CreateStream(render RenderFunc) (Stream, error)
	}

	// Stream is a device output stream. Close stops the stream and
	// releases its resources, already buffered samples might still be
	// played.
	Stream interface {
		Play() error
		Close() error
	}

	// RenderFunc fills the interleaved buffer with frames. It's called by
	// device from its own real-time thread, so it must not block.
	RenderFunc func(out []float32, ts Timestamp, status Status)

	// Timestamp carries the timing of a render call, measured by device
	// clock.
	Timestamp struct {
		// Callback is when render was called.
		Callback time.Duration
		// Playback is when the first frame of the buffer is expected to
		// be audible.
		Playback time.Duration
	}

	// Status is a set of flags reported by device with render call.
	Status uint8
)

// Device status flags.
const (
	// OutputUnderflow means that device ran out of samples and a gap
	// was played.
	OutputUnderflow Status = 1 << iota
	// OutputOverflow means that samples were discarded by device.
	OutputOverflow
	// PrimingOutput means that buffer is used to prime the device and
	// won't be played at expected time.
	PrimingOutput
)

// Setup and runtime errors.
var (
	// ErrNoDevice is returned when there is no output device.
	ErrNoDevice = errors.New("missing output device")
	// ErrNoFloatFormat is returned when device doesn't support float32
	// samples.
	ErrNoFloatFormat = errors.New("no float32 format support")
	// ErrInvalidFormat is returned when device reports non-positive
	// channels or sample rate.
	ErrInvalidFormat = errors.New("invalid device format")
	// ErrUnderrun is returned when device reported underflow and
	// playback is not tolerating it.
	ErrUnderrun = errors.New("output underrun")
	// ErrTimeout is returned when device didn't call render in time.
	ErrTimeout = errors.New("render timeout")
)

// Since returns playback duration between two timestamps. Negative
// result means ts is earlier than start.
func (ts Timestamp) Since(start Timestamp) time.Duration {
	return ts.Playback - start.Playback
}

// Delay returns how long it takes before buffer of this render call is
// audible. It's never negative.
func (ts Timestamp) Delay() time.Duration {
	if d := ts.Playback - ts.Callback; d > 0 {
		return d
	}
	return 0
}

// Has reports if flag is set.
func (s Status) Has(flag Status) bool {
	return s&flag != 0
}

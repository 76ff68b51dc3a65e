package playback

import (
	"time"

	"pipelined.dev/tone/signal"
)

// FrameClock estimates timestamps for devices which pull samples without
// providing timing information. Playback time of a buffer is the
// duration of all frames rendered before it plus the output latency.
// If the device pulled slower than real time, rendered duration is
// replaced by the wall clock.
//
// FrameClock is not safe for concurrent use, it's meant to be owned by
// the device render thread.
type FrameClock struct {
	sampleRate int
	latency    time.Duration
	start      time.Time
	frames     int64
}

// NewFrameClock returns clock for provided sample rate and latency.
func NewFrameClock(sampleRate int, latency time.Duration) *FrameClock {
	return &FrameClock{
		sampleRate: sampleRate,
		latency:    latency,
	}
}

// Stamp returns timestamp for the next buffer of frames and accounts
// them as rendered. The clock starts with the first call.
func (c *FrameClock) Stamp(frames int) Timestamp {
	if c.start.IsZero() {
		c.start = time.Now()
	}
	callback := time.Since(c.start)
	playback := signal.DurationOf(c.sampleRate, c.frames)
	if playback < callback {
		playback = callback
	}
	c.frames += int64(frames)
	return Timestamp{
		Callback: callback,
		Playback: playback + c.latency,
	}
}

// Frames returns number of frames stamped so far.
func (c *FrameClock) Frames() int64 {
	return c.frames
}

// Package playback drives a signal graph with an audio device and stops
// the device when the requested duration has been played.
//
// There are two sides of the playback. The render side is the device
// thread which calls Renderer.Render for every buffer. The controller
// side is the goroutine which called Play: it receives timestamps of
// render calls and decides when to stop. The graph is owned by the render
// side only, no state is shared between them except the timestamp queue.
package playback

import (
	"context"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"pipelined.dev/tone"
)

// Option provides a way to set functional parameters to playback.
type Option func(p *player)

type player struct {
	log              logrus.FieldLogger
	backlog          int
	timeout          time.Duration
	tolerateUnderrun bool
}

// WithLogger sets logger to playback. If this option is not provided,
// silent logger is used.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *player) {
		p.log = logger
	}
}

// WithBacklog sets the capacity of timestamp queue.
func WithBacklog(n int) Option {
	return func(p *player) {
		p.backlog = n
	}
}

// WithTimeout limits how long controller waits for every render call.
// Zero timeout waits forever.
func WithTimeout(d time.Duration) Option {
	return func(p *player) {
		p.timeout = d
	}
}

// TolerateUnderrun makes playback log reported underruns and continue.
// By default playback is aborted with ErrUnderrun.
func TolerateUnderrun() Option {
	return func(p *player) {
		p.tolerateUnderrun = true
	}
}

func silentLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

// Play renders root with device until d of audio was played. Root is
// owned by the playback from this moment and must not be used by the
// caller anymore. Play returns when the last rendered buffer is expected
// to be audible and the stream is closed.
//
// The stop decision is made on the device playback clock: duration is
// measured from the first render call and once it exceeds d, the
// controller sleeps for the delay between the render call and its
// expected playback, then closes the stream.
func Play(ctx context.Context, device Device, root tone.Node, d time.Duration, options ...Option) error {
	p := player{
		backlog: DefaultBacklog,
	}
	for _, option := range options {
		option(&p)
	}
	if p.log == nil {
		p.log = silentLogger()
	}
	log := p.log.WithField("playback", xid.New().String())

	channels, sampleRate := device.Channels(), device.SampleRate()
	if channels < 1 || sampleRate < 1 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidFormat, channels, sampleRate)
	}
	r := NewRenderer(root, channels, sampleRate, p.backlog)
	stream, err := device.CreateStream(r.Render)
	if err != nil {
		return fmt.Errorf("create stream: %w", err)
	}
	log.WithFields(logrus.Fields{
		"channels":   channels,
		"sampleRate": sampleRate,
		"duration":   d,
	}).Debug("stream created")

	if err := stream.Play(); err != nil {
		return (&ErrorPlay{
			ErrPlay:  fmt.Errorf("start stream: %w", err),
			ErrClose: stream.Close(),
		}).ret()
	}
	log.Info("playing")

	err = p.wait(ctx, log, r, d)
	e := ErrorPlay{
		ErrPlay:  err,
		ErrClose: stream.Close(),
	}
	if err == nil {
		log.Info("done")
	}
	return e.ret()
}

// wait consumes timestamps until d is played and then sleeps the
// playback delay of the last render call.
func (p *player) wait(ctx context.Context, log logrus.FieldLogger, r *Renderer, d time.Duration) error {
	start, err := p.next(ctx, log, r)
	if err != nil {
		return err
	}
	log.WithField("playback", start.Playback).Debug("first render call")
	for {
		ts, err := p.next(ctx, log, r)
		if err != nil {
			return err
		}
		if played := ts.Since(start); played > d {
			delay := ts.Delay()
			log.WithFields(logrus.Fields{
				"played": played,
				"delay":  delay,
			}).Debug("duration reached")
			return sleep(ctx, delay)
		}
	}
}

// next returns the next timestamp. Underruns are either returned or
// logged, depending on playback options.
func (p *player) next(ctx context.Context, log logrus.FieldLogger, r *Renderer) (Timestamp, error) {
	var timeout <-chan time.Time
	if p.timeout > 0 {
		t := time.NewTimer(p.timeout)
		defer t.Stop()
		timeout = t.C
	}
	for {
		// errors are reported before the timestamp of the same call.
		select {
		case err := <-r.Errors():
			if !p.tolerateUnderrun {
				return Timestamp{}, err
			}
			log.Warn(err)
			continue
		default:
		}
		select {
		case ts := <-r.Timestamps():
			return ts, nil
		case err := <-r.Errors():
			if !p.tolerateUnderrun {
				return Timestamp{}, err
			}
			log.Warn(err)
		case <-timeout:
			return Timestamp{}, fmt.Errorf("%w: no render call in %v", ErrTimeout, p.timeout)
		case <-ctx.Done():
			return Timestamp{}, ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"pipelined.dev/tone/beep"
	"pipelined.dev/tone/log"
	"pipelined.dev/tone/metric"
	"pipelined.dev/tone/mock"
	"pipelined.dev/tone/oto"
	"pipelined.dev/tone/playback"
	"pipelined.dev/tone/portaudio"
	"pipelined.dev/tone/score"
	"pipelined.dev/tone/signal"
)

const (
	defaultCommand = "play"
	// deviceEnv sets default device backend.
	deviceEnv     = "TONE_DEVICE"
	defaultDevice = "portaudio"
	// format of pull backends and mock.
	sampleRate     = 48000
	channels       = 2
	mockBufferSize = 512
)

type playCommand struct {
	device           string
	duration         time.Duration
	timeout          time.Duration
	latency          time.Duration
	tolerateUnderrun bool
	debug            bool
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play the chord (default command)"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	device := os.Getenv(deviceEnv)
	if device == "" {
		device = defaultDevice
	}
	fs.StringVar(&cmd.device, "device", device, "output backend: portaudio, oto, beep or mock")
	fs.DurationVar(&cmd.duration, "duration", score.Duration, "playback duration")
	fs.DurationVar(&cmd.timeout, "timeout", 0, "abort if device doesn't render in time, 0 waits forever")
	fs.DurationVar(&cmd.latency, "latency", 50*time.Millisecond, "output latency of oto, beep and mock backends")
	fs.BoolVar(&cmd.tolerateUnderrun, "tolerate-underrun", false, "log underruns instead of aborting")
	fs.BoolVar(&cmd.debug, "debug", false, "enable debug output")
}

func (cmd *playCommand) Run() error {
	if cmd.debug {
		log.SetDebug(true)
	}
	logger := log.GetLogger()

	device, closeDevice, err := openDevice(cmd.device, cmd.latency)
	if err != nil {
		return err
	}
	defer closeDevice()
	logger.WithFields(logrus.Fields{
		"device":     cmd.device,
		"channels":   device.Channels(),
		"sampleRate": device.SampleRate(),
	}).Debug("device opened")

	options := []playback.Option{
		playback.WithLogger(logger),
		playback.WithTimeout(cmd.timeout),
	}
	if cmd.tolerateUnderrun {
		options = append(options, playback.TolerateUnderrun())
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = playback.Play(ctx, device, score.Build(score.Chord()), cmd.duration, options...)
	for component, counters := range metric.GetAll() {
		fields := logrus.Fields{"component": component}
		for counter, value := range counters {
			fields[counter] = value
		}
		logger.WithFields(fields).Debug("metrics")
	}
	return err
}

// openDevice returns device of named backend and the function to release
// it.
func openDevice(name string, latency time.Duration) (playback.Device, func() error, error) {
	noop := func() error { return nil }
	switch name {
	case "portaudio":
		d, err := portaudio.Open()
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case "oto":
		d, err := oto.Open(sampleRate, channels, latency)
		if err != nil {
			return nil, nil, err
		}
		return d, noop, nil
	case "beep":
		d, err := beep.Open(sampleRate, latency)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case "mock":
		// render in real time, nothing is recorded.
		return &mock.Device{
			NumChannels: channels,
			Rate:        sampleRate,
			BufferSize:  mockBufferSize,
			Latency:     latency,
			Interval:    signal.DurationOf(sampleRate, mockBufferSize),
			Discard:     true,
		}, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown device %q", name)
}

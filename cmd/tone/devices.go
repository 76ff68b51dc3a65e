package main

import (
	"flag"
	"fmt"

	"pipelined.dev/tone/portaudio"
)

type devicesCommand struct{}

func (cmd *devicesCommand) Name() string {
	return "devices"
}

func (cmd *devicesCommand) Help() string {
	return "Show the list of PortAudio output devices"
}

func (cmd *devicesCommand) Register(*flag.FlagSet) {}

func (cmd *devicesCommand) Run() error {
	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}
	fmt.Println("Output devices:")
	for _, d := range devices {
		mark := " "
		if d.Default {
			mark = "*"
		}
		fmt.Printf("%s %s\t%d channels\t%v Hz\t%v latency\n", mark, d.Name, d.Channels, d.SampleRate, d.Latency)
	}
	return nil
}

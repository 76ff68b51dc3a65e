package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"pipelined.dev/tone/playback"
)

type config struct {
	args []string
}

type command interface {
	Name() string
	Help() string
	Run() error
	Register(*flag.FlagSet)
}

func (config *config) run() int {
	cmdName, args := parseArgs(config.args)
	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			return errorExitCode
		}
		if err := cmd.Run(); err != nil {
			fmt.Printf("Command failed: %v\n", err)
			if errors.Is(err, playback.ErrNoDevice) {
				fmt.Println("Check audio output or try: tone devices")
			}
			return errorExitCode
		}
		return successExitCode
	}
	printUsage()
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        = []command{
		&playCommand{},
		&devicesCommand{},
	}
)

func main() {
	c := config{
		args: os.Args,
	}
	os.Exit(c.run())
}

// parseArgs returns command name and its arguments. Play is the default
// command, so flags can follow the program name directly.
func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return defaultCommand, nil
	}
	if len(args[1]) > 0 && args[1][0] == '-' {
		return defaultCommand, args[1:]
	}
	return args[1], args[2:]
}

func printUsage() {
	fmt.Println("Tone renders a chord in real time")
	fmt.Println()
	fmt.Println("Usage: tone [command] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range commands {
		fmt.Printf("\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}

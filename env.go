package tone

import (
	"pipelined.dev/tone/signal"
)

// Stage identifies a state of ADSR envelope. Stages only move forward.
type Stage int

const (
	// Before means the active window wasn't reached yet.
	Before Stage = iota
	// Attack raises level up to 1.
	Attack
	// Decay lowers level down to sustain.
	Decay
	// Sustain holds the level while the window is active.
	Sustain
	// Release lowers level down to 0.
	Release
	// After is the terminal stage.
	After
)

func (s Stage) String() string {
	switch s {
	case Before:
		return "before"
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	case After:
		return "after"
	}
	return "unknown"
}

// Window is a half-open interval [Start, End) in seconds.
type Window struct {
	Start float64
	End   float64
}

// Contains reports whether t is within the window.
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t < w.End
}

// ADSR is a one-shot attack-decay-sustain-release envelope. It is
// triggered when elapsed time enters the window and released when it
// leaves it. Rates are level change per second, level is within [0, 1].
type ADSR struct {
	window       Window
	attackRate   float64
	decayRate    float64
	sustainLevel float64
	releaseRate  float64

	elapsed signal.Time
	level   float64
	stage   Stage
}

// NewADSR returns envelope in Before stage with zero level.
func NewADSR(window Window, attackRate, decayRate, sustainLevel, releaseRate float64) *ADSR {
	return &ADSR{
		window:       window,
		attackRate:   attackRate,
		decayRate:    decayRate,
		sustainLevel: sustainLevel,
		releaseRate:  releaseRate,
	}
}

// Advance accumulates elapsed time and applies one transition step.
func (e *ADSR) Advance(elapsed signal.Time) {
	dt := elapsed.Seconds()
	e.elapsed = e.elapsed.Add(elapsed)
	switch e.stage {
	case Before:
		if e.window.Contains(e.elapsed.Seconds()) {
			e.stage = Attack
		}
	case Attack:
		e.level += e.attackRate * dt
		if e.level >= 1 {
			e.level = 1
			e.stage = Decay
		}
	case Decay:
		e.level -= e.decayRate * dt
		if e.level <= e.sustainLevel {
			e.level = e.sustainLevel
			e.stage = Sustain
		}
	case Sustain:
		if !e.window.Contains(e.elapsed.Seconds()) {
			e.stage = Release
		}
	case Release:
		e.level -= e.releaseRate * dt
		if e.level <= 0 {
			e.level = 0
			e.stage = After
		}
	}
}

// Value returns current level.
func (e *ADSR) Value() float64 {
	return e.level
}

// Stage returns current stage.
func (e *ADSR) Stage() Stage {
	return e.stage
}

// Elapsed returns time since envelope was created.
func (e *ADSR) Elapsed() signal.Time {
	return e.elapsed
}

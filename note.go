package tone

import (
	"fmt"
	"math"
)

// referenceHz is the pitch of A4.
const referenceHz = 440.0

// Key is a pitch class.
type Key int

// Pitch classes of an octave, starting from C.
const (
	C Key = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var keyNames = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (k Key) String() string {
	if k < C || k > B {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Note returns the note of this key in scientific pitch octave, so
// A.Note(4) is A4.
func (k Key) Note(octave int) Note {
	return Note((octave-4)*12 + int(k-A))
}

// Note is a number of semitones away from A4.
type Note int

// Hz returns frequency of the note in 12 tone equal temperament, A440.
func (n Note) Hz() float64 {
	return referenceHz * math.Pow(2, float64(n)/12)
}

// Sine returns oscillator of note frequency.
func (n Note) Sine() *Sine {
	return SineHz(n.Hz())
}

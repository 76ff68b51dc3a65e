/*
Package tone renders audio by evaluating a tree of signal nodes one
sample at a time.

Concept

Every node implements two methods:

    Advance - move the internal state forward by an elapsed time;
    Value - return the instantaneous output for the current state.

Leaves are constants, oscillators and envelopes. Inner nodes combine the
values of their children. A node owns its children: there is no sharing
between branches and no cycles, so a graph is always a tree.

It implies the following constraints:

    Advance is called on every child on every tick, even if the child is
    not audible at the moment;
    Value never mutates and may be called any number of times;
    Elapsed time is exact, see signal.Time.

Building graphs

Nodes are created with constructor functions and combined either with
NewSum and NewProduct or with the Expr wrapper:

    voice := tone.Wrap(tone.A.Note(4).Sine().Vibrato(tone.Const(2), 6)).
        Mul(tone.NewADSR(tone.Window{Start: 0, End: 3.1}, 8, 15, 0.6, 1))

Voices are summed with Mix. Once the graph is built, it is handed over to
playback.Play, which owns it from that moment on.
*/
package tone

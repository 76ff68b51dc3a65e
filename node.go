package tone

import (
	"pipelined.dev/tone/signal"
)

// Node is a producer of an audio-rate value.
type Node interface {
	// Advance moves the node state forward by elapsed time. Combinators
	// must advance all their children.
	Advance(elapsed signal.Time)
	// Value returns the output for the current state. It must not mutate
	// the node.
	Value() float64
}

// Const is a node with a fixed value.
type Const float64

// Advance does nothing, constants have no state.
func (Const) Advance(signal.Time) {}

// Value returns the constant.
func (c Const) Value() float64 {
	return float64(c)
}

// Expr wraps a node to compose graphs with method chaining. It
// implements Node itself.
type Expr struct {
	Node
}

// Wrap returns expression for the node.
func Wrap(n Node) Expr {
	if e, ok := n.(Expr); ok {
		return e
	}
	return Expr{Node: n}
}

// Add returns expression of e summed with n.
func (e Expr) Add(n Node) Expr {
	return Expr{Node: NewSum(e.Node, n)}
}

// Mul returns expression of e multiplied by n.
func (e Expr) Mul(n Node) Expr {
	return Expr{Node: NewProduct(e.Node, n)}
}

// Unwrap returns wrapped node.
func (e Expr) Unwrap() Node {
	return e.Node
}

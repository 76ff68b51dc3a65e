package tone

import (
	"pipelined.dev/tone/signal"
)

type (
	// Sum is a pointwise sum of two nodes.
	Sum struct {
		left, right Node
	}

	// Product is a pointwise product of two nodes.
	Product struct {
		left, right Node
	}
)

// NewSum returns a node which sums left and right.
func NewSum(left, right Node) *Sum {
	return &Sum{left: left, right: right}
}

// Advance advances both operands.
func (s *Sum) Advance(elapsed signal.Time) {
	s.left.Advance(elapsed)
	s.right.Advance(elapsed)
}

// Value returns left + right.
func (s *Sum) Value() float64 {
	return s.left.Value() + s.right.Value()
}

// NewProduct returns a node which multiplies left by right.
func NewProduct(left, right Node) *Product {
	return &Product{left: left, right: right}
}

// Advance advances both operands. The right operand is advanced even when
// the left one is silent, so nested oscillators keep their phase.
func (p *Product) Advance(elapsed signal.Time) {
	p.left.Advance(elapsed)
	p.right.Advance(elapsed)
}

// Value returns left * right.
func (p *Product) Value() float64 {
	return p.left.Value() * p.right.Value()
}

// Mix sums all nodes. Empty mix is silence.
func Mix(nodes ...Node) Node {
	switch len(nodes) {
	case 0:
		return Const(0)
	case 1:
		return nodes[0]
	}
	var mix Node = NewSum(nodes[0], nodes[1])
	for _, n := range nodes[2:] {
		mix = NewSum(mix, n)
	}
	return mix
}

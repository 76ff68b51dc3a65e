package signal

import (
	"fmt"
	"math/bits"
	"time"
)

// Time is an elapsed time expressed as Count samples at Rate samples per
// second. Ordering and equality are exact: both sides are cross-multiplied
// with full 128-bit products, so neither floating point rounding nor
// integer overflow can affect a comparison.
//
// The zero value is a zero duration. Any other value must have a positive
// Rate.
type Time struct {
	Count uint64
	Rate  uint64
}

// Samples returns the time of count samples at rate. It panics if rate is
// zero.
func Samples(count, rate uint64) Time {
	if rate == 0 {
		panic("signal: zero sample rate")
	}
	return Time{Count: count, Rate: rate}
}

// Seconds returns the time as continuous seconds. It's meant for phase and
// level integration only, comparisons must use Compare, Equal or Less.
func (t Time) Seconds() float64 {
	if t.Rate == 0 {
		return 0
	}
	return float64(t.Count) / float64(t.Rate)
}

// Duration returns the time truncated to nanoseconds.
func (t Time) Duration() time.Duration {
	if t.Rate == 0 {
		return 0
	}
	q, r := t.Count/t.Rate, t.Count%t.Rate
	// r < Rate, so the quotient fits into 64 bits.
	hi, lo := bits.Mul64(r, uint64(time.Second))
	ns, _ := bits.Div64(hi, lo, t.Rate)
	return time.Duration(q)*time.Second + time.Duration(ns)
}

// IsZero reports whether no samples have elapsed.
func (t Time) IsZero() bool {
	return t.Count == 0
}

// Compare returns -1 if t is shorter than u, 0 if they are equal and +1
// if t is longer than u.
func (t Time) Compare(u Time) int {
	t, u = t.normalize(), u.normalize()
	thi, tlo := bits.Mul64(t.Count, u.Rate)
	uhi, ulo := bits.Mul64(u.Count, t.Rate)
	switch {
	case thi < uhi:
		return -1
	case thi > uhi:
		return 1
	case tlo < ulo:
		return -1
	case tlo > ulo:
		return 1
	}
	return 0
}

// Equal reports whether t and u are the same duration, regardless of
// their rates.
func (t Time) Equal(u Time) bool {
	return t.Compare(u) == 0
}

// Less reports whether t is shorter than u.
func (t Time) Less(u Time) bool {
	return t.Compare(u) < 0
}

// Add returns the exact sum of t and u. Times with equal rates are summed
// directly, otherwise both are rescaled to the least common multiple of
// their rates.
func (t Time) Add(u Time) Time {
	switch {
	case t.Rate == 0:
		return u
	case u.Rate == 0:
		return t
	case t.Rate == u.Rate:
		return Time{Count: t.Count + u.Count, Rate: t.Rate}
	}
	lcm := t.Rate / gcd(t.Rate, u.Rate) * u.Rate
	return Time{
		Count: t.Count*(lcm/t.Rate) + u.Count*(lcm/u.Rate),
		Rate:  lcm,
	}
}

func (t Time) String() string {
	return fmt.Sprintf("%d/%dHz", t.Count, t.Rate)
}

func (t Time) normalize() Time {
	if t.Rate == 0 {
		return Time{Rate: 1}
	}
	return t
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

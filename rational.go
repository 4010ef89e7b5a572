package upipe

import "math/big"

// Rational represents the rate attribute carried alongside a clock
// timestamp (PTS/DTS) in a uref: a numerator/denominator pair such as
// 1001/30000 for NTSC-rate video. The pack contains no general-purpose
// rational-number library (hz.tools/rf models frequencies, not generic
// rationals), so this wraps math/big.Rat from the standard library; see
// DESIGN.md for that call.
type Rational struct {
	rat *big.Rat
}

// NewRational builds a Rational from a numerator and denominator.
func NewRational(num, den int64) Rational {
	return Rational{rat: big.NewRat(num, den)}
}

// Num returns the reduced numerator.
func (r Rational) Num() int64 {
	if r.rat == nil {
		return 0
	}
	return r.rat.Num().Int64()
}

// Den returns the reduced denominator.
func (r Rational) Den() int64 {
	if r.rat == nil {
		return 1
	}
	return r.rat.Denom().Int64()
}

// Float64 returns the rational as a float64, for display or approximate
// arithmetic.
func (r Rational) Float64() float64 {
	if r.rat == nil {
		return 0
	}
	f, _ := r.rat.Float64()
	return f
}

// IsZero reports whether the Rational is unset or equal to zero.
func (r Rational) IsZero() bool {
	return r.rat == nil || r.rat.Sign() == 0
}

// String renders "num/den".
func (r Rational) String() string {
	if r.rat == nil {
		return "0/1"
	}
	return r.rat.RatString()
}

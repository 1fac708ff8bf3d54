// Package lognum implements LogNum, a signed real number stored as the base-10
// logarithm of its magnitude. It trades mantissa precision for an exponent range
// far beyond float64 (values like 1e400 and beyond), which is what idle-game
// resource projections need.
//
// Arithmetic (Add, Sub, Mul, Div, PowInt, Pow) and comparisons are carried out
// entirely in log space. The transcendental helpers in math.go convert through
// float64 and are only reliable while the operand fits in float64 range.
package lognum

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// LogNum represents sign * 10^log.
//
//   - log == -Inf is exact zero. Zero has a single canonical form (positive sign).
//   - log == +Inf is a signed infinity.
//
// The zero value LogNum{} is the number one (10^0). Use Zero() for zero.
// LogNum is an immutable value type: every operation returns a new value.
type LogNum struct {
	neg bool
	log float64
}

// canon builds a LogNum and canonicalizes zero and NaN to a positive sign.
func canon(neg bool, log float64) LogNum {
	if math.IsInf(log, -1) || math.IsNaN(log) {
		neg = false
	}
	return LogNum{neg: neg, log: log}
}

// New builds a LogNum from an explicit sign (negative means -1, anything else +1)
// and a base-10 log magnitude.
func New(sign int, log float64) LogNum {
	return canon(sign < 0, log)
}

// FromFloat converts an ordinary real number. Zero (including -0) maps to the
// canonical zero. Exact powers of ten get an integral log.
func FromFloat(x float64) LogNum {
	return canon(x < 0, log10(math.Abs(x)))
}

// log10 is math.Log10 snapped to the integer for exact powers of ten, which
// math.Log10 does not always return exactly.
func log10(a float64) float64 {
	l := math.Log10(a)
	if math.IsInf(l, 0) || math.IsNaN(l) {
		return l
	}
	if r := math.Round(l); math.Pow10(int(r)) == a {
		return r
	}
	return l
}

// FromInt converts an integer.
func FromInt(n int) LogNum {
	return FromFloat(float64(n))
}

// FromLog returns 10^l.
func FromLog(l float64) LogNum {
	return canon(false, l)
}

// Zero returns the canonical zero.
func Zero() LogNum { return LogNum{log: math.Inf(-1)} }

// One returns 1.
func One() LogNum { return LogNum{} }

// Inf returns +Inf for sign >= 0 and -Inf otherwise.
func Inf(sign int) LogNum { return LogNum{neg: sign < 0, log: math.Inf(1)} }

// NaN returns a LogNum that is not a number.
func NaN() LogNum { return LogNum{log: math.NaN()} }

// Sign returns -1 for negative values and +1 otherwise (including zero).
func (a LogNum) Sign() int {
	if a.neg {
		return -1
	}
	return 1
}

// Log returns the base-10 logarithm of the magnitude.
func (a LogNum) Log() float64 { return a.log }

// Float64 converts to float64. Magnitudes beyond float64 range become a signed
// infinity, tiny ones underflow to zero.
func (a LogNum) Float64() float64 {
	v := math.Pow(10, a.log)
	if a.neg {
		return -v
	}
	return v
}

// IsZero reports whether a is exactly zero.
func (a LogNum) IsZero() bool { return math.IsInf(a.log, -1) }

// IsInf reports whether a is +Inf or -Inf.
func (a LogNum) IsInf() bool { return math.IsInf(a.log, 1) }

// IsNaN reports whether a is not a number.
func (a LogNum) IsNaN() bool { return math.IsNaN(a.log) }

// IsFinite reports whether a is neither infinite nor NaN.
func (a LogNum) IsFinite() bool { return !a.IsInf() && !a.IsNaN() }

// Neg flips the sign.
func (a LogNum) Neg() LogNum { return canon(!a.neg, a.log) }

// Abs drops the sign.
func (a LogNum) Abs() LogNum { return LogNum{log: a.log} }

// Add returns a + b.
//
// With hi the operand of larger magnitude and r = 10^(lo.log - hi.log):
// same signs give hi.log + log10(1 + r), opposite signs hi.log + log10(1 - r).
// Exactly cancelling magnitudes yield zero. The result carries hi's sign.
func (a LogNum) Add(b LogNum) LogNum {
	if a.IsNaN() || b.IsNaN() {
		return NaN()
	}
	hi, lo := a, b
	if b.log > a.log {
		hi, lo = b, a
	}
	if hi.IsInf() || lo.IsZero() {
		return hi
	}
	r := math.Pow(10, lo.log-hi.log)
	if hi.neg == lo.neg {
		return canon(hi.neg, hi.log+math.Log1p(r)/math.Ln10)
	}
	return canon(hi.neg, hi.log+math.Log1p(-r)/math.Ln10)
}

// Sub returns a - b, defined as a + (-b).
func (a LogNum) Sub(b LogNum) LogNum { return a.Add(b.Neg()) }

// Mul returns a * b.
func (a LogNum) Mul(b LogNum) LogNum { return canon(a.neg != b.neg, a.log+b.log) }

// Div returns a / b. Division by zero gives a signed infinity, 0/0 is NaN.
func (a LogNum) Div(b LogNum) LogNum { return canon(a.neg != b.neg, a.log-b.log) }

// Recip returns 1 / a.
func (a LogNum) Recip() LogNum { return canon(a.neg, -a.log) }

// PowInt returns a^n. An even exponent of a negative base is positive.
func (a LogNum) PowInt(n int) LogNum {
	if n == 0 {
		return One()
	}
	return canon(a.neg && n%2 != 0, a.log*float64(n))
}

// Pow returns a^x for a real exponent. A negative base is only defined for
// integral exponents; anything else returns a *DomainError.
func (a LogNum) Pow(x float64) (LogNum, error) {
	if x == 0 {
		return One(), nil
	}
	if !a.neg {
		return canon(false, a.log*x), nil
	}
	if math.IsInf(x, 0) || math.IsNaN(x) || x != math.Trunc(x) {
		return NaN(), &DomainError{Op: "Pow", Reason: "non-integer power of a negative number"}
	}
	return canon(math.Mod(x, 2) != 0, a.log*x), nil
}

// Sqrt returns the square root. Negative inputs return a *DomainError.
func (a LogNum) Sqrt() (LogNum, error) {
	if a.neg {
		return NaN(), &DomainError{Op: "Sqrt", Reason: "square root of a negative number"}
	}
	return canon(false, a.log/2), nil
}

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b.
// It returns 0 when either operand is NaN; use Less and friends to get false
// for unordered operands instead.
func (a LogNum) Cmp(b LogNum) int {
	switch {
	case a.IsNaN() || b.IsNaN():
		return 0
	case a.neg != b.neg:
		if a.neg {
			return -1
		}
		return 1
	case a.log == b.log:
		return 0
	case (a.log < b.log) != a.neg:
		return -1
	default:
		return 1
	}
}

func ordered(a, b LogNum) bool { return !a.IsNaN() && !b.IsNaN() }

// Less reports a < b.
func (a LogNum) Less(b LogNum) bool { return ordered(a, b) && a.Cmp(b) < 0 }

// LessEq reports a <= b.
func (a LogNum) LessEq(b LogNum) bool { return ordered(a, b) && a.Cmp(b) <= 0 }

// Greater reports a > b.
func (a LogNum) Greater(b LogNum) bool { return ordered(a, b) && a.Cmp(b) > 0 }

// GreaterEq reports a >= b.
func (a LogNum) GreaterEq(b LogNum) bool { return ordered(a, b) && a.Cmp(b) >= 0 }

// Equal is structural equality with no tolerance. NaN is never equal to anything.
func (a LogNum) Equal(b LogNum) bool { return a == b }

// ApproxEqual reports whether a and b share a sign and differ by at most relTol
// relative to the larger magnitude. Two zeros or two equal infinities are equal.
func (a LogNum) ApproxEqual(b LogNum, relTol float64) bool {
	if a.neg != b.neg {
		return false
	}
	return scalar.EqualWithinAbs(a.log, b.log, math.Log10(1+relTol))
}

// Min returns the smaller of a and b.
func Min(a, b LogNum) LogNum {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b LogNum) LogNum {
	if b.Greater(a) {
		return b
	}
	return a
}

// Sum adds all values left to right. The empty sum is zero.
func Sum(values ...LogNum) LogNum {
	total := Zero()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

package lognum

import "math"

// The helpers below round-trip through float64 unless noted otherwise. Their
// results are only meaningful while the operand (and the result) fit in float64
// range; outside it they saturate to infinities or zero like the float64 math
// they delegate to.

// maxExactLog is the magnitude above which every float64 is already an integer.
const maxExactLog = 15.95

func viaFloat(a LogNum, f func(float64) float64) LogNum {
	return FromFloat(f(a.Float64()))
}

// Log10 returns log10(a) exactly, whatever a's magnitude. Negative a gives NaN.
func (a LogNum) Log10() LogNum {
	if a.neg {
		return NaN()
	}
	return FromFloat(a.log)
}

// Ln returns the natural logarithm exactly, whatever a's magnitude.
func (a LogNum) Ln() LogNum {
	if a.neg {
		return NaN()
	}
	return FromFloat(a.log * math.Ln10)
}

// LogBase returns log_base(a).
func (a LogNum) LogBase(base float64) LogNum {
	if a.neg {
		return NaN()
	}
	return FromFloat(a.log / log10(base))
}

// Exp returns e^a. The result keeps the extended range as long as a itself
// fits in float64.
func (a LogNum) Exp() LogNum {
	return FromLog(a.Float64() * math.Log10E)
}

// Sin returns sin(a).
func (a LogNum) Sin() LogNum { return viaFloat(a, math.Sin) }

// Cos returns cos(a).
func (a LogNum) Cos() LogNum { return viaFloat(a, math.Cos) }

// Tan returns tan(a).
func (a LogNum) Tan() LogNum { return viaFloat(a, math.Tan) }

// Floor rounds toward -Inf. Magnitudes beyond float64 integer precision are
// returned unchanged.
func (a LogNum) Floor() LogNum { return integral(a, math.Floor) }

// Ceil rounds toward +Inf.
func (a LogNum) Ceil() LogNum { return integral(a, math.Ceil) }

// Round rounds half away from zero.
func (a LogNum) Round() LogNum { return integral(a, math.Round) }

// Trunc rounds toward zero.
func (a LogNum) Trunc() LogNum { return integral(a, math.Trunc) }

func integral(a LogNum, f func(float64) float64) LogNum {
	if !a.IsFinite() || a.IsZero() || a.log >= maxExactLog {
		return a
	}
	return viaFloat(a, f)
}

// Package value provides resource-output curves over an integer level.
//
// FromZero(L) computes a variable's value at level L directly. Next(old, L) is
// the fast path used on every purchase: given the value at level L it returns
// the value at level L+1, and must agree with FromZero(L+1).
package value

import (
	"github.com/inference-sim/theory-sim/sim/lognum"
)

// Curve is a value function over levels.
type Curve interface {
	// FromZero returns the value at level.
	FromZero(level int) lognum.LogNum
	// Next returns the value at level+1 given old, the value at level.
	Next(old lognum.LogNum, level int) lognum.LogNum
}

// Linear is offset + slope * level.
type Linear struct {
	slope, offset lognum.LogNum
}

// NewLinear returns a linear value curve.
func NewLinear(slope, offset lognum.LogNum) *Linear {
	return &Linear{slope: slope, offset: offset}
}

func (l *Linear) FromZero(level int) lognum.LogNum {
	return l.offset.Add(l.slope.Mul(lognum.FromInt(level)))
}

func (l *Linear) Next(old lognum.LogNum, _ int) lognum.LogNum {
	return old.Add(l.slope)
}

// Exponential is base^level.
type Exponential struct {
	base lognum.LogNum
}

// NewExponential returns an exponential value curve.
func NewExponential(base lognum.LogNum) *Exponential {
	return &Exponential{base: base}
}

func (e *Exponential) FromZero(level int) lognum.LogNum {
	return e.base.PowInt(level)
}

func (e *Exponential) Next(old lognum.LogNum, _ int) lognum.LogNum {
	return old.Mul(e.base)
}

// StepwisePowerSum adds base^(L/length) on the purchase from level L, so each
// block of length purchases contributes a power of base:
//
//	FromZero(L) = (d + L mod length) * base^(L div length) - d + offset,  d = length / (base - 1)
type StepwisePowerSum struct {
	base   lognum.LogNum
	length int
	offset lognum.LogNum
	d      lognum.LogNum
}

// NewStepwisePowerSum returns the curve. base must not be 1 and length must be
// at least 1.
func NewStepwisePowerSum(base lognum.LogNum, length int, offset lognum.LogNum) (*StepwisePowerSum, error) {
	if base.Equal(lognum.One()) {
		return nil, &lognum.DomainError{Op: "value.NewStepwisePowerSum", Reason: "base must not be 1"}
	}
	if length < 1 {
		return nil, &lognum.DomainError{Op: "value.NewStepwisePowerSum", Reason: "length must be at least 1"}
	}
	return &StepwisePowerSum{
		base:   base,
		length: length,
		offset: offset,
		d:      lognum.FromInt(length).Div(base.Sub(lognum.One())),
	}, nil
}

// DefaultStepwisePowerSum is the common (2, 10, 0) configuration.
func DefaultStepwisePowerSum() *StepwisePowerSum {
	s, _ := NewStepwisePowerSum(lognum.FromFloat(2), 10, lognum.Zero())
	return s
}

func (s *StepwisePowerSum) FromZero(level int) lognum.LogNum {
	intPart := level / s.length
	modPart := level % s.length
	return s.d.Add(lognum.FromInt(modPart)).Mul(s.base.PowInt(intPart)).Sub(s.d).Add(s.offset)
}

func (s *StepwisePowerSum) Next(old lognum.LogNum, level int) lognum.LogNum {
	return old.Add(s.base.PowInt(level / s.length))
}

// Custom adapts externally supplied value functions.
type Custom struct {
	fromZero func(level int) lognum.LogNum
	next     func(old lognum.LogNum, level int) lognum.LogNum
}

// NewCustom wraps a pair of value functions. When next is nil every purchase
// recomputes fromZero(level+1).
func NewCustom(fromZero func(level int) lognum.LogNum, next func(old lognum.LogNum, level int) lognum.LogNum) *Custom {
	return &Custom{fromZero: fromZero, next: next}
}

func (c *Custom) FromZero(level int) lognum.LogNum {
	return c.fromZero(level)
}

func (c *Custom) Next(old lognum.LogNum, level int) lognum.LogNum {
	if c.next == nil {
		return c.fromZero(level + 1)
	}
	return c.next(old, level)
}

// Package cost provides closed-form purchase-price curves over an integer level.
//
// Levels are 1-based purchase indices: CostTo(L) is the price paid to go from
// level L-1 to level L, and TotalCostTo(L) is the price of all purchases up to L.
// Every curve satisfies
//
//	TotalCostTo(L) == TotalCostTo(L-1) + CostTo(L)  for L >= 1
//	CostTo(L) == TotalCostTo(L) == 0                for L <= 0
//
// without iterating over levels.
package cost

import (
	"math"

	"github.com/inference-sim/theory-sim/sim/lognum"
)

// Curve is a purchase-price function over levels.
type Curve interface {
	// CostTo returns the price of reaching level from level-1.
	CostTo(level int) lognum.LogNum
	// TotalCostTo returns the summed price of levels 1..level.
	TotalCostTo(level int) lognum.LogNum
}

// Next returns the price of the next purchase for a variable currently at level.
func Next(c Curve, level int) lognum.LogNum {
	return c.CostTo(level + 1)
}

// Constant charges the same price for every level.
type Constant struct {
	price lognum.LogNum
}

// NewConstant returns a curve charging price per level.
func NewConstant(price lognum.LogNum) *Constant {
	return &Constant{price: price}
}

func (c *Constant) CostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	return c.price
}

func (c *Constant) TotalCostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	return c.price.Mul(lognum.FromInt(level))
}

// Exponential charges coefficient * base^(L-1) for level L.
type Exponential struct {
	coefficient lognum.LogNum
	base        lognum.LogNum
	baseMinus1  lognum.LogNum
}

// NewExponential returns a geometric price curve. A base of exactly 1 has no
// closed-form series sum and is rejected; use Constant instead.
func NewExponential(coefficient, base lognum.LogNum) (*Exponential, error) {
	if base.Equal(lognum.One()) {
		return nil, &lognum.DomainError{Op: "cost.NewExponential", Reason: "base must not be 1"}
	}
	if base.IsNaN() || coefficient.IsNaN() {
		return nil, &lognum.DomainError{Op: "cost.NewExponential", Reason: "NaN parameter"}
	}
	return &Exponential{
		coefficient: coefficient,
		base:        base,
		baseMinus1:  base.Sub(lognum.One()),
	}, nil
}

// NewExponentialLog2 is NewExponential with the base given as log2(base), the
// way game data usually lists steep price ratios.
func NewExponentialLog2(coefficient lognum.LogNum, log2Base float64) (*Exponential, error) {
	return NewExponential(coefficient, lognum.FromLog(log2Base*math.Log10(2)))
}

func (e *Exponential) CostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	return e.coefficient.Mul(e.base.PowInt(level - 1))
}

// TotalCostTo evaluates coefficient * (base^L - 1) / (base - 1).
func (e *Exponential) TotalCostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	return e.coefficient.Mul(e.base.PowInt(level).Sub(lognum.One())).Div(e.baseMinus1)
}

// Stepwise groups levels into buckets of bucketSize that all share the inner
// curve's price for the bucket index.
type Stepwise struct {
	inner      Curve
	bucketSize int
}

// NewStepwise wraps inner so that its price only changes every bucketSize levels.
func NewStepwise(inner Curve, bucketSize int) (*Stepwise, error) {
	if bucketSize < 1 {
		return nil, &lognum.DomainError{Op: "cost.NewStepwise", Reason: "bucket size must be at least 1"}
	}
	return &Stepwise{inner: inner, bucketSize: bucketSize}, nil
}

func (s *Stepwise) CostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	return s.inner.CostTo((level-1)/s.bucketSize + 1)
}

func (s *Stepwise) TotalCostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	full := (level - 1) / s.bucketSize
	rem := (level-1)%s.bucketSize + 1
	filled := s.inner.TotalCostTo(full).Mul(lognum.FromInt(s.bucketSize))
	partial := s.inner.CostTo(full + 1).Mul(lognum.FromInt(rem))
	return filled.Add(partial)
}

// Composite follows first up to and including cutoff, then second re-indexed
// from the cutoff.
type Composite struct {
	first, second Curve
	cutoff        int
}

// NewComposite joins two curves at cutoff.
func NewComposite(first, second Curve, cutoff int) (*Composite, error) {
	if cutoff < 0 {
		return nil, &lognum.DomainError{Op: "cost.NewComposite", Reason: "cutoff must be non-negative"}
	}
	return &Composite{first: first, second: second, cutoff: cutoff}, nil
}

func (c *Composite) CostTo(level int) lognum.LogNum {
	if level <= c.cutoff {
		return c.first.CostTo(level)
	}
	return c.second.CostTo(level - c.cutoff)
}

func (c *Composite) TotalCostTo(level int) lognum.LogNum {
	if level <= c.cutoff {
		return c.first.TotalCostTo(level)
	}
	return c.second.TotalCostTo(level - c.cutoff).Add(c.first.TotalCostTo(c.cutoff))
}

// FirstFree shifts inner down one level so the first purchase costs inner's
// level-0 price, which is zero for every curve in this package.
type FirstFree struct {
	inner Curve
}

// NewFirstFree makes the first level of inner free.
func NewFirstFree(inner Curve) *FirstFree {
	return &FirstFree{inner: inner}
}

func (f *FirstFree) CostTo(level int) lognum.LogNum {
	return f.inner.CostTo(level - 1)
}

func (f *FirstFree) TotalCostTo(level int) lognum.LogNum {
	return f.inner.TotalCostTo(level - 1)
}

// Custom adapts externally supplied pricing functions. Levels <= 0 never reach
// the functions and always cost zero.
type Custom struct {
	costTo, totalCostTo func(level int) lognum.LogNum
}

// NewCustom wraps a pair of pricing functions. The caller is responsible for
// keeping them consistent with each other.
func NewCustom(costTo, totalCostTo func(level int) lognum.LogNum) *Custom {
	return &Custom{costTo: costTo, totalCostTo: totalCostTo}
}

func (c *Custom) CostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	return c.costTo(level)
}

func (c *Custom) TotalCostTo(level int) lognum.LogNum {
	if level <= 0 {
		return lognum.Zero()
	}
	return c.totalCostTo(level)
}

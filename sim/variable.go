package sim

import (
	"github.com/inference-sim/theory-sim/sim/cost"
	"github.com/inference-sim/theory-sim/sim/lognum"
	"github.com/inference-sim/theory-sim/sim/value"
)

// Variable is a purchasable upgrade: a level plus the cached price of the next
// purchase and the value at the current level.
type Variable struct {
	Name string

	costCurve  cost.Curve
	valueCurve value.Curve
	level      int
	cost       lognum.LogNum
	value      lognum.LogNum
}

// NewVariable returns a variable at level 0.
func NewVariable(name string, c cost.Curve, v value.Curve) *Variable {
	vr := &Variable{Name: name, costCurve: c, valueCurve: v}
	vr.Recompute()
	return vr
}

// Buy raises the level by one. The value advances incrementally from the
// pre-purchase level; the cost is recomputed at the new level.
func (v *Variable) Buy() {
	v.value = v.valueCurve.Next(v.value, v.level)
	v.level++
	v.cost = cost.Next(v.costCurve, v.level)
}

// Set jumps to level and recomputes cost and value from zero. A negative
// level is rejected and leaves the variable unchanged.
func (v *Variable) Set(level int) error {
	if level < 0 {
		return &lognum.DomainError{Op: "Variable.Set", Reason: "level must be non-negative"}
	}
	v.level = level
	v.Recompute()
	return nil
}

// Recompute refreshes the cached cost and value from the current level.
func (v *Variable) Recompute() {
	v.cost = cost.Next(v.costCurve, v.level)
	v.value = v.valueCurve.FromZero(v.level)
}

// Level returns the number of purchases made.
func (v *Variable) Level() int { return v.level }

// Cost returns the price of the next purchase.
func (v *Variable) Cost() lognum.LogNum { return v.cost }

// Value returns the value at the current level.
func (v *Variable) Value() lognum.LogNum { return v.value }

// TotalSpent returns the summed price of every purchase so far.
func (v *Variable) TotalSpent() lognum.LogNum { return v.costCurve.TotalCostTo(v.level) }

// Copy returns an independent variable sharing the same curves.
func (v *Variable) Copy() *Variable {
	c := *v
	return &c
}

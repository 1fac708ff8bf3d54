// Package testutil provides shared assertion helpers used across the sim/
// test packages.
package testutil

import (
	"math"
	"testing"

	"github.com/inference-sim/theory-sim/sim/lognum"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertLogNumEqual compares two LogNums with relative tolerance. It works for
// magnitudes far beyond float64 range.
func AssertLogNumEqual(t *testing.T, name string, want, got lognum.LogNum, relTol float64) {
	t.Helper()
	if !got.ApproxEqual(want, relTol) {
		t.Errorf("%s: got %s, want %s (log diff=%v)", name, got.Format(6), want.Format(6), got.Log()-want.Log())
	}
}

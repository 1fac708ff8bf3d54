// Package trace provides run-trace recording for driver loops.
// It stores pure data and does not import the sim driver package.
package trace

import "github.com/inference-sim/theory-sim/sim/lognum"

// RunRecord captures a single driver iteration: one strategy evaluation from
// StartRho to EndRho.
type RunRecord struct {
	Iteration int
	Theory    string
	Strat     string
	StartRho  lognum.LogNum
	EndRho    lognum.LogNum
	Time      float64 // seconds spent by this evaluation
}

// Gain returns log10(EndRho / StartRho), the orders of magnitude gained.
func (r RunRecord) Gain() float64 {
	return r.EndRho.Log() - r.StartRho.Log()
}

// Package sim provides the publication-chain simulation driver for theory-sim.
//
// # Reading Guide
//
// Start with these files to understand the driver:
//   - query.go / result.go: typed query and response shapes
//   - tuning.go / strategy.go: the once-set tuning document and strategy-category expansion
//   - simulator.go: Single, Chain, Step and All loops over an Evaluator
//
// # Architecture
//
// The sim package defines the driver and its interfaces; the numeric and curve
// building blocks live in sub-packages:
//   - sim/lognum/: LogNum, a signed number stored as log10 of its magnitude
//   - sim/cost/: closed-form purchase-price curves
//   - sim/value/: variable value curves
//   - sim/theory/: per-theory evaluators (tick loop, milestones, publication)
//   - sim/trace/: run-trace recording
//
// sim/theory registers its evaluator via an init() function that sets the
// package-level factory variable NewEvaluatorFunc. NewDefaultSimulator uses it.
//
// # Key Interfaces
//
//   - Evaluator: simulate one publication for a concrete strategy
//   - cost.Curve / value.Curve: level-indexed price and value functions
package sim

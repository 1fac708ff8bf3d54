// Package theory implements per-theory publication simulations: a tick loop
// that grows rho, buys variables under a strategy, unlocks milestones and
// picks the publication point with the best tau per hour.
package theory

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/theory-sim/sim"
)

// builder prepares a publication run for one theory. It fails with
// sim.ErrStrategyNotImplemented for strategies the theory does not know.
type builder func(base *publication) error

// builders maps each implemented theory to its setup.
var builders = map[sim.Category]builder{
	sim.T1: newT1,
}

// Engine is the default sim.Evaluator.
type Engine struct {
	tuning   *sim.TuningRegistry
	maxTicks int
}

// DefaultMaxTicks bounds a single publication run.
const DefaultMaxTicks = 50_000_000

// NewEngine returns an engine reading tau factors from tuning.
func NewEngine(tuning *sim.TuningRegistry) *Engine {
	return &Engine{tuning: tuning, maxTicks: DefaultMaxTicks}
}

// Implemented reports whether the engine can simulate theory.
func Implemented(theory sim.Category) bool {
	_, ok := builders[theory]
	return ok
}

// Evaluate simulates one publication of q.Theory under q.Strat from q.Rho.
func (e *Engine) Evaluate(q sim.SingleQuery) (sim.SimResult, error) {
	build, ok := builders[q.Theory]
	if !ok {
		return sim.SimResult{}, fmt.Errorf("theory %s: %w", q.Theory, sim.ErrStrategyNotImplemented)
	}
	cfg, err := e.tuning.Get()
	if err != nil {
		return sim.SimResult{}, err
	}
	tauFactor, err := cfg.TauFactor(q.Theory)
	if err != nil {
		return sim.SimResult{}, err
	}

	p := newPublication(q, tauFactor)
	if err := build(p); err != nil {
		return sim.SimResult{}, err
	}
	if err := p.run(e.maxTicks); err != nil {
		return sim.SimResult{}, err
	}
	res := p.result()
	logrus.Debugf("%s %s: %s -> %s, tau/h %.4f in %d ticks", q.Theory, q.Strat, res.LastPub, res.PubRho, res.TauH, p.ticks)
	return res, nil
}

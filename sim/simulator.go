package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/theory-sim/sim/lognum"
	"github.com/inference-sim/theory-sim/sim/trace"
)

// DefaultMaxIterations bounds chained and fixed-step loops.
const DefaultMaxIterations = 10000

// stepTolerance is the relative overshoot allowed past the cap in fixed-step runs.
var stepTolerance = lognum.FromFloat(1.001)

// Simulator drives an Evaluator through single, chained, fixed-step and
// aggregate simulations. It holds no state between calls.
type Simulator struct {
	evaluator     Evaluator
	tuning        *TuningRegistry
	maxIterations int
	trace         *trace.RunTrace
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithMaxIterations overrides DefaultMaxIterations. Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithTrace records every chained and fixed-step iteration into rt.
func WithTrace(rt *trace.RunTrace) Option {
	return func(s *Simulator) { s.trace = rt }
}

// NewSimulator returns a driver over ev using the tuning held by tuning.
func NewSimulator(ev Evaluator, tuning *TuningRegistry, opts ...Option) *Simulator {
	s := &Simulator{
		evaluator:     ev,
		tuning:        tuning,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDefaultSimulator returns a driver over the registered per-theory evaluator.
// It fails when no evaluator package has been imported.
func NewDefaultSimulator(tuning *TuningRegistry, opts ...Option) (*Simulator, error) {
	if NewEvaluatorFunc == nil {
		return nil, fmt.Errorf("no evaluator registered: import sim/theory")
	}
	return NewSimulator(NewEvaluatorFunc(tuning), tuning, opts...), nil
}

// Simulate dispatches q to the matching driver method.
func (s *Simulator) Simulate(q Query) (Response, error) {
	switch q := q.(type) {
	case SingleQuery:
		return s.Single(q)
	case ChainQuery:
		return s.Chain(q)
	case StepQuery:
		return s.Step(q)
	case AllQuery:
		return s.All(q)
	default:
		return nil, fmt.Errorf("unsupported query type %T", q)
	}
}

// Single evaluates one publication. When q.Strat names a strategy category it
// is expanded into the theory's candidate strategies and the result with the
// highest tau/h is returned, the earliest candidate winning ties.
func (s *Simulator) Single(q SingleQuery) (SingleResponse, error) {
	if err := validateQuery(q); err != nil {
		return SingleResponse{}, err
	}
	res, err := s.single(q)
	if err != nil {
		return SingleResponse{}, err
	}
	return SingleResponse{Result: res}, nil
}

func (s *Simulator) single(q SingleQuery) (SimResult, error) {
	cfg, err := s.tuning.Get()
	if err != nil {
		return SimResult{}, err
	}
	if !cfg.IsStratCategory(q.Strat) {
		return s.evaluate(q)
	}

	strats, err := cfg.StrategiesFor(q.Theory, q.Strat, q.Rho)
	if err != nil {
		return SimResult{}, err
	}
	if len(strats) == 0 {
		logrus.Debugf("%s: no strategy in %q applies at rho=%s", q.Theory, q.Strat, q.Rho)
		res := DefaultResult()
		res.Theory = q.Theory
		res.Sigma = q.Sigma
		res.LastPub = q.Rho
		return res, nil
	}
	var best SimResult
	for i, strat := range strats {
		sq := q
		sq.Strat = strat
		res, err := s.evaluate(sq)
		if err != nil {
			return SimResult{}, err
		}
		if i == 0 {
			best = res
			continue
		}
		best = BestResult(best, res)
	}
	return best, nil
}

func (s *Simulator) evaluate(q SingleQuery) (SimResult, error) {
	res, err := s.evaluator.Evaluate(q)
	if err != nil {
		return SimResult{}, fmt.Errorf("evaluating %s strategy %q at rho=%s: %w", q.Theory, q.Strat, q.Rho, err)
	}
	return res, nil
}

// Chain repeats single evaluations, feeding each publication rho into the next
// evaluation, until the running rho reaches q.Cap.
//
// DeltaTau is (final / start)^tauFactor and AverageRate is DeltaTau per hour of
// simulated time (zero when no time elapsed). An evaluation that fails to raise
// rho, or a run past the iteration bound, is a *NonConvergentError.
func (s *Simulator) Chain(q ChainQuery) (ChainResponse, error) {
	if err := validateQuery(q); err != nil {
		return ChainResponse{}, err
	}
	cfg, err := s.tuning.Get()
	if err != nil {
		return ChainResponse{}, err
	}
	tauFactor, err := cfg.TauFactor(q.Theory)
	if err != nil {
		return ChainResponse{}, err
	}

	var hardCap *lognum.LogNum
	if q.HardCap {
		c := q.Cap
		hardCap = &c
	}

	rho := q.Rho
	lastStrat := ""
	totalTime := 0.0
	results := make([]SimResult, 0)
	for i := 0; rho.Less(q.Cap); i++ {
		if i >= s.maxIterations {
			return ChainResponse{}, s.nonConvergent(q.Theory, i, rho, fmt.Sprintf("exceeded %d iterations", s.maxIterations))
		}
		res, err := s.single(SingleQuery{
			Theory:    q.Theory,
			Strat:     q.Strat,
			Sigma:     q.Sigma,
			Rho:       rho,
			Cap:       hardCap,
			LastStrat: lastStrat,
			Settings:  q.Settings,
		})
		if err != nil {
			return ChainResponse{}, err
		}
		if !res.PubRho.Greater(rho) {
			return ChainResponse{}, s.nonConvergent(q.Theory, i, rho, fmt.Sprintf("publication rho %s does not exceed start", res.PubRho))
		}
		logrus.Debugf("[chain %04d] %s %s: %s -> %s in %.0fs", i, q.Theory, res.Strat, rho, res.PubRho, res.Time)
		s.trace.Record(trace.RunRecord{
			Iteration: i,
			Theory:    q.Theory.String(),
			Strat:     res.Strat,
			StartRho:  rho,
			EndRho:    res.PubRho,
			Time:      res.Time,
		})

		results = append(results, res)
		rho = res.PubRho
		lastStrat = stratFamily(res.Strat)
		totalTime += res.Time
	}

	deltaTau, err := rho.Div(q.Rho).Pow(tauFactor)
	if err != nil {
		return ChainResponse{}, fmt.Errorf("computing tail rate: %w", err)
	}
	return ChainResponse{
		Results:     results,
		DeltaTau:    deltaTau,
		AverageRate: averageRate(deltaTau, totalTime),
		TotalTime:   totalTime,
	}, nil
}

// averageRate returns deltaTau per hour of seconds, or zero when no time passed.
func averageRate(deltaTau lognum.LogNum, seconds float64) lognum.LogNum {
	if seconds <= 0 {
		return lognum.Zero()
	}
	return deltaTau.Div(lognum.FromFloat(seconds / 3600))
}

// Step evaluates one publication at q.Rho and at every multiple q.Rho*q.Step^k
// until the running rho reaches q.Cap within 0.1%. The running rho advances by
// q.Step regardless of what the evaluation returned. A step of at most one
// cannot reach the cap and is a *NonConvergentError.
func (s *Simulator) Step(q StepQuery) (StepResponse, error) {
	if err := validateQuery(q); err != nil {
		return StepResponse{}, err
	}
	if !q.Step.Greater(lognum.One()) {
		return StepResponse{}, s.nonConvergent(q.Theory, 0, q.Rho, fmt.Sprintf("step %s must exceed 1", q.Step))
	}

	bound := q.Cap.Mul(stepTolerance)
	rho := q.Rho
	lastStrat := ""
	results := make([]SimResult, 0)
	for i := 0; rho.Less(bound); i++ {
		if i >= s.maxIterations {
			return StepResponse{}, s.nonConvergent(q.Theory, i, rho, fmt.Sprintf("exceeded %d iterations", s.maxIterations))
		}
		res, err := s.single(SingleQuery{
			Theory:    q.Theory,
			Strat:     q.Strat,
			Sigma:     q.Sigma,
			Rho:       rho,
			LastStrat: lastStrat,
			Settings:  q.Settings,
		})
		if err != nil {
			return StepResponse{}, err
		}
		logrus.Debugf("[step %04d] %s %s at %s: tau/h %.4f", i, q.Theory, res.Strat, rho, res.TauH)
		s.trace.Record(trace.RunRecord{
			Iteration: i,
			Theory:    q.Theory.String(),
			Strat:     res.Strat,
			StartRho:  rho,
			EndRho:    res.PubRho,
			Time:      res.Time,
		})

		results = append(results, res)
		rho = rho.Mul(q.Step)
		lastStrat = stratFamily(res.Strat)
	}
	return StepResponse{Results: results, FinalRho: rho}, nil
}

// All evaluates every theory whose positional value exceeds one under the
// active and/or idle profile selected by q.Settings.SimAllStrats. Entries past
// the end of the enumeration are ignored.
func (s *Simulator) All(q AllQuery) (AllResponse, error) {
	if err := validateQuery(q); err != nil {
		return AllResponse{}, err
	}
	stratType := q.Settings.stratType()

	results := make([]AllResult, 0)
	for i, rho := range q.Values {
		theory, ok := CategoryFromIndex(i)
		if !ok {
			logrus.Warnf("ignoring value %d: only %d theories exist", i, len(categoryNames))
			continue
		}
		if !rho.Greater(lognum.One()) {
			continue
		}
		base := SingleQuery{Theory: theory, Sigma: q.Sigma, Rho: rho, Settings: q.Settings}

		active := DefaultResult()
		if stratType != StratTypeIdle {
			base.Strat = BestActive
			if q.VeryActive {
				base.Strat = BestOverall
			}
			res, err := s.single(base)
			if err != nil {
				return AllResponse{}, err
			}
			active = res
		}
		idle := DefaultResult()
		if stratType != StratTypeActive {
			base.Strat = BestIdle
			if q.SemiIdle {
				base.Strat = BestSemiIdle
			}
			res, err := s.single(base)
			if err != nil {
				return AllResponse{}, err
			}
			idle = res
		}

		ratio := 1.0
		if stratType == StratTypeAll && idle.TauH != 0 {
			ratio = active.TauH / idle.TauH
		}
		results = append(results, AllResult{
			Theory:  theory,
			Ratio:   ratio,
			LastPub: rho,
			Active:  active,
			Idle:    idle,
		})
	}
	return AllResponse{
		Sigma:        q.Sigma,
		StratType:    stratType,
		CompletedCTs: q.Settings.CompletedCTs,
		Results:      results,
	}, nil
}

func (s *Simulator) nonConvergent(theory Category, iteration int, rho lognum.LogNum, reason string) error {
	logrus.Warnf("%s: giving up at iteration %d (rho=%s): %s", theory, iteration, rho, reason)
	return &NonConvergentError{Theory: theory.String(), Iteration: iteration, Rho: rho, Reason: reason}
}

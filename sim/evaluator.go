package sim

// Evaluator simulates one publication for a concrete strategy.
type Evaluator interface {
	Evaluate(q SingleQuery) (SimResult, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(q SingleQuery) (SimResult, error)

// Evaluate calls f(q).
func (f EvaluatorFunc) Evaluate(q SingleQuery) (SimResult, error) { return f(q) }

// NewEvaluatorFunc builds the default per-theory evaluator. It is set by
// sim/theory's init(); importing sim/theory registers it.
var NewEvaluatorFunc func(tuning *TuningRegistry) Evaluator

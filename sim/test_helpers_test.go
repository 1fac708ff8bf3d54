package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/theory-sim/sim/lognum"
)

const testTuningYAML = `
version: test
strat_categories: ["Best Overall", "Best Active", "Best Semi-Idle", "Best Idle"]
theories:
  T1:
    tau_factor: 1
    strats:
      - name: Fast
        categories: ["Best Overall", "Best Active"]
      - name: Slow
        categories: ["Best Overall", "Best Active", "Best Semi-Idle", "Best Idle"]
      - name: Late
        categories: ["Best Overall", "Best Idle"]
        min_rho: 1e50
  T2:
    tau_factor: 1
    strats:
      - name: Fast
        categories: ["Best Active"]
      - name: Slow
        categories: ["Best Idle"]
  EF:
    tau_factor: 0.4
    strats: []
`

// testTuning returns a registry set from testTuningYAML.
func testTuning(t *testing.T) *TuningRegistry {
	t.Helper()
	cfg, err := ParseTuningConfig([]byte(testTuningYAML))
	require.NoError(t, err)
	reg := NewTuningRegistry()
	require.NoError(t, reg.Set(cfg))
	return reg
}

// multiplyingEvaluator publishes at factor times the starting rho after
// seconds, reporting log10(factor) per hour as tau/h.
func multiplyingEvaluator(factor, seconds float64) EvaluatorFunc {
	f := lognum.FromFloat(factor)
	return func(q SingleQuery) (SimResult, error) {
		return SimResult{
			Theory:   q.Theory,
			Sigma:    q.Sigma,
			LastPub:  q.Rho,
			PubRho:   q.Rho.Mul(f),
			DeltaTau: f,
			PubMulti: lognum.One(),
			Strat:    q.Strat,
			TauH:     f.Log() / (seconds / 3600),
			Time:     seconds,
		}, nil
	}
}

// strategyTauEvaluator reports a fixed tau/h per strategy name and records
// every query it receives.
type strategyTauEvaluator struct {
	tauH  map[string]float64
	calls []SingleQuery
}

func (e *strategyTauEvaluator) Evaluate(q SingleQuery) (SimResult, error) {
	e.calls = append(e.calls, q)
	return SimResult{
		Theory:  q.Theory,
		LastPub: q.Rho,
		PubRho:  q.Rho.Mul(lognum.FromFloat(10)),
		Strat:   q.Strat + " annotated",
		TauH:    e.tauH[q.Strat],
		Time:    60,
	}, nil
}

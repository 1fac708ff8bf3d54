package sim

import (
	"fmt"
	"strings"

	"github.com/inference-sim/theory-sim/sim/lognum"
)

// Strategy categories shipped in the default tuning document.
const (
	BestOverall  = "Best Overall"
	BestActive   = "Best Active"
	BestSemiIdle = "Best Semi-Idle"
	BestIdle     = "Best Idle"
)

// StrategiesFor expands a strategy category into the theory's concrete
// strategies that compete in it at rho, in configuration order.
func (c *TuningConfig) StrategiesFor(theory Category, category string, rho lognum.LogNum) ([]string, error) {
	if !c.IsStratCategory(category) {
		return nil, &ConfigurationError{Theory: theory.String(), Reason: fmt.Sprintf("unknown strategy category %q", category)}
	}
	tt, ok := c.Theories[theory]
	if !ok {
		return nil, &ConfigurationError{Theory: theory.String(), Reason: "no tuning entry"}
	}
	var out []string
	for _, st := range tt.Strats {
		if !st.competesIn(category) {
			continue
		}
		if st.MinRho != nil && rho.Less(*st.MinRho) {
			continue
		}
		if st.MaxRho != nil && rho.GreaterEq(*st.MaxRho) {
			continue
		}
		out = append(out, st.Name)
	}
	return out, nil
}

func (st StratTuning) competesIn(category string) bool {
	for _, sc := range st.Categories {
		if sc == category {
			return true
		}
	}
	return false
}

// stratFamily returns the leading word of a strategy label, dropping any
// annotation an evaluator appended after a space.
func stratFamily(strat string) string {
	if i := strings.IndexByte(strat, ' '); i >= 0 {
		return strat[:i]
	}
	return strat
}

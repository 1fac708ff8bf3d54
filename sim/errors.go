package sim

import (
	"errors"
	"fmt"

	"github.com/inference-sim/theory-sim/sim/lognum"
)

var (
	// ErrConfiguration marks a missing or conflicting tuning configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNonConvergent marks a driver loop that stopped making progress.
	ErrNonConvergent = errors.New("simulation did not converge")
	// ErrStrategyNotImplemented is returned by evaluators for categories or
	// strategies they cannot simulate.
	ErrStrategyNotImplemented = errors.New("strategy not implemented")
)

// ConfigurationError reports a tuning problem discovered at a call site.
type ConfigurationError struct {
	Theory string // empty when the problem is not theory-specific
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Theory == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: theory %s: %s", e.Theory, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NonConvergentError reports the iteration at which a chained or fixed-step
// simulation gave up.
type NonConvergentError struct {
	Theory    string
	Iteration int
	Rho       lognum.LogNum
	Reason    string
}

func (e *NonConvergentError) Error() string {
	return fmt.Sprintf("%s: %s did not converge at iteration %d (rho=%s): %s",
		ErrNonConvergent.Error(), e.Theory, e.Iteration, e.Rho, e.Reason)
}

func (e *NonConvergentError) Is(target error) bool { return target == ErrNonConvergent }

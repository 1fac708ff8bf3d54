package theory

import (
	"fmt"
	"math"

	"github.com/inference-sim/theory-sim/sim"
	"github.com/inference-sim/theory-sim/sim/cost"
	"github.com/inference-sim/theory-sim/sim/lognum"
	"github.com/inference-sim/theory-sim/sim/value"
)

// T1 strategies.
const (
	StratT1      = "T1"
	StratT1C34   = "T1C34"
	StratT1C4    = "T1C4"
	StratT1Ratio = "T1Ratio"
)

// T1 variable indices.
const (
	t1Q1 = iota
	t1Q2
	t1C1
	t1C2
	t1C3
	t1C4
)

// t1 holds the per-tick terms that T1Ratio buying conditions read.
type t1 struct {
	*publication
	term1, term2, term3 lognum.LogNum
	termRatio           float64 // log10 slack required before buying c1 and c2
	c3Ratio             lognum.LogNum
}

func mustExponentialCost(coefficient, base float64) *cost.Exponential {
	c, err := cost.NewExponential(lognum.FromFloat(coefficient), lognum.FromFloat(base))
	if err != nil {
		panic(err)
	}
	return c
}

func mustExponentialCostLog2(coefficient, log2Base float64) *cost.Exponential {
	c, err := cost.NewExponentialLog2(lognum.FromFloat(coefficient), log2Base)
	if err != nil {
		panic(err)
	}
	return c
}

func newT1(p *publication) error {
	th := &t1{publication: p, term1: lognum.Zero(), term2: lognum.Zero(), term3: lognum.Zero()}

	c1Value, err := value.NewStepwisePowerSum(lognum.FromFloat(2), 10, lognum.One())
	if err != nil {
		return err
	}
	p.variables = []*sim.Variable{
		sim.NewVariable("q1", cost.NewFirstFree(mustExponentialCost(5, 2)), value.DefaultStepwisePowerSum()),
		sim.NewVariable("q2", mustExponentialCost(100, 10), value.NewExponential(lognum.FromFloat(2))),
		sim.NewVariable("c1", mustExponentialCost(15, 2), c1Value),
		sim.NewVariable("c2", mustExponentialCost(3000, 10), value.NewExponential(lognum.FromFloat(2))),
		sim.NewVariable("c3", mustExponentialCostLog2(1e4, 4.5*math.Log2(10)), value.NewExponential(lognum.FromFloat(10))),
		sim.NewVariable("c4", mustExponentialCostLog2(1e10, 8*math.Log2(10)), value.NewExponential(lognum.FromFloat(10))),
	}
	p.availability = []condition{
		always,
		always,
		always,
		always,
		func() bool { return p.milestones[2] > 0 },
		func() bool { return p.milestones[3] > 0 },
	}
	conditions, err := th.buyingConditions()
	if err != nil {
		return err
	}
	p.conditions = conditions

	p.pubUnlock = lognum.FromLog(10)
	// milestones: [log term, c1 exponent, c3 term, c4 term]
	p.milestoneUnlockSteps = 25
	p.milestonesMax = []int{1, 3, 1, 1}
	p.milestonePriority = []int{2, 3, 0, 1}
	p.milestones = make([]int, len(p.milestonesMax))
	p.milestoneLimit = 176

	p.multiplier = func(rho lognum.LogNum) float64 {
		return math.Max(0, rho.Log()*0.164-math.Log10(3)) + r9(p.sigma)
	}
	p.tick = th.tick
	p.onPurchases = th.onPurchases

	last := p.lastPub.Log()
	switch {
	case last < 300:
		th.c3Ratio = lognum.One()
	case last < 450:
		th.c3Ratio = lognum.FromFloat(1.1)
	case last < 550:
		th.c3Ratio = lognum.FromFloat(2)
	case last < 655:
		th.c3Ratio = lognum.FromFloat(5)
	default:
		th.c3Ratio = lognum.FromFloat(10)
	}
	return nil
}

func (th *t1) buyingConditions() ([]condition, error) {
	switch th.strat {
	case StratT1:
		return []condition{always, always, always, always, always, always}, nil
	case StratT1C34:
		return []condition{always, always, never, never, always, always}, nil
	case StratT1C4:
		return []condition{always, always, never, never, never, always}, nil
	case StratT1Ratio:
		v := th.variables
		return []condition{
			func() bool { return v[t1Q1].Cost().Mul(lognum.FromFloat(10)).Less(th.rho) },
			func() bool { return v[t1Q2].Cost().Mul(lognum.FromFloat(1.11)).Less(th.rho) },
			func() bool { return v[t1C1].Cost().Log()+th.termRatio+1 <= th.rho.Log() },
			func() bool { return v[t1C2].Cost().Log()+th.termRatio <= th.rho.Log() },
			func() bool { return v[t1C3].Cost().Mul(th.c3Ratio).Less(th.rho) },
			always,
		}, nil
	default:
		return nil, fmt.Errorf("theory T1 strategy %q: %w", th.strat, sim.ErrStrategyNotImplemented)
	}
}

// tick grows rho by (term1 + term2) * term3 * multiplier * dt where
//
//	term1 = c1^(1 + 0.05*m1) * c2 * (1 + ln(rho)/100 when m0 is unlocked)
//	term2 = c3 * rho^0.2 + c4 * rho^0.3
//	term3 = q1 * q2
func (th *t1) tick() {
	v := th.variables
	th.term1 = pow(v[t1C1].Value(), 1+0.05*float64(th.milestones[1])).Mul(v[t1C2].Value())
	if th.milestones[0] > 0 {
		logTerm := lognum.Max(th.rho, lognum.One()).Ln().Div(lognum.FromInt(100))
		th.term1 = th.term1.Mul(lognum.One().Add(logTerm))
	}
	th.term2 = v[t1C3].Value().Mul(pow(th.rho, 0.2)).Add(v[t1C4].Value().Mul(pow(th.rho, 0.3)))
	th.term3 = v[t1Q1].Value().Mul(v[t1Q2].Value())

	rhodot := th.term1.Add(th.term2).Mul(th.term3).Mul(lognum.FromLog(th.totMult)).Mul(lognum.FromFloat(th.dt))
	th.rho = th.rho.Add(rhodot)
}

// onPurchases refreshes the slack T1Ratio keeps between c1/c2 and rho.
func (th *t1) onPurchases() {
	if th.lastPub.Log() >= 350 {
		th.termRatio = math.Inf(1)
		return
	}
	gap := 0.0
	if th.milestones[3] > 0 {
		gap = th.term2.Log() - th.term1.Log()
	}
	th.termRatio = math.Max(math.Log10(5), gap)
}

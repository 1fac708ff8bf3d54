package theory

import (
	"fmt"
	"math"

	"github.com/inference-sim/theory-sim/sim"
	"github.com/inference-sim/theory-sim/sim/lognum"
)

// condition gates the purchase of one variable.
type condition func() bool

func always() bool { return true }
func never() bool  { return false }

// publication is the state of one simulated publication cycle. Theories fill
// in the variables, conditions and hooks; the loop itself is shared.
type publication struct {
	theory    sim.Category
	strat     string
	tauFactor float64
	settings  sim.Settings
	sigma     int

	lastPub   lognum.LogNum
	cap       lognum.LogNum // +Inf when uncapped
	pubUnlock lognum.LogNum // pubRho needed before publishing is allowed
	totMult   float64       // log10 of the publication multiplier at lastPub

	dt, ddt float64
	t       float64 // elapsed seconds
	ticks   int

	rho    lognum.LogNum
	maxRho lognum.LogNum

	variables    []*sim.Variable
	conditions   []condition
	availability []condition
	boughtVars   []sim.VarBuy

	tauH    float64 // log10 tau per hour at this tick
	maxTauH float64
	pubT    float64
	pubRho  lognum.LogNum

	milestones           []int
	milestonesMax        []int
	milestonePriority    []int
	milestoneUnlockSteps float64 // log10 rho per milestone point
	milestoneLimit       float64 // milestones stop updating once lastPub reaches this log10

	multiplier  func(rho lognum.LogNum) float64 // log10 publication multiplier at rho
	tick        func()
	onPurchases func() // after any tick that bought at least one variable
}

func newPublication(q sim.SingleQuery, tauFactor float64) *publication {
	p := &publication{
		theory:         q.Theory,
		strat:          q.Strat,
		tauFactor:      tauFactor,
		settings:       q.Settings,
		sigma:          q.Sigma,
		lastPub:        q.Rho,
		cap:            lognum.Inf(1),
		pubUnlock:      lognum.One(),
		dt:             q.Settings.Dt,
		ddt:            q.Settings.Ddt,
		rho:            lognum.One(),
		maxRho:         lognum.One(),
		pubRho:         lognum.One(),
		milestoneLimit: math.Inf(1),
		boughtVars:     make([]sim.VarBuy, 0),
		onPurchases:    func() {},
	}
	if q.Cap != nil && q.Cap.Greater(lognum.Zero()) {
		p.cap = *q.Cap
	}
	return p
}

// r9 is the log10 multiplier granted by the student count.
func r9(sigma int) float64 {
	var exp float64
	switch {
	case sigma < 65:
		return 0
	case sigma < 75:
		exp = 1
	case sigma < 85:
		exp = 2
	default:
		exp = 3
	}
	return exp * math.Log10(float64(sigma)/20)
}

// pow raises a non-negative quantity to e.
func pow(x lognum.LogNum, e float64) lognum.LogNum {
	p, _ := x.Abs().Pow(e)
	return p
}

// updateMilestones distributes milestone points by priority.
func (p *publication) updateMilestones() {
	rho := lognum.Max(p.maxRho, p.lastPub)
	count := int(math.Floor(rho.Log() / p.milestoneUnlockSteps))
	for i := range p.milestones {
		p.milestones[i] = 0
	}
	for _, idx := range p.milestonePriority {
		for p.milestones[idx] < p.milestonesMax[idx] && count > 0 {
			p.milestones[idx]++
			count--
		}
	}
}

func (p *publication) canPublish() bool { return p.pubRho.GreaterEq(p.pubUnlock) }

func (p *publication) capReached() bool { return p.maxRho.GreaterEq(p.cap) }

// finished reports whether the loop should stop: publishing is unlocked and
// either the cap was hit or twice the best publication time has passed.
func (p *publication) finished() bool {
	return p.canPublish() && (p.capReached() || p.t > 2*p.pubT)
}

// updateStatus advances time and moves the publication point to this tick
// when tau/h improved or publishing is not yet possible.
func (p *publication) updateStatus() {
	p.maxRho = lognum.Max(p.maxRho, p.rho)
	p.t += p.dt / 1.5
	p.dt *= p.ddt

	p.tauH = p.tauFactor * (p.maxRho.Log() - p.lastPub.Log()) / (p.t / 3600)
	if p.maxTauH < p.tauH || !p.canPublish() || p.capReached() {
		p.maxTauH = p.tauH
		p.pubT = p.t
		p.pubRho = p.maxRho
	}
	p.ticks++
}

// buyVariables buys from the end of the variable list while rho covers the
// price and the strategy allows it.
func (p *publication) buyVariables() {
	bought := false
	for i := len(p.variables) - 1; i >= 0; i-- {
		v := p.variables[i]
		for p.rho.Greater(v.Cost()) && p.conditions[i]() && p.availability[i]() {
			if p.maxRho.Log()+p.settings.BoughtVarsDelta > p.lastPub.Log() {
				p.boughtVars = append(p.boughtVars, sim.VarBuy{
					Variable:  v.Name,
					Level:     v.Level() + 1,
					Cost:      v.Cost(),
					Symbol:    "rho",
					Timestamp: p.t,
				})
			}
			p.rho = p.rho.Sub(v.Cost())
			v.Buy()
			bought = true
		}
	}
	if bought {
		p.onPurchases()
	}
}

func (p *publication) run(maxTicks int) error {
	p.totMult = p.multiplier(p.lastPub)
	p.updateMilestones()
	for !p.finished() {
		if p.ticks >= maxTicks {
			return &sim.NonConvergentError{
				Theory:    p.theory.String(),
				Iteration: p.ticks,
				Rho:       p.maxRho,
				Reason:    fmt.Sprintf("publication did not finish within %d ticks", maxTicks),
			}
		}
		p.tick()
		p.updateStatus()
		if p.lastPub.Log() < p.milestoneLimit {
			p.updateMilestones()
		}
		p.buyVariables()
	}
	p.trimBoughtVars()
	return nil
}

// trimBoughtVars drops purchases made after the publication point.
func (p *publication) trimBoughtVars() {
	n := len(p.boughtVars)
	for n > 0 && p.boughtVars[n-1].Timestamp > p.pubT {
		n--
	}
	p.boughtVars = p.boughtVars[:n]
}

func (p *publication) result() sim.SimResult {
	deltaTau := pow(p.pubRho.Div(p.lastPub), p.tauFactor)
	return sim.SimResult{
		Theory:     p.theory,
		Sigma:      p.sigma,
		LastPub:    p.lastPub,
		PubRho:     p.pubRho,
		DeltaTau:   deltaTau,
		PubMulti:   lognum.FromLog(p.multiplier(p.pubRho) - p.totMult),
		Strat:      p.strat,
		TauH:       p.maxTauH,
		Time:       math.Max(0, p.pubT),
		BoughtVars: p.boughtVars,
	}
}

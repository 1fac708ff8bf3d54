package sim

import "github.com/inference-sim/theory-sim/sim/lognum"

// UndefinedStrat labels a result no strategy produced.
const UndefinedStrat = "Result undefined"

// VarBuy records one variable purchase.
type VarBuy struct {
	Variable  string        `yaml:"variable" json:"variable"`
	Level     int           `yaml:"level" json:"level"` // level after the purchase
	Cost      lognum.LogNum `yaml:"cost" json:"cost"`
	Symbol    string        `yaml:"symbol" json:"symbol"` // currency paid with
	Timestamp float64       `yaml:"timestamp" json:"timestamp"`
}

// SimResult is the outcome of one publication.
type SimResult struct {
	Theory     Category      `yaml:"theory" json:"theory"`
	Sigma      int           `yaml:"sigma" json:"sigma"`
	LastPub    lognum.LogNum `yaml:"last_pub" json:"last_pub"`
	PubRho     lognum.LogNum `yaml:"pub_rho" json:"pub_rho"`
	DeltaTau   lognum.LogNum `yaml:"delta_tau" json:"delta_tau"` // (PubRho / LastPub)^tauFactor
	PubMulti   lognum.LogNum `yaml:"pub_multi" json:"pub_multi"` // multiplier gained by publishing
	Strat      string        `yaml:"strat" json:"strat"`
	TauH       float64       `yaml:"tau_h" json:"tau_h"` // log10 tau gained per hour, may be negative
	Time       float64       `yaml:"time" json:"time"`   // seconds
	BoughtVars []VarBuy      `yaml:"bought_vars" json:"bought_vars"`
}

// DefaultResult returns the placeholder result for evaluations that did not run.
func DefaultResult() SimResult {
	return SimResult{
		Theory:     T1,
		LastPub:    lognum.Zero(),
		PubRho:     lognum.Zero(),
		DeltaTau:   lognum.Zero(),
		PubMulti:   lognum.Zero(),
		Strat:      UndefinedStrat,
		BoughtVars: []VarBuy{},
	}
}

// BestResult returns the result with the higher tau/h, preferring a on ties.
func BestResult(a, b SimResult) SimResult {
	if a.TauH >= b.TauH {
		return a
	}
	return b
}

// AllResult is one theory's entry in an aggregate simulation.
type AllResult struct {
	Theory  Category      `yaml:"theory" json:"theory"`
	Ratio   float64       `yaml:"ratio" json:"ratio"` // active tau/h over idle tau/h
	LastPub lognum.LogNum `yaml:"last_pub" json:"last_pub"`
	Active  SimResult     `yaml:"active" json:"active"`
	Idle    SimResult     `yaml:"idle" json:"idle"`
}

// Response is one of SingleResponse, ChainResponse, StepResponse or AllResponse.
type Response interface {
	ResponseType() string
}

type SingleResponse struct {
	Result SimResult `yaml:"result" json:"result"`
}

type ChainResponse struct {
	Results     []SimResult   `yaml:"results" json:"results"`
	DeltaTau    lognum.LogNum `yaml:"delta_tau" json:"delta_tau"`
	AverageRate lognum.LogNum `yaml:"average_rate" json:"average_rate"` // DeltaTau per hour
	TotalTime   float64       `yaml:"total_time" json:"total_time"`
}

type StepResponse struct {
	Results  []SimResult   `yaml:"results" json:"results"`
	FinalRho lognum.LogNum `yaml:"final_rho" json:"final_rho"`
}

type AllResponse struct {
	Sigma        int         `yaml:"sigma" json:"sigma"`
	StratType    string      `yaml:"strat_type" json:"strat_type"`
	CompletedCTs string      `yaml:"completed_cts" json:"completed_cts"`
	Results      []AllResult `yaml:"results" json:"results"`
}

func (SingleResponse) ResponseType() string { return QueryTypeSingle }
func (ChainResponse) ResponseType() string  { return QueryTypeChain }
func (StepResponse) ResponseType() string   { return QueryTypeStep }
func (AllResponse) ResponseType() string    { return QueryTypeAll }

package sim

import "github.com/inference-sim/theory-sim/sim/lognum"

// Query type names used in query envelopes.
const (
	QueryTypeSingle = "single"
	QueryTypeChain  = "chain"
	QueryTypeStep   = "step"
	QueryTypeAll    = "all"
)

// Query is one of SingleQuery, ChainQuery, StepQuery or AllQuery.
type Query interface {
	QueryType() string
}

// SingleQuery evaluates one publication from Rho.
type SingleQuery struct {
	Theory    Category       `yaml:"theory" json:"theory" validate:"required"`
	Strat     string         `yaml:"strat" json:"strat" validate:"required"`
	Sigma     int            `yaml:"sigma" json:"sigma" validate:"gte=0"`
	Rho       lognum.LogNum  `yaml:"rho" json:"rho"`
	Cap       *lognum.LogNum `yaml:"cap,omitempty" json:"cap,omitempty"` // nil means no cap
	LastStrat string         `yaml:"last_strat,omitempty" json:"last_strat,omitempty"`
	Settings  Settings       `yaml:"settings" json:"settings"`
}

// ChainQuery chains publications from Rho until Cap.
type ChainQuery struct {
	Theory   Category      `yaml:"theory" json:"theory" validate:"required"`
	Strat    string        `yaml:"strat" json:"strat" validate:"required"`
	Sigma    int           `yaml:"sigma" json:"sigma" validate:"gte=0"`
	Rho      lognum.LogNum `yaml:"rho" json:"rho"`
	Cap      lognum.LogNum `yaml:"cap" json:"cap"`
	HardCap  bool          `yaml:"hard_cap" json:"hard_cap"` // pass Cap to every evaluation
	Settings Settings      `yaml:"settings" json:"settings"`
}

// StepQuery evaluates one publication at Rho, Rho*Step, Rho*Step^2, ... up to Cap.
type StepQuery struct {
	Theory   Category      `yaml:"theory" json:"theory" validate:"required"`
	Strat    string        `yaml:"strat" json:"strat" validate:"required"`
	Sigma    int           `yaml:"sigma" json:"sigma" validate:"gte=0"`
	Rho      lognum.LogNum `yaml:"rho" json:"rho"`
	Cap      lognum.LogNum `yaml:"cap" json:"cap"`
	Step     lognum.LogNum `yaml:"step" json:"step"`
	Settings Settings      `yaml:"settings" json:"settings"`
}

// AllQuery evaluates every theory whose entry in Values exceeds one. Values is
// indexed positionally against Categories().
type AllQuery struct {
	Values     []lognum.LogNum `yaml:"values" json:"values" validate:"required,min=1"`
	Sigma      int             `yaml:"sigma" json:"sigma" validate:"gte=0"`
	VeryActive bool            `yaml:"very_active" json:"very_active"`
	SemiIdle   bool            `yaml:"semi_idle" json:"semi_idle"`
	Settings   Settings        `yaml:"settings" json:"settings"`
}

func (SingleQuery) QueryType() string { return QueryTypeSingle }
func (ChainQuery) QueryType() string  { return QueryTypeChain }
func (StepQuery) QueryType() string   { return QueryTypeStep }
func (AllQuery) QueryType() string    { return QueryTypeAll }

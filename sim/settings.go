package sim

// Strategy profiles for aggregate simulations.
const (
	StratTypeAll    = "all"
	StratTypeActive = "active"
	StratTypeIdle   = "idle"
)

// Completed custom theory handling for aggregate simulations.
const (
	CompletedCTsIn  = "in"
	CompletedCTsEnd = "end"
	CompletedCTsNo  = "no"
)

// Settings is the user settings bag carried by every query. Only Dt, Ddt,
// MFResetDepth and BoughtVarsDelta affect computation; the rest are display
// preferences passed through to responses.
type Settings struct {
	Dt              float64 `yaml:"dt" json:"dt" validate:"gt=0"`                                // initial tick length in game ticks
	Ddt             float64 `yaml:"ddt" json:"ddt" validate:"gte=1"`                             // multiplicative tick growth per tick
	MFResetDepth    int     `yaml:"mf_reset_depth" json:"mf_reset_depth" validate:"gte=0"`       // MF reset search depth
	BoughtVarsDelta float64 `yaml:"bought_vars_delta" json:"bought_vars_delta" validate:"gte=0"` // log10 window below last pub in which purchases are recorded
	Theme           string  `yaml:"theme" json:"theme"`
	SimAllStrats    string  `yaml:"sim_all_strats" json:"sim_all_strats" validate:"omitempty,oneof=all active idle"`
	CompletedCTs    string  `yaml:"completed_cts" json:"completed_cts" validate:"omitempty,oneof=in end no"`
	ShowA23         bool    `yaml:"show_a23" json:"show_a23"`
	ShowUnofficials bool    `yaml:"show_unofficials" json:"show_unofficials"`
}

// DefaultSettings returns the settings used when a query omits them.
func DefaultSettings() Settings {
	return Settings{
		Dt:              1.5,
		Ddt:             1.0001,
		MFResetDepth:    0,
		BoughtVarsDelta: 5,
		Theme:           "dark",
		SimAllStrats:    StratTypeAll,
		CompletedCTs:    CompletedCTsNo,
	}
}

// stratType returns the aggregate profile, defaulting to "all".
func (s Settings) stratType() string {
	if s.SimAllStrats == "" {
		return StratTypeAll
	}
	return s.SimAllStrats
}

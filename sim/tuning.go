package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/theory-sim/sim/lognum"
)

// StratTuning configures when a concrete strategy is a candidate for a
// strategy category.
type StratTuning struct {
	Name       string         `yaml:"name"`
	Categories []string       `yaml:"categories"`        // strategy categories the strategy competes in
	MinRho     *lognum.LogNum `yaml:"min_rho,omitempty"` // inclusive lower bound on the starting rho
	MaxRho     *lognum.LogNum `yaml:"max_rho,omitempty"` // exclusive upper bound on the starting rho
}

// TheoryTuning is one theory's entry in the tuning document.
type TheoryTuning struct {
	TauFactor float64       `yaml:"tau_factor"`
	Strats    []StratTuning `yaml:"strats"`
}

// TuningConfig is the tuning document: strategy categories plus per-theory
// tau factors and strategy lists.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type TuningConfig struct {
	Version         string                    `yaml:"version"`
	StratCategories []string                  `yaml:"strat_categories"`
	Theories        map[Category]TheoryTuning `yaml:"theories"`
}

// LoadTuningConfig reads and strictly parses a YAML tuning document.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tuning config: %w", err)
	}
	return ParseTuningConfig(data)
}

// ParseTuningConfig decodes a YAML tuning document. Unknown fields are errors.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	var cfg TuningConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing tuning config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks tau factors, strategy names and category references.
func (c *TuningConfig) Validate() error {
	known := make(map[string]bool, len(c.StratCategories))
	for _, sc := range c.StratCategories {
		if known[sc] {
			return &ConfigurationError{Reason: fmt.Sprintf("duplicate strategy category %q", sc)}
		}
		known[sc] = true
	}
	for theory, tt := range c.Theories {
		if !theory.Valid() {
			return &ConfigurationError{Reason: fmt.Sprintf("unknown theory %d", int(theory))}
		}
		if tt.TauFactor <= 0 || math.IsNaN(tt.TauFactor) || math.IsInf(tt.TauFactor, 0) {
			return &ConfigurationError{Theory: theory.String(), Reason: fmt.Sprintf("tau_factor must be a positive finite number, got %v", tt.TauFactor)}
		}
		seen := make(map[string]bool, len(tt.Strats))
		for _, st := range tt.Strats {
			if st.Name == "" {
				return &ConfigurationError{Theory: theory.String(), Reason: "strategy with empty name"}
			}
			if seen[st.Name] {
				return &ConfigurationError{Theory: theory.String(), Reason: fmt.Sprintf("duplicate strategy %q", st.Name)}
			}
			seen[st.Name] = true
			if known[st.Name] {
				return &ConfigurationError{Theory: theory.String(), Reason: fmt.Sprintf("strategy %q shadows a strategy category", st.Name)}
			}
			for _, sc := range st.Categories {
				if !known[sc] {
					return &ConfigurationError{Theory: theory.String(), Reason: fmt.Sprintf("strategy %q references unknown category %q", st.Name, sc)}
				}
			}
			if st.MinRho != nil && st.MaxRho != nil && !st.MinRho.Less(*st.MaxRho) {
				return &ConfigurationError{Theory: theory.String(), Reason: fmt.Sprintf("strategy %q has min_rho >= max_rho", st.Name)}
			}
		}
	}
	return nil
}

// TauFactor returns the theory's tau factor. A missing entry is a
// *ConfigurationError; there is no default.
func (c *TuningConfig) TauFactor(theory Category) (float64, error) {
	tt, ok := c.Theories[theory]
	if !ok {
		return 0, &ConfigurationError{Theory: theory.String(), Reason: "no tuning entry"}
	}
	return tt.TauFactor, nil
}

// IsStratCategory reports whether name is a strategy category rather than a
// concrete strategy.
func (c *TuningConfig) IsStratCategory(name string) bool {
	for _, sc := range c.StratCategories {
		if sc == name {
			return true
		}
	}
	return false
}

// TuningRegistry holds the process-wide tuning configuration. It moves once
// from unset to set; a second Set fails.
type TuningRegistry struct {
	mu  sync.RWMutex
	cfg *TuningConfig
}

// NewTuningRegistry returns an unset registry.
func NewTuningRegistry() *TuningRegistry {
	return &TuningRegistry{}
}

// Set installs cfg. It fails with a *ConfigurationError when cfg is nil,
// invalid, or when the registry is already set.
func (r *TuningRegistry) Set(cfg *TuningConfig) error {
	if cfg == nil {
		return &ConfigurationError{Reason: "nil tuning config"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg != nil {
		return &ConfigurationError{Reason: "tuning config already set"}
	}
	r.cfg = cfg
	return nil
}

// Get returns the installed configuration or a *ConfigurationError when unset.
func (r *TuningRegistry) Get() (*TuningConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cfg == nil {
		return nil, &ConfigurationError{Reason: "tuning config not set"}
	}
	return r.cfg, nil
}

// IsSet reports whether Set has succeeded.
func (r *TuningRegistry) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg != nil
}

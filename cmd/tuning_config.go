package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/theory-sim/sim"
)

// loadTuning parses the tuning document at path with strict field checking
// and installs it in a fresh registry.
func loadTuning(path string) (*sim.TuningRegistry, error) {
	cfg, err := sim.LoadTuningConfig(path)
	if err != nil {
		return nil, err
	}
	reg := sim.NewTuningRegistry()
	if err := reg.Set(cfg); err != nil {
		return nil, err
	}
	logrus.Debugf("Loaded tuning %q from %s: %d theories", cfg.Version, path, len(cfg.Theories))
	return reg, nil
}

// theoriesCmd lists the theories the tuning document configures.
var theoriesCmd = &cobra.Command{
	Use:   "theories",
	Short: "List configured theories, tau factors and strategies",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadTuning(tuningPath)
		if err != nil {
			logrus.Fatalf("Failed to load tuning: %v", err)
		}
		cfg, err := reg.Get()
		if err != nil {
			logrus.Fatalf("Failed to read tuning: %v", err)
		}
		writeTheories(os.Stdout, cfg)
	},
}

func writeTheories(w io.Writer, cfg *sim.TuningConfig) {
	theories := make([]sim.Category, 0, len(cfg.Theories))
	for c := range cfg.Theories {
		theories = append(theories, c)
	}
	sort.Slice(theories, func(i, j int) bool { return theories[i] < theories[j] })
	for _, c := range theories {
		t := cfg.Theories[c]
		names := make([]string, len(t.Strats))
		for i, s := range t.Strats {
			names[i] = s.Name
		}
		marker := ""
		if c.Unofficial() {
			marker = " (unofficial)"
		}
		fmt.Fprintf(w, "%-5s tau_factor=%-4g strats=%v%s\n", c, t.TauFactor, names, marker)
	}
}

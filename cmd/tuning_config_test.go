package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/theory-sim/sim"
	"github.com/inference-sim/theory-sim/sim/lognum"
)

func TestLoadTuning_RepositoryDocumentCoversEveryTheory(t *testing.T) {
	path := "tuning.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "../tuning.yaml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Skip("tuning.yaml not found, skipping integration test")
		}
	}

	// GIVEN the shipped tuning document
	reg, err := loadTuning(path)
	require.NoError(t, err)
	cfg, err := reg.Get()
	require.NoError(t, err)

	// THEN every theory has a tau factor
	for _, c := range sim.Categories() {
		tau, err := cfg.TauFactor(c)
		require.NoError(t, err, c.String())
		assert.Greater(t, tau, 0.0, c.String())
	}
	tau, _ := cfg.TauFactor(sim.CSR2)
	assert.Equal(t, 0.1, tau)

	// AND every strategy category resolves to at least one T1 strategy at 1e100
	for _, category := range cfg.StratCategories {
		strats, err := cfg.StrategiesFor(sim.T1, category, lognum.MustParse("1e100"))
		require.NoError(t, err)
		assert.NotEmpty(t, strats, category)
	}
}

func TestLoadTuning_RejectsTypos(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: x\nstrat_categories: []\ntheories:\n  T1:\n    tau_factr: 1\n"), 0o644))

	_, err := loadTuning(path)
	assert.Error(t, err)
}

func TestWriteTheories_MarksUnofficial(t *testing.T) {
	cfg, err := sim.ParseTuningConfig([]byte(`
version: test
strat_categories: ["Best Idle"]
theories:
  TC:
    tau_factor: 1
    strats: []
  T1:
    tau_factor: 1
    strats:
      - name: T1C34
        categories: ["Best Idle"]
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	writeTheories(&buf, cfg)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "T1"), lines[0])
	assert.Contains(t, lines[0], "[T1C34]")
	assert.Contains(t, lines[1], "(unofficial)")
}

func TestValuesFromFlags_PlacesRhoByTheory(t *testing.T) {
	vals, err := valuesFromFlags(map[string]string{"T1": "1e100", "ef": "1e50"})
	require.NoError(t, err)
	require.Len(t, vals, len(sim.Categories()))
	assert.Equal(t, 100.0, vals[sim.T1.Index()].Log())
	assert.Equal(t, 50.0, vals[sim.EF.Index()].Log())
	assert.True(t, vals[sim.T2.Index()].IsZero())

	_, err = valuesFromFlags(map[string]string{"T0": "1e5"})
	assert.Error(t, err)
	_, err = valuesFromFlags(map[string]string{"T1": "lots"})
	assert.Error(t, err)
}

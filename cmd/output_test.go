package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/theory-sim/sim"
	"github.com/inference-sim/theory-sim/sim/lognum"
)

func sampleResponse() sim.SingleResponse {
	res := sim.DefaultResult()
	res.Theory = sim.T1
	res.LastPub = lognum.MustParse("1e400")
	res.PubRho = lognum.MustParse("1e412")
	res.Strat = "T1C34"
	res.TauH = 1.5
	return sim.SingleResponse{Result: res}
}

func TestWriteOutput_YAMLKeepsExtendedRange(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, sampleResponse(), "yaml"))

	var back struct {
		Result struct {
			Theory sim.Category  `yaml:"theory"`
			PubRho lognum.LogNum `yaml:"pub_rho"`
			Strat  string        `yaml:"strat"`
		} `yaml:"result"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sim.T1, back.Result.Theory)
	assert.Equal(t, 412.0, back.Result.PubRho.Log())
	assert.Equal(t, "T1C34", back.Result.Strat)
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, []BatchResult{{File: "q.yaml", Type: sim.QueryTypeSingle, Response: sampleResponse()}}, "json"))

	var back []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 1)
	assert.Equal(t, "q.yaml", back[0]["file"])
	result := back[0]["response"].(map[string]any)["result"].(map[string]any)
	assert.Equal(t, "T1", result["theory"])
	assert.Equal(t, 1.5, result["tau_h"])
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeOutput(&buf, sampleResponse(), "xml"))
	assert.Zero(t, buf.Len())
}

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/theory-sim/sim"
)

// queryEnvelope is the on-disk form of a query: {type: single, data: {...}}.
// JSON documents decode through the same path.
type queryEnvelope struct {
	Type string    `yaml:"type"`
	Data yaml.Node `yaml:"data"`
}

// LoadQuery reads and decodes the query document at path.
func LoadQuery(path string) (sim.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query %s: %w", path, err)
	}
	q, err := DecodeQuery(data)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	return q, nil
}

// DecodeQuery decodes a query envelope. Unknown fields are rejected in both
// the envelope and its data, and omitted settings keep their defaults.
func DecodeQuery(data []byte) (sim.Query, error) {
	var env queryEnvelope
	if err := decodeStrict(data, &env); err != nil {
		return nil, fmt.Errorf("parsing query envelope: %w", err)
	}
	if env.Data.Kind == 0 {
		return nil, fmt.Errorf("query envelope has no data")
	}
	if err := checkRequiredKeys(env.Type, &env.Data); err != nil {
		return nil, err
	}
	body, err := yaml.Marshal(&env.Data)
	if err != nil {
		return nil, fmt.Errorf("re-encoding query data: %w", err)
	}

	switch env.Type {
	case sim.QueryTypeSingle:
		return decodeQuery(body, sim.SingleQuery{Settings: sim.DefaultSettings()})
	case sim.QueryTypeChain:
		return decodeQuery(body, sim.ChainQuery{Settings: sim.DefaultSettings()})
	case sim.QueryTypeStep:
		return decodeQuery(body, sim.StepQuery{Settings: sim.DefaultSettings()})
	case sim.QueryTypeAll:
		return decodeQuery(body, sim.AllQuery{Settings: sim.DefaultSettings()})
	default:
		return nil, fmt.Errorf("unknown query type %q (expected single, chain, step or all)", env.Type)
	}
}

// requiredKeys lists the data keys each query type must set. LogNum's zero
// value is one, so an omitted rho or cap would otherwise decode silently.
var requiredKeys = map[string][]string{
	sim.QueryTypeSingle: {"theory", "strat", "rho"},
	sim.QueryTypeChain:  {"theory", "strat", "rho", "cap"},
	sim.QueryTypeStep:   {"theory", "strat", "rho", "cap", "step"},
	sim.QueryTypeAll:    {"values"},
}

// checkRequiredKeys reports the first required key data leaves out. Unknown
// query types pass through to the type switch.
func checkRequiredKeys(queryType string, data *yaml.Node) error {
	required, ok := requiredKeys[queryType]
	if !ok {
		return nil
	}
	if data.Kind != yaml.MappingNode {
		return fmt.Errorf("%s query data must be a mapping", queryType)
	}
	present := make(map[string]bool, len(data.Content)/2)
	for i := 0; i+1 < len(data.Content); i += 2 {
		if v := data.Content[i+1]; v.Tag != "!!null" {
			present[data.Content[i].Value] = true
		}
	}
	for _, key := range required {
		if !present[key] {
			return fmt.Errorf("%s query is missing required field %q", queryType, key)
		}
	}
	return nil
}

// decodeQuery decodes body over q, so fields body omits keep q's values.
func decodeQuery[Q sim.Query](body []byte, q Q) (sim.Query, error) {
	if err := decodeStrict(body, &q); err != nil {
		return nil, fmt.Errorf("parsing %s query: %w", q.QueryType(), err)
	}
	return q, nil
}

func decodeStrict(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty document")
		}
		return err
	}
	return nil
}

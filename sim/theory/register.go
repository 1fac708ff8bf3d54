// register.go wires the sim/theory engine into the sim package's registration
// variable (NewEvaluatorFunc). This init() runs when any package imports
// sim/theory, breaking the import cycle between sim/ (interface owner) and
// sim/theory/ (implementation). Test code in package sim uses
// theory_import_test.go for the blank import.
package theory

import "github.com/inference-sim/theory-sim/sim"

func init() {
	sim.NewEvaluatorFunc = func(tuning *sim.TuningRegistry) sim.Evaluator {
		return NewEngine(tuning)
	}
}

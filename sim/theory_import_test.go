package sim_test

// Blank import triggers sim/theory's init(), which registers NewEvaluatorFunc.
import _ "github.com/inference-sim/theory-sim/sim/theory"

package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelRuns captures every driver iteration.
	TraceLevelRuns TraceLevel = "runs"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone: true,
	TraceLevelRuns: true,
	"":             true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// RunTrace collects run records during chained and fixed-step simulations.
type RunTrace struct {
	Level TraceLevel
	Runs  []RunRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(level TraceLevel) *RunTrace {
	return &RunTrace{
		Level: level,
		Runs:  make([]RunRecord, 0),
	}
}

// Enabled reports whether records are kept. A nil trace is disabled.
func (rt *RunTrace) Enabled() bool {
	return rt != nil && rt.Level == TraceLevelRuns
}

// Record appends a run record. It is a no-op when the trace is disabled.
func (rt *RunTrace) Record(record RunRecord) {
	if !rt.Enabled() {
		return
	}
	rt.Runs = append(rt.Runs, record)
}

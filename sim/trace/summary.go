package trace

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	Steps     int
	TotalTime float64
	MeanTime  float64
	MinGain   float64        // smallest per-step log10 gain
	MaxGain   float64        // largest per-step log10 gain
	ByStrat   map[string]int // runs per strategy
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{
		ByStrat: make(map[string]int),
	}
	if rt == nil || len(rt.Runs) == 0 {
		return summary
	}

	summary.Steps = len(rt.Runs)
	summary.MinGain = math.Inf(1)
	summary.MaxGain = math.Inf(-1)
	for _, r := range rt.Runs {
		summary.TotalTime += r.Time
		summary.ByStrat[r.Strat]++
		g := r.Gain()
		summary.MinGain = math.Min(summary.MinGain, g)
		summary.MaxGain = math.Max(summary.MaxGain, g)
	}
	summary.MeanTime = summary.TotalTime / float64(summary.Steps)

	return summary
}

// StratCounts renders ByStrat as "name=count" pairs sorted by name, or "-"
// when there are none.
func (s *TraceSummary) StratCounts() string {
	if s == nil || len(s.ByStrat) == 0 {
		return "-"
	}
	names := make([]string, 0, len(s.ByStrat))
	for name := range s.ByStrat {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, s.ByStrat[name])
	}
	return strings.Join(parts, " ")
}

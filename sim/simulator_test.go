package sim

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/theory-sim/sim/internal/testutil"
	"github.com/inference-sim/theory-sim/sim/lognum"
	"github.com/inference-sim/theory-sim/sim/trace"
)

func chainQuery(rho, cap string) ChainQuery {
	return ChainQuery{
		Theory:   T1,
		Strat:    "T1",
		Sigma:    60,
		Rho:      lognum.MustParse(rho),
		Cap:      lognum.MustParse(cap),
		Settings: DefaultSettings(),
	}
}

func TestChain_TenfoldSteps_TerminatesInSixSteps(t *testing.T) {
	// GIVEN an evaluation that multiplies rho by exactly 10 and tau factor 1
	s := NewSimulator(multiplyingEvaluator(10, 3600), testTuning(t))

	// WHEN chaining from 1 to 1e6
	resp, err := s.Chain(chainQuery("1", "1e6"))

	// THEN exactly six publications ran and the tail rate is 10^6
	require.NoError(t, err)
	assert.Len(t, resp.Results, 6)
	testutil.AssertLogNumEqual(t, "DeltaTau", lognum.FromLog(6), resp.DeltaTau, 1e-12)
	assert.Equal(t, 6*3600.0, resp.TotalTime)
	testutil.AssertLogNumEqual(t, "AverageRate", lognum.FromLog(6).Div(lognum.FromInt(6)), resp.AverageRate, 1e-12)

	// AND each publication starts where the previous one ended
	for i := 1; i < len(resp.Results); i++ {
		assert.True(t, resp.Results[i].LastPub.Equal(resp.Results[i-1].PubRho), "step %d", i)
	}
}

func TestChain_TauFactorScalesDeltaTau(t *testing.T) {
	// GIVEN EF with tau factor 0.4
	s := NewSimulator(multiplyingEvaluator(100, 60), testTuning(t))
	q := chainQuery("1e10", "1e20")
	q.Theory = EF

	// WHEN chaining across ten orders of magnitude
	resp, err := s.Chain(q)

	// THEN DeltaTau is (1e10)^0.4
	require.NoError(t, err)
	assert.Len(t, resp.Results, 5)
	testutil.AssertLogNumEqual(t, "DeltaTau", lognum.FromLog(4), resp.DeltaTau, 1e-9)
}

func TestChain_StartAtOrAboveCap_NoResults(t *testing.T) {
	s := NewSimulator(multiplyingEvaluator(10, 60), testTuning(t))

	resp, err := s.Chain(chainQuery("1e7", "1e6"))

	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.True(t, resp.DeltaTau.Equal(lognum.One()))
	assert.True(t, resp.AverageRate.IsZero(), "zero elapsed time gives zero rate")
}

func TestChain_IdentityEvaluation_IsNonConvergent(t *testing.T) {
	// GIVEN an evaluation that returns its input unchanged
	identity := EvaluatorFunc(func(q SingleQuery) (SimResult, error) {
		return SimResult{Theory: q.Theory, LastPub: q.Rho, PubRho: q.Rho, Strat: q.Strat}, nil
	})
	s := NewSimulator(identity, testTuning(t))

	// WHEN chaining
	_, err := s.Chain(chainQuery("1", "1e6"))

	// THEN the driver fails instead of looping
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonConvergent))
	var nce *NonConvergentError
	require.True(t, errors.As(err, &nce))
	assert.Equal(t, 0, nce.Iteration)
	assert.Equal(t, "T1", nce.Theory)
}

func TestChain_IterationBound(t *testing.T) {
	// GIVEN a tiny but positive gain per step and a low iteration bound
	s := NewSimulator(multiplyingEvaluator(1.0001, 1), testTuning(t), WithMaxIterations(50))

	// WHEN chaining across many orders of magnitude
	_, err := s.Chain(chainQuery("1", "1e100"))

	// THEN the bound trips
	var nce *NonConvergentError
	require.True(t, errors.As(err, &nce))
	assert.Equal(t, 50, nce.Iteration)
}

func TestChain_MissingTauFactor_IsConfigurationError(t *testing.T) {
	s := NewSimulator(multiplyingEvaluator(10, 60), testTuning(t))
	q := chainQuery("1", "1e6")
	q.Theory = T5

	_, err := s.Chain(q)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "T5", ce.Theory)
}

func TestChain_HardCapAndLastStratForwarded(t *testing.T) {
	// GIVEN an evaluator that records its queries
	ev := &strategyTauEvaluator{tauH: map[string]float64{"T1": 1}}
	s := NewSimulator(ev, testTuning(t))
	q := chainQuery("1", "1e3")
	q.HardCap = true

	// WHEN chaining
	_, err := s.Chain(q)
	require.NoError(t, err)

	// THEN every evaluation sees the cap and the previous strategy's first word
	require.Len(t, ev.calls, 3)
	assert.Equal(t, "", ev.calls[0].LastStrat)
	assert.Equal(t, "T1", ev.calls[1].LastStrat)
	for _, c := range ev.calls {
		require.NotNil(t, c.Cap)
		assert.True(t, c.Cap.Equal(q.Cap))
	}
}

func TestChain_EvaluatorErrorPropagates(t *testing.T) {
	failing := EvaluatorFunc(func(SingleQuery) (SimResult, error) {
		return SimResult{}, ErrStrategyNotImplemented
	})
	s := NewSimulator(failing, testTuning(t))

	_, err := s.Chain(chainQuery("1", "1e6"))

	assert.True(t, errors.Is(err, ErrStrategyNotImplemented))
}

func TestChain_RecordsTrace(t *testing.T) {
	rt := trace.NewRunTrace(trace.TraceLevelRuns)
	s := NewSimulator(multiplyingEvaluator(10, 100), testTuning(t), WithTrace(rt))

	_, err := s.Chain(chainQuery("1", "1e4"))
	require.NoError(t, err)

	summary := trace.Summarize(rt)
	assert.Equal(t, 4, summary.Steps)
	assert.Equal(t, 400.0, summary.TotalTime)
	assert.InDelta(t, 1, summary.MinGain, 1e-12)
	assert.InDelta(t, 1, summary.MaxGain, 1e-12)
}

func TestStep_DoublingReachesCapWithinTolerance(t *testing.T) {
	// GIVEN step 2 from 1 to cap 100, with an evaluation that ignores its input
	flat := EvaluatorFunc(func(q SingleQuery) (SimResult, error) {
		return SimResult{Theory: q.Theory, LastPub: q.Rho, PubRho: lognum.FromFloat(5), Strat: q.Strat}, nil
	})
	s := NewSimulator(flat, testTuning(t))

	// WHEN stepping
	resp, err := s.Step(StepQuery{
		Theory:   T1,
		Strat:    "T1",
		Rho:      lognum.One(),
		Cap:      lognum.FromFloat(100),
		Step:     lognum.FromFloat(2),
		Settings: DefaultSettings(),
	})

	// THEN rho advanced by the step alone and stopped within one step past the cap
	require.NoError(t, err)
	assert.Len(t, resp.Results, 7, "1, 2, 4, ..., 64")
	assert.True(t, resp.FinalRho.GreaterEq(lognum.FromFloat(99.9)))
	assert.True(t, resp.FinalRho.LessEq(lognum.FromFloat(100.1*2)))
	testutil.AssertLogNumEqual(t, "last start", lognum.FromFloat(64), resp.Results[6].LastPub, 1e-12)
}

func TestStep_CapWithinTolerance_IsEvaluated(t *testing.T) {
	// GIVEN a step landing exactly on the cap
	s := NewSimulator(multiplyingEvaluator(2, 60), testTuning(t))

	resp, err := s.Step(StepQuery{
		Theory:   T1,
		Strat:    "T1",
		Rho:      lognum.FromFloat(10),
		Cap:      lognum.FromFloat(1000),
		Step:     lognum.FromFloat(10),
		Settings: DefaultSettings(),
	})

	// THEN the cap itself is evaluated
	require.NoError(t, err)
	assert.Len(t, resp.Results, 3)
}

func TestStep_NonExpandingStep_IsNonConvergent(t *testing.T) {
	s := NewSimulator(multiplyingEvaluator(2, 60), testTuning(t))
	for _, step := range []float64{1, 0.5} {
		_, err := s.Step(StepQuery{
			Theory:   T1,
			Strat:    "T1",
			Rho:      lognum.One(),
			Cap:      lognum.FromFloat(100),
			Step:     lognum.FromFloat(step),
			Settings: DefaultSettings(),
		})
		assert.True(t, errors.Is(err, ErrNonConvergent), "step %v", step)
	}
}

func TestSingle_StrategyCategory_PicksHighestTauH(t *testing.T) {
	// GIVEN three strategies where Slow has the best tau/h
	ev := &strategyTauEvaluator{tauH: map[string]float64{"Fast": 1, "Slow": 3, "Late": 9}}
	s := NewSimulator(ev, testTuning(t))

	// WHEN evaluating Best Overall below Late's min_rho
	resp, err := s.Single(SingleQuery{Theory: T1, Strat: BestOverall, Rho: lognum.FromLog(20), Settings: DefaultSettings()})

	// THEN Late was not a candidate and Slow wins
	require.NoError(t, err)
	assert.Equal(t, "Slow annotated", resp.Result.Strat)
	assert.Len(t, ev.calls, 2)

	// WHEN rho passes Late's min_rho
	resp, err = s.Single(SingleQuery{Theory: T1, Strat: BestOverall, Rho: lognum.FromLog(60), Settings: DefaultSettings()})
	require.NoError(t, err)
	assert.Equal(t, "Late annotated", resp.Result.Strat)
}

func TestSingle_TiesKeepEarliestStrategy(t *testing.T) {
	ev := &strategyTauEvaluator{tauH: map[string]float64{"Fast": 2, "Slow": 2}}
	s := NewSimulator(ev, testTuning(t))

	resp, err := s.Single(SingleQuery{Theory: T1, Strat: BestActive, Rho: lognum.FromLog(5), Settings: DefaultSettings()})

	require.NoError(t, err)
	assert.Equal(t, "Fast annotated", resp.Result.Strat)
}

func TestSingle_NegativeTauH_StillReturnsStrategy(t *testing.T) {
	ev := &strategyTauEvaluator{tauH: map[string]float64{"Fast": -2}}
	s := NewSimulator(ev, testTuning(t))

	resp, err := s.Single(SingleQuery{Theory: T1, Strat: "Fast", Rho: lognum.FromLog(5), Settings: DefaultSettings()})

	require.NoError(t, err)
	assert.Equal(t, "Fast annotated", resp.Result.Strat)
}

func TestSingle_EmptyCategory_ReturnsDefaultResult(t *testing.T) {
	ev := &strategyTauEvaluator{}
	s := NewSimulator(ev, testTuning(t))

	resp, err := s.Single(SingleQuery{Theory: EF, Strat: BestIdle, Sigma: 30, Rho: lognum.FromLog(5), Settings: DefaultSettings()})

	require.NoError(t, err)
	assert.Equal(t, UndefinedStrat, resp.Result.Strat)
	assert.Equal(t, EF, resp.Result.Theory)
	assert.Empty(t, ev.calls)
}

func TestSingle_InvalidQueries(t *testing.T) {
	s := NewSimulator(multiplyingEvaluator(10, 60), testTuning(t))
	tests := []struct {
		name string
		q    SingleQuery
	}{
		{"missing theory", SingleQuery{Strat: "T1", Rho: lognum.One(), Settings: DefaultSettings()}},
		{"missing strat", SingleQuery{Theory: T1, Rho: lognum.One(), Settings: DefaultSettings()}},
		{"zero rho", SingleQuery{Theory: T1, Strat: "T1", Rho: lognum.Zero(), Settings: DefaultSettings()}},
		{"negative sigma", SingleQuery{Theory: T1, Strat: "T1", Sigma: -1, Rho: lognum.One(), Settings: DefaultSettings()}},
		{"zero dt", SingleQuery{Theory: T1, Strat: "T1", Rho: lognum.One()}},
		{"out of range theory", SingleQuery{Theory: Category(40), Strat: "T1", Rho: lognum.One(), Settings: DefaultSettings()}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Single(tc.q)
			require.Error(t, err)
			var ve ValidationErrors
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestSingle_UnsetTuning_IsConfigurationError(t *testing.T) {
	s := NewSimulator(multiplyingEvaluator(10, 60), NewTuningRegistry())

	_, err := s.Single(SingleQuery{Theory: T1, Strat: "T1", Rho: lognum.One(), Settings: DefaultSettings()})

	assert.True(t, errors.Is(err, ErrConfiguration))
}

func allQuery(values ...string) AllQuery {
	q := AllQuery{Sigma: 70, Settings: DefaultSettings()}
	for _, v := range values {
		q.Values = append(q.Values, lognum.MustParse(v))
	}
	return q
}

func TestAll_SkipsValuesAtOrBelowOne_PreservesOrder(t *testing.T) {
	// GIVEN values for T1, T2 and T3 where T2 has made no progress
	ev := &strategyTauEvaluator{tauH: map[string]float64{"Fast": 4, "Slow": 2}}
	s := NewSimulator(ev, testTuning(t))

	// WHEN simulating all
	resp, err := s.All(allQuery("1e10", "1", "0"))

	// THEN only T1 is reported
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, T1, resp.Results[0].Theory)
	assert.Equal(t, 70, resp.Sigma)
	assert.Equal(t, StratTypeAll, resp.StratType)
}

func TestAll_RatioIsActiveOverIdle(t *testing.T) {
	ev := &strategyTauEvaluator{tauH: map[string]float64{"Fast": 4, "Slow": 2}}
	s := NewSimulator(ev, testTuning(t))

	resp, err := s.All(allQuery("1e10", "1e20"))

	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	got := []Category{resp.Results[0].Theory, resp.Results[1].Theory}
	if diff := cmp.Diff([]Category{T1, T2}, got); diff != "" {
		t.Errorf("theory order mismatch (-want +got):\n%s", diff)
	}
	for _, r := range resp.Results {
		assert.Equal(t, "Fast annotated", r.Active.Strat)
		assert.Equal(t, "Slow annotated", r.Idle.Strat)
		assert.InDelta(t, 2, r.Ratio, 1e-12)
	}
	assert.True(t, resp.Results[1].LastPub.Equal(lognum.FromLog(20)))
}

func TestAll_ProfilesFollowSettings(t *testing.T) {
	ev := &strategyTauEvaluator{tauH: map[string]float64{"Fast": 4, "Slow": 2}}
	s := NewSimulator(ev, testTuning(t))

	// GIVEN active-only settings with very-active profile
	q := allQuery("1e10")
	q.VeryActive = true
	q.Settings.SimAllStrats = StratTypeActive

	resp, err := s.All(q)

	// THEN only the active profile ran, against Best Overall, and ratio is 1
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, UndefinedStrat, resp.Results[0].Idle.Strat)
	assert.Equal(t, 1.0, resp.Results[0].Ratio)
	for _, c := range ev.calls {
		assert.NotEqual(t, "Late", c.Strat, "Late is gated by min_rho")
	}

	// GIVEN idle-only settings with the semi-idle profile
	ev.calls = nil
	q = allQuery("1e10")
	q.SemiIdle = true
	q.Settings.SimAllStrats = StratTypeIdle
	resp, err = s.All(q)
	require.NoError(t, err)
	assert.Equal(t, UndefinedStrat, resp.Results[0].Active.Strat)
	assert.Equal(t, "Slow annotated", resp.Results[0].Idle.Strat)
	require.Len(t, ev.calls, 1)
}

func TestAll_ValuesPastEnumerationIgnored(t *testing.T) {
	ev := &strategyTauEvaluator{tauH: map[string]float64{"Fast": 4, "Slow": 2}}
	s := NewSimulator(ev, testTuning(t))
	values := make([]string, len(Categories())+3)
	for i := range values {
		values[i] = "0"
	}
	values[0] = "1e5"
	values[len(values)-1] = "1e5"

	resp, err := s.All(allQuery(values...))

	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestSimulate_DispatchesByQueryType(t *testing.T) {
	s := NewSimulator(multiplyingEvaluator(10, 60), testTuning(t))
	tests := []struct {
		q    Query
		want string
	}{
		{SingleQuery{Theory: T1, Strat: "T1", Rho: lognum.One(), Settings: DefaultSettings()}, QueryTypeSingle},
		{chainQuery("1", "100"), QueryTypeChain},
		{StepQuery{Theory: T1, Strat: "T1", Rho: lognum.One(), Cap: lognum.FromFloat(10), Step: lognum.FromFloat(10), Settings: DefaultSettings()}, QueryTypeStep},
		{allQuery("1e3"), QueryTypeAll},
	}
	for _, tc := range tests {
		resp, err := s.Simulate(tc.q)
		require.NoError(t, err, tc.want)
		assert.Equal(t, tc.want, resp.ResponseType())
	}
}

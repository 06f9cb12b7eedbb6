package backtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etfquant/internal/indicators"
)

// ============================================================================
// FIXTURES
// ============================================================================

// thresholdFactory builds a price-level threshold rule: buy when the close
// drops below "buy", sell when it rises above "sell". Cheap to simulate and
// sensitive to the parameters, which is all these tests need.
func thresholdFactory(closes []float64) RuleFactory {
	return func(ps ParameterSet) (SignalRule, error) {
		return &ThresholdRule{
			Values: indicators.FromFloats(closes),
			Buy:    ps.Float("buy"),
			Sell:   ps.Float("sell"),
		}, nil
	}
}

func buyBelowSell(ps ParameterSet) error {
	if ps.Float("buy") >= ps.Float("sell") {
		return fmt.Errorf("buy must be below sell")
	}
	return nil
}

func optSeries(t *testing.T) (PriceSeries, []float64) {
	t.Helper()
	closes := []float64{10, 8, 12, 7, 13, 9, 14, 8, 15, 11}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]PricePoint, len(closes))
	for i, c := range closes {
		points[i] = PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	s, err := NewPriceSeries(points)
	require.NoError(t, err)
	return s, closes
}

func newTestOptimizer(t *testing.T, cfg OptimizerConfig) *Optimizer {
	t.Helper()
	prices, closes := optSeries(t)
	if cfg.Factory == nil {
		cfg.Factory = thresholdFactory(closes)
	}
	if cfg.Sim.InitialCapital == 0 {
		cfg.Sim = SimConfig{InitialCapital: 10000, Lot: Fractional}
	}
	opt, err := NewOptimizer(cfg, prices, zerolog.Nop())
	require.NoError(t, err)
	return opt
}

var testParams = []Parameter{
	{Name: "buy", Type: ParameterFloat, Min: 8, Max: 10, Step: 1},
	{Name: "sell", Type: ParameterFloat, Min: 11, Max: 13, Step: 1},
}

// ============================================================================
// PARAMETER ENUMERATION
// ============================================================================

func TestParameterValuesInclusive(t *testing.T) {
	p := Parameter{Name: "w", Type: ParameterInt, Min: 5, Max: 15, Step: 5}
	assert.Equal(t, []interface{}{5, 10, 15}, p.values())
}

func TestParameterValuesFloatStep(t *testing.T) {
	p := Parameter{Name: "k", Type: ParameterFloat, Min: 0, Max: 1, Step: 0.25}
	vals := p.values()
	require.Len(t, vals, 5)
	assert.InDelta(t, 1.0, vals[4].(float64), 1e-9)
}

func TestParameterSetGetters(t *testing.T) {
	ps := ParameterSet{"a": 3, "b": 2.5, "c": 4.0}

	assert.Equal(t, 3, ps.Int("a"))
	assert.Equal(t, 3.0, ps.Float("a"))
	assert.Equal(t, 2.5, ps.Float("b"))
	assert.Equal(t, 4, ps.Int("c"))
	assert.Equal(t, 0, ps.Int("missing"))
}

func TestParameterSetClone(t *testing.T) {
	ps := ParameterSet{"a": 1}
	clone := ps.Clone()
	clone["a"] = 2

	assert.Equal(t, 1, ps.Int("a"))
}

// ============================================================================
// GRID SEARCH
// ============================================================================

func TestGridSearchEnumeratesFullProduct(t *testing.T) {
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy: "test",
		Params:   testParams,
		Workers:  2,
	})

	summary, err := opt.GridSearch(context.Background())
	require.NoError(t, err)

	// 3 buy values x 3 sell values, no validator.
	assert.Equal(t, 9, summary.Evaluated)
	assert.Equal(t, "grid", summary.Method)
	assert.NotEmpty(t, summary.RunID)
	require.NotNil(t, summary.BestByTotalReturn)
	require.NotNil(t, summary.BestByAnnual)
	require.NotNil(t, summary.BestByRiskAdj)
}

func TestGridSearchFiltersInvalidCandidates(t *testing.T) {
	params := []Parameter{
		{Name: "buy", Type: ParameterFloat, Min: 8, Max: 12, Step: 2},
		{Name: "sell", Type: ParameterFloat, Min: 8, Max: 12, Step: 2},
	}
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy: "test",
		Params:   params,
		Validate: buyBelowSell,
	})

	summary, err := opt.GridSearch(context.Background())
	require.NoError(t, err)

	// Of the 9 pairs only buy<sell survive: (8,10),(8,12),(10,12).
	assert.Equal(t, 3, summary.Evaluated)
	for _, r := range summary.Top {
		assert.Less(t, r.Params.Float("buy"), r.Params.Float("sell"))
	}
}

func TestGridSearchTopKOrdering(t *testing.T) {
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy: "test",
		Params:   testParams,
		Metric:   MetricTotalReturn,
		TopK:     4,
	})

	summary, err := opt.GridSearch(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Top, 4)
	for i := 1; i < len(summary.Top); i++ {
		prev := MetricTotalReturn.Score(summary.Top[i-1].Stats)
		cur := MetricTotalReturn.Score(summary.Top[i].Stats)
		assert.GreaterOrEqual(t, prev, cur)
	}
	// The overall best leads the table.
	assert.Equal(t, summary.BestByTotalReturn.Stats, summary.Top[0].Stats)
}

func TestGridSearchDeterministic(t *testing.T) {
	run := func() *Summary {
		opt := newTestOptimizer(t, OptimizerConfig{
			Strategy: "test",
			Params:   testParams,
			Workers:  4,
		})
		s, err := opt.GridSearch(context.Background())
		require.NoError(t, err)
		return s
	}

	a, b := run(), run()
	require.Equal(t, len(a.Top), len(b.Top))
	for i := range a.Top {
		assert.Equal(t, a.Top[i].Params, b.Top[i].Params, "rank %d", i)
		assert.Equal(t, a.Top[i].Stats, b.Top[i].Stats, "rank %d", i)
	}
}

func TestGridSearchBaseline(t *testing.T) {
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy: "test",
		Params:   testParams,
		Baseline: ParameterSet{"buy": 9.0, "sell": 12.0},
	})

	summary, err := opt.GridSearch(context.Background())
	require.NoError(t, err)

	require.NotNil(t, summary.Baseline)
	assert.Equal(t, 9.0, summary.Baseline.Params.Float("buy"))
	// The baseline does not count against the evaluation tally.
	assert.Equal(t, 9, summary.Evaluated)
}

func TestBestResultsCarryDetailTopSlim(t *testing.T) {
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy: "test",
		Params:   testParams,
		Baseline: ParameterSet{"buy": 9.0, "sell": 12.0},
	})

	summary, err := opt.GridSearch(context.Background())
	require.NoError(t, err)

	// The baseline and each best-by-metric result embed the equity curve and
	// trade log; the ranked table stays stats-only.
	require.NotNil(t, summary.Baseline)
	assert.Len(t, summary.Baseline.Daily, 10)
	assert.Len(t, summary.BestByTotalReturn.Daily, 10)
	assert.Len(t, summary.BestByAnnual.Daily, 10)
	assert.Len(t, summary.BestByRiskAdj.Daily, 10)
	for _, r := range summary.Top {
		assert.Empty(t, r.Daily)
		assert.Empty(t, r.Trades)
	}
}

// ============================================================================
// RANDOM SEARCH
// ============================================================================

func TestRandomSearchRespectsBudget(t *testing.T) {
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy:   "test",
		Params:     testParams,
		Iterations: 50,
		Seed:       7,
	})

	summary, err := opt.RandomSearch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "random", summary.Method)
	assert.LessOrEqual(t, summary.Evaluated, 50)
	assert.Positive(t, summary.Evaluated)
}

func TestRandomSearchSeedReproducible(t *testing.T) {
	run := func() *Summary {
		opt := newTestOptimizer(t, OptimizerConfig{
			Strategy:   "test",
			Params:     testParams,
			Iterations: 40,
			Seed:       99,
			Validate:   buyBelowSell,
		})
		s, err := opt.RandomSearch(context.Background())
		require.NoError(t, err)
		return s
	}

	a, b := run(), run()
	assert.Equal(t, a.Evaluated, b.Evaluated)
	require.NotEmpty(t, a.Top)
	assert.Equal(t, a.Top[0].Params, b.Top[0].Params)
}

func TestRandomSearchInvalidSamplesConsumeBudget(t *testing.T) {
	// An impossible validator keeps every sample out, leaving nothing
	// evaluated but not erroring.
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy:   "test",
		Params:     testParams,
		Iterations: 10,
		Validate:   func(ParameterSet) error { return fmt.Errorf("no") },
	})

	summary, err := opt.RandomSearch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Evaluated)
	assert.Empty(t, summary.Top)
}

// ============================================================================
// CONFIG VALIDATION
// ============================================================================

func TestNewOptimizerRequiresFactory(t *testing.T) {
	prices, _ := optSeries(t)
	_, err := NewOptimizer(OptimizerConfig{Params: testParams}, prices, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewOptimizerRequiresParams(t *testing.T) {
	prices, closes := optSeries(t)
	_, err := NewOptimizer(OptimizerConfig{Factory: thresholdFactory(closes)}, prices, zerolog.Nop())
	assert.Error(t, err)
}

func TestSearchCancellation(t *testing.T) {
	opt := newTestOptimizer(t, OptimizerConfig{
		Strategy: "test",
		Params:   testParams,
		Workers:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := opt.GridSearch(ctx)
	assert.Error(t, err)
}

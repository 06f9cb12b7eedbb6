package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etfquant/internal/indicators"
)

// ============================================================================
// THRESHOLD RULES
// ============================================================================

func TestThresholdRuleBuyBelow(t *testing.T) {
	rule := &ThresholdRule{
		Values: indicators.Series{indicators.Undefined, indicators.Defined(25), indicators.Defined(75), indicators.Defined(50)},
		Buy:    30,
		Sell:   70,
	}

	buy, sell := rule.Evaluate(0)
	assert.False(t, buy)
	assert.False(t, sell)

	buy, sell = rule.Evaluate(1)
	assert.True(t, buy)
	assert.False(t, sell)

	buy, sell = rule.Evaluate(2)
	assert.False(t, buy)
	assert.True(t, sell)

	buy, sell = rule.Evaluate(3)
	assert.False(t, buy)
	assert.False(t, sell)
}

func TestThresholdRuleBuyAbove(t *testing.T) {
	rule := &ThresholdRule{
		Values:   indicators.FromFloats([]float64{35, 10, 20}),
		Buy:      30,
		Sell:     15,
		BuyAbove: true,
	}

	buy, sell := rule.Evaluate(0)
	assert.True(t, buy)
	assert.False(t, sell)

	buy, sell = rule.Evaluate(1)
	assert.False(t, buy)
	assert.True(t, sell)

	buy, sell = rule.Evaluate(2)
	assert.False(t, buy)
	assert.False(t, sell)
}

// ============================================================================
// DYNAMIC THRESHOLDS
// ============================================================================

func TestDynamicThresholdsAtReferenceVol(t *testing.T) {
	rule := &DynamicThresholdRule{
		Values:     indicators.FromFloats([]float64{50}),
		Volatility: indicators.FromFloats([]float64{15}),
		BaseBuy:    30,
		BaseSell:   70,
		K:          0.5,
	}

	buy, sell, ok := rule.Thresholds(0)
	require.True(t, ok)
	assert.Equal(t, 30.0, buy)
	assert.Equal(t, 70.0, sell)
}

func TestDynamicThresholdsShiftWithVol(t *testing.T) {
	rule := &DynamicThresholdRule{
		Values:     indicators.FromFloats([]float64{50}),
		Volatility: indicators.FromFloats([]float64{25}),
		BaseBuy:    30,
		BaseSell:   70,
		K:          0.5,
	}

	// Vol 10 points above reference widens both thresholds by 5.
	buy, sell, ok := rule.Thresholds(0)
	require.True(t, ok)
	assert.Equal(t, 25.0, buy)
	assert.Equal(t, 75.0, sell)
}

func TestDynamicThresholdsClamped(t *testing.T) {
	rule := &DynamicThresholdRule{
		Values:     indicators.FromFloats([]float64{50}),
		Volatility: indicators.FromFloats([]float64{100}),
		BaseBuy:    30,
		BaseSell:   70,
		K:          2,
	}

	buy, sell, ok := rule.Thresholds(0)
	require.True(t, ok)
	assert.Equal(t, 20.0, buy)
	assert.Equal(t, 90.0, sell)
}

func TestDynamicThresholdSilentDuringVolWarmup(t *testing.T) {
	rule := &DynamicThresholdRule{
		Values:     indicators.FromFloats([]float64{5}),
		Volatility: indicators.Series{indicators.Undefined},
		BaseBuy:    30,
		BaseSell:   70,
		K:          1,
	}

	buy, sell := rule.Evaluate(0)
	assert.False(t, buy)
	assert.False(t, sell)
}

// ============================================================================
// CROSSOVERS
// ============================================================================

func crossSeries() (fast, slow indicators.Series) {
	fast = indicators.FromFloats([]float64{1, 3, 2, 0})
	slow = indicators.FromFloats([]float64{2, 2, 2, 2})
	return fast, slow
}

func TestCrossoverRuleStrictCross(t *testing.T) {
	fast, slow := crossSeries()
	rule := &CrossoverRule{Fast: fast, Slow: slow}

	// Fast starts below slow; the ordering is established on day one.
	buy, sell := rule.Evaluate(0)
	assert.False(t, buy)
	assert.True(t, sell)

	// 1 <= 2 then 3 > 2: golden cross.
	buy, sell = rule.Evaluate(1)
	assert.True(t, buy)
	assert.False(t, sell)

	// 3 > 2 then 2 == 2: equality is neither above nor below, no cross.
	buy, sell = rule.Evaluate(2)
	assert.False(t, buy)
	assert.False(t, sell)

	// 2 == 2 then 0 < 2: dead cross.
	buy, sell = rule.Evaluate(3)
	assert.False(t, buy)
	assert.True(t, sell)
}

func TestCrossoverRuleFiresLeavingWarmup(t *testing.T) {
	// Both series defined for the first time at index 2 with fast already
	// above slow: the established ordering fires a buy.
	fast := indicators.Series{indicators.Undefined, indicators.Undefined, indicators.Defined(5), indicators.Defined(6)}
	slow := indicators.Series{indicators.Undefined, indicators.Undefined, indicators.Defined(3), indicators.Defined(3)}
	rule := &CrossoverRule{Fast: fast, Slow: slow}

	buy, sell := rule.Evaluate(2)
	assert.True(t, buy)
	assert.False(t, sell)

	// Still above on the next step: no new cross.
	buy, sell = rule.Evaluate(3)
	assert.False(t, buy)
	assert.False(t, sell)
}

func TestCrossoverRuleReverse(t *testing.T) {
	fast, slow := crossSeries()
	rule := &CrossoverRule{Fast: fast, Slow: slow, Reverse: true}

	buy, sell := rule.Evaluate(1)
	assert.False(t, buy)
	assert.True(t, sell)

	buy, sell = rule.Evaluate(3)
	assert.True(t, buy)
	assert.False(t, sell)
}

func TestCrossoverRuleSilentWhileUndefined(t *testing.T) {
	fast := indicators.Series{indicators.Undefined, indicators.Undefined, indicators.Defined(3)}
	slow := indicators.Series{indicators.Defined(2), indicators.Defined(2), indicators.Undefined}
	rule := &CrossoverRule{Fast: fast, Slow: slow}

	// No step has both series defined, so nothing ever fires.
	for i := 0; i < 3; i++ {
		buy, sell := rule.Evaluate(i)
		assert.False(t, buy, "index %d", i)
		assert.False(t, sell, "index %d", i)
	}
}

// ============================================================================
// BANDS
// ============================================================================

func TestBandRuleBreakouts(t *testing.T) {
	rule := &BandRule{
		Price: indicators.FromFloats([]float64{10, 21, 4, 15}),
		Upper: indicators.FromFloats([]float64{20, 20, 20, 20}),
		Lower: indicators.FromFloats([]float64{5, 5, 5, 5}),
	}

	buy, sell := rule.Evaluate(0)
	assert.False(t, buy)
	assert.False(t, sell)

	buy, sell = rule.Evaluate(1)
	assert.True(t, buy)
	assert.False(t, sell)

	buy, sell = rule.Evaluate(2)
	assert.False(t, buy)
	assert.True(t, sell)
}

func TestBandRulePartialWarmup(t *testing.T) {
	// Lower band defined before upper: sells can fire while buys cannot.
	rule := &BandRule{
		Price: indicators.FromFloats([]float64{4}),
		Upper: indicators.Series{indicators.Undefined},
		Lower: indicators.FromFloats([]float64{5}),
	}

	buy, sell := rule.Evaluate(0)
	assert.False(t, buy)
	assert.True(t, sell)
}

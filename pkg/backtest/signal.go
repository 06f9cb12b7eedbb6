// Signal rules: pointwise translation of indicator series into raw buy/sell
// booleans. Rules never look at the account position; gating a raw signal by
// the current position is the simulator's job, which keeps signal generation
// testable in isolation from execution.
package backtest

import "etfquant/internal/indicators"

// SignalRule produces raw buy/sell signals for each time step of a price
// series. Both booleans may be false; a well-formed rule never returns both
// true for a step the simulator could act on in two directions, because the
// simulator executes at most one trade per day anyway (buy wins while flat).
type SignalRule interface {
	// Evaluate returns the raw buy and sell signals at index i. Undefined
	// indicator values never fire a signal.
	Evaluate(i int) (buy, sell bool)

	// Indicator returns the driving indicator reading at index i, recorded as
	// the trade snapshot.
	Indicator(i int) indicators.Value
}

// ============================================================================
// THRESHOLD FAMILY
// ============================================================================

// ThresholdRule fires on static threshold crossings of a single indicator
// series. With BuyAbove false (RSI style) it buys when the value drops below
// Buy and sells when it rises above Sell; with BuyAbove true (volatility,
// volume-ratio, risk-premium style) the comparisons flip.
type ThresholdRule struct {
	Values   indicators.Series
	Buy      float64
	Sell     float64
	BuyAbove bool
}

func (r *ThresholdRule) Evaluate(i int) (bool, bool) {
	v, ok := r.Values.At(i).Float64()
	if !ok {
		return false, false
	}
	if r.BuyAbove {
		return v > r.Buy, v < r.Sell
	}
	return v < r.Buy, v > r.Sell
}

func (r *ThresholdRule) Indicator(i int) indicators.Value {
	return r.Values.At(i)
}

// ============================================================================
// DYNAMIC THRESHOLD
// ============================================================================

// Clamping bounds and volatility reference for dynamically adjusted RSI
// thresholds. These are strategy constants, deliberately not configurable.
const (
	dynamicRefVol = 15.0
	dynamicBuyLo  = 20.0
	dynamicBuyHi  = 50.0
	dynamicSellLo = 60.0
	dynamicSellHi = 90.0
)

// DynamicThresholdRule adjusts RSI-style buy/sell thresholds by the prevailing
// volatility: buy = clamp(base - k*(vol - ref)), sell = clamp(base + k*(vol - ref)).
// A positive K demands deeper oversold readings in turbulent markets.
type DynamicThresholdRule struct {
	Values     indicators.Series
	Volatility indicators.Series
	BaseBuy    float64
	BaseSell   float64
	K          float64
}

// Thresholds returns the adjusted buy/sell thresholds at index i. The second
// return is false when volatility is still warming up.
func (r *DynamicThresholdRule) Thresholds(i int) (buy, sell float64, ok bool) {
	vol, ok := r.Volatility.At(i).Float64()
	if !ok {
		return 0, 0, false
	}
	diff := vol - dynamicRefVol
	buy = clamp(r.BaseBuy-r.K*diff, dynamicBuyLo, dynamicBuyHi)
	sell = clamp(r.BaseSell+r.K*diff, dynamicSellLo, dynamicSellHi)
	return buy, sell, true
}

func (r *DynamicThresholdRule) Evaluate(i int) (bool, bool) {
	v, ok := r.Values.At(i).Float64()
	if !ok {
		return false, false
	}
	buyThr, sellThr, ok := r.Thresholds(i)
	if !ok {
		return false, false
	}
	return v < buyThr, v > sellThr
}

func (r *DynamicThresholdRule) Indicator(i int) indicators.Value {
	return r.Values.At(i)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ============================================================================
// CROSSOVER FAMILY
// ============================================================================

// CrossoverRule fires on transitions of the fast/slow ordering: a golden
// cross (fast moves from not-above to above slow) buys and a dead cross
// sells. An undefined step counts as neither above nor below, so the first
// step where both series are defined can itself fire when the ordering is
// already established coming out of warm-up. A stricter variant that also
// requires the previous step to be defined would stay silent forever on a
// trend that never reverses after warm-up; the transition reading agrees with
// it on every interior step and differs only at that boundary. Reverse swaps
// the two, buying the dead cross, the contrarian variant for defensive
// assets.
type CrossoverRule struct {
	Fast    indicators.Series
	Slow    indicators.Series
	Reverse bool
}

func (r *CrossoverRule) relation(i int) (above, below bool) {
	f, fok := r.Fast.At(i).Float64()
	s, sok := r.Slow.At(i).Float64()
	if !fok || !sok {
		return false, false
	}
	return f > s, f < s
}

func (r *CrossoverRule) Evaluate(i int) (bool, bool) {
	above, below := r.relation(i)
	prevAbove, prevBelow := r.relation(i - 1)

	golden := above && !prevAbove
	dead := below && !prevBelow
	if r.Reverse {
		return dead, golden
	}
	return golden, dead
}

func (r *CrossoverRule) Indicator(i int) indicators.Value {
	return r.Fast.At(i)
}

// ============================================================================
// BAND FAMILY
// ============================================================================

// BandRule buys when the price breaks above an upper series and sells when it
// falls below a lower series. Bollinger breakouts, Donchian channel breaks and
// MA+ATR trailing stops are all instances with different band constructions.
type BandRule struct {
	Price indicators.Series
	Upper indicators.Series
	Lower indicators.Series
}

func (r *BandRule) Evaluate(i int) (bool, bool) {
	p, pok := r.Price.At(i).Float64()
	if !pok {
		return false, false
	}
	buy, sell := false, false
	if u, ok := r.Upper.At(i).Float64(); ok {
		buy = p > u
	}
	if l, ok := r.Lower.At(i).Float64(); ok {
		sell = p < l
	}
	return buy, sell
}

func (r *BandRule) Indicator(i int) indicators.Value {
	return r.Upper.At(i)
}

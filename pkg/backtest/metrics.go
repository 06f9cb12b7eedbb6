package backtest

import (
	"fmt"
	"math"
)

// ============================================================================
// PERFORMANCE STATISTICS
// ============================================================================

// Stats summarizes a completed run.
type Stats struct {
	TotalReturnPct  float64 `json:"total_return_pct"`
	AnnualReturnPct float64 `json:"annual_return_pct"`
	MaxDrawdownPct  float64 `json:"max_drawdown_pct"`
	WinRatePct      float64 `json:"win_rate_pct"`
	TradeCount      int     `json:"trade_count"`
	FinalValue      float64 `json:"final_value"`
}

// ComputeStats derives performance statistics from a run. The daily series is
// assumed non-empty; an empty run yields zero stats.
func ComputeStats(res *RunResult) Stats {
	if len(res.Daily) == 0 {
		return Stats{}
	}

	last := res.Daily[len(res.Daily)-1]
	stats := Stats{
		TotalReturnPct: last.ReturnPct,
		FinalValue:     last.TotalValue,
	}

	stats.AnnualReturnPct = annualize(last.ReturnPct, calendarDays(res))
	stats.MaxDrawdownPct = maxDrawdown(res.Daily)
	stats.WinRatePct, stats.TradeCount = winRate(res.Trades)
	return stats
}

func calendarDays(res *RunResult) int {
	first := res.Daily[0].Date
	last := res.Daily[len(res.Daily)-1].Date
	return int(last.Sub(first).Hours() / 24)
}

// annualize compounds a total return over calendar days to a 365-day rate. A
// degenerate span or a total loss yields 0 rather than a misleading figure.
func annualize(totalReturnPct float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	base := 1 + totalReturnPct/100
	if base <= 0 {
		return 0
	}
	return (math.Pow(base, 365/float64(days)) - 1) * 100
}

// maxDrawdown is the largest peak-to-trough decline of total value, as a
// positive percentage of the running peak.
func maxDrawdown(daily []DailyValuation) float64 {
	peak := daily[0].TotalValue
	maxDD := 0.0
	for _, d := range daily {
		if d.TotalValue > peak {
			peak = d.TotalValue
		}
		if peak > 0 {
			if dd := (peak - d.TotalValue) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// winRate pairs each buy with the next sell in order and counts the pair a win
// when the sell price exceeds the buy price. An open position at the end of
// the run is not counted either way. Trade count is the number of buys,
// matching how round trips are usually quoted for long-only strategies.
func winRate(trades []Trade) (float64, int) {
	var buys, sells []Trade
	for _, t := range trades {
		switch t.Action {
		case ActionBuy:
			buys = append(buys, t)
		case ActionSell:
			sells = append(sells, t)
		}
	}

	pairs := len(sells)
	if pairs > len(buys) {
		pairs = len(buys)
	}
	if pairs == 0 {
		return 0, len(buys)
	}

	wins := 0
	for i := 0; i < pairs; i++ {
		if sells[i].Price > buys[i].Price {
			wins++
		}
	}
	return float64(wins) / float64(pairs) * 100, len(buys)
}

// ============================================================================
// RANKING METRICS
// ============================================================================

// Metric selects how optimization candidates are ranked.
type Metric string

const (
	// MetricTotalReturn ranks by total return over the run.
	MetricTotalReturn Metric = "total_return"
	// MetricAnnualReturn ranks by annualized return.
	MetricAnnualReturn Metric = "annual_return"
	// MetricRiskAdjusted ranks by annualized return per unit of drawdown.
	MetricRiskAdjusted Metric = "risk_adjusted"
)

// Score extracts the metric's value from stats. Risk-adjusted score divides
// annual return by drawdown plus one, so a zero-drawdown run stays finite and
// shallow drawdowns are rewarded.
func (m Metric) Score(s Stats) float64 {
	switch m {
	case MetricAnnualReturn:
		return s.AnnualReturnPct
	case MetricRiskAdjusted:
		return s.AnnualReturnPct / (s.MaxDrawdownPct + 1)
	default:
		return s.TotalReturnPct
	}
}

// ParseMetric converts a metric name from config or CLI flags.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricTotalReturn, MetricAnnualReturn, MetricRiskAdjusted:
		return Metric(name), nil
	}
	return "", fmt.Errorf("unknown ranking metric %q", name)
}

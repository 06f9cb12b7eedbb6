package indicators

import "math"

// tradingDays is the annualization base for daily observations.
const (
	tradingDays  = 252
	percentScale = 100.0
)

// HistoricalVolatility computes the annualized historical volatility in
// percent: the rolling sample standard deviation of log returns multiplied by
// sqrt(252) * 100. The first return needs a prior close, so the series is
// undefined through index `window`.
func HistoricalVolatility(prices []float64, window int) Series {
	logReturns := make(Series, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] > 0 && prices[i] > 0 {
			logReturns[i] = Defined(math.Log(prices[i] / prices[i-1]))
		}
	}

	std := RollingStd(logReturns, window)
	out := make(Series, len(prices))
	factor := math.Sqrt(tradingDays) * percentScale
	for i := range std {
		if v, ok := std[i].Float64(); ok {
			out[i] = Defined(v * factor)
		}
	}
	return out
}

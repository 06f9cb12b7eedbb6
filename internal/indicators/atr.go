package indicators

import "math"

// ATR computes the Average True Range from closing prices only. Without
// intraday highs and lows the true range collapses to the absolute
// close-to-close move, averaged over the window.
func ATR(prices []float64, window int) Series {
	tr := make(Series, len(prices))
	for i := 1; i < len(prices); i++ {
		tr[i] = Defined(math.Abs(prices[i] - prices[i-1]))
	}
	return RollingMean(tr, window)
}

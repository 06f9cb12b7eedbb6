package indicators

// MACDResult holds the MACD line and its signal line, both aligned with the
// input prices.
type MACDResult struct {
	Line   Series
	Signal Series
}

// MACD computes the Moving Average Convergence Divergence: the difference
// between a fast and a slow EMA, plus an EMA of that difference.
func MACD(prices []float64, fast, slow, signal int) MACDResult {
	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)

	line := make(Series, len(prices))
	for i := range line {
		f, fok := emaFast[i].Float64()
		s, sok := emaSlow[i].Float64()
		if fok && sok {
			line[i] = Defined(f - s)
		}
	}

	return MACDResult{
		Line:   line,
		Signal: EWMSpan(line, signal, 1),
	}
}

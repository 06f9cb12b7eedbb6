package indicators

// BollingerResult holds the three Bollinger bands.
type BollingerResult struct {
	Mid   Series
	Upper Series
	Lower Series
}

// Bollinger computes Bollinger bands: a rolling mean plus/minus numStd sample
// standard deviations.
func Bollinger(prices []float64, window int, numStd float64) BollingerResult {
	s := FromFloats(prices)
	mid := RollingMean(s, window)
	std := RollingStd(s, window)

	upper := make(Series, len(prices))
	lower := make(Series, len(prices))
	for i := range prices {
		m, mok := mid[i].Float64()
		sd, sok := std[i].Float64()
		if mok && sok {
			upper[i] = Defined(m + numStd*sd)
			lower[i] = Defined(m - numStd*sd)
		}
	}

	return BollingerResult{Mid: mid, Upper: upper, Lower: lower}
}

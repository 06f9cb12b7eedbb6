package indicators

// DonchianResult holds the Donchian channel bounds.
type DonchianResult struct {
	High Series
	Low  Series
}

// Donchian computes the Donchian channel over closing prices. The channel at
// index i covers the window ending at i-1, so a close can actually break out
// of its own channel.
func Donchian(prices []float64, window int) DonchianResult {
	s := FromFloats(prices)
	high := RollingMax(s, window)
	low := RollingMin(s, window)

	shiftedHigh := make(Series, len(prices))
	shiftedLow := make(Series, len(prices))
	for i := 1; i < len(prices); i++ {
		shiftedHigh[i] = high[i-1]
		shiftedLow[i] = low[i-1]
	}

	return DonchianResult{High: shiftedHigh, Low: shiftedLow}
}

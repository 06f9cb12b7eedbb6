package indicators

// gainsLosses splits day-over-day price changes into gain and loss magnitudes.
// The first entry has no prior close and contributes zero to both sides.
func gainsLosses(prices []float64) (gains, losses []float64) {
	gains = make([]float64, len(prices))
	losses = make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	return gains, losses
}

func rsiFromAverages(avgGain, avgLoss Series) Series {
	out := make(Series, len(avgGain))
	for i := range out {
		g, gok := avgGain[i].Float64()
		l, lok := avgLoss[i].Float64()
		if !gok || !lok {
			continue
		}
		if l == 0 {
			if g == 0 {
				// Flat window, relative strength is indeterminate.
				continue
			}
			out[i] = Defined(100)
			continue
		}
		rs := g / l
		out[i] = Defined(100 - 100/(1+rs))
	}
	return out
}

// RSI computes the Relative Strength Index with the classic smoothing: a
// simple average of gains and losses over the first window, then Wilder's
// recursive update avg = (prev*(period-1) + current) / period.
func RSI(prices []float64, period int) Series {
	n := len(prices)
	if period < 1 || n == 0 {
		return make(Series, n)
	}
	gains, losses := gainsLosses(prices)

	avgGain := RollingMean(FromFloats(gains), period)
	avgLoss := RollingMean(FromFloats(losses), period)
	for i := period; i < n; i++ {
		pg, gok := avgGain[i-1].Float64()
		pl, lok := avgLoss[i-1].Float64()
		if !gok || !lok {
			continue
		}
		avgGain[i] = Defined((pg*float64(period-1) + gains[i]) / float64(period))
		avgLoss[i] = Defined((pl*float64(period-1) + losses[i]) / float64(period))
	}

	return rsiFromAverages(avgGain, avgLoss)
}

// RSIEMA computes RSI with exponential smoothing, factor 1/period. It reacts
// faster than the Wilder form and drives the fractional-unit strategies.
func RSIEMA(prices []float64, period int) Series {
	n := len(prices)
	if period < 1 || n == 0 {
		return make(Series, n)
	}
	gains, losses := gainsLosses(prices)

	alpha := 1.0 / float64(period)
	avgGain := EWMAlpha(FromFloats(gains), alpha, period)
	avgLoss := EWMAlpha(FromFloats(losses), alpha, period)

	return rsiFromAverages(avgGain, avgLoss)
}

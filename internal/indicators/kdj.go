package indicators

// KDJResult holds the K, D and J lines.
type KDJResult struct {
	K Series
	D Series
	J Series
}

// KDJ computes the KDJ stochastic oscillator from closing prices. The raw
// stochastic value (RSV) compares the close against the rolling low/high range;
// K and D smooth it exponentially, J = 3K - 2D. A flat window leaves RSV
// undefined.
func KDJ(prices []float64, n, kSmooth, dSmooth int) KDJResult {
	s := FromFloats(prices)
	high := RollingMax(s, n)
	low := RollingMin(s, n)

	rsv := make(Series, len(prices))
	for i := range prices {
		h, hok := high[i].Float64()
		l, lok := low[i].Float64()
		if !hok || !lok || h == l {
			continue
		}
		rsv[i] = Defined((prices[i] - l) / (h - l) * 100)
	}

	k := EWMAlpha(rsv, 1.0/float64(kSmooth), n)
	d := EWMAlpha(k, 1.0/float64(dSmooth), n)

	j := make(Series, len(prices))
	for i := range j {
		kv, kok := k[i].Float64()
		dv, dok := d[i].Float64()
		if kok && dok {
			j[i] = Defined(3*kv - 2*dv)
		}
	}

	return KDJResult{K: k, D: d, J: j}
}

package indicators

// ewm applies recursive exponential smoothing y[i] = (1-alpha)*y[i-1] + alpha*x[i],
// seeded on the first defined input. Undefined inputs leave the state untouched.
// The output stays undefined until minPeriods defined inputs have been consumed.
func ewm(s Series, alpha float64, minPeriods int) Series {
	out := make(Series, len(s))
	if alpha <= 0 || alpha > 1 {
		return out
	}
	if minPeriods < 1 {
		minPeriods = 1
	}
	var state float64
	seen := 0
	for i, v := range s {
		x, ok := v.Float64()
		if !ok {
			continue
		}
		if seen == 0 {
			state = x
		} else {
			state = (1-alpha)*state + alpha*x
		}
		seen++
		if seen >= minPeriods {
			out[i] = Defined(state)
		}
	}
	return out
}

// EWMAlpha smooths a series with an explicit smoothing factor.
func EWMAlpha(s Series, alpha float64, minPeriods int) Series {
	return ewm(s, alpha, minPeriods)
}

// EWMSpan smooths a series using the span parameterization alpha = 2/(span+1).
func EWMSpan(s Series, span int, minPeriods int) Series {
	if span < 1 {
		return make(Series, len(s))
	}
	return ewm(s, 2.0/(float64(span)+1.0), minPeriods)
}

// EMA is the exponential moving average of the closing prices with
// span-parameterized smoothing, defined from the first observation.
func EMA(prices []float64, span int) Series {
	return EWMSpan(FromFloats(prices), span, 1)
}

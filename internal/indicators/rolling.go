package indicators

import "math"

// windowDefined reports whether the window of length `window` ending at index
// i consists entirely of defined values.
func windowDefined(s Series, i, window int) bool {
	if i+1 < window {
		return false
	}
	for j := i - window + 1; j <= i; j++ {
		if !s[j].Defined() {
			return false
		}
	}
	return true
}

// RollingMean computes the rolling mean over a fixed window. Entries whose
// window is incomplete, or contains an undefined input, are undefined.
func RollingMean(s Series, window int) Series {
	out := make(Series, len(s))
	if window < 1 {
		return out
	}
	for i := range s {
		if !windowDefined(s, i, window) {
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			v, _ := s[j].Float64()
			sum += v
		}
		out[i] = Defined(sum / float64(window))
	}
	return out
}

// RollingStd computes the rolling sample standard deviation (n-1 denominator)
// over a fixed window.
func RollingStd(s Series, window int) Series {
	out := make(Series, len(s))
	if window < 2 {
		return out
	}
	for i := range s {
		if !windowDefined(s, i, window) {
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			v, _ := s[j].Float64()
			sum += v
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			v, _ := s[j].Float64()
			d := v - mean
			ss += d * d
		}
		out[i] = Defined(math.Sqrt(ss / float64(window-1)))
	}
	return out
}

// RollingMax computes the rolling maximum over a fixed window.
func RollingMax(s Series, window int) Series {
	out := make(Series, len(s))
	if window < 1 {
		return out
	}
	for i := range s {
		if !windowDefined(s, i, window) {
			continue
		}
		max, _ := s[i-window+1].Float64()
		for j := i - window + 2; j <= i; j++ {
			if v, _ := s[j].Float64(); v > max {
				max = v
			}
		}
		out[i] = Defined(max)
	}
	return out
}

// RollingMin computes the rolling minimum over a fixed window.
func RollingMin(s Series, window int) Series {
	out := make(Series, len(s))
	if window < 1 {
		return out
	}
	for i := range s {
		if !windowDefined(s, i, window) {
			continue
		}
		min, _ := s[i-window+1].Float64()
		for j := i - window + 2; j <= i; j++ {
			if v, _ := s[j].Float64(); v < min {
				min = v
			}
		}
		out[i] = Defined(min)
	}
	return out
}

// SMA is the simple moving average of the closing prices.
func SMA(prices []float64, window int) Series {
	return RollingMean(FromFloats(prices), window)
}

package indicators

// VolumeRatio computes each day's volume relative to its rolling mean volume.
// A ratio above 1 marks expanding volume, below 1 contracting volume.
func VolumeRatio(volume []float64, window int) Series {
	ma := RollingMean(FromFloats(volume), window)
	out := make(Series, len(volume))
	for i := range volume {
		m, ok := ma[i].Float64()
		if !ok || m == 0 {
			continue
		}
		out[i] = Defined(volume[i] / m)
	}
	return out
}

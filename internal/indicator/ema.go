package indicator

// exponentialMovingAverage returns the EMA of values with the given span.
// The first value seeds the recurrence, so every index is defined.
func exponentialMovingAverage(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	k := 2.0 / float64(span+1)
	out[0] = values[0]

	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}

	return out
}

package stats

import "math"

// ShannonEntropyNats calculates Shannon entropy in nats (log base e)
// over frequency counts or probabilities
func ShannonEntropyNats(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := Sum(values)
	if sum == 0 {
		return 0
	}

	var entropy float64
	for _, v := range values {
		if v > 0 {
			p := v / sum
			entropy -= p * math.Log(p)
		}
	}

	return entropy
}

// NormalizedEntropy calculates Shannon entropy normalized to [0,1] by the
// maximum entropy for the number of categories
func NormalizedEntropy(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	maxEntropy := math.Log(float64(len(values)))
	if maxEntropy == 0 {
		return 0
	}

	return ShannonEntropyNats(values) / maxEntropy
}

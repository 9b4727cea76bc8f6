package analysis

// confidence maps a sample size to a score. The base of 0.5 gains 0.05
// per sample up to nine samples, then the result is clamped to
// [0.6, 0.95] so no heuristic ever claims certainty or near-noise.
func confidence(sampleSize int) float64 {
	if sampleSize > 9 {
		sampleSize = 9
	}
	c := 0.5 + 0.05*float64(sampleSize)
	if c < 0.6 {
		c = 0.6
	}
	if c > 0.95 {
		c = 0.95
	}
	return c
}

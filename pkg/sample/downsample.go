package sample

// Downsample decimates samples to at most maxPoints for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise
// allocates. Returns the destination slice.
func Downsample(dst []Sample, samples []Sample, maxPoints int) []Sample {
	if len(samples) <= maxPoints {
		if cap(dst) >= len(samples) {
			dst = dst[:len(samples)]
			copy(dst, samples)
			return dst
		}
		result := make([]Sample, len(samples))
		copy(result, samples)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]Sample, 0, maxPoints)
	}

	step := float64(len(samples)) / float64(maxPoints)
	for i := 0; i < maxPoints; i++ {
		idx := int(float64(i) * step)
		if idx < len(samples) {
			dst = append(dst, samples[idx])
		}
	}

	return dst
}

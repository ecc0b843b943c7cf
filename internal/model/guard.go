package model

// Clamp bounds x into [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 is the coupling guard applied before any derived computation.
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// FloorZero treats negative solver artifacts as zero quantity.
func FloorZero(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

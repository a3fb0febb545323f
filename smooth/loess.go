package smooth

import "math"

// Loess smooths values with locally weighted linear regression (degree 1,
// tricube kernel) over the span nearest neighbors of each point. robustness
// weights, when non-nil, multiply the kernel weights and must match values in
// length; nil means all points weigh equally. Spans larger than the input are
// clipped, spans below 2 leave the input unchanged.
func Loess(values []float64, span int, robustness []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if span > n {
		span = n
	}
	if span < 2 {
		copy(out, values)
		return out
	}

	for i := 0; i < n; i++ {
		lo, hi := window(i, span, n)
		out[i] = fitLocal(values, robustness, i, lo, hi)
	}
	return out
}

// window returns the index range [lo, hi] of the span points nearest to i.
func window(i, span, n int) (int, int) {
	lo := i - (span-1)/2
	hi := lo + span - 1
	if lo < 0 {
		lo = 0
		hi = span - 1
	}
	if hi > n-1 {
		hi = n - 1
		lo = hi - span + 1
	}
	return lo, hi
}

// fitLocal evaluates a weighted linear fit over values[lo..hi] at position i.
func fitLocal(values, robustness []float64, i, lo, hi int) float64 {
	// Maximum distance inside the window normalizes the kernel.
	maxDist := math.Max(float64(i-lo), float64(hi-i))
	if maxDist <= 0 {
		return values[i]
	}

	var sw, swx, swy, swxx, swxy float64
	for j := lo; j <= hi; j++ {
		d := math.Abs(float64(j-i)) / maxDist
		w := tricube(d)
		if robustness != nil {
			w *= robustness[j]
		}
		if w <= 0 {
			continue
		}
		x := float64(j - i)
		sw += w
		swx += w * x
		swy += w * values[j]
		swxx += w * x * x
		swxy += w * x * values[j]
	}
	if sw == 0 {
		return values[i]
	}

	// Weighted normal equations for intercept and slope; the fit is evaluated
	// at x = 0, so only the intercept is needed.
	det := sw*swxx - swx*swx
	if math.Abs(det) < 1e-12 {
		return swy / sw
	}
	return (swxx*swy - swx*swxy) / det
}

// tricube is the kernel (1-d^3)^3 for d in [0, 1].
func tricube(d float64) float64 {
	if d >= 1 {
		return 0
	}
	t := 1 - d*d*d
	return t * t * t
}

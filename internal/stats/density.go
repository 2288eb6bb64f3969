package stats

import "math"

// Histogram bins vals into equal-width buckets between the min and max value.
// The last bucket is closed on the right. When every value is equal the range
// is widened by 0.5 on each side.
func Histogram(vals []float64, bins int) (edges []float64, counts []int) {
	if bins <= 0 || len(vals) == 0 {
		return nil, nil
	}
	lo, hi := Min(vals), Max(vals)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	edges = make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	counts = make([]int, bins)
	for _, v := range vals {
		i := int((v - lo) / (hi - lo) * float64(bins))
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return edges, counts
}

// ScottBandwidth is the Gaussian kernel width from Scott's rule: sd * n^(-1/5).
func ScottBandwidth(vals []float64) float64 {
	sd := StdDev(vals)
	if math.IsNaN(sd) || sd == 0 {
		return 0
	}
	return sd * math.Pow(float64(len(vals)), -0.2)
}

// GaussianKDE evaluates a Gaussian kernel density estimate of vals at each x.
// A non-positive bandwidth yields nil.
func GaussianKDE(vals, xs []float64, bandwidth float64) []float64 {
	if bandwidth <= 0 || len(vals) == 0 {
		return nil
	}
	norm := 1 / (float64(len(vals)) * bandwidth * math.Sqrt(2*math.Pi))
	out := make([]float64, len(xs))
	for i, x := range xs {
		var sum float64
		for _, v := range vals {
			z := (x - v) / bandwidth
			sum += math.Exp(-0.5 * z * z)
		}
		out[i] = sum * norm
	}
	return out
}

// Linspace returns n evenly spaced points from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

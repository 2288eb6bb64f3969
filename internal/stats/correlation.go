package stats

import "math"

// Pearson computes the correlation coefficient of two equally long series.
// It returns NaN when fewer than two pairs exist or either side is constant.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return math.NaN()
	}
	mx := Mean(x[:n])
	my := Mean(y[:n])
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	denom := math.Sqrt(sxx * syy)
	if denom == 0 || math.IsNaN(denom) {
		return math.NaN()
	}
	r := sxy / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// CorrelationMatrix returns the symmetric Pearson matrix of the given columns.
// The diagonal is 1 except for constant columns, which are NaN throughout.
func CorrelationMatrix(cols [][]float64) [][]float64 {
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			var r float64
			if a == b {
				r = 1
				if sd := StdDev(cols[a]); sd == 0 || math.IsNaN(sd) {
					r = math.NaN()
				}
			} else {
				r = Pearson(cols[a], cols[b])
			}
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return mat
}

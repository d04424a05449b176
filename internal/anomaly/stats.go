package anomaly

import (
	"math"
	"sort"
)

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdev is the population standard deviation.
func stdev(values []float64) float64 {
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// zScore is the standardized absolute deviation of value from the baseline.
// Defined as 0 when the baseline has fewer than 2 points or zero spread.
func zScore(value float64, values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sd := stdev(values)
	if sd == 0 {
		return 0
	}
	return math.Abs(value-mean(values)) / sd
}

// percentile computes the p-th percentile with linear interpolation between
// order statistics.
func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// iqrOutlier reports whether value falls outside [Q1-1.5*IQR, Q3+1.5*IQR].
// Undefined (false) when the baseline has fewer than 4 points.
func iqrOutlier(value float64, values []float64) bool {
	if len(values) < 4 {
		return false
	}
	q1 := percentile(values, 25)
	q3 := percentile(values, 75)
	iqr := q3 - q1
	return value < q1-1.5*iqr || value > q3+1.5*iqr
}

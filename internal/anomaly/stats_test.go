package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZScore(t *testing.T) {
	assert.Zero(t, zScore(5, []float64{1}), "undefined below 2 points")
	assert.Zero(t, zScore(5, []float64{3, 3, 3}), "undefined with zero spread")

	// mean 3, population stdev sqrt(2)
	z := zScore(3, []float64{1, 3, 5})
	assert.InDelta(t, 0, z, 1e-9)
	z = zScore(1, []float64{1, 3, 5})
	assert.InDelta(t, 1.2247, z, 1e-3)
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.InDelta(t, 10, percentile(values, 0), 1e-9)
	assert.InDelta(t, 40, percentile(values, 100), 1e-9)
	assert.InDelta(t, 25, percentile(values, 50), 1e-9)
	assert.InDelta(t, 17.5, percentile(values, 25), 1e-9)
	assert.InDelta(t, 32.5, percentile(values, 75), 1e-9)
}

func TestIQROutlier(t *testing.T) {
	assert.False(t, iqrOutlier(1000, []float64{10, 20, 30}), "undefined below 4 points")

	values := []float64{10, 20, 30, 40}
	// q1=17.5 q3=32.5 iqr=15 -> bounds [-5, 55]
	assert.False(t, iqrOutlier(50, values))
	assert.True(t, iqrOutlier(56, values))
	assert.True(t, iqrOutlier(-6, values))
}

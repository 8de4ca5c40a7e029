package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trendOf(values ...int) []TrendPoint {
	base := day("2024-01-01")
	trend := make([]TrendPoint, len(values))
	for i, v := range values {
		trend[i] = TrendPoint{Date: base.AddDate(0, 0, i), Engagements: v}
	}
	return trend
}

func TestDetectAnomalyInsufficientHistory(t *testing.T) {
	assert.Nil(t, DetectAnomaly(nil))
	assert.Nil(t, DetectAnomaly(trendOf(1, 2, 3, 4, 5, 6, 1000)), "7 points is below the minimum")
}

func TestDetectAnomalyIdenticalValues(t *testing.T) {
	a := DetectAnomaly(trendOf(50, 50, 50, 50, 50, 50, 50, 50))
	assert.Nil(t, a, "zero variance must never fire")
}

func TestDetectAnomalySpike(t *testing.T) {
	// One point at mean + well over 2 sigma.
	a := DetectAnomaly(trendOf(100, 100, 100, 100, 100, 100, 100, 500))

	require.NotNil(t, a)
	assert.Equal(t, day("2024-01-08"), a.Date)
	assert.Equal(t, 500, a.Engagements)
	assert.Equal(t, KindSpike, a.Kind)
	assert.InDelta(t, 150.0, a.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(17500), a.StdDev, 1e-9)
}

func TestDetectAnomalyWholeTrendStatistics(t *testing.T) {
	// Stats run over the whole provided trend, spike included.
	trend := trendOf(100, 102, 98, 101, 99, 103, 97, 500, 100)
	a := DetectAnomaly(trend)

	mean, stdDev := trendStats(trend)
	assert.InDelta(t, 1300.0/9.0, mean, 1e-9)

	require.NotNil(t, a)
	assert.Equal(t, day("2024-01-08"), a.Date)
	assert.Equal(t, 500, a.Engagements)
	assert.Equal(t, KindSpike, a.Kind)
	assert.InDelta(t, mean, a.Mean, 1e-9)
	assert.InDelta(t, stdDev, a.StdDev, 1e-9)
	assert.Greater(t, float64(a.Engagements), a.Threshold)
}

func TestDetectAnomalyFirstSpikeWins(t *testing.T) {
	// Two points exceed the threshold (mean 124.4, threshold ~730); only
	// the chronologically first is reported.
	a := DetectAnomaly(trendOf(
		10, 10, 10, 10, 10, 10, 10, 900,
		10, 10, 10, 10, 10, 10, 950, 10,
	))

	require.NotNil(t, a)
	assert.Equal(t, day("2024-01-08"), a.Date, "scan stops at the first point over the threshold")
	assert.Equal(t, 900, a.Engagements)
}

func TestDetectAnomalyNoDipDetection(t *testing.T) {
	// A deep dip far below the mean must not fire; only the high side is
	// tested.
	a := DetectAnomaly(trendOf(500, 500, 500, 500, 0, 500, 500, 500, 500))
	assert.Nil(t, a)
}

func TestDetectAnomalyWithinThreshold(t *testing.T) {
	a := DetectAnomaly(trendOf(100, 110, 90, 105, 95, 108, 92, 104))
	assert.Nil(t, a)
}

package engine

import "math"

// ============================================================================
// ANOMALY DETECTOR — Two-sigma outlier test over the daily trend
// ============================================================================
// Mean and population standard deviation are taken over the whole provided
// trend, spike included. The scan is chronological and stops at the first
// point above mean + 2*stddev. Only the high side ever fires: the dip
// vocabulary exists in the dashboard copy but no rule produces it.
// ============================================================================

// MinTrendPoints is the fewest distinct trend days the detector needs.
// With less history there is no detection attempt, which is a valid
// "no anomaly" result rather than an error.
const MinTrendPoints = 8

// DetectAnomaly scans a daily engagement trend for the first point whose
// value exceeds mean + 2*stddev. Returns nil when the trend is too short
// or no point exceeds the threshold.
func DetectAnomaly(trend []TrendPoint) *Anomaly {
	if len(trend) < MinTrendPoints {
		return nil
	}

	mean, stdDev := trendStats(trend)

	threshold := mean + 2*stdDev
	if stdDev == 0 {
		// All values identical: nothing can exceed mean + 0, but guard
		// against float equality quirks with a minimal offset.
		threshold = mean + math.SmallestNonzeroFloat64
	}

	for _, p := range trend {
		if float64(p.Engagements) > threshold {
			return &Anomaly{
				Date:        p.Date,
				Engagements: p.Engagements,
				Mean:        mean,
				StdDev:      stdDev,
				Threshold:   threshold,
				Kind:        KindSpike,
			}
		}
	}
	return nil
}

// trendStats returns the mean and population standard deviation of the
// engagement values across a trend.
func trendStats(trend []TrendPoint) (mean, stdDev float64) {
	n := float64(len(trend))
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for _, p := range trend {
		sum += float64(p.Engagements)
	}
	mean = sum / n

	var sqDiff float64
	for _, p := range trend {
		d := float64(p.Engagements) - mean
		sqDiff += d * d
	}
	stdDev = math.Sqrt(sqDiff / n)
	return mean, stdDev
}

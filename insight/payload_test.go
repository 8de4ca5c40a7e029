package insight

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medialens-io/medialens/engine"
)

func sampleAggs() engine.Aggregations {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trend := make([]engine.TrendPoint, 14)
	for i := range trend {
		trend[i] = engine.TrendPoint{Date: base.AddDate(0, 0, i), Engagements: 100 + i}
	}
	return engine.Aggregations{
		SentimentCounts: []engine.Entry{
			{Label: "Positive", Value: 8},
			{Label: "Neutral", Value: 3},
			{Label: "Negative", Value: 1},
		},
		EngagementTrend: trend,
		PlatformEngagement: []engine.Entry{
			{Label: "Instagram", Value: 900},
			{Label: "YouTube", Value: 400},
		},
		MediaTypeCounts: []engine.Entry{{Label: "Image", Value: 7}, {Label: "Video", Value: 5}},
		TopLocations:    []engine.Entry{{Label: "Bandung", Value: 200}, {Label: "Jakarta", Value: 700}},
		TopInfluencers:  []engine.Entry{{Label: "Brand B", Value: 300}, {Label: "Influencer A", Value: 600}},
	}
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"sentiment", "trend", "platform", "media", "location", "influencer", "strategy"} {
		k, err := ParseKind(valid)
		require.NoError(t, err)
		assert.Equal(t, Kind(valid), k)
	}

	k, err := ParseKind("  Platform ")
	require.NoError(t, err)
	assert.Equal(t, KindPlatform, k)

	_, err = ParseKind("hashtags")
	assert.Error(t, err)
}

func TestBuildPayloadPerKindTables(t *testing.T) {
	aggs := sampleAggs()
	summary := engine.Summary{TotalEngagements: 1300, TotalPosts: 12, AvgEngagements: 108.33}

	cases := map[Kind][]string{
		KindSentiment:  {"Positive: 8", "Negative: 1", "sentiment"},
		KindTrend:      {"2024-01-01: 100", "2024-01-14: 113", "engagement trend"},
		KindPlatform:   {"Instagram: 900", "top performer and an underperformer"},
		KindMedia:      {"Image: 7", "media type"},
		KindLocation:   {"Jakarta: 700", "geographic targeting"},
		KindInfluencer: {"Influencer A: 600", "best performer"},
	}

	for kind, wants := range cases {
		payload, err := BuildPayload(kind, aggs, summary)
		require.NoError(t, err, "kind %s", kind)
		for _, want := range wants {
			assert.Contains(t, payload, want, "kind %s", kind)
		}
	}
}

func TestBuildPayloadStrategy(t *testing.T) {
	aggs := sampleAggs()
	summary := engine.Summary{TotalEngagements: 1300, TotalPosts: 12, AvgEngagements: 108.33}

	payload, err := BuildPayload(KindStrategy, aggs, summary)
	require.NoError(t, err)

	assert.Contains(t, payload, "Total posts: 12")
	assert.Contains(t, payload, "Total engagements: 1,300")
	assert.Contains(t, payload, "Average engagements per post: 108.33")
	assert.Contains(t, payload, "Positive: 8")
	assert.Contains(t, payload, "Instagram: 900")

	// Trend is bounded to the last 10 points.
	assert.NotContains(t, payload, "2024-01-04: 103")
	assert.Contains(t, payload, "2024-01-05: 104")
	assert.Contains(t, payload, "2024-01-14: 113")
}

func TestBuildPayloadNeverCarriesRawPosts(t *testing.T) {
	payload, err := BuildPayload(KindStrategy, sampleAggs(), engine.Summary{TotalPosts: 12})
	require.NoError(t, err)

	// The payload is a handful of small tables; a sanity bound keeps raw
	// datasets from ever leaking into the prompt.
	assert.Less(t, len(payload), 4096)
	lines := strings.Count(payload, "\n")
	assert.Less(t, lines, 60)
}

func TestBuildPayloadEmptyAggregations(t *testing.T) {
	for _, kind := range []Kind{KindSentiment, KindTrend, KindStrategy} {
		payload, err := BuildPayload(kind, engine.Aggregations{}, engine.Summary{})
		require.NoError(t, err)
		assert.Contains(t, payload, "(no data)")
	}
}

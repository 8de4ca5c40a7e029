package engine

import "time"

// ============================================================================
// ENGINE TYPES — Media Performance Analytics
// ============================================================================

// Placeholder for string fields missing from the input. Grouping keys are
// never empty, so downstream consumers never branch on absent values.
const Placeholder = "N/A"

// All is the filter value meaning "no constraint on this field".
const All = "All"

// Post is one normalized social-media post or mention.
// Every Post in a dataset has a valid Date; all other fields are defaulted
// at ingestion and are never empty.
type Post struct {
	Date            time.Time `json:"date"`
	Engagements     int       `json:"engagements"`
	Platform        string    `json:"platform"`
	Sentiment       string    `json:"sentiment"`
	MediaType       string    `json:"media_type"`
	Location        string    `json:"location"`
	InfluencerBrand string    `json:"influencer_brand"`
	Headline        string    `json:"headline,omitempty"`
}

// FilterSelection is the user's current predicate. Categorical fields set
// to All are pass-throughs. Date bounds are inclusive calendar days.
type FilterSelection struct {
	Platform  string    `json:"platform"`
	Sentiment string    `json:"sentiment"`
	MediaType string    `json:"media_type"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Entry is one row of a derived table: a grouping label and its count or
// engagement sum.
type Entry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// TrendPoint is one day of the engagement trend.
type TrendPoint struct {
	Date        time.Time `json:"date"`
	Engagements int       `json:"engagements"`
}

// Aggregations holds the six derived tables driving every chart and
// insight prompt. All are pure functions of the filtered post set.
type Aggregations struct {
	SentimentCounts    []Entry      `json:"sentiment_counts"`
	EngagementTrend    []TrendPoint `json:"engagement_trend"`
	PlatformEngagement []Entry      `json:"platform_engagement"`
	MediaTypeCounts    []Entry      `json:"media_type_counts"`
	TopLocations       []Entry      `json:"top_locations"`
	TopInfluencers     []Entry      `json:"top_influencers"`
}

// Summary holds the headline metrics above the charts.
type Summary struct {
	TotalEngagements int     `json:"total_engagements"`
	TotalPosts       int     `json:"total_posts"`
	AvgEngagements   float64 `json:"avg_engagements"`
}

// Anomaly kinds. Only spikes are ever detected; the dip label exists so
// the API vocabulary matches the dashboard copy.
const (
	KindSpike = "spike"
	KindDip   = "dip"
)

// Anomaly is a trend point whose engagement sum statistically exceeds
// expected variation.
type Anomaly struct {
	Date        time.Time `json:"date"`
	Engagements int       `json:"engagements"`
	Mean        float64   `json:"mean"`
	StdDev      float64   `json:"std_dev"`
	Threshold   float64   `json:"threshold"`
	Kind        string    `json:"kind"`
}

// Day truncates a timestamp to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

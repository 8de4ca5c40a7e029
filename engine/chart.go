package engine

// ============================================================================
// CHART BUILDER — Render-ready chart configs from the six aggregations
// ============================================================================
// The UI renders these without reshaping. One config per dashboard chart,
// keyed by the same names the insight kinds use.
// ============================================================================

// Chart types understood by the frontend.
const (
	ChartPie  = "pie"
	ChartLine = "line"
	ChartBar  = "bar"
	ChartHBar = "horizontal_bar"
)

// ChartConfig defines how to render one dashboard chart.
type ChartConfig struct {
	ChartType  string       `json:"chart_type"`
	Title      string       `json:"title"`
	XAxis      string       `json:"x_axis,omitempty"`
	YAxis      string       `json:"y_axis,omitempty"`
	Points     []ChartPoint `json:"points"`
	Colors     []string     `json:"colors,omitempty"`
	ShowLegend bool         `json:"show_legend"`
}

// ChartPoint is a single labelled value.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Sentiment slices keep their dashboard colors; everything else cycles
// the default palette.
var sentimentColors = map[string]string{
	"Positive": "#39FF14",
	"Neutral":  "grey",
	"Negative": "#FF6347",
}

var defaultPalette = []string{
	"#39FF14", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildCharts produces the six dashboard chart configs from computed
// aggregations. Empty aggregations yield configs with empty point lists,
// which the UI shows as a "no matching data" state.
func BuildCharts(aggs Aggregations) map[string]ChartConfig {
	return map[string]ChartConfig{
		"sentiment": {
			ChartType:  ChartPie,
			Title:      "Sentiment Breakdown",
			Points:     entryPoints(aggs.SentimentCounts),
			Colors:     sentimentPalette(aggs.SentimentCounts),
			ShowLegend: true,
		},
		"trend": {
			ChartType: ChartLine,
			Title:     "Engagement Trend Over Time",
			XAxis:     "Date",
			YAxis:     "Total Engagements",
			Points:    trendPoints(aggs.EngagementTrend),
			Colors:    []string{"#39FF14"},
		},
		"platform": {
			ChartType: ChartBar,
			Title:     "Platform Engagements",
			XAxis:     "Platform",
			YAxis:     "Total Engagements",
			Points:    entryPoints(aggs.PlatformEngagement),
			Colors:    paletteFor(len(aggs.PlatformEngagement)),
		},
		"media": {
			ChartType:  ChartPie,
			Title:      "Media Type Mix",
			Points:     entryPoints(aggs.MediaTypeCounts),
			Colors:     paletteFor(len(aggs.MediaTypeCounts)),
			ShowLegend: true,
		},
		"location": {
			ChartType: ChartHBar,
			Title:     "Top 5 Locations",
			XAxis:     "Total Engagements",
			YAxis:     "Location",
			Points:    entryPoints(aggs.TopLocations),
			Colors:    paletteFor(len(aggs.TopLocations)),
		},
		"influencer": {
			ChartType: ChartHBar,
			Title:     "Top 5 Influencers / Brands",
			XAxis:     "Total Engagements",
			YAxis:     "Influencer / Brand",
			Points:    entryPoints(aggs.TopInfluencers),
			Colors:    paletteFor(len(aggs.TopInfluencers)),
		},
	}
}

func entryPoints(entries []Entry) []ChartPoint {
	points := make([]ChartPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, ChartPoint{Label: e.Label, Value: e.Value})
	}
	return points
}

func trendPoints(trend []TrendPoint) []ChartPoint {
	points := make([]ChartPoint, 0, len(trend))
	for _, p := range trend {
		points = append(points, ChartPoint{Label: p.Date.Format("2006-01-02"), Value: p.Engagements})
	}
	return points
}

func sentimentPalette(entries []Entry) []string {
	colors := make([]string, 0, len(entries))
	for i, e := range entries {
		if c, ok := sentimentColors[e.Label]; ok {
			colors = append(colors, c)
		} else {
			colors = append(colors, defaultPalette[i%len(defaultPalette)])
		}
	}
	return colors
}

func paletteFor(count int) []string {
	colors := make([]string, count)
	for i := range colors {
		colors[i] = defaultPalette[i%len(defaultPalette)]
	}
	return colors
}

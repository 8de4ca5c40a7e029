package insight

import (
	"fmt"
	"strings"

	"github.com/medialens-io/medialens/engine"
)

// ============================================================================
// PAYLOAD ASSEMBLER — Aggregation tables → prompt text
// ============================================================================
// One serializer parameterized by kind, replacing per-chart prompt
// duplication. The payload carries the small derived table plus a short
// instruction naming the analytical angle. Never the raw post set: the
// campaign summary is the largest payload and it is still bounded to the
// per-chart tables and a trend tail.
// ============================================================================

// Kind names one insight angle, matching the dashboard's chart keys.
type Kind string

const (
	KindSentiment  Kind = "sentiment"
	KindTrend      Kind = "trend"
	KindPlatform   Kind = "platform"
	KindMedia      Kind = "media"
	KindLocation   Kind = "location"
	KindInfluencer Kind = "influencer"
	KindStrategy   Kind = "strategy"
)

// TrendTail caps how many trailing trend points the strategy payload
// carries.
const TrendTail = 10

var kinds = map[Kind]bool{
	KindSentiment:  true,
	KindTrend:      true,
	KindPlatform:   true,
	KindMedia:      true,
	KindLocation:   true,
	KindInfluencer: true,
	KindStrategy:   true,
}

// ParseKind validates a kind string from the API surface.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !kinds[k] {
		return "", fmt.Errorf("unknown insight kind %q", s)
	}
	return k, nil
}

// Analytical instruction per kind. Each asks for short actionable
// markdown so the response renders verbatim in the dashboard.
var instructions = map[Kind]string{
	KindSentiment:  "Analyze this sentiment breakdown of social media posts. Identify the dominant sentiment, flag any negative-sentiment risk, and give 3 actionable recommendations.",
	KindTrend:      "Analyze this daily engagement trend. Identify peaks and declines, note any pattern in timing, and give 3 actionable recommendations.",
	KindPlatform:   "Analyze engagements per platform. Identify the top performer and an underperformer, and give 3 actionable recommendations for budget allocation.",
	KindMedia:      "Analyze this media type mix. Identify which format drives engagement and give 3 actionable recommendations for the content plan.",
	KindLocation:   "Analyze the top locations by engagement. Identify the strongest market and growth candidates, and give 3 actionable recommendations for geographic targeting.",
	KindInfluencer: "Analyze the top influencers and brands by engagement. Identify the best performer and any weak partnership, and give 3 actionable recommendations.",
	KindStrategy:   "You are a senior media strategist. From the campaign data below, write a campaign strategy summary covering: overall performance, platform focus with budget split, content recommendations, audience targeting, and improvement opportunities. Use markdown headings and bullet points.",
}

// BuildPayload serializes one aggregation (or, for the strategy kind, the
// campaign roll-up) into the text block handed to the LLM client. This
// function never calls any network service.
func BuildPayload(kind Kind, aggs engine.Aggregations, summary engine.Summary) (string, error) {
	instruction, ok := instructions[kind]
	if !ok {
		return "", fmt.Errorf("unknown insight kind %q", kind)
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\n")

	switch kind {
	case KindSentiment:
		writeEntries(&b, "Sentiment counts", aggs.SentimentCounts)
	case KindTrend:
		writeTrend(&b, "Daily engagement totals", aggs.EngagementTrend, 0)
	case KindPlatform:
		writeEntries(&b, "Engagements per platform", aggs.PlatformEngagement)
	case KindMedia:
		writeEntries(&b, "Posts per media type", aggs.MediaTypeCounts)
	case KindLocation:
		writeEntries(&b, "Top locations by engagements", aggs.TopLocations)
	case KindInfluencer:
		writeEntries(&b, "Top influencers/brands by engagements", aggs.TopInfluencers)
	case KindStrategy:
		fmt.Fprintf(&b, "Total posts: %s\n", engine.FormatInt(summary.TotalPosts))
		fmt.Fprintf(&b, "Total engagements: %s\n", engine.FormatInt(summary.TotalEngagements))
		fmt.Fprintf(&b, "Average engagements per post: %.2f\n\n", summary.AvgEngagements)
		writeEntries(&b, "Sentiment counts", aggs.SentimentCounts)
		writeTrend(&b, "Recent daily engagement totals", aggs.EngagementTrend, TrendTail)
		writeEntries(&b, "Engagements per platform", aggs.PlatformEngagement)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func writeEntries(b *strings.Builder, title string, entries []engine.Entry) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(entries) == 0 {
		b.WriteString("  (no data)\n")
	}
	for _, e := range entries {
		fmt.Fprintf(b, "  %s: %s\n", e.Label, engine.FormatInt(e.Value))
	}
	b.WriteString("\n")
}

// writeTrend serializes trend points; tail > 0 keeps only the last tail
// points.
func writeTrend(b *strings.Builder, title string, trend []engine.TrendPoint, tail int) {
	if tail > 0 && len(trend) > tail {
		trend = trend[len(trend)-tail:]
	}
	fmt.Fprintf(b, "%s:\n", title)
	if len(trend) == 0 {
		b.WriteString("  (no data)\n")
	}
	for _, p := range trend {
		fmt.Fprintf(b, "  %s: %s\n", p.Date.Format("2006-01-02"), engine.FormatInt(p.Engagements))
	}
	b.WriteString("\n")
}

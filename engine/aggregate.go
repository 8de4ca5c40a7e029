package engine

import (
	"fmt"
	"sort"
	"time"
)

// ============================================================================
// AGGREGATORS — The six derived tables + headline metrics
// ============================================================================
// Grouping uses a map plus an insertion-order list so ties sort stably by
// first appearance. Every function is total: an empty post set yields an
// empty table, never an error.
// ============================================================================

// TopN is how many locations/influencers the dashboard shows.
const TopN = 5

// Aggregate computes all six derived tables from a filtered post set.
func Aggregate(posts []Post) Aggregations {
	return Aggregations{
		SentimentCounts:    SentimentCounts(posts),
		EngagementTrend:    EngagementTrend(posts),
		PlatformEngagement: PlatformEngagement(posts),
		MediaTypeCounts:    MediaTypeCounts(posts),
		TopLocations:       TopLocations(posts),
		TopInfluencers:     TopInfluencers(posts),
	}
}

// SentimentCounts counts posts per sentiment label, descending by count
// for pie-chart legibility.
func SentimentCounts(posts []Post) []Entry {
	entries := countBy(posts, func(p Post) string { return p.Sentiment })
	sortDesc(entries)
	return entries
}

// EngagementTrend sums engagements per calendar day, ascending by date.
// Days with no posts produce no entry; the trend is not gap-filled.
func EngagementTrend(posts []Post) []TrendPoint {
	totals := make(map[time.Time]int)
	order := make([]time.Time, 0)
	for _, p := range posts {
		d := Day(p.Date)
		if _, seen := totals[d]; !seen {
			order = append(order, d)
		}
		totals[d] += p.Engagements
	}

	points := make([]TrendPoint, 0, len(order))
	for _, d := range order {
		points = append(points, TrendPoint{Date: d, Engagements: totals[d]})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// PlatformEngagement sums engagements per platform, descending by sum.
func PlatformEngagement(posts []Post) []Entry {
	entries := sumBy(posts, func(p Post) string { return p.Platform })
	sortDesc(entries)
	return entries
}

// MediaTypeCounts counts posts per media type, descending by count.
func MediaTypeCounts(posts []Post) []Entry {
	entries := countBy(posts, func(p Post) string { return p.MediaType })
	sortDesc(entries)
	return entries
}

// TopLocations returns the five locations with the highest engagement
// sums, emitted ascending by value for horizontal-bar rendering.
func TopLocations(posts []Post) []Entry {
	return topEntries(sumBy(posts, func(p Post) string { return p.Location }))
}

// TopInfluencers is TopLocations over the influencer/brand field.
func TopInfluencers(posts []Post) []Entry {
	return topEntries(sumBy(posts, func(p Post) string { return p.InfluencerBrand }))
}

// Summarize computes the headline metrics. Average is zero for an empty
// set, never a division error.
func Summarize(posts []Post) Summary {
	s := Summary{TotalPosts: len(posts)}
	for _, p := range posts {
		s.TotalEngagements += p.Engagements
	}
	if s.TotalPosts > 0 {
		s.AvgEngagements = float64(s.TotalEngagements) / float64(s.TotalPosts)
	}
	return s
}

// ============================================================================
// GROUPING HELPERS
// ============================================================================

func countBy(posts []Post, key func(Post) string) []Entry {
	return groupBy(posts, key, func(Post) int { return 1 })
}

func sumBy(posts []Post, key func(Post) string) []Entry {
	return groupBy(posts, key, func(p Post) int { return p.Engagements })
}

func groupBy(posts []Post, key func(Post) string, weight func(Post) int) []Entry {
	totals := make(map[string]int)
	order := make([]string, 0)
	for _, p := range posts {
		k := key(p)
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += weight(p)
	}

	entries := make([]Entry, 0, len(order))
	for _, k := range order {
		entries = append(entries, Entry{Label: k, Value: totals[k]})
	}
	return entries
}

// topEntries picks the TopN highest-value entries (ties broken by first
// appearance), then re-sorts the picked set ascending by value so the
// smallest bar sits nearest the axis origin. Fewer than TopN distinct
// keys yields fewer entries, never padding.
func topEntries(entries []Entry) []Entry {
	sortDesc(entries)
	if len(entries) > TopN {
		entries = entries[:TopN]
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
	return entries
}

func sortDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
}

// FormatInt formats a count with comma separators for display strings.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

package engine

import "time"

// ============================================================================
// FILTER — Conjunction of equality predicates + inclusive date range
// ============================================================================
// Single pass: a post survives only if it matches every constrained field
// and its calendar date falls inside [StartDate, EndDate]. Result order is
// input order. A selection referencing a value no longer present simply
// yields an empty result.
// ============================================================================

// NewFilterSelection returns the default selection for a dataset: All on
// every categorical field and the date range spanning the posts.
func NewFilterSelection(posts []Post) FilterSelection {
	sel := FilterSelection{
		Platform:  All,
		Sentiment: All,
		MediaType: All,
		Location:  All,
	}
	if len(posts) == 0 {
		return sel
	}
	min, max := DateBounds(posts)
	sel.StartDate = min
	sel.EndDate = max
	return sel
}

// DateBounds returns the earliest and latest calendar dates in a post set.
// Both are zero when the set is empty.
func DateBounds(posts []Post) (time.Time, time.Time) {
	var min, max time.Time
	for i, p := range posts {
		d := Day(p.Date)
		if i == 0 || d.Before(min) {
			min = d
		}
		if i == 0 || d.After(max) {
			max = d
		}
	}
	return min, max
}

// ApplyFilters returns the posts matching the selection. Stable: output
// preserves input order. Never fabricates records.
func ApplyFilters(posts []Post, sel FilterSelection) []Post {
	start, end := Day(sel.StartDate), Day(sel.EndDate)

	filtered := make([]Post, 0, len(posts))
	for _, p := range posts {
		if sel.Platform != All && p.Platform != sel.Platform {
			continue
		}
		if sel.Sentiment != All && p.Sentiment != sel.Sentiment {
			continue
		}
		if sel.MediaType != All && p.MediaType != sel.MediaType {
			continue
		}
		if sel.Location != All && p.Location != sel.Location {
			continue
		}
		d := Day(p.Date)
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// ClampSelection normalizes a selection against a dataset: empty
// categorical fields become All, zero or out-of-range date bounds snap to
// the dataset's min/max, and an inverted range collapses to the dataset
// range.
func ClampSelection(sel FilterSelection, posts []Post) FilterSelection {
	if sel.Platform == "" {
		sel.Platform = All
	}
	if sel.Sentiment == "" {
		sel.Sentiment = All
	}
	if sel.MediaType == "" {
		sel.MediaType = All
	}
	if sel.Location == "" {
		sel.Location = All
	}

	min, max := DateBounds(posts)
	if sel.StartDate.IsZero() || Day(sel.StartDate).Before(min) {
		sel.StartDate = min
	} else {
		sel.StartDate = Day(sel.StartDate)
	}
	if sel.EndDate.IsZero() || Day(sel.EndDate).After(max) {
		sel.EndDate = max
	} else {
		sel.EndDate = Day(sel.EndDate)
	}
	if sel.EndDate.Before(sel.StartDate) {
		sel.StartDate, sel.EndDate = min, max
	}
	return sel
}

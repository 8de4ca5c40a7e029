package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medialens-io/medialens/engine"
	"github.com/medialens-io/medialens/insight"
)

var sampleCSV = []byte(`Date,Platform,Sentiment,Media Type,Location,Engagements,Influencer_Brand
2024-01-01,Instagram,Positive,Image,Jakarta,10,Influencer A
2024-01-02,YouTube,Neutral,Video,Surabaya,25,Brand B
2024-01-03,Instagram,Negative,Image,Jakarta,5,Influencer A
2024-01-04,Twitter,Positive,Text,Bandung,40,Brand C
`)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := New(nil)
	_, err := s.LoadCSV("posts.csv", sampleCSV)
	require.NoError(t, err)
	return s
}

func TestLoadCSV(t *testing.T) {
	s := New(nil)
	res, err := s.LoadCSV("posts.csv", sampleCSV)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Loaded)

	status := s.Status()
	assert.True(t, status.Loaded)
	assert.NotEmpty(t, status.DatasetID)
	assert.Equal(t, "posts.csv", status.FileName)
	assert.Equal(t, 4, status.Posts)

	sel, err := s.Selection()
	require.NoError(t, err)
	assert.Equal(t, engine.All, sel.Platform)
	assert.Equal(t, day("2024-01-01"), sel.StartDate)
	assert.Equal(t, day("2024-01-04"), sel.EndDate)
}

func TestLoadCSVReplacesDatasetWholesale(t *testing.T) {
	s := loadedSession(t)
	firstID := s.Status().DatasetID

	replacement := []byte("Date,Platform,Engagements\n2025-06-01,TikTok,99\n")
	res, err := s.LoadCSV("new.csv", replacement)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)

	status := s.Status()
	assert.Equal(t, 1, status.Posts)
	assert.NotEqual(t, firstID, status.DatasetID)

	sel, err := s.Selection()
	require.NoError(t, err)
	assert.Equal(t, day("2025-06-01"), sel.StartDate)
}

func TestReadsBeforeLoadFail(t *testing.T) {
	s := New(nil)

	_, err := s.Selection()
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = s.Aggregations()
	assert.ErrorIs(t, err, ErrNoDataset)
	_, _, err = s.Summary()
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = s.Charts()
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = s.SetSelection(engine.FilterSelection{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestSetSelectionRecomputes(t *testing.T) {
	s := loadedSession(t)

	aggs, err := s.Aggregations()
	require.NoError(t, err)
	assert.Len(t, aggs.PlatformEngagement, 3)
	assert.Equal(t, 4, s.FilteredCount())

	sel, err := s.Selection()
	require.NoError(t, err)
	sel.Platform = "Instagram"
	_, err = s.SetSelection(sel)
	require.NoError(t, err)

	aggs, err = s.Aggregations()
	require.NoError(t, err)
	require.Len(t, aggs.PlatformEngagement, 1)
	assert.Equal(t, engine.Entry{Label: "Instagram", Value: 15}, aggs.PlatformEngagement[0])
	assert.Equal(t, 2, s.FilteredCount())

	summary, _, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 15, summary.TotalEngagements)
	assert.Equal(t, 2, summary.TotalPosts)
}

func TestSetSelectionClampsBounds(t *testing.T) {
	s := loadedSession(t)

	applied, err := s.SetSelection(engine.FilterSelection{
		StartDate: day("2020-01-01"),
		EndDate:   day("2030-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-01"), applied.StartDate)
	assert.Equal(t, day("2024-01-04"), applied.EndDate)
	assert.Equal(t, engine.All, applied.Platform)
}

func TestFilterMutationInvalidatesInsights(t *testing.T) {
	s := loadedSession(t)

	s.CacheInsight(insight.KindSentiment, "cached text")
	text, ok := s.CachedInsight(insight.KindSentiment)
	require.True(t, ok)
	assert.Equal(t, "cached text", text)

	sel, err := s.Selection()
	require.NoError(t, err)
	sel.Sentiment = "Positive"
	_, err = s.SetSelection(sel)
	require.NoError(t, err)

	_, ok = s.CachedInsight(insight.KindSentiment)
	assert.False(t, ok, "filter change must invalidate cached insight text")
}

func TestUploadInvalidatesInsights(t *testing.T) {
	s := loadedSession(t)
	s.CacheInsight(insight.KindStrategy, "old strategy")

	_, err := s.LoadCSV("again.csv", sampleCSV)
	require.NoError(t, err)

	_, ok := s.CachedInsight(insight.KindStrategy)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := loadedSession(t)
	s.CacheInsight(insight.KindTrend, "text")

	s.Clear()

	status := s.Status()
	assert.False(t, status.Loaded)
	assert.Empty(t, status.DatasetID)
	assert.Zero(t, status.Posts)

	_, err := s.Aggregations()
	assert.ErrorIs(t, err, ErrNoDataset)
	_, ok := s.CachedInsight(insight.KindTrend)
	assert.False(t, ok)
}

func TestEmptyFilteredSetIsTotal(t *testing.T) {
	s := loadedSession(t)

	sel, err := s.Selection()
	require.NoError(t, err)
	sel.Platform = "Instagram"
	sel.Sentiment = "Neutral" // no Instagram post is Neutral
	_, err = s.SetSelection(sel)
	require.NoError(t, err)

	aggs, err := s.Aggregations()
	require.NoError(t, err)
	assert.Empty(t, aggs.SentimentCounts)
	assert.Empty(t, aggs.EngagementTrend)

	summary, anomaly, err := s.Summary()
	require.NoError(t, err)
	assert.Zero(t, summary.AvgEngagements)
	assert.Nil(t, anomaly)
	assert.Zero(t, s.FilteredCount())
}

package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/medialens-io/medialens/engine"
	"github.com/medialens-io/medialens/ingest"
	"github.com/medialens-io/medialens/insight"
)

// ============================================================================
// SESSION — The one mutable context object owning dashboard state
// ============================================================================
// Holds the normalized dataset, the current filter selection, and the
// derived results. Every mutation (upload, filter change, clear) runs the
// full pipeline again; intermediate results are superseded wholesale and
// cached insight text is discarded. Recomputation is cheap enough that no
// partial cache survives a change.
//
// The mutex guards memory safety under the HTTP server; there is no
// multi-user concurrency by design.
// ============================================================================

// ErrNoDataset is returned by read operations before any upload.
var ErrNoDataset = errors.New("no dataset loaded")

// Session owns the active dataset and everything derived from it.
type Session struct {
	mu  sync.Mutex
	log *logrus.Logger

	datasetID string
	fileName  string
	posts     []engine.Post

	selection engine.FilterSelection
	filtered  []engine.Post
	aggs      engine.Aggregations
	summary   engine.Summary
	anomaly   *engine.Anomaly
	insights  map[insight.Kind]string

	loaded     bool
	recomputes int
}

// Status describes the loaded dataset.
type Status struct {
	Loaded    bool   `json:"loaded"`
	DatasetID string `json:"dataset_id,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	Posts     int    `json:"posts"`
}

// New creates an empty session.
func New(log *logrus.Logger) *Session {
	return &Session{log: log, insights: make(map[insight.Kind]string)}
}

// LoadCSV ingests an upload, replacing any previous dataset wholesale.
// The selection resets to All with the full date range.
func (s *Session) LoadCSV(fileName string, data []byte) (*ingest.Result, error) {
	res, err := ingest.ParseCSV(data, s.log)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasetID = uuid.NewString()
	s.fileName = fileName
	s.posts = res.Posts
	s.selection = engine.NewFilterSelection(s.posts)
	s.loaded = true
	s.recomputeLocked()

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"dataset_id": s.datasetID,
			"file":       fileName,
			"posts":      len(s.posts),
		}).Info("dataset loaded")
	}
	return res, nil
}

// Clear discards the dataset and everything derived from it.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasetID = ""
	s.fileName = ""
	s.posts = nil
	s.selection = engine.FilterSelection{}
	s.filtered = nil
	s.aggs = engine.Aggregations{}
	s.summary = engine.Summary{}
	s.anomaly = nil
	s.insights = make(map[insight.Kind]string)
	s.loaded = false
}

// Status reports whether a dataset is loaded.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Loaded:    s.loaded,
		DatasetID: s.datasetID,
		FileName:  s.fileName,
		Posts:     len(s.posts),
	}
}

// Selection returns the current filter selection.
func (s *Session) Selection() (engine.FilterSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return engine.FilterSelection{}, ErrNoDataset
	}
	return s.selection, nil
}

// SetSelection replaces the filter selection, clamps its date bounds to
// the dataset range, and recomputes every derived result. Previously
// generated insight text is invalidated.
func (s *Session) SetSelection(sel engine.FilterSelection) (engine.FilterSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return engine.FilterSelection{}, ErrNoDataset
	}
	s.selection = engine.ClampSelection(sel, s.posts)
	s.recomputeLocked()
	return s.selection, nil
}

// Aggregations returns the six derived tables for the current selection.
func (s *Session) Aggregations() (engine.Aggregations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return engine.Aggregations{}, ErrNoDataset
	}
	return s.aggs, nil
}

// Summary returns the headline metrics and any detected anomaly.
func (s *Session) Summary() (engine.Summary, *engine.Anomaly, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return engine.Summary{}, nil, ErrNoDataset
	}
	return s.summary, s.anomaly, nil
}

// Charts returns the render-ready chart configs for the current selection.
func (s *Session) Charts() (map[string]engine.ChartConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNoDataset
	}
	return engine.BuildCharts(s.aggs), nil
}

// FilteredCount returns how many posts survive the current selection.
func (s *Session) FilteredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filtered)
}

// Recomputes reports how many full pipeline passes have run.
func (s *Session) Recomputes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputes
}

// CachedInsight returns previously generated insight text for a kind, if
// still valid for the current selection.
func (s *Session) CachedInsight(kind insight.Kind) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.insights[kind]
	return text, ok
}

// CacheInsight stores generated insight text. It lives until the next
// dataset or filter mutation.
func (s *Session) CacheInsight(kind insight.Kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights[kind] = text
}

// recomputeLocked reruns filter, aggregation, and anomaly detection from
// the normalized set. Caller holds the mutex.
func (s *Session) recomputeLocked() {
	s.filtered = engine.ApplyFilters(s.posts, s.selection)
	s.aggs = engine.Aggregate(s.filtered)
	s.summary = engine.Summarize(s.filtered)
	s.anomaly = engine.DetectAnomaly(s.aggs.EngagementTrend)
	s.insights = make(map[insight.Kind]string)
	s.recomputes++
}

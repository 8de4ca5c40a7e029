package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medialens-io/medialens/engine"
	"github.com/medialens-io/medialens/insight"
	"github.com/medialens-io/medialens/session"
)

const dateLayout = "2006-01-02"

// filterPayload is the wire shape of a FilterSelection, with calendar
// dates as plain strings.
type filterPayload struct {
	Platform  string `json:"platform"`
	Sentiment string `json:"sentiment"`
	MediaType string `json:"media_type"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toPayload(sel engine.FilterSelection) filterPayload {
	p := filterPayload{
		Platform:  sel.Platform,
		Sentiment: sel.Sentiment,
		MediaType: sel.MediaType,
		Location:  sel.Location,
	}
	if !sel.StartDate.IsZero() {
		p.StartDate = sel.StartDate.Format(dateLayout)
	}
	if !sel.EndDate.IsZero() {
		p.EndDate = sel.EndDate.Format(dateLayout)
	}
	return p
}

func (p filterPayload) toSelection() (engine.FilterSelection, error) {
	sel := engine.FilterSelection{
		Platform:  p.Platform,
		Sentiment: p.Sentiment,
		MediaType: p.MediaType,
		Location:  p.Location,
	}
	if p.StartDate != "" {
		t, err := time.Parse(dateLayout, p.StartDate)
		if err != nil {
			return sel, err
		}
		sel.StartDate = t
	}
	if p.EndDate != "" {
		t, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return sel, err
		}
		sel.EndDate = t
	}
	return sel, nil
}

// uploadDataset ingests a CSV upload, either as the "file" multipart
// field or as the raw request body.
func (s *Server) uploadDataset(c *gin.Context) {
	data, name, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload: " + err.Error()})
		return
	}

	res, err := s.session.LoadCSV(name, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse CSV: " + err.Error()})
		return
	}

	if s.metrics != nil {
		s.metrics.DatasetsLoaded.Inc()
		s.metrics.RowsDropped.Add(float64(res.Dropped))
	}

	status := s.session.Status()
	c.JSON(http.StatusOK, gin.H{
		"dataset_id":      status.DatasetID,
		"file_name":       status.FileName,
		"loaded":          res.Loaded,
		"dropped":         res.Dropped,
		"missing_columns": res.MissingColumns,
	})
}

func readUpload(c *gin.Context) ([]byte, string, error) {
	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		return data, header.Filename, err
	}

	data, err := c.GetRawData()
	if err != nil {
		return nil, "", err
	}
	return data, "upload.csv", nil
}

func (s *Server) datasetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) clearDataset(c *gin.Context) {
	s.session.Clear()
	c.Status(http.StatusNoContent)
}

func (s *Server) getFilters(c *gin.Context) {
	sel, err := s.session.Selection()
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayload(sel))
}

// putFilters replaces the selection and triggers a full recompute. Date
// bounds outside the dataset range snap back to it.
func (s *Server) putFilters(c *gin.Context) {
	var payload filterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter payload: " + err.Error()})
		return
	}

	sel, err := payload.toSelection()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD: " + err.Error()})
		return
	}

	applied, err := s.session.SetSelection(sel)
	if err != nil {
		s.sessionError(c, err)
		return
	}
	if s.metrics != nil {
		s.metrics.Recomputes.Inc()
	}
	c.JSON(http.StatusOK, toPayload(applied))
}

func (s *Server) getSummary(c *gin.Context) {
	summary, anomaly, err := s.session.Summary()
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":        summary,
		"anomaly":        anomaly,
		"filtered_posts": s.session.FilteredCount(),
	})
}

func (s *Server) getAggregations(c *gin.Context) {
	aggs, err := s.session.Aggregations()
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, aggs)
}

func (s *Server) getCharts(c *gin.Context) {
	charts, err := s.session.Charts()
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, charts)
}

// generateInsight assembles the prompt payload for a kind and hands it to
// the LLM client. LLM failures degrade to an error response; the computed
// aggregations and filter state are untouched.
func (s *Server) generateInsight(c *gin.Context) {
	kind, err := insight.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if text, ok := s.session.CachedInsight(kind); ok {
		c.JSON(http.StatusOK, gin.H{"kind": kind, "insight": text, "cached": true})
		return
	}

	aggs, err := s.session.Aggregations()
	if err != nil {
		s.sessionError(c, err)
		return
	}
	summary, _, err := s.session.Summary()
	if err != nil {
		s.sessionError(c, err)
		return
	}

	payload, err := insight.BuildPayload(kind, aggs, summary)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.llm == nil {
		s.countInsight(kind, "unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insight generation unavailable: no LLM configured"})
		return
	}

	start := time.Now()
	text, err := s.llm.Generate(c.Request.Context(), payload)
	if s.metrics != nil {
		s.metrics.InsightDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.countInsight(kind, "error")
		s.log.WithError(err).WithField("kind", kind).Warn("insight generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "insight generation failed, please retry"})
		return
	}

	s.countInsight(kind, "ok")
	s.session.CacheInsight(kind, text)
	c.JSON(http.StatusOK, gin.H{"kind": kind, "insight": text, "cached": false})
}

func (s *Server) countInsight(kind insight.Kind, status string) {
	if s.metrics != nil {
		s.metrics.InsightRequests.WithLabelValues(string(kind), status).Inc()
	}
}

func (s *Server) sessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNoDataset) {
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrNoDataset.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

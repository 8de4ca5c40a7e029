package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/medialens-io/medialens/engine"
)

// ============================================================================
// CSV INGESTION — Raw upload bytes → normalized posts
// ============================================================================
// Header names are matched case-sensitively against the recognized set.
// A missing column defaults its field for every post (0 / "N/A") and is
// reported as a soft warning, never a hard rejection. Rows whose Date
// fails to parse are dropped silently; only the aggregate counts surface.
// ============================================================================

// Recognized header names. "Media_Type" and "Influencer/Brand" are
// accepted aliases seen in real exports.
const (
	colDate          = "Date"
	colEngagements   = "Engagements"
	colSentiment     = "Sentiment"
	colPlatform      = "Platform"
	colMediaType     = "Media Type"
	colMediaTypeAlt  = "Media_Type"
	colLocation      = "Location"
	colInfluencer    = "Influencer_Brand"
	colInfluencerAlt = "Influencer/Brand"
	colHeadline      = "Headline"
)

// Result is what one upload produced.
type Result struct {
	Posts          []engine.Post `json:"-"`
	Loaded         int           `json:"loaded"`
	Dropped        int           `json:"dropped"`
	MissingColumns []string      `json:"missing_columns,omitempty"`
}

// ParseCSV parses uploaded CSV bytes into normalized posts. Row order is
// preserved and rows are never merged. The only fatal condition is an
// unreadable header.
func ParseCSV(data []byte, log *logrus.Logger) (*Result, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := mapColumns(headers)
	res := &Result{MissingColumns: cols.missing()}

	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row (e.g. field count mismatch): skip, keep going.
			if log != nil {
				log.WithFields(logrus.Fields{"row": rowNum, "error": err.Error()}).Debug("skipping malformed row")
			}
			res.Dropped++
			continue
		}

		post, ok := normalizeRow(row, cols)
		if !ok {
			if log != nil {
				log.WithField("row", rowNum).Debug("skipping row with unparseable date")
			}
			res.Dropped++
			continue
		}
		res.Posts = append(res.Posts, post)
	}

	res.Loaded = len(res.Posts)
	if log != nil {
		log.WithFields(logrus.Fields{
			"loaded":  res.Loaded,
			"dropped": res.Dropped,
		}).Info("dataset ingested")
		for _, c := range res.MissingColumns {
			log.WithField("column", c).Warn("column absent, field defaulted")
		}
	}
	return res, nil
}

// columnMap holds the index of each recognized column, -1 when absent.
type columnMap struct {
	date, engagements, sentiment, platform, mediaType, location, influencer, headline int
}

func mapColumns(headers []string) columnMap {
	cols := columnMap{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case colDate:
			cols.date = i
		case colEngagements:
			cols.engagements = i
		case colSentiment:
			cols.sentiment = i
		case colPlatform:
			cols.platform = i
		case colMediaType, colMediaTypeAlt:
			cols.mediaType = i
		case colLocation:
			cols.location = i
		case colInfluencer, colInfluencerAlt:
			cols.influencer = i
		case colHeadline:
			cols.headline = i
		}
		// Unrecognized columns are silently skipped.
	}
	return cols
}

func (c columnMap) missing() []string {
	var missing []string
	if c.date < 0 {
		missing = append(missing, colDate)
	}
	if c.engagements < 0 {
		missing = append(missing, colEngagements)
	}
	if c.sentiment < 0 {
		missing = append(missing, colSentiment)
	}
	if c.platform < 0 {
		missing = append(missing, colPlatform)
	}
	if c.mediaType < 0 {
		missing = append(missing, colMediaType)
	}
	if c.location < 0 {
		missing = append(missing, colLocation)
	}
	if c.influencer < 0 {
		missing = append(missing, colInfluencer)
	}
	return missing
}

// normalizeRow builds a Post from one CSV row. Returns ok=false only when
// the date cannot be parsed; every other field falls back to its default.
func normalizeRow(row []string, cols columnMap) (engine.Post, bool) {
	date, ok := ParseDate(cell(row, cols.date))
	if !ok {
		return engine.Post{}, false
	}

	return engine.Post{
		Date:            date,
		Engagements:     parseEngagements(cell(row, cols.engagements)),
		Sentiment:       textField(cell(row, cols.sentiment)),
		Platform:        textField(cell(row, cols.platform)),
		MediaType:       textField(cell(row, cols.mediaType)),
		Location:        textField(cell(row, cols.location)),
		InfluencerBrand: textField(cell(row, cols.influencer)),
		Headline:        strings.TrimSpace(cell(row, cols.headline)),
	}, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// textField normalizes a string cell: trimmed, empty becomes the
// placeholder so grouping keys are never empty.
func textField(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return engine.Placeholder
	}
	return s
}

// parseEngagements normalizes the count: non-numeric or missing is 0,
// fractional values truncate, negatives clamp to zero.
func parseEngagements(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

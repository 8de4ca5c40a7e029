package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the analytics pipeline.
type Metrics struct {
	DatasetsLoaded  prometheus.Counter
	RowsDropped     prometheus.Counter
	Recomputes      prometheus.Counter
	InsightRequests *prometheus.CounterVec
	InsightDuration *prometheus.HistogramVec
}

// New registers the pipeline metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DatasetsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "medialens_datasets_loaded_total",
			Help: "Datasets successfully ingested",
		}),
		RowsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "medialens_rows_dropped_total",
			Help: "Input rows dropped during ingestion",
		}),
		Recomputes: factory.NewCounter(prometheus.CounterOpts{
			Name: "medialens_pipeline_recomputes_total",
			Help: "Full filter/aggregate/detect recomputation passes",
		}),
		InsightRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medialens_insight_requests_total",
			Help: "Insight generations by kind and status",
		}, []string{"kind", "status"}),
		InsightDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medialens_insight_duration_seconds",
			Help:    "Insight generation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

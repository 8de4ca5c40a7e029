package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/medialens-io/medialens/config"
	"github.com/medialens-io/medialens/insight"
	"github.com/medialens-io/medialens/metrics"
	"github.com/medialens-io/medialens/session"
)

// ============================================================================
// HTTP SERVER — The API surface the dashboard UI consumes
// ============================================================================

// Config represents server configuration.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Port:         config.GetEnv("PORT", "8080"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Server wires the session, the LLM client, and metrics behind gin
// handlers.
type Server struct {
	log     *logrus.Logger
	session *session.Session
	llm     insight.Generator
	metrics *metrics.Metrics
}

// New creates a Server. llm may be nil, in which case insight requests
// report the degraded state.
func New(log *logrus.Logger, sess *session.Session, llm insight.Generator, m *metrics.Metrics) *Server {
	return &Server{log: log, session: sess, llm: llm, metrics: m}
}

// Router builds the gin router with all API routes, health, and metrics.
func (s *Server) Router(registry *prometheus.Registry) *gin.Engine {
	if config.GetEnv("GIN_MODE", "debug") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(s.requestLogger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "medialens"})
	})
	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.POST("/dataset", s.uploadDataset)
		api.GET("/dataset", s.datasetStatus)
		api.DELETE("/dataset", s.clearDataset)
		api.GET("/filters", s.getFilters)
		api.PUT("/filters", s.putFilters)
		api.GET("/summary", s.getSummary)
		api.GET("/aggregations", s.getAggregations)
		api.GET("/charts", s.getCharts)
		api.POST("/insights/:kind", s.generateInsight)
	}

	return router
}

// requestLogger logs each request with method, path, status, and latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func Start(cfg Config, router *gin.Engine, log *logrus.Logger) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Package main provides the medialens CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/medialens-io/medialens/config"
	"github.com/medialens-io/medialens/insight"
	"github.com/medialens-io/medialens/logging"
	"github.com/medialens-io/medialens/metrics"
	"github.com/medialens-io/medialens/server"
	"github.com/medialens-io/medialens/session"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the medialens CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "medialens",
		Short:   "Media-performance analytics backend",
		Long:    "Medialens ingests social-media post exports, computes the dashboard aggregations, and serves AI-generated campaign insights.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("medialens version {{.Version}}\n")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())

	return rootCmd
}

// newServeCmd creates the serve subcommand: the HTTP API for the
// dashboard UI.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLoggerWithService("medialens")
			config.LoadEnv(logger)

			logger.Info("starting medialens API")

			registry := prometheus.NewRegistry()
			m := metrics.New(registry)

			var llm insight.Generator
			if apiKey := config.GetEnv("GEMINI_API_KEY", ""); apiKey != "" {
				llm = insight.NewClient(insight.Config{
					APIKey: apiKey,
					Model:  config.GetEnv("GEMINI_MODEL", ""),
				})
			} else {
				logger.Warn("GEMINI_API_KEY not set, insight generation disabled")
			}

			sess := session.New(logger)
			srv := server.New(logger, sess, llm, m)
			return server.Start(server.DefaultConfig(), srv.Router(registry), logger)
		},
	}
}

// newAnalyzeCmd creates the analyze subcommand: one-shot CSV analysis on
// the command line.
func newAnalyzeCmd() *cobra.Command {
	var (
		filePath    string
		insightKind string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "analyze --file data.csv",
		Short: "Analyze a CSV export and print the derived tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLoggerWithService("medialens")
			config.LoadEnv(logger)

			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("read %s: %w", filePath, err)
			}

			sess := session.New(logger)
			res, err := sess.LoadCSV(filepath.Base(filePath), data)
			if err != nil {
				return err
			}

			aggs, err := sess.Aggregations()
			if err != nil {
				return err
			}
			summary, anomaly, err := sess.Summary()
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"loaded":       res.Loaded,
				"dropped":      res.Dropped,
				"summary":      summary,
				"anomaly":      anomaly,
				"aggregations": aggs,
			}
			if len(res.MissingColumns) > 0 {
				out["missing_columns"] = res.MissingColumns
			}

			if insightKind != "" {
				kind, err := insight.ParseKind(insightKind)
				if err != nil {
					return err
				}
				apiKey := config.GetEnv("GEMINI_API_KEY", "")
				if apiKey == "" {
					return fmt.Errorf("GEMINI_API_KEY required for --insight")
				}
				payload, err := insight.BuildPayload(kind, aggs, summary)
				if err != nil {
					return err
				}
				client := insight.NewClient(insight.Config{
					APIKey: apiKey,
					Model:  config.GetEnv("GEMINI_MODEL", ""),
				})
				ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
				defer cancel()
				text, err := client.Generate(ctx, payload)
				if err != nil {
					return fmt.Errorf("insight generation failed: %w", err)
				}
				out["insight"] = map[string]string{"kind": string(kind), "text": text}
			}

			return writeJSON(os.Stdout, out, format)
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Path to CSV data file (required)")
	cmd.Flags().StringVar(&insightKind, "insight", "", "Also generate an insight: sentiment, trend, platform, media, location, influencer, strategy")
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: json, pretty")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func writeJSON(w *os.File, v interface{}, format string) error {
	var out []byte
	var err error
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

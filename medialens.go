// Package medialens is a media-performance analytics backend.
//
// A dashboard uploads a CSV of social-media posts, applies filters, and
// reads back aggregate tables, render-ready chart configs, and
// AI-generated insight text.
//
// Layout:
//
//	ingest   — CSV → normalized posts (permissive dates, defaulted fields)
//	engine   — filtering, the six aggregations, anomaly detection, charts
//	insight  — prompt payload assembly + Gemini client
//	session  — the mutable dashboard session (dataset, filters, recompute)
//	server   — HTTP API consumed by the UI
//
// The engine never calls any external service. The only network boundary
// is the insight client.
package medialens

// Package logging assembles structured slog loggers and formatting helpers used
// across asciify.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with job IDs, stages, and batch numbers. The package also provides a
// no-op logger for tests and a progress sampler that keeps per-frame progress
// from flooding the log.
package logging

// Package services defines shared utilities consumed by the job runner, the
// media pipelines, and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, batch numbers, and
//     media kinds for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the job failure taxonomy (validation, render, tool, io).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the pipelines.
package services

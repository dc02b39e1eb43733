// Package services defines shared utilities consumed by the pipeline stage
// handlers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and playlist names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (missing input, invalid data, browser/tool failure, timeout).
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services

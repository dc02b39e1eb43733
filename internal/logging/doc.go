// Package logging assembles the structured slog loggers used by playshot.
//
// A console handler renders human-friendly lines (colored on terminals) and a
// JSON handler emits machine-readable records; NewFromConfig writes the same
// stream to stdout and to a per-run file under the log directory. Context
// helpers tag lines with the run ID, stage, and playlist carried by the
// services context, and CleanupOldLogs prunes run logs past retention.
package logging

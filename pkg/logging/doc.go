// Package logging provides structured logging utilities for the provisioner.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every stage of a provisioning run logs in the same shape. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// Structured logs are diagnostics only. The human-readable progress lines a
// run prints go to stdout through the pipeline driver and are not logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages, e.g. a stale certificate being reused
//   - ERROR: Failures that abort the run
//
// # Usage
//
// Setting the default logger:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("passingcircle-setup", version)
//	    slog.Info("rendering template", "source", src)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("passingcircle-setup", version, "debug")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity when no
// explicit level is given:
//
//	LOG_LEVEL=debug passingcircle-setup
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "stage complete",
//	    "module": "passingcircle-setup",
//	    "version": "v1.0.0",
//	    "stage": "secrets"
//	}
package logging

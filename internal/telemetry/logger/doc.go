// Package logger provides structured logging for LiveWatch.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: Handler configuration and initialization
//   - context.go: Context-aware logging with run/live IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of cookies, tokens, and signature values
//   - Context propagation for session correlation
//
// @req RQ-0403
// @design DS-0402
package logger

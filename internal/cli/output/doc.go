// Package output provides output formatting for the livewatch CLI.
//
// This package handles all CLI output formatting:
//
//   - format.go: output format selection
//   - json.go: JSON output formatting
//   - table.go: aligned table rendering
//
// Commands render human-readable tables by default and switch to
// machine-readable JSON with the global --output flag.
//
// @design DS-0601
package output

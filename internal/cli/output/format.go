// Package output provides output formatting for livewatch.
package output

// Format represents the output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Package command provides CLI command definitions for livewatch.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, config assembly
//   - record.go: Recording command
//   - sessions.go: Persisted session listing command
//   - version.go: Version command
//
// Commands follow a consistent pattern of parsing flags, loading
// configuration, and delegating to the recorder and storage packages.
//
// @req RQ-0602
// @design DS-0601
package command

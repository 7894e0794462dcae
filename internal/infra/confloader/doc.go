// Package confloader provides configuration loading mechanism.
//
// This package implements a flexible configuration loader built on
// koanf, plus an fsnotify-based file watcher used for hot reload.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (applied by the CLI layer)
//  2. Environment variables (LIVEWATCH_*)
//  3. Configuration file (YAML)
//  4. Default values
//
// The watcher is shared infrastructure: the record command uses it to
// reload the signature script when the file changes on disk.
//
// @design DS-0502
// @adr AD-0501
package confloader

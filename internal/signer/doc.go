// Package signer computes the signature required to open a push
// connection to a live room.
//
// This package implements signature generation:
//
//   - signer.go: Signer interface and canonical parameter digest
//   - script.go: script-backed signer evaluated in an embedded JS VM
//
// The remote endpoint validates a signature computed from a fixed
// subset of the connection URL parameters. The digest is stable and
// documented; the final transform lives in a JavaScript bundle that
// changes from time to time, so it is loaded from disk and can be
// reloaded without restarting.
//
// @req RQ-0203
// @design DS-0304
package signer

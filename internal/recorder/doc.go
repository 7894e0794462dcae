// Package recorder runs one recording session end to end.
//
// The recorder owns the bootstrap sequence (room resolution, session
// ordinal, snapshot writer, push socket) and the two long-lived loops
// that follow: dispatching inbound frames into the aggregate store and
// persisting the aggregate on a fixed cadence. Stop unwinds the same
// pieces in reverse and finishes with one final snapshot.
//
// Room resolution and auth-token harvest are best effort: a session
// degrades to recording under the live id with no cookie rather than
// refusing to start. Only the push socket itself is load-bearing.
//
// @req RQ-0102
// @design DS-0103
package recorder

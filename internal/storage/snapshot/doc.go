// Package snapshot persists session aggregates as JSON documents.
//
// One session owns one file:
//
//	<live_id>_<ordinal>_<date>.json
//
// Every save rewrites the whole document through a temp file and an
// atomic rename, so a crash mid-write leaves the previous complete
// snapshot in place and costs at most the delta since the last save.
//
// The ordinal in the name is the per-live-id recording sequence
// number; NextOrdinal derives it at startup by scanning the data
// directory for earlier recordings of the same room.
//
// @design DS-0106
package snapshot

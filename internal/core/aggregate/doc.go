// Package aggregate maintains the running statistics for one recording
// session.
//
// A single Store accumulates every decoded audience event and produces
// point-in-time copies for the snapshot writer. All mutation and all
// reads go through one mutex: the read loop, the snapshot ticker, and
// the shutdown path may touch the store concurrently, and a snapshot
// must never observe a partially applied event.
//
// @req RQ-0301
// @design DS-0301
package aggregate

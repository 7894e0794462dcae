// Package connection maintains the push socket to a live room.
//
// This package implements the socket lifecycle:
//
//   - state.go: connection state machine
//   - url.go: push endpoint URL composition and signing
//   - manager.go: dial, read loop, heartbeat, reconnect, ack sending
//
// The manager owns the socket. Inbound frames are parsed and handed
// to the consumer over a channel; the channel closes when the manager
// terminates. Writes (acks, heartbeats, pings, close) are serialised
// through one mutex.
//
// Retry policy is asymmetric. The initial connect makes a bounded
// number of attempts and fails fast on signature errors, because a
// bad signature never fixes itself by retrying. Once a session has
// connected, a dropped socket is retried on a flat delay for as long
// as the session runs.
//
// @req RQ-0202
// @design DS-0303
package connection

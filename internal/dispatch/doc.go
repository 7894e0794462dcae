// Package dispatch routes decoded push frames into the session
// aggregate.
//
// This package implements the inbound event pipeline:
//
//   - dispatcher.go: batch decode, ack handling, per-method routing
//
// A Dispatcher consumes the frames the connection manager produces,
// decompresses and decodes each batch, acknowledges it when the
// service asks, and applies every recognised event to the aggregate
// store. The dispatcher is the store's only writer.
//
// One malformed message never poisons its batch: decode failures are
// counted, logged under a rate limit, and skipped, and the remaining
// messages still apply.
//
// @req RQ-0302
// @design DS-0305
package dispatch

// Package protocol implements the wire codec for the live room's push
// channel.
//
// The remote service multiplexes audience events over one socket as
// protobuf-framed binary messages: an outer envelope (frame) carries a
// gzip-compressed event batch, and each batch message carries a
// method tag plus an opaque event payload.
//
// Decoders are written directly against protowire rather than generated
// code: the schema is not published, field numbers were recovered from
// the service's web client, and only a handful of fields matter here.
// Unknown fields are skipped, truncated input returns a coded error,
// and nothing in this package panics on hostile bytes.
//
// @req RQ-0201
// @design DS-0201
package protocol

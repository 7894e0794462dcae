// Package protocol implements the wire codec for the live room's push
// channel.
package protocol

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Payload type tags carried in the envelope. Inbound event traffic is
// tagged "msg"; "ack" and "hb" appear on control frames.
const (
	PayloadTypeMessage   = "msg"
	PayloadTypeAck       = "ack"
	PayloadTypeHeartbeat = "hb"
)

// Envelope (PushFrame) field numbers on the wire.
const (
	frameFieldLogID       = 2
	frameFieldPayloadType = 7
	frameFieldPayload     = 8
)

// Frame is the outer envelope every socket message travels in.
type Frame struct {
	// LogID correlates a frame with its acknowledgement; acks echo it.
	LogID uint64

	// PayloadType is one of the PayloadType* constants.
	PayloadType string

	// Payload is the envelope body. For PayloadTypeMessage it is a
	// gzip-compressed event batch; for control frames it is empty or
	// an internal extension blob.
	Payload []byte
}

// IsControl reports whether the frame is an ack or heartbeat echo
// rather than an event batch carrier.
func (f *Frame) IsControl() bool {
	return f.PayloadType == PayloadTypeAck || f.PayloadType == PayloadTypeHeartbeat
}

// ParseFrame decodes an envelope. Unknown fields are skipped; malformed
// input yields a coded frame-decode error.
func ParseFrame(data []byte) (*Frame, error) {
	f := &Frame{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == frameFieldLogID && typ == protowire.VarintType:
			f.LogID = d.varint()
		case num == frameFieldPayloadType && typ == protowire.BytesType:
			f.PayloadType = string(d.bytes())
		case num == frameFieldPayload && typ == protowire.BytesType:
			f.Payload = d.bytes()
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, domain.ErrFrameDecode.WithCause(d.err)
	}

	return f, nil
}

// Marshal encodes the frame for sending. Zero values are omitted, as
// proto3 encoders do.
func (f *Frame) Marshal() []byte {
	var b []byte
	if f.LogID != 0 {
		b = protowire.AppendTag(b, frameFieldLogID, protowire.VarintType)
		b = protowire.AppendVarint(b, f.LogID)
	}
	if f.PayloadType != "" {
		b = protowire.AppendTag(b, frameFieldPayloadType, protowire.BytesType)
		b = protowire.AppendString(b, f.PayloadType)
	}
	if len(f.Payload) > 0 {
		b = protowire.AppendTag(b, frameFieldPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, f.Payload)
	}
	return b
}

// NewAck builds the acknowledgement for a batch-bearing frame: same
// log id, ack tag, and the batch's internal extension as payload.
func NewAck(logID uint64, internalExt string) *Frame {
	return &Frame{
		LogID:       logID,
		PayloadType: PayloadTypeAck,
		Payload:     []byte(internalExt),
	}
}

// NewHeartbeat builds a zero-length heartbeat frame. The log id is the
// current wall clock in milliseconds, which the service accepts as a
// send ordinal.
func NewHeartbeat() *Frame {
	return &Frame{
		LogID:       uint64(time.Now().UnixMilli()),
		PayloadType: PayloadTypeHeartbeat,
	}
}

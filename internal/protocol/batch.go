// Package protocol implements the wire codec for the live room's push
// channel.
package protocol

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Batch (Response) field numbers on the wire.
const (
	batchFieldMessages    = 1
	batchFieldCursor      = 2
	batchFieldInternalExt = 5
	batchFieldNeedsAck    = 9
)

// Batch message field numbers on the wire.
const (
	messageFieldMethod  = 1
	messageFieldPayload = 2
	messageFieldMsgID   = 3
)

// Batch is one decompressed envelope payload: a burst of event
// messages plus the ack bookkeeping the service expects back.
type Batch struct {
	Messages    []BatchMessage
	Cursor      string
	InternalExt string
	NeedsAck    bool
}

// BatchMessage is one multiplexed unit inside a batch. Payload is the
// still-encoded event body; the dispatcher picks a decoder by Method.
type BatchMessage struct {
	Method  string
	Payload []byte
	MsgID   int64
}

// ParseBatch decodes a decompressed batch. Unknown fields are skipped;
// malformed input yields a coded batch-decode error.
func ParseBatch(data []byte) (*Batch, error) {
	batch := &Batch{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == batchFieldMessages && typ == protowire.BytesType:
			raw := d.bytes()
			if d.err != nil {
				break
			}
			msg, err := parseBatchMessage(raw)
			if err != nil {
				return nil, err
			}
			batch.Messages = append(batch.Messages, msg)
		case num == batchFieldCursor && typ == protowire.BytesType:
			batch.Cursor = string(d.bytes())
		case num == batchFieldInternalExt && typ == protowire.BytesType:
			batch.InternalExt = string(d.bytes())
		case num == batchFieldNeedsAck && typ == protowire.VarintType:
			batch.NeedsAck = d.varint() != 0
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, domain.ErrBatchDecode.WithCause(d.err)
	}

	return batch, nil
}

func parseBatchMessage(data []byte) (BatchMessage, error) {
	var msg BatchMessage
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == messageFieldMethod && typ == protowire.BytesType:
			msg.Method = string(d.bytes())
		case num == messageFieldPayload && typ == protowire.BytesType:
			msg.Payload = d.bytes()
		case num == messageFieldMsgID && typ == protowire.VarintType:
			msg.MsgID = int64(d.varint())
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return msg, domain.ErrBatchDecode.WithCause(d.err)
	}

	return msg, nil
}

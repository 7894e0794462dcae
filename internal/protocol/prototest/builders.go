// Package prototest builds wire-format fixtures for codec, dispatch,
// and connection tests.
//
// Field numbers mirror the production decoders in internal/protocol;
// the builders intentionally live outside that package so production
// code carries no encode paths for inbound-only messages.
package prototest

import (
	"bytes"
	"compress/gzip"

	"google.golang.org/protobuf/encoding/protowire"
)

// Msg is one batch message fixture.
type Msg struct {
	Method  string
	Payload []byte
	MsgID   int64
}

// User encodes a user message.
func User(id uint64, nickname string) []byte {
	var b []byte
	b = varint(b, 1, id)
	b = str(b, 3, nickname)
	return b
}

// Chat encodes a chat event payload.
func Chat(userID uint64, nickname, content string) []byte {
	var b []byte
	b = raw(b, 2, User(userID, nickname))
	b = str(b, 3, content)
	return b
}

// Gift encodes a gift event payload.
func Gift(userID uint64, nickname, giftName string, repeat, diamond uint64) []byte {
	var detail []byte
	detail = varint(detail, 12, diamond)
	detail = str(detail, 16, giftName)

	var b []byte
	b = varint(b, 5, repeat)
	b = raw(b, 7, User(userID, nickname))
	b = raw(b, 15, detail)
	return b
}

// Member encodes an audience-entry payload.
func Member(userID uint64, nickname string, memberCount uint64) []byte {
	var b []byte
	b = raw(b, 2, User(userID, nickname))
	b = varint(b, 3, memberCount)
	return b
}

// Like encodes a like payload.
func Like(userID uint64, nickname string, count, total uint64) []byte {
	var b []byte
	b = varint(b, 2, count)
	b = varint(b, 3, total)
	b = raw(b, 5, User(userID, nickname))
	return b
}

// Social encodes a social payload.
func Social(userID uint64, nickname string, action, followCount uint64) []byte {
	var b []byte
	b = raw(b, 2, User(userID, nickname))
	b = varint(b, 4, action)
	b = varint(b, 6, followCount)
	return b
}

// RoomUserSeq encodes a room statistics payload.
func RoomUserSeq(total, totalUser int64) []byte {
	var b []byte
	b = varint(b, 3, uint64(total))
	b = varint(b, 7, uint64(totalUser))
	return b
}

// Batch encodes an uncompressed event batch.
func Batch(needsAck bool, internalExt string, msgs ...Msg) []byte {
	var b []byte
	for _, m := range msgs {
		var mb []byte
		mb = str(mb, 1, m.Method)
		mb = raw(mb, 2, m.Payload)
		if m.MsgID != 0 {
			mb = varint(mb, 3, uint64(m.MsgID))
		}
		b = raw(b, 1, mb)
	}
	b = str(b, 5, internalExt)
	if needsAck {
		b = varint(b, 9, 1)
	}
	return b
}

// Frame encodes an envelope with the given payload.
func Frame(logID uint64, payloadType string, payload []byte) []byte {
	var b []byte
	b = varint(b, 2, logID)
	b = str(b, 7, payloadType)
	b = raw(b, 8, payload)
	return b
}

// BatchFrame encodes the common inbound case: an envelope whose
// payload is the gzip-compressed batch.
func BatchFrame(logID uint64, internalExt string, needsAck bool, msgs ...Msg) []byte {
	return Frame(logID, "msg", Gzip(Batch(needsAck, internalExt, msgs...)))
}

// Gzip compresses data the way the push service does.
func Gzip(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

func varint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func str(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func raw(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// Package protocol implements the wire codec for the live room's push
// channel.
package protocol_test

import (
	"bytes"
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/protocol"
	"github.com/yndnr/livewatch-go/internal/protocol/prototest"
)

func TestParseFrame(t *testing.T) {
	data := prototest.Frame(12345, "msg", []byte("payload"))

	f, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame() error = %v", err)
	}
	if f.LogID != 12345 {
		t.Errorf("LogID = %d, want 12345", f.LogID)
	}
	if f.PayloadType != protocol.PayloadTypeMessage {
		t.Errorf("PayloadType = %q, want %q", f.PayloadType, protocol.PayloadTypeMessage)
	}
	if string(f.Payload) != "payload" {
		t.Errorf("Payload = %q, want %q", f.Payload, "payload")
	}
}

func TestParseFrame_SkipsUnknownFields(t *testing.T) {
	data := prototest.Frame(7, "msg", []byte("x"))

	// Stray fields the decoder does not know about.
	data = protowire.AppendTag(data, 1, protowire.VarintType) // seq id
	data = protowire.AppendVarint(data, 99)
	data = protowire.AppendTag(data, 6, protowire.BytesType) // payload encoding
	data = protowire.AppendString(data, "pb")

	f, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame() error = %v", err)
	}
	if f.LogID != 7 || string(f.Payload) != "x" {
		t.Errorf("frame = %+v, known fields should survive unknown neighbors", f)
	}
}

func TestParseFrame_Malformed(t *testing.T) {
	valid := prototest.Frame(1, "msg", []byte("abcdef"))

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated mid-field", valid[:len(valid)-3]},
		{"lone tag", []byte{0x12}},
		{"length prefix past end", []byte{0x3a, 0x7f, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := protocol.ParseFrame(tt.data)
			if err == nil {
				t.Fatal("ParseFrame() should fail")
			}
			if !domain.IsDomainError(err, "LW-PROTO-2001") {
				t.Errorf("error code = %q, want LW-PROTO-2001", domain.GetErrorCode(err))
			}
		})
	}
}

func TestFrame_MarshalRoundTrip(t *testing.T) {
	ack := protocol.NewAck(42, "internal_src:dim|seq:1")

	parsed, err := protocol.ParseFrame(ack.Marshal())
	if err != nil {
		t.Fatalf("ParseFrame() error = %v", err)
	}
	if parsed.LogID != 42 {
		t.Errorf("LogID = %d, want 42", parsed.LogID)
	}
	if parsed.PayloadType != protocol.PayloadTypeAck {
		t.Errorf("PayloadType = %q, want ack", parsed.PayloadType)
	}
	if string(parsed.Payload) != "internal_src:dim|seq:1" {
		t.Errorf("Payload = %q, want internal ext echoed", parsed.Payload)
	}
}

func TestFrame_IsControl(t *testing.T) {
	tests := []struct {
		payloadType string
		want        bool
	}{
		{protocol.PayloadTypeMessage, false},
		{protocol.PayloadTypeAck, true},
		{protocol.PayloadTypeHeartbeat, true},
		{"", false},
	}

	for _, tt := range tests {
		f := &protocol.Frame{PayloadType: tt.payloadType}
		if got := f.IsControl(); got != tt.want {
			t.Errorf("IsControl(%q) = %v, want %v", tt.payloadType, got, tt.want)
		}
	}
}

func TestNewHeartbeat(t *testing.T) {
	hb := protocol.NewHeartbeat()

	if hb.PayloadType != protocol.PayloadTypeHeartbeat {
		t.Errorf("PayloadType = %q, want hb", hb.PayloadType)
	}
	if len(hb.Payload) != 0 {
		t.Errorf("Payload length = %d, want 0", len(hb.Payload))
	}
	if hb.LogID == 0 {
		t.Error("LogID should carry the send timestamp")
	}
}

func TestDecompress(t *testing.T) {
	raw := []byte("the quick brown fox")

	got, err := protocol.Decompress(prototest.Gzip(raw))
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Decompress() = %q, want %q", got, raw)
	}
}

func TestDecompress_NotGzip(t *testing.T) {
	_, err := protocol.Decompress([]byte("plainly not gzip"))
	if err == nil {
		t.Fatal("Decompress() should fail")
	}
	if !domain.IsDomainError(err, "LW-PROTO-2002") {
		t.Errorf("error code = %q, want LW-PROTO-2002", domain.GetErrorCode(err))
	}
}

func TestParseBatch(t *testing.T) {
	data := prototest.Batch(true, "ext-blob",
		prototest.Msg{Method: domain.MethodChat, Payload: []byte("p1"), MsgID: 11},
		prototest.Msg{Method: domain.MethodGift, Payload: []byte("p2"), MsgID: 12},
	)

	batch, err := protocol.ParseBatch(data)
	if err != nil {
		t.Fatalf("ParseBatch() error = %v", err)
	}
	if len(batch.Messages) != 2 {
		t.Fatalf("Messages = %d, want 2", len(batch.Messages))
	}
	if batch.Messages[0].Method != domain.MethodChat || string(batch.Messages[0].Payload) != "p1" {
		t.Errorf("message 0 = %+v", batch.Messages[0])
	}
	if batch.Messages[1].MsgID != 12 {
		t.Errorf("MsgID = %d, want 12", batch.Messages[1].MsgID)
	}
	if !batch.NeedsAck {
		t.Error("NeedsAck should be true")
	}
	if batch.InternalExt != "ext-blob" {
		t.Errorf("InternalExt = %q, want %q", batch.InternalExt, "ext-blob")
	}
}

func TestParseBatch_Malformed(t *testing.T) {
	valid := prototest.Batch(true, "ext", prototest.Msg{Method: "m", Payload: []byte("pppp")})

	_, err := protocol.ParseBatch(valid[:len(valid)-2])
	if err == nil {
		t.Fatal("ParseBatch() should fail")
	}
	if !domain.IsDomainError(err, "LW-PROTO-2003") {
		t.Errorf("error code = %q, want LW-PROTO-2003", domain.GetErrorCode(err))
	}
}

func TestDecodeBatchFrame(t *testing.T) {
	data := prototest.BatchFrame(99, "ext", true,
		prototest.Msg{Method: domain.MethodChat, Payload: prototest.Chat(5, "ann", "hello")},
	)

	frame, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame() error = %v", err)
	}
	if frame.IsControl() {
		t.Fatal("batch frame should not be control")
	}

	batch, err := protocol.DecodeBatchFrame(frame)
	if err != nil {
		t.Fatalf("DecodeBatchFrame() error = %v", err)
	}
	if len(batch.Messages) != 1 {
		t.Fatalf("Messages = %d, want 1", len(batch.Messages))
	}

	chat, err := protocol.ParseChat(batch.Messages[0].Payload)
	if err != nil {
		t.Fatalf("ParseChat() error = %v", err)
	}
	if chat.User.ID != 5 || chat.User.Nickname != "ann" || chat.Content != "hello" {
		t.Errorf("chat = %+v", chat)
	}
}

func TestDecodeBatchFrame_CorruptPayload(t *testing.T) {
	frame := &protocol.Frame{
		PayloadType: protocol.PayloadTypeMessage,
		Payload:     []byte("not compressed"),
	}

	_, err := protocol.DecodeBatchFrame(frame)
	if err == nil {
		t.Fatal("DecodeBatchFrame() should fail on uncompressed payload")
	}
	if !domain.IsParseError(err) {
		t.Errorf("error %v should be in the parse family", err)
	}
}

func TestParseGift(t *testing.T) {
	data := prototest.Gift(77, "bob", "rocket", 3, 1000)

	gift, err := protocol.ParseGift(data)
	if err != nil {
		t.Fatalf("ParseGift() error = %v", err)
	}
	if gift.RepeatCount != 3 {
		t.Errorf("RepeatCount = %d, want 3", gift.RepeatCount)
	}
	if gift.User.ID != 77 || gift.User.Nickname != "bob" {
		t.Errorf("User = %+v", gift.User)
	}
	if gift.Gift.Name != "rocket" || gift.Gift.DiamondCount != 1000 {
		t.Errorf("Gift = %+v", gift.Gift)
	}
}

func TestParseMember(t *testing.T) {
	data := prototest.Member(42, "carol", 356)

	member, err := protocol.ParseMember(data)
	if err != nil {
		t.Fatalf("ParseMember() error = %v", err)
	}
	if member.User.ID != 42 || member.User.Nickname != "carol" {
		t.Errorf("User = %+v", member.User)
	}
	if member.MemberCount != 356 {
		t.Errorf("MemberCount = %d, want 356", member.MemberCount)
	}
}

func TestParseLike(t *testing.T) {
	data := prototest.Like(8, "dave", 15, 120)

	like, err := protocol.ParseLike(data)
	if err != nil {
		t.Fatalf("ParseLike() error = %v", err)
	}
	if like.Count != 15 || like.Total != 120 {
		t.Errorf("like = %+v", like)
	}
	if like.User.Nickname != "dave" {
		t.Errorf("User = %+v", like.User)
	}
}

func TestParseSocial(t *testing.T) {
	data := prototest.Social(9, "erin", 1, 2048)

	social, err := protocol.ParseSocial(data)
	if err != nil {
		t.Fatalf("ParseSocial() error = %v", err)
	}
	if social.Action != 1 {
		t.Errorf("Action = %d, want 1", social.Action)
	}
	if social.FollowCount != 2048 {
		t.Errorf("FollowCount = %d, want 2048", social.FollowCount)
	}
	if social.User.ID != 9 {
		t.Errorf("User = %+v", social.User)
	}
}

func TestParseRoomUserSeq(t *testing.T) {
	data := prototest.RoomUserSeq(1500, 98765)

	seq, err := protocol.ParseRoomUserSeq(data)
	if err != nil {
		t.Fatalf("ParseRoomUserSeq() error = %v", err)
	}
	if seq.Total != 1500 {
		t.Errorf("Total = %d, want 1500", seq.Total)
	}
	if seq.TotalUser != 98765 {
		t.Errorf("TotalUser = %d, want 98765", seq.TotalUser)
	}
}

func TestParseEvent_TruncatedCarriesMethod(t *testing.T) {
	data := prototest.Chat(5, "ann", "hello")

	_, err := protocol.ParseChat(data[:len(data)-2])
	if err == nil {
		t.Fatal("ParseChat() should fail on truncated input")
	}
	if !domain.IsDomainError(err, "LW-PROTO-2004") {
		t.Errorf("error code = %q, want LW-PROTO-2004", domain.GetErrorCode(err))
	}
	var de *domain.DomainError
	if !errors.As(err, &de) || de.Details != domain.MethodChat {
		t.Errorf("error should carry the method tag, got %v", err)
	}
}

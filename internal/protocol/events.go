// Package protocol implements the wire codec for the live room's push
// channel.
package protocol

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Event message field numbers on the wire. Only the fields the
// aggregator consumes are decoded; everything else is skipped.
const (
	userFieldID       = 1
	userFieldShortID  = 2
	userFieldNickname = 3

	chatFieldUser    = 2
	chatFieldContent = 3

	giftFieldRepeatCount = 5
	giftFieldUser        = 7
	giftFieldDetail      = 15

	giftDetailFieldID           = 5
	giftDetailFieldDiamondCount = 12
	giftDetailFieldName         = 16

	memberFieldUser  = 2
	memberFieldCount = 3

	likeFieldCount = 2
	likeFieldTotal = 3
	likeFieldUser  = 5

	socialFieldUser        = 2
	socialFieldAction      = 4
	socialFieldFollowCount = 6

	roomSeqFieldTotal     = 3
	roomSeqFieldTotalUser = 7
)

// User identifies an audience member as carried inside event payloads.
type User struct {
	ID       uint64
	ShortID  uint64
	Nickname string
}

// ChatMessage is a decoded chat event payload.
type ChatMessage struct {
	User    User
	Content string
}

// GiftMessage is a decoded gift event payload.
type GiftMessage struct {
	RepeatCount uint64
	User        User
	Gift        GiftDetail
}

// GiftDetail describes the gift product attached to a gift event.
type GiftDetail struct {
	ID           uint64
	DiamondCount uint64
	Name         string
}

// MemberMessage is a decoded audience-entry payload. MemberCount is
// the room total at entry time, zero when the service omits it.
type MemberMessage struct {
	User        User
	MemberCount uint64
}

// LikeMessage is a decoded like payload. Count is the delta this
// message contributes; Total is the sender's running total.
type LikeMessage struct {
	Count uint64
	Total uint64
	User  User
}

// SocialMessage is a decoded social payload. Action selects the kind
// of interaction; follows arrive with domain.SocialActionFollow.
type SocialMessage struct {
	User        User
	Action      uint64
	FollowCount uint64
}

// RoomUserSeqMessage is a decoded room statistics payload. TotalUser
// is the cumulative audience; Total is the current viewer count.
type RoomUserSeqMessage struct {
	Total     int64
	TotalUser int64
}

// ParseChat decodes a chat event payload.
func ParseChat(data []byte) (*ChatMessage, error) {
	msg := &ChatMessage{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == chatFieldUser && typ == protowire.BytesType:
			d.user(&msg.User)
		case num == chatFieldContent && typ == protowire.BytesType:
			msg.Content = string(d.bytes())
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, eventDecodeError(domain.MethodChat, d.err)
	}

	return msg, nil
}

// ParseGift decodes a gift event payload.
func ParseGift(data []byte) (*GiftMessage, error) {
	msg := &GiftMessage{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == giftFieldRepeatCount && typ == protowire.VarintType:
			msg.RepeatCount = d.varint()
		case num == giftFieldUser && typ == protowire.BytesType:
			d.user(&msg.User)
		case num == giftFieldDetail && typ == protowire.BytesType:
			d.giftDetail(&msg.Gift)
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, eventDecodeError(domain.MethodGift, d.err)
	}

	return msg, nil
}

// ParseMember decodes an audience-entry payload.
func ParseMember(data []byte) (*MemberMessage, error) {
	msg := &MemberMessage{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == memberFieldUser && typ == protowire.BytesType:
			d.user(&msg.User)
		case num == memberFieldCount && typ == protowire.VarintType:
			msg.MemberCount = d.varint()
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, eventDecodeError(domain.MethodMember, d.err)
	}

	return msg, nil
}

// ParseLike decodes a like payload.
func ParseLike(data []byte) (*LikeMessage, error) {
	msg := &LikeMessage{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == likeFieldCount && typ == protowire.VarintType:
			msg.Count = d.varint()
		case num == likeFieldTotal && typ == protowire.VarintType:
			msg.Total = d.varint()
		case num == likeFieldUser && typ == protowire.BytesType:
			d.user(&msg.User)
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, eventDecodeError(domain.MethodLike, d.err)
	}

	return msg, nil
}

// ParseSocial decodes a social payload (follows, shares).
func ParseSocial(data []byte) (*SocialMessage, error) {
	msg := &SocialMessage{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == socialFieldUser && typ == protowire.BytesType:
			d.user(&msg.User)
		case num == socialFieldAction && typ == protowire.VarintType:
			msg.Action = d.varint()
		case num == socialFieldFollowCount && typ == protowire.VarintType:
			msg.FollowCount = d.varint()
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, eventDecodeError(domain.MethodSocial, d.err)
	}

	return msg, nil
}

// ParseRoomUserSeq decodes a room statistics payload.
func ParseRoomUserSeq(data []byte) (*RoomUserSeqMessage, error) {
	msg := &RoomUserSeqMessage{}
	d := &decoder{b: data}

	for {
		num, typ, ok := d.next()
		if !ok {
			break
		}
		switch {
		case num == roomSeqFieldTotal && typ == protowire.VarintType:
			msg.Total = int64(d.varint())
		case num == roomSeqFieldTotalUser && typ == protowire.VarintType:
			msg.TotalUser = int64(d.varint())
		default:
			d.skip(num, typ)
		}
	}
	if d.err != nil {
		return nil, eventDecodeError(domain.MethodRoomUserSeq, d.err)
	}

	return msg, nil
}

// user decodes a nested User message in place.
func (d *decoder) user(u *User) {
	raw := d.bytes()
	if d.err != nil {
		return
	}

	nested := &decoder{b: raw}
	for {
		num, typ, ok := nested.next()
		if !ok {
			break
		}
		switch {
		case num == userFieldID && typ == protowire.VarintType:
			u.ID = nested.varint()
		case num == userFieldShortID && typ == protowire.VarintType:
			u.ShortID = nested.varint()
		case num == userFieldNickname && typ == protowire.BytesType:
			u.Nickname = string(nested.bytes())
		default:
			nested.skip(num, typ)
		}
	}
	if nested.err != nil {
		d.err = nested.err
	}
}

// giftDetail decodes a nested GiftDetail message in place.
func (d *decoder) giftDetail(g *GiftDetail) {
	raw := d.bytes()
	if d.err != nil {
		return
	}

	nested := &decoder{b: raw}
	for {
		num, typ, ok := nested.next()
		if !ok {
			break
		}
		switch {
		case num == giftDetailFieldID && typ == protowire.VarintType:
			g.ID = nested.varint()
		case num == giftDetailFieldDiamondCount && typ == protowire.VarintType:
			g.DiamondCount = nested.varint()
		case num == giftDetailFieldName && typ == protowire.BytesType:
			g.Name = string(nested.bytes())
		default:
			nested.skip(num, typ)
		}
	}
	if nested.err != nil {
		d.err = nested.err
	}
}

func eventDecodeError(method string, cause error) error {
	return domain.ErrEventDecode.WithDetails(method).WithCause(cause)
}

// Package domain defines the core domain models for LiveWatch.
package domain

import "time"

// Event method tags as they appear on the wire. The dispatcher routes
// decoded batch messages by these values; anything else is dropped.
const (
	MethodChat        = "WebcastChatMessage"
	MethodGift        = "WebcastGiftMessage"
	MethodMember      = "WebcastMemberMessage"
	MethodLike        = "WebcastLikeMessage"
	MethodSocial      = "WebcastSocialMessage"
	MethodRoomUserSeq = "WebcastRoomUserSeqMessage"
)

// SocialActionFollow is the social-message action value that denotes a
// new follow. Other actions (shares, etc.) are ignored.
const SocialActionFollow = 1

// ChatEvent is one chat message observed on the stream.
type ChatEvent struct {
	Timestamp time.Time
	UserID    string
	Nickname  string
	Content   string
}

// GiftEvent is one gift send, possibly covering several repeats of the
// same gift in a combo.
type GiftEvent struct {
	Timestamp   time.Time
	UserID      string
	Nickname    string
	GiftName    string
	RepeatCount int64
	UnitValue   int64
}

// TotalValue returns the value contributed by this event.
func (e GiftEvent) TotalValue() int64 {
	return e.UnitValue * e.RepeatCount
}

// MemberEvent is an audience-entry announcement. ViewerCount is the
// room total carried alongside, zero when absent.
type MemberEvent struct {
	Timestamp   time.Time
	UserID      string
	Nickname    string
	ViewerCount int64
}

// LikeEvent carries a like-count delta plus the sender's running total.
type LikeEvent struct {
	Timestamp time.Time
	UserID    string
	Nickname  string
	Delta     int64
	Total     int64
}

// FollowEvent is a new-follower announcement.
type FollowEvent struct {
	Timestamp     time.Time
	UserID        string
	Nickname      string
	FollowerCount int64
}

// ViewerCountEvent is a room-wide audience statistics update. Viewers
// is absolute, not a delta.
type ViewerCountEvent struct {
	Timestamp time.Time
	Viewers   int64
}

package snapshot

import (
	"time"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Document is the persisted form of one session. Field order follows
// the struct; collections arrive already in their canonical order
// (chat/follow logs in wire order, members and gift senders in first
// seen order, gift names sorted by the JSON encoder).
type Document struct {
	LiveID       string                      `json:"live_id"`
	RoomID       string                      `json:"room_id"`
	Session      int                         `json:"session"`
	Date         string                      `json:"date"`
	IsLive       bool                        `json:"is_live"`
	TotalViewers int64                       `json:"total_viewers"`
	TotalLikes   int64                       `json:"total_likes"`
	ChatMessages []domain.ChatRecord         `json:"chat_messages"`
	Gifts        map[string]*domain.GiftStat `json:"gifts"`
	Members      []string                    `json:"members"`
	Follows      []domain.FollowRecord       `json:"follows"`
	Stats        Stats                       `json:"stats"`
}

// Stats is the derived summary block attached to every save.
type Stats struct {
	TotalChatMessages int    `json:"total_chat_messages"`
	TotalMembers      int    `json:"total_members"`
	TotalFollows      int    `json:"total_follows"`
	TotalGiftTypes    int    `json:"total_gift_types"`
	SaveTime          string `json:"save_time"`
}

// newDocument assembles the persisted document for one save.
func newDocument(session *domain.Session, agg *domain.Aggregate, savedAt time.Time) *Document {
	doc := &Document{
		LiveID:       session.LiveID,
		RoomID:       session.RoomID,
		Session:      session.Ordinal,
		Date:         session.Date,
		IsLive:       agg.IsLive,
		TotalViewers: agg.TotalViewers,
		TotalLikes:   agg.TotalLikes,
		ChatMessages: agg.ChatMessages,
		Gifts:        agg.Gifts,
		Members:      agg.Members,
		Follows:      agg.Follows,
		Stats: Stats{
			TotalChatMessages: len(agg.ChatMessages),
			TotalMembers:      len(agg.Members),
			TotalFollows:      len(agg.Follows),
			TotalGiftTypes:    len(agg.Gifts),
			SaveTime:          savedAt.Format(time.RFC3339),
		},
	}

	// Empty collections persist as [] / {}, not null; downstream
	// consumers of the files index into these unconditionally.
	if doc.ChatMessages == nil {
		doc.ChatMessages = []domain.ChatRecord{}
	}
	if doc.Gifts == nil {
		doc.Gifts = map[string]*domain.GiftStat{}
	}
	if doc.Members == nil {
		doc.Members = []string{}
	}
	if doc.Follows == nil {
		doc.Follows = []domain.FollowRecord{}
	}

	return doc
}

// Package aggregate maintains the running statistics for one recording
// session.
package aggregate

import (
	"sync"
	"time"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Store accumulates audience events for one session.
//
// All methods are safe for concurrent use. Snapshot returns deep copies,
// so callers never hold references into live state.
type Store struct {
	mu sync.Mutex

	totalViewers int64
	totalLikes   int64
	isLive       bool

	chats []domain.ChatRecord

	// gifts is keyed by gift name; giftSenders carries the per-gift
	// display-name dedup set backing GiftStat.Senders.
	gifts       map[string]*domain.GiftStat
	giftSenders map[string]map[string]struct{}

	// members keeps insertion order; memberSeen backs the permanent
	// per-session user-id dedup.
	members    []string
	memberSeen map[string]struct{}

	follows []domain.FollowRecord
}

// Counts is a cheap summary of the store for progress logging.
type Counts struct {
	Chats     int
	Members   int
	Follows   int
	GiftKinds int
	Likes     int64
	Viewers   int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		gifts:       make(map[string]*domain.GiftStat),
		giftSenders: make(map[string]map[string]struct{}),
		memberSeen:  make(map[string]struct{}),
	}
}

// ApplyChat appends a chat message. The chat log is unbounded and
// never dedups.
func (s *Store) ApplyChat(e domain.ChatEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats = append(s.chats, domain.ChatRecord{
		Timestamp: recordTime(e.Timestamp),
		UserID:    e.UserID,
		Nickname:  e.Nickname,
		Content:   e.Content,
		Type:      "chat",
	})
}

// ApplyGift upserts the stat for the event's gift name: count grows by
// the repeat count, value by unit value times repeat count. The sender
// display name is added to the per-gift sender set; that set is
// presentation-only and never feeds back into the totals.
func (s *Store) ApplyGift(e domain.GiftEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stat, ok := s.gifts[e.GiftName]
	if !ok {
		stat = &domain.GiftStat{}
		s.gifts[e.GiftName] = stat
		s.giftSenders[e.GiftName] = make(map[string]struct{})
	}

	stat.Count += e.RepeatCount
	stat.TotalValue += e.TotalValue()

	if e.Nickname != "" {
		seen := s.giftSenders[e.GiftName]
		if _, dup := seen[e.Nickname]; !dup {
			seen[e.Nickname] = struct{}{}
			stat.Senders = append(stat.Senders, e.Nickname)
		}
	}
}

// ApplyMember records an audience entry. The dedup is keyed on user id
// and is permanent for the session: re-entry of a seen id is a no-op.
// The members list itself carries display names. When the event carries
// a room total it also overwrites the viewer count.
// The returned bool reports whether the member was new.
func (s *Store) ApplyMember(e domain.MemberEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ViewerCount > 0 {
		s.totalViewers = e.ViewerCount
	}

	if _, dup := s.memberSeen[e.UserID]; dup {
		return false
	}
	s.memberSeen[e.UserID] = struct{}{}
	s.members = append(s.members, e.Nickname)
	return true
}

// ApplyLike accumulates the like delta.
func (s *Store) ApplyLike(e domain.LikeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalLikes += e.Delta
}

// ApplyFollow appends a follow record. Follows are not dedupped:
// unfollow/refollow churn is part of the signal.
func (s *Store) ApplyFollow(e domain.FollowEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.follows = append(s.follows, domain.FollowRecord{
		Timestamp: recordTime(e.Timestamp),
		UserID:    e.UserID,
		Nickname:  e.Nickname,
	})
}

// ApplyViewerCount overwrites the room viewer total. Last write wins;
// the stream itself is the ordering authority.
func (s *Store) ApplyViewerCount(e domain.ViewerCountEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalViewers = e.Viewers
}

// SetIsLive records the room's live status as of resolution.
func (s *Store) SetIsLive(live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isLive = live
}

// Snapshot returns a deep copy of the current aggregate. The copy is
// taken under the same mutex as every mutation, so it always reflects
// a consistent point in time.
func (s *Store) Snapshot() *domain.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg := &domain.Aggregate{
		TotalViewers: s.totalViewers,
		TotalLikes:   s.totalLikes,
		IsLive:       s.isLive,
		ChatMessages: make([]domain.ChatRecord, len(s.chats)),
		Gifts:        make(map[string]*domain.GiftStat, len(s.gifts)),
		Members:      make([]string, len(s.members)),
		Follows:      make([]domain.FollowRecord, len(s.follows)),
	}

	copy(agg.ChatMessages, s.chats)
	copy(agg.Members, s.members)
	copy(agg.Follows, s.follows)
	for name, stat := range s.gifts {
		agg.Gifts[name] = stat.Clone()
	}

	return agg
}

// Counts returns the current summary counters.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Counts{
		Chats:     len(s.chats),
		Members:   len(s.members),
		Follows:   len(s.follows),
		GiftKinds: len(s.gifts),
		Likes:     s.totalLikes,
		Viewers:   s.totalViewers,
	}
}

// recordTime formats an event timestamp for persistence.
func recordTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(domain.TimestampLayout)
}

// Package aggregate maintains the running statistics for one recording
// session.
package aggregate

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

func TestStore_ApplyChat(t *testing.T) {
	s := New()
	now := time.Now()

	s.ApplyChat(domain.ChatEvent{Timestamp: now, UserID: "1", Nickname: "a", Content: "hello"})
	s.ApplyChat(domain.ChatEvent{Timestamp: now, UserID: "1", Nickname: "a", Content: "hello"})

	agg := s.Snapshot()
	if len(agg.ChatMessages) != 2 {
		t.Fatalf("ChatMessages = %d, want 2 (identical messages are both kept)", len(agg.ChatMessages))
	}
	if agg.ChatMessages[0].Type != "chat" {
		t.Errorf("Type = %q, want %q", agg.ChatMessages[0].Type, "chat")
	}
	if agg.ChatMessages[0].Timestamp != now.Format(domain.TimestampLayout) {
		t.Errorf("Timestamp = %q, want %q", agg.ChatMessages[0].Timestamp, now.Format(domain.TimestampLayout))
	}
}

func TestStore_ApplyGift(t *testing.T) {
	s := New()

	// Interleave two gift names from two senders.
	s.ApplyGift(domain.GiftEvent{UserID: "1", Nickname: "a", GiftName: "rose", RepeatCount: 3, UnitValue: 1})
	s.ApplyGift(domain.GiftEvent{UserID: "2", Nickname: "b", GiftName: "rocket", RepeatCount: 1, UnitValue: 1000})
	s.ApplyGift(domain.GiftEvent{UserID: "1", Nickname: "a", GiftName: "rose", RepeatCount: 5, UnitValue: 1})
	s.ApplyGift(domain.GiftEvent{UserID: "2", Nickname: "b", GiftName: "rose", RepeatCount: 2, UnitValue: 1})

	agg := s.Snapshot()

	rose, ok := agg.Gifts["rose"]
	if !ok {
		t.Fatal("rose stat missing")
	}
	if rose.Count != 10 {
		t.Errorf("rose Count = %d, want 10", rose.Count)
	}
	if rose.TotalValue != 10 {
		t.Errorf("rose TotalValue = %d, want 10", rose.TotalValue)
	}
	if len(rose.Senders) != 2 {
		t.Errorf("rose Senders = %v, want 2 distinct display names", rose.Senders)
	}

	rocket, ok := agg.Gifts["rocket"]
	if !ok {
		t.Fatal("rocket stat missing")
	}
	if rocket.Count != 1 || rocket.TotalValue != 1000 {
		t.Errorf("rocket = %+v, want Count 1 TotalValue 1000", rocket)
	}
}

func TestStore_ApplyGift_SenderDedupDoesNotTouchTotals(t *testing.T) {
	s := New()

	// Same sender three times: sender set stays at one entry, totals grow.
	for i := 0; i < 3; i++ {
		s.ApplyGift(domain.GiftEvent{UserID: "1", Nickname: "a", GiftName: "rose", RepeatCount: 1, UnitValue: 52})
	}

	agg := s.Snapshot()
	rose := agg.Gifts["rose"]
	if len(rose.Senders) != 1 {
		t.Errorf("Senders = %v, want 1 entry", rose.Senders)
	}
	if rose.Count != 3 {
		t.Errorf("Count = %d, want 3", rose.Count)
	}
	if rose.TotalValue != 156 {
		t.Errorf("TotalValue = %d, want 156", rose.TotalValue)
	}
}

func TestStore_ApplyMember_Dedup(t *testing.T) {
	s := New()

	if !s.ApplyMember(domain.MemberEvent{UserID: "42", Nickname: "a"}) {
		t.Error("first entry should report new")
	}
	for i := 0; i < 5; i++ {
		if s.ApplyMember(domain.MemberEvent{UserID: "42", Nickname: "a"}) {
			t.Error("re-entry should be a no-op")
		}
	}
	s.ApplyMember(domain.MemberEvent{UserID: "43", Nickname: "b"})

	agg := s.Snapshot()
	if len(agg.Members) != 2 {
		t.Fatalf("Members = %v, want exactly 2", agg.Members)
	}
	if agg.Members[0] != "a" || agg.Members[1] != "b" {
		t.Errorf("Members = %v, want display names in entry order [a b]", agg.Members)
	}
}

func TestStore_ApplyMember_CarriesViewerCount(t *testing.T) {
	s := New()

	s.ApplyMember(domain.MemberEvent{UserID: "1", ViewerCount: 120})
	if got := s.Counts().Viewers; got != 120 {
		t.Errorf("Viewers = %d, want 120", got)
	}

	// Zero means the event carried no room total; keep the last value.
	s.ApplyMember(domain.MemberEvent{UserID: "2", ViewerCount: 0})
	if got := s.Counts().Viewers; got != 120 {
		t.Errorf("Viewers = %d, want 120 after event without total", got)
	}
}

func TestStore_ApplyViewerCount_LastWriteWins(t *testing.T) {
	s := New()

	s.ApplyViewerCount(domain.ViewerCountEvent{Viewers: 500})
	s.ApplyViewerCount(domain.ViewerCountEvent{Viewers: 1500})
	// A lower value still overwrites: the stream order is authoritative.
	s.ApplyViewerCount(domain.ViewerCountEvent{Viewers: 300})

	if got := s.Snapshot().TotalViewers; got != 300 {
		t.Errorf("TotalViewers = %d, want 300", got)
	}
}

func TestStore_ApplyLike(t *testing.T) {
	s := New()

	s.ApplyLike(domain.LikeEvent{UserID: "1", Delta: 3})
	s.ApplyLike(domain.LikeEvent{UserID: "2", Delta: 7})

	if got := s.Snapshot().TotalLikes; got != 10 {
		t.Errorf("TotalLikes = %d, want 10", got)
	}
}

func TestStore_ApplyFollow_NoDedup(t *testing.T) {
	s := New()

	s.ApplyFollow(domain.FollowEvent{UserID: "1", Nickname: "a"})
	s.ApplyFollow(domain.FollowEvent{UserID: "1", Nickname: "a"})

	if got := len(s.Snapshot().Follows); got != 2 {
		t.Errorf("Follows = %d, want 2 (refollow churn is kept)", got)
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := New()
	s.ApplyGift(domain.GiftEvent{Nickname: "a", GiftName: "rose", RepeatCount: 1, UnitValue: 1})
	s.ApplyMember(domain.MemberEvent{UserID: "1", Nickname: "a"})

	agg := s.Snapshot()

	// Mutating the snapshot must not reach the store.
	agg.Gifts["rose"].Count = 999
	agg.Members[0] = "tampered"

	fresh := s.Snapshot()
	if fresh.Gifts["rose"].Count != 1 {
		t.Error("snapshot shares gift state with store")
	}
	if fresh.Members[0] != "a" {
		t.Error("snapshot shares member slice with store")
	}
}

func TestStore_Counts(t *testing.T) {
	s := New()
	s.ApplyChat(domain.ChatEvent{UserID: "1", Content: "hi"})
	s.ApplyMember(domain.MemberEvent{UserID: "1"})
	s.ApplyFollow(domain.FollowEvent{UserID: "1"})
	s.ApplyGift(domain.GiftEvent{GiftName: "rose", RepeatCount: 2, UnitValue: 1})
	s.ApplyLike(domain.LikeEvent{Delta: 4})
	s.ApplyViewerCount(domain.ViewerCountEvent{Viewers: 77})

	c := s.Counts()
	if c.Chats != 1 || c.Members != 1 || c.Follows != 1 || c.GiftKinds != 1 {
		t.Errorf("Counts = %+v, want one of each", c)
	}
	if c.Likes != 4 {
		t.Errorf("Likes = %d, want 4", c.Likes)
	}
	if c.Viewers != 77 {
		t.Errorf("Viewers = %d, want 77", c.Viewers)
	}
}

func TestStore_ConcurrentApplyAndSnapshot(t *testing.T) {
	s := New()

	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				uid := fmt.Sprintf("%d-%d", w, i)
				s.ApplyChat(domain.ChatEvent{UserID: uid, Content: "x"})
				s.ApplyGift(domain.GiftEvent{Nickname: uid, GiftName: "rose", RepeatCount: 1, UnitValue: 1})
				s.ApplyMember(domain.MemberEvent{UserID: uid})
				s.ApplyLike(domain.LikeEvent{Delta: 1})
			}
		}(w)
	}

	// Snapshots race the writers; every observed aggregate must be
	// internally consistent.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			agg := s.Snapshot()
			if rose, ok := agg.Gifts["rose"]; ok {
				if rose.Count != rose.TotalValue {
					t.Errorf("partial gift apply observed: count=%d value=%d", rose.Count, rose.TotalValue)
					return
				}
			}
		}
	}()

	wg.Wait()
	<-done

	want := writers * perWriter
	agg := s.Snapshot()
	if len(agg.ChatMessages) != want {
		t.Errorf("ChatMessages = %d, want %d", len(agg.ChatMessages), want)
	}
	if len(agg.Members) != want {
		t.Errorf("Members = %d, want %d", len(agg.Members), want)
	}
	if agg.Gifts["rose"].Count != int64(want) {
		t.Errorf("rose Count = %d, want %d", agg.Gifts["rose"].Count, want)
	}
	if agg.TotalLikes != int64(want) {
		t.Errorf("TotalLikes = %d, want %d", agg.TotalLikes, want)
	}
}

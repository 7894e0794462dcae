// Package domain defines the core domain models for LiveWatch.
package domain

// ChatRecord is a chat message as carried in the session aggregate and
// the persisted snapshot document.
type ChatRecord struct {
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	Nickname  string `json:"nickname"`
	Content   string `json:"content"`
	Type      string `json:"type"`
}

// GiftStat is the accumulated state for one gift name.
//
// Senders dedups display names for presentation only; it never feeds
// back into Count or TotalValue.
type GiftStat struct {
	Count      int64    `json:"count"`
	TotalValue int64    `json:"total_value"`
	Senders    []string `json:"senders"`
}

// Clone returns a deep copy of the stat.
func (g *GiftStat) Clone() *GiftStat {
	clone := &GiftStat{
		Count:      g.Count,
		TotalValue: g.TotalValue,
	}
	if g.Senders != nil {
		clone.Senders = make([]string, len(g.Senders))
		copy(clone.Senders, g.Senders)
	}
	return clone
}

// FollowRecord is a follow announcement as persisted.
type FollowRecord struct {
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	Nickname  string `json:"nickname"`
}

// Aggregate is a point-in-time copy of the running session statistics.
// Instances returned by the aggregation store share no memory with the
// live state, so callers may hold or marshal them freely.
type Aggregate struct {
	TotalViewers int64                `json:"total_viewers"`
	TotalLikes   int64                `json:"total_likes"`
	ChatMessages []ChatRecord         `json:"chat_messages"`
	Gifts        map[string]*GiftStat `json:"gifts"`
	Members      []string             `json:"members"`
	Follows      []FollowRecord       `json:"follows"`
	IsLive       bool                 `json:"is_live"`
}

// Clone returns a deep copy of the aggregate.
func (a *Aggregate) Clone() *Aggregate {
	clone := &Aggregate{
		TotalViewers: a.TotalViewers,
		TotalLikes:   a.TotalLikes,
		IsLive:       a.IsLive,
	}
	if a.ChatMessages != nil {
		clone.ChatMessages = make([]ChatRecord, len(a.ChatMessages))
		copy(clone.ChatMessages, a.ChatMessages)
	}
	if a.Gifts != nil {
		clone.Gifts = make(map[string]*GiftStat, len(a.Gifts))
		for name, stat := range a.Gifts {
			clone.Gifts[name] = stat.Clone()
		}
	}
	if a.Members != nil {
		clone.Members = make([]string, len(a.Members))
		copy(clone.Members, a.Members)
	}
	if a.Follows != nil {
		clone.Follows = make([]FollowRecord, len(a.Follows))
		copy(clone.Follows, a.Follows)
	}
	return clone
}

package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Read loads a snapshot document from path.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrSnapshotRead.WithDetails(path).WithCause(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.ErrSnapshotRead.WithDetails("decode " + filepath.Base(path)).WithCause(err)
	}
	return &doc, nil
}

// Info describes one persisted snapshot for listings.
type Info struct {
	LiveID       string `json:"live_id"`
	Session      int    `json:"session"`
	Date         string `json:"date"`
	IsLive       bool   `json:"is_live"`
	ChatMessages int    `json:"chat_messages"`
	Members      int    `json:"members"`
	Follows      int    `json:"follows"`
	GiftTypes    int    `json:"gift_types"`
	SavedAt      string `json:"saved_at"`
	Size         int64  `json:"size_bytes"`
	Path         string `json:"path"`
}

// List returns the persisted snapshots under dir, ordered by live id
// and ordinal. Identity and size come from the directory scan; counts
// come from each document's stats block and stay zero for files that
// no longer parse, so a corrupt file shows up in the listing rather
// than hiding it. A missing directory yields an empty listing.
func List(dir string) ([]*Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.ErrSnapshotRead.WithDetails("scan data directory").WithCause(err)
	}

	var infos []*Info
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		parts := strings.Split(strings.TrimSuffix(name, ".json"), "_")
		if len(parts) != 3 {
			continue
		}
		ordinal, err := strconv.Atoi(parts[1])
		if err != nil || ordinal < 1 {
			continue
		}

		info := &Info{
			LiveID:  parts[0],
			Session: ordinal,
			Date:    parts[2],
			Path:    filepath.Join(dir, name),
		}
		if stat, err := os.Stat(info.Path); err == nil {
			info.Size = stat.Size()
		}
		if doc, err := Read(info.Path); err == nil {
			info.IsLive = doc.IsLive
			info.ChatMessages = doc.Stats.TotalChatMessages
			info.Members = doc.Stats.TotalMembers
			info.Follows = doc.Stats.TotalFollows
			info.GiftTypes = doc.Stats.TotalGiftTypes
			info.SavedAt = doc.Stats.SaveTime
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].LiveID != infos[j].LiveID {
			return infos[i].LiveID < infos[j].LiveID
		}
		return infos[i].Session < infos[j].Session
	})
	return infos, nil
}

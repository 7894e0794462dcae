// Package domain defines the core domain models for LiveWatch.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling.
package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session constraints (based on RQ-0101 and DS-0101).
const (
	MaxLiveIDLength = 64

	// RunIDPrefix is the prefix for run IDs.
	RunIDPrefix = "lwrn-"

	// DateLayout is the local-date component of the snapshot filename.
	DateLayout = "2006-01-02"

	// TimestampLayout is the layout used for event timestamps in
	// persisted snapshot documents.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Session identifies one recording run against a single live room.
//
// Persistence identity is (LiveID, Ordinal, Date); RunID exists only to
// correlate logs and metrics across a process run and never reaches disk.
//
// @req RQ-0101
// @design DS-0101
type Session struct {
	// LiveID is the operator-supplied room handle, as it appears in the
	// room page URL.
	LiveID string `json:"live_id"`

	// RoomID is the resolved internal room identifier. Falls back to
	// LiveID when resolution fails.
	RoomID string `json:"room_id"`

	// Ordinal is the per-live-id recording sequence number, computed
	// once at startup from previously persisted snapshots.
	Ordinal int `json:"session"`

	// Date is the local date the session started (DateLayout).
	Date string `json:"date"`

	// IsLive records whether the room was broadcasting at resolution time.
	IsLive bool `json:"is_live"`

	// StartedAt is the session start timestamp.
	StartedAt time.Time `json:"-"`

	// RunID is the process-run correlation id.
	// Format: lwrn-{ulid_lowercase}, 31 characters total.
	RunID string `json:"-"`
}

// NewSession creates a Session for the given live id with a generated
// run id. RoomID defaults to LiveID until resolution replaces it.
//
// @req RQ-0101
func NewSession(liveID string) (*Session, error) {
	runID, err := GenerateRunID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		LiveID:    liveID,
		RoomID:    liveID,
		Ordinal:   1,
		Date:      now.Format(DateLayout),
		StartedAt: now,
		RunID:     runID,
	}, nil
}

// GenerateRunID generates a new run ID using ULID.
// Format: lwrn-{ulid_lowercase}, 31 characters total.
//
// @design DS-0101
func GenerateRunID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return RunIDPrefix + strings.ToLower(id.String()), nil
}

// SnapshotFileName returns the persisted snapshot filename for this
// session: {live_id}_{ordinal}_{date}.json. The ordinal scanner splits
// on underscores, which is why Validate rejects live ids containing them.
func (s *Session) SnapshotFileName() string {
	return fmt.Sprintf("%s_%d_%s.json", s.LiveID, s.Ordinal, s.Date)
}

// Age returns how long the session has been running.
func (s *Session) Age() time.Duration {
	return time.Since(s.StartedAt)
}

// Validate validates the session fields against constraints.
// Returns a DomainError with code LW-SESS-7001 if validation fails.
func (s *Session) Validate() error {
	var violations []string

	if s.LiveID == "" {
		violations = append(violations, "live_id is required")
	}
	if len(s.LiveID) > MaxLiveIDLength {
		violations = append(violations, "live_id exceeds 64 characters")
	}
	// Live ids are numeric room handles on the remote platform; anything
	// else would also corrupt the snapshot filename format.
	for _, r := range s.LiveID {
		if r < '0' || r > '9' {
			violations = append(violations, "live_id must be numeric")
			break
		}
	}

	if s.Ordinal < 1 {
		violations = append(violations, "session ordinal must be >= 1")
	}

	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		violations = append(violations, "date must be YYYY-MM-DD")
	}

	if len(violations) > 0 {
		return ErrSessionValidation.WithDetails(strings.Join(violations, "; "))
	}

	return nil
}

// IsValidRunID checks if a string is a valid run ID format.
//
// @design DS-0101
func IsValidRunID(id string) bool {
	id = strings.ToLower(id)

	if !strings.HasPrefix(id, RunIDPrefix) {
		return false
	}

	// lwrn- (5) + ULID (26) = 31 characters
	if len(id) != 31 {
		return false
	}

	ulidPart := strings.ToUpper(id[len(RunIDPrefix):])
	_, err := ulid.Parse(ulidPart)
	return err == nil
}

package snapshot

import (
	"os"
	"strconv"
	"strings"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// NextOrdinal returns the recording ordinal a new session of liveID
// should use: one past the highest ordinal already persisted in dir.
//
// Filenames are {live_id}_{ordinal}_{date}.json; entries that do not
// parse are skipped rather than failing the scan, so one stray file in
// the data directory cannot block a recording. A missing directory means
// no prior recordings and yields 1.
func NextOrdinal(dir, liveID string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, domain.ErrSnapshotRead.WithDetails("scan data directory").WithCause(err)
	}

	highest := 0
	prefix := liveID + "_"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		parts := strings.Split(name, "_")
		if len(parts) != 3 {
			continue
		}
		ordinal, err := strconv.Atoi(parts[1])
		if err != nil || ordinal < 1 {
			continue
		}
		if ordinal > highest {
			highest = ordinal
		}
	}

	return highest + 1, nil
}

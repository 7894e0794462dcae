package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

func TestRead_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "123456_1_2026-03-01.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Read(path)
	if err == nil {
		t.Fatalf("expected error for malformed document")
	}
	if !errors.Is(err, domain.ErrSnapshotRead) {
		t.Fatalf("error = %v, want LW-SNAP-5003", err)
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, domain.ErrSnapshotRead) {
		t.Fatalf("error = %v, want LW-SNAP-5003", err)
	}
}

func TestList_OrdersByLiveIDAndOrdinal(t *testing.T) {
	dir := t.TempDir()

	for _, s := range []*domain.Session{
		{LiveID: "222", RoomID: "r", Ordinal: 1, Date: "2026-03-02"},
		{LiveID: "111", RoomID: "r", Ordinal: 2, Date: "2026-03-02"},
		{LiveID: "111", RoomID: "r", Ordinal: 1, Date: "2026-03-01"},
	} {
		w, err := NewWriter(dir, s)
		if err != nil {
			t.Fatalf("NewWriter: %v", err)
		}
		if err := w.Write(testAggregate()); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	touch(t, dir, "notes.txt") // ignored

	infos, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("len(infos) = %d, want 3", len(infos))
	}

	want := []struct {
		liveID  string
		session int
	}{
		{"111", 1},
		{"111", 2},
		{"222", 1},
	}
	for i, w := range want {
		if infos[i].LiveID != w.liveID || infos[i].Session != w.session {
			t.Fatalf("infos[%d] = %s/%d, want %s/%d",
				i, infos[i].LiveID, infos[i].Session, w.liveID, w.session)
		}
	}

	if infos[0].ChatMessages != 1 || infos[0].Members != 2 {
		t.Fatalf("counts not filled from stats: %+v", infos[0])
	}
	if infos[0].Size == 0 {
		t.Fatalf("size not filled: %+v", infos[0])
	}
}

func TestList_KeepsCorruptFilesVisible(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "123456_1_2026-03-01.json"), []byte("junk"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	infos, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("len(infos) = %d, want 1", len(infos))
	}
	if infos[0].ChatMessages != 0 || infos[0].Size == 0 {
		t.Fatalf("corrupt entry should list with zero counts and real size: %+v", infos[0])
	}
}

func TestList_MissingDirectory(t *testing.T) {
	infos, err := List(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if infos != nil {
		t.Fatalf("infos = %v, want nil", infos)
	}
}

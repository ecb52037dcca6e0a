package playlist

import (
	"encoding/json"
	"os"
	"testing"
	"time"
)

func TestSnapshotFields(t *testing.T) {
	p := newTestPlaylist(t, 3)
	p.SetDescription("evening queue")
	p.Next()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	doc := p.Snapshot(now)

	if doc.Version != DocumentVersion {
		t.Errorf("Version = %q, want %q", doc.Version, DocumentVersion)
	}
	if doc.CreatedAt != "2024-06-01T12:00:00Z" {
		t.Errorf("CreatedAt = %q", doc.CreatedAt)
	}
	if doc.UniqueID != p.ID() {
		t.Errorf("UniqueID = %q, want %q", doc.UniqueID, p.ID())
	}
	if doc.PlayMode != "normal" {
		t.Errorf("PlayMode = %q, want normal", doc.PlayMode)
	}
	if len(doc.Videos) != 3 {
		t.Fatalf("Videos = %d entries, want 3", len(doc.Videos))
	}
	if doc.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", doc.CurrentIndex)
	}
	if doc.ShuffleState != nil {
		t.Error("ShuffleState must be absent outside shuffle mode")
	}
	if doc.Description == nil || *doc.Description != "evening queue" {
		t.Errorf("Description = %v", doc.Description)
	}
	fv := doc.FileValidation
	if fv.TotalVideos != 3 || fv.ValidVideos != 3 || fv.MissingVideos != 0 {
		t.Errorf("FileValidation = %+v", fv)
	}
	if !doc.PlaylistState.IsPlaying {
		t.Error("PlaylistState.IsPlaying = false after Next()")
	}
}

func TestSnapshotMarksMissingFiles(t *testing.T) {
	p := newTestPlaylist(t, 2)
	os.Remove(p.Video(1).Path)

	doc := p.Snapshot(time.Now())

	if doc.FileValidation.MissingVideos != 1 || doc.FileValidation.ValidVideos != 1 {
		t.Errorf("FileValidation = %+v", doc.FileValidation)
	}
	if doc.Videos[0].FileExists != true || doc.Videos[1].FileExists != false {
		t.Errorf("file_exists flags = %v, %v", doc.Videos[0].FileExists, doc.Videos[1].FileExists)
	}
}

func TestSnapshotShuffleState(t *testing.T) {
	p := newTestPlaylist(t, 4)
	p.SetPlayMode(ModeShuffle)
	p.Next()
	p.Next()

	doc := p.Snapshot(time.Now())

	if doc.PlayMode != "shuffle" {
		t.Fatalf("PlayMode = %q, want shuffle", doc.PlayMode)
	}
	if doc.ShuffleState == nil {
		t.Fatal("ShuffleState missing in shuffle mode")
	}
	if len(doc.ShuffleState.Order) != 4 {
		t.Errorf("shuffle order = %v, want 4 entries", doc.ShuffleState.Order)
	}
	if len(doc.ShuffleState.History) != 1 {
		t.Errorf("shuffle history = %v, want 1 entry", doc.ShuffleState.History)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	p := newTestPlaylist(t, 4)
	p.SetDescription("round trip")
	p.SetPlayMode(ModeLoopAll)
	p.Next()
	p.Next()

	// Through JSON, the way the store writes and reads it.
	data, err := json.Marshal(p.Snapshot(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	loaded, report := FromDocument(doc, true, Options{})
	if report == nil || len(report.Missing) != 0 {
		t.Fatalf("unexpected load report: %+v", report)
	}

	if loaded.ID() != p.ID() {
		t.Errorf("ID = %q, want %q", loaded.ID(), p.ID())
	}
	if loaded.Name() != p.Name() || loaded.Description() != p.Description() {
		t.Error("name or description lost in round trip")
	}
	if loaded.Mode() != ModeLoopAll {
		t.Errorf("Mode = %v, want loop-all", loaded.Mode())
	}
	if loaded.Len() != p.Len() {
		t.Fatalf("Len = %d, want %d", loaded.Len(), p.Len())
	}
	for i := 0; i < p.Len(); i++ {
		if loaded.Video(i).Path != p.Video(i).Path {
			t.Errorf("entry %d path mismatch", i)
		}
	}
	if loaded.CurrentIndex() != p.CurrentIndex() {
		t.Errorf("CurrentIndex = %d, want %d", loaded.CurrentIndex(), p.CurrentIndex())
	}
}

func TestDocumentRoundTripShuffle(t *testing.T) {
	p := newTestPlaylist(t, 5)
	p.SetPlayMode(ModeShuffle)
	p.Next()
	p.Next()
	current := p.CurrentVideo().Path

	loaded, _ := FromDocument(p.Snapshot(time.Now()), true, Options{})

	if loaded.Mode() != ModeShuffle {
		t.Fatalf("Mode = %v, want shuffle", loaded.Mode())
	}
	if got := loaded.CurrentVideo(); got == nil || got.Path != current {
		t.Error("shuffle cursor lost in round trip")
	}

	// Previous still retraces across the reload.
	back := loaded.Previous()
	if back.Outcome != OutcomeFound {
		t.Errorf("Previous() after reload = %v, want found", back.Outcome)
	}
}

func TestFromDocumentFlagsMissingFiles(t *testing.T) {
	p := newTestPlaylist(t, 3)
	doc := p.Snapshot(time.Now())
	os.Remove(p.Video(1).Path)

	loaded, report := FromDocument(doc, true, Options{})

	if loaded.Len() != 3 {
		t.Errorf("Len = %d, missing entries must be kept", loaded.Len())
	}
	if len(report.Missing) != 1 || report.Missing[0].Index != 1 {
		t.Errorf("Missing = %+v, want entry 1", report.Missing)
	}
}

func TestFromDocumentDeactivatesMissingCurrent(t *testing.T) {
	p := newTestPlaylist(t, 3)
	p.Next()
	doc := p.Snapshot(time.Now())
	os.Remove(p.CurrentVideo().Path)

	loaded, _ := FromDocument(doc, true, Options{})

	if loaded.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex = %d, want -1 when the current file vanished", loaded.CurrentIndex())
	}
}

func TestFromDocumentClampsBadCursor(t *testing.T) {
	p := newTestPlaylist(t, 2)
	doc := p.Snapshot(time.Now())
	doc.CurrentIndex = 99

	loaded, _ := FromDocument(doc, false, Options{})
	if loaded.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex = %d, want -1 for out-of-range stored cursor", loaded.CurrentIndex())
	}
}

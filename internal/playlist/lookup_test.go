package playlist

import (
	"path/filepath"
	"testing"
)

func TestIndexByIndex(t *testing.T) {
	p := newTestPlaylist(t, 3)

	if got := p.Index(ByIndex(1)); got != 1 {
		t.Errorf("Index(ByIndex(1)) = %d, want 1", got)
	}
	if got := p.Index(ByIndex(7)); got != -1 {
		t.Errorf("Index(ByIndex(7)) = %d, want -1", got)
	}
	if got := p.Index(ByIndex(-3)); got != -1 {
		t.Errorf("Index(ByIndex(-3)) = %d, want -1", got)
	}
}

func TestIndexByRef(t *testing.T) {
	p := newTestPlaylist(t, 3)
	v := p.Video(2)

	if got := p.Index(ByRef{Video: v}); got != 2 {
		t.Errorf("Index(ByRef) = %d, want 2", got)
	}

	other := newTestPlaylist(t, 1)
	if got := p.Index(ByRef{Video: other.Video(0)}); got != -1 {
		t.Errorf("Index(ByRef) for foreign video = %d, want -1", got)
	}
}

func TestIndexByPath(t *testing.T) {
	p := newTestPlaylist(t, 3)
	path := p.Video(1).Path

	if got := p.Index(ByPath(path)); got != 1 {
		t.Errorf("exact path lookup = %d, want 1", got)
	}
	// Base-name fallback when the exact path does not match.
	if got := p.Index(ByPath(filepath.Join("/elsewhere", filepath.Base(path)))); got != 1 {
		t.Errorf("base-name fallback = %d, want 1", got)
	}
	if got := p.Index(ByPath("/nope/missing.mp4")); got != -1 {
		t.Errorf("unknown path = %d, want -1", got)
	}
}

func TestIndexByName(t *testing.T) {
	p := newTestPlaylist(t, 3)
	name := p.Video(0).Name

	if got := p.Index(ByName(name)); got != 0 {
		t.Errorf("exact name = %d, want 0", got)
	}
	// Case-insensitive substring fallback.
	if got := p.Index(ByName("CLIP01")); got != 1 {
		t.Errorf("substring fallback = %d, want 1", got)
	}
	if got := p.Index(ByName("no such clip")); got != -1 {
		t.Errorf("unknown name = %d, want -1", got)
	}
}

func TestFind(t *testing.T) {
	p := newTestPlaylist(t, 3)

	if got := p.Find(ByIndex(2)); got != p.Video(2) {
		t.Errorf("Find(ByIndex(2)) = %v, want entry 2", got)
	}
	if got := p.Find(ByIndex(9)); got != nil {
		t.Errorf("Find() for unknown = %v, want nil", got)
	}
}

func TestFindAllByName(t *testing.T) {
	p := newTestPlaylist(t, 3)

	all := p.FindAllByName("clip", false)
	if len(all) != 3 {
		t.Errorf("FindAllByName(clip) = %d matches, want 3", len(all))
	}

	// Case-sensitive search does not match the lowercase names.
	if got := p.FindAllByName("CLIP", true); len(got) != 0 {
		t.Errorf("case-sensitive FindAllByName(CLIP) = %d matches, want 0", len(got))
	}
}

func TestFindAllByPath(t *testing.T) {
	p := newTestPlaylist(t, 3)
	dir := filepath.Dir(p.Video(0).Path)

	if got := p.FindAllByPath(dir); len(got) != 3 {
		t.Errorf("FindAllByPath(dir) = %d matches, want 3", len(got))
	}
	if got := p.FindAllByPath("clip02"); len(got) != 1 {
		t.Errorf("FindAllByPath(clip02) = %d matches, want 1", len(got))
	}
}

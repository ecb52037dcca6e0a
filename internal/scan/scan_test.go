package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtensionSet(t *testing.T) {
	set := ExtensionSet([]string{".MP4", "mkv", " .avi ", ""})

	for _, want := range []string{".mp4", ".mkv", ".avi"} {
		if !set[want] {
			t.Errorf("set missing %q: %v", want, set)
		}
	}
	if len(set) != 3 {
		t.Errorf("set has %d entries, want 3", len(set))
	}
}

func TestIsVideoFile(t *testing.T) {
	exts := ExtensionSet(DefaultExtensions)

	tests := []struct {
		path string
		want bool
	}{
		{"/videos/movie.mp4", true},
		{"/videos/MOVIE.MKV", true},
		{"/videos/notes.txt", false},
		{"/videos/noext", false},
	}

	for _, tt := range tests {
		if got := IsVideoFile(tt.path, exts); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestVideosWalksRecursively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "extras")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]bool{
		filepath.Join(dir, "b.mp4"):   true,
		filepath.Join(dir, "a.mkv"):   true,
		filepath.Join(sub, "c.webm"):  true,
		filepath.Join(dir, "notes"):   false,
		filepath.Join(sub, "sub.txt"): false,
	}
	for path := range files {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	found, err := Videos(dir, ExtensionSet(DefaultExtensions))
	if err != nil {
		t.Fatal(err)
	}

	if len(found) != 3 {
		t.Fatalf("Videos() = %v, want 3 entries", found)
	}
	for _, path := range found {
		if !files[path] {
			t.Errorf("unexpected file %q in results", path)
		}
	}
	// Results come back sorted for deterministic playlist order.
	for i := 1; i < len(found); i++ {
		if found[i-1] > found[i] {
			t.Errorf("results not sorted: %v", found)
		}
	}
}

func TestVideosMissingRoot(t *testing.T) {
	if _, err := Videos(filepath.Join(t.TempDir(), "nope"), ExtensionSet(DefaultExtensions)); err == nil {
		t.Error("Videos() on a missing root should fail")
	}
}

package playlist

import (
	"path/filepath"
	"strings"

	"github.com/Joselma-Jemk/pyplayer/internal/video"
)

// Identifier selects one video out of a playlist. The four variants are
// tried by their own strategy only; within a variant, matching runs from the
// most exact form to the loosest.
type Identifier interface {
	isIdentifier()
}

// ByIndex selects by position, bounds-checked.
type ByIndex int

// ByName matches the display name: exact first, then case-insensitive
// substring on the name, then case-insensitive substring on the path.
type ByName string

// ByPath matches the file path: exact (absolute) first, then by base name.
type ByPath string

// ByRef selects a video object already held by the caller; it matches only
// when that exact object is in the playlist.
type ByRef struct {
	Video *video.Video
}

func (ByIndex) isIdentifier() {}
func (ByName) isIdentifier()  {}
func (ByPath) isIdentifier()  {}
func (ByRef) isIdentifier()   {}

// Find resolves the identifier to a video, or nil when nothing matches.
func (p *Playlist) Find(id Identifier) *video.Video {
	return p.Video(p.Index(id))
}

// Index resolves the identifier to a playlist index, or -1.
func (p *Playlist) Index(id Identifier) int {
	if len(p.videos) == 0 {
		return -1
	}

	switch ident := id.(type) {
	case ByIndex:
		if int(ident) >= 0 && int(ident) < len(p.videos) {
			return int(ident)
		}
		return -1

	case ByRef:
		for i, v := range p.videos {
			if v == ident.Video {
				return i
			}
		}
		return -1

	case ByPath:
		target := absPath(string(ident))
		for i, v := range p.videos {
			if absPath(v.Path) == target {
				return i
			}
		}
		base := filepath.Base(string(ident))
		for i, v := range p.videos {
			if v.Name == base {
				return i
			}
		}
		return -1

	case ByName:
		name := string(ident)
		for i, v := range p.videos {
			if v.Name == name {
				return i
			}
		}
		lower := strings.ToLower(name)
		for i, v := range p.videos {
			if strings.Contains(strings.ToLower(v.Name), lower) {
				return i
			}
		}
		for i, v := range p.videos {
			if strings.Contains(strings.ToLower(v.Path), lower) {
				return i
			}
		}
		return -1

	default:
		return -1
	}
}

// FindAllByName returns every video whose name contains name. Matching is
// case-insensitive unless caseSensitive is set.
func (p *Playlist) FindAllByName(name string, caseSensitive bool) []*video.Video {
	var out []*video.Video
	needle := name
	if !caseSensitive {
		needle = strings.ToLower(name)
	}
	for _, v := range p.videos {
		haystack := v.Name
		if !caseSensitive {
			haystack = strings.ToLower(v.Name)
		}
		if strings.Contains(haystack, needle) {
			out = append(out, v)
		}
	}
	return out
}

// FindAllByPath returns every video whose path contains pattern,
// case-insensitively.
func (p *Playlist) FindAllByPath(pattern string) []*video.Video {
	var out []*video.Video
	needle := strings.ToLower(pattern)
	for _, v := range p.videos {
		if strings.Contains(strings.ToLower(v.Path), needle) {
			out = append(out, v)
		}
	}
	return out
}

// Package video holds the playable-item model: a Video is one media file
// with cached static metadata and a mutable playback State.
package video

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// State is the playback state of a single video at a point in time.
// Position and Duration are in milliseconds.
type State struct {
	Playing  bool
	Position int64
	Duration int64
	Volume   float64
	Muted    bool
}

// NewState returns a state with playback defaults (stopped, full volume).
func NewState() State {
	return State{Volume: 1.0}
}

// StateUpdate carries a partial update: nil fields are left untouched.
type StateUpdate struct {
	Playing  *bool
	Position *int64
	Duration *int64
	Volume   *float64
	Muted    *bool
}

// Apply merges the update into the state. Out-of-range values are clamped,
// never rejected: position stays within [0, duration] when the duration is
// known, volume within [0, 1].
func (s *State) Apply(u StateUpdate) {
	if u.Duration != nil {
		s.Duration = max(0, *u.Duration)
	}
	if u.Playing != nil {
		s.Playing = *u.Playing
	}
	if u.Position != nil {
		pos := max(0, *u.Position)
		if s.Duration > 0 && pos > s.Duration {
			pos = s.Duration
		}
		s.Position = pos
	}
	if u.Volume != nil {
		s.Volume = min(1.0, max(0.0, *u.Volume))
	}
	if u.Muted != nil {
		s.Muted = *u.Muted
	}
}

// Progress returns playback progress in [0, 1], 0 when the duration is unknown.
func (s *State) Progress() float64 {
	if s.Duration > 0 {
		return float64(s.Position) / float64(s.Duration)
	}
	return 0
}

// Reset restores the playback defaults but keeps the duration, which is a
// property of the file rather than of the playback session.
func (s *State) Reset() {
	duration := s.Duration
	*s = NewState()
	s.Duration = duration
}

// Video represents a single media file. Two videos are the same media when
// their paths are equal; there is no content hashing.
type Video struct {
	Path   string
	Name   string
	Size   int64
	Width  int
	Height int
	State  State
}

// New creates a video from a file path. The file size is read eagerly,
// best-effort: a failed stat leaves it at zero. Width, height and duration
// stay unknown until an external decoder supplies them via UpdateMetadata.
func New(path string) *Video {
	v := &Video{
		Path:  path,
		Name:  filepath.Base(path),
		State: NewState(),
	}
	if info, err := os.Stat(path); err == nil {
		v.Size = info.Size()
	}
	return v
}

// Extension returns the lowercased file extension, including the dot.
func (v *Video) Extension() string {
	return strings.ToLower(filepath.Ext(v.Path))
}

// Duration mirrors the state's duration in milliseconds.
func (v *Video) Duration() int64 {
	return v.State.Duration
}

// UpdateMetadata overwrites static metadata supplied by a decoder. A zero
// value means "unknown" and leaves the existing value in place.
func (v *Video) UpdateMetadata(width, height int, duration int64) {
	if width > 0 {
		v.Width = width
	}
	if height > 0 {
		v.Height = height
	}
	if duration > 0 {
		v.State.Duration = duration
	}
}

// UpdateState merges a partial playback-state update.
func (v *Video) UpdateState(u StateUpdate) {
	v.State.Apply(u)
}

// ResetState restores the playback state defaults, preserving the duration.
func (v *Video) ResetState() {
	v.State.Reset()
}

// Resolution returns "WxH", or "unknown" when no metadata has been supplied.
func (v *Video) Resolution() string {
	if v.Width > 0 && v.Height > 0 {
		return fmt.Sprintf("%dx%d", v.Width, v.Height)
	}
	return "unknown"
}

// AspectRatio returns width/height rounded to two decimals, 0 when unknown.
func (v *Video) AspectRatio() float64 {
	if v.Width > 0 && v.Height > 0 {
		ratio := float64(v.Width) / float64(v.Height)
		return float64(int(ratio*100+0.5)) / 100
	}
	return 0
}

// HumanSize returns the file size formatted for display, e.g. "1.4 GB".
func (v *Video) HumanSize() string {
	return humanize.Bytes(uint64(max(0, v.Size)))
}

func (v *Video) String() string {
	return fmt.Sprintf("%s (%s, %s, %dms)", v.Name, v.HumanSize(), v.Resolution(), v.Duration())
}

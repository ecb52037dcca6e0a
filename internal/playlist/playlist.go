// Package playlist implements the navigation engine of the player: an
// ordered collection of videos, a play mode, and the mode-specific cursors
// that decide what plays next. Every mutating operation ends by writing the
// playlist through its configured saver, so the player can always resume
// where it left off.
package playlist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Joselma-Jemk/pyplayer/internal/scan"
	"github.com/Joselma-Jemk/pyplayer/internal/video"
)

// EmptyID is the identity assigned to playlists that were not created from a
// source path.
const EmptyID = "empty_playlist"

// DefaultPositionSaveInterval throttles autosaves caused by playback-position
// ticks. Everything else saves immediately.
const DefaultPositionSaveInterval = 2500 * time.Millisecond

// Saver persists a playlist. The store package provides the JSON-file
// implementation; tests provide fakes.
type Saver interface {
	Save(p *Playlist) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(p *Playlist) error

func (f SaverFunc) Save(p *Playlist) error { return f(p) }

// Options configures a new playlist. The zero value is usable.
type Options struct {
	Name                 string
	Extensions           []string      // video extensions, scan.DefaultExtensions when empty
	Logger               *slog.Logger  // nil discards
	PositionSaveInterval time.Duration // 0 means DefaultPositionSaveInterval
}

// Playlist owns an ordered sequence of videos plus the navigation state for
// all play modes. It is not safe for concurrent use; one caller drives it at
// a time, matching the single GUI session it backs.
type Playlist struct {
	id          string
	name        string
	description string
	sourcePath  string

	videos []*video.Video
	mode   PlayMode

	// linearIndex backs sequential and loop modes; -1 means unset.
	linearIndex int

	// shuffle cursor state; the order is a permutation of valid indices.
	shuffleOrder []int
	shufflePos   int
	shuffleHist  *indexHistory

	state State

	exts map[string]bool
	log  *slog.Logger

	saver                Saver
	positionSaveInterval time.Duration
	lastPositionSave     time.Time
}

// New creates an empty playlist.
func New(opts Options) *Playlist {
	name := opts.Name
	if name == "" {
		name = "Untitled Playlist"
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = scan.DefaultExtensions
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interval := opts.PositionSaveInterval
	if interval <= 0 {
		interval = DefaultPositionSaveInterval
	}

	p := &Playlist{
		id:                   EmptyID,
		name:                 name,
		mode:                 ModeSequential,
		linearIndex:          -1,
		shufflePos:           -1,
		shuffleHist:          newIndexHistory(shuffleHistoryCap),
		exts:                 scan.ExtensionSet(exts),
		log:                  logger,
		positionSaveInterval: interval,
	}
	p.state = State{PlaylistID: p.id, CurrentIndex: -1}
	return p
}

// FromPath creates a playlist from a directory (every video found under it)
// or a single video file. The identity is derived from the path, so loading
// the same folder twice yields the same playlist ID.
func FromPath(path string, opts Options) *Playlist {
	if opts.Name == "" && path != "" {
		opts.Name = filepath.Base(path)
	}
	p := New(opts)
	p.sourcePath = path
	p.id = generateID(path)
	p.state.PlaylistID = p.id

	if path == "" {
		return p
	}
	if isDir(path) {
		p.AddFromDir(path)
	} else {
		p.Add(path)
	}
	return p
}

// generateID derives a stable short identity from the absolute source path.
func generateID(path string) string {
	if path == "" {
		return EmptyID
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

// IDFromPath derives the stable identity for a source path. Exposed so the
// registry can assign path-less playlists an identity from their backing
// file instead of the shared empty sentinel.
func IDFromPath(path string) string { return generateID(path) }

// ID returns the playlist's stable identity.
func (p *Playlist) ID() string { return p.id }

// SetID overrides the derived identity, keeping the state record in sync.
func (p *Playlist) SetID(id string) {
	p.id = id
	p.state.PlaylistID = id
}

// Name returns the display name.
func (p *Playlist) Name() string { return p.name }

// Description returns the optional description.
func (p *Playlist) Description() string { return p.description }

// SourcePath returns the originating directory or file path, if any.
func (p *Playlist) SourcePath() string { return p.sourcePath }

// Mode returns the active play mode.
func (p *Playlist) Mode() PlayMode { return p.mode }

// Len returns the number of videos.
func (p *Playlist) Len() int { return len(p.videos) }

// Videos returns the videos in playback order. The slice is a copy; the
// videos themselves are shared.
func (p *Playlist) Videos() []*video.Video {
	out := make([]*video.Video, len(p.videos))
	copy(out, p.videos)
	return out
}

// Video returns the video at index, or nil when out of bounds.
func (p *Playlist) Video(index int) *video.Video {
	if index < 0 || index >= len(p.videos) {
		return nil
	}
	return p.videos[index]
}

// VideoIndex returns the position of v in the playlist, matching by path,
// or -1 when it is not present.
func (p *Playlist) VideoIndex(v *video.Video) int {
	if v == nil {
		return -1
	}
	for i, cur := range p.videos {
		if cur.Path == v.Path {
			return i
		}
	}
	return -1
}

// SetMetadata applies decoder-reported dimensions and duration to the entry
// at index and persists the change. Zero fields leave the current values
// untouched.
func (p *Playlist) SetMetadata(index int, width, height int, duration int64) bool {
	v := p.Video(index)
	if v == nil {
		return false
	}
	v.UpdateMetadata(width, height, duration)
	p.syncState()
	p.autosave()
	return true
}

// TotalDuration returns the summed known durations in milliseconds.
func (p *Playlist) TotalDuration() int64 {
	var total int64
	for _, v := range p.videos {
		if d := v.Duration(); d > 0 {
			total += d
		}
	}
	return total
}

// SetName updates the display name and autosaves.
func (p *Playlist) SetName(name string) {
	if name == "" || name == p.name {
		return
	}
	p.name = name
	p.autosave()
}

// SetDescription updates the description and autosaves.
func (p *Playlist) SetDescription(desc string) {
	p.description = desc
	p.autosave()
}

// State returns a copy of the playlist's observable playback state.
func (p *Playlist) State() State {
	p.syncState()
	s := p.state
	s.PlayHistory = append([]int(nil), p.state.PlayHistory...)
	return s
}

// CurrentIndex projects the active entry's index from the mode-specific
// cursor. It returns -1 when nothing is active and never an out-of-range
// value, whatever state the cursors are in.
func (p *Playlist) CurrentIndex() int {
	if len(p.videos) == 0 {
		return -1
	}
	if p.mode != ModeShuffle {
		if p.linearIndex < 0 {
			return -1
		}
		return min(p.linearIndex, len(p.videos)-1)
	}
	if len(p.shuffleOrder) == 0 || p.shufflePos < 0 || p.shufflePos >= len(p.shuffleOrder) {
		return -1
	}
	idx := p.shuffleOrder[p.shufflePos]
	if idx < 0 || idx >= len(p.videos) {
		return -1
	}
	return idx
}

// SetCurrentIndex points the cursor at a specific entry. -1 deactivates.
// Values outside [-1, Len()-1] are rejected and leave the state unchanged.
func (p *Playlist) SetCurrentIndex(value int) error {
	if len(p.videos) == 0 {
		p.linearIndex = -1
		p.shufflePos = -1
		return nil
	}
	if value < -1 || value >= len(p.videos) {
		return fmt.Errorf("index %d out of range [-1, %d]", value, len(p.videos)-1)
	}

	if p.mode != ModeShuffle {
		p.linearIndex = value
	} else if value >= 0 {
		if len(p.shuffleOrder) == 0 {
			p.generateShuffleOrder()
		}
		p.shufflePos = p.shuffleOrderPosition(value)
	} else {
		p.shufflePos = -1
	}

	p.state.setIndex(value, p.pathAt(value))
	p.autosave()
	return nil
}

// shuffleOrderPosition finds idx within the shuffle order; when it is not
// present the cursor snaps to the start of the order.
func (p *Playlist) shuffleOrderPosition(idx int) int {
	for pos, v := range p.shuffleOrder {
		if v == idx {
			return pos
		}
	}
	if len(p.shuffleOrder) > 0 {
		return 0
	}
	return -1
}

// CurrentVideo returns the active video, or nil when none is active.
func (p *Playlist) CurrentVideo() *video.Video {
	return p.Video(p.CurrentIndex())
}

// EnsureActive activates the first entry when nothing is active yet.
// It reports whether the playlist has an active entry afterwards.
func (p *Playlist) EnsureActive() bool {
	if len(p.videos) == 0 {
		return false
	}
	if idx := p.CurrentIndex(); idx >= 0 {
		return true
	}
	if p.mode == ModeShuffle && len(p.shuffleOrder) == 0 {
		p.generateShuffleOrder()
	}
	if err := p.SetCurrentIndex(0); err != nil {
		return false
	}
	if p.mode == ModeShuffle && p.shufflePos < 0 && len(p.shuffleOrder) > 0 {
		p.shufflePos = 0
	}
	return true
}

// UpdateCurrentVideoState merges a partial playback-state update into the
// active video. Pure position ticks are persisted at most once per
// positionSaveInterval; every other change saves immediately. It reports
// false when no video is active.
func (p *Playlist) UpdateCurrentVideoState(u video.StateUpdate) bool {
	current := p.CurrentVideo()
	if current == nil {
		return false
	}
	current.UpdateState(u)
	if u.Playing != nil {
		p.state.Playing = *u.Playing
	}

	positionOnly := u.Position != nil && u.Playing == nil && u.Duration == nil &&
		u.Volume == nil && u.Muted == nil
	if positionOnly {
		p.autosaveThrottled()
	} else {
		p.autosave()
	}
	return true
}

// SetAutosave wires the write-through persistence target. A nil saver
// disables autosaving.
func (p *Playlist) SetAutosave(s Saver) {
	p.saver = s
}

// SetLogger replaces the playlist's logger. Nil discards.
func (p *Playlist) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p.log = logger
}

// autosave persists the playlist through the configured saver. Failures are
// logged and swallowed: the in-memory mutation that triggered the save has
// already succeeded and must stay successful.
func (p *Playlist) autosave() {
	if p.saver == nil {
		return
	}
	if err := p.saver.Save(p); err != nil {
		p.log.Debug("autosave failed", "playlist", p.id, "error", err)
	}
}

// autosaveThrottled rate-limits saves from hot position-update loops.
func (p *Playlist) autosaveThrottled() {
	if p.saver == nil {
		return
	}
	now := time.Now()
	if now.Sub(p.lastPositionSave) < p.positionSaveInterval {
		return
	}
	p.lastPositionSave = now
	p.autosave()
}

// syncState refreshes the derived fields of the playback state record.
func (p *Playlist) syncState() {
	p.state.PlaylistID = p.id
	p.state.Mode = p.mode
	p.state.CurrentIndex = p.CurrentIndex()
	p.state.TotalVideos = len(p.videos)
	p.state.TotalDuration = p.TotalDuration()
	p.state.CurrentVideoPath = p.pathAt(p.state.CurrentIndex)
}

// pathAt returns the path of the video at idx, or "" when out of range.
func (p *Playlist) pathAt(idx int) string {
	if v := p.Video(idx); v != nil {
		return v.Path
	}
	return ""
}

func (p *Playlist) String() string {
	return fmt.Sprintf("Playlist %q (%d videos, mode %s)", p.name, len(p.videos), p.mode)
}

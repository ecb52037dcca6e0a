package playlist

import (
	"os"
	"time"

	"github.com/Joselma-Jemk/pyplayer/internal/video"
)

// DocumentVersion is the persisted document format version.
const DocumentVersion = "1.0"

// FileValidation summarizes the save-time file check embedded in a document.
type FileValidation struct {
	TotalVideos    int    `json:"total_videos"`
	ValidVideos    int    `json:"valid_videos"`
	MissingVideos  int    `json:"missing_videos"`
	ValidationDate string `json:"validation_date"`
}

// ShuffleState is present in a document only while the playlist is in
// shuffle mode.
type ShuffleState struct {
	Order    []int `json:"shuffle_order"`
	Position int   `json:"shuffle_position"`
	History  []int `json:"shuffle_history"`
}

// StateDocument is the on-disk shape of the playback state record.
type StateDocument struct {
	PlaylistID       string  `json:"playlist_id"`
	PlayMode         string  `json:"play_mode"`
	CurrentIndex     int     `json:"current_index"`
	CurrentVideoPath *string `json:"current_video_path"`
	TotalVideos      int     `json:"total_videos"`
	TotalDuration    int64   `json:"total_duration"`
	IsPlaying        bool    `json:"is_playing"`
	PlayHistory      []int   `json:"play_history"`
}

// Document is the full on-disk shape of a playlist.
type Document struct {
	Version        string           `json:"version"`
	CreatedAt      string           `json:"created_at"`
	FileValidation FileValidation   `json:"file_validation"`
	Path           *string          `json:"path"`
	Name           string           `json:"name"`
	Description    *string          `json:"description"`
	UniqueID       string           `json:"unique_id"`
	PlayMode       string           `json:"play_mode"`
	Videos         []video.Document `json:"videos"`
	CurrentIndex   int              `json:"current_index"`
	ShuffleState   *ShuffleState    `json:"shuffle_state"`
	PlaylistState  StateDocument    `json:"playlist_state"`
}

// Snapshot serializes the playlist, stamping each entry with whether its file
// still exists. now is injected so the persistence layer controls timestamps.
func (p *Playlist) Snapshot(now time.Time) Document {
	p.syncState()

	videos := make([]video.Document, 0, len(p.videos))
	valid, missing := 0, 0
	for _, v := range p.videos {
		_, err := os.Stat(v.Path)
		exists := err == nil
		if exists {
			valid++
		} else {
			missing++
			p.log.Warn("playlist entry file missing", "path", v.Path)
		}
		videos = append(videos, v.ToDocument(exists))
	}

	var shuffle *ShuffleState
	if p.mode == ModeShuffle {
		shuffle = &ShuffleState{
			Order:    append([]int(nil), p.shuffleOrder...),
			Position: p.shufflePos,
			History:  p.shuffleHist.Snapshot(),
		}
	}

	ts := now.Format(time.RFC3339)
	return Document{
		Version:   DocumentVersion,
		CreatedAt: ts,
		FileValidation: FileValidation{
			TotalVideos:    len(p.videos),
			ValidVideos:    valid,
			MissingVideos:  missing,
			ValidationDate: ts,
		},
		Path:         optString(p.sourcePath),
		Name:         p.name,
		Description:  optString(p.description),
		UniqueID:     p.id,
		PlayMode:     p.mode.String(),
		Videos:       videos,
		CurrentIndex: p.linearIndex,
		ShuffleState: shuffle,
		PlaylistState: StateDocument{
			PlaylistID:       p.state.PlaylistID,
			PlayMode:         p.state.Mode.String(),
			CurrentIndex:     p.state.CurrentIndex,
			CurrentVideoPath: optString(p.state.CurrentVideoPath),
			TotalVideos:      p.state.TotalVideos,
			TotalDuration:    p.state.TotalDuration,
			IsPlaying:        p.state.Playing,
			PlayHistory:      append([]int(nil), p.state.PlayHistory...),
		},
	}
}

// LoadReport describes what file validation found while reconstructing a
// playlist from a document. Missing entries are kept in the playlist; the
// report just flags them.
type LoadReport struct {
	Missing     []FileRef
	TotalLoaded int
	LoadedAt    time.Time
}

// FromDocument reconstructs a playlist from its persisted document. With
// validateFiles set, each referenced path is checked on disk; entries with
// missing files are still reconstructed but flagged in the report, and the
// cursor is deactivated when it pointed at a missing file.
func FromDocument(doc Document, validateFiles bool, opts Options) (*Playlist, *LoadReport) {
	if opts.Name == "" {
		opts.Name = doc.Name
	}
	p := New(opts)
	if doc.Path != nil {
		p.sourcePath = *doc.Path
	}
	if doc.Description != nil {
		p.description = *doc.Description
	}
	p.id = doc.UniqueID
	if p.id == "" {
		p.id = generateID(p.sourcePath)
	}
	p.mode = ParseMode(doc.PlayMode)

	report := &LoadReport{LoadedAt: time.Now()}
	for i, vd := range doc.Videos {
		v := video.FromDocument(vd)
		p.videos = append(p.videos, v)
		if validateFiles {
			if _, err := os.Stat(v.Path); err != nil {
				report.Missing = append(report.Missing, FileRef{Index: i, Path: v.Path, Name: v.Name})
			}
		}
	}
	report.TotalLoaded = len(p.videos)

	p.linearIndex = doc.CurrentIndex
	if p.linearIndex < -1 || p.linearIndex >= len(p.videos) {
		p.linearIndex = -1
	}

	if doc.ShuffleState != nil && p.mode == ModeShuffle {
		p.shuffleOrder = append([]int(nil), doc.ShuffleState.Order...)
		p.shufflePos = doc.ShuffleState.Position
		p.shuffleHist.Restore(doc.ShuffleState.History)
		if p.shufflePos >= len(p.shuffleOrder) {
			p.shufflePos = -1
		}
	}

	p.state = State{
		PlaylistID:       doc.PlaylistState.PlaylistID,
		Mode:             ParseMode(doc.PlaylistState.PlayMode),
		CurrentIndex:     doc.PlaylistState.CurrentIndex,
		TotalVideos:      doc.PlaylistState.TotalVideos,
		TotalDuration:    doc.PlaylistState.TotalDuration,
		Playing:          doc.PlaylistState.IsPlaying,
		PlayHistory:      append([]int(nil), doc.PlaylistState.PlayHistory...),
	}
	if doc.PlaylistState.CurrentVideoPath != nil {
		p.state.CurrentVideoPath = *doc.PlaylistState.CurrentVideoPath
	}
	if p.state.PlaylistID == "" {
		p.state.PlaylistID = p.id
	}

	// A cursor pointing at a file that vanished between save and load is
	// deactivated rather than left dangling.
	if validateFiles {
		if current := p.CurrentVideo(); current != nil {
			if _, err := os.Stat(current.Path); err != nil {
				p.log.Warn("current video missing on load, deactivating cursor", "path", current.Path)
				p.linearIndex = -1
				p.shufflePos = -1
				p.state.resetPlayback()
			}
		}
	}

	p.syncState()
	return p, report
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

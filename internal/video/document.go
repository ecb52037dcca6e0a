package video

import "path/filepath"

// StateDocument is the on-disk shape of a playback state.
type StateDocument struct {
	Playing  bool    `json:"playing"`
	Position int64   `json:"position"`
	Duration int64   `json:"duration"`
	Volume   float64 `json:"volume"`
	Muted    bool    `json:"muted"`
}

// Document is the on-disk shape of a video entry. FileExists is informational
// and filled in at save time only.
type Document struct {
	FilePath   string         `json:"file_path"`
	Name       string         `json:"name"`
	Size       int64          `json:"size"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Duration   int64          `json:"duration"`
	Extension  string         `json:"extension"`
	State      *StateDocument `json:"state,omitempty"`
	FileExists bool           `json:"file_exists"`
}

// ToDocument serializes the video. fileExists is stamped by the caller, which
// knows whether it checked the filesystem.
func (v *Video) ToDocument(fileExists bool) Document {
	return Document{
		FilePath:  v.Path,
		Name:      v.Name,
		Size:      v.Size,
		Width:     v.Width,
		Height:    v.Height,
		Duration:  v.State.Duration,
		Extension: v.Extension(),
		State: &StateDocument{
			Playing:  v.State.Playing,
			Position: v.State.Position,
			Duration: v.State.Duration,
			Volume:   v.State.Volume,
			Muted:    v.State.Muted,
		},
		FileExists: fileExists,
	}
}

// FromDocument reconstructs a video without touching the filesystem. Missing
// state fields fall back to playback defaults; the duration survives in the
// top-level field even when the state block is absent.
func FromDocument(doc Document) *Video {
	v := &Video{
		Path:   doc.FilePath,
		Name:   doc.Name,
		Size:   doc.Size,
		Width:  doc.Width,
		Height: doc.Height,
		State:  NewState(),
	}
	if v.Name == "" {
		v.Name = filepath.Base(doc.FilePath)
	}
	if doc.State != nil {
		v.State = State{
			Playing:  doc.State.Playing,
			Position: doc.State.Position,
			Duration: doc.State.Duration,
			Volume:   doc.State.Volume,
			Muted:    doc.State.Muted,
		}
	}
	if doc.Duration > 0 {
		v.State.Duration = doc.Duration
	}
	return v
}

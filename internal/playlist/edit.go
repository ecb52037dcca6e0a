package playlist

import (
	"os"
	"path/filepath"

	"github.com/Joselma-Jemk/pyplayer/internal/scan"
	"github.com/Joselma-Jemk/pyplayer/internal/video"
)

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Add appends the video at path to the playlist. The file must exist, be a
// regular file and carry a known video extension; a path already present in
// the playlist is silently skipped. Returns the added video, nil when nothing
// was added.
func (p *Playlist) Add(path string) *video.Video {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	if !scan.IsVideoFile(path, p.exts) {
		return nil
	}
	for _, v := range p.videos {
		if v.Path == path {
			return nil
		}
	}

	v := video.New(path)
	p.videos = append(p.videos, v)
	p.state.TotalVideos = len(p.videos)
	p.state.TotalDuration = p.TotalDuration()
	p.autosave()
	return v
}

// AddFromDir walks dir recursively and appends every eligible video found,
// in sorted path order. Returns the videos actually added.
func (p *Playlist) AddFromDir(dir string) []*video.Video {
	paths, err := scan.Videos(dir, p.exts)
	if err != nil {
		p.log.Warn("directory scan failed", "dir", dir, "error", err)
		return nil
	}
	var added []*video.Video
	for _, path := range paths {
		if v := p.Add(path); v != nil {
			added = append(added, v)
		}
	}
	return added
}

// RemoveAt removes the video at index, re-projecting the cursors so they keep
// referencing the entries they referenced before. Removing the current entry
// deactivates the cursor.
func (p *Playlist) RemoveAt(index int) bool {
	if !p.removeIndex(index) {
		return false
	}
	p.autosave()
	return true
}

// Remove resolves the identifier and removes the matching video.
func (p *Playlist) Remove(id Identifier) bool {
	return p.RemoveAt(p.Index(id))
}

// removeIndex performs the removal without autosaving, so batch callers can
// persist once at the end.
func (p *Playlist) removeIndex(index int) bool {
	if index < 0 || index >= len(p.videos) {
		return false
	}

	if index == p.linearIndex {
		p.linearIndex = -1
		p.state.setIndex(-1, "")
	} else if index < p.linearIndex {
		p.linearIndex--
	}

	if len(p.shuffleOrder) > 0 {
		removedPos := -1
		order := p.shuffleOrder[:0]
		for pos, idx := range p.shuffleOrder {
			switch {
			case idx == index:
				removedPos = pos
			case idx > index:
				order = append(order, idx-1)
			default:
				order = append(order, idx)
			}
		}
		p.shuffleOrder = order

		// Keep the shuffle cursor on the entry it pointed at; deactivate
		// it when that entry is the one removed.
		switch {
		case removedPos >= 0 && removedPos == p.shufflePos:
			p.shufflePos = -1
			p.state.setIndex(-1, "")
		case removedPos >= 0 && removedPos < p.shufflePos:
			p.shufflePos--
		}
		if p.shufflePos >= len(p.shuffleOrder) {
			p.shufflePos = -1
		}

		hist := p.shuffleHist.Snapshot()
		adjusted := hist[:0]
		for _, h := range hist {
			if h == index {
				continue
			}
			if h > index {
				h--
			}
			adjusted = append(adjusted, h)
		}
		p.shuffleHist.Restore(adjusted)
	}

	p.videos = append(p.videos[:index], p.videos[index+1:]...)
	p.state.TotalVideos = len(p.videos)
	p.state.TotalDuration = p.TotalDuration()
	return true
}

// Move relocates the video at from to position to. Cursors and shuffle order
// are relabeled so every reference keeps pointing at the same video.
func (p *Playlist) Move(from, to int) bool {
	if from < 0 || from >= len(p.videos) || to < 0 || to >= len(p.videos) {
		return false
	}
	if from == to {
		return true
	}

	v := p.videos[from]
	p.videos = append(p.videos[:from], p.videos[from+1:]...)
	p.videos = append(p.videos[:to], append([]*video.Video{v}, p.videos[to:]...)...)

	switch {
	case p.linearIndex == from:
		p.linearIndex = to
	case from < p.linearIndex && p.linearIndex <= to:
		p.linearIndex--
	case to <= p.linearIndex && p.linearIndex < from:
		p.linearIndex++
	}

	relabel := func(idx int) int {
		switch {
		case idx == from:
			return to
		case from < to && idx > from && idx <= to:
			return idx - 1
		case to < from && idx >= to && idx < from:
			return idx + 1
		}
		return idx
	}
	for i, idx := range p.shuffleOrder {
		p.shuffleOrder[i] = relabel(idx)
	}
	hist := p.shuffleHist.Snapshot()
	for i, h := range hist {
		hist[i] = relabel(h)
	}
	p.shuffleHist.Restore(hist)

	p.autosave()
	return true
}

// Swap exchanges the videos at i and j, swapping any cursor references along
// with them.
func (p *Playlist) Swap(i, j int) bool {
	if i < 0 || i >= len(p.videos) || j < 0 || j >= len(p.videos) {
		return false
	}
	if i == j {
		return true
	}

	p.videos[i], p.videos[j] = p.videos[j], p.videos[i]

	switch p.linearIndex {
	case i:
		p.linearIndex = j
	case j:
		p.linearIndex = i
	}

	relabel := func(idx int) int {
		switch idx {
		case i:
			return j
		case j:
			return i
		}
		return idx
	}
	for pos, idx := range p.shuffleOrder {
		p.shuffleOrder[pos] = relabel(idx)
	}
	hist := p.shuffleHist.Snapshot()
	for pos, h := range hist {
		hist[pos] = relabel(h)
	}
	p.shuffleHist.Restore(hist)

	p.autosave()
	return true
}

// Clear removes every video. With resetState the playback state is fully
// reset; without it the mode and playing flag survive for the next fill.
func (p *Playlist) Clear(resetState bool) {
	mode := p.mode
	wasPlaying := p.state.Playing

	p.videos = nil
	p.linearIndex = -1
	p.shuffleOrder = nil
	p.shufflePos = -1
	p.shuffleHist.Clear()

	if resetState {
		p.state.resetPlayback()
	} else {
		p.state.setIndex(-1, "")
		p.state.Playing = wasPlaying
		p.mode = mode
	}
	p.state.TotalVideos = 0
	p.state.TotalDuration = 0
	p.autosave()
}

// RemovedVideo describes one entry dropped by RemoveMissingFiles.
type RemovedVideo struct {
	Index int
	Name  string
	Path  string
}

// RemoveMissingFiles drops every entry whose file no longer exists on disk.
// Removals are applied highest-index-first and persisted with a single save
// at the end rather than one per removal.
func (p *Playlist) RemoveMissingFiles() []RemovedVideo {
	var removed []RemovedVideo
	for i := len(p.videos) - 1; i >= 0; i-- {
		v := p.videos[i]
		if _, err := os.Stat(v.Path); err == nil {
			continue
		}
		if p.removeIndex(i) {
			removed = append(removed, RemovedVideo{Index: i, Name: v.Name, Path: v.Path})
		}
	}
	if len(removed) > 0 {
		p.autosave()
	}
	return removed
}

// FileRef points at one playlist entry by index for validation reporting.
type FileRef struct {
	Index int
	Path  string
	Name  string
}

// ValidationReport summarizes which entries still resolve to files on disk.
type ValidationReport struct {
	Missing []FileRef
	Valid   []FileRef
}

// Total returns the number of entries covered by the report.
func (r ValidationReport) Total() int { return len(r.Missing) + len(r.Valid) }

// Validate stats every entry's file and reports which ones are gone. Entries
// are never dropped here; RemoveMissingFiles does that explicitly.
func (p *Playlist) Validate() ValidationReport {
	var report ValidationReport
	for i, v := range p.videos {
		ref := FileRef{Index: i, Path: v.Path, Name: v.Name}
		if info, err := os.Stat(v.Path); err == nil && !info.IsDir() {
			report.Valid = append(report.Valid, ref)
		} else {
			report.Missing = append(report.Missing, ref)
		}
	}
	return report
}

// absPath resolves a path for exact-identity comparison.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

package manager

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/Joselma-Jemk/pyplayer/internal/errmsg"
	"github.com/Joselma-Jemk/pyplayer/internal/playlist"
	"github.com/Joselma-Jemk/pyplayer/internal/store"
)

// Create builds a new playlist, optionally pre-populated from sourcePath (a
// video file or a directory), assigns it a collision-free filename derived
// from its name, persists it and registers it. The first playlist created
// becomes active.
func (m *Manager) Create(sourcePath, name string) (*playlist.Playlist, error) {
	if name == "" {
		if sourcePath != "" {
			name = filepath.Base(sourcePath)
		} else {
			name = "New Playlist"
		}
	}

	var p *playlist.Playlist
	if sourcePath != "" {
		p = playlist.FromPath(sourcePath, m.playlistOptions(name))
	} else {
		p = playlist.New(m.playlistOptions(name))
	}

	path := m.generateFilename(name)
	if p.ID() == playlist.EmptyID {
		// No source path to hash; the backing file is the next best
		// stable identity.
		p.SetID(playlist.IDFromPath(path))
	}
	if _, exists := m.playlists[p.ID()]; exists {
		return nil, fmt.Errorf("%s: playlist %q already registered", errmsg.OpPlaylistCreate, p.ID())
	}

	p.SetAutosave(m.store.SaverFor(path))
	if err := m.store.Save(p, path, false); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpPlaylistCreate, err)
	}

	m.playlists[p.ID()] = &entry{playlist: p, path: path}
	if m.active == "" {
		m.SetActive(p.ID())
	} else {
		m.saveConfig()
	}
	m.log.Info("playlist created", "id", p.ID(), "name", name, "file", filepath.Base(path))
	return p, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// generateFilename derives a filesystem-safe filename from a playlist name,
// suffixing a counter until it collides with nothing on disk or in the
// registry.
func (m *Manager) generateFilename(name string) string {
	stem := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if stem == "" {
		stem = "playlist"
	}
	for i := 1; ; i++ {
		candidate := stem
		if i > 1 {
			candidate = fmt.Sprintf("%s_%d", stem, i)
		}
		path := filepath.Join(m.dir, candidate+".json")
		if m.pathTaken(path) {
			continue
		}
		if exists, _ := afero.Exists(m.fs, path); exists {
			continue
		}
		return path
	}
}

func (m *Manager) pathTaken(path string) bool {
	for _, e := range m.playlists {
		if e.path == path {
			return true
		}
	}
	return false
}

// Get returns the playlist with the given id, nil when unknown.
func (m *Manager) Get(id string) *playlist.Playlist {
	if e, ok := m.playlists[id]; ok {
		return e.playlist
	}
	return nil
}

// Active returns the active playlist, nil when nothing is active.
func (m *Manager) Active() *playlist.Playlist {
	return m.Get(m.active)
}

// ActiveID returns the active playlist id, empty when nothing is active.
func (m *Manager) ActiveID() string { return m.active }

// LastPlayedID returns the most recently selected playlist id.
func (m *Manager) LastPlayedID() string { return m.lastPlayed }

// Len returns the number of registered playlists.
func (m *Manager) Len() int { return len(m.playlists) }

// SetActive switches the active playlist. Selecting a playlist also counts
// as playing it, so the last-played marker moves with the selection.
func (m *Manager) SetActive(id string) bool {
	if _, ok := m.playlists[id]; !ok {
		m.log.Warn(errmsg.FormatWith(errmsg.OpSetActive, id, fmt.Errorf("unknown playlist")))
		return false
	}
	m.active = id
	m.lastPlayed = id
	m.saveConfig()
	m.saveLastPlayed()
	m.log.Debug("active playlist changed", "id", id)
	return true
}

// SetActiveByName switches the active playlist by exact name match.
func (m *Manager) SetActiveByName(name string) bool {
	for id, e := range m.playlists {
		if e.playlist.Name() == name {
			return m.SetActive(id)
		}
	}
	m.log.Warn(errmsg.FormatWith(errmsg.OpSetActive, name, fmt.Errorf("no playlist with that name")))
	return false
}

// Remove unregisters a playlist, optionally deleting its backing file.
// Active and last-played references pointing at it are cleared.
func (m *Manager) Remove(id string, deleteFile bool) bool {
	e, ok := m.playlists[id]
	if !ok {
		return false
	}
	delete(m.playlists, id)
	if deleteFile {
		if err := m.fs.Remove(e.path); err != nil {
			m.log.Warn(errmsg.FormatWith(errmsg.OpPlaylistDelete, e.path, err))
		}
	}
	if m.active == id {
		m.active = ""
	}
	if m.lastPlayed == id {
		m.lastPlayed = ""
	}
	m.saveConfig()
	m.log.Info("playlist removed", "id", id, "file_deleted", deleteFile)
	return true
}

// Rename changes a playlist's display name. The backing filename is kept;
// only new playlists derive filenames from names.
func (m *Manager) Rename(id, newName string) bool {
	e, ok := m.playlists[id]
	if !ok || newName == "" {
		return false
	}
	e.playlist.SetName(newName)
	m.saveConfig()
	return true
}

// SaveAll persists every registered playlist plus the registry config,
// reporting how many saves failed.
func (m *Manager) SaveAll() int {
	failed := 0
	for _, e := range m.playlists {
		if err := m.store.Save(e.playlist, e.path, true); err != nil {
			m.log.Warn(errmsg.FormatWith(errmsg.OpPlaylistSave, e.playlist.Name(), err))
			failed++
		}
	}
	m.saveConfig()
	return failed
}

// Volume returns the master volume.
func (m *Manager) Volume() float64 { return m.volume }

// SetVolume clamps and stores the master volume, persisting the config.
func (m *Manager) SetVolume(v float64) {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	m.volume = v
	m.saveConfig()
}

// FindByName returns every playlist whose name contains term,
// case-insensitively.
func (m *Manager) FindByName(term string) []*playlist.Playlist {
	return m.find(term, func(p *playlist.Playlist) string { return p.Name() })
}

// FindByPath returns every playlist whose source path contains term,
// case-insensitively.
func (m *Manager) FindByPath(term string) []*playlist.Playlist {
	return m.find(term, func(p *playlist.Playlist) string { return p.SourcePath() })
}

func (m *Manager) find(term string, key func(*playlist.Playlist) string) []*playlist.Playlist {
	needle := strings.ToLower(term)
	var found []*playlist.Playlist
	for _, e := range m.playlists {
		if strings.Contains(strings.ToLower(key(e.playlist)), needle) {
			found = append(found, e.playlist)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name() < found[j].Name() })
	return found
}

// Info is a registry-level playlist summary.
type Info struct {
	ID            string
	Name          string
	File          string
	Videos        int
	TotalDuration int64
	Active        bool
}

// Infos returns a summary of every registered playlist, sorted by name.
func (m *Manager) Infos() []Info {
	infos := make([]Info, 0, len(m.playlists))
	for id, e := range m.playlists {
		infos = append(infos, Info{
			ID:            id,
			Name:          e.playlist.Name(),
			File:          e.path,
			Videos:        e.playlist.Len(),
			TotalDuration: e.playlist.TotalDuration(),
			Active:        id == m.active,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Cleanup removes entries whose files vanished from disk, across every
// playlist in the registry. Returns removed entries keyed by playlist id.
func (m *Manager) Cleanup() map[string][]playlist.RemovedVideo {
	removed := map[string][]playlist.RemovedVideo{}
	for id, e := range m.playlists {
		if gone := e.playlist.RemoveMissingFiles(); len(gone) > 0 {
			removed[id] = gone
			m.log.Info("removed missing files", "playlist", e.playlist.Name(), "count", len(gone))
		}
	}
	return removed
}

// AutoCleanupBackups applies the configured backup retention policy to the
// data directory.
func (m *Manager) AutoCleanupBackups() store.CleanupResult {
	bc := m.opts.Backup
	result := m.store.CleanupBackups(m.dir, bc.MaxPerPlaylist, bc.MaxTotal, bc.MaxAgeDays)
	for _, err := range result.Errors {
		m.log.Warn(errmsg.Format(errmsg.OpBackupCleanup, err))
	}
	return result
}

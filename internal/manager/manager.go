// Package manager keeps the collection of playlists: loading every persisted
// playlist from the data directory, tracking which one is active, and owning
// the registry-level config document.
package manager

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/Joselma-Jemk/pyplayer/internal/config"
	"github.com/Joselma-Jemk/pyplayer/internal/errmsg"
	"github.com/Joselma-Jemk/pyplayer/internal/playlist"
	"github.com/Joselma-Jemk/pyplayer/internal/store"
)

const (
	configFile     = "manager_config.json"
	lastPlayedFile = "last_played.json"
	configVersion  = "1.0"
)

// configDocument is the small registry config persisted next to the
// playlists.
type configDocument struct {
	Version       string  `json:"version"`
	Volume        float64 `json:"volume"`
	LastUpdated   string  `json:"last_updated"`
	PlaylistCount int     `json:"playlist_count"`
	LastPlayedID  *string `json:"last_played_id"`
	ActiveID      *string `json:"active_playlist_id"`
}

// lastPlayedDocument is a write-only marker recording the most recent
// playlist selection.
type lastPlayedDocument struct {
	PlaylistID *string `json:"playlist_id"`
	Timestamp  string  `json:"timestamp"`
}

// Options configures a Manager. Zero values select the real filesystem and
// clock, built-in extension defaults and a discarding logger.
type Options struct {
	Dir           string
	FS            afero.Fs
	Clock         clockwork.Clock
	Logger        *slog.Logger
	Extensions    []string
	DefaultVolume float64
	PositionSave  time.Duration
	ValidateFiles bool
	Backup        config.BackupConfig
}

type entry struct {
	playlist *playlist.Playlist
	path     string
}

// Manager is the playlist registry. Like the playlists it holds, it is
// driven by a single caller and is not safe for concurrent use.
type Manager struct {
	dir   string
	fs    afero.Fs
	clock clockwork.Clock
	store *store.Store
	log   *slog.Logger
	opts  Options

	playlists  map[string]*entry
	active     string
	lastPlayed string
	volume     float64
}

// New brings up the registry: loads the config document and every playlist
// file in the data directory, synthesizes an empty default playlist when
// none could be loaded, ensures something is active, and runs backup
// retention when the backup count crossed the configured threshold.
func New(opts Options) (*Manager, error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.DefaultVolume <= 0 || opts.DefaultVolume > 1 {
		opts.DefaultVolume = 0.8
	}

	m := &Manager{
		dir:   opts.Dir,
		fs:    opts.FS,
		clock: opts.Clock,
		store: store.New(store.Options{FS: opts.FS, Clock: opts.Clock, Logger: opts.Logger}),
		log:   opts.Logger,
		opts:  opts,

		playlists: map[string]*entry{},
		volume:    opts.DefaultVolume,
	}

	if err := m.fs.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}

	m.loadConfig()
	m.loadAll()

	if len(m.playlists) == 0 {
		if err := m.synthesizeDefault(); err != nil {
			return nil, err
		}
	}
	if _, ok := m.playlists[m.active]; !ok {
		m.active = ""
	}
	if m.active == "" {
		m.SetActive(m.anyID())
	}

	bc := m.opts.Backup
	if bc.CleanupThreshold > 0 && m.store.Stats(m.dir).Total >= bc.CleanupThreshold {
		m.AutoCleanupBackups()
	}

	m.log.Info("playlist registry ready",
		"dir", m.dir, "playlists", len(m.playlists), "active", m.active)
	return m, nil
}

func (m *Manager) loadConfig() {
	data, err := afero.ReadFile(m.fs, filepath.Join(m.dir, configFile))
	if err != nil {
		return
	}
	var doc configDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpConfigLoad, err))
		return
	}
	if doc.Volume > 0 && doc.Volume <= 1 {
		m.volume = doc.Volume
	}
	if doc.ActiveID != nil {
		m.active = *doc.ActiveID
	}
	if doc.LastPlayedID != nil {
		m.lastPlayed = *doc.LastPlayedID
	}
}

// loadAll reads every playlist document in the data directory, skipping the
// registry's own config files and backup copies.
func (m *Manager) loadAll() {
	entries, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpRegistryLoad, err))
		return
	}
	for _, fi := range entries {
		name := fi.Name()
		if fi.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == configFile || name == lastPlayedFile || strings.Contains(name, ".backup.") {
			continue
		}
		path := filepath.Join(m.dir, name)
		p, report, err := m.store.Load(path, m.opts.ValidateFiles, m.playlistOptions(""))
		if err != nil || p == nil {
			m.log.Warn(errmsg.FormatWith(errmsg.OpPlaylistLoad, path, err))
			continue
		}
		if report != nil && len(report.Missing) > 0 {
			m.log.Warn("playlist has missing files",
				"playlist", p.Name(), "missing", len(report.Missing))
		}
		if _, dup := m.playlists[p.ID()]; dup {
			m.log.Warn("duplicate playlist id, skipping", "id", p.ID(), "file", name)
			continue
		}
		p.SetAutosave(m.store.SaverFor(path))
		m.playlists[p.ID()] = &entry{playlist: p, path: path}
	}
}

func (m *Manager) playlistOptions(name string) playlist.Options {
	return playlist.Options{
		Name:                 name,
		Extensions:           m.opts.Extensions,
		Logger:               m.log,
		PositionSaveInterval: m.opts.PositionSave,
	}
}

func (m *Manager) synthesizeDefault() error {
	p, err := m.Create("", "Default Playlist")
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}
	m.log.Info("created default playlist", "id", p.ID())
	return nil
}

// anyID returns a loaded playlist id, preferring name order for
// determinism.
func (m *Manager) anyID() string {
	ids := make([]string, 0, len(m.playlists))
	for id := range m.playlists {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.playlists[ids[i]].playlist.Name() < m.playlists[ids[j]].playlist.Name()
	})
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// saveConfig persists the registry config document. Failures are logged,
// never returned; registry mutations always succeed in memory.
func (m *Manager) saveConfig() {
	doc := configDocument{
		Version:       configVersion,
		Volume:        m.volume,
		LastUpdated:   m.clock.Now().Format(time.RFC3339),
		PlaylistCount: len(m.playlists),
		LastPlayedID:  optID(m.lastPlayed),
		ActiveID:      optID(m.active),
	}
	if err := m.writeJSON(configFile, doc); err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpConfigSave, err))
	}
}

func (m *Manager) saveLastPlayed() {
	doc := lastPlayedDocument{
		PlaylistID: optID(m.lastPlayed),
		Timestamp:  m.clock.Now().Format(time.RFC3339),
	}
	if err := m.writeJSON(lastPlayedFile, doc); err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpConfigSave, err))
	}
}

func (m *Manager) writeJSON(name string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(m.fs, filepath.Join(m.dir, name), data, 0o644)
}

func optID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Package store persists playlists as JSON documents with timestamped
// backups and a retention policy. The filesystem and clock are injected so
// retention behavior is testable without touching the real disk.
package store

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

	"github.com/Joselma-Jemk/pyplayer/internal/playlist"
)

// backupTimeFormat is the timestamp embedded in backup filenames.
const backupTimeFormat = "20060102150405"

// Options configures a Store. Zero values select the real filesystem, the
// real clock and a discarding logger.
type Options struct {
	FS     afero.Fs
	Clock  clockwork.Clock
	Logger *slog.Logger
}

// Store reads and writes playlist documents.
type Store struct {
	fs    afero.Fs
	clock clockwork.Clock
	log   *slog.Logger
}

func New(opts Options) *Store {
	s := &Store{fs: opts.FS, clock: opts.Clock, log: opts.Logger}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s
}

// Save writes the playlist document to dest. When dest already exists and
// makeBackup is set, the previous contents are copied aside first. The new
// document is written to a temp file and renamed into place so a crash never
// leaves a half-written playlist.
func (s *Store) Save(p *playlist.Playlist, dest string, makeBackup bool) error {
	now := s.clock.Now()
	doc := p.Snapshot(now)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding playlist %s: %w", p.Name(), err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating playlist directory: %w", err)
	}

	if makeBackup {
		if exists, _ := afero.Exists(s.fs, dest); exists {
			if err := s.backup(dest, now); err != nil {
				// A failed backup never blocks the save itself.
				s.log.Warn("backup failed", "path", dest, "error", err)
			}
		}
	}

	tmp := dest + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing playlist file: %w", err)
	}
	if err := s.fs.Rename(tmp, dest); err != nil {
		return fmt.Errorf("replacing playlist file: %w", err)
	}
	s.log.Debug("playlist saved", "path", dest, "videos", p.Len())
	return nil
}

// SaverFor binds a destination path into a playlist.Saver so playlists can
// autosave without knowing where they live on disk.
func (s *Store) SaverFor(dest string) playlist.Saver {
	return playlist.SaverFunc(func(p *playlist.Playlist) error {
		return s.Save(p, dest, true)
	})
}

func (s *Store) backup(path string, now time.Time) error {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, BackupPath(path, now), data, 0o644)
}

// BackupPath returns the backup filename for path at the given time:
// <stem>.backup.<YYYYMMDDHHMMSS>.json alongside the original.
func BackupPath(path string, t time.Time) string {
	return filepath.Join(filepath.Dir(path),
		stemOf(path)+".backup."+t.Format(backupTimeFormat)+".json")
}

// Load reads and reconstructs a playlist from path. When the main file is
// unreadable or corrupt it falls back to the newest backup that still parses.
// If neither the file nor any backup can be recovered it returns nil with a
// nil error: the caller treats the playlist as gone, not as a fatal fault.
func (s *Store) Load(path string, validateFiles bool, opts playlist.Options) (*playlist.Playlist, *playlist.LoadReport, error) {
	doc, err := s.readDocument(path)
	if err == nil {
		p, report := playlist.FromDocument(*doc, validateFiles, opts)
		return p, report, nil
	}
	s.log.Warn("playlist file unreadable, trying backups", "path", path, "error", err)

	for _, b := range s.backupsFor(path) {
		doc, berr := s.readDocument(b.path)
		if berr != nil {
			s.log.Warn("backup unreadable", "path", b.path, "error", berr)
			continue
		}
		s.log.Info("playlist restored from backup", "path", path, "backup", b.path)
		p, report := playlist.FromDocument(*doc, validateFiles, opts)
		return p, report, nil
	}
	return nil, nil, nil
}

func (s *Store) readDocument(path string) (*playlist.Document, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}
	var doc playlist.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

type backupInfo struct {
	path string
	stem string
	mod  time.Time
}

// backupsFor lists the backups belonging to path, newest first.
func (s *Store) backupsFor(path string) []backupInfo {
	stem := stemOf(path)
	var matched []backupInfo
	for _, b := range s.listBackups(filepath.Dir(path)) {
		if b.stem == stem {
			matched = append(matched, b)
		}
	}
	return matched
}

// listBackups returns every backup file in dir, newest first.
func (s *Store) listBackups(dir string) []backupInfo {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil
	}
	var backups []backupInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem, ok := backupStem(e.Name())
		if !ok {
			continue
		}
		backups = append(backups, backupInfo{
			path: filepath.Join(dir, e.Name()),
			stem: stem,
			mod:  e.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].mod.After(backups[j].mod) })
	return backups
}

// backupStem extracts the playlist stem from a backup filename, reporting
// whether name is a backup file at all.
func backupStem(name string) (string, bool) {
	if !strings.HasSuffix(name, ".json") {
		return "", false
	}
	trimmed := strings.TrimSuffix(name, ".json")
	i := strings.LastIndex(trimmed, ".backup.")
	if i < 1 {
		return "", false
	}
	ts := trimmed[i+len(".backup."):]
	if _, err := time.Parse(backupTimeFormat, ts); err != nil {
		return "", false
	}
	return trimmed[:i], true
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BackupCount returns how many backups exist in dir for the playlist file at
// path, or for all playlists when path is empty.
func (s *Store) BackupCount(dir, path string) int {
	if path == "" {
		return len(s.listBackups(dir))
	}
	return len(s.backupsFor(filepath.Join(dir, filepath.Base(path))))
}

// BackupStats describes the backup population of a directory.
type BackupStats struct {
	Total       int
	PerPlaylist map[string]int
	OldestAge   time.Duration
	TotalSize   int64
}

func (s *Store) Stats(dir string) BackupStats {
	stats := BackupStats{PerPlaylist: map[string]int{}}
	now := s.clock.Now()
	for _, b := range s.listBackups(dir) {
		stats.Total++
		stats.PerPlaylist[b.stem]++
		if age := now.Sub(b.mod); age > stats.OldestAge {
			stats.OldestAge = age
		}
		if info, err := s.fs.Stat(b.path); err == nil {
			stats.TotalSize += info.Size()
		}
	}
	return stats
}

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DataDir                string   `koanf:"data_dir"`                  // where playlist JSON files live
	VideoExtensions        []string `koanf:"video_extensions"`          // empty means built-in defaults
	DefaultVolume          float64  `koanf:"default_volume"`            // 0.0-1.0 (default: 0.8)
	PositionSaveIntervalMS int      `koanf:"position_save_interval_ms"` // autosave throttle for position updates

	Backup BackupConfig `koanf:"backup"`
	Log    LogConfig    `koanf:"log"`
}

// BackupConfig holds the backup retention policy.
type BackupConfig struct {
	MaxPerPlaylist   int `koanf:"max_per_playlist"`  // newest backups kept per playlist (default: 5)
	MaxTotal         int `koanf:"max_total"`         // newest backups kept overall (default: 50)
	MaxAgeDays       int `koanf:"max_age_days"`      // backups older than this are dropped (default: 30)
	CleanupThreshold int `koanf:"cleanup_threshold"` // run cleanup on startup at/above this count (default: 20)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level   string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File    string `koanf:"file"`  // rotating log file path, empty disables file logging
	MaxSize int    `koanf:"max_size_mb"`
	MaxAge  int    `koanf:"max_age_days"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		DefaultVolume: 0.8,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(xdg.DataHome, "pyplayer", "playlists")
	} else {
		cfg.DataDir = expandPath(cfg.DataDir)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/pyplayer/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pyplayer", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// PositionSaveInterval returns the position autosave throttle with the
// default applied.
func (c *Config) PositionSaveInterval() time.Duration {
	if c.PositionSaveIntervalMS <= 0 {
		return 2500 * time.Millisecond
	}
	return time.Duration(c.PositionSaveIntervalMS) * time.Millisecond
}

// GetBackupConfig returns the backup policy with defaults applied.
func (c *Config) GetBackupConfig() BackupConfig {
	cfg := c.Backup

	if cfg.MaxPerPlaylist <= 0 {
		cfg.MaxPerPlaylist = 5
	}
	if cfg.MaxTotal <= 0 {
		cfg.MaxTotal = 50
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 30
	}
	if cfg.CleanupThreshold <= 0 {
		cfg.CleanupThreshold = 20
	}
	return cfg
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 10
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 14
	}
	return cfg
}

// Volume returns the default volume clamped to [0, 1].
func (c *Config) Volume() float64 {
	switch {
	case c.DefaultVolume < 0:
		return 0
	case c.DefaultVolume > 1:
		return 1
	}
	return c.DefaultVolume
}

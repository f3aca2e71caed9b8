// Package config loads the service settings from a YAML file, falling back
// to defaults when the file is missing or unreadable.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

// DatabaseConfig holds the storage backend settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// TMDBConfig holds the remote catalog API settings. The API key may also be
// supplied through the TMDB_API_KEY environment variable, which wins over
// the file.
type TMDBConfig struct {
	APIKey string `yaml:"apiKey"`
}

// MembersConfig holds the chamber directory snapshot sources.
type MembersConfig struct {
	SnapshotPath string `yaml:"snapshotPath"`
	SnapshotURL  string `yaml:"snapshotUrl"`
}

// LoggingConfig holds the rotated process log settings. An empty path logs
// to stderr only.
type LoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Settings is the complete service configuration.
type Settings struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	TMDB     TMDBConfig     `yaml:"tmdb"`
	Members  MembersConfig  `yaml:"members"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultSettings returns the configuration used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Database: DatabaseConfig{
			Path: "data/moviedeck.db",
		},
		Logging: LoggingConfig{
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Manager reads settings from a file path and caches the result.
type Manager struct {
	fs   afero.Fs
	path string

	mu     sync.RWMutex
	cached *Settings
}

// NewManager creates a manager reading from the OS filesystem.
func NewManager(path string) *Manager {
	return &Manager{fs: afero.NewOsFs(), path: path}
}

// NewManagerWithFs creates a manager reading through the given filesystem.
// Used by tests.
func NewManagerWithFs(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path}
}

// Load returns the settings, reading the file on first call. A missing file
// yields the defaults without error; a malformed file is an error.
func (m *Manager) Load() (*Settings, error) {
	m.mu.RLock()
	if m.cached != nil {
		settings := m.cached
		m.mu.RUnlock()
		return settings, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cached != nil {
		return m.cached, nil
	}

	settings := DefaultSettings()

	if m.path != "" {
		data, err := afero.ReadFile(m.fs, m.path)
		switch {
		case os.IsNotExist(err):
			// No config file; run on defaults.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &settings); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		settings.TMDB.APIKey = key
	}

	m.cached = &settings
	return m.cached, nil
}

// Package config persists connection profiles as YAML under the user config
// directory. It owns the canonical copy of every ConnectionConfig; adapters
// receive immutable snapshots.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

// ProfilesFileName is the profile store file, relative to the config dir.
const ProfilesFileName = "profiles.yaml"

// ErrStoreNotFound is returned when the profile file does not exist yet.
// Callers can check for this with errors.Is(err, config.ErrStoreNotFound).
var ErrStoreNotFound = errors.New("profile store not found")

type profilesFile struct {
	Profiles []queryloom.ConnectionConfig `yaml:"profiles"`
}

// Store is a file-backed connection-profile store. Not safe for concurrent
// mutation; the CLI uses one Store per invocation.
type Store struct {
	path     string
	profiles []queryloom.ConnectionConfig
}

// DefaultPath returns the profile store location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "queryloom", ProfilesFileName), nil
}

// Open loads the store at path, or returns an empty store if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read profile store: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profile store: %w", err)
	}
	s.profiles = file.Profiles
	return s, nil
}

// Save writes the store back to disk, creating parent directories as needed.
// The file is user-readable only: it holds credentials.
func (s *Store) Save() error {
	data, err := yaml.Marshal(profilesFile{Profiles: s.profiles})
	if err != nil {
		return fmt.Errorf("encode profile store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write profile store: %w", err)
	}
	return nil
}

// List returns all profiles in stored order.
func (s *Store) List() []queryloom.ConnectionConfig {
	out := make([]queryloom.ConnectionConfig, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Get returns the profile with the given id or name.
func (s *Store) Get(idOrName string) (*queryloom.ConnectionConfig, error) {
	for i := range s.profiles {
		if s.profiles[i].ID == idOrName || s.profiles[i].Name == idOrName {
			snapshot := s.profiles[i]
			return &snapshot, nil
		}
	}
	return nil, fmt.Errorf("profile %q: %w", idOrName, queryloom.ErrProfileNotFound)
}

// Add validates and appends a profile, assigning a fresh id.
func (s *Store) Add(cfg queryloom.ConnectionConfig) (*queryloom.ConnectionConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ID = uuid.NewString()
	s.profiles = append(s.profiles, cfg)
	return &cfg, nil
}

// Update replaces the profile with the same id. The id itself is immutable.
func (s *Store) Update(cfg queryloom.ConnectionConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for i := range s.profiles {
		if s.profiles[i].ID == cfg.ID {
			s.profiles[i] = cfg
			return nil
		}
	}
	return fmt.Errorf("profile %q: %w", cfg.ID, queryloom.ErrProfileNotFound)
}

// Delete removes the profile with the given id or name.
func (s *Store) Delete(idOrName string) error {
	for i := range s.profiles {
		if s.profiles[i].ID == idOrName || s.profiles[i].Name == idOrName {
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %q: %w", idOrName, queryloom.ErrProfileNotFound)
}

package settings

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// OnChangeListener is called with the new settings after every change.
// It runs under the store lock and must not block.
type OnChangeListener interface {
	OnSettingsChange(Settings)
}

// Store holds the live settings. When path is set, Update persists to it.
type Store struct {
	path     string
	dataMu   sync.RWMutex
	data     Settings
	listener OnChangeListener
}

func NewStore(initial Settings, path string) *Store {
	return &Store{path: path, data: initial}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get() Settings {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data
}

func (s *Store) SetOnChangeListener(l OnChangeListener) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.listener = l
}

// Update validates, persists and publishes settings.
func (s *Store) Update(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	if s.path != "" {
		if err := WriteFile(s.path, settings); err != nil {
			return err
		}
	}
	s.set(settings)
	return nil
}

// Replace publishes settings that were read from the config file, without
// writing them back.
func (s *Store) Replace(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.set(settings)
	return nil
}

// set requires dataMu held.
func (s *Store) set(settings Settings) {
	if settings == s.data {
		return
	}
	s.data = settings
	if s.listener != nil {
		s.listener.OnSettingsChange(settings)
	}
}

// WriteFile writes settings as YAML, atomically replacing path.
func WriteFile(path string, settings Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file then rename
	tmp, err := os.CreateTemp(dir, ConfigName+"-*.yaml.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

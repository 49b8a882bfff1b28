package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/tokoroten/NovelDrive-sub008/internal/patch"
)

const schemaVersion = 1

// Settings is the engine's persisted configuration. MatchThreshold is the
// default similarity floor used when a patch request does not carry one.
type Settings struct {
	SchemaVersion  int     `json:"schema_version"`
	MatchThreshold float64 `json:"match_threshold"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, err
	}
	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	backfillSettings(&settings)
	return &settings, nil
}

func (s *Store) Save(settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backfillSettings(settings)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) Update(fn func(*Settings)) (*Settings, error) {
	settings, err := s.Load()
	if err != nil {
		return nil, err
	}
	fn(settings)
	return settings, s.Save(settings)
}

func defaultSettings() *Settings {
	return &Settings{
		SchemaVersion:  schemaVersion,
		MatchThreshold: patch.DefaultThreshold,
	}
}

func backfillSettings(settings *Settings) {
	if settings.SchemaVersion == 0 {
		settings.SchemaVersion = schemaVersion
	}
	if settings.MatchThreshold <= 0 || settings.MatchThreshold > 1 {
		settings.MatchThreshold = patch.DefaultThreshold
	}
}

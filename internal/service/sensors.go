package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"askbuilding/internal/config"
	"askbuilding/internal/model"
)

// SensorConfigStore loads the static sensor-config file and caches it in
// memory. The cache is invalidated purely by elapsed wall-clock time; nothing
// in this system writes the file.
type SensorConfigStore struct {
	path string
	ttl  time.Duration

	mu       sync.Mutex
	cached   *model.SensorConfig
	loadedAt time.Time
}

// NewSensorConfigStore creates a store for the configured file path.
func NewSensorConfigStore(cfg *config.SensorConfig) *SensorConfigStore {
	return &SensorConfigStore{path: cfg.Path, ttl: cfg.CacheTTL}
}

// Get returns the cached config, reloading it when the window has elapsed.
func (s *SensorConfigStore) Get() (*model.SensorConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.loadedAt) < s.ttl {
		return s.cached, nil
	}

	cfg, err := LoadSensorConfig(s.path)
	if err != nil {
		// A stale config beats no config when the file is briefly
		// unreadable mid-rotation.
		if s.cached != nil {
			return s.cached, nil
		}
		return nil, err
	}
	s.cached = cfg
	s.loadedAt = time.Now()
	return cfg, nil
}

// LoadSensorConfig reads and decodes a sensor-config file.
func LoadSensorConfig(path string) (*model.SensorConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sensor config: %w", err)
	}
	var cfg model.SensorConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sensor config: %w", err)
	}
	if cfg.RoomToSensorMap == nil {
		cfg.RoomToSensorMap = map[string]model.SensorMapping{}
	}
	if cfg.SensorTypes == nil {
		cfg.SensorTypes = map[string]model.SensorType{}
	}
	return &cfg, nil
}

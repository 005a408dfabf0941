package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"askbuilding/internal/config"
)

func TestLoadSensorConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor_config.json")
	raw := `{
		"room_to_sensor_map": {"room_101": "s-1"},
		"sensor_types": {"temperature": {"unit": "°C"}}
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSensorConfig(path)
	if err != nil {
		t.Fatalf("LoadSensorConfig: %v", err)
	}
	if len(cfg.RoomToSensorMap) != 1 {
		t.Errorf("rooms = %d", len(cfg.RoomToSensorMap))
	}
	if cfg.UnitFor("temperature") != "°C" {
		t.Errorf("unit = %q", cfg.UnitFor("temperature"))
	}
}

func TestLoadSensorConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor_config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadSensorConfig(path)
	if err != nil {
		t.Fatalf("LoadSensorConfig: %v", err)
	}
	if cfg.RoomToSensorMap == nil || cfg.SensorTypes == nil {
		t.Error("maps should be initialized for empty configs")
	}
}

func TestLoadSensorConfigErrors(t *testing.T) {
	if _, err := LoadSensorConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSensorConfig(path); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestSensorConfigStoreCaching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor_config.json")
	write := func(raw string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(`{"room_to_sensor_map": {"room_101": "s-1"}}`)

	store := NewSensorConfigStore(&config.SensorConfig{Path: path, CacheTTL: time.Hour})

	first, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(first.RoomToSensorMap) != 1 {
		t.Fatalf("rooms = %d", len(first.RoomToSensorMap))
	}

	// within the window the file change is not observed
	write(`{"room_to_sensor_map": {"room_101": "s-1", "room_102": "s-2"}}`)
	second, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(second.RoomToSensorMap) != 1 {
		t.Errorf("cache bypassed: rooms = %d", len(second.RoomToSensorMap))
	}
}

func TestSensorConfigStoreStaleFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor_config.json")
	if err := os.WriteFile(path, []byte(`{"room_to_sensor_map": {"room_101": "s-1"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewSensorConfigStore(&config.SensorConfig{Path: path, CacheTTL: 0})

	if _, err := store.Get(); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// TTL zero forces a reload; the read now fails and the stale copy wins
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	cfg, err := store.Get()
	if err != nil {
		t.Fatalf("Get after removal: %v", err)
	}
	if len(cfg.RoomToSensorMap) != 1 {
		t.Errorf("stale fallback lost data: %+v", cfg.RoomToSensorMap)
	}
}

package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"askbuilding/internal/utils"
)

// SensorConfig is the static room-to-sensor mapping file. It is loaded
// read-only; the service layer caches it with a time-based window.
type SensorConfig struct {
	RoomToSensorMap map[string]SensorMapping `json:"room_to_sensor_map"`
	SensorTypes     map[string]SensorType    `json:"sensor_types"`
}

// SensorType carries display metadata for a sensor-type name.
type SensorType struct {
	Unit        string `json:"unit"`
	Description string `json:"description,omitempty"`
}

// SensorRef is one resolved sensor attached to a room.
type SensorRef struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id"`
}

// SensorMapping accepts the three value shapes the config file allows for one
// room entry: a single sensor id, a sensor-type -> id map, or a list of ids.
type SensorMapping struct {
	byType map[string]string
	ids    []string
}

// UnmarshalJSON probes the three accepted shapes in order.
func (m *SensorMapping) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		m.ids = []string{single}
		return nil
	}

	var typed map[string]string
	if err := json.Unmarshal(data, &typed); err == nil {
		m.byType = typed
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		m.ids = list
		return nil
	}

	return fmt.Errorf("sensor mapping must be a string, an object, or a list: %s", string(data))
}

// MarshalJSON writes the mapping back in its original shape.
func (m SensorMapping) MarshalJSON() ([]byte, error) {
	if m.byType != nil {
		return json.Marshal(m.byType)
	}
	if len(m.ids) == 1 {
		return json.Marshal(m.ids[0])
	}
	return json.Marshal(m.ids)
}

// All returns every sensor in the mapping. Typed entries are sorted by type
// name so callers see a stable order.
func (m SensorMapping) All() []SensorRef {
	if m.byType != nil {
		types := make([]string, 0, len(m.byType))
		for t := range m.byType {
			types = append(types, t)
		}
		sort.Strings(types)
		refs := make([]SensorRef, 0, len(types))
		for _, t := range types {
			refs = append(refs, SensorRef{Type: t, ID: m.byType[t]})
		}
		return refs
	}
	refs := make([]SensorRef, 0, len(m.ids))
	for _, id := range m.ids {
		refs = append(refs, SensorRef{ID: id})
	}
	return refs
}

// ForType returns the sensor id for a canonical measurement type. Typed
// entries match on their type names. Untyped entries first look for an id
// whose text names the measurement ("sensor_001_temp"); ids naming a
// different measurement are excluded, and only opaque ids fall back to
// first-id-serves-everything, which matches how single-sensor rooms are
// configured in practice.
func (m SensorMapping) ForType(canonical string) (string, bool) {
	if m.byType != nil {
		types := make([]string, 0, len(m.byType))
		for t := range m.byType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			if utils.MatchesMeasurement(t, canonical) {
				return m.byType[t], true
			}
		}
		return "", false
	}
	for _, id := range m.ids {
		if utils.MatchesMeasurement(id, canonical) {
			return id, true
		}
	}
	for _, id := range m.ids {
		if !utils.KnownMeasurement(id) {
			return id, true
		}
	}
	return "", false
}

// Empty reports whether the mapping holds no sensors at all.
func (m SensorMapping) Empty() bool {
	return len(m.byType) == 0 && len(m.ids) == 0
}

// NewTypedMapping builds a sensor-type keyed mapping (used by tests and
// placeholder construction).
func NewTypedMapping(byType map[string]string) SensorMapping {
	return SensorMapping{byType: byType}
}

// NewIDMapping builds a plain id-list mapping.
func NewIDMapping(ids ...string) SensorMapping {
	return SensorMapping{ids: ids}
}

// RoomKeys returns the configured room identities in sorted order. Import
// matching iterates this slice so results are reproducible run to run.
func (c *SensorConfig) RoomKeys() []string {
	keys := make([]string, 0, len(c.RoomToSensorMap))
	for k := range c.RoomToSensorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnitFor returns the display unit for a sensor-type name, if configured.
func (c *SensorConfig) UnitFor(sensorType string) string {
	if t, ok := c.SensorTypes[sensorType]; ok {
		return t.Unit
	}
	return ""
}

package utils

import (
	"strings"
)

// measurementAliases maps a canonical sensor-type name to the terms users (and
// sensor vendors) actually write. First canonical entry whose alias list
// matches wins, so more specific aliases must come before generic ones.
var measurementAliases = []struct {
	Canonical string
	Aliases   []string
}{
	{"temperature", []string{"temperature", "temp", "thermal", "degrees", "heat"}},
	{"humidity", []string{"humidity", "humid", "moisture", "rh"}},
	{"co2", []string{"co2", "carbon dioxide", "air quality", "ppm"}},
	{"illuminance", []string{"illuminance", "light", "lux", "brightness"}},
	{"occupancy", []string{"occupancy", "presence", "people", "occupied"}},
	{"energy", []string{"energy", "power", "consumption", "kwh", "watt"}},
}

// NormalizeMeasurement resolves a free-text measurement description to a
// canonical sensor-type name. Returns the lowercased input unchanged when no
// alias matches, so unknown types still produce a usable lookup key.
func NormalizeMeasurement(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return ""
	}
	for _, entry := range measurementAliases {
		for _, alias := range entry.Aliases {
			if strings.Contains(t, alias) {
				return entry.Canonical
			}
		}
	}
	return t
}

// KnownMeasurement reports whether the term names a recognized sensor type,
// directly or through an alias. Sensor ids conventionally embed their type
// ("sensor_001_temp"), so this also tells typed-looking ids apart from opaque
// ones.
func KnownMeasurement(term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return false
	}
	for _, entry := range measurementAliases {
		for _, alias := range entry.Aliases {
			if strings.Contains(t, alias) {
				return true
			}
		}
	}
	return false
}

// MatchesMeasurement reports whether a configured sensor-type name refers to
// the same measurement as the (already alias-normalized) requested type.
func MatchesMeasurement(sensorType, canonical string) bool {
	if canonical == "" {
		return false
	}
	st := strings.ToLower(strings.TrimSpace(sensorType))
	if st == canonical {
		return true
	}
	return NormalizeMeasurement(st) == canonical
}

package utils

import "testing"

func TestNormalizeMeasurement(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"temperature", "temperature"},
		{"Temp", "temperature"},
		{"how warm, in degrees", "temperature"},
		{"humidity", "humidity"},
		{"relative rh", "humidity"},
		{"CO2", "co2"},
		{"carbon dioxide level", "co2"},
		{"light", "illuminance"},
		{"brightness", "illuminance"},
		{"presence", "occupancy"},
		{"power", "energy"},
		{"kWh", "energy"},
		{"vibration", "vibration"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeMeasurement(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeMeasurement(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatchesMeasurement(t *testing.T) {
	tests := []struct {
		sensorType string
		canonical  string
		expected   bool
	}{
		{"temperature", "temperature", true},
		{"Temp", "temperature", true},
		{"thermal_probe", "temperature", true},
		{"humidity", "temperature", false},
		{"co2", "co2", true},
		{"anything", "", false},
	}

	for _, tt := range tests {
		got := MatchesMeasurement(tt.sensorType, tt.canonical)
		if got != tt.expected {
			t.Errorf("MatchesMeasurement(%q, %q) = %v, want %v", tt.sensorType, tt.canonical, got, tt.expected)
		}
	}
}

func TestKnownMeasurement(t *testing.T) {
	tests := []struct {
		term     string
		expected bool
	}{
		{"temperature", true},
		{"sensor_001_temp", true},
		{"hallway_lux_3", true},
		{"s-2", false},
		{"device42", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := KnownMeasurement(tt.term); got != tt.expected {
			t.Errorf("KnownMeasurement(%q) = %v, want %v", tt.term, got, tt.expected)
		}
	}
}

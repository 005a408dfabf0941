package repository

import "testing"

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		fallback string
		expected string
	}{
		{"plain token", "24h", "24h", "-24h"},
		{"short window", "1h", "24h", "-1h"},
		{"days", "7d", "24h", "-7d"},
		{"already negative", "-6h", "24h", "-6h"},
		{"last prefix", "last 12h", "24h", "-12h"},
		{"mixed case", "48H", "24h", "-48h"},
		{"unsupported falls back", "90d", "24h", "-24h"},
		{"empty falls back", "", "6h", "-6h"},
		{"bad fallback defaults", "90d", "yesterday", "-24h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRange(tt.token, tt.fallback)
			if got != tt.expected {
				t.Errorf("ResolveRange(%q, %q) = %q, want %q", tt.token, tt.fallback, got, tt.expected)
			}
		})
	}
}

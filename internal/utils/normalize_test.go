package utils

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"already normalized", "room 101", "room 101"},
		{"uppercase", "ROOM 101", "room 101"},
		{"punctuation runs collapse", "Room_101 - Office!", "room 101 office"},
		{"leading and trailing junk", "  ***Aula 2.04***  ", "aula 2 04"},
		{"unicode punctuation", "Ufficio·Docenti", "ufficio docenti"},
		{"only punctuation", "---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Room_101", "  AULA 2.04 ", "office", "a-b-c", ""}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestContainsNormalized(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		expected bool
	}{
		{"exact", "Room 101", "room 101", true},
		{"substring across punctuation", "Room_101_Office", "101 office", true},
		{"no match", "Room 101", "Room 102", false},
		{"empty needle never matches", "Room 101", "", false},
		{"punctuation-only needle never matches", "Room 101", "--", false},
		{"needle longer than haystack", "101", "room 101", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContainsNormalized(tt.haystack, tt.needle)
			if got != tt.expected {
				t.Errorf("ContainsNormalized(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.expected)
			}
		})
	}
}

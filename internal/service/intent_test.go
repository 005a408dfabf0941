package service

import (
	"testing"

	"askbuilding/internal/model"
)

func TestClassify(t *testing.T) {
	classifier := NewIntentClassifier()

	tests := []struct {
		name     string
		question string
		expected model.Intent
	}{
		{"structural connected", "Which rooms are connected to Room 101?", model.IntentStructural},
		{"structural same floor", "What is on the same floor as the lab?", model.IntentStructural},
		{"structural adjacent", "List rooms adjacent to the stairwell", model.IntentStructural},
		{"timeseries temperature", "What is the temperature in Room 101?", model.IntentTimeSeries},
		{"timeseries history", "Show me the humidity history", model.IntentTimeSeries},
		{"timeseries average", "What was the average reading yesterday?", model.IntentTimeSeries},
		{"timeseries max", "max co2 today", model.IntentTimeSeries},
		{"structural wins over timeseries", "average temperature of rooms connected to the atrium", model.IntentStructural},
		{"case insensitive", "TEMPERATURE in the office", model.IntentTimeSeries},
		{"ambiguous", "tell me about the building", model.IntentAmbiguous},
		{"empty", "", model.IntentAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.question)
			if got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.question, got, tt.expected)
			}
		})
	}
}

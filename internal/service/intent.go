package service

import (
	"strings"

	"askbuilding/internal/model"
)

// IntentClassifier routes a question to the graph or time-series backend by
// keyword membership. No scoring, no learning: the structural set is checked
// first and wins when both sets match.
type IntentClassifier struct {
	structural []string
	timeseries []string
}

// NewIntentClassifier creates a classifier with the fixed keyword sets.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		structural: []string{
			"connected to",
			"on the same floor",
			"next to",
			"adjacent",
			"connected",
		},
		timeseries: []string{
			"temperature",
			"history",
			"value",
			"avg",
			"average",
			"min",
			"max",
			"reading",
		},
	}
}

// Classify returns the intent for free-text input.
func (c *IntentClassifier) Classify(text string) model.Intent {
	q := strings.ToLower(text)
	for _, kw := range c.structural {
		if strings.Contains(q, kw) {
			return model.IntentStructural
		}
	}
	for _, kw := range c.timeseries {
		if strings.Contains(q, kw) {
			return model.IntentTimeSeries
		}
	}
	return model.IntentAmbiguous
}

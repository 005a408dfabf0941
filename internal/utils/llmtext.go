package utils

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Code-generation models wrap their answer in markdown fences more often than
// not, sometimes with a dialect tag, sometimes with prose around the block.
// These helpers recover the bare query text without parsing the dialect.

var (
	leadingFence  = regexp.MustCompile("^```[a-zA-Z0-9_-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```\\s*$")
	fencedBlock   = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\r?\n(.+?)\r?\n?```")
)

// StripCodeFences removes a leading ```lang marker and a trailing ``` from the
// text. Text without fences is returned trimmed and otherwise untouched.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractQueryText pulls the query out of a model reply. If the reply contains
// a fenced code block the first block wins (models like to explain around it);
// otherwise the whole reply is taken, minus any dangling fence markers.
func ExtractQueryText(reply string) string {
	s := strings.TrimSpace(reply)
	if s == "" {
		return ""
	}
	if m := fencedBlock.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return StripCodeFences(s)
}

// PrettyPrintJSON formats a value as indented JSON for CLI output.
func PrettyPrintJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TruncateString shortens long text for log and error messages.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

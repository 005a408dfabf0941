package utils

import "testing"

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fences", "MATCH (r:Room) RETURN r", "MATCH (r:Room) RETURN r"},
		{"plain fences", "```\nMATCH (r:Room) RETURN r\n```", "MATCH (r:Room) RETURN r"},
		{"language tag", "```cypher\nMATCH (r:Room) RETURN r\n```", "MATCH (r:Room) RETURN r"},
		{"flux tag", "```flux\nfrom(bucket: \"building\")\n```", "from(bucket: \"building\")"},
		{"dangling opening fence", "```cypher\nMATCH (r:Room) RETURN r", "MATCH (r:Room) RETURN r"},
		{"surrounding whitespace", "  ```\nRETURN 1\n```  ", "RETURN 1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripCodeFences(tt.input)
			if got != tt.expected {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractQueryText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"bare query",
			"MATCH (r:Room) RETURN r.name",
			"MATCH (r:Room) RETURN r.name",
		},
		{
			"prose around fenced block",
			"Here is the query you asked for:\n```cypher\nMATCH (r:Room) RETURN r.name\n```\nLet me know if you need more.",
			"MATCH (r:Room) RETURN r.name",
		},
		{
			"first of two blocks wins",
			"```cypher\nMATCH (a) RETURN a\n```\nor alternatively\n```cypher\nMATCH (b) RETURN b\n```",
			"MATCH (a) RETURN a",
		},
		{
			"multiline query in block",
			"```\nfrom(bucket: \"building\")\n  |> range(start: -24h)\n```",
			"from(bucket: \"building\")\n  |> range(start: -24h)",
		},
		{
			"empty reply",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractQueryText(tt.input)
			if got != tt.expected {
				t.Errorf("ExtractQueryText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString short = %q", got)
	}
	if got := TruncateString("a long query text", 6); got != "a long..." {
		t.Errorf("TruncateString long = %q", got)
	}
}

package model

// Intent classifies what a natural-language question is asking for.
type Intent string

const (
	// IntentStructural asks about building topology (connections, adjacency,
	// floors) and routes to the graph store.
	IntentStructural Intent = "structural"
	// IntentTimeSeries asks about sensor measurements and routes to the
	// time-series store.
	IntentTimeSeries Intent = "timeseries"
	// IntentAmbiguous matched neither keyword set; the router falls back to a
	// graph lookup.
	IntentAmbiguous Intent = "ambiguous"
)

// QueryDialect identifies the backend a generated query targets.
type QueryDialect string

const (
	DialectCypher QueryDialect = "cypher"
	DialectFlux   QueryDialect = "flux"
)

// GeneratedQuery is an opaque query string produced by the language model.
// The only cleanup applied is code-fence stripping; the text is never parsed
// or validated before execution.
type GeneratedQuery struct {
	Dialect QueryDialect `json:"dialect"`
	Text    string       `json:"text"`
}

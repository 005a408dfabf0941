package model

import (
	"errors"
	"time"
)

// AskRequest is a free-text question for the query router. RoomName is
// required for time-series questions, where the router first resolves the
// room identity before touching sensor data.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	RoomName string `json:"room_name,omitempty"`
}

// AskResponse is the raw router result: the generated queries that were
// executed and the backend rows, untouched.
type AskResponse struct {
	ID      string           `json:"id"`
	Intent  Intent           `json:"intent"`
	Queries []GeneratedQuery `json:"queries"`
	Rows    []map[string]any `json:"rows"`
	Took    int64            `json:"took_ms"`
}

// Sentinel errors for the data-error branch of the taxonomy: the plain router
// returns them to the caller, the toolkit surface renders them as descriptive
// results instead.
var (
	ErrRoomNameRequired = errors.New("room_name is required for time-series queries")
	ErrNoRoomMatch      = errors.New("no room matched the given name")
	ErrNoSensorMapping  = errors.New("no sensor mapping configured for room")
	ErrNoRecentData     = errors.New("no recent sensor data in the requested range")
)

// TopologyParams filters room records by substring match. Empty fields are
// ignored.
type TopologyParams struct {
	Category     string `json:"category,omitempty"`
	Floor        string `json:"floor,omitempty"`
	NameContains string `json:"name_contains,omitempty"`
}

// TopologyResult is a capped, sorted listing of matching rooms.
type TopologyResult struct {
	Rooms     []RoomRecord `json:"rooms"`
	Truncated bool         `json:"truncated"`
}

// ZoneMetricsParams describes a zone inspection request.
type ZoneMetricsParams struct {
	ZoneDescription string `json:"zone_description" binding:"required"`
	MeasurementType string `json:"measurement_type" binding:"required"`
	Goal            string `json:"goal,omitempty"`
	TimeRange       string `json:"time_range,omitempty"`
}

// Analysis goals accepted by InspectZoneMetrics.
const (
	GoalReport = "report"
	GoalMax    = "max"
	GoalMin    = "min"
	GoalAvg    = "avg"
)

// SensorReading is the latest value reported by one sensor.
type SensorReading struct {
	SensorID string    `json:"sensor_id"`
	Field    string    `json:"field"`
	Value    any       `json:"value"`
	Time     time.Time `json:"time"`
}

// AuditEntry records one generated query executed against a backend. The
// audit trail exists because generated queries run verbatim: the trust
// boundary is not enforced, so at minimum it is observable.
type AuditEntry struct {
	ID        string        `db:"id" json:"id"`
	AskedAt   time.Time     `db:"asked_at" json:"asked_at"`
	Question  string        `db:"question" json:"question"`
	Intent    Intent        `db:"intent" json:"intent"`
	Dialect   QueryDialect  `db:"dialect" json:"dialect"`
	QueryText string        `db:"query_text" json:"query_text"`
	RowCount  int           `db:"row_count" json:"row_count"`
	Duration  time.Duration `db:"-" json:"-"`
	ErrorText string        `db:"error_text" json:"error_text,omitempty"`
}

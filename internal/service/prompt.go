package service

import (
	"fmt"
)

// BucketPlaceholder is the token the Flux template tells the model to use for
// the bucket name; the router substitutes the configured bucket before
// execution. A fixed token beats asking the model to interpolate an
// environment variable it cannot see.
const BucketPlaceholder = "__BUCKET__"

// PromptBuilder produces the instruction strings sent to the language model.
// The schema descriptions must stay consistent with what RoomImporter writes;
// there is no automatic enforcement of that coupling.
type PromptBuilder struct{}

// NewPromptBuilder creates a builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const roomSchema = `The database has nodes labeled Room with properties:
- room_key (canonical identity)
- name (short room number, e.g. '001')
- long_name (descriptive name)
- global_id (IFC GlobalId)
- storey (floor code, e.g. '001', '00S')
- category_en (English category, e.g. 'Office', 'Meeting Room')
- category_it (Italian category, e.g. 'UFFICI', 'SALA RIUNIONI')`

// StructuralQuery asks for a Cypher query answering a relationship question.
func (b *PromptBuilder) StructuralQuery(question string) string {
	return fmt.Sprintf(`You are an expert at writing Cypher queries for a Neo4j building database.
%s
User request: %s
Return ONLY the Cypher query (no explanation).`, roomSchema, question)
}

// RoomKeyLookup asks for a Cypher query resolving a room name to its
// room_key. The room name may be in Italian or English.
func (b *PromptBuilder) RoomKeyLookup(roomName string) string {
	return fmt.Sprintf(`Write a Cypher query that finds the room_key property of a Room node given a room name.
%s
Match case-insensitively against name, long_name and category fields.
User-provided room name (may be in different languages): %s
Return ONLY the Cypher query; it must return the room_key property as room_key.
Example: MATCH (r:Room) WHERE toLower(r.long_name) CONTAINS toLower('Room 101') RETURN r.room_key AS room_key LIMIT 1`, roomSchema, roomName)
}

// SensorQuery asks for a Flux query retrieving measurements for one sensor.
func (b *PromptBuilder) SensorQuery(sensorID, question string) string {
	return fmt.Sprintf(`You are a Flux query writer for InfluxDB.
Write a Flux query that retrieves measurements for the given sensor identifier.
Rows are tagged with sensor_id; values are in _value and timestamps in _time.
Use %s as the bucket name placeholder, exactly as written.
Sensor identifier: %s
User time constraint: %s
Return ONLY the Flux query (no explanation).
Example:
from(bucket: %s)
  |> range(start: -24h)
  |> filter(fn: (r) => r.sensor_id == "sensor_001_temp")
  |> last()`, BucketPlaceholder, sensorID, question, BucketPlaceholder)
}

// FallbackQuery handles questions that matched neither keyword set.
func (b *PromptBuilder) FallbackQuery(question string) string {
	return fmt.Sprintf(`User query appears ambiguous. If it is asking about rooms or their relationships, write a Cypher query answering it.
%s
User: %s
Return only a Cypher query.`, roomSchema, question)
}

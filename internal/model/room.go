package model

// RoomRecord is the graph-store representation of one building space. The
// room_key is the canonical identity joining the graph store and the sensor
// configuration: either a matched sensor-config key or a generated fallback
// derived from the IFC GlobalId. Records are upserted by key and never deleted.
type RoomRecord struct {
	RoomKey    string   `json:"room_key"`
	Name       string   `json:"name,omitempty"`
	LongName   string   `json:"long_name,omitempty"`
	GlobalID   string   `json:"global_id,omitempty"`
	ObjectType string   `json:"object_type,omitempty"`
	Storey     string   `json:"storey,omitempty"`
	Area       *float64 `json:"area,omitempty"`
	IsExternal *bool    `json:"is_external,omitempty"`
	CategoryIT string   `json:"category_it,omitempty"`
	CategoryEN string   `json:"category_en,omitempty"`

	// AllProperties carries every extracted pset serialized as one JSON
	// string, so the graph keeps the full semantics without a node per
	// property.
	AllProperties string `json:"all_properties,omitempty"`
}

// FallbackKeyPrefix marks room keys synthesized from the IFC GlobalId when no
// sensor-config key matched the space.
const FallbackKeyPrefix = "ifc_auto_"

// FallbackRoomKey derives the deterministic identity for an unmatched space.
func FallbackRoomKey(globalID string) string {
	return FallbackKeyPrefix + globalID
}

// ImportSummary reports what one import run did.
type ImportSummary struct {
	Spaces       int `json:"spaces"`
	Matched      int `json:"matched"`
	Fallback     int `json:"fallback"`
	Skipped      int `json:"skipped"`
	Placeholders int `json:"placeholders"`
}

package repository

import (
	"regexp"
	"strings"
	"testing"

	"askbuilding/internal/model"
)

// matchStorey applies a storey pattern with the full-string semantics the
// graph store gives the =~ operator.
func matchStorey(t *testing.T, pattern, storey string) bool {
	t.Helper()
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		t.Fatalf("pattern %q does not compile: %v", pattern, err)
	}
	return re.MatchString(storey)
}

func TestStoreyPattern(t *testing.T) {
	tests := []struct {
		name    string
		floor   string
		storey  string
		matches bool
	}{
		{"padded code", "1", "001", true},
		{"bare code", "1", "1", true},
		{"named storey", "1", "piano 1", true},
		{"padded in name", "1", "Level 01", true},
		{"no digit borrowing", "1", "010", false},
		{"different floor", "1", "002", false},
		{"ground padded", "0", "000", true},
		{"ground bare", "0", "0", true},
		{"ground suffix code", "0", "00S", true},
		{"ground does not match first", "0", "001", false},
		{"ground does not match second", "0", "002", false},
		{"ground does not match third", "0", "003", false},
		{"two digits", "12", "012", true},
		{"two digits not one", "2", "012", false},
		{"empty storey", "1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := storeyPattern(tt.floor)
			if pattern == "" {
				t.Fatalf("storeyPattern(%q) returned no pattern", tt.floor)
			}
			if got := matchStorey(t, pattern, tt.storey); got != tt.matches {
				t.Errorf("floor %q vs storey %q = %v, want %v", tt.floor, tt.storey, got, tt.matches)
			}
		})
	}

	if got := storeyPattern("mezzanine"); got != "" {
		t.Errorf("storeyPattern without digits = %q, want empty", got)
	}
}

func TestUpsertRoomStatementMergesOnKey(t *testing.T) {
	if !strings.Contains(upsertRoomCypher, "MERGE (r:Room {room_key: $room_key})") {
		t.Fatalf("upsert statement does not merge on room_key:\n%s", upsertRoomCypher)
	}
	if strings.Contains(upsertRoomCypher, "CREATE") {
		t.Errorf("upsert statement must not CREATE:\n%s", upsertRoomCypher)
	}

	// Every placeholder in the statement has a value in the parameter map.
	placeholders := regexp.MustCompile(`\$(\w+)`).FindAllStringSubmatch(upsertRoomCypher, -1)
	params := roomParams(&model.RoomRecord{RoomKey: "room_101"})
	for _, m := range placeholders {
		if _, ok := params[m[1]]; !ok {
			t.Errorf("statement references $%s but roomParams omits it", m[1])
		}
	}
}

func TestRoomParams(t *testing.T) {
	area := 24.5
	external := false
	rec := &model.RoomRecord{
		RoomKey:       "room_101",
		Name:          "Room 101",
		LongName:      "Director Office",
		GlobalID:      "3kQ9aBc",
		ObjectType:    "IfcSpace",
		Storey:        "003",
		Area:          &area,
		IsExternal:    &external,
		CategoryIT:    "UFFICI DOCENTI",
		CategoryEN:    "Office",
		AllProperties: `{"Pset_SpaceCommon":{}}`,
	}

	params := roomParams(rec)
	if params["room_key"] != "room_101" || params["storey"] != "003" {
		t.Errorf("unexpected identity params: %v", params)
	}
	if params["area"] != 24.5 {
		t.Errorf("area = %v, want 24.5", params["area"])
	}
	if params["is_external"] != false {
		t.Errorf("is_external = %v, want false", params["is_external"])
	}

	bare := roomParams(&model.RoomRecord{RoomKey: "room_202"})
	if bare["area"] != nil || bare["is_external"] != nil {
		t.Errorf("optional fields should stay nil: area=%v is_external=%v",
			bare["area"], bare["is_external"])
	}
}

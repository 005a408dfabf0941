package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"askbuilding/internal/ifc"
	"askbuilding/internal/model"
	"askbuilding/internal/utils"
)

// RoomWriter is the slice of the graph store the importer needs.
type RoomWriter interface {
	UpsertRoom(ctx context.Context, rec *model.RoomRecord) error
	UpsertPlaceholder(ctx context.Context, roomKey string) error
}

// RoomImporter turns parsed IFC spaces into room records and upserts them
// into the graph store.
type RoomImporter struct {
	graph RoomWriter
	log   *zap.SugaredLogger
}

// NewRoomImporter creates an importer.
func NewRoomImporter(graph RoomWriter, log *zap.SugaredLogger) *RoomImporter {
	return &RoomImporter{graph: graph, log: log}
}

// Import produces one record per space and upserts it, then materializes
// placeholder records for configured keys that matched no space. Extraction
// or upsert failures abort the run; there is no partial-failure isolation.
func (ri *RoomImporter) Import(ctx context.Context, spaces []ifc.Space, cfg *model.SensorConfig) (*model.ImportSummary, error) {
	keys := cfg.RoomKeys()
	summary := &model.ImportSummary{Spaces: len(spaces)}
	matched := make(map[string]bool)

	for _, space := range spaces {
		rec, key, err := BuildRoomRecord(space, keys)
		if err != nil {
			return nil, fmt.Errorf("space %q: %w", space.GlobalID, err)
		}
		if rec == nil {
			ri.log.Warnw("skipping space without global id", "name", space.Name)
			summary.Skipped++
			continue
		}
		if key != "" {
			matched[key] = true
			summary.Matched++
		} else {
			summary.Fallback++
		}
		if err := ri.graph.UpsertRoom(ctx, rec); err != nil {
			return nil, fmt.Errorf("upsert room %q: %w", rec.RoomKey, err)
		}
		ri.log.Infow("upserted room", "room_key", rec.RoomKey,
			"storey", rec.Storey, "category", rec.CategoryEN)
	}

	for _, key := range keys {
		if matched[key] {
			continue
		}
		if err := ri.graph.UpsertPlaceholder(ctx, key); err != nil {
			return nil, fmt.Errorf("upsert placeholder %q: %w", key, err)
		}
		summary.Placeholders++
	}

	return summary, nil
}

// BuildRoomRecord extracts the record for one space. Returns a nil record for
// spaces that neither matched a configured key nor carry a GlobalId (they
// have no derivable identity). The second return is the matched config key,
// empty when the identity is a fallback.
func BuildRoomRecord(space ifc.Space, configKeys []string) (*model.RoomRecord, string, error) {
	matchKey, ok := MatchRoomKey(space, configKeys)

	roomKey := matchKey
	if !ok {
		if space.GlobalID == "" {
			return nil, "", nil
		}
		roomKey = model.FallbackRoomKey(space.GlobalID)
	}

	rec := &model.RoomRecord{
		RoomKey:    roomKey,
		Name:       space.Name,
		LongName:   space.LongName,
		GlobalID:   space.GlobalID,
		ObjectType: space.ObjectType,
		Storey:     space.Storey,
	}

	common := space.Psets["Pset_SpaceCommon"]
	for _, attr := range []string{"GrossPlannedArea", "NetPlannedArea", "Area"} {
		if f, ok := toFloat(common[attr]); ok {
			area := f
			rec.Area = &area
			break
		}
	}
	if b, ok := common["IsExternal"].(bool); ok {
		ext := b
		rec.IsExternal = &ext
	}

	// Project-specific pset: custom storey code and Italian category.
	locali := space.Psets["IFC_Locali"]
	if s := toString(locali["PBSs_III_PIANO"]); s != "" {
		rec.Storey = s
	}
	rec.CategoryIT = toString(locali["SBSm_CATEGORIA_DESCRIZIONE"])
	rec.CategoryEN = TranslateCategory(rec.CategoryIT)

	allProps, err := json.Marshal(space.Psets)
	if err != nil {
		return nil, "", fmt.Errorf("serialize properties: %w", err)
	}
	rec.AllProperties = string(allProps)

	return rec, matchKey, nil
}

// MatchRoomKey resolves a space to a configured room key. Five normalized
// candidates are built from the space (global id, name, long name, and both
// concatenation orders) and tested against every key in three tiers:
//
//	1. exact equality against any candidate
//	2. key is a substring of either concatenation
//	3. either concatenation is a substring of the key
//
// A lower tier always beats a higher one. Within a tier, ties break by
// shortest normalized key, then lexicographically, so the outcome does not
// depend on map iteration order.
func MatchRoomKey(space ifc.Space, configKeys []string) (string, bool) {
	nGlobal := utils.Normalize(space.GlobalID)
	nName := utils.Normalize(space.Name)
	nLong := utils.Normalize(space.LongName)
	nLongName := utils.Normalize(space.LongName + " " + space.Name)
	nNameLong := utils.Normalize(space.Name + " " + space.LongName)

	exact := []string{nGlobal, nName, nLong, nLongName, nNameLong}

	bestTier := 0
	var best, bestNorm string
	consider := func(tier int, key, norm string) {
		if bestTier != 0 && tier > bestTier {
			return
		}
		if bestTier == tier {
			if len(norm) > len(bestNorm) || (len(norm) == len(bestNorm) && norm >= bestNorm) {
				return
			}
		}
		bestTier, best, bestNorm = tier, key, norm
	}

	for _, key := range configKeys {
		k := utils.Normalize(key)
		if k == "" {
			continue
		}
		tier := 0
		for _, cand := range exact {
			if cand != "" && k == cand {
				tier = 1
				break
			}
		}
		if tier == 0 && (substr(nLongName, k) || substr(nNameLong, k)) {
			tier = 2
		}
		if tier == 0 && (substr(k, nLongName) || substr(k, nNameLong)) {
			tier = 3
		}
		if tier != 0 {
			consider(tier, key, k)
		}
	}

	return best, bestTier != 0
}

func substr(haystack, needle string) bool {
	return needle != "" && haystack != "" && strings.Contains(haystack, needle)
}

// categoryTable maps Italian category descriptions to English labels. Order
// matters: the first entry contained in the upper-cased description wins.
var categoryTable = []struct {
	IT string
	EN string
}{
	{"UFFICI", "Office"},
	{"AULE", "Classroom"},
	{"AULA", "Classroom"},
	{"SERVIZI", "Restroom"},
	{"WC", "Restroom"},
	{"CIRC.ORIZ", "Corridor"},
	{"CONNETTIVO", "Corridor"},
	{"SCALE", "Stairs"},
	{"DEPOSITI", "Storage"},
	{"DEPOSITO", "Storage"},
	{"TECNICI", "Technical Room"},
	{"LOCALE TECNICO", "Technical Room"},
	{"LABORATORI", "Laboratory"},
	{"LABORATORIO", "Laboratory"},
	{"RISTORO", "Break Room"},
	{"SPAZI COMPLEMENTARI", "Support Space"},
	{"SALA RIUNIONI", "Meeting Room"},
	{"SALA STUDIO", "Study Room"},
}

// TranslateCategory maps an Italian category description to its English
// label by substring containment, e.g. "UFFICI DOCENTI" -> "Office".
// Unmapped descriptions yield "".
func TranslateCategory(categoryIT string) string {
	if categoryIT == "" {
		return ""
	}
	upper := strings.ToUpper(categoryIT)
	for _, entry := range categoryTable {
		if strings.Contains(upper, entry.IT) {
			return entry.EN
		}
	}
	return ""
}

// CategoryKeywords returns the known English labels, used by zone parsing.
func CategoryKeywords() []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range categoryTable {
		if !seen[entry.EN] {
			seen[entry.EN] = true
			out = append(out, entry.EN)
		}
	}
	sort.Strings(out)
	return out
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		// Storey codes like "01" survive as strings, but some authoring
		// tools emit them as numbers.
		return strings.TrimSuffix(fmt.Sprintf("%g", x), ".0")
	default:
		return fmt.Sprintf("%v", x)
	}
}

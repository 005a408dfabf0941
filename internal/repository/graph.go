package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"askbuilding/internal/config"
	"askbuilding/internal/model"
	"askbuilding/internal/utils"
)

// GraphRepository handles all Neo4j operations: room upserts from the import
// flow and read queries from the router and toolkit.
type GraphRepository struct {
	driver neo4j.DriverWithContext
	log    *zap.SugaredLogger
}

// NewGraphRepository connects to Neo4j and verifies connectivity.
func NewGraphRepository(ctx context.Context, cfg *config.Neo4jConfig, log *zap.SugaredLogger) (*GraphRepository, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create graph driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("graph store unreachable: %w", err)
	}
	return &GraphRepository{driver: driver, log: log}, nil
}

// Close releases the driver.
func (r *GraphRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

const upsertRoomCypher = `
MERGE (r:Room {room_key: $room_key})
SET r.name = $name,
    r.long_name = $long_name,
    r.global_id = $global_id,
    r.object_type = $object_type,
    r.storey = $storey,
    r.area = $area,
    r.is_external = $is_external,
    r.category_it = $category_it,
    r.category_en = $category_en,
    r.all_properties = $all_properties`

func roomParams(rec *model.RoomRecord) map[string]any {
	params := map[string]any{
		"room_key":       rec.RoomKey,
		"name":           rec.Name,
		"long_name":      rec.LongName,
		"global_id":      rec.GlobalID,
		"object_type":    rec.ObjectType,
		"storey":         rec.Storey,
		"area":           nil,
		"is_external":    nil,
		"category_it":    rec.CategoryIT,
		"category_en":    rec.CategoryEN,
		"all_properties": rec.AllProperties,
	}
	if rec.Area != nil {
		params["area"] = *rec.Area
	}
	if rec.IsExternal != nil {
		params["is_external"] = *rec.IsExternal
	}
	return params
}

// UpsertRoom writes one room record, keyed on room_key. Re-running the same
// import produces no duplicates: MERGE matches the existing node and SET
// overwrites its attributes.
func (r *GraphRepository) UpsertRoom(ctx context.Context, rec *model.RoomRecord) error {
	return r.write(ctx, upsertRoomCypher, roomParams(rec))
}

// UpsertPlaceholder materializes a configured room key that matched no space,
// so sensor lookups keyed on it still resolve to a node.
func (r *GraphRepository) UpsertPlaceholder(ctx context.Context, roomKey string) error {
	cypher := `MERGE (r:Room {room_key: $room_key}) SET r.object_type = 'Placeholder'`
	return r.write(ctx, cypher, map[string]any{"room_key": roomKey})
}

func (r *GraphRepository) write(ctx context.Context, cypher string, params map[string]any) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return fmt.Errorf("graph write failed: %w", err)
	}
	if _, err := res.Consume(ctx); err != nil {
		return fmt.Errorf("graph write failed: %w", err)
	}
	return nil
}

// Run executes arbitrary query text verbatim and returns the rows as plain
// maps. The text is typically language-model output and is NOT validated or
// sanitized here; that trust gap is logged at this boundary and recorded in
// the audit trail by the caller.
func (r *GraphRepository) Run(ctx context.Context, cypher string) ([]map[string]any, error) {
	r.log.Warnw("executing unvalidated generated query", "dialect", "cypher",
		"query", utils.TruncateString(cypher, 300))

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, nil)
	if err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	var rows []map[string]any
	for res.Next(ctx) {
		rows = append(rows, res.Record().AsMap())
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	return rows, nil
}

const roomFields = `r.room_key AS room_key, r.name AS name, r.long_name AS long_name,
       r.global_id AS global_id, r.object_type AS object_type, r.storey AS storey,
       r.area AS area, r.is_external AS is_external,
       r.category_it AS category_it, r.category_en AS category_en`

var storeyDigits = regexp.MustCompile(`\d+`)

// storeyPattern builds a Cypher regex that matches a floor number against the
// numeric part of a storey code, tolerating zero-padding: "1" matches "001",
// "1" and "piano 1" but not "010", and "0" matches "000" without also
// matching every padded code in the building. Returns "" when the floor text
// carries no number, in which case the caller falls back to substring
// matching.
func storeyPattern(floor string) string {
	num := storeyDigits.FindString(floor)
	if num == "" {
		return ""
	}
	trimmed := strings.TrimLeft(num, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return `(.*[^0-9])?0*` + trimmed + `([^0-9].*)?`
}

// QueryTopology filters room records by case-insensitive substring on
// category and name, and by numeric storey-code match on floor. Results are
// sorted by storey then name and capped at limit; Truncated reports whether
// more rows existed.
func (r *GraphRepository) QueryTopology(ctx context.Context, p model.TopologyParams, limit int) (*model.TopologyResult, error) {
	where := []string{}
	params := map[string]any{"limit": int64(limit + 1)}

	if p.Category != "" {
		where = append(where, `(toLower(coalesce(r.category_en, '')) CONTAINS $category
			OR toLower(coalesce(r.category_it, '')) CONTAINS $category)`)
		params["category"] = strings.ToLower(p.Category)
	}
	if p.Floor != "" {
		if pattern := storeyPattern(p.Floor); pattern != "" {
			where = append(where, `coalesce(r.storey, '') =~ $floor`)
			params["floor"] = pattern
		} else {
			where = append(where, `toLower(coalesce(r.storey, '')) CONTAINS $floor`)
			params["floor"] = strings.ToLower(p.Floor)
		}
	}
	if p.NameContains != "" {
		where = append(where, `(toLower(coalesce(r.name, '')) CONTAINS $name
			OR toLower(coalesce(r.long_name, '')) CONTAINS $name)`)
		params["name"] = strings.ToLower(p.NameContains)
	}

	cypher := "MATCH (r:Room)"
	if len(where) > 0 {
		cypher += "\nWHERE " + strings.Join(where, "\n  AND ")
	}
	cypher += "\nRETURN " + roomFields + "\nORDER BY r.storey, r.name\nLIMIT $limit"

	rooms, err := r.queryRooms(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	result := &model.TopologyResult{Rooms: rooms}
	if len(result.Rooms) > limit {
		result.Rooms = result.Rooms[:limit]
		result.Truncated = true
	}
	return result, nil
}

// FindRoomCandidates resolves a free-text room name to candidate records by
// case-insensitive substring match over name, long name and room key.
func (r *GraphRepository) FindRoomCandidates(ctx context.Context, name string, limit int) ([]model.RoomRecord, error) {
	cypher := `MATCH (r:Room)
WHERE toLower(coalesce(r.name, '')) CONTAINS $needle
   OR toLower(coalesce(r.long_name, '')) CONTAINS $needle
   OR toLower(r.room_key) CONTAINS $needle
RETURN ` + roomFields + `
ORDER BY r.room_key
LIMIT $limit`
	params := map[string]any{
		"needle": strings.ToLower(strings.TrimSpace(name)),
		"limit":  int64(limit),
	}
	return r.queryRooms(ctx, cypher, params)
}

func (r *GraphRepository) queryRooms(ctx context.Context, cypher string, params map[string]any) ([]model.RoomRecord, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	var rooms []model.RoomRecord
	for res.Next(ctx) {
		rooms = append(rooms, roomFromMap(res.Record().AsMap()))
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	return rooms, nil
}

func roomFromMap(m map[string]any) model.RoomRecord {
	rec := model.RoomRecord{
		RoomKey:    stringVal(m, "room_key"),
		Name:       stringVal(m, "name"),
		LongName:   stringVal(m, "long_name"),
		GlobalID:   stringVal(m, "global_id"),
		ObjectType: stringVal(m, "object_type"),
		Storey:     stringVal(m, "storey"),
		CategoryIT: stringVal(m, "category_it"),
		CategoryEN: stringVal(m, "category_en"),
	}
	if f, ok := m["area"].(float64); ok {
		rec.Area = &f
	}
	if b, ok := m["is_external"].(bool); ok {
		rec.IsExternal = &b
	}
	return rec
}

func stringVal(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

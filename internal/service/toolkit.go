package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"askbuilding/internal/config"
	"askbuilding/internal/model"
	"askbuilding/internal/utils"
)

// Toolkit is the canned-operation surface: deterministic replacements for
// free-form query generation, plus the persona-styled inspection. Data
// conditions (no room, no sensors, no recent values) come back as descriptive
// messages; only infrastructure failures return errors.
type Toolkit struct {
	graph     GraphStore
	ts        TimeSeriesStore
	sensors   *SensorConfigStore
	formatter *ResultFormatter
	limits    config.ToolkitConfig
	log       *zap.SugaredLogger
}

// NewToolkit wires the canned operations.
func NewToolkit(
	graph GraphStore,
	ts TimeSeriesStore,
	sensors *SensorConfigStore,
	limits config.ToolkitConfig,
	log *zap.SugaredLogger,
) *Toolkit {
	return &Toolkit{
		graph:     graph,
		ts:        ts,
		sensors:   sensors,
		formatter: NewResultFormatter(),
		limits:    limits,
		log:       log,
	}
}

// Formatter exposes the persona renderer so callers can stay in character
// when the toolkit itself fails.
func (t *Toolkit) Formatter() *ResultFormatter {
	return t.formatter
}

// QueryTopology filters room records by substring on category, floor and
// name, capped and sorted by the repository.
func (t *Toolkit) QueryTopology(ctx context.Context, p model.TopologyParams) (*model.TopologyResult, error) {
	return t.graph.QueryTopology(ctx, p, t.limits.RowLimit)
}

// CheckSensorConfig resolves a room by fuzzy name match and renders its
// configured sensors with unit metadata.
func (t *Toolkit) CheckSensorConfig(ctx context.Context, roomName string) (string, error) {
	candidates, err := t.graph.FindRoomCandidates(ctx, roomName, t.limits.RoomCandidates)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return t.formatter.NoRoom(roomName), nil
	}
	room := candidates[0]

	cfg, err := t.sensors.Get()
	if err != nil {
		return "", err
	}
	mapping, ok := cfg.RoomToSensorMap[room.RoomKey]
	if !ok || mapping.Empty() {
		return t.formatter.NoSensorInstalled(roomName, room.RoomKey), nil
	}

	return t.formatter.SensorListing(room, mapping.All(), cfg), nil
}

// ZoneReading is one room's latest measurement inside an inspected zone.
type ZoneReading struct {
	Room     model.RoomRecord
	SensorID string
	Reading  model.SensorReading
	Numeric  *float64
}

// InspectZoneMetrics resolves a zone description to rooms, intersects with
// rooms carrying a matching sensor type, batch-queries the latest values and
// aggregates per the analysis goal.
func (t *Toolkit) InspectZoneMetrics(ctx context.Context, p model.ZoneMetricsParams) (string, error) {
	canonical := utils.NormalizeMeasurement(p.MeasurementType)
	goal := strings.ToLower(strings.TrimSpace(p.Goal))
	if goal == "" {
		goal = model.GoalReport
	}

	zone := ParseZoneDescription(p.ZoneDescription)
	topo, err := t.graph.QueryTopology(ctx, zone, t.limits.RowLimit)
	if err != nil {
		return "", err
	}
	if len(topo.Rooms) == 0 {
		return t.formatter.NoRoomsInZone(p.ZoneDescription), nil
	}

	cfg, err := t.sensors.Get()
	if err != nil {
		return "", err
	}

	type roomSensor struct {
		room     model.RoomRecord
		sensorID string
	}
	var matched []roomSensor
	for _, room := range topo.Rooms {
		mapping, ok := cfg.RoomToSensorMap[room.RoomKey]
		if !ok || mapping.Empty() {
			continue
		}
		sensorID, ok := mapping.ForType(canonical)
		if !ok {
			continue
		}
		matched = append(matched, roomSensor{room: room, sensorID: sensorID})
	}
	if len(matched) == 0 {
		return t.formatter.NoSensorsInZone(p.ZoneDescription, canonical), nil
	}

	ids := make([]string, len(matched))
	for i, m := range matched {
		ids[i] = m.sensorID
	}
	readings, err := t.ts.LatestBySensor(ctx, ids, p.TimeRange, t.limits.DefaultRange)
	if err != nil {
		return "", err
	}

	var rows []ZoneReading
	silent := 0
	for _, m := range matched {
		reading, ok := readings[m.sensorID]
		if !ok {
			silent++
			continue
		}
		zr := ZoneReading{Room: m.room, SensorID: m.sensorID, Reading: reading}
		if f, ok := numericValue(reading.Value); ok {
			zr.Numeric = &f
		}
		rows = append(rows, zr)
	}

	unit := cfg.UnitFor(canonical)

	switch goal {
	case model.GoalMax, model.GoalMin:
		best, ok := extremalReading(rows, goal == model.GoalMax)
		if !ok {
			return t.formatter.NoRecentData(p.ZoneDescription, canonical), nil
		}
		return t.formatter.ZoneExtreme(goal, p.ZoneDescription, canonical, unit, best), nil
	case model.GoalAvg:
		avg, low, high, counted := meanReading(rows)
		if counted == 0 {
			return t.formatter.NoRecentData(p.ZoneDescription, canonical), nil
		}
		return t.formatter.ZoneAverage(p.ZoneDescription, canonical, unit, avg, low, high, counted, silent), nil
	default:
		return t.formatter.ZoneReport(p.ZoneDescription, canonical, unit, sortedByRoom(rows), silent), nil
	}
}

// extremalReading picks the numeric extreme. Rooms without a recent value or
// with a non-numeric value are excluded.
func extremalReading(rows []ZoneReading, wantMax bool) (ZoneReading, bool) {
	var best ZoneReading
	found := false
	for _, row := range rows {
		if row.Numeric == nil {
			continue
		}
		if !found {
			best, found = row, true
			continue
		}
		if wantMax && *row.Numeric > *best.Numeric {
			best = row
		}
		if !wantMax && *row.Numeric < *best.Numeric {
			best = row
		}
	}
	return best, found
}

// meanReading computes the arithmetic mean and the numeric range over rows
// with numeric values.
func meanReading(rows []ZoneReading) (avg, low, high float64, counted int) {
	sum := 0.0
	for _, row := range rows {
		if row.Numeric == nil {
			continue
		}
		v := *row.Numeric
		if counted == 0 {
			low, high = v, v
		} else {
			if v < low {
				low = v
			}
			if v > high {
				high = v
			}
		}
		sum += v
		counted++
	}
	if counted > 0 {
		avg = sum / float64(counted)
	}
	return avg, low, high, counted
}

func sortedByRoom(rows []ZoneReading) []ZoneReading {
	out := make([]ZoneReading, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Room.Storey != out[j].Room.Storey {
			return out[i].Room.Storey < out[j].Room.Storey
		}
		return roomLabel(out[i].Room) < roomLabel(out[j].Room)
	})
	return out
}

func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

var (
	floorBefore = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)?\s*(?:floor|piano)`)
	floorAfter  = regexp.MustCompile(`(?:floor|piano|level)\s*(\d+)`)
)

// zoneCategoryKeywords maps description keywords to the category labels the
// importer writes. Italian terms are included because zone descriptions come
// from the same users who named the rooms.
var zoneCategoryKeywords = []struct {
	keyword  string
	category string
}{
	{"office", "Office"},
	{"uffic", "Office"},
	{"classroom", "Classroom"},
	{"aula", "Classroom"},
	{"aule", "Classroom"},
	{"corridor", "Corridor"},
	{"hallway", "Corridor"},
	{"laborator", "Laboratory"},
	{"lab ", "Laboratory"},
	{"restroom", "Restroom"},
	{"bathroom", "Restroom"},
	{"toilet", "Restroom"},
	{"wc", "Restroom"},
	{"meeting", "Meeting Room"},
	{"riunion", "Meeting Room"},
	{"storage", "Storage"},
	{"deposit", "Storage"},
	{"stair", "Stairs"},
	{"scale", "Stairs"},
	{"break", "Break Room"},
	{"study", "Study Room"},
	{"technical", "Technical Room"},
	{"tecnic", "Technical Room"},
}

// ParseZoneDescription turns a free-text zone description into topology
// filter parameters: floor-number extraction first, then category keywords,
// else a fuzzy name fallback on the whole description.
func ParseZoneDescription(desc string) model.TopologyParams {
	d := strings.ToLower(strings.TrimSpace(desc))
	var p model.TopologyParams

	if m := floorBefore.FindStringSubmatch(d); m != nil {
		p.Floor = m[1]
	} else if m := floorAfter.FindStringSubmatch(d); m != nil {
		p.Floor = m[1]
	} else if strings.Contains(d, "ground floor") || strings.Contains(d, "piano terra") {
		p.Floor = "0"
	}

	for _, entry := range zoneCategoryKeywords {
		if strings.Contains(d, entry.keyword) {
			p.Category = entry.category
			break
		}
	}

	if p.Floor == "" && p.Category == "" {
		p.NameContains = strings.TrimSpace(desc)
	}
	return p
}

func roomLabel(room model.RoomRecord) string {
	if room.LongName != "" {
		return room.LongName
	}
	if room.Name != "" {
		return room.Name
	}
	return room.RoomKey
}

package service

import (
	"fmt"
	"strings"

	"askbuilding/internal/model"
)

// ResultFormatter renders backend rows and aggregates for the persona-styled
// inspector surface. Formatting never alters the values it is given, only
// structure and contextual annotations; the inspector's voice comes from the
// original site-inspector character, a grumpy Milanese "umarell".
type ResultFormatter struct{}

// NewResultFormatter creates a formatter.
func NewResultFormatter() *ResultFormatter {
	return &ResultFormatter{}
}

// Comfort thresholds for temperature readings.
const (
	comfortHigh = 21.0
	comfortLow  = 19.0
)

// ComfortLabel attaches a qualitative annotation to temperature readings.
// Non-temperature fields and non-numeric values get no label.
func (f *ResultFormatter) ComfortLabel(field string, value any) string {
	fl := strings.ToLower(field)
	if fl != "temperature" && fl != "temp" {
		return ""
	}
	v, ok := numericValue(value)
	if !ok {
		return ""
	}
	switch {
	case v > comfortHigh:
		return "(HIGH - Wasting money)"
	case v < comfortLow:
		return "(LOW - Chilly)"
	default:
		return "(Acceptable)"
	}
}

// NoRoom is the in-character reply when no room matches a name.
func (f *ResultFormatter) NoRoom(roomName string) string {
	return fmt.Sprintf("Ué! I cannot find any room called '%s' in the building plans. Are you making things up, barlafus?", roomName)
}

// NoSensorInstalled is the in-character reply for a room with no mapping.
func (f *ResultFormatter) NoSensorInstalled(roomName, roomKey string) string {
	return fmt.Sprintf("Room '%s' (ID: %s) exists, but no sensor is installed there. Va che l'è brutta! How can I monitor what I cannot measure?", roomName, roomKey)
}

// NoRoomsInZone is the reply when a zone description matches nothing.
func (f *ResultFormatter) NoRoomsInZone(zone string) string {
	return fmt.Sprintf("Ué! I walked the whole building and found no rooms matching '%s'. Check the plans again.", zone)
}

// NoSensorsInZone is the reply when no room in the zone has the requested
// sensor type.
func (f *ResultFormatter) NoSensorsInZone(zone, measurement string) string {
	return fmt.Sprintf("Not a single %s sensor in '%s'. Va che l'è brutta! How can I monitor what I cannot measure?", measurement, zone)
}

// NoRecentData is the reply when sensors exist but none reported recently.
func (f *ResultFormatter) NoRecentData(zone, measurement string) string {
	return fmt.Sprintf("The %s sensors in '%s' are all silent. Ma va là! Either they are broken or someone forgot to turn them on.", measurement, zone)
}

// Failure renders a caught error in character instead of a stack trace.
func (f *ResultFormatter) Failure(err error) string {
	return fmt.Sprintf("Madòna! Something went wrong while inspecting: %v", err)
}

// SensorListing renders the configured sensors of one room with unit
// metadata.
func (f *ResultFormatter) SensorListing(room model.RoomRecord, refs []model.SensorRef, cfg *model.SensorConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room: %s\n", roomLabel(room))
	fmt.Fprintf(&b, "Room key: %s\n", room.RoomKey)
	if room.Storey != "" {
		fmt.Fprintf(&b, "Storey: %s\n", room.Storey)
	}
	if room.CategoryEN != "" {
		fmt.Fprintf(&b, "Category: %s\n", room.CategoryEN)
	}
	fmt.Fprintf(&b, "Configured sensors (%d):\n", len(refs))
	for _, ref := range refs {
		line := "  - " + ref.ID
		if ref.Type != "" {
			line += fmt.Sprintf(" [%s", ref.Type)
			if unit := cfg.UnitFor(ref.Type); unit != "" {
				line += ", " + unit
			}
			line += "]"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ZoneReport renders the full sorted table of latest readings plus a footer
// counting sensors that stayed silent in the window.
func (f *ResultFormatter) ZoneReport(zone, measurement, unit string, rows []ZoneReading, silent int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inspection report: %s in '%s'\n", measurement, zone)
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s: %s", roomLabel(row.Room), f.formatValue(row, unit))
		if label := f.ComfortLabel(measurement, row.Reading.Value); label != "" {
			b.WriteString(" " + label)
		}
		fmt.Fprintf(&b, " at %s\n", row.Reading.Time.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "Rooms reporting: %d", len(rows))
	if silent > 0 {
		fmt.Fprintf(&b, " (plus %d sensors with no recent value, somebody should check those)", silent)
	}
	return b.String()
}

// ZoneExtreme renders the max/min result with room attribution.
func (f *ResultFormatter) ZoneExtreme(goal, zone, measurement, unit string, best ZoneReading) string {
	direction := "highest"
	if goal == model.GoalMin {
		direction = "lowest"
	}
	msg := fmt.Sprintf("The %s %s in '%s' is %s in %s",
		direction, measurement, zone, f.formatValue(best, unit), roomLabel(best.Room))
	if label := f.ComfortLabel(measurement, best.Reading.Value); label != "" {
		msg += " " + label
	}
	return msg + "."
}

// ZoneAverage renders the mean and the numeric range.
func (f *ResultFormatter) ZoneAverage(zone, measurement, unit string, avg, low, high float64, counted, silent int) string {
	msg := fmt.Sprintf("Average %s in '%s': %.2f%s over %d rooms (range %.2f - %.2f)",
		measurement, zone, avg, unitSuffix(unit), counted, low, high)
	if silent > 0 {
		msg += fmt.Sprintf("; %d sensors had no recent value", silent)
	}
	return msg + "."
}

func (f *ResultFormatter) formatValue(row ZoneReading, unit string) string {
	if row.Numeric != nil {
		return fmt.Sprintf("%.2f%s", *row.Numeric, unitSuffix(unit))
	}
	return fmt.Sprintf("%v", row.Reading.Value)
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}

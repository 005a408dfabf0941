// Package ifc reads the subset of an IFC STEP file the room import needs:
// IfcSpace entities with their names, containing storey and property sets.
// It is not a general IFC toolkit; any entity type it does not know about is
// ignored.
package ifc

import (
	"fmt"
	"os"
	"strings"
)

// Space is one IfcSpace with its resolved semantics.
type Space struct {
	GlobalID   string
	Name       string
	LongName   string
	ObjectType string
	// Storey is the name of the containing IfcBuildingStorey, when one is
	// found through the containment or aggregation relationships.
	Storey string
	// Psets maps property-set name to property name/value pairs.
	Psets map[string]map[string]any
}

// Model is a parsed building model.
type Model struct {
	spaces []Space
}

// Spaces returns every IfcSpace found in the model, in file order.
func (m *Model) Spaces() []Space {
	return m.spaces
}

// Open reads and parses an IFC file.
func Open(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open ifc model: %w", err)
	}
	return Parse(string(raw))
}

// Parse builds a model from IFC file contents.
func Parse(contents string) (*Model, error) {
	data := contents
	// Restrict to the DATA section when the full exchange structure is
	// present; fixture snippets without a header parse as-is.
	if idx := strings.Index(data, "DATA;"); idx >= 0 {
		data = data[idx+len("DATA;"):]
		if end := strings.Index(data, "ENDSEC;"); end >= 0 {
			data = data[:end]
		}
	}

	stmts, err := parseStatements(data)
	if err != nil {
		return nil, fmt.Errorf("parse ifc model: %w", err)
	}

	byID := make(map[int]instance, len(stmts))
	for _, inst := range stmts {
		byID[inst.id] = inst
	}

	storeyOf := resolveStoreys(stmts, byID)
	psetsOf := resolvePsets(stmts, byID)

	var spaces []Space
	for _, inst := range stmts {
		if inst.typ != "IFCSPACE" {
			continue
		}
		sp := Space{
			GlobalID: attrString(inst, 0),
			Name:     attrString(inst, 2),
			LongName: attrString(inst, 7),
			Psets:    psetsOf[inst.id],
		}
		if sp.Psets == nil {
			sp.Psets = map[string]map[string]any{}
		}
		if v := attrString(inst, 4); v != "" {
			sp.ObjectType = v
		}
		sp.Storey = storeyOf[inst.id]
		spaces = append(spaces, sp)
	}

	return &Model{spaces: spaces}, nil
}

// resolveStoreys maps space instance ids to the name of their containing
// IfcBuildingStorey. Authoring tools link spaces either through
// IfcRelAggregates (storey aggregates spaces) or through
// IfcRelContainedInSpatialStructure, so both are followed.
func resolveStoreys(stmts []instance, byID map[int]instance) map[int]string {
	storeyName := func(id int) (string, bool) {
		inst, ok := byID[id]
		if !ok || inst.typ != "IFCBUILDINGSTOREY" {
			return "", false
		}
		return attrString(inst, 2), true
	}

	out := make(map[int]string)
	for _, inst := range stmts {
		switch inst.typ {
		case "IFCRELAGGREGATES":
			if len(inst.args) < 6 {
				continue
			}
			name, ok := storeyName(argRef(inst.args[4]))
			if !ok {
				continue
			}
			for _, child := range argRefList(inst.args[5]) {
				out[child] = name
			}
		case "IFCRELCONTAINEDINSPATIALSTRUCTURE":
			if len(inst.args) < 6 {
				continue
			}
			name, ok := storeyName(argRef(inst.args[5]))
			if !ok {
				continue
			}
			for _, child := range argRefList(inst.args[4]) {
				out[child] = name
			}
		}
	}
	return out
}

// resolvePsets maps object instance ids to their property sets, following
// IfcRelDefinesByProperties -> IfcPropertySet -> IfcPropertySingleValue.
func resolvePsets(stmts []instance, byID map[int]instance) map[int]map[string]map[string]any {
	out := make(map[int]map[string]map[string]any)
	for _, inst := range stmts {
		if inst.typ != "IFCRELDEFINESBYPROPERTIES" || len(inst.args) < 6 {
			continue
		}
		pset, ok := byID[argRef(inst.args[5])]
		if !ok || pset.typ != "IFCPROPERTYSET" || len(pset.args) < 5 {
			continue
		}
		name := attrString(pset, 2)
		props := make(map[string]any)
		for _, propID := range argRefList(pset.args[4]) {
			prop, ok := byID[propID]
			if !ok || prop.typ != "IFCPROPERTYSINGLEVALUE" || len(prop.args) < 3 {
				continue
			}
			props[attrString(prop, 0)] = argValue(prop.args[2])
		}
		for _, objID := range argRefList(inst.args[4]) {
			if out[objID] == nil {
				out[objID] = make(map[string]map[string]any)
			}
			out[objID][name] = props
		}
	}
	return out
}

func attrString(inst instance, idx int) string {
	if idx >= len(inst.args) {
		return ""
	}
	return argString(inst.args[idx])
}

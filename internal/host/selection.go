package host

import (
	"errors"

	"bvbswizard/internal/config"
	"bvbswizard/internal/model"
)

// ErrNoPlacements is returned when the selection holds no rebar placement.
var ErrNoPlacements = errors.New("no rebar placements in selection")

// IfcReinforcingBar is the IFC class every rebar placement carries.
const IfcReinforcingBar = "IfcReinforcingBar"

// barPlacementTypes are the host placement types that describe bars.
// Meshes and other special placements are not exported as BF2D/BF3D.
var barPlacementTypes = map[string]bool{
	"BarsLinearPlacement":          true,
	"BarsLinearMultiPlacement":     true,
	"BarsAreaPlacement":            true,
	"BarsSpiralPlacement":          true,
	"BarsCircularPlacement":        true,
	"BarsRotationalSolidPlacement": true,
	"BarsRotationalPlacement":      true,
	"BarsTangentionalPlacement":    true,
	"BarsEndBendingPlacement":      true,
}

// IsBarPlacementType reports whether typeID is one of the bar placement types.
func IsBarPlacementType(typeID string) bool {
	return barPlacementTypes[typeID]
}

// Selection is what the pipeline needs from the drawing.
type Selection struct {
	Elements   int // every element in the document
	Assemblies []model.AssemblyMatchEntry
	Placements []model.Placement
}

// Select builds the assembly table and filters the rebar placements.
func Select(doc *Document, cfg config.MatchingConfig) (*Selection, error) {
	sel := &Selection{
		Elements:   len(doc.Elements),
		Assemblies: AssemblyTable(doc, cfg.AssemblyKind, cfg.AssemblyNameAttribute),
	}
	sel.Placements = RebarPlacements(doc, cfg.IfcClassAttribute)
	if len(sel.Placements) == 0 {
		return sel, ErrNoPlacements
	}
	return sel, nil
}

// AssemblyTable lists every assembly with the IDs of its child placements.
// An assembly without a name attribute gets an empty name.
func AssemblyTable(doc *Document, kind string, nameAttr int) []model.AssemblyMatchEntry {
	var table []model.AssemblyMatchEntry
	for _, e := range doc.Elements {
		if e.DisplayName != kind {
			continue
		}
		name, _ := e.Attribute(nameAttr)
		members := make([]string, 0, len(e.Children))
		for _, id := range e.Children {
			if id != "" {
				members = append(members, id)
			}
		}
		table = append(table, model.AssemblyMatchEntry{Name: name, Members: members})
	}
	return table
}

// RebarPlacements returns the elements classified as reinforcing bars that
// are bar placements, in document order.
func RebarPlacements(doc *Document, ifcAttr int) []model.Placement {
	var out []model.Placement
	for _, e := range doc.Elements {
		class, ok := e.Attribute(ifcAttr)
		if !ok || class != IfcReinforcingBar {
			continue
		}
		if !IsBarPlacementType(e.Type) {
			continue
		}
		out = append(out, e)
	}
	return out
}

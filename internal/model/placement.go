package model

// Placement is a physically positioned bar or bar group in the host drawing.
type Placement interface {
	ID() string          // stable identifier
	Kind() string        // display name, e.g. "Place in polygon"
	TypeID() string      // placement type, e.g. "BarsAreaPlacement"
	Mark() string        // position number without sub-position
	SubPosition() string // "" or "0" when there is none
	// Fixture returns the child fixture with the given display name.
	Fixture(displayName string) (Fixture, bool)
}

// Fixture is a child element of a placement, such as a coupler symbol.
type Fixture interface {
	Attribute(id int) (string, bool)
}

// FullMark returns the mark including the sub-position, e.g. "5.1".
func FullMark(p Placement) string {
	sub := p.SubPosition()
	if sub == "" || sub == "0" {
		return p.Mark()
	}
	return p.Mark() + "." + sub
}

// Unmatched is a placement for which no decoded record was found.
type Unmatched struct {
	PlacementID string `json:"placement_id"`
	Key         string `json:"key"` // the mark used for matching
	Assembly    string `json:"assembly,omitempty"`
}

package model

// ShapeKind distinguishes planar (BF2D) from spatial (BF3D) bar shapes.
type ShapeKind int

const (
	Shape2D ShapeKind = iota
	Shape3D
)

func (k ShapeKind) String() string {
	if k == Shape3D {
		return "BF3D"
	}
	return "BF2D"
}

// MarshalText lets the shape kind show up as "BF2D"/"BF3D" in JSON output.
func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Attribute is one value destined for a host attribute.
// Header, assembly and coupler attributes carry the configured host ID.
// Segment attributes carry their sequential ID (A=0, B=1, ...) and get a
// Name once segment naming ran.
type Attribute struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// NewAttribute returns a pointer so optional fields can stay nil.
func NewAttribute(id int, value string) *Attribute {
	return &Attribute{ID: id, Value: value}
}

// BendingPin is a bending-pin ratio slot. Absent slots keep their
// sequential ID so letters further down the shape do not shift.
type BendingPin struct {
	Attribute
	Present bool `json:"present"`
}

// RebarRecord is one decoded BVBS line and everything the pipeline learns
// about it afterwards.
type RebarRecord struct {
	Shape ShapeKind `json:"shape"`
	Line  int       `json:"line"` // 1-based line in the source file

	Mark           *Attribute `json:"mark,omitempty"`
	TotalLength    *Attribute `json:"total_length,omitempty"`
	Diameter       *Attribute `json:"diameter,omitempty"`
	BendAngle      *Attribute `json:"bend_angle,omitempty"`
	AmountTotal    *Attribute `json:"amount_total,omitempty"`
	AmountAssembly *Attribute `json:"amount_assembly,omitempty"`
	Radius         *Attribute `json:"radius,omitempty"`

	PartOfAssembly bool       `json:"part_of_assembly"`
	Assembly       *Attribute `json:"assembly,omitempty"`

	CouplerStart          *Attribute `json:"coupler_start,omitempty"`
	CouplerEnd            *Attribute `json:"coupler_end,omitempty"`
	CouplerStartFabricant *Attribute `json:"coupler_start_fabricant,omitempty"`
	CouplerStartType      *Attribute `json:"coupler_start_type,omitempty"`
	CouplerEndFabricant   *Attribute `json:"coupler_end_fabricant,omitempty"`
	CouplerEndType        *Attribute `json:"coupler_end_type,omitempty"`

	SegmentLengths []Attribute  `json:"segment_lengths"`
	SegmentAngles  []Attribute  `json:"segment_angles"`
	BendingPins    []BendingPin `json:"bending_pins,omitempty"`

	Matched       []Placement `json:"-"`
	PlacementType string      `json:"placement_type,omitempty"`
}

// MarkValue returns the mark string, or "" when the line carried none.
func (r *RebarRecord) MarkValue() string {
	if r.Mark == nil {
		return ""
	}
	return r.Mark.Value
}

// AssemblyName returns the assembly name, or "" outside an assembly.
func (r *RebarRecord) AssemblyName() string {
	if r.Assembly == nil {
		return ""
	}
	return r.Assembly.Value
}

// CouplerStartEnabled reports whether the start coupler flag is "True".
func (r *RebarRecord) CouplerStartEnabled() bool {
	return r.CouplerStart != nil && r.CouplerStart.Value == "True"
}

// CouplerEndEnabled reports whether the end coupler flag is "True".
func (r *RebarRecord) CouplerEndEnabled() bool {
	return r.CouplerEnd != nil && r.CouplerEnd.Value == "True"
}

// MatchedIDs lists the IDs of the matched placements in match order.
func (r *RebarRecord) MatchedIDs() []string {
	ids := make([]string, 0, len(r.Matched))
	for _, p := range r.Matched {
		ids = append(ids, p.ID())
	}
	return ids
}

// Attributes flattens the record in the order the attribute writer expects.
// Missing optional fields and absent bending pins are left out.
func (r *RebarRecord) Attributes() []Attribute {
	var out []Attribute
	// Coupler order follows the host writer, not field declaration order.
	for _, a := range []*Attribute{
		r.Mark,
		r.TotalLength,
		r.Diameter,
		r.BendAngle,
		r.Assembly,
		r.CouplerStart,
		r.CouplerEnd,
		r.CouplerStartFabricant,
		r.CouplerEndType,
		r.CouplerStartType,
		r.CouplerEndFabricant,
		r.AmountTotal,
		r.AmountAssembly,
		r.Radius,
	} {
		if a != nil {
			out = append(out, *a)
		}
	}
	out = append(out, r.SegmentLengths...)
	out = append(out, r.SegmentAngles...)
	for _, bp := range r.BendingPins {
		if bp.Present {
			out = append(out, bp.Attribute)
		}
	}
	return out
}

// AssemblyMatchEntry ties an assembly name to the IDs of its member
// placements.
type AssemblyMatchEntry struct {
	Name    string
	Members []string
}

// Contains reports whether the placement ID is a member of the assembly.
func (e AssemblyMatchEntry) Contains(id string) bool {
	for _, m := range e.Members {
		if m == id {
			return true
		}
	}
	return false
}

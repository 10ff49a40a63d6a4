package match

import (
	"bvbswizard/internal/config"
	"bvbswizard/internal/model"
)

const overflowLetter = "_OVERFLOW_"

// Letter returns the upper-case letter for a sequential segment id
// (A=0, B=1, ...). Ids past Z give "_OVERFLOW_".
func Letter(id int) string {
	if id < 0 || id >= 26 {
		return overflowLetter
	}
	return string(rune('A' + id))
}

// NameSegments gives every segment attribute its host attribute name.
// Absent bending pins are named too, so the letters of the following pins
// do not shift.
func NameSegments(records []*model.RebarRecord, attrs config.AttributeConfig) {
	for _, r := range records {
		for i := range r.SegmentLengths {
			r.SegmentLengths[i].Name = attrs.LengthPrefix + Letter(r.SegmentLengths[i].ID)
		}
		for i := range r.SegmentAngles {
			r.SegmentAngles[i].Name = attrs.AnglePrefix + Letter(r.SegmentAngles[i].ID)
		}
		for i := range r.BendingPins {
			r.BendingPins[i].Name = attrs.BendPrefix + Letter(r.BendingPins[i].ID)
		}
	}
}

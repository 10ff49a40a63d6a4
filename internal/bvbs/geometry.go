package bvbs

import (
	"math"
	"strconv"

	"bvbswizard/internal/model"
)

const (
	// arcRadiusLimit separates arcs from bending-pin markers: a radius above
	// it describes an arc drawn by the user.
	arcRadiusLimit = 400.0
	// nominalPinDiameter is the fixed diameter bending-pin ratios are
	// expressed against. It is not the bar's own diameter.
	nominalPinDiameter = 10.0
)

// decodeGeometry reconstructs segment lengths and angles.
func (d *Decoder) decodeGeometry(rec *model.RebarRecord, payload string) error {
	tokens := subTokens(payload)
	var err error
	if rec.Shape == model.Shape3D {
		err = d.geometry3D(rec, tokens)
	} else {
		err = d.geometry2D(rec, tokens)
	}
	if err != nil {
		return err
	}
	trimTrailingZeroAngle(rec)
	return nil
}

func (d *Decoder) geometry2D(rec *model.RebarRecord, tokens []string) error {
	lengthID, angleID := 0, 1

	for i, tok := range tokens {
		value := tok[1:]
		switch tok[0] {
		case 'l':
			// The host exports zero-length legs for some shapes; they are not
			// real segments.
			if value == "0" {
				continue
			}
			rec.SegmentLengths = append(rec.SegmentLengths, model.Attribute{ID: lengthID, Value: value})
			lengthID += 2

		case 'w':
			rec.SegmentAngles = append(rec.SegmentAngles, model.Attribute{ID: angleID, Value: value})
			angleID += 2

		case 'r':
			radius, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return geometryErrorf("radius %q is not a number", value)
			}
			if radius > arcRadiusLimit {
				if i+1 >= len(tokens) || tokens[i+1][0] != 'w' {
					return geometryErrorf("arc radius %s is not followed by its angle", value)
				}
				angle, err := strconv.ParseFloat(tokens[i+1][1:], 64)
				if err != nil {
					return geometryErrorf("arc angle %q is not a number", tokens[i+1][1:])
				}
				rec.Radius = model.NewAttribute(d.attrs.ArcRadius, formatFloat(radius))
				rec.SegmentLengths = append(rec.SegmentLengths, model.Attribute{ID: lengthID, Value: formatFloat(arcLength(radius, angle))})
				lengthID += 2
				// The angle token stays in the stream and is recorded as a
				// regular angle next. Arcs get no synthetic zero turn angle.
				continue
			}
			// Small radii are bending-pin markers placed by the user, not arcs.
			ratio := (radius * 2) / nominalPinDiameter
			rec.BendingPins = append(rec.BendingPins, model.BendingPin{
				Attribute: model.Attribute{ID: angleID, Value: formatFloat(ratio)},
				Present:   ratio != 0,
			})
		}
	}
	return nil
}

// arcLength is the length of an arc of the given radius and angle (degrees).
func arcLength(radius, angle float64) float64 {
	return (2 * math.Pi * radius) * (angle / 360)
}

func (d *Decoder) geometry3D(rec *model.RebarRecord, tokens []string) error {
	var (
		vectors []Vector
		cur     Vector
		seen    [3]bool
	)
	for _, tok := range tokens {
		axis := -1
		switch tok[0] {
		case 'x':
			axis = 0
		case 'y':
			axis = 1
		case 'z':
			axis = 2
		}
		if axis < 0 {
			continue
		}
		f, err := strconv.ParseFloat(tok[1:], 64)
		if err != nil {
			return geometryErrorf("coordinate %q is not a number", tok)
		}
		c := int(f) // coordinates are whole millimetres
		switch axis {
		case 0:
			cur.X = c
		case 1:
			cur.Y = c
		case 2:
			cur.Z = c
		}
		seen[axis] = true
		if seen[0] && seen[1] && seen[2] {
			vectors = append(vectors, cur)
			cur, seen = Vector{}, [3]bool{}
		}
	}

	points := make([]Point, 0, len(vectors)+1)
	p := Point{}
	points = append(points, p)
	for _, v := range vectors {
		p = p.Move(v)
		points = append(points, p)
	}

	lengthID, angleID := 0, 1
	for i := 0; i+1 < len(points); i++ {
		dist := math.RoundToEven(points[i].Distance(points[i+1]))
		rec.SegmentLengths = append(rec.SegmentLengths, model.Attribute{ID: lengthID, Value: strconv.Itoa(int(dist))})
		lengthID += 2
	}
	for i := 0; i+2 < len(points); i++ {
		in := points[i].To(points[i+1])
		out := points[i+1].To(points[i+2])
		deg, ok := in.AngleWith(out)
		if !ok {
			return geometryErrorf("zero-length segment at point %d", i+1)
		}
		rec.SegmentAngles = append(rec.SegmentAngles, model.Attribute{ID: angleID, Value: strconv.Itoa(int(math.RoundToEven(deg)))})
		angleID += 2
	}
	return nil
}

// trimTrailingZeroAngle drops a last angle whose literal value is "0".
// Only the literal string counts: "0.0" stays.
func trimTrailingZeroAngle(rec *model.RebarRecord) {
	if n := len(rec.SegmentAngles); n > 0 && rec.SegmentAngles[n-1].Value == "0" {
		rec.SegmentAngles = rec.SegmentAngles[:n-1]
	}
}

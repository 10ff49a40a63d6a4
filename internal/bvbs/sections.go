package bvbs

import (
	"strconv"
	"strings"
	"unicode"

	"bvbswizard/internal/model"
)

// decodeHeader fills mark, length, diameter, bend angle and amount.
// Unknown tags are ignored so newer exports keep decoding.
func (d *Decoder) decodeHeader(rec *model.RebarRecord, payload string) error {
	for _, tok := range subTokens(payload) {
		value := tok[1:]
		switch tok[0] {
		case 'p':
			rec.Mark = model.NewAttribute(d.attrs.Mark, value)
		case 'l':
			raw, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return syntaxErrorf("total length %q is not a number", value)
			}
			rounded := Round(raw, d.attrs.Rounding)
			rec.TotalLength = model.NewAttribute(d.attrs.TotalLength, strconv.Itoa(rounded))
		case 'd':
			rec.Diameter = model.NewAttribute(d.attrs.Diameter, value)
		case 's':
			rec.BendAngle = model.NewAttribute(d.attrs.BendAngle, value)
		case 'n':
			// Inside an assembly the amount counts bars per assembly.
			if rec.PartOfAssembly {
				rec.AmountAssembly = model.NewAttribute(d.attrs.AmountAssembly, value)
			} else {
				rec.AmountTotal = model.NewAttribute(d.attrs.AmountTotal, value)
			}
		}
	}
	return nil
}

func (d *Decoder) decodeAssembly(rec *model.RebarRecord, payload string) {
	for _, tok := range subTokens(payload) {
		if tok[0] == 't' {
			rec.Assembly = model.NewAttribute(d.attrs.Assembly, tok[1:])
		}
	}
}

func (d *Decoder) decodeCoupler(rec *model.RebarRecord, payload string) {
	for _, tok := range subTokens(payload) {
		value := tok[1:]
		switch tok[0] {
		case 'c':
			rec.CouplerStart = model.NewAttribute(d.attrs.CouplerStart, flag(value))
		case 'p':
			rec.CouplerEnd = model.NewAttribute(d.attrs.CouplerEnd, flag(value))
		case 'a':
			// Numeric fabricant values are an unrelated code in the export.
			if !isNumeric(value) {
				rec.CouplerStartFabricant = model.NewAttribute(d.attrs.CouplerStartFabricant, value)
			}
		case 'b':
			rec.CouplerStartType = model.NewAttribute(d.attrs.CouplerStartType, value)
		case 'n':
			if !isNumeric(value) {
				rec.CouplerEndFabricant = model.NewAttribute(d.attrs.CouplerEndFabricant, value)
			}
		case 'o':
			rec.CouplerEndType = model.NewAttribute(d.attrs.CouplerEndType, value)
		}
	}
}

// flag converts a BVBS coupler flag into the host's boolean string.
func flag(v string) string {
	if v == "1" {
		return "True"
	}
	return "False"
}

// isNumeric reports whether v is non-empty and made of digits only.
func isNumeric(v string) bool {
	if v == "" {
		return false
	}
	return strings.IndexFunc(v, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}

package bvbs

import (
	"regexp"
	"strings"

	"bvbswizard/internal/model"
)

// markerRE matches a section marker: '@' followed by one upper-case letter.
var markerRE = regexp.MustCompile(`@[A-Z]`)

// Section markers.
const (
	MarkerHeader   = "@H"
	MarkerGeometry = "@G"
	MarkerAssembly = "@P"
	MarkerCoupler  = "@M"
)

// Split cuts a line into alternating payload/marker tokens, keeping the
// markers: "BF2D@Hx@Gy" -> ["BF2D", "@H", "x", "@G", "y"].
func Split(line string) []string {
	locs := markerRE.FindAllStringIndex(line, -1)
	parts := make([]string, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		parts = append(parts, line[prev:loc[0]], line[loc[0]:loc[1]])
		prev = loc[1]
	}
	return append(parts, line[prev:])
}

// Sections holds the raw payloads of one BVBS line.
type Sections struct {
	Shape       model.ShapeKind
	Header      string
	Geometry    string
	Assembly    string
	Coupler     string
	HasAssembly bool
	HasCoupler  bool
}

// SplitSections locates the sections of a line. Header and geometry are
// required; markers other than H, G, P and M (the checksum, for instance)
// are ignored.
func SplitSections(line string) (Sections, error) {
	var s Sections
	switch {
	case strings.Contains(line, "BF2D@"):
		s.Shape = model.Shape2D
	case strings.Contains(line, "BF3D@"):
		s.Shape = model.Shape3D
	default:
		return s, syntaxErrorf("unsupported shape")
	}

	parts := Split(line)
	var hasHeader, hasGeometry bool
	s.Header, hasHeader = payload(parts, MarkerHeader)
	s.Geometry, hasGeometry = payload(parts, MarkerGeometry)
	if !hasHeader {
		return s, syntaxErrorf("header section missing")
	}
	if !hasGeometry {
		return s, syntaxErrorf("geometry section missing")
	}
	s.Assembly, s.HasAssembly = payload(parts, MarkerAssembly)
	s.Coupler, s.HasCoupler = payload(parts, MarkerCoupler)
	return s, nil
}

// payload returns the token following the first occurrence of marker.
func payload(parts []string, marker string) (string, bool) {
	for i, p := range parts {
		if p == marker {
			// Split always emits a payload after a marker, possibly "".
			return parts[i+1], true
		}
	}
	return "", false
}

// subTokens splits a section payload on '@' and drops empty tokens.
func subTokens(payload string) []string {
	raw := strings.Split(payload, "@")
	out := raw[:0]
	for _, t := range raw {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

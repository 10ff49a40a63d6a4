package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlacement struct{ mark, sub string }

func (s stubPlacement) ID() string                     { return "id" }
func (s stubPlacement) Kind() string                   { return "" }
func (s stubPlacement) TypeID() string                 { return "" }
func (s stubPlacement) Mark() string                   { return s.mark }
func (s stubPlacement) SubPosition() string            { return s.sub }
func (s stubPlacement) Fixture(string) (Fixture, bool) { return nil, false }

func TestFullMark(t *testing.T) {
	assert.Equal(t, "5", FullMark(stubPlacement{"5", ""}))
	assert.Equal(t, "5", FullMark(stubPlacement{"5", "0"}))
	assert.Equal(t, "5.2", FullMark(stubPlacement{"5", "2"}))
}

func TestAttributesOrder(t *testing.T) {
	r := &RebarRecord{
		Mark:                  NewAttribute(1, "m"),
		TotalLength:           NewAttribute(2, "l"),
		Diameter:              NewAttribute(3, "d"),
		BendAngle:             NewAttribute(4, "s"),
		Assembly:              NewAttribute(5, "a"),
		CouplerStart:          NewAttribute(6, "cs"),
		CouplerEnd:            NewAttribute(7, "ce"),
		CouplerStartFabricant: NewAttribute(8, "csf"),
		CouplerEndType:        NewAttribute(9, "cet"),
		CouplerStartType:      NewAttribute(10, "cst"),
		CouplerEndFabricant:   NewAttribute(11, "cef"),
		AmountTotal:           NewAttribute(12, "nt"),
		AmountAssembly:        NewAttribute(13, "na"),
		Radius:                NewAttribute(14, "r"),
		SegmentLengths:        []Attribute{{ID: 0, Value: "L0"}},
		SegmentAngles:         []Attribute{{ID: 1, Value: "W1"}},
		BendingPins: []BendingPin{
			{Attribute: Attribute{ID: 1, Value: "0"}},
			{Attribute: Attribute{ID: 3, Value: "P3"}, Present: true},
		},
	}

	var got []string
	for _, a := range r.Attributes() {
		got = append(got, a.Value)
	}
	assert.Equal(t, []string{
		"m", "l", "d", "s", "a", "cs", "ce", "csf", "cet", "cst", "cef", "nt", "na", "r",
		"L0", "W1", "P3",
	}, got)
}

func TestAttributesSkipsMissing(t *testing.T) {
	r := &RebarRecord{Mark: NewAttribute(1, "7")}
	assert.Equal(t, []Attribute{{ID: 1, Value: "7"}}, r.Attributes())
	assert.Equal(t, "", r.AssemblyName())
	assert.False(t, r.CouplerStartEnabled())
	assert.Empty(t, r.MatchedIDs())
}

func TestShapeKindText(t *testing.T) {
	b, err := Shape3D.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "BF3D", string(b))
	assert.Equal(t, "BF2D", Shape2D.String())
}

func writeLines(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		b.WriteString("line")
		b.WriteString(strings.Repeat("x", i))
		b.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "export.abs")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestGetLineContext(t *testing.T) {
	path := writeLines(t, 10)

	ctx := GetLineContext(path, 5)
	assert.Empty(t, ctx.ErrorMsg)
	assert.Equal(t, "linexxxxx", ctx.Target)
	assert.Equal(t, []string{"linexxx", "linexxxx"}, ctx.Before)
	assert.Equal(t, []string{"linexxxxxx", "linexxxxxxx"}, ctx.After)

	first := GetLineContext(path, 1)
	assert.Empty(t, first.Before)
	assert.Len(t, first.After, 2)

	last := GetLineContext(path, 10)
	assert.Len(t, last.Before, 2)
	assert.Empty(t, last.After)
}

func TestGetLineContextErrors(t *testing.T) {
	path := writeLines(t, 3)

	out := GetLineContext(path, 9)
	assert.Contains(t, out.ErrorMsg, "out of range")

	missing := GetLineContext(filepath.Join(t.TempDir(), "nope.abs"), 1)
	assert.Contains(t, missing.ErrorMsg, "Could not read file")
}

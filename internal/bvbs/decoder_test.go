package bvbs

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bvbswizard/internal/config"
	"bvbswizard/internal/model"
)

func testDecoder(rounding int) *Decoder {
	attrs := config.Defaults().Attributes
	attrs.Rounding = rounding
	return NewDecoder(attrs)
}

func values(attrs []model.Attribute) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.Value)
	}
	return out
}

func ids(attrs []model.Attribute) []int {
	out := make([]int, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.ID)
	}
	return out
}

func TestDecodeSimple2D(t *testing.T) {
	rec, err := testDecoder(10).Decode("BF2D@H@p1@l1000@d12@s0@n5@G@l500@w90@l500")
	require.NoError(t, err)

	attrs := config.Defaults().Attributes
	assert.Equal(t, model.Shape2D, rec.Shape)
	assert.Equal(t, &model.Attribute{ID: attrs.Mark, Value: "1"}, rec.Mark)
	assert.Equal(t, "1000", rec.TotalLength.Value)
	assert.Equal(t, "12", rec.Diameter.Value)
	assert.Equal(t, "0", rec.BendAngle.Value)
	assert.Equal(t, "5", rec.AmountTotal.Value)
	assert.Nil(t, rec.AmountAssembly)
	assert.False(t, rec.PartOfAssembly)

	if diff := cmp.Diff([]string{"500", "500"}, values(rec.SegmentLengths)); diff != "" {
		t.Errorf("lengths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"90"}, values(rec.SegmentAngles)); diff != "" {
		t.Errorf("angles mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0, 2}, ids(rec.SegmentLengths))
	assert.Equal(t, []int{1}, ids(rec.SegmentAngles))
}

func TestDecodeRealExportLine(t *testing.T) {
	line := "BF2D@Hj@r@ia@p12@l1003@n4@e0.888@d12@gB500B@s48@v@a@Gl500@w90@l503@w0@C73@"
	rec, err := testDecoder(5).Decode(line)
	require.NoError(t, err)

	assert.Equal(t, "12", rec.MarkValue())
	assert.Equal(t, "1005", rec.TotalLength.Value)
	assert.Equal(t, []string{"500", "503"}, values(rec.SegmentLengths))
	// the trailing w0 is dropped, the checksum section is ignored
	assert.Equal(t, []string{"90"}, values(rec.SegmentAngles))
}

func TestDecodeArc(t *testing.T) {
	rec, err := testDecoder(1).Decode("BF2D@H@p2@G@l200@r500@w45@l300")
	require.NoError(t, err)

	require.Len(t, rec.SegmentLengths, 3)
	assert.Equal(t, "200", rec.SegmentLengths[0].Value)
	arc, err := strconv.ParseFloat(rec.SegmentLengths[1].Value, 64)
	require.NoError(t, err)
	assert.InDelta(t, 392.70, arc, 0.01)
	assert.Equal(t, "392.6990816987241", rec.SegmentLengths[1].Value)
	assert.Equal(t, "300", rec.SegmentLengths[2].Value)
	assert.Equal(t, []int{0, 2, 4}, ids(rec.SegmentLengths))

	// the arc angle is kept as a regular angle, no synthetic zero is added
	assert.Equal(t, []string{"45"}, values(rec.SegmentAngles))
	require.NotNil(t, rec.Radius)
	assert.Equal(t, "500", rec.Radius.Value)
	assert.Equal(t, config.Defaults().Attributes.ArcRadius, rec.Radius.ID)
}

func TestDecodeArcBoundary(t *testing.T) {
	d := testDecoder(1)

	rec, err := d.Decode("BF2D@H@p3@G@l100@r400@w90@l100")
	require.NoError(t, err)
	assert.Nil(t, rec.Radius, "400 is a bending pin, not an arc")
	require.Len(t, rec.BendingPins, 1)
	assert.Equal(t, "80", rec.BendingPins[0].Value)
	assert.Len(t, rec.SegmentLengths, 2)

	rec, err = d.Decode("BF2D@H@p3@G@l100@r400.01@w90@l100")
	require.NoError(t, err)
	require.NotNil(t, rec.Radius)
	assert.Len(t, rec.SegmentLengths, 3)
	assert.Empty(t, rec.BendingPins)
}

func TestDecodeArcWithoutAngle(t *testing.T) {
	for _, line := range []string{
		"BF2D@H@p2@G@l200@r500@l300",
		"BF2D@H@p2@G@l200@r500",
		"BF2D@H@p2@G@l200@r500@wx@l300",
		"BF2D@H@p2@G@l200@rbig@w90",
	} {
		_, err := testDecoder(1).Decode(line)
		assert.ErrorIs(t, err, ErrGeometry, line)
	}
}

func TestDecodeBendingPins(t *testing.T) {
	rec, err := testDecoder(1).Decode("BF2D@H@p3@G@l100@r100@w90@l100@r0@w45@l50")
	require.NoError(t, err)

	require.Len(t, rec.BendingPins, 2)
	assert.Equal(t, model.BendingPin{Attribute: model.Attribute{ID: 1, Value: "20"}, Present: true}, rec.BendingPins[0])
	// a zero ratio keeps its slot so later letters do not shift
	assert.Equal(t, 3, rec.BendingPins[1].ID)
	assert.False(t, rec.BendingPins[1].Present)
	assert.Equal(t, []int{1, 3}, ids(rec.SegmentAngles))
}

func TestDecodeSkipsZeroLength(t *testing.T) {
	rec, err := testDecoder(1).Decode("BF2D@H@p1@G@l0@w90@l500")
	require.NoError(t, err)
	assert.Equal(t, []string{"500"}, values(rec.SegmentLengths))
	assert.Equal(t, []int{0}, ids(rec.SegmentLengths))
	assert.Equal(t, []string{"90"}, values(rec.SegmentAngles))
}

func TestTrailingZeroAngleIsLiteral(t *testing.T) {
	d := testDecoder(1)

	rec, err := d.Decode("BF2D@H@p1@G@l500@w90@l500@w0")
	require.NoError(t, err)
	assert.Equal(t, []string{"90"}, values(rec.SegmentAngles))

	rec, err = d.Decode("BF2D@H@p1@G@l500@w90@l500@w0.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"90", "0.0"}, values(rec.SegmentAngles))

	// only the last angle is trimmed
	rec, err = d.Decode("BF2D@H@p1@G@l500@w0@l500@w0")
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, values(rec.SegmentAngles))
}

func TestLengthAngleBalance2D(t *testing.T) {
	lines := []string{
		"BF2D@H@p1@G@l500",
		"BF2D@H@p1@G@l500@w90@l500",
		"BF2D@H@p1@G@l500@w90@l500@w0",
		"BF2D@H@p1@G@l500@w90@l500@w45",
		"BF2D@H@p1@G@l500@w90@l500@w90@l200@w0",
	}
	for _, line := range lines {
		rec, err := testDecoder(1).Decode(line)
		require.NoError(t, err, line)
		diff := len(rec.SegmentLengths) - len(rec.SegmentAngles)
		assert.Contains(t, []int{0, 1}, diff, line)
		if n := len(rec.SegmentAngles); n > 0 {
			assert.NotEqual(t, "0", rec.SegmentAngles[n-1].Value, line)
		}
	}
}

func TestDecodeAssembly(t *testing.T) {
	rec, err := testDecoder(1).Decode("BF2D@H@p4@n3@P@tA1@G@l100")
	require.NoError(t, err)
	assert.True(t, rec.PartOfAssembly)
	assert.Equal(t, "A1", rec.AssemblyName())
	require.NotNil(t, rec.AmountAssembly)
	assert.Equal(t, "3", rec.AmountAssembly.Value)
	assert.Nil(t, rec.AmountTotal)
}

func TestDecodeCoupler(t *testing.T) {
	rec, err := testDecoder(1).Decode("BF2D@H@p1@G@l500@M@c1@p0")
	require.NoError(t, err)
	assert.Equal(t, "True", rec.CouplerStart.Value)
	assert.Equal(t, "False", rec.CouplerEnd.Value)
	assert.True(t, rec.CouplerStartEnabled())
	assert.False(t, rec.CouplerEndEnabled())

	rec, err = testDecoder(1).Decode("BF2D@H@p1@M@cx@p1@a12@bT1@nLENTON@oT2@G@l500")
	require.NoError(t, err)
	assert.Equal(t, "False", rec.CouplerStart.Value)
	assert.Equal(t, "True", rec.CouplerEnd.Value)
	assert.Nil(t, rec.CouplerStartFabricant, "numeric fabricant codes are discarded")
	assert.Equal(t, "T1", rec.CouplerStartType.Value)
	assert.Equal(t, "LENTON", rec.CouplerEndFabricant.Value)
	assert.Equal(t, "T2", rec.CouplerEndType.Value)
}

func TestDecodeSyntaxErrors(t *testing.T) {
	for _, line := range []string{
		"BF4D@H@p1@G@l500",
		"BF2D@H@p1@l500",
		"BF2D@G@l500",
		"",
		"BF2D@H@p1@lten@G@l500",
	} {
		_, err := testDecoder(1).Decode(line)
		assert.ErrorIs(t, err, ErrSyntax, line)
	}
}

func TestDecode3D(t *testing.T) {
	rec, err := testDecoder(1).Decode("BF3D@H@p5@d16@G@x500@y0@z0@x0@y300@z0@x0@y0@z200")
	require.NoError(t, err)
	assert.Equal(t, model.Shape3D, rec.Shape)
	assert.Equal(t, []string{"500", "300", "200"}, values(rec.SegmentLengths))
	assert.Equal(t, []string{"90", "90"}, values(rec.SegmentAngles))
	assert.Equal(t, []int{0, 2, 4}, ids(rec.SegmentLengths))
	assert.Equal(t, []int{1, 3}, ids(rec.SegmentAngles))
}

func TestDecode3DDiagonalAndTrim(t *testing.T) {
	// 3-4-5 triangle leg, then a collinear continuation whose 0° angle is
	// the last one and gets trimmed.
	rec, err := testDecoder(1).Decode("BF3D@H@p5@G@x300@y400@z0@x300@y400@z0")
	require.NoError(t, err)
	assert.Equal(t, []string{"500", "500"}, values(rec.SegmentLengths))
	assert.Empty(t, rec.SegmentAngles)

	// a 45° turn in the xy plane
	rec, err = testDecoder(1).Decode("BF3D@H@p5@G@x100@y0@z0@z0@x100@y100")
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "141"}, values(rec.SegmentLengths))
	assert.Equal(t, []string{"45"}, values(rec.SegmentAngles))
}

func TestDecode3DZeroSegment(t *testing.T) {
	_, err := testDecoder(1).Decode("BF3D@H@p5@G@x0@y0@z0@x100@y0@z0")
	assert.ErrorIs(t, err, ErrGeometry)

	_, err = testDecoder(1).Decode("BF3D@H@p5@G@xa@y0@z0")
	assert.ErrorIs(t, err, ErrGeometry)
}

func TestRoundIsIdempotent(t *testing.T) {
	for _, unit := range []int{1, 5, 10, 25} {
		for v := 0.0; v < 2000; v += 7.3 {
			once := Round(v, unit)
			assert.Equal(t, once, Round(float64(once), unit), "v=%v unit=%d", v, unit)
			assert.Zero(t, once%unit)
		}
	}
	assert.Equal(t, 1005, Round(1003, 5))
	assert.Equal(t, 1000, Round(1002.5, 5), "ties go to even")
	assert.Equal(t, 1010, Round(1007.5, 5))
}

func TestSplit(t *testing.T) {
	got := Split("BF2D@Hx@Gy")
	assert.Equal(t, []string{"BF2D", "@H", "x", "@G", "y"}, got)

	sec, err := SplitSections("BF2D@H@p1@G@l1@C12@")
	require.NoError(t, err)
	assert.Equal(t, "@p1", sec.Header)
	assert.Equal(t, "@l1", sec.Geometry)
	assert.False(t, sec.HasAssembly)
	assert.False(t, sec.HasCoupler)
}

func TestReadLines(t *testing.T) {
	in := "BF2D@H@p1@G@l1\r\n\n  \nBF2D@H@p2@G@l2\n"
	lines, err := ReadLines(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Line{
		{Number: 1, Text: "BF2D@H@p1@G@l1"},
		{Number: 4, Text: "BF2D@H@p2@G@l2"},
	}, lines)
}

func TestDecodeAllKeepsOrder(t *testing.T) {
	var lines []Line
	for i := 1; i <= 50; i++ {
		lines = append(lines, Line{Number: i, Text: "BF2D@H@p" + strconv.Itoa(i) + "@G@l100"})
	}
	recs, err := testDecoder(1).DecodeAll(context.Background(), lines, 4)
	require.NoError(t, err)
	require.Len(t, recs, 50)
	for i, rec := range recs {
		assert.Equal(t, strconv.Itoa(i+1), rec.MarkValue())
		assert.Equal(t, i+1, rec.Line)
	}
}

func TestDecodeAllAbortsOnFirstFailingLine(t *testing.T) {
	lines := []Line{
		{Number: 1, Text: "BF2D@H@p1@G@l100"},
		{Number: 3, Text: "BF2D@H@p2"},
		{Number: 4, Text: "BF2D@H@p3@G@r900"},
		{Number: 5, Text: "BF2D@H@p4@G@l100"},
	}
	for _, workers := range []int{1, 2, 8} {
		recs, err := testDecoder(1).DecodeAll(context.Background(), lines, workers)
		require.Error(t, err)
		assert.Nil(t, recs)

		var de *DecodeError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 3, de.Line)
		assert.Equal(t, "BF2D@H@p2", de.Text)
		assert.ErrorIs(t, err, ErrSyntax)
	}
}

func TestDecodeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testDecoder(1).DecodeAll(ctx, []Line{{Number: 1, Text: "BF2D@H@p1@G@l1"}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

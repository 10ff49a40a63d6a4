package match

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bvbswizard/internal/config"
	"bvbswizard/internal/model"
)

// CouplerAdjuster lengthens the end segments of bars that carry couplers by
// the length of the coupler fixture placed on the bar.
type CouplerAdjuster struct {
	fixtureName string
	lengthAttr  int
}

func NewCouplerAdjuster(cfg config.MatchingConfig) *CouplerAdjuster {
	return &CouplerAdjuster{fixtureName: cfg.FixtureName, lengthAttr: cfg.FixtureLengthAttribute}
}

// Adjust adds the fixture length to the first segment for a start coupler
// and to the last segment for an end coupler. A bar with one segment gets
// it once per enabled coupler. On error the record is unchanged.
func (a *CouplerAdjuster) Adjust(r *model.RebarRecord) error {
	fail := func(format string, args ...any) error {
		return &CouplerError{Mark: r.MarkValue(), Line: r.Line, Reason: fmt.Sprintf(format, args...)}
	}

	if len(r.Matched) == 0 {
		return fail("no matched placement")
	}
	start, end := r.CouplerStartEnabled(), r.CouplerEndEnabled()
	if !start && !end {
		return fail("no coupler enabled")
	}

	placement := r.Matched[0]
	fixture, ok := placement.Fixture(a.fixtureName)
	if !ok {
		return fail("placement %s has no %q", placement.ID(), a.fixtureName)
	}
	raw, ok := fixture.Attribute(a.lengthAttr)
	if !ok {
		return fail("%q has no attribute %d", a.fixtureName, a.lengthAttr)
	}
	fl, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fail("fixture length %q is not numeric", raw)
	}
	add := math.RoundToEven(fl)

	n := len(r.SegmentLengths)
	if n == 0 {
		return fail("no length segments")
	}
	values := make([]float64, n)
	for i, seg := range r.SegmentLengths {
		v, err := strconv.ParseFloat(strings.TrimSpace(seg.Value), 64)
		if err != nil {
			return fail("segment %d length %q is not numeric", seg.ID, seg.Value)
		}
		values[i] = v
	}

	changed := make([]bool, n)
	if start {
		values[0] += add
		changed[0] = true
	}
	if end {
		values[n-1] += add
		changed[n-1] = true
	}
	for i := range r.SegmentLengths {
		if changed[i] {
			r.SegmentLengths[i].Value = strconv.FormatFloat(values[i], 'f', -1, 64)
		}
	}
	return nil
}

// AdjustAll adjusts every record with an enabled coupler and returns one
// error per record that could not be adjusted.
func (a *CouplerAdjuster) AdjustAll(records []*model.RebarRecord) []error {
	var errs []error
	for _, r := range records {
		if !r.CouplerStartEnabled() && !r.CouplerEndEnabled() {
			continue
		}
		if err := a.Adjust(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

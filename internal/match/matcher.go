// Package match ties decoded records to the placements of the drawing and
// post-processes the matched records: coupler length adjustment and
// assembly amount aggregation.
package match

import (
	"go.uber.org/zap"

	"bvbswizard/internal/config"
	"bvbswizard/internal/model"
)

// Matcher assigns placements to records.
type Matcher struct {
	cfg    config.MatchingConfig
	logger *zap.Logger
}

// NewMatcher returns a Matcher. A nil logger discards output.
func NewMatcher(cfg config.MatchingConfig, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{cfg: cfg, logger: logger}
}

// Match appends every placement to the first record (decode order) with the
// same mark, and inside an assembly also the same assembly name. Placements
// without a record are returned in a *MatchError; all other matches stay.
func (m *Matcher) Match(records []*model.RebarRecord, placements []model.Placement, assemblies []model.AssemblyMatchEntry) error {
	coerced := m.linkedPolygonMarks(placements)

	var unmatched []model.Unmatched
	for _, p := range placements {
		key := matchKey(p, coerced)
		asm, inAssembly := assemblyOf(p.ID(), assemblies)

		rec := findRecord(records, key, asm, inAssembly)
		if rec == nil {
			m.logger.Debug("no record for placement",
				zap.String("placement", p.ID()),
				zap.String("key", key),
				zap.String("assembly", asm))
			unmatched = append(unmatched, model.Unmatched{PlacementID: p.ID(), Key: key, Assembly: asm})
			continue
		}
		rec.Matched = append(rec.Matched, p)
		rec.PlacementType = p.TypeID()
	}
	if len(unmatched) > 0 {
		return &MatchError{Unmatched: unmatched}
	}
	return nil
}

// linkedPolygonMarks finds polygon placements that were never unlinked.
// Such a placement reports its bare mark although the export wrote it as
// "<mark>.1". A global mark is coerced when a bare placement is the only
// distinct full mark of its group or occurs exactly once in it.
//
// Two placements sharing a mark where only one was unlinked cannot be told
// apart; the result is then a guess.
func (m *Matcher) linkedPolygonMarks(placements []model.Placement) map[string]bool {
	type group struct {
		count map[string]int
	}
	groups := make(map[string]*group)
	for _, p := range placements {
		if p.Kind() != m.cfg.PolygonKind {
			continue
		}
		g := groups[p.Mark()]
		if g == nil {
			g = &group{count: make(map[string]int)}
			groups[p.Mark()] = g
		}
		g.count[model.FullMark(p)]++
	}

	coerced := make(map[string]bool)
	for global, g := range groups {
		n, ok := g.count[global]
		if !ok {
			continue
		}
		if len(g.count) == 1 || n == 1 {
			coerced[global] = true
		}
	}
	return coerced
}

func matchKey(p model.Placement, coerced map[string]bool) string {
	full := model.FullMark(p)
	if full == p.Mark() && coerced[p.Mark()] {
		return p.Mark() + ".1"
	}
	return full
}

// assemblyOf returns the name of the first assembly listing the placement.
func assemblyOf(id string, assemblies []model.AssemblyMatchEntry) (string, bool) {
	for _, a := range assemblies {
		if a.Contains(id) {
			return a.Name, true
		}
	}
	return "", false
}

func findRecord(records []*model.RebarRecord, key, asm string, inAssembly bool) *model.RebarRecord {
	for _, r := range records {
		if r.MarkValue() != key || r.Mark == nil {
			continue
		}
		if inAssembly {
			if !r.PartOfAssembly || r.Assembly == nil || r.AssemblyName() != asm {
				continue
			}
		}
		return r
	}
	return nil
}

// Package pipeline runs a BVBS import from the export file to the attribute
// assignments for the drawing: decode, name segments, select placements,
// match, adjust couplers, aggregate assemblies.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bvbswizard/internal/bvbs"
	"bvbswizard/internal/config"
	"bvbswizard/internal/host"
	"bvbswizard/internal/match"
	"bvbswizard/internal/model"
)

// TimestampLayout is the format of the optional import timestamp attribute.
const TimestampLayout = "2006-01-02 15:04"

// RunContext carries what every stage needs. Build it with NewRunContext.
type RunContext struct {
	Config config.Config
	Logger *zap.Logger
	RunID  string
	Now    func() time.Time
}

// NewRunContext returns a context with a fresh run ID. A nil logger
// discards output.
func NewRunContext(cfg config.Config, logger *zap.Logger) *RunContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &RunContext{
		Config: cfg,
		Logger: logger.With(zap.String("run", id)),
		RunID:  id,
		Now:    time.Now,
	}
}

// Input names the two files of an import.
type Input struct {
	BVBSPath       string `json:"bvbs"`
	PlacementsPath string `json:"placements"`
}

// SummaryEntry is one line of the report summary.
type SummaryEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Assignment is what gets written to the matched placements of a record.
type Assignment struct {
	Mark       string            `json:"mark"`
	Line       int               `json:"line"`
	Placements []string          `json:"placements"`
	Attributes []model.Attribute `json:"attributes"`
}

// Result is the outcome of a run that got past decoding and selection.
type Result struct {
	RunID       string               `json:"run_id"`
	Input       Input                `json:"input"`
	Started     time.Time            `json:"started"`
	Records     []*model.RebarRecord `json:"records"`
	Unmatched   []model.Unmatched    `json:"unmatched,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
	Summary     []SummaryEntry       `json:"summary"`
	Assignments []Assignment         `json:"assignments"`

	Selection     *host.Selection `json:"-"`
	CouplerErrors []error         `json:"-"`
	AmountErrors  []error         `json:"-"`
}

// Run executes one import. Config, read, decode and selection errors stop
// the run; matching, coupler and amount problems end up as warnings.
func Run(ctx context.Context, rc *RunContext, in Input) (*Result, error) {
	cfg := rc.Config
	log := rc.Logger
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	res := &Result{RunID: rc.RunID, Input: in, Started: rc.Now()}

	lines, err := ReadSource(in.BVBSPath)
	if err != nil {
		return nil, err
	}
	log.Debug("read bvbs export", zap.String("path", in.BVBSPath), zap.Int("lines", len(lines)))

	start := time.Now()
	dec := bvbs.NewDecoder(cfg.Attributes)
	records, err := dec.DecodeAll(ctx, lines, cfg.Decode.Workers)
	if err != nil {
		return nil, err
	}
	log.Debug("decoded", zap.Int("records", len(records)), zap.Duration("took", time.Since(start)))
	match.NameSegments(records, cfg.Attributes)
	res.Records = records

	doc, err := host.LoadDocument(ExpandHome(in.PlacementsPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSelection, err)
	}
	sel, err := host.Select(doc, cfg.Matching)
	res.Selection = sel
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSelection, err)
	}
	log.Debug("selection",
		zap.Int("elements", sel.Elements),
		zap.Int("assemblies", len(sel.Assemblies)),
		zap.Int("placements", len(sel.Placements)))

	matcher := match.NewMatcher(cfg.Matching, log)
	if err := matcher.Match(records, sel.Placements, sel.Assemblies); err != nil {
		var me *match.MatchError
		if !errors.As(err, &me) {
			return nil, err
		}
		res.Unmatched = me.Unmatched
		res.Warnings = append(res.Warnings, err.Error())
		log.Warn("unmatched placements", zap.Int("count", len(me.Unmatched)))
	}

	res.CouplerErrors = match.NewCouplerAdjuster(cfg.Matching).AdjustAll(records)
	for _, err := range res.CouplerErrors {
		res.Warnings = append(res.Warnings, err.Error())
		log.Warn("coupler length not adjusted", zap.Error(err))
	}

	res.AmountErrors = match.AggregateAssemblies(records, cfg.Attributes.AmountTotal)
	for _, err := range res.AmountErrors {
		res.Warnings = append(res.Warnings, err.Error())
		log.Warn("assembly amount not aggregated", zap.Error(err))
	}

	res.Summary = summarize(res, len(lines))
	res.Assignments = assignments(records, cfg.Output, res.Started)
	log.Info("import finished",
		zap.Int("records", len(records)),
		zap.Int("assignments", len(res.Assignments)),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

func summarize(res *Result, entries int) []SummaryEntry {
	var shapes2D, shapes3D int
	for _, r := range res.Records {
		if r.Shape == model.Shape3D {
			shapes3D++
		} else {
			shapes2D++
		}
	}
	return []SummaryEntry{
		{"BVBS definition entries", entries},
		{"Elements in drawing", res.Selection.Elements},
		{"Assemblies in drawing", len(res.Selection.Assemblies)},
		{"Actual placements", len(res.Selection.Placements)},
		{"2D rebar shapes", shapes2D},
		{"3D rebar shapes", shapes3D},
		{"Unassigned elements", len(res.Unmatched)},
		{"Coupler failures", len(res.CouplerErrors)},
	}
}

func assignments(records []*model.RebarRecord, out config.OutputConfig, now time.Time) []Assignment {
	var list []Assignment
	for _, r := range records {
		if len(r.Matched) == 0 {
			continue
		}
		attrs := r.Attributes()
		if out.Timestamp {
			attrs = append(attrs, model.Attribute{ID: out.TimestampAttribute, Value: now.Format(TimestampLayout)})
		}
		list = append(list, Assignment{
			Mark:       r.MarkValue(),
			Line:       r.Line,
			Placements: r.MatchedIDs(),
			Attributes: attrs,
		})
	}
	return list
}

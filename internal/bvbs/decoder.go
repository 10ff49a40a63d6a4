// Package bvbs decodes BVBS bending-machine lines into rebar records.
//
// A line looks like
//
//	BF2D@Hj@r@ia@p1@l1000@n5@e0.888@d12@gB500B@s48@v@a@Gl500@w90@l500@w0@C73@
//
// and is cut into sections on '@' followed by an upper-case letter. Each
// section is a run of '@'-separated sub-tokens whose first character is the
// tag.
package bvbs

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"bvbswizard/internal/config"
	"bvbswizard/internal/model"
)

// Decoder turns BVBS lines into records. It holds no mutable state and is
// safe for concurrent use.
type Decoder struct {
	attrs config.AttributeConfig
}

// NewDecoder returns a decoder writing the given attribute IDs.
func NewDecoder(attrs config.AttributeConfig) *Decoder {
	return &Decoder{attrs: attrs}
}

// Decode decodes one line. Errors wrap ErrSyntax or ErrGeometry.
func (d *Decoder) Decode(line string) (*model.RebarRecord, error) {
	sec, err := SplitSections(line)
	if err != nil {
		return nil, err
	}
	rec := &model.RebarRecord{
		Shape:          sec.Shape,
		PartOfAssembly: sec.HasAssembly,
	}
	// The amount tag is routed by PartOfAssembly, so it must be known
	// before the header is read.
	if err := d.decodeHeader(rec, sec.Header); err != nil {
		return nil, err
	}
	if sec.HasAssembly {
		d.decodeAssembly(rec, sec.Assembly)
	}
	if sec.HasCoupler {
		d.decodeCoupler(rec, sec.Coupler)
	}
	if err := d.decodeGeometry(rec, sec.Geometry); err != nil {
		return nil, err
	}
	return rec, nil
}

// Line is one non-blank input line with its 1-based position in the file.
type Line struct {
	Number int
	Text   string
}

// ReadLines reads BVBS lines from r. Blank lines are skipped; line numbers
// still count them.
func ReadLines(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	// Large buffer for long 3D shapes
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var lines []Line
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: n, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read bvbs: %w", err)
	}
	return lines, nil
}

// DecodeAll decodes every line on up to workers goroutines (<=0: one per
// CPU). Records keep input order. Decoding is all-or-nothing: on failure no
// records are returned and the error is the *DecodeError of the first
// failing line.
func (d *Decoder) DecodeAll(ctx context.Context, lines []Line, workers int) ([]*model.RebarRecord, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	records := make([]*model.RebarRecord, len(lines))
	errs := make([]error, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ln := range lines {
		// Lines are scheduled in order and a scheduled line always runs to
		// completion, so the lowest failing line is always among the errors.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := d.Decode(ln.Text)
			if err != nil {
				errs[i] = &DecodeError{Line: ln.Number, Text: ln.Text, Err: err}
				return errs[i]
			}
			rec.Line = ln.Number
			records[i] = rec
			return nil
		})
	}
	werr := g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if werr != nil {
		return nil, werr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

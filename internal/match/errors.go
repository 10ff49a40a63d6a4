package match

import (
	"errors"
	"fmt"
	"strings"

	"bvbswizard/internal/model"
)

var (
	// ErrUnmatched is wrapped by *MatchError.
	ErrUnmatched = errors.New("unmatched placements")
	// ErrCouplerAdjustment is wrapped by *CouplerError.
	ErrCouplerAdjustment = errors.New("coupler adjustment failed")
	// ErrAmount is returned when an assembly amount is not an integer.
	ErrAmount = errors.New("invalid assembly amount")
)

// MatchError reports the placements no record was found for. The matches
// that did succeed are kept on the records.
type MatchError struct {
	Unmatched []model.Unmatched
}

func (e *MatchError) Error() string {
	keys := make([]string, 0, len(e.Unmatched))
	for _, u := range e.Unmatched {
		keys = append(keys, u.Key)
	}
	return fmt.Sprintf("%d placement(s) without a BVBS record: %s", len(e.Unmatched), strings.Join(keys, ", "))
}

func (e *MatchError) Unwrap() error { return ErrUnmatched }

// CouplerError explains why a record's lengths were left unchanged.
type CouplerError struct {
	Mark   string
	Line   int
	Reason string
}

func (e *CouplerError) Error() string {
	return fmt.Sprintf("mark %s (line %d): %s", e.Mark, e.Line, e.Reason)
}

func (e *CouplerError) Unwrap() error { return ErrCouplerAdjustment }

package match

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bvbswizard/internal/model"
)

// AggregateAssemblies sums the per-assembly amounts of every assembly mark
// and writes the sum as total amount on each member, using amountTotalID.
// A group with a non-integer amount is left as it is and reported.
func AggregateAssemblies(records []*model.RebarRecord, amountTotalID int) []error {
	groups := make(map[string][]*model.RebarRecord)
	for _, r := range records {
		if !r.PartOfAssembly {
			continue
		}
		groups[r.MarkValue()] = append(groups[r.MarkValue()], r)
	}

	marks := make([]string, 0, len(groups))
	for mark := range groups {
		marks = append(marks, mark)
	}
	sort.Strings(marks)

	var errs []error
	for _, mark := range marks {
		sum, err := sumAmounts(groups[mark])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		value := strconv.Itoa(sum)
		for _, r := range groups[mark] {
			r.AmountTotal = model.NewAttribute(amountTotalID, value)
		}
	}
	return errs
}

func sumAmounts(group []*model.RebarRecord) (int, error) {
	sum := 0
	for _, r := range group {
		if r.AmountAssembly == nil {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(r.AmountAssembly.Value))
		if err != nil {
			return 0, fmt.Errorf("%w: mark %s (line %d): %q", ErrAmount, r.MarkValue(), r.Line, r.AmountAssembly.Value)
		}
		sum += n
	}
	return sum, nil
}

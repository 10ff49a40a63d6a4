package bvbs

import (
	"math"
	"strconv"
)

// Round rounds value to the nearest multiple of unit. Ties go to the even
// multiple, the same as the host's own rounding.
func Round(value float64, unit int) int {
	if unit <= 0 {
		unit = 1
	}
	return int(math.RoundToEven(value/float64(unit))) * unit
}

// formatFloat prints the shortest representation: 392.6990816987241, 20.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

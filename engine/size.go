package engine

import "strconv"

var sizeUnits = []string{"B", "K", "M", "G", "T"}

// FormatSize renders size in base-1024 units. Sizes below 1024 are an
// integer byte count; larger sizes carry one decimal place at the largest
// unit whose scaled value is at least one.
func FormatSize(size int64) string {
	if size < 1024 {
		return strconv.FormatInt(size, 10) + "B"
	}

	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + sizeUnits[unit]
}

// Package layout turns a snapshot into the column schema, cell matrix,
// observations table, hyperlinks and styles of the consolidated workbook.
package layout

import "math"

// ordinalScale maps the grading vocabulary to averaging weights.
var ordinalScale = map[string]float64{
	"AD": 4,
	"A":  3,
	"B":  2,
	"C":  1,
}

// Weight returns the numeric weight of a grade. Values outside the scale are
// reported as not ok and must be left out of averages.
func Weight(grade string) (float64, bool) {
	w, ok := ordinalScale[grade]
	return w, ok
}

// Mean returns the arithmetic mean of weights rounded to two decimals.
// An empty set has no mean.
func Mean(weights []float64) (float64, bool) {
	if len(weights) == 0 {
		return 0, false
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return Round2(sum / float64(len(weights))), true
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

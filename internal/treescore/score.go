// Package treescore prices tree work: a size score from physical
// measurements, an AFISS risk/access multiplier and a per-service rate table.
package treescore

import "math"

// Score is height + 2×DBH + canopy diameter. It is 0 unless both height and
// DBH are positive, which suppresses the score for unmeasured items.
func Score(height, dbh, canopyRadius float64) float64 {
	if !(height > 0 && dbh > 0) {
		return 0
	}
	return height + dbh*2 + CanopyDiameter(canopyRadius)
}

// CanopyDiameter is twice the canopy radius.
func CanopyDiameter(radius float64) float64 {
	return 2 * radius
}

// DisplayScore rounds a score to the nearest whole point.
func DisplayScore(score float64) int {
	return int(math.Round(score))
}

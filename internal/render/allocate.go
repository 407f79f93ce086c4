package render

import (
	"fmt"
	"math"
)

// Allocate splits cells between parts proportionally to their shares
// (percentages) using largest remainder apportionment. The returned widths
// always sum to cells, whatever the shares add up to.
//
// Leftover cells go to the part with the largest fractional remainder, the
// earliest part winning ties. When the shares add up to more than 100 the
// surplus is taken back from the parts that overshoot their ideal width most.
func Allocate(shares []float64, cells int) []int {
	if cells < 0 {
		panic(fmt.Sprintf("render: negative cell count %d", cells))
	}
	widths := make([]int, len(shares))
	if len(shares) == 0 {
		if cells > 0 {
			panic(fmt.Sprintf("render: cannot allocate %d cells to zero parts", cells))
		}
		return widths
	}

	ideals := make([]float64, len(shares))
	sum := 0
	for i, share := range shares {
		if share < 0 || math.IsNaN(share) || math.IsInf(share, 0) {
			panic(fmt.Sprintf("render: invalid share %v at index %d", share, i))
		}
		ideals[i] = float64(cells) * share / 100.0
		widths[i] = int(math.Floor(ideals[i]))
		sum += widths[i]
	}

	for sum < cells {
		best, bestFrac := 0, -1.0
		for i, w := range widths {
			frac := math.Max(0, ideals[i]-float64(w))
			if frac > bestFrac {
				best, bestFrac = i, frac
			}
		}
		widths[best]++
		sum++
	}

	for sum > cells {
		best, bestOver := -1, 0.0
		for i, w := range widths {
			if w == 0 {
				continue
			}
			over := float64(w) - ideals[i]
			if best < 0 || over > bestOver {
				best, bestOver = i, over
			}
		}
		widths[best]--
		sum--
	}

	return widths
}

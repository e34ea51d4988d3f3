package bombgen

import (
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// chooseOrigin picks the cell a spawned bomb occupies, per spec §4.6.4:
//
//   - exactly one focus cell lies within the shape: that cell is the origin.
//   - more than one focus cell lies within the shape: uniform-random among
//     them (needs rnd; falls back to the first in sorted order without one).
//   - no focus cell lies within the shape: sorted order, first cell
//     deterministically, or uniform-random among all cells with rnd.
func chooseOrigin(cells []geom.Position, foci map[geom.Position]bool, rnd *rng.RNG) geom.Position {
	var inFoci []geom.Position
	for _, p := range cells {
		if foci[p] {
			inFoci = append(inFoci, p)
		}
	}

	pool := inFoci
	if len(pool) == 0 {
		pool = cells
	}

	sorted := append([]geom.Position(nil), pool...)
	sortPositions(sorted)

	if len(sorted) == 1 || rnd == nil {
		return sorted[0]
	}
	return sorted[rnd.NextU32(uint32(len(sorted)))]
}

func sortPositions(ps []geom.Position) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && less(ps[j], ps[j-1]); j-- {
			ps[j-1], ps[j] = ps[j], ps[j-1]
		}
	}
}

func less(a, b geom.Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

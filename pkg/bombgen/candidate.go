package bombgen

import (
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/pool"
)

// candidate wraps a DetectedShape with the bookkeeping the partitioner
// needs: a disjointness test (bitmask for small components, sparse set
// fallback for large ones per spec §4.6.1/§9), its size, and whether it
// touches a focus cell.
type candidate struct {
	shape    DetectedShape
	mask     pool.Mask256
	sparse   pool.SparseSet[geom.Position]
	useMask  bool
	weight   int
	size     int
	affinity bool
}

func (c candidate) overlaps(o candidate) bool {
	if c.useMask && o.useMask {
		return c.mask.Overlaps(o.mask)
	}
	return c.sparse.Overlaps(o.sparse)
}

// buildCandidates converts every DetectedShape in a component into a
// candidate, indexing cells into a 256-bit mask when the component is
// small enough, else a sparse hash set.
func buildCandidates(component Component, shapes []DetectedShape, foci map[geom.Position]bool) []candidate {
	useMask := len(component.Positions) <= pool.MaxMaskCells
	var cellIndex map[geom.Position]int
	if useMask {
		cellIndex = make(map[geom.Position]int, len(component.Positions))
		for i, p := range component.Positions {
			cellIndex[p] = i
		}
	}

	out := make([]candidate, 0, len(shapes))
	for _, s := range shapes {
		c := candidate{shape: s, weight: s.Weight, size: len(s.Cells), useMask: useMask}
		if useMask {
			for _, p := range s.Cells {
				c.mask.Set(cellIndex[p])
			}
		} else {
			c.sparse = pool.NewSparseSet[geom.Position]()
			for _, p := range s.Cells {
				c.sparse[p] = true
			}
		}
		for _, p := range s.Cells {
			if foci[p] {
				c.affinity = true
				break
			}
		}
		out = append(out, c)
	}
	return out
}

// sortTieBreak orders candidates by (weight DESC, affinity DESC, size
// DESC) per spec §4.6.2, used both before partitioning within a tier and
// for the TNT+Rocket greedy fallback's (weight DESC, size ASC) variant
// (applied separately where needed).
func sortTieBreak(cs []candidate) {
	insertionSort(cs, func(a, b candidate) bool {
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		if a.affinity != b.affinity {
			return a.affinity
		}
		return a.size > b.size
	})
}

// sortGreedyTNTRocket orders by (weight DESC, size ASC) — smaller shapes
// preferred at equal weight because they block less future space (spec
// §4.6.1 step 3).
func sortGreedyTNTRocket(cs []candidate) {
	insertionSort(cs, func(a, b candidate) bool {
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		return a.size < b.size
	})
}

// sortGreedyBySize orders by size DESC, the Rainbow-layer greedy
// fallback's tie-break for large candidate sets (spec §4.6.1 step 2).
func sortGreedyBySize(cs []candidate) {
	insertionSort(cs, func(a, b candidate) bool {
		return a.size > b.size
	})
}

func insertionSort(cs []candidate, less func(a, b candidate) bool) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && less(cs[j], cs[j-1]); j-- {
			cs[j-1], cs[j] = cs[j], cs[j-1]
		}
	}
}

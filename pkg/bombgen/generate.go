package bombgen

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// Generate turns one matched component into the set of match groups the
// engine destroys this tick, applying the full bomb-generator pipeline
// (spec §4.6): shape detection, tiered weighted partitioning, scrap
// absorption, origin selection, and the simple-match/failure-mode
// fallbacks. foci is the set of cells the triggering swap (or cascade)
// touched directly, used for origin preference and candidate affinity.
// rnd may be nil, in which case every tie-break falls back to
// deterministic sorted order.
func Generate(component Component, foci map[geom.Position]bool, rnd *rng.RNG) []board.MatchGroup {
	shapes := DetectShapes(component)
	if len(shapes) == 0 {
		return simpleMatchGroups(component)
	}

	candidates := buildCandidates(component, shapes, foci)
	chosen, leftover := partitionTiers(candidates)
	chosen = localSearchRefine(chosen, leftover)
	chosen = absorbScraps(component, chosen)

	groups := make([]board.MatchGroup, 0, len(chosen)+1)
	claimed := make(map[geom.Position]bool, len(component.Positions))
	for _, c := range chosen {
		for _, p := range c.shape.Cells {
			claimed[p] = true
		}
		origin := chooseOrigin(c.shape.Cells, foci, rnd)
		g := board.NewMatchGroup(component.Type, c.shape.Kind.MatchShape(), c.shape.Cells)
		g.SpawnBombType = c.shape.Kind.SpawnBombType(c.shape.Horizontal)
		o := origin
		g.BombOrigin = &o
		groups = append(groups, g)
	}

	// Failure mode (spec §4.6.6): cells left unclaimed by every chosen
	// shape (a leftover tail too short for any candidate, or a component
	// with no detected shape large enough to win a tier) still matched
	// and must be destroyed. Promote them to a bomb-less Simple3 group
	// when there are at least 3, otherwise fold them into the
	// largest chosen group so no matched tile silently survives.
	var orphans []geom.Position
	for _, p := range component.Positions {
		if !claimed[p] {
			orphans = append(orphans, p)
		}
	}
	if len(orphans) >= 3 {
		groups = append(groups, board.NewMatchGroup(component.Type, board.ShapeSimple3, orphans))
	} else if len(orphans) > 0 && len(groups) > 0 {
		largest := 0
		for i, g := range groups {
			if len(g.Positions) > len(groups[largest].Positions) {
				largest = i
			}
		}
		for _, p := range orphans {
			groups[largest].Positions[p] = true
		}
	} else if len(orphans) > 0 {
		groups = append(groups, board.NewMatchGroup(component.Type, board.ShapeSimple3, orphans))
	}

	return groups
}

// simpleMatchGroups handles the case where the component contains no
// candidate shape at all (spec §4.6.5): every run in it is shorter than
// 3, which cannot happen for a legally detected component, or the
// component itself is the bare minimum Simple3. The whole component
// becomes one bomb-less match group.
func simpleMatchGroups(component Component) []board.MatchGroup {
	if len(component.Positions) < 3 {
		return nil
	}
	return []board.MatchGroup{board.NewMatchGroup(component.Type, board.ShapeSimple3, component.Positions)}
}

// partitionTiers runs the partitioner once per layer, highest weight
// first, removing each layer's chosen cells from every lower layer's
// pool before it partitions (spec §4.6.1): Rainbow/Line5 (130) alone,
// then Plus/T/L (60) and Line4 (40) jointly as one "TNT+Rocket" layer so
// a Line4-only solution can still beat a conflicting Plus/T/L candidate
// when it wins on total weight, then Square (20) alone. Returns the
// combined selection across layers and everything left unchosen
// (candidates for local-search refinement).
func partitionTiers(candidates []candidate) (chosen, leftover []candidate) {
	layers := []struct {
		weights []int
		greedy  func([]candidate)
	}{
		{[]int{KindLine5.Weight()}, sortGreedyBySize},
		{[]int{KindPlus.Weight(), KindLine4.Weight()}, sortGreedyTNTRocket},
		{[]int{KindSquare.Weight()}, sortGreedyBySize},
	}

	remaining := append([]candidate(nil), candidates...)
	claimed := make(map[geom.Position]bool, len(candidates))

	inLayer := func(c candidate, weights []int) bool {
		for _, w := range weights {
			if c.weight == w {
				return true
			}
		}
		return false
	}
	overlapsClaimed := func(c candidate) bool {
		for _, p := range c.shape.Cells {
			if claimed[p] {
				return true
			}
		}
		return false
	}

	for _, layer := range layers {
		var pool []candidate
		var rest []candidate
		for _, c := range remaining {
			if !inLayer(c, layer.weights) {
				rest = append(rest, c)
				continue
			}
			if overlapsClaimed(c) {
				continue // already claimed by a higher layer this pass
			}
			pool = append(pool, c)
		}

		picked := partitionLayer(pool, layer.greedy)
		for _, c := range picked {
			for _, p := range c.shape.Cells {
				claimed[p] = true
			}
		}
		chosen = append(chosen, picked...)

		for _, c := range pool {
			if !overlapsClaimed(c) {
				rest = append(rest, c)
			}
		}
		remaining = rest
	}

	leftover = remaining
	return chosen, leftover
}

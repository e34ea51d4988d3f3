package bombgen

// exactBranchAndBoundLimit is the candidate-count ceiling below which a
// layer is solved exactly; above it, the layer falls back to a greedy
// pass to bound work on pathological boards (spec §4.6.1).
const exactBranchAndBoundLimit = 25

// localSearchPasses bounds the local-search refinement pass count (spec
// §4.6.1 step 5).
const localSearchPasses = 10

// partitionLayer selects a maximum-weight, pairwise-disjoint subset of
// candidates, using exact branch-and-bound when the input is small enough
// and falling back to the given greedy comparator otherwise.
func partitionLayer(candidates []candidate, greedySort func([]candidate)) []candidate {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) <= exactBranchAndBoundLimit {
		return branchAndBound(candidates)
	}
	greedySort(candidates)
	return greedyDisjoint(candidates)
}

// greedyDisjoint scans candidates in the caller's preferred order, taking
// each one that doesn't overlap anything already taken.
func greedyDisjoint(sorted []candidate) []candidate {
	var chosen []candidate
	for _, c := range sorted {
		conflict := false
		for _, taken := range chosen {
			if c.overlaps(taken) {
				conflict = true
				break
			}
		}
		if !conflict {
			chosen = append(chosen, c)
		}
	}
	return chosen
}

// branchAndBound finds the exact maximum-weight independent set over the
// cell-disjointness graph, using suffix-sum pruning: at each node,
// upperBound = weight-so-far + sum of all remaining candidates' weights;
// branches whose upper bound cannot beat the best found solution are
// pruned (spec §4.6.1 step 2).
func branchAndBound(candidates []candidate) []candidate {
	// Sort descending by weight so the suffix-sum upper bound is tight
	// and good solutions are found early (better pruning).
	ordered := append([]candidate(nil), candidates...)
	sortTieBreak(ordered)

	suffixSum := make([]int, len(ordered)+1)
	for i := len(ordered) - 1; i >= 0; i-- {
		suffixSum[i] = suffixSum[i+1] + ordered[i].weight
	}

	var best []candidate
	bestWeight := 0
	var current []candidate
	currentWeight := 0

	var recurse func(i int)
	recurse = func(i int) {
		if currentWeight+suffixSum[i] <= bestWeight {
			return // pruned: even taking everything remaining can't beat best
		}
		if i == len(ordered) {
			if currentWeight > bestWeight {
				bestWeight = currentWeight
				best = append([]candidate(nil), current...)
			}
			return
		}

		c := ordered[i]
		conflict := false
		for _, taken := range current {
			if c.overlaps(taken) {
				conflict = true
				break
			}
		}
		if !conflict {
			current = append(current, c)
			currentWeight += c.weight
			recurse(i + 1)
			currentWeight -= c.weight
			current = current[:len(current)-1]
		}

		// Always also explore skipping candidate i, even when it could be
		// taken — a different combination of later candidates may win.
		recurse(i + 1)
	}
	recurse(0)

	if bestWeight == 0 {
		return nil
	}
	return best
}

// localSearchRefine tries, for each candidate currently in solution,
// removing it and greedily re-filling the freed cells from leftover, then
// commits the swap only if total weight strictly increases (spec §4.6.1
// step 5). Runs at most localSearchPasses passes.
func localSearchRefine(solution []candidate, leftover []candidate) []candidate {
	current := append([]candidate(nil), solution...)
	pool := append([]candidate(nil), leftover...)

	for pass := 0; pass < localSearchPasses; pass++ {
		improved := false

		for i := range current {
			without := removeAt(current, i)

			// Try filling the freed space from leftover alone first — if
			// removed were re-offered in the same pass, sorting it back to
			// the front by weight would let greedy refill reclaim it
			// before any smaller alternative ever gets a look, defeating
			// the whole point of removing it.
			candidatePool := append([]candidate(nil), pool...)
			sortTieBreak(candidatePool)
			refill := refillAround(without, candidatePool)

			if totalWeight(refill) > totalWeight(current) {
				current = refill
				improved = true
				break
			}
		}

		if !improved {
			break
		}
	}
	return current
}

// refillAround keeps `base` fixed and greedily adds non-conflicting
// candidates from `pool` (already sorted by preference) on top of it.
func refillAround(base []candidate, pool []candidate) []candidate {
	chosen := append([]candidate(nil), base...)
	for _, c := range pool {
		conflict := false
		for _, taken := range chosen {
			if c.overlaps(taken) {
				conflict = true
				break
			}
		}
		if !conflict {
			chosen = append(chosen, c)
		}
	}
	return chosen
}

func removeAt(cs []candidate, i int) []candidate {
	out := make([]candidate, 0, len(cs)-1)
	out = append(out, cs[:i]...)
	out = append(out, cs[i+1:]...)
	return out
}

func totalWeight(cs []candidate) int {
	sum := 0
	for _, c := range cs {
		sum += c.weight
	}
	return sum
}

package match

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/bombgen"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// FindMatches scans the whole board for matched components and runs each
// one through the bomb generator, producing every match group the engine
// should destroy this tick. foci marks the cells the triggering swap or
// cascade touched directly (spec §4.6.4 origin preference, §4.6.1
// candidate affinity). rnd may be nil for lookahead/speculative runs that
// don't need tie-breaking output (only determinism of which cells match).
func FindMatches(gs *board.GameState, foci map[geom.Position]bool, rnd *rng.RNG) []board.MatchGroup {
	var groups []board.MatchGroup
	for _, component := range FindComponents(gs) {
		if len(FindRuns(component)) == 0 {
			continue // no run >= 3: not a match, just an adjacent same-color blob
		}
		groups = append(groups, bombgen.Generate(component, foci, rnd)...)
	}
	return groups
}

// FindRuns re-exports bombgen's run scan so match finder callers never
// need to import bombgen directly to check "is this component even a
// match".
func FindRuns(component Component) []bombgen.Run {
	return bombgen.FindRuns(component)
}

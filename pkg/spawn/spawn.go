// Package spawn implements the spawn model plug-in contract (spec §4.8):
// deciding what color a freshly refilled cell receives. Strategies are
// deterministic given the same RNG state and board, mirroring the
// teacher's GraphSynthesizer registry contract.
package spawn

import (
	"fmt"
	"sync"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// Ctx carries the live context the predict contract composes its
// decision from (spec §4.8): `ctx = { target_difficulty, remaining_moves,
// goal_progress, failed_attempts, in_flow_state }`. The caller (the
// engine) recomputes it fresh before every spawn — it is never cached
// across calls, since remaining_moves and goal_progress drift tick to
// tick.
type Ctx struct {
	// TargetDifficulty is the level's configured difficulty dial, ∈[0,1].
	TargetDifficulty float64
	// RemainingMoves is MoveLimit - MoveCount.
	RemainingMoves int
	// GoalProgress is the mean completion fraction across active
	// objectives, ∈[0,1].
	GoalProgress float64
	// FailedAttempts counts consecutive reverted swaps since the last
	// successful one.
	FailedAttempts int
	// InFlowState is true immediately following a successful (non-revert)
	// swap resolution, reset by the next revert. None of the documented
	// predict thresholds currently branch on it, but the contract names
	// it as part of ctx, so it is carried through regardless.
	InFlowState bool
}

// Strategy picks the color a new tile spawned at cell should carry.
//
// Contract:
//   - Must use the provided RNG for all randomness (determinism).
//   - Must return one of board.PlainColors.
//   - Must recompose its decision from ctx on every call (spec §4.8) —
//     never cache a chosen sub-strategy across spawns.
type Strategy interface {
	// NextColor chooses a color for a fresh tile at cell, given the
	// live spawn ctx.
	NextColor(gs *board.GameState, cell geom.Position, ctx Ctx, rnd *rng.RNG) board.TileType

	// Name returns the strategy's registration identifier.
	Name() string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Strategy{}
)

// Register adds a strategy under its own Name(). Panics on duplicate
// registration, the same fail-fast contract the teacher's synthesis
// registry uses for programmer error.
func Register(s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[s.Name()]; exists {
		panic(fmt.Sprintf("spawn: strategy %q already registered", s.Name()))
	}
	registry[s.Name()] = s
}

// Lookup returns the registered strategy by name, or an error if none
// matches.
func Lookup(name string) (Strategy, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("spawn: unknown strategy %q", name)
	}
	return s, nil
}

func init() {
	Register(PredictStrategy{})
}

// wouldMatchAt reports whether placing color at cell would complete a
// run of >= 3 with its already-settled neighbors (spec §4.8's Help/
// Challenge "creates a match" check).
func wouldMatchAt(gs *board.GameState, cell geom.Position, color board.TileType) bool {
	return runLength(gs, cell, color, -1, 0)+runLength(gs, cell, color, 1, 0) >= 2 ||
		runLength(gs, cell, color, 0, -1)+runLength(gs, cell, color, 0, 1) >= 2
}

// wouldNearMatchAt reports whether placing color at cell would produce a
// 2-in-a-row with its already-settled neighbors, without completing a
// run of 3 — Help's "near-match" fallback (spec §4.8).
func wouldNearMatchAt(gs *board.GameState, cell geom.Position, color board.TileType) bool {
	return runLength(gs, cell, color, -1, 0)+runLength(gs, cell, color, 1, 0) >= 1 ||
		runLength(gs, cell, color, 0, -1)+runLength(gs, cell, color, 0, 1) >= 1
}

func runLength(gs *board.GameState, cell geom.Position, color board.TileType, dx, dy int) int {
	count := 0
	p := cell.Add(dx, dy)
	for gs.InBounds(p) {
		t := gs.MustTileAt(p)
		if t.Type != color {
			break
		}
		count++
		p = p.Add(dx, dy)
	}
	return count
}

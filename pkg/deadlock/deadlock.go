// Package deadlock implements the deadlock detector and shuffler (spec
// §4.12): scanning for any legal swap that would produce a match, and
// reshuffling the board's plain-color tiles in place when none exists.
package deadlock

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/match"
	"github.com/dshills/match3sim/pkg/rng"
	"github.com/dshills/match3sim/pkg/swap"
)

// HasLegalMove reports whether any adjacent pair on the board can be
// swapped (passing swap.Validate) and would resolve into a match. Every
// tile already carrying a bomb counts as an available move too, since
// triggering it always "resolves" (spec §4.10's bomb short-circuit).
func HasLegalMove(gs *board.GameState) bool {
	for y := 0; y < gs.Height; y++ {
		for x := 0; x < gs.Width; x++ {
			p := geom.Pos(x, y)
			t := gs.MustTileAt(p)
			if t.Empty() {
				continue
			}
			if t.Bomb != board.BombNone {
				return true
			}
			right := p.Add(1, 0)
			if gs.InBounds(right) && tryAsMove(gs, p, right) {
				return true
			}
			down := p.Add(0, 1)
			if gs.InBounds(down) && tryAsMove(gs, p, down) {
				return true
			}
		}
	}
	return false
}

func tryAsMove(gs *board.GameState, a, b geom.Position) bool {
	if swap.Validate(gs, a, b) != nil {
		return false
	}
	_ = swap.Apply(gs, a, b)
	resolves := match.HasMatchAt(gs, a) || match.HasMatchAt(gs, b)
	_ = swap.Apply(gs, a, b) // undo: swap is its own inverse
	return resolves
}

// MaxShuffleAttempts bounds the reshuffle retry loop (spec §4.12): a
// shuffle that still leaves the board deadlocked is retried up to this
// many times before giving up (the caller then regenerates covers/ground
// state is out of scope — this is a pure color reshuffle).
const MaxShuffleAttempts = 20

// ShuffleChange records one tile's color change during a shuffle
// attempt, mirroring events.ShuffleChange without importing events (to
// avoid a needless dependency on the event envelope from this package).
type ShuffleChange struct {
	Position geom.Position
	TileID   uint64
	NewType  board.TileType
}

// Shuffle redistributes the plain colors currently on the board among
// their same cells (covers, ground, and bombs stay put; only TileType
// on movable, non-empty, non-Rainbow cells is permuted) using a
// Fisher-Yates draw from rnd, retrying until the result has a legal move
// or MaxShuffleAttempts is exhausted. Returns the per-cell changes for
// event emission.
func Shuffle(gs *board.GameState, rnd *rng.RNG) []ShuffleChange {
	var cells []geom.Position
	var colors []board.TileType
	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		if t.Empty() || t.Type == board.TileRainbow || t.IsFalling {
			return
		}
		cells = append(cells, p)
		colors = append(colors, t.Type)
	})
	if len(cells) < 2 {
		return nil
	}

	var changes []ShuffleChange
	for attempt := 0; attempt < MaxShuffleAttempts; attempt++ {
		permuted := append([]board.TileType(nil), colors...)
		fisherYates(permuted, rnd)

		changes = changes[:0]
		for i, p := range cells {
			t := gs.MustTileAt(p)
			if t.Type != permuted[i] {
				t.Type = permuted[i]
				_ = gs.SetTile(p, t)
				changes = append(changes, ShuffleChange{Position: p, TileID: t.ID, NewType: t.Type})
			}
		}

		if HasLegalMove(gs) {
			return changes
		}
	}
	return changes
}

func fisherYates(ts []board.TileType, rnd *rng.RNG) {
	for i := len(ts) - 1; i > 0; i-- {
		j := int(rnd.NextU32(uint32(i + 1)))
		ts[i], ts[j] = ts[j], ts[i]
	}
}

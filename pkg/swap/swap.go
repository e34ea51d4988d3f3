// Package swap implements the swap operation and its pending-move state
// machine (spec §4.10): validating a proposed swap, applying it, and
// reverting it if it produced no match and neither tile carries a bomb.
package swap

import (
	"fmt"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/errs"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/match"
)

// Phase is the pending-move state machine's current step.
type Phase int

const (
	// PhaseIdle: no swap in flight.
	PhaseIdle Phase = iota
	// PhaseAnimating: the swap has been applied to the grid and is
	// waiting out its animation duration before match detection runs.
	PhaseAnimating
	// PhaseReverting: the swap produced no match and is animating back
	// to its original cells.
	PhaseReverting
)

// Pending tracks one in-flight swap across ticks.
type Pending struct {
	Phase     Phase
	From, To  geom.Position
	Elapsed   float64
	AnyBombed bool
}

// Validate checks a swap's preconditions (spec §4.10): the two cells
// must be cardinally adjacent, both in bounds, both holding a tile, and
// neither blocked from swapping by a present cover.
func Validate(gs *board.GameState, from, to geom.Position) error {
	if !gs.InBounds(from) || !gs.InBounds(to) {
		return fmt.Errorf("swap: position out of range: %w", errs.ErrInvalidPosition)
	}
	if !from.IsAdjacent(to) {
		return fmt.Errorf("swap: %s and %s are not adjacent: %w", from, to, errs.ErrInvalidSwap)
	}
	a, _ := gs.TileAt(from)
	b, _ := gs.TileAt(to)
	if a.Empty() || b.Empty() {
		return fmt.Errorf("swap: empty cell involved: %w", errs.ErrInvalidSwap)
	}
	if a.IsFalling || b.IsFalling {
		return fmt.Errorf("swap: tile still falling: %w", errs.ErrInvalidSwap)
	}
	coverA, _ := gs.CoverAt(from)
	coverB, _ := gs.CoverAt(to)
	if coverA.Present() && coverA.Type.BlocksSwap() {
		return fmt.Errorf("swap: %s is blocked by a cover: %w", from, errs.ErrInvalidSwap)
	}
	if coverB.Present() && coverB.Type.BlocksSwap() {
		return fmt.Errorf("swap: %s is blocked by a cover: %w", to, errs.ErrInvalidSwap)
	}
	return nil
}

// Apply exchanges the tiles (and any dynamic cover riding them) at from
// and to. Caller must have already called Validate.
func Apply(gs *board.GameState, from, to geom.Position) error {
	a, err := gs.TileAt(from)
	if err != nil {
		return err
	}
	b, err := gs.TileAt(to)
	if err != nil {
		return err
	}
	coverA, _ := gs.CoverAt(from)
	coverB, _ := gs.CoverAt(to)

	a.GridPos, b.GridPos = to, from
	if err := gs.SetTile(to, a); err != nil {
		return err
	}
	if err := gs.SetTile(from, b); err != nil {
		return err
	}
	if coverA.IsDynamic {
		if err := gs.SetCover(to, coverA); err != nil {
			return err
		}
	}
	if coverB.IsDynamic {
		if err := gs.SetCover(from, coverB); err != nil {
			return err
		}
	}
	return nil
}

// Resolves reports whether a just-applied swap at from/to should commit
// (a match exists touching either cell, or either tile carries a bomb,
// per spec §4.10 revert rule) versus revert.
func Resolves(gs *board.GameState, from, to geom.Position) bool {
	a, _ := gs.TileAt(from)
	b, _ := gs.TileAt(to)
	if a.Bomb != board.BombNone || b.Bomb != board.BombNone {
		return true
	}
	return match.HasMatchAt(gs, from) || match.HasMatchAt(gs, to)
}

// Revert swaps from and to back, undoing Apply. Used when Resolves
// reports false.
func Revert(gs *board.GameState, from, to geom.Position) error {
	return Apply(gs, from, to)
}

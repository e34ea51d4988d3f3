package swap_test

import (
	"errors"
	"testing"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/errs"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/swap"
)

func gridBoard(t *testing.T, colors [][]board.TileType) *board.GameState {
	t.Helper()
	h := len(colors)
	w := len(colors[0])
	gs := board.NewGameState(w, h, 6, 1)
	for y, row := range colors {
		for x, c := range row {
			if _, err := gs.SpawnTile(geom.Pos(x, y), c); err != nil {
				t.Fatalf("spawn: %v", err)
			}
		}
	}
	return gs
}

func TestValidate_RejectsNonAdjacent(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen, board.TileBlue}})
	err := swap.Validate(gs, geom.Pos(0, 0), geom.Pos(2, 0))
	if !errors.Is(err, errs.ErrInvalidSwap) {
		t.Fatalf("expected ErrInvalidSwap, got %v", err)
	}
}

func TestValidate_RejectsOutOfBounds(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen}})
	err := swap.Validate(gs, geom.Pos(0, 0), geom.Pos(5, 0))
	if !errors.Is(err, errs.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestValidate_RejectsEmptyCell(t *testing.T) {
	gs := board.NewGameState(2, 1, 6, 1)
	if _, err := gs.SpawnTile(geom.Pos(0, 0), board.TileRed); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	err := swap.Validate(gs, geom.Pos(0, 0), geom.Pos(1, 0))
	if !errors.Is(err, errs.ErrInvalidSwap) {
		t.Fatalf("expected ErrInvalidSwap for a swap touching an empty cell, got %v", err)
	}
}

func TestValidate_RejectsCoverBlocked(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen}})
	if err := gs.SetCover(geom.Pos(1, 0), board.Cover{Type: board.CoverChain, Health: 1}); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	err := swap.Validate(gs, geom.Pos(0, 0), geom.Pos(1, 0))
	if !errors.Is(err, errs.ErrInvalidSwap) {
		t.Fatalf("expected a Chain-covered cell to block the swap, got %v", err)
	}
}

func TestValidate_AcceptsLegalAdjacentSwap(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen}})
	if err := swap.Validate(gs, geom.Pos(0, 0), geom.Pos(1, 0)); err != nil {
		t.Fatalf("expected a legal swap to validate, got %v", err)
	}
}

func TestApply_ExchangesTiles(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen}})
	from, to := geom.Pos(0, 0), geom.Pos(1, 0)
	if err := swap.Apply(gs, from, to); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if gs.MustTileAt(from).Type != board.TileGreen || gs.MustTileAt(to).Type != board.TileRed {
		t.Fatalf("tiles not exchanged: from=%v to=%v", gs.MustTileAt(from).Type, gs.MustTileAt(to).Type)
	}
}

func TestApplyThenRevert_RestoresOriginalState(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen}})
	from, to := geom.Pos(0, 0), geom.Pos(1, 0)
	if err := swap.Apply(gs, from, to); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := swap.Revert(gs, from, to); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if gs.MustTileAt(from).Type != board.TileRed || gs.MustTileAt(to).Type != board.TileGreen {
		t.Fatalf("revert did not restore original colors: from=%v to=%v", gs.MustTileAt(from).Type, gs.MustTileAt(to).Type)
	}
}

func TestResolves_TrueWhenSwapProducesMatch(t *testing.T) {
	// R R B G -> swap (2,0)/(3,0) so the blue moves out and green in,
	// producing no match; instead swap to complete a 3-run directly.
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileRed, board.TileGreen, board.TileRed}})
	from, to := geom.Pos(2, 0), geom.Pos(3, 0)
	if err := swap.Apply(gs, from, to); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !swap.Resolves(gs, from, to) {
		t.Fatal("expected the swap completing a 3-run to resolve")
	}
}

func TestResolves_FalseWhenNoMatchAndNoBomb(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen, board.TileBlue, board.TileYellow}})
	from, to := geom.Pos(1, 0), geom.Pos(2, 0)
	if err := swap.Apply(gs, from, to); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if swap.Resolves(gs, from, to) {
		t.Fatal("expected a swap with no resulting match and no bomb to not resolve")
	}
}

func TestResolves_TrueWhenEitherTileCarriesABomb(t *testing.T) {
	gs := gridBoard(t, [][]board.TileType{{board.TileRed, board.TileGreen, board.TileBlue, board.TileYellow}})
	from, to := geom.Pos(1, 0), geom.Pos(2, 0)
	tile := gs.MustTileAt(from)
	tile.Bomb = board.BombHorizontal
	if err := gs.SetTile(from, tile); err != nil {
		t.Fatalf("set tile: %v", err)
	}
	if err := swap.Apply(gs, from, to); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !swap.Resolves(gs, from, to) {
		t.Fatal("expected a bomb-carrying swap to resolve regardless of matches")
	}
}

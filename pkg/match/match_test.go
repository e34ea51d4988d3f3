package match_test

import (
	"testing"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/match"
)

// solidBoard builds a width x height board where every cell holds a tile
// of the given color.
func solidBoard(t *testing.T, width, height int, fill func(p geom.Position) board.TileType) *board.GameState {
	t.Helper()
	gs := board.NewGameState(width, height, 6, 1)
	gs.ForEachCell(func(p geom.Position) {
		if _, err := gs.SpawnTile(p, fill(p)); err != nil {
			t.Fatalf("spawn at %s: %v", p, err)
		}
	})
	return gs
}

func TestHasMatchAt_HorizontalRunOfThree(t *testing.T) {
	gs := solidBoard(t, 5, 1, func(p geom.Position) board.TileType {
		if p.X >= 1 && p.X <= 3 {
			return board.TileRed
		}
		return board.TileBlue
	})
	if !match.HasMatchAt(gs, geom.Pos(2, 0)) {
		t.Fatal("expected a match at the center of a 3-run")
	}
	if match.HasMatchAt(gs, geom.Pos(0, 0)) {
		t.Fatal("expected no match for an isolated tile")
	}
}

func TestHasMatchAt_RainbowActsAsWildcard(t *testing.T) {
	gs := solidBoard(t, 3, 1, func(p geom.Position) board.TileType {
		if p.X == 1 {
			return board.TileRainbow
		}
		return board.TileGreen
	})
	if !match.HasMatchAt(gs, geom.Pos(1, 0)) {
		t.Fatal("expected Rainbow to bridge a run of concrete-colored neighbors")
	}
}

func TestHasMatchAt_CageBlocksMatch(t *testing.T) {
	gs := solidBoard(t, 3, 1, func(geom.Position) board.TileType { return board.TileRed })
	if err := gs.SetCover(geom.Pos(1, 0), board.Cover{Type: board.CoverCage, Health: 1}); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	if match.HasMatchAt(gs, geom.Pos(1, 0)) {
		t.Fatal("a cell under a Cage cover must not be match-eligible")
	}
}

func TestFindComponents_SplitsByColorAndAdjacency(t *testing.T) {
	// R R B
	// R B B
	gs := board.NewGameState(3, 2, 6, 1)
	colors := [][]board.TileType{
		{board.TileRed, board.TileRed, board.TileBlue},
		{board.TileRed, board.TileBlue, board.TileBlue},
	}
	for y, row := range colors {
		for x, c := range row {
			if _, err := gs.SpawnTile(geom.Pos(x, y), c); err != nil {
				t.Fatalf("spawn: %v", err)
			}
		}
	}

	components := match.FindComponents(gs)
	if len(components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(components))
	}
	sizes := map[board.TileType]int{}
	for _, c := range components {
		sizes[c.Type] += len(c.Positions)
	}
	if sizes[board.TileRed] != 3 || sizes[board.TileBlue] != 3 {
		t.Fatalf("expected 3 red + 3 blue cells, got %v", sizes)
	}
}

func TestFindComponents_SkipsEmptyCells(t *testing.T) {
	gs := board.NewGameState(2, 1, 6, 1)
	if _, err := gs.SpawnTile(geom.Pos(0, 0), board.TileRed); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	// cell (1,0) stays empty (TileNone).

	components := match.FindComponents(gs)
	if len(components) != 1 || len(components[0].Positions) != 1 {
		t.Fatalf("expected a single 1-cell component, got %+v", components)
	}
}

package board_test

import (
	"errors"
	"testing"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/errs"
	"github.com/dshills/match3sim/pkg/geom"
)

func TestNewGameState_StartsWithEmptyTiles(t *testing.T) {
	gs := board.NewGameState(3, 2, 5, 99)
	if gs.Width != 3 || gs.Height != 2 {
		t.Fatalf("unexpected dimensions: %dx%d", gs.Width, gs.Height)
	}
	gs.ForEachCell(func(p geom.Position) {
		if !gs.MustTileAt(p).Empty() {
			t.Fatalf("expected cell %s empty on a fresh board", p)
		}
	})
}

func TestSpawnTile_AssignsMonotonicIDs(t *testing.T) {
	gs := board.NewGameState(2, 1, 5, 1)
	a, err := gs.SpawnTile(geom.Pos(0, 0), board.TileRed)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	b, err := gs.SpawnTile(geom.Pos(1, 0), board.TileGreen)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("expected strictly increasing tile IDs, got a=%d b=%d", a.ID, b.ID)
	}
}

func TestSpawnTile_OutOfBoundsErrors(t *testing.T) {
	gs := board.NewGameState(2, 2, 5, 1)
	_, err := gs.SpawnTile(geom.Pos(5, 5), board.TileRed)
	if !errors.Is(err, errs.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestSetCover_ForcesIsDynamicFromType(t *testing.T) {
	gs := board.NewGameState(1, 1, 5, 1)
	// Caller passes IsDynamic=true for a type that isn't dynamic; SetCover
	// must override it.
	if err := gs.SetCover(geom.Pos(0, 0), board.Cover{Type: board.CoverCage, Health: 1, IsDynamic: true}); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	c := gs.MustCoverAt(geom.Pos(0, 0))
	if c.IsDynamic {
		t.Fatal("expected IsDynamic forced false for a non-dynamic cover type")
	}

	if err := gs.SetCover(geom.Pos(0, 0), board.Cover{Type: board.CoverBubble, Health: 1, IsDynamic: false}); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	c = gs.MustCoverAt(geom.Pos(0, 0))
	if !c.IsDynamic {
		t.Fatal("expected IsDynamic forced true for Bubble")
	}
}

func TestDamageCover_ClearsAtZeroHealth(t *testing.T) {
	gs := board.NewGameState(1, 1, 5, 1)
	if err := gs.SetCover(geom.Pos(0, 0), board.Cover{Type: board.CoverChain, Health: 2}); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	destroyed, err := gs.DamageCover(geom.Pos(0, 0))
	if err != nil {
		t.Fatalf("damage: %v", err)
	}
	if destroyed {
		t.Fatal("expected cover to survive its first hit at health 2")
	}
	destroyed, err = gs.DamageCover(geom.Pos(0, 0))
	if err != nil {
		t.Fatalf("damage: %v", err)
	}
	if !destroyed {
		t.Fatal("expected cover destroyed after its second hit")
	}
	if gs.MustCoverAt(geom.Pos(0, 0)).Present() {
		t.Fatal("expected cover absent after destruction")
	}
}

func TestDamageCover_NoOpOnAbsentCover(t *testing.T) {
	gs := board.NewGameState(1, 1, 5, 1)
	destroyed, err := gs.DamageCover(geom.Pos(0, 0))
	if err != nil {
		t.Fatalf("damage: %v", err)
	}
	if destroyed {
		t.Fatal("expected false when no cover was present")
	}
}

func TestMoveDynamicCover_TransfersBubbleButNotCage(t *testing.T) {
	gs := board.NewGameState(2, 1, 5, 1)
	if err := gs.SetCover(geom.Pos(0, 0), board.Cover{Type: board.CoverBubble, Health: 1}); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	if err := gs.MoveDynamicCover(geom.Pos(0, 0), geom.Pos(1, 0)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if gs.MustCoverAt(geom.Pos(0, 0)).Present() {
		t.Fatal("expected source cell cleared after moving a dynamic cover")
	}
	if !gs.MustCoverAt(geom.Pos(1, 0)).Present() {
		t.Fatal("expected destination cell to receive the Bubble cover")
	}
}

func TestClone_IsFullyIndependent(t *testing.T) {
	gs := board.NewGameState(2, 1, 5, 7)
	if _, err := gs.SpawnTile(geom.Pos(0, 0), board.TileRed); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	clone := gs.Clone()

	if _, err := clone.SpawnTile(geom.Pos(1, 0), board.TileBlue); err != nil {
		t.Fatalf("spawn on clone: %v", err)
	}
	if !gs.MustTileAt(geom.Pos(1, 0)).Empty() {
		t.Fatal("mutating the clone must not affect the original")
	}

	// Draw from each RNG independently; identical seeds must produce
	// identical first draws since Clone copies RNG state by value.
	a := gs.RNG.NextU32(1000)
	b := clone.RNG.NextU32(1000)
	if a != b {
		t.Fatalf("expected cloned RNG to reproduce the same draw, got %d vs %d", a, b)
	}
}

func TestColorCounts_ExcludesNoneAndRainbow(t *testing.T) {
	gs := board.NewGameState(3, 1, 6, 1)
	if _, err := gs.SpawnTile(geom.Pos(0, 0), board.TileRed); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := gs.SpawnTile(geom.Pos(1, 0), board.TileRainbow); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	// (2,0) stays empty (TileNone).

	counts := gs.ColorCounts()
	if counts[board.TileRed] != 1 {
		t.Fatalf("expected 1 Red, got %d", counts[board.TileRed])
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 1 {
		t.Fatalf("expected Rainbow and None excluded from counts, total=%d", total)
	}
}

package snapshot_test

import (
	"bytes"
	"testing"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/snapshot"
)

func richBoard(t *testing.T) *board.GameState {
	t.Helper()
	gs := board.NewGameState(3, 2, 6, 123)
	gs.Score = 450
	gs.MoveCount = 3
	gs.MoveLimit = 20
	gs.Objectives[0] = board.ObjectiveProgress{
		TargetLayer: board.ElementTile, ElementType: int(board.TileRed),
		TargetCount: 10, CurrentCount: 4, Active: true,
	}
	sel := geom.Pos(1, 0)
	gs.SelectedAt = &sel

	colors := []board.TileType{board.TileRed, board.TileGreen, board.TileBlue, board.TileYellow, board.TileNone, board.TileRed}
	i := 0
	gs.ForEachCell(func(p geom.Position) {
		if colors[i] != board.TileNone {
			if _, err := gs.SpawnTile(p, colors[i]); err != nil {
				t.Fatalf("spawn: %v", err)
			}
		}
		i++
	})
	tile := gs.MustTileAt(geom.Pos(0, 0))
	tile.Bomb = board.BombVertical
	if err := gs.SetTile(geom.Pos(0, 0), tile); err != nil {
		t.Fatalf("set tile: %v", err)
	}
	if err := gs.SetCover(geom.Pos(2, 0), board.Cover{Type: board.CoverCage, Health: 2}); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	if err := gs.SetGround(geom.Pos(0, 1), board.Ground{Type: board.GroundIce, Health: 1}); err != nil {
		t.Fatalf("set ground: %v", err)
	}
	// Draw from the RNG so Seed != current state, exercising state
	// round-tripping rather than just the seed.
	gs.RNG.NextU32(100)
	return gs
}

func TestEncodeDecode_RoundTripsEveryField(t *testing.T) {
	gs := richBoard(t)
	data, err := snapshot.Encode(gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := snapshot.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Width != gs.Width || decoded.Height != gs.Height {
		t.Fatalf("dimensions mismatch: got %dx%d want %dx%d", decoded.Width, decoded.Height, gs.Width, gs.Height)
	}
	if decoded.Seed != gs.Seed || decoded.Score != gs.Score || decoded.MoveCount != gs.MoveCount {
		t.Fatal("scalar fields did not round-trip")
	}
	if decoded.RNG.GetState() != gs.RNG.GetState() {
		t.Fatal("RNG state did not round-trip exactly")
	}
	if decoded.SelectedAt == nil || *decoded.SelectedAt != *gs.SelectedAt {
		t.Fatal("SelectedAt did not round-trip")
	}
	if decoded.Objectives[0] != gs.Objectives[0] {
		t.Fatalf("objective 0 mismatch: got %+v want %+v", decoded.Objectives[0], gs.Objectives[0])
	}

	gs.ForEachCell(func(p geom.Position) {
		want := gs.MustTileAt(p)
		got := decoded.MustTileAt(p)
		if got.ID != want.ID || got.Type != want.Type || got.Bomb != want.Bomb {
			t.Fatalf("tile at %s mismatch: got %+v want %+v", p, got, want)
		}
		if decoded.MustCoverAt(p) != gs.MustCoverAt(p) {
			t.Fatalf("cover at %s mismatch", p)
		}
		if decoded.MustGroundAt(p) != gs.MustGroundAt(p) {
			t.Fatalf("ground at %s mismatch", p)
		}
	})
}

func TestEncode_StartsWithTheMagicBytes(t *testing.T) {
	gs := board.NewGameState(1, 1, 6, 1)
	data, err := snapshot.Encode(gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, snapshot.Magic[:]) {
		t.Fatal("expected the blob to start with the M3CF magic")
	}
}

func TestDecode_RejectsBadMagic(t *testing.T) {
	gs := board.NewGameState(1, 1, 6, 1)
	data, err := snapshot.Encode(gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	corrupt := append([]byte(nil), data...)
	corrupt[0] = 'X'
	if _, err := snapshot.Decode(corrupt); err == nil {
		t.Fatal("expected an error for a corrupted magic")
	}
}

func TestDecode_RejectsTruncatedData(t *testing.T) {
	gs := richBoard(t)
	data, err := snapshot.Encode(gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := snapshot.Decode(data[:len(data)/2]); err == nil {
		t.Fatal("expected an error for truncated data")
	}
}

func TestDecode_RejectsWrongVersion(t *testing.T) {
	gs := board.NewGameState(1, 1, 6, 1)
	data, err := snapshot.Encode(gs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	corrupt := append([]byte(nil), data...)
	// Version is the 4 bytes immediately after the 4-byte magic, big-endian.
	corrupt[7] = 99
	if _, err := snapshot.Decode(corrupt); err == nil {
		t.Fatal("expected an error for an unsupported format version")
	}
}

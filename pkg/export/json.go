package export

import (
	"encoding/json"
	"os"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
)

// BoardDump is a JSON-friendly projection of a GameState: the struct
// itself keeps its tile/cover/ground arrays unexported, so every export
// format walks the board through ForEachCell the same way.
type BoardDump struct {
	Width, Height int
	Seed          uint64
	Score         int64
	MoveCount     int
	MoveLimit     int
	Status        string
	Cells         []CellDump
}

// CellDump is one occupied cell's tile/cover/ground state, by name rather
// than raw tagged-variant int so the JSON is readable without the enum
// tables.
type CellDump struct {
	X, Y   int
	Tile   string
	Bomb   string
	Cover  string
	Ground string
}

// DumpBoard projects gs into a BoardDump, skipping empty cells.
func DumpBoard(gs *board.GameState) BoardDump {
	dump := BoardDump{
		Width: gs.Width, Height: gs.Height, Seed: gs.Seed,
		Score: gs.Score, MoveCount: gs.MoveCount, MoveLimit: gs.MoveLimit,
		Status: gs.Status.String(),
	}
	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		c := gs.MustCoverAt(p)
		g := gs.MustGroundAt(p)
		if t.Empty() && !c.Present() && !g.Present() {
			return
		}
		dump.Cells = append(dump.Cells, CellDump{
			X: p.X, Y: p.Y,
			Tile: t.Type.String(), Bomb: t.Bomb.String(),
			Cover: c.Type.String(), Ground: g.Type.String(),
		})
	})
	return dump
}

// ExportJSON serializes gs's board state to JSON with indentation.
func ExportJSON(gs *board.GameState) ([]byte, error) {
	return json.MarshalIndent(DumpBoard(gs), "", "  ")
}

// ExportJSONCompact serializes gs's board state to JSON without
// indentation, suitable for storage or transmission.
func ExportJSONCompact(gs *board.GameState) ([]byte, error) {
	return json.Marshal(DumpBoard(gs))
}

// SaveJSONToFile exports gs to an indented JSON file (0644 permissions).
func SaveJSONToFile(gs *board.GameState, filepath string) error {
	data, err := ExportJSON(gs)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// SaveJSONCompactToFile exports gs to a compact JSON file (0644
// permissions).
func SaveJSONCompactToFile(gs *board.GameState, filepath string) error {
	data, err := ExportJSONCompact(gs)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

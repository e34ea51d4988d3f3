// Package snapshot implements the binary session snapshot format (spec
// §6): a "M3CF" magic-tagged, versioned binary encoding of a full
// GameState with no length prefix (the board's width and height fix the
// body's size), adapted from the network package's [4-byte length][body]
// framing idiom in the example pack, using encoding/binary instead of
// JSON since a snapshot must round-trip RNG state and tile IDs exactly
// as fixed-width integers rather than through a text format.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/errs"
	"github.com/dshills/match3sim/pkg/geom"
)

// Magic identifies a match3sim snapshot blob.
var Magic = [4]byte{'M', '3', 'C', 'F'}

// FormatVersion is bumped whenever the wire layout changes incompatibly.
// v2 adds TargetDifficulty, carried so a restored session's spawn model
// sees the same ctx.target_difficulty the original run configured.
const FormatVersion = 2

// Encode serializes gs into the M3CF binary format: magic, version, then
// every field of GameState in a fixed order.
func Encode(gs *board.GameState) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	writeU32(&buf, FormatVersion)

	writeU32(&buf, uint32(gs.Width))
	writeU32(&buf, uint32(gs.Height))
	writeU32(&buf, uint32(gs.TileTypesCount))
	writeU64(&buf, gs.Seed)
	writeU64(&buf, gs.RNG.GetState())
	writeI64(&buf, gs.Score)
	writeU32(&buf, uint32(gs.MoveCount))
	writeU32(&buf, uint32(gs.MoveLimit))
	writeU32(&buf, uint32(gs.Status))
	writeU64(&buf, gs.NextTileID)
	writeF64(&buf, gs.TargetDifficulty)

	if gs.SelectedAt != nil {
		buf.WriteByte(1)
		writeU32(&buf, uint32(gs.SelectedAt.X))
		writeU32(&buf, uint32(gs.SelectedAt.Y))
	} else {
		buf.WriteByte(0)
	}

	for i := 0; i < board.MaxObjectives; i++ {
		o := gs.Objectives[i]
		writeU32(&buf, uint32(o.TargetLayer))
		writeI32(&buf, int32(o.ElementType))
		writeU32(&buf, uint32(o.TargetCount))
		writeU32(&buf, uint32(o.CurrentCount))
		writeBool(&buf, o.Active)
		writeBool(&buf, o.Completed)
	}

	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		writeU64(&buf, t.ID)
		writeU32(&buf, uint32(t.Type))
		writeU32(&buf, uint32(t.Bomb))

		c := gs.MustCoverAt(p)
		writeU32(&buf, uint32(c.Type))
		buf.WriteByte(c.Health)

		g := gs.MustGroundAt(p)
		writeU32(&buf, uint32(g.Type))
		buf.WriteByte(g.Health)
	})

	return buf.Bytes(), nil
}

// Decode parses an M3CF blob into a fresh GameState. Returns
// errs.ErrInvalidData (wrapped) if the magic, version, or length of data
// is inconsistent with the declared board dimensions.
func Decode(data []byte) (*board.GameState, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != Magic {
		return nil, fmt.Errorf("snapshot: bad magic: %w", errs.ErrInvalidData)
	}
	version, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading version: %w", errs.ErrInvalidData)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("snapshot: unsupported version %d: %w", version, errs.ErrInvalidData)
	}

	width, err1 := readU32(r)
	height, err2 := readU32(r)
	tileTypes, err3 := readU32(r)
	seed, err4 := readU64(r)
	rngState, err5 := readU64(r)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return nil, fmt.Errorf("snapshot: reading header: %w", errs.ErrInvalidData)
	}

	gs := board.NewGameState(int(width), int(height), int(tileTypes), seed)
	gs.RNG.SetState(rngState)

	score, err1 := readI64(r)
	moveCount, err2 := readU32(r)
	moveLimit, err3 := readU32(r)
	status, err4 := readU32(r)
	nextTileID, err5 := readU64(r)
	targetDifficulty, err6 := readF64(r)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
		return nil, fmt.Errorf("snapshot: reading scalars: %w", errs.ErrInvalidData)
	}
	gs.Score = score
	gs.MoveCount = int(moveCount)
	gs.MoveLimit = int(moveLimit)
	gs.Status = board.LevelStatus(status)
	gs.NextTileID = nextTileID
	gs.TargetDifficulty = targetDifficulty

	hasSelection, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading selection flag: %w", errs.ErrInvalidData)
	}
	if hasSelection == 1 {
		x, errx := readU32(r)
		y, erry := readU32(r)
		if errx != nil || erry != nil {
			return nil, fmt.Errorf("snapshot: reading selection: %w", errs.ErrInvalidData)
		}
		p := geom.Pos(int(x), int(y))
		gs.SelectedAt = &p
	}

	for i := 0; i < board.MaxObjectives; i++ {
		layer, e1 := readU32(r)
		elemType, e2 := readI32(r)
		target, e3 := readU32(r)
		current, e4 := readU32(r)
		active, e5 := r.ReadByte()
		completed, e6 := r.ReadByte()
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || e6 != nil {
			return nil, fmt.Errorf("snapshot: reading objective %d: %w", i, errs.ErrInvalidData)
		}
		gs.Objectives[i] = board.ObjectiveProgress{
			TargetLayer:  board.ElementKind(layer),
			ElementType:  int(elemType),
			TargetCount:  int(target),
			CurrentCount: int(current),
			Active:       active == 1,
			Completed:    completed == 1,
		}
	}

	var decodeErr error
	gs.ForEachCell(func(p geom.Position) {
		if decodeErr != nil {
			return
		}
		id, e1 := readU64(r)
		tileType, e2 := readU32(r)
		bombType, e3 := readU32(r)
		coverType, e4 := readU32(r)
		coverHealth, e5 := r.ReadByte()
		groundType, e6 := readU32(r)
		groundHealth, e7 := r.ReadByte()
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || e6 != nil || e7 != nil {
			decodeErr = fmt.Errorf("snapshot: reading cell %s: %w", p, errs.ErrInvalidData)
			return
		}
		_ = gs.SetTile(p, board.Tile{ID: id, Type: board.TileType(tileType), Bomb: board.BombType(bombType), GridPos: p})
		_ = gs.SetCover(p, board.Cover{Type: board.CoverType(coverType), Health: coverHealth})
		_ = gs.SetGround(p, board.Ground{Type: board.GroundType(groundType), Health: groundHealth})
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return gs, nil
}

func writeU32(buf *bytes.Buffer, v uint32) { _ = binary.Write(buf, binary.BigEndian, v) }
func writeI32(buf *bytes.Buffer, v int32)  { _ = binary.Write(buf, binary.BigEndian, v) }
func writeU64(buf *bytes.Buffer, v uint64) { _ = binary.Write(buf, binary.BigEndian, v) }
func writeI64(buf *bytes.Buffer, v int64)  { _ = binary.Write(buf, binary.BigEndian, v) }
func writeF64(buf *bytes.Buffer, v float64) { _ = binary.Write(buf, binary.BigEndian, v) }
func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}
func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}
func readU64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}
func readI64(r io.Reader) (int64, error) {
	var v int64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}
func readF64(r io.Reader) (float64, error) {
	var v float64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

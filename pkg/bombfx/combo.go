package bombfx

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// Combo computes the combined effect of swapping two bomb-carrying tiles
// into each other's cell, per spec §4.7.1. Both bombs fire as one
// coordinated wave sequence instead of two independent detonations; the
// pair-specific rule decides the combined geometry. primaryColor names
// the color a Color-bomb side of the combo should target, chosen by the
// caller as the other tile's color (or, for a Color+Color combo, ignored
// entirely since the whole board clears).
func Combo(gs *board.GameState, a, b board.BombType, origin geom.Position, primaryColor board.TileType, rnd *rng.RNG) []Wave {
	// Canonicalize so (a,b) and (b,a) take the same branch.
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}

	switch {
	case isLine(lo) && isLine(hi):
		return crossWaves(gs, origin)
	case isLine(lo) && hi == board.BombSquare5x5:
		return thickCrossWaves(gs, origin)
	case lo == board.BombSquare5x5 && hi == board.BombSquare5x5:
		return squareWaves(gs, origin, 4)
	case isLine(lo) && hi == board.BombColor:
		return lineColorWaves(gs, origin, primaryColor)
	case lo == board.BombColor && hi == board.BombSquare5x5:
		return squareColorWaves(gs, origin, primaryColor)
	case lo == board.BombUfo && hi == board.BombUfo:
		return ufoWaves(gs, board.TileNone, DefaultUfoTargetCount*2, rnd)
	case isLine(lo) && hi == board.BombUfo, lo == board.BombSquare5x5 && hi == board.BombUfo:
		return ufoLineOrSquareWaves(gs, lo, hi, rnd)
	case lo == board.BombUfo && hi == board.BombColor:
		return colorWaves(gs, origin, primaryColor) // UFO rides the color clear, same footprint
	case lo == board.BombColor && hi == board.BombColor:
		return wholeBoardWaves(gs)
	default:
		return nil
	}
}

func isLine(b board.BombType) bool {
	return b == board.BombHorizontal || b == board.BombVertical
}

func crossWaves(gs *board.GameState, origin geom.Position) []Wave {
	byWave := make(map[int][]geom.Position)
	gs.ForEachCell(func(p geom.Position) {
		if p.X != origin.X && p.Y != origin.Y {
			return
		}
		idx := abs(p.X-origin.X) + abs(p.Y-origin.Y)
		byWave[idx] = append(byWave[idx], p)
	})
	return packWaves(byWave)
}

// thickCrossWaves destroys the 3-wide row and 3-wide column through
// origin: a Line+Square5x5 combo.
func thickCrossWaves(gs *board.GameState, origin geom.Position) []Wave {
	byWave := make(map[int][]geom.Position)
	gs.ForEachCell(func(p geom.Position) {
		dx, dy := abs(p.X-origin.X), abs(p.Y-origin.Y)
		inRow := dy <= 1
		inCol := dx <= 1
		if !inRow && !inCol {
			return
		}
		byWave[dx+dy] = append(byWave[dx+dy], p)
	})
	return packWaves(byWave)
}

func lineColorWaves(gs *board.GameState, origin geom.Position, target board.TileType) []Wave {
	// Every tile of target color detonates as if it carried the line
	// bomb's orientation: the line+color combo converts the whole color
	// group into simultaneous row/column clears.
	byWave := make(map[int][]geom.Position)
	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		if t.Empty() || t.Type != target {
			return
		}
		idx := p.ChebyshevDistance(origin)
		for x := 0; x < gs.Width; x++ {
			byWave[idx] = append(byWave[idx], geom.Pos(x, p.Y))
		}
		for y := 0; y < gs.Height; y++ {
			byWave[idx] = append(byWave[idx], geom.Pos(p.X, y))
		}
	})
	return packWaves(byWave)
}

func squareColorWaves(gs *board.GameState, origin geom.Position, target board.TileType) []Wave {
	byWave := make(map[int][]geom.Position)
	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		if t.Empty() || t.Type != target {
			return
		}
		idx := p.ChebyshevDistance(origin)
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				n := p.Add(dx, dy)
				if gs.InBounds(n) {
					byWave[idx] = append(byWave[idx], n)
				}
			}
		}
	})
	return packWaves(byWave)
}

// ufoLineOrSquareWaves fires the UFO's weighted picks, each one
// detonating as the line/square bomb it was paired with instead of a
// single cell.
func ufoLineOrSquareWaves(gs *board.GameState, lo, hi board.BombType, rnd *rng.RNG) []Wave {
	picks := ufoWaves(gs, board.TileNone, DefaultUfoTargetCount, rnd)
	byWave := make(map[int][]geom.Position)
	for i, w := range picks {
		if len(w.Positions) == 0 {
			continue
		}
		p := w.Positions[0]
		switch {
		case isLine(lo) || isLine(hi):
			for x := 0; x < gs.Width; x++ {
				byWave[i] = append(byWave[i], geom.Pos(x, p.Y))
			}
			for y := 0; y < gs.Height; y++ {
				byWave[i] = append(byWave[i], geom.Pos(p.X, y))
			}
		default:
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					n := p.Add(dx, dy)
					if gs.InBounds(n) {
						byWave[i] = append(byWave[i], n)
					}
				}
			}
		}
	}
	return packWaves(byWave)
}

func wholeBoardWaves(gs *board.GameState) []Wave {
	var all []geom.Position
	gs.ForEachCell(func(p geom.Position) {
		if !gs.MustTileAt(p).Empty() {
			all = append(all, p)
		}
	})
	if len(all) == 0 {
		return nil
	}
	return []Wave{{Index: 0, Positions: all}}
}

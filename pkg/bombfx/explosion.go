// Package bombfx computes a triggered bomb's affected cells and the wave
// ordering the engine destroys them in (spec §4.7), plus the combined
// effect of swapping two bomb-carrying tiles together (spec §4.7.1).
package bombfx

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// DefaultUfoTargetCount is how many targets a UFO bomb fires at when the
// caller doesn't override it (spec §4.7: "N configurable, default 3").
const DefaultUfoTargetCount = 3

// Wave is one ring of cells an explosion destroys together; waves fire in
// increasing Index order so the renderer can animate an outward or
// directional sweep instead of a single instantaneous clear.
type Wave struct {
	Index     int
	Positions []geom.Position
}

// Explode computes the wave-ordered cell set a bomb of the given type
// destroys when triggered at origin. colorTarget names the tile color to
// clear for BombColor, and the origin's own color to exclude from
// targeting for BombUfo (spec §4.7: UFO never re-picks the color it just
// detonated from). ufoTargetCount is N for BombUfo; callers not
// overriding it per level should pass DefaultUfoTargetCount. rnd is only
// consulted for BombUfo; nil is only valid when the caller already knows
// no UFO bomb can be involved (e.g. a pure lookahead for adjacency, not
// detonation).
func Explode(gs *board.GameState, bombType board.BombType, origin geom.Position, colorTarget board.TileType, ufoTargetCount int, rnd *rng.RNG) []Wave {
	switch bombType {
	case board.BombHorizontal:
		return lineWaves(gs, origin, true)
	case board.BombVertical:
		return lineWaves(gs, origin, false)
	case board.BombSquare5x5:
		return squareWaves(gs, origin, 2)
	case board.BombUfo:
		return ufoWaves(gs, colorTarget, ufoTargetCount, rnd)
	case board.BombColor:
		return colorWaves(gs, origin, colorTarget)
	default:
		return nil
	}
}

func lineWaves(gs *board.GameState, origin geom.Position, horizontal bool) []Wave {
	byWave := make(map[int][]geom.Position)
	if horizontal {
		for x := 0; x < gs.Width; x++ {
			p := geom.Pos(x, origin.Y)
			idx := abs(x - origin.X)
			byWave[idx] = append(byWave[idx], p)
		}
	} else {
		for y := 0; y < gs.Height; y++ {
			p := geom.Pos(origin.X, y)
			idx := abs(y - origin.Y)
			byWave[idx] = append(byWave[idx], p)
		}
	}
	return packWaves(byWave)
}

func squareWaves(gs *board.GameState, origin geom.Position, radius int) []Wave {
	byWave := make(map[int][]geom.Position)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := origin.Add(dx, dy)
			if !gs.InBounds(p) {
				continue
			}
			idx := p.ChebyshevDistance(origin)
			byWave[idx] = append(byWave[idx], p)
		}
	}
	return packWaves(byWave)
}

func colorWaves(gs *board.GameState, origin geom.Position, target board.TileType) []Wave {
	byWave := make(map[int][]geom.Position)
	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		if t.Empty() || t.Type != target {
			return
		}
		idx := p.ChebyshevDistance(origin)
		byWave[idx] = append(byWave[idx], p)
	})
	return packWaves(byWave)
}

// ufoWaves picks up to n distinct occupied cells not carrying
// excludeColor, weighted toward scarce colors, and fires them one per
// wave in pick order (spec §4.7).
func ufoWaves(gs *board.GameState, excludeColor board.TileType, n int, rnd *rng.RNG) []Wave {
	pool, weights := ufoCandidates(gs, excludeColor)
	if len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	waves := make([]Wave, 0, n)
	for i := 0; i < n; i++ {
		j := pickIndex(weights, rnd)
		waves = append(waves, Wave{Index: i, Positions: []geom.Position{pool[j]}})
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
		weights[j] = weights[len(weights)-1]
		weights = weights[:len(weights)-1]
	}
	return waves
}

// ufoCandidates lists every occupied cell not carrying excludeColor,
// paired with a weight that favors colors scarce on the board (the same
// 100/(count+1) scarcity shape the spawn model's Balance rule uses).
func ufoCandidates(gs *board.GameState, excludeColor board.TileType) ([]geom.Position, []float64) {
	counts := gs.ColorCounts()
	var pool []geom.Position
	var weights []float64
	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		if t.Empty() || t.Type == excludeColor {
			return
		}
		pool = append(pool, p)
		weights = append(weights, 100.0/float64(counts[t.Type]+1))
	})
	return pool, weights
}

// pickIndex chooses an index into weights, falling back to the first
// entry when rnd is nil (a pure-adjacency lookahead that never actually
// detonates).
func pickIndex(weights []float64, rnd *rng.RNG) int {
	if rnd == nil {
		return 0
	}
	return rnd.WeightedChoice(weights)
}

func packWaves(byWave map[int][]geom.Position) []Wave {
	max := -1
	for idx := range byWave {
		if idx > max {
			max = idx
		}
	}
	waves := make([]Wave, 0, max+1)
	for i := 0; i <= max; i++ {
		if ps, ok := byWave[i]; ok {
			waves = append(waves, Wave{Index: i, Positions: ps})
		}
	}
	return waves
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AllPositions flattens a wave list into one slice, dropping ordering —
// used by callers that only need the final affected-cell set (objective
// accounting, deadlock resolution previews).
func AllPositions(waves []Wave) []geom.Position {
	var out []geom.Position
	for _, w := range waves {
		out = append(out, w.Positions...)
	}
	return out
}

package spawn

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// PredictStrategy implements the spec §4.8 predict contract: a diversity
// guard evaluated first, then a per-call dispatch among Help, Challenge,
// and Balance by ctx's documented thresholds. It is the sole registered
// strategy — there is nothing to pick among at construction time, since
// the whole point of the contract is that the choice is remade fresh on
// every spawn from live ctx, not fixed once for the engine's lifetime.
type PredictStrategy struct{}

func (PredictStrategy) Name() string { return "predict" }

func (PredictStrategy) NextColor(gs *board.GameState, cell geom.Position, ctx Ctx, rnd *rng.RNG) board.TileType {
	if c, ok := diversityGuard(gs); ok {
		return c
	}
	switch {
	case ctx.FailedAttempts >= 3 ||
		(ctx.RemainingMoves <= 3 && ctx.GoalProgress < 0.9) ||
		ctx.TargetDifficulty < 0.3:
		return helpColor(gs, cell, rnd)
	case (ctx.GoalProgress > 0.7 && ctx.RemainingMoves > 5) ||
		ctx.TargetDifficulty > 0.7:
		return challengeColor(gs, cell)
	default:
		return balanceColor(gs, rnd)
	}
}

// diversityGuard returns the board's rarest color and true when the most
// common color's count exceeds twice its fair share and the board holds
// at least one tile per color (spec §4.8's diversity guard, which
// overrides Help/Challenge/Balance outright when it fires).
func diversityGuard(gs *board.GameState) (board.TileType, bool) {
	counts := gs.ColorCounts()
	colorCount := len(board.PlainColors)

	total := 0
	mostCommon := board.PlainColors[0]
	rarest := board.PlainColors[0]
	for _, c := range board.PlainColors {
		n := counts[c]
		total += n
		if n > counts[mostCommon] {
			mostCommon = c
		}
		if n < counts[rarest] {
			rarest = c
		}
	}
	if total < colorCount {
		return board.TileNone, false
	}
	fairShare := float64(total) / float64(colorCount)
	if float64(counts[mostCommon]) > 2*fairShare {
		return rarest, true
	}
	return board.TileNone, false
}

// helpColor prefers a color that completes an immediate match at cell,
// else one that makes a 2-in-a-row, else a uniform draw (spec §4.8).
func helpColor(gs *board.GameState, cell geom.Position, rnd *rng.RNG) board.TileType {
	order := shuffledColors(rnd)
	for _, c := range order {
		if wouldMatchAt(gs, cell, c) {
			return c
		}
	}
	for _, c := range order {
		if wouldNearMatchAt(gs, cell, c) {
			return c
		}
	}
	return order[0]
}

// challengeColor picks the rarest color among those that would NOT
// create a match at cell, falling back to the rarest color overall if
// every color would match (spec §4.8).
func challengeColor(gs *board.GameState, cell geom.Position) board.TileType {
	counts := gs.ColorCounts()
	candidates := make([]board.TileType, 0, len(board.PlainColors))
	for _, c := range board.PlainColors {
		if !wouldMatchAt(gs, cell, c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		candidates = board.PlainColors
	}
	rarest := candidates[0]
	for _, c := range candidates {
		if counts[c] < counts[rarest] {
			rarest = c
		}
	}
	return rarest
}

// balanceColor draws a color weighted by 100/(count+1): scarce colors
// draw more often, common ones less, with no resampling against
// immediate matches (spec §4.8 — that guard belongs to the diversity
// check upstream, not to Balance itself).
func balanceColor(gs *board.GameState, rnd *rng.RNG) board.TileType {
	counts := gs.ColorCounts()
	weights := make([]float64, len(board.PlainColors))
	for i, c := range board.PlainColors {
		weights[i] = 100.0 / float64(counts[c]+1)
	}
	return board.PlainColors[rnd.WeightedChoice(weights)]
}

func shuffledColors(rnd *rng.RNG) []board.TileType {
	out := append([]board.TileType(nil), board.PlainColors...)
	for i := len(out) - 1; i > 0; i-- {
		j := int(rnd.NextU32(uint32(i + 1)))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

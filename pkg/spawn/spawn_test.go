package spawn_test

import (
	"testing"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
	"github.com/dshills/match3sim/pkg/spawn"
)

func TestLookup_ReturnsRegisteredPredictStrategy(t *testing.T) {
	s, err := spawn.Lookup("predict")
	if err != nil {
		t.Fatalf("Lookup(%q): %v", "predict", err)
	}
	if s.Name() != "predict" {
		t.Fatalf("Lookup(%q).Name() = %q", "predict", s.Name())
	}
}

func TestLookup_UnknownNameErrors(t *testing.T) {
	if _, err := spawn.Lookup("nonexistent"); err == nil {
		t.Fatal("expected an error for an unregistered strategy name")
	}
}

func TestRegister_PanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic on a duplicate name")
		}
	}()
	spawn.Register(spawn.PredictStrategy{})
}

// boardWithRunSetup returns a 3-wide board whose left two cells of row 0
// are Red, so a color guard can be exercised at the rightmost cell.
func boardWithRunSetup(t *testing.T) *board.GameState {
	t.Helper()
	gs := board.NewGameState(3, 1, 6, 1)
	if _, err := gs.SpawnTile(geom.Pos(0, 0), board.TileRed); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := gs.SpawnTile(geom.Pos(1, 0), board.TileRed); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	return gs
}

// balanceCtx is an ordinary mid-game ctx that trips none of the
// Help/Challenge thresholds, so predict falls through to Balance.
func balanceCtx() spawn.Ctx {
	return spawn.Ctx{TargetDifficulty: 0.5, RemainingMoves: 20, GoalProgress: 0.3}
}

func TestPredictStrategy_BalanceFavorsScarceColors(t *testing.T) {
	gs := boardWithRunSetup(t)
	rnd := rng.New(7)
	strat := spawn.PredictStrategy{}
	counts := map[board.TileType]int{}
	for i := 0; i < 300; i++ {
		counts[strat.NextColor(gs, geom.Pos(2, 0), balanceCtx(), rnd)]++
	}
	// Red already fills two cells, so its weight is 100/3 against 100 for
	// every absent color. Balance does not exclude a color that would
	// complete a run; it only draws it less often.
	for _, c := range board.PlainColors {
		if c != board.TileRed && counts[c] <= counts[board.TileRed] {
			t.Fatalf("balance drew %v %d times, no more often than the common Red (%d)", c, counts[c], counts[board.TileRed])
		}
	}
}

func TestPredictStrategy_HelpCompletesAnImmediateMatchWhenFailedAttemptsHigh(t *testing.T) {
	gs := boardWithRunSetup(t)
	rnd := rng.New(3)
	strat := spawn.PredictStrategy{}
	ctx := spawn.Ctx{TargetDifficulty: 0.5, RemainingMoves: 20, GoalProgress: 0.3, FailedAttempts: 3}
	if c := strat.NextColor(gs, geom.Pos(2, 0), ctx, rnd); c != board.TileRed {
		t.Fatalf("expected predict to complete the run with Red under the help threshold, got %v", c)
	}
}

func TestPredictStrategy_HelpFiresOnLowTargetDifficulty(t *testing.T) {
	gs := boardWithRunSetup(t)
	rnd := rng.New(3)
	strat := spawn.PredictStrategy{}
	ctx := spawn.Ctx{TargetDifficulty: 0.1, RemainingMoves: 20, GoalProgress: 0.3}
	if c := strat.NextColor(gs, geom.Pos(2, 0), ctx, rnd); c != board.TileRed {
		t.Fatalf("expected predict to complete the run with Red under a low target_difficulty, got %v", c)
	}
}

func TestPredictStrategy_ChallengeAvoidsTheMostCommonColor(t *testing.T) {
	gs := board.NewGameState(5, 2, 6, 1)
	// Red is the most common color (3 cells) vs. 2 Green, 2 Blue, 1 Yellow,
	// 1 Purple, 0 Orange. With 9 tiles the fair share is 1.5, and 3 is not
	// more than twice that, so the diversity guard stays out of the way and
	// the Challenge branch decides.
	grid := []board.TileType{
		board.TileRed, board.TileGreen, board.TileRed, board.TileBlue, board.TileGreen,
		board.TileRed, board.TileBlue, board.TileYellow, board.TilePurple, board.TileNone,
	}
	i := 0
	gs.ForEachCell(func(p geom.Position) {
		if grid[i] != board.TileNone {
			if _, err := gs.SpawnTile(p, grid[i]); err != nil {
				t.Fatalf("spawn: %v", err)
			}
		}
		i++
	})

	rnd := rng.New(11)
	strat := spawn.PredictStrategy{}
	target := geom.Pos(4, 1) // the empty cell, isolated from any run
	ctx := spawn.Ctx{TargetDifficulty: 0.9, RemainingMoves: 10, GoalProgress: 0.8}
	for i := 0; i < 20; i++ {
		c := strat.NextColor(gs, target, ctx, rnd)
		if c == board.TileRed {
			t.Fatalf("attempt %d: challenge branch drew the most common color Red", i)
		}
	}
}

func TestPredictStrategy_DiversityGuardOverridesEverything(t *testing.T) {
	// 5x3 = 15 cells, all 6 plain colors present, Red filling 10 of them:
	// fair share = 15/6 = 2.5, and Red's count (10) > 2*2.5, so the guard
	// must fire regardless of ctx.
	gs := board.NewGameState(5, 3, 6, 1)
	rest := []board.TileType{board.TileGreen, board.TileBlue, board.TileYellow, board.TilePurple, board.TileOrange}
	i := 0
	gs.ForEachCell(func(p geom.Position) {
		color := board.TileRed
		if i < len(rest) {
			color = rest[i]
		}
		if _, err := gs.SpawnTile(p, color); err != nil {
			t.Fatalf("spawn: %v", err)
		}
		i++
	})

	rnd := rng.New(1)
	strat := spawn.PredictStrategy{}
	// A ctx that would otherwise select Challenge, to prove the guard
	// runs first and wins.
	ctx := spawn.Ctx{TargetDifficulty: 0.9, RemainingMoves: 10, GoalProgress: 0.8}
	c := strat.NextColor(gs, geom.Pos(4, 2), ctx, rnd)
	if c == board.TileRed {
		t.Fatalf("diversity guard should never return the dominant color, got %v", c)
	}
}

package objective_test

import (
	"testing"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/objective"
)

func newBoard() *board.GameState {
	return board.NewGameState(3, 3, 6, 1)
}

func TestRecordDestruction_AdvancesMatchingActiveSlot(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{
		TargetLayer: board.ElementTile, ElementType: int(board.TileRed), TargetCount: 5, Active: true,
	}

	completed := objective.RecordDestruction(gs, board.ElementTile, int(board.TileRed), 3)
	if len(completed) != 0 {
		t.Fatalf("expected no completion at 3/5, got %v", completed)
	}
	if gs.Objectives[0].CurrentCount != 3 {
		t.Fatalf("expected count 3, got %d", gs.Objectives[0].CurrentCount)
	}
}

func TestRecordDestruction_CompletesAndClampsAtTarget(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{
		TargetLayer: board.ElementTile, ElementType: int(board.TileRed), TargetCount: 5, Active: true,
	}

	completed := objective.RecordDestruction(gs, board.ElementTile, int(board.TileRed), 9)
	if len(completed) != 1 || completed[0] != 0 {
		t.Fatalf("expected slot 0 to complete, got %v", completed)
	}
	if gs.Objectives[0].CurrentCount != 5 {
		t.Fatalf("expected count clamped to target 5, got %d", gs.Objectives[0].CurrentCount)
	}
	if !gs.Objectives[0].Completed {
		t.Fatal("expected slot marked Completed")
	}
}

func TestRecordDestruction_IgnoresInactiveAndWrongLayer(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{
		TargetLayer: board.ElementTile, ElementType: int(board.TileRed), TargetCount: 5, Active: false,
	}
	gs.Objectives[1] = board.ObjectiveProgress{
		TargetLayer: board.ElementCover, ElementType: int(board.TileRed), TargetCount: 5, Active: true,
	}

	completed := objective.RecordDestruction(gs, board.ElementTile, int(board.TileRed), 5)
	if len(completed) != 0 {
		t.Fatalf("expected no completions, got %v", completed)
	}
	if gs.Objectives[0].CurrentCount != 0 || gs.Objectives[1].CurrentCount != 0 {
		t.Fatal("expected inactive/mismatched-layer slots untouched")
	}
}

func TestRecordDestruction_AlreadyCompletedSlotIsSkipped(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{
		TargetLayer: board.ElementTile, ElementType: int(board.TileRed), TargetCount: 5,
		CurrentCount: 5, Active: true, Completed: true,
	}
	completed := objective.RecordDestruction(gs, board.ElementTile, int(board.TileRed), 3)
	if len(completed) != 0 {
		t.Fatalf("expected an already-completed slot to be skipped, got %v", completed)
	}
	if gs.Objectives[0].CurrentCount != 5 {
		t.Fatalf("expected count untouched at 5, got %d", gs.Objectives[0].CurrentCount)
	}
}

func TestAllCompleted_FalseWithNoActiveObjectives(t *testing.T) {
	gs := newBoard()
	if objective.AllCompleted(gs) {
		t.Fatal("a board with no active objectives must not report all-completed")
	}
}

func TestAllCompleted_TrueOnlyWhenEveryActiveSlotDone(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{Active: true, Completed: true}
	gs.Objectives[1] = board.ObjectiveProgress{Active: true, Completed: false}
	if objective.AllCompleted(gs) {
		t.Fatal("expected false while slot 1 is incomplete")
	}
	gs.Objectives[1].Completed = true
	if !objective.AllCompleted(gs) {
		t.Fatal("expected true once every active slot is complete")
	}
}

func TestEvaluate_VictoryWhenAllObjectivesComplete(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{Active: true, Completed: true}
	objective.Evaluate(gs)
	if gs.Status != board.StatusVictory {
		t.Fatalf("expected Victory, got %v", gs.Status)
	}
}

func TestEvaluate_DefeatWhenMoveBudgetExhausted(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{Active: true, Completed: false}
	gs.MoveLimit = 3
	gs.MoveCount = 3
	objective.Evaluate(gs)
	if gs.Status != board.StatusDefeat {
		t.Fatalf("expected Defeat, got %v", gs.Status)
	}
}

func TestEvaluate_NeverDowngradesTerminalStatus(t *testing.T) {
	gs := newBoard()
	gs.Status = board.StatusVictory
	gs.MoveLimit = 1
	gs.MoveCount = 5 // would be a Defeat condition if re-evaluated
	objective.Evaluate(gs)
	if gs.Status != board.StatusVictory {
		t.Fatalf("expected Evaluate to leave a terminal Victory status alone, got %v", gs.Status)
	}
}

func TestEvaluate_InProgressWhenNeitherConditionMet(t *testing.T) {
	gs := newBoard()
	gs.Objectives[0] = board.ObjectiveProgress{Active: true, Completed: false}
	gs.MoveLimit = 10
	gs.MoveCount = 2
	objective.Evaluate(gs)
	if gs.Status != board.StatusInProgress {
		t.Fatalf("expected InProgress, got %v", gs.Status)
	}
}

// Package objective implements the objective tracker (spec §4.11): up to
// 4 fixed slots on GameState, advanced by destruction events and
// evaluated into the level's overall Victory/Defeat status.
package objective

import "github.com/dshills/match3sim/pkg/board"

// RecordDestruction advances every active, non-completed objective slot
// that targets the given layer/element combination, by count. Returns
// the indices of slots that transitioned to Completed on this call, so
// the caller can emit KindObjectiveProgress events with IsCompleted set.
func RecordDestruction(gs *board.GameState, layer board.ElementKind, elementType int, count int) []int {
	var justCompleted []int
	for i := range gs.Objectives {
		o := &gs.Objectives[i]
		if !o.Active || o.Completed {
			continue
		}
		if o.TargetLayer != layer || o.ElementType != elementType {
			continue
		}
		o.CurrentCount += count
		if o.CurrentCount >= o.TargetCount {
			o.CurrentCount = o.TargetCount
			o.Completed = true
			justCompleted = append(justCompleted, i)
		}
	}
	return justCompleted
}

// AllCompleted reports whether every active objective slot is complete —
// the victory condition (spec §4.11).
func AllCompleted(gs *board.GameState) bool {
	any := false
	for _, o := range gs.Objectives {
		if !o.Active {
			continue
		}
		any = true
		if !o.Completed {
			return false
		}
	}
	return any
}

// Progress reports the mean completion fraction across active objective
// slots, clamped to [0,1] — the spawn model's `goal_progress` ctx field
// (spec §4.8). Returns 0 when no objective slot is active.
func Progress(gs *board.GameState) float64 {
	var sum float64
	var active int
	for _, o := range gs.Objectives {
		if !o.Active {
			continue
		}
		active++
		if o.TargetCount <= 0 {
			sum += 1
			continue
		}
		frac := float64(o.CurrentCount) / float64(o.TargetCount)
		if frac > 1 {
			frac = 1
		}
		sum += frac
	}
	if active == 0 {
		return 0
	}
	return sum / float64(active)
}

// Evaluate updates gs.Status based on objective completion and the move
// budget (spec §4.11/§4.2): Victory if every active objective is
// complete, Defeat if the move budget is exhausted without victory,
// otherwise InProgress is left unchanged. Evaluate never downgrades a
// terminal status already reached.
func Evaluate(gs *board.GameState) {
	if gs.Status != board.StatusInProgress {
		return
	}
	if AllCompleted(gs) {
		gs.Status = board.StatusVictory
		return
	}
	if gs.MoveLimit > 0 && gs.MoveCount >= gs.MoveLimit {
		gs.Status = board.StatusDefeat
	}
}

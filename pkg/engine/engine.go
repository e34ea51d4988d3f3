// Package engine implements the simulation engine (spec §4.13): the tick
// loop that drives swap animation, gravity, cascade resolution, deadlock
// recovery, and objective evaluation, plus clone-for-lookahead and
// run_until_stable. Orchestration mirrors the teacher's DefaultGenerator
// pipeline — a struct holding one collaborator per concern, composed in
// a fixed stage order, but run every tick instead of once.
package engine

import (
	"fmt"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/config"
	"github.com/dshills/match3sim/pkg/deadlock"
	"github.com/dshills/match3sim/pkg/errs"
	"github.com/dshills/match3sim/pkg/events"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/objective"
	"github.com/dshills/match3sim/pkg/physics"
	"github.com/dshills/match3sim/pkg/spawn"
	"github.com/dshills/match3sim/pkg/swap"
)

// Engine owns one GameState and drives it forward tick by tick. Not safe
// for concurrent use; one Engine belongs to one caller (spec §5).
type Engine struct {
	GS        *board.GameState
	Sim       *config.SimConfig
	Physics   physics.Config
	Strategy  spawn.Strategy
	Collector events.Collector

	TickIndex  uint64
	SimTimeSec float64

	// FailedAttempts counts consecutive reverted swaps since the last
	// successful one, feeding the spawn predict ctx's help threshold
	// (spec §4.8). Transient simulation-session state — not persisted in
	// snapshots.
	FailedAttempts int
	// InFlowState is true immediately after a successful swap resolution
	// and cleared on the next revert, mirroring FailedAttempts.
	InFlowState bool

	pending *swap.Pending
}

// New constructs an Engine around gs. A nil simCfg uses
// config.DefaultSimConfig; a nil strategy uses spawn's predict strategy.
func New(gs *board.GameState, simCfg *config.SimConfig, strategy spawn.Strategy) *Engine {
	if simCfg == nil {
		simCfg = config.DefaultSimConfig()
	}
	if strategy == nil {
		strategy = spawnDefault()
	}
	return &Engine{
		GS:        gs,
		Sim:       simCfg,
		Physics:   physics.Config{Gravity: simCfg.GravityAcceleration, TerminalVelocity: 18, SpawnRowOffset: 1},
		Strategy:  strategy,
		Collector: events.NewBuffered(),
	}
}

func spawnDefault() spawn.Strategy {
	s, err := spawn.Lookup("predict")
	if err != nil {
		panic(err) // registered in spawn's init; only fails on programmer error
	}
	return s
}

// spawnCtx recomputes the spawn predict ctx from live engine/board state,
// fresh for every call (spec §4.8) — nothing here is cached across ticks.
func (e *Engine) spawnCtx() spawn.Ctx {
	return spawn.Ctx{
		TargetDifficulty: e.GS.TargetDifficulty,
		RemainingMoves:   e.GS.MoveLimit - e.GS.MoveCount,
		GoalProgress:     objective.Progress(e.GS),
		FailedAttempts:   e.FailedAttempts,
		InFlowState:      e.InFlowState,
	}
}

// SetCollector swaps the active event sink, e.g. installing events.Null{}
// around a lookahead or run_until_stable pass (spec §4.13).
func (e *Engine) SetCollector(c events.Collector) {
	e.Collector = c
}

func (e *Engine) emit(ev events.Event) {
	ev.Tick = e.TickIndex
	ev.SimTime = float32(e.SimTimeSec)
	e.Collector.Emit(ev)
}

// Idle reports whether the engine has no pending swap, no falling tiles,
// and no resolvable match — i.e. a further Tick would be a no-op (spec
// §4.13 "stable").
func (e *Engine) Idle() bool {
	if e.pending != nil {
		return false
	}
	if physics.AnyFalling(e.GS) {
		return false
	}
	return !e.hasCascade()
}

// Swap validates and applies a player-initiated swap, starting the
// pending-move animation state machine (spec §4.10). Returns
// errs.ErrInvalidSwap (wrapped) if the swap is illegal, if another swap
// is already in flight, or if the level has already ended; an
// out-of-range position returns errs.ErrInvalidPosition (wrapped).
func (e *Engine) Swap(from, to geom.Position) error {
	if e.pending != nil {
		return fmt.Errorf("engine: another swap is still resolving: %w", errs.ErrInvalidSwap)
	}
	if e.GS.Status != board.StatusInProgress {
		return fmt.Errorf("engine: level already ended: %w", errs.ErrInvalidSwap)
	}
	if err := swap.Validate(e.GS, from, to); err != nil {
		return err
	}
	if err := swap.Apply(e.GS, from, to); err != nil {
		return err
	}
	e.pending = &swap.Pending{Phase: swap.PhaseAnimating, From: from, To: to}
	e.emit(events.Event{Kind: events.KindTilesSwapped, From: from, To: to})
	return nil
}

// Tick advances the simulation by one discrete step, performing exactly
// one unit of work (pending-swap animation, gravity integration, one
// cascade round, or deadlock recovery) and returning whether it did
// anything. Driving Tick in a loop until it returns false runs the
// board to a stable state (spec §4.13).
func (e *Engine) Tick(dt float64) bool {
	e.TickIndex++
	e.SimTimeSec += dt

	if e.pending != nil {
		return e.advancePending(dt)
	}
	if physics.AnyFalling(e.GS) {
		physics.Step(e.GS, e.Physics, e.Strategy, e.spawnCtx(), e.GS.RNG, dt)
		return true
	}
	if e.resolveOneCascadeRound() {
		return true
	}
	if !deadlock.HasLegalMove(e.GS) {
		changes := deadlock.Shuffle(e.GS, e.GS.RNG)
		if len(changes) > 0 {
			e.emit(events.Event{Kind: events.KindBoardShuffled, ShuffleChanges: toEventChanges(changes)})
			return true
		}
	}
	objective.Evaluate(e.GS)
	if e.GS.Status != board.StatusInProgress {
		e.emit(events.Event{Kind: events.KindLevelCompleted, Status: int(e.GS.Status)})
	}
	return false
}

func (e *Engine) advancePending(dt float64) bool {
	p := e.pending
	p.Elapsed += dt
	if p.Elapsed < e.Sim.SwapAnimationDurationSeconds {
		return true
	}

	switch p.Phase {
	case swap.PhaseAnimating:
		if swap.Resolves(e.GS, p.From, p.To) {
			e.GS.MoveCount++
			e.FailedAttempts = 0
			e.InFlowState = true
			e.triggerComboIfBombs(p.From, p.To)
			e.pending = nil
		} else {
			p.Phase = swap.PhaseReverting
			p.Elapsed = 0
			_ = swap.Revert(e.GS, p.From, p.To)
			e.emit(events.Event{Kind: events.KindSwapReverted, From: p.From, To: p.To})
		}
	case swap.PhaseReverting:
		e.FailedAttempts++
		e.InFlowState = false
		e.pending = nil
	}
	return true
}

// RunUntilStable drives Tick with a fixed dt until Idle or maxTicks is
// reached, using a Null collector throughout so speculative resolution
// never leaks events (spec §4.13). Returns errs.ErrBudgetExceeded
// (wrapped) if the board never settles within maxTicks.
func (e *Engine) RunUntilStable(dt float64, maxTicks int) error {
	saved := e.Collector
	e.Collector = events.Null{}
	defer func() { e.Collector = saved }()

	for i := 0; i < maxTicks; i++ {
		if e.Idle() {
			return nil
		}
		e.Tick(dt)
	}
	if e.Idle() {
		return nil
	}
	return fmt.Errorf("engine: did not stabilize within %d ticks: %w", maxTicks, errs.ErrBudgetExceeded)
}

// Clone returns an independent Engine wrapping a deep copy of the board
// (spec §4.13 "determinism under cloning"). The clone always starts with
// a Null collector since speculative/lookahead engines must never emit
// player-visible events.
func (e *Engine) Clone() *Engine {
	clone := &Engine{
		GS:             e.GS.Clone(),
		Sim:            e.Sim,
		Physics:        e.Physics,
		Strategy:       e.Strategy,
		Collector:      events.Null{},
		TickIndex:      e.TickIndex,
		SimTimeSec:     e.SimTimeSec,
		FailedAttempts: e.FailedAttempts,
		InFlowState:    e.InFlowState,
	}
	if e.pending != nil {
		p := *e.pending
		clone.pending = &p
	}
	return clone
}

func toEventChanges(cs []deadlock.ShuffleChange) []events.ShuffleChange {
	out := make([]events.ShuffleChange, len(cs))
	for i, c := range cs {
		out[i] = events.ShuffleChange{Position: c.Position, TileID: c.TileID, NewType: int(c.NewType)}
	}
	return out
}

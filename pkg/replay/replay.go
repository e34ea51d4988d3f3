// Package replay implements the command log and deterministic replay
// controller (spec §4.14): recording every player-issued command against
// the tick it was applied at, then driving a fresh engine through the
// same commands to reproduce an identical run.
package replay

import (
	"fmt"

	"github.com/dshills/match3sim/pkg/engine"
	"github.com/dshills/match3sim/pkg/errs"
	"github.com/dshills/match3sim/pkg/geom"
)

// CommandKind tags a recorded command's type.
type CommandKind int

const (
	CommandSwap CommandKind = iota
	CommandTick
)

// Command is one recorded input to the engine, timestamped by the tick
// it was issued at so replay can interleave it at the right point.
type Command struct {
	Kind   CommandKind
	Tick   uint64
	From   geom.Position // CommandSwap
	To     geom.Position // CommandSwap
	DT     float64       // CommandTick
}

// GameRecording is an ordered, append-only command log plus the seed the
// run started from, sufficient to reproduce the run bit-for-bit (spec
// §4.14, §9 "Replay determinism").
type GameRecording struct {
	Seed     uint64
	Commands []Command
}

// Recorder wraps an Engine, appending every Swap/Tick call it observes
// to a GameRecording before delegating to the underlying engine.
type Recorder struct {
	Engine    *engine.Engine
	Recording GameRecording
}

// NewRecorder begins recording a fresh session against e, whose board's
// current seed becomes the recording's seed.
func NewRecorder(e *engine.Engine) *Recorder {
	return &Recorder{Engine: e, Recording: GameRecording{Seed: e.GS.Seed}}
}

// Swap records and applies a swap command.
func (r *Recorder) Swap(from, to geom.Position) error {
	if err := r.Engine.Swap(from, to); err != nil {
		return err
	}
	r.Recording.Commands = append(r.Recording.Commands, Command{
		Kind: CommandSwap, Tick: r.Engine.TickIndex, From: from, To: to,
	})
	return nil
}

// Tick records and applies a tick command.
func (r *Recorder) Tick(dt float64) bool {
	did := r.Engine.Tick(dt)
	r.Recording.Commands = append(r.Recording.Commands, Command{
		Kind: CommandTick, Tick: r.Engine.TickIndex, DT: dt,
	})
	return did
}

// Replay drives a fresh engine e (freshly constructed from the same
// LevelConfig and seed as the original run) through every command in
// rec in order, verifying each swap still validates. e should have a
// Null collector installed by the caller if the replay's own events are
// not wanted; Replay does not touch the collector.
func Replay(e *engine.Engine, rec GameRecording) error {
	if e.GS.Seed != rec.Seed {
		return fmt.Errorf("replay: engine seed %d does not match recording seed %d: %w", e.GS.Seed, rec.Seed, errs.ErrInvalidData)
	}
	for i, cmd := range rec.Commands {
		switch cmd.Kind {
		case CommandSwap:
			if err := e.Swap(cmd.From, cmd.To); err != nil {
				return fmt.Errorf("replay: command %d: %w", i, err)
			}
		case CommandTick:
			e.Tick(cmd.DT)
		default:
			return fmt.Errorf("replay: command %d: unknown kind %d: %w", i, cmd.Kind, errs.ErrInvalidData)
		}
	}
	return nil
}

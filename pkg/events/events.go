// Package events implements the append-only event bus the engine emits its
// timestamped event stream through (spec §4.3). Collection can be disabled
// for speculative runs (run_until_stable, clone-for-lookahead) by swapping
// in Null.
package events

import "github.com/dshills/match3sim/pkg/geom"

// Kind tags a concrete event type, mirroring the teacher's registries
// pattern of small arrays indexed by a variant tag (spec §9).
type Kind int

const (
	KindTilesSwapped Kind = iota
	KindSwapReverted
	KindTileDestroyed
	KindBombCreated
	KindBombTriggered
	KindBombProjectile
	KindCoverDestroyed
	KindGroundDestroyed
	KindObjectiveProgress
	KindLevelCompleted
	KindBoardShuffled
)

// Event is the common envelope every concrete event kind carries: a tick
// index, a simulation-time float, and a Kind-specific payload.
type Event struct {
	Kind    Kind
	Tick    uint64
	SimTime float32

	// Swap / revert
	From, To geom.Position

	// Tile destroyed
	TileID   uint64
	Position geom.Position
	TileType int // board.TileType, kept as int to avoid an import cycle

	// Bomb created / triggered / projectile
	BombType int // board.BombType
	Origin   geom.Position
	Target   geom.Position

	// Cover / ground destroyed
	CoverType  int
	GroundType int

	// Objective progress
	ObjectiveIndex int
	CurrentCount   int
	TargetCount    int
	IsCompleted    bool

	// Level completed
	Status int // board.LevelStatus

	// Board shuffled
	ShuffleChanges []ShuffleChange
}

// ShuffleChange records one tile's color change during a shuffle attempt.
type ShuffleChange struct {
	Position geom.Position
	TileID   uint64
	NewType  int // board.TileType
}

// Collector is the event sink contract. Implementations must be cheap to
// check IsEnabled on so callers can skip constructing expensive event
// payloads when collection is off.
type Collector interface {
	Emit(e Event)
	IsEnabled() bool
}

// Buffered retains every emitted event in order until Drain is called.
// This is the collector installed on a live, presentation-facing engine.
type Buffered struct {
	events []Event
}

// NewBuffered creates an empty Buffered collector.
func NewBuffered() *Buffered {
	return &Buffered{}
}

// Emit appends e to the buffer.
func (b *Buffered) Emit(e Event) {
	b.events = append(b.events, e)
}

// IsEnabled always returns true for Buffered.
func (b *Buffered) IsEnabled() bool {
	return true
}

// Drain returns all buffered events and clears the buffer.
func (b *Buffered) Drain() []Event {
	out := b.events
	b.events = nil
	return out
}

// Len reports the number of buffered, undrained events.
func (b *Buffered) Len() int {
	return len(b.events)
}

// Null discards every event and reports itself disabled. The engine swaps
// this in for lookahead clones and for run_until_stable's internal loop
// (spec §4.13), restoring the original collector on return.
type Null struct{}

// Emit is a no-op.
func (Null) Emit(Event) {}

// IsEnabled always returns false.
func (Null) IsEnabled() bool {
	return false
}

var _ Collector = (*Buffered)(nil)
var _ Collector = Null{}

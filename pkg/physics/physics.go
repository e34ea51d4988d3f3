// Package physics implements gravity compaction and refill (spec §4.9).
// Column compaction is grid-exact and fully deterministic; the
// velocity/position kinematics on each falling Tile exist only to drive
// a renderer's animation and follow the same position/velocity/dt
// integration the teacher's force-directed embedder uses for room
// layout, applied here to one falling tile instead of a whole graph.
package physics

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
	"github.com/dshills/match3sim/pkg/spawn"
)

// Config tunes the fall animation. Gravity and TerminalVelocity are in
// cells/second^2 and cells/second; they affect only RenderPos/Velocity
// bookkeeping, never which cell a tile ends up in.
type Config struct {
	Gravity          float64
	TerminalVelocity float64
	SpawnRowOffset   float64 // how many rows above the board a freshly spawned tile's RenderPos starts at
}

// DefaultConfig mirrors typical match-3 fall feel: fast acceleration, a
// capped terminal speed, spawns drop in from one row above the board.
func DefaultConfig() Config {
	return Config{Gravity: 40, TerminalVelocity: 18, SpawnRowOffset: 1}
}

// Result reports what a Step changed, for event emission.
type Result struct {
	Moved   []geom.Position // destination cells of tiles that compacted downward
	Spawned []geom.Position // cells that received a freshly spawned tile
	Settled bool            // true once every tile's RenderPos has reached its grid cell
}

// Step performs one tick of column compaction + refill + render
// kinematics (spec §4.9): tiles fall to fill empty cells below them
// (stopping at a fall-blocking cover, per spec §3's blocking table, and
// carrying a dynamic cover along for the ride), then every column is
// topped back up via the spawn strategy. dt advances RenderPos/Velocity
// toward each tile's resting grid position.
func Step(gs *board.GameState, cfg Config, strategy spawn.Strategy, ctx spawn.Ctx, rnd *rng.RNG, dt float64) Result {
	var res Result

	for x := 0; x < gs.Width; x++ {
		writeY := gs.Height - 1
		for y := gs.Height - 1; y >= 0; y-- {
			p := geom.Pos(x, y)
			tile := gs.MustTileAt(p)
			cover := gs.MustCoverAt(p)

			if cover.Present() && cover.Type.BlocksFall() {
				// Anchored: nothing passes through this cell; compaction
				// above it resumes from the row just above.
				writeY = y - 1
				continue
			}
			if tile.Empty() {
				continue
			}
			if writeY != y {
				dest := geom.Pos(x, writeY)
				moveTile(gs, p, dest)
				res.Moved = append(res.Moved, dest)
			}
			writeY--
		}

		for y := writeY; y >= 0; y-- {
			p := geom.Pos(x, y)
			color := strategy.NextColor(gs, p, ctx, rnd)
			t, _ := gs.SpawnTile(p, color)
			t.IsFalling = true
			t.RenderPos = geom.Vec2{X: float64(x), Y: float64(y) - cfg.SpawnRowOffset}
			t.Velocity = geom.Vec2{}
			_ = gs.SetTile(p, t)
			res.Spawned = append(res.Spawned, p)
		}
	}

	res.Settled = integrate(gs, cfg, dt)
	return res
}

// moveTile relocates the tile at src to dst, carrying any dynamic cover
// with it, and marks the destination falling so Step's kinematics pass
// animates it toward its new resting position instead of snapping.
func moveTile(gs *board.GameState, src, dst geom.Position) {
	t, _ := gs.TileAt(src)
	renderPos := t.RenderPos
	velocity := t.Velocity
	if !t.IsFalling {
		renderPos = geom.Vec2{X: float64(src.X), Y: float64(src.Y)}
	}
	t.IsFalling = true
	t.RenderPos = renderPos
	t.Velocity = velocity
	_ = gs.SetTile(dst, t)
	_ = gs.ClearTile(src)
	_ = gs.MoveDynamicCover(src, dst)
}

// integrate advances every falling tile's velocity and render position
// toward its grid cell, snapping and clearing IsFalling once arrived.
// Returns true once no tile is still falling.
func integrate(gs *board.GameState, cfg Config, dt float64) bool {
	settled := true
	gs.ForEachCell(func(p geom.Position) {
		t := gs.MustTileAt(p)
		if t.Empty() || !t.IsFalling {
			return
		}
		target := float64(p.Y)

		t.Velocity.Y += cfg.Gravity * dt
		if t.Velocity.Y > cfg.TerminalVelocity {
			t.Velocity.Y = cfg.TerminalVelocity
		}
		t.RenderPos.Y += t.Velocity.Y * dt
		t.RenderPos.X = float64(p.X)

		if t.RenderPos.Y >= target {
			t.RenderPos.Y = target
			t.Velocity = geom.Vec2{}
			t.IsFalling = false
		} else {
			settled = false
		}
		_ = gs.SetTile(p, t)
	})
	return settled
}

// AnyFalling reports whether any tile on the board is still mid-fall,
// used by the engine's stability check (spec §4.13).
func AnyFalling(gs *board.GameState) bool {
	falling := false
	gs.ForEachCell(func(p geom.Position) {
		if gs.MustTileAt(p).IsFalling {
			falling = true
		}
	})
	return falling
}

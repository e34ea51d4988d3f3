package engine

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/bombfx"
	"github.com/dshills/match3sim/pkg/events"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/match"
	"github.com/dshills/match3sim/pkg/objective"
)

// hasCascade is a cheap existence check for Idle: true if any component
// on the board currently contains a run >= 3.
func (e *Engine) hasCascade() bool {
	for _, c := range match.FindComponents(e.GS) {
		if len(match.FindRuns(c)) > 0 {
			return true
		}
	}
	return false
}

// resolveOneCascadeRound finds every matched component on the settled
// board, destroys each one's match groups (spawning bombs, triggering
// any bomb the destroyed cells already carried, and advancing
// objectives), and reports whether it did anything (spec §4.6, §4.7,
// §4.11).
func (e *Engine) resolveOneCascadeRound() bool {
	groups := match.FindMatches(e.GS, nil, e.GS.RNG)
	if len(groups) == 0 {
		return false
	}
	for _, g := range groups {
		e.destroyGroup(g)
	}
	return true
}

// destroyGroup clears every cell in g, triggering any bomb those cells
// already carried (chaining through bombfx.Explode), damaging cover and
// ground beneath each cleared cell, recording objective progress, and
// finally placing g's spawned bomb (if any) at its origin.
func (e *Engine) destroyGroup(g board.MatchGroup) {
	positions := g.PositionSlice()
	triggered := make(map[geom.Position]bool, len(positions))

	var trigger func(p geom.Position)
	trigger = func(p geom.Position) {
		if triggered[p] {
			return
		}
		triggered[p] = true

		t := e.GS.MustTileAt(p)
		if t.Empty() {
			return
		}

		e.destroyCell(p, t.Type)

		if t.Bomb != board.BombNone {
			e.emit(events.Event{Kind: events.KindBombTriggered, BombType: int(t.Bomb), Origin: p})
			colorTarget := t.Type
			if t.Bomb == board.BombColor {
				// A Color bomb set off by a match (or by a chained
				// explosion) clears the most common non-Rainbow color on
				// the board; ties go to the earliest color in PlainColors.
				counts := e.GS.ColorCounts()
				best := -1
				for _, c := range board.PlainColors {
					if counts[c] > best {
						colorTarget, best = c, counts[c]
					}
				}
			}
			waves := bombfx.Explode(e.GS, t.Bomb, p, colorTarget, e.Sim.UfoTargetCount, e.GS.RNG)
			if t.Bomb == board.BombUfo {
				for _, w := range waves {
					for _, wp := range w.Positions {
						e.emit(events.Event{Kind: events.KindBombProjectile, BombType: int(t.Bomb), Origin: p, Target: wp})
					}
				}
			}
			for _, w := range waves {
				for _, wp := range w.Positions {
					trigger(wp)
				}
			}
		}
	}

	for _, p := range positions {
		trigger(p)
	}

	if g.SpawnBombType != board.BombNone && g.BombOrigin != nil {
		origin := *g.BombOrigin
		if !e.GS.InBounds(origin) {
			return
		}
		if t := e.GS.MustTileAt(origin); t.Empty() {
			// The origin cell was itself destroyed as part of this group
			// (always true unless a chained bomb cleared it first); spawn
			// a fresh tile there carrying the new bomb.
			nt, _ := e.GS.SpawnTile(origin, g.Type)
			nt.Bomb = g.SpawnBombType
			_ = e.GS.SetTile(origin, nt)
			e.emit(events.Event{Kind: events.KindBombCreated, BombType: int(g.SpawnBombType), Origin: origin})
		}
	}
}

// destroyCell clears the tile at p, damages any cover/ground there, and
// records objective progress for each layer actually destroyed.
func (e *Engine) destroyCell(p geom.Position, tileType board.TileType) {
	t := e.GS.MustTileAt(p)
	_ = e.GS.ClearTile(p)
	e.emit(events.Event{Kind: events.KindTileDestroyed, TileID: t.ID, Position: p, TileType: int(tileType)})
	for _, idx := range objective.RecordDestruction(e.GS, board.ElementTile, int(tileType), 1) {
		e.emitObjective(idx)
	}

	if destroyedCover, coverType := e.damageCoverTracked(p); destroyedCover {
		e.emit(events.Event{Kind: events.KindCoverDestroyed, Position: p, CoverType: int(coverType)})
		for _, idx := range objective.RecordDestruction(e.GS, board.ElementCover, int(coverType), 1) {
			e.emitObjective(idx)
		}
	}
	if destroyedGround, groundType := e.damageGroundTracked(p); destroyedGround {
		e.emit(events.Event{Kind: events.KindGroundDestroyed, Position: p, GroundType: int(groundType)})
		for _, idx := range objective.RecordDestruction(e.GS, board.ElementGround, int(groundType), 1) {
			e.emitObjective(idx)
		}
	}
}

func (e *Engine) damageCoverTracked(p geom.Position) (bool, board.CoverType) {
	before, _ := e.GS.CoverAt(p)
	if !before.Present() {
		return false, board.CoverNone
	}
	destroyed, _ := e.GS.DamageCover(p)
	return destroyed, before.Type
}

func (e *Engine) damageGroundTracked(p geom.Position) (bool, board.GroundType) {
	before, _ := e.GS.GroundAt(p)
	if !before.Present() {
		return false, board.GroundNone
	}
	destroyed, _ := e.GS.DamageGround(p)
	return destroyed, before.Type
}

// triggerComboIfBombs detonates the combined effect when both just-
// swapped tiles carry a bomb (spec §4.7.1). A plain cascade round never
// touches these two cells on its own — the swap that resolved them
// carried no match of its own to clear — so this is the only path that
// ever fires a bomb-for-bomb swap's composite effect.
func (e *Engine) triggerComboIfBombs(from, to geom.Position) {
	a := e.GS.MustTileAt(from)
	b := e.GS.MustTileAt(to)
	if a.Bomb == board.BombNone || b.Bomb == board.BombNone {
		return
	}

	primaryColor := a.Type
	switch board.BombColor {
	case a.Bomb:
		primaryColor = b.Type
	case b.Bomb:
		primaryColor = a.Type
	}

	e.emit(events.Event{Kind: events.KindBombTriggered, BombType: int(a.Bomb), Origin: from})
	e.emit(events.Event{Kind: events.KindBombTriggered, BombType: int(b.Bomb), Origin: to})
	waves := bombfx.Combo(e.GS, a.Bomb, b.Bomb, to, primaryColor, e.GS.RNG)

	triggered := map[geom.Position]bool{}
	var trigger func(p geom.Position)
	trigger = func(p geom.Position) {
		if triggered[p] {
			return
		}
		triggered[p] = true
		t := e.GS.MustTileAt(p)
		if t.Empty() {
			return
		}
		e.destroyCell(p, t.Type)
		if t.Bomb == board.BombNone || p == from || p == to {
			return
		}
		e.emit(events.Event{Kind: events.KindBombTriggered, BombType: int(t.Bomb), Origin: p})
		chained := bombfx.Explode(e.GS, t.Bomb, p, t.Type, e.Sim.UfoTargetCount, e.GS.RNG)
		if t.Bomb == board.BombUfo {
			for _, w := range chained {
				for _, wp := range w.Positions {
					e.emit(events.Event{Kind: events.KindBombProjectile, BombType: int(t.Bomb), Origin: p, Target: wp})
				}
			}
		}
		for _, w := range chained {
			for _, wp := range w.Positions {
				trigger(wp)
			}
		}
	}

	trigger(from)
	trigger(to)
	for _, w := range waves {
		for _, wp := range w.Positions {
			trigger(wp)
		}
	}
}

func (e *Engine) emitObjective(idx int) {
	o := e.GS.Objectives[idx]
	e.emit(events.Event{
		Kind:           events.KindObjectiveProgress,
		ObjectiveIndex: idx,
		CurrentCount:   o.CurrentCount,
		TargetCount:    o.TargetCount,
		IsCompleted:    o.Completed,
	})
}

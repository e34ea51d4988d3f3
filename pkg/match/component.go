// Package match implements the match finder: a connected-component flood
// fill over the board plus cheap line-run checks for swap validation and
// deadlock detection. Shape detection and bomb selection (partitioning a
// component's candidate shapes into non-overlapping match groups) live in
// pkg/bombgen; this package hands it whole components and re-exports the
// result as board.MatchGroup.
package match

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/bombgen"
	"github.com/dshills/match3sim/pkg/geom"
)

// Component is a maximal connected region of cells sharing a tile color
// (Rainbow matches any) under cardinal adjacency, restricted to cells that
// can participate in a match (not covered by a match-blocking cover).
//
// Defined in pkg/bombgen (the shape detector and bomb generator consume
// it) and re-exported here so match finder callers don't need to import
// bombgen directly just to spell the type.
type Component = bombgen.Component

var cardinalDeltas = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// canMatch reports whether the cell at p is eligible to join a component:
// it must hold a tile and must not be covered by a match-blocking cover
// (Cage, per the spec §3 blocking table).
func canMatch(gs *board.GameState, p geom.Position) bool {
	t := gs.MustTileAt(p)
	if t.Empty() {
		return false
	}
	cover := gs.MustCoverAt(p)
	if cover.Present() && cover.Type.BlocksMatch() {
		return false
	}
	return true
}

// sameGroup reports whether a and b should be merged into the same
// component: both eligible, and either sharing a concrete color or either
// being Rainbow (a wildcard that matches any color).
func sameGroup(gs *board.GameState, a, b geom.Position) bool {
	if !canMatch(gs, a) || !canMatch(gs, b) {
		return false
	}
	ta := gs.MustTileAt(a).Type
	tb := gs.MustTileAt(b).Type
	if ta == tb {
		return true
	}
	return ta == board.TileRainbow || tb == board.TileRainbow
}

// FindComponents performs a flood fill over every cell, grouping cardinally
// adjacent, match-eligible cells that share a color (with Rainbow acting as
// a wildcard) into maximal components. Components are returned in
// deterministic row-major order of their first-visited cell.
func FindComponents(gs *board.GameState) []Component {
	visited := make([]bool, gs.Width*gs.Height)
	var components []Component

	gs.ForEachCell(func(start geom.Position) {
		idx := start.Y*gs.Width + start.X
		if visited[idx] || !canMatch(gs, start) {
			return
		}

		// Determine the component's nominal color: the first concrete
		// (non-Rainbow) color reachable from start, or Rainbow if the
		// entire component is wildcards.
		queue := []geom.Position{start}
		visited[idx] = true
		var members []geom.Position
		colorType := gs.MustTileAt(start).Type

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			members = append(members, p)
			if t := gs.MustTileAt(p).Type; t != board.TileRainbow {
				colorType = t
			}

			for _, d := range cardinalDeltas {
				n := p.Add(d[0], d[1])
				if !gs.InBounds(n) {
					continue
				}
				nIdx := n.Y*gs.Width + n.X
				if visited[nIdx] {
					continue
				}
				if !sameGroup(gs, p, n) {
					continue
				}
				visited[nIdx] = true
				queue = append(queue, n)
			}
		}

		components = append(components, Component{Type: colorType, Positions: members})
	})

	return components
}

// HasMatchAt performs a cheap O(w+h) line scan through pos, checking both
// orthogonal runs for length >= 3 without building full components. Used
// by swap validation and the deadlock detector.
func HasMatchAt(gs *board.GameState, pos geom.Position) bool {
	if !canMatch(gs, pos) {
		return false
	}
	return runLengthThrough(gs, pos, 1, 0)+runLengthThrough(gs, pos, -1, 0)-1 >= 3 ||
		runLengthThrough(gs, pos, 0, 1)+runLengthThrough(gs, pos, 0, -1)-1 >= 3
}

// runLengthThrough counts the run length starting at pos and walking in
// direction (dx,dy), inclusive of pos itself.
func runLengthThrough(gs *board.GameState, pos geom.Position, dx, dy int) int {
	count := 0
	p := pos
	for gs.InBounds(p) && sameGroup(gs, pos, p) {
		count++
		p = p.Add(dx, dy)
	}
	return count
}

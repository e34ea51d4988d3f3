// Package bombgen implements the shape detector (spec §4.5) and the bomb
// generator (spec §4.6) — enumerating shape candidates inside a matched
// component and choosing a maximum-weight, non-overlapping subset of them
// to promote to match groups.
package bombgen

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
)

// Component is a maximal connected region of cells sharing a tile color
// (Rainbow matches any) under cardinal adjacency, restricted to cells
// eligible to match. Built by the match finder (pkg/match.FindComponents)
// and consumed here by the shape detector and partitioner.
type Component struct {
	Type      board.TileType
	Positions []geom.Position
}

// ShapeKind classifies a detected candidate before it is promoted to a
// MatchShape by the bomb generator. Kept distinct from board.MatchShape
// because a run is a *candidate*; Line5 sliding windows on a run of length
// 6, for instance, produce several candidates of the same kind.
type ShapeKind int

const (
	KindLine4 ShapeKind = iota
	KindLine5
	KindSquare
	KindPlus
	KindTL
)

// Weight returns the preference weight for this kind (spec §4.5):
// Rainbow(Line5)=130 > Plus/T/L=60 > Line4=40 > Square=20.
func (k ShapeKind) Weight() int {
	switch k {
	case KindLine5:
		return 130
	case KindPlus, KindTL:
		return 60
	case KindLine4:
		return 40
	case KindSquare:
		return 20
	default:
		return 0
	}
}

// SpawnBombType returns the bomb type a chosen candidate of this kind
// spawns. Line4's direction depends on orientation, so it is resolved by
// the caller (horizontalRun flag) rather than here.
func (k ShapeKind) SpawnBombType(horizontal bool) board.BombType {
	switch k {
	case KindLine4:
		if horizontal {
			return board.BombHorizontal
		}
		return board.BombVertical
	case KindLine5:
		return board.BombColor
	case KindSquare:
		return board.BombUfo
	case KindPlus:
		return board.BombUfo
	case KindTL:
		return board.BombSquare5x5
	default:
		return board.BombNone
	}
}

// MatchShape returns the board.MatchShape this kind is recorded as.
func (k ShapeKind) MatchShape() board.MatchShape {
	switch k {
	case KindLine4:
		return board.ShapeLine4
	case KindLine5:
		return board.ShapeLine5
	case KindSquare:
		return board.ShapeSquare
	case KindPlus:
		return board.ShapePlus
	case KindTL:
		return board.ShapeTL
	default:
		return board.ShapeSimple3
	}
}

// Run is a maximal axis-aligned run of length >= 3 within a component.
type Run struct {
	Horizontal bool
	Cells      []geom.Position // ordered along the run
}

func (r Run) contains(p geom.Position) bool {
	for _, c := range r.Cells {
		if c == p {
			return true
		}
	}
	return false
}

// DetectedShape is a shape candidate the detector proposes for promotion
// to a match group by the bomb generator's partitioner.
type DetectedShape struct {
	Cells      []geom.Position
	Kind       ShapeKind
	Horizontal bool // meaningful only for KindLine4 (direction of the spawned bomb)
	Weight     int

	// HRun/VRun are populated only for KindPlus/KindTL: the ordered cells
	// of the crossing horizontal and vertical run, respectively. The
	// absorber extends scrap chains from either run's endpoints along its
	// own axis.
	HRun Run
	VRun Run
}

// FindRuns extracts every maximal horizontal run >= 3 and every maximal
// vertical run >= 3 within the component (spec §4.5). A run is
// non-overlapping with other runs of the same orientation: after emitting
// a run of length L starting at some cell, scanning skips to the cell
// L positions further along.
func FindRuns(component Component) []Run {
	set := make(map[geom.Position]bool, len(component.Positions))
	for _, p := range component.Positions {
		set[p] = true
	}

	var runs []Run
	runs = append(runs, findRunsAxis(set, true)...)
	runs = append(runs, findRunsAxis(set, false)...)
	return runs
}

func findRunsAxis(set map[geom.Position]bool, horizontal bool) []Run {
	// Group cells by the axis orthogonal to the run direction (row for
	// horizontal runs, column for vertical), then scan each line.
	lines := make(map[int][]int) // key: y (horizontal) or x (vertical); value: sorted coordinates along the run axis
	for p := range set {
		if horizontal {
			lines[p.Y] = append(lines[p.Y], p.X)
		} else {
			lines[p.X] = append(lines[p.X], p.Y)
		}
	}

	var runs []Run
	keys := sortedKeys(lines)
	for _, key := range keys {
		coords := lines[key]
		sortInts(coords)
		i := 0
		for i < len(coords) {
			j := i + 1
			for j < len(coords) && coords[j] == coords[j-1]+1 {
				j++
			}
			length := j - i
			if length >= 3 {
				cells := make([]geom.Position, 0, length)
				for k := i; k < j; k++ {
					if horizontal {
						cells = append(cells, geom.Pos(coords[k], key))
					} else {
						cells = append(cells, geom.Pos(key, coords[k]))
					}
				}
				runs = append(runs, Run{Horizontal: horizontal, Cells: cells})
			}
			i = j
		}
	}
	return runs
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortInts(keys)
	return keys
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// DetectShapes enumerates every shape candidate within a component: Line4,
// Line5 (sliding windows on longer runs), Square 2x2, and intersections
// (Plus / T / L) between crossing horizontal and vertical runs.
func DetectShapes(component Component) []DetectedShape {
	runs := FindRuns(component)

	var out []DetectedShape
	out = append(out, lineCandidates(runs)...)
	out = append(out, squareCandidates(component)...)
	out = append(out, intersectionCandidates(runs)...)
	return out
}

// lineCandidates emits a Line4 candidate for every 4-window and a Line5
// candidate for every 5-window of each run (sliding window on longer
// runs, per spec §4.5).
func lineCandidates(runs []Run) []DetectedShape {
	var out []DetectedShape
	for _, r := range runs {
		n := len(r.Cells)
		for start := 0; start+4 <= n; start++ {
			out = append(out, DetectedShape{
				Cells:      append([]geom.Position(nil), r.Cells[start:start+4]...),
				Kind:       KindLine4,
				Horizontal: r.Horizontal,
				Weight:     KindLine4.Weight(),
			})
		}
		for start := 0; start+5 <= n; start++ {
			out = append(out, DetectedShape{
				Cells:      append([]geom.Position(nil), r.Cells[start:start+5]...),
				Kind:       KindLine5,
				Horizontal: r.Horizontal,
				Weight:     KindLine5.Weight(),
			})
		}
	}
	return out
}

// squareCandidates emits a Square candidate for every 2x2 block that lies
// fully within the component.
func squareCandidates(component Component) []DetectedShape {
	set := make(map[geom.Position]bool, len(component.Positions))
	for _, p := range component.Positions {
		set[p] = true
	}

	var out []DetectedShape
	seen := make(map[geom.Position]bool)
	for _, p := range component.Positions {
		corners := []geom.Position{p, p.Add(1, 0), p.Add(0, 1), p.Add(1, 1)}
		all := true
		for _, c := range corners {
			if !set[c] {
				all = false
				break
			}
		}
		if all {
			key := p
			if !seen[key] {
				seen[key] = true
				out = append(out, DetectedShape{
					Cells:  corners,
					Kind:   KindSquare,
					Weight: KindSquare.Weight(),
				})
			}
		}
	}
	return out
}

// intersectionCandidates classifies every crossing of a horizontal run and
// a vertical run as Plus (interior of both), or T/L (endpoint of at least
// one) (spec §4.5).
func intersectionCandidates(runs []Run) []DetectedShape {
	var out []DetectedShape
	for _, h := range runs {
		if !h.Horizontal {
			continue
		}
		for _, v := range runs {
			if v.Horizontal {
				continue
			}
			cross, ok := crossPoint(h, v)
			if !ok {
				continue
			}
			hInterior := isInterior(h, cross)
			vInterior := isInterior(v, cross)

			cells := unionCells(h.Cells, v.Cells)
			if hInterior && vInterior {
				out = append(out, DetectedShape{Cells: cells, Kind: KindPlus, Weight: KindPlus.Weight(), HRun: h, VRun: v})
			} else {
				out = append(out, DetectedShape{Cells: cells, Kind: KindTL, Weight: KindTL.Weight(), HRun: h, VRun: v})
			}
		}
	}
	return out
}

func crossPoint(h, v Run) (geom.Position, bool) {
	y := h.Cells[0].Y
	x := v.Cells[0].X
	p := geom.Pos(x, y)
	if h.contains(p) && v.contains(p) {
		return p, true
	}
	return geom.Position{}, false
}

func isInterior(r Run, p geom.Position) bool {
	n := len(r.Cells)
	if n == 0 {
		return false
	}
	return r.Cells[0] != p && r.Cells[n-1] != p
}

func unionCells(a, b []geom.Position) []geom.Position {
	set := make(map[geom.Position]bool, len(a)+len(b))
	var out []geom.Position
	for _, p := range a {
		if !set[p] {
			set[p] = true
			out = append(out, p)
		}
	}
	for _, p := range b {
		if !set[p] {
			set[p] = true
			out = append(out, p)
		}
	}
	return out
}

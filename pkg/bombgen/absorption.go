package bombgen

import "github.com/dshills/match3sim/pkg/geom"

var cardinalDeltas = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// absorbScraps extends each chosen shape's final cell set with the
// component's leftover ("scrap") cells per spec §4.6.3:
//
//   - Simple3: no absorption, final cells are exactly the candidate's.
//   - Line4/Line5: no absorption — a pure line claims nothing beyond its run.
//   - Square: recursive orthogonal flood fill through scrap cells only
//     (never through another chosen shape's core cells), so a Square can
//     pull in an arbitrarily large attached blob.
//   - Plus/T/L: absorption is restricted to scraps collinear with one of
//     the two crossing runs and contiguously attached to that run's
//     endpoints — no gaps, and never departing the run's axis.
//
// When two chosen shapes would claim the same scrap cell, the
// higher-weight shape wins; ties go to whichever shape was processed
// first (candidates arrive pre-sorted by the partitioner's tie-break).
func absorbScraps(component Component, chosen []candidate) []candidate {
	componentSet := make(map[geom.Position]bool, len(component.Positions))
	for _, p := range component.Positions {
		componentSet[p] = true
	}

	claimed := make(map[geom.Position]bool, len(component.Positions))
	for _, c := range chosen {
		for _, p := range c.shape.Cells {
			claimed[p] = true
		}
	}

	out := make([]candidate, len(chosen))
	for i, c := range chosen {
		switch c.shape.Kind {
		case KindSquare:
			absorbed := floodAbsorb(c.shape.Cells, componentSet, claimed)
			out[i] = withCells(c, absorbed)
		case KindPlus, KindTL:
			absorbed := runAbsorb(c.shape, componentSet, claimed)
			out[i] = withCells(c, absorbed)
		default:
			out[i] = c
		}
	}
	return out
}

// floodAbsorb grows base via BFS through orthogonally adjacent cells that
// are in the component, not yet claimed by any chosen shape, and not
// already part of base.
func floodAbsorb(base []geom.Position, componentSet, claimed map[geom.Position]bool) []geom.Position {
	absorbed := make(map[geom.Position]bool, len(base))
	queue := make([]geom.Position, 0, len(base))
	for _, p := range base {
		absorbed[p] = true
		queue = append(queue, p)
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range cardinalDeltas {
			n := p.Add(d[0], d[1])
			if !componentSet[n] || absorbed[n] || claimed[n] {
				continue
			}
			absorbed[n] = true
			claimed[n] = true
			queue = append(queue, n)
		}
	}

	out := make([]geom.Position, 0, len(absorbed))
	for _, p := range base {
		out = append(out, p)
	}
	for p := range absorbed {
		if !contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// runAbsorb extends a Plus/T/L candidate's horizontal and vertical runs
// from their endpoints, one step at a time, absorbing a scrap cell only
// when it continues that run's axis with no gap.
func runAbsorb(shape DetectedShape, componentSet, claimed map[geom.Position]bool) []geom.Position {
	out := append([]geom.Position(nil), shape.Cells...)
	present := make(map[geom.Position]bool, len(out))
	for _, p := range out {
		present[p] = true
	}

	extend := func(run Run) {
		if len(run.Cells) == 0 {
			return
		}
		dx, dy := 0, 0
		if run.Horizontal {
			dx = 1
		} else {
			dy = 1
		}

		// walk backward from the run's first cell
		cur := run.Cells[0]
		for {
			cand := cur.Add(-dx, -dy)
			if !componentSet[cand] || claimed[cand] {
				break
			}
			out = append(out, cand)
			present[cand] = true
			claimed[cand] = true
			cur = cand
		}

		// walk forward from the run's last cell
		cur = run.Cells[len(run.Cells)-1]
		for {
			cand := cur.Add(dx, dy)
			if !componentSet[cand] || claimed[cand] {
				break
			}
			out = append(out, cand)
			present[cand] = true
			claimed[cand] = true
			cur = cand
		}
	}

	extend(shape.HRun)
	extend(shape.VRun)
	return out
}

func contains(cells []geom.Position, p geom.Position) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}

func withCells(c candidate, cells []geom.Position) candidate {
	c.shape.Cells = cells
	c.size = len(cells)
	return c
}

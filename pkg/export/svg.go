package export

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/geom"
)

// SVGOptions configures board visualization export.
type SVGOptions struct {
	CellSize   int    // Cell size in pixels
	ShowGlyphs bool   // Show bomb-type letter glyphs on bombed tiles
	ShowLegend bool   // Show legend explaining colors/glyphs
	ShowStats  bool   // Show score/move/status header
	Margin     int    // Canvas margin in pixels
	Title      string // Optional title for the visualization
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		CellSize:   48,
		ShowGlyphs: true,
		ShowLegend: true,
		ShowStats:  true,
		Margin:     48,
		Title:      "match3sim board",
	}
}

// ExportSVG generates an SVG visualization of gs's current grid: one
// colored swatch per tile, a letter glyph for any carried bomb, a dashed
// outline for cover, and a tinted backdrop for ground.
func ExportSVG(gs *board.GameState, opts SVGOptions) ([]byte, error) {
	if gs == nil {
		return nil, fmt.Errorf("game state cannot be nil")
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 48
	}
	if opts.Margin <= 0 {
		opts.Margin = 48
	}

	legendWidth := 0
	if opts.ShowLegend {
		legendWidth = 170
	}
	width := gs.Width*opts.CellSize + 2*opts.Margin + legendWidth
	height := gs.Height*opts.CellSize + 2*opts.Margin + 40

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#1a1a2e")

	headerY := opts.Margin / 2
	if opts.Title != "" {
		canvas.Text(width/2, headerY, opts.Title,
			"text-anchor:middle;font-size:18px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}
	if opts.ShowStats {
		stats := fmt.Sprintf("%dx%d | seed=%d | score=%d | moves=%d/%d | %s",
			gs.Width, gs.Height, gs.Seed, gs.Score, gs.MoveCount, gs.MoveLimit, gs.Status.String())
		canvas.Text(width/2, headerY+20, stats,
			"text-anchor:middle;font-size:11px;fill:#a0aec0;font-family:monospace")
	}

	originX, originY := opts.Margin, opts.Margin+40
	gs.ForEachCell(func(p geom.Position) {
		drawCell(canvas, gs, p, originX, originY, opts)
	})

	if opts.ShowLegend {
		drawLegend(canvas, width-legendWidth+10, originY)
	}

	canvas.End()
	return buf.Bytes(), nil
}

func drawCell(canvas *svg.SVG, gs *board.GameState, p geom.Position, originX, originY int, opts SVGOptions) {
	x := originX + p.X*opts.CellSize
	y := originY + p.Y*opts.CellSize

	if g := gs.MustGroundAt(p); g.Present() {
		canvas.Rect(x, y, opts.CellSize, opts.CellSize, "fill:#3d2b1f")
	}

	if t := gs.MustTileAt(p); !t.Empty() {
		canvas.Rect(x+2, y+2, opts.CellSize-4, opts.CellSize-4,
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1;rx:6", tileColor(t.Type)))
		if opts.ShowGlyphs {
			if glyph := bombGlyph(t.Bomb); glyph != "" {
				canvas.Text(x+opts.CellSize/2, y+opts.CellSize/2+5, glyph,
					"text-anchor:middle;font-size:20px;font-weight:bold;fill:#1a1a2e;font-family:monospace")
			}
		}
	}

	if c := gs.MustCoverAt(p); c.Present() {
		canvas.Rect(x, y, opts.CellSize, opts.CellSize, "fill:none;stroke:#718096;stroke-width:3;opacity:0.85;stroke-dasharray:4,3")
	}
}

// tileColor returns the swatch color for a tile type.
func tileColor(t board.TileType) string {
	switch t {
	case board.TileRed:
		return "#f56565"
	case board.TileGreen:
		return "#48bb78"
	case board.TileBlue:
		return "#4299e1"
	case board.TileYellow:
		return "#ecc94b"
	case board.TilePurple:
		return "#9f7aea"
	case board.TileOrange:
		return "#ed8936"
	case board.TileRainbow:
		return "#e2e8f0"
	default:
		return "#1a202c"
	}
}

// bombGlyph returns the single-letter marker drawn over a bombed tile.
func bombGlyph(b board.BombType) string {
	switch b {
	case board.BombHorizontal:
		return "H"
	case board.BombVertical:
		return "V"
	case board.BombSquare5x5:
		return "S"
	case board.BombUfo:
		return "U"
	case board.BombColor:
		return "C"
	default:
		return ""
	}
}

func drawLegend(canvas *svg.SVG, x, y int) {
	canvas.Rect(x-10, y-15, 160, 260, "fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Text(x, y, "Tiles", "font-size:13px;font-weight:bold;fill:#e2e8f0")
	y += 22

	colors := []board.TileType{board.TileRed, board.TileGreen, board.TileBlue, board.TileYellow, board.TilePurple, board.TileOrange, board.TileRainbow}
	for _, t := range colors {
		canvas.Circle(x+8, y, 7, fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1", tileColor(t)))
		canvas.Text(x+22, y+4, t.String(), "font-size:11px;fill:#cbd5e0")
		y += 18
	}

	y += 12
	canvas.Text(x, y, "Bombs", "font-size:13px;font-weight:bold;fill:#e2e8f0")
	y += 20
	bombs := []board.BombType{board.BombHorizontal, board.BombVertical, board.BombSquare5x5, board.BombUfo, board.BombColor}
	for _, b := range bombs {
		canvas.Text(x, y+4, fmt.Sprintf("%s = %s", bombGlyph(b), b.String()), "font-size:11px;fill:#cbd5e0;font-family:monospace")
		y += 16
	}
}

// SaveSVGToFile generates an SVG visualization and saves it to a file.
func SaveSVGToFile(gs *board.GameState, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(gs, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

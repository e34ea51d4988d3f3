// Package board holds the root game-state aggregate: the flat tile/cover/
// ground arrays, objective slots, and the value types stored in them (spec
// §3, §4.1). GameState is exclusively owned by one engine at a time and is
// mutated only by the engine during ticks.
package board

import "github.com/dshills/match3sim/pkg/geom"

// TileType is a tagged variant identifying a tile's color, or the absence of
// a tile. Rainbow is a color wildcard used by bombs.
type TileType int

const (
	TileNone TileType = iota
	TileRed
	TileGreen
	TileBlue
	TileYellow
	TilePurple
	TileOrange
	TileRainbow
)

// String implements fmt.Stringer for readable test output and SVG export.
func (t TileType) String() string {
	switch t {
	case TileNone:
		return "None"
	case TileRed:
		return "Red"
	case TileGreen:
		return "Green"
	case TileBlue:
		return "Blue"
	case TileYellow:
		return "Yellow"
	case TilePurple:
		return "Purple"
	case TileOrange:
		return "Orange"
	case TileRainbow:
		return "Rainbow"
	default:
		return "Unknown"
	}
}

// PlainColors lists every non-None, non-Rainbow tile type, the set a fresh
// board or a shuffle draws from.
var PlainColors = []TileType{TileRed, TileGreen, TileBlue, TileYellow, TilePurple, TileOrange}

// BombType is a tagged variant identifying the bomb a tile carries, or
// BombNone if the tile carries no bomb. A tile may be simultaneously
// coloured and bomb-charged.
type BombType int

const (
	BombNone BombType = iota
	BombHorizontal
	BombVertical
	BombSquare5x5
	BombUfo
	BombColor
)

func (b BombType) String() string {
	switch b {
	case BombNone:
		return "None"
	case BombHorizontal:
		return "Horizontal"
	case BombVertical:
		return "Vertical"
	case BombSquare5x5:
		return "Square5x5"
	case BombUfo:
		return "Ufo"
	case BombColor:
		return "Color"
	default:
		return "Unknown"
	}
}

// CoverType is a tagged variant identifying the obstacle overlaid on a
// tile's cell, or CoverNone if the cell is uncovered.
type CoverType int

const (
	CoverNone CoverType = iota
	CoverCage
	CoverChain
	CoverBubble
)

func (c CoverType) String() string {
	switch c {
	case CoverNone:
		return "None"
	case CoverCage:
		return "Cage"
	case CoverChain:
		return "Chain"
	case CoverBubble:
		return "Bubble"
	default:
		return "Unknown"
	}
}

// IsDynamicCoverType reports whether covers of this type travel with their
// host tile when it falls (spec §3 blocking table; currently only Bubble).
func IsDynamicCoverType(t CoverType) bool {
	return t == CoverBubble
}

// BlocksSwap reports whether a cover of this type (with health > 0) blocks
// a swap into/out of its cell.
func (c CoverType) BlocksSwap() bool {
	return c == CoverCage || c == CoverChain || c == CoverBubble
}

// BlocksMatch reports whether a cover of this type (with health > 0)
// prevents its cell from participating in match detection.
func (c CoverType) BlocksMatch() bool {
	return c == CoverCage
}

// BlocksFall reports whether a cover of this type (with health > 0)
// prevents the covered tile from falling under gravity.
func (c CoverType) BlocksFall() bool {
	return c == CoverCage || c == CoverChain
}

// GroundType is a tagged variant identifying the ground layer strictly
// below the tile. Ground never blocks gameplay; it is a destruction target
// for objectives.
type GroundType int

const (
	GroundNone GroundType = iota
	GroundIce
)

func (g GroundType) String() string {
	switch g {
	case GroundNone:
		return "None"
	case GroundIce:
		return "Ice"
	default:
		return "Unknown"
	}
}

// Tile is a single cell's tile payload, stored by value in a flat
// width*height array. A tile with Type == TileNone is an empty slot.
type Tile struct {
	ID        uint64
	Type      TileType
	Bomb      BombType
	GridPos   geom.Position
	RenderPos geom.Vec2
	Velocity  geom.Vec2
	IsFalling bool
}

// Empty reports whether the cell holds no tile.
func (t Tile) Empty() bool {
	return t.Type == TileNone
}

// Cover is a single cell's cover payload, stored in a parallel array. A
// non-None cover with Health == 0 is treated as absent (no blocking
// effect observable).
type Cover struct {
	Type      CoverType
	Health    uint8
	IsDynamic bool
}

// Present reports whether this cover currently blocks anything.
func (c Cover) Present() bool {
	return c.Type != CoverNone && c.Health > 0
}

// Ground is a single cell's ground payload, stored in a parallel array.
type Ground struct {
	Type   GroundType
	Health uint8
}

// Present reports whether this ground is still a valid destruction target.
func (g Ground) Present() bool {
	return g.Type != GroundNone && g.Health > 0
}

// MatchShape classifies the geometry a MatchGroup was detected from.
type MatchShape int

const (
	ShapeSimple3 MatchShape = iota
	ShapeLine4
	ShapeLine5
	ShapeSquare
	ShapeTL
	ShapePlus
)

func (s MatchShape) String() string {
	switch s {
	case ShapeSimple3:
		return "Simple3"
	case ShapeLine4:
		return "Line4"
	case ShapeLine5:
		return "Line5"
	case ShapeSquare:
		return "Square"
	case ShapeTL:
		return "TL"
	case ShapePlus:
		return "Plus"
	default:
		return "Unknown"
	}
}

// MatchGroup is a transient, per-tick record of one destruction event: a
// subset of a component the engine treats as a single unit, possibly
// spawning a bomb at BombOrigin.
type MatchGroup struct {
	Type           TileType
	Positions      map[geom.Position]bool
	Shape          MatchShape
	SpawnBombType  BombType
	BombOrigin     *geom.Position
}

// NewMatchGroup constructs a MatchGroup from a position slice.
func NewMatchGroup(t TileType, shape MatchShape, positions []geom.Position) MatchGroup {
	set := make(map[geom.Position]bool, len(positions))
	for _, p := range positions {
		set[p] = true
	}
	return MatchGroup{Type: t, Positions: set, Shape: shape}
}

// PositionSlice returns the group's positions as a stable-ordered slice
// (Y asc, X asc), the same ordering the bomb generator uses for its
// deterministic origin fallback.
func (g MatchGroup) PositionSlice() []geom.Position {
	out := make([]geom.Position, 0, len(g.Positions))
	for p := range g.Positions {
		out = append(out, p)
	}
	sortPositionsYX(out)
	return out
}

func sortPositionsYX(ps []geom.Position) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0; j-- {
			a, b := ps[j-1], ps[j]
			if a.Y > b.Y || (a.Y == b.Y && a.X > b.X) {
				ps[j-1], ps[j] = ps[j], ps[j-1]
			} else {
				break
			}
		}
	}
}

// ElementKind identifies what an objective tracks destruction of.
type ElementKind int

const (
	ElementTile ElementKind = iota
	ElementCover
	ElementGround
)

// ObjectiveProgress is one of the up-to-4 fixed objective slots stored in
// GameState.
type ObjectiveProgress struct {
	TargetLayer   ElementKind
	ElementType   int // interpreted per TargetLayer: TileType, CoverType, or GroundType
	TargetCount   int
	CurrentCount  int
	Active        bool
	Completed     bool
}

// LevelStatus is the level's overall outcome state.
type LevelStatus int

const (
	StatusInProgress LevelStatus = iota
	StatusVictory
	StatusDefeat
)

func (s LevelStatus) String() string {
	switch s {
	case StatusInProgress:
		return "InProgress"
	case StatusVictory:
		return "Victory"
	case StatusDefeat:
		return "Defeat"
	default:
		return "Unknown"
	}
}

const MaxObjectives = 4

package board

import (
	"fmt"

	"github.com/dshills/match3sim/pkg/errs"
	"github.com/dshills/match3sim/pkg/geom"
	"github.com/dshills/match3sim/pkg/rng"
)

// GameState is the root aggregate exclusively owned by one engine at a
// time. It is created from a LevelConfig by NewGameStateFromLevelConfig
// (or as an empty board by NewGameState), mutated only by the engine
// during ticks, and snapshotted by value.
type GameState struct {
	Width, Height  int
	TileTypesCount int

	Seed uint64
	RNG  *rng.RNG

	Score      int64
	MoveCount  int
	MoveLimit  int
	SelectedAt *geom.Position

	// TargetDifficulty is the level's configured difficulty dial, ∈[0,1],
	// consumed by the spawn model's predict ctx (spec §4.8). Zero value
	// for boards built directly via NewGameState rather than from a
	// LevelConfig.
	TargetDifficulty float64

	Status LevelStatus

	Objectives [MaxObjectives]ObjectiveProgress

	tiles   []Tile
	covers  []Cover
	grounds []Ground

	// NextTileID is strictly greater than any live tile's ID (invariant 2).
	NextTileID uint64
}

// NewGameState allocates an empty board of the given dimensions, seeded
// from seed. Every cell starts as an empty tile with no cover and no
// ground. Callers (typically a LevelConfig factory) populate cells via
// SpawnTile/SetTile/SetCover/SetGround afterward.
func NewGameState(width, height, tileTypesCount int, seed uint64) *GameState {
	n := width * height
	gs := &GameState{
		Width:          width,
		Height:         height,
		TileTypesCount: tileTypesCount,
		Seed:           seed,
		RNG:            rng.New(seed),
		Status:         StatusInProgress,
		tiles:          make([]Tile, n),
		covers:         make([]Cover, n),
		grounds:        make([]Ground, n),
		NextTileID:     1,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gs.tiles[y*width+x] = Tile{GridPos: geom.Pos(x, y)}
		}
	}
	return gs
}

func (gs *GameState) bounds() geom.Bounds {
	return geom.Bounds{Width: gs.Width, Height: gs.Height}
}

// InBounds reports whether p is a valid cell.
func (gs *GameState) InBounds(p geom.Position) bool {
	return gs.bounds().Contains(p)
}

func (gs *GameState) index(p geom.Position) (int, error) {
	if !gs.InBounds(p) {
		return 0, fmt.Errorf("board: position %s out of range [0,%d)x[0,%d): %w", p, gs.Width, gs.Height, errs.ErrInvalidPosition)
	}
	return gs.bounds().Index(p), nil
}

// TileAt returns the tile at p by value. Returns an error wrapping
// errs.ErrInvalidPosition if p is out of bounds.
func (gs *GameState) TileAt(p geom.Position) (Tile, error) {
	idx, err := gs.index(p)
	if err != nil {
		return Tile{}, err
	}
	return gs.tiles[idx], nil
}

// MustTileAt returns the tile at p, or the zero Tile if p is out of
// bounds. Used on hot paths (match scanning, gravity) that have already
// range-checked their loop bounds and want to avoid the error allocation.
func (gs *GameState) MustTileAt(p geom.Position) Tile {
	if !gs.InBounds(p) {
		return Tile{}
	}
	return gs.tiles[gs.bounds().Index(p)]
}

// SetTile overwrites the tile at p.
func (gs *GameState) SetTile(p geom.Position, t Tile) error {
	idx, err := gs.index(p)
	if err != nil {
		return err
	}
	t.GridPos = p
	gs.tiles[idx] = t
	return nil
}

// SpawnTile creates a fresh tile of the given color at p, assigning it the
// next monotonic ID (invariant 2) and advancing NextTileID.
func (gs *GameState) SpawnTile(p geom.Position, color TileType) (Tile, error) {
	if !gs.InBounds(p) {
		return Tile{}, fmt.Errorf("board: spawn at %s: %w", p, errs.ErrInvalidPosition)
	}
	id := gs.NextTileID
	gs.NextTileID++
	t := Tile{ID: id, Type: color, GridPos: p}
	idx := gs.bounds().Index(p)
	gs.tiles[idx] = t
	return t, nil
}

// ClearTile empties the cell at p (type None, no bomb, fresh ID-less
// slot). Does not touch cover or ground.
func (gs *GameState) ClearTile(p geom.Position) error {
	idx, err := gs.index(p)
	if err != nil {
		return err
	}
	gs.tiles[idx] = Tile{GridPos: p}
	return nil
}

// CoverAt returns the cover at p.
func (gs *GameState) CoverAt(p geom.Position) (Cover, error) {
	idx, err := gs.index(p)
	if err != nil {
		return Cover{}, err
	}
	return gs.covers[idx], nil
}

// MustCoverAt mirrors MustTileAt for covers.
func (gs *GameState) MustCoverAt(p geom.Position) Cover {
	if !gs.InBounds(p) {
		return Cover{}
	}
	return gs.covers[gs.bounds().Index(p)]
}

// SetCover sets the cover at p, enforcing the dynamic-cover invariant from
// spec §3: IsDynamic must equal IsDynamicCoverType(cover.Type) regardless
// of what the caller passed in.
func (gs *GameState) SetCover(p geom.Position, c Cover) error {
	idx, err := gs.index(p)
	if err != nil {
		return err
	}
	c.IsDynamic = IsDynamicCoverType(c.Type)
	gs.covers[idx] = c
	return nil
}

// GroundAt returns the ground at p.
func (gs *GameState) GroundAt(p geom.Position) (Ground, error) {
	idx, err := gs.index(p)
	if err != nil {
		return Ground{}, err
	}
	return gs.grounds[idx], nil
}

// MustGroundAt mirrors MustTileAt for ground.
func (gs *GameState) MustGroundAt(p geom.Position) Ground {
	if !gs.InBounds(p) {
		return Ground{}
	}
	return gs.grounds[gs.bounds().Index(p)]
}

// SetGround sets the ground at p.
func (gs *GameState) SetGround(p geom.Position, g Ground) error {
	idx, err := gs.index(p)
	if err != nil {
		return err
	}
	gs.grounds[idx] = g
	return nil
}

// DamageCover reduces the cover at p by one point of health, clearing it
// entirely once health reaches 0 (spec §3 cover system). Reports whether
// the cover was present and destroyed by this call; a no-op on an absent
// cover reports false.
func (gs *GameState) DamageCover(p geom.Position) (bool, error) {
	c, err := gs.CoverAt(p)
	if err != nil {
		return false, err
	}
	if !c.Present() {
		return false, nil
	}
	c.Health--
	if c.Health == 0 {
		c = Cover{}
	}
	if err := gs.SetCover(p, c); err != nil {
		return false, err
	}
	return c.Type == CoverNone, nil
}

// DamageGround reduces the ground at p by one point of health, clearing
// it entirely once health reaches 0 (spec §3 ground system). Reports
// whether the ground was present and destroyed by this call.
func (gs *GameState) DamageGround(p geom.Position) (bool, error) {
	g, err := gs.GroundAt(p)
	if err != nil {
		return false, err
	}
	if !g.Present() {
		return false, nil
	}
	g.Health--
	if g.Health == 0 {
		g = Ground{}
	}
	if err := gs.SetGround(p, g); err != nil {
		return false, err
	}
	return g.Type == GroundNone, nil
}

// MoveDynamicCover transfers the cover at from to to (used when gravity
// lands a tile that carries a dynamic/Bubble cover) and clears the source
// cell's cover.
func (gs *GameState) MoveDynamicCover(from, to geom.Position) error {
	c, err := gs.CoverAt(from)
	if err != nil {
		return err
	}
	if !c.IsDynamic {
		return nil
	}
	if err := gs.SetCover(to, c); err != nil {
		return err
	}
	return gs.SetCover(from, Cover{})
}

// Clone deep-copies the entire state, including RNG state, so that the
// clone is a fully independent board (spec §4.13, §9 "Determinism under
// cloning"). The caller is responsible for installing a Null event
// collector on any engine wrapping the clone.
func (gs *GameState) Clone() *GameState {
	out := &GameState{
		Width:            gs.Width,
		Height:           gs.Height,
		TileTypesCount:   gs.TileTypesCount,
		Seed:             gs.Seed,
		RNG:              gs.RNG.Clone(),
		Score:            gs.Score,
		MoveCount:        gs.MoveCount,
		MoveLimit:        gs.MoveLimit,
		TargetDifficulty: gs.TargetDifficulty,
		Status:           gs.Status,
		Objectives:       gs.Objectives,
		NextTileID:       gs.NextTileID,
		tiles:            append([]Tile(nil), gs.tiles...),
		covers:           append([]Cover(nil), gs.covers...),
		grounds:          append([]Ground(nil), gs.grounds...),
	}
	if gs.SelectedAt != nil {
		p := *gs.SelectedAt
		out.SelectedAt = &p
	}
	return out
}

// ForEachCell iterates every cell in row-major order, invoking fn with its
// position. Iteration order is deterministic (top-to-bottom, left-to-right)
// matching the gravity ordering guarantee in spec §4.9.
func (gs *GameState) ForEachCell(fn func(p geom.Position)) {
	for y := 0; y < gs.Height; y++ {
		for x := 0; x < gs.Width; x++ {
			fn(geom.Pos(x, y))
		}
	}
}

// ColorCounts returns the count of each plain color currently on the
// board. Used by the spawn model's diversity guard and the shuffler.
func (gs *GameState) ColorCounts() map[TileType]int {
	counts := make(map[TileType]int, len(PlainColors))
	for _, c := range PlainColors {
		counts[c] = 0
	}
	for _, t := range gs.tiles {
		if t.Type == TileNone || t.Type == TileRainbow {
			continue
		}
		counts[t.Type]++
	}
	return counts
}

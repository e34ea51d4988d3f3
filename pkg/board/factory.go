package board

import (
	"fmt"

	"github.com/dshills/match3sim/pkg/config"
	"github.com/dshills/match3sim/pkg/geom"
)

// NewGameStateFromLevelConfig is the factory spec §3's "Lifecycle" section
// describes: it validates a LevelConfig and builds a GameState from it.
// NewGameState stays exported and is also called from other packages
// (snapshot decoding, tests) to build a board directly.
func NewGameStateFromLevelConfig(cfg *config.LevelConfig) (*GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("board: invalid level config: %w", err)
	}

	gs := NewGameState(cfg.Width, cfg.Height, cfg.TileTypesCount, cfg.Seed)
	gs.MoveLimit = cfg.MoveLimit
	gs.TargetDifficulty = cfg.TargetDifficulty

	for i, o := range cfg.Objectives {
		if i >= MaxObjectives {
			break
		}
		layer, elem, err := parseObjectiveTarget(o.TargetLayer, o.ElementType)
		if err != nil {
			return nil, fmt.Errorf("board: objective %d: %w", i, err)
		}
		gs.Objectives[i] = ObjectiveProgress{
			TargetLayer: layer,
			ElementType: elem,
			TargetCount: o.TargetCount,
			Active:      true,
		}
	}

	for _, cell := range cfg.InitialLayout {
		p := geom.Pos(cell.X, cell.Y)
		tt, err := ParseTileType(cell.Tile)
		if err != nil {
			return nil, fmt.Errorf("board: initial layout at %s: %w", p, err)
		}
		t, err := gs.SpawnTile(p, tt)
		if err != nil {
			return nil, err
		}
		if cell.Bomb != "" {
			bt, err := ParseBombType(cell.Bomb)
			if err != nil {
				return nil, fmt.Errorf("board: initial layout at %s: %w", p, err)
			}
			t.Bomb = bt
			if err := gs.SetTile(p, t); err != nil {
				return nil, err
			}
		}
	}

	for _, cv := range cfg.Covers {
		p := geom.Pos(cv.X, cv.Y)
		ct, err := ParseCoverType(cv.Type)
		if err != nil {
			return nil, fmt.Errorf("board: cover at %s: %w", p, err)
		}
		if err := gs.SetCover(p, Cover{Type: ct, Health: cv.Health}); err != nil {
			return nil, err
		}
	}

	for _, gr := range cfg.Grounds {
		p := geom.Pos(gr.X, gr.Y)
		gt, err := ParseGroundType(gr.Type)
		if err != nil {
			return nil, fmt.Errorf("board: ground at %s: %w", p, err)
		}
		if err := gs.SetGround(p, Ground{Type: gt, Health: gr.Health}); err != nil {
			return nil, err
		}
	}

	return gs, nil
}

// ParseTileType parses a config-file tile name into a TileType.
func ParseTileType(s string) (TileType, error) {
	switch s {
	case "None", "":
		return TileNone, nil
	case "Red":
		return TileRed, nil
	case "Green":
		return TileGreen, nil
	case "Blue":
		return TileBlue, nil
	case "Yellow":
		return TileYellow, nil
	case "Purple":
		return TilePurple, nil
	case "Orange":
		return TileOrange, nil
	case "Rainbow":
		return TileRainbow, nil
	default:
		return TileNone, fmt.Errorf("unknown tile type %q", s)
	}
}

// ParseBombType parses a config-file bomb name into a BombType.
func ParseBombType(s string) (BombType, error) {
	switch s {
	case "None", "":
		return BombNone, nil
	case "Horizontal":
		return BombHorizontal, nil
	case "Vertical":
		return BombVertical, nil
	case "Square5x5":
		return BombSquare5x5, nil
	case "Ufo":
		return BombUfo, nil
	case "Color":
		return BombColor, nil
	default:
		return BombNone, fmt.Errorf("unknown bomb type %q", s)
	}
}

// ParseCoverType parses a config-file cover name into a CoverType.
func ParseCoverType(s string) (CoverType, error) {
	switch s {
	case "None", "":
		return CoverNone, nil
	case "Cage":
		return CoverCage, nil
	case "Chain":
		return CoverChain, nil
	case "Bubble":
		return CoverBubble, nil
	default:
		return CoverNone, fmt.Errorf("unknown cover type %q", s)
	}
}

// ParseGroundType parses a config-file ground name into a GroundType.
func ParseGroundType(s string) (GroundType, error) {
	switch s {
	case "None", "":
		return GroundNone, nil
	case "Ice":
		return GroundIce, nil
	default:
		return GroundNone, fmt.Errorf("unknown ground type %q", s)
	}
}

func parseObjectiveTarget(layer, elem string) (ElementKind, int, error) {
	switch layer {
	case "tile":
		tt, err := ParseTileType(elem)
		return ElementTile, int(tt), err
	case "cover":
		ct, err := ParseCoverType(elem)
		return ElementCover, int(ct), err
	case "ground":
		gt, err := ParseGroundType(elem)
		return ElementGround, int(gt), err
	default:
		return 0, 0, fmt.Errorf("unknown target layer %q", layer)
	}
}

// Package config defines the simulation's two configuration surfaces
// (LevelConfig, SimConfig), loaded the way the teacher loads dungeon
// generation config: YAML with struct tags, validated range-by-range with
// wrapped errors (pkg/dungeon/config.go's idiom).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CellSpec places a single tile (and optionally a bomb) at a position in
// the initial layout.
type CellSpec struct {
	X     int    `yaml:"x" json:"x"`
	Y     int    `yaml:"y" json:"y"`
	Tile  string `yaml:"tile" json:"tile"`
	Bomb  string `yaml:"bomb,omitempty" json:"bomb,omitempty"`
}

// CoverSpec places a cover at a position with starting health.
type CoverSpec struct {
	X      int    `yaml:"x" json:"x"`
	Y      int    `yaml:"y" json:"y"`
	Type   string `yaml:"type" json:"type"`
	Health uint8  `yaml:"health" json:"health"`
}

// GroundSpec places ground at a position with starting health.
type GroundSpec struct {
	X      int    `yaml:"x" json:"x"`
	Y      int    `yaml:"y" json:"y"`
	Type   string `yaml:"type" json:"type"`
	Health uint8  `yaml:"health" json:"health"`
}

// ObjectiveSpec describes one of the up to 4 objective slots.
type ObjectiveSpec struct {
	TargetLayer string `yaml:"targetLayer" json:"targetLayer"` // "tile" | "cover" | "ground"
	ElementType string `yaml:"elementType" json:"elementType"`
	TargetCount int    `yaml:"targetCount" json:"targetCount"`
}

// LevelConfig specifies a single level's generation parameters: board
// size, move budget, difficulty target, objectives, and initial layout.
type LevelConfig struct {
	Width          int `yaml:"width" json:"width"`
	Height         int `yaml:"height" json:"height"`
	TileTypesCount int `yaml:"tileTypesCount" json:"tileTypesCount"`

	MoveLimit        int     `yaml:"moveLimit" json:"moveLimit"`
	TargetDifficulty float64 `yaml:"targetDifficulty" json:"targetDifficulty"`

	Seed uint64 `yaml:"seed" json:"seed"`

	Objectives []ObjectiveSpec `yaml:"objectives,omitempty" json:"objectives,omitempty"`

	InitialLayout []CellSpec   `yaml:"initialLayout,omitempty" json:"initialLayout,omitempty"`
	Covers        []CoverSpec  `yaml:"covers,omitempty" json:"covers,omitempty"`
	Grounds       []GroundSpec `yaml:"grounds,omitempty" json:"grounds,omitempty"`
}

// SimConfig specifies engine-wide simulation parameters (spec §6).
type SimConfig struct {
	SwapAnimationDurationSeconds float64 `yaml:"swapAnimationDurationSeconds" json:"swapAnimationDurationSeconds"`
	GravityAcceleration          float64 `yaml:"gravityAcceleration" json:"gravityAcceleration"`
	TickRateHz                   float64 `yaml:"tickRateHz" json:"tickRateHz"`
	MaxStabilityTicks            int     `yaml:"maxStabilityTicks" json:"maxStabilityTicks"`
	// UfoTargetCount is N in "N random targets" for a UFO bomb (spec
	// §4.7), configurable per level with a default of 3.
	UfoTargetCount int `yaml:"ufoTargetCount" json:"ufoTargetCount"`
}

// DefaultSimConfig returns the spec §6 defaults.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		SwapAnimationDurationSeconds: 0.15,
		GravityAcceleration:          30.0,
		TickRateHz:                   60,
		MaxStabilityTicks:            10000,
		UfoTargetCount:               3,
	}
}

// LoadLevelConfig reads and validates a YAML level config file, mirroring
// dungeon.LoadConfig.
func LoadLevelConfig(path string) (*LevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level config file: %w", err)
	}
	return LoadLevelConfigFromBytes(data)
}

// LoadLevelConfigFromBytes parses YAML from bytes, useful for tests and
// programmatic config generation.
func LoadLevelConfigFromBytes(data []byte) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing level YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks all LevelConfig constraints (spec §6).
func (c *LevelConfig) Validate() error {
	if c.Width < 3 || c.Width > 12 {
		return fmt.Errorf("width must be in range [3,12], got %d", c.Width)
	}
	if c.Height < 3 || c.Height > 12 {
		return fmt.Errorf("height must be in range [3,12], got %d", c.Height)
	}
	if c.TileTypesCount < 3 || c.TileTypesCount > 7 {
		return fmt.Errorf("tileTypesCount must be in range [3,7], got %d", c.TileTypesCount)
	}
	if c.MoveLimit < 1 || c.MoveLimit > 99 {
		return fmt.Errorf("moveLimit must be in range [1,99], got %d", c.MoveLimit)
	}
	if c.TargetDifficulty < 0.0 || c.TargetDifficulty > 1.0 {
		return fmt.Errorf("targetDifficulty must be in range [0.0,1.0], got %f", c.TargetDifficulty)
	}
	if len(c.Objectives) > 4 {
		return fmt.Errorf("objectives: at most 4 allowed, got %d", len(c.Objectives))
	}
	for i, o := range c.Objectives {
		if o.TargetCount <= 0 {
			return fmt.Errorf("objectives[%d]: targetCount must be positive, got %d", i, o.TargetCount)
		}
		switch o.TargetLayer {
		case "tile", "cover", "ground":
		default:
			return fmt.Errorf("objectives[%d]: targetLayer must be one of tile|cover|ground, got %q", i, o.TargetLayer)
		}
	}
	for i, cell := range c.InitialLayout {
		if cell.X < 0 || cell.X >= c.Width || cell.Y < 0 || cell.Y >= c.Height {
			return fmt.Errorf("initialLayout[%d]: position (%d,%d) out of bounds", i, cell.X, cell.Y)
		}
	}
	return nil
}

// Validate checks all SimConfig constraints.
func (c *SimConfig) Validate() error {
	if c.SwapAnimationDurationSeconds < 0 {
		return fmt.Errorf("swapAnimationDurationSeconds must be >= 0, got %f", c.SwapAnimationDurationSeconds)
	}
	if c.GravityAcceleration <= 0 {
		return fmt.Errorf("gravityAcceleration must be > 0, got %f", c.GravityAcceleration)
	}
	if c.TickRateHz <= 0 {
		return fmt.Errorf("tickRateHz must be > 0, got %f", c.TickRateHz)
	}
	if c.MaxStabilityTicks <= 0 {
		return fmt.Errorf("maxStabilityTicks must be > 0, got %d", c.MaxStabilityTicks)
	}
	if c.UfoTargetCount <= 0 {
		return fmt.Errorf("ufoTargetCount must be > 0, got %d", c.UfoTargetCount)
	}
	return nil
}

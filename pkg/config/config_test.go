package config_test

import (
	"strings"
	"testing"

	"github.com/dshills/match3sim/pkg/config"
)

func validYAML() string {
	return `
width: 8
height: 8
tileTypesCount: 5
moveLimit: 20
targetDifficulty: 0.5
seed: 42
objectives:
  - targetLayer: tile
    elementType: "1"
    targetCount: 10
`
}

func TestLoadLevelConfigFromBytes_ParsesValidYAML(t *testing.T) {
	cfg, err := config.LoadLevelConfigFromBytes([]byte(validYAML()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 8 || cfg.TileTypesCount != 5 {
		t.Fatalf("unexpected dimensions: %+v", cfg)
	}
	if len(cfg.Objectives) != 1 || cfg.Objectives[0].TargetCount != 10 {
		t.Fatalf("unexpected objectives: %+v", cfg.Objectives)
	}
}

func TestLoadLevelConfigFromBytes_RejectsMalformedYAML(t *testing.T) {
	if _, err := config.LoadLevelConfigFromBytes([]byte("width: [this is not valid")); err == nil {
		t.Fatal("expected a parse error for malformed YAML")
	}
}

func TestLevelConfig_ValidateRejectsOutOfRangeWidth(t *testing.T) {
	cfg := &config.LevelConfig{Width: 2, Height: 5, TileTypesCount: 5, MoveLimit: 10, TargetDifficulty: 0.5}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "width") {
		t.Fatalf("expected a width range error, got %v", err)
	}
}

func TestLevelConfig_ValidateRejectsTooManyObjectives(t *testing.T) {
	cfg := &config.LevelConfig{
		Width: 5, Height: 5, TileTypesCount: 5, MoveLimit: 10, TargetDifficulty: 0.5,
		Objectives: make([]config.ObjectiveSpec, 5),
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "objectives") {
		t.Fatalf("expected an objectives-count error, got %v", err)
	}
}

func TestLevelConfig_ValidateRejectsOutOfBoundsInitialLayout(t *testing.T) {
	cfg := &config.LevelConfig{
		Width: 5, Height: 5, TileTypesCount: 5, MoveLimit: 10, TargetDifficulty: 0.5,
		InitialLayout: []config.CellSpec{{X: 10, Y: 10, Tile: "Red"}},
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "out of bounds") {
		t.Fatalf("expected an out-of-bounds layout error, got %v", err)
	}
}

func TestLevelConfig_ValidateRejectsUnknownObjectiveLayer(t *testing.T) {
	cfg := &config.LevelConfig{
		Width: 5, Height: 5, TileTypesCount: 5, MoveLimit: 10, TargetDifficulty: 0.5,
		Objectives: []config.ObjectiveSpec{{TargetLayer: "unknown", TargetCount: 1}},
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "targetLayer") {
		t.Fatalf("expected a targetLayer error, got %v", err)
	}
}

func TestDefaultSimConfig_IsValid(t *testing.T) {
	cfg := config.DefaultSimConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default sim config should validate cleanly, got %v", err)
	}
}

func TestSimConfig_ValidateRejectsNonPositiveTickRate(t *testing.T) {
	cfg := &config.SimConfig{SwapAnimationDurationSeconds: 0.1, GravityAcceleration: 30, TickRateHz: 0, MaxStabilityTicks: 100}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a zero tick rate")
	}
}

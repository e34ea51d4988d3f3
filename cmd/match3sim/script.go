package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/config"
	"github.com/dshills/match3sim/pkg/engine"
	"github.com/dshills/match3sim/pkg/events"
	"github.com/dshills/match3sim/pkg/export"
	"github.com/dshills/match3sim/pkg/geom"
)

// scriptCommand is one line of a -commands JSON file: either a swap
// ({"swap": {"from": {"x":.., "y":..}, "to": {...}}}) or a tick
// ({"tick": 0.016}).
type scriptCommand struct {
	Swap *struct {
		From scriptPos `json:"from"`
		To   scriptPos `json:"to"`
	} `json:"swap,omitempty"`
	Tick *float64 `json:"tick,omitempty"`
}

type scriptPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func loadScript(path string) ([]scriptCommand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading command script: %w", err)
	}
	var cmds []scriptCommand
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("parsing command script: %w", err)
	}
	return cmds, nil
}

// runScript loads a level, optionally plays a scripted command stream
// against it, then dumps the collected event trace and final board
// state to outputDir.
func runScript(cfg *config.LevelConfig, commandPath, outputDir, format string, verbose bool) error {
	gs, err := board.NewGameStateFromLevelConfig(cfg)
	if err != nil {
		return fmt.Errorf("constructing board: %w", err)
	}

	simCfg := config.DefaultSimConfig()
	eng := engine.New(gs, simCfg, nil)
	collector := events.NewBuffered()
	eng.SetCollector(collector)

	if commandPath != "" {
		cmds, err := loadScript(commandPath)
		if err != nil {
			return err
		}
		for i, cmd := range cmds {
			switch {
			case cmd.Swap != nil:
				from := geom.Pos(cmd.Swap.From.X, cmd.Swap.From.Y)
				to := geom.Pos(cmd.Swap.To.X, cmd.Swap.To.Y)
				if err := eng.Swap(from, to); err != nil {
					if verbose {
						fmt.Fprintf(os.Stderr, "command %d: swap rejected: %v\n", i, err)
					}
					continue
				}
				if err := eng.RunUntilStable(1.0/simCfg.TickRateHz, simCfg.MaxStabilityTicks); err != nil {
					return fmt.Errorf("command %d: %w", i, err)
				}
			case cmd.Tick != nil:
				eng.Tick(*cmd.Tick)
			}
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := dumpEvents(filepath.Join(outputDir, "events.json"), collector.Drain()); err != nil {
		return err
	}

	switch format {
	case "svg":
		return dumpSVG(filepath.Join(outputDir, "board.svg"), gs)
	default:
		return export.SaveJSONToFile(gs, filepath.Join(outputDir, "state.json"))
	}
}

func dumpEvents(path string, evs []events.Event) error {
	data, err := json.MarshalIndent(evs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling events: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
